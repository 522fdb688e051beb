// Package client contains the provider adapters consulted by the
// resolvers: the yt-dlp extractor process, the keyless InnerTube search
// API, the optional YouTube Data API and the headless browser scraper.
// Every adapter enforces its own timeout; the resolvers above them do not
// bound provider calls themselves.
package client

import (
	"context"
	"time"
)

// SearchKind selects the item type requested from a search provider.
type SearchKind string

const (
	SearchKindVideo   SearchKind = "video"
	SearchKindChannel SearchKind = "channel"
)

// ExtractedChannel is the raw channel record produced by the extractor
// process. Fields mirror yt-dlp print templates; "NA" values are already
// normalized to empty strings.
type ExtractedChannel struct {
	ID          string
	Title       string
	Description string
	Uploader    string
	UploaderID  string
	ChannelURL  string
}

// ExtractedVideo is the raw video record produced by the extractor process.
type ExtractedVideo struct {
	ID              string
	Title           string
	Description     string
	Uploader        string
	UploaderID      string
	DurationSeconds int64
	ViewCount       int64
	LikeCount       int64
	CommentCount    int64
	UploadDate      time.Time
	ThumbnailURL    string
	Tags            []string
}

// ChannelStats aggregates per-channel numbers derived from the
// extractor's video listing. SubscriberText is the raw human-readable
// form when the provider exposes one, empty otherwise.
type ChannelStats struct {
	VideoCount     int64
	TotalViews     int64
	SubscriberText string
}

// ExtractorClient wraps a command-line media metadata extractor.
type ExtractorClient interface {
	// IsAvailable reports whether the extractor binary can be spawned.
	IsAvailable(ctx context.Context) bool

	// GetChannelInfo extracts channel identity from the channel page.
	GetChannelInfo(ctx context.Context, channelURL string) (*ExtractedChannel, error)

	// GetVideos lists up to limit videos of a channel without downloading.
	GetVideos(ctx context.Context, channelURL string, limit int) ([]*ExtractedVideo, error)

	// GetVideoInfo fetches full details for a single video.
	GetVideoInfo(ctx context.Context, videoURL string) (*ExtractedVideo, error)

	// GetChannelStats derives aggregate stats from the channel's listing.
	GetChannelStats(ctx context.Context, channelURL string) (*ChannelStats, error)
}

// SearchClient wraps a third-party search API returning loosely-typed
// items; the same logical field may appear under several different keys
// depending on item type, so callers go through the Item extractors.
type SearchClient interface {
	// Connect establishes a connection to the search API.
	Connect(ctx context.Context) error

	// Disconnect closes the connection to the search API.
	Disconnect(ctx context.Context) error

	// Search runs a keyword search scoped to the given item kind.
	Search(ctx context.Context, term string, kind SearchKind, limit int) ([]Item, error)

	// BrowseChannel fetches one channel's page data as a channel item.
	BrowseChannel(ctx context.Context, channelID string) (Item, error)

	// ChannelVideos lists video items belonging to one channel.
	ChannelVideos(ctx context.Context, channelID string, limit int) ([]Item, error)
}

// ScrapedChannel holds the raw selector-extracted fields of a channel
// page. Count fields are human-readable strings ("1.2K subscribers").
type ScrapedChannel struct {
	Title          string
	Description    string
	SubscriberText string
	VideoCountText string
	ViewCountText  string
	ThumbnailURL   string
	JoinedYear     int
}

// ScrapedVideo is one tile of a channel's video grid.
type ScrapedVideo struct {
	VideoID   string
	Title     string
	ViewsText string
}

// BrowserClient wraps a headless browser session. A single session may be
// reused across multiple scrapes within one batch; the owner must call
// Close on all exit paths.
type BrowserClient interface {
	// ScrapeChannelPage renders the channel page and extracts its fields.
	// Returns nil (no error) when no channel title could be located.
	ScrapeChannelPage(ctx context.Context, channelURL string) (*ScrapedChannel, error)

	// ScrapeChannelVideos renders the channel's video grid and extracts
	// up to max tiles.
	ScrapeChannelVideos(ctx context.Context, channelURL string, max int) ([]ScrapedVideo, error)

	// Close releases the browser session.
	Close() error
}
