// Package model holds the value objects shared by the scraping pipeline.
package model

import "time"

// ChannelInfo is the canonical channel record produced by the resolvers.
// ChannelID uniquely identifies a channel across all providers; resolvers
// normalize URL-embedded IDs and raw IDs to the same value before the
// record is deduplicated, filtered or persisted.
type ChannelInfo struct {
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CustomURL   string `json:"custom_url,omitempty"`

	// PublishedAt may be a synthetic recent timestamp when no provider
	// could supply the real creation date. Treat it as an approximation.
	PublishedAt time.Time `json:"published_at"`

	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	BannerURL    string `json:"banner_url,omitempty"`
	Country      string `json:"country"`
	Language     string `json:"language"`

	SubscriberCount int64 `json:"subscriber_count"`
	VideoCount      int64 `json:"video_count"`
	ViewCount       int64 `json:"view_count"`
}

// AgeDays returns the channel age in whole days at the given instant,
// floor rounded.
func (c *ChannelInfo) AgeDays(now time.Time) int {
	if c.PublishedAt.IsZero() || now.Before(c.PublishedAt) {
		return 0
	}
	return int(now.Sub(c.PublishedAt).Hours() / 24)
}

// ChannelURL returns the canonical watch-page URL for the channel.
func (c *ChannelInfo) ChannelURL() string {
	return "https://www.youtube.com/channel/" + c.ChannelID
}

// VideoInfo is a single video belonging to a channel. Missing numeric
// fields default to zero, never to a sentinel.
type VideoInfo struct {
	VideoID      string    `json:"video_id"`
	ChannelID    string    `json:"channel_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	PublishedAt  time.Time `json:"published_at"`

	DurationSeconds int64 `json:"duration_seconds"`
	ViewCount       int64 `json:"view_count"`
	LikeCount       int64 `json:"like_count"`
	CommentCount    int64 `json:"comment_count"`

	Language string   `json:"language,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// VideoURL returns the canonical watch URL for the video.
func (v *VideoInfo) VideoURL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// SearchFilters is the caller-supplied trend criteria for channel discovery.
type SearchFilters struct {
	MaxAgeDays     int      `json:"max_age_days"`
	MinSubscribers int64    `json:"min_subscribers"`
	MinViews       int64    `json:"min_views"`
	Country        string   `json:"country"`
	Keywords       []string `json:"keywords"`
	MaxChannels    int      `json:"max_channels"`
}

// DefaultSearchFilters returns the filters used when the caller supplies none.
func DefaultSearchFilters() SearchFilters {
	return SearchFilters{
		MaxAgeDays:     30,
		MinSubscribers: 1000,
		MinViews:       10000,
		Country:        "US",
		Keywords:       nil,
		MaxChannels:    10,
	}
}

// ChannelInsight is one per-channel entry of a trend report.
type ChannelInsight struct {
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Insight   string `json:"insight"`
	Score     int    `json:"score"`
}

// TrendReport is the AI-generated summary over a set of resolved channels.
type TrendReport struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Summary     string           `json:"summary"`
	Insights    []ChannelInsight `json:"insights"`

	// Fallback marks reports produced from the canned template after a
	// generation failure.
	Fallback bool `json:"fallback"`
}
