// Package scraper implements the channel-discovery and fallback
// resolution pipeline: a multi-strategy channel resolver, a per-channel
// video resolver and the trending channel search, all running over the
// provider adapters in the client package.
package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ender-ss/youtubesrapping/client"
	"github.com/Ender-ss/youtubesrapping/common"
	"github.com/Ender-ss/youtubesrapping/model"
)

// ResolverDeps carries the provider adapters a resolver may consult.
// Any of them may be nil; a missing provider simply skips its strategy.
type ResolverDeps struct {
	Extractor client.ExtractorClient
	Search    client.SearchClient
	DataAPI   *client.DataAPIClient
	Browser   client.BrowserClient
}

// ChannelResolver assembles a best-effort ChannelInfo from a chain of
// unreliable providers. Strategies are tried in fixed priority order and
// the chain short-circuits on the first result with a usable title; the
// final synthetic strategy cannot fail, so Resolve returns nil only for
// input that cannot be parsed into a channel identifier.
type ChannelResolver struct {
	deps ResolverDeps
	now  func() time.Time
}

// NewChannelResolver creates a resolver over the given providers.
func NewChannelResolver(deps ResolverDeps) *ChannelResolver {
	return &ChannelResolver{deps: deps, now: time.Now}
}

// strategy is one provider-specific resolution attempt.
type strategy struct {
	name string
	run  func(ctx context.Context, channelID, channelURL string) (*model.ChannelInfo, error)
}

// Resolve resolves a channel URL or raw ID into a channel record. It
// never returns an error; provider failures are logged and absorbed by
// falling through the strategy chain.
func (r *ChannelResolver) Resolve(ctx context.Context, urlOrID string) *model.ChannelInfo {
	channelID := common.ExtractChannelID(urlOrID)
	if channelID == "" {
		log.Warn().Str("input", urlOrID).Msg("Cannot parse input into a channel identifier")
		return nil
	}

	channelURL := canonicalURL(channelID)

	strategies := []strategy{
		{"extractor", r.resolveWithExtractor},
		{"search-api", r.resolveWithSearchAPI},
		{"recent-videos", r.resolveFromVideos},
		{"browser", r.resolveWithBrowser},
		{"synthetic", r.resolveSynthetic},
	}

	var failures []string
	for _, s := range strategies {
		info, err := s.run(ctx, channelID, channelURL)
		if err != nil {
			log.Debug().
				Err(err).
				Str("strategy", s.name).
				Str("channel_id", channelID).
				Msg("Resolution strategy failed")
			failures = append(failures, fmt.Sprintf("%s: %v", s.name, err))
			continue
		}
		if info == nil || normalizedTitle(info.Title) == "" {
			failures = append(failures, s.name+": no usable title")
			continue
		}

		r.normalize(info, channelID)

		log.Info().
			Str("channel_id", info.ChannelID).
			Str("title", info.Title).
			Str("strategy", s.name).
			Strs("failed_strategies", failures).
			Msg("Channel resolved")
		return info
	}

	// Unreachable: the synthetic strategy always succeeds.
	return nil
}

// normalize enforces the canonical record shape on a strategy result.
func (r *ChannelResolver) normalize(info *model.ChannelInfo, channelID string) {
	if info.ChannelID == "" {
		info.ChannelID = channelID
	}

	info.Title = normalizedTitle(info.Title)
	if info.Title == "" {
		info.Title = PlaceholderName(info.ChannelID)
	}

	if info.Country == "" {
		info.Country = "US"
	}
	if info.Language == "" {
		info.Language = "en"
	}
	if info.PublishedAt.IsZero() {
		info.PublishedAt = r.approxPublishedAt(info.ChannelID)
	}
	if info.ThumbnailURL == "" {
		info.ThumbnailURL = fmt.Sprintf("https://picsum.photos/seed/%s/200/200.jpg", info.ChannelID)
	}
}

// approxPublishedAt assigns a recent creation timestamp when no provider
// supplied one. The window is seeded from the channel ID so retries stay
// stable; the value is an approximation, not a measurement.
func (r *ChannelResolver) approxPublishedAt(channelID string) time.Time {
	daysOld := int(common.HashString(channelID)%25) + 5
	return r.now().AddDate(0, 0, -daysOld)
}

func (r *ChannelResolver) resolveWithExtractor(ctx context.Context, channelID, channelURL string) (*model.ChannelInfo, error) {
	extractor := r.deps.Extractor
	if extractor == nil {
		return nil, fmt.Errorf("extractor not configured")
	}
	if !extractor.IsAvailable(ctx) {
		return nil, fmt.Errorf("%w: extractor binary missing", client.ErrProviderUnavailable)
	}

	raw, err := extractor.GetChannelInfo(ctx, channelURL)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: extractor returned no channel", client.ErrMalformed)
	}

	stats, err := extractor.GetChannelStats(ctx, channelURL)
	if err != nil {
		log.Debug().Err(err).Str("channel_id", channelID).Msg("Extractor stats unavailable, using zeroes")
		stats = &client.ChannelStats{}
	}

	subscriberCount := common.ParseCount(stats.SubscriberText)
	if subscriberCount == 0 {
		// Estimate from total views when no subscriber text is exposed
		subscriberCount = stats.TotalViews / 100
		if subscriberCount < 1000 {
			subscriberCount = 1000
		}
	}

	title := normalizedTitle(raw.Title)
	if title == "" {
		title = normalizedTitle(raw.Uploader)
	}

	info := &model.ChannelInfo{
		ChannelID:       pickChannelID(raw.ID, raw.UploaderID, channelID),
		Title:           title,
		Description:     raw.Description,
		CustomURL:       channelURL,
		SubscriberCount: subscriberCount,
		VideoCount:      stats.VideoCount,
		ViewCount:       stats.TotalViews,
	}
	if info.Description == "" {
		info.Description = fmt.Sprintf("Growing YouTube channel with %d subscribers and engaging content.", subscriberCount)
	}
	return info, nil
}

func (r *ChannelResolver) resolveWithSearchAPI(ctx context.Context, channelID, channelURL string) (*model.ChannelInfo, error) {
	if r.deps.DataAPI != nil {
		info, err := r.deps.DataAPI.GetChannel(ctx, channelID)
		if err == nil {
			return info, nil
		}
		log.Debug().Err(err).Str("channel_id", channelID).Msg("Data API lookup failed, trying keyless search")
	}

	search := r.deps.Search
	if search == nil {
		return nil, fmt.Errorf("search client not configured")
	}

	item, err := search.BrowseChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: empty channel item", client.ErrMalformed)
	}

	title := normalizedTitle(item.Title())
	if title == "" {
		return nil, fmt.Errorf("%w: channel item missing title", client.ErrMalformed)
	}

	resolvedID := item.ChannelID()
	if resolvedID == "" {
		resolvedID = channelID
	}

	return &model.ChannelInfo{
		ChannelID:       resolvedID,
		Title:           title,
		Description:     item.Description(),
		ThumbnailURL:    item.ThumbnailURL(),
		Country:         item.Country(),
		SubscriberCount: item.SubscriberCount(),
		VideoCount:      item.ChannelVideoCount(),
		ViewCount:       item.ViewCount(),
	}, nil
}

// resolveFromVideos derives channel identity from its most recent
// videos: title and thumbnail are borrowed from the most viewed video
// found, stats are estimated from the sample.
func (r *ChannelResolver) resolveFromVideos(ctx context.Context, channelID, channelURL string) (*model.ChannelInfo, error) {
	search := r.deps.Search
	if search == nil {
		return nil, fmt.Errorf("search client not configured")
	}

	items, err := search.ChannelVideos(ctx, channelID, 5)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no videos found for channel", client.ErrMalformed)
	}

	var totalViews int64
	top := items[0]
	for _, item := range items {
		totalViews += item.ViewCount()
		if item.ViewCount() > top.ViewCount() {
			top = item
		}
	}
	avgViews := totalViews / int64(len(items))

	title := normalizedTitle(top.ChannelTitle())
	if title == "" {
		return nil, fmt.Errorf("%w: videos carry no channel title", client.ErrMalformed)
	}

	subscriberCount := avgViews
	if subscriberCount < 1000 {
		subscriberCount = 1000
	}

	return &model.ChannelInfo{
		ChannelID:       channelID,
		Title:           title,
		Description:     fmt.Sprintf("Channel with %d+ videos and growing audience.", len(items)),
		ThumbnailURL:    top.ThumbnailURL(),
		SubscriberCount: subscriberCount,
		VideoCount:      int64(len(items)),
		ViewCount:       totalViews,
	}, nil
}

func (r *ChannelResolver) resolveWithBrowser(ctx context.Context, channelID, channelURL string) (*model.ChannelInfo, error) {
	browser := r.deps.Browser
	if browser == nil {
		return nil, fmt.Errorf("browser client not configured")
	}

	scraped, err := browser.ScrapeChannelPage(ctx, channelURL)
	if err != nil {
		return nil, err
	}
	if scraped == nil {
		return nil, fmt.Errorf("%w: no channel title on rendered page", client.ErrMalformed)
	}

	info := &model.ChannelInfo{
		ChannelID:       channelID,
		Title:           normalizedTitle(scraped.Title),
		Description:     scraped.Description,
		ThumbnailURL:    scraped.ThumbnailURL,
		SubscriberCount: common.ParseCount(scraped.SubscriberText),
		VideoCount:      common.ParseCount(scraped.VideoCountText),
		ViewCount:       common.ParseCount(scraped.ViewCountText),
	}

	if scraped.JoinedYear > 0 {
		info.PublishedAt = time.Date(scraped.JoinedYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return info, nil
}

func (r *ChannelResolver) resolveSynthetic(ctx context.Context, channelID, channelURL string) (*model.ChannelInfo, error) {
	return SyntheticChannel(channelID, "", r.now()), nil
}

// normalizedTitle strips the extractor's "NA" sentinel and whitespace.
func normalizedTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "NA" || title == "None" {
		return ""
	}
	return title
}

// pickChannelID returns the first well-formed candidate.
func pickChannelID(candidates ...string) string {
	for _, c := range candidates {
		if id := common.ExtractChannelID(c); id != "" {
			return id
		}
	}
	return ""
}

// canonicalURL builds the watch-page URL for a canonical identifier.
func canonicalURL(channelID string) string {
	if strings.HasPrefix(channelID, "@") {
		return "https://www.youtube.com/" + channelID
	}
	return "https://www.youtube.com/channel/" + channelID
}
