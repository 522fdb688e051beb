package scraper

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ender-ss/youtubesrapping/client"
	"github.com/Ender-ss/youtubesrapping/common"
	"github.com/Ender-ss/youtubesrapping/model"
)

// VideoResolver fetches a channel's videos ranked by view count. The
// listing comes from the search API (or the Data API when configured)
// with per-video hydration through the extractor; when listing fails
// entirely the browser video grid is the last real-data source.
type VideoResolver struct {
	deps ResolverDeps
	now  func() time.Time
}

// NewVideoResolver creates a video resolver over the given providers.
func NewVideoResolver(deps ResolverDeps) *VideoResolver {
	return &VideoResolver{deps: deps, now: time.Now}
}

// ResolveVideos returns up to maxVideos videos of the channel, sorted by
// view count descending. It never returns an error; total failure
// yields an empty slice.
func (r *VideoResolver) ResolveVideos(ctx context.Context, channelID string, maxVideos int) []*model.VideoInfo {
	channelID = common.ExtractChannelID(channelID)
	if channelID == "" {
		log.Warn().Msg("Cannot parse input into a channel identifier")
		return []*model.VideoInfo{}
	}
	if maxVideos < 1 {
		maxVideos = 1
	}

	videos := r.listVideos(ctx, channelID, maxVideos)

	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].ViewCount > videos[j].ViewCount
	})
	if len(videos) > maxVideos {
		videos = videos[:maxVideos]
	}

	log.Info().
		Str("channel_id", channelID).
		Int("count", len(videos)).
		Msg("Resolved channel videos")
	return videos
}

func (r *VideoResolver) listVideos(ctx context.Context, channelID string, maxVideos int) []*model.VideoInfo {
	// The Data API delivers fully hydrated records in one shot
	if r.deps.DataAPI != nil {
		videos, err := r.deps.DataAPI.GetChannelVideos(ctx, channelID, maxVideos)
		if err == nil && len(videos) > 0 {
			return videos
		}
		if err != nil {
			log.Debug().Err(err).Str("channel_id", channelID).Msg("Data API video listing failed")
		}
	}

	if r.deps.Search != nil {
		items, err := r.deps.Search.ChannelVideos(ctx, channelID, maxVideos)
		if err != nil {
			log.Debug().Err(err).Str("channel_id", channelID).Msg("Search video listing failed")
		} else if len(items) > 0 {
			return r.hydrateItems(ctx, channelID, items)
		}
	}

	return r.scrapeVideoGrid(ctx, channelID, maxVideos)
}

// hydrateItems builds video records from listing items, enriching each
// through the extractor. A failed hydration keeps the degraded
// listing-only record instead of dropping the video.
func (r *VideoResolver) hydrateItems(ctx context.Context, channelID string, items []client.Item) []*model.VideoInfo {
	videos := make([]*model.VideoInfo, 0, len(items))

	for _, item := range items {
		videoID := item.VideoID()
		if videoID == "" {
			continue
		}

		video := &model.VideoInfo{
			VideoID:      videoID,
			ChannelID:    channelID,
			Title:        item.Title(),
			Description:  item.Description(),
			ThumbnailURL: item.ThumbnailURL(),
			ViewCount:    item.ViewCount(),
		}

		if hydrated := r.hydrateVideo(ctx, video); hydrated != nil {
			video = hydrated
		}
		videos = append(videos, video)
	}

	return videos
}

// hydrateVideo fetches full details for one video through the
// extractor. Returns nil when hydration is not possible.
func (r *VideoResolver) hydrateVideo(ctx context.Context, base *model.VideoInfo) *model.VideoInfo {
	extractor := r.deps.Extractor
	if extractor == nil {
		return nil
	}

	raw, err := extractor.GetVideoInfo(ctx, base.VideoURL())
	if err != nil || raw == nil {
		log.Debug().Err(err).Str("video_id", base.VideoID).Msg("Video hydration failed, keeping listing record")
		return nil
	}

	hydrated := *base
	hydrated.DurationSeconds = raw.DurationSeconds
	hydrated.LikeCount = raw.LikeCount
	hydrated.CommentCount = raw.CommentCount
	hydrated.PublishedAt = raw.UploadDate
	if raw.ViewCount > 0 {
		hydrated.ViewCount = raw.ViewCount
	}
	if hydrated.Title == "" {
		hydrated.Title = raw.Title
	}
	if hydrated.ThumbnailURL == "" {
		hydrated.ThumbnailURL = raw.ThumbnailURL
	}
	if len(raw.Tags) > 0 {
		hydrated.Tags = raw.Tags
	}
	return &hydrated
}

// scrapeVideoGrid falls back to the rendered channel video grid when no
// listing provider produced anything.
func (r *VideoResolver) scrapeVideoGrid(ctx context.Context, channelID string, maxVideos int) []*model.VideoInfo {
	browser := r.deps.Browser
	if browser == nil {
		return []*model.VideoInfo{}
	}

	scraped, err := browser.ScrapeChannelVideos(ctx, canonicalURL(channelID), maxVideos)
	if err != nil {
		log.Debug().Err(err).Str("channel_id", channelID).Msg("Browser video grid scrape failed")
		return []*model.VideoInfo{}
	}

	videos := make([]*model.VideoInfo, 0, len(scraped))
	for _, tile := range scraped {
		video := &model.VideoInfo{
			VideoID:   tile.VideoID,
			ChannelID: channelID,
			Title:     tile.Title,
			ViewCount: common.ParseCount(tile.ViewsText),
		}
		if hydrated := r.hydrateVideo(ctx, video); hydrated != nil {
			video = hydrated
		}
		videos = append(videos, video)
	}
	return videos
}
