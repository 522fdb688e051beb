package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/Ender-ss/youtubesrapping/model"
)

// DataAPIClient talks to the official YouTube Data API v3. It is only
// constructed when an API key is configured; the keyless providers carry
// resolution otherwise.
type DataAPIClient struct {
	service *ytapi.Service
	apiKey  string
	timeout time.Duration
}

// NewDataAPIClient creates a new Data API client.
func NewDataAPIClient(apiKey string, timeout time.Duration) (*DataAPIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DataAPIClient{apiKey: apiKey, timeout: timeout}, nil
}

// Connect establishes a connection to the YouTube Data API.
func (c *DataAPIClient) Connect(ctx context.Context) error {
	log.Info().Msg("Connecting to YouTube Data API")

	httpClient := &http.Client{
		Timeout: c.timeout,
	}

	service, err := ytapi.NewService(ctx, option.WithAPIKey(c.apiKey), option.WithHTTPClient(httpClient))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create YouTube service")
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	c.service = service
	return nil
}

// Disconnect closes the connection to the YouTube Data API.
func (c *DataAPIClient) Disconnect(ctx context.Context) error {
	// No explicit disconnect needed for the Data API client
	c.service = nil
	return nil
}

// channelsCall builds a Channels.List call for a raw ID or a handle.
func (c *DataAPIClient) channelsCall(parts []string, channelID string) *ytapi.ChannelsListCall {
	if len(channelID) > 0 && channelID[0] == '@' {
		return c.service.Channels.List(parts).ForUsername(channelID[1:])
	}
	if len(channelID) > 2 && channelID[0:2] == "UC" {
		return c.service.Channels.List(parts).Id(channelID)
	}
	return c.service.Channels.List(parts).ForUsername(channelID)
}

// GetChannel retrieves a channel record by raw ID or handle.
func (c *DataAPIClient) GetChannel(ctx context.Context, channelID string) (*model.ChannelInfo, error) {
	if c.service == nil {
		return nil, fmt.Errorf("Data API client not connected")
	}

	log.Info().Str("channel_id", channelID).Msg("Fetching channel info from Data API")

	parts := []string{"snippet", "statistics", "contentDetails"}
	response, err := c.channelsCall(parts, channelID).MaxResults(1).Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to get channel from Data API")
		return nil, fmt.Errorf("failed to get channel from Data API: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("channel not found: %s", channelID)
	}

	item := response.Items[0]
	publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)

	channel := &model.ChannelInfo{
		ChannelID:       item.Id,
		Title:           item.Snippet.Title,
		Description:     item.Snippet.Description,
		CustomURL:       item.Snippet.CustomUrl,
		PublishedAt:     publishedAt,
		Country:         item.Snippet.Country,
		SubscriberCount: int64(item.Statistics.SubscriberCount),
		ViewCount:       int64(item.Statistics.ViewCount),
		VideoCount:      int64(item.Statistics.VideoCount),
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		channel.ThumbnailURL = item.Snippet.Thumbnails.High.Url
	}

	log.Info().
		Str("channel_id", channel.ChannelID).
		Str("title", channel.Title).
		Int64("subscribers", channel.SubscriberCount).
		Msg("Channel info retrieved from Data API")

	return channel, nil
}

// GetChannelVideos retrieves up to limit videos from the channel's
// uploads playlist, with statistics hydrated in a single batched call.
func (c *DataAPIClient) GetChannelVideos(ctx context.Context, channelID string, limit int) ([]*model.VideoInfo, error) {
	if c.service == nil {
		return nil, fmt.Errorf("Data API client not connected")
	}
	if limit < 1 {
		limit = 1
	}

	response, err := c.channelsCall([]string{"contentDetails"}, channelID).MaxResults(1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel from Data API: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("channel not found: %s", channelID)
	}

	uploadsPlaylistID := response.Items[0].ContentDetails.RelatedPlaylists.Uploads

	videos := make([]*model.VideoInfo, 0, limit)
	var nextPageToken string
	for len(videos) < limit {
		playlistCall := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(uploadsPlaylistID).
			MaxResults(int64(min(50, limit-len(videos)))).
			Context(ctx)
		if nextPageToken != "" {
			playlistCall = playlistCall.PageToken(nextPageToken)
		}

		playlistResponse, err := playlistCall.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get videos from playlist: %w", err)
		}
		if len(playlistResponse.Items) == 0 {
			break
		}

		videoIDs := make([]string, 0, len(playlistResponse.Items))
		videoMap := make(map[string]*model.VideoInfo)

		for _, item := range playlistResponse.Items {
			publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if err != nil {
				log.Warn().Err(err).Str("date", item.Snippet.PublishedAt).Msg("Failed to parse video published date")
				continue
			}

			videoID := item.ContentDetails.VideoId
			videoIDs = append(videoIDs, videoID)

			video := &model.VideoInfo{
				VideoID:     videoID,
				ChannelID:   channelID,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				PublishedAt: publishedAt,
			}
			if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
				video.ThumbnailURL = item.Snippet.Thumbnails.High.Url
			}
			videoMap[videoID] = video
		}

		// Hydrate statistics in one batched call
		if len(videoIDs) > 0 {
			statsResponse, err := c.service.Videos.List([]string{"statistics", "contentDetails"}).
				Id(videoIDs...).
				Context(ctx).
				Do()
			if err != nil {
				log.Warn().Err(err).Msg("Failed to get video statistics, continuing without them")
			} else {
				for _, statsItem := range statsResponse.Items {
					video, ok := videoMap[statsItem.Id]
					if !ok {
						continue
					}
					if statsItem.Statistics != nil {
						video.ViewCount = int64(statsItem.Statistics.ViewCount)
						video.LikeCount = int64(statsItem.Statistics.LikeCount)
						video.CommentCount = int64(statsItem.Statistics.CommentCount)
					}
					if statsItem.ContentDetails != nil {
						video.DurationSeconds = parseISODuration(statsItem.ContentDetails.Duration)
					}
				}
			}
		}

		for _, videoID := range videoIDs {
			if video, ok := videoMap[videoID]; ok {
				videos = append(videos, video)
				if len(videos) >= limit {
					break
				}
			}
		}

		nextPageToken = playlistResponse.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	log.Info().
		Str("channel_id", channelID).
		Int("count", len(videos)).
		Msg("Channel videos retrieved from Data API")

	return videos, nil
}

// parseISODuration converts an ISO 8601 duration like "PT1H2M3S" to seconds.
func parseISODuration(iso string) int64 {
	var total, cur int64
	inTime := false
	for _, r := range iso {
		switch {
		case r >= '0' && r <= '9':
			cur = cur*10 + int64(r-'0')
		case r == 'T':
			inTime = true
			cur = 0
		case r == 'H' && inTime:
			total += cur * 3600
			cur = 0
		case r == 'M' && inTime:
			total += cur * 60
			cur = 0
		case r == 'S' && inTime:
			total += cur
			cur = 0
		case r == 'D':
			total += cur * 86400
			cur = 0
		default:
			cur = 0
		}
	}
	return total
}
