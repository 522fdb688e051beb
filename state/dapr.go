package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	daprc "github.com/dapr/go-sdk/client"
	"github.com/rs/zerolog/log"

	"github.com/Ender-ss/youtubesrapping/model"
)

const channelIndexKey = "channels:index"

// DaprStore persists records through a Dapr state store component.
// Each channel and video lives under its own key; a separate index key
// carries the channel-ID list used for the dedup snapshot.
type DaprStore struct {
	client    daprc.Client
	storeName string

	// Guards the read-modify-write cycle on the index key
	mu sync.Mutex
}

// NewDaprStore connects to the Dapr sidecar and wraps the named state
// store component.
func NewDaprStore(storeName string) (*DaprStore, error) {
	if storeName == "" {
		return nil, fmt.Errorf("state store name cannot be empty")
	}

	client, err := daprc.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Dapr client: %w", err)
	}

	log.Info().Str("store", storeName).Msg("Connected to Dapr state store")
	return &DaprStore{client: client, storeName: storeName}, nil
}

func channelKey(channelID string) string { return "channel:" + channelID }
func videoKey(videoID string) string     { return "video:" + videoID }

// UpsertChannel inserts or replaces a channel record and adds its ID to
// the channel index.
func (s *DaprStore) UpsertChannel(ctx context.Context, channel *model.ChannelInfo) error {
	if channel == nil || channel.ChannelID == "" {
		return fmt.Errorf("channel record must carry a channel ID")
	}

	data, err := json.Marshal(channel)
	if err != nil {
		return fmt.Errorf("failed to marshal channel: %w", err)
	}

	if err := s.client.SaveState(ctx, s.storeName, channelKey(channel.ChannelID), data, nil); err != nil {
		return fmt.Errorf("failed to save channel state: %w", err)
	}

	return s.addToIndex(ctx, channel.ChannelID)
}

// UpsertVideo inserts or replaces a video record.
func (s *DaprStore) UpsertVideo(ctx context.Context, video *model.VideoInfo) error {
	if video == nil || video.VideoID == "" {
		return fmt.Errorf("video record must carry a video ID")
	}

	data, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to marshal video: %w", err)
	}

	if err := s.client.SaveState(ctx, s.storeName, videoKey(video.VideoID), data, nil); err != nil {
		return fmt.Errorf("failed to save video state: %w", err)
	}
	return nil
}

// ListExistingChannelIDs returns up to limit channel IDs from the index.
func (s *DaprStore) ListExistingChannelIDs(ctx context.Context, limit int) ([]string, error) {
	ids, err := s.readIndex(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// ListChannels returns up to limit persisted channel records.
func (s *DaprStore) ListChannels(ctx context.Context, limit int) ([]*model.ChannelInfo, error) {
	ids, err := s.ListExistingChannelIDs(ctx, limit)
	if err != nil {
		return nil, err
	}

	channels := make([]*model.ChannelInfo, 0, len(ids))
	for _, id := range ids {
		item, err := s.client.GetState(ctx, s.storeName, channelKey(id), nil)
		if err != nil {
			log.Warn().Err(err).Str("channel_id", id).Msg("Failed to read channel state")
			continue
		}
		if len(item.Value) == 0 {
			continue
		}

		var channel model.ChannelInfo
		if err := json.Unmarshal(item.Value, &channel); err != nil {
			log.Warn().Err(err).Str("channel_id", id).Msg("Failed to decode channel state")
			continue
		}
		channels = append(channels, &channel)
	}
	return channels, nil
}

// Close releases the Dapr client connection.
func (s *DaprStore) Close() error {
	s.client.Close()
	return nil
}

func (s *DaprStore) readIndex(ctx context.Context) ([]string, error) {
	item, err := s.client.GetState(ctx, s.storeName, channelIndexKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read channel index: %w", err)
	}
	if len(item.Value) == 0 {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal(item.Value, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode channel index: %w", err)
	}
	return ids, nil
}

func (s *DaprStore) addToIndex(ctx context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.readIndex(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if id == channelID {
			return nil
		}
	}
	ids = append(ids, channelID)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal channel index: %w", err)
	}
	if err := s.client.SaveState(ctx, s.storeName, channelIndexKey, data, nil); err != nil {
		return fmt.Errorf("failed to save channel index: %w", err)
	}
	return nil
}
