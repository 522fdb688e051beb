package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Ender-ss/youtubesrapping/model"
)

const (
	channelsFileName = "channels.json"
	videosFileName   = "videos.json"
)

// LocalStore is a JSON-file backed persistence gateway. The whole data
// set is held in memory and rewritten on every upsert, which is fine at
// the scale of a single monitor instance.
type LocalStore struct {
	channelsPath string
	videosPath   string

	mu       sync.RWMutex
	channels map[string]*model.ChannelInfo
	videos   map[string]*model.VideoInfo
}

// NewLocalStore creates a local store rooted at dataDir, loading any
// existing records.
func NewLocalStore(dataDir string) (*LocalStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &LocalStore{
		channelsPath: filepath.Join(dataDir, channelsFileName),
		videosPath:   filepath.Join(dataDir, videosFileName),
		channels:     make(map[string]*model.ChannelInfo),
		videos:       make(map[string]*model.VideoInfo),
	}

	if err := loadJSONMap(s.channelsPath, s.channels, func(c *model.ChannelInfo) string { return c.ChannelID }); err != nil {
		return nil, fmt.Errorf("failed to load channel store: %w", err)
	}
	if err := loadJSONMap(s.videosPath, s.videos, func(v *model.VideoInfo) string { return v.VideoID }); err != nil {
		return nil, fmt.Errorf("failed to load video store: %w", err)
	}

	log.Info().
		Str("data_dir", dataDir).
		Int("channels", len(s.channels)).
		Int("videos", len(s.videos)).
		Msg("Local store loaded")

	return s, nil
}

// UpsertChannel inserts or replaces a channel record.
func (s *LocalStore) UpsertChannel(ctx context.Context, channel *model.ChannelInfo) error {
	if channel == nil || channel.ChannelID == "" {
		return fmt.Errorf("channel record must carry a channel ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.channels[channel.ChannelID] = channel
	return saveJSONMap(s.channelsPath, s.channels)
}

// UpsertVideo inserts or replaces a video record.
func (s *LocalStore) UpsertVideo(ctx context.Context, video *model.VideoInfo) error {
	if video == nil || video.VideoID == "" {
		return fmt.Errorf("video record must carry a video ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.videos[video.VideoID] = video
	return saveJSONMap(s.videosPath, s.videos)
}

// ListExistingChannelIDs returns up to limit persisted channel IDs.
func (s *LocalStore) ListExistingChannelIDs(ctx context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.channels))
	for id := range s.channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// ListChannels returns up to limit persisted channel records.
func (s *LocalStore) ListChannels(ctx context.Context, limit int) ([]*model.ChannelInfo, error) {
	ids, err := s.ListExistingChannelIDs(ctx, limit)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	channels := make([]*model.ChannelInfo, 0, len(ids))
	for _, id := range ids {
		channels = append(channels, s.channels[id])
	}
	return channels, nil
}

// Close is a no-op for the local store; every upsert is durable.
func (s *LocalStore) Close() error {
	return nil
}

// loadJSONMap reads a JSON array file into a map keyed by keyOf. A
// missing file starts the store empty.
func loadJSONMap[T any](path string, dst map[string]T, keyOf func(T) string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var records []T
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	for _, record := range records {
		if key := keyOf(record); key != "" {
			dst[key] = record
		}
	}
	return nil
}

// saveJSONMap writes the map values as a sorted JSON array.
func saveJSONMap[T any](path string, src map[string]T) error {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]T, 0, len(src))
	for _, key := range keys {
		records = append(records, src[key])
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}
