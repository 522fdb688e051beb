// Package state provides the persistence gateway for resolved channel
// and video records, with a local JSON-file backend and a Dapr
// state-store backend behind a common interface.
package state

import (
	"context"

	"github.com/Ender-ss/youtubesrapping/model"
)

// PersistenceGateway is the sole owner of long-lived storage. Upserts
// are idempotent on ChannelID/VideoID; resolvers only ever read back
// the existing-channel-ID snapshot used for dedup.
type PersistenceGateway interface {
	// UpsertChannel inserts or replaces a channel record.
	UpsertChannel(ctx context.Context, channel *model.ChannelInfo) error

	// UpsertVideo inserts or replaces a video record.
	UpsertVideo(ctx context.Context, video *model.VideoInfo) error

	// ListExistingChannelIDs returns up to limit persisted channel IDs.
	ListExistingChannelIDs(ctx context.Context, limit int) ([]string, error)

	// ListChannels returns up to limit persisted channel records.
	ListChannels(ctx context.Context, limit int) ([]*model.ChannelInfo, error)

	// Close releases backend resources.
	Close() error
}
