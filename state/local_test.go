package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ender-ss/youtubesrapping/model"
)

func testChannel(id string, subs int64) *model.ChannelInfo {
	return &model.ChannelInfo{
		ChannelID:       id,
		Title:           "Channel " + id,
		SubscriberCount: subs,
		PublishedAt:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLocalStoreUpsertAndList(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.UpsertChannel(ctx, testChannel("UCbbb", 2000)))
	require.NoError(t, store.UpsertChannel(ctx, testChannel("UCaaa", 1000)))

	ids, err := store.ListExistingChannelIDs(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"UCaaa", "UCbbb"}, ids)

	channels, err := store.ListChannels(ctx, 0)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "Channel UCaaa", channels[0].Title)
}

func TestLocalStoreUpsertReplaces(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.UpsertChannel(ctx, testChannel("UCaaa", 1000)))
	require.NoError(t, store.UpsertChannel(ctx, testChannel("UCaaa", 5000)))

	channels, err := store.ListChannels(ctx, 0)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, int64(5000), channels[0].SubscriberCount)
}

func TestLocalStoreListLimit(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for _, id := range []string{"UCaaa", "UCbbb", "UCccc"} {
		require.NoError(t, store.UpsertChannel(ctx, testChannel(id, 1000)))
	}

	ids, err := store.ListExistingChannelIDs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"UCaaa", "UCbbb"}, ids)
}

func TestLocalStoreRejectsEmptyIDs(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	assert.Error(t, store.UpsertChannel(ctx, nil))
	assert.Error(t, store.UpsertChannel(ctx, &model.ChannelInfo{}))
	assert.Error(t, store.UpsertVideo(ctx, nil))
	assert.Error(t, store.UpsertVideo(ctx, &model.VideoInfo{}))
}

func TestLocalStoreSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.UpsertChannel(ctx, testChannel("UCaaa", 1000)))
	require.NoError(t, store.UpsertVideo(ctx, &model.VideoInfo{
		VideoID:   "vid-1",
		ChannelID: "UCaaa",
		Title:     "First Video",
		ViewCount: 4200,
	}))
	require.NoError(t, store.Close())

	reloaded, err := NewLocalStore(dir)
	require.NoError(t, err)
	defer reloaded.Close()

	channels, err := reloaded.ListChannels(ctx, 0)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "Channel UCaaa", channels[0].Title)

	ids, err := reloaded.ListExistingChannelIDs(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"UCaaa"}, ids)
}
