package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ender-ss/youtubesrapping/client"
)

const testChannelID = "UCX6OQ3DkcsbYNE6H8uQQuVA"

func newTestResolver(deps ResolverDeps) *ChannelResolver {
	r := NewChannelResolver(deps)
	r.now = fixedNow
	return r
}

func TestResolveUnparseableInput(t *testing.T) {
	r := newTestResolver(ResolverDeps{})

	assert.Nil(t, r.Resolve(context.Background(), ""))
	assert.Nil(t, r.Resolve(context.Background(), "not a channel"))
	assert.Nil(t, r.Resolve(context.Background(), "https://www.youtube.com/watch?v=abc123"))
}

func TestResolveExtractorShortCircuits(t *testing.T) {
	extractor := &fakeExtractor{
		available: true,
		channelInfo: &client.ExtractedChannel{
			ID:    testChannelID,
			Title: "Real Channel",
		},
		stats: &client.ChannelStats{
			VideoCount:     42,
			TotalViews:     500000,
			SubscriberText: "12K",
		},
	}
	search := &fakeSearch{}
	r := newTestResolver(ResolverDeps{Extractor: extractor, Search: search})

	info := r.Resolve(context.Background(), testChannelID)

	require.NotNil(t, info)
	assert.Equal(t, "Real Channel", info.Title)
	assert.Equal(t, testChannelID, info.ChannelID)
	assert.Equal(t, int64(12000), info.SubscriberCount)
	assert.Equal(t, int64(42), info.VideoCount)
	assert.Equal(t, 0, search.browseCalls, "later strategies must not run after a success")
}

func TestResolveEstimatesSubscribersFromViews(t *testing.T) {
	extractor := &fakeExtractor{
		available:   true,
		channelInfo: &client.ExtractedChannel{ID: testChannelID, Title: "Real Channel"},
		stats:       &client.ChannelStats{TotalViews: 1000000},
	}
	r := newTestResolver(ResolverDeps{Extractor: extractor})

	info := r.Resolve(context.Background(), testChannelID)

	require.NotNil(t, info)
	assert.Equal(t, int64(10000), info.SubscriberCount)
}

func TestResolveFallsThroughToSearchAPI(t *testing.T) {
	extractor := &fakeExtractor{available: false}
	search := &fakeSearch{
		browseItem: client.Item{
			"type":                "channel",
			"id":                  testChannelID,
			"title":               "Browsed Channel",
			"subscriberCountText": "5.4K subscribers",
		},
	}
	r := newTestResolver(ResolverDeps{Extractor: extractor, Search: search})

	info := r.Resolve(context.Background(), testChannelID)

	require.NotNil(t, info)
	assert.Equal(t, "Browsed Channel", info.Title)
	assert.Equal(t, int64(5400), info.SubscriberCount)
	assert.Equal(t, 1, search.browseCalls)
}

func TestResolveFromRecentVideos(t *testing.T) {
	search := &fakeSearch{
		browseErr: errors.New("browse failed"),
		videoItems: []client.Item{
			{"type": "video", "id": "vid-1", "videoId": "vid-1", "viewCount": float64(3000), "longBylineText": map[string]interface{}{
				"runs": []interface{}{map[string]interface{}{"text": "Video Channel"}},
			}},
			{"type": "video", "id": "vid-2", "videoId": "vid-2", "viewCount": float64(1000)},
		},
	}
	r := newTestResolver(ResolverDeps{Search: search})

	info := r.Resolve(context.Background(), testChannelID)

	require.NotNil(t, info)
	assert.Equal(t, "Video Channel", info.Title)
	assert.Equal(t, testChannelID, info.ChannelID)
	assert.Equal(t, int64(2000), info.SubscriberCount)
	assert.Equal(t, int64(4000), info.ViewCount)
}

func TestResolveWithBrowser(t *testing.T) {
	search := &fakeSearch{
		browseErr: errors.New("browse failed"),
		videosErr: errors.New("videos failed"),
	}
	browser := &fakeBrowser{
		channel: &client.ScrapedChannel{
			Title:          "Scraped Channel",
			SubscriberText: "2.5K subscribers",
			VideoCountText: "80 videos",
			JoinedYear:     2024,
		},
	}
	r := newTestResolver(ResolverDeps{Search: search, Browser: browser})

	info := r.Resolve(context.Background(), testChannelID)

	require.NotNil(t, info)
	assert.Equal(t, "Scraped Channel", info.Title)
	assert.Equal(t, int64(2500), info.SubscriberCount)
	assert.Equal(t, int64(80), info.VideoCount)
	assert.Equal(t, 2024, info.PublishedAt.Year())
	assert.Equal(t, 1, browser.pageCalls)
}

func TestResolveAllProvidersFailYieldsSynthetic(t *testing.T) {
	extractor := &fakeExtractor{available: false}
	search := &fakeSearch{
		browseErr: errors.New("browse failed"),
		videosErr: errors.New("videos failed"),
	}
	browser := &fakeBrowser{channelErr: errors.New("render failed")}
	r := newTestResolver(ResolverDeps{Extractor: extractor, Search: search, Browser: browser})

	info := r.Resolve(context.Background(), testChannelID)

	require.NotNil(t, info)
	assert.Equal(t, testChannelID, info.ChannelID)
	assert.NotEmpty(t, info.Title)
	assert.GreaterOrEqual(t, info.SubscriberCount, int64(1000))
	assert.False(t, info.PublishedAt.IsZero())

	// Same input always yields the same record
	again := r.Resolve(context.Background(), testChannelID)
	require.NotNil(t, again)
	assert.Equal(t, info.Title, again.Title)
	assert.Equal(t, info.SubscriberCount, again.SubscriberCount)
}

func TestResolveNoProvidersConfigured(t *testing.T) {
	r := newTestResolver(ResolverDeps{})

	info := r.Resolve(context.Background(), testChannelID)

	require.NotNil(t, info)
	assert.Equal(t, testChannelID, info.ChannelID)
	assert.NotEmpty(t, info.Title)
}

func TestResolveNASentinelNeverSurfaces(t *testing.T) {
	extractor := &fakeExtractor{
		available:   true,
		channelInfo: &client.ExtractedChannel{ID: testChannelID, Title: "NA", Uploader: "NA"},
		stats:       &client.ChannelStats{},
	}
	r := newTestResolver(ResolverDeps{Extractor: extractor})

	info := r.Resolve(context.Background(), testChannelID)

	require.NotNil(t, info)
	assert.NotEqual(t, "NA", info.Title)
	assert.NotEmpty(t, info.Title)
}

func TestResolveNormalizeDefaults(t *testing.T) {
	extractor := &fakeExtractor{
		available:   true,
		channelInfo: &client.ExtractedChannel{ID: testChannelID, Title: "Bare Channel"},
		stats:       &client.ChannelStats{},
	}
	r := newTestResolver(ResolverDeps{Extractor: extractor})

	info := r.Resolve(context.Background(), testChannelID)

	require.NotNil(t, info)
	assert.Equal(t, "US", info.Country)
	assert.Equal(t, "en", info.Language)
	assert.False(t, info.PublishedAt.IsZero())
	assert.NotEmpty(t, info.ThumbnailURL)
}

func TestNormalizedTitle(t *testing.T) {
	assert.Equal(t, "", normalizedTitle("NA"))
	assert.Equal(t, "", normalizedTitle("None"))
	assert.Equal(t, "", normalizedTitle("  "))
	assert.Equal(t, "Channel", normalizedTitle(" Channel "))
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/channel/"+testChannelID, canonicalURL(testChannelID))
	assert.Equal(t, "https://www.youtube.com/@creator", canonicalURL("@creator"))
}

func TestPickChannelID(t *testing.T) {
	assert.Equal(t, testChannelID, pickChannelID("garbage", testChannelID, "other"))
	assert.Equal(t, "", pickChannelID("garbage", "nope"))
}
