package scraper

import (
	"context"
	"time"

	"github.com/Ender-ss/youtubesrapping/client"
	"github.com/Ender-ss/youtubesrapping/model"
)

type fakeExtractor struct {
	available    bool
	channelInfo  *client.ExtractedChannel
	channelErr   error
	stats        *client.ChannelStats
	statsErr     error
	videoInfo    *client.ExtractedVideo
	videoInfoErr error
	videos       []*client.ExtractedVideo
	videosErr    error

	channelCalls   int
	videoInfoCalls int
}

func (f *fakeExtractor) IsAvailable(ctx context.Context) bool { return f.available }

func (f *fakeExtractor) GetChannelInfo(ctx context.Context, channelURL string) (*client.ExtractedChannel, error) {
	f.channelCalls++
	return f.channelInfo, f.channelErr
}

func (f *fakeExtractor) GetVideos(ctx context.Context, channelURL string, limit int) ([]*client.ExtractedVideo, error) {
	return f.videos, f.videosErr
}

func (f *fakeExtractor) GetVideoInfo(ctx context.Context, videoURL string) (*client.ExtractedVideo, error) {
	f.videoInfoCalls++
	return f.videoInfo, f.videoInfoErr
}

func (f *fakeExtractor) GetChannelStats(ctx context.Context, channelURL string) (*client.ChannelStats, error) {
	return f.stats, f.statsErr
}

type fakeSearch struct {
	searchItems map[string][]client.Item
	searchErr   error
	browseItem  client.Item
	browseErr   error
	videoItems  []client.Item
	videosErr   error

	searchCalls []string
	browseCalls int
	videosCalls int
}

func (f *fakeSearch) Connect(ctx context.Context) error    { return nil }
func (f *fakeSearch) Disconnect(ctx context.Context) error { return nil }

func (f *fakeSearch) Search(ctx context.Context, term string, kind client.SearchKind, limit int) ([]client.Item, error) {
	f.searchCalls = append(f.searchCalls, term)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchItems[term], nil
}

func (f *fakeSearch) BrowseChannel(ctx context.Context, channelID string) (client.Item, error) {
	f.browseCalls++
	return f.browseItem, f.browseErr
}

func (f *fakeSearch) ChannelVideos(ctx context.Context, channelID string, limit int) ([]client.Item, error) {
	f.videosCalls++
	return f.videoItems, f.videosErr
}

type fakeBrowser struct {
	channel    *client.ScrapedChannel
	channelErr error
	videos     []client.ScrapedVideo
	videosErr  error

	pageCalls  int
	gridCalls  int
	closeCalls int
}

func (f *fakeBrowser) ScrapeChannelPage(ctx context.Context, channelURL string) (*client.ScrapedChannel, error) {
	f.pageCalls++
	return f.channel, f.channelErr
}

func (f *fakeBrowser) ScrapeChannelVideos(ctx context.Context, channelURL string, max int) ([]client.ScrapedVideo, error) {
	f.gridCalls++
	return f.videos, f.videosErr
}

func (f *fakeBrowser) Close() error {
	f.closeCalls++
	return nil
}

type fakeResolver struct {
	results  map[string]*model.ChannelInfo
	resolved []string
}

func (f *fakeResolver) Resolve(ctx context.Context, urlOrID string) *model.ChannelInfo {
	f.resolved = append(f.resolved, urlOrID)
	return f.results[urlOrID]
}

type fakeLister struct {
	ids []string
	err error
}

func (f *fakeLister) ListExistingChannelIDs(ctx context.Context, limit int) ([]string, error) {
	return f.ids, f.err
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
}

func videoItem(videoID, title string, views int64) client.Item {
	return client.Item{
		"type":      "video",
		"id":        videoID,
		"videoId":   videoID,
		"title":     title,
		"viewCount": float64(views),
	}
}

func channelItem(channelID, title string) client.Item {
	return client.Item{
		"type":      "channel",
		"id":        channelID,
		"channelId": channelID,
		"title":     title,
	}
}
