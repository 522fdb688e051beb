package client

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// joinedYearPattern extracts the year from "Joined Mar 15, 2024" style text.
var joinedYearPattern = regexp.MustCompile(`Joined.*?(\d{4})`)

// BrowserConfig contains configuration for the headless browser scraper.
type BrowserConfig struct {
	ViewportWidth  int
	ViewportHeight int
	NavTimeout     time.Duration
}

// ChromeBrowserClient drives a headless Chrome instance to render
// channel pages that the lighter providers cannot reach. One allocator
// is shared for the lifetime of the client; each scrape gets its own
// tab bounded by the navigation timeout.
type ChromeBrowserClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu     sync.Mutex
	closed bool

	viewportWidth  int
	viewportHeight int
	navTimeout     time.Duration
}

// NewChromeBrowserClient launches the browser allocator. The caller must
// call Close on every exit path.
func NewChromeBrowserClient(config *BrowserConfig) (*ChromeBrowserClient, error) {
	if config == nil {
		config = &BrowserConfig{}
	}
	if config.ViewportWidth < 1 {
		config.ViewportWidth = 1280
	}
	if config.ViewportHeight < 1 {
		config.ViewportHeight = 800
	}
	if config.NavTimeout <= 0 {
		config.NavTimeout = 30 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(config.ViewportWidth, config.ViewportHeight),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	log.Info().
		Int("viewport_width", config.ViewportWidth).
		Int("viewport_height", config.ViewportHeight).
		Msg("Launching headless browser")

	return &ChromeBrowserClient{
		allocCtx:       allocCtx,
		allocCancel:    allocCancel,
		viewportWidth:  config.ViewportWidth,
		viewportHeight: config.ViewportHeight,
		navTimeout:     config.NavTimeout,
	}, nil
}

// Close releases the browser session.
func (c *ChromeBrowserClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.allocCancel()
	log.Debug().Msg("Headless browser closed")
	return nil
}

// renderPage navigates to url in a fresh tab and returns the rendered HTML.
func (c *ChromeBrowserClient) renderPage(ctx context.Context, url string) (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", fmt.Errorf("%w: browser client is closed", ErrProviderUnavailable)
	}
	c.mu.Unlock()

	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx)
	defer tabCancel()

	navCtx, navCancel := context.WithTimeout(tabCtx, c.navTimeout)
	defer navCancel()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		// Propagate parent context cancellation untouched
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}
	return html, nil
}

// ScrapeChannelPage renders the channel page and extracts its fields.
// Returns nil (no error) when no channel title could be located.
func (c *ChromeBrowserClient) ScrapeChannelPage(ctx context.Context, channelURL string) (*ScrapedChannel, error) {
	log.Info().Str("url", channelURL).Msg("Scraping channel page with headless browser")

	html, err := c.renderPage(ctx, channelURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	scraped := &ScrapedChannel{
		Title:          firstText(doc, "yt-formatted-string.ytd-channel-name"),
		Description:    firstText(doc, "yt-formatted-string.ytd-channel-about-metadata-renderer"),
		SubscriberText: firstText(doc, `yt-formatted-string[id="subscriber-count"]`),
		VideoCountText: firstText(doc, `yt-formatted-string[id="videos-count"]`),
		ViewCountText:  firstText(doc, "span.ytd-about-channel-renderer"),
	}

	if img := doc.Find("img.yt-img-shadow").First(); img.Length() > 0 {
		scraped.ThumbnailURL, _ = img.Attr("src")
	}

	if joined := firstText(doc, "span.ytd-channel-about-metadata-renderer"); joined != "" {
		if m := joinedYearPattern.FindStringSubmatch(joined); m != nil {
			scraped.JoinedYear, _ = strconv.Atoi(m[1])
		}
	}

	if scraped.Title == "" {
		log.Debug().Str("url", channelURL).Msg("No channel title found on rendered page")
		return nil, nil
	}

	log.Debug().
		Str("title", scraped.Title).
		Str("subscribers", scraped.SubscriberText).
		Msg("Scraped channel page")

	return scraped, nil
}

// ScrapeChannelVideos renders the channel's video grid and extracts up
// to max tiles.
func (c *ChromeBrowserClient) ScrapeChannelVideos(ctx context.Context, channelURL string, max int) ([]ScrapedVideo, error) {
	log.Info().Str("url", channelURL).Int("max", max).Msg("Scraping channel video grid")

	html, err := c.renderPage(ctx, strings.TrimSuffix(channelURL, "/")+"/videos")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var videos []ScrapedVideo
	doc.Find("ytd-grid-video-renderer, ytd-rich-item-renderer").EachWithBreak(func(_ int, tile *goquery.Selection) bool {
		title := strings.TrimSpace(tile.Find("#video-title").First().Text())
		views := strings.TrimSpace(tile.Find("#metadata-line span").First().Text())

		var videoID string
		if href, ok := tile.Find("a").First().Attr("href"); ok {
			videoID = videoIDFromHref(href)
		}
		if videoID == "" {
			return true
		}

		videos = append(videos, ScrapedVideo{
			VideoID:   videoID,
			Title:     title,
			ViewsText: views,
		})
		return max <= 0 || len(videos) < max
	})

	log.Debug().Int("count", len(videos)).Str("url", channelURL).Msg("Scraped video grid")
	return videos, nil
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// videoIDFromHref pulls the video ID out of a watch link like
// "/watch?v=abc123" or "/shorts/abc123".
func videoIDFromHref(href string) string {
	if idx := strings.Index(href, "watch?v="); idx >= 0 {
		id := href[idx+len("watch?v="):]
		if amp := strings.IndexAny(id, "&#"); amp >= 0 {
			id = id[:amp]
		}
		return id
	}
	if idx := strings.Index(href, "/shorts/"); idx >= 0 {
		id := href[idx+len("/shorts/"):]
		if slash := strings.IndexAny(id, "/?#"); slash >= 0 {
			id = id[:slash]
		}
		return id
	}
	return ""
}
