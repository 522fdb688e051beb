package scraper

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ender-ss/youtubesrapping/common"
	"github.com/Ender-ss/youtubesrapping/model"
)

// knownChannelNames maps a handful of well-known channel IDs to stable
// display names so synthetic records for them stay recognizable.
var knownChannelNames = map[string]string{
	"UCBJycsmduvYEL83R_U4JriQ": "Cooking Channel",
	"UCXuqSBlHAE6Xw-yeJA0Tunw": "Entertainment Hub",
	"UCMiJRAwDNSNzuYeN2uWa0pA": "Music Central",
	"UCeeFfhMcJa1kjtfZAGskOCA": "Fun Zone",
	"UCs6EmLAT4lTWwCSJRgbbchQ": "Travel Adventures",
}

var channelNamePool = []string{
	"Tech Reviews", "Gaming Central", "Music Vibes", "News Update",
	"Entertainment Plus", "Learning Hub", "Sports Arena", "Lifestyle TV",
	"Cooking Master", "Travel Guide", "Science Lab", "Art Studio",
	"Fitness Pro", "Comedy Club", "Education Zone", "Business Talk",
}

// demoCategory is one topical bucket for demonstration channels.
type demoCategory struct {
	Name     string
	Keywords []string
}

var demoCategories = []demoCategory{
	{"Tech", []string{"technology", "gadgets", "software", "programming"}},
	{"Gaming", []string{"games", "gaming", "esports", "gameplay"}},
	{"Music", []string{"music", "songs", "covers", "beats"}},
	{"News", []string{"news", "politics", "current events", "analysis"}},
	{"Entertainment", []string{"comedy", "entertainment", "fun", "viral"}},
	{"Education", []string{"education", "learning", "tutorials", "courses"}},
	{"Sports", []string{"sports", "fitness", "workout", "athletics"}},
	{"Cooking", []string{"cooking", "recipes", "food", "culinary"}},
	{"Travel", []string{"travel", "tourism", "adventure", "exploration"}},
	{"Lifestyle", []string{"lifestyle", "fashion", "beauty", "health"}},
}

// PlaceholderName derives a stable display name for a channel whose
// real title could not be obtained from any provider.
func PlaceholderName(channelID string) string {
	if name, ok := knownChannelNames[channelID]; ok {
		return name
	}
	h := common.HashString(channelID)
	return channelNamePool[h%uint64(len(channelNamePool))]
}

// SyntheticChannel builds a fully-populated channel record seeded from
// the channel ID hash. The same ID always yields the same stats, so
// retrying an unresolvable channel stays stable across calls.
func SyntheticChannel(channelID, country string, now time.Time) *model.ChannelInfo {
	if country == "" {
		country = "US"
	}

	h := common.HashString(channelID)

	subscriberCount := int64(h%100000) + 1000
	videoCount := int64((h>>8)%200) + 5
	viewCount := int64((h>>16)%500000) + 5000
	daysOld := int((h >> 24) % 60) + 1

	name := PlaceholderName(channelID)

	log.Debug().
		Str("channel_id", channelID).
		Str("title", name).
		Int64("subscribers", subscriberCount).
		Msg("Built synthetic channel record")

	return &model.ChannelInfo{
		ChannelID: channelID,
		Title:     name,
		Description: fmt.Sprintf(
			"%s is a growing YouTube channel with %d subscribers and %d videos. Created %d days ago with engaging content for viewers worldwide.",
			name, subscriberCount, videoCount, daysOld),
		PublishedAt:     now.AddDate(0, 0, -daysOld),
		ThumbnailURL:    fmt.Sprintf("https://picsum.photos/seed/%s/200/200.jpg", channelID),
		Country:         country,
		Language:        "en",
		SubscriberCount: subscriberCount,
		VideoCount:      videoCount,
		ViewCount:       viewCount,
	}
}

// DemoChannels synthesizes three demonstration channels spanning
// distinct topical categories. The category pick is seeded from the
// given instant, so separate calls can differ, but each channel's stats
// are fully determined by that seed. IDs carry the "demo-" prefix so
// callers can tell synthetic results from real ones.
func DemoChannels(country string, now time.Time) []*model.ChannelInfo {
	if country == "" {
		country = "US"
	}

	timestamp := now.UnixMilli()
	seed := uint64(timestamp / 1000)

	log.Info().Str("country", country).Msg("Creating demonstration channels")

	channels := make([]*model.ChannelInfo, 0, 3)
	for i := uint64(0); i < 3; i++ {
		category := demoCategories[(seed+i)%uint64(len(demoCategories))]
		channelID := fmt.Sprintf("demo-%d-%d", timestamp, i)
		h := (seed + i) * 999983

		subscriberCount := int64(h%50000) + 1000
		videoCount := int64((h>>8)%100) + 10
		viewCount := int64((h>>16)%100000) + 10000
		daysOld := int((h>>24)%25) + 5
		keyword := category.Keywords[(h>>32)%uint64(len(category.Keywords))]

		channels = append(channels, &model.ChannelInfo{
			ChannelID: channelID,
			Title:     fmt.Sprintf("%s %s Channel %s", category.Name, keyword, country),
			Description: fmt.Sprintf(
				"A %s channel focused on %s and related content. Created %d days ago with growing engagement.",
				category.Name, keyword, daysOld),
			PublishedAt:     now.AddDate(0, 0, -daysOld),
			ThumbnailURL:    fmt.Sprintf("https://picsum.photos/seed/%s/200/200.jpg", channelID),
			Country:         country,
			Language:        "en",
			SubscriberCount: subscriberCount,
			VideoCount:      videoCount,
			ViewCount:       viewCount,
		})
	}

	return channels
}
