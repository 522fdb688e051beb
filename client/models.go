package client

import (
	"github.com/Ender-ss/youtubesrapping/common"
)

// Item is a loosely-typed search result. Provider responses carry the
// same logical field under different keys depending on item type and
// A/B-tested layout, so access goes through ordered extractor functions
// that each try one known field path and return the first non-empty match.
type Item map[string]interface{}

// mapAt walks nested maps along path, returning nil when any hop is
// missing or not a map.
func mapAt(m map[string]interface{}, path ...string) map[string]interface{} {
	cur := m
	for _, key := range path {
		next, ok := cur[key].(map[string]interface{})
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// textOf extracts text from a provider text object: a plain string, a
// {"simpleText": ...} wrapper or a {"runs": [{"text": ...}, ...]} array.
func textOf(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		if s, ok := t["simpleText"].(string); ok {
			return s
		}
		if runs, ok := t["runs"].([]interface{}); ok {
			var out string
			for _, run := range runs {
				if rm, ok := run.(map[string]interface{}); ok {
					if s, ok := rm["text"].(string); ok {
						out += s
					}
				}
			}
			return out
		}
	}
	return ""
}

// browseIDOf digs the browse endpoint out of a byline text object, the
// place providers hide the channel ID on video items.
func browseIDOf(it Item, bylineKey string) string {
	byline, ok := it[bylineKey].(map[string]interface{})
	if !ok {
		return ""
	}
	runs, ok := byline["runs"].([]interface{})
	if !ok || len(runs) == 0 {
		return ""
	}
	first, ok := runs[0].(map[string]interface{})
	if !ok {
		return ""
	}
	if browse := mapAt(first, "navigationEndpoint", "browseEndpoint"); browse != nil {
		if id, ok := browse["browseId"].(string); ok {
			return id
		}
	}
	return ""
}

// channelIDExtractors is the ordered list of known channel-ID field
// paths. Each extractor tries exactly one path.
var channelIDExtractors = []func(Item) string{
	func(it Item) string {
		if id, ok := it["channelId"].(string); ok {
			return id
		}
		return ""
	},
	func(it Item) string {
		if it.Kind() != string(SearchKindChannel) {
			return ""
		}
		if id, ok := it["id"].(string); ok {
			return id
		}
		return ""
	},
	func(it Item) string { return browseIDOf(it, "shortBylineText") },
	func(it Item) string { return browseIDOf(it, "longBylineText") },
	func(it Item) string {
		if browse := mapAt(it, "navigationEndpoint", "browseEndpoint"); browse != nil {
			if id, ok := browse["browseId"].(string); ok {
				return id
			}
		}
		return ""
	},
}

// Kind returns the item type ("video", "channel") or empty when unknown.
func (it Item) Kind() string {
	if k, ok := it["type"].(string); ok {
		return k
	}
	return ""
}

// ChannelID returns the canonical channel identifier embedded in the
// item, trying every known field path in order. Only well-formed channel
// IDs are returned.
func (it Item) ChannelID() string {
	for _, extract := range channelIDExtractors {
		if id := extract(it); id != "" {
			if normalized := common.ExtractChannelID(id); normalized != "" {
				return normalized
			}
		}
	}
	return ""
}

// VideoID returns the video identifier, empty for non-video items.
func (it Item) VideoID() string {
	if it.Kind() == string(SearchKindChannel) {
		return ""
	}
	if id, ok := it["id"].(string); ok {
		return id
	}
	if id, ok := it["videoId"].(string); ok {
		return id
	}
	return ""
}

// Title returns the item title in plain text.
func (it Item) Title() string {
	if s := textOf(it["title"]); s != "" {
		return s
	}
	return textOf(it["name"])
}

// ChannelTitle returns the owning channel's display name, when present.
func (it Item) ChannelTitle() string {
	if s, ok := it["channelTitle"].(string); ok {
		return s
	}
	if s := textOf(it["shortBylineText"]); s != "" {
		return s
	}
	return textOf(it["longBylineText"])
}

// ViewCount returns the item's view count, parsing human-readable forms.
func (it Item) ViewCount() int64 {
	switch v := it["viewCount"].(type) {
	case float64:
		return int64(v)
	case string:
		return common.ParseCount(v)
	case map[string]interface{}:
		return common.ParseCount(textOf(v))
	}
	return common.ParseCount(textOf(it["viewCountText"]))
}

// SubscriberCount parses the subscriber count of a channel item.
func (it Item) SubscriberCount() int64 {
	if s := textOf(it["subscriberCountText"]); s != "" {
		return common.ParseCount(s)
	}
	return common.ParseCount(textOf(it["subscriberCount"]))
}

// ChannelVideoCount parses the video count of a channel item.
func (it Item) ChannelVideoCount() int64 {
	return common.ParseCount(textOf(it["videosCountText"]))
}

// Country returns the channel item's country code, when present.
func (it Item) Country() string {
	if s, ok := it["country"].(string); ok {
		return s
	}
	return ""
}

// Description returns the item description, when present.
func (it Item) Description() string {
	if s := textOf(it["description"]); s != "" {
		return s
	}
	return textOf(it["descriptionSnippet"])
}

// ThumbnailURL returns the first thumbnail URL, when present.
func (it Item) ThumbnailURL() string {
	thumb, ok := it["thumbnail"].(map[string]interface{})
	if !ok {
		return ""
	}
	thumbs, ok := thumb["thumbnails"].([]interface{})
	if !ok || len(thumbs) == 0 {
		return ""
	}
	first, ok := thumbs[0].(map[string]interface{})
	if !ok {
		return ""
	}
	if url, ok := first["url"].(string); ok {
		return url
	}
	return ""
}
