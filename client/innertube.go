package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	innertubego "github.com/nezbut/innertube-go"
	"github.com/rs/zerolog/log"
)

// Cache size limits to prevent unbounded memory growth
const (
	defaultSearchCacheSize = 500
	defaultVideosCacheSize = 1000
)

// InnerTubeConfig contains configuration for the InnerTube search client.
type InnerTubeConfig struct {
	ClientType    string // Default: "WEB"
	ClientVersion string // Default: "2.20230728.00.00"
	HTTPTimeout   time.Duration
}

// InnerTubeSearchClient implements SearchClient against the keyless
// InnerTube API. Responses are complex nested structures; the renderer
// maps found inside them are surfaced as Items so callers can use the
// ordered field extractors instead of walking the raw tree.
type InnerTubeSearchClient struct {
	client    *innertubego.InnerTube
	mu        sync.RWMutex // Protects client and connected state
	connected bool

	searchCache *lru.Cache[string, []Item]
	videosCache *lru.Cache[string, []Item]

	clientType    string
	clientVersion string
	timeout       time.Duration
}

// NewInnerTubeSearchClient creates a new search client using the InnerTube API.
func NewInnerTubeSearchClient(config *InnerTubeConfig) (*InnerTubeSearchClient, error) {
	if config == nil {
		config = &InnerTubeConfig{}
	}
	if config.ClientType == "" {
		config.ClientType = "WEB"
	}
	if config.ClientVersion == "" {
		config.ClientVersion = "2.20230728.00.00"
	}

	log.Info().
		Str("client_type", config.ClientType).
		Str("client_version", config.ClientVersion).
		Msg("Creating InnerTube search client")

	searchCache, err := lru.New[string, []Item](defaultSearchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	videosCache, err := lru.New[string, []Item](defaultVideosCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create videos cache: %w", err)
	}

	return &InnerTubeSearchClient{
		clientType:    config.ClientType,
		clientVersion: config.ClientVersion,
		timeout:       config.HTTPTimeout,
		searchCache:   searchCache,
		videosCache:   videosCache,
	}, nil
}

// Connect establishes a connection to the InnerTube API.
func (c *InnerTubeSearchClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected && c.client != nil {
		log.Warn().Msg("Search client already connected")
		return nil
	}

	// Parameters: config, clientType, clientVersion, apiKey, accessToken, refreshToken, httpClient, debug
	client, err := innertubego.NewInnerTube(
		nil,
		c.clientType,
		c.clientVersion,
		"",
		"",
		"",
		nil,
		false,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create InnerTube client")
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	c.client = client
	c.connected = true
	log.Info().Msg("Connected to InnerTube API")
	return nil
}

// Disconnect closes the connection to the InnerTube API.
func (c *InnerTubeSearchClient) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		log.Warn().Msg("Search client already disconnected")
		return nil
	}

	c.client = nil
	c.connected = false
	return nil
}

func (c *InnerTubeSearchClient) ensureConnected() (*innertubego.InnerTube, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected || c.client == nil {
		return nil, fmt.Errorf("search client not connected - call Connect() first")
	}
	return c.client, nil
}

func (c *InnerTubeSearchClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

// Search runs a keyword search scoped to the given item kind.
func (c *InnerTubeSearchClient) Search(ctx context.Context, term string, kind SearchKind, limit int) ([]Item, error) {
	client, err := c.ensureConnected()
	if err != nil {
		return nil, err
	}
	if term == "" {
		return nil, fmt.Errorf("search term cannot be empty")
	}

	cacheKey := string(kind) + "|" + term
	if cached, exists := c.searchCache.Get(cacheKey); exists {
		log.Debug().Str("term", term).Msg("Using cached search results")
		return capItems(cached, limit), nil
	}

	log.Info().Str("term", term).Str("kind", string(kind)).Msg("Searching via InnerTube")

	callCtx, cancel := c.callCtx(ctx)
	defer cancel()

	// Parameters: context, query, params, continuation
	data, err := client.Search(callCtx, &term, nil, nil)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("InnerTube search failed")
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	items, err := parseSearchResults(data, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	c.searchCache.Add(cacheKey, items)

	log.Debug().Str("term", term).Int("count", len(items)).Msg("Parsed search results")
	return capItems(items, limit), nil
}

// BrowseChannel fetches one channel's page data as a channel item.
func (c *InnerTubeSearchClient) BrowseChannel(ctx context.Context, channelID string) (Item, error) {
	client, err := c.ensureConnected()
	if err != nil {
		return nil, err
	}
	if channelID == "" {
		return nil, fmt.Errorf("channel ID cannot be empty")
	}

	log.Info().Str("channel_id", channelID).Msg("Browsing channel via InnerTube")

	callCtx, cancel := c.callCtx(ctx)
	defer cancel()

	browseID := channelID
	// Parameters: context, browseID, params, continuation
	data, err := client.Browse(callCtx, &browseID, nil, nil)
	if err != nil {
		log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to browse channel")
		return nil, fmt.Errorf("failed to browse channel: %w", err)
	}

	item, err := parseChannelBrowse(data, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel browse: %w", err)
	}
	return item, nil
}

// ChannelVideos lists video items belonging to one channel.
func (c *InnerTubeSearchClient) ChannelVideos(ctx context.Context, channelID string, limit int) ([]Item, error) {
	client, err := c.ensureConnected()
	if err != nil {
		return nil, err
	}
	if channelID == "" {
		return nil, fmt.Errorf("channel ID cannot be empty")
	}

	if cached, exists := c.videosCache.Get(channelID); exists {
		log.Debug().Str("channel_id", channelID).Msg("Using cached channel videos")
		return capItems(cached, limit), nil
	}

	log.Info().Str("channel_id", channelID).Msg("Browsing channel videos via InnerTube")

	callCtx, cancel := c.callCtx(ctx)
	defer cancel()

	browseID := channelID
	// Parameters: context, browseID, params, continuation
	data, err := client.Browse(callCtx, &browseID, nil, nil)
	if err != nil {
		log.Error().Err(err).Str("channel_id", channelID).Msg("Failed to browse channel")
		return nil, fmt.Errorf("failed to browse channel: %w", err)
	}

	items, err := parseChannelVideos(data, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel videos: %w", err)
	}

	c.videosCache.Add(channelID, items)

	log.Debug().Str("channel_id", channelID).Int("count", len(items)).Msg("Parsed channel videos")
	return capItems(items, limit), nil
}

func capItems(items []Item, limit int) []Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// itemFromRenderer wraps a renderer map as an Item, stamping its kind
// and normalized id.
func itemFromRenderer(renderer map[string]interface{}, kind SearchKind) Item {
	it := Item{}
	for k, v := range renderer {
		it[k] = v
	}
	it["type"] = string(kind)
	switch kind {
	case SearchKindVideo:
		if id, ok := renderer["videoId"].(string); ok {
			it["id"] = id
		}
	case SearchKindChannel:
		if id, ok := renderer["channelId"].(string); ok {
			it["id"] = id
		}
	}
	return it
}

// parseSearchResults extracts renderer items from an InnerTube search
// response, keeping only the requested kind.
func parseSearchResults(data interface{}, kind SearchKind) ([]Item, error) {
	dataMap, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: invalid data type for search response", ErrMalformed)
	}

	items := make([]Item, 0)

	sectionContents := searchSectionContents(dataMap)
	if sectionContents == nil {
		log.Warn().Msg("No recognized section layout in search response")
		return items, nil
	}

	for _, sectionItem := range sectionContents {
		sectionMap, ok := sectionItem.(map[string]interface{})
		if !ok {
			continue
		}

		itemSection, ok := sectionMap["itemSectionRenderer"].(map[string]interface{})
		if !ok {
			continue
		}

		contents, ok := itemSection["contents"].([]interface{})
		if !ok {
			continue
		}

		for _, content := range contents {
			contentMap, ok := content.(map[string]interface{})
			if !ok {
				continue
			}

			if kind == SearchKindVideo {
				if renderer, ok := contentMap["videoRenderer"].(map[string]interface{}); ok {
					items = append(items, itemFromRenderer(renderer, SearchKindVideo))
				}
				continue
			}

			if renderer, ok := contentMap["channelRenderer"].(map[string]interface{}); ok {
				items = append(items, itemFromRenderer(renderer, SearchKindChannel))
			}
		}
	}

	return items, nil
}

// searchSectionContents navigates to the section list of a search
// response, covering both column layouts YouTube serves.
func searchSectionContents(dataMap map[string]interface{}) []interface{} {
	contents, ok := dataMap["contents"].(map[string]interface{})
	if !ok {
		return nil
	}

	if twoCol, ok := contents["twoColumnSearchResultsRenderer"].(map[string]interface{}); ok {
		if primary, ok := twoCol["primaryContents"].(map[string]interface{}); ok {
			if sectionList, ok := primary["sectionListRenderer"].(map[string]interface{}); ok {
				if sc, ok := sectionList["contents"].([]interface{}); ok {
					return sc
				}
			}
		}
	}

	if sectionList, ok := contents["sectionListRenderer"].(map[string]interface{}); ok {
		if sc, ok := sectionList["contents"].([]interface{}); ok {
			return sc
		}
	}

	return nil
}

// parseChannelBrowse flattens a channel browse response into a channel
// item. Handles both header formats YouTube A/B tests.
func parseChannelBrowse(data interface{}, channelID string) (Item, error) {
	dataMap, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: invalid data type for channel browse response", ErrMalformed)
	}

	item := Item{
		"type": string(SearchKindChannel),
		"id":   channelID,
	}

	var headerParsed bool

	if header, ok := dataMap["header"].(map[string]interface{}); ok {
		// Legacy c4TabbedHeaderRenderer format
		if c4Header, ok := header["c4TabbedHeaderRenderer"].(map[string]interface{}); ok {
			headerParsed = true
			if title, ok := c4Header["title"].(string); ok {
				item["title"] = title
			}
			if cID, ok := c4Header["channelId"].(string); ok {
				item["id"] = cID
			}
			if subCount, ok := c4Header["subscriberCountText"]; ok {
				item["subscriberCountText"] = subCount
			}
			if videoCount, ok := c4Header["videosCountText"]; ok {
				item["videosCountText"] = videoCount
			}
			if viewCount, ok := c4Header["viewCountText"]; ok {
				item["viewCountText"] = viewCount
			}
			if avatar, ok := c4Header["avatar"]; ok {
				item["thumbnail"] = avatar
			}
			if banner, ok := c4Header["banner"].(map[string]interface{}); ok {
				if thumbs, ok := banner["thumbnails"].([]interface{}); ok && len(thumbs) > 0 {
					if t, ok := thumbs[0].(map[string]interface{}); ok {
						if url, ok := t["url"].(string); ok {
							item["bannerUrl"] = url
						}
					}
				}
			}
		}

		// Newer pageHeaderViewModel format
		if pageHeader, ok := header["pageHeaderViewModel"].(map[string]interface{}); ok {
			headerParsed = true
			if titleObj, ok := pageHeader["title"].(map[string]interface{}); ok {
				if dynText, ok := titleObj["dynamicTextViewModel"].(map[string]interface{}); ok {
					if textObj, ok := dynText["text"].(map[string]interface{}); ok {
						if content, ok := textObj["content"].(string); ok {
							item["title"] = content
						}
					}
				}
			}
			if metadataObj, ok := pageHeader["metadata"].(map[string]interface{}); ok {
				if contentMeta, ok := metadataObj["contentMetadataViewModel"].(map[string]interface{}); ok {
					if rows, ok := contentMeta["metadataRows"].([]interface{}); ok {
						for _, row := range rows {
							rowMap, ok := row.(map[string]interface{})
							if !ok {
								continue
							}
							parts, ok := rowMap["metadataParts"].([]interface{})
							if !ok {
								continue
							}
							for _, part := range parts {
								partMap, ok := part.(map[string]interface{})
								if !ok {
									continue
								}
								text, ok := partMap["text"].(map[string]interface{})
								if !ok {
									continue
								}
								content, ok := text["content"].(string)
								if !ok {
									continue
								}
								lower := strings.ToLower(content)
								switch {
								case strings.Contains(lower, "subscriber"):
									item["subscriberCountText"] = content
								case strings.Contains(lower, "video"):
									item["videosCountText"] = content
								case strings.Contains(lower, "view"):
									item["viewCountText"] = content
								}
							}
						}
					}
				}
			}
		}
	}

	if metadata, ok := dataMap["metadata"].(map[string]interface{}); ok {
		if channelMeta, ok := metadata["channelMetadataRenderer"].(map[string]interface{}); ok {
			if description, ok := channelMeta["description"].(string); ok {
				item["description"] = description
			}
			if externalID, ok := channelMeta["externalId"].(string); ok {
				item["id"] = externalID
			}
			if country, ok := channelMeta["country"].(string); ok {
				item["country"] = country
			}
			if _, ok := item["title"]; !ok {
				if title, ok := channelMeta["title"].(string); ok {
					item["title"] = title
				}
			}
		}
	}

	if !headerParsed {
		log.Warn().Str("channel_id", channelID).Msg("No recognized header format in browse response")
	}

	return item, nil
}

// parseChannelVideos extracts video items from a channel browse
// response. Handles both the richGridRenderer layout and the older
// sectionList/gridRenderer layout.
func parseChannelVideos(data interface{}, channelID string) ([]Item, error) {
	dataMap, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: invalid data type for browse response", ErrMalformed)
	}

	items := make([]Item, 0)

	contents, ok := dataMap["contents"].(map[string]interface{})
	if !ok {
		log.Warn().Msg("No contents found in browse response")
		return items, nil
	}

	twoCol, ok := contents["twoColumnBrowseResultsRenderer"].(map[string]interface{})
	if !ok {
		log.Warn().Msg("No twoColumnBrowseResultsRenderer found")
		return items, nil
	}

	tabs, ok := twoCol["tabs"].([]interface{})
	if !ok {
		log.Warn().Msg("No tabs found in browse response")
		return items, nil
	}

	appendVideo := func(renderer map[string]interface{}) {
		it := itemFromRenderer(renderer, SearchKindVideo)
		it["channelId"] = channelID
		items = append(items, it)
	}

	for _, tab := range tabs {
		tabMap, ok := tab.(map[string]interface{})
		if !ok {
			continue
		}

		tabRenderer, ok := tabMap["tabRenderer"].(map[string]interface{})
		if !ok {
			continue
		}

		content, ok := tabRenderer["content"].(map[string]interface{})
		if !ok {
			continue
		}

		// Try richGridRenderer (new layout)
		if richGrid, ok := content["richGridRenderer"].(map[string]interface{}); ok {
			if gridItems, ok := richGrid["contents"].([]interface{}); ok {
				for _, item := range gridItems {
					itemMap, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					richItem, ok := itemMap["richItemRenderer"].(map[string]interface{})
					if !ok {
						continue
					}
					contentObj, ok := richItem["content"].(map[string]interface{})
					if !ok {
						continue
					}
					if renderer, ok := contentObj["videoRenderer"].(map[string]interface{}); ok {
						appendVideo(renderer)
					}
				}
			}
		}

		// Try sectionListRenderer (older layout)
		if sectionList, ok := content["sectionListRenderer"].(map[string]interface{}); ok {
			if sectionContents, ok := sectionList["contents"].([]interface{}); ok {
				for _, sectionItem := range sectionContents {
					sectionMap, ok := sectionItem.(map[string]interface{})
					if !ok {
						continue
					}
					itemSection, ok := sectionMap["itemSectionRenderer"].(map[string]interface{})
					if !ok {
						continue
					}
					itemContents, ok := itemSection["contents"].([]interface{})
					if !ok {
						continue
					}
					for _, contentItem := range itemContents {
						contentMap, ok := contentItem.(map[string]interface{})
						if !ok {
							continue
						}
						gridRenderer, ok := contentMap["gridRenderer"].(map[string]interface{})
						if !ok {
							continue
						}
						gridItems, ok := gridRenderer["items"].([]interface{})
						if !ok {
							continue
						}
						for _, gridItem := range gridItems {
							gridItemMap, ok := gridItem.(map[string]interface{})
							if !ok {
								continue
							}
							if renderer, ok := gridItemMap["gridVideoRenderer"].(map[string]interface{}); ok {
								appendVideo(renderer)
							}
						}
					}
				}
			}
		}

		if len(items) > 0 {
			break
		}
	}

	return items, nil
}
