package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchResponse(sections ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		"contents": map[string]interface{}{
			"twoColumnSearchResultsRenderer": map[string]interface{}{
				"primaryContents": map[string]interface{}{
					"sectionListRenderer": map[string]interface{}{
						"contents": []interface{}{
							map[string]interface{}{
								"itemSectionRenderer": map[string]interface{}{
									"contents": sections,
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestParseSearchResultsVideos(t *testing.T) {
	data := searchResponse(
		map[string]interface{}{
			"videoRenderer": map[string]interface{}{
				"videoId": "vid-1",
				"title":   map[string]interface{}{"simpleText": "First"},
			},
		},
		map[string]interface{}{
			"channelRenderer": map[string]interface{}{
				"channelId": "UCX6OQ3DkcsbYNE6H8uQQuVA",
			},
		},
		map[string]interface{}{
			"videoRenderer": map[string]interface{}{
				"videoId": "vid-2",
			},
		},
	)

	items, err := parseSearchResults(data, SearchKindVideo)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "vid-1", items[0].VideoID())
	assert.Equal(t, "First", items[0].Title())
	assert.Equal(t, "vid-2", items[1].VideoID())
}

func TestParseSearchResultsChannels(t *testing.T) {
	data := searchResponse(
		map[string]interface{}{
			"channelRenderer": map[string]interface{}{
				"channelId": "UCX6OQ3DkcsbYNE6H8uQQuVA",
				"title":     map[string]interface{}{"simpleText": "A Channel"},
			},
		},
		map[string]interface{}{
			"videoRenderer": map[string]interface{}{"videoId": "vid-1"},
		},
	)

	items, err := parseSearchResults(data, SearchKindChannel)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "UCX6OQ3DkcsbYNE6H8uQQuVA", items[0].ChannelID())
	assert.Equal(t, "A Channel", items[0].Title())
}

func TestParseSearchResultsMalformed(t *testing.T) {
	_, err := parseSearchResults("not a map", SearchKindVideo)
	assert.ErrorIs(t, err, ErrMalformed)

	items, err := parseSearchResults(map[string]interface{}{}, SearchKindVideo)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParseChannelVideosRichGrid(t *testing.T) {
	data := map[string]interface{}{
		"contents": map[string]interface{}{
			"twoColumnBrowseResultsRenderer": map[string]interface{}{
				"tabs": []interface{}{
					map[string]interface{}{
						"tabRenderer": map[string]interface{}{
							"content": map[string]interface{}{
								"richGridRenderer": map[string]interface{}{
									"contents": []interface{}{
										map[string]interface{}{
											"richItemRenderer": map[string]interface{}{
												"content": map[string]interface{}{
													"videoRenderer": map[string]interface{}{
														"videoId":       "vid-1",
														"viewCountText": map[string]interface{}{"simpleText": "1.2K views"},
													},
												},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	items, err := parseChannelVideos(data, "UCX6OQ3DkcsbYNE6H8uQQuVA")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "vid-1", items[0].VideoID())
	assert.Equal(t, "UCX6OQ3DkcsbYNE6H8uQQuVA", items[0].ChannelID())
	assert.Equal(t, int64(1200), items[0].ViewCount())
}

func TestParseChannelBrowseC4Header(t *testing.T) {
	data := map[string]interface{}{
		"header": map[string]interface{}{
			"c4TabbedHeaderRenderer": map[string]interface{}{
				"title":               "Header Channel",
				"channelId":           "UCq-Fj5jknLsUf-MWSy4_brA",
				"subscriberCountText": map[string]interface{}{"simpleText": "1.2M subscribers"},
				"videosCountText":     map[string]interface{}{"simpleText": "321 videos"},
			},
		},
		"metadata": map[string]interface{}{
			"channelMetadataRenderer": map[string]interface{}{
				"description": "About text",
				"externalId":  "UCq-Fj5jknLsUf-MWSy4_brA",
				"country":     "US",
			},
		},
	}

	item, err := parseChannelBrowse(data, "UCq-Fj5jknLsUf-MWSy4_brA")
	require.NoError(t, err)
	assert.Equal(t, "Header Channel", item.Title())
	assert.Equal(t, "UCq-Fj5jknLsUf-MWSy4_brA", item.ChannelID())
	assert.Equal(t, int64(1200000), item.SubscriberCount())
	assert.Equal(t, int64(321), item.ChannelVideoCount())
	assert.Equal(t, "About text", item.Description())
	assert.Equal(t, "US", item.Country())
}

func TestParseChannelBrowsePageHeader(t *testing.T) {
	data := map[string]interface{}{
		"header": map[string]interface{}{
			"pageHeaderViewModel": map[string]interface{}{
				"title": map[string]interface{}{
					"dynamicTextViewModel": map[string]interface{}{
						"text": map[string]interface{}{"content": "New Header"},
					},
				},
				"metadata": map[string]interface{}{
					"contentMetadataViewModel": map[string]interface{}{
						"metadataRows": []interface{}{
							map[string]interface{}{
								"metadataParts": []interface{}{
									map[string]interface{}{
										"text": map[string]interface{}{"content": "54K subscribers"},
									},
									map[string]interface{}{
										"text": map[string]interface{}{"content": "120 videos"},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	item, err := parseChannelBrowse(data, "UCX6OQ3DkcsbYNE6H8uQQuVA")
	require.NoError(t, err)
	assert.Equal(t, "New Header", item.Title())
	assert.Equal(t, int64(54000), item.SubscriberCount())
	assert.Equal(t, int64(120), item.ChannelVideoCount())
}

func TestCapItems(t *testing.T) {
	items := []Item{{}, {}, {}}
	assert.Len(t, capItems(items, 2), 2)
	assert.Len(t, capItems(items, 0), 3)
	assert.Len(t, capItems(items, 10), 3)
}
