package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ender-ss/youtubesrapping/model"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	a, err := NewAnalyzer(context.Background(), "", "gemini-2.5-flash")
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return a
}

func sampleChannels() []*model.ChannelInfo {
	return []*model.ChannelInfo{
		{ChannelID: "UCaaa", Title: "Small Channel", SubscriberCount: 2000, VideoCount: 10, ViewCount: 50000},
		{ChannelID: "UCbbb", Title: "Big Channel", SubscriberCount: 900000, VideoCount: 300, ViewCount: 90000000},
	}
}

func TestParseReportResponse(t *testing.T) {
	a := newTestAnalyzer(t)

	response := `Here is the analysis you asked for:
{
  "summary": "Two channels show steady growth.",
  "insights": [
    {"channel_id": "UCaaa", "title": "Small Channel", "category": "Music", "insight": "Rapid early growth.", "score": 7},
    {"channel_id": "UCbbb", "title": "Big Channel", "category": "Gaming", "insight": "Established audience.", "score": 25}
  ]
}
Let me know if you need more detail.`

	report, err := a.parseReportResponse(response)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "Two channels show steady growth.", report.Summary)
	require.Len(t, report.Insights, 2)
	assert.Equal(t, 7, report.Insights[0].Score)
	assert.Equal(t, 10, report.Insights[1].Score, "scores clamp to the 1-10 range")
	assert.False(t, report.Fallback)
}

func TestParseReportResponseClampsLowScores(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.parseReportResponse(`{"summary": "ok", "insights": [{"channel_id": "UCaaa", "score": -3}]}`)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Insights[0].Score)
}

func TestParseReportResponseRejectsGarbage(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.parseReportResponse("no json here at all")
	assert.Error(t, err)

	_, err = a.parseReportResponse(`{"insights": []}`)
	assert.Error(t, err, "a summary is required")

	_, err = a.parseReportResponse(`{broken json}`)
	assert.Error(t, err)
}

func TestGenerateTrendReportWithoutClientFallsBack(t *testing.T) {
	a := newTestAnalyzer(t)

	report := a.GenerateTrendReport(context.Background(), sampleChannels())

	require.NotNil(t, report)
	assert.True(t, report.Fallback)
	assert.NotEmpty(t, report.Summary)
	require.Len(t, report.Insights, 2)
	assert.Equal(t, "UCbbb", report.Insights[0].ChannelID, "insights sorted by subscriber count")
}

func TestGenerateTrendReportEmptyInput(t *testing.T) {
	a := newTestAnalyzer(t)

	report := a.GenerateTrendReport(context.Background(), nil)

	require.NotNil(t, report)
	assert.True(t, report.Fallback)
	assert.Empty(t, report.Insights)
	assert.NotEmpty(t, report.Summary)
}

func TestScoreFromStats(t *testing.T) {
	tests := []struct {
		subscribers int64
		expected    int
	}{
		{0, 1},
		{1000, 2},
		{4000, 3},
		{16000, 4},
		{1000000000, 10},
	}

	for _, tt := range tests {
		c := &model.ChannelInfo{SubscriberCount: tt.subscribers}
		assert.Equal(t, tt.expected, scoreFromStats(c), "subscribers=%d", tt.subscribers)
	}
}

func TestBuildReportPromptIncludesChannels(t *testing.T) {
	prompt := buildReportPrompt(sampleChannels())

	assert.Contains(t, prompt, "UCaaa")
	assert.Contains(t, prompt, "Big Channel")
	assert.Contains(t, prompt, `"summary"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
}
