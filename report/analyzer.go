// Package report generates AI trend reports over resolved channels.
// The generation call is opaque: a JSON-shaped prompt goes out, parsed
// JSON comes back, and any failure falls back to a canned report.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/Ender-ss/youtubesrapping/model"
)

// Analyzer builds trend reports from resolved channels via the Gemini
// API. A nil client (no API key configured) always produces the
// fallback report.
type Analyzer struct {
	client *genai.Client
	model  string
	now    func() time.Time
}

// NewAnalyzer creates a report analyzer. An empty API key yields an
// analyzer that only produces fallback reports.
func NewAnalyzer(ctx context.Context, apiKey, modelName string) (*Analyzer, error) {
	a := &Analyzer{model: modelName, now: time.Now}
	if apiKey == "" {
		log.Warn().Msg("No Gemini API key configured, trend reports will use the canned fallback")
		return a, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	a.client = client
	return a, nil
}

// GenerateTrendReport produces a trend report over the given channels.
// It never returns an error; generation or parse failures yield the
// deterministic fallback report with its Fallback flag set.
func (a *Analyzer) GenerateTrendReport(ctx context.Context, channels []*model.ChannelInfo) *model.TrendReport {
	if len(channels) == 0 {
		return a.fallbackReport(channels)
	}
	if a.client == nil {
		return a.fallbackReport(channels)
	}

	prompt := buildReportPrompt(channels)

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Trend report generation failed, using fallback")
		return a.fallbackReport(channels)
	}

	responseText := result.Text()
	if responseText == "" {
		log.Warn().Msg("Empty trend report response, using fallback")
		return a.fallbackReport(channels)
	}

	report, err := a.parseReportResponse(responseText)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse trend report response, using fallback")
		return a.fallbackReport(channels)
	}

	log.Info().Str("report_id", report.ID).Int("insights", len(report.Insights)).Msg("Trend report generated")
	return report
}

func buildReportPrompt(channels []*model.ChannelInfo) string {
	var sb strings.Builder
	sb.WriteString("You are an analyst of emerging YouTube channels. Given the channels below, ")
	sb.WriteString("identify the trends they represent and score each channel's growth potential.\n\nCHANNELS:\n")

	for _, c := range channels {
		sb.WriteString(fmt.Sprintf("- id=%s title=%q subscribers=%d videos=%d views=%d country=%s description=%q\n",
			c.ChannelID, c.Title, c.SubscriberCount, c.VideoCount, c.ViewCount, c.Country,
			truncate(c.Description, 200)))
	}

	sb.WriteString(`
Respond with JSON only, in this exact format:
{
  "summary": "2-3 sentence overview of the trends across all channels",
  "insights": [
    {
      "channel_id": "the channel id",
      "title": "the channel title",
      "category": "one-word topical category",
      "insight": "one sentence on what makes this channel notable",
      "score": number (1-10, growth potential)
    }
  ]
}`)
	return sb.String()
}

// parseReportResponse extracts the first JSON object from the model's
// response text.
func (a *Analyzer) parseReportResponse(response string) (*model.TrendReport, error) {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var parsed struct {
		Summary  string                 `json:"summary"`
		Insights []model.ChannelInsight `json:"insights"`
	}
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report JSON: %w", err)
	}
	if parsed.Summary == "" {
		return nil, fmt.Errorf("report summary is required but was empty")
	}

	for i := range parsed.Insights {
		if parsed.Insights[i].Score < 1 {
			parsed.Insights[i].Score = 1
		} else if parsed.Insights[i].Score > 10 {
			parsed.Insights[i].Score = 10
		}
	}

	return &model.TrendReport{
		ID:          uuid.NewString(),
		GeneratedAt: a.now(),
		Summary:     parsed.Summary,
		Insights:    parsed.Insights,
	}, nil
}

// fallbackReport builds a deterministic canned report from the channel
// records alone.
func (a *Analyzer) fallbackReport(channels []*model.ChannelInfo) *model.TrendReport {
	sorted := make([]*model.ChannelInfo, len(channels))
	copy(sorted, channels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubscriberCount > sorted[j].SubscriberCount
	})

	insights := make([]model.ChannelInsight, 0, len(sorted))
	for _, c := range sorted {
		insights = append(insights, model.ChannelInsight{
			ChannelID: c.ChannelID,
			Title:     c.Title,
			Category:  "General",
			Insight: fmt.Sprintf("%s has %d subscribers across %d videos with %d total views.",
				c.Title, c.SubscriberCount, c.VideoCount, c.ViewCount),
			Score: scoreFromStats(c),
		})
	}

	summary := "No channels were available for analysis."
	if len(sorted) > 0 {
		summary = fmt.Sprintf("Observed %d emerging channels; %q leads with %d subscribers.",
			len(sorted), sorted[0].Title, sorted[0].SubscriberCount)
	}

	return &model.TrendReport{
		ID:          uuid.NewString(),
		GeneratedAt: a.now(),
		Summary:     summary,
		Insights:    insights,
		Fallback:    true,
	}
}

// scoreFromStats maps subscriber counts onto the 1-10 insight scale.
func scoreFromStats(c *model.ChannelInfo) int {
	score := 1
	for threshold := int64(1000); threshold <= 1_000_000_000 && c.SubscriberCount >= threshold; threshold *= 4 {
		score++
	}
	if score > 10 {
		score = 10
	}
	return score
}

func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
