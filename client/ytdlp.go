package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ender-ss/youtubesrapping/common"
)

// Print templates handed to the extractor. Fields are pipe-delimited;
// the extractor prints the literal "NA" for anything it cannot fill.
const (
	channelTemplate    = "%(channel_id)s|%(title)s|%(uploader)s|%(uploader_id)s|%(channel)s"
	channelAltTemplate = "%(channel)s|%(uploader)s|%(uploader_id)s"
	videoListTemplate  = "%(id)s|%(title)s|%(uploader)s|%(uploader_id)s|%(duration)s|%(view_count)s|%(like_count)s|%(upload_date)s|%(thumbnail)s"
	videoTemplate      = "%(id)s|%(title)s|%(uploader)s|%(channel_id)s|%(duration)s|%(view_count)s|%(like_count)s|%(comment_count)s|%(upload_date)s|%(thumbnail)s"
)

// YtDlpClient shells out to a yt-dlp binary for metadata extraction.
// Every call is bounded by the configured command timeout.
type YtDlpClient struct {
	binPath string
	timeout time.Duration
}

// NewYtDlpClient creates an extractor client around the given binary
// path. The path is not validated here; use IsAvailable before relying
// on the client.
func NewYtDlpClient(binPath string, timeout time.Duration) *YtDlpClient {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &YtDlpClient{binPath: binPath, timeout: timeout}
}

// IsAvailable reports whether the extractor binary can be spawned.
func (c *YtDlpClient) IsAvailable(ctx context.Context) bool {
	_, err := c.run(ctx, "--version")
	if err != nil {
		log.Debug().Err(err).Str("bin", c.binPath).Msg("Extractor binary not available")
		return false
	}
	return true
}

// GetChannelInfo extracts channel identity from the channel page. When
// the extractor demands sign-in, a reduced print template is tried once
// before giving up.
func (c *YtDlpClient) GetChannelInfo(ctx context.Context, channelURL string) (*ExtractedChannel, error) {
	out, err := c.run(ctx,
		"--flat-playlist",
		"--print", channelTemplate,
		"--playlist-end", "1",
		"--no-download",
		"--ignore-errors",
		"--no-warnings",
		channelURL,
	)
	if err != nil {
		if isAuthError(err) {
			log.Info().Str("url", channelURL).Msg("Extractor requires authentication, trying reduced template")
			return c.getChannelInfoAlt(ctx, channelURL)
		}
		return nil, fmt.Errorf("failed to extract channel info: %w", err)
	}

	parts := firstLineFields(out)
	if parts == nil {
		return nil, fmt.Errorf("%w: empty extractor output for %s", ErrMalformed, channelURL)
	}

	info := &ExtractedChannel{
		ID:         field(parts, 0),
		Title:      field(parts, 1),
		Uploader:   field(parts, 2),
		UploaderID: field(parts, 3),
		ChannelURL: channelURL,
	}
	if info.Title == "" {
		info.Title = field(parts, 4)
	}
	if info.ID == "" {
		info.ID = common.ExtractChannelID(channelURL)
	}

	log.Debug().Str("channel_id", info.ID).Str("title", info.Title).Msg("Extracted channel info")
	return info, nil
}

func (c *YtDlpClient) getChannelInfoAlt(ctx context.Context, channelURL string) (*ExtractedChannel, error) {
	out, err := c.run(ctx,
		"--flat-playlist",
		"--print", channelAltTemplate,
		"--playlist-end", "1",
		"--no-download",
		"--ignore-errors",
		"--no-warnings",
		channelURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to extract channel info: %w", err)
	}

	parts := firstLineFields(out)
	if parts == nil {
		return nil, fmt.Errorf("%w: empty extractor output for %s", ErrMalformed, channelURL)
	}

	info := &ExtractedChannel{
		Title:      field(parts, 0),
		Uploader:   field(parts, 1),
		UploaderID: field(parts, 2),
		ChannelURL: channelURL,
	}
	if info.Title == "" {
		info.Title = info.Uploader
	}
	info.ID = info.UploaderID
	if info.ID == "" {
		info.ID = common.ExtractChannelID(channelURL)
	}
	return info, nil
}

// GetVideos lists up to limit videos of a channel without downloading.
// An authentication demand yields an empty list rather than an error so
// that stats derivation can continue on whatever is reachable.
func (c *YtDlpClient) GetVideos(ctx context.Context, channelURL string, limit int) ([]*ExtractedVideo, error) {
	if limit < 1 {
		limit = 1
	}
	out, err := c.run(ctx,
		"--flat-playlist",
		"--print", videoListTemplate,
		"--playlist-end", strconv.Itoa(limit),
		"--no-download",
		"--ignore-errors",
		"--no-warnings",
		channelURL,
	)
	if err != nil {
		if isAuthError(err) {
			log.Info().Str("url", channelURL).Msg("Extractor requires authentication for video listing, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list channel videos: %w", err)
	}

	var videos []*ExtractedVideo
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			continue
		}
		videos = append(videos, &ExtractedVideo{
			ID:              field(parts, 0),
			Title:           field(parts, 1),
			Uploader:        field(parts, 2),
			UploaderID:      field(parts, 3),
			DurationSeconds: numField(parts, 4),
			ViewCount:       numField(parts, 5),
			LikeCount:       numField(parts, 6),
			UploadDate:      dateField(parts, 7),
			ThumbnailURL:    field(parts, 8),
		})
		if len(videos) >= limit {
			break
		}
	}

	log.Debug().Int("count", len(videos)).Str("url", channelURL).Msg("Extracted channel videos")
	return videos, nil
}

// GetVideoInfo fetches full details for a single video.
func (c *YtDlpClient) GetVideoInfo(ctx context.Context, videoURL string) (*ExtractedVideo, error) {
	out, err := c.run(ctx,
		"--print", videoTemplate,
		"--skip-download",
		"--no-warnings",
		videoURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to extract video info: %w", err)
	}

	parts := firstLineFields(out)
	if parts == nil {
		return nil, fmt.Errorf("%w: empty extractor output for %s", ErrMalformed, videoURL)
	}

	return &ExtractedVideo{
		ID:              field(parts, 0),
		Title:           field(parts, 1),
		Uploader:        field(parts, 2),
		UploaderID:      field(parts, 3),
		DurationSeconds: numField(parts, 4),
		ViewCount:       numField(parts, 5),
		LikeCount:       numField(parts, 6),
		CommentCount:    numField(parts, 7),
		UploadDate:      dateField(parts, 8),
		ThumbnailURL:    field(parts, 9),
	}, nil
}

// GetChannelStats derives aggregate stats from the channel's listing.
// The extractor does not expose subscriber counts, so SubscriberText
// stays empty here.
func (c *YtDlpClient) GetChannelStats(ctx context.Context, channelURL string) (*ChannelStats, error) {
	videos, err := c.GetVideos(ctx, channelURL, 50)
	if err != nil {
		return nil, err
	}

	stats := &ChannelStats{VideoCount: int64(len(videos))}
	for _, v := range videos {
		stats.TotalViews += v.ViewCount
	}
	return stats, nil
}

func (c *YtDlpClient) run(ctx context.Context, args ...string) (string, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if _, notFound := err.(*exec.Error); notFound {
			return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		if containsAuthMarker(msg) {
			return "", fmt.Errorf("%w: %s", ErrAuthRequired, msg)
		}
		return "", fmt.Errorf("extractor exited: %v: %s", err, msg)
	}

	return stdout.String(), nil
}

func isAuthError(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}

func containsAuthMarker(stderr string) bool {
	return strings.Contains(stderr, "Sign in") ||
		strings.Contains(stderr, "bot") ||
		strings.Contains(stderr, "authentication")
}

// firstLineFields splits the first output line on pipes, nil when the
// output is blank.
func firstLineFields(out string) []string {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	return strings.Split(lines[0], "|")
}

// field returns the i-th pipe field with the extractor's "NA" sentinel
// normalized to an empty string.
func field(parts []string, i int) string {
	if i >= len(parts) {
		return ""
	}
	s := strings.TrimSpace(parts[i])
	if s == "NA" || s == "None" {
		return ""
	}
	return s
}

func numField(parts []string, i int) int64 {
	s := field(parts, i)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(n)
	}
	return common.ParseCount(s)
}

// dateField parses the extractor's YYYYMMDD upload date.
func dateField(parts []string, i int) time.Time {
	s := field(parts, i)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
