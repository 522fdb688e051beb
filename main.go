package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Ender-ss/youtubesrapping/client"
	"github.com/Ender-ss/youtubesrapping/config"
	"github.com/Ender-ss/youtubesrapping/model"
	"github.com/Ender-ss/youtubesrapping/report"
	"github.com/Ender-ss/youtubesrapping/scheduler"
	"github.com/Ender-ss/youtubesrapping/scraper"
	"github.com/Ender-ss/youtubesrapping/state"
)

var (
	flagMaxAgeDays     int
	flagMinSubscribers int64
	flagMinViews       int64
	flagCountry        string
	flagKeywords       []string
	flagMaxChannels    int
	flagMaxVideos      int
	flagDebug          bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "youtubesrapping",
		Short: "Monitor newly-created YouTube channels and their videos",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			level := zerolog.InfoLevel
			if flagDebug {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	trendingCmd := &cobra.Command{
		Use:   "trending",
		Short: "Discover trending new channels and persist them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *app) error {
				job := app.trendingJob(filtersFromFlags())
				return job.RunOnce(ctx)
			})
		},
	}
	addFilterFlags(trendingCmd)

	channelCmd := &cobra.Command{
		Use:   "channel <url|id>",
		Short: "Resolve a single channel and print its record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *app) error {
				info := app.channelResolver.Resolve(ctx, args[0])
				if info == nil {
					return fmt.Errorf("cannot parse %q into a channel identifier", args[0])
				}
				if err := app.store.UpsertChannel(ctx, info); err != nil {
					return err
				}
				return printJSON(info)
			})
		},
	}

	videosCmd := &cobra.Command{
		Use:   "videos <channelID>",
		Short: "Resolve a channel's videos ranked by view count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *app) error {
				videos := app.videoResolver.ResolveVideos(ctx, args[0], flagMaxVideos)
				for _, v := range videos {
					if err := app.store.UpsertVideo(ctx, v); err != nil {
						return err
					}
				}
				return printJSON(videos)
			})
		},
	}
	videosCmd.Flags().IntVar(&flagMaxVideos, "max", 5, "maximum videos to fetch")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a trend report over persisted channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *app) error {
				channels, err := app.store.ListChannels(ctx, 100)
				if err != nil {
					return err
				}
				analyzer, err := report.NewAnalyzer(ctx, app.cfg.GeminiAPIKey, app.cfg.GeminiModel)
				if err != nil {
					return err
				}
				return printJSON(analyzer.GenerateTrendReport(ctx, channels))
			})
		},
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the trending scrape on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *app) error {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				s := scheduler.New(app.cfg.Schedule, app.trendingJob(filtersFromFlags()))
				if err := s.Start(ctx); err != nil && err != context.Canceled {
					return err
				}
				return nil
			})
		},
	}
	addFilterFlags(scheduleCmd)

	rootCmd.AddCommand(trendingCmd, channelCmd, videosCmd, reportCmd, scheduleCmd)

	if err := rootCmd.Execute(); err != nil {
		zlog.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func addFilterFlags(cmd *cobra.Command) {
	defaults := model.DefaultSearchFilters()
	cmd.Flags().IntVar(&flagMaxAgeDays, "max-age-days", defaults.MaxAgeDays, "maximum channel age in days")
	cmd.Flags().Int64Var(&flagMinSubscribers, "min-subscribers", defaults.MinSubscribers, "minimum subscriber count")
	cmd.Flags().Int64Var(&flagMinViews, "min-views", defaults.MinViews, "minimum total view count")
	cmd.Flags().StringVar(&flagCountry, "country", defaults.Country, "ISO country code")
	cmd.Flags().StringSliceVar(&flagKeywords, "keywords", nil, "search keywords")
	cmd.Flags().IntVar(&flagMaxChannels, "max-channels", defaults.MaxChannels, "maximum channels to resolve")
}

func filtersFromFlags() model.SearchFilters {
	return model.SearchFilters{
		MaxAgeDays:     flagMaxAgeDays,
		MinSubscribers: flagMinSubscribers,
		MinViews:       flagMinViews,
		Country:        flagCountry,
		Keywords:       flagKeywords,
		MaxChannels:    flagMaxChannels,
	}
}

// app wires the provider adapters, resolvers and persistence backend
// for one command invocation.
type app struct {
	cfg   *config.Config
	store state.PersistenceGateway

	search  *client.InnerTubeSearchClient
	browser *client.ChromeBrowserClient

	channelResolver *scraper.ChannelResolver
	videoResolver   *scraper.VideoResolver
	trending        *scraper.TrendingChannelSearch
}

// withApp builds the application, runs fn and tears everything down on
// all exit paths, the browser session included.
func withApp(ctx context.Context, fn func(ctx context.Context, app *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := state.NewPersistenceGateway(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	search, err := client.NewInnerTubeSearchClient(&client.InnerTubeConfig{
		ClientType:    cfg.InnerTubeClientType,
		ClientVersion: cfg.InnerTubeClientVersion,
		HTTPTimeout:   cfg.HTTPTimeout,
	})
	if err != nil {
		return err
	}
	if err := search.Connect(ctx); err != nil {
		zlog.Warn().Err(err).Msg("Search client unavailable, continuing without it")
		search = nil
	} else {
		defer search.Disconnect(context.Background())
	}

	var dataAPI *client.DataAPIClient
	if cfg.YouTubeAPIKey != "" {
		dataAPI, err = client.NewDataAPIClient(cfg.YouTubeAPIKey, cfg.HTTPTimeout)
		if err != nil {
			return err
		}
		if err := dataAPI.Connect(ctx); err != nil {
			zlog.Warn().Err(err).Msg("Data API unavailable, continuing without it")
			dataAPI = nil
		} else {
			defer dataAPI.Disconnect(context.Background())
		}
	}

	browser, err := client.NewChromeBrowserClient(&client.BrowserConfig{
		ViewportWidth:  cfg.BrowserViewportWidth,
		ViewportHeight: cfg.BrowserViewportHeight,
		NavTimeout:     cfg.BrowserNavTimeout,
	})
	if err != nil {
		zlog.Warn().Err(err).Msg("Browser unavailable, continuing without it")
		browser = nil
	} else {
		defer browser.Close()
	}

	deps := scraper.ResolverDeps{
		Extractor: client.NewYtDlpClient(cfg.YtDlpPath, cfg.CommandTimeout),
		DataAPI:   dataAPI,
	}
	if search != nil {
		deps.Search = search
	}
	if browser != nil {
		deps.Browser = browser
	}

	a := &app{
		cfg:             cfg,
		store:           store,
		search:          search,
		browser:         browser,
		channelResolver: scraper.NewChannelResolver(deps),
		videoResolver:   scraper.NewVideoResolver(deps),
	}
	a.trending = scraper.NewTrendingChannelSearch(deps.Search, a.channelResolver, store, cfg.FetchDelay)

	return fn(ctx, a)
}

// trendingJob adapts a trending scrape + persist pass to the scheduler.
type trendingJob struct {
	app     *app
	filters model.SearchFilters
}

func (a *app) trendingJob(filters model.SearchFilters) *trendingJob {
	return &trendingJob{app: a, filters: filters}
}

func (j *trendingJob) Name() string { return "trending-scrape" }

// RunOnce discovers trending channels, persists them and their top
// videos, pausing between channels to stay under provider rate limits.
func (j *trendingJob) RunOnce(ctx context.Context) error {
	a := j.app
	channels := a.trending.Search(ctx, j.filters)

	for i, channel := range channels {
		if err := a.store.UpsertChannel(ctx, channel); err != nil {
			return fmt.Errorf("failed to persist channel %s: %w", channel.ChannelID, err)
		}

		if i > 0 {
			select {
			case <-time.After(a.cfg.FetchDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		for _, video := range a.videoResolver.ResolveVideos(ctx, channel.ChannelID, a.cfg.MaxVideosPerChannel) {
			if err := a.store.UpsertVideo(ctx, video); err != nil {
				return fmt.Errorf("failed to persist video %s: %w", video.VideoID, err)
			}
		}
	}

	zlog.Info().Int("channels", len(channels)).Msg("Trending scrape complete")
	return printJSON(channels)
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
