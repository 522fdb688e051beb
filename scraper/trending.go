package scraper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ender-ss/youtubesrapping/client"
	"github.com/Ender-ss/youtubesrapping/model"
)

// genericSearchTerms is the fixed discovery vocabulary tried after any
// caller-supplied keywords.
var genericSearchTerms = []string{"trending", "popular", "viral", "new"}

// channelSearchTerms is the channel-scoped second round vocabulary.
var channelSearchTerms = []string{
	"music channels", "gaming channels", "tech channels",
	"news channels", "entertainment channels",
}

// wellKnownChannelIDs seeds the candidate set when discovery finds
// nothing at all, as an availability-of-last-resort measure.
var wellKnownChannelIDs = []string{
	"UCX6OQ3DkcsbYNE6H8uQQuVA",
	"UCq-Fj5jknLsUf-MWSy4_brA",
	"UC7_Y8tVqBiW8RVK521nQ6og",
}

const (
	candidateTarget  = 8
	secondRoundFloor = 5
	dedupLookupLimit = 100
	perTermItemLimit = 10
	maxChannelsCap   = 50
)

// Resolver resolves one channel URL or ID into a channel record.
type Resolver interface {
	Resolve(ctx context.Context, urlOrID string) *model.ChannelInfo
}

// ChannelLister exposes the persisted channel IDs used for candidate
// deduplication.
type ChannelLister interface {
	ListExistingChannelIDs(ctx context.Context, limit int) ([]string, error)
}

// TrendingChannelSearch discovers candidate channels through search
// terms, deduplicates them against persisted channels, resolves each
// candidate and applies the caller's trend filter. Candidates are
// processed strictly sequentially with a small delay between heavy
// calls to avoid provider-side throttling.
type TrendingChannelSearch struct {
	search   client.SearchClient
	resolver Resolver
	lister   ChannelLister

	fetchDelay time.Duration
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration)
}

// NewTrendingChannelSearch creates a trending search over the given
// collaborators.
func NewTrendingChannelSearch(search client.SearchClient, resolver Resolver, lister ChannelLister, fetchDelay time.Duration) *TrendingChannelSearch {
	return &TrendingChannelSearch{
		search:     search,
		resolver:   resolver,
		lister:     lister,
		fetchDelay: fetchDelay,
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// Search runs one independent discovery pass. The returned set carries
// no ordering guarantee beyond discovery order; callers needing ranked
// output sort independently. It never returns an error; when nothing
// qualifies the result is a set of synthetic demonstration channels.
func (t *TrendingChannelSearch) Search(ctx context.Context, filters model.SearchFilters) []*model.ChannelInfo {
	filters = withFilterDefaults(filters)

	log.Info().
		Int("max_age_days", filters.MaxAgeDays).
		Int64("min_subscribers", filters.MinSubscribers).
		Int64("min_views", filters.MinViews).
		Str("country", filters.Country).
		Strs("keywords", filters.Keywords).
		Int("max_channels", filters.MaxChannels).
		Msg("Starting trending channel search")

	candidates := t.discoverCandidates(ctx, filters)
	candidates = t.dropExisting(ctx, candidates)

	accepted := t.resolveAndFilter(ctx, candidates, filters)

	if len(accepted) == 0 {
		log.Info().Msg("No channels qualified, synthesizing demonstration channels")
		accepted = DemoChannels(filters.Country, t.now())
	}

	log.Info().Int("count", len(accepted)).Msg("Trending channel search complete")
	return accepted
}

func withFilterDefaults(filters model.SearchFilters) model.SearchFilters {
	defaults := model.DefaultSearchFilters()
	if filters.MaxAgeDays < 1 {
		filters.MaxAgeDays = defaults.MaxAgeDays
	}
	if filters.Country == "" {
		filters.Country = defaults.Country
	}
	if filters.MaxChannels < 1 {
		filters.MaxChannels = defaults.MaxChannels
	}
	if filters.MaxChannels > maxChannelsCap {
		filters.MaxChannels = maxChannelsCap
	}
	return filters
}

// discoverCandidates collects unique channel identifiers from search
// terms: caller keywords first, then the generic vocabulary, then a
// channel-scoped second round when the first yields too few, then the
// well-known seed list when it yields nothing.
func (t *TrendingChannelSearch) discoverCandidates(ctx context.Context, filters model.SearchFilters) []string {
	seen := make(map[string]bool)
	var candidates []string

	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		candidates = append(candidates, id)
	}

	firstRound := append(append([]string{}, filters.Keywords...), genericSearchTerms...)
	t.runSearchRound(ctx, firstRound, client.SearchKindVideo, add, func() bool {
		return len(candidates) >= candidateTarget
	})

	if len(candidates) < secondRoundFloor {
		secondRound := make([]string, 0, len(filters.Keywords)+len(channelSearchTerms))
		for _, kw := range filters.Keywords {
			secondRound = append(secondRound, kw+" channels")
		}
		secondRound = append(secondRound, channelSearchTerms...)

		t.runSearchRound(ctx, secondRound, client.SearchKindChannel, add, func() bool {
			return len(candidates) >= candidateTarget
		})
	}

	if len(candidates) == 0 {
		log.Info().Msg("No candidates discovered, seeding with well-known channels")
		for _, id := range wellKnownChannelIDs {
			add(id)
		}
	}

	log.Debug().Int("count", len(candidates)).Msg("Candidate discovery complete")
	return candidates
}

func (t *TrendingChannelSearch) runSearchRound(ctx context.Context, terms []string, kind client.SearchKind, add func(string), done func() bool) {
	if t.search == nil {
		return
	}

	for _, term := range terms {
		if done() {
			return
		}

		items, err := t.search.Search(ctx, term, kind, perTermItemLimit)
		if err != nil {
			log.Debug().Err(err).Str("term", term).Msg("Search term failed")
			continue
		}

		for _, item := range items {
			add(item.ChannelID())
			if done() {
				return
			}
		}
	}
}

// dropExisting removes candidates already persisted, so known channels
// never reach the resolver. The lookup is a one-shot bounded snapshot.
func (t *TrendingChannelSearch) dropExisting(ctx context.Context, candidates []string) []string {
	if t.lister == nil || len(candidates) == 0 {
		return candidates
	}

	existingIDs, err := t.lister.ListExistingChannelIDs(ctx, dedupLookupLimit)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to list existing channels, skipping dedup")
		return candidates
	}

	existing := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}

	kept := candidates[:0]
	for _, id := range candidates {
		if existing[id] {
			log.Debug().Str("channel_id", id).Msg("Skipping already-known channel")
			continue
		}
		kept = append(kept, id)
	}
	return kept
}

// resolveAndFilter resolves each candidate sequentially and applies the
// trend criteria. Rejections are logged with the failing criterion.
func (t *TrendingChannelSearch) resolveAndFilter(ctx context.Context, candidates []string, filters model.SearchFilters) []*model.ChannelInfo {
	now := t.now()
	var accepted []*model.ChannelInfo

	processed := 0
	for _, candidateID := range candidates {
		if processed >= filters.MaxChannels {
			break
		}
		if processed > 0 {
			t.sleep(ctx, t.fetchDelay)
		}
		processed++

		info := t.resolver.Resolve(ctx, candidateID)
		if info == nil {
			log.Debug().Str("candidate", candidateID).Msg("Candidate could not be resolved")
			continue
		}

		if reason := rejectReason(info, filters, now); reason != "" {
			log.Info().
				Str("channel_id", info.ChannelID).
				Str("title", info.Title).
				Str("criterion", reason).
				Msg("Channel rejected by trend filter")
			continue
		}

		log.Info().
			Str("channel_id", info.ChannelID).
			Str("title", info.Title).
			Int64("subscribers", info.SubscriberCount).
			Msg("Channel accepted")
		accepted = append(accepted, info)
	}

	return accepted
}

// rejectReason returns the first failing trend criterion, empty when
// the channel qualifies. Age is computed in whole days, floor rounded.
func rejectReason(info *model.ChannelInfo, filters model.SearchFilters, now time.Time) string {
	if info.SubscriberCount < filters.MinSubscribers {
		return "subscribers below minimum"
	}
	if info.ViewCount < filters.MinViews {
		return "views below minimum"
	}
	if info.AgeDays(now) > filters.MaxAgeDays {
		return "channel older than maximum age"
	}
	return ""
}
