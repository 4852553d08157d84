package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"league-history/internal/api"
	"league-history/internal/config"
	"league-history/internal/constants"
	"league-history/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LeagueProvider is the slice of the ESPN client the service reads through.
type LeagueProvider interface {
	GetLeague(ctx context.Context, year int, views ...string) (*api.League, error)
	GetMatchupPeriod(ctx context.Context, year, week, scoringPeriod int) (*api.League, error)
	GetPlayers(ctx context.Context, year int) (*[]api.ProPlayer, error)
}

type LeagueService struct {
	espn        LeagueProvider
	cache       *ResponseCache
	refresh     bool
	concurrency int
	logger      zerolog.Logger

	purges sync.Map // year -> *purgeState
}

type purgeState struct {
	once sync.Once
	err  error
}

func NewLeagueService(espn *api.ESPNClient, cache *ResponseCache, cfg *config.Config, logger zerolog.Logger) *LeagueService {
	return newLeagueService(espn, cache, cfg, logger)
}

func newLeagueService(espn LeagueProvider, cache *ResponseCache, cfg *config.Config, logger zerolog.Logger) *LeagueService {
	concurrency := cfg.FetchConcurrency
	if concurrency < 1 {
		concurrency = constants.DefaultFetchConcurrency
	}
	return &LeagueService{
		espn:        espn,
		cache:       cache,
		refresh:     cfg.Refresh,
		concurrency: concurrency,
		logger:      logger,
	}
}

// LoadOptions says which per-season detail a set of reports needs.
type LoadOptions struct {
	BoxScores bool
	Draft     bool
}

// Load reads one season and the detail opts asks for. A season that cannot
// be read is an error; weeks and drafts that fail are recorded as outcomes
// and left out of the result.
func (s *LeagueService) Load(ctx context.Context, year int, opts LoadOptions) (*domain.SeasonData, domain.Outcomes, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.SeasonLoadTimeout)
	defer cancel()

	var outcomes domain.Outcomes

	season, err := s.Season(ctx, year)
	outcomes.Record(year, 0, err)
	if err != nil {
		return nil, outcomes, err
	}

	data := &domain.SeasonData{Season: season, BoxScores: map[int][]domain.BoxScore{}}

	if opts.BoxScores {
		weeks := season.PlayedWeeks(season.CurrentMatchupPeriod)
		boxes, weekOutcomes := s.BoxScores(ctx, season, weeks)
		data.BoxScores = boxes
		outcomes = append(outcomes, weekOutcomes...)
	}

	if opts.Draft {
		picks, err := s.Draft(ctx, year)
		if err != nil {
			outcomes.RecordDraft(year, err)
		} else {
			data.Draft = picks
		}
	}

	return data, outcomes, nil
}

func (s *LeagueService) Season(ctx context.Context, year int) (*domain.Season, error) {
	if err := s.purge(ctx, year); err != nil {
		return nil, err
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	league, err := s.espn.GetLeague(apiCtx, year, api.SeasonViews...)
	if err != nil {
		s.logger.Error().Err(err).Int("year", year).Msg("failed to load season")
		return nil, fmt.Errorf("failed to load season %d: %w", year, err)
	}

	season := convertSeason(league, year, time.Now())
	s.logger.Info().
		Int("year", year).
		Int("teams", len(season.Teams)).
		Int("matchup_periods", len(season.MatchupPeriods)).
		Int("current_matchup_period", season.CurrentMatchupPeriod).
		Msg("season loaded")
	return season, nil
}

// BoxScores fetches weeks concurrently. Every week gets an outcome; a failed
// week never cancels the others.
func (s *LeagueService) BoxScores(ctx context.Context, season *domain.Season, weeks []int) (map[int][]domain.BoxScore, domain.Outcomes) {
	var mu sync.Mutex
	boxes := make(map[int][]domain.BoxScore, len(weeks))
	var outcomes domain.Outcomes

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, week := range weeks {
		g.Go(func() error {
			apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
			defer cancel()

			scoringPeriod := season.FinalScoringPeriod(week)
			league, err := s.espn.GetMatchupPeriod(apiCtx, season.Year, week, scoringPeriod)
			var weekBoxes []domain.BoxScore
			if err == nil {
				weekBoxes = convertBoxScores(league, week, scoringPeriod)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn().Err(err).Int("year", season.Year).Int("week", week).Msg("failed to load week")
				outcomes.Record(season.Year, week, fmt.Errorf("failed to load week %d: %w", week, err))
				return nil
			}
			boxes[week] = weekBoxes
			outcomes.Record(season.Year, week, nil)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Week < outcomes[j].Week })

	s.logger.Debug().
		Int("year", season.Year).
		Int("weeks", len(weeks)).
		Int("failed", len(outcomes.Failed())).
		Msg("box scores loaded")
	return boxes, outcomes
}

func (s *LeagueService) Draft(ctx context.Context, year int) ([]domain.DraftPick, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(apiCtx)
	var league *api.League
	var players *[]api.ProPlayer

	g.Go(func() error {
		var err error
		league, err = s.espn.GetLeague(gCtx, year, api.DraftView)
		return err
	})

	g.Go(func() error {
		var err error
		players, err = s.espn.GetPlayers(gCtx, year)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Int("year", year).Msg("failed to load draft")
		return nil, fmt.Errorf("failed to load draft %d: %w", year, err)
	}

	picks := convertDraft(league, *players)
	s.logger.Debug().Int("year", year).Int("picks", len(picks)).Msg("draft loaded")
	return picks, nil
}

// purge clears a season's cached payloads once per run when a refresh was
// requested. A failed purge keeps failing the season for the rest of the run.
func (s *LeagueService) purge(ctx context.Context, year int) error {
	if !s.refresh || s.cache == nil {
		return nil
	}
	v, _ := s.purges.LoadOrStore(year, &purgeState{})
	state := v.(*purgeState)
	state.once.Do(func() {
		state.err = s.cache.Purge(ctx, year)
	})
	if state.err != nil {
		return fmt.Errorf("failed to purge cached season %d: %w", year, state.err)
	}
	return nil
}
