// Package runner loads the seasons a set of reports needs, builds the
// reports and writes them with a run report next to them.
package runner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"league-history/internal/config"
	"league-history/internal/constants"
	"league-history/internal/domain"
	"league-history/internal/export"
	"league-history/internal/logger"
	"league-history/internal/service"

	"github.com/rs/zerolog"
)

type SeasonLoader interface {
	Load(ctx context.Context, year int, opts service.LoadOptions) (*domain.SeasonData, domain.Outcomes, error)
}

type Runner struct {
	league  SeasonLoader
	cfg     *config.Config
	reports *config.ReportConfig
	owners  *domain.OwnerDirectory
	logger  zerolog.Logger
	now     func() time.Time
}

func NewRunner(league *service.LeagueService, cfg *config.Config, reports *config.ReportConfig, logger zerolog.Logger) *Runner {
	return newRunner(league, cfg, reports, logger)
}

func newRunner(league SeasonLoader, cfg *config.Config, reports *config.ReportConfig, logger zerolog.Logger) *Runner {
	return &Runner{
		league:  league,
		cfg:     cfg,
		reports: reports,
		owners:  domain.NewOwnerDirectory(cfg.Owners),
		logger:  logger,
		now:     time.Now,
	}
}

type RunReport struct {
	RunID      string         `json:"run_id"`
	LeagueID   int            `json:"league_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Reports    []ReportResult `json:"reports"`
}

type ReportResult struct {
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	Error    string          `json:"error,omitempty"`
	Files    []string        `json:"files"`
	Rows     int             `json:"rows"`
	Outcomes domain.Outcomes `json:"outcomes"`
}

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ExitCode is 1 when any report could not be produced. Failed weeks or
// seasons alone do not fail a run.
func (r *RunReport) ExitCode() int {
	for _, rep := range r.Reports {
		if rep.Status != StatusOK {
			return 1
		}
	}
	return 0
}

type loadedSeason struct {
	data     *domain.SeasonData
	outcomes domain.Outcomes
}

// Run builds the named reports, all of them when names is empty, and writes
// run_report.json to the output directory.
func (r *Runner) Run(ctx context.Context, names []string) (*RunReport, error) {
	defs, err := selectReports(names)
	if err != nil {
		return nil, err
	}

	log, runID := logger.WithRunID(r.logger)
	ctx = log.WithContext(ctx)
	ctx, cancel := context.WithTimeout(ctx, constants.RunTimeout)
	defer cancel()

	report := &RunReport{
		RunID:     runID,
		LeagueID:  r.cfg.LeagueID,
		StartedAt: r.now().UTC(),
	}

	log.Info().
		Int("league_id", r.cfg.LeagueID).
		Strs("reports", definitionNames(defs)).
		Msg("run started")

	loaded := r.loadSeasons(ctx, log, r.plan(defs))

	for _, def := range defs {
		report.Reports = append(report.Reports, r.runReport(log, def, loaded))
	}

	report.FinishedAt = r.now().UTC()
	if err := export.WriteJSON(r.path(service.RunReportFile), report); err != nil {
		return report, fmt.Errorf("failed to write run report: %w", err)
	}

	log.Info().
		Int("exit_code", report.ExitCode()).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("run completed")
	return report, nil
}

func (r *Runner) years(def definition) []int {
	if def.scope == scopeWeeklyYear {
		return []int{r.reports.Weekly.Year}
	}
	return r.cfg.Years()
}

// plan merges what every selected report needs from each season so a season
// is fetched once.
func (r *Runner) plan(defs []definition) map[int]service.LoadOptions {
	plan := map[int]service.LoadOptions{}
	for _, def := range defs {
		for _, year := range r.years(def) {
			opts := plan[year]
			opts.BoxScores = opts.BoxScores || def.opts.BoxScores
			opts.Draft = opts.Draft || def.opts.Draft
			plan[year] = opts
		}
	}
	return plan
}

func (r *Runner) loadSeasons(ctx context.Context, log zerolog.Logger, plan map[int]service.LoadOptions) map[int]loadedSeason {
	years := make([]int, 0, len(plan))
	for y := range plan {
		years = append(years, y)
	}
	sort.Ints(years)

	loaded := make(map[int]loadedSeason, len(years))
	for _, year := range years {
		opts := plan[year]
		data, outcomes, err := r.league.Load(ctx, year, opts)
		if err != nil {
			log.Warn().Err(err).Int("year", year).Msg("season skipped")
		} else {
			log.Info().
				Int("year", year).
				Int("weeks", len(data.BoxScores)).
				Int("draft_picks", len(data.Draft)).
				Int("failed_periods", len(outcomes.Failed())).
				Msg("season ready")
		}
		loaded[year] = loadedSeason{data: data, outcomes: outcomes}
	}
	return loaded
}

func (r *Runner) runReport(log zerolog.Logger, def definition, loaded map[int]loadedSeason) ReportResult {
	start := r.now()
	result := ReportResult{Name: def.name, Status: StatusOK, Files: []string{}, Outcomes: domain.Outcomes{}}

	var seasons []*domain.SeasonData
	for _, year := range r.years(def) {
		l := loaded[year]
		result.Outcomes = append(result.Outcomes, l.outcomes...)
		if l.data != nil {
			seasons = append(seasons, l.data)
		}
	}

	fail := func(err error) ReportResult {
		result.Status = StatusFailed
		result.Error = err.Error()
		log.Error().Err(err).Str("report", def.name).Msg("report failed")
		return result
	}

	if len(seasons) == 0 {
		return fail(errNoSeasons)
	}

	files, rows, err := def.build(r, seasons)
	if err != nil {
		return fail(err)
	}
	result.Files = files
	result.Rows = rows

	log.Info().
		Str("report", def.name).
		Strs("files", files).
		Int("rows", rows).
		Int("failed_periods", len(result.Outcomes.Failed())).
		Dur("duration", r.now().Sub(start)).
		Msg("report written")
	return result
}

func definitionNames(defs []definition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.name
	}
	return names
}
