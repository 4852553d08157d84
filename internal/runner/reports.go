package runner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"league-history/internal/domain"
	"league-history/internal/export"
	"league-history/internal/service"
)

// Report names accepted on the command line and in REPORTS.
const (
	ReportHistory     = "history"
	ReportAdvanced    = "advanced"
	ReportHeadToHead  = "head-to-head"
	ReportDraftHabits = "draft-habits"
	ReportPositions   = "positions"
	ReportRecords     = "records"
	ReportWeekly      = "weekly"
	ReportPayouts     = "payouts"
)

var errNoSeasons = errors.New("no season could be loaded")

type scope int

const (
	// every configured season
	scopeAllYears scope = iota
	// only the weekly report year
	scopeWeeklyYear
)

type definition struct {
	name  string
	scope scope
	opts  service.LoadOptions
	// build writes the report's files and returns their names and the row count
	build func(r *Runner, seasons []*domain.SeasonData) ([]string, int, error)
}

var definitions = []definition{
	{name: ReportHistory, scope: scopeAllYears, build: buildHistory},
	{name: ReportAdvanced, scope: scopeAllYears, opts: service.LoadOptions{BoxScores: true}, build: buildAdvanced},
	{name: ReportHeadToHead, scope: scopeAllYears, build: buildHeadToHead},
	{name: ReportDraftHabits, scope: scopeAllYears, opts: service.LoadOptions{Draft: true}, build: buildDraftHabits},
	{name: ReportPositions, scope: scopeAllYears, opts: service.LoadOptions{BoxScores: true}, build: buildPositions},
	{name: ReportRecords, scope: scopeAllYears, opts: service.LoadOptions{BoxScores: true}, build: buildRecords},
	{name: ReportWeekly, scope: scopeWeeklyYear, opts: service.LoadOptions{BoxScores: true}, build: buildWeekly},
	{name: ReportPayouts, scope: scopeWeeklyYear, opts: service.LoadOptions{BoxScores: true}, build: buildPayouts},
}

// Names lists every report in run order.
func Names() []string {
	return definitionNames(definitions)
}

// selectReports resolves names to definitions in run order. No names selects
// every report.
func selectReports(names []string) ([]definition, error) {
	if len(names) == 0 {
		return definitions, nil
	}
	wanted := map[string]bool{}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		known := false
		for _, d := range definitions {
			if d.name == n {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown report %q (known: %s)", n, strings.Join(Names(), ", "))
		}
		wanted[n] = true
	}

	var out []definition
	for _, d := range definitions {
		if wanted[d.name] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *Runner) path(name string) string {
	return filepath.Join(r.cfg.OutputDir, name)
}

func writeCSV[T export.Row](r *Runner, name string, header []string, rows []T) ([]string, int, error) {
	n, err := export.WriteCSV(r.path(name), header, rows)
	if err != nil {
		return nil, 0, err
	}
	return []string{name}, n, nil
}

func buildHistory(r *Runner, seasons []*domain.SeasonData) ([]string, int, error) {
	return writeCSV(r, service.HistoryFile, service.HistoryHeader, service.BuildHistory(seasons, r.owners))
}

func buildAdvanced(r *Runner, seasons []*domain.SeasonData) ([]string, int, error) {
	rows, err := service.BuildAdvanced(seasons, r.owners, r.reports.Lineup)
	if err != nil {
		return nil, 0, err
	}
	return writeCSV(r, service.AdvancedFile, service.AdvancedHeader, rows)
}

func buildHeadToHead(r *Runner, seasons []*domain.SeasonData) ([]string, int, error) {
	return writeCSV(r, service.HeadToHeadFile, service.HeadToHeadHeader, service.BuildHeadToHead(seasons, r.owners))
}

func buildDraftHabits(r *Runner, seasons []*domain.SeasonData) ([]string, int, error) {
	return writeCSV(r, service.DraftHabitsFile, service.DraftHabitsHeader, service.BuildDraftHabits(seasons, r.owners))
}

func buildPositions(r *Runner, seasons []*domain.SeasonData) ([]string, int, error) {
	return writeCSV(r, service.PositionsFile, service.PositionsHeader, service.BuildPositions(seasons, r.owners))
}

func buildRecords(r *Runner, seasons []*domain.SeasonData) ([]string, int, error) {
	return writeCSV(r, service.RecordsFile, service.RecordsHeader, service.BuildRecords(seasons, r.owners))
}

func buildWeekly(r *Runner, seasons []*domain.SeasonData) ([]string, int, error) {
	rows, err := service.BuildWeekly(seasons[0], r.owners, r.reports)
	if err != nil {
		return nil, 0, err
	}
	files, n, err := writeCSV(r, service.WeeklyFile, service.WeeklyHeader, rows)
	if err != nil {
		return nil, 0, err
	}

	survivor := service.BuildSurvivor(rows, r.reports.Survivor.FinalWeek)
	if err := export.WriteJSON(r.path(service.SurvivorFile), survivor); err != nil {
		return nil, 0, err
	}
	return append(files, service.SurvivorFile), n, nil
}

func buildPayouts(r *Runner, seasons []*domain.SeasonData) ([]string, int, error) {
	winners, err := service.BuildPayouts(seasons[0], r.owners, r.reports)
	if err != nil {
		return nil, 0, err
	}
	files, n, err := writeCSV(r, service.PayoutsFile, service.PayoutsHeader, winners)
	if err != nil {
		return nil, 0, err
	}

	if winners == nil {
		winners = []service.PayoutWinner{}
	}
	if err := export.WriteJSON(r.path(service.PayoutsJSONFile), winners); err != nil {
		return nil, 0, err
	}
	return append(files, service.PayoutsJSONFile), n, nil
}
