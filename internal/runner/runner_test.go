package runner

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"league-history/internal/config"
	"league-history/internal/domain"
	"league-history/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loadCall struct {
	year int
	opts service.LoadOptions
}

type fakeLoader struct {
	mu        sync.Mutex
	calls     []loadCall
	failYears map[int]bool
}

func (f *fakeLoader) Load(_ context.Context, year int, opts service.LoadOptions) (*domain.SeasonData, domain.Outcomes, error) {
	f.mu.Lock()
	f.calls = append(f.calls, loadCall{year: year, opts: opts})
	f.mu.Unlock()

	var outcomes domain.Outcomes
	if f.failYears[year] {
		err := errors.New("league or season not found")
		outcomes.Record(year, 0, err)
		return nil, outcomes, err
	}
	outcomes.Record(year, 0, nil)
	outcomes.Record(year, 2, errors.New("timeout"))
	return season(year), outcomes, nil
}

func performance(id int, pos domain.Position, slot domain.Slot, pts float64) domain.PlayerPerformance {
	return domain.PlayerPerformance{PlayerID: id, Name: "Player", Position: pos, Slot: slot, Points: domain.Points(pts)}
}

func season(year int) *domain.SeasonData {
	teams := []domain.Team{
		{ID: 1, Name: "Alpha", Owner: domain.Owner{ID: "{A}", FirstName: "Ann", LastName: "Bee"}, Wins: 1, FinalStanding: 1},
		{ID: 2, Name: "Bravo", Owner: domain.Owner{ID: "{C}", FirstName: "Cat", LastName: "Dee"}, Losses: 1, FinalStanding: 2},
	}
	week1 := domain.BoxScore{
		Matchup:    domain.Matchup{Week: 1, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 30, AwayScore: 20},
		HomeLineup: []domain.PlayerPerformance{performance(11, domain.PositionQB, domain.SlotQB, 30)},
		AwayLineup: []domain.PlayerPerformance{performance(21, domain.PositionQB, domain.SlotQB, 20), performance(22, domain.PositionQB, domain.SlotBench, 25)},
	}
	return &domain.SeasonData{
		Season: &domain.Season{
			Year:                 year,
			Teams:                teams,
			Schedule:             []domain.Matchup{week1.Matchup},
			Slots:                domain.SlotConfiguration{domain.SlotQB: 1},
			MatchupPeriods:       []int{1, 2},
			RegularSeasonWeeks:   2,
			CurrentMatchupPeriod: 2,
		},
		BoxScores: map[int][]domain.BoxScore{1: {week1}},
		Draft:     []domain.DraftPick{{Round: 1, Pick: 1, TeamID: 1, PlayerID: 11, PlayerName: "Player"}},
	}
}

func newTestRunner(t *testing.T, loader SeasonLoader, start, end, weeklyYear int) (*Runner, string) {
	t.Helper()
	out := t.TempDir()
	cfg := &config.Config{LeagueID: 77, StartYear: start, EndYear: end, OutputDir: out}
	rc := &config.ReportConfig{
		Weekly:   config.WeeklyConfig{Year: weeklyYear, Awards: config.AwardNames{HighScore: "High", LowScore: "Low", Inefficient: "Bench"}},
		Survivor: config.SurvivorConfig{FinalWeek: 12},
		Payouts:  []domain.PayoutRule{{Week: 1, Type: domain.PayoutHighestTotal}},
	}
	return newRunner(loader, cfg, rc, zerolog.Nop()), out
}

func TestRun_AllReports(t *testing.T) {
	loader := &fakeLoader{}
	r, out := newTestRunner(t, loader, 2022, 2023, 2023)

	report, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.ExitCode())
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 77, report.LeagueID)
	require.Len(t, report.Reports, len(Names()))

	// one load per season with the union of what the reports need
	assert.ElementsMatch(t, []loadCall{
		{year: 2022, opts: service.LoadOptions{BoxScores: true, Draft: true}},
		{year: 2023, opts: service.LoadOptions{BoxScores: true, Draft: true}},
	}, loader.calls)

	for _, rep := range report.Reports {
		assert.Equal(t, StatusOK, rep.Status, rep.Name)
		for _, f := range rep.Files {
			assert.FileExists(t, filepath.Join(out, f))
		}
	}

	weekly := report.Reports[6]
	assert.Equal(t, ReportWeekly, weekly.Name)
	assert.Equal(t, []string{service.WeeklyFile, service.SurvivorFile}, weekly.Files)
	assert.Equal(t, 2, weekly.Rows)
	assert.Len(t, weekly.Outcomes, 2, "weekly only reports its own season")

	history := report.Reports[0]
	assert.Equal(t, 4, history.Rows)
	assert.Len(t, history.Outcomes.Failed(), 2)

	b, err := os.ReadFile(filepath.Join(out, service.RunReportFile))
	require.NoError(t, err)
	var decoded struct {
		RunID   string `json:"run_id"`
		Reports []struct {
			Name     string `json:"name"`
			Status   string `json:"status"`
			Outcomes []struct {
				Kind   string `json:"kind"`
				Year   int    `json:"year"`
				Week   int    `json:"week"`
				Status string `json:"status"`
				Error  string `json:"error"`
			} `json:"outcomes"`
		} `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	require.NotEmpty(t, decoded.Reports)
	assert.Equal(t, "season", decoded.Reports[0].Outcomes[0].Kind)
	assert.Equal(t, "week", decoded.Reports[0].Outcomes[1].Kind)
	assert.Equal(t, "failed", decoded.Reports[0].Outcomes[1].Status)
	assert.Equal(t, "timeout", decoded.Reports[0].Outcomes[1].Error)

	var survivor service.SurvivorResult
	b, err = os.ReadFile(filepath.Join(out, service.SurvivorFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &survivor))
	assert.Equal(t, map[string]int{"CD": 1}, survivor.Eliminated)
	assert.Equal(t, []string{"AB"}, survivor.Remaining)
}

func TestRun_SelectedReportsLoadOnlyWhatTheyNeed(t *testing.T) {
	loader := &fakeLoader{}
	r, _ := newTestRunner(t, loader, 2021, 2022, 2025)

	report, err := r.Run(context.Background(), []string{"Head-To-Head", "history"})
	require.NoError(t, err)

	require.Len(t, report.Reports, 2)
	assert.Equal(t, ReportHistory, report.Reports[0].Name)
	assert.Equal(t, ReportHeadToHead, report.Reports[1].Name)
	assert.ElementsMatch(t, []loadCall{{year: 2021}, {year: 2022}}, loader.calls)
}

func TestRun_FailedSeasonsStillProduceReports(t *testing.T) {
	loader := &fakeLoader{failYears: map[int]bool{2022: true}}
	r, _ := newTestRunner(t, loader, 2021, 2022, 2022)

	report, err := r.Run(context.Background(), []string{ReportHistory, ReportWeekly})
	require.NoError(t, err)

	history := report.Reports[0]
	assert.Equal(t, StatusOK, history.Status)
	assert.Equal(t, 2, history.Rows)
	require.Len(t, history.Outcomes.Failed(), 2)
	assert.Equal(t, 2022, history.Outcomes.Failed()[1].Year)

	weekly := report.Reports[1]
	assert.Equal(t, StatusFailed, weekly.Status)
	assert.Equal(t, errNoSeasons.Error(), weekly.Error)
	assert.Empty(t, weekly.Files)
	assert.Equal(t, 1, report.ExitCode())
}

func TestRun_UnknownReport(t *testing.T) {
	r, _ := newTestRunner(t, &fakeLoader{}, 2023, 2023, 2023)
	_, err := r.Run(context.Background(), []string{"history", "trades"})
	assert.ErrorContains(t, err, `unknown report "trades"`)
}

func TestRun_BadLineupFailsOnlyItsReports(t *testing.T) {
	r, _ := newTestRunner(t, &fakeLoader{}, 2023, 2023, 2023)
	r.reports.Lineup = domain.SlotConfiguration{"OP": 1}

	report, err := r.Run(context.Background(), []string{ReportHistory, ReportAdvanced})
	require.NoError(t, err)
	assert.Equal(t, StatusOK, report.Reports[0].Status)
	assert.Equal(t, StatusFailed, report.Reports[1].Status)
	assert.Contains(t, report.Reports[1].Error, "invalid slot configuration")
	assert.Equal(t, 1, report.ExitCode())
}
