package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/crickarena/crickarena/internal/domain/autoteam"
	"github.com/crickarena/crickarena/internal/domain/fantasy"
	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/prediction"
	"github.com/crickarena/crickarena/internal/domain/scoring"
	"github.com/crickarena/crickarena/internal/domain/stats"
	"github.com/crickarena/crickarena/internal/platform/cache"
	"github.com/crickarena/crickarena/internal/platform/logging"
	"github.com/crickarena/crickarena/internal/platform/resilience"
)

// RunFailure records one entity a scoring run could not score. The run
// keeps going past individual failures so one malformed row never
// blocks a whole fixture.
type RunFailure struct {
	Kind   string
	ID     string
	Reason string
}

// RunSummary is the outcome of one scoring run over a fixture.
type RunSummary struct {
	FixtureID         string
	PlayersScored     int
	TeamsScored       int
	AutoTeamsScored   int
	PredictionsScored int
	Failures          []RunFailure
	Deduplicated      bool
}

// LeaderboardRow is one auto-matched team's standing within a fixture.
type LeaderboardRow struct {
	Rank        int
	TeamID      string
	TeamName    string
	TotalPoints int
	Members     []autoteam.Member
}

// ScoringService turns ingested match statistics into fantasy points
// for squads, auto-matched teams and prediction slips.
type ScoringService struct {
	fixtureRepo    fixture.Repository
	fantasyRepo    fantasy.Repository
	teamRepo       autoteam.Repository
	predictionRepo prediction.Repository
	statsRepo      stats.Repository
	notifier       Notifier
	leaderboard    *cache.Store
	pool           *ants.Pool
	logger         *logging.Logger
	now            func() time.Time

	flight resilience.SingleFlight
}

func NewScoringService(
	fixtureRepo fixture.Repository,
	fantasyRepo fantasy.Repository,
	teamRepo autoteam.Repository,
	predictionRepo prediction.Repository,
	statsRepo stats.Repository,
	notifier Notifier,
	leaderboard *cache.Store,
	pool *ants.Pool,
	logger *logging.Logger,
) *ScoringService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		fixtureRepo:    fixtureRepo,
		fantasyRepo:    fantasyRepo,
		teamRepo:       teamRepo,
		predictionRepo: predictionRepo,
		statsRepo:      statsRepo,
		notifier:       notifier,
		leaderboard:    leaderboard,
		pool:           pool,
		logger:         logger,
		now:            time.Now,
	}
}

// RecordPerformance stores one player's statistics line for a fixture.
// Re-submitting the same player overwrites the previous line.
func (s *ScoringService) RecordPerformance(ctx context.Context, item stats.Performance) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecordPerformance")
	defer span.End()

	if _, err := s.getFixture(ctx, item.FixtureID); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.statsRepo.UpsertPerformance(ctx, item); err != nil {
		return fmt.Errorf("upsert performance: %w", err)
	}
	return nil
}

// RecordActuals stores the fixture-level outcomes predictions are
// scored against.
func (s *ScoringService) RecordActuals(ctx context.Context, item stats.Actuals) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecordActuals")
	defer span.End()

	if _, err := s.getFixture(ctx, item.FixtureID); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.statsRepo.UpsertActuals(ctx, item); err != nil {
		return fmt.Errorf("upsert actuals: %w", err)
	}
	return nil
}

// Run executes a full scoring pass over one fixture: player points from
// raw statistics, fantasy team totals with leadership multipliers,
// auto-matched team aggregation with dense ranking, and prediction
// scoring against recorded actuals. The selection window must already
// be closed so leftover queue entries have been swept into teams or
// expired. Re-running overwrites previous results; concurrent runs for
// the same fixture collapse into one.
func (s *ScoringService) Run(ctx context.Context, fixtureID string) (RunSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Run")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return RunSummary{}, fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}

	fx, err := s.getFixture(ctx, fixtureID)
	if err != nil {
		return RunSummary{}, err
	}
	if fx.SelectionOpen {
		return RunSummary{}, fmt.Errorf("%w: selection must be closed before scoring fixture %s", ErrPreconditionFailed, fixtureID)
	}

	result, err, shared := s.flight.Do("scoring:run:"+fixtureID, func() (any, error) {
		return s.run(ctx, fx)
	})
	if err != nil {
		return RunSummary{}, err
	}

	summary := result.(RunSummary)
	summary.Deduplicated = shared
	return summary, nil
}

func (s *ScoringService) run(ctx context.Context, fx fixture.Fixture) (RunSummary, error) {
	summary := RunSummary{FixtureID: fx.ID}
	now := s.now().UTC()

	performances, err := s.statsRepo.ListPerformancesByFixture(ctx, fx.ID)
	if err != nil {
		return summary, fmt.Errorf("list performances: %w", err)
	}

	pointsByPlayer := make(map[string]int, len(performances))
	for _, perf := range performances {
		if err := perf.Validate(); err != nil {
			summary.Failures = append(summary.Failures, RunFailure{
				Kind:   "performance",
				ID:     perf.PlayerID,
				Reason: err.Error(),
			})
			continue
		}
		pointsByPlayer[perf.PlayerID] = scoring.PerformancePoints(perf)
	}
	summary.PlayersScored = len(pointsByPlayer)

	teamPoints, teamFailures, err := s.scoreFantasyTeams(ctx, fx.ID, pointsByPlayer, now)
	if err != nil {
		return summary, err
	}
	summary.Failures = append(summary.Failures, teamFailures...)
	summary.TeamsScored = len(teamPoints)

	autoScored, autoFailures, err := s.scoreAutoTeams(ctx, fx.ID, teamPoints)
	if err != nil {
		return summary, err
	}
	summary.Failures = append(summary.Failures, autoFailures...)
	summary.AutoTeamsScored = autoScored

	predScored, predFailures, err := s.scorePredictions(ctx, fx.ID, now)
	if err != nil {
		return summary, err
	}
	summary.Failures = append(summary.Failures, predFailures...)
	summary.PredictionsScored = predScored

	if fx.Status != fixture.StatusFinished {
		fx.Status = fixture.StatusFinished
		if err := s.fixtureRepo.Upsert(ctx, fx); err != nil {
			return summary, fmt.Errorf("finish fixture: %w", err)
		}
	}

	if s.leaderboard != nil {
		s.leaderboard.Delete(ctx, leaderboardKey(fx.ID))
	}

	s.logger.InfoContext(ctx, "scoring run completed",
		"fixture_id", fx.ID,
		"players_scored", summary.PlayersScored,
		"teams_scored", summary.TeamsScored,
		"auto_teams_scored", summary.AutoTeamsScored,
		"predictions_scored", summary.PredictionsScored,
		"failures", len(summary.Failures),
	)

	go s.pushScoresUpdated(context.WithoutCancel(ctx), fx.ID)

	return summary, nil
}

// scoreFantasyTeams aggregates player points per squad on the shared
// worker pool and persists each squad locked with its new total. The
// returned map is keyed by fantasy team id.
func (s *ScoringService) scoreFantasyTeams(ctx context.Context, fixtureID string, pointsByPlayer map[string]int, now time.Time) (map[string]int, []RunFailure, error) {
	teams, err := s.fantasyRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return nil, nil, fmt.Errorf("list fantasy teams: %w", err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		points   = make(map[string]int, len(teams))
		failures []RunFailure
	)

	score := func(team fantasy.Team) {
		defer wg.Done()

		team.Points = scoring.TeamPoints(team.Picks, pointsByPlayer)
		team.IsLocked = true
		team.UpdatedAt = now

		if err := s.fantasyRepo.Upsert(ctx, team); err != nil {
			mu.Lock()
			failures = append(failures, RunFailure{Kind: "fantasy_team", ID: team.ID, Reason: err.Error()})
			mu.Unlock()
			return
		}

		mu.Lock()
		points[team.ID] = team.Points
		mu.Unlock()
	}

	for _, team := range teams {
		team := team
		wg.Add(1)
		if s.pool == nil || s.pool.Submit(func() { score(team) }) != nil {
			score(team)
		}
	}
	wg.Wait()

	return points, failures, nil
}

// scoreAutoTeams writes member contributions and totals, then assigns
// dense ranks per fixture: equal totals share a rank and the next
// distinct total takes the following rank.
func (s *ScoringService) scoreAutoTeams(ctx context.Context, fixtureID string, teamPoints map[string]int) (int, []RunFailure, error) {
	teams, err := s.teamRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return 0, nil, fmt.Errorf("list auto-matched teams: %w", err)
	}

	for i := range teams {
		total := 0
		for j := range teams[i].Members {
			pts := teamPoints[teams[i].Members[j].FantasyTeamID]
			teams[i].Members[j].Points = pts
			total += pts
		}
		teams[i].TotalPoints = total
		teams[i].Status = autoteam.StatusCompleted
	}

	sort.SliceStable(teams, func(i, j int) bool { return teams[i].TotalPoints > teams[j].TotalPoints })

	var failures []RunFailure
	scored := 0
	rank := 0
	prevPoints := 0
	for i := range teams {
		if i == 0 || teams[i].TotalPoints != prevPoints {
			rank++
			prevPoints = teams[i].TotalPoints
		}
		teams[i].Rank = rank

		if err := s.teamRepo.UpdateScore(ctx, teams[i]); err != nil {
			failures = append(failures, RunFailure{Kind: "auto_team", ID: teams[i].ID, Reason: err.Error()})
			continue
		}
		scored++
	}

	return scored, failures, nil
}

func (s *ScoringService) scorePredictions(ctx context.Context, fixtureID string, now time.Time) (int, []RunFailure, error) {
	actuals, ok, err := s.statsRepo.GetActuals(ctx, fixtureID)
	if err != nil {
		return 0, nil, fmt.Errorf("get actuals: %w", err)
	}
	if !ok {
		s.logger.WarnContext(ctx, "no actuals recorded, prediction scoring skipped", "fixture_id", fixtureID)
		return 0, nil, nil
	}

	slips, err := s.predictionRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return 0, nil, fmt.Errorf("list predictions: %w", err)
	}

	var failures []RunFailure
	scored := 0
	for _, slip := range slips {
		slip.Points = scoring.PredictionPoints(slip.Answers, actuals)
		slip.IsLocked = true
		slip.UpdatedAt = now

		if err := s.predictionRepo.Upsert(ctx, slip); err != nil {
			failures = append(failures, RunFailure{Kind: "prediction", ID: slip.ID, Reason: err.Error()})
			continue
		}
		scored++
	}

	return scored, failures, nil
}

// Leaderboard returns the fixture's auto-matched team standings, served
// from a short-lived cache between scoring runs.
func (s *ScoringService) Leaderboard(ctx context.Context, fixtureID string) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Leaderboard")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return nil, fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}
	if _, err := s.getFixture(ctx, fixtureID); err != nil {
		return nil, err
	}

	if s.leaderboard == nil {
		return s.buildLeaderboard(ctx, fixtureID)
	}

	cached, err := s.leaderboard.GetOrLoad(ctx, leaderboardKey(fixtureID), func(ctx context.Context) (any, error) {
		return s.buildLeaderboard(ctx, fixtureID)
	})
	if err != nil {
		return nil, err
	}

	return cached.([]LeaderboardRow), nil
}

func (s *ScoringService) buildLeaderboard(ctx context.Context, fixtureID string) ([]LeaderboardRow, error) {
	teams, err := s.teamRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("list auto-matched teams: %w", err)
	}

	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].TotalPoints != teams[j].TotalPoints {
			return teams[i].TotalPoints > teams[j].TotalPoints
		}
		return teams[i].Name < teams[j].Name
	})

	rows := make([]LeaderboardRow, 0, len(teams))
	for _, team := range teams {
		rows = append(rows, LeaderboardRow{
			Rank:        team.Rank,
			TeamID:      team.ID,
			TeamName:    team.Name,
			TotalPoints: team.TotalPoints,
			Members:     team.Members,
		})
	}

	return rows, nil
}

func (s *ScoringService) pushScoresUpdated(ctx context.Context, fixtureID string) {
	payload := map[string]string{"fixture_id": fixtureID}
	if err := s.notifier.Broadcast(ctx, "fixture:"+fixtureID, EventScoresUpdated, payload); err != nil {
		s.logger.WarnContext(ctx, "scores updated broadcast failed", "fixture_id", fixtureID, "error", err)
	}
}

func (s *ScoringService) getFixture(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture %s", ErrNotFound, fixtureID)
	}
	return fx, nil
}

func leaderboardKey(fixtureID string) string {
	return "leaderboard:" + fixtureID
}
