package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crickarena/crickarena/internal/domain/autoteam"
	"github.com/crickarena/crickarena/internal/domain/fantasy"
	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/prediction"
	"github.com/crickarena/crickarena/internal/domain/queue"
	"github.com/crickarena/crickarena/internal/domain/stats"
	"github.com/crickarena/crickarena/internal/infrastructure/repository/memory"
	"github.com/crickarena/crickarena/internal/platform/cache"
	"github.com/crickarena/crickarena/internal/platform/logging"
)

type scoringHarness struct {
	svc         *ScoringService
	fixtures    *memory.FixtureRepository
	fantasy     *memory.FantasyTeamRepository
	teams       *memory.AutoTeamRepository
	queue       *memory.QueueRepository
	predictions *memory.PredictionRepository
	stats       *memory.StatsRepository
}

func newScoringHarness(t *testing.T) *scoringHarness {
	t.Helper()

	now := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	fixtures := memory.NewFixtureRepository([]fixture.Fixture{{
		ID:            "fx-1",
		HomeTeam:      "India",
		AwayTeam:      "Australia",
		StartsAt:      now.Add(-4 * time.Hour),
		LockAt:        now.Add(-4*time.Hour - 30*time.Minute),
		SelectionOpen: false,
		Status:        fixture.StatusLive,
	}})
	fantasyRepo := memory.NewFantasyTeamRepository()
	queueRepo := memory.NewQueueRepository()
	teamRepo := memory.NewAutoTeamRepository(queueRepo)
	predictionRepo := memory.NewPredictionRepository()
	statsRepo := memory.NewStatsRepository()

	svc := NewScoringService(
		fixtures,
		fantasyRepo,
		teamRepo,
		predictionRepo,
		statsRepo,
		NopNotifier{},
		cache.NewStore(time.Minute),
		nil,
		logging.NewNop(),
	)
	svc.now = func() time.Time { return now }

	return &scoringHarness{
		svc:         svc,
		fixtures:    fixtures,
		fantasy:     fantasyRepo,
		teams:       teamRepo,
		queue:       queueRepo,
		predictions: predictionRepo,
		stats:       statsRepo,
	}
}

// seedMatch wires two users with fantasy teams into one auto-matched
// team and records fielding-only stat lines with known point values:
// p1 catch = 8, p2 stumping = 12, p3 direct run out = 12, p4 indirect
// run out = 6.
func (h *scoringHarness) seedMatch(t *testing.T) {
	t.Helper()

	ctx := context.Background()

	perfs := []stats.Performance{
		{PlayerID: "p1", FixtureID: "fx-1", Fielding: stats.Fielding{Catches: 1}},
		{PlayerID: "p2", FixtureID: "fx-1", Fielding: stats.Fielding{Stumpings: 1}},
		{PlayerID: "p3", FixtureID: "fx-1", Fielding: stats.Fielding{RunOutsDirect: 1}},
		{PlayerID: "p4", FixtureID: "fx-1", Fielding: stats.Fielding{RunOutsIndirect: 1}},
	}
	for _, perf := range perfs {
		if err := h.stats.UpsertPerformance(ctx, perf); err != nil {
			t.Fatalf("seed performance: %v", err)
		}
	}

	// user-1: 16 (captain) + 18 (vice) + 12 = 46. user-2: 8 + 12 (captain) = 20.
	teamA := fantasy.Team{
		ID: "ft-a", UserID: "user-1", FixtureID: "fx-1", Name: "Team A",
		Picks: []fantasy.TeamPick{
			{PlayerID: "p1", IsCaptain: true},
			{PlayerID: "p2", IsViceCaptain: true},
			{PlayerID: "p3"},
		},
	}
	teamB := fantasy.Team{
		ID: "ft-b", UserID: "user-2", FixtureID: "fx-1", Name: "Team B",
		Picks: []fantasy.TeamPick{
			{PlayerID: "p1"},
			{PlayerID: "p4", IsCaptain: true},
		},
	}
	for _, team := range []fantasy.Team{teamA, teamB} {
		if err := h.fantasy.Upsert(ctx, team); err != nil {
			t.Fatalf("seed fantasy team: %v", err)
		}
	}

	joined := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	for i, userID := range []string{"user-1", "user-2"} {
		_, err := h.queue.Insert(ctx, queue.Entry{
			ID:            "entry-" + userID,
			UserID:        userID,
			FixtureID:     "fx-1",
			FantasyTeamID: "ft-" + string(rune('a'+i)),
			JoinedAt:      joined.Add(time.Duration(i) * time.Minute),
			Status:        queue.StatusWaiting,
		})
		if err != nil {
			t.Fatalf("seed queue entry: %v", err)
		}
	}
	team := autoteam.Team{
		ID:        "at-1",
		FixtureID: "fx-1",
		Name:      "Blazing Strikers",
		Members: []autoteam.Member{
			{UserID: "user-1", FantasyTeamID: "ft-a"},
			{UserID: "user-2", FantasyTeamID: "ft-b"},
		},
		Status:    autoteam.StatusLocked,
		CreatedAt: joined,
	}
	if err := h.teams.Form(ctx, team, []string{"entry-user-1", "entry-user-2"}); err != nil {
		t.Fatalf("seed auto-matched team: %v", err)
	}
}

func (h *scoringHarness) seedPredictions(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	actuals := stats.Actuals{
		FixtureID:      "fx-1",
		TotalScore:     182,
		PowerplayScore: 54,
		MostSixes:      "p1",
		MostFours:      "p2",
		MostWickets:    "p3",
		FiftiesCount:   2,
	}
	if err := h.stats.UpsertActuals(ctx, actuals); err != nil {
		t.Fatalf("seed actuals: %v", err)
	}

	perfect := prediction.Slip{
		ID: "pr-1", UserID: "user-1", FixtureID: "fx-1",
		Answers: prediction.Answers{
			TotalScore:     182,
			PowerplayScore: 54,
			MostSixes:      "p1",
			MostFours:      "p2",
			MostWickets:    "p3",
			FiftiesCount:   2,
		},
	}
	if err := h.predictions.Upsert(ctx, perfect); err != nil {
		t.Fatalf("seed prediction: %v", err)
	}
}

func TestRunScoresEverything(t *testing.T) {
	h := newScoringHarness(t)
	h.seedMatch(t)
	h.seedPredictions(t)

	summary, err := h.svc.Run(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.PlayersScored != 4 || summary.TeamsScored != 2 || summary.AutoTeamsScored != 1 || summary.PredictionsScored != 1 {
		t.Fatalf("summary = %+v, want 4 players / 2 teams / 1 auto team / 1 prediction", summary)
	}
	if len(summary.Failures) != 0 {
		t.Fatalf("failures = %v, want none", summary.Failures)
	}

	teamA, _, err := h.fantasy.GetByID(context.Background(), "ft-a")
	if err != nil {
		t.Fatalf("get team a: %v", err)
	}
	if teamA.Points != 46 || !teamA.IsLocked {
		t.Fatalf("team a = %d points locked=%v, want 46 locked", teamA.Points, teamA.IsLocked)
	}
	teamB, _, err := h.fantasy.GetByID(context.Background(), "ft-b")
	if err != nil {
		t.Fatalf("get team b: %v", err)
	}
	if teamB.Points != 20 {
		t.Fatalf("team b points = %d, want 20", teamB.Points)
	}

	auto, _, err := h.teams.GetByID(context.Background(), "at-1")
	if err != nil {
		t.Fatalf("get auto team: %v", err)
	}
	if auto.TotalPoints != 66 || auto.Rank != 1 || auto.Status != autoteam.StatusCompleted {
		t.Fatalf("auto team = %+v, want 66 points rank 1 completed", auto)
	}
	if auto.Members[0].Points != 46 || auto.Members[1].Points != 20 {
		t.Fatalf("member points = %d/%d, want 46/20", auto.Members[0].Points, auto.Members[1].Points)
	}

	slip, _, err := h.predictions.GetByUserAndFixture(context.Background(), "user-1", "fx-1")
	if err != nil {
		t.Fatalf("get prediction: %v", err)
	}
	if slip.Points != 235 || !slip.IsLocked {
		t.Fatalf("prediction = %d points locked=%v, want 235 locked", slip.Points, slip.IsLocked)
	}

	fx, _, err := h.fixtures.GetByID(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if fx.Status != fixture.StatusFinished {
		t.Fatalf("fixture status = %s, want finished", fx.Status)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	h := newScoringHarness(t)
	h.seedMatch(t)

	if _, err := h.svc.Run(context.Background(), "fx-1"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	summary, err := h.svc.Run(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.TeamsScored != 2 || summary.AutoTeamsScored != 1 {
		t.Fatalf("second run summary = %+v, want same counts", summary)
	}

	auto, _, err := h.teams.GetByID(context.Background(), "at-1")
	if err != nil {
		t.Fatalf("get auto team: %v", err)
	}
	if auto.TotalPoints != 66 || auto.Rank != 1 {
		t.Fatalf("auto team after re-run = %+v, want unchanged 66 / rank 1", auto)
	}
}

func TestRunCollectsMalformedPerformances(t *testing.T) {
	h := newScoringHarness(t)
	h.seedMatch(t)

	bad := stats.Performance{
		PlayerID:  "p9",
		FixtureID: "fx-1",
		Batting:   stats.Batting{Runs: -5},
	}
	if err := h.stats.UpsertPerformance(context.Background(), bad); err != nil {
		t.Fatalf("seed bad performance: %v", err)
	}

	summary, err := h.svc.Run(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.PlayersScored != 4 {
		t.Fatalf("players scored = %d, want 4", summary.PlayersScored)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Kind != "performance" || summary.Failures[0].ID != "p9" {
		t.Fatalf("failures = %+v, want one performance failure for p9", summary.Failures)
	}
	if summary.TeamsScored != 2 {
		t.Fatalf("teams scored = %d despite bad row, want 2", summary.TeamsScored)
	}
}

func TestRunRejectsOpenSelection(t *testing.T) {
	h := newScoringHarness(t)

	fx, _, err := h.fixtures.GetByID(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	fx.SelectionOpen = true
	fx.LockAt = time.Date(2026, 9, 12, 23, 0, 0, 0, time.UTC)
	if err := h.fixtures.Upsert(context.Background(), fx); err != nil {
		t.Fatalf("reopen fixture: %v", err)
	}

	_, err = h.svc.Run(context.Background(), "fx-1")
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("run with open selection err = %v, want ErrPreconditionFailed", err)
	}
}

func TestRunRejectsLockedButUnclosedSelection(t *testing.T) {
	h := newScoringHarness(t)
	h.seedMatch(t)

	ctx := context.Background()
	fx, _, err := h.fixtures.GetByID(ctx, "fx-1")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	// Past lock, but the close step never ran. Scoring must not be
	// allowed to finish the fixture around the endgame sweep.
	fx.SelectionOpen = true
	if err := h.fixtures.Upsert(ctx, fx); err != nil {
		t.Fatalf("reopen fixture: %v", err)
	}
	_, err = h.queue.Insert(ctx, queue.Entry{
		ID:            "entry-user-3",
		UserID:        "user-3",
		FixtureID:     "fx-1",
		FantasyTeamID: "ft-c",
		JoinedAt:      time.Date(2026, 9, 12, 11, 0, 0, 0, time.UTC),
		Status:        queue.StatusWaiting,
	})
	if err != nil {
		t.Fatalf("seed leftover entry: %v", err)
	}

	_, err = h.svc.Run(ctx, "fx-1")
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("run on unclosed fixture err = %v, want ErrPreconditionFailed", err)
	}

	waiting, err := h.queue.ListWaitingByFixture(ctx, "fx-1")
	if err != nil {
		t.Fatalf("list waiting: %v", err)
	}
	if len(waiting) != 1 {
		t.Fatalf("waiting entries = %d, want the leftover untouched", len(waiting))
	}
	fx, _, err = h.fixtures.GetByID(ctx, "fx-1")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if !fx.SelectionOpen || fx.Status == fixture.StatusFinished {
		t.Fatalf("rejected run mutated fixture: open=%t status=%s", fx.SelectionOpen, fx.Status)
	}
}

func TestRunUnknownFixture(t *testing.T) {
	h := newScoringHarness(t)

	_, err := h.svc.Run(context.Background(), "fx-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("run unknown fixture err = %v, want ErrNotFound", err)
	}
}

func TestLeaderboardOrdersTeams(t *testing.T) {
	h := newScoringHarness(t)
	h.seedMatch(t)

	// A second, weaker auto team so the board has a clear order.
	ctx := context.Background()
	teamC := fantasy.Team{
		ID: "ft-c", UserID: "user-3", FixtureID: "fx-1", Name: "Team C",
		Picks: []fantasy.TeamPick{{PlayerID: "p1"}},
	}
	teamD := fantasy.Team{
		ID: "ft-d", UserID: "user-4", FixtureID: "fx-1", Name: "Team D",
		Picks: []fantasy.TeamPick{{PlayerID: "p4"}},
	}
	for _, team := range []fantasy.Team{teamC, teamD} {
		if err := h.fantasy.Upsert(ctx, team); err != nil {
			t.Fatalf("seed fantasy team: %v", err)
		}
	}
	joined := time.Date(2026, 9, 12, 10, 30, 0, 0, time.UTC)
	for i, userID := range []string{"user-3", "user-4"} {
		_, err := h.queue.Insert(ctx, queue.Entry{
			ID:            "entry-" + userID,
			UserID:        userID,
			FixtureID:     "fx-1",
			FantasyTeamID: "ft-" + string(rune('c'+i)),
			JoinedAt:      joined.Add(time.Duration(i) * time.Minute),
			Status:        queue.StatusWaiting,
		})
		if err != nil {
			t.Fatalf("seed queue entry: %v", err)
		}
	}
	second := autoteam.Team{
		ID:        "at-2",
		FixtureID: "fx-1",
		Name:      "Royal Titans",
		Members: []autoteam.Member{
			{UserID: "user-3", FantasyTeamID: "ft-c"},
			{UserID: "user-4", FantasyTeamID: "ft-d"},
		},
		Status:    autoteam.StatusLocked,
		CreatedAt: joined,
	}
	if err := h.teams.Form(ctx, second, []string{"entry-user-3", "entry-user-4"}); err != nil {
		t.Fatalf("seed second auto team: %v", err)
	}

	if _, err := h.svc.Run(ctx, "fx-1"); err != nil {
		t.Fatalf("run: %v", err)
	}

	rows, err := h.svc.Leaderboard(ctx, "fx-1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("leaderboard rows = %d, want 2", len(rows))
	}
	// at-1 scores 66, at-2 scores 8+6=14.
	if rows[0].TeamID != "at-1" || rows[0].Rank != 1 || rows[0].TotalPoints != 66 {
		t.Fatalf("row 0 = %+v, want at-1 rank 1 with 66", rows[0])
	}
	if rows[1].TeamID != "at-2" || rows[1].Rank != 2 || rows[1].TotalPoints != 14 {
		t.Fatalf("row 1 = %+v, want at-2 rank 2 with 14", rows[1])
	}
}
