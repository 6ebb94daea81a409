package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/crickarena/crickarena/internal/domain/fantasy"
	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/queue"
	"github.com/crickarena/crickarena/internal/infrastructure/repository/memory"
	"github.com/crickarena/crickarena/internal/platform/logging"
)

type stubNames struct {
	mu sync.Mutex
	n  int
}

func (s *stubNames) TeamName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("Team %d", s.n)
}

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n), nil
}

type chanNotifier struct {
	notified chan string
}

func (n *chanNotifier) Notify(_ context.Context, userID, _ string, _ any) error {
	n.notified <- userID
	return nil
}

func (n *chanNotifier) Broadcast(context.Context, string, string, any) error { return nil }

type matchmakingHarness struct {
	svc      *MatchmakingService
	fixtures *memory.FixtureRepository
	teams    *memory.AutoTeamRepository
	queue    *memory.QueueRepository
	fantasy  *memory.FantasyTeamRepository
	notified chan string
}

func newMatchmakingHarness(t *testing.T) *matchmakingHarness {
	t.Helper()

	now := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	fixtures := memory.NewFixtureRepository([]fixture.Fixture{{
		ID:            "fx-1",
		HomeTeam:      "India",
		AwayTeam:      "Australia",
		StartsAt:      now.Add(4 * time.Hour),
		LockAt:        now.Add(3 * time.Hour),
		SelectionOpen: true,
		Status:        fixture.StatusScheduled,
	}})
	fantasyRepo := memory.NewFantasyTeamRepository()
	queueRepo := memory.NewQueueRepository()
	teamRepo := memory.NewAutoTeamRepository(queueRepo)
	notified := make(chan string, 64)

	svc := NewMatchmakingService(
		fixtures,
		fantasyRepo,
		queueRepo,
		teamRepo,
		&chanNotifier{notified: notified},
		&stubNames{},
		&seqIDGen{},
		logging.NewNop(),
	)
	svc.now = func() time.Time { return now }

	return &matchmakingHarness{
		svc:      svc,
		fixtures: fixtures,
		teams:    teamRepo,
		queue:    queueRepo,
		fantasy:  fantasyRepo,
		notified: notified,
	}
}

func (h *matchmakingHarness) saveFantasyTeam(t *testing.T, userID string) {
	t.Helper()

	err := h.fantasy.Upsert(context.Background(), fantasy.Team{
		ID:        "ft-" + userID,
		UserID:    userID,
		FixtureID: "fx-1",
		Name:      userID + "'s XI",
	})
	if err != nil {
		t.Fatalf("save fantasy team: %v", err)
	}
}

func (h *matchmakingHarness) join(t *testing.T, userID string) QueueStatus {
	t.Helper()

	h.saveFantasyTeam(t, userID)
	status, err := h.svc.JoinQueue(context.Background(), userID, "fx-1")
	if err != nil {
		t.Fatalf("join queue for %s: %v", userID, err)
	}
	return status
}

func (h *matchmakingHarness) closeSelection(t *testing.T) {
	t.Helper()

	fx, _, err := h.fixtures.GetByID(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	fx.SelectionOpen = false
	if err := h.fixtures.Upsert(context.Background(), fx); err != nil {
		t.Fatalf("close selection: %v", err)
	}
}

func TestJoinQueueFormsTeamsInFIFOOrder(t *testing.T) {
	h := newMatchmakingHarness(t)

	for i := 1; i <= 3; i++ {
		status := h.join(t, fmt.Sprintf("user-%d", i))
		if status.State != QueueStateWaiting {
			t.Fatalf("user-%d state = %s, want waiting", i, status.State)
		}
		if status.Position != i {
			t.Fatalf("user-%d position = %d, want %d", i, status.Position, i)
		}
		if status.NeedMore != TeamSize-i {
			t.Fatalf("user-%d need more = %d, want %d", i, status.NeedMore, TeamSize-i)
		}
	}

	fourth := h.join(t, "user-4")
	if fourth.State != QueueStateMatched {
		t.Fatalf("fourth join state = %s, want matched", fourth.State)
	}
	if fourth.Team == nil || len(fourth.Team.Members) != TeamSize {
		t.Fatalf("fourth join team = %+v, want %d members", fourth.Team, TeamSize)
	}
	for i, member := range fourth.Team.Members {
		want := fmt.Sprintf("user-%d", i+1)
		if member.UserID != want {
			t.Fatalf("member[%d] = %s, want %s", i, member.UserID, want)
		}
	}
	if fourth.Team.Name == "" {
		t.Fatal("formed team has no name")
	}

	for i := 5; i <= 9; i++ {
		h.join(t, fmt.Sprintf("user-%d", i))
	}

	ninth, err := h.svc.QueueStatusFor(context.Background(), "user-9", "fx-1")
	if err != nil {
		t.Fatalf("status for user-9: %v", err)
	}
	if ninth.State != QueueStateWaiting || ninth.Position != 1 || ninth.TotalWaiting != 1 {
		t.Fatalf("user-9 status = %+v, want waiting at position 1 of 1", ninth)
	}
	if ninth.NeedMore != 3 {
		t.Fatalf("user-9 need more = %d, want 3", ninth.NeedMore)
	}

	first, err := h.svc.QueueStatusFor(context.Background(), "user-1", "fx-1")
	if err != nil {
		t.Fatalf("status for user-1: %v", err)
	}
	if first.State != QueueStateMatched || first.Team == nil {
		t.Fatalf("user-1 status = %+v, want matched with team", first)
	}
	eighth, err := h.svc.QueueStatusFor(context.Background(), "user-8", "fx-1")
	if err != nil {
		t.Fatalf("status for user-8: %v", err)
	}
	if eighth.Team == nil || eighth.Team.ID == first.Team.ID {
		t.Fatalf("user-8 should land in a different team than user-1")
	}
}

func TestJoinQueueIsIdempotent(t *testing.T) {
	h := newMatchmakingHarness(t)

	first := h.join(t, "user-1")
	again, err := h.svc.JoinQueue(context.Background(), "user-1", "fx-1")
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if again.State != QueueStateWaiting || again.Position != first.Position {
		t.Fatalf("second join status = %+v, want same waiting position %d", again, first.Position)
	}

	waiting, err := h.queue.ListWaitingByFixture(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("list waiting: %v", err)
	}
	if len(waiting) != 1 {
		t.Fatalf("waiting entries = %d, want 1", len(waiting))
	}

	for i := 2; i <= 4; i++ {
		h.join(t, fmt.Sprintf("user-%d", i))
	}
	matchedAgain, err := h.svc.JoinQueue(context.Background(), "user-1", "fx-1")
	if err != nil {
		t.Fatalf("join after match: %v", err)
	}
	if matchedAgain.State != QueueStateMatched || matchedAgain.Team == nil {
		t.Fatalf("join after match = %+v, want matched with team", matchedAgain)
	}
}

func TestJoinQueueRequiresFantasyTeam(t *testing.T) {
	h := newMatchmakingHarness(t)

	_, err := h.svc.JoinQueue(context.Background(), "user-1", "fx-1")
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("join without fantasy team err = %v, want ErrPreconditionFailed", err)
	}
}

func TestJoinQueueRejectsClosedSelection(t *testing.T) {
	h := newMatchmakingHarness(t)
	h.saveFantasyTeam(t, "user-1")
	h.closeSelection(t)

	_, err := h.svc.JoinQueue(context.Background(), "user-1", "fx-1")
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("join after close err = %v, want ErrPreconditionFailed", err)
	}
}

func TestJoinQueueRejectsAfterLockTime(t *testing.T) {
	h := newMatchmakingHarness(t)
	h.saveFantasyTeam(t, "user-1")
	h.svc.now = func() time.Time { return time.Date(2026, 9, 12, 13, 30, 0, 0, time.UTC) }

	_, err := h.svc.JoinQueue(context.Background(), "user-1", "fx-1")
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("join at lock time err = %v, want ErrPreconditionFailed", err)
	}
}

func TestJoinQueueUnknownFixture(t *testing.T) {
	h := newMatchmakingHarness(t)

	_, err := h.svc.JoinQueue(context.Background(), "user-1", "fx-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("join unknown fixture err = %v, want ErrNotFound", err)
	}
}

func TestLeaveQueue(t *testing.T) {
	h := newMatchmakingHarness(t)

	if err := h.svc.LeaveQueue(context.Background(), "user-1", "fx-1"); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("leave before join err = %v, want ErrPreconditionFailed", err)
	}

	h.join(t, "user-1")
	if err := h.svc.LeaveQueue(context.Background(), "user-1", "fx-1"); err != nil {
		t.Fatalf("leave while waiting: %v", err)
	}

	status, err := h.svc.QueueStatusFor(context.Background(), "user-1", "fx-1")
	if err != nil {
		t.Fatalf("status after leave: %v", err)
	}
	if status.State != QueueStateNotJoined {
		t.Fatalf("state after leave = %s, want not_joined", status.State)
	}

	// Rejoining after leaving starts a fresh entry.
	rejoined, err := h.svc.JoinQueue(context.Background(), "user-1", "fx-1")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if rejoined.State != QueueStateWaiting || rejoined.Position != 1 {
		t.Fatalf("rejoin status = %+v, want waiting at position 1", rejoined)
	}
}

func TestLeaveQueueAfterMatchFails(t *testing.T) {
	h := newMatchmakingHarness(t)

	for i := 1; i <= 4; i++ {
		h.join(t, fmt.Sprintf("user-%d", i))
	}

	err := h.svc.LeaveQueue(context.Background(), "user-1", "fx-1")
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("leave after match err = %v, want ErrPreconditionFailed", err)
	}
}

func TestEndgameSweepFormsUndersizedTeam(t *testing.T) {
	h := newMatchmakingHarness(t)

	for i := 1; i <= 3; i++ {
		h.join(t, fmt.Sprintf("user-%d", i))
	}
	h.closeSelection(t)

	result, err := h.svc.EndgameSweep(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("endgame sweep: %v", err)
	}
	if len(result.TeamsFormed) != 1 {
		t.Fatalf("teams formed = %d, want 1", len(result.TeamsFormed))
	}
	if got := len(result.TeamsFormed[0].Members); got != 3 {
		t.Fatalf("undersized team size = %d, want 3", got)
	}
	if len(result.ExpiredUserIDs) != 0 {
		t.Fatalf("expired users = %v, want none", result.ExpiredUserIDs)
	}

	status, err := h.svc.QueueStatusFor(context.Background(), "user-2", "fx-1")
	if err != nil {
		t.Fatalf("status after sweep: %v", err)
	}
	if status.State != QueueStateMatched {
		t.Fatalf("state after sweep = %s, want matched", status.State)
	}
}

func TestEndgameSweepExpiresSingleLeftover(t *testing.T) {
	h := newMatchmakingHarness(t)

	h.join(t, "user-1")
	h.closeSelection(t)

	result, err := h.svc.EndgameSweep(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("endgame sweep: %v", err)
	}
	if len(result.TeamsFormed) != 0 {
		t.Fatalf("teams formed = %d, want 0", len(result.TeamsFormed))
	}
	if len(result.ExpiredUserIDs) != 1 || result.ExpiredUserIDs[0] != "user-1" {
		t.Fatalf("expired users = %v, want [user-1]", result.ExpiredUserIDs)
	}

	status, err := h.svc.QueueStatusFor(context.Background(), "user-1", "fx-1")
	if err != nil {
		t.Fatalf("status after sweep: %v", err)
	}
	if status.State != QueueStateExpired {
		t.Fatalf("state after sweep = %s, want expired", status.State)
	}
}

func TestEndgameSweepDrainsFullBatchesFirst(t *testing.T) {
	h := newMatchmakingHarness(t)

	// Insert waiting entries directly so the sweep, not the join path,
	// drains the full batch.
	joined := time.Date(2026, 9, 12, 11, 0, 0, 0, time.UTC)
	for i := 1; i <= 6; i++ {
		userID := fmt.Sprintf("user-%d", i)
		h.saveFantasyTeam(t, userID)
		_, err := h.queue.Insert(context.Background(), queue.Entry{
			ID:            fmt.Sprintf("entry-%d", i),
			UserID:        userID,
			FixtureID:     "fx-1",
			FantasyTeamID: "ft-" + userID,
			JoinedAt:      joined.Add(time.Duration(i) * time.Minute),
			Status:        queue.StatusWaiting,
		})
		if err != nil {
			t.Fatalf("insert entry %d: %v", i, err)
		}
	}
	h.closeSelection(t)

	result, err := h.svc.EndgameSweep(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("endgame sweep: %v", err)
	}
	if len(result.TeamsFormed) != 2 {
		t.Fatalf("teams formed in sweep = %d, want 2", len(result.TeamsFormed))
	}
	if got := len(result.TeamsFormed[0].Members); got != 4 {
		t.Fatalf("first team size = %d, want 4", got)
	}
	if got := len(result.TeamsFormed[1].Members); got != 2 {
		t.Fatalf("leftover team size = %d, want 2", got)
	}

	teams, err := h.teams.ListByFixture(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("total teams = %d, want 2", len(teams))
	}
}

func TestEndgameSweepRequiresClosedSelection(t *testing.T) {
	h := newMatchmakingHarness(t)

	_, err := h.svc.EndgameSweep(context.Background(), "fx-1")
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("sweep with open selection err = %v, want ErrPreconditionFailed", err)
	}
}

func TestCloseSelectionClosesAndSweeps(t *testing.T) {
	h := newMatchmakingHarness(t)

	h.join(t, "user-1")
	h.join(t, "user-2")

	result, err := h.svc.CloseSelection(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("close selection: %v", err)
	}
	if len(result.TeamsFormed) != 1 || len(result.TeamsFormed[0].Members) != 2 {
		t.Fatalf("close selection result = %+v, want one team of 2", result)
	}

	fx, _, err := h.fixtures.GetByID(context.Background(), "fx-1")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if fx.SelectionOpen {
		t.Fatal("selection still open after close")
	}
}

func TestFormedTeamMembersAreNotified(t *testing.T) {
	h := newMatchmakingHarness(t)

	for i := 1; i <= 4; i++ {
		h.join(t, fmt.Sprintf("user-%d", i))
	}

	got := make(map[string]bool)
	deadline := time.After(2 * time.Second)
	for len(got) < 4 {
		select {
		case userID := <-h.notified:
			got[userID] = true
		case <-deadline:
			t.Fatalf("notified %d members before timeout, want 4", len(got))
		}
	}
	for i := 1; i <= 4; i++ {
		if !got[fmt.Sprintf("user-%d", i)] {
			t.Fatalf("user-%d was not notified", i)
		}
	}
}
