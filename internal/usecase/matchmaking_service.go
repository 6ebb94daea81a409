package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/crickarena/crickarena/internal/domain/autoteam"
	"github.com/crickarena/crickarena/internal/domain/fantasy"
	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/queue"
	idgen "github.com/crickarena/crickarena/internal/platform/id"
	"github.com/crickarena/crickarena/internal/platform/logging"
	"github.com/crickarena/crickarena/internal/platform/namegen"
)

const (
	// TeamSize is the nominal auto-matched team size.
	TeamSize = 4
	// MinEndgameTeamSize is the smallest team the endgame sweep may form
	// from leftover waiting entries.
	MinEndgameTeamSize = 2
)

// QueueState is the caller-facing view of a user's place in the
// matching state machine.
type QueueState string

const (
	QueueStateNotJoined QueueState = "not_joined"
	QueueStateWaiting   QueueState = "waiting"
	QueueStateMatched   QueueState = "matched"
	QueueStateExpired   QueueState = "expired"
)

// QueueStatus reports where a user stands for one fixture. Position is
// 1-based among waiting entries in FIFO order; NeedMore is how many
// further joins would complete the next team. Team is set only when
// matched.
type QueueStatus struct {
	State        QueueState
	Position     int
	TotalWaiting int
	NeedMore     int
	Team         *autoteam.Team
}

// SweepResult summarizes one endgame sweep.
type SweepResult struct {
	TeamsFormed    []autoteam.Team
	ExpiredUserIDs []string
}

// MatchmakingService batches queued users into small competitive teams.
// All queue mutations for one fixture are serialized behind a
// per-fixture mutex; different fixtures proceed in parallel.
type MatchmakingService struct {
	fixtureRepo fixture.Repository
	fantasyRepo fantasy.Repository
	queueRepo   queue.Repository
	teamRepo    autoteam.Repository
	notifier    Notifier
	names       namegen.Generator
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time

	mu           sync.Mutex
	fixtureLocks map[string]*sync.Mutex
}

func NewMatchmakingService(
	fixtureRepo fixture.Repository,
	fantasyRepo fantasy.Repository,
	queueRepo queue.Repository,
	teamRepo autoteam.Repository,
	notifier Notifier,
	names namegen.Generator,
	idGen idgen.Generator,
	logger *logging.Logger,
) *MatchmakingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchmakingService{
		fixtureRepo:  fixtureRepo,
		fantasyRepo:  fantasyRepo,
		queueRepo:    queueRepo,
		teamRepo:     teamRepo,
		notifier:     notifier,
		names:        names,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
		fixtureLocks: make(map[string]*sync.Mutex),
	}
}

// JoinQueue enqueues the user for auto-matching and immediately tries
// to form teams. It is idempotent: a user already waiting gets their
// current position back, a user already matched gets their team back.
// Joining requires a saved fantasy team and an open selection window.
func (s *MatchmakingService) JoinQueue(ctx context.Context, userID, fixtureID string) (QueueStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchmakingService.JoinQueue")
	defer span.End()

	userID = strings.TrimSpace(userID)
	fixtureID = strings.TrimSpace(fixtureID)
	if userID == "" || fixtureID == "" {
		return QueueStatus{}, fmt.Errorf("%w: user_id and fixture_id are required", ErrInvalidInput)
	}

	fx, err := s.getFixture(ctx, fixtureID)
	if err != nil {
		return QueueStatus{}, err
	}
	if !fx.SelectionOpen || fx.LockedAt(s.now().UTC()) {
		return QueueStatus{}, fmt.Errorf("%w: team selection is closed for fixture %s", ErrPreconditionFailed, fixtureID)
	}

	unlock := s.lockFixture(fixtureID)
	defer unlock()

	existing, exists, err := s.queueRepo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return QueueStatus{}, fmt.Errorf("get queue entry: %w", err)
	}
	if exists {
		return s.statusForEntry(ctx, existing)
	}

	team, hasTeam, err := s.fantasyRepo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return QueueStatus{}, fmt.Errorf("get fantasy team for join: %w", err)
	}
	if !hasTeam {
		return QueueStatus{}, fmt.Errorf("%w: save a fantasy team for fixture %s before joining the queue", ErrPreconditionFailed, fixtureID)
	}

	entryID, err := s.idGen.NewID()
	if err != nil {
		return QueueStatus{}, fmt.Errorf("generate queue entry id: %w", err)
	}

	entry := queue.Entry{
		ID:            entryID,
		UserID:        userID,
		FixtureID:     fixtureID,
		FantasyTeamID: team.ID,
		JoinedAt:      s.now().UTC(),
		Status:        queue.StatusWaiting,
	}
	if err := entry.Validate(); err != nil {
		return QueueStatus{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, err := s.queueRepo.Insert(ctx, entry)
	if err != nil {
		if errors.Is(err, queue.ErrDuplicateEntry) {
			return QueueStatus{}, fmt.Errorf("%w: join raced another request, re-read queue status", ErrConflict)
		}
		return QueueStatus{}, fmt.Errorf("insert queue entry: %w", err)
	}

	s.logger.InfoContext(ctx, "user joined matching queue",
		"user_id", userID,
		"fixture_id", fixtureID,
		"entry_seq", stored.Seq,
	)

	formed, err := s.drainQueue(ctx, fixtureID)
	if err != nil {
		return QueueStatus{}, err
	}
	for i := range formed {
		for _, m := range formed[i].Members {
			if m.UserID == userID {
				return QueueStatus{State: QueueStateMatched, Team: &formed[i]}, nil
			}
		}
	}

	return s.waitingStatus(ctx, stored)
}

// LeaveQueue removes the user's entry while it is still waiting.
func (s *MatchmakingService) LeaveQueue(ctx context.Context, userID, fixtureID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchmakingService.LeaveQueue")
	defer span.End()

	userID = strings.TrimSpace(userID)
	fixtureID = strings.TrimSpace(fixtureID)
	if userID == "" || fixtureID == "" {
		return fmt.Errorf("%w: user_id and fixture_id are required", ErrInvalidInput)
	}

	unlock := s.lockFixture(fixtureID)
	defer unlock()

	deleted, err := s.queueRepo.DeleteWaiting(ctx, userID, fixtureID)
	if err != nil {
		return fmt.Errorf("delete queue entry: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: user %s is not waiting in the queue for fixture %s", ErrPreconditionFailed, userID, fixtureID)
	}

	s.logger.InfoContext(ctx, "user left matching queue", "user_id", userID, "fixture_id", fixtureID)
	return nil
}

// QueueStatusFor reports the user's current place in the queue without
// mutating anything.
func (s *MatchmakingService) QueueStatusFor(ctx context.Context, userID, fixtureID string) (QueueStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchmakingService.QueueStatusFor")
	defer span.End()

	userID = strings.TrimSpace(userID)
	fixtureID = strings.TrimSpace(fixtureID)
	if userID == "" || fixtureID == "" {
		return QueueStatus{}, fmt.Errorf("%w: user_id and fixture_id are required", ErrInvalidInput)
	}
	if _, err := s.getFixture(ctx, fixtureID); err != nil {
		return QueueStatus{}, err
	}

	unlock := s.lockFixture(fixtureID)
	defer unlock()

	entry, exists, err := s.queueRepo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return QueueStatus{}, fmt.Errorf("get queue entry: %w", err)
	}
	if !exists {
		return QueueStatus{State: QueueStateNotJoined}, nil
	}

	return s.statusForEntry(ctx, entry)
}

// MatchedTeamFor returns the auto-matched team the user landed in.
func (s *MatchmakingService) MatchedTeamFor(ctx context.Context, userID, fixtureID string) (autoteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchmakingService.MatchedTeamFor")
	defer span.End()

	userID = strings.TrimSpace(userID)
	fixtureID = strings.TrimSpace(fixtureID)
	if userID == "" || fixtureID == "" {
		return autoteam.Team{}, fmt.Errorf("%w: user_id and fixture_id are required", ErrInvalidInput)
	}

	team, exists, err := s.teamRepo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return autoteam.Team{}, fmt.Errorf("get auto-matched team: %w", err)
	}
	if !exists {
		return autoteam.Team{}, fmt.Errorf("%w: no auto-matched team for user %s in fixture %s", ErrNotFound, userID, fixtureID)
	}

	return team, nil
}

// CloseSelection flips the fixture's selection window shut and runs the
// endgame sweep over whatever is still waiting.
func (s *MatchmakingService) CloseSelection(ctx context.Context, fixtureID string) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchmakingService.CloseSelection")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return SweepResult{}, fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}

	fx, err := s.getFixture(ctx, fixtureID)
	if err != nil {
		return SweepResult{}, err
	}
	if fx.SelectionOpen {
		fx.SelectionOpen = false
		if err := s.fixtureRepo.Upsert(ctx, fx); err != nil {
			return SweepResult{}, fmt.Errorf("close fixture selection: %w", err)
		}
	}

	return s.EndgameSweep(ctx, fixtureID)
}

// EndgameSweep resolves leftover waiting entries once team selection
// has closed: full batches first, then one undersized team of 2-3 from
// the remainder. A single irreducible leftover entry expires unmatched.
func (s *MatchmakingService) EndgameSweep(ctx context.Context, fixtureID string) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchmakingService.EndgameSweep")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return SweepResult{}, fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}

	fx, err := s.getFixture(ctx, fixtureID)
	if err != nil {
		return SweepResult{}, err
	}
	if fx.SelectionOpen {
		return SweepResult{}, fmt.Errorf("%w: selection is still open for fixture %s", ErrPreconditionFailed, fixtureID)
	}

	unlock := s.lockFixture(fixtureID)
	defer unlock()

	result := SweepResult{}
	result.TeamsFormed, err = s.drainQueue(ctx, fixtureID)
	if err != nil {
		return result, err
	}

	waiting, err := s.queueRepo.ListWaitingByFixture(ctx, fixtureID)
	if err != nil {
		return result, fmt.Errorf("list waiting entries for sweep: %w", err)
	}

	switch {
	case len(waiting) >= MinEndgameTeamSize:
		team, err := s.formTeam(ctx, fixtureID, waiting)
		if err != nil {
			return result, err
		}
		result.TeamsFormed = append(result.TeamsFormed, team)
	case len(waiting) == 1:
		leftover := waiting[0]
		if err := s.queueRepo.MarkExpired(ctx, leftover.ID); err != nil {
			return result, fmt.Errorf("expire leftover entry: %w", err)
		}
		result.ExpiredUserIDs = append(result.ExpiredUserIDs, leftover.UserID)
		s.logger.InfoContext(ctx, "queue entry expired unmatched",
			"user_id", leftover.UserID,
			"fixture_id", fixtureID,
		)
	}

	return result, nil
}

// drainQueue forms full teams while at least TeamSize entries wait.
// Nine waiting entries become two teams of four with one entry left.
func (s *MatchmakingService) drainQueue(ctx context.Context, fixtureID string) ([]autoteam.Team, error) {
	var formed []autoteam.Team
	for {
		waiting, err := s.queueRepo.ListWaitingByFixture(ctx, fixtureID)
		if err != nil {
			return formed, fmt.Errorf("list waiting entries: %w", err)
		}
		if len(waiting) < TeamSize {
			return formed, nil
		}

		team, err := s.formTeam(ctx, fixtureID, waiting[:TeamSize])
		if err != nil {
			return formed, err
		}
		formed = append(formed, team)
	}
}

func (s *MatchmakingService) formTeam(ctx context.Context, fixtureID string, entries []queue.Entry) (autoteam.Team, error) {
	teamID, err := s.idGen.NewID()
	if err != nil {
		return autoteam.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	members := make([]autoteam.Member, 0, len(entries))
	entryIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		members = append(members, autoteam.Member{
			UserID:        entry.UserID,
			FantasyTeamID: entry.FantasyTeamID,
		})
		entryIDs = append(entryIDs, entry.ID)
	}

	team := autoteam.Team{
		ID:        teamID,
		FixtureID: fixtureID,
		Name:      s.names.TeamName(),
		Members:   members,
		Status:    autoteam.StatusLocked,
		CreatedAt: s.now().UTC(),
	}
	if err := team.Validate(); err != nil {
		return autoteam.Team{}, fmt.Errorf("validate formed team: %w", err)
	}

	if err := s.teamRepo.Form(ctx, team, entryIDs); err != nil {
		return autoteam.Team{}, fmt.Errorf("form auto-matched team: %w", err)
	}

	s.logger.InfoContext(ctx, "auto-matched team formed",
		"fixture_id", fixtureID,
		"team_id", team.ID,
		"team_name", team.Name,
		"member_count", len(team.Members),
	)

	// Push delivery is best-effort and must not hold up or roll back
	// the matching transaction.
	go s.pushTeamFormed(context.WithoutCancel(ctx), team)

	return team, nil
}

func (s *MatchmakingService) pushTeamFormed(ctx context.Context, team autoteam.Team) {
	payload := TeamFormedPayload{
		TeamID:      team.ID,
		FixtureID:   team.FixtureID,
		TeamName:    team.Name,
		MemberCount: len(team.Members),
		MemberIDs:   team.MemberUserIDs(),
	}

	p := pool.New().WithMaxGoroutines(len(team.Members))
	for _, member := range team.Members {
		userID := member.UserID
		p.Go(func() {
			if err := s.notifier.Notify(ctx, userID, EventTeamFormed, payload); err != nil {
				s.logger.WarnContext(ctx, "team formed push failed",
					"user_id", userID,
					"team_id", team.ID,
					"error", err,
				)
			}
		})
	}
	p.Wait()
}

func (s *MatchmakingService) statusForEntry(ctx context.Context, entry queue.Entry) (QueueStatus, error) {
	switch entry.Status {
	case queue.StatusMatched:
		team, exists, err := s.teamRepo.GetByID(ctx, entry.AssignedTeamID)
		if err != nil {
			return QueueStatus{}, fmt.Errorf("get assigned team: %w", err)
		}
		if !exists {
			return QueueStatus{}, fmt.Errorf("%w: assigned team %s is missing", ErrNotFound, entry.AssignedTeamID)
		}
		return QueueStatus{State: QueueStateMatched, Team: &team}, nil
	case queue.StatusExpired:
		return QueueStatus{State: QueueStateExpired}, nil
	default:
		return s.waitingStatus(ctx, entry)
	}
}

func (s *MatchmakingService) waitingStatus(ctx context.Context, entry queue.Entry) (QueueStatus, error) {
	waiting, err := s.queueRepo.ListWaitingByFixture(ctx, entry.FixtureID)
	if err != nil {
		return QueueStatus{}, fmt.Errorf("list waiting entries: %w", err)
	}

	position := 0
	for idx, item := range waiting {
		if item.UserID == entry.UserID {
			position = idx + 1
			break
		}
	}
	if position == 0 {
		// The entry changed under a racing batch; callers should re-read.
		return QueueStatus{}, fmt.Errorf("%w: queue entry moved, re-read queue status", ErrConflict)
	}

	needMore := TeamSize - len(waiting)%TeamSize
	if needMore == TeamSize && len(waiting) >= TeamSize {
		needMore = 0
	}

	return QueueStatus{
		State:        QueueStateWaiting,
		Position:     position,
		TotalWaiting: len(waiting),
		NeedMore:     needMore,
	}, nil
}

func (s *MatchmakingService) getFixture(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture %s", ErrNotFound, fixtureID)
	}
	return fx, nil
}

// lockFixture serializes queue mutations per fixture. The returned
// function releases the lock.
func (s *MatchmakingService) lockFixture(fixtureID string) func() {
	s.mu.Lock()
	lock, ok := s.fixtureLocks[fixtureID]
	if !ok {
		lock = &sync.Mutex{}
		s.fixtureLocks[fixtureID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
