package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/crickarena/crickarena/internal/domain/autoteam"
)

// AutoTeamRepository keeps formed teams and coordinates with the queue
// repository so Form behaves like the transactional postgres variant.
type AutoTeamRepository struct {
	mu            sync.RWMutex
	queue         *QueueRepository
	items         map[string]autoteam.Team
	byUserFixture map[string]string
}

func NewAutoTeamRepository(queueRepo *QueueRepository) *AutoTeamRepository {
	return &AutoTeamRepository{
		queue:         queueRepo,
		items:         make(map[string]autoteam.Team),
		byUserFixture: make(map[string]string),
	}
}

func (r *AutoTeamRepository) Form(_ context.Context, team autoteam.Team, entryIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[team.ID]; ok {
		return fmt.Errorf("auto-matched team %s already exists", team.ID)
	}

	// markMatched verifies before mutating, so a failure here leaves the
	// queue untouched and no team stored.
	if err := r.queue.markMatched(entryIDs, team.ID); err != nil {
		return fmt.Errorf("mark queue entries matched: %w", err)
	}

	r.items[team.ID] = cloneAutoTeam(team)
	for _, member := range team.Members {
		r.byUserFixture[userFixtureKey(member.UserID, team.FixtureID)] = team.ID
	}

	return nil
}

func (r *AutoTeamRepository) GetByID(_ context.Context, teamID string) (autoteam.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.items[teamID]
	if !ok {
		return autoteam.Team{}, false, nil
	}

	return cloneAutoTeam(team), true, nil
}

func (r *AutoTeamRepository) GetByUserAndFixture(_ context.Context, userID, fixtureID string) (autoteam.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamID, ok := r.byUserFixture[userFixtureKey(userID, fixtureID)]
	if !ok {
		return autoteam.Team{}, false, nil
	}

	return cloneAutoTeam(r.items[teamID]), true, nil
}

func (r *AutoTeamRepository) ListByFixture(_ context.Context, fixtureID string) ([]autoteam.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]autoteam.Team, 0)
	for _, team := range r.items {
		if team.FixtureID != fixtureID {
			continue
		}
		out = append(out, cloneAutoTeam(team))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *AutoTeamRepository) UpdateScore(_ context.Context, team autoteam.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[team.ID]; !ok {
		return fmt.Errorf("auto-matched team %s not found", team.ID)
	}

	r.items[team.ID] = cloneAutoTeam(team)
	return nil
}

func cloneAutoTeam(team autoteam.Team) autoteam.Team {
	copied := team
	copied.Members = append([]autoteam.Member(nil), team.Members...)
	return copied
}
