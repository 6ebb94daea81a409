package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/crickarena/crickarena/internal/domain/fantasy"
)

type FantasyTeamRepository struct {
	mu            sync.RWMutex
	items         map[string]fantasy.Team
	byUserFixture map[string]string
}

func NewFantasyTeamRepository() *FantasyTeamRepository {
	return &FantasyTeamRepository{
		items:         make(map[string]fantasy.Team),
		byUserFixture: make(map[string]string),
	}
}

func (r *FantasyTeamRepository) GetByUserAndFixture(_ context.Context, userID, fixtureID string) (fantasy.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamID, ok := r.byUserFixture[userFixtureKey(userID, fixtureID)]
	if !ok {
		return fantasy.Team{}, false, nil
	}

	return cloneFantasyTeam(r.items[teamID]), true, nil
}

func (r *FantasyTeamRepository) GetByID(_ context.Context, teamID string) (fantasy.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.items[teamID]
	if !ok {
		return fantasy.Team{}, false, nil
	}

	return cloneFantasyTeam(team), true, nil
}

func (r *FantasyTeamRepository) ListByFixture(_ context.Context, fixtureID string) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0)
	for _, team := range r.items {
		if team.FixtureID != fixtureID {
			continue
		}
		out = append(out, cloneFantasyTeam(team))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *FantasyTeamRepository) Upsert(_ context.Context, team fantasy.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userFixtureKey(team.UserID, team.FixtureID)
	if existingID, ok := r.byUserFixture[key]; ok && existingID != team.ID {
		return fantasy.ErrConcurrentUpdate
	}

	r.items[team.ID] = cloneFantasyTeam(team)
	r.byUserFixture[key] = team.ID
	return nil
}

func userFixtureKey(userID, fixtureID string) string {
	return userID + "::" + fixtureID
}

func cloneFantasyTeam(team fantasy.Team) fantasy.Team {
	copied := team
	copied.Picks = append([]fantasy.TeamPick(nil), team.Picks...)
	return copied
}
