package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/crickarena/crickarena/internal/domain/stats"
)

type StatsRepository struct {
	mu           sync.RWMutex
	performances map[string]stats.Performance
	actuals      map[string]stats.Actuals
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		performances: make(map[string]stats.Performance),
		actuals:      make(map[string]stats.Actuals),
	}
}

func (r *StatsRepository) ListPerformancesByFixture(_ context.Context, fixtureID string) ([]stats.Performance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.Performance, 0)
	for _, item := range r.performances {
		if item.FixtureID != fixtureID {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

func (r *StatsRepository) UpsertPerformance(_ context.Context, item stats.Performance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.performances[item.PlayerID+"::"+item.FixtureID] = item
	return nil
}

func (r *StatsRepository) GetActuals(_ context.Context, fixtureID string) (stats.Actuals, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.actuals[fixtureID]
	if !ok {
		return stats.Actuals{}, false, nil
	}

	return item, true, nil
}

func (r *StatsRepository) UpsertActuals(_ context.Context, item stats.Actuals) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.actuals[item.FixtureID] = item
	return nil
}
