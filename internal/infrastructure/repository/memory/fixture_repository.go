package memory

import (
	"context"
	"sync"

	"github.com/crickarena/crickarena/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	order := make([]string, 0, len(fixtures))
	items := make(map[string]fixture.Fixture, len(fixtures))
	for _, item := range fixtures {
		if _, ok := items[item.ID]; !ok {
			order = append(order, item.ID)
		}
		items[item.ID] = item
	}

	return &FixtureRepository{order: order, items: items}
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[fixtureID]
	if !ok {
		return fixture.Fixture{}, false, nil
	}

	return item, true, nil
}

func (r *FixtureRepository) List(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *FixtureRepository) Upsert(_ context.Context, item fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item
	return nil
}
