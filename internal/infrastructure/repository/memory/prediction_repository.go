package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/crickarena/crickarena/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Slip
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[string]prediction.Slip)}
}

func (r *PredictionRepository) GetByUserAndFixture(_ context.Context, userID, fixtureID string) (prediction.Slip, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slip, ok := r.items[userFixtureKey(userID, fixtureID)]
	if !ok {
		return prediction.Slip{}, false, nil
	}

	return slip, true, nil
}

func (r *PredictionRepository) ListByFixture(_ context.Context, fixtureID string) ([]prediction.Slip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Slip, 0)
	for _, slip := range r.items {
		if slip.FixtureID != fixtureID {
			continue
		}
		out = append(out, slip)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PredictionRepository) Upsert(_ context.Context, slip prediction.Slip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[userFixtureKey(slip.UserID, slip.FixtureID)] = slip
	return nil
}
