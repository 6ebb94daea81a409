package memory

import (
	"context"
	"sync"

	"github.com/crickarena/crickarena/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	ordered []player.Player
	index   map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	ordered := append([]player.Player(nil), players...)
	index := make(map[string]player.Player, len(players))
	for _, p := range players {
		index[p.ID] = p
	}

	return &PlayerRepository{ordered: ordered, index: index}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.ordered))
	out = append(out, r.ordered...)
	return out, nil
}

// GetByIDs returns the players that exist; unknown ids are simply
// absent from the result.
func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.index[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}
