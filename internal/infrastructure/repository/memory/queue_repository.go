package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/crickarena/crickarena/internal/domain/queue"
)

type QueueRepository struct {
	mu            sync.RWMutex
	items         map[string]queue.Entry
	byUserFixture map[string]string
	nextSeq       map[string]int64
}

func NewQueueRepository() *QueueRepository {
	return &QueueRepository{
		items:         make(map[string]queue.Entry),
		byUserFixture: make(map[string]string),
		nextSeq:       make(map[string]int64),
	}
}

func (r *QueueRepository) GetByUserAndFixture(_ context.Context, userID, fixtureID string) (queue.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entryID, ok := r.byUserFixture[userFixtureKey(userID, fixtureID)]
	if !ok {
		return queue.Entry{}, false, nil
	}

	return r.items[entryID], true, nil
}

func (r *QueueRepository) ListWaitingByFixture(_ context.Context, fixtureID string) ([]queue.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]queue.Entry, 0)
	for _, entry := range r.items {
		if entry.FixtureID != fixtureID || entry.Status != queue.StatusWaiting {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	return out, nil
}

func (r *QueueRepository) Insert(_ context.Context, entry queue.Entry) (queue.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userFixtureKey(entry.UserID, entry.FixtureID)
	if _, ok := r.byUserFixture[key]; ok {
		return queue.Entry{}, queue.ErrDuplicateEntry
	}

	r.nextSeq[entry.FixtureID]++
	entry.Seq = r.nextSeq[entry.FixtureID]

	r.items[entry.ID] = entry
	r.byUserFixture[key] = entry.ID
	return entry, nil
}

func (r *QueueRepository) DeleteWaiting(_ context.Context, userID, fixtureID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userFixtureKey(userID, fixtureID)
	entryID, ok := r.byUserFixture[key]
	if !ok {
		return false, nil
	}
	if r.items[entryID].Status != queue.StatusWaiting {
		return false, nil
	}

	delete(r.items, entryID)
	delete(r.byUserFixture, key)
	return true, nil
}

func (r *QueueRepository) MarkExpired(_ context.Context, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[entryID]
	if !ok {
		return fmt.Errorf("queue entry %s not found", entryID)
	}

	entry.Status = queue.StatusExpired
	r.items[entryID] = entry
	return nil
}

// markMatched flips the given entries from waiting to matched in one
// critical section, verifying every entry first so a bad id leaves
// nothing changed. Used by AutoTeamRepository.Form.
func (r *QueueRepository) markMatched(entryIDs []string, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entryID := range entryIDs {
		entry, ok := r.items[entryID]
		if !ok {
			return fmt.Errorf("queue entry %s not found", entryID)
		}
		if entry.Status != queue.StatusWaiting {
			return fmt.Errorf("queue entry %s is %s, not waiting", entryID, entry.Status)
		}
	}

	for _, entryID := range entryIDs {
		entry := r.items[entryID]
		entry.Status = queue.StatusMatched
		entry.AssignedTeamID = teamID
		r.items[entryID] = entry
	}

	return nil
}
