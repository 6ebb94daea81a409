package queue

import (
	"context"
	"errors"
)

// ErrDuplicateEntry is returned by Insert when an entry for the same
// (UserID, FixtureID) pair already exists.
var ErrDuplicateEntry = errors.New("queue entry already exists")

// Repository describes queue persistence needs from the matching engine.
// ListWaitingByFixture must return entries in FIFO order (JoinedAt, then Seq).
type Repository interface {
	GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (Entry, bool, error)
	ListWaitingByFixture(ctx context.Context, fixtureID string) ([]Entry, error)
	// Insert stores a waiting entry, assigning its Seq, and returns the
	// stored entry. It fails when an entry for (UserID, FixtureID)
	// already exists.
	Insert(ctx context.Context, entry Entry) (Entry, error)
	// DeleteWaiting removes the entry only while it is still waiting and
	// reports whether anything was removed.
	DeleteWaiting(ctx context.Context, userID, fixtureID string) (bool, error)
	MarkExpired(ctx context.Context, entryID string) error
}
