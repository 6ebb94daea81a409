package fantasy

import (
	"context"
	"errors"
)

// ErrConcurrentUpdate is returned by Upsert when a team for the same
// user and fixture already exists under a different id, meaning another
// save won the race between read and write.
var ErrConcurrentUpdate = errors.New("fantasy team updated concurrently")

// Repository describes fantasy team persistence needs from use cases.
type Repository interface {
	GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (Team, bool, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListByFixture(ctx context.Context, fixtureID string) ([]Team, error)
	Upsert(ctx context.Context, team Team) error
}
