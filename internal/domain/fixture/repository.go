package fixture

import "context"

// Repository describes fixture persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
	List(ctx context.Context) ([]Fixture, error)
	Upsert(ctx context.Context, item Fixture) error
}
