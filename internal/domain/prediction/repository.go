package prediction

import "context"

// Repository describes prediction persistence needs from use cases.
type Repository interface {
	GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (Slip, bool, error)
	ListByFixture(ctx context.Context, fixtureID string) ([]Slip, error)
	Upsert(ctx context.Context, slip Slip) error
}
