package stats

import "context"

// Repository describes performance-data persistence needs from the
// scoring run and admin ingestion.
type Repository interface {
	ListPerformancesByFixture(ctx context.Context, fixtureID string) ([]Performance, error)
	UpsertPerformance(ctx context.Context, item Performance) error
	GetActuals(ctx context.Context, fixtureID string) (Actuals, bool, error)
	UpsertActuals(ctx context.Context, item Actuals) error
}
