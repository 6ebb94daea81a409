package autoteam

import "context"

// Repository describes auto-matched team persistence needs from use cases.
type Repository interface {
	// Form creates the team and marks the consumed queue entries matched
	// with the team's id, as one atomic unit. A failure leaves neither
	// the team created nor any entry marked.
	Form(ctx context.Context, team Team, entryIDs []string) error
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (Team, bool, error)
	ListByFixture(ctx context.Context, fixtureID string) ([]Team, error)
	// UpdateScore overwrites member contributions, total points, rank
	// and status after a scoring run.
	UpdateScore(ctx context.Context, team Team) error
}
