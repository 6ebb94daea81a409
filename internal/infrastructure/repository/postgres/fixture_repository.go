package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/crickarena/internal/domain/fixture"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

type fixtureRow struct {
	ID            string    `db:"id"`
	HomeTeam      string    `db:"home_team"`
	AwayTeam      string    `db:"away_team"`
	Venue         string    `db:"venue"`
	StartsAt      time.Time `db:"starts_at"`
	LockAt        time.Time `db:"lock_at"`
	SelectionOpen bool      `db:"selection_open"`
	Status        string    `db:"status"`
}

func (row fixtureRow) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:            row.ID,
		HomeTeam:      row.HomeTeam,
		AwayTeam:      row.AwayTeam,
		Venue:         row.Venue,
		StartsAt:      row.StartsAt,
		LockAt:        row.LockAt,
		SelectionOpen: row.SelectionOpen,
		Status:        fixture.Status(row.Status),
	}
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	const query = `
SELECT id, home_team, away_team, venue, starts_at, lock_at, selection_open, status
FROM fixtures
WHERE id = $1`

	var row fixtureRow
	if err := r.db.GetContext(ctx, &row, query, fixtureID); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *FixtureRepository) List(ctx context.Context) ([]fixture.Fixture, error) {
	const query = `
SELECT id, home_team, away_team, venue, starts_at, lock_at, selection_open, status
FROM fixtures
ORDER BY starts_at, id`

	var rows []fixtureRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *FixtureRepository) Upsert(ctx context.Context, item fixture.Fixture) error {
	const query = `
INSERT INTO fixtures (id, home_team, away_team, venue, starts_at, lock_at, selection_open, status)
VALUES (:id, :home_team, :away_team, :venue, :starts_at, :lock_at, :selection_open, :status)
ON CONFLICT (id)
DO UPDATE SET
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    venue = EXCLUDED.venue,
    starts_at = EXCLUDED.starts_at,
    lock_at = EXCLUDED.lock_at,
    selection_open = EXCLUDED.selection_open,
    status = EXCLUDED.status`

	args := map[string]any{
		"id":             item.ID,
		"home_team":      item.HomeTeam,
		"away_team":      item.AwayTeam,
		"venue":          item.Venue,
		"starts_at":      item.StartsAt,
		"lock_at":        item.LockAt,
		"selection_open": item.SelectionOpen,
		"status":         string(item.Status),
	}
	if _, err := r.db.NamedExecContext(ctx, query, args); err != nil {
		return fmt.Errorf("upsert fixture: %w", err)
	}

	return nil
}
