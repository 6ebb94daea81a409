package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/crickarena/internal/domain/queue"
)

type QueueRepository struct {
	db *sqlx.DB
}

func NewQueueRepository(db *sqlx.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

type queueEntryRow struct {
	ID             string         `db:"id"`
	UserID         string         `db:"user_id"`
	FixtureID      string         `db:"fixture_id"`
	FantasyTeamID  string         `db:"fantasy_team_id"`
	Seq            int64          `db:"seq"`
	JoinedAt       time.Time      `db:"joined_at"`
	Status         string         `db:"status"`
	AssignedTeamID sql.NullString `db:"assigned_team_id"`
}

func (row queueEntryRow) toDomain() queue.Entry {
	return queue.Entry{
		ID:             row.ID,
		UserID:         row.UserID,
		FixtureID:      row.FixtureID,
		FantasyTeamID:  row.FantasyTeamID,
		Seq:            row.Seq,
		JoinedAt:       row.JoinedAt,
		Status:         queue.Status(row.Status),
		AssignedTeamID: row.AssignedTeamID.String,
	}
}

const queueColumns = `id, user_id, fixture_id, fantasy_team_id, seq, joined_at, status, assigned_team_id`

func (r *QueueRepository) GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (queue.Entry, bool, error) {
	query := `
SELECT ` + queueColumns + `
FROM queue_entries
WHERE user_id = $1
  AND fixture_id = $2`

	var row queueEntryRow
	if err := r.db.GetContext(ctx, &row, query, userID, fixtureID); err != nil {
		if isNotFound(err) {
			return queue.Entry{}, false, nil
		}
		return queue.Entry{}, false, fmt.Errorf("get queue entry: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *QueueRepository) ListWaitingByFixture(ctx context.Context, fixtureID string) ([]queue.Entry, error) {
	query := `
SELECT ` + queueColumns + `
FROM queue_entries
WHERE fixture_id = $1
  AND status = 'waiting'
ORDER BY joined_at, seq`

	var rows []queueEntryRow
	if err := r.db.SelectContext(ctx, &rows, query, fixtureID); err != nil {
		return nil, fmt.Errorf("list waiting queue entries: %w", err)
	}

	out := make([]queue.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *QueueRepository) Insert(ctx context.Context, entry queue.Entry) (queue.Entry, error) {
	const query = `
INSERT INTO queue_entries (id, user_id, fixture_id, fantasy_team_id, joined_at, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING seq`

	var seq int64
	err := r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.UserID, entry.FixtureID, entry.FantasyTeamID, entry.JoinedAt, string(entry.Status),
	).Scan(&seq)
	if err != nil {
		if isUniqueViolation(err) {
			return queue.Entry{}, queue.ErrDuplicateEntry
		}
		return queue.Entry{}, fmt.Errorf("insert queue entry: %w", err)
	}

	entry.Seq = seq
	return entry, nil
}

func (r *QueueRepository) DeleteWaiting(ctx context.Context, userID, fixtureID string) (bool, error) {
	const query = `
DELETE FROM queue_entries
WHERE user_id = $1
  AND fixture_id = $2
  AND status = 'waiting'`

	res, err := r.db.ExecContext(ctx, query, userID, fixtureID)
	if err != nil {
		return false, fmt.Errorf("delete queue entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete queue entry rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *QueueRepository) MarkExpired(ctx context.Context, entryID string) error {
	const query = `
UPDATE queue_entries
SET status = 'expired'
WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("expire queue entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("expire queue entry rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("queue entry %s not found", entryID)
	}

	return nil
}
