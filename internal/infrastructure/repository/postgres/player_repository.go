package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/crickarena/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

type playerRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	TeamCode string `db:"team_code"`
	Role     string `db:"role"`
	Credits  int64  `db:"credits"`
}

func (row playerRow) toDomain() player.Player {
	return player.Player{
		ID:       row.ID,
		Name:     row.Name,
		TeamCode: row.TeamCode,
		Role:     player.Role(row.Role),
		Credits:  row.Credits,
	}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	const query = `
SELECT id, name, team_code, role, credits
FROM players
ORDER BY team_code, role, id`

	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
SELECT id, name, team_code, role, credits
FROM players
WHERE id IN (?)`, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("bind players query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}

	index := make(map[string]player.Player, len(rows))
	for _, row := range rows {
		index[row.ID] = row.toDomain()
	}

	// Preserve the caller's ordering, dropping unknown ids.
	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := index[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
