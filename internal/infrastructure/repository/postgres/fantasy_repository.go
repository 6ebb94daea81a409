package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/crickarena/internal/domain/fantasy"
	"github.com/crickarena/crickarena/internal/domain/player"
)

type FantasyTeamRepository struct {
	db *sqlx.DB
}

func NewFantasyTeamRepository(db *sqlx.DB) *FantasyTeamRepository {
	return &FantasyTeamRepository{db: db}
}

type fantasyTeamRow struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	FixtureID    string    `db:"fixture_id"`
	Name         string    `db:"name"`
	TotalCredits int64     `db:"total_credits"`
	IsLocked     bool      `db:"is_locked"`
	Points       int       `db:"points"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type teamPickRow struct {
	TeamID        string `db:"team_id"`
	PlayerID      string `db:"player_id"`
	TeamCode      string `db:"team_code"`
	Role          string `db:"role"`
	Credits       int64  `db:"credits"`
	IsCaptain     bool   `db:"is_captain"`
	IsViceCaptain bool   `db:"is_vice_captain"`
}

func (row teamPickRow) toDomain() fantasy.TeamPick {
	return fantasy.TeamPick{
		PlayerID:      row.PlayerID,
		TeamCode:      row.TeamCode,
		Role:          player.Role(row.Role),
		Credits:       row.Credits,
		IsCaptain:     row.IsCaptain,
		IsViceCaptain: row.IsViceCaptain,
	}
}

const fantasyTeamColumns = `id, user_id, fixture_id, name, total_credits, is_locked, points, created_at, updated_at`

func (r *FantasyTeamRepository) GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (fantasy.Team, bool, error) {
	query := `
SELECT ` + fantasyTeamColumns + `
FROM fantasy_teams
WHERE user_id = $1
  AND fixture_id = $2`

	var row fantasyTeamRow
	if err := r.db.GetContext(ctx, &row, query, userID, fixtureID); err != nil {
		if isNotFound(err) {
			return fantasy.Team{}, false, nil
		}
		return fantasy.Team{}, false, fmt.Errorf("get fantasy team: %w", err)
	}

	team, err := r.hydrate(ctx, row)
	if err != nil {
		return fantasy.Team{}, false, err
	}
	return team, true, nil
}

func (r *FantasyTeamRepository) GetByID(ctx context.Context, teamID string) (fantasy.Team, bool, error) {
	query := `
SELECT ` + fantasyTeamColumns + `
FROM fantasy_teams
WHERE id = $1`

	var row fantasyTeamRow
	if err := r.db.GetContext(ctx, &row, query, teamID); err != nil {
		if isNotFound(err) {
			return fantasy.Team{}, false, nil
		}
		return fantasy.Team{}, false, fmt.Errorf("get fantasy team: %w", err)
	}

	team, err := r.hydrate(ctx, row)
	if err != nil {
		return fantasy.Team{}, false, err
	}
	return team, true, nil
}

func (r *FantasyTeamRepository) ListByFixture(ctx context.Context, fixtureID string) ([]fantasy.Team, error) {
	query := `
SELECT ` + fantasyTeamColumns + `
FROM fantasy_teams
WHERE fixture_id = $1
ORDER BY id`

	var rows []fantasyTeamRow
	if err := r.db.SelectContext(ctx, &rows, query, fixtureID); err != nil {
		return nil, fmt.Errorf("list fantasy teams: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	const picksQuery = `
SELECT p.team_id, p.player_id, p.team_code, p.role, p.credits, p.is_captain, p.is_vice_captain
FROM fantasy_team_picks p
JOIN fantasy_teams t ON t.id = p.team_id
WHERE t.fixture_id = $1
ORDER BY p.id`

	var pickRows []teamPickRow
	if err := r.db.SelectContext(ctx, &pickRows, picksQuery, fixtureID); err != nil {
		return nil, fmt.Errorf("list fantasy team picks: %w", err)
	}

	picksByTeam := make(map[string][]fantasy.TeamPick, len(rows))
	for _, pick := range pickRows {
		picksByTeam[pick.TeamID] = append(picksByTeam[pick.TeamID], pick.toDomain())
	}

	out := make([]fantasy.Team, 0, len(rows))
	for _, row := range rows {
		team := row.toDomain()
		team.Picks = picksByTeam[row.ID]
		out = append(out, team)
	}
	return out, nil
}

func (row fantasyTeamRow) toDomain() fantasy.Team {
	return fantasy.Team{
		ID:           row.ID,
		UserID:       row.UserID,
		FixtureID:    row.FixtureID,
		Name:         row.Name,
		TotalCredits: row.TotalCredits,
		IsLocked:     row.IsLocked,
		Points:       row.Points,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func (r *FantasyTeamRepository) hydrate(ctx context.Context, row fantasyTeamRow) (fantasy.Team, error) {
	const picksQuery = `
SELECT team_id, player_id, team_code, role, credits, is_captain, is_vice_captain
FROM fantasy_team_picks
WHERE team_id = $1
ORDER BY id`

	var pickRows []teamPickRow
	if err := r.db.SelectContext(ctx, &pickRows, picksQuery, row.ID); err != nil {
		return fantasy.Team{}, fmt.Errorf("list fantasy team picks: %w", err)
	}

	team := row.toDomain()
	team.Picks = make([]fantasy.TeamPick, 0, len(pickRows))
	for _, pick := range pickRows {
		team.Picks = append(team.Picks, pick.toDomain())
	}
	return team, nil
}

// Upsert replaces the team row and its full pick list in one
// transaction. When the (user_id, fixture_id) row already exists under
// a different id the save lost a race and fantasy.ErrConcurrentUpdate
// is returned.
func (r *FantasyTeamRepository) Upsert(ctx context.Context, team fantasy.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for fantasy team upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const teamQuery = `
INSERT INTO fantasy_teams (id, user_id, fixture_id, name, total_credits, is_locked, points, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id, fixture_id)
DO UPDATE SET
    name = EXCLUDED.name,
    total_credits = EXCLUDED.total_credits,
    is_locked = EXCLUDED.is_locked,
    points = EXCLUDED.points,
    updated_at = EXCLUDED.updated_at
RETURNING id`

	var storedID string
	err = tx.QueryRowxContext(ctx, teamQuery,
		team.ID, team.UserID, team.FixtureID, team.Name, team.TotalCredits,
		team.IsLocked, team.Points, team.CreatedAt, team.UpdatedAt,
	).Scan(&storedID)
	if err != nil {
		return fmt.Errorf("upsert fantasy team: %w", err)
	}
	if storedID != team.ID {
		// The conflict target kept the winner's row, so this save lost
		// a race with another request for the same user and fixture.
		return fantasy.ErrConcurrentUpdate
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM fantasy_team_picks WHERE team_id = $1`, team.ID); err != nil {
		return fmt.Errorf("clear fantasy team picks: %w", err)
	}

	const pickQuery = `
INSERT INTO fantasy_team_picks (team_id, player_id, team_code, role, credits, is_captain, is_vice_captain)
VALUES (:team_id, :player_id, :team_code, :role, :credits, :is_captain, :is_vice_captain)`

	for _, pick := range team.Picks {
		pickArgs := map[string]any{
			"team_id":         team.ID,
			"player_id":       pick.PlayerID,
			"team_code":       pick.TeamCode,
			"role":            string(pick.Role),
			"credits":         pick.Credits,
			"is_captain":      pick.IsCaptain,
			"is_vice_captain": pick.IsViceCaptain,
		}
		if _, err := tx.NamedExecContext(ctx, pickQuery, pickArgs); err != nil {
			return fmt.Errorf("insert fantasy team pick player=%s: %w", pick.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fantasy team upsert tx: %w", err)
	}

	return nil
}
