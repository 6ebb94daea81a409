package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/crickarena/internal/domain/autoteam"
)

type AutoTeamRepository struct {
	db *sqlx.DB
}

func NewAutoTeamRepository(db *sqlx.DB) *AutoTeamRepository {
	return &AutoTeamRepository{db: db}
}

type autoTeamRow struct {
	ID          string    `db:"id"`
	FixtureID   string    `db:"fixture_id"`
	Name        string    `db:"name"`
	TotalPoints int       `db:"total_points"`
	Rank        int       `db:"team_rank"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

type autoTeamMemberRow struct {
	TeamID        string `db:"team_id"`
	UserID        string `db:"user_id"`
	FantasyTeamID string `db:"fantasy_team_id"`
	Points        int    `db:"points"`
}

func (row autoTeamRow) toDomain() autoteam.Team {
	return autoteam.Team{
		ID:          row.ID,
		FixtureID:   row.FixtureID,
		Name:        row.Name,
		TotalPoints: row.TotalPoints,
		Rank:        row.Rank,
		Status:      autoteam.Status(row.Status),
		CreatedAt:   row.CreatedAt,
	}
}

// Form creates the team, its member seats and flips the consumed queue
// entries to matched inside one transaction. The UPDATE asserts each
// entry is still waiting, so a racing mutation aborts the whole batch.
func (r *AutoTeamRepository) Form(ctx context.Context, team autoteam.Team, entryIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team formation: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const teamQuery = `
INSERT INTO auto_teams (id, fixture_id, name, total_points, team_rank, status, created_at)
VALUES (:id, :fixture_id, :name, :total_points, :team_rank, :status, :created_at)`

	teamArgs := map[string]any{
		"id":           team.ID,
		"fixture_id":   team.FixtureID,
		"name":         team.Name,
		"total_points": team.TotalPoints,
		"team_rank":    team.Rank,
		"status":       string(team.Status),
		"created_at":   team.CreatedAt,
	}
	if _, err := tx.NamedExecContext(ctx, teamQuery, teamArgs); err != nil {
		return fmt.Errorf("insert auto-matched team: %w", err)
	}

	const memberQuery = `
INSERT INTO auto_team_members (team_id, user_id, fantasy_team_id, points)
VALUES (:team_id, :user_id, :fantasy_team_id, :points)`

	for _, member := range team.Members {
		memberArgs := map[string]any{
			"team_id":         team.ID,
			"user_id":         member.UserID,
			"fantasy_team_id": member.FantasyTeamID,
			"points":          member.Points,
		}
		if _, err := tx.NamedExecContext(ctx, memberQuery, memberArgs); err != nil {
			return fmt.Errorf("insert team member user=%s: %w", member.UserID, err)
		}
	}

	markQuery, markArgs, err := sqlx.In(`
UPDATE queue_entries
SET status = 'matched', assigned_team_id = ?
WHERE id IN (?)
  AND status = 'waiting'`, team.ID, entryIDs)
	if err != nil {
		return fmt.Errorf("bind mark matched query: %w", err)
	}
	markQuery = tx.Rebind(markQuery)

	res, err := tx.ExecContext(ctx, markQuery, markArgs...)
	if err != nil {
		return fmt.Errorf("mark queue entries matched: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark queue entries rows affected: %w", err)
	}
	if affected != int64(len(entryIDs)) {
		return fmt.Errorf("marked %d of %d queue entries, aborting formation", affected, len(entryIDs))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team formation tx: %w", err)
	}

	return nil
}

const autoTeamColumns = `id, fixture_id, name, total_points, team_rank, status, created_at`

func (r *AutoTeamRepository) GetByID(ctx context.Context, teamID string) (autoteam.Team, bool, error) {
	query := `
SELECT ` + autoTeamColumns + `
FROM auto_teams
WHERE id = $1`

	var row autoTeamRow
	if err := r.db.GetContext(ctx, &row, query, teamID); err != nil {
		if isNotFound(err) {
			return autoteam.Team{}, false, nil
		}
		return autoteam.Team{}, false, fmt.Errorf("get auto-matched team: %w", err)
	}

	team, err := r.hydrateMembers(ctx, row)
	if err != nil {
		return autoteam.Team{}, false, err
	}
	return team, true, nil
}

func (r *AutoTeamRepository) GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (autoteam.Team, bool, error) {
	query := `
SELECT t.id, t.fixture_id, t.name, t.total_points, t.team_rank, t.status, t.created_at
FROM auto_teams t
JOIN auto_team_members m ON m.team_id = t.id
WHERE m.user_id = $1
  AND t.fixture_id = $2`

	var row autoTeamRow
	if err := r.db.GetContext(ctx, &row, query, userID, fixtureID); err != nil {
		if isNotFound(err) {
			return autoteam.Team{}, false, nil
		}
		return autoteam.Team{}, false, fmt.Errorf("get auto-matched team: %w", err)
	}

	team, err := r.hydrateMembers(ctx, row)
	if err != nil {
		return autoteam.Team{}, false, err
	}
	return team, true, nil
}

func (r *AutoTeamRepository) ListByFixture(ctx context.Context, fixtureID string) ([]autoteam.Team, error) {
	query := `
SELECT ` + autoTeamColumns + `
FROM auto_teams
WHERE fixture_id = $1
ORDER BY id`

	var rows []autoTeamRow
	if err := r.db.SelectContext(ctx, &rows, query, fixtureID); err != nil {
		return nil, fmt.Errorf("list auto-matched teams: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	const membersQuery = `
SELECT m.team_id, m.user_id, m.fantasy_team_id, m.points
FROM auto_team_members m
JOIN auto_teams t ON t.id = m.team_id
WHERE t.fixture_id = $1
ORDER BY m.id`

	var memberRows []autoTeamMemberRow
	if err := r.db.SelectContext(ctx, &memberRows, membersQuery, fixtureID); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	membersByTeam := make(map[string][]autoteam.Member, len(rows))
	for _, m := range memberRows {
		membersByTeam[m.TeamID] = append(membersByTeam[m.TeamID], autoteam.Member{
			UserID:        m.UserID,
			FantasyTeamID: m.FantasyTeamID,
			Points:        m.Points,
		})
	}

	out := make([]autoteam.Team, 0, len(rows))
	for _, row := range rows {
		team := row.toDomain()
		team.Members = membersByTeam[row.ID]
		out = append(out, team)
	}
	return out, nil
}

func (r *AutoTeamRepository) UpdateScore(ctx context.Context, team autoteam.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team score update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const teamQuery = `
UPDATE auto_teams
SET total_points = $1, team_rank = $2, status = $3
WHERE id = $4`

	res, err := tx.ExecContext(ctx, teamQuery, team.TotalPoints, team.Rank, string(team.Status), team.ID)
	if err != nil {
		return fmt.Errorf("update team score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update team score rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("auto-matched team %s not found", team.ID)
	}

	const memberQuery = `
UPDATE auto_team_members
SET points = $1
WHERE team_id = $2
  AND user_id = $3`

	for _, member := range team.Members {
		if _, err := tx.ExecContext(ctx, memberQuery, member.Points, team.ID, member.UserID); err != nil {
			return fmt.Errorf("update member points user=%s: %w", member.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team score update tx: %w", err)
	}

	return nil
}

func (r *AutoTeamRepository) hydrateMembers(ctx context.Context, row autoTeamRow) (autoteam.Team, error) {
	const query = `
SELECT team_id, user_id, fantasy_team_id, points
FROM auto_team_members
WHERE team_id = $1
ORDER BY id`

	var memberRows []autoTeamMemberRow
	if err := r.db.SelectContext(ctx, &memberRows, query, row.ID); err != nil {
		return autoteam.Team{}, fmt.Errorf("list team members: %w", err)
	}

	team := row.toDomain()
	team.Members = make([]autoteam.Member, 0, len(memberRows))
	for _, m := range memberRows {
		team.Members = append(team.Members, autoteam.Member{
			UserID:        m.UserID,
			FantasyTeamID: m.FantasyTeamID,
			Points:        m.Points,
		})
	}
	return team, nil
}
