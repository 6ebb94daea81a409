package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/crickarena/internal/domain/stats"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type performanceRow struct {
	PlayerID        string  `db:"player_id"`
	FixtureID       string  `db:"fixture_id"`
	Runs            int     `db:"runs"`
	Fours           int     `db:"fours"`
	Sixes           int     `db:"sixes"`
	BallsFaced      int     `db:"balls_faced"`
	IsOut           bool    `db:"is_out"`
	Wickets         int     `db:"wickets"`
	LBW             int     `db:"lbw"`
	Bowled          int     `db:"bowled"`
	Maidens         int     `db:"maidens"`
	Overs           float64 `db:"overs"`
	RunsConceded    int     `db:"runs_conceded"`
	Catches         int     `db:"catches"`
	Stumpings       int     `db:"stumpings"`
	RunOutsDirect   int     `db:"run_outs_direct"`
	RunOutsIndirect int     `db:"run_outs_indirect"`
}

func (row performanceRow) toDomain() stats.Performance {
	return stats.Performance{
		PlayerID:  row.PlayerID,
		FixtureID: row.FixtureID,
		Batting: stats.Batting{
			Runs:       row.Runs,
			Fours:      row.Fours,
			Sixes:      row.Sixes,
			BallsFaced: row.BallsFaced,
			IsOut:      row.IsOut,
		},
		Bowling: stats.Bowling{
			Wickets:      row.Wickets,
			LBW:          row.LBW,
			Bowled:       row.Bowled,
			Maidens:      row.Maidens,
			Overs:        row.Overs,
			RunsConceded: row.RunsConceded,
		},
		Fielding: stats.Fielding{
			Catches:         row.Catches,
			Stumpings:       row.Stumpings,
			RunOutsDirect:   row.RunOutsDirect,
			RunOutsIndirect: row.RunOutsIndirect,
		},
	}
}

func (r *StatsRepository) ListPerformancesByFixture(ctx context.Context, fixtureID string) ([]stats.Performance, error) {
	const query = `
SELECT player_id, fixture_id, runs, fours, sixes, balls_faced, is_out,
       wickets, lbw, bowled, maidens, overs, runs_conceded,
       catches, stumpings, run_outs_direct, run_outs_indirect
FROM player_performances
WHERE fixture_id = $1
ORDER BY player_id`

	var rows []performanceRow
	if err := r.db.SelectContext(ctx, &rows, query, fixtureID); err != nil {
		return nil, fmt.Errorf("list performances: %w", err)
	}

	out := make([]stats.Performance, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StatsRepository) UpsertPerformance(ctx context.Context, item stats.Performance) error {
	const query = `
INSERT INTO player_performances (player_id, fixture_id, runs, fours, sixes, balls_faced, is_out,
    wickets, lbw, bowled, maidens, overs, runs_conceded,
    catches, stumpings, run_outs_direct, run_outs_indirect)
VALUES (:player_id, :fixture_id, :runs, :fours, :sixes, :balls_faced, :is_out,
    :wickets, :lbw, :bowled, :maidens, :overs, :runs_conceded,
    :catches, :stumpings, :run_outs_direct, :run_outs_indirect)
ON CONFLICT (player_id, fixture_id)
DO UPDATE SET
    runs = EXCLUDED.runs,
    fours = EXCLUDED.fours,
    sixes = EXCLUDED.sixes,
    balls_faced = EXCLUDED.balls_faced,
    is_out = EXCLUDED.is_out,
    wickets = EXCLUDED.wickets,
    lbw = EXCLUDED.lbw,
    bowled = EXCLUDED.bowled,
    maidens = EXCLUDED.maidens,
    overs = EXCLUDED.overs,
    runs_conceded = EXCLUDED.runs_conceded,
    catches = EXCLUDED.catches,
    stumpings = EXCLUDED.stumpings,
    run_outs_direct = EXCLUDED.run_outs_direct,
    run_outs_indirect = EXCLUDED.run_outs_indirect`

	args := map[string]any{
		"player_id":         item.PlayerID,
		"fixture_id":        item.FixtureID,
		"runs":              item.Batting.Runs,
		"fours":             item.Batting.Fours,
		"sixes":             item.Batting.Sixes,
		"balls_faced":       item.Batting.BallsFaced,
		"is_out":            item.Batting.IsOut,
		"wickets":           item.Bowling.Wickets,
		"lbw":               item.Bowling.LBW,
		"bowled":            item.Bowling.Bowled,
		"maidens":           item.Bowling.Maidens,
		"overs":             item.Bowling.Overs,
		"runs_conceded":     item.Bowling.RunsConceded,
		"catches":           item.Fielding.Catches,
		"stumpings":         item.Fielding.Stumpings,
		"run_outs_direct":   item.Fielding.RunOutsDirect,
		"run_outs_indirect": item.Fielding.RunOutsIndirect,
	}
	if _, err := r.db.NamedExecContext(ctx, query, args); err != nil {
		return fmt.Errorf("upsert performance: %w", err)
	}

	return nil
}

type actualsRow struct {
	FixtureID      string `db:"fixture_id"`
	TotalScore     int    `db:"total_score"`
	PowerplayScore int    `db:"powerplay_score"`
	MostSixes      string `db:"most_sixes"`
	MostFours      string `db:"most_fours"`
	MostWickets    string `db:"most_wickets"`
	FiftiesCount   int    `db:"fifties_count"`
}

func (r *StatsRepository) GetActuals(ctx context.Context, fixtureID string) (stats.Actuals, bool, error) {
	const query = `
SELECT fixture_id, total_score, powerplay_score, most_sixes, most_fours, most_wickets, fifties_count
FROM fixture_actuals
WHERE fixture_id = $1`

	var row actualsRow
	if err := r.db.GetContext(ctx, &row, query, fixtureID); err != nil {
		if isNotFound(err) {
			return stats.Actuals{}, false, nil
		}
		return stats.Actuals{}, false, fmt.Errorf("get actuals: %w", err)
	}

	return stats.Actuals{
		FixtureID:      row.FixtureID,
		TotalScore:     row.TotalScore,
		PowerplayScore: row.PowerplayScore,
		MostSixes:      row.MostSixes,
		MostFours:      row.MostFours,
		MostWickets:    row.MostWickets,
		FiftiesCount:   row.FiftiesCount,
	}, true, nil
}

func (r *StatsRepository) UpsertActuals(ctx context.Context, item stats.Actuals) error {
	const query = `
INSERT INTO fixture_actuals (fixture_id, total_score, powerplay_score, most_sixes, most_fours, most_wickets, fifties_count)
VALUES (:fixture_id, :total_score, :powerplay_score, :most_sixes, :most_fours, :most_wickets, :fifties_count)
ON CONFLICT (fixture_id)
DO UPDATE SET
    total_score = EXCLUDED.total_score,
    powerplay_score = EXCLUDED.powerplay_score,
    most_sixes = EXCLUDED.most_sixes,
    most_fours = EXCLUDED.most_fours,
    most_wickets = EXCLUDED.most_wickets,
    fifties_count = EXCLUDED.fifties_count`

	args := map[string]any{
		"fixture_id":      item.FixtureID,
		"total_score":     item.TotalScore,
		"powerplay_score": item.PowerplayScore,
		"most_sixes":      item.MostSixes,
		"most_fours":      item.MostFours,
		"most_wickets":    item.MostWickets,
		"fifties_count":   item.FiftiesCount,
	}
	if _, err := r.db.NamedExecContext(ctx, query, args); err != nil {
		return fmt.Errorf("upsert actuals: %w", err)
	}

	return nil
}
