package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/crickarena/internal/domain/prediction"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

type predictionRow struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	FixtureID      string    `db:"fixture_id"`
	TotalScore     int       `db:"total_score"`
	PowerplayScore int       `db:"powerplay_score"`
	MostSixes      string    `db:"most_sixes"`
	MostFours      string    `db:"most_fours"`
	MostWickets    string    `db:"most_wickets"`
	FiftiesCount   int       `db:"fifties_count"`
	Points         int       `db:"points"`
	IsLocked       bool      `db:"is_locked"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (row predictionRow) toDomain() prediction.Slip {
	return prediction.Slip{
		ID:        row.ID,
		UserID:    row.UserID,
		FixtureID: row.FixtureID,
		Answers: prediction.Answers{
			TotalScore:     row.TotalScore,
			PowerplayScore: row.PowerplayScore,
			MostSixes:      row.MostSixes,
			MostFours:      row.MostFours,
			MostWickets:    row.MostWickets,
			FiftiesCount:   row.FiftiesCount,
		},
		Points:    row.Points,
		IsLocked:  row.IsLocked,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

const predictionColumns = `id, user_id, fixture_id, total_score, powerplay_score, most_sixes, most_fours, most_wickets, fifties_count, points, is_locked, created_at, updated_at`

func (r *PredictionRepository) GetByUserAndFixture(ctx context.Context, userID, fixtureID string) (prediction.Slip, bool, error) {
	query := `
SELECT ` + predictionColumns + `
FROM predictions
WHERE user_id = $1
  AND fixture_id = $2`

	var row predictionRow
	if err := r.db.GetContext(ctx, &row, query, userID, fixtureID); err != nil {
		if isNotFound(err) {
			return prediction.Slip{}, false, nil
		}
		return prediction.Slip{}, false, fmt.Errorf("get prediction: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PredictionRepository) ListByFixture(ctx context.Context, fixtureID string) ([]prediction.Slip, error) {
	query := `
SELECT ` + predictionColumns + `
FROM predictions
WHERE fixture_id = $1
ORDER BY id`

	var rows []predictionRow
	if err := r.db.SelectContext(ctx, &rows, query, fixtureID); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Slip, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PredictionRepository) Upsert(ctx context.Context, slip prediction.Slip) error {
	const query = `
INSERT INTO predictions (id, user_id, fixture_id, total_score, powerplay_score, most_sixes, most_fours, most_wickets, fifties_count, points, is_locked, created_at, updated_at)
VALUES (:id, :user_id, :fixture_id, :total_score, :powerplay_score, :most_sixes, :most_fours, :most_wickets, :fifties_count, :points, :is_locked, :created_at, :updated_at)
ON CONFLICT (user_id, fixture_id)
DO UPDATE SET
    total_score = EXCLUDED.total_score,
    powerplay_score = EXCLUDED.powerplay_score,
    most_sixes = EXCLUDED.most_sixes,
    most_fours = EXCLUDED.most_fours,
    most_wickets = EXCLUDED.most_wickets,
    fifties_count = EXCLUDED.fifties_count,
    points = EXCLUDED.points,
    is_locked = EXCLUDED.is_locked,
    updated_at = EXCLUDED.updated_at`

	args := map[string]any{
		"id":              slip.ID,
		"user_id":         slip.UserID,
		"fixture_id":      slip.FixtureID,
		"total_score":     slip.Answers.TotalScore,
		"powerplay_score": slip.Answers.PowerplayScore,
		"most_sixes":      slip.Answers.MostSixes,
		"most_fours":      slip.Answers.MostFours,
		"most_wickets":    slip.Answers.MostWickets,
		"fifties_count":   slip.Answers.FiftiesCount,
		"points":          slip.Points,
		"is_locked":       slip.IsLocked,
		"created_at":      slip.CreatedAt,
		"updated_at":      slip.UpdatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, args); err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}

	return nil
}
