package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/player"
	"github.com/crickarena/crickarena/internal/domain/prediction"
	idgen "github.com/crickarena/crickarena/internal/platform/id"
	"github.com/crickarena/crickarena/internal/platform/logging"
)

// PredictionService stores users' match predictions until the fixture
// locks and scoring takes over.
type PredictionService struct {
	fixtureRepo    fixture.Repository
	playerRepo     player.Repository
	predictionRepo prediction.Repository
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	fixtureRepo fixture.Repository,
	playerRepo player.Repository,
	predictionRepo prediction.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictionService{
		fixtureRepo:    fixtureRepo,
		playerRepo:     playerRepo,
		predictionRepo: predictionRepo,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit upserts the user's prediction slip for a fixture. One slip per
// user per fixture; resubmitting replaces the answers until the fixture
// locks or the slip is scored.
func (s *PredictionService) Submit(ctx context.Context, userID, fixtureID string, answers prediction.Answers) (prediction.Slip, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	userID = strings.TrimSpace(userID)
	fixtureID = strings.TrimSpace(fixtureID)
	if userID == "" || fixtureID == "" {
		return prediction.Slip{}, fmt.Errorf("%w: user_id and fixture_id are required", ErrInvalidInput)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return prediction.Slip{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return prediction.Slip{}, fmt.Errorf("%w: fixture %s", ErrNotFound, fixtureID)
	}
	now := s.now().UTC()
	if !fx.SelectionOpen || fx.LockedAt(now) {
		return prediction.Slip{}, fmt.Errorf("%w: predictions are closed for fixture %s", ErrPreconditionFailed, fixtureID)
	}

	if err := answers.Validate(); err != nil {
		return prediction.Slip{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.checkNamedPlayers(ctx, answers); err != nil {
		return prediction.Slip{}, err
	}

	existing, exists, err := s.predictionRepo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return prediction.Slip{}, fmt.Errorf("get prediction: %w", err)
	}
	if exists && existing.IsLocked {
		return prediction.Slip{}, fmt.Errorf("%w: prediction is locked for fixture %s", ErrPreconditionFailed, fixtureID)
	}

	slip := prediction.Slip{
		UserID:    userID,
		FixtureID: fixtureID,
		Answers:   answers,
		UpdatedAt: now,
	}
	if exists {
		slip.ID = existing.ID
		slip.CreatedAt = existing.CreatedAt
	} else {
		slipID, err := s.idGen.NewID()
		if err != nil {
			return prediction.Slip{}, fmt.Errorf("generate prediction id: %w", err)
		}
		slip.ID = slipID
		slip.CreatedAt = now
	}

	if err := slip.ValidateBasic(); err != nil {
		return prediction.Slip{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.predictionRepo.Upsert(ctx, slip); err != nil {
		return prediction.Slip{}, fmt.Errorf("upsert prediction: %w", err)
	}

	s.logger.InfoContext(ctx, "prediction submitted",
		"user_id", userID,
		"fixture_id", fixtureID,
		"prediction_id", slip.ID,
	)

	return slip, nil
}

// Get returns the user's slip for a fixture.
func (s *PredictionService) Get(ctx context.Context, userID, fixtureID string) (prediction.Slip, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Get")
	defer span.End()

	slip, exists, err := s.predictionRepo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return prediction.Slip{}, fmt.Errorf("get prediction: %w", err)
	}
	if !exists {
		return prediction.Slip{}, fmt.Errorf("%w: no prediction for user %s in fixture %s", ErrNotFound, userID, fixtureID)
	}

	return slip, nil
}

func (s *PredictionService) checkNamedPlayers(ctx context.Context, answers prediction.Answers) error {
	ids := answers.PlayerIDs()
	if len(ids) == 0 {
		return nil
	}

	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("get players: %w", err)
	}
	found := make(map[string]struct{}, len(players))
	for _, p := range players {
		found[p.ID] = struct{}{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: unknown player ids: %s", ErrNotFound, strings.Join(missing, ", "))
	}

	return nil
}
