package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crickarena/crickarena/internal/domain/prediction"
	"github.com/crickarena/crickarena/internal/infrastructure/repository/memory"
	"github.com/crickarena/crickarena/internal/platform/logging"
)

type predictionHarness struct {
	svc         *PredictionService
	fixtures    *memory.FixtureRepository
	predictions *memory.PredictionRepository
}

func newPredictionHarness(t *testing.T) *predictionHarness {
	t.Helper()

	now := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	fixtures := memory.NewFixtureRepository(memory.SeedFixtures())
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	predictionRepo := memory.NewPredictionRepository()

	svc := NewPredictionService(fixtures, players, predictionRepo, &seqIDGen{}, logging.NewNop())
	svc.now = func() time.Time { return now }

	return &predictionHarness{svc: svc, fixtures: fixtures, predictions: predictionRepo}
}

func sampleAnswers() prediction.Answers {
	return prediction.Answers{
		TotalScore:     176,
		PowerplayScore: 48,
		MostSixes:      "ind-bat-04",
		MostFours:      "aus-bat-01",
		MostWickets:    "ind-bwl-01",
		FiftiesCount:   2,
	}
}

func TestSubmitPrediction(t *testing.T) {
	h := newPredictionHarness(t)

	slip, err := h.svc.Submit(context.Background(), "user-1", memory.FixtureIDIndAus, sampleAnswers())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if slip.ID == "" || slip.Answers.TotalScore != 176 {
		t.Fatalf("slip = %+v, want id and answers stored", slip)
	}

	updated := sampleAnswers()
	updated.TotalScore = 190
	again, err := h.svc.Submit(context.Background(), "user-1", memory.FixtureIDIndAus, updated)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if again.ID != slip.ID {
		t.Fatalf("resubmit created new id %s, want %s", again.ID, slip.ID)
	}
	if again.Answers.TotalScore != 190 {
		t.Fatalf("resubmit total score = %d, want 190", again.Answers.TotalScore)
	}
}

func TestSubmitPredictionRejectsUnknownPlayer(t *testing.T) {
	h := newPredictionHarness(t)

	answers := sampleAnswers()
	answers.MostWickets = "ind-bwl-99"
	_, err := h.svc.Submit(context.Background(), "user-1", memory.FixtureIDIndAus, answers)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitPredictionRejectsNegativeScore(t *testing.T) {
	h := newPredictionHarness(t)

	answers := sampleAnswers()
	answers.PowerplayScore = -1
	_, err := h.svc.Submit(context.Background(), "user-1", memory.FixtureIDIndAus, answers)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSubmitPredictionRejectsClosedSelection(t *testing.T) {
	h := newPredictionHarness(t)

	fx, _, err := h.fixtures.GetByID(context.Background(), memory.FixtureIDIndAus)
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	fx.SelectionOpen = false
	if err := h.fixtures.Upsert(context.Background(), fx); err != nil {
		t.Fatalf("close selection: %v", err)
	}

	_, err = h.svc.Submit(context.Background(), "user-1", memory.FixtureIDIndAus, sampleAnswers())
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}
}

func TestSubmitPredictionRejectsLockedSlip(t *testing.T) {
	h := newPredictionHarness(t)

	slip, err := h.svc.Submit(context.Background(), "user-1", memory.FixtureIDIndAus, sampleAnswers())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	slip.IsLocked = true
	if err := h.predictions.Upsert(context.Background(), slip); err != nil {
		t.Fatalf("lock slip: %v", err)
	}

	_, err = h.svc.Submit(context.Background(), "user-1", memory.FixtureIDIndAus, sampleAnswers())
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}
}

func TestGetPrediction(t *testing.T) {
	h := newPredictionHarness(t)

	if _, err := h.svc.Get(context.Background(), "user-1", memory.FixtureIDIndAus); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get before submit err = %v, want ErrNotFound", err)
	}

	saved, err := h.svc.Submit(context.Background(), "user-1", memory.FixtureIDIndAus, sampleAnswers())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := h.svc.Get(context.Background(), "user-1", memory.FixtureIDIndAus)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != saved.ID {
		t.Fatalf("got id = %s, want %s", got.ID, saved.ID)
	}
}
