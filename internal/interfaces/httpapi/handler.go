package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/player"
	"github.com/crickarena/crickarena/internal/platform/logging"
	"github.com/crickarena/crickarena/internal/usecase"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	catalogService     *usecase.CatalogService
	teamService        *usecase.TeamService
	matchmakingService *usecase.MatchmakingService
	predictionService  *usecase.PredictionService
	scoringService     *usecase.ScoringService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	teamService *usecase.TeamService,
	matchmakingService *usecase.MatchmakingService,
	predictionService *usecase.PredictionService,
	scoringService *usecase.ScoringService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:     catalogService,
		teamService:        teamService,
		matchmakingService: matchmakingService,
		predictionService:  predictionService,
		scoringService:     scoringService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.catalogService.ListPlayers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	fixtures, err := h.catalogService.ListFixtures(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	fx, err := h.catalogService.GetFixture(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(fx))
}

func (h *Handler) decodeRequest(ctx context.Context, body io.Reader, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, target)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type playerDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	TeamCode string  `json:"teamCode"`
	Role     string  `json:"role"`
	Credits  float64 `json:"credits"`
}

type fixtureDTO struct {
	ID            string `json:"id"`
	HomeTeam      string `json:"homeTeam"`
	AwayTeam      string `json:"awayTeam"`
	Venue         string `json:"venue"`
	StartsAt      string `json:"startsAt"`
	LockAt        string `json:"lockAt"`
	SelectionOpen bool   `json:"selectionOpen"`
	Status        string `json:"status"`
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:       v.ID,
		Name:     v.Name,
		TeamCode: v.TeamCode,
		Role:     string(v.Role),
		Credits:  float64(v.Credits) / 10.0,
	}
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:            v.ID,
		HomeTeam:      v.HomeTeam,
		AwayTeam:      v.AwayTeam,
		Venue:         v.Venue,
		StartsAt:      v.StartsAt.UTC().Format(time.RFC3339),
		LockAt:        v.LockAt.UTC().Format(time.RFC3339),
		SelectionOpen: v.SelectionOpen,
		Status:        string(v.Status),
	}
}
