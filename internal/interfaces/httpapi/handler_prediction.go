package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/crickarena/crickarena/internal/domain/prediction"
	"github.com/crickarena/crickarena/internal/usecase"
)

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user id is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := r.PathValue("fixtureID")
	var req predictionRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	slip, err := h.predictionService.Submit(ctx, userID, fixtureID, prediction.Answers{
		TotalScore:     req.TotalScore,
		PowerplayScore: req.PowerplayScore,
		MostSixes:      req.MostSixes,
		MostFours:      req.MostFours,
		MostWickets:    req.MostWickets,
		FiftiesCount:   req.FiftiesCount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed", "user_id", userID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(slip))
}

func (h *Handler) GetMyPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPrediction")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user id is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := r.PathValue("fixtureID")
	slip, err := h.predictionService.Get(ctx, userID, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get prediction failed", "user_id", userID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(slip))
}

type predictionRequest struct {
	TotalScore     int    `json:"totalScore" validate:"min=0"`
	PowerplayScore int    `json:"powerplayScore" validate:"min=0"`
	MostSixes      string `json:"mostSixes" validate:"required"`
	MostFours      string `json:"mostFours" validate:"required"`
	MostWickets    string `json:"mostWickets" validate:"required"`
	FiftiesCount   int    `json:"fiftiesCount" validate:"min=0"`
}

type predictionDTO struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	FixtureID      string `json:"fixtureId"`
	TotalScore     int    `json:"totalScore"`
	PowerplayScore int    `json:"powerplayScore"`
	MostSixes      string `json:"mostSixes"`
	MostFours      string `json:"mostFours"`
	MostWickets    string `json:"mostWickets"`
	FiftiesCount   int    `json:"fiftiesCount"`
	Points         int    `json:"points"`
	IsLocked       bool   `json:"isLocked"`
	CreatedAtUTC   string `json:"createdAtUtc"`
	UpdatedAtUTC   string `json:"updatedAtUtc"`
}

func predictionToDTO(v prediction.Slip) predictionDTO {
	return predictionDTO{
		ID:             v.ID,
		UserID:         v.UserID,
		FixtureID:      v.FixtureID,
		TotalScore:     v.Answers.TotalScore,
		PowerplayScore: v.Answers.PowerplayScore,
		MostSixes:      v.Answers.MostSixes,
		MostFours:      v.Answers.MostFours,
		MostWickets:    v.Answers.MostWickets,
		FiftiesCount:   v.Answers.FiftiesCount,
		Points:         v.Points,
		IsLocked:       v.IsLocked,
		CreatedAtUTC:   v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
