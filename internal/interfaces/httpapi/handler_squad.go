package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/crickarena/crickarena/internal/domain/fantasy"
	"github.com/crickarena/crickarena/internal/usecase"
)

func (h *Handler) SaveSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveSquad")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user id is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := r.PathValue("fixtureID")
	var req squadRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.teamService.SaveTeam(ctx, userID, fixtureID, usecase.SquadInput{
		Name:          req.Name,
		PlayerIDs:     req.PlayerIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save squad failed", "user_id", userID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fantasyTeamToDTO(team))
}

func (h *Handler) ValidateSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateSquad")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	var req squadRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.teamService.ValidateSquad(ctx, fixtureID, usecase.SquadInput{
		Name:          req.Name,
		PlayerIDs:     req.PlayerIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "validate squad failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	roleCounts := make(map[string]int, len(result.RoleCounts))
	for role, count := range result.RoleCounts {
		roleCounts[string(role)] = count
	}

	writeSuccess(ctx, w, http.StatusOK, squadValidationDTO{
		Valid:        true,
		TotalCredits: float64(result.TotalCredits) / 10.0,
		CreditsLeft:  float64(result.CreditsLeft) / 10.0,
		RoleCounts:   roleCounts,
	})
}

func (h *Handler) GetMySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySquad")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user id is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := r.PathValue("fixtureID")
	team, err := h.teamService.GetTeam(ctx, userID, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "user_id", userID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fantasyTeamToDTO(team))
}

type squadRequest struct {
	Name          string   `json:"name" validate:"max=100"`
	PlayerIDs     []string `json:"playerIds" validate:"required,min=1,dive,required"`
	CaptainID     string   `json:"captainId" validate:"required"`
	ViceCaptainID string   `json:"viceCaptainId" validate:"required"`
}

type squadValidationDTO struct {
	Valid        bool           `json:"valid"`
	TotalCredits float64        `json:"totalCredits"`
	CreditsLeft  float64        `json:"creditsLeft"`
	RoleCounts   map[string]int `json:"roleCounts"`
}

type fantasyTeamDTO struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	FixtureID    string        `json:"fixtureId"`
	Name         string        `json:"name"`
	Picks        []teamPickDTO `json:"picks"`
	TotalCredits float64       `json:"totalCredits"`
	IsLocked     bool          `json:"isLocked"`
	Points       int           `json:"points"`
	CreatedAtUTC string        `json:"createdAtUtc"`
	UpdatedAtUTC string        `json:"updatedAtUtc"`
}

type teamPickDTO struct {
	PlayerID      string  `json:"playerId"`
	TeamCode      string  `json:"teamCode"`
	Role          string  `json:"role"`
	Credits       float64 `json:"credits"`
	IsCaptain     bool    `json:"isCaptain"`
	IsViceCaptain bool    `json:"isViceCaptain"`
}

func fantasyTeamToDTO(v fantasy.Team) fantasyTeamDTO {
	picks := make([]teamPickDTO, 0, len(v.Picks))
	for _, pick := range v.Picks {
		picks = append(picks, teamPickDTO{
			PlayerID:      pick.PlayerID,
			TeamCode:      pick.TeamCode,
			Role:          string(pick.Role),
			Credits:       float64(pick.Credits) / 10.0,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		})
	}

	return fantasyTeamDTO{
		ID:           v.ID,
		UserID:       v.UserID,
		FixtureID:    v.FixtureID,
		Name:         v.Name,
		Picks:        picks,
		TotalCredits: float64(v.TotalCredits) / 10.0,
		IsLocked:     v.IsLocked,
		Points:       v.Points,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
