package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/crickarena/crickarena/internal/domain/autoteam"
	"github.com/crickarena/crickarena/internal/usecase"
)

func (h *Handler) JoinQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinQueue")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user id is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := r.PathValue("fixtureID")
	status, err := h.matchmakingService.JoinQueue(ctx, userID, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "join queue failed", "user_id", userID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, queueStatusToDTO(status))
}

func (h *Handler) LeaveQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveQueue")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user id is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := r.PathValue("fixtureID")
	if err := h.matchmakingService.LeaveQueue(ctx, userID, fixtureID); err != nil {
		h.logger.WarnContext(ctx, "leave queue failed", "user_id", userID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"state": string(usecase.QueueStateNotJoined)})
}

func (h *Handler) GetQueueStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetQueueStatus")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user id is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := r.PathValue("fixtureID")
	status, err := h.matchmakingService.QueueStatusFor(ctx, userID, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "queue status failed", "user_id", userID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, queueStatusToDTO(status))
}

func (h *Handler) GetMatchedTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchedTeam")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user id is missing from request context", usecase.ErrUnauthorized))
		return
	}

	fixtureID := r.PathValue("fixtureID")
	team, err := h.matchmakingService.MatchedTeamFor(ctx, userID, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get matched team failed", "user_id", userID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, autoTeamToDTO(team))
}

type queueStatusDTO struct {
	State        string       `json:"state"`
	Position     int          `json:"position,omitempty"`
	TotalWaiting int          `json:"totalWaiting,omitempty"`
	NeedMore     int          `json:"needMore,omitempty"`
	Team         *autoTeamDTO `json:"team,omitempty"`
}

type autoTeamDTO struct {
	ID           string              `json:"id"`
	FixtureID    string              `json:"fixtureId"`
	Name         string              `json:"name"`
	Members      []autoTeamMemberDTO `json:"members"`
	TotalPoints  int                 `json:"totalPoints"`
	Rank         int                 `json:"rank,omitempty"`
	Status       string              `json:"status"`
	CreatedAtUTC string              `json:"createdAtUtc"`
}

type autoTeamMemberDTO struct {
	UserID        string `json:"userId"`
	FantasyTeamID string `json:"fantasyTeamId"`
	Points        int    `json:"points"`
}

func queueStatusToDTO(v usecase.QueueStatus) queueStatusDTO {
	dto := queueStatusDTO{
		State:        string(v.State),
		Position:     v.Position,
		TotalWaiting: v.TotalWaiting,
		NeedMore:     v.NeedMore,
	}
	if v.Team != nil {
		team := autoTeamToDTO(*v.Team)
		dto.Team = &team
	}
	return dto
}

func autoTeamToDTO(v autoteam.Team) autoTeamDTO {
	members := make([]autoTeamMemberDTO, 0, len(v.Members))
	for _, m := range v.Members {
		members = append(members, autoTeamMemberDTO{
			UserID:        m.UserID,
			FantasyTeamID: m.FantasyTeamID,
			Points:        m.Points,
		})
	}

	return autoTeamDTO{
		ID:           v.ID,
		FixtureID:    v.FixtureID,
		Name:         v.Name,
		Members:      members,
		TotalPoints:  v.TotalPoints,
		Rank:         v.Rank,
		Status:       string(v.Status),
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
