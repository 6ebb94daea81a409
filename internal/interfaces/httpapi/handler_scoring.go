package httpapi

import (
	"net/http"

	"github.com/crickarena/crickarena/internal/domain/stats"
	"github.com/crickarena/crickarena/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	rows, err := h.scoringService.Leaderboard(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leaderboardRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RecordPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordPerformance")
	defer span.End()

	var req performanceRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item := stats.Performance{
		PlayerID:  req.PlayerID,
		FixtureID: req.FixtureID,
		Batting: stats.Batting{
			Runs:       req.Batting.Runs,
			Fours:      req.Batting.Fours,
			Sixes:      req.Batting.Sixes,
			BallsFaced: req.Batting.BallsFaced,
			IsOut:      req.Batting.IsOut,
		},
		Bowling: stats.Bowling{
			Wickets:      req.Bowling.Wickets,
			LBW:          req.Bowling.LBW,
			Bowled:       req.Bowling.Bowled,
			Maidens:      req.Bowling.Maidens,
			Overs:        req.Bowling.Overs,
			RunsConceded: req.Bowling.RunsConceded,
		},
		Fielding: stats.Fielding{
			Catches:         req.Fielding.Catches,
			Stumpings:       req.Fielding.Stumpings,
			RunOutsDirect:   req.Fielding.RunOutsDirect,
			RunOutsIndirect: req.Fielding.RunOutsIndirect,
		},
	}
	if err := h.scoringService.RecordPerformance(ctx, item); err != nil {
		h.logger.WarnContext(ctx, "record performance failed", "player_id", req.PlayerID, "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (h *Handler) RecordActuals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordActuals")
	defer span.End()

	var req actualsRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item := stats.Actuals{
		FixtureID:      req.FixtureID,
		TotalScore:     req.TotalScore,
		PowerplayScore: req.PowerplayScore,
		MostSixes:      req.MostSixes,
		MostFours:      req.MostFours,
		MostWickets:    req.MostWickets,
		FiftiesCount:   req.FiftiesCount,
	}
	if err := h.scoringService.RecordActuals(ctx, item); err != nil {
		h.logger.WarnContext(ctx, "record actuals failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (h *Handler) RunScoring(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoring")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	summary, err := h.scoringService.Run(ctx, fixtureID)
	if err != nil {
		h.logger.ErrorContext(ctx, "scoring run failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runSummaryToDTO(summary))
}

func (h *Handler) CloseSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseSelection")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	result, err := h.matchmakingService.CloseSelection(ctx, fixtureID)
	if err != nil {
		h.logger.ErrorContext(ctx, "close selection failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sweepResultToDTO(result))
}

func (h *Handler) RunEndgameSweep(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunEndgameSweep")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	result, err := h.matchmakingService.EndgameSweep(ctx, fixtureID)
	if err != nil {
		h.logger.ErrorContext(ctx, "endgame sweep failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sweepResultToDTO(result))
}

type performanceRequest struct {
	PlayerID  string `json:"playerId" validate:"required"`
	FixtureID string `json:"fixtureId" validate:"required"`
	Batting   struct {
		Runs       int  `json:"runs"`
		Fours      int  `json:"fours"`
		Sixes      int  `json:"sixes"`
		BallsFaced int  `json:"ballsFaced"`
		IsOut      bool `json:"isOut"`
	} `json:"batting"`
	Bowling struct {
		Wickets      int     `json:"wickets"`
		LBW          int     `json:"lbw"`
		Bowled       int     `json:"bowled"`
		Maidens      int     `json:"maidens"`
		Overs        float64 `json:"overs"`
		RunsConceded int     `json:"runsConceded"`
	} `json:"bowling"`
	Fielding struct {
		Catches         int `json:"catches"`
		Stumpings       int `json:"stumpings"`
		RunOutsDirect   int `json:"runOutsDirect"`
		RunOutsIndirect int `json:"runOutsIndirect"`
	} `json:"fielding"`
}

type actualsRequest struct {
	FixtureID      string `json:"fixtureId" validate:"required"`
	TotalScore     int    `json:"totalScore" validate:"min=0"`
	PowerplayScore int    `json:"powerplayScore" validate:"min=0"`
	MostSixes      string `json:"mostSixes" validate:"required"`
	MostFours      string `json:"mostFours" validate:"required"`
	MostWickets    string `json:"mostWickets" validate:"required"`
	FiftiesCount   int    `json:"fiftiesCount" validate:"min=0"`
}

type leaderboardRowDTO struct {
	Rank        int                 `json:"rank"`
	TeamID      string              `json:"teamId"`
	TeamName    string              `json:"teamName"`
	TotalPoints int                 `json:"totalPoints"`
	Members     []autoTeamMemberDTO `json:"members"`
}

type runSummaryDTO struct {
	FixtureID         string          `json:"fixtureId"`
	PlayersScored     int             `json:"playersScored"`
	TeamsScored       int             `json:"teamsScored"`
	AutoTeamsScored   int             `json:"autoTeamsScored"`
	PredictionsScored int             `json:"predictionsScored"`
	Failures          []runFailureDTO `json:"failures,omitempty"`
	Deduplicated      bool            `json:"deduplicated"`
}

type runFailureDTO struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type sweepResultDTO struct {
	TeamsFormed    []autoTeamDTO `json:"teamsFormed"`
	ExpiredUserIDs []string      `json:"expiredUserIds"`
}

func leaderboardRowToDTO(v usecase.LeaderboardRow) leaderboardRowDTO {
	members := make([]autoTeamMemberDTO, 0, len(v.Members))
	for _, m := range v.Members {
		members = append(members, autoTeamMemberDTO{
			UserID:        m.UserID,
			FantasyTeamID: m.FantasyTeamID,
			Points:        m.Points,
		})
	}

	return leaderboardRowDTO{
		Rank:        v.Rank,
		TeamID:      v.TeamID,
		TeamName:    v.TeamName,
		TotalPoints: v.TotalPoints,
		Members:     members,
	}
}

func runSummaryToDTO(v usecase.RunSummary) runSummaryDTO {
	failures := make([]runFailureDTO, 0, len(v.Failures))
	for _, f := range v.Failures {
		failures = append(failures, runFailureDTO{Kind: f.Kind, ID: f.ID, Reason: f.Reason})
	}

	return runSummaryDTO{
		FixtureID:         v.FixtureID,
		PlayersScored:     v.PlayersScored,
		TeamsScored:       v.TeamsScored,
		AutoTeamsScored:   v.AutoTeamsScored,
		PredictionsScored: v.PredictionsScored,
		Failures:          failures,
		Deduplicated:      v.Deduplicated,
	}
}

func sweepResultToDTO(v usecase.SweepResult) sweepResultDTO {
	teams := make([]autoTeamDTO, 0, len(v.TeamsFormed))
	for _, team := range v.TeamsFormed {
		teams = append(teams, autoTeamToDTO(team))
	}

	return sweepResultDTO{
		TeamsFormed:    teams,
		ExpiredUserIDs: v.ExpiredUserIDs,
	}
}
