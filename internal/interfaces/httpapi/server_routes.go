package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("POST /v1/fixtures/{fixtureID}/squad/validate", handler.ValidateSquad)
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("PUT /v1/fixtures/{fixtureID}/squad", RequireUser(http.HandlerFunc(handler.SaveSquad)))
	mux.Handle("GET /v1/fixtures/{fixtureID}/squad", RequireUser(http.HandlerFunc(handler.GetMySquad)))
	mux.Handle("POST /v1/fixtures/{fixtureID}/queue", RequireUser(http.HandlerFunc(handler.JoinQueue)))
	mux.Handle("DELETE /v1/fixtures/{fixtureID}/queue", RequireUser(http.HandlerFunc(handler.LeaveQueue)))
	mux.Handle("GET /v1/fixtures/{fixtureID}/queue", RequireUser(http.HandlerFunc(handler.GetQueueStatus)))
	mux.Handle("GET /v1/fixtures/{fixtureID}/team", RequireUser(http.HandlerFunc(handler.GetMatchedTeam)))
	mux.Handle("PUT /v1/fixtures/{fixtureID}/prediction", RequireUser(http.HandlerFunc(handler.SubmitPrediction)))
	mux.Handle("GET /v1/fixtures/{fixtureID}/prediction", RequireUser(http.HandlerFunc(handler.GetMyPrediction)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalToken string) {
	mux.Handle("POST /v1/internal/fixtures/{fixtureID}/close-selection", RequireInternalToken(internalToken, http.HandlerFunc(handler.CloseSelection)))
	mux.Handle("POST /v1/internal/fixtures/{fixtureID}/sweep", RequireInternalToken(internalToken, http.HandlerFunc(handler.RunEndgameSweep)))
	mux.Handle("POST /v1/internal/fixtures/{fixtureID}/score", RequireInternalToken(internalToken, http.HandlerFunc(handler.RunScoring)))
	mux.Handle("POST /v1/internal/stats/performances", RequireInternalToken(internalToken, http.HandlerFunc(handler.RecordPerformance)))
	mux.Handle("POST /v1/internal/stats/actuals", RequireInternalToken(internalToken, http.HandlerFunc(handler.RecordActuals)))
}
