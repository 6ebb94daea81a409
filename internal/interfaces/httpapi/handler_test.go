package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/crickarena/crickarena/internal/infrastructure/repository/memory"
	"github.com/crickarena/crickarena/internal/platform/cache"
	idgen "github.com/crickarena/crickarena/internal/platform/id"
	"github.com/crickarena/crickarena/internal/platform/logging"
	"github.com/crickarena/crickarena/internal/platform/namegen"
	"github.com/crickarena/crickarena/internal/usecase"
)

const testInternalToken = "internal-test-token"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	fantasyRepo := memory.NewFantasyTeamRepository()
	queueRepo := memory.NewQueueRepository()
	teamRepo := memory.NewAutoTeamRepository(queueRepo)
	predictionRepo := memory.NewPredictionRepository()
	statsRepo := memory.NewStatsRepository()

	idGen := idgen.NewRandomGenerator()
	names := namegen.NewWordListGenerator()

	catalogService := usecase.NewCatalogService(fixtureRepo, playerRepo)
	teamService := usecase.NewTeamService(fixtureRepo, playerRepo, fantasyRepo, idGen, logger)
	matchmakingService := usecase.NewMatchmakingService(fixtureRepo, fantasyRepo, queueRepo, teamRepo, nil, names, idGen, logger)
	predictionService := usecase.NewPredictionService(fixtureRepo, playerRepo, predictionRepo, idGen, logger)
	scoringService := usecase.NewScoringService(fixtureRepo, fantasyRepo, teamRepo, predictionRepo, statsRepo, nil, cache.NewStore(time.Minute), nil, logger)

	handler := NewHandler(catalogService, teamService, matchmakingService, predictionService, scoringService, logger)
	return NewRouter(handler, logger, []string{"*"}, testInternalToken)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

const validSquadBody = `{
	"name": "Boundary Hunters",
	"playerIds": ["ind-wk-02","ind-bat-03","aus-bat-02","aus-bat-03","aus-bat-04","ind-ar-03","aus-ar-02","ind-bwl-03","ind-bwl-04","aus-bwl-03","aus-bwl-04"],
	"captainId": "ind-bat-03",
	"viceCaptainId": "aus-bat-02"
}`

func TestRouter_ListPlayers(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/players", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	items, ok := body["data"].([]any)
	if !ok || len(items) == 0 {
		t.Fatalf("expected non-empty player list, got %v", body["data"])
	}
}

func TestRouter_SaveAndGetSquad(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/fixtures/"+memory.FixtureIDIndAus+"/squad", strings.NewReader(validSquadBody))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	saved := decodeData(t, rec)
	if saved["name"] != "Boundary Hunters" {
		t.Fatalf("expected saved squad name, got %v", saved["name"])
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/fixtures/"+memory.FixtureIDIndAus+"/squad", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeData(t, rec)
	if got["id"] != saved["id"] {
		t.Fatalf("expected squad id %v, got %v", saved["id"], got["id"])
	}
}

func TestRouter_SaveSquadRequiresUser(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/fixtures/"+memory.FixtureIDIndAus+"/squad", strings.NewReader(validSquadBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_ValidateSquadRejectsShortSquad(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"playerIds": ["ind-wk-02","ind-bat-03"],
		"captainId": "ind-bat-03",
		"viceCaptainId": "ind-wk-02"
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/fixtures/"+memory.FixtureIDIndAus+"/squad/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "invalidSquad") {
		t.Fatalf("expected invalidSquad reason, got %s", rec.Body.String())
	}
}

func TestRouter_QueueJoinWithoutSquadIsPreconditionFailed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/fixtures/"+memory.FixtureIDIndAus+"/queue", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected status 412, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_QueueJoinAndStatus(t *testing.T) {
	router := newTestRouter(t)

	save := httptest.NewRequest(http.MethodPut, "/v1/fixtures/"+memory.FixtureIDIndAus+"/squad", strings.NewReader(validSquadBody))
	save.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, save)
	if rec.Code != http.StatusOK {
		t.Fatalf("save squad: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	join := httptest.NewRequest(http.MethodPost, "/v1/fixtures/"+memory.FixtureIDIndAus+"/queue", nil)
	join.Header.Set("X-User-ID", "user-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, join)
	if rec.Code != http.StatusOK {
		t.Fatalf("join queue: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	joined := decodeData(t, rec)
	if joined["state"] != "waiting" {
		t.Fatalf("expected waiting state, got %v", joined["state"])
	}
	if joined["position"] != float64(1) {
		t.Fatalf("expected position 1, got %v", joined["position"])
	}

	status := httptest.NewRequest(http.MethodGet, "/v1/fixtures/"+memory.FixtureIDIndAus+"/queue", nil)
	status.Header.Set("X-User-ID", "user-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, status)
	if rec.Code != http.StatusOK {
		t.Fatalf("queue status: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeData(t, rec)
	if got["state"] != "waiting" {
		t.Fatalf("expected waiting state, got %v", got["state"])
	}

	leave := httptest.NewRequest(http.MethodDelete, "/v1/fixtures/"+memory.FixtureIDIndAus+"/queue", nil)
	leave.Header.Set("X-User-ID", "user-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, leave)
	if rec.Code != http.StatusOK {
		t.Fatalf("leave queue: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_SubmitPrediction(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"totalScore": 176,
		"powerplayScore": 52,
		"mostSixes": "ind-bat-03",
		"mostFours": "aus-bat-02",
		"mostWickets": "ind-bwl-03",
		"fiftiesCount": 2
	}`
	req := httptest.NewRequest(http.MethodPut, "/v1/fixtures/"+memory.FixtureIDIndAus+"/prediction", strings.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeData(t, rec)
	if got["totalScore"] != float64(176) {
		t.Fatalf("expected totalScore 176, got %v", got["totalScore"])
	}
}

func TestRouter_InternalScoreRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/fixtures/"+memory.FixtureIDIndAus+"/score", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_InternalCloseSelection(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/fixtures/"+memory.FixtureIDIndAus+"/close-selection", nil)
	req.Header.Set("X-Internal-Token", testInternalToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	fx := httptest.NewRequest(http.MethodGet, "/v1/fixtures/"+memory.FixtureIDIndAus, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, fx)
	got := decodeData(t, rec)
	if got["selectionOpen"] != false {
		t.Fatalf("expected selection to be closed, got %v", got["selectionOpen"])
	}
}

func TestRouter_UnknownFixtureIsNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/no-such-fixture", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
