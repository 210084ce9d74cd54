package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gridironai/gameday/external/espn"
	"github.com/gridironai/gameday/internal/platform/cache"
	"github.com/gridironai/gameday/internal/platform/logging"
	"github.com/gridironai/gameday/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter wires the real services against a stub upstream whose
// scoreboard carries no events, so team resolution always fails.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/site/scoreboard", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"events": []}`)
	})
	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)

	client := espn.NewClient(espn.ClientConfig{
		HTTPClient:  upstream.Client(),
		SiteBaseURL: upstream.URL + "/site",
		CoreBaseURL: upstream.URL + "/core",
		Logger:      logging.NewNop(),
	})

	board := usecase.NewBoardService(client, cache.NewStore(time.Minute), logging.NewNop())
	injuries := usecase.NewInjuryService(client, board, cache.NewStore(15*time.Minute), nil, logging.NewNop())
	tendencies := usecase.NewTendencyService(client, board, cache.NewStore(time.Hour), 0, logging.NewNop())
	handler := NewHandler(board, injuries, tendencies, usecase.NewSpotlightService(), discardLogger())

	return NewRouter(handler, discardLogger(), []string{"*"})
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRouter_TendenciesTeamsNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/401/tendencies", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("failures must still answer 200, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
		Home  any    `json:"home"`
		Away  any    `json:"away"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "Teams not found" {
		t.Fatalf("error = %q", body.Error)
	}
	if body.Home != nil || body.Away != nil {
		t.Fatalf("expected null sides, got %v / %v", body.Home, body.Away)
	}
}

func TestRouter_InjuriesEmptyForUnresolvedGame(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/401/injuries?debug=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		TeamID  string         `json:"team_id"`
		Players []any          `json:"players"`
		Debug   map[string]any `json:"debug"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.TeamID != "mixed" || len(body.Players) != 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Debug == nil {
		t.Fatal("debug=1 must include the derivation trace")
	}
}

func TestRouter_SpotlightsStub(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/401/spotlights", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "QB Spotlight") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_InvalidTendencyParams(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/401/tendencies?n=99", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == "" {
		t.Fatal("expected a validation error in the body")
	}
}

func TestRecoverPanic(t *testing.T) {
	t.Parallel()

	inner := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	recoverPanic(discardLogger(), inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/1/injuries", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("panic must answer 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("stringified panic missing from body: %s", rec.Body.String())
	}
}
