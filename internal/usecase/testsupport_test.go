package usecase

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridironai/gameday/external/espn"
	"github.com/gridironai/gameday/internal/platform/logging"
)

// upstreamStub is a fake ESPN origin. Handlers are registered after the
// server starts so fixtures can embed absolute reference URLs.
type upstreamStub struct {
	mux *http.ServeMux
	srv *httptest.Server
}

func newUpstreamStub(t *testing.T) *upstreamStub {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &upstreamStub{mux: mux, srv: srv}
}

func (u *upstreamStub) URL() string {
	return u.srv.URL
}

func (u *upstreamStub) handleJSON(pattern string, doc func() string) {
	u.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc()))
	})
}

func (u *upstreamStub) handleStatus(pattern string, status int) {
	u.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

func (u *upstreamStub) client() *espn.Client {
	return espn.NewClient(espn.ClientConfig{
		HTTPClient:  u.srv.Client(),
		SiteBaseURL: u.srv.URL + "/site",
		CoreBaseURL: u.srv.URL + "/core",
		Logger:      logging.NewNop(),
	})
}

const testScoreboard = `{
  "events": [
    {
      "id": "401", "name": "Away Foxes at Home Hawks", "shortName": "AF @ HH",
      "date": "2025-09-07T17:00Z",
      "competitions": [
        {
          "status": {"type": {"description": "Scheduled", "completed": false}},
          "competitors": [
            {"homeAway": "home", "team": {"id": "10", "displayName": "Home Hawks"}},
            {"homeAway": "away", "team": {"id": "20", "displayName": "Away Foxes"}}
          ]
        }
      ]
    }
  ]
}`
