package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gridironai/gameday/internal/domain/rawdata"
	"github.com/gridironai/gameday/internal/platform/logging"
	"github.com/gridironai/gameday/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.Handler, mutate func(*ClientConfig)) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ClientConfig{
		SiteBaseURL: srv.URL + "/site",
		CoreBaseURL: srv.URL + "/core",
		Timeout:     5 * time.Second,
		Logger:      logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	return NewClient(cfg), srv
}

func TestClient_SetsRequestHeaders(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotAccept string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events":[]}`))
	})

	client, _ := newTestClient(t, handler, nil)

	doc, ok := client.Scoreboard(t.Context())
	if !ok {
		t.Fatalf("expected scoreboard fetch to succeed")
	}
	if _, present := doc["events"]; !present {
		t.Fatalf("expected events key in decoded document")
	}
	if gotUserAgent != "GridironAI/1.0 (+gridironai)" {
		t.Fatalf("unexpected User-Agent: %q", gotUserAgent)
	}
	if gotAccept != "application/json" {
		t.Fatalf("unexpected Accept: %q", gotAccept)
	}
}

func TestClient_RequestPaths(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		paths []string
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.RequestURI())
		mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	})

	client, _ := newTestClient(t, handler, nil)

	ctx := t.Context()
	client.Scoreboard(ctx)
	client.TeamSchedule(ctx, "10")
	client.GameSummary(ctx, "401")
	client.TeamSeasonStatistics(ctx, "10", 2025, 2)
	client.TeamInjuries(ctx, "10")

	want := []string{
		"/site/scoreboard",
		"/site/teams/10/schedule",
		"/site/summary?event=401",
		"/core/seasons/2025/types/2/teams/10/statistics",
		"/core/teams/10/injuries?limit=200",
	}
	mu.Lock()
	got := append([]string(nil), paths...)
	mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("got %d requests, want %d: %v", len(got), len(want), got)
	}
	for i, p := range want {
		if got[i] != p {
			t.Fatalf("request %d: got %q, want %q", i, got[i], p)
		}
	}
}

func TestClient_NonSuccessStatusYieldsNoData(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client, _ := newTestClient(t, handler, nil)

	if doc, ok := client.Scoreboard(t.Context()); ok || doc != nil {
		t.Fatalf("expected no data on 503, got %v", doc)
	}
}

func TestClient_UndecodableBodyYieldsNoData(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	client, _ := newTestClient(t, handler, nil)

	if _, ok := client.Scoreboard(t.Context()); ok {
		t.Fatalf("expected no data for undecodable body")
	}
}

func TestClient_CircuitBreakerStopsRequestsAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	client, _ := newTestClient(t, handler, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	ctx := t.Context()
	client.Scoreboard(ctx)
	client.Scoreboard(ctx)
	client.Scoreboard(ctx)

	if got := hits.Load(); got != 2 {
		t.Fatalf("expected 2 upstream hits before the circuit opened, got %d", got)
	}
}

type captureRecorder struct {
	items []rawdata.Payload
}

func (c *captureRecorder) Record(_ context.Context, item rawdata.Payload) {
	c.items = append(c.items, item)
}

func TestClient_RecordsRawPayloads(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"events":[]}`))
	})

	rec := &captureRecorder{}
	client, srv := newTestClient(t, handler, func(cfg *ClientConfig) {
		cfg.Recorder = rec
	})

	if _, ok := client.Scoreboard(t.Context()); !ok {
		t.Fatalf("expected fetch to succeed")
	}

	if len(rec.items) != 1 {
		t.Fatalf("expected 1 recorded payload, got %d", len(rec.items))
	}
	item := rec.items[0]
	if item.Source != "espn" {
		t.Fatalf("unexpected source: %q", item.Source)
	}
	if item.EntityType != "scoreboard" {
		t.Fatalf("unexpected entity type: %q", item.EntityType)
	}
	if item.EntityKey != srv.URL+"/site/scoreboard" {
		t.Fatalf("unexpected entity key: %q", item.EntityKey)
	}
	if item.PayloadJSON != `{"events":[]}` {
		t.Fatalf("unexpected payload: %q", item.PayloadJSON)
	}
	if item.PayloadHash == "" {
		t.Fatalf("expected payload hash")
	}
	if item.FetchedAt.IsZero() {
		t.Fatalf("expected fetched_at timestamp")
	}
}

func TestClient_FailedFetchIsNotRecorded(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := &captureRecorder{}
	client, _ := newTestClient(t, handler, func(cfg *ClientConfig) {
		cfg.Recorder = rec
	})

	if _, ok := client.Scoreboard(t.Context()); ok {
		t.Fatalf("expected fetch to fail")
	}
	if len(rec.items) != 0 {
		t.Fatalf("expected no recorded payloads, got %d", len(rec.items))
	}
}
