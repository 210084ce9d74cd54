package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/gridironai/gameday/internal/platform/cache"
	"github.com/gridironai/gameday/internal/platform/logging"
)

func newTestBoard(t *testing.T, stub *upstreamStub) *BoardService {
	t.Helper()
	return NewBoardService(stub.client(), cache.NewStore(time.Minute), logging.NewNop())
}

func TestBoardService_ListGames(t *testing.T) {
	t.Parallel()

	stub := newUpstreamStub(t)
	stub.handleJSON("/site/scoreboard", func() string { return testScoreboard })

	board := newTestBoard(t, stub)
	games, err := board.ListGames(t.Context())
	if err != nil {
		t.Fatalf("list games failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	g := games[0]
	if g.ID != "401" || g.ShortName != "AF @ HH" || g.Status != "Scheduled" {
		t.Fatalf("unexpected game meta: %+v", g)
	}
	if g.Home.ID != "10" || g.Away.ID != "20" {
		t.Fatalf("unexpected teams: %+v / %+v", g.Home, g.Away)
	}
}

func TestBoardService_GetGame_NotFound(t *testing.T) {
	t.Parallel()

	stub := newUpstreamStub(t)
	stub.handleJSON("/site/scoreboard", func() string { return testScoreboard })

	board := newTestBoard(t, stub)
	_, err := board.GetGame(t.Context(), "999")
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestBoardService_ResolveTeams(t *testing.T) {
	t.Parallel()

	stub := newUpstreamStub(t)
	stub.handleJSON("/site/scoreboard", func() string { return testScoreboard })

	board := newTestBoard(t, stub)
	teams, err := board.ResolveTeams(t.Context(), "401")
	if err != nil {
		t.Fatalf("resolve teams failed: %v", err)
	}
	if teams.Home.DisplayName != "Home Hawks" || teams.Away.DisplayName != "Away Foxes" {
		t.Fatalf("unexpected teams: %+v", teams)
	}
}

func TestBoardService_ResolveTeams_UnknownGame(t *testing.T) {
	t.Parallel()

	stub := newUpstreamStub(t)
	stub.handleJSON("/site/scoreboard", func() string { return testScoreboard })

	board := newTestBoard(t, stub)
	teams, err := board.ResolveTeams(t.Context(), "999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if teams.Home.Resolved() || teams.Away.Resolved() {
		t.Fatalf("expected unresolved sides, got %+v", teams)
	}
}

func TestBoardService_ScoreboardUnavailable(t *testing.T) {
	t.Parallel()

	stub := newUpstreamStub(t)
	stub.handleStatus("/site/scoreboard", 503)

	board := newTestBoard(t, stub)
	if _, err := board.ListGames(t.Context()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
