package usecase

import (
	"context"
	"fmt"

	"github.com/gridironai/gameday/external/espn"
	"github.com/gridironai/gameday/internal/domain/game"
	"github.com/gridironai/gameday/internal/platform/cache"
	"github.com/gridironai/gameday/internal/platform/logging"
)

const scoreboardCacheKey = "scoreboard"

// BoardService reads the league event board and resolves games to their
// participants. The scoreboard document itself is cached briefly because
// every per-game endpoint starts from it.
type BoardService struct {
	client     *espn.Client
	scoreboard *cache.Store
	logger     *logging.Logger
}

func NewBoardService(client *espn.Client, scoreboard *cache.Store, logger *logging.Logger) *BoardService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BoardService{
		client:     client,
		scoreboard: scoreboard,
		logger:     logger,
	}
}

func (s *BoardService) loadScoreboard(ctx context.Context) ([]any, error) {
	value, err := s.scoreboard.GetOrLoad(ctx, scoreboardCacheKey, func(ctx context.Context) (any, error) {
		board, ok := s.client.Scoreboard(ctx)
		if !ok {
			return nil, fmt.Errorf("fetch scoreboard: %w", ErrDependencyUnavailable)
		}
		return board, nil
	})
	if err != nil {
		return nil, err
	}

	board, _ := value.(map[string]any)
	return getSlice(board, "events"), nil
}

// ListGames returns the current event board as game metadata.
func (s *BoardService) ListGames(ctx context.Context) ([]game.Meta, error) {
	ctx, span := startUsecaseSpan(ctx, "BoardService.ListGames")
	defer span.End()

	events, err := s.loadScoreboard(ctx)
	if err != nil {
		return nil, err
	}

	games := make([]game.Meta, 0, len(events))
	for _, e := range events {
		ev, ok := e.(map[string]any)
		if !ok {
			continue
		}
		games = append(games, eventToMeta(ev))
	}
	return games, nil
}

// GetGame returns metadata for one event on the current board.
func (s *BoardService) GetGame(ctx context.Context, gameID string) (game.Meta, error) {
	ctx, span := startUsecaseSpan(ctx, "BoardService.GetGame")
	defer span.End()

	events, err := s.loadScoreboard(ctx)
	if err != nil {
		return game.Meta{}, err
	}

	ev := findEvent(events, gameID)
	if ev == nil {
		return game.Meta{}, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	return eventToMeta(ev), nil
}

// ResolveTeams maps a game id to its home and away participants. A side that
// cannot be located on the board comes back unresolved; callers decide
// whether that is fatal for their view.
func (s *BoardService) ResolveTeams(ctx context.Context, gameID string) (game.Teams, error) {
	ctx, span := startUsecaseSpan(ctx, "BoardService.ResolveTeams")
	defer span.End()

	events, err := s.loadScoreboard(ctx)
	if err != nil {
		return game.Teams{}, err
	}

	ev := findEvent(events, gameID)
	if ev == nil {
		s.logger.WarnContext(ctx, "game not on event board", "game_id", gameID)
		return game.Teams{}, nil
	}

	meta := eventToMeta(ev)
	return game.Teams{Home: meta.Home, Away: meta.Away}, nil
}

func findEvent(events []any, gameID string) map[string]any {
	for _, e := range events {
		ev, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if getString(ev, "id") == gameID {
			return ev
		}
	}
	return nil
}

func eventToMeta(ev map[string]any) game.Meta {
	meta := game.Meta{
		ID:        getString(ev, "id"),
		Name:      getString(ev, "name"),
		ShortName: getString(ev, "shortName"),
		Date:      getString(ev, "date"),
	}

	comp := firstCompetition(ev)
	statusType := getMap(getMap(comp, "status"), "type")
	if statusType == nil {
		statusType = getMap(getMap(ev, "status"), "type")
	}
	meta.Status = firstNonEmpty(
		getString(statusType, "description"),
		getString(statusType, "name"),
	)
	meta.Completed = getBool(statusType, "completed")

	for _, c := range getSlice(comp, "competitors") {
		competitor, ok := c.(map[string]any)
		if !ok {
			continue
		}
		team := getMap(competitor, "team")
		ref := game.TeamRef{
			ID:          getString(team, "id"),
			DisplayName: getString(team, "displayName"),
		}
		switch getString(competitor, "homeAway") {
		case "home":
			meta.Home = ref
		case "away":
			meta.Away = ref
		}
	}
	return meta
}

func firstCompetition(ev map[string]any) map[string]any {
	comps := getSlice(ev, "competitions")
	if len(comps) == 0 {
		return nil
	}
	comp, _ := comps[0].(map[string]any)
	return comp
}
