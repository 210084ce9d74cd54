package usecase

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/gridironai/gameday/external/espn"
	"github.com/gridironai/gameday/internal/domain/injury"
	"github.com/gridironai/gameday/internal/platform/cache"
	"github.com/gridironai/gameday/internal/platform/id"
	"github.com/gridironai/gameday/internal/platform/logging"
)

// mixedTeamID marks a merged home+away player list.
const mixedTeamID = "mixed"

const injurySourceName = "ESPN Core v2"

type InjuryQuery struct {
	GameID   string
	HomeID   string
	AwayID   string
	HomeName string
	AwayName string
	Force    bool
}

type InjuryReport struct {
	TeamID  string
	Players []injury.Record
}

// InjuryTrace records how a report was assembled, returned to callers that
// ask for derivation metadata.
type InjuryTrace struct {
	GameID    string
	HomeID    string
	AwayID    string
	HomeName  string
	AwayName  string
	Resolved  bool
	CacheHit  bool
	HomeCount int
	AwayCount int
}

// InjuryService assembles the visible injury list for one game: both teams'
// injury references are fanned out, dereferenced, reconciled into the
// canonical record shape and filtered by status.
type InjuryService struct {
	client *espn.Client
	board  *BoardService
	store  *cache.Store
	ids    id.Generator
	logger *logging.Logger
}

func NewInjuryService(client *espn.Client, board *BoardService, store *cache.Store, ids id.Generator, logger *logging.Logger) *InjuryService {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &InjuryService{
		client: client,
		board:  board,
		store:  store,
		ids:    ids,
		logger: logger,
	}
}

// Get returns the merged injury report for a game. Team ids and names from
// the query skip board resolution; Force bypasses the cache read. The report
// is cached only when at least one player survived the filter.
func (s *InjuryService) Get(ctx context.Context, q InjuryQuery) (InjuryReport, InjuryTrace, error) {
	ctx, span := startUsecaseSpan(ctx, "InjuryService.Get")
	defer span.End()

	trace := InjuryTrace{
		GameID:   q.GameID,
		HomeID:   q.HomeID,
		AwayID:   q.AwayID,
		HomeName: q.HomeName,
		AwayName: q.AwayName,
	}

	if !q.Force {
		if cached, ok := s.store.Get(ctx, q.GameID); ok {
			if report, ok := cached.(InjuryReport); ok {
				trace.CacheHit = true
				return report, trace, nil
			}
		}
	}

	if q.HomeID == "" || q.AwayID == "" {
		teams, err := s.board.ResolveTeams(ctx, q.GameID)
		if err != nil {
			s.logger.WarnContext(ctx, "team resolution unavailable", "game_id", q.GameID, "error", err)
		}
		trace.Resolved = true
		q.HomeID = firstNonEmpty(q.HomeID, teams.Home.ID)
		q.AwayID = firstNonEmpty(q.AwayID, teams.Away.ID)
		q.HomeName = firstNonEmpty(q.HomeName, teams.Home.DisplayName)
		q.AwayName = firstNonEmpty(q.AwayName, teams.Away.DisplayName)
		trace.HomeID, trace.AwayID = q.HomeID, q.AwayID
		trace.HomeName, trace.AwayName = q.HomeName, q.AwayName
	}

	var homePlayers, awayPlayers []injury.Record
	var wg conc.WaitGroup
	wg.Go(func() {
		if q.HomeID != "" {
			homePlayers = s.teamInjuries(ctx, q.HomeID)
		}
	})
	wg.Go(func() {
		if q.AwayID != "" {
			awayPlayers = s.teamInjuries(ctx, q.AwayID)
		}
	})
	wg.Wait()

	homeTag := firstNonEmpty(q.HomeName, "Home")
	awayTag := firstNonEmpty(q.AwayName, "Away")
	for i := range homePlayers {
		homePlayers[i].Team = homeTag
	}
	for i := range awayPlayers {
		awayPlayers[i].Team = awayTag
	}

	trace.HomeCount = len(homePlayers)
	trace.AwayCount = len(awayPlayers)

	report := InjuryReport{
		TeamID:  mixedTeamID,
		Players: append(homePlayers, awayPlayers...),
	}

	if len(report.Players) > 0 {
		s.store.Set(ctx, q.GameID, report)
	}
	return report, trace, nil
}

// teamInjuries fetches one team's injury list and fans out over its
// reference items. A single memo spans the whole fan-out so shared nested
// resources (positions especially) are dereferenced once.
func (s *InjuryService) teamInjuries(ctx context.Context, teamID string) []injury.Record {
	list, ok := s.client.TeamInjuries(ctx, teamID)
	if !ok {
		return nil
	}
	items := getSlice(list, "items")
	if len(items) == 0 {
		return nil
	}

	memo := espn.NewMemo()
	return fanOut(ctx, items, func(ctx context.Context, item any) (injury.Record, bool) {
		return s.normalizeItem(ctx, item, memo)
	})
}

// normalizeItem reduces one injury reference to the canonical record. Any
// unresolvable intermediate document skips the item without failing the
// batch, and hidden statuses are dropped here so the filter cannot be
// bypassed downstream.
func (s *InjuryService) normalizeItem(ctx context.Context, pointer any, memo *espn.Memo) (injury.Record, bool) {
	sourceURL := espn.PointerURL(pointer)

	injuryNode := s.client.Deref(ctx, pointer, memo)
	if injuryNode == nil {
		return injury.Record{}, false
	}

	athlete := s.client.Deref(ctx, injuryNode["athlete"], memo)
	if athlete == nil {
		return injury.Record{}, false
	}

	var posNode map[string]any
	if athlete["position"] != nil {
		posNode = s.client.Deref(ctx, athlete["position"], memo)
	}

	status := firstNonEmpty(
		getString(injuryNode, "status"),
		getString(getMap(injuryNode, "status"), "name"),
		getString(injuryNode, "type"),
		getString(injuryNode, "shortStatus"),
	)
	if status == "" {
		status = "Unknown"
	}
	if injury.StatusHidden(status) {
		return injury.Record{}, false
	}

	name := firstNonEmpty(
		getString(athlete, "fullName"),
		getString(athlete, "displayName"),
		getString(athlete, "shortName"),
	)
	if name == "" {
		name = "Unknown"
	}

	detail := firstNonEmpty(
		getString(injuryNode, "shortComment"),
		getString(injuryNode, "comment"),
		getString(injuryNode, "description"),
		getString(injuryNode, "text"),
	)
	if detail == "" {
		detail = "—"
	}

	athletePos := getMap(athlete, "position")
	pos := firstNonEmpty(
		getString(posNode, "abbreviation"),
		getString(posNode, "displayName"),
		getString(athletePos, "abbreviation"),
		getString(athletePos, "displayName"),
	)

	headshot := firstNonEmpty(
		getString(getMap(athlete, "headshot"), "href"),
		getString(getMap(athlete, "headshot"), "$ref"),
		firstImageURL(athlete),
	)

	playerID := firstNonEmpty(
		getString(athlete, "id"),
		getString(injuryNode, "athleteId"),
	)
	if playerID == "" {
		token, err := s.ids.NewID()
		if err != nil {
			return injury.Record{}, false
		}
		playerID = token
	}

	return injury.Record{
		PlayerID:      playerID,
		Name:          name,
		Pos:           pos,
		Status:        status,
		Detail:        detail,
		Headshot:      headshot,
		LastUpdatedTS: time.Now().UTC().Format(time.RFC3339),
		Sources:       []injury.Source{{Name: injurySourceName, URL: sourceURL}},
	}, true
}

func firstImageURL(athlete map[string]any) string {
	for _, img := range getSlice(athlete, "images") {
		image, ok := img.(map[string]any)
		if !ok {
			continue
		}
		if url := getString(image, "url"); url != "" {
			return url
		}
	}
	return ""
}
