package usecase

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/gridironai/gameday/external/espn"
	"github.com/gridironai/gameday/internal/domain/tendency"
	"github.com/gridironai/gameday/internal/platform/cache"
	"github.com/gridironai/gameday/internal/platform/logging"
)

const (
	DefaultSampleGames = 3
	DefaultSeasonType  = 2 // regular season
)

// Stat-key fallback patterns, matched against lowercased flattened keys when
// no exact name candidate is present.
var (
	passAttemptRe = regexp.MustCompile(`^pass.*attempt`)
	rushAttemptRe = regexp.MustCompile(`^rush.*attempt`)
	carryRe       = regexp.MustCompile(`carry`)
	offPlayRe     = regexp.MustCompile(`offen.*play`)
	thirdConvRe   = regexp.MustCompile(`third.*conv`)
	thirdAttRe    = regexp.MustCompile(`third.*att`)
	rzTdPctRe     = regexp.MustCompile(`red.?zone.*touchdown.*pct`)
	rzScorePctRe  = regexp.MustCompile(`red.?zone.*scor.*pct`)
	rzEffPctRe    = regexp.MustCompile(`red.?zone.*eff.*pct`)
	rzMadeRe      = regexp.MustCompile(`red.?zone.*(score|td|conv)`)
	rzAttRe       = regexp.MustCompile(`red.?zone.*(att|opp|trip)`)
	gamesPlayedRe = regexp.MustCompile(`games?played`)
	winsRe        = regexp.MustCompile(`wins?`)
	lossesRe      = regexp.MustCompile(`loss(es)?`)
)

type TendencyQuery struct {
	GameID   string
	MaxGames int
	Season   int
	Type     int
	Force    bool
}

func (q *TendencyQuery) applyDefaults(sampleGames int) {
	if q.MaxGames <= 0 {
		if sampleGames > 0 {
			q.MaxGames = sampleGames
		} else {
			q.MaxGames = DefaultSampleGames
		}
	}
	if q.Season <= 0 {
		q.Season = time.Now().Year()
	}
	if q.Type <= 0 {
		q.Type = DefaultSeasonType
	}
}

func (q TendencyQuery) cacheKey() string {
	return fmt.Sprintf("%s|n=%d|s=%d|t=%d", q.GameID, q.MaxGames, q.Season, q.Type)
}

type TendencyReport struct {
	SampleN int
	Season  int
	Type    int
	Home    tendency.TeamReport
	Away    tendency.TeamReport
}

type TendencySideTrace struct {
	SeasonUsable bool
	SeasonReason string
	RecentIDs    []string
	GamesUsed    int
}

type TendencyTrace struct {
	Mode     string
	Season   int
	Type     int
	CacheHit bool
	Home     TendencySideTrace
	Away     TendencySideTrace
}

type cachedTendencies struct {
	report TendencyReport
	trace  TendencyTrace
}

// TendencyService derives offensive tendency summaries per team: season
// aggregates from the core statistics tree when usable, a recent-completed-
// games average otherwise. Each side picks its tier independently.
type TendencyService struct {
	client      *espn.Client
	board       *BoardService
	store       *cache.Store
	sampleGames int
	logger      *logging.Logger
}

// sampleGames sets the fallback for queries that carry no n parameter;
// values < 1 fall back to DefaultSampleGames.
func NewTendencyService(client *espn.Client, board *BoardService, store *cache.Store, sampleGames int, logger *logging.Logger) *TendencyService {
	if sampleGames <= 0 {
		sampleGames = DefaultSampleGames
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TendencyService{
		client:      client,
		board:       board,
		store:       store,
		sampleGames: sampleGames,
		logger:      logger,
	}
}

// Get derives both teams' tendency summaries for a game. Returns
// ErrTeamsNotFound when either side cannot be resolved from the board.
func (s *TendencyService) Get(ctx context.Context, q TendencyQuery) (TendencyReport, TendencyTrace, error) {
	ctx, span := startUsecaseSpan(ctx, "TendencyService.Get")
	defer span.End()

	q.applyDefaults(s.sampleGames)
	key := q.cacheKey()

	if !q.Force {
		if cached, ok := s.store.Get(ctx, key); ok {
			if pair, ok := cached.(cachedTendencies); ok {
				trace := pair.trace
				trace.CacheHit = true
				return pair.report, trace, nil
			}
		}
	}

	teams, err := s.board.ResolveTeams(ctx, q.GameID)
	if err != nil {
		s.logger.WarnContext(ctx, "team resolution unavailable", "game_id", q.GameID, "error", err)
	}
	if !teams.Home.Resolved() || !teams.Away.Resolved() {
		return TendencyReport{}, TendencyTrace{}, ErrTeamsNotFound
	}

	trace := TendencyTrace{Mode: "season-preferred", Season: q.Season, Type: q.Type}

	var homeSummary, awaySummary *tendency.Summary
	var wg conc.WaitGroup
	wg.Go(func() {
		homeSummary = s.deriveTeam(ctx, teams.Home.ID, q, &trace.Home)
	})
	wg.Go(func() {
		awaySummary = s.deriveTeam(ctx, teams.Away.ID, q, &trace.Away)
	})
	wg.Wait()

	if !trace.Home.SeasonUsable || !trace.Away.SeasonUsable {
		trace.Mode = "season+recent-fallback"
	}

	report := TendencyReport{
		SampleN: q.MaxGames,
		Season:  q.Season,
		Type:    q.Type,
		Home: tendency.TeamReport{
			TeamID:  teams.Home.ID,
			Team:    teams.Home.DisplayName,
			Summary: homeSummary,
		},
		Away: tendency.TeamReport{
			TeamID:  teams.Away.ID,
			Team:    teams.Away.DisplayName,
			Summary: awaySummary,
		},
	}

	s.store.Set(ctx, key, cachedTendencies{report: report, trace: trace})
	return report, trace, nil
}

// deriveTeam runs the two-tier derivation for one side.
func (s *TendencyService) deriveTeam(ctx context.Context, teamID string, q TendencyQuery, st *TendencySideTrace) *tendency.Summary {
	if summary := s.deriveSeason(ctx, teamID, q.Season, q.Type, st); summary != nil {
		st.SeasonUsable = true
		return summary
	}
	return s.deriveRecent(ctx, teamID, q.MaxGames, st)
}

// deriveSeason is the season-aggregate tier. Returns nil when the statistics
// document is unavailable or fails the plays/games usability gate.
func (s *TendencyService) deriveSeason(ctx context.Context, teamID string, season, seasonType int, st *TendencySideTrace) *tendency.Summary {
	doc, ok := s.client.TeamSeasonStatistics(ctx, teamID, season, seasonType)
	if !ok {
		st.SeasonReason = "statistics unavailable"
		return nil
	}
	flat := flattenStats(doc)

	passAtt := statNum(flat, []string{"passingAttempts", "passAttempts", "teamPassingAttempts"}, passAttemptRe)
	rushAtt := statNum(flat, []string{"rushingAttempts", "rushAttempts", "teamRushingAttempts", "carries"}, rushAttemptRe, carryRe)
	plays := statNum(flat, []string{"offensivePlays", "teamOffensivePlays"}, offPlayRe)
	if plays == 0 {
		plays = passAtt + rushAtt
	}

	thirdMade := statNum(flat, []string{"thirdDownConversions", "thirdDownConverted"}, thirdConvRe)
	thirdAtt := statNum(flat, []string{"thirdDownAttempts", "thirdDownTotal"}, thirdAttRe)

	games := statNum(flat, []string{"gamesPlayed", "games"}, gamesPlayedRe)
	if games == 0 {
		games = statNum(flat, []string{"wins"}, winsRe) + statNum(flat, []string{"losses"}, lossesRe)
	}

	if plays <= 0 || games <= 0 {
		st.SeasonReason = fmt.Sprintf("plays=%g games=%g", plays, games)
		return nil
	}

	// Red zone: explicit percentages win over the made/attempted ratio.
	redZonePct := normPct(statNum(flat, []string{"redzoneTouchdownPct"}, rzTdPctRe))
	if redZonePct == 0 {
		redZonePct = normPct(statNum(flat, []string{"redzoneScoringPct"}, rzScorePctRe))
	}
	if redZonePct == 0 {
		redZonePct = normPct(statNum(flat, []string{"redzoneEfficiencyPct"}, rzEffPctRe))
	}
	if redZonePct == 0 {
		rzMade := statNum(flat, []string{"redZoneScores", "redZoneConverted", "redZoneTouchdowns"}, rzMadeRe)
		rzAtt := statNum(flat, []string{"redZoneAttempts", "redZoneOpportunities", "redZoneTrips"}, rzAttRe)
		redZonePct = pctOf(rzMade, rzAtt)
	}

	toSeconds := statNum(flat, []string{"timeOfPossessionSeconds", "possessionTimeSeconds"})
	if toSeconds == 0 {
		if display, ok := pickDisplay(flat, []string{"timeOfPossession", "possessionTime"}, nil); ok {
			if secs, ok := parseClockSecs(display); ok {
				toSeconds = float64(secs)
			}
		}
	}

	passRatePct := int(math.Round(pctOf(passAtt, passAtt+rushAtt)))
	return &tendency.Summary{
		SampleGames:       int(games),
		PassRatePct:       passRatePct,
		RushRatePct:       100 - passRatePct,
		ThirdDownPct:      int(math.Round(pctOf(thirdMade, thirdAtt))),
		RedZonePct:        int(math.Round(redZonePct)),
		PlaysPerGame:      int(math.Round(plays / games)),
		TimePossessionAvg: secsToClock(int(math.Round(toSeconds / games))),
	}
}

func statNum(flat map[string]statEntry, names []string, patterns ...*regexp.Regexp) float64 {
	v, _ := pickNum(flat, names, patterns)
	return v
}

// deriveRecent is the last-N completed games tier. Returns nil when no
// recent game yields a usable box score.
func (s *TendencyService) deriveRecent(ctx context.Context, teamID string, maxGames int, st *TendencySideTrace) *tendency.Summary {
	sched, ok := s.client.TeamSchedule(ctx, teamID)
	if !ok {
		return nil
	}

	gameIDs := recentCompletedIDs(sched)
	if len(gameIDs) > maxGames {
		st.RecentIDs = gameIDs[:maxGames]
	} else {
		st.RecentIDs = gameIDs
	}

	var sample []perGameStats
	for _, eventID := range gameIDs {
		summary, ok := s.client.GameSummary(ctx, eventID)
		if !ok {
			continue
		}
		pg, ok := extractPerGame(summary, teamID)
		if !ok {
			continue
		}
		sample = append(sample, pg)
		if len(sample) >= maxGames {
			break
		}
	}

	st.GamesUsed = len(sample)
	if len(sample) == 0 {
		return nil
	}

	passRates := make([]float64, len(sample))
	thirdPcts := make([]float64, len(sample))
	rzPcts := make([]float64, len(sample))
	plays := make([]float64, len(sample))
	toSecs := make([]float64, len(sample))
	for i, g := range sample {
		passRates[i] = g.passRate
		thirdPcts[i] = g.thirdDownPct
		rzPcts[i] = g.redZonePct
		plays[i] = float64(g.plays)
		toSecs[i] = float64(g.toSecs)
	}

	passRatePct := int(math.Round(mean(passRates)))
	return &tendency.Summary{
		SampleGames:       len(sample),
		PassRatePct:       passRatePct,
		RushRatePct:       100 - passRatePct,
		ThirdDownPct:      int(math.Round(mean(thirdPcts))),
		RedZonePct:        int(math.Round(mean(rzPcts))),
		PlaysPerGame:      int(math.Round(mean(plays))),
		TimePossessionAvg: secsToClock(int(math.Round(mean(toSecs)))),
	}
}

// recentCompletedIDs lists a schedule's completed events, newest first.
func recentCompletedIDs(sched map[string]any) []string {
	type dated struct {
		id   string
		date time.Time
	}

	var completed []dated
	for _, e := range getSlice(sched, "events") {
		ev, ok := e.(map[string]any)
		if !ok {
			continue
		}
		comp := firstCompetition(ev)
		statusType := getMap(getMap(comp, "status"), "type")
		if !getBool(statusType, "completed") {
			continue
		}
		completed = append(completed, dated{
			id:   getString(ev, "id"),
			date: parseEventDate(getString(ev, "date")),
		})
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].date.After(completed[j].date)
	})

	ids := make([]string, 0, len(completed))
	for _, d := range completed {
		ids = append(ids, d.id)
	}
	return ids
}

func parseEventDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

type perGameStats struct {
	passAtt      float64
	rushAtt      float64
	plays        int
	passRate     float64
	thirdDownPct float64
	redZonePct   float64
	toSecs       int
}

// extractPerGame pulls one team's box-score figures out of a game summary.
// Team-level attempt stats of zero fall back to summing the individual
// player rows of the matching statistic group.
func extractPerGame(summary map[string]any, teamID string) (perGameStats, bool) {
	boxscore := getMap(summary, "boxscore")
	stats := teamBoxStats(boxscore, teamID)

	passAtt := boxStatNum(stats, "passingAttempts", "passAttempts")
	rushAtt := boxStatNum(stats, "rushingAttempts", "rushAttempts")

	if passAtt == 0 {
		if p := sumPlayerAttempts(boxscore, teamID, "passing", "attempts", "att"); p > 0 {
			passAtt = p
		}
	}
	if rushAtt == 0 {
		r := sumPlayerAttempts(boxscore, teamID, "rushing", "attempts", "rushes", "carries")
		if r == 0 {
			r = sumPlayerAttempts(boxscore, teamID, "rushing", "rushingAttempts")
		}
		if r > 0 {
			rushAtt = r
		}
	}

	plays := int(passAtt + rushAtt)
	if plays <= 0 {
		return perGameStats{}, false
	}

	_, _, thirdPct, _ := parsePair(boxStatString(stats, "thirdDownEff"))
	_, _, rzPct, _ := parsePair(boxStatString(stats, "redZoneEff"))
	toSecs, _ := parseClockSecs(boxStatString(stats, "timeOfPossession"))

	return perGameStats{
		passAtt:      passAtt,
		rushAtt:      rushAtt,
		plays:        plays,
		passRate:     pctOf(passAtt, float64(plays)),
		thirdDownPct: thirdPct,
		redZonePct:   rzPct,
		toSecs:       toSecs,
	}, true
}

func teamBoxStats(boxscore map[string]any, teamID string) []any {
	for _, t := range getSlice(boxscore, "teams") {
		teamBox, ok := t.(map[string]any)
		if !ok {
			continue
		}
		if getString(getMap(teamBox, "team"), "id") == teamID {
			return getSlice(teamBox, "statistics")
		}
	}
	return nil
}

func boxStat(stats []any, name string) (any, bool) {
	for _, s := range stats {
		stat, ok := s.(map[string]any)
		if !ok {
			continue
		}
		if getString(stat, "name") != name {
			continue
		}
		if v, present := stat["value"]; present && v != nil {
			return v, true
		}
		if v, present := stat["displayValue"]; present && v != nil {
			return v, true
		}
		return nil, false
	}
	return nil, false
}

func boxStatString(stats []any, name string) string {
	v, ok := boxStat(stats, name)
	if !ok {
		return ""
	}
	return anyToString(v)
}

func boxStatNum(stats []any, names ...string) float64 {
	for _, name := range names {
		v, ok := boxStat(stats, name)
		if !ok || v == "" {
			continue
		}
		if n, ok := toFloat(v); ok {
			return n
		}
		return 0
	}
	return 0
}

// sumPlayerAttempts totals a stat across the individual player rows of one
// statistic group in the box score.
func sumPlayerAttempts(boxscore map[string]any, teamID, category string, attemptKeys ...string) float64 {
	var teamBlock map[string]any
	for _, b := range getSlice(boxscore, "players") {
		block, ok := b.(map[string]any)
		if !ok {
			continue
		}
		if getString(getMap(block, "team"), "id") == teamID {
			teamBlock = block
			break
		}
	}
	if teamBlock == nil {
		return 0
	}

	var total float64
	for _, g := range getSlice(teamBlock, "statistics") {
		group, ok := g.(map[string]any)
		if !ok {
			continue
		}
		groupName := strings.ToLower(firstNonEmpty(getString(group, "name"), getString(group, "displayName")))
		if groupName != strings.ToLower(category) {
			continue
		}
		for _, r := range getSlice(group, "statistics") {
			row, ok := r.(map[string]any)
			if !ok {
				continue
			}
			rowName := strings.ToLower(firstNonEmpty(getString(row, "name"), getString(row, "displayName")))
			if !containsFold(attemptKeys, rowName) {
				continue
			}
			raw, present := row["value"]
			if !present || raw == nil {
				raw = row["displayValue"]
			}
			if n, ok := numFromDisplay(raw); ok {
				total += n
			}
		}
	}
	return total
}

func containsFold(keys []string, value string) bool {
	for _, k := range keys {
		if strings.EqualFold(k, value) {
			return true
		}
	}
	return false
}

// numFromDisplay parses a loosely formatted numeric display value, stripping
// everything that is not a digit, sign or decimal point.
func numFromDisplay(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, n)
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
