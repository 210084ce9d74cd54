package espn

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gridironai/gameday/internal/domain/rawdata"
	"github.com/gridironai/gameday/internal/platform/logging"
	"github.com/gridironai/gameday/internal/platform/resilience"
)

const (
	defaultSiteBaseURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"
	defaultCoreBaseURL = "https://sports.core.api.espn.com/v2/sports/football/leagues/nfl"
	defaultUserAgent   = "GridironAI/1.0 (+gridironai)"

	injuryListLimit  = 200
	maxResponseBytes = 6 << 20
)

// PayloadRecorder receives raw upstream responses for best-effort archival.
type PayloadRecorder interface {
	Record(ctx context.Context, item rawdata.Payload)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	SiteBaseURL    string
	CoreBaseURL    string
	UserAgent      string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Recorder       PayloadRecorder
}

// Client issues read-only JSON requests against ESPN's public site and core
// API families. Every call is best-effort: a transport error or non-2xx
// status yields "no data", never an error value — callers skip and continue.
type Client struct {
	httpClient     *http.Client
	siteBaseURL    string
	coreBaseURL    string
	userAgent      string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	recorder       PayloadRecorder
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	siteBaseURL := strings.TrimRight(strings.TrimSpace(cfg.SiteBaseURL), "/")
	if siteBaseURL == "" {
		siteBaseURL = defaultSiteBaseURL
	}
	coreBaseURL := strings.TrimRight(strings.TrimSpace(cfg.CoreBaseURL), "/")
	if coreBaseURL == "" {
		coreBaseURL = defaultCoreBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		siteBaseURL:    siteBaseURL,
		coreBaseURL:    coreBaseURL,
		userAgent:      userAgent,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		recorder:       cfg.Recorder,
	}
}

// Scoreboard fetches the current league event board.
func (c *Client) Scoreboard(ctx context.Context) (map[string]any, bool) {
	return c.fetchJSON(ctx, "scoreboard", c.siteBaseURL+"/scoreboard")
}

// TeamSchedule fetches a team's season schedule.
func (c *Client) TeamSchedule(ctx context.Context, teamID string) (map[string]any, bool) {
	return c.fetchJSON(ctx, "team_schedule", fmt.Sprintf("%s/teams/%s/schedule", c.siteBaseURL, url.PathEscape(teamID)))
}

// GameSummary fetches the box-score summary document for one event.
func (c *Client) GameSummary(ctx context.Context, eventID string) (map[string]any, bool) {
	return c.fetchJSON(ctx, "game_summary", fmt.Sprintf("%s/summary?event=%s", c.siteBaseURL, url.QueryEscape(eventID)))
}

// TeamSeasonStatistics fetches the core v2 season-aggregate statistics
// document for a team. seasonType 2 is the regular season.
func (c *Client) TeamSeasonStatistics(ctx context.Context, teamID string, season, seasonType int) (map[string]any, bool) {
	full := fmt.Sprintf("%s/seasons/%d/types/%d/teams/%s/statistics",
		c.coreBaseURL, season, seasonType, url.PathEscape(teamID))
	return c.fetchJSON(ctx, "team_season_statistics", full)
}

// TeamInjuries fetches the core v2 injuries list for a team. Items are
// reference pointers that must be dereferenced individually.
func (c *Client) TeamInjuries(ctx context.Context, teamID string) (map[string]any, bool) {
	full := fmt.Sprintf("%s/teams/%s/injuries?limit=%d", c.coreBaseURL, url.PathEscape(teamID), injuryListLimit)
	return c.fetchJSON(ctx, "team_injuries", full)
}

// FetchJSON performs one GET against an absolute URL. It returns (nil, false)
// on any transport error, non-2xx status, or undecodable body. There is no
// retry: a failed fetch is the final answer for that call.
func (c *Client) FetchJSON(ctx context.Context, fullURL string) (map[string]any, bool) {
	return c.fetchJSON(ctx, "ref", fullURL)
}

func (c *Client) fetchJSON(ctx context.Context, entity, fullURL string) (map[string]any, bool) {
	if strings.TrimSpace(fullURL) == "" {
		return nil, false
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State(), "url", fullURL)
			return nil, false
		}
	}

	raw, ok := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if ok {
			c.breaker.RecordSuccess()
		} else {
			c.breaker.RecordFailure()
		}
	}
	if !ok {
		return nil, false
	}

	var doc map[string]any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		c.logger.WarnContext(ctx, "decode espn payload failed", "url", fullURL, "error", err)
		return nil, false
	}

	if c.recorder != nil {
		c.recorder.Record(ctx, rawdata.Payload{
			Source:      "espn",
			EntityType:  entity,
			EntityKey:   fullURL,
			PayloadJSON: string(raw),
			PayloadHash: hashPayload(raw),
			FetchedAt:   time.Now().UTC(),
		})
	}

	return doc, true
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		c.logger.WarnContext(ctx, "build espn request failed", "url", fullURL, "error", err)
		return nil, false
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", err)
		return nil, false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.WarnContext(ctx, "read espn response failed", "url", fullURL, "error", err)
		return nil, false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.DebugContext(ctx, "espn non-success response", "url", fullURL, "status", resp.StatusCode)
		return nil, false
	}

	return raw, true
}

func hashPayload(raw []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(raw)
	return fmt.Sprintf("%016x", h.Sum64())
}
