package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gridironai/gameday/internal/domain/tendency"
	"github.com/gridironai/gameday/internal/usecase"
)

type tendencySummaryDTO struct {
	SampleGames       int    `json:"sample_games"`
	PassRatePct       int    `json:"pass_rate_pct"`
	RushRatePct       int    `json:"rush_rate_pct"`
	ThirdDownPct      int    `json:"third_down_pct"`
	RedZonePct        int    `json:"red_zone_pct"`
	PlaysPerGame      int    `json:"plays_pg"`
	TimePossessionAvg string `json:"time_possession_avg"`
}

type tendencySideDTO struct {
	TeamID string `json:"team_id"`
	Team   string `json:"team"`
	*tendencySummaryDTO
}

type tendencySideDebugDTO struct {
	SeasonUsable bool     `json:"season_usable"`
	SeasonReason string   `json:"season_reason,omitempty"`
	RecentIDs    []string `json:"recent_ids,omitempty"`
	GamesUsed    int      `json:"games_used"`
}

type tendencyDebugDTO struct {
	Mode   string               `json:"mode"`
	Season int                  `json:"season"`
	Type   int                  `json:"type"`
	Cache  string               `json:"cache"`
	Home   tendencySideDebugDTO `json:"home"`
	Away   tendencySideDebugDTO `json:"away"`
}

type tendenciesResponse struct {
	SampleN int               `json:"sample_n"`
	Season  int               `json:"season"`
	Type    int               `json:"type"`
	Home    *tendencySideDTO  `json:"home"`
	Away    *tendencySideDTO  `json:"away"`
	Debug   *tendencyDebugDTO `json:"debug,omitempty"`
}

type tendenciesErrorResponse struct {
	Error string `json:"error"`
	Home  any    `json:"home"`
	Away  any    `json:"away"`
}

type tendenciesQueryParams struct {
	N      int `validate:"omitempty,min=1,max=17"`
	Season int `validate:"omitempty,min=2000,max=2100"`
	Type   int `validate:"omitempty,min=1,max=4"`
}

func tendencySideToDTO(report tendency.TeamReport) *tendencySideDTO {
	dto := &tendencySideDTO{TeamID: report.TeamID, Team: report.Team}
	if s := report.Summary; s != nil {
		dto.tendencySummaryDTO = &tendencySummaryDTO{
			SampleGames:       s.SampleGames,
			PassRatePct:       s.PassRatePct,
			RushRatePct:       s.RushRatePct,
			ThirdDownPct:      s.ThirdDownPct,
			RedZonePct:        s.RedZonePct,
			PlaysPerGame:      s.PlaysPerGame,
			TimePossessionAvg: s.TimePossessionAvg,
		}
	}
	return dto
}

func tendencyDebugToDTO(trace usecase.TendencyTrace) *tendencyDebugDTO {
	cacheState := "miss"
	if trace.CacheHit {
		cacheState = "hit"
	}
	side := func(st usecase.TendencySideTrace) tendencySideDebugDTO {
		return tendencySideDebugDTO{
			SeasonUsable: st.SeasonUsable,
			SeasonReason: st.SeasonReason,
			RecentIDs:    st.RecentIDs,
			GamesUsed:    st.GamesUsed,
		}
	}
	return &tendencyDebugDTO{
		Mode:   trace.Mode,
		Season: trace.Season,
		Type:   trace.Type,
		Cache:  cacheState,
		Home:   side(trace.Home),
		Away:   side(trace.Away),
	}
}

func (h *Handler) GetGameTendencies(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameTendencies")
	defer span.End()

	query := r.URL.Query()
	debug := queryFlag(r, "debug")

	params := tendenciesQueryParams{
		N:      intParam(query.Get("n")),
		Season: intParam(query.Get("season")),
		Type:   intParam(query.Get("type")),
	}
	if err := h.validator.Struct(params); err != nil {
		writeJSON(ctx, w, tendenciesErrorResponse{Error: err.Error()})
		return
	}

	report, trace, err := h.tendencyService.Get(ctx, usecase.TendencyQuery{
		GameID:   r.PathValue("id"),
		MaxGames: params.N,
		Season:   params.Season,
		Type:     params.Type,
		Force:    queryFlag(r, "force"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "get tendencies failed", "game_id", r.PathValue("id"), "error", err)
		writeJSON(ctx, w, tendenciesErrorResponse{Error: err.Error()})
		return
	}

	resp := tendenciesResponse{
		SampleN: report.SampleN,
		Season:  report.Season,
		Type:    report.Type,
		Home:    tendencySideToDTO(report.Home),
		Away:    tendencySideToDTO(report.Away),
	}
	if debug {
		resp.Debug = tendencyDebugToDTO(trace)
	}
	writeJSON(ctx, w, resp)
}

func intParam(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
