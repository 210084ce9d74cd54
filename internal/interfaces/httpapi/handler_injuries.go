package httpapi

import (
	"net/http"

	"github.com/gridironai/gameday/internal/domain/injury"
	"github.com/gridironai/gameday/internal/usecase"
)

type injurySourceDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type injuryPlayerDTO struct {
	PlayerID      string            `json:"player_id"`
	Name          string            `json:"name"`
	Pos           *string           `json:"pos"`
	Status        string            `json:"status"`
	Detail        string            `json:"detail"`
	Headshot      *string           `json:"headshot"`
	Team          string            `json:"team"`
	LastUpdatedTS string            `json:"last_updated_ts"`
	Sources       []injurySourceDTO `json:"sources"`
}

type injuryDebugDTO struct {
	GameID    string `json:"game_id"`
	HomeID    string `json:"home_id"`
	AwayID    string `json:"away_id"`
	HomeName  string `json:"home_name"`
	AwayName  string `json:"away_name"`
	Resolved  bool   `json:"resolved"`
	Cache     string `json:"cache"`
	HomeCount int    `json:"home_count"`
	AwayCount int    `json:"away_count"`
}

type injuriesResponse struct {
	TeamID  string            `json:"team_id"`
	Players []injuryPlayerDTO `json:"players"`
	Error   string            `json:"error,omitempty"`
	Debug   *injuryDebugDTO   `json:"debug,omitempty"`
}

type injuriesQueryParams struct {
	HomeID   string `validate:"omitempty,max=32"`
	AwayID   string `validate:"omitempty,max=32"`
	HomeName string `validate:"omitempty,max=128"`
	AwayName string `validate:"omitempty,max=128"`
}

func injuryPlayerToDTO(rec injury.Record) injuryPlayerDTO {
	sources := make([]injurySourceDTO, 0, len(rec.Sources))
	for _, s := range rec.Sources {
		sources = append(sources, injurySourceDTO{Name: s.Name, URL: s.URL})
	}
	return injuryPlayerDTO{
		PlayerID:      rec.PlayerID,
		Name:          rec.Name,
		Pos:           nullableString(rec.Pos),
		Status:        rec.Status,
		Detail:        rec.Detail,
		Headshot:      nullableString(rec.Headshot),
		Team:          rec.Team,
		LastUpdatedTS: rec.LastUpdatedTS,
		Sources:       sources,
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func injuryDebugToDTO(trace usecase.InjuryTrace) *injuryDebugDTO {
	cacheState := "miss"
	if trace.CacheHit {
		cacheState = "hit"
	}
	return &injuryDebugDTO{
		GameID:    trace.GameID,
		HomeID:    trace.HomeID,
		AwayID:    trace.AwayID,
		HomeName:  trace.HomeName,
		AwayName:  trace.AwayName,
		Resolved:  trace.Resolved,
		Cache:     cacheState,
		HomeCount: trace.HomeCount,
		AwayCount: trace.AwayCount,
	}
}

func (h *Handler) GetGameInjuries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameInjuries")
	defer span.End()

	query := r.URL.Query()
	debug := queryFlag(r, "debug")

	params := injuriesQueryParams{
		HomeID:   query.Get("homeId"),
		AwayID:   query.Get("awayId"),
		HomeName: query.Get("homeName"),
		AwayName: query.Get("awayName"),
	}
	if err := h.validator.Struct(params); err != nil {
		writeJSON(ctx, w, injuriesResponse{TeamID: "mixed", Players: []injuryPlayerDTO{}, Error: err.Error()})
		return
	}

	report, trace, err := h.injuryService.Get(ctx, usecase.InjuryQuery{
		GameID:   r.PathValue("id"),
		HomeID:   params.HomeID,
		AwayID:   params.AwayID,
		HomeName: params.HomeName,
		AwayName: params.AwayName,
		Force:    queryFlag(r, "force"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "get injuries failed", "game_id", trace.GameID, "error", err)
		resp := injuriesResponse{TeamID: "mixed", Players: []injuryPlayerDTO{}, Error: err.Error()}
		if debug {
			resp.Debug = injuryDebugToDTO(trace)
		}
		writeJSON(ctx, w, resp)
		return
	}

	players := make([]injuryPlayerDTO, 0, len(report.Players))
	for _, rec := range report.Players {
		players = append(players, injuryPlayerToDTO(rec))
	}

	resp := injuriesResponse{TeamID: report.TeamID, Players: players}
	if debug {
		resp.Debug = injuryDebugToDTO(trace)
	}
	writeJSON(ctx, w, resp)
}
