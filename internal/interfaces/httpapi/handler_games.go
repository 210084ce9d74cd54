package httpapi

import (
	"net/http"

	"github.com/gridironai/gameday/internal/domain/game"
)

type gameMetaDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ShortName  string `json:"short_name"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Completed  bool   `json:"completed"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
}

type gamesListResponse struct {
	Games []gameMetaDTO `json:"games"`
	Error string        `json:"error,omitempty"`
}

func gameToDTO(meta game.Meta) gameMetaDTO {
	return gameMetaDTO{
		ID:         meta.ID,
		Name:       meta.Name,
		ShortName:  meta.ShortName,
		Date:       meta.Date,
		Status:     meta.Status,
		Completed:  meta.Completed,
		HomeTeamID: meta.Home.ID,
		AwayTeamID: meta.Away.ID,
		HomeTeam:   meta.Home.DisplayName,
		AwayTeam:   meta.Away.DisplayName,
	}
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	games, err := h.boardService.ListGames(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeJSON(ctx, w, gamesListResponse{Games: []gameMetaDTO{}, Error: err.Error()})
		return
	}

	items := make([]gameMetaDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}
	writeJSON(ctx, w, gamesListResponse{Games: items})
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := r.PathValue("id")
	meta, err := h.boardService.GetGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeJSON(ctx, w, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(ctx, w, gameToDTO(meta))
}
