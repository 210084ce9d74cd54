package httpapi

import (
	"net/http"
)

type spotlightPlayerDTO struct {
	PlayerID   string  `json:"player_id"`
	Name       string  `json:"name"`
	Pos        string  `json:"pos"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

type spotlightsResponse struct {
	TeamID  string               `json:"team_id"`
	Players []spotlightPlayerDTO `json:"players"`
	Error   string               `json:"error,omitempty"`
}

func (h *Handler) GetGameSpotlights(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameSpotlights")
	defer span.End()

	report, err := h.spotlightService.Get(ctx, r.PathValue("id"))
	if err != nil {
		writeJSON(ctx, w, spotlightsResponse{TeamID: "TBD", Players: []spotlightPlayerDTO{}, Error: err.Error()})
		return
	}

	players := make([]spotlightPlayerDTO, 0, len(report.Players))
	for _, p := range report.Players {
		players = append(players, spotlightPlayerDTO{
			PlayerID:   p.PlayerID,
			Name:       p.Name,
			Pos:        p.Pos,
			Confidence: p.Confidence,
			Rationale:  p.Rationale,
		})
	}
	writeJSON(ctx, w, spotlightsResponse{TeamID: report.TeamID, Players: players})
}
