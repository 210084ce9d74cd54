package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/health", handler.Health)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/games", handler.ListGames)
	mux.HandleFunc("GET /api/games/{id}", handler.GetGame)
	mux.HandleFunc("GET /api/games/{id}/injuries", handler.GetGameInjuries)
	mux.HandleFunc("GET /api/games/{id}/tendencies", handler.GetGameTendencies)
	mux.HandleFunc("GET /api/games/{id}/spotlights", handler.GetGameSpotlights)
}
