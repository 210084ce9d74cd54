package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gridironai/gameday/internal/usecase"
)

type Handler struct {
	boardService     *usecase.BoardService
	injuryService    *usecase.InjuryService
	tendencyService  *usecase.TendencyService
	spotlightService *usecase.SpotlightService
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	boardService *usecase.BoardService,
	injuryService *usecase.InjuryService,
	tendencyService *usecase.TendencyService,
	spotlightService *usecase.SpotlightService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		boardService:     boardService,
		injuryService:    injuryService,
		tendencyService:  tendencyService,
		spotlightService: spotlightService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeJSON(ctx, w, map[string]any{
		"ok": true,
		"ts": time.Now().UTC().Format(time.RFC3339),
	})
}

func queryFlag(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "1"
}
