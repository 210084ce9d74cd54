package usecase

import (
	"context"

	"github.com/gridironai/gameday/internal/domain/spotlight"
)

type SpotlightReport struct {
	TeamID  string
	Players []spotlight.Player
}

// SpotlightService serves placeholder matchup picks until a real model
// backs this view.
type SpotlightService struct{}

func NewSpotlightService() *SpotlightService {
	return &SpotlightService{}
}

func (s *SpotlightService) Get(ctx context.Context, gameID string) (SpotlightReport, error) {
	_, span := startUsecaseSpan(ctx, "SpotlightService.Get")
	defer span.End()

	return SpotlightReport{
		TeamID: "TBD",
		Players: []spotlight.Player{
			{
				PlayerID:   "qb1",
				Name:       "QB Spotlight",
				Pos:        "QB",
				Confidence: 70.2,
				Rationale:  "Offense leaning pass vs favorable defense.",
			},
			{
				PlayerID:   "wr1",
				Name:       "WR Spotlight",
				Pos:        "WR",
				Confidence: 66.4,
				Rationale:  "Strong role + zone advantage.",
			},
		},
	}, nil
}
