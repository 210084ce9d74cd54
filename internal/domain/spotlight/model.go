package spotlight

// Player is a highlighted matchup pick for the game view.
type Player struct {
	PlayerID   string
	Name       string
	Pos        string
	Confidence float64
	Rationale  string
}
