package tendency

// Summary holds derived offensive tendency rates for one team. PassRatePct and
// RushRatePct always sum to exactly 100.
type Summary struct {
	SampleGames       int
	PassRatePct       int
	RushRatePct       int
	ThirdDownPct      int
	RedZonePct        int
	PlaysPerGame      int
	TimePossessionAvg string
}

// TeamReport pairs a resolved team with its summary. Summary is nil when both
// derivation tiers were exhausted for that side.
type TeamReport struct {
	TeamID  string
	Team    string
	Summary *Summary
}
