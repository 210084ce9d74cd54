package injury

import "strings"

// Record is the canonical player-injury shape served to the dashboard.
// PlayerID is the upstream athlete id when present; otherwise an opaque
// generated token that is not stable across refreshes.
type Record struct {
	PlayerID      string
	Name          string
	Pos           string
	Status        string
	Detail        string
	Headshot      string
	Team          string
	LastUpdatedTS string
	Sources       []Source
}

type Source struct {
	Name string
	URL  string
}

// StatusHidden reports whether a reconciled status is considered
// non-noteworthy and must be excluded from the visible set.
func StatusHidden(status string) bool {
	switch strings.ToLower(status) {
	case "active", "probable":
		return true
	default:
		return false
	}
}
