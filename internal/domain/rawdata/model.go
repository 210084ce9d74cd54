package rawdata

import "time"

// Payload is one raw upstream response kept for debugging and replay. Derived
// views are never persisted; only what the provider actually returned is.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	GameID      string
	TeamID      string
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}
