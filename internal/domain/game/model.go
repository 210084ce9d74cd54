package game

// TeamRef identifies one participant of a scheduled contest. A zero ID means
// the side could not be resolved and must be skipped, not treated as an error.
type TeamRef struct {
	ID          string
	DisplayName string
}

func (t TeamRef) Resolved() bool {
	return t.ID != ""
}

// Meta is the scoreboard-level view of one event.
type Meta struct {
	ID        string
	Name      string
	ShortName string
	Date      string
	Status    string
	Completed bool
	Home      TeamRef
	Away      TeamRef
}

// Teams holds both resolved sides of a game. Either side may be unresolved.
type Teams struct {
	Home TeamRef
	Away TeamRef
}
