package usecase

import crerr "github.com/cockroachdb/errors"

var (
	// ErrTeamsNotFound is surfaced verbatim in response bodies when a game id
	// cannot be matched on the event board.
	ErrTeamsNotFound = crerr.New("Teams not found")

	ErrGameNotFound          = crerr.New("game not found")
	ErrInvalidInput          = crerr.New("invalid input")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)
