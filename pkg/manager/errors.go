package manager

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveSession means run was invoked with an empty session store.
	ErrNoActiveSession = errors.New("no active session found, start one first")

	// ErrAmbiguousSession means several sessions are live and none was named.
	ErrAmbiguousSession = errors.New("multiple sessions found, specify one with -s")
)

// UnknownSessionError reports a named session that is not in the store.
type UnknownSessionError struct {
	ID string
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("session %s does not exist", e.ID)
}
