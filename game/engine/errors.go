package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDecision = errors.New("invalid decision")
	ErrInvalidState    = errors.New("invalid engine state")
)

// DecisionError reports a provider answer outside {0,1}.
type DecisionError struct {
	PlayerID int
	Query    string
	Value    int
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("player %d answered %d to %s query, want 0 or 1", e.PlayerID, e.Value, e.Query)
}

func (e *DecisionError) Unwrap() error { return ErrInvalidDecision }

// StateError reports an operation called at the wrong point of the episode lifecycle.
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }
