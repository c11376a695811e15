// ABOUTME: Error sentinels shared by the schedule and session engines.
// ABOUTME: Precondition errors are surfaced to the user and never retried.
package models

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition marks a caller mistake such as an unknown reference.
	ErrPrecondition = errors.New("precondition failed")

	// ErrInvalidTransition is returned for state changes outside the state machine.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNoSets is returned when finishing a session that has no logged sets.
	ErrNoSets = fmt.Errorf("%w: session requires at least 1 set", ErrPrecondition)
)
