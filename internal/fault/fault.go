// Package fault holds the fatal error classes of a game. None of them are
// recoverable: losing a seat is a normal outcome and never surfaces as an error.
package fault

import "errors"

var (
	// ErrContractViolation marks a programmer error such as arming the seat
	// gate with negative permits or eliminating the same actor twice.
	ErrContractViolation = errors.New("contract violation")

	// ErrInvalidState is returned when an operation is not valid for the
	// current game state, e.g. asking for a winner while the game is running.
	ErrInvalidState = errors.New("invalid state")

	// ErrLivenessFault marks a round whose actors did not all report an
	// outcome after the barrier opened.
	ErrLivenessFault = errors.New("liveness fault")
)
