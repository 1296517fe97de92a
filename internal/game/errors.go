package game

import "fmt"

// ValidationError rejects an illegal action before any event is appended.
// Recoverable: the caller may retry with a corrected action.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConsistencyError means the event log violates an invariant the reducer
// depends on (sequence gaps, negative chips, pot mismatch). Fatal for the
// game: derivation stops, nothing is auto-corrected.
type ConsistencyError struct {
	GameID     string
	HandNumber int
	Detail     string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("game %s hand %d: %s", e.GameID, e.HandNumber, e.Detail)
}

func consistencyErrorf(gameID string, handNumber int, format string, args ...any) *ConsistencyError {
	return &ConsistencyError{
		GameID:     gameID,
		HandNumber: handNumber,
		Detail:     fmt.Sprintf(format, args...),
	}
}
