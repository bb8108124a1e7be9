package ld

import "fmt"

// EmptyInputError is returned by operations that need at least one candidate
// variant but received none.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: empty input", e.Op)
}

// DimensionMismatchError is returned when two dosage columns do not share the
// same individual index space.
type DimensionMismatchError struct {
	LenX, LenY int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dosage columns have different lengths: %d vs %d", e.LenX, e.LenY)
}

// InsufficientOverlapError is returned when fewer than two individuals have
// non-missing dosage for both members of a pair.
type InsufficientOverlapError struct {
	N int
}

func (e *InsufficientOverlapError) Error() string {
	return fmt.Sprintf("only %d jointly observed individuals, need at least 2", e.N)
}

// UndefinedCorrelationError is returned when one member of a pair has zero
// variance among the jointly observed individuals, leaving the correlation
// mathematically undefined. It is never silently coerced to 0 or NaN.
type UndefinedCorrelationError struct {
	N int
}

func (e *UndefinedCorrelationError) Error() string {
	return fmt.Sprintf("zero dosage variance among %d jointly observed individuals", e.N)
}
