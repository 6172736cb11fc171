package rating

import "fmt"

// InvalidInputError rejects caller-correctable input (blank article text)
// before any oracle call is issued.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// UnparsableScoreError reports an oracle response with no extractable
// numeral. The client did nothing wrong; this is an upstream failure.
type UnparsableScoreError struct {
	Raw string
}

func (e *UnparsableScoreError) Error() string {
	return fmt.Sprintf("no numeric score in oracle response %q", e.Raw)
}

// BatchError fails an entire dimension batch because of a single
// dimension's transport, timeout, or parse failure. A rating with
// silently-missing dimensions is worse than no rating.
type BatchError struct {
	Dimension string
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("dimension %s: %v", e.Dimension, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// RatingFailedError is the top-level failure returned by the orchestrator,
// wrapping the underlying batch or configuration error.
type RatingFailedError struct {
	Err error
}

func (e *RatingFailedError) Error() string {
	return "bias rating failed: " + e.Err.Error()
}

func (e *RatingFailedError) Unwrap() error {
	return e.Err
}
