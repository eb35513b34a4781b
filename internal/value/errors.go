package value

import "fmt"

// MismatchError is raised when a Destructure/QQuoteDestr walk's scrutinee
// doesn't have the shape the pattern being walked expects.
type MismatchError struct {
	Got, Expected Value
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("pattern mismatch: expected %v, got %v", e.Expected, e.Got)
}
