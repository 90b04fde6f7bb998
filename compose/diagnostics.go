package compose

import (
	"errors"
	"strings"
)

// RenderErrorChain flattens an error's nested-cause chain into one readable
// line: each level's description from outermost to innermost, joined with
// ": ". Errors whose types report only their own message from Error() and
// expose causes via Unwrap() (as the composer's error types do) flatten with
// no duplicated text.
//
// Parameters:
//   - err: the error whose cause chain to flatten
//
// Returns:
//   - string: the flattened message, empty if err is nil
func RenderErrorChain(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(err.Error())
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		sb.WriteString(": ")
		sb.WriteString(cause.Error())
	}
	return sb.String()
}
