// errors.go defines the structured error types returned by the Composer.
// Each type reports only its own description from Error() and exposes its
// underlying cause through Unwrap(), so callers can flatten the full cause
// chain one level per error without duplicated text.
package composer

import "fmt"

// ModuleError reports a failure to register a composable module.
// The module's symbolic name identifies which registration failed; the
// underlying cause is available via Unwrap.
type ModuleError struct {
	// Name is the symbolic import name the module was being registered under.
	Name string

	// Err is the underlying cause of the registration failure.
	Err error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("failed to register composable module %q", e.Name)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// ComposeError reports a failure to compose or validate a top-level shader.
// The file path labels which source failed; the underlying cause is available
// via Unwrap.
type ComposeError struct {
	// FilePath is the file-path label of the source that failed to compose.
	FilePath string

	// Err is the underlying cause of the composition failure.
	Err error
}

func (e *ComposeError) Error() string {
	return fmt.Sprintf("failed to compose shader %q", e.FilePath)
}

func (e *ComposeError) Unwrap() error {
	return e.Err
}

// chainError is an internal cause-chain link: it carries one description and
// one underlying cause, keeping each level of a chain to a single message.
type chainError struct {
	msg string
	err error
}

func (e *chainError) Error() string {
	return e.msg
}

func (e *chainError) Unwrap() error {
	return e.err
}

// chainf wraps err under a new single-message chain level.
//
// Parameters:
//   - err: the underlying cause to wrap
//   - format: the printf-style format for this level's description
//   - args: the format arguments
//
// Returns:
//   - error: a chain link whose Error() is only the formatted description
func chainf(err error, format string, args ...any) error {
	return &chainError{msg: fmt.Sprintf(format, args...), err: err}
}
