package compose

// UnitState identifies where a SourceUnit is in its single-pass lifecycle.
type UnitState int

const (
	// UnitStateUnresolved is the initial state: the unit exists but its entry
	// source has not been located yet.
	UnitStateUnresolved UnitState = iota

	// UnitStateResolved means the entry source has been located and read; the
	// unit is ready to be composed.
	UnitStateResolved

	// UnitStateComposed is the terminal state: diagnostics and dependencies
	// are final and a module (real or default) has been produced.
	UnitStateComposed
)

// SourceUnit is the per-request composition entity. It carries the entry
// shader's text and canonical location, and accumulates the request's
// diagnostics and dependency paths while the driver composes it. A unit is
// consumed exactly once: Unresolved, then Resolved, then Composed, with no
// backward transitions and no reuse.
type SourceUnit struct {
	rawSource      string
	resolvedPath   string
	invocationPath string
	state          UnitState
	diagnostics    []string
	dependencies   []string
}

// RawSource retrieves the entry shader's source text.
//
// Returns:
//   - string: the entry source text, empty while the unit is unresolved
func (u *SourceUnit) RawSource() string {
	return u.rawSource
}

// ResolvedPath retrieves the canonical (absolute, symlink-free) path the entry
// source was read from.
//
// Returns:
//   - string: the canonical entry path, empty while the unit is unresolved
func (u *SourceUnit) ResolvedPath() string {
	return u.resolvedPath
}

// InvocationPath retrieves the directory of the file that issued the request,
// used as the anchor for relative resolution.
//
// Returns:
//   - string: the invoking directory
func (u *SourceUnit) InvocationPath() string {
	return u.invocationPath
}

// State retrieves the unit's lifecycle state.
//
// Returns:
//   - UnitState: UnitStateUnresolved, UnitStateResolved, or UnitStateComposed
func (u *SourceUnit) State() UnitState {
	return u.state
}

// Diagnostics retrieves the rendered diagnostic messages accumulated so far,
// in insertion order. The sequence is append-only; it is never retroactively
// cleared.
//
// Returns:
//   - []string: the accumulated diagnostics
func (u *SourceUnit) Diagnostics() []string {
	return u.diagnostics
}

// Dependencies retrieves the canonical paths of every project shader file
// scanned during this request, in scan order. The entry file itself is never
// included. The list over-approximates the true import graph: any change to
// any listed file should invalidate cached results for this entry point.
//
// Returns:
//   - []string: the accumulated dependency paths
func (u *SourceUnit) Dependencies() []string {
	return u.dependencies
}

// pushDiagnostic appends one rendered diagnostic message.
func (u *SourceUnit) pushDiagnostic(message string) {
	u.diagnostics = append(u.diagnostics, message)
}

// pushDependency appends one canonical dependency path.
func (u *SourceUnit) pushDependency(path string) {
	u.dependencies = append(u.dependencies, path)
}

// markComposed moves the unit to its terminal state.
func (u *SourceUnit) markComposed() {
	u.state = UnitStateComposed
}
