package compose

import "github.com/Carmen-Shannon/oxy-compose/composer"

// Result is the final outcome of one composition request: the validated
// module (or the default empty module on failure), the rendered diagnostics
// in insertion order, and the over-approximated dependency list for
// incremental-rebuild tracking.
type Result struct {
	// Module is the composed, validated module. When composition failed it is
	// the default empty module; check Diagnostics to decide severity.
	Module composer.Module

	// Diagnostics are the rendered failure messages accumulated during the
	// request, in insertion order. Empty on a clean composition.
	Diagnostics []string

	// Dependencies are the canonical paths of every project shader scanned
	// during the request, entry file excluded. Any change to any listed file
	// should invalidate a cached result for this entry point.
	Dependencies []string
}

// Ok reports whether the request composed cleanly: a real module and no
// diagnostics.
//
// Returns:
//   - bool: true if the module is real and no diagnostics were recorded
func (r Result) Ok() bool {
	return r.Module != nil && !r.Module.Empty() && len(r.Diagnostics) == 0
}
