// preprocessor.go implements the composition pre-processor. It expands a
// shader source against the set of registered composable modules: conditional
// blocks are kept or stripped according to the active definitions map, and
// #import directives are replaced with the (recursively pre-processed) source
// of the named module. Each module is spliced at most once per composition,
// and import cycles are detected against the active splice stack.
package composer

import (
	"fmt"
	"slices"
	"strings"
)

// composableModule is a registered module held by the composer's registry.
type composableModule struct {
	// name is the symbolic import name the module is registered under.
	name string

	// filePath labels the module's on-disk origin for error reporting.
	filePath string

	// language is the shading dialect of the module source.
	language Language

	// source is the raw module source, directives included.
	source string

	// definitions are the module's own preprocessor definitions. Top-level
	// definitions take precedence over these when the module is spliced.
	definitions map[string]string

	// additionalImports are module names spliced ahead of the module's own
	// source, as if the module began with one #import per entry.
	additionalImports []string
}

// condFrame tracks one open #ifdef/#ifndef block during pre-processing.
type condFrame struct {
	// parentActive is whether the enclosing block was emitting lines.
	parentActive bool

	// taken is whether the block's condition held.
	taken bool

	// seenElse is whether the block's #else has been consumed.
	seenElse bool
}

// active reports whether lines inside this frame are currently emitted.
func (f condFrame) active() bool {
	if f.seenElse {
		return f.parentActive && !f.taken
	}
	return f.parentActive && f.taken
}

// preProcessor expands directives against a registry of composable modules.
type preProcessor struct {
	// modules is the composer's registry, keyed by symbolic import name.
	modules map[string]*composableModule
}

// newPreProcessor creates a pre-processor over the given module registry.
// The registry is shared with the composer, not copied: modules registered
// after construction are visible to later Process calls.
//
// Parameters:
//   - modules: the composable module registry keyed by import name
//
// Returns:
//   - *preProcessor: a ready-to-use pre-processor
func newPreProcessor(modules map[string]*composableModule) *preProcessor {
	return &preProcessor{modules: modules}
}

// Process expands all directives in a top-level shader source: conditional
// blocks are resolved against the definitions map and #import directives are
// replaced with registered module source. Returns the flattened source with
// no directives remaining.
//
// Parameters:
//   - source: the raw shader source to expand
//   - filePath: the file-path label of the source for error reporting
//   - definitions: the active preprocessor definitions
//
// Returns:
//   - string: the expanded source
//   - error: a cause-chained error if a directive is malformed, an import is
//     unknown, or an import cycle is detected
func (p *preProcessor) Process(source, filePath string, definitions map[string]string) (string, error) {
	spliced := make(map[string]bool)
	return p.process(source, filePath, definitions, spliced, nil)
}

// process is the recursive worker behind Process. The spliced set persists for
// the whole composition so each module is injected at most once; the stack
// holds the names currently being spliced for cycle detection.
func (p *preProcessor) process(source, filePath string, definitions map[string]string, spliced map[string]bool, stack []string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	var conds []condFrame

	// emitting reports whether the innermost open conditional block (if any)
	// is currently keeping lines.
	emitting := func() bool {
		if len(conds) == 0 {
			return true
		}
		return conds[len(conds)-1].active()
	}

	for i, line := range lines {
		d, err := parseDirective(line, i+1)
		if err != nil {
			return "", chainf(err, "invalid directive in %q", filePath)
		}
		if d == nil {
			if emitting() {
				out = append(out, line)
			}
			continue
		}

		switch d.Type {
		case DirectiveTypeDefineImportPath:
			// consumed at registration time; produces no output

		case DirectiveTypeIfdef, DirectiveTypeIfndef:
			_, defined := definitions[d.Arg]
			taken := defined
			if d.Type == DirectiveTypeIfndef {
				taken = !defined
			}
			conds = append(conds, condFrame{parentActive: emitting(), taken: taken})

		case DirectiveTypeElse:
			if len(conds) == 0 {
				return "", chainf(fmt.Errorf("line %d: #else without matching #ifdef", d.Line), "invalid directive in %q", filePath)
			}
			top := &conds[len(conds)-1]
			if top.seenElse {
				return "", chainf(fmt.Errorf("line %d: duplicate #else", d.Line), "invalid directive in %q", filePath)
			}
			top.seenElse = true

		case DirectiveTypeEndif:
			if len(conds) == 0 {
				return "", chainf(fmt.Errorf("line %d: #endif without matching #ifdef", d.Line), "invalid directive in %q", filePath)
			}
			conds = conds[:len(conds)-1]

		case DirectiveTypeImport:
			if !emitting() {
				continue
			}
			expanded, err := p.splice(d.Arg, definitions, spliced, stack)
			if err != nil {
				return "", chainf(err, "line %d: cannot import %q", d.Line, d.Arg)
			}
			if expanded != "" {
				out = append(out, expanded)
			}
		}
	}

	if len(conds) > 0 {
		return "", chainf(fmt.Errorf("unterminated #ifdef block"), "invalid directive in %q", filePath)
	}

	return strings.Join(out, "\n"), nil
}

// splice expands one registered module by name, recursively pre-processing its
// source. A module already spliced during this composition expands to the
// empty string. The module's own definitions apply underneath the caller's.
func (p *preProcessor) splice(name string, definitions map[string]string, spliced map[string]bool, stack []string) (string, error) {
	// A name on the active stack is a genuine cycle; a name already spliced
	// but off the stack is a diamond import and expands to nothing.
	if slices.Contains(stack, name) {
		return "", fmt.Errorf("import cycle detected: %s -> %s", strings.Join(stack, " -> "), name)
	}
	if spliced[name] {
		return "", nil
	}
	mod, ok := p.modules[name]
	if !ok {
		return "", fmt.Errorf("no composable module registered as %q", name)
	}

	spliced[name] = true
	stack = append(stack, name)

	merged := make(map[string]string, len(mod.definitions)+len(definitions))
	for k, v := range mod.definitions {
		merged[k] = v
	}
	for k, v := range definitions {
		merged[k] = v
	}

	parts := make([]string, 0, len(mod.additionalImports)+1)
	for _, extra := range mod.additionalImports {
		expanded, err := p.splice(extra, merged, spliced, stack)
		if err != nil {
			return "", chainf(err, "cannot import %q", extra)
		}
		if expanded != "" {
			parts = append(parts, expanded)
		}
	}

	expanded, err := p.process(mod.source, mod.filePath, merged, spliced, stack)
	if err != nil {
		return "", err
	}
	parts = append(parts, expanded)

	return strings.Join(parts, "\n"), nil
}

// validateDirectives checks a module source for directive syntax errors and
// unbalanced conditional blocks without resolving imports. Used at module
// registration time, when the full registry is not yet populated.
//
// Parameters:
//   - source: the raw module source to check
//
// Returns:
//   - error: a descriptive error for the first malformed or unbalanced directive
func validateDirectives(source string) error {
	depth := 0
	elseSeen := make([]bool, 0, 4)

	for i, line := range strings.Split(source, "\n") {
		d, err := parseDirective(line, i+1)
		if err != nil {
			return err
		}
		if d == nil {
			continue
		}
		switch d.Type {
		case DirectiveTypeIfdef, DirectiveTypeIfndef:
			depth++
			elseSeen = append(elseSeen, false)
		case DirectiveTypeElse:
			if depth == 0 {
				return fmt.Errorf("line %d: #else without matching #ifdef", d.Line)
			}
			if elseSeen[depth-1] {
				return fmt.Errorf("line %d: duplicate #else", d.Line)
			}
			elseSeen[depth-1] = true
		case DirectiveTypeEndif:
			if depth == 0 {
				return fmt.Errorf("line %d: #endif without matching #ifdef", d.Line)
			}
			depth--
			elseSeen = elseSeen[:depth]
		}
	}

	if depth > 0 {
		return fmt.Errorf("unterminated #ifdef block")
	}
	return nil
}
