// directives.go defines the directive types and parser for the composition
// pre-processor. Directives are single-line statements prefixed with # that
// drive module import splicing, import-path naming, and definition-conditional
// compilation. The parsed results are stored as Directive values and consumed
// by the pre-processor while composing a shader.
package composer

import (
	"fmt"
	"strings"
)

// directivePrefix is the marker that identifies a composition directive.
// Every directive must appear on a line whose first non-blank character
// begins this prefix.
const directivePrefix = "#"

// DirectiveType identifies the kind of directive parsed from a shader source line.
type DirectiveType string

const (
	// DirectiveTypeImport splices the source of a registered composable module
	// into the shader at the directive site. A module already spliced earlier in
	// the same composition is not spliced twice.
	//
	// Syntax: #import <module_name>
	//
	// Example: #import lighting/common.wgsl
	DirectiveTypeImport DirectiveType = "import"

	// DirectiveTypeDefineImportPath overrides the symbolic import name a module
	// is registered under. It produces no output and is consumed entirely during
	// registration.
	//
	// Syntax: #define_import_path <module_name>
	DirectiveTypeDefineImportPath DirectiveType = "define_import_path"

	// DirectiveTypeIfdef begins a conditional block that is kept only when the
	// named definition is present in the active definitions map.
	//
	// Syntax: #ifdef <definition>
	DirectiveTypeIfdef DirectiveType = "ifdef"

	// DirectiveTypeIfndef begins a conditional block that is kept only when the
	// named definition is absent from the active definitions map.
	//
	// Syntax: #ifndef <definition>
	DirectiveTypeIfndef DirectiveType = "ifndef"

	// DirectiveTypeElse inverts the innermost open conditional block.
	//
	// Syntax: #else
	DirectiveTypeElse DirectiveType = "else"

	// DirectiveTypeEndif closes the innermost open conditional block.
	//
	// Syntax: #endif
	DirectiveTypeEndif DirectiveType = "endif"
)

// Directive represents a single parsed # directive from a shader source line.
type Directive struct {
	// Type identifies which directive was parsed.
	Type DirectiveType

	// Arg holds the directive's argument: the module name for import and
	// define_import_path, the definition name for ifdef and ifndef, and the
	// empty string for else and endif.
	Arg string

	// Line is the 1-based line number in the original source where this
	// directive was found. Used for error reporting.
	Line int
}

// parseDirective attempts to parse a single line of shader source as a
// composition directive. Returns nil with no error for lines that do not begin
// with the directive prefix. Returns a populated Directive for valid
// directives, or an error describing the problem for lines with the prefix but
// invalid syntax.
//
// Parameters:
//   - line: the raw shader source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Directive: the parsed directive, or nil if the line is not a directive
//   - error: a descriptive error if the directive is malformed
func parseDirective(line string, lineNum int) (*Directive, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, directivePrefix) {
		return nil, nil
	}

	args := strings.Fields(strings.TrimPrefix(trimmed, directivePrefix))
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty # directive", lineNum)
	}

	switch args[0] {
	case string(DirectiveTypeImport):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: #import directive requires exactly one argument (module name)", lineNum)
		}
		return &Directive{
			Type: DirectiveTypeImport,
			Arg:  strings.Trim(args[1], `"`),
			Line: lineNum,
		}, nil
	case string(DirectiveTypeDefineImportPath):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: #define_import_path directive requires exactly one argument (module name)", lineNum)
		}
		return &Directive{
			Type: DirectiveTypeDefineImportPath,
			Arg:  strings.Trim(args[1], `"`),
			Line: lineNum,
		}, nil
	case string(DirectiveTypeIfdef), string(DirectiveTypeIfndef):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: #%s directive requires exactly one argument (definition name)", lineNum, args[0])
		}
		return &Directive{
			Type: DirectiveType(args[0]),
			Arg:  args[1],
			Line: lineNum,
		}, nil
	case string(DirectiveTypeElse), string(DirectiveTypeEndif):
		if len(args) != 1 {
			return nil, fmt.Errorf("line %d: #%s directive takes no arguments", lineNum, args[0])
		}
		return &Directive{
			Type: DirectiveType(args[0]),
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown # directive %q", lineNum, args[0])
	}
}

// scanImportPathOverride scans a module source for a #define_import_path
// directive and returns its module name if present. Only the first override
// wins; later ones are reported during pre-processing.
//
// Parameters:
//   - source: the raw module source to scan
//
// Returns:
//   - string: the overriding module name, or empty if none is declared
//   - error: a descriptive error if a directive line is malformed
func scanImportPathOverride(source string) (string, error) {
	for i, line := range strings.Split(source, "\n") {
		d, err := parseDirective(line, i+1)
		if err != nil {
			return "", err
		}
		if d != nil && d.Type == DirectiveTypeDefineImportPath {
			return d.Arg, nil
		}
	}
	return "", nil
}
