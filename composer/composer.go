// composer.go implements the shader composer: a registry of named composable
// modules plus the top-level composition entry point. Modules are registered
// with AddComposableModule under a symbolic import name; MakeModule expands a
// top-level source against the registry, validates the result, and returns a
// Module carrying the flattened source and its reflection surface.
package composer

import (
	"fmt"
	"sort"
)

// ComposableModuleDescriptor describes one module registration: the module's
// source text, its file-path label for error reporting, its dialect, the
// symbolic name it is imported by, its preprocessor definitions, and any
// modules it implicitly imports.
type ComposableModuleDescriptor struct {
	// Source is the raw module source, directives included.
	Source string

	// FilePath labels the module's on-disk origin for error reporting.
	FilePath string

	// Language is the shading dialect of the module source.
	Language Language

	// AsName is the symbolic import name to register the module under.
	// A #define_import_path directive in the source overrides it.
	AsName string

	// Definitions are preprocessor definitions applied when the module is
	// spliced. Top-level definitions take precedence.
	Definitions map[string]string

	// AdditionalImports are module names spliced ahead of this module's own
	// source whenever it is imported.
	AdditionalImports []string
}

// ModuleDescriptor describes one top-level composition request: the entry
// source text, its file-path label, the target entry stage, and the active
// preprocessor definitions.
type ModuleDescriptor struct {
	// Source is the raw entry shader source, directives included.
	Source string

	// FilePath labels the entry source's on-disk origin for error reporting.
	FilePath string

	// ShaderType is the target entry stage, or ShaderTypeAuto to detect it.
	ShaderType ShaderType

	// Definitions are the composition's preprocessor definitions.
	Definitions map[string]string
}

// composerImpl is the implementation of the Composer interface.
type composerImpl struct {
	validate     bool
	capabilities Capability
	modules      map[string]*composableModule
	pp           *preProcessor
}

// Composer composes shaders from registered composable modules. Register every
// importable module with AddComposableModule, then call MakeModule with the
// entry source. A Composer accumulates registrations for the lifetime of one
// composition session and is not safe for concurrent use; construct a fresh
// Composer per request.
type Composer interface {
	// AddComposableModule registers a module under its symbolic import name.
	// Registration fails if the module's directives are malformed, if it has
	// no import name, or if the name is already registered. A failed
	// registration leaves the registry unchanged.
	//
	// Parameters:
	//   - desc: the module registration descriptor
	//
	// Returns:
	//   - error: a *ModuleError carrying the cause chain if registration fails
	AddComposableModule(desc ComposableModuleDescriptor) error

	// MakeModule composes the top-level entry source against the registered
	// modules: imports are spliced, conditionals resolved, and the result
	// validated against the composer's capability set.
	//
	// Parameters:
	//   - desc: the top-level composition descriptor
	//
	// Returns:
	//   - Module: the validated module, nil on failure
	//   - error: a *ComposeError carrying the cause chain if composition fails
	MakeModule(desc ModuleDescriptor) (Module, error)

	// ModuleNames returns the symbolic names of all registered modules, sorted.
	//
	// Returns:
	//   - []string: the sorted registered module names
	ModuleNames() []string

	// Validate reports whether validation is enabled for this composer.
	//
	// Returns:
	//   - bool: true if composed modules are validated
	Validate() bool

	// Capabilities returns the capability envelope composed modules are
	// validated against.
	//
	// Returns:
	//   - Capability: the declared capability set
	Capabilities() Capability
}

var _ Composer = &composerImpl{}

// NewComposer creates a new Composer with an empty module registry. Validation
// is enabled and the maximal capability set declared unless options say
// otherwise.
//
// Parameters:
//   - options: functional options to further configure the composer
//
// Returns:
//   - Composer: a ready-to-use composer instance
func NewComposer(options ...ComposerBuilderOption) Composer {
	c := &composerImpl{
		validate:     true,
		capabilities: CapabilitiesAll(),
		modules:      make(map[string]*composableModule),
	}
	for _, opt := range options {
		opt(c)
	}
	c.pp = newPreProcessor(c.modules)
	return c
}

func (c *composerImpl) AddComposableModule(desc ComposableModuleDescriptor) error {
	name := desc.AsName

	override, err := scanImportPathOverride(desc.Source)
	if err != nil {
		return &ModuleError{Name: name, Err: err}
	}
	if override != "" {
		name = override
	}
	if name == "" {
		return &ModuleError{Name: desc.FilePath, Err: fmt.Errorf("module has no import name: provide AsName or a #define_import_path directive")}
	}

	if _, exists := c.modules[name]; exists {
		return &ModuleError{Name: name, Err: fmt.Errorf("a module is already registered as %q", name)}
	}

	if err := validateDirectives(desc.Source); err != nil {
		return &ModuleError{Name: name, Err: chainf(err, "invalid directive in %q", desc.FilePath)}
	}

	c.modules[name] = &composableModule{
		name:              name,
		filePath:          desc.FilePath,
		language:          desc.Language,
		source:            desc.Source,
		definitions:       desc.Definitions,
		additionalImports: desc.AdditionalImports,
	}
	return nil
}

func (c *composerImpl) MakeModule(desc ModuleDescriptor) (Module, error) {
	expanded, err := c.pp.Process(desc.Source, desc.FilePath, desc.Definitions)
	if err != nil {
		return nil, &ComposeError{FilePath: desc.FilePath, Err: err}
	}

	m, err := buildModule(expanded, desc.FilePath, desc.ShaderType, c.capabilities, c.validate)
	if err != nil {
		return nil, &ComposeError{FilePath: desc.FilePath, Err: chainf(err, "module validation failed")}
	}

	return m, nil
}

func (c *composerImpl) ModuleNames() []string {
	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *composerImpl) Validate() bool {
	return c.validate
}

func (c *composerImpl) Capabilities() Capability {
	return c.capabilities
}
