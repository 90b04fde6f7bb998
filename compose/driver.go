// driver.go implements the composition driver, the orchestrator behind one
// shader composition request: it scans the whole project for shader sources,
// registers each one as a composable module with a fresh composer, composes
// the entry source against them, and accumulates the request's diagnostics
// and dependency paths on the SourceUnit as it goes.
package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-compose/composer"
)

// driver is the implementation of the Driver interface.
type driver struct {
	shaderRoot   string
	scanner      ProjectShaderScanner
	resolver     PathResolver
	definitions  map[string]string
	shaderType   composer.ShaderType
	newComposer  func() composer.Composer
	batchWorkers int
}

// Driver orchestrates shader composition requests against one project. Every
// request constructs fresh state: a new composer instance and a new project
// scan. Nothing is cached between requests, so concurrent requests in
// separate goroutines need no locking.
type Driver interface {
	// NewSourceUnit creates the per-request SourceUnit by resolving the
	// requested path through the driver's PathResolver. The returned unit is
	// in the Resolved state, ready for Compose.
	//
	// Parameters:
	//   - invocationDir: the directory of the file issuing the request
	//   - requestedPath: the path string naming the desired entry shader
	//
	// Returns:
	//   - *SourceUnit: the resolved unit
	//   - error: a *NotFoundError if no resolution strategy succeeds
	NewSourceUnit(invocationDir, requestedPath string) (*SourceUnit, error)

	// Compose runs the full composition for one resolved unit: scan the
	// project, register every readable shader (the entry file excluded) as a
	// composable module, then compose the entry source. Registration and
	// composition failures are appended to the unit's diagnostics; a project
	// file that cannot be read during registration is skipped with no
	// diagnostic and no dependency entry. Only an unreadable scan root or
	// directory fails the call itself.
	//
	// Compose consumes the unit: it must be in the Resolved state and is left
	// Composed (terminal) on return.
	//
	// Parameters:
	//   - unit: the resolved unit to compose
	//
	// Returns:
	//   - composer.Module: the validated module, or the default empty module
	//     when composition fails (inspect the unit's diagnostics for severity)
	//   - error: a descriptive error if the project scan fails
	Compose(unit *SourceUnit) (composer.Module, error)

	// Complete resolves nothing and composes everything: it runs Compose and
	// packages the module together with the unit's final diagnostics and
	// dependency list.
	//
	// Parameters:
	//   - unit: the resolved unit to compose
	//
	// Returns:
	//   - Result: the module, diagnostics, and dependencies of the request
	//   - error: a descriptive error if the project scan fails
	Complete(unit *SourceUnit) (Result, error)

	// ComposeBatch composes several entry shaders concurrently, one fresh
	// request per entry. See batch.go for semantics.
	//
	// Parameters:
	//   - requests: the entry requests to compose
	//
	// Returns:
	//   - []BatchResult: one result per request, in request order
	ComposeBatch(requests []BatchRequest) []BatchResult

	// ShaderRoot returns the project shader source root this driver scans.
	//
	// Returns:
	//   - string: the shader source root directory
	ShaderRoot() string

	// Resolver returns the PathResolver used to create source units.
	//
	// Returns:
	//   - PathResolver: the driver's resolver
	Resolver() PathResolver
}

var _ Driver = &driver{}

// NewDriver creates a new Driver for the project rooted at shaderRoot with all
// specified options applied. The shader root is required; resolution,
// scanning, and composer construction fall back to the package defaults
// (validation on, maximal capabilities).
//
// Parameters:
//   - shaderRoot: the project shader source root directory (must not be empty)
//   - options: functional options to further configure the driver
//
// Returns:
//   - Driver: a ready-to-use driver
func NewDriver(shaderRoot string, options ...DriverBuilderOption) Driver {
	if shaderRoot == "" {
		panic("compose: NewDriver requires a non-empty shader source root")
	}
	d := &driver{
		shaderRoot: shaderRoot,
		shaderType: composer.ShaderTypeAuto,
	}
	for _, opt := range options {
		opt(d)
	}
	if d.scanner == nil {
		d.scanner = NewProjectShaderScanner()
	}
	if d.resolver == nil {
		d.resolver = NewPathResolver(shaderRoot)
	}
	if d.newComposer == nil {
		d.newComposer = func() composer.Composer {
			return composer.NewComposer()
		}
	}
	return d
}

func (d *driver) NewSourceUnit(invocationDir, requestedPath string) (*SourceUnit, error) {
	unit := &SourceUnit{invocationPath: invocationDir}

	src, path, err := d.resolver.Resolve(invocationDir, requestedPath)
	if err != nil {
		return nil, err
	}

	unit.rawSource = src
	unit.resolvedPath = path
	unit.state = UnitStateResolved
	return unit, nil
}

func (d *driver) Compose(unit *SourceUnit) (composer.Module, error) {
	if unit == nil {
		panic("compose: Compose requires a non-nil SourceUnit")
	}
	if unit.state != UnitStateResolved {
		panic(fmt.Sprintf("compose: Compose requires a resolved, unconsumed SourceUnit (state %d)", unit.state))
	}

	shaders, err := d.scanner.Scan(d.shaderRoot)
	if err != nil {
		return nil, err
	}

	comp := d.newComposer()
	for _, s := range shaders {
		// The entry file is the root of the composition, not an importable leaf.
		if s.Path == unit.resolvedPath {
			continue
		}
		language, ok := composer.LanguageFromPath(s.Path)
		if !ok {
			continue
		}
		data, readErr := os.ReadFile(s.Path)
		if readErr != nil {
			continue
		}

		regErr := comp.AddComposableModule(composer.ComposableModuleDescriptor{
			Source:      string(data),
			FilePath:    s.Path,
			Language:    language,
			AsName:      filepath.ToSlash(s.RelPath),
			Definitions: d.definitions,
		})

		// Every readable project shader is a build dependency, registered or
		// not, imported or not.
		unit.pushDependency(s.Path)

		if regErr != nil {
			unit.pushDiagnostic(RenderErrorChain(regErr))
		}
	}

	m, err := comp.MakeModule(composer.ModuleDescriptor{
		Source:      unit.rawSource,
		FilePath:    unit.resolvedPath,
		ShaderType:  d.shaderType,
		Definitions: d.definitions,
	})
	if err != nil {
		unit.pushDiagnostic(RenderErrorChain(err))
		m = composer.EmptyModule()
	}

	unit.markComposed()
	return m, nil
}

func (d *driver) Complete(unit *SourceUnit) (Result, error) {
	m, err := d.Compose(unit)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Module:       m,
		Diagnostics:  unit.Diagnostics(),
		Dependencies: unit.Dependencies(),
	}, nil
}

func (d *driver) ShaderRoot() string {
	return d.shaderRoot
}

func (d *driver) Resolver() PathResolver {
	return d.resolver
}
