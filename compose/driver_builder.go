package compose

import "github.com/Carmen-Shannon/oxy-compose/composer"

// DriverBuilderOption is a function that configures a driver instance during construction.
type DriverBuilderOption func(*driver)

// WithResolver is an option builder that sets the PathResolver used to create
// source units. The default resolver is anchored at the driver's shader root.
//
// Parameters:
//   - resolver: the resolver to use
//
// Returns:
//   - DriverBuilderOption: a function that applies the resolver option to a driver
func WithResolver(resolver PathResolver) DriverBuilderOption {
	return func(d *driver) {
		d.resolver = resolver
	}
}

// WithScanner is an option builder that sets the ProjectShaderScanner used to
// discover project shader files.
//
// Parameters:
//   - scanner: the scanner to use
//
// Returns:
//   - DriverBuilderOption: a function that applies the scanner option to a driver
func WithScanner(scanner ProjectShaderScanner) DriverBuilderOption {
	return func(d *driver) {
		d.scanner = scanner
	}
}

// WithDefinitions is an option builder that sets the preprocessor definitions
// applied to every module registration and entry composition.
//
// Parameters:
//   - definitions: the definitions map
//
// Returns:
//   - DriverBuilderOption: a function that applies the definitions option to a driver
func WithDefinitions(definitions map[string]string) DriverBuilderOption {
	return func(d *driver) {
		d.definitions = definitions
	}
}

// WithShaderType is an option builder that sets the target entry stage
// requested from the composer. The default is composer.ShaderTypeAuto.
//
// Parameters:
//   - shaderType: the entry stage to request
//
// Returns:
//   - DriverBuilderOption: a function that applies the shader type option to a driver
func WithShaderType(shaderType composer.ShaderType) DriverBuilderOption {
	return func(d *driver) {
		d.shaderType = shaderType
	}
}

// WithComposerFactory is an option builder that sets the factory invoked to
// construct the fresh composer each request uses. The default factory builds a
// validating composer with the maximal capability set.
//
// Parameters:
//   - factory: the composer factory
//
// Returns:
//   - DriverBuilderOption: a function that applies the factory option to a driver
func WithComposerFactory(factory func() composer.Composer) DriverBuilderOption {
	return func(d *driver) {
		d.newComposer = factory
	}
}

// WithBatchWorkers is an option builder that sets the number of concurrent
// workers ComposeBatch dispatches requests on. Zero or negative selects the
// package default.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - DriverBuilderOption: a function that applies the worker count option to a driver
func WithBatchWorkers(workers int) DriverBuilderOption {
	return func(d *driver) {
		if workers <= 0 {
			d.batchWorkers = 0
			return
		}
		d.batchWorkers = workers
	}
}
