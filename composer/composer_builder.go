package composer

// ComposerBuilderOption is a function that configures a composer instance during construction.
type ComposerBuilderOption func(*composerImpl)

// WithValidation is an option builder that enables or disables validation of
// composed modules. Validation is enabled by default.
//
// Parameters:
//   - validate: whether composed modules are validated
//
// Returns:
//   - ComposerBuilderOption: a function that applies the validation option to a composer
func WithValidation(validate bool) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.validate = validate
	}
}

// WithCapabilities is an option builder that sets the capability envelope
// composed modules are validated against. The default is CapabilitiesAll().
//
// Parameters:
//   - capabilities: the capability bits to declare
//
// Returns:
//   - ComposerBuilderOption: a function that applies the capability option to a composer
func WithCapabilities(capabilities Capability) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.capabilities = capabilities
	}
}
