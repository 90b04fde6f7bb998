package composer

import (
	"fmt"
	"regexp"
	"strings"
)

// Capability is a bit flag describing one optional shading feature the
// validator may permit composed shaders to use.
type Capability uint32

const (
	// CapabilityShaderF16 permits 16-bit float scalar, vector, and matrix types.
	CapabilityShaderF16 Capability = 1 << iota

	// CapabilityStorageTextureReadWrite permits storage textures declared with
	// read_write access.
	CapabilityStorageTextureReadWrite

	// CapabilityPushConstants permits var<push_constant> declarations.
	CapabilityPushConstants
)

// CapabilitiesAll returns the maximal capability set, permitting every
// optional feature the validator knows about.
//
// Returns:
//   - Capability: all capability bits set
func CapabilitiesAll() Capability {
	return CapabilityShaderF16 | CapabilityStorageTextureReadWrite | CapabilityPushConstants
}

// Has reports whether every bit of the required set is present.
//
// Parameters:
//   - required: the capability bits to test for
//
// Returns:
//   - bool: true if all required bits are set
func (c Capability) Has(required Capability) bool {
	return c&required == required
}

var (
	// f16TypeRegex matches uses of 16-bit float types: the f16 scalar, the
	// vecNh shorthands, and vecN<f16> forms.
	f16TypeRegex = regexp.MustCompile(`\b(f16|vec[234]h|vec[234]<\s*f16\s*>)\b`)

	// pushConstantRegex matches var<push_constant> declarations.
	pushConstantRegex = regexp.MustCompile(`var\s*<\s*push_constant\s*>`)

	// storageTextureRWRegex matches storage texture types declared with
	// read_write access.
	storageTextureRWRegex = regexp.MustCompile(`texture_storage_[a-z0-9_]+<[^>]*read_write[^>]*>`)
)

// checkCapabilities validates that composed source only uses features covered
// by the declared capability set. The source must already be comment-stripped.
//
// Parameters:
//   - source: comment-stripped composed shader source
//   - capabilities: the declared capability envelope
//
// Returns:
//   - error: a descriptive error naming the first feature outside the envelope
func checkCapabilities(source string, capabilities Capability) error {
	if !capabilities.Has(CapabilityShaderF16) {
		if m := f16TypeRegex.FindString(source); m != "" {
			return fmt.Errorf("shader uses 16-bit float type %q without the shader-f16 capability", m)
		}
		if strings.Contains(source, "enable f16") {
			return fmt.Errorf("shader enables f16 without the shader-f16 capability")
		}
	}
	if !capabilities.Has(CapabilityStorageTextureReadWrite) {
		if m := storageTextureRWRegex.FindString(source); m != "" {
			return fmt.Errorf("shader uses read_write storage texture %q without the storage-texture-read-write capability", m)
		}
	}
	if !capabilities.Has(CapabilityPushConstants) {
		if pushConstantRegex.MatchString(source) {
			return fmt.Errorf("shader uses push constants without the push-constants capability")
		}
	}
	return nil
}
