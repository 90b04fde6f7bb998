package composer

import (
	"path/filepath"
	"strings"
)

// Language identifies the shading dialect a composable module's source is written in.
type Language int

const (
	// LanguageWGSL is the WebGPU Shading Language dialect.
	LanguageWGSL Language = iota

	// LanguageGLSL is the OpenGL Shading Language dialect.
	LanguageGLSL
)

// ShaderType identifies the entry-point stage a composed shader is built for.
type ShaderType int

const (
	// ShaderTypeAuto selects whichever entry-point stage the composed source declares.
	// Resolution order when several stages are present: compute, vertex, fragment.
	ShaderTypeAuto ShaderType = iota

	// ShaderTypeCompute indicates a shader containing a @compute entry point.
	ShaderTypeCompute

	// ShaderTypeVertex indicates a shader containing a @vertex entry point.
	ShaderTypeVertex

	// ShaderTypeFragment indicates a shader containing a @fragment entry point.
	ShaderTypeFragment
)

// extensionLanguages maps recognized shader file extensions (lowercase, with
// leading dot) to their dialect. The set is extensible via RegisterExtension.
var extensionLanguages = map[string]Language{
	".wgsl": LanguageWGSL,
	".glsl": LanguageGLSL,
}

// RegisterExtension adds or replaces a recognized shader file extension.
// The extension must include the leading dot (e.g. ".vert"). Registration is
// process-wide and is expected to happen during host initialization, before
// any scanning starts.
//
// Parameters:
//   - ext: the file extension including the leading dot
//   - language: the dialect sources with this extension are written in
func RegisterExtension(ext string, language Language) {
	extensionLanguages[strings.ToLower(ext)] = language
}

// LanguageFromPath determines the shading dialect of a file from its extension.
//
// Parameters:
//   - path: the file path to inspect
//
// Returns:
//   - Language: the dialect associated with the path's extension
//   - bool: false if the extension is not a recognized shader extension
func LanguageFromPath(path string) (Language, bool) {
	language, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]
	return language, ok
}

// RecognizedExtension reports whether the path carries a recognized shader
// file extension.
//
// Parameters:
//   - path: the file path to inspect
//
// Returns:
//   - bool: true if the path's extension maps to a known dialect
func RecognizedExtension(path string) bool {
	_, ok := LanguageFromPath(path)
	return ok
}
