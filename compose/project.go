// project.go loads the oxy.toml project manifest that tells the host build
// pipeline where a project's shaders live and how to compose them. The
// manifest is discovered by walking up from a starting directory, and its
// shader root is resolved relative to the manifest's own location, so the
// driver always receives an explicit root rather than relying on process-wide
// state.
package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Carmen-Shannon/oxy-compose/composer"
)

// ManifestFileName is the file name of the project manifest.
const ManifestFileName = "oxy.toml"

// defaultShaderRoot is the shader source directory assumed when the manifest
// does not name one, relative to the manifest's directory.
const defaultShaderRoot = "shaders"

// projectConfig is the [project] table of the manifest.
type projectConfig struct {
	// Name is the project's display name.
	Name string `toml:"name"`

	// ShaderRoot is the shader source root, relative to the manifest's
	// directory unless absolute.
	ShaderRoot string `toml:"shader_root"`
}

// composeConfig is the [compose] table of the manifest.
type composeConfig struct {
	// ShaderType is the target entry stage: "auto", "compute", "vertex", or
	// "fragment". Empty means auto.
	ShaderType string `toml:"shader_type"`

	// Definitions are preprocessor definitions applied to every composition.
	Definitions map[string]string `toml:"definitions"`

	// Workers is the batch composition worker count. Zero selects the default.
	Workers int `toml:"workers"`
}

// ProjectManifest is a decoded oxy.toml project manifest.
type ProjectManifest struct {
	// Project is the [project] table.
	Project projectConfig `toml:"project"`

	// Compose is the [compose] table.
	Compose composeConfig `toml:"compose"`

	// dir is the directory the manifest was loaded from; relative paths in
	// the manifest resolve against it.
	dir string
}

// FindProjectManifest walks up from startDir looking for an oxy.toml manifest
// and returns the path of the first one found.
//
// Parameters:
//   - startDir: the directory to begin searching from
//
// Returns:
//   - string: the path of the discovered manifest
//   - error: a descriptive error if no manifest exists up to the filesystem root
func FindProjectManifest(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve search directory %q: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, statErr := os.Stat(candidate); statErr == nil && info.Mode().IsRegular() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in %q or any parent directory", ManifestFileName, startDir)
		}
		dir = parent
	}
}

// LoadProjectManifest decodes the manifest at the given path.
//
// Parameters:
//   - path: the manifest file path
//
// Returns:
//   - *ProjectManifest: the decoded manifest
//   - error: a descriptive error if the file cannot be read or decoded
func LoadProjectManifest(path string) (*ProjectManifest, error) {
	var m ProjectManifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("cannot load project manifest %q: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve project manifest path %q: %w", path, err)
	}
	m.dir = filepath.Dir(abs)

	return &m, nil
}

// ShaderRoot returns the manifest's shader source root as an absolute path,
// resolving a relative root against the manifest's directory and falling back
// to the "shaders" subdirectory when the manifest names none.
//
// Returns:
//   - string: the absolute shader source root
func (m *ProjectManifest) ShaderRoot() string {
	root := m.Project.ShaderRoot
	if root == "" {
		root = defaultShaderRoot
	}
	if filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(m.dir, root)
}

// NewDriver builds a Driver configured from the manifest: its shader root,
// definitions, entry stage, and worker count. Additional options apply on top
// of the manifest's configuration.
//
// Parameters:
//   - options: functional options applied after the manifest's own settings
//
// Returns:
//   - Driver: a ready-to-use driver
//   - error: a descriptive error if the manifest names an unknown shader type
func (m *ProjectManifest) NewDriver(options ...DriverBuilderOption) (Driver, error) {
	shaderType, err := parseShaderType(m.Compose.ShaderType)
	if err != nil {
		return nil, err
	}

	opts := []DriverBuilderOption{
		WithShaderType(shaderType),
		WithDefinitions(m.Compose.Definitions),
		WithBatchWorkers(m.Compose.Workers),
	}
	opts = append(opts, options...)

	return NewDriver(m.ShaderRoot(), opts...), nil
}

// parseShaderType maps a manifest shader type string to its composer value.
func parseShaderType(s string) (composer.ShaderType, error) {
	switch s {
	case "", "auto":
		return composer.ShaderTypeAuto, nil
	case "compute":
		return composer.ShaderTypeCompute, nil
	case "vertex":
		return composer.ShaderTypeVertex, nil
	case "fragment":
		return composer.ShaderTypeFragment, nil
	default:
		return composer.ShaderTypeAuto, fmt.Errorf("unknown shader type %q in project manifest (want auto, compute, vertex, or fragment)", s)
	}
}
