// resolver.go implements multi-strategy resolution of a requested shader
// path. Three strategies are attempted in order and the first readable hit
// wins: the path taken as-is, the path joined against the invoking directory
// and each of its ancestors, and the path joined against the project's shader
// source root. A file found by a later strategy is never consulted once an
// earlier one succeeds.
package compose

import (
	"fmt"
	"os"
	"path/filepath"
)

// NotFoundError reports that a requested shader path could not be located by
// any resolution strategy.
type NotFoundError struct {
	// RequestedPath is the path string that failed to resolve.
	RequestedPath string

	// InvocationDir is the directory the relative search was anchored at.
	InvocationDir string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("failed to find or read shader source %q (requested from %q)", e.RequestedPath, e.InvocationDir)
}

// pathResolver is the implementation of the PathResolver interface.
type pathResolver struct {
	projectRoot string
}

// PathResolver locates a requested shader source file and returns its text
// together with the canonical path it was read from.
type PathResolver interface {
	// Resolve locates the requested path by trying, in order: the path as-is
	// (absolute or process-relative), the path joined against the invoking
	// directory and each of its ancestors up to the filesystem root, and the
	// path joined against the project root. The first strategy that yields a
	// readable file wins.
	//
	// Parameters:
	//   - invocationDir: the directory of the file issuing the request
	//   - requestedPath: the path string naming the desired shader
	//
	// Returns:
	//   - string: the shader source text
	//   - string: the canonical (absolute, symlink-free) path it was read from
	//   - error: a *NotFoundError if every strategy fails
	Resolve(invocationDir, requestedPath string) (string, string, error)
}

var _ PathResolver = &pathResolver{}

// NewPathResolver creates a PathResolver anchored at the given project root.
// The root is the last-resort join target after the direct and
// invoker-ancestor strategies fail.
//
// Parameters:
//   - projectRoot: the project root directory (must not be empty)
//
// Returns:
//   - PathResolver: a ready-to-use resolver
func NewPathResolver(projectRoot string) PathResolver {
	if projectRoot == "" {
		panic("compose: NewPathResolver requires a non-empty project root")
	}
	return &pathResolver{projectRoot: projectRoot}
}

func (r *pathResolver) Resolve(invocationDir, requestedPath string) (string, string, error) {
	// Interpret as a standalone path
	if src, path, ok := tryRead(requestedPath); ok {
		return src, path, nil
	}

	// Interpret as relative to the invoking file's directory and its ancestors
	dir := invocationDir
	for dir != "" {
		if src, path, ok := tryRead(filepath.Join(dir, requestedPath)); ok {
			return src, path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Interpret as relative to the project root
	if src, path, ok := tryRead(filepath.Join(r.projectRoot, requestedPath)); ok {
		return src, path, nil
	}

	return "", "", &NotFoundError{RequestedPath: requestedPath, InvocationDir: invocationDir}
}

// tryRead attempts to read the file at path and canonicalize its location.
// Any failure counts as a miss for the strategy being attempted.
func tryRead(path string) (string, string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", false
	}
	canonical, err := canonicalPath(path)
	if err != nil {
		return "", "", false
	}
	return string(data), canonical, true
}

// canonicalPath converts a path to its canonical form: absolute, cleaned, and
// with all symlinks resolved. Canonical paths are the stable identity keys
// used for dependency comparison and entry-file exclusion.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
