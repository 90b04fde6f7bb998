// scanner.go implements recursive discovery of shader source files under a
// project's shader source root. Scanning is all-or-nothing: an unreadable root
// or directory fails the whole scan, and results are canonicalized and sorted
// by root-relative path so dependency lists are reproducible across runs.
package compose

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Carmen-Shannon/oxy-compose/composer"
)

// ScannedShader is one shader source file discovered during a project scan.
type ScannedShader struct {
	// Path is the canonical (absolute, symlink-free) path of the file.
	Path string

	// RelPath is the file's path relative to the scan root. It doubles as the
	// module's symbolic import name once slash-normalized.
	RelPath string
}

// projectShaderScanner is the implementation of the ProjectShaderScanner interface.
type projectShaderScanner struct{}

// ProjectShaderScanner enumerates every shader source file under a project's
// shader source root.
type ProjectShaderScanner interface {
	// Scan recursively walks the tree rooted at root and returns every regular
	// file (symlinks to regular files included) carrying a recognized shader
	// extension. Symlinks to directories are descended into; a directory
	// reachable through more than one link is scanned once. Unrecognized files
	// and non-file entries are silently excluded. Results are sorted by
	// root-relative path. An unreadable root or intermediate directory fails
	// the whole scan; no partial results are returned.
	//
	// Parameters:
	//   - root: the shader source root directory
	//
	// Returns:
	//   - []ScannedShader: every discovered shader file, sorted by RelPath
	//   - error: a descriptive error if the root or any directory is unreadable
	Scan(root string) ([]ScannedShader, error)
}

var _ ProjectShaderScanner = &projectShaderScanner{}

// NewProjectShaderScanner creates a new ProjectShaderScanner.
//
// Returns:
//   - ProjectShaderScanner: a ready-to-use scanner
func NewProjectShaderScanner() ProjectShaderScanner {
	return &projectShaderScanner{}
}

func (s *projectShaderScanner) Scan(root string) ([]ScannedShader, error) {
	canonRoot, err := canonicalPath(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve shader source root %q: %w", root, err)
	}
	info, err := os.Stat(canonRoot)
	if err != nil {
		return nil, fmt.Errorf("cannot read shader source root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("shader source root %q is not a directory", root)
	}

	var shaders []ScannedShader
	visited := map[string]bool{canonRoot: true}

	var walk func(dir, relPrefix string) error
	walk = func(dir, relPrefix string) error {
		return filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			if !d.Type().IsRegular() {
				// Follow symlinks to regular files and directories; exclude
				// every other entry kind.
				if d.Type()&fs.ModeSymlink == 0 {
					return nil
				}
				target, statErr := os.Stat(path)
				if statErr != nil {
					return nil
				}
				if target.IsDir() {
					canonDir, canonErr := canonicalPath(path)
					if canonErr != nil {
						return canonErr
					}
					if visited[canonDir] {
						return nil
					}
					visited[canonDir] = true
					rel, relErr := filepath.Rel(dir, path)
					if relErr != nil {
						return relErr
					}
					return walk(canonDir, filepath.Join(relPrefix, rel))
				}
				if !target.Mode().IsRegular() {
					return nil
				}
			}
			if !composer.RecognizedExtension(path) {
				return nil
			}

			canon, canonErr := canonicalPath(path)
			if canonErr != nil {
				return canonErr
			}
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}

			shaders = append(shaders, ScannedShader{Path: canon, RelPath: filepath.Join(relPrefix, rel)})
			return nil
		})
	}
	if err := walk(canonRoot, ""); err != nil {
		return nil, fmt.Errorf("cannot scan shader source root %q: %w", root, err)
	}

	sort.Slice(shaders, func(i, j int) bool {
		return shaders[i].RelPath < shaders[j].RelPath
	})

	return shaders, nil
}
