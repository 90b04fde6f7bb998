package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDiscoversRecognizedShaders(t *testing.T) {
	root := t.TempDir()
	writeShader(t, filepath.Join(root, "a.wgsl"), "fn a() {}")
	writeShader(t, filepath.Join(root, "sub", "b.glsl"), "void b() {}")
	writeShader(t, filepath.Join(root, "sub", "deep", "c.wgsl"), "fn c() {}")
	writeShader(t, filepath.Join(root, "notes.txt"), "not a shader")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	shaders, err := NewProjectShaderScanner().Scan(root)
	require.NoError(t, err)
	require.Len(t, shaders, 3)

	assert.Equal(t, "a.wgsl", shaders[0].RelPath)
	assert.Equal(t, filepath.Join("sub", "b.glsl"), shaders[1].RelPath)
	assert.Equal(t, filepath.Join("sub", "deep", "c.wgsl"), shaders[2].RelPath)

	assert.Equal(t, mustCanonical(t, filepath.Join(root, "a.wgsl")), shaders[0].Path)
	assert.Equal(t, mustCanonical(t, filepath.Join(root, "sub", "b.glsl")), shaders[1].Path)
}

func TestScanSortedByRelPath(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"z.wgsl", "m.wgsl", "a.wgsl"} {
		writeShader(t, filepath.Join(root, name), "fn f() {}")
	}

	shaders, err := NewProjectShaderScanner().Scan(root)
	require.NoError(t, err)
	require.Len(t, shaders, 3)
	assert.Equal(t, "a.wgsl", shaders[0].RelPath)
	assert.Equal(t, "m.wgsl", shaders[1].RelPath)
	assert.Equal(t, "z.wgsl", shaders[2].RelPath)
}

func TestScanFollowsSymlinksToRegularFiles(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "linked.wgsl")
	writeShader(t, target, "fn linked() {}")

	if err := os.Symlink(target, filepath.Join(root, "alias.wgsl")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	shaders, err := NewProjectShaderScanner().Scan(root)
	require.NoError(t, err)
	require.Len(t, shaders, 1)
	assert.Equal(t, "alias.wgsl", shaders[0].RelPath)
	assert.Equal(t, mustCanonical(t, target), shaders[0].Path)
}

func TestScanDescendsDirectorySymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeShader(t, filepath.Join(root, "a.wgsl"), "fn a() {}")
	writeShader(t, filepath.Join(outside, "linked.wgsl"), "fn linked() {}")

	if err := os.Symlink(outside, filepath.Join(root, "shared")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	shaders, err := NewProjectShaderScanner().Scan(root)
	require.NoError(t, err)
	require.Len(t, shaders, 2)
	assert.Equal(t, "a.wgsl", shaders[0].RelPath)
	assert.Equal(t, filepath.Join("shared", "linked.wgsl"), shaders[1].RelPath)
	assert.Equal(t, mustCanonical(t, filepath.Join(outside, "linked.wgsl")), shaders[1].Path)
}

func TestScanDirectorySymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeShader(t, filepath.Join(root, "a.wgsl"), "fn a() {}")

	// A link back to the root must not recurse forever or duplicate results.
	if err := os.Symlink(root, filepath.Join(root, "self")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	shaders, err := NewProjectShaderScanner().Scan(root)
	require.NoError(t, err)
	require.Len(t, shaders, 1)
	assert.Equal(t, "a.wgsl", shaders[0].RelPath)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := NewProjectShaderScanner().Scan(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shader source root")
}

func TestScanRootIsFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.wgsl")
	writeShader(t, file, "fn f() {}")

	_, err := NewProjectShaderScanner().Scan(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestScanEmptyRoot(t *testing.T) {
	shaders, err := NewProjectShaderScanner().Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, shaders)
}
