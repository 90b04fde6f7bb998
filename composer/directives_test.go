package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirectiveNonDirectiveLines(t *testing.T) {
	for _, line := range []string{
		"",
		"fn main() {}",
		"  @group(0) @binding(0) var<uniform> camera: CameraUniform;",
		"// #import commented out? no: comments are not directive lines",
	} {
		d, err := parseDirective(line, 1)
		require.NoError(t, err, "line %q", line)
		assert.Nil(t, d, "line %q", line)
	}
}

func TestParseDirectiveImport(t *testing.T) {
	d, err := parseDirective(`#import lighting/common.wgsl`, 7)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, DirectiveTypeImport, d.Type)
	assert.Equal(t, "lighting/common.wgsl", d.Arg)
	assert.Equal(t, 7, d.Line)
}

func TestParseDirectiveImportQuoted(t *testing.T) {
	d, err := parseDirective(`#import "lighting/common.wgsl"`, 1)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "lighting/common.wgsl", d.Arg)
}

func TestParseDirectiveConditionals(t *testing.T) {
	d, err := parseDirective("#ifdef SHADOWS", 1)
	require.NoError(t, err)
	assert.Equal(t, DirectiveTypeIfdef, d.Type)
	assert.Equal(t, "SHADOWS", d.Arg)

	d, err = parseDirective("#ifndef SHADOWS", 2)
	require.NoError(t, err)
	assert.Equal(t, DirectiveTypeIfndef, d.Type)

	d, err = parseDirective("#else", 3)
	require.NoError(t, err)
	assert.Equal(t, DirectiveTypeElse, d.Type)
	assert.Empty(t, d.Arg)

	d, err = parseDirective("#endif", 4)
	require.NoError(t, err)
	assert.Equal(t, DirectiveTypeEndif, d.Type)
}

func TestParseDirectiveMalformed(t *testing.T) {
	for _, line := range []string{
		"#",
		"#import",
		"#import a b",
		"#ifdef",
		"#else EXTRA",
		"#endif EXTRA",
		"#frobnicate x",
	} {
		_, err := parseDirective(line, 3)
		assert.Error(t, err, "line %q", line)
		assert.Contains(t, err.Error(), "line 3", "line %q", line)
	}
}

func TestScanImportPathOverride(t *testing.T) {
	name, err := scanImportPathOverride("#define_import_path oxy::lighting\nfn helper() {}\n")
	require.NoError(t, err)
	assert.Equal(t, "oxy::lighting", name)

	name, err = scanImportPathOverride("fn helper() {}\n")
	require.NoError(t, err)
	assert.Empty(t, name)
}
