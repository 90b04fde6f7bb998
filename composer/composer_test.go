package composer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const computeEntrySource = "@compute @workgroup_size(64)\nfn main() {\n}"

func TestAddComposableModuleAndMakeModule(t *testing.T) {
	c := NewComposer()

	require.NoError(t, c.AddComposableModule(ComposableModuleDescriptor{
		Source:   "fn attenuate(d: f32) -> f32 { return 1.0 / (d * d); }",
		FilePath: "/proj/shaders/lib/light.wgsl",
		Language: LanguageWGSL,
		AsName:   "lib/light.wgsl",
	}))

	m, err := c.MakeModule(ModuleDescriptor{
		Source:   "#import lib/light.wgsl\n" + computeEntrySource,
		FilePath: "/proj/shaders/entry.wgsl",
	})
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Contains(t, m.Source(), "fn attenuate")
	assert.NotContains(t, m.Source(), "#import")
	assert.Equal(t, "main", m.EntryPoint())
	assert.Equal(t, ShaderTypeCompute, m.ShaderType())
	assert.Equal(t, [3]uint32{64, 1, 1}, m.WorkgroupSize())
	assert.False(t, m.Empty())
	require.NotNil(t, m.Descriptor())
	assert.Equal(t, "/proj/shaders/entry.wgsl", m.Descriptor().Label)
}

func TestAddComposableModuleDuplicateName(t *testing.T) {
	c := NewComposer()
	desc := ComposableModuleDescriptor{Source: "fn f() {}", AsName: "lib.wgsl"}

	require.NoError(t, c.AddComposableModule(desc))
	err := c.AddComposableModule(desc)
	require.Error(t, err)

	var merr *ModuleError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "lib.wgsl", merr.Name)
	assert.Contains(t, renderChain(err), "already registered")
}

func TestAddComposableModuleNoName(t *testing.T) {
	c := NewComposer()

	err := c.AddComposableModule(ComposableModuleDescriptor{
		Source:   "fn f() {}",
		FilePath: "/proj/anon.wgsl",
	})
	require.Error(t, err)
	assert.Contains(t, renderChain(err), "no import name")
}

func TestAddComposableModuleImportPathOverride(t *testing.T) {
	c := NewComposer()

	require.NoError(t, c.AddComposableModule(ComposableModuleDescriptor{
		Source: "#define_import_path oxy::light\nfn attenuate() {}",
		AsName: "lib/light.wgsl",
	}))
	assert.Equal(t, []string{"oxy::light"}, c.ModuleNames())

	m, err := c.MakeModule(ModuleDescriptor{
		Source: "#import oxy::light\n" + computeEntrySource,
	})
	require.NoError(t, err)
	assert.Contains(t, m.Source(), "fn attenuate")
	assert.NotContains(t, m.Source(), "#define_import_path")
}

func TestAddComposableModuleInvalidDirectives(t *testing.T) {
	c := NewComposer()

	err := c.AddComposableModule(ComposableModuleDescriptor{
		Source:   "#ifdef FOO\nfn f() {}",
		FilePath: "/proj/bad.wgsl",
		AsName:   "bad.wgsl",
	})
	require.Error(t, err)

	var merr *ModuleError
	require.ErrorAs(t, err, &merr)
	chain := renderChain(err)
	assert.Contains(t, chain, `failed to register composable module "bad.wgsl"`)
	assert.Contains(t, chain, "unterminated #ifdef block")
	// Registry unchanged after a failed registration.
	assert.Empty(t, c.ModuleNames())
}

func TestMakeModuleUnknownImport(t *testing.T) {
	c := NewComposer()

	m, err := c.MakeModule(ModuleDescriptor{
		Source:   "#import missing.wgsl\n" + computeEntrySource,
		FilePath: "/proj/entry.wgsl",
	})
	require.Error(t, err)
	assert.Nil(t, m)

	var cerr *ComposeError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "/proj/entry.wgsl", cerr.FilePath)

	chain := renderChain(err)
	assert.Contains(t, chain, `failed to compose shader "/proj/entry.wgsl"`)
	assert.Contains(t, chain, `cannot import "missing.wgsl"`)
	assert.Contains(t, chain, "no composable module registered")
}

func TestMakeModuleNoEntryPoint(t *testing.T) {
	c := NewComposer()

	_, err := c.MakeModule(ModuleDescriptor{
		Source:   "fn helper() {}",
		FilePath: "/proj/entry.wgsl",
	})
	require.Error(t, err)
	chain := renderChain(err)
	assert.Contains(t, chain, "module validation failed")
	assert.Contains(t, chain, "no entry point found")
}

func TestMakeModuleStageMismatch(t *testing.T) {
	c := NewComposer()

	_, err := c.MakeModule(ModuleDescriptor{
		Source:     computeEntrySource,
		ShaderType: ShaderTypeVertex,
	})
	require.Error(t, err)
	assert.Contains(t, renderChain(err), "no vertex entry point found")
}

func TestMakeModuleValidationDisabled(t *testing.T) {
	c := NewComposer(WithValidation(false))
	assert.False(t, c.Validate())

	m, err := c.MakeModule(ModuleDescriptor{Source: "fn helper() {}"})
	require.NoError(t, err)
	assert.Empty(t, m.EntryPoint())
	assert.False(t, m.Empty())
}

func TestMakeModuleCapabilityRejection(t *testing.T) {
	c := NewComposer(WithCapabilities(0))
	assert.Equal(t, Capability(0), c.Capabilities())

	_, err := c.MakeModule(ModuleDescriptor{
		Source: "var<private> h: f16;\n" + computeEntrySource,
	})
	require.Error(t, err)
	assert.Contains(t, renderChain(err), "shader-f16 capability")

	// The same source passes with the default maximal capability set.
	_, err = NewComposer().MakeModule(ModuleDescriptor{
		Source: "var<private> h: f16;\n" + computeEntrySource,
	})
	require.NoError(t, err)
}

func TestMakeModuleAutoStageOrder(t *testing.T) {
	c := NewComposer()

	// Compute wins over vertex and fragment under auto resolution.
	m, err := c.MakeModule(ModuleDescriptor{
		Source: "@vertex\nfn vs() -> @builtin(position) vec4f { return vec4f(); }\n" +
			"@fragment\nfn fs() -> @location(0) vec4f { return vec4f(); }\n" +
			computeEntrySource,
	})
	require.NoError(t, err)
	assert.Equal(t, ShaderTypeCompute, m.ShaderType())
	assert.Equal(t, "main", m.EntryPoint())
	assert.Len(t, m.EntryPoints(), 3)
}

func TestMakeModuleDefinitions(t *testing.T) {
	c := NewComposer()

	m, err := c.MakeModule(ModuleDescriptor{
		Source:      "#ifdef SHADOWS\nfn shadow() {}\n#endif\n" + computeEntrySource,
		Definitions: map[string]string{"SHADOWS": "1"},
	})
	require.NoError(t, err)
	assert.Contains(t, m.Source(), "fn shadow")
}

func TestModuleNamesSorted(t *testing.T) {
	c := NewComposer()
	for _, name := range []string{"c.wgsl", "a.wgsl", "b.wgsl"} {
		require.NoError(t, c.AddComposableModule(ComposableModuleDescriptor{
			Source: "fn f() {}",
			AsName: name,
		}))
	}
	assert.Equal(t, []string{"a.wgsl", "b.wgsl", "c.wgsl"}, c.ModuleNames())
}

func TestEmptyModule(t *testing.T) {
	m := EmptyModule()

	assert.True(t, m.Empty())
	assert.Empty(t, m.Source())
	assert.Empty(t, m.EntryPoint())
	assert.Empty(t, m.EntryPoints())
	assert.Nil(t, m.Descriptor())
	assert.Empty(t, m.VertexLayouts())
	assert.Empty(t, m.BindGroupLayoutDescriptors())
	assert.Empty(t, m.BindGroupVarName(0, 0))
}

func TestModuleErrorChainShape(t *testing.T) {
	inner := errors.New("boom")
	err := &ComposeError{FilePath: "x.wgsl", Err: chainf(inner, "mid-level context")}

	assert.Equal(t, `failed to compose shader "x.wgsl"`, err.Error())
	assert.True(t, errors.Is(err, inner))
}
