package composer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderChain flattens an error's cause chain into one string for message
// assertions, one level per ": "-joined segment.
func renderChain(err error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		sb.WriteString(": ")
		sb.WriteString(cause.Error())
	}
	return sb.String()
}

// newTestPreProcessor builds a pre-processor over an ad-hoc registry.
func newTestPreProcessor(mods ...*composableModule) *preProcessor {
	registry := make(map[string]*composableModule, len(mods))
	for _, m := range mods {
		registry[m.name] = m
	}
	return newPreProcessor(registry)
}

func TestProcessPassthrough(t *testing.T) {
	pp := newTestPreProcessor()

	src := "fn helper() -> f32 {\n    return 1.0;\n}"
	out, err := pp.Process(src, "helper.wgsl", nil)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestProcessImportSplice(t *testing.T) {
	pp := newTestPreProcessor(&composableModule{
		name:     "lib/light.wgsl",
		filePath: "/proj/lib/light.wgsl",
		source:   "fn attenuate(d: f32) -> f32 { return 1.0 / (d * d); }",
	})

	out, err := pp.Process("#import lib/light.wgsl\nfn main() {}", "entry.wgsl", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "fn attenuate")
	assert.Contains(t, out, "fn main")
	assert.NotContains(t, out, "#import")
}

func TestProcessImportSplicedOnce(t *testing.T) {
	shared := &composableModule{
		name:   "shared.wgsl",
		source: "fn shared_helper() -> f32 { return 0.5; }",
	}
	a := &composableModule{name: "a.wgsl", source: "#import shared.wgsl\nfn a() {}"}
	b := &composableModule{name: "b.wgsl", source: "#import shared.wgsl\nfn b() {}"}
	pp := newTestPreProcessor(shared, a, b)

	out, err := pp.Process("#import a.wgsl\n#import b.wgsl\nfn main() {}", "entry.wgsl", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "fn shared_helper"))
	assert.Contains(t, out, "fn a")
	assert.Contains(t, out, "fn b")
}

func TestProcessImportCycle(t *testing.T) {
	a := &composableModule{name: "a.wgsl", source: "#import b.wgsl\nfn a() {}"}
	b := &composableModule{name: "b.wgsl", source: "#import a.wgsl\nfn b() {}"}
	pp := newTestPreProcessor(a, b)

	_, err := pp.Process("#import a.wgsl", "entry.wgsl", nil)
	require.Error(t, err)
	assert.Contains(t, renderChain(err), "import cycle detected")
}

func TestProcessUnknownImport(t *testing.T) {
	pp := newTestPreProcessor()

	_, err := pp.Process("#import missing.wgsl", "entry.wgsl", nil)
	require.Error(t, err)
	chain := renderChain(err)
	assert.Contains(t, chain, `cannot import "missing.wgsl"`)
	assert.Contains(t, chain, `no composable module registered as "missing.wgsl"`)
}

func TestProcessIfdef(t *testing.T) {
	pp := newTestPreProcessor()
	src := "#ifdef FAST\nfn fast() {}\n#else\nfn slow() {}\n#endif"

	out, err := pp.Process(src, "entry.wgsl", map[string]string{"FAST": "1"})
	require.NoError(t, err)
	assert.Contains(t, out, "fn fast")
	assert.NotContains(t, out, "fn slow")

	out, err = pp.Process(src, "entry.wgsl", nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "fn fast")
	assert.Contains(t, out, "fn slow")
}

func TestProcessIfndef(t *testing.T) {
	pp := newTestPreProcessor()
	src := "#ifndef DEBUG\nfn release() {}\n#endif"

	out, err := pp.Process(src, "entry.wgsl", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "fn release")

	out, err = pp.Process(src, "entry.wgsl", map[string]string{"DEBUG": "1"})
	require.NoError(t, err)
	assert.NotContains(t, out, "fn release")
}

func TestProcessNestedConditionals(t *testing.T) {
	pp := newTestPreProcessor()
	src := strings.Join([]string{
		"#ifdef OUTER",
		"#ifdef INNER",
		"fn both() {}",
		"#else",
		"fn outer_only() {}",
		"#endif",
		"#endif",
	}, "\n")

	out, err := pp.Process(src, "entry.wgsl", map[string]string{"OUTER": "1"})
	require.NoError(t, err)
	assert.Contains(t, out, "fn outer_only")
	assert.NotContains(t, out, "fn both")

	// An inactive outer block suppresses both inner branches.
	out, err = pp.Process(src, "entry.wgsl", nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "fn outer_only")
	assert.NotContains(t, out, "fn both")
}

func TestProcessImportInsideInactiveBlock(t *testing.T) {
	pp := newTestPreProcessor()
	src := "#ifdef NEVER\n#import missing.wgsl\n#endif\nfn main() {}"

	out, err := pp.Process(src, "entry.wgsl", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "fn main")
}

func TestProcessUnterminatedIfdef(t *testing.T) {
	pp := newTestPreProcessor()

	_, err := pp.Process("#ifdef FOO\nfn f() {}", "entry.wgsl", nil)
	require.Error(t, err)
	assert.Contains(t, renderChain(err), "unterminated #ifdef block")
}

func TestProcessModuleDefinitionsMergedUnderCallers(t *testing.T) {
	lib := &composableModule{
		name:        "lib.wgsl",
		source:      "#ifdef MODE\nfn mode_on() {}\n#endif\n#ifdef EXTRA\nfn extra() {}\n#endif",
		definitions: map[string]string{"MODE": "module", "EXTRA": "1"},
	}
	pp := newTestPreProcessor(lib)

	// Caller definitions win, module definitions fill the gaps.
	out, err := pp.Process("#import lib.wgsl", "entry.wgsl", map[string]string{"MODE": "caller"})
	require.NoError(t, err)
	assert.Contains(t, out, "fn mode_on")
	assert.Contains(t, out, "fn extra")
}

func TestProcessAdditionalImportsSplicedFirst(t *testing.T) {
	prelude := &composableModule{name: "prelude.wgsl", source: "fn prelude() {}"}
	lib := &composableModule{
		name:              "lib.wgsl",
		source:            "fn lib() {}",
		additionalImports: []string{"prelude.wgsl"},
	}
	pp := newTestPreProcessor(prelude, lib)

	out, err := pp.Process("#import lib.wgsl", "entry.wgsl", nil)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "fn prelude"), strings.Index(out, "fn lib"))
}

func TestValidateDirectives(t *testing.T) {
	require.NoError(t, validateDirectives("#ifdef A\n#else\n#endif\nfn f() {}"))
	require.NoError(t, validateDirectives("#import other.wgsl\nfn f() {}"))

	assert.Error(t, validateDirectives("#ifdef A\nfn f() {}"))
	assert.Error(t, validateDirectives("#endif"))
	assert.Error(t, validateDirectives("#else"))
	assert.Error(t, validateDirectives("#ifdef A\n#else\n#else\n#endif"))
	assert.Error(t, validateDirectives("#ifdef"))
}
