package composer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// module is the implementation of the Module interface. It holds the composed
// source and the reflection data extracted from it during validation.
type module struct {
	source        string
	filePath      string
	shaderType    ShaderType
	entryPoint    string
	entryPoints   []EntryPoint
	workgroupSize [3]uint32
	vertexLayouts map[int][]wgpu.VertexBufferLayout
	bindGroups    map[int]wgpu.BindGroupLayoutDescriptor
	varNames      map[int]map[int]string
	descriptor    *wgpu.ShaderModuleDescriptor
	empty         bool
}

// Module is a validated, composed shader: its flattened source with all
// directives expanded, plus the reflection surface needed to build pipelines
// around it. A Module is immutable once returned.
type Module interface {
	// Source retrieves the composed shader source with all imports spliced
	// and conditionals resolved.
	//
	// Returns:
	//   - string: the flattened shader source
	Source() string

	// FilePath retrieves the file-path label of the entry source this module
	// was composed from.
	//
	// Returns:
	//   - string: the entry source's file-path label
	FilePath() string

	// ShaderType returns the resolved entry-point stage of the module. When the
	// module was requested with ShaderTypeAuto, this is the detected stage.
	//
	// Returns:
	//   - ShaderType: ShaderTypeCompute, ShaderTypeVertex, or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the resolved entry-point function name for the
	// module's stage (e.g. "main"). Empty for the empty module.
	//
	// Returns:
	//   - string: the entry-point function name
	EntryPoint() string

	// EntryPoints returns every entry point declared in the composed source,
	// in declaration order.
	//
	// Returns:
	//   - []EntryPoint: all declared entry points
	EntryPoints() []EntryPoint

	// WorkgroupSize returns the workgroup size dimensions for compute modules,
	// defaulting omitted dimensions to 1. Returns [0, 0, 0] for non-compute modules.
	//
	// Returns:
	//   - [3]uint32: the workgroup size as [x, y, z]
	WorkgroupSize() [3]uint32

	// VertexLayouts retrieves the vertex buffer layouts reflected from the
	// composed source's vertex input structs. Empty for non-vertex modules.
	//
	// Returns:
	//   - map[int][]wgpu.VertexBufferLayout: layouts keyed by sequential index
	VertexLayouts() map[int][]wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for
	// one group index, or an empty descriptor if the group is not declared.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor for the group
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all reflected bind group layout
	// descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared for a group and
	// binding index, or an empty string if not declared.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the declared variable name
	BindGroupVarName(group, binding int) string

	// BindGroupVarNames retrieves all declared variable names keyed by group
	// and binding index.
	//
	// Returns:
	//   - map[int]map[int]string: variable names keyed by group and binding index
	BindGroupVarNames() map[int]map[int]string

	// Descriptor returns a ready-to-use wgpu.ShaderModuleDescriptor carrying
	// the composed source. Nil for the empty module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor
	Descriptor() *wgpu.ShaderModuleDescriptor

	// Empty reports whether this is the default module returned when
	// composition fails.
	//
	// Returns:
	//   - bool: true for the default empty module
	Empty() bool
}

var _ Module = &module{}

// EmptyModule returns the default module used when composition fails: no
// source, no entry points, no descriptors.
//
// Returns:
//   - Module: the default empty module
func EmptyModule() Module {
	return &module{
		empty:         true,
		vertexLayouts: make(map[int][]wgpu.VertexBufferLayout),
		bindGroups:    make(map[int]wgpu.BindGroupLayoutDescriptor),
		varNames:      make(map[int]map[int]string),
	}
}

// buildModule reflects and validates composed source into a Module. The
// composed source must already have all directives expanded.
//
// Parameters:
//   - source: the composed shader source
//   - filePath: the entry source's file-path label
//   - shaderType: the requested entry stage, or ShaderTypeAuto to detect it
//   - capabilities: the capability envelope to validate against
//   - validate: whether to enforce entry-point presence and capabilities
//
// Returns:
//   - Module: the validated module
//   - error: a descriptive error if validation fails
func buildModule(source, filePath string, shaderType ShaderType, capabilities Capability, validate bool) (Module, error) {
	cleaned := stripComments(source)

	if validate {
		if err := checkCapabilities(cleaned, capabilities); err != nil {
			return nil, err
		}
	}

	entries := parseEntryPoints(cleaned)

	resolvedType, entryPoint, ok := resolveEntryPoint(entries, shaderType)
	if !ok && validate {
		if shaderType == ShaderTypeAuto {
			return nil, fmt.Errorf("no entry point found in composed shader")
		}
		return nil, fmt.Errorf("no %s entry point found in composed shader", shaderTypeName(shaderType))
	}

	m := &module{
		source:      source,
		filePath:    filePath,
		shaderType:  resolvedType,
		entryPoint:  entryPoint,
		entryPoints: entries,
		descriptor: &wgpu.ShaderModuleDescriptor{
			Label: filePath,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}

	var visibility wgpu.ShaderStage
	switch resolvedType {
	case ShaderTypeVertex:
		visibility = wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		visibility = wgpu.ShaderStageFragment
	case ShaderTypeCompute:
		visibility = wgpu.ShaderStageCompute
	default:
		visibility = wgpu.ShaderStageNone
	}

	if resolvedType == ShaderTypeVertex {
		m.vertexLayouts = parseVertexLayouts(cleaned)
	} else {
		m.vertexLayouts = make(map[int][]wgpu.VertexBufferLayout)
	}
	if resolvedType == ShaderTypeCompute {
		m.workgroupSize = parseWorkgroupSize(cleaned)
	}
	m.bindGroups, m.varNames = parseBindGroupLayouts(cleaned, visibility)

	return m, nil
}

// resolveEntryPoint picks the entry point matching the requested stage. With
// ShaderTypeAuto the declared stages are tried in order: compute, vertex,
// fragment.
func resolveEntryPoint(entries []EntryPoint, requested ShaderType) (ShaderType, string, bool) {
	if requested == ShaderTypeAuto {
		for _, stage := range []ShaderType{ShaderTypeCompute, ShaderTypeVertex, ShaderTypeFragment} {
			if t, name, ok := resolveEntryPoint(entries, stage); ok {
				return t, name, true
			}
		}
		return ShaderTypeAuto, "", false
	}
	for _, e := range entries {
		if e.Stage == requested {
			return requested, e.Name, true
		}
	}
	return requested, "", false
}

// shaderTypeName returns the lowercase stage name used in error messages.
func shaderTypeName(t ShaderType) string {
	switch t {
	case ShaderTypeCompute:
		return "compute"
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "auto"
	}
}

func (m *module) Source() string {
	return m.source
}

func (m *module) FilePath() string {
	return m.filePath
}

func (m *module) ShaderType() ShaderType {
	return m.shaderType
}

func (m *module) EntryPoint() string {
	return m.entryPoint
}

func (m *module) EntryPoints() []EntryPoint {
	return m.entryPoints
}

func (m *module) WorkgroupSize() [3]uint32 {
	return m.workgroupSize
}

func (m *module) VertexLayouts() map[int][]wgpu.VertexBufferLayout {
	return m.vertexLayouts
}

func (m *module) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return m.bindGroups[group]
}

func (m *module) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return m.bindGroups
}

func (m *module) BindGroupVarName(group, binding int) string {
	if m.varNames[group] == nil {
		return ""
	}
	return m.varNames[group][binding]
}

func (m *module) BindGroupVarNames() map[int]map[int]string {
	return m.varNames
}

func (m *module) Descriptor() *wgpu.ShaderModuleDescriptor {
	return m.descriptor
}

func (m *module) Empty() bool {
	return m.empty
}
