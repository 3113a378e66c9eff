// Package gpu wraps native GPU objects in owning handle types.
//
// Every type holds a Context and the native id it created. Delete releases
// the id exactly once; later calls do nothing. The Context itself is a thin
// mirror of the OpenGL calls the viewer needs, so the handle logic can be
// exercised without a window (see package gputest).
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Stage is a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// BufferTarget selects what a buffer is bound as.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

// Capability is fixed-function state toggled with Enable.
type Capability int

const (
	DepthTest Capability = iota
	CullFace
)

// Filter is a texture sampling filter.
type Filter int

const (
	Nearest Filter = iota
	Linear
)

// Wrap is a texture coordinate wrap mode.
type Wrap int

const (
	Repeat Wrap = iota
	ClampToEdge
)

// Context is the set of native calls the handle types are built on. All
// methods must be called from the thread that owns the GL context.
type Context interface {
	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	// ShaderStatus reports COMPILE_STATUS and the info log.
	ShaderStatus(shader uint32) (ok bool, log string)
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	// ProgramStatus reports LINK_STATUS and the info log.
	ProgramStatus(program uint32) (ok bool, log string)
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	UniformMatrix4fv(location int32, m mgl32.Mat4)
	Uniform1i(location int32, v int32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	VertexAttribPointer(index uint32, size int32, stride int32, offset int)
	EnableVertexAttribArray(index uint32)

	GenBuffer() uint32
	BindBuffer(target BufferTarget, buffer uint32)
	BufferData(target BufferTarget, data []byte)
	DeleteBuffer(buffer uint32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(texture uint32)
	TexParameters(wrap Wrap, min, mag Filter)
	TexImage2D(width, height int32, rgba []byte)
	GenerateMipmap()
	DeleteTexture(texture uint32)

	Enable(c Capability)
	Viewport(x, y, width, height int32)
	ClearColor(c mgl32.Vec4)
	Clear()
	DrawElements(count int32)
}
