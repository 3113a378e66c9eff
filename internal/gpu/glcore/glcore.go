// Package glcore implements gpu.Context on an OpenGL 4.1 core profile context.
package glcore

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"cubeviewer/internal/gpu"
)

// Context issues gpu.Context calls to the current OpenGL context.
type Context struct{}

// New loads the OpenGL function pointers. A context must be current on the
// calling thread.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return &Context{}, nil
}

// Version returns the GL_VERSION and GL_RENDERER strings.
func (c *Context) Version() (version, renderer string) {
	return gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER))
}

func shaderType(stage gpu.Stage) uint32 {
	if stage == gpu.FragmentStage {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func bufferTarget(target gpu.BufferTarget) uint32 {
	if target == gpu.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func filter(f gpu.Filter) int32 {
	if f == gpu.Linear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

// status reads a compile or link status flag and, when it is false, the
// object's info log.
func status(
	object, pname uint32,
	getiv func(object, pname uint32, params *int32),
	getInfoLog func(object uint32, bufSize int32, length *int32, infoLog *uint8),
) (bool, string) {
	var ok int32
	getiv(object, pname, &ok)
	if ok == gl.TRUE {
		return true, ""
	}

	var logLength int32
	getiv(object, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	getInfoLog(object, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (c *Context) CreateShader(stage gpu.Stage) uint32 {
	return gl.CreateShader(shaderType(stage))
}

func (c *Context) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (c *Context) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (c *Context) ShaderStatus(shader uint32) (bool, string) {
	return status(shader, gl.COMPILE_STATUS, gl.GetShaderiv, gl.GetShaderInfoLog)
}

func (c *Context) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (c *Context) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (c *Context) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (c *Context) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (c *Context) ProgramStatus(program uint32) (bool, string) {
	return status(program, gl.LINK_STATUS, gl.GetProgramiv, gl.GetProgramInfoLog)
}

func (c *Context) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (c *Context) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (c *Context) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (c *Context) UniformMatrix4fv(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (c *Context) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (c *Context) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (c *Context) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (c *Context) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (c *Context) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, gl.FLOAT, false, stride, uintptr(offset))
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (c *Context) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (c *Context) BindBuffer(target gpu.BufferTarget, buffer uint32) {
	gl.BindBuffer(bufferTarget(target), buffer)
}

func (c *Context) BufferData(target gpu.BufferTarget, data []byte) {
	if len(data) == 0 {
		gl.BufferData(bufferTarget(target), 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(bufferTarget(target), len(data), gl.Ptr(data), gl.STATIC_DRAW)
}

func (c *Context) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (c *Context) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (c *Context) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (c *Context) BindTexture(texture uint32) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (c *Context) TexParameters(wrap gpu.Wrap, min, mag gpu.Filter) {
	mode := int32(gl.REPEAT)
	if wrap == gpu.ClampToEdge {
		mode = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter(min))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter(mag))
}

func (c *Context) TexImage2D(width, height int32, rgba []byte) {
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
}

func (c *Context) GenerateMipmap() {
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

func (c *Context) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (c *Context) Enable(capability gpu.Capability) {
	switch capability {
	case gpu.DepthTest:
		gl.Enable(gl.DEPTH_TEST)
	case gpu.CullFace:
		gl.Enable(gl.CULL_FACE)
	}
}

func (c *Context) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (c *Context) ClearColor(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
}

func (c *Context) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (c *Context) DrawElements(count int32) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, count, gl.UNSIGNED_INT, 0)
}

var _ gpu.Context = (*Context)(nil)
