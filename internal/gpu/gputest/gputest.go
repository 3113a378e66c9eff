// Package gputest provides a recording gpu.Context for tests.
package gputest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"cubeviewer/internal/gpu"
)

// Context is an in-memory gpu.Context. It records every call, tracks which
// native objects are alive and behaves like a driver for compile and link
// status: a program fails to link when any attached shader failed to compile.
type Context struct {
	// Calls lists every call in order, formatted as Name(args).
	Calls []string

	// CompileErrors makes shaders of a stage fail to compile with the given log.
	CompileErrors map[gpu.Stage]string
	// LinkError makes every link fail with this log when non-empty.
	LinkError string

	// DoubleDeletes counts deletes of ids that were not alive.
	DoubleDeletes int

	Sources  map[uint32]string
	Matrices map[int32]mgl32.Mat4
	Ints     map[int32]int32
	Enabled  map[gpu.Capability]bool
	Buffers  map[gpu.BufferTarget][]byte
	Attribs  []Attrib

	Program      uint32
	VertexArray  uint32
	Texture      uint32
	ClearValue   mgl32.Vec4
	ViewportRect [4]int32
	Draws        []int32

	TexWidth, TexHeight int32
	TexPixels           []byte
	TexWrap             gpu.Wrap
	TexMin, TexMag      gpu.Filter
	Mipmaps             int

	next      uint32
	live      map[uint32]string
	uniforms  map[string]int32
	shaderOK  map[uint32]bool
	shaderTyp map[uint32]gpu.Stage
	attached  map[uint32][]uint32
	linked    map[uint32]bool
}

// Attrib is a recorded VertexAttribPointer call.
type Attrib struct {
	Index  uint32
	Size   int32
	Stride int32
	Offset int
}

// New returns a context whose programs expose the given uniform names.
func New(uniforms ...string) *Context {
	c := &Context{
		CompileErrors: make(map[gpu.Stage]string),
		Sources:       make(map[uint32]string),
		Matrices:      make(map[int32]mgl32.Mat4),
		Ints:          make(map[int32]int32),
		Enabled:       make(map[gpu.Capability]bool),
		Buffers:       make(map[gpu.BufferTarget][]byte),
		live:          make(map[uint32]string),
		uniforms:      make(map[string]int32),
		shaderOK:      make(map[uint32]bool),
		shaderTyp:     make(map[uint32]gpu.Stage),
		attached:      make(map[uint32][]uint32),
		linked:        make(map[uint32]bool),
	}
	for i, name := range uniforms {
		c.uniforms[name] = int32(i)
	}
	return c
}

func (c *Context) record(format string, args ...any) {
	c.Calls = append(c.Calls, fmt.Sprintf(format, args...))
}

func (c *Context) gen(kind string) uint32 {
	c.next++
	c.live[c.next] = kind
	return c.next
}

func (c *Context) del(id uint32, kind string) {
	if c.live[id] != kind {
		c.DoubleDeletes++
		return
	}
	delete(c.live, id)
}

// Live returns the kinds of objects not yet deleted, sorted.
func (c *Context) Live() []string {
	var out []string
	for id, kind := range c.live {
		out = append(out, fmt.Sprintf("%s#%d", kind, id))
	}
	sort.Strings(out)
	return out
}

// Count returns how many recorded calls start with prefix.
func (c *Context) Count(prefix string) int {
	n := 0
	for _, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

// Index returns the position of the first call starting with prefix, or -1.
func (c *Context) Index(prefix string) int {
	for i, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			return i
		}
	}
	return -1
}

// Matrix returns the last matrix uploaded to the named uniform.
func (c *Context) Matrix(name string) (mgl32.Mat4, bool) {
	loc, ok := c.uniforms[name]
	if !ok {
		return mgl32.Mat4{}, false
	}
	m, ok := c.Matrices[loc]
	return m, ok
}

// Reset clears the call log.
func (c *Context) Reset() {
	c.Calls = nil
}

func (c *Context) CreateShader(stage gpu.Stage) uint32 {
	id := c.gen("shader")
	c.shaderTyp[id] = stage
	c.record("CreateShader(%s)", stage)
	return id
}

func (c *Context) ShaderSource(shader uint32, source string) {
	c.Sources[shader] = source
	c.record("ShaderSource(%d)", shader)
}

func (c *Context) CompileShader(shader uint32) {
	_, fail := c.CompileErrors[c.shaderTyp[shader]]
	c.shaderOK[shader] = !fail
	c.record("CompileShader(%d)", shader)
}

func (c *Context) ShaderStatus(shader uint32) (bool, string) {
	if c.shaderOK[shader] {
		return true, ""
	}
	return false, c.CompileErrors[c.shaderTyp[shader]]
}

func (c *Context) DeleteShader(shader uint32) {
	c.del(shader, "shader")
	c.record("DeleteShader(%d)", shader)
}

func (c *Context) CreateProgram() uint32 {
	id := c.gen("program")
	c.record("CreateProgram()")
	return id
}

func (c *Context) AttachShader(program, shader uint32) {
	c.attached[program] = append(c.attached[program], shader)
	c.record("AttachShader(%d, %d)", program, shader)
}

func (c *Context) LinkProgram(program uint32) {
	ok := c.LinkError == ""
	for _, s := range c.attached[program] {
		ok = ok && c.shaderOK[s]
	}
	c.linked[program] = ok
	c.record("LinkProgram(%d)", program)
}

func (c *Context) ProgramStatus(program uint32) (bool, string) {
	if c.linked[program] {
		return true, ""
	}
	if c.LinkError != "" {
		return false, c.LinkError
	}
	return false, "error: linking with uncompiled shader"
}

func (c *Context) UseProgram(program uint32) {
	c.Program = program
	c.record("UseProgram(%d)", program)
}

func (c *Context) DeleteProgram(program uint32) {
	c.del(program, "program")
	c.record("DeleteProgram(%d)", program)
}

func (c *Context) GetUniformLocation(program uint32, name string) int32 {
	c.record("GetUniformLocation(%d, %s)", program, name)
	if loc, ok := c.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (c *Context) UniformMatrix4fv(location int32, m mgl32.Mat4) {
	c.Matrices[location] = m
	c.record("UniformMatrix4fv(%d)", location)
}

func (c *Context) Uniform1i(location int32, v int32) {
	c.Ints[location] = v
	c.record("Uniform1i(%d, %d)", location, v)
}

func (c *Context) GenVertexArray() uint32 {
	id := c.gen("vertexarray")
	c.record("GenVertexArray()")
	return id
}

func (c *Context) BindVertexArray(vao uint32) {
	c.VertexArray = vao
	c.record("BindVertexArray(%d)", vao)
}

func (c *Context) DeleteVertexArray(vao uint32) {
	c.del(vao, "vertexarray")
	c.record("DeleteVertexArray(%d)", vao)
}

func (c *Context) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	c.Attribs = append(c.Attribs, Attrib{Index: index, Size: size, Stride: stride, Offset: offset})
	c.record("VertexAttribPointer(%d, %d, %d, %d)", index, size, stride, offset)
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	c.record("EnableVertexAttribArray(%d)", index)
}

func (c *Context) GenBuffer() uint32 {
	id := c.gen("buffer")
	c.record("GenBuffer()")
	return id
}

func (c *Context) BindBuffer(target gpu.BufferTarget, buffer uint32) {
	c.record("BindBuffer(%d, %d)", target, buffer)
}

func (c *Context) BufferData(target gpu.BufferTarget, data []byte) {
	c.Buffers[target] = append([]byte(nil), data...)
	c.record("BufferData(%d, %d)", target, len(data))
}

func (c *Context) DeleteBuffer(buffer uint32) {
	c.del(buffer, "buffer")
	c.record("DeleteBuffer(%d)", buffer)
}

func (c *Context) GenTexture() uint32 {
	id := c.gen("texture")
	c.record("GenTexture()")
	return id
}

func (c *Context) ActiveTexture(unit uint32) {
	c.record("ActiveTexture(%d)", unit)
}

func (c *Context) BindTexture(texture uint32) {
	c.Texture = texture
	c.record("BindTexture(%d)", texture)
}

func (c *Context) TexParameters(wrap gpu.Wrap, min, mag gpu.Filter) {
	c.TexWrap, c.TexMin, c.TexMag = wrap, min, mag
	c.record("TexParameters(%d, %d, %d)", wrap, min, mag)
}

func (c *Context) TexImage2D(width, height int32, rgba []byte) {
	c.TexWidth, c.TexHeight = width, height
	c.TexPixels = append([]byte(nil), rgba...)
	c.record("TexImage2D(%d, %d)", width, height)
}

func (c *Context) GenerateMipmap() {
	c.Mipmaps++
	c.record("GenerateMipmap()")
}

func (c *Context) DeleteTexture(texture uint32) {
	c.del(texture, "texture")
	c.record("DeleteTexture(%d)", texture)
}

func (c *Context) Enable(capability gpu.Capability) {
	c.Enabled[capability] = true
	c.record("Enable(%d)", capability)
}

func (c *Context) Viewport(x, y, width, height int32) {
	c.ViewportRect = [4]int32{x, y, width, height}
	c.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
}

func (c *Context) ClearColor(color mgl32.Vec4) {
	c.ClearValue = color
	c.record("ClearColor(%v)", color)
}

func (c *Context) Clear() {
	c.record("Clear()")
}

func (c *Context) DrawElements(count int32) {
	c.Draws = append(c.Draws, count)
	c.record("DrawElements(%d)", count)
}

var _ gpu.Context = (*Context)(nil)
