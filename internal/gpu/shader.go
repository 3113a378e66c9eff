package gpu

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrShaderSource is returned when a shader file cannot be read.
	ErrShaderSource = errors.New("shader source unreadable")

	// ErrLink is returned when a program fails to link. The message carries
	// the native link log and the compile log of any stage that failed.
	ErrLink = errors.New("shader program link failed")
)

// State is the lifecycle position of a shader or program.
type State int

const (
	Uncompiled State = iota
	Compiled
	Linked
	Bound
	Released
)

func (s State) String() string {
	switch s {
	case Uncompiled:
		return "uncompiled"
	case Compiled:
		return "compiled"
	case Linked:
		return "linked"
	case Bound:
		return "bound"
	case Released:
		return "released"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Shader is a single compiled stage.
type Shader struct {
	ctx   Context
	id    uint32
	stage Stage
	name  string
	state State
	log   string
}

// NewShader reads and compiles the shader at path. An unreadable file is an
// error. A compile failure is only logged: the shader is returned with
// Compiled() false and the failure surfaces when the program links.
func NewShader(ctx Context, path string, stage Stage) (*Shader, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s shader: %w", ErrShaderSource, stage, err)
	}
	return CompileShader(ctx, string(source), stage, path), nil
}

// CompileShader compiles source for stage. name is used in logs only.
func CompileShader(ctx Context, source string, stage Stage, name string) *Shader {
	s := &Shader{
		ctx:   ctx,
		id:    ctx.CreateShader(stage),
		stage: stage,
		name:  name,
	}

	ctx.ShaderSource(s.id, source)
	ctx.CompileShader(s.id)

	ok, log := ctx.ShaderStatus(s.id)
	if !ok {
		s.log = strings.TrimSpace(log)
		Logger().Error("shader compilation failed", "stage", stage.String(), "shader", name, "log", s.log)
		return s
	}

	s.state = Compiled
	return s
}

// ID returns the native handle, 0 once deleted.
func (s *Shader) ID() uint32 { return s.id }

// Stage returns the pipeline stage the shader was compiled for.
func (s *Shader) Stage() Stage { return s.stage }

// State returns Compiled after a successful compile, Released after Delete.
func (s *Shader) State() State { return s.state }

// Compiled reports whether the last compile succeeded.
func (s *Shader) Compiled() bool { return s.state == Compiled }

// Log returns the compile log of a failed compile.
func (s *Shader) Log() string { return s.log }

// Delete releases the native shader. Safe to call more than once.
func (s *Shader) Delete() {
	if s.id == 0 {
		return
	}
	s.ctx.DeleteShader(s.id)
	s.id = 0
	s.state = Released
}

// Program is a linked shader program.
type Program struct {
	ctx      Context
	id       uint32
	state    State
	uniforms map[string]int32
}

// NewProgram compiles the vertex and fragment shaders at the given paths and
// links them. The stage shaders are released before returning.
func NewProgram(ctx Context, vertexPath, fragmentPath string) (*Program, error) {
	vs, err := NewShader(ctx, vertexPath, VertexStage)
	if err != nil {
		return nil, err
	}
	defer vs.Delete()

	fs, err := NewShader(ctx, fragmentPath, FragmentStage)
	if err != nil {
		return nil, err
	}
	defer fs.Delete()

	return LinkProgram(ctx, vs, fs)
}

// LinkProgram attaches the shaders to a new program and links it. Link
// status is always checked; on failure the program is deleted and an error
// wrapping ErrLink is returned. The shaders are not deleted.
func LinkProgram(ctx Context, shaders ...*Shader) (*Program, error) {
	id := ctx.CreateProgram()
	for _, s := range shaders {
		ctx.AttachShader(id, s.id)
	}
	ctx.LinkProgram(id)

	if ok, log := ctx.ProgramStatus(id); !ok {
		ctx.DeleteProgram(id)

		var b strings.Builder
		b.WriteString(strings.TrimSpace(log))
		for _, s := range shaders {
			if !s.Compiled() {
				fmt.Fprintf(&b, "\n%s shader %s did not compile: %s", s.stage, s.name, s.log)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrLink, b.String())
	}

	return &Program{
		ctx:      ctx,
		id:       id,
		state:    Linked,
		uniforms: make(map[string]int32),
	}, nil
}

// ID returns the native handle, 0 once deleted.
func (p *Program) ID() uint32 { return p.id }

// State returns Linked until the first Bind and Released after Delete.
func (p *Program) State() State { return p.state }

// Bind makes this the active program for subsequent draws and uniform
// uploads. It replaces whatever program was active before.
func (p *Program) Bind() {
	if p.id == 0 {
		return
	}
	p.ctx.UseProgram(p.id)
	p.state = Bound
}

// Uniform returns the location of the named uniform, or -1 if the program
// has no such active uniform. Lookups are cached and a missing uniform is
// logged only the first time.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.ctx.GetUniformLocation(p.id, name)
	if loc < 0 {
		Logger().Warn("uniform not found", "uniform", name, "program", p.id)
	}
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads m to the named uniform of the bound program.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.Uniform(name); loc >= 0 {
		p.ctx.UniformMatrix4fv(loc, m)
	}
}

// SetInt uploads v to the named uniform of the bound program.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.Uniform(name); loc >= 0 {
		p.ctx.Uniform1i(loc, v)
	}
}

// Delete releases the native program. Safe to call more than once.
func (p *Program) Delete() {
	if p.id == 0 {
		return
	}
	p.ctx.DeleteProgram(p.id)
	p.id = 0
	p.state = Released
}
