package gpu_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"cubeviewer/internal/gpu"
	"cubeviewer/internal/gpu/gputest"
)

const (
	vertexSrc   = "#version 410 core\nvoid main() { gl_Position = vec4(0.0); }\n"
	fragmentSrc = "#version 410 core\nout vec4 c;\nvoid main() { c = vec4(1.0); }\n"
)

func writeShaders(t *testing.T) (vs, fs string) {
	t.Helper()
	dir := t.TempDir()
	vs = filepath.Join(dir, "vertex.glsl")
	fs = filepath.Join(dir, "fragment.glsl")
	if err := os.WriteFile(vs, []byte(vertexSrc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fs, []byte(fragmentSrc), 0644); err != nil {
		t.Fatal(err)
	}
	return vs, fs
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := gpu.Logger()
	t.Cleanup(func() { gpu.SetLogger(orig) })

	var buf bytes.Buffer
	gpu.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestNewShader(t *testing.T) {
	ctx := gputest.New()
	vs, _ := writeShaders(t)

	s, err := gpu.NewShader(ctx, vs, gpu.VertexStage)
	if err != nil {
		t.Fatalf("NewShader() error = %v", err)
	}
	if !s.Compiled() || s.State() != gpu.Compiled {
		t.Errorf("State() = %v, want compiled", s.State())
	}
	if got := ctx.Sources[s.ID()]; got != vertexSrc {
		t.Errorf("source = %q, want %q", got, vertexSrc)
	}
	if s.Stage() != gpu.VertexStage {
		t.Errorf("Stage() = %v, want vertex", s.Stage())
	}
}

func TestNewShaderUnreadable(t *testing.T) {
	ctx := gputest.New()

	_, err := gpu.NewShader(ctx, filepath.Join(t.TempDir(), "missing.glsl"), gpu.FragmentStage)
	if !errors.Is(err, gpu.ErrShaderSource) {
		t.Fatalf("NewShader() error = %v, want ErrShaderSource", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("NewShader() error = %v, want it to wrap os.ErrNotExist", err)
	}
	if n := ctx.Count("CreateShader"); n != 0 {
		t.Errorf("CreateShader called %d times for unreadable source", n)
	}
}

func TestCompileFailureIsLoggedNotReturned(t *testing.T) {
	logs := captureLogs(t)
	ctx := gputest.New()
	ctx.CompileErrors[gpu.VertexStage] = "0:1(1): error: syntax error\n"

	s := gpu.CompileShader(ctx, "garbage", gpu.VertexStage, "broken.glsl")
	if s.Compiled() {
		t.Fatal("Compiled() = true for failing source")
	}
	if s.State() != gpu.Uncompiled {
		t.Errorf("State() = %v, want uncompiled", s.State())
	}
	if s.Log() != "0:1(1): error: syntax error" {
		t.Errorf("Log() = %q", s.Log())
	}
	out := logs.String()
	if !strings.Contains(out, "shader compilation failed") || !strings.Contains(out, "broken.glsl") {
		t.Errorf("compile failure not logged: %s", out)
	}
}

func TestNewProgram(t *testing.T) {
	ctx := gputest.New()
	vs, fs := writeShaders(t)

	p, err := gpu.NewProgram(ctx, vs, fs)
	if err != nil {
		t.Fatalf("NewProgram() error = %v", err)
	}
	if p.State() != gpu.Linked {
		t.Errorf("State() = %v, want linked", p.State())
	}
	if n := ctx.Count("AttachShader"); n != 2 {
		t.Errorf("AttachShader called %d times, want 2", n)
	}
	if ctx.Index("LinkProgram") < ctx.Index("AttachShader") {
		t.Error("LinkProgram called before AttachShader")
	}

	// stage shaders are released once the program is linked
	if live := ctx.Live(); len(live) != 1 || !strings.HasPrefix(live[0], "program#") {
		t.Errorf("Live() = %v, want only the program", live)
	}

	p.Bind()
	if p.State() != gpu.Bound {
		t.Errorf("State() = %v after Bind, want bound", p.State())
	}
	if ctx.Program != p.ID() {
		t.Errorf("active program = %d, want %d", ctx.Program, p.ID())
	}

	p.Delete()
	p.Delete()
	if p.State() != gpu.Released || p.ID() != 0 {
		t.Errorf("after Delete: state %v id %d", p.State(), p.ID())
	}
	if live := ctx.Live(); len(live) != 0 {
		t.Errorf("Live() = %v after Delete, want none", live)
	}
	if ctx.DoubleDeletes != 0 {
		t.Errorf("DoubleDeletes = %d, want 0", ctx.DoubleDeletes)
	}

	p.Bind()
	if ctx.Count("UseProgram") != 1 {
		t.Error("Bind on a deleted program reached the driver")
	}
}

func TestNewProgramLinkFailure(t *testing.T) {
	tests := []struct {
		name     string
		compile  map[gpu.Stage]string
		link     string
		contains []string
	}{
		{
			name:     "fragment does not compile",
			compile:  map[gpu.Stage]string{gpu.FragmentStage: "0:3: undeclared identifier 'x'"},
			contains: []string{"linking with uncompiled shader", "fragment shader", "undeclared identifier"},
		},
		{
			name:     "link error only",
			link:     "error: vertex output 'v_TexCoord' not consumed",
			contains: []string{"v_TexCoord"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureLogs(t)
			ctx := gputest.New()
			for stage, log := range tt.compile {
				ctx.CompileErrors[stage] = log
			}
			ctx.LinkError = tt.link
			vs, fs := writeShaders(t)

			p, err := gpu.NewProgram(ctx, vs, fs)
			if p != nil {
				t.Errorf("NewProgram() = %v, want nil", p)
			}
			if !errors.Is(err, gpu.ErrLink) {
				t.Fatalf("NewProgram() error = %v, want ErrLink", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(err.Error(), s) {
					t.Errorf("error %q does not mention %q", err, s)
				}
			}
			if live := ctx.Live(); len(live) != 0 {
				t.Errorf("Live() = %v after failed link, want none", live)
			}
		})
	}
}

func TestNewProgramMissingFragment(t *testing.T) {
	ctx := gputest.New()
	vs, _ := writeShaders(t)

	_, err := gpu.NewProgram(ctx, vs, filepath.Join(t.TempDir(), "nope.glsl"))
	if !errors.Is(err, gpu.ErrShaderSource) {
		t.Fatalf("NewProgram() error = %v, want ErrShaderSource", err)
	}
	// the vertex shader compiled before the failure must still be released
	if live := ctx.Live(); len(live) != 0 {
		t.Errorf("Live() = %v, want none", live)
	}
}

func TestUniforms(t *testing.T) {
	logs := captureLogs(t)
	ctx := gputest.New("u_Model", "u_View")
	vs, fs := writeShaders(t)

	p, err := gpu.NewProgram(ctx, vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	p.Bind()

	view := mgl32.Translate3D(1, 2, 3)
	p.SetMat4("u_View", view)
	p.SetMat4("u_View", view)
	if got, ok := ctx.Matrix("u_View"); !ok || got != view {
		t.Errorf("u_View = %v, %v, want %v", got, ok, view)
	}
	if n := ctx.Count("GetUniformLocation"); n != 1 {
		t.Errorf("GetUniformLocation called %d times, want 1 (cached)", n)
	}

	p.SetMat4("u_Missing", view)
	p.SetMat4("u_Missing", view)
	p.SetInt("u_Missing", 1)
	if got := p.Uniform("u_Missing"); got != -1 {
		t.Errorf("Uniform(u_Missing) = %d, want -1", got)
	}
	if n := strings.Count(logs.String(), "uniform not found"); n != 1 {
		t.Errorf("missing uniform logged %d times, want 1", n)
	}
	if n := ctx.Count("UniformMatrix4fv"); n != 2 {
		t.Errorf("UniformMatrix4fv called %d times, want 2", n)
	}

	p.SetInt("u_Model", 3)
	if ctx.Ints[0] != 3 {
		t.Errorf("u_Model int = %d, want 3", ctx.Ints[0])
	}
}

func TestBuffersAndVertexArray(t *testing.T) {
	ctx := gputest.New()

	vao := gpu.NewVertexArray(ctx)
	if ctx.VertexArray != vao.ID() {
		t.Errorf("bound vertex array = %d, want %d", ctx.VertexArray, vao.ID())
	}

	data := []byte{1, 2, 3, 4}
	vbo := gpu.NewBuffer(ctx, gpu.ArrayBuffer, data)
	if vbo.Size() != 4 || !bytes.Equal(ctx.Buffers[gpu.ArrayBuffer], data) {
		t.Errorf("array buffer = %v (size %d)", ctx.Buffers[gpu.ArrayBuffer], vbo.Size())
	}

	vao.Attrib(1, 2, 20, 12)
	want := gputest.Attrib{Index: 1, Size: 2, Stride: 20, Offset: 12}
	if len(ctx.Attribs) != 1 || ctx.Attribs[0] != want {
		t.Errorf("Attribs = %v, want [%v]", ctx.Attribs, want)
	}
	if ctx.Count("EnableVertexAttribArray(1)") != 1 {
		t.Error("attribute 1 not enabled")
	}

	for i := 0; i < 2; i++ {
		vbo.Delete()
		vao.Delete()
	}
	if live := ctx.Live(); len(live) != 0 {
		t.Errorf("Live() = %v, want none", live)
	}
	if ctx.DoubleDeletes != 0 || vbo.ID() != 0 || vao.ID() != 0 {
		t.Errorf("double deletes %d, ids %d %d", ctx.DoubleDeletes, vbo.ID(), vao.ID())
	}
}

func TestNewTexture(t *testing.T) {
	ctx := gputest.New()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	tex, err := gpu.NewTexture(ctx, img, gpu.TextureOptions{
		Wrap:      gpu.Repeat,
		MinFilter: gpu.Nearest,
		MagFilter: gpu.Nearest,
		Mipmaps:   true,
	})
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}

	if ctx.TexWidth != 2 || ctx.TexHeight != 2 {
		t.Errorf("uploaded %dx%d, want 2x2", ctx.TexWidth, ctx.TexHeight)
	}
	if !bytes.Equal(ctx.TexPixels, img.Pix) {
		t.Errorf("uploaded pixels = %v, want %v", ctx.TexPixels, img.Pix)
	}
	if ctx.TexWrap != gpu.Repeat || ctx.TexMin != gpu.Nearest || ctx.TexMag != gpu.Nearest {
		t.Errorf("params = %v %v %v", ctx.TexWrap, ctx.TexMin, ctx.TexMag)
	}
	if ctx.Mipmaps != 1 {
		t.Errorf("GenerateMipmap called %d times, want 1", ctx.Mipmaps)
	}
	if w, h := tex.Size(); w != 2 || h != 2 {
		t.Errorf("Size() = %d, %d", w, h)
	}

	tex.Bind(0)
	if ctx.Texture != tex.ID() || ctx.Count("ActiveTexture(0)") != 1 {
		t.Error("Bind(0) did not activate unit 0 and bind the texture")
	}

	tex.Delete()
	tex.Delete()
	if len(ctx.Live()) != 0 || ctx.DoubleDeletes != 0 {
		t.Errorf("Live() = %v, double deletes %d", ctx.Live(), ctx.DoubleDeletes)
	}
}

func TestNewTextureSubImage(t *testing.T) {
	ctx := gputest.New()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	if _, err := gpu.NewTexture(ctx, sub, gpu.TextureOptions{}); err != nil {
		t.Fatal(err)
	}

	want := []byte{
		1, 1, 0, 255, 2, 1, 0, 255,
		1, 2, 0, 255, 2, 2, 0, 255,
	}
	if !bytes.Equal(ctx.TexPixels, want) {
		t.Errorf("uploaded pixels = %v, want %v", ctx.TexPixels, want)
	}
	if ctx.Mipmaps != 0 {
		t.Error("mipmaps generated without Mipmaps option")
	}
}

func TestNewTextureEmpty(t *testing.T) {
	ctx := gputest.New()

	for _, img := range []*image.RGBA{nil, image.NewRGBA(image.Rect(0, 0, 0, 5))} {
		if _, err := gpu.NewTexture(ctx, img, gpu.TextureOptions{}); !errors.Is(err, gpu.ErrEmptyTexture) {
			t.Errorf("NewTexture() error = %v, want ErrEmptyTexture", err)
		}
	}
	if ctx.Count("GenTexture") != 0 {
		t.Error("GenTexture called for an empty image")
	}
}

func TestSetLoggerNil(t *testing.T) {
	orig := gpu.Logger()
	t.Cleanup(func() { gpu.SetLogger(orig) })

	gpu.SetLogger(nil)
	if gpu.Logger() == nil {
		t.Fatal("Logger() = nil after SetLogger(nil)")
	}
}
