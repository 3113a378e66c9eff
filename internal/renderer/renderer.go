package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"cubeviewer/internal/gpu"
	"cubeviewer/pkg/cube"
)

// Options configures the renderer's fixed state and assets
type Options struct {
	VertexShader   string
	FragmentShader string
	Texture        *image.RGBA

	ClearColor mgl32.Vec4
	CullFaces  bool

	Width, Height int
}

// Renderer owns the GPU resources for the cube and draws it
type Renderer struct {
	ctx gpu.Context

	program     *gpu.Program
	vertexArray *gpu.VertexArray
	vertices    *gpu.Buffer
	indices     *gpu.Buffer
	texture     *gpu.Texture

	indexCount int32
	clearColor mgl32.Vec4

	width  int
	height int
}

// NewRenderer creates every GPU resource needed to draw mesh. On failure
// anything already created is released.
func NewRenderer(ctx gpu.Context, mesh *cube.Mesh, opts Options) (*Renderer, error) {
	r := &Renderer{
		ctx:        ctx,
		indexCount: int32(len(mesh.Indices)),
		clearColor: opts.ClearColor,
	}

	if err := r.init(mesh, opts); err != nil {
		r.Release()
		return nil, err
	}

	return r, nil
}

func (r *Renderer) init(mesh *cube.Mesh, opts Options) error {
	r.ctx.Enable(gpu.DepthTest)
	if opts.CullFaces {
		r.ctx.Enable(gpu.CullFace)
	}
	r.Resize(opts.Width, opts.Height)

	var err error
	r.program, err = gpu.NewProgram(r.ctx, opts.VertexShader, opts.FragmentShader)
	if err != nil {
		return fmt.Errorf("shader program creation failed: %w", err)
	}
	r.program.Bind()

	// The element buffer binding is recorded in the vertex array, so it must be bound first.
	r.vertexArray = gpu.NewVertexArray(r.ctx)
	r.vertices = gpu.NewBuffer(r.ctx, gpu.ArrayBuffer, mesh.VertexBytes())
	for _, a := range cube.Layout {
		r.vertexArray.Attrib(a.Location, a.Components, cube.VertexStride, a.Offset)
	}
	r.indices = gpu.NewBuffer(r.ctx, gpu.ElementArrayBuffer, mesh.IndexBytes())

	// Nearest filtering keeps the texture pixelated.
	r.texture, err = gpu.NewTexture(r.ctx, opts.Texture, gpu.TextureOptions{
		Wrap:      gpu.Repeat,
		MinFilter: gpu.Nearest,
		MagFilter: gpu.Nearest,
		Mipmaps:   true,
	})
	if err != nil {
		return fmt.Errorf("texture creation failed: %w", err)
	}

	r.program.SetMat4(UniformModel, mgl32.Ident4())
	r.program.SetInt(UniformTexture, TextureUnit)

	return nil
}

// Resize updates the viewport for a new framebuffer size
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == r.width && height == r.height {
		return
	}
	r.width = width
	r.height = height
	r.ctx.Viewport(0, 0, int32(width), int32(height))
}

// Size returns the current viewport size
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Render clears the frame and draws the cube with the given view and projection
func (r *Renderer) Render(view, projection mgl32.Mat4) {
	r.ctx.ClearColor(r.clearColor)
	r.ctx.Clear()

	r.program.Bind()
	r.vertexArray.Bind()
	r.texture.Bind(TextureUnit)

	r.program.SetMat4(UniformView, view)
	r.program.SetMat4(UniformProjection, projection)

	r.ctx.DrawElements(r.indexCount)
}

// Release frees all GPU resources in reverse creation order
func (r *Renderer) Release() {
	if r.texture != nil {
		r.texture.Delete()
	}
	if r.indices != nil {
		r.indices.Delete()
	}
	if r.vertices != nil {
		r.vertices.Delete()
	}
	if r.vertexArray != nil {
		r.vertexArray.Delete()
	}
	if r.program != nil {
		r.program.Delete()
	}
}
