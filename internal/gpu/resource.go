package gpu

import (
	"errors"
	"fmt"
	"image"
)

var ErrEmptyTexture = errors.New("texture image is empty")

// Buffer is a static GPU buffer.
type Buffer struct {
	ctx    Context
	id     uint32
	target BufferTarget
	size   int
}

// NewBuffer creates a buffer, binds it to target and uploads data.
// An element buffer is recorded in the currently bound vertex array.
func NewBuffer(ctx Context, target BufferTarget, data []byte) *Buffer {
	b := &Buffer{
		ctx:    ctx,
		id:     ctx.GenBuffer(),
		target: target,
		size:   len(data),
	}
	ctx.BindBuffer(target, b.id)
	ctx.BufferData(target, data)
	return b
}

func (b *Buffer) ID() uint32 { return b.id }

// Size is the number of bytes uploaded.
func (b *Buffer) Size() int { return b.size }

func (b *Buffer) Bind() {
	b.ctx.BindBuffer(b.target, b.id)
}

// Delete releases the buffer. Safe to call more than once.
func (b *Buffer) Delete() {
	if b.id == 0 {
		return
	}
	b.ctx.DeleteBuffer(b.id)
	b.id = 0
}

// VertexArray records the vertex attribute layout and element buffer binding.
type VertexArray struct {
	ctx Context
	id  uint32
}

// NewVertexArray creates a vertex array and leaves it bound.
func NewVertexArray(ctx Context) *VertexArray {
	v := &VertexArray{ctx: ctx, id: ctx.GenVertexArray()}
	ctx.BindVertexArray(v.id)
	return v
}

func (v *VertexArray) ID() uint32 { return v.id }

func (v *VertexArray) Bind() {
	v.ctx.BindVertexArray(v.id)
}

// Attrib declares a float attribute sourced from the bound array buffer and enables it.
func (v *VertexArray) Attrib(index uint32, components, stride int32, offset int) {
	v.ctx.VertexAttribPointer(index, components, stride, offset)
	v.ctx.EnableVertexAttribArray(index)
}

// Delete releases the vertex array. Safe to call more than once.
func (v *VertexArray) Delete() {
	if v.id == 0 {
		return
	}
	v.ctx.DeleteVertexArray(v.id)
	v.id = 0
}

// TextureOptions controls sampling of a texture.
type TextureOptions struct {
	Wrap      Wrap
	MinFilter Filter
	MagFilter Filter
	Mipmaps   bool
}

// Texture is a 2D RGBA8 texture.
type Texture struct {
	ctx    Context
	id     uint32
	width  int
	height int
}

// NewTexture uploads img as an RGBA8 texture.
func NewTexture(ctx Context, img *image.RGBA, opts TextureOptions) (*Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyTexture
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w > 1<<15 || h > 1<<15 {
		return nil, fmt.Errorf("texture %dx%d is too large", w, h)
	}

	t := &Texture{
		ctx:    ctx,
		id:     ctx.GenTexture(),
		width:  w,
		height: h,
	}
	ctx.BindTexture(t.id)
	ctx.TexParameters(opts.Wrap, opts.MinFilter, opts.MagFilter)
	ctx.TexImage2D(int32(w), int32(h), tightPixels(img))
	if opts.Mipmaps {
		ctx.GenerateMipmap()
	}
	return t, nil
}

// tightPixels returns the pixels of img with no row padding.
func tightPixels(img *image.RGBA) []byte {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	if img.Stride == rowLen && b.Min == (image.Point{}) {
		return img.Pix[:rowLen*b.Dy()]
	}

	pix := make([]byte, rowLen*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*rowLen:], img.Pix[start:start+rowLen])
	}
	return pix
}

func (t *Texture) ID() uint32 { return t.id }

func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	t.ctx.ActiveTexture(unit)
	t.ctx.BindTexture(t.id)
}

// Delete releases the texture. Safe to call more than once.
func (t *Texture) Delete() {
	if t.id == 0 {
		return
	}
	t.ctx.DeleteTexture(t.id)
	t.id = 0
}
