package cube

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex layout as seen by the vertex shader:
//
//	location 0: a_Position vec3 at byte offset 0
//	location 1: a_TexCoord vec2 at byte offset 12
//
// Both are float32 and packed tightly, 20 bytes per vertex.
const (
	PositionOffset = 0
	TexCoordOffset = 12
	VertexStride   = 20

	// VertexCount is the number of vertices (and indices) in the cube: 6 faces, 2 triangles each.
	VertexCount = 36
)

var (
	ErrIndexRange     = errors.New("cube: index out of range")
	ErrEmptyTexCoords = errors.New("cube: empty texture coordinate table")
)

// Vertex is a single cube vertex.
type Vertex struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Put writes the vertex into b using the packed layout. b must hold at least VertexStride bytes.
func (v Vertex) Put(b []byte) {
	_ = b[VertexStride-1]
	for i, f := range v.Position {
		binary.NativeEndian.PutUint32(b[PositionOffset+i*4:], math.Float32bits(f))
	}
	for i, f := range v.TexCoord {
		binary.NativeEndian.PutUint32(b[TexCoordOffset+i*4:], math.Float32bits(f))
	}
}

// Attribute describes one vertex attribute pointer.
type Attribute struct {
	Location   uint32
	Components int32
	Offset     int
}

// Layout is the attribute contract the vertex buffer is described with.
var Layout = []Attribute{
	{Location: 0, Components: 3, Offset: PositionOffset},
	{Location: 1, Components: 2, Offset: TexCoordOffset},
}

// Corners are the 8 unique positions of the unit cube.
var Corners = [8]mgl32.Vec3{
	{0, 0, 0},
	{0, 1, 0},
	{1, 1, 0},
	{1, 0, 0},

	{0, 1, 1},
	{1, 1, 1},
	{1, 0, 1},
	{0, 0, 1},
}

// TexCoords is the UV pattern every face repeats.
var TexCoords = [6]mgl32.Vec2{
	{1, 1},
	{0, 1},
	{0, 0},
	{1, 1},
	{1, 0},
	{0, 0},
}

// Indices lists the 12 triangles, front face first.
var Indices = [VertexCount]uint32{
	// Front
	0, 1, 2,
	2, 3, 0,

	// Top
	1, 4, 5,
	5, 2, 1,

	// Right
	2, 5, 6,
	6, 3, 2,

	// Bottom
	7, 6, 5,
	5, 4, 7,

	// Back
	4, 0, 3,
	3, 7, 4,

	// Left
	7, 3, 6,
	6, 3, 2,
}

// Mesh holds the expanded vertices and the index list used for drawing.
// Indices refer to Vertices, not to Corners.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Expand turns indexed positions into a flat vertex list. Vertex i takes
// corners[indices[i]] as position and uvs[i%len(uvs)] as texture coordinate.
func Expand(corners []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) ([]Vertex, error) {
	if len(uvs) == 0 {
		return nil, ErrEmptyTexCoords
	}

	vertices := make([]Vertex, len(indices))
	for i, idx := range indices {
		if int(idx) >= len(corners) {
			return nil, fmt.Errorf("%w: indices[%d] = %d, have %d corners", ErrIndexRange, i, idx, len(corners))
		}
		vertices[i] = Vertex{
			Position: corners[idx],
			TexCoord: uvs[i%len(uvs)],
		}
	}
	return vertices, nil
}

// Unit returns the textured unit cube built from the fixed tables. Every
// face has its own vertices, so the draw indices run 0..VertexCount-1 over
// the expanded array.
func Unit() *Mesh {
	vertices, err := Expand(Corners[:], TexCoords[:], Indices[:])
	if err != nil {
		panic(err)
	}

	indices := make([]uint32, len(vertices))
	for i := range indices {
		indices[i] = uint32(i)
	}

	return &Mesh{Vertices: vertices, Indices: indices}
}

// VertexBytes serializes the vertices for upload to an array buffer.
func (m *Mesh) VertexBytes() []byte {
	b := make([]byte, len(m.Vertices)*VertexStride)
	for i, v := range m.Vertices {
		v.Put(b[i*VertexStride:])
	}
	return b
}

// IndexBytes serializes the indices for upload to an element buffer.
func (m *Mesh) IndexBytes() []byte {
	b := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.NativeEndian.PutUint32(b[i*4:], idx)
	}
	return b
}
