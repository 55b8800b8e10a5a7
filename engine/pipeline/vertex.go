package pipeline

import (
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/sundrift/prism/engine/math"
)

// VertexAttributes is the per-vertex input record supplied by the host draw
// call. It is immutable for the duration of one stage invocation; ownership
// stays with the host's vertex-fetch mechanism.
type VertexAttributes struct {
	// Position holds local-space coordinates.
	Position math.Vec3
	// Color is an arbitrary per-vertex signal with no implied range.
	Color math.Vec3
}

// DrawUniforms is the per-draw parameter block, shared read-only across all
// vertices of a draw. The host owns it and decides what fold of
// model/view/projection the single matrix carries; stages only consume it.
type DrawUniforms struct {
	ModelMatrix math.Mat4
}

// StageOutputs is the per-vertex result of a vertex stage. ClipPosition
// feeds primitive assembly, which performs perspective division later;
// ForwardedColor is the interpolation-ready varying.
type StageOutputs struct {
	ClipPosition   math.Vec4
	ForwardedColor math.Vec3
}

var ErrStreamLengthMismatch = fmt.Errorf("vertex buffer attribute streams differ in length")

// VertexBuffer holds the packed per-vertex attribute streams of a mesh. The
// host owns it; stages read it only through Fetch.
type VertexBuffer struct {
	positions []f32.Vec3
	colors    []f32.Vec3
}

// NewVertexBuffer wraps parallel position and color streams. The streams
// must be the same length.
func NewVertexBuffer(positions, colors []f32.Vec3) (*VertexBuffer, error) {
	if len(positions) != len(colors) {
		return nil, fmt.Errorf("%w: %d positions, %d colors",
			ErrStreamLengthMismatch, len(positions), len(colors))
	}
	return &VertexBuffer{positions: positions, colors: colors}, nil
}

// NewEmptyVertexBuffer creates a buffer to be filled through Append.
func NewEmptyVertexBuffer(capacity int) *VertexBuffer {
	return &VertexBuffer{
		positions: make([]f32.Vec3, 0, capacity),
		colors:    make([]f32.Vec3, 0, capacity),
	}
}

// Append adds one vertex to the buffer.
func (b *VertexBuffer) Append(position, color math.Vec3) {
	b.positions = append(b.positions, f32.Vec3{position.X, position.Y, position.Z})
	b.colors = append(b.colors, f32.Vec3{color.X, color.Y, color.Z})
}

// Len returns the number of vertices in the buffer.
func (b *VertexBuffer) Len() int {
	return len(b.positions)
}

// Fetch returns the attribute record of vertex i. This is the host-side
// vertex fetch; i must be in [0, Len).
func (b *VertexBuffer) Fetch(i int) VertexAttributes {
	p := b.positions[i]
	c := b.colors[i]
	return VertexAttributes{
		Position: math.NewVec3(p[0], p[1], p[2]),
		Color:    math.NewVec3(c[0], c[1], c[2]),
	}
}
