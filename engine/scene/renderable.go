package scene

import (
	"github.com/chewxy/math32"

	"github.com/sundrift/prism/engine/math"
	"github.com/sundrift/prism/engine/pipeline"
)

// Renderable pairs a vertex buffer with its placement in the world and a
// bounding sphere for visibility tests.
type Renderable struct {
	ID             uint32
	Transform      *math.Transform
	Buffer         *pipeline.VertexBuffer
	BoundingRadius float32
}

func NewRenderable(id uint32, buffer *pipeline.VertexBuffer, boundingRadius float32) *Renderable {
	return &Renderable{
		ID:             id,
		Transform:      math.NewTransform(),
		Buffer:         buffer,
		BoundingRadius: boundingRadius,
	}
}

// ViewProjection composes the projection with the camera's view matrix. The
// result left-multiplies model matrices before dispatch.
func ViewProjection(projection math.Mat4, camera *Camera) math.Mat4 {
	return projection.Mul(camera.GetView())
}

// Packet folds the combined view-projection with the renderable's world
// matrix into the single matrix the vertex stage consumes. The stage never
// sees the individual factors.
func (r *Renderable) Packet(viewProjection math.Mat4) pipeline.DrawPacket {
	return pipeline.DrawPacket{
		Model:    viewProjection.Mul(r.Transform.GetWorld()),
		Buffer:   r.Buffer,
		UniqueID: r.ID,
	}
}

// Visible reports whether the renderable's bounding sphere touches the
// frustum. The radius is grown by the largest scale axis so scaled geometry
// is not culled early.
func (r *Renderable) Visible(frustum math.Frustum) bool {
	world := r.Transform.GetWorld()
	radius := r.BoundingRadius * maxScaleAxis(r.Transform.Scale)
	return frustum.IntersectsSphere(world.Translation(), radius)
}

func maxScaleAxis(scale math.Vec3) float32 {
	m := math32.Abs(scale.X)
	if a := math32.Abs(scale.Y); a > m {
		m = a
	}
	if a := math32.Abs(scale.Z); a > m {
		m = a
	}
	return m
}
