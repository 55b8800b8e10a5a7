package math

import (
	"github.com/chewxy/math32"
)

// Plane is the set of points p satisfying A*p.X + B*p.Y + C*p.Z + D = 0,
// with the normal (A, B, C) pointing toward the positive half-space.
type Plane struct {
	A, B, C, D float32
}

// Normalized returns a copy of p scaled so that (A, B, C) has unit length,
// which makes DistanceTo return a true signed distance.
func (p Plane) Normalized() Plane {
	length := math32.Sqrt(p.A*p.A + p.B*p.B + p.C*p.C)
	return Plane{A: p.A / length, B: p.B / length, C: p.C / length, D: p.D / length}
}

// DistanceTo returns the signed distance from point to the plane. Positive
// values lie on the side the normal points toward.
func (p Plane) DistanceTo(point Vec3) float32 {
	return p.A*point.X + p.B*point.Y + p.C*point.Z + p.D
}

// Indices into Frustum.Planes.
const (
	FrustumPlaneLeft = iota
	FrustumPlaneRight
	FrustumPlaneBottom
	FrustumPlaneTop
	FrustumPlaneNear
	FrustumPlaneFar
)

// Frustum holds the six clip planes of a view volume. Plane normals point
// inward, so a point is inside when every signed distance is non-negative.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustumFromMatrix extracts the clip planes from a combined
// view-projection matrix. Passing a projection alone yields the frustum in
// view space, a projection times a view yields it in world space.
func NewFrustumFromMatrix(m Mat4) Frustum {
	row := func(i int) Vec4 {
		return Vec4{X: m.Data[i], Y: m.Data[4+i], Z: m.Data[8+i], W: m.Data[12+i]}
	}
	r0 := row(0)
	r1 := row(1)
	r2 := row(2)
	r3 := row(3)

	sides := [6]Vec4{
		FrustumPlaneLeft:   r3.Add(r0),
		FrustumPlaneRight:  r3.Sub(r0),
		FrustumPlaneBottom: r3.Add(r1),
		FrustumPlaneTop:    r3.Sub(r1),
		FrustumPlaneNear:   r3.Add(r2),
		FrustumPlaneFar:    r3.Sub(r2),
	}

	out := Frustum{}
	for i, s := range sides {
		out.Planes[i] = Plane{A: s.X, B: s.Y, C: s.Z, D: s.W}.Normalized()
	}
	return out
}

// ContainsPoint reports whether point lies inside or on the frustum.
func (f Frustum) ContainsPoint(point Vec3) bool {
	for _, p := range f.Planes {
		if p.DistanceTo(point) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere at center with the given radius
// touches the frustum. Conservative: spheres near corners may pass even when
// fully outside.
func (f Frustum) IntersectsSphere(center Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}
