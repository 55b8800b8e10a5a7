package math

import (
	"github.com/chewxy/math32"
)

// Vec2 is a 2-element vector of float32
type Vec2 struct {
	X, Y float32
}

// NewVec2 creates and returns a new 2-element vector using the supplied values.
func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// NewVec2Zero creates and returns a 2-component vector with all components set to 0.0f.
func NewVec2Zero() Vec2 {
	return Vec2{}
}

// Add returns the sum of v and other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of v and other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Div returns the component-wise quotient of v and other.
func (v Vec2) Div(other Vec2) Vec2 {
	return Vec2{X: v.X / other.X, Y: v.Y / other.Y}
}

// Length returns the length of the vector.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Compare reports whether all components of v and other are within tolerance of each other.
func (v Vec2) Compare(other Vec2, tolerance float32) bool {
	if math32.Abs(v.X-other.X) > tolerance {
		return false
	}
	if math32.Abs(v.Y-other.Y) > tolerance {
		return false
	}
	return true
}

// Vec3 is a 3-element vector of float32
type Vec3 struct {
	X, Y, Z float32
}

// NewVec3 creates and returns a new 3-element vector using the supplied values.
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// NewVec3Zero creates and returns a 3-component vector with all components set to 0.0f.
func NewVec3Zero() Vec3 {
	return Vec3{}
}

// NewVec3One creates and returns a 3-component vector with all components set to 1.0f.
func NewVec3One() Vec3 {
	return Vec3{X: 1.0, Y: 1.0, Z: 1.0}
}

// NewVec3Up creates and returns a 3-component vector pointing up (0, 1, 0).
func NewVec3Up() Vec3 {
	return Vec3{X: 0, Y: 1.0, Z: 0}
}

// NewVec3Down creates and returns a 3-component vector pointing down (0, -1, 0).
func NewVec3Down() Vec3 {
	return Vec3{X: 0, Y: -1.0, Z: 0}
}

// Add returns the sum of v and other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns the difference of v and other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Mul returns the component-wise product of v and other.
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z}
}

// MulScalar returns a copy of v with all components multiplied by scalar.
func (v Vec3) MulScalar(scalar float32) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// Div returns the component-wise quotient of v and other.
func (v Vec3) Div(other Vec3) Vec3 {
	return Vec3{X: v.X / other.X, Y: v.Y / other.Y, Z: v.Z / other.Z}
}

// Length returns the length of the vector.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit-length copy of v.
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	return Vec3{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}

// Dot returns the dot product of v and other. Typically used to calculate
// the difference in direction.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of v and other. The cross product is a new
// vector which is orthogonal to both provided vectors.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Distance returns the distance between v and other.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Compare reports whether all components of v and other are within tolerance of each other.
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	if math32.Abs(v.X-other.X) > tolerance {
		return false
	}
	if math32.Abs(v.Y-other.Y) > tolerance {
		return false
	}
	if math32.Abs(v.Z-other.Z) > tolerance {
		return false
	}
	return true
}

// ToVec4 returns a 4-component vector using v for the first three components
// and w for the fourth.
func (v Vec3) ToVec4(w float32) Vec4 {
	return Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

// Vec4 is a 4-element vector of float32
type Vec4 struct {
	X, Y, Z, W float32
}

// NewVec4 creates and returns a new 4-element vector using the supplied values.
func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// NewVec4Zero creates and returns a 4-component vector with all components set to 0.0f.
func NewVec4Zero() Vec4 {
	return Vec4{}
}

// Add returns the sum of v and other.
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z, W: v.W + other.W}
}

// Sub returns the difference of v and other.
func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z, W: v.W - other.W}
}

// MulScalar returns a copy of v with all components multiplied by scalar.
func (v Vec4) MulScalar(scalar float32) Vec4 {
	return Vec4{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar, W: v.W * scalar}
}

// Mul returns the component-wise product of v and other.
func (v Vec4) Mul(other Vec4) Vec4 {
	return Vec4{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z, W: v.W * other.W}
}

// Div returns the component-wise quotient of v and other.
func (v Vec4) Div(other Vec4) Vec4 {
	return Vec4{X: v.X / other.X, Y: v.Y / other.Y, Z: v.Z / other.Z, W: v.W / other.W}
}

// Length returns the length of the vector.
func (v Vec4) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

// Dot returns the dot product of v and other.
func (v Vec4) Dot(other Vec4) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z + v.W*other.W
}

// Compare reports whether all components of v and other are within tolerance of each other.
func (v Vec4) Compare(other Vec4, tolerance float32) bool {
	if math32.Abs(v.X-other.X) > tolerance {
		return false
	}
	if math32.Abs(v.Y-other.Y) > tolerance {
		return false
	}
	if math32.Abs(v.Z-other.Z) > tolerance {
		return false
	}
	if math32.Abs(v.W-other.W) > tolerance {
		return false
	}
	return true
}

// ToVec3 returns the first three components of v, dropping W.
func (v Vec4) ToVec3() Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}
