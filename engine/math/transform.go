package math

// Transform holds a position, rotation and scale with a cached local matrix
// and an optional parent. The local matrix is rebuilt lazily whenever a
// component changed since the last call to GetLocal.
type Transform struct {
	Position Vec3
	Rotation Quaternion
	Scale    Vec3
	IsDirty  bool
	Local    Mat4
	Parent   *Transform
}

func NewTransform() *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(NewVec3Zero(), NewQuatIdentity(), NewVec3One())
	t.Local = NewMat4Identity()
	t.Parent = nil
	return t
}

func NewTransformFromPosition(position Vec3) *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(position, NewQuatIdentity(), NewVec3One())
	t.Local = NewMat4Identity()
	t.Parent = nil
	return t
}

func NewTransformFromRotation(rotation Quaternion) *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(NewVec3Zero(), rotation, NewVec3One())
	t.Local = NewMat4Identity()
	t.Parent = nil
	return t
}

func NewTransformFromPositionRotation(position Vec3, rotation Quaternion) *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(position, rotation, NewVec3One())
	t.Local = NewMat4Identity()
	t.Parent = nil
	return t
}

func NewTransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(position, rotation, scale)
	t.Local = NewMat4Identity()
	t.Parent = nil
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
	t.IsDirty = true
}

func (t *Transform) SetRotation(rotation Quaternion) {
	t.Rotation = rotation
	t.IsDirty = true
}

func (t *Transform) Rotate(rotation Quaternion) {
	t.Rotation = t.Rotation.Mul(rotation)
	t.IsDirty = true
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

func (t *Transform) ScaleIt(scale Vec3) {
	t.Scale = t.Scale.Mul(scale)
	t.IsDirty = true
}

func (t *Transform) SetPositionRotation(position Vec3, rotation Quaternion) {
	t.Position = position
	t.Rotation = rotation
	t.IsDirty = true
}

func (t *Transform) SetPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
	t.IsDirty = true
}

func (t *Transform) TranslateRotate(translation Vec3, rotation Quaternion) {
	t.Position = t.Position.Add(translation)
	t.Rotation = t.Rotation.Mul(rotation)
	t.IsDirty = true
}

// GetLocal returns the local matrix, scale applied first, then rotation,
// then translation.
func (t *Transform) GetLocal() Mat4 {
	if t != nil {
		if t.IsDirty {
			m := NewMat4Translation(t.Position)
			m = m.Mul(t.Rotation.ToMat4())
			m = m.Mul(NewMat4Scale(t.Scale))
			t.Local = m
			t.IsDirty = false
		}
		return t.Local
	}
	return NewMat4Identity()
}

// GetWorld returns the local matrix composed with the whole parent chain.
func (t *Transform) GetWorld() Mat4 {
	if t != nil {
		l := t.GetLocal()
		if t.Parent != nil {
			p := t.Parent.GetWorld()
			return p.Mul(l)
		}
		return l
	}
	return NewMat4Identity()
}
