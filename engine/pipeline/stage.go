package pipeline

// VertexStage maps one vertex's attributes plus the draw uniforms to the
// stage outputs. Implementations must be pure: no state between invocations,
// no side effects, identical inputs giving identical outputs. The dispatcher
// relies on this to run invocations in any order and on any goroutine.
type VertexStage interface {
	Name() string
	Process(in VertexAttributes, uniforms DrawUniforms) StageOutputs
}

// TransformVertex is the whole per-vertex program: homogenize the position
// with w = 1, multiply by the draw's model matrix, and forward the color
// bit-identical. NaN and Inf inputs propagate arithmetically; nothing is
// validated or clamped here.
func TransformVertex(in VertexAttributes, uniforms DrawUniforms) StageOutputs {
	return StageOutputs{
		ClipPosition:   uniforms.ModelMatrix.MulVec4(in.Position.ToVec4(1.0)),
		ForwardedColor: in.Color,
	}
}

// TransformStage is the shipped VertexStage: local-space position into clip
// space, color passed through untouched.
type TransformStage struct{}

func NewTransformStage() *TransformStage {
	return &TransformStage{}
}

func (s *TransformStage) Name() string {
	return "transform"
}

func (s *TransformStage) Process(in VertexAttributes, uniforms DrawUniforms) StageOutputs {
	return TransformVertex(in, uniforms)
}
