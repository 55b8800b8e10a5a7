package pipeline

import (
	stdmath "math"
	"sync"
	"testing"

	"github.com/sundrift/prism/engine/math"
)

var _ VertexStage = (*TransformStage)(nil)

func bitsEqualVec3(a, b math.Vec3) bool {
	return stdmath.Float32bits(a.X) == stdmath.Float32bits(b.X) &&
		stdmath.Float32bits(a.Y) == stdmath.Float32bits(b.Y) &&
		stdmath.Float32bits(a.Z) == stdmath.Float32bits(b.Z)
}

func bitsEqualVec4(a, b math.Vec4) bool {
	return stdmath.Float32bits(a.X) == stdmath.Float32bits(b.X) &&
		stdmath.Float32bits(a.Y) == stdmath.Float32bits(b.Y) &&
		stdmath.Float32bits(a.Z) == stdmath.Float32bits(b.Z) &&
		stdmath.Float32bits(a.W) == stdmath.Float32bits(b.W)
}

func TestTransformVertexIdentity(t *testing.T) {
	uniforms := DrawUniforms{ModelMatrix: math.NewMat4Identity()}

	positions := []math.Vec3{
		math.NewVec3Zero(),
		math.NewVec3(1, 2, 3),
		math.NewVec3(-4.5, 0.25, 1e6),
		math.NewVec3(-0.001, -0.002, -0.003),
	}
	for _, p := range positions {
		out := TransformVertex(VertexAttributes{Position: p}, uniforms)
		want := p.ToVec4(1.0)
		if out.ClipPosition != want {
			t.Errorf("identity transform of %v = %v, want %v", p, out.ClipPosition, want)
		}
	}
}

func TestTransformVertexColorPassThrough(t *testing.T) {
	nan := float32(stdmath.NaN())
	inf := float32(stdmath.Inf(1))
	negZero := float32(stdmath.Copysign(0, -1))

	matrices := []math.Mat4{
		math.NewMat4Identity(),
		math.NewMat4Scale(math.NewVec3(2, 3, 4)),
		math.NewMat4Translation(math.NewVec3(-7, 8, 9)),
		math.NewMat4Perspective(math.K_HALF_PI, 1.6, 0.1, 100),
	}
	colors := []math.Vec3{
		math.NewVec3(1, 0, 0),
		math.NewVec3(-1, 1e20, 1e-20),
		math.NewVec3(nan, inf, negZero),
	}

	for _, m := range matrices {
		uniforms := DrawUniforms{ModelMatrix: m}
		for _, c := range colors {
			out := TransformVertex(VertexAttributes{Position: math.NewVec3(1, 2, 3), Color: c}, uniforms)
			if !bitsEqualVec3(out.ForwardedColor, c) {
				t.Errorf("forwarded color %v is not bit-identical to input %v", out.ForwardedColor, c)
			}
		}
	}
}

func TestTransformVertexLinearity(t *testing.T) {
	tests := []struct {
		name   string
		m      math.Mat4
		p1, p2 math.Vec3
	}{
		{
			name: "affine",
			m: math.NewMat4Translation(math.NewVec3(1, -2, 3)).
				Mul(math.NewMat4EulerXYZ(0.3, 0.5, -0.2)).
				Mul(math.NewMat4Scale(math.NewVec3(2, 0.5, 1.5))),
			p1: math.NewVec3(1, 2, 3),
			p2: math.NewVec3(-0.5, 4, -2),
		},
		{
			name: "projective",
			m:    math.NewMat4Perspective(math.DegToRad(60), 1.777, 0.1, 100),
			p1:   math.NewVec3(0.5, -1, -3),
			p2:   math.NewVec3(2, 0.25, -8),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uniforms := DrawUniforms{ModelMatrix: tt.m}
			sum := TransformVertex(VertexAttributes{Position: tt.p1.Add(tt.p2)}, uniforms).ClipPosition

			lhs := TransformVertex(VertexAttributes{Position: tt.p1}, uniforms).ClipPosition
			rhs := TransformVertex(VertexAttributes{Position: tt.p2}, uniforms).ClipPosition
			origin := tt.m.MulVec4(math.NewVec4(0, 0, 0, 1))
			want := lhs.Add(rhs).Sub(origin)

			if !sum.Compare(want, 1e-4) {
				t.Errorf("transform(p1+p2) = %v, additive reconstruction = %v", sum, want)
			}
		})
	}
}

func TestTransformVertexDeterminism(t *testing.T) {
	in := VertexAttributes{
		Position: math.NewVec3(0.1, -2.7, 31.25),
		Color:    math.NewVec3(0.25, 0.5, 0.75),
	}
	uniforms := DrawUniforms{
		ModelMatrix: math.NewMat4EulerXYZ(1.1, 2.2, 3.3).Mul(math.NewMat4Translation(math.NewVec3(5, 6, 7))),
	}

	first := TransformVertex(in, uniforms)
	for i := 0; i < 100; i++ {
		got := TransformVertex(in, uniforms)
		if !bitsEqualVec4(got.ClipPosition, first.ClipPosition) {
			t.Fatalf("invocation %d produced %v, first produced %v", i, got.ClipPosition, first.ClipPosition)
		}
	}
}

func TestTransformVertexDeterminismConcurrent(t *testing.T) {
	in := VertexAttributes{
		Position: math.NewVec3(3.14159, -2.71828, 1.41421),
		Color:    math.NewVec3(1, 1, 1),
	}
	uniforms := DrawUniforms{
		ModelMatrix: math.NewMat4Perspective(math.DegToRad(75), 1.6, 0.05, 500),
	}
	reference := TransformVertex(in, uniforms)

	const goroutines = 8
	results := make([]StageOutputs, goroutines)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			out := TransformVertex(in, uniforms)
			for i := 0; i < 1000; i++ {
				next := TransformVertex(in, uniforms)
				if !bitsEqualVec4(next.ClipPosition, out.ClipPosition) {
					results[g] = next
					return
				}
			}
			results[g] = out
		}(g)
	}
	wg.Wait()

	for g, out := range results {
		if !bitsEqualVec4(out.ClipPosition, reference.ClipPosition) {
			t.Errorf("goroutine %d produced %v, reference is %v", g, out.ClipPosition, reference.ClipPosition)
		}
	}
}

func TestTransformVertexScaleScenario(t *testing.T) {
	out := TransformVertex(
		VertexAttributes{Position: math.NewVec3(1, 0, 0)},
		DrawUniforms{ModelMatrix: math.NewMat4Scale(math.NewVec3(2, 2, 2))},
	)
	want := math.NewVec4(2, 0, 0, 1)
	if out.ClipPosition != want {
		t.Errorf("scaled position = %v, want %v", out.ClipPosition, want)
	}
}

func TestTransformVertexTranslateScenario(t *testing.T) {
	out := TransformVertex(
		VertexAttributes{Position: math.NewVec3Zero(), Color: math.NewVec3(1, 0, 0)},
		DrawUniforms{ModelMatrix: math.NewMat4Translation(math.NewVec3(5, 0, 0))},
	)
	if want := math.NewVec4(5, 0, 0, 1); out.ClipPosition != want {
		t.Errorf("translated position = %v, want %v", out.ClipPosition, want)
	}
	if want := math.NewVec3(1, 0, 0); out.ForwardedColor != want {
		t.Errorf("forwarded color = %v, want %v", out.ForwardedColor, want)
	}
}

func TestTransformVertexNaNPropagation(t *testing.T) {
	nan := float32(stdmath.NaN())

	// NaN in the second row poisons Y and only Y.
	m := math.NewMat4Identity()
	m.Data[5] = nan

	color := math.NewVec3(0.1, 0.2, 0.3)
	out := TransformVertex(
		VertexAttributes{Position: math.NewVec3(1, 2, 3), Color: color},
		DrawUniforms{ModelMatrix: m},
	)

	if !stdmath.IsNaN(float64(out.ClipPosition.Y)) {
		t.Errorf("Y = %v, want NaN", out.ClipPosition.Y)
	}
	for name, v := range map[string]float32{
		"X": out.ClipPosition.X,
		"Z": out.ClipPosition.Z,
		"W": out.ClipPosition.W,
	} {
		if stdmath.IsNaN(float64(v)) {
			t.Errorf("%s = NaN, want finite", name)
		}
	}
	if !bitsEqualVec3(out.ForwardedColor, color) {
		t.Errorf("color %v was disturbed by a NaN matrix", out.ForwardedColor)
	}
}

func TestTransformStageIsStateless(t *testing.T) {
	stage := NewTransformStage()

	a := VertexAttributes{Position: math.NewVec3(1, 2, 3), Color: math.NewVec3(0.5, 0.5, 0.5)}
	b := VertexAttributes{Position: math.NewVec3(-9, 8, -7), Color: math.NewVec3(1, 0, 1)}
	ua := DrawUniforms{ModelMatrix: math.NewMat4Scale(math.NewVec3(3, 3, 3))}
	ub := DrawUniforms{ModelMatrix: math.NewMat4Translation(math.NewVec3(100, 0, 0))}

	before := stage.Process(a, ua)
	stage.Process(b, ub)
	stage.Process(b, ua)
	after := stage.Process(a, ua)

	if !bitsEqualVec4(before.ClipPosition, after.ClipPosition) {
		t.Errorf("interleaved inputs changed the result: %v then %v", before.ClipPosition, after.ClipPosition)
	}
	if !bitsEqualVec3(before.ForwardedColor, after.ForwardedColor) {
		t.Error("interleaved inputs changed the forwarded color")
	}
}
