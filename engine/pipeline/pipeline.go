package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sundrift/prism/engine/core"
)

var (
	ErrNilStage         = fmt.Errorf("pipeline needs a vertex stage")
	ErrFormatMismatch   = fmt.Errorf("binding format differs from what the stage consumes")
	ErrLocationMismatch = fmt.Errorf("attribute bound at a different location than the stage expects")
)

// PipelineConfig gathers everything NewPipeline validates: the stage to run,
// the vertex input layout, the uniform blocks the host declares, and the
// interstage varying names.
type PipelineConfig struct {
	Stage    VertexStage
	Layout   InputLayout
	Uniforms []UniformBlock
	Varyings VaryingLayout
}

// Pipeline is an immutable built pipeline: a validated binding contract
// around one vertex stage. Construction is the only place errors can occur;
// once built, draws run without any runtime validation.
type Pipeline struct {
	id       uuid.UUID
	stage    VertexStage
	layout   InputLayout
	model    UniformBlock
	varyings VaryingLayout
}

// NewPipeline validates cfg against the transform stage's binding contract
// and returns the built pipeline. All malformed-binding conditions surface
// here, never during a draw.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Stage == nil {
		return nil, ErrNilStage
	}

	checks := []struct {
		name     string
		location uint32
		format   AttributeFormat
	}{
		{PositionAttributeName, PositionAttributeLocation, AttributeFormatFloat32_3},
		{ColorAttributeName, ColorAttributeLocation, AttributeFormatFloat32_3},
	}
	for _, c := range checks {
		attr, err := cfg.Layout.AttributeByName(c.name)
		if err != nil {
			return nil, err
		}
		if attr.Location != c.location {
			return nil, fmt.Errorf("%w: %s at location %d, want %d",
				ErrLocationMismatch, c.name, attr.Location, c.location)
		}
		if attr.Format != c.format {
			return nil, fmt.Errorf("%w: %s declared %s, want %s",
				ErrFormatMismatch, c.name, attr.Format, c.format)
		}
	}

	if err := cfg.Varyings.Validate(); err != nil {
		return nil, err
	}

	model, err := ResolveUniform(cfg.Uniforms, UniformModelMatrix)
	if err != nil {
		return nil, err
	}
	if model.Components != 16 {
		return nil, fmt.Errorf("%w: %s declared %d components, want 16",
			ErrFormatMismatch, UniformModelMatrix, model.Components)
	}

	p := &Pipeline{
		id:       uuid.New(),
		stage:    cfg.Stage,
		layout:   cfg.Layout,
		model:    model,
		varyings: cfg.Varyings,
	}

	core.LogDebug("pipeline %s built: stage %q, vertex stride %d bytes", p.id, p.stage.Name(), p.layout.Stride)

	return p, nil
}

// ID returns the pipeline's unique identifier.
func (p *Pipeline) ID() uuid.UUID {
	return p.id
}

// Stage returns the vertex stage the pipeline runs.
func (p *Pipeline) Stage() VertexStage {
	return p.stage
}

// Layout returns the validated vertex input layout.
func (p *Pipeline) Layout() InputLayout {
	return p.layout
}

// ModelBlock returns the resolved per-draw uniform block.
func (p *Pipeline) ModelBlock() UniformBlock {
	return p.model
}

// Varyings returns the interstage varying names.
func (p *Pipeline) Varyings() VaryingLayout {
	return p.varyings
}
