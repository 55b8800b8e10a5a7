package engine

import (
	"github.com/sundrift/prism/engine/pipeline"
	"github.com/sundrift/prism/engine/scene"
)

// Game is what an application hands to the engine: its configuration, the
// sink that consumes transformed vertices, opaque state and the callbacks
// the frame loop drives. Systems is assigned by New before any callback
// runs.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Systems           *Systems
	Sink              pipeline.PrimitiveSink
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(deltaTime float64) ([]*scene.Renderable, error)
type Shutdown func() error
