package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/sundrift/prism/engine/config"
	"github.com/sundrift/prism/engine/core"
	"github.com/sundrift/prism/engine/math"
	"github.com/sundrift/prism/engine/pipeline"
	"github.com/sundrift/prism/engine/scene"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// DefaultMaxCameras bounds the camera registry when the host does not need
// more.
const DefaultMaxCameras = 16

// Systems bundles the engine services a game reaches from its callbacks.
type Systems struct {
	Config       *config.Config
	Pipeline     *pipeline.Pipeline
	Dispatcher   *pipeline.Dispatcher
	CameraSystem *scene.CameraSystem
}

// Engine owns the frame loop: it updates the game, collects its renderables,
// culls them against the default camera and dispatches the survivors through
// the vertex pipeline into the game's sink.
type Engine struct {
	currentStage Stage
	gameInstance *Game
	systems      *Systems
	watcher      *config.Watcher
	clock        *core.Clock
	projection   math.Mat4
	lastTime     float64

	stopRequested atomic.Bool
}

// New builds every engine system from the game's configuration. The game's
// Systems field points at them afterwards.
func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("engine needs a game with an application config")
	}
	if g.Sink == nil {
		return nil, fmt.Errorf("engine needs a primitive sink to deliver stage outputs to")
	}
	if g.FnRender == nil {
		return nil, fmt.Errorf("engine needs a render callback")
	}

	var cfg *config.Config
	var err error
	if g.ApplicationConfig.ConfigPath != "" {
		cfg, err = config.Load(g.ApplicationConfig.ConfigPath)
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
	} else {
		cfg = config.Default()
	}
	core.SetLogLevel(cfg.App.LogLevel)

	if err := core.EventSystemInitialize(); err != nil {
		return nil, err
	}
	if err := core.MetricsInitialize(); err != nil {
		return nil, err
	}

	layout, err := cfg.BuildLayout()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	pipe, err := pipeline.NewPipeline(pipeline.PipelineConfig{
		Stage:    pipeline.NewTransformStage(),
		Layout:   layout,
		Uniforms: cfg.BuildUniforms(),
		Varyings: pipeline.DefaultVaryingLayout(),
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	dispatcher, err := pipeline.NewDispatcher(cfg.Pipeline.Workers, cfg.Pipeline.ParallelThreshold)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	cameras, err := scene.NewCameraSystem(&scene.CameraSystemConfig{MaxCameraCount: DefaultMaxCameras})
	if err != nil {
		return nil, err
	}

	systems := &Systems{
		Config:       cfg,
		Pipeline:     pipe,
		Dispatcher:   dispatcher,
		CameraSystem: cameras,
	}
	g.Systems = systems

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		systems:      systems,
		clock:        core.NewClock(),
		projection:   cfg.Camera.Projection(g.ApplicationConfig.aspect()),
	}, nil
}

// Initialize wires the quit event, starts the configuration watcher and runs
// the game's initialize callback.
func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	core.EventRegister(core.EventApplicationQuit, e.onEvent)

	if path := e.gameInstance.ApplicationConfig.ConfigPath; path != "" {
		watcher, err := config.NewWatcher(path)
		if err != nil {
			core.LogError(err.Error())
			return err
		}
		e.watcher = watcher
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives the frame loop until the configured frame count is reached or a
// stop is requested.
func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	target := e.gameInstance.ApplicationConfig.FrameCount
	var frame uint64

	for !e.stopRequested.Load() && (target == 0 || frame < target) {
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		e.applyConfigReloads()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("game update failed, shutting down: %s", err.Error())
				return err
			}
		}

		renderables, err := e.gameInstance.FnRender(delta)
		if err != nil {
			core.LogError("game render failed, shutting down: %s", err.Error())
			return err
		}

		camera := e.systems.CameraSystem.GetDefault()
		viewProjection := scene.ViewProjection(e.projection, camera)
		frustum := math.NewFrustumFromMatrix(viewProjection)

		submitted, culled := 0, 0
		for _, r := range renderables {
			if r == nil {
				continue
			}
			if !r.Visible(frustum) {
				culled++
				continue
			}
			if err := e.systems.Dispatcher.Draw(e.systems.Pipeline, r.Packet(viewProjection), e.gameInstance.Sink); err != nil {
				core.LogError("draw failed, shutting down: %s", err.Error())
				return err
			}
			submitted++
		}

		e.clock.Update()
		core.MetricsUpdate(e.clock.Elapsed() - currentTime)
		core.LogDebug("frame %d: %d renderables submitted, %d culled", frame, submitted, culled)

		e.lastTime = currentTime
		frame++
	}

	return nil
}

// Stop makes Run return after the current frame. Safe to call from any
// goroutine.
func (e *Engine) Stop() {
	e.stopRequested.Store(true)
}

// Shutdown tears the systems down in reverse dependency order.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err.Error())
		}
	}
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			return err
		}
	}
	if err := e.systems.Dispatcher.Shutdown(); err != nil {
		return err
	}
	if err := e.systems.CameraSystem.Shutdown(); err != nil {
		return err
	}
	return core.EventSystemShutdown()
}

// CurrentStage reports where the engine is in its lifecycle.
func (e *Engine) CurrentStage() Stage {
	return e.currentStage
}

// applyConfigReloads drains pending configuration changes without blocking
// the frame. Log level and camera planes apply immediately; dispatcher and
// binding changes need a restart.
func (e *Engine) applyConfigReloads() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-e.watcher.Configs():
			if !ok {
				return
			}
			core.SetLogLevel(cfg.App.LogLevel)
			e.projection = cfg.Camera.Projection(e.gameInstance.ApplicationConfig.aspect())
			e.systems.Config = cfg
			core.EventFire(core.EventContext{Type: core.EventConfigReloaded, Data: cfg})
		case err, ok := <-e.watcher.Errors():
			if !ok {
				return
			}
			core.LogWarn("configuration reload failed: %s", err.Error())
		default:
			return
		}
	}
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EventApplicationQuit:
		core.LogInfo("quit requested, stopping after the current frame")
		e.Stop()
		return true
	}
	return false
}
