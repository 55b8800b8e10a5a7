package testbed

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/chewxy/math32"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/image/colornames"

	"github.com/sundrift/prism/engine"
	"github.com/sundrift/prism/engine/config"
	"github.com/sundrift/prism/engine/core"
	"github.com/sundrift/prism/engine/math"
	"github.com/sundrift/prism/engine/pipeline"
	"github.com/sundrift/prism/engine/scene"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	worldCamera *scene.Camera

	// Three cubes chained through transform parenting plus a far marker
	// that never enters the frustum.
	renderables []*scene.Renderable

	orbitAngle float32
	bar        *progressbar.ProgressBar
}

// The testbed animates on a fixed step; wall-clock deltas only feed the
// frame metrics.
const simStep = 1.0 / 60.0

const (
	orbitRadius = float32(22.0)
	orbitHeight = float32(7.0)
	orbitSpeed  = float32(0.25)
	// atan(orbitHeight / orbitRadius), keeps the scene center in view.
	orbitPitch = float32(-0.308)
)

// clipStatsSink stands in for primitive assembly. It tallies the transformed
// vertices and tracks the clip-space w range so a run leaves evidence the
// cubes actually moved through depth.
type clipStatsSink struct {
	mu       sync.Mutex
	draws    uint64
	vertices uint64
	minW     float32
	maxW     float32
}

func newClipStatsSink() *clipStatsSink {
	return &clipStatsSink{
		minW: math32.Inf(1),
		maxW: math32.Inf(-1),
	}
}

func (s *clipStatsSink) Consume(packet pipeline.DrawPacket, outputs []pipeline.StageOutputs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
	s.vertices += uint64(len(outputs))
	for i := range outputs {
		w := outputs[i].ClipPosition.W
		if w < s.minW {
			s.minW = w
		}
		if w > s.maxW {
			s.maxW = w
		}
	}
	return nil
}

func (s *clipStatsSink) stats() (draws, vertices uint64, minW, maxW float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draws, s.vertices, s.minW, s.maxW
}

// One solid color per cube face: front, back, left, right, top, bottom.
var cubeFaceColors = [6]color.RGBA{
	colornames.Crimson,
	colornames.Darkorange,
	colornames.Gold,
	colornames.Forestgreen,
	colornames.Royalblue,
	colornames.Mediumpurple,
}

func colorToVec3(c color.RGBA) math.Vec3 {
	return math.NewVec3(float32(c.R)/255.0, float32(c.G)/255.0, float32(c.B)/255.0)
}

// buildCube returns a 36 vertex triangle-list cube centered on the origin.
func buildCube(size float32) *pipeline.VertexBuffer {
	h := size * 0.5
	corners := [8]math.Vec3{
		math.NewVec3(-h, -h, +h),
		math.NewVec3(+h, -h, +h),
		math.NewVec3(+h, +h, +h),
		math.NewVec3(-h, +h, +h),
		math.NewVec3(-h, -h, -h),
		math.NewVec3(+h, -h, -h),
		math.NewVec3(+h, +h, -h),
		math.NewVec3(-h, +h, -h),
	}
	faces := [6][4]int{
		{0, 1, 2, 3},
		{5, 4, 7, 6},
		{4, 0, 3, 7},
		{1, 5, 6, 2},
		{3, 2, 6, 7},
		{4, 5, 1, 0},
	}

	buffer := pipeline.NewEmptyVertexBuffer(36)
	for f, quad := range faces {
		tint := colorToVec3(cubeFaceColors[f])
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			buffer.Append(corners[quad[i]], tint)
		}
	}
	return buffer
}

func cubeBoundingRadius(size float32) float32 {
	return size * 0.5 * math32.Sqrt(3)
}

func newCubeRenderable(size float32) *scene.Renderable {
	r := scene.NewRenderable(0, buildCube(size), cubeBoundingRadius(size))
	r.ID = core.IdentifierAcquireNewID(r)
	return r
}

func NewTestGame() (*TestGame, error) {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:       "Prism Testbed",
				ConfigPath: "prism.toml",
				FrameCount: 600,
				Aspect:     16.0 / 9.0,
			},
			Sink:  newClipStatsSink(),
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.Systems == nil {
		return fmt.Errorf("the engine is not yet initialized with its systems")
	}

	state := g.State.(*gameState)

	state.worldCamera = g.Systems.CameraSystem.GetDefault()
	state.worldCamera.SetPosition(math.NewVec3(0, orbitHeight, orbitRadius))
	state.worldCamera.SetEulerRotation(math.NewVec3(orbitPitch, 0, 0))

	// A large cube at the center.
	cube1 := newCubeRenderable(10.0)

	// A second cube parented to the first, so it swings around the center
	// as the first one spins.
	cube2 := newCubeRenderable(5.0)
	cube2.Transform.SetPosition(math.NewVec3(10.0, 0.0, 1.0))
	cube2.Transform.Parent = cube1.Transform

	// A third cube parented to the second.
	cube3 := newCubeRenderable(2.0)
	cube3.Transform.SetPosition(math.NewVec3(5.0, 0.0, 1.0))
	cube3.Transform.Parent = cube2.Transform

	// A marker far beyond the far plane. The frame log shows it culled
	// every frame.
	marker := newCubeRenderable(1.0)
	marker.Transform.SetPosition(math.NewVec3(0.0, 0.0, -500.0))

	state.renderables = []*scene.Renderable{cube1, cube2, cube3, marker}

	total := int64(g.ApplicationConfig.FrameCount)
	if total == 0 {
		total = -1
	}
	state.bar = progressbar.Default(total)

	core.EventRegister(core.EventConfigReloaded, g.onConfigReloaded)

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)

	// Orbit the camera around the scene, keeping it pointed at the center.
	state.orbitAngle += orbitSpeed * simStep
	state.worldCamera.SetPosition(math.NewVec3(
		orbitRadius*math32.Sin(state.orbitAngle),
		orbitHeight,
		orbitRadius*math32.Cos(state.orbitAngle),
	))
	state.worldCamera.SetEulerRotation(math.NewVec3(orbitPitch, state.orbitAngle, 0))

	// Perform a small rotation on the first cube.
	rotation := math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), 0.5*simStep, false)
	state.renderables[0].Transform.Rotate(rotation)
	// Same rotation on the second and third; they also inherit their
	// parents' spin.
	state.renderables[1].Transform.Rotate(rotation)
	state.renderables[2].Transform.Rotate(rotation)

	state.bar.Add(1)

	return nil
}

func (g *TestGame) Render(deltaTime float64) ([]*scene.Renderable, error) {
	state := g.State.(*gameState)
	return state.renderables, nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)

	if state.bar != nil {
		_ = state.bar.Finish()
	}

	for _, r := range state.renderables {
		if err := core.IdentifierReleaseID(r.ID); err != nil {
			core.LogWarn(err.Error())
		}
	}

	if sink, ok := g.Sink.(*clipStatsSink); ok {
		draws, vertices, minW, maxW := sink.stats()
		fps, frameTime := core.MetricsFrame()
		core.LogInfo("testbed done: %d draws, %d vertices, clip w in [%.3f, %.3f], avg %.1f fps (%.3f ms)",
			draws, vertices, minW, maxW, fps, frameTime)
	}

	return nil
}

func (g *TestGame) onConfigReloaded(context core.EventContext) bool {
	if cfg, ok := context.Data.(*config.Config); ok {
		core.LogInfo("configuration reloaded: app %q, %d workers", cfg.App.Name, cfg.Pipeline.Workers)
	}
	return false
}
