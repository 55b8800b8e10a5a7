package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/sundrift/prism/engine/core"
	"github.com/sundrift/prism/engine/math"
	"github.com/sundrift/prism/engine/pipeline"
)

var (
	ErrNegativeWorkers   = fmt.Errorf("pipeline.workers cannot be negative")
	ErrNegativeThreshold = fmt.Errorf("pipeline.parallel_threshold cannot be negative")
	ErrNoAttributes      = fmt.Errorf("pipeline.attributes cannot be empty")
	ErrBadCameraPlanes   = fmt.Errorf("camera planes must satisfy 0 < near < far")
	ErrBadFov            = fmt.Errorf("camera.fov_degrees must be between 0 and 180")
)

// Config is the application configuration, read from a TOML file. Missing
// keys fall back to defaults, so an empty or absent file yields a fully
// working setup.
type Config struct {
	App      AppConfig      `toml:"app"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Camera   CameraConfig   `toml:"camera"`
}

type AppConfig struct {
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
}

// PipelineConfig configures the dispatcher and the vertex input bindings.
// Workers may stay 0 to size the pool to the machine.
type PipelineConfig struct {
	Workers           int               `toml:"workers"`
	ParallelThreshold int               `toml:"parallel_threshold"`
	UniformBlock      string            `toml:"uniform_block"`
	Attributes        []AttributeConfig `toml:"attributes"`
}

type AttributeConfig struct {
	Name     string `toml:"name"`
	Location uint32 `toml:"location"`
	Format   string `toml:"format"`
}

type CameraConfig struct {
	FovDegrees float32 `toml:"fov_degrees"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the TOML file at path. A missing file is not an error; the
// defaults are returned instead. A file that exists but does not parse or
// validate is.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		core.LogWarn("configuration file %s not found, using defaults", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading configuration %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "prism"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Pipeline.ParallelThreshold == 0 {
		c.Pipeline.ParallelThreshold = pipeline.DefaultParallelThreshold
	}
	if c.Pipeline.UniformBlock == "" {
		c.Pipeline.UniformBlock = pipeline.UniformModelMatrix
	}
	if len(c.Pipeline.Attributes) == 0 {
		c.Pipeline.Attributes = []AttributeConfig{
			{Name: pipeline.PositionAttributeName, Location: pipeline.PositionAttributeLocation, Format: "float32x3"},
			{Name: pipeline.ColorAttributeName, Location: pipeline.ColorAttributeLocation, Format: "float32x3"},
		}
	}
	if c.Camera.FovDegrees == 0 {
		c.Camera.FovDegrees = 60
	}
	if c.Camera.Near == 0 {
		c.Camera.Near = 0.1
	}
	if c.Camera.Far == 0 {
		c.Camera.Far = 100
	}
}

// Validate checks ranges and attribute formats. Binding-contract checks
// beyond that (locations, required attributes) happen in NewPipeline.
func (c *Config) Validate() error {
	if c.Pipeline.Workers < 0 {
		return ErrNegativeWorkers
	}
	if c.Pipeline.ParallelThreshold < 0 {
		return ErrNegativeThreshold
	}
	if len(c.Pipeline.Attributes) == 0 {
		return ErrNoAttributes
	}
	for _, attr := range c.Pipeline.Attributes {
		if _, err := pipeline.ParseAttributeFormat(attr.Format); err != nil {
			return fmt.Errorf("attribute %s: %w", attr.Name, err)
		}
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return ErrBadCameraPlanes
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		return ErrBadFov
	}
	return nil
}

// BuildLayout converts the configured attribute bindings into a vertex input
// layout.
func (c *Config) BuildLayout() (pipeline.InputLayout, error) {
	attributes := make([]pipeline.VertexAttribute, 0, len(c.Pipeline.Attributes))
	for _, attr := range c.Pipeline.Attributes {
		format, err := pipeline.ParseAttributeFormat(attr.Format)
		if err != nil {
			return pipeline.InputLayout{}, fmt.Errorf("attribute %s: %w", attr.Name, err)
		}
		attributes = append(attributes, pipeline.VertexAttribute{
			Name:     attr.Name,
			Location: attr.Location,
			Format:   format,
		})
	}
	return pipeline.NewInputLayout(attributes)
}

// BuildUniforms declares the per-draw uniform blocks the host binds.
func (c *Config) BuildUniforms() []pipeline.UniformBlock {
	return []pipeline.UniformBlock{
		{Name: c.Pipeline.UniformBlock, Components: 16, Binding: 0},
	}
}

// Projection builds the perspective matrix for the configured camera at the
// given aspect ratio.
func (c CameraConfig) Projection(aspect float32) math.Mat4 {
	return math.NewMat4Perspective(math.DegToRad(c.FovDegrees), aspect, c.Near, c.Far)
}
