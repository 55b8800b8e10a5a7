package engine

// ApplicationConfig describes the run the host application wants: which
// configuration file to load, how many frames to process and the output
// aspect ratio the projection is built for.
type ApplicationConfig struct {
	// The application name used in logs.
	Name string
	// Path of the TOML configuration file. Empty skips the file and runs on
	// defaults.
	ConfigPath string
	// Number of frames Run processes. Zero means run until stopped.
	FrameCount uint64
	// Aspect ratio of the target surface. Zero picks 16:9.
	Aspect float32
}

const defaultAspect = float32(16.0 / 9.0)

func (c *ApplicationConfig) aspect() float32 {
	if c.Aspect <= 0 {
		return defaultAspect
	}
	return c.Aspect
}
