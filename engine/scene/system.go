package scene

import (
	"fmt"

	"github.com/sundrift/prism/engine/core"
)

// CameraSystem hands out named cameras with reference counting so multiple
// host systems can share a viewpoint without owning it.
type CameraSystem struct {
	config *CameraSystemConfig
	lookup map[string]*cameraReference
	// A default, non-registered camera that always exists as a fallback.
	defaultCamera *Camera
}

// CameraSystemConfig configures the camera system.
type CameraSystemConfig struct {
	// MaxCameraCount is the maximum number of named cameras the system will
	// manage, not counting the default camera.
	MaxCameraCount uint16
}

type cameraReference struct {
	camera         *Camera
	referenceCount uint16
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config == nil || config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	cs := &CameraSystem{
		config:        config,
		lookup:        make(map[string]*cameraReference, config.MaxCameraCount),
		defaultCamera: NewCamera(),
	}
	return cs, nil
}

// Acquire returns the camera registered under name, creating and registering
// it on first use. The internal reference counter is incremented.
func (cs *CameraSystem) Acquire(name string) (*Camera, error) {
	if name == DefaultCameraName {
		return cs.defaultCamera, nil
	}
	ref, ok := cs.lookup[name]
	if !ok {
		if len(cs.lookup) >= int(cs.config.MaxCameraCount) {
			err := fmt.Errorf("func Acquire failed to register camera '%s'. Adjust camera system config to allow more", name)
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("creating new camera named '%s'", name)
		ref = &cameraReference{camera: NewCamera()}
		cs.lookup[name] = ref
	}
	ref.referenceCount++
	return ref.camera, nil
}

// Release decrements the reference counter of the camera with the given name.
// When the counter reaches 0, the camera is reset and its slot becomes usable
// by a new camera.
func (cs *CameraSystem) Release(name string) {
	if name == DefaultCameraName {
		core.LogDebug("cannot release the default camera, nothing was done")
		return
	}
	ref, ok := cs.lookup[name]
	if !ok {
		core.LogWarn("release of unknown camera '%s', nothing was done", name)
		return
	}
	ref.referenceCount--
	if ref.referenceCount < 1 {
		ref.camera.Reset()
		delete(cs.lookup, name)
	}
}

// GetDefault returns the default camera.
func (cs *CameraSystem) GetDefault() *Camera {
	return cs.defaultCamera
}

// Shutdown drops every registered camera. The default camera survives so late
// callers still get a valid viewpoint.
func (cs *CameraSystem) Shutdown() error {
	cs.lookup = make(map[string]*cameraReference)
	return nil
}
