package pipeline

import (
	"fmt"
)

// UniformModelMatrix is the stable name under which the transform stage
// addresses its per-draw matrix.
const UniformModelMatrix = "model_matrix"

var ErrUniformNotFound = fmt.Errorf("uniform block not declared by the host")

// UniformBlock describes one named per-draw parameter block the host binds
// before a draw. Components counts float32 values.
type UniformBlock struct {
	Name       string
	Components uint32
	Binding    uint32
}

// ModelMatrixBlock returns the canonical declaration of the transform
// stage's uniform interface: sixteen float32 components at binding 0.
func ModelMatrixBlock() UniformBlock {
	return UniformBlock{Name: UniformModelMatrix, Components: 16, Binding: 0}
}

// ResolveUniform finds the block declared under name. Stages address their
// parameters by stable name only; the numeric binding is the host's concern
// and is fixed here, at build time.
func ResolveUniform(blocks []UniformBlock, name string) (UniformBlock, error) {
	for _, b := range blocks {
		if b.Name == name {
			return b, nil
		}
	}
	return UniformBlock{}, fmt.Errorf("%w: %s", ErrUniformNotFound, name)
}
