package pipeline

import (
	"fmt"
)

// AttributeFormat enumerates the component layouts an attribute stream can
// carry. All formats are float32 based.
type AttributeFormat uint

const (
	AttributeFormatFloat32   AttributeFormat = 0
	AttributeFormatFloat32_2 AttributeFormat = 1
	AttributeFormatFloat32_3 AttributeFormat = 2
	AttributeFormatFloat32_4 AttributeFormat = 3
)

// ComponentCount returns the number of float32 components in the format.
func (f AttributeFormat) ComponentCount() uint32 {
	switch f {
	case AttributeFormatFloat32:
		return 1
	case AttributeFormatFloat32_2:
		return 2
	case AttributeFormatFloat32_3:
		return 3
	case AttributeFormatFloat32_4:
		return 4
	}
	return 0
}

// Size returns the format size in bytes.
func (f AttributeFormat) Size() uint32 {
	return f.ComponentCount() * 4
}

func (f AttributeFormat) String() string {
	switch f {
	case AttributeFormatFloat32:
		return "float32"
	case AttributeFormatFloat32_2:
		return "float32x2"
	case AttributeFormatFloat32_3:
		return "float32x3"
	case AttributeFormatFloat32_4:
		return "float32x4"
	}
	return "unknown"
}

// ParseAttributeFormat resolves a format by the name used in pipeline
// configuration files.
func ParseAttributeFormat(s string) (AttributeFormat, error) {
	switch s {
	case "float32":
		return AttributeFormatFloat32, nil
	case "float32x2":
		return AttributeFormatFloat32_2, nil
	case "float32x3":
		return AttributeFormatFloat32_3, nil
	case "float32x4":
		return AttributeFormatFloat32_4, nil
	}
	return 0, fmt.Errorf("string %s is not a valid AttributeFormat", s)
}

// Binding names and slots the shipped transform stage consumes. The layout
// that reaches NewPipeline must bind them exactly like this.
const (
	PositionAttributeName = "position"
	ColorAttributeName    = "color"

	PositionAttributeLocation uint32 = 0
	ColorAttributeLocation    uint32 = 1
)

// Interstage varying names. The clip position occupies the pipeline-reserved
// final-position output consumed by the rasterizer; the color varying is
// matched by name by the next stage.
const (
	VaryingClipPosition = "clip_position"
	VaryingColor        = "forwarded_color"
)

var (
	ErrAttributeMissing   = fmt.Errorf("required vertex attribute is not in the layout")
	ErrDuplicateAttribute = fmt.Errorf("vertex attribute declared more than once")
	ErrLocationCollision  = fmt.Errorf("two vertex attributes share one location")
)

// VertexAttribute describes one attribute binding in the vertex input
// layout: the name the stage addresses it by, the numeric slot the host
// fetches it from, and its component layout. Offset is filled in by
// NewInputLayout assuming tight packing.
type VertexAttribute struct {
	Name     string
	Location uint32
	Format   AttributeFormat
	Offset   uint32
}

// InputLayout is the explicit binding table between host vertex data and a
// stage's named inputs. It is built once at pipeline construction; the
// runtime path never consults it.
type InputLayout struct {
	Attributes []VertexAttribute
	Stride     uint32

	byName map[string]int
}

// NewInputLayout validates the attribute set, computes packed offsets and
// the stride, and builds the name lookup.
func NewInputLayout(attributes []VertexAttribute) (InputLayout, error) {
	layout := InputLayout{
		Attributes: make([]VertexAttribute, len(attributes)),
		byName:     make(map[string]int, len(attributes)),
	}

	locations := make(map[uint32]string, len(attributes))
	offset := uint32(0)
	for i, attr := range attributes {
		if attr.Name == "" {
			return InputLayout{}, fmt.Errorf("attribute %d has no name", i)
		}
		if attr.Format.ComponentCount() == 0 {
			return InputLayout{}, fmt.Errorf("attribute %s has an unknown format", attr.Name)
		}
		if _, ok := layout.byName[attr.Name]; ok {
			return InputLayout{}, fmt.Errorf("%w: %s", ErrDuplicateAttribute, attr.Name)
		}
		if other, ok := locations[attr.Location]; ok {
			return InputLayout{}, fmt.Errorf("%w: %s and %s both at location %d",
				ErrLocationCollision, other, attr.Name, attr.Location)
		}

		attr.Offset = offset
		offset += attr.Format.Size()

		layout.Attributes[i] = attr
		layout.byName[attr.Name] = i
		locations[attr.Location] = attr.Name
	}
	layout.Stride = offset

	return layout, nil
}

// DefaultInputLayout returns the canonical layout for the transform stage:
// position at location 0 and color at location 1, three float32 components
// each.
func DefaultInputLayout() InputLayout {
	layout, err := NewInputLayout([]VertexAttribute{
		{Name: PositionAttributeName, Location: PositionAttributeLocation, Format: AttributeFormatFloat32_3},
		{Name: ColorAttributeName, Location: ColorAttributeLocation, Format: AttributeFormatFloat32_3},
	})
	if err != nil {
		// The default layout is statically valid.
		panic(err)
	}
	return layout
}

// AttributeByName returns the attribute descriptor bound under name.
func (l InputLayout) AttributeByName(name string) (VertexAttribute, error) {
	i, ok := l.byName[name]
	if !ok {
		return VertexAttribute{}, fmt.Errorf("%w: %s", ErrAttributeMissing, name)
	}
	return l.Attributes[i], nil
}

// Location returns the slot index bound under name.
func (l InputLayout) Location(name string) (uint32, error) {
	attr, err := l.AttributeByName(name)
	if err != nil {
		return 0, err
	}
	return attr.Location, nil
}

// HasAttribute reports whether name is bound in the layout.
func (l InputLayout) HasAttribute(name string) bool {
	_, ok := l.byName[name]
	return ok
}

// VaryingLayout names the interstage outputs. ClipPosition is the reserved
// final-position output; Color is the name the next stage matches.
type VaryingLayout struct {
	ClipPosition string
	Color        string
}

// DefaultVaryingLayout returns the varying names the shipped stages agree on.
func DefaultVaryingLayout() VaryingLayout {
	return VaryingLayout{
		ClipPosition: VaryingClipPosition,
		Color:        VaryingColor,
	}
}

// Validate rejects empty or colliding varying names.
func (v VaryingLayout) Validate() error {
	if v.ClipPosition == "" {
		return fmt.Errorf("varying layout has no clip position name")
	}
	if v.Color == "" {
		return fmt.Errorf("varying layout has no color name")
	}
	if v.ClipPosition == v.Color {
		return fmt.Errorf("varyings %s and %s collide", v.ClipPosition, v.Color)
	}
	return nil
}
