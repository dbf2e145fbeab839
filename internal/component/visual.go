package component

import "github.com/spellgo/engine/internal/core/ecs"

// VisualObject carries opacity and layer; the world values accumulate down
// the composite tree.
type VisualObject struct {
	Opacity float64
	Layer   int

	WorldOpacity float64
	WorldLayer   int
	extras
}

func NewVisualObject() *VisualObject {
	return &VisualObject{Opacity: 1, WorldOpacity: 1}
}

func (v *VisualObject) Patch(attrs ecs.Attributes) error {
	opacity, layer := v.Opacity, v.Layer
	for k, val := range attrs {
		var ok bool
		switch k {
		case "opacity":
			opacity, ok = toFloat(val)
		case "layer":
			layer, ok = toInt(val)
		default:
			continue
		}
		if !ok {
			return &AttributeError{TypeID: VisualObjectType, Attribute: k, Value: val}
		}
	}
	v.Opacity, v.Layer = opacity, layer
	for k, val := range attrs {
		if k != "opacity" && k != "layer" {
			v.patchExtra(k, val)
		}
	}
	return nil
}

func (v *VisualObject) Attributes() ecs.Attributes {
	return v.copyExtra(ecs.Attributes{
		"opacity": v.Opacity,
		"layer":   v.Layer,
	})
}
