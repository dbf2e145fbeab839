package component

import (
	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/mathx"
)

// Transform holds an entity's local translation/rotation/scale and the
// derived local and world matrices. The derived fields are written by the
// world's propagator only.
type Transform struct {
	Translation mathx.Vec2
	Rotation    float64 // radians
	Scale       mathx.Vec2

	LocalMatrix      mathx.Mat3
	WorldMatrix      mathx.Mat3
	WorldTranslation mathx.Vec2
	extras
}

func NewTransform() *Transform {
	return &Transform{
		Scale:       mathx.Vec2{1, 1},
		LocalMatrix: mathx.Identity(),
		WorldMatrix: mathx.Identity(),
	}
}

func (t *Transform) Patch(attrs ecs.Attributes) error {
	tr, rot, sc := t.Translation, t.Rotation, t.Scale
	for k, v := range attrs {
		var ok bool
		switch k {
		case "translation":
			tr, ok = toVec2(v)
		case "rotation":
			rot, ok = toFloat(v)
		case "scale":
			sc, ok = toVec2(v)
		default:
			continue
		}
		if !ok {
			return &AttributeError{TypeID: TransformType, Attribute: k, Value: v}
		}
	}
	t.Translation, t.Rotation, t.Scale = tr, rot, sc
	for k, v := range attrs {
		if k != "translation" && k != "rotation" && k != "scale" {
			t.patchExtra(k, v)
		}
	}
	return nil
}

func (t *Transform) Attributes() ecs.Attributes {
	return t.copyExtra(ecs.Attributes{
		"translation": vecAttr(t.Translation),
		"rotation":    t.Rotation,
		"scale":       vecAttr(t.Scale),
	})
}

// RebuildLocal recomputes LocalMatrix as identity → translate → rotate → scale.
func (t *Transform) RebuildLocal() {
	t.LocalMatrix = mathx.TRS(t.Translation, t.Rotation, t.Scale)
}

// TouchesLocal reports whether attrs changes an input of the local matrix.
func TouchesLocal(attrs ecs.Attributes) bool {
	return attrs.Has("translation") || attrs.Has("rotation") || attrs.Has("scale")
}
