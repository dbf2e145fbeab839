package component

import (
	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/mathx"
)

// TextureMatrix transforms texture coordinates.
type TextureMatrix struct {
	Translation mathx.Vec2
	Scale       mathx.Vec2

	Matrix     mathx.Mat3
	IsIdentity bool
	extras
}

func NewTextureMatrix() *TextureMatrix {
	return &TextureMatrix{Scale: mathx.Vec2{1, 1}, Matrix: mathx.Identity(), IsIdentity: true}
}

func (m *TextureMatrix) Patch(attrs ecs.Attributes) error {
	tr, sc := m.Translation, m.Scale
	for k, v := range attrs {
		var ok bool
		switch k {
		case "translation":
			tr, ok = toVec2(v)
		case "scale":
			sc, ok = toVec2(v)
		default:
			continue
		}
		if !ok {
			return &AttributeError{TypeID: TextureMatrixType, Attribute: k, Value: v}
		}
	}
	m.Translation, m.Scale = tr, sc
	for k, v := range attrs {
		if k != "translation" && k != "scale" {
			m.patchExtra(k, v)
		}
	}
	return nil
}

func (m *TextureMatrix) Attributes() ecs.Attributes {
	return m.copyExtra(ecs.Attributes{
		"translation": vecAttr(m.Translation),
		"scale":       vecAttr(m.Scale),
	})
}

// Rebuild recomputes Matrix and IsIdentity.
func (m *TextureMatrix) Rebuild() {
	m.Matrix = mathx.Identity().Translate(m.Translation).Scale(m.Scale)
	m.IsIdentity = m.Translation == (mathx.Vec2{0, 0}) && m.Scale == (mathx.Vec2{1, 1})
}
