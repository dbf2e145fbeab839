package component

import (
	"github.com/spellgo/engine/internal/core/ecs"
	"golang.org/x/text/unicode/norm"
)

// Metadata carries an entity's optional name and the template it was
// instantiated from.
type Metadata struct {
	Name             string
	EntityTemplateID string
	extras
}

// NormalizeName returns the canonical (NFC) form used for name comparisons.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

func (m *Metadata) Patch(attrs ecs.Attributes) error {
	name, tmpl := m.Name, m.EntityTemplateID
	for k, v := range attrs {
		switch k {
		case "name":
			s, ok := toString(v)
			if !ok {
				return &AttributeError{TypeID: MetadataType, Attribute: k, Value: v}
			}
			name = NormalizeName(s)
		case "entityTemplateId":
			s, ok := toString(v)
			if !ok {
				return &AttributeError{TypeID: MetadataType, Attribute: k, Value: v}
			}
			tmpl = s
		}
	}
	m.Name, m.EntityTemplateID = name, tmpl
	for k, v := range attrs {
		if k != "name" && k != "entityTemplateId" {
			m.patchExtra(k, v)
		}
	}
	return nil
}

func (m *Metadata) Attributes() ecs.Attributes {
	return m.copyExtra(ecs.Attributes{
		"name":             m.Name,
		"entityTemplateId": m.EntityTemplateID,
	})
}
