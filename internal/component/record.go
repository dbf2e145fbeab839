package component

import "github.com/spellgo/engine/internal/core/ecs"

// Record is the component instance for schema-defined types without a Go
// representation of their own.
type Record struct {
	typeID ecs.TypeID
	attrs  ecs.Attributes
	assets map[string]any
}

func NewRecord(typeID ecs.TypeID) *Record {
	return &Record{typeID: typeID, attrs: make(ecs.Attributes)}
}

func (r *Record) TypeID() ecs.TypeID { return r.typeID }

func (r *Record) Patch(attrs ecs.Attributes) error {
	r.attrs = ecs.Patch(r.attrs, attrs)
	return nil
}

func (r *Record) Attributes() ecs.Attributes {
	return r.attrs.Clone()
}

// Get returns the current value of an attribute.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// Asset returns the resolved asset bound to an asset-reference attribute.
func (r *Record) Asset(attr string) (any, bool) {
	a, ok := r.assets[attr]
	return a, ok
}

func (r *Record) BindAsset(attr string, asset any) {
	if r.assets == nil {
		r.assets = make(map[string]any, 1)
	}
	r.assets[attr] = asset
}
