package component

import (
	"fmt"

	"github.com/spellgo/engine/internal/core/ecs"
)

// Reserved component types known to the engine.
const (
	CompositeType     ecs.TypeID = "composite"
	MetadataType      ecs.TypeID = "metadata"
	TransformType     ecs.TypeID = "transform"
	VisualObjectType  ecs.TypeID = "visualObject"
	EventHandlersType ecs.TypeID = "eventHandlers"
	TextureMatrixType ecs.TypeID = "textureMatrix"
)

// AssetBinder is implemented by components holding resolved asset references.
type AssetBinder interface {
	BindAsset(attr string, asset any)
}

// BuiltinSchemas returns the schemas of the reserved component types.
func BuiltinSchemas() []Schema {
	return []Schema{
		{ID: CompositeType, Attributes: []AttributeDef{
			{Name: "parentId", Type: "entityId"},
			{Name: "childrenIds", Type: "list:entityId", Default: []any{}},
		}},
		{ID: MetadataType, Attributes: []AttributeDef{
			{Name: "name", Type: "string"},
			{Name: "entityTemplateId", Type: "string"},
		}},
		{ID: TransformType, Attributes: []AttributeDef{
			{Name: "translation", Type: "vec2", Default: []any{0.0, 0.0}},
			{Name: "rotation", Type: "number", Default: 0.0},
			{Name: "scale", Type: "vec2", Default: []any{1.0, 1.0}},
		}},
		{ID: VisualObjectType, Attributes: []AttributeDef{
			{Name: "opacity", Type: "number", Default: 1.0},
			{Name: "layer", Type: "integer", Default: 0},
		}},
		{ID: EventHandlersType, Attributes: []AttributeDef{
			{Name: "assetId", Type: AssetTypePrefix + "script"},
		}},
		{ID: TextureMatrixType, Attributes: []AttributeDef{
			{Name: "translation", Type: "vec2", Default: []any{0.0, 0.0}},
			{Name: "scale", Type: "vec2", Default: []any{1.0, 1.0}},
		}},
	}
}

// New creates a component instance of the schema's type populated with the
// schema defaults.
func New(schema *Schema) (ecs.Component, error) {
	var c ecs.Component
	switch schema.ID {
	case CompositeType:
		c = &Composite{}
	case MetadataType:
		c = &Metadata{}
	case TransformType:
		c = NewTransform()
	case VisualObjectType:
		c = NewVisualObject()
	case EventHandlersType:
		c = &EventHandlers{}
	case TextureMatrixType:
		c = NewTextureMatrix()
	default:
		c = NewRecord(schema.ID)
	}
	if err := c.Patch(schema.Defaults()); err != nil {
		return nil, fmt.Errorf("apply %s defaults: %w", schema.ID, err)
	}
	return c, nil
}
