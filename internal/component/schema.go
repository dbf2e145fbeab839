package component

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spellgo/engine/internal/core/ecs"
)

// AssetTypePrefix marks attributes whose value is an asset id that gets
// resolved when the component is created.
const AssetTypePrefix = "assetId:"

var ErrSchema = errors.New("invalid component schema")

// SchemaError reports a rejected component type registration.
type SchemaError struct {
	TypeID    ecs.TypeID
	Attribute string
	Reason    string
}

func (e *SchemaError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("component type %q: %s", e.TypeID, e.Reason)
	}
	return fmt.Sprintf("component type %q: attribute %q: %s", e.TypeID, e.Attribute, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// AttributeDef declares one attribute of a component type.
type AttributeDef struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default any    `yaml:"default"`
}

// IsAssetReference reports whether the attribute holds an asset id.
func (d AttributeDef) IsAssetReference() bool {
	return strings.HasPrefix(d.Type, AssetTypePrefix)
}

// Schema is a named component type definition.
type Schema struct {
	ID         ecs.TypeID     `yaml:"id"`
	Attributes []AttributeDef `yaml:"attributes"`
}

// Validate rejects schemas without an id or with duplicate attribute names.
func (s *Schema) Validate() error {
	if s.ID == "" {
		return &SchemaError{Reason: "missing id"}
	}
	seen := make(map[string]struct{}, len(s.Attributes))
	for _, a := range s.Attributes {
		if a.Name == "" {
			return &SchemaError{TypeID: s.ID, Reason: "attribute without name"}
		}
		if _, dup := seen[a.Name]; dup {
			return &SchemaError{TypeID: s.ID, Attribute: a.Name, Reason: "declared more than once"}
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}

// Defaults returns a fresh copy of the declared default values.
func (s *Schema) Defaults() ecs.Attributes {
	out := make(ecs.Attributes, len(s.Attributes))
	for _, a := range s.Attributes {
		if a.Default != nil {
			out[a.Name] = ecs.CloneValue(a.Default)
		}
	}
	return out
}

// AssetAttributes returns the names of asset-reference attributes.
func (s *Schema) AssetAttributes() []string {
	var out []string
	for _, a := range s.Attributes {
		if a.IsAssetReference() {
			out = append(out, a.Name)
		}
	}
	return out
}

// HasAssetReference reports whether any attribute is an asset reference.
func (s *Schema) HasAssetReference() bool {
	return len(s.AssetAttributes()) > 0
}
