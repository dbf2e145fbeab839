package world

import (
	"errors"
	"fmt"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
)

var (
	ErrSchema               = component.ErrSchema
	ErrInvalidAttribute     = component.ErrInvalidAttribute
	ErrDuplicateComponent   = ecs.ErrDuplicateComponent
	ErrUnknownTemplate      = errors.New("unknown entity template")
	ErrAssetResolution      = errors.New("asset resolution failed")
	ErrAmbiguousSiblingName = errors.New("ambiguous sibling name")
	ErrUnknownComponentType = errors.New("unknown component type")
	ErrUnknownEntity        = errors.New("unknown entity")
)

type UnknownTemplateError struct {
	TemplateID string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown entity template %q", e.TemplateID)
}

func (e *UnknownTemplateError) Unwrap() error { return ErrUnknownTemplate }

type AssetResolutionError struct {
	TypeID    ecs.TypeID
	Attribute string
	AssetID   string
}

func (e *AssetResolutionError) Error() string {
	return fmt.Sprintf("could not resolve asset %q referenced by %s.%s", e.AssetID, e.TypeID, e.Attribute)
}

func (e *AssetResolutionError) Unwrap() error { return ErrAssetResolution }

// AmbiguousSiblingNameError is returned when two entities under one parent
// would share a name. ParentID is empty when the collision was found in a
// configuration before any entity existed.
type AmbiguousSiblingNameError struct {
	Name     string
	ParentID ecs.EntityID
}

func (e *AmbiguousSiblingNameError) Error() string {
	if e.ParentID.IsZero() {
		return fmt.Sprintf("entity configuration contains the ambiguous sibling name %q", e.Name)
	}
	return fmt.Sprintf("name %q collides with a sibling under entity %q", e.Name, e.ParentID)
}

func (e *AmbiguousSiblingNameError) Unwrap() error { return ErrAmbiguousSiblingName }

type UnknownComponentTypeError struct {
	TypeID ecs.TypeID
}

func (e *UnknownComponentTypeError) Error() string {
	return fmt.Sprintf("unknown component type %q", e.TypeID)
}

func (e *UnknownComponentTypeError) Unwrap() error { return ErrUnknownComponentType }
