package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateComponent = errors.New("duplicate component")
	ErrComponentType      = errors.New("component type mismatch")
)

// DuplicateComponentError is returned when an entity already holds a
// component of the type being attached.
type DuplicateComponentError struct {
	EntityID EntityID
	TypeID   TypeID
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("entity %q already has a component %q", e.EntityID, e.TypeID)
}

func (e *DuplicateComponentError) Unwrap() error { return ErrDuplicateComponent }

// ComponentTypeError is returned when a component instance does not match the
// Go type backing a store.
type ComponentTypeError struct {
	TypeID TypeID
	Got    Component
}

func (e *ComponentTypeError) Error() string {
	return fmt.Sprintf("store %q cannot hold %T", e.TypeID, e.Got)
}

func (e *ComponentTypeError) Unwrap() error { return ErrComponentType }
