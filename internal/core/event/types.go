package event

import "github.com/spellgo/engine/internal/core/ecs"

// Lifecycle notifications, published after the structural change completed.

type ComponentCreated struct {
	EntityID  ecs.EntityID
	TypeID    ecs.TypeID
	Component ecs.Component
}

type ComponentUpdated struct {
	EntityID  ecs.EntityID
	TypeID    ecs.TypeID
	Component ecs.Component
}

type ComponentRemoved struct {
	EntityID ecs.EntityID
	TypeID   ecs.TypeID
}

type EntityCreated struct {
	EntityID   ecs.EntityID
	Components map[ecs.TypeID]ecs.Component
}

type EntityRemoved struct {
	EntityID ecs.EntityID
}

// ScriptSignal is emitted by event-handler scripts and delivered on the next
// frame.
type ScriptSignal struct {
	Name     string
	EntityID ecs.EntityID
	Args     []any
}
