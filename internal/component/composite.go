package component

import (
	"slices"

	"github.com/spellgo/engine/internal/core/ecs"
)

// Composite links an entity into the parent/child tree. ChildrenIDs is
// maintained by the world; it cannot be patched.
type Composite struct {
	ParentID    ecs.EntityID
	ChildrenIDs []ecs.EntityID
	extras
}

func (c *Composite) Patch(attrs ecs.Attributes) error {
	parent, hasParent := c.ParentID, false
	for k, v := range attrs {
		switch k {
		case "parentId":
			id, ok := toEntityID(v)
			if !ok {
				return &AttributeError{TypeID: CompositeType, Attribute: k, Value: v}
			}
			parent, hasParent = id, true
		case "childrenIds":
			// derived from the tree, only an empty default is accepted
			if l, ok := v.([]any); !ok || len(l) != 0 {
				return &AttributeError{TypeID: CompositeType, Attribute: k, Value: v}
			}
		}
	}
	if hasParent {
		c.ParentID = parent
	}
	for k, v := range attrs {
		if k != "parentId" && k != "childrenIds" {
			c.patchExtra(k, v)
		}
	}
	return nil
}

func (c *Composite) Attributes() ecs.Attributes {
	children := make([]any, len(c.ChildrenIDs))
	for i, id := range c.ChildrenIDs {
		children[i] = string(id)
	}
	return c.copyExtra(ecs.Attributes{
		"parentId":    string(c.ParentID),
		"childrenIds": children,
	})
}

// Children returns a copy of the child id list.
func (c *Composite) Children() []ecs.EntityID {
	return slices.Clone(c.ChildrenIDs)
}
