package component

import "github.com/spellgo/engine/internal/core/ecs"

// EventHandlers points an entity at the script that handles its events.
// Asset is the resolved script; the world checks it for the handler
// capability at dispatch time.
type EventHandlers struct {
	AssetID string
	Asset   any
	extras
}

func (h *EventHandlers) Patch(attrs ecs.Attributes) error {
	assetID := h.AssetID
	for k, v := range attrs {
		if k != "assetId" {
			continue
		}
		s, ok := toString(v)
		if !ok {
			return &AttributeError{TypeID: EventHandlersType, Attribute: k, Value: v}
		}
		assetID = s
	}
	if assetID != h.AssetID {
		h.Asset = nil
	}
	h.AssetID = assetID
	for k, v := range attrs {
		if k != "assetId" {
			h.patchExtra(k, v)
		}
	}
	return nil
}

func (h *EventHandlers) Attributes() ecs.Attributes {
	return h.copyExtra(ecs.Attributes{"assetId": h.AssetID})
}

func (h *EventHandlers) BindAsset(attr string, asset any) {
	if attr == "assetId" {
		h.Asset = asset
	}
}
