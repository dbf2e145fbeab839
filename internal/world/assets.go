package world

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
)

// ScriptAssetPrefix is the asset-id prefix of event-handler scripts. Script
// assets are owned by the scripting engine and skipped by
// RefreshAssetReferences.
const ScriptAssetPrefix = "script:"

type assetBinding struct {
	attr  string
	asset any
}

// resolveAssetAttributes resolves every asset-reference attribute of typeID
// present in attrs. Empty ids resolve to nil.
func (m *Manager) resolveAssetAttributes(typeID ecs.TypeID, attrs ecs.Attributes) ([]assetBinding, error) {
	schema, ok := m.schemas[typeID]
	if !ok {
		return nil, nil
	}
	var out []assetBinding
	for _, attr := range schema.AssetAttributes() {
		v, ok := attrs[attr]
		if !ok {
			continue
		}
		assetID, _ := v.(string)
		if assetID == "" {
			out = append(out, assetBinding{attr: attr})
			continue
		}
		asset, ok := m.resolveAsset(assetID)
		if !ok {
			return nil, &AssetResolutionError{TypeID: typeID, Attribute: attr, AssetID: assetID}
		}
		out = append(out, assetBinding{attr: attr, asset: asset})
	}
	return out, nil
}

func (m *Manager) resolveAsset(assetID string) (any, bool) {
	if m.assets == nil {
		return nil, false
	}
	return m.assets.Asset(assetID)
}

func bindAssets(c ecs.Component, bindings []assetBinding) {
	binder, ok := c.(component.AssetBinder)
	if !ok {
		return
	}
	for _, b := range bindings {
		binder.BindAsset(b.attr, b.asset)
	}
}

// eachAssetReference calls fn for every asset-reference attribute value held
// by a live component, ordered by type then entity id.
func (m *Manager) eachAssetReference(fn func(id ecs.EntityID, c ecs.Component, attr, assetID string)) {
	for _, store := range m.world.Registry().Stores() {
		schema, ok := m.schemas[store.TypeID()]
		if !ok || !schema.HasAssetReference() {
			continue
		}
		attrs := schema.AssetAttributes()
		ids := store.IDs()
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			c, _ := store.Lookup(id)
			values := c.Attributes()
			for _, attr := range attrs {
				if assetID, _ := values[attr].(string); assetID != "" {
					fn(id, c, attr, assetID)
				}
			}
		}
	}
}

// UpdateAssetReferences rebinds every component referencing assetID to
// asset. It returns the number of references rebound.
func (m *Manager) UpdateAssetReferences(assetID string, asset any) int {
	n := 0
	m.eachAssetReference(func(_ ecs.EntityID, c ecs.Component, attr, ref string) {
		if ref != assetID {
			return
		}
		bindAssets(c, []assetBinding{{attr: attr, asset: asset}})
		n++
	})
	return n
}

// RefreshAssetReferences re-resolves every non-script asset reference
// against the current asset resolver. References that no longer resolve are
// bound to nil.
func (m *Manager) RefreshAssetReferences() int {
	n := 0
	m.eachAssetReference(func(id ecs.EntityID, c ecs.Component, attr, ref string) {
		if strings.HasPrefix(ref, ScriptAssetPrefix) {
			return
		}
		asset, ok := m.resolveAsset(ref)
		if !ok {
			m.log.Warn("asset reference no longer resolves",
				zap.String("entity", string(id)),
				zap.String("asset", ref),
			)
		}
		bindAssets(c, []assetBinding{{attr: attr, asset: asset}})
		n++
	})
	return n
}
