package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/core/event"
	"github.com/spellgo/engine/internal/world"
)

const doorScript = `
local handlers = {}

function handlers.open(ctx, id, amount)
  ctx.set(id, "transform", "translation", {amount, 0})
end

function handlers.knock(ctx, id)
  ctx.trigger_after(id, "open", 0.5, 7)
end

function handlers.spawn(ctx, id)
  local child, err = ctx.create({
    parentId = id,
    name = "spark",
    config = { transform = { translation = {1, 2} } },
  })
  if child == nil then error(err) end
  ctx.emit("spawned", child, "spark")
end

function handlers.vanish(ctx, id)
  ctx.remove(id)
end

function handlers.broken(ctx, id)
  error("boom")
end

return handlers
`

func newTestEngine(t *testing.T) (*Engine, *world.Manager) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "props"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "props", "door.lua"), []byte(doorScript), 0o644); err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)

	m := world.NewManager(event.NewBus(), nil, e, zap.NewNop())
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	e.Bind(m)
	return e, m
}

func newDoor(t *testing.T, m *world.Manager) ecs.EntityID {
	t.Helper()
	id, err := m.CreateEntity(world.EntityConfig{Name: "door", Config: ecs.ComponentConfig{
		component.TransformType:     {},
		component.EventHandlersType: {"assetId": "script:props/door"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestScriptsResolveAsAssets(t *testing.T) {
	e, _ := newTestEngine(t)
	a, ok := e.Asset("script:props/door")
	if !ok {
		t.Fatalf("script not registered, have %v", e.Names())
	}
	if _, ok := a.(world.EventScript); !ok {
		t.Fatalf("asset %T does not provide handlers", a)
	}
	if _, ok := e.Asset("props/door"); ok {
		t.Fatal("resolved an id without the script prefix")
	}
}

func TestHandlerUpdatesComponents(t *testing.T) {
	_, m := newTestEngine(t)
	door := newDoor(t, m)
	if !m.TriggerEvent(door, "open", 4) {
		t.Fatal("open not handled")
	}
	tr, _ := m.Transform(door)
	if tr.Translation != [2]float64{4, 0} || tr.WorldTranslation != [2]float64{4, 0} {
		t.Fatalf("transform = %+v", tr)
	}
}

func TestHandlerSchedulesDeferredEvent(t *testing.T) {
	_, m := newTestEngine(t)
	door := newDoor(t, m)
	m.TriggerEvent(door, "knock")
	if m.PendingEvents() != 1 {
		t.Fatalf("pending = %d", m.PendingEvents())
	}
	m.DrainDeferredEvents(500 * time.Millisecond)
	tr, _ := m.Transform(door)
	if tr.Translation != [2]float64{7, 0} {
		t.Fatalf("translation = %v", tr.Translation)
	}
}

func TestHandlerCreatesEntityAndEmitsSignal(t *testing.T) {
	_, m := newTestEngine(t)
	door := newDoor(t, m)
	var signals []event.ScriptSignal
	event.Subscribe(m.Bus(), func(s event.ScriptSignal) { signals = append(signals, s) })

	m.TriggerEvent(door, "spawn")
	sparks := m.EntityIDsByName("spark", door)
	if len(sparks) != 1 {
		t.Fatalf("sparks = %v", sparks)
	}

	if len(signals) != 0 {
		t.Fatal("signal delivered before the next frame")
	}
	m.Bus().SwapBuffers()
	m.Bus().DispatchAll()
	if len(signals) != 1 || signals[0].EntityID != sparks[0] || signals[0].Args[0] != "spark" {
		t.Fatalf("signals = %+v", signals)
	}
}

func TestRemoveIsQueued(t *testing.T) {
	_, m := newTestEngine(t)
	door := newDoor(t, m)
	m.TriggerEvent(door, "vanish")
	if !m.Exists(door) {
		t.Fatal("entity removed inside the handler")
	}
	m.FlushRemovals()
	if m.Exists(door) {
		t.Fatal("entity survived the flush")
	}
}

func TestScriptErrorIsContained(t *testing.T) {
	_, m := newTestEngine(t)
	door := newDoor(t, m)
	if !m.TriggerEvent(door, "broken") {
		t.Fatal("handler lookup failed")
	}
	// the VM must still be usable
	if !m.TriggerEvent(door, "open", 1) {
		t.Fatal("engine unusable after a script error")
	}
}

func TestLoadStringRequiresHandlerTable(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.LoadString("bad", "return 42"); err == nil {
		t.Fatal("accepted a script that returns a number")
	}
	s, err := e.LoadString("inline", "return { ping = function(ctx, id) end }")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Handler("ping"); !ok {
		t.Fatal("ping handler missing")
	}
	if _, ok := s.Handler("pong"); ok {
		t.Fatal("unexpected pong handler")
	}
}

func TestDecodeEntityConfig(t *testing.T) {
	cfg, err := decodeEntityConfig(map[string]any{
		"id":       12.0,
		"name":     "box",
		"parentId": "007",
		"config":   map[string]any{"transform": map[string]any{"rotation": 1.0}},
		"children": []any{map[string]any{"name": "lid"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ID != "12" || cfg.ParentID != "7" || cfg.Name != "box" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Config["transform"]["rotation"] != 1.0 || len(cfg.Children) != 1 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if _, err := decodeEntityConfig(map[string]any{"id": 1.5}); err == nil {
		t.Fatal("accepted a fractional id")
	}
}
