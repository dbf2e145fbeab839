package world

import (
	"reflect"
	"testing"
	"time"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
)

type call struct {
	owner ecs.EntityID
	args  []any
}

func scriptWorld(t *testing.T, scripts map[string]HandlerMap) *Manager {
	t.Helper()
	assets := AssetMap{}
	for id, h := range scripts {
		assets[id] = h
	}
	return newTestManager(t, nil, assets)
}

func withScript(id string) ecs.ComponentConfig {
	return ecs.ComponentConfig{component.EventHandlersType: {"assetId": id}}
}

func TestEventBubblesToNearestHandler(t *testing.T) {
	var calls []call
	record := func(_ *Manager, id ecs.EntityID, args ...any) {
		calls = append(calls, call{owner: id, args: args})
	}
	m := scriptWorld(t, map[string]HandlerMap{
		"script:parent": {"hit": record},
		"script:child":  {"other": record},
	})
	p := mustCreate(t, m, EntityConfig{Config: withScript("script:parent"), Children: []EntityConfig{
		{Name: "c", Config: withScript("script:child"), Children: []EntityConfig{{Name: "leaf"}}},
	}})
	leaf := m.EntityIDsByName("leaf", p)[0]

	if !m.TriggerEvent(leaf, "hit", 3) {
		t.Fatal("event not handled")
	}
	want := []call{{owner: p, args: []any{3}}}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %+v, want %+v", calls, want)
	}

	if m.TriggerEvent(leaf, "unknown") {
		t.Fatal("unknown event reported as handled")
	}
	if m.TriggerEvent("ghost", "hit") {
		t.Fatal("event on missing entity reported as handled")
	}
}

func TestHandlerMustImplementEventScript(t *testing.T) {
	m := newTestManager(t, nil, AssetMap{"script:text": "not a script"})
	e := mustCreate(t, m, EntityConfig{Config: withScript("script:text")})
	if m.TriggerEvent(e, "hit") {
		t.Fatal("dispatched to an asset without handlers")
	}
}

func TestDeferredEventWaitsForDelay(t *testing.T) {
	fired := 0
	m := scriptWorld(t, map[string]HandlerMap{
		"script:s": {"boom": func(*Manager, ecs.EntityID, ...any) { fired++ }},
	})
	e := mustCreate(t, m, EntityConfig{Config: withScript("script:s")})

	m.TriggerEventAfter(e, "boom", 100*time.Millisecond, nil)
	if n := m.DrainDeferredEvents(60 * time.Millisecond); n != 0 || fired != 0 {
		t.Fatalf("fired early: n=%d fired=%d", n, fired)
	}
	if n := m.DrainDeferredEvents(40 * time.Millisecond); n != 1 || fired != 1 {
		t.Fatalf("not fired on time: n=%d fired=%d", n, fired)
	}
	if m.PendingEvents() != 0 {
		t.Fatal("fired event still queued")
	}
}

func TestGatedDeferredEventPausesTimer(t *testing.T) {
	fired := 0
	m := scriptWorld(t, map[string]HandlerMap{
		"script:s": {"go": func(*Manager, ecs.EntityID, ...any) { fired++ }},
	})
	e := mustCreate(t, m, EntityConfig{Config: withScript("script:s")})

	open := false
	m.TriggerEventAfter(e, "go", 50*time.Millisecond, func() bool { return open })
	for i := 0; i < 5; i++ {
		m.DrainDeferredEvents(time.Second)
	}
	if fired != 0 {
		t.Fatal("gated event fired while gate was closed")
	}
	open = true
	m.DrainDeferredEvents(30 * time.Millisecond)
	if fired != 0 {
		t.Fatal("closed-gate frames counted against the delay")
	}
	m.DrainDeferredEvents(20 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
}

func TestDeferredEventsFireInQueueOrder(t *testing.T) {
	var order []any
	m := scriptWorld(t, map[string]HandlerMap{
		"script:s": {"e": func(_ *Manager, _ ecs.EntityID, args ...any) { order = append(order, args[0]) }},
	})
	e := mustCreate(t, m, EntityConfig{Config: withScript("script:s")})
	m.TriggerEventAfter(e, "e", 10*time.Millisecond, nil, "a")
	m.TriggerEventAfter(e, "e", time.Millisecond, nil, "b")
	m.TriggerEventAfter(e, "e", 5*time.Millisecond, nil, "c")

	m.DrainDeferredEvents(10 * time.Millisecond)
	if !reflect.DeepEqual(order, []any{"a", "b", "c"}) {
		t.Fatalf("order = %v", order)
	}
}

func TestZeroDelayDispatchesImmediately(t *testing.T) {
	fired := 0
	m := scriptWorld(t, map[string]HandlerMap{
		"script:s": {"now": func(*Manager, ecs.EntityID, ...any) { fired++ }},
	})
	e := mustCreate(t, m, EntityConfig{Config: withScript("script:s")})

	m.TriggerEventAfter(e, "now", 0, nil)
	if fired != 1 || m.PendingEvents() != 0 {
		t.Fatalf("fired=%d pending=%d", fired, m.PendingEvents())
	}
	m.TriggerEventAfter(e, "now", 0, func() bool { return false })
	if fired != 2 || m.PendingEvents() != 0 {
		t.Fatalf("gated zero delay: fired=%d pending=%d, want 2 and 0", fired, m.PendingEvents())
	}
}

func TestNegativeDelayFiresOnNextDrain(t *testing.T) {
	fired := 0
	m := scriptWorld(t, map[string]HandlerMap{
		"script:s": {"late": func(*Manager, ecs.EntityID, ...any) { fired++ }},
	})
	e := mustCreate(t, m, EntityConfig{Config: withScript("script:s")})

	m.TriggerEventAfter(e, "late", -5*time.Millisecond, nil)
	if fired != 0 || m.PendingEvents() != 1 {
		t.Fatalf("fired=%d pending=%d, want 0 and 1", fired, m.PendingEvents())
	}
	if n := m.DrainDeferredEvents(0); n != 1 || fired != 1 {
		t.Fatalf("drain: n=%d fired=%d", n, fired)
	}
}

func TestEventsQueuedDuringDrainWaitForNextDrain(t *testing.T) {
	count := 0
	h := HandlerMap{"again": func(m *Manager, id ecs.EntityID, _ ...any) {
		count++
		m.TriggerEventAfter(id, "again", time.Millisecond, nil)
	}}
	m := scriptWorld(t, map[string]HandlerMap{"script:loop": h})
	e := mustCreate(t, m, EntityConfig{Config: withScript("script:loop")})

	m.TriggerEventAfter(e, "again", time.Millisecond, nil)
	m.DrainDeferredEvents(time.Millisecond)
	if count != 1 {
		t.Fatalf("count = %d after one drain, want 1", count)
	}
	if m.PendingEvents() != 1 {
		t.Fatalf("pending = %d, want the re-queued event", m.PendingEvents())
	}
	m.DrainDeferredEvents(time.Millisecond)
	if count != 2 {
		t.Fatalf("count = %d after two drains, want 2", count)
	}
}

func TestDeferredEventSurvivesTemplateReload(t *testing.T) {
	fired := 0
	m := newTestManager(t,
		TemplateMap{"lamp": {ID: "lamp", Config: withScript("script:lamp")}},
		AssetMap{"script:lamp": HandlerMap{"flicker": func(*Manager, ecs.EntityID, ...any) { fired++ }}},
	)
	lamp := mustCreate(t, m, EntityConfig{EntityTemplateID: "lamp"})

	m.TriggerEventAfter(lamp, "flicker", 10*time.Millisecond, nil)
	if _, err := m.UpdateEntityTemplate("lamp"); err != nil {
		t.Fatal(err)
	}
	if m.PendingEvents() != 1 {
		t.Fatalf("pending = %d after reload, want 1", m.PendingEvents())
	}
	m.DrainDeferredEvents(20 * time.Millisecond)
	if !m.Exists(lamp) || fired != 1 {
		t.Fatalf("exists=%v fired=%d", m.Exists(lamp), fired)
	}
}

func TestDeferredEventForRemovedEntityIsDropped(t *testing.T) {
	m := newTestManager(t, nil, nil)
	a := mustCreate(t, m, EntityConfig{})
	m.TriggerEventAfter(a, "x", time.Millisecond, nil)
	m.RemoveEntity(a)
	if m.PendingEvents() != 1 {
		t.Fatalf("pending = %d, want 1", m.PendingEvents())
	}
	m.DrainDeferredEvents(time.Millisecond)
	if m.PendingEvents() != 0 {
		t.Fatal("event for a removed entity stayed queued")
	}
}

func TestHandlerMayRemoveEntitiesDuringDispatch(t *testing.T) {
	m := scriptWorld(t, map[string]HandlerMap{
		"script:s": {"die": func(m *Manager, id ecs.EntityID, _ ...any) { m.RemoveEntity(id) }},
	})
	a := mustCreate(t, m, EntityConfig{Config: withScript("script:s")})
	b := mustCreate(t, m, EntityConfig{Config: withScript("script:s")})
	m.TriggerEventAfter(a, "die", time.Millisecond, nil)
	m.TriggerEventAfter(b, "die", time.Millisecond, nil)
	if n := m.DrainDeferredEvents(time.Millisecond); n != 2 {
		t.Fatalf("fired %d, want 2", n)
	}
	if m.Exists(a) || m.Exists(b) {
		t.Fatal("handlers did not remove their entities")
	}
}
