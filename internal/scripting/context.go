package scripting

import (
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/core/event"
	"github.com/spellgo/engine/internal/world"
)

// newContext builds the ctx table handlers receive as their first argument.
func (e *Engine) newContext(m *world.Manager) *lua.LTable {
	L := e.vm
	ctx := L.NewTable()
	fns := map[string]lua.LGFunction{
		"trigger": func(L *lua.LState) int {
			id := entityArg(L, 1)
			L.Push(lua.LBool(m.TriggerEvent(id, L.CheckString(2), restArgs(L, 3)...)))
			return 1
		},
		"trigger_after": func(L *lua.LState) int {
			id := entityArg(L, 1)
			eventID := L.CheckString(2)
			delay := time.Duration(float64(L.CheckNumber(3)) * float64(time.Second))
			m.TriggerEventAfter(id, eventID, delay, nil, restArgs(L, 4)...)
			return 0
		},
		"get": func(L *lua.LState) int {
			c, ok := m.Component(entityArg(L, 1), ecs.TypeID(L.CheckString(2)))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(toLua(L, c.Attributes()))
			return 1
		},
		"set": func(L *lua.LState) int {
			ok := m.UpdateComponentAttribute(entityArg(L, 1), ecs.TypeID(L.CheckString(2)), L.CheckString(3), fromLua(L.Get(4)))
			L.Push(lua.LBool(ok))
			return 1
		},
		"update": func(L *lua.LState) int {
			attrs, _ := fromLua(L.CheckTable(3)).(map[string]any)
			ok := m.UpdateComponent(entityArg(L, 1), ecs.TypeID(L.CheckString(2)), ecs.Attributes(attrs))
			L.Push(lua.LBool(ok))
			return 1
		},
		"create": func(L *lua.LState) int {
			cfg, err := decodeEntityConfig(fromLua(L.CheckTable(1)))
			if err == nil {
				var id ecs.EntityID
				if id, err = m.CreateEntity(cfg); err == nil {
					L.Push(lua.LString(id))
					return 1
				}
			}
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		},
		"remove": func(L *lua.LState) int {
			m.QueueRemoval(entityArg(L, 1))
			return 0
		},
		"emit": func(L *lua.LState) int {
			event.Emit(m.Bus(), event.ScriptSignal{
				Name:     L.CheckString(1),
				EntityID: entityArg(L, 2),
				Args:     restArgs(L, 3),
			})
			return 0
		},
		"find": func(L *lua.LState) int {
			scope := ecs.InvalidEntityID
			if L.GetTop() >= 2 && L.Get(2) != lua.LNil {
				scope = entityArg(L, 2)
			}
			L.Push(idList(L, m.EntityIDsByName(L.CheckString(1), scope)))
			return 1
		},
		"parent": func(L *lua.LState) int {
			p, ok := m.Parent(entityArg(L, 1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(p))
			return 1
		},
		"children": func(L *lua.LState) int {
			L.Push(idList(L, m.Children(entityArg(L, 1))))
			return 1
		},
		"log": func(L *lua.LState) int {
			e.log.Info("lua", zap.String("msg", L.CheckString(1)))
			return 0
		},
	}
	for name, fn := range fns {
		ctx.RawSetString(name, L.NewFunction(fn))
	}
	return ctx
}

// entityArg reads an entity id given as a string or a number.
func entityArg(L *lua.LState, n int) ecs.EntityID {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return ecs.ParseEntityID(string(v))
	case lua.LNumber:
		return ecs.EntityIDFromInt(int64(v))
	}
	L.ArgError(n, "entity id expected")
	return ecs.InvalidEntityID
}

func restArgs(L *lua.LState, from int) []any {
	top := L.GetTop()
	if top < from {
		return nil
	}
	out := make([]any, 0, top-from+1)
	for i := from; i <= top; i++ {
		out = append(out, fromLua(L.Get(i)))
	}
	return out
}

func idList(L *lua.LState, ids []ecs.EntityID) *lua.LTable {
	t := L.CreateTable(len(ids), 0)
	for _, id := range ids {
		t.Append(lua.LString(id))
	}
	return t
}
