package scripting

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/mathx"
	"github.com/spellgo/engine/internal/world"
)

// toLua converts attribute values to Lua values. Unsupported types become
// userdata.
func toLua(L *lua.LState, v any) lua.LValue {
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return t
	case bool:
		return lua.LBool(t)
	case string:
		return lua.LString(t)
	case ecs.EntityID:
		return lua.LString(t)
	case ecs.TypeID:
		return lua.LString(t)
	case int:
		return lua.LNumber(t)
	case int32:
		return lua.LNumber(t)
	case int64:
		return lua.LNumber(t)
	case float32:
		return lua.LNumber(t)
	case float64:
		return lua.LNumber(t)
	case mathx.Vec2:
		return toLua(L, []any{t[0], t[1]})
	case []any:
		tbl := L.CreateTable(len(t), 0)
		for _, item := range t {
			tbl.Append(toLua(L, item))
		}
		return tbl
	case ecs.Attributes:
		return toLua(L, map[string]any(t))
	case map[string]any:
		tbl := L.CreateTable(0, len(t))
		for k, item := range t {
			tbl.RawSetString(k, toLua(L, item))
		}
		return tbl
	}
	ud := L.NewUserData()
	ud.Value = v
	return ud
}

// fromLua converts a Lua value to an attribute value. Tables with only
// consecutive integer keys from 1 become []any, other tables map[string]any.
// Whole numbers stay float64; attribute setters accept them for integers.
func fromLua(v lua.LValue) any {
	switch t := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(t)
	case lua.LString:
		return string(t)
	case lua.LNumber:
		return float64(t)
	case *lua.LUserData:
		return t.Value
	case *lua.LTable:
		if n := t.MaxN(); n > 0 && tableLen(t) == n {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, fromLua(t.RawGetInt(i)))
			}
			return out
		}
		out := make(map[string]any)
		t.ForEach(func(k, val lua.LValue) {
			out[k.String()] = fromLua(val)
		})
		return out
	}
	return nil
}

func tableLen(t *lua.LTable) int {
	n := 0
	t.ForEach(func(lua.LValue, lua.LValue) { n++ })
	return n
}

// decodeEntityConfig builds an entity configuration from a converted Lua
// table with the same keys as the YAML form.
func decodeEntityConfig(v any) (world.EntityConfig, error) {
	var cfg world.EntityConfig
	raw, ok := v.(map[string]any)
	if !ok {
		return cfg, fmt.Errorf("entity config must be a table with named keys, got %T", v)
	}
	var err error
	if cfg.ID, err = idString(raw["id"]); err != nil {
		return cfg, fmt.Errorf("id: %w", err)
	}
	parent, err := idString(raw["parentId"])
	if err != nil {
		return cfg, fmt.Errorf("parentId: %w", err)
	}
	cfg.ParentID = ecs.ParseEntityID(parent)
	if s, ok := raw["name"].(string); ok {
		cfg.Name = s
	}
	if s, ok := raw["entityTemplateId"].(string); ok {
		cfg.EntityTemplateID = s
	}
	if c, ok := raw["config"].(map[string]any); ok {
		cfg.Config = make(ecs.ComponentConfig, len(c))
		for k, v := range c {
			attrs, ok := v.(map[string]any)
			if !ok {
				return cfg, fmt.Errorf("config.%s must be a table with named keys", k)
			}
			cfg.Config[ecs.TypeID(k)] = ecs.Attributes(attrs)
		}
	}
	if children, ok := raw["children"].([]any); ok {
		for i, child := range children {
			cc, err := decodeEntityConfig(child)
			if err != nil {
				return cfg, fmt.Errorf("children[%d]: %w", i, err)
			}
			cfg.Children = append(cfg.Children, cc)
		}
	}
	return cfg, nil
}

func idString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		if t != math.Trunc(t) {
			return "", fmt.Errorf("fractional id %v", t)
		}
		return string(ecs.EntityIDFromInt(int64(t))), nil
	}
	return "", fmt.Errorf("unsupported id type %T", v)
}
