package component

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/mathx"
)

var ErrInvalidAttribute = errors.New("invalid attribute value")

// AttributeError reports a value that cannot be stored in a typed attribute.
type AttributeError struct {
	TypeID    ecs.TypeID
	Attribute string
	Value     any
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s.%s: cannot use %v (%T)", e.TypeID, e.Attribute, e.Value, e.Value)
}

func (e *AttributeError) Unwrap() error { return ErrInvalidAttribute }

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func toVec2(v any) (mathx.Vec2, bool) {
	switch t := v.(type) {
	case mathx.Vec2:
		return t, true
	case [2]float64:
		return mathx.Vec2(t), true
	case []float64:
		if len(t) == 2 {
			return mathx.Vec2{t[0], t[1]}, true
		}
	case []any:
		if len(t) == 2 {
			x, okX := toFloat(t[0])
			y, okY := toFloat(t[1])
			if okX && okY {
				return mathx.Vec2{x, y}, true
			}
		}
	}
	return mathx.Vec2{}, false
}

func vecAttr(v mathx.Vec2) []any {
	return []any{v[0], v[1]}
}

// toEntityID accepts string ids and numeric ids from YAML or Lua.
func toEntityID(v any) (ecs.EntityID, bool) {
	switch t := v.(type) {
	case nil:
		return ecs.InvalidEntityID, true
	case ecs.EntityID:
		return t, true
	case string:
		return ecs.ParseEntityID(t), true
	}
	if n, ok := toInt(v); ok {
		return ecs.EntityIDFromInt(int64(n)), true
	}
	return ecs.InvalidEntityID, false
}

func toString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	}
	if n, ok := toInt(v); ok {
		return strconv.Itoa(n), true
	}
	return "", false
}

// extras keeps attributes a typed component does not model itself, so
// re-registered schemas with additional attributes still round-trip.
type extras struct {
	attrs ecs.Attributes
}

func (e *extras) patchExtra(name string, v any) {
	e.attrs = ecs.Patch(e.attrs, ecs.Attributes{name: v})
}

func (e *extras) copyExtra(out ecs.Attributes) ecs.Attributes {
	for k, v := range e.attrs {
		out[k] = ecs.CloneValue(v)
	}
	return out
}

