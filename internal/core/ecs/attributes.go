package ecs

// Attributes is the configurable state of a component keyed by attribute name.
// Values are YAML/Lua-friendly: numbers, strings, bools, []any and
// map[string]any.
type Attributes map[string]any

// Clone returns a deep copy of a.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = CloneValue(v)
	}
	return out
}

// Has reports whether the attribute is present.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// CloneValue deep-copies slices and maps; scalars are returned as is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = CloneValue(t[i])
		}
		return out
	case []float64:
		return append([]float64(nil), t...)
	case []string:
		return append([]string(nil), t...)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = CloneValue(e)
		}
		return out
	case Attributes:
		return t.Clone()
	default:
		return v
	}
}

// Patch applies src onto dst and returns dst. Slice values replace the
// destination wholesale, map values merge key by key into the destination
// map, everything else replaces. dst may be nil.
func Patch(dst, src Attributes) Attributes {
	if dst == nil {
		dst = make(Attributes, len(src))
	}
	for k, v := range src {
		dst[k] = patchValue(dst[k], v)
	}
	return dst
}

func patchValue(old, v any) any {
	m, ok := asMap(v)
	if !ok {
		return CloneValue(v)
	}
	base, ok := asMap(old)
	if !ok {
		base = make(map[string]any, len(m))
	} else {
		base = CloneValue(base).(map[string]any)
	}
	for k, e := range m {
		base[k] = CloneValue(e)
	}
	return base
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Attributes:
		return map[string]any(t), true
	}
	return nil, false
}

// ComponentConfig maps component type ids to attribute overrides.
type ComponentConfig map[TypeID]Attributes

// Clone returns a deep copy of c.
func (c ComponentConfig) Clone() ComponentConfig {
	if c == nil {
		return nil
	}
	out := make(ComponentConfig, len(c))
	for k, v := range c {
		out[k] = v.Clone()
	}
	return out
}

// Merge patches every component config of src into c, adding the component
// types c does not have yet, and returns c.
func (c ComponentConfig) Merge(src ComponentConfig) ComponentConfig {
	if c == nil {
		c = make(ComponentConfig, len(src))
	}
	for typeID, attrs := range src {
		c[typeID] = Patch(c[typeID], attrs)
	}
	return c
}
