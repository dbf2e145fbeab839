package ecs

import "strconv"

// EntityID is the normalized identifier of an entity. Numeric-looking ids are
// stored in canonical decimal form, so "007", "7" and 7 name the same entity.
// The zero value is the invalid id.
type EntityID string

const (
	InvalidEntityID EntityID = ""
	RootEntityID    EntityID = "root"
)

// ParseEntityID normalizes an externally supplied id.
func ParseEntityID(s string) EntityID {
	if n, ok := parseNumeric(s); ok {
		return EntityID(strconv.FormatInt(n, 10))
	}
	return EntityID(s)
}

// EntityIDFromInt returns the id for a numeric entity number.
func EntityIDFromInt(n int64) EntityID {
	return EntityID(strconv.FormatInt(n, 10))
}

func (id EntityID) IsZero() bool   { return id == InvalidEntityID }
func (id EntityID) String() string { return string(id) }

// Numeric reports the integer value of a numeric id.
func (id EntityID) Numeric() (int64, bool) {
	return parseNumeric(string(id))
}

func parseNumeric(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IDAllocator hands out entity ids. Auto-generated ids come from a counter;
// numeric ids supplied by callers raise the counter floor so the two never
// collide.
type IDAllocator struct {
	next int64
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Allocate returns requested (normalized) when non-empty, otherwise the next
// counter value.
func (a *IDAllocator) Allocate(requested string) EntityID {
	if requested == "" {
		id := EntityIDFromInt(a.next)
		a.next++
		return id
	}
	id := ParseEntityID(requested)
	a.Observe(id)
	return id
}

// Observe raises the counter floor past id if id is numeric.
func (a *IDAllocator) Observe(id EntityID) {
	if n, ok := id.Numeric(); ok && n+1 > a.next {
		a.next = n + 1
	}
}

// Peek returns the id the next auto allocation would produce.
func (a *IDAllocator) Peek() EntityID {
	return EntityIDFromInt(a.next)
}
