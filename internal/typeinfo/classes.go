package typeinfo

import (
	"golang.org/x/tools/go/types/typeutil"
)

// Classes partitions types into identity classes. Two types belong to the same
// class iff they are identical by [types.Identical].
type Classes[V any] struct {
	m *typeutil.Map
}

// NewClasses creates a new empty [Classes].
func NewClasses[V any]() *Classes[V] {
	m := new(typeutil.Map)
	m.SetHasher(typeutil.MakeHasher())
	return &Classes[V]{m}
}

// Put associates a value with the class of the type. If the class already has
// a value, it is kept and returned with false.
func (c *Classes[V]) Put(t Type, v V) (V, bool) {
	if old, ok := c.m.At(t.T).(V); ok {
		return old, false
	}
	c.m.Set(t.T, v)
	return v, true
}

// Get returns the value associated with the class of the type.
func (c *Classes[V]) Get(t Type) (V, bool) {
	if c == nil {
		return *new(V), false
	}
	v, ok := c.m.At(t.T).(V)
	return v, ok
}

// Len returns the number of classes.
func (c *Classes[V]) Len() int {
	if c == nil {
		return 0
	}
	return c.m.Len()
}
