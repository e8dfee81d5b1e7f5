package status

import (
	"slices"
	"sync"
)

// MetricMap names metric cells of type T
// A cell's address is stable once created; hot paths resolve it once and update it directly
type MetricMap[T any] struct {
	cells sync.Map // string -> *T
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{}
}

// Get returns the cell for key, creating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	if v, ok := m.cells.Load(key); ok {
		return v.(*T)
	}
	v, _ := m.cells.LoadOrStore(key, new(T))
	return v.(*T)
}

// Lookup returns the cell for key without creating it
func (m *MetricMap[T]) Lookup(key string) (*T, bool) {
	v, ok := m.cells.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// Keys returns registered names, sorted
func (m *MetricMap[T]) Keys() []string {
	var keys []string
	m.cells.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	slices.Sort(keys)
	return keys
}

// Range visits cells in sorted key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	for _, k := range m.Keys() {
		if ptr, ok := m.Lookup(k); ok {
			fn(k, ptr)
		}
	}
}

func (m *MetricMap[T]) Count() int {
	return len(m.Keys())
}
