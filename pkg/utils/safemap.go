package utils

import (
	"sync"
)

type Number interface {
	int | int32 | int64 | float32 | float64
}

// SafeMap is a map guarded by a mutex, safe for concurrent use
type SafeMap[K comparable, V Number] struct {
	mutex sync.Mutex
	data  map[K]V
}

func NewSafeMap[K comparable, V Number]() *SafeMap[K, V] {
	return &SafeMap[K, V]{data: make(map[K]V)}
}

func (m *SafeMap[K, V]) Put(key K, value V) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.data[key] = value
}

// Pop removes key and returns its value
func (m *SafeMap[K, V]) Pop(key K) (V, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	v, ok := m.data[key]
	delete(m.data, key)
	return v, ok
}

func (m *SafeMap[K, V]) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.data)
}
