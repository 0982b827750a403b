package main

// orderedMap is a string map that remembers first-insertion order.
// Setting an existing key replaces the value in place.
type orderedMap struct {
	keys   []string
	values map[string]string
}

func newOrderedMap(capacity int) *orderedMap {
	return &orderedMap{
		keys:   make([]string, 0, capacity),
		values: make(map[string]string, capacity),
	}
}

func (m *orderedMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *orderedMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMap) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *orderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *orderedMap) Each(fn func(key, value string) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Values returns the distinct values in order of first appearance.
func (m *orderedMap) Values() []string {
	seen := make(map[string]struct{}, len(m.keys))
	out := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		v := m.values[k]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
