package ecs

// newSimpleCache builds a SimpleCache[T] with the given capacity. A
// non-positive capacity is replaced with a generous default: query-plan
// interning is expected to see at most a few hundred distinct signatures
// in a real program, never an attacker-controlled count.
func newSimpleCache[T any](capacity int) *SimpleCache[T] {
	if capacity <= 0 {
		capacity = 4096
	}
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: capacity,
	}
}
