package ecs

// Cache is a capacity-bounded, string-keyed interning cache: register a
// value once under a key, then look it up by either the key's previously
// returned index, or a uint32 form of that index.
type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(string, T) (int, error)
}

// SimpleCache is the Cache[T] this package uses. QueryPlanner embeds one,
// keyed by QuerySignature.key(), instead of a bare map, so the number of
// interned query plans is capacity-bounded. (Component groups and type ids
// are interned by their own registries, which have no such bound.)
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}
