package ecs

// Query is a ready-to-run view built by World.Query: a resolved QueryPlan
// bound to the archetype table it should iterate against.
type Query struct {
	plan       *QueryPlan
	archetypes *ArchetypeTable
}

// Iter returns a single-pass iterator over every row the query matches.
// See QueryPlan.Iter for the locking discipline.
func (q Query) Iter() func(yield func(QueryRow) bool) {
	return q.plan.Iter(q.archetypes)
}

// Count returns how many rows the query currently matches. It acquires and
// releases the same locks Iter would, so it observes a consistent snapshot,
// but is not free — callers iterating anyway should prefer counting while
// they iterate instead of calling both.
func (q Query) Count() int {
	n := 0
	for range q.Iter() {
		n++
	}
	return n
}
