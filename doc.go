/*
Package ecs provides a concurrent, archetype-based Entity-Component-System
core: columnar component storage, an entity/group registry, a query planner
that compiles declarative access specs into per-column lock plans, and a
tick-driven transform pipeline that applies buffered mutations between frames.

Core Concepts:

  - Entity: a stable (index, generation) pair identifying a game object.
  - Component: a registered Go type stored column-wise alongside other
    entities that share the same archetype.
  - Archetype (ComponentGroup): the set of component types an entity has;
    entities sharing an archetype live in one ArchetypeStorage.
  - Query: a declarative access+filter spec compiled once into a QueryPlan
    and iterated many times via QueryIterator.
  - Tick: the single-threaded phase that drains every goroutine's staged
    mutations and events and applies them.

Basic Usage:

	w := ecs.NewWorld()
	position := ecs.MustRegister[Position](w)
	velocity := ecs.MustRegister[Velocity](w)

	w.InsertEntity().Insert(position, Position{}).Insert(velocity, Velocity{X: 1})
	w.Tick()

	q := w.Query(ecs.Write(position), ecs.Read(velocity))
	for row := range q.Iter() {
		pos := ecs.Column[Position](row, position)
		vel := ecs.Column[Velocity](row, velocity)
		pos.X += vel.X
		pos.Y += vel.Y
	}

All structural mutation (spawn, insert, remove, despawn) is staged on the
calling goroutine and only takes effect at the next World.Tick call; queries
may run concurrently with each other and with staging, but never concurrently
with Tick itself.
*/
package ecs
