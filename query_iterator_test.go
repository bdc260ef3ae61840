package ecs

import (
	"testing"
	"time"
)

func buildTestQuery(t *testing.T, reg *TypeRegistry, groups *GroupRegistry, archetypes *ArchetypeTable, terms ...QueryTerm) Query {
	t.Helper()
	planner := newQueryPlanner(groups)
	plan := planner.Plan(terms)
	return Query{plan: plan, archetypes: archetypes}
}

// TestQueryIterMixedFiltersMatchesOnlyQualifyingArchetypes verifies that
// a query combining a mandatory Read, a With and a Without predicate only
// yields rows from archetypes satisfying all three.
func TestQueryIterMixedFiltersMatchesOnlyQualifyingArchetypes(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	vel := RegisterComponent[testVelocity](reg)
	name := RegisterComponent[testName](reg)
	groups := newGroupRegistry()
	archetypes := newArchetypeTable(reg, groups, 4)

	// Group A: pos, vel      -> should match (has pos, has vel, no name)
	// Group B: pos, vel, name -> should not match (Without(name) excludes it)
	// Group C: pos only       -> should not match (missing vel, a mandatory Read)
	groupA := groups.Intern([]ComponentTypeID{pos, vel})
	groupB := groups.Intern([]ComponentTypeID{pos, vel, name})
	groupC := groups.Intern([]ComponentTypeID{pos})

	storageA, _ := archetypes.GetOrCreate(groupA)
	storageB, _ := archetypes.GetOrCreate(groupB)
	storageC, _ := archetypes.GetOrCreate(groupC)

	eA := Entity{Index: 1, Generation: 1}
	eB := Entity{Index: 2, Generation: 1}
	eC := Entity{Index: 3, Generation: 1}
	storageA.InsertRow(eA, []ComponentInsert{insertOf(reg, pos, testPosition{}), insertOf(reg, vel, testVelocity{})})
	storageB.InsertRow(eB, []ComponentInsert{insertOf(reg, pos, testPosition{}), insertOf(reg, vel, testVelocity{}), insertOf(reg, name, testName{})})
	storageC.InsertRow(eC, []ComponentInsert{insertOf(reg, pos, testPosition{})})

	q := buildTestQuery(t, reg, groups, archetypes, Read(pos), Read(vel), Without(name))

	seen := map[Entity]bool{}
	for row := range q.Iter() {
		seen[row.Entity] = true
	}
	if len(seen) != 1 || !seen[eA] {
		t.Errorf("matched entities = %v, want only %v", seen, eA)
	}
}

func TestQueryIterOptionalAccessYieldsNilWhenAbsent(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	vel := RegisterComponent[testVelocity](reg)
	groups := newGroupRegistry()
	archetypes := newArchetypeTable(reg, groups, 4)

	withVel := groups.Intern([]ComponentTypeID{pos, vel})
	withoutVel := groups.Intern([]ComponentTypeID{pos})

	storageWith, _ := archetypes.GetOrCreate(withVel)
	storageWithout, _ := archetypes.GetOrCreate(withoutVel)

	eWith := Entity{Index: 1, Generation: 1}
	eWithout := Entity{Index: 2, Generation: 1}
	storageWith.InsertRow(eWith, []ComponentInsert{insertOf(reg, pos, testPosition{}), insertOf(reg, vel, testVelocity{X: 3, Y: 4})})
	storageWithout.InsertRow(eWithout, []ComponentInsert{insertOf(reg, pos, testPosition{})})

	q := buildTestQuery(t, reg, groups, archetypes, Read(pos), OptionalRead(vel))

	results := map[Entity]*testVelocity{}
	for row := range q.Iter() {
		results[row.Entity] = Column[testVelocity](row, vel)
	}

	if results[eWithout] != nil {
		t.Error("optional access for an archetype lacking the column should yield nil")
	}
	if results[eWith] == nil || *results[eWith] != (testVelocity{X: 3, Y: 4}) {
		t.Errorf("optional access for an archetype carrying the column = %v, want {3 4}", results[eWith])
	}
}

// TestQueryIterDisjointQueriesDoNotBlockEachOther verifies that an
// exclusive lock held on vel (taken here directly on the storage) never
// prevents a query from acquiring an exclusive lock on the disjoint pos
// column.
func TestQueryIterDisjointQueriesDoNotBlockEachOther(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	vel := RegisterComponent[testVelocity](reg)
	groups := newGroupRegistry()
	archetypes := newArchetypeTable(reg, groups, 4)

	group := groups.Intern([]ComponentTypeID{pos, vel})
	storage, _ := archetypes.GetOrCreate(group)
	e := Entity{Index: 1, Generation: 1}
	storage.InsertRow(e, []ComponentInsert{insertOf(reg, pos, testPosition{}), insertOf(reg, vel, testVelocity{})})

	storage.AcquireColumn(vel, LockExclusive)
	defer storage.ReleaseColumn(vel, LockExclusive)

	qPos := buildTestQuery(t, reg, groups, archetypes, Write(pos))

	done := make(chan struct{})
	go func() {
		for range qPos.Iter() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a query over pos should not block while vel's lock is held elsewhere")
	}
}

func TestQueryCount(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	groups := newGroupRegistry()
	archetypes := newArchetypeTable(reg, groups, 4)

	group := groups.Intern([]ComponentTypeID{pos})
	storage, _ := archetypes.GetOrCreate(group)
	storage.InsertRow(Entity{Index: 1, Generation: 1}, []ComponentInsert{insertOf(reg, pos, testPosition{})})
	storage.InsertRow(Entity{Index: 2, Generation: 1}, []ComponentInsert{insertOf(reg, pos, testPosition{})})

	q := buildTestQuery(t, reg, groups, archetypes, Read(pos))
	if got := q.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}
