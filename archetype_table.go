package ecs

import "sync/atomic"

// ArchetypeTable is the world-level registry of per-group ArchetypeStorage
// instances, created lazily the first time a group is populated.
//
// Grounded on a get-or-create-on-demand archetype table shape, generalized
// from a mask-keyed map to a ComponentGroupID-keyed one.
type ArchetypeTable struct {
	guard      rwGuard
	types      *TypeRegistry
	groups     *GroupRegistry
	initialCap int
	storages   map[ComponentGroupID]*ArchetypeStorage
	heldLocks  atomic.Int64
}

func newArchetypeTable(types *TypeRegistry, groups *GroupRegistry, initialCap int) *ArchetypeTable {
	return &ArchetypeTable{
		types:      types,
		groups:     groups,
		initialCap: initialCap,
		storages:   make(map[ComponentGroupID]*ArchetypeStorage),
	}
}

// GetOrCreate returns the ArchetypeStorage for id, building it from the
// interned group's schema on first use.
func (t *ArchetypeTable) GetOrCreate(id ComponentGroupID) (*ArchetypeStorage, error) {
	t.guard.RLock()
	if s, ok := t.storages[id]; ok {
		t.guard.RUnlock()
		return s, nil
	}
	t.guard.RUnlock()

	t.guard.Lock()
	defer t.guard.Unlock()
	if s, ok := t.storages[id]; ok {
		return s, nil
	}
	group, err := t.groups.Get(id)
	if err != nil {
		return nil, err
	}
	s, err := NewArchetypeStorage(group, t.types, t.initialCap)
	if err != nil {
		return nil, err
	}
	t.storages[id] = s
	return s, nil
}

// Get returns the existing ArchetypeStorage for id, if any has been
// created yet.
func (t *ArchetypeTable) Get(id ComponentGroupID) (*ArchetypeStorage, bool) {
	t.guard.RLock()
	defer t.guard.RUnlock()
	s, ok := t.storages[id]
	return s, ok
}

// noteAcquire and noteRelease track how many column locks are currently
// held across every ArchetypeStorage this table owns, so TickOrchestrator
// can detect a QueryIterator or ComponentGuard still live across a Tick
// call (QueryHeldAcrossTickError).
func (t *ArchetypeTable) noteAcquire() { t.heldLocks.Add(1) }
func (t *ArchetypeTable) noteRelease() { t.heldLocks.Add(-1) }

// AnyLocksHeld reports whether any QueryIterator or ComponentGuard
// currently holds a column lock against this table.
func (t *ArchetypeTable) AnyLocksHeld() bool { return t.heldLocks.Load() != 0 }
