package ecs

import (
	"iter"
	"unsafe"
)

// QueryRow is one matched entity's row within its archetype, valid only
// for the duration of a single Iter step (the underlying columns may move
// on the next row's SwapRemove-driven mutation elsewhere — callers must not
// retain a QueryRow past the iteration that produced it).
type QueryRow struct {
	Entity  Entity
	storage *ArchetypeStorage
	row     int
}

// Ptr returns a pointer to t's value for this row, or nil if t is not
// present (the optional-access case).
func (r QueryRow) Ptr(t ComponentTypeID) unsafe.Pointer {
	idx := r.storage.columnIndex(t)
	if idx < 0 {
		return nil
	}
	return r.storage.columns[idx].Get(r.row)
}

// Has reports whether this row's archetype carries t.
func (r QueryRow) Has(t ComponentTypeID) bool {
	return r.storage.columnIndex(t) >= 0
}

// Column reads row's value for t as *T. It returns nil if t is absent,
// which only a query built with OptionalRead/OptionalWrite should ever see.
func Column[T any](row QueryRow, t ComponentTypeID) *T {
	p := row.Ptr(t)
	if p == nil {
		return nil
	}
	return (*T)(p)
}

// Iter walks every row matched by plan, against archetypes, as a single
// iter.Seq. Locks for every matched archetype's accessed columns are
// acquired, in ascending (group id, component type id) order, before the
// first row is yielded, and released in the reverse order once the
// sequence ends or the consumer stops early — so two queries over disjoint
// columns never contend, and every query that does overlap acquires in the
// same global order regardless of which term came first.
//
// Grounded on original_source's archetype/access.rs ArchetypeAccess (lock on
// entry, Drop releases in the manager's own bookkeeping order), expressed
// here as a Go 1.23 iter.Seq walk over matched archetypes.
func (plan *QueryPlan) Iter(archetypes *ArchetypeTable) iter.Seq[QueryRow] {
	return func(yield func(QueryRow) bool) {
		type active struct {
			storage *ArchetypeStorage
			locks   *SparseSet[LockMode]
		}
		actives := make([]active, 0, len(plan.matches))
		for _, m := range plan.matches {
			storage, ok := archetypes.Get(m.group)
			if !ok {
				continue
			}
			actives = append(actives, active{storage: storage, locks: m.locks})
		}

		type heldLock struct {
			storage *ArchetypeStorage
			typ     ComponentTypeID
			mode    LockMode
		}
		var held []heldLock
		for _, a := range actives {
			a.locks.Each(func(typ uint32, mode LockMode) {
				ct := ComponentTypeID(typ)
				a.storage.AcquireColumn(ct, mode)
				archetypes.noteAcquire()
				held = append(held, heldLock{storage: a.storage, typ: ct, mode: mode})
			})
		}
		defer func() {
			for i := len(held) - 1; i >= 0; i-- {
				h := held[i]
				h.storage.ReleaseColumn(h.typ, h.mode)
				archetypes.noteRelease()
			}
		}()

		for _, a := range actives {
			rows := a.storage.RowCount()
			for row := 0; row < rows; row++ {
				r := QueryRow{Entity: a.storage.EntityAt(row), storage: a.storage, row: row}
				if !yield(r) {
					return
				}
			}
		}
	}
}
