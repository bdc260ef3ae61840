package ecs

import "unsafe"

// ComponentInsert is one (type, value-pointer) pair destined for a row
// insert. Ptr must point to exactly the registered descriptor's Size bytes
// for Type, owned by the caller until PushCopy/CopyRowTo consumes it.
type ComponentInsert struct {
	Type ComponentTypeID
	Ptr  unsafe.Pointer
}

// ArchetypeStorage is the columnar storage for one archetype: one
// ColumnVector (plus ColumnLock) per component type in the group's sorted
// order, and a parallel entity row vector.
//
// Grounded on original_source's archetype/storage.rs (ArchetypeStorage /
// ArchetypeStorageInsert, including the "insert isn't committed until every
// column is filled" builder that backs SchemaMismatchError here). Column
// lookup by type id is a deliberate linear scan over the small sorted group,
// not a map — matching storage.rs's own linear get_entity_column scan.
type ArchetypeStorage struct {
	Group    ComponentGroup
	columns  []*ColumnVector
	locks    []*ColumnLock
	entities []Entity
}

// NewArchetypeStorage builds one column per type id in group.Types order.
func NewArchetypeStorage(group ComponentGroup, reg *TypeRegistry, initialCap int) (*ArchetypeStorage, error) {
	columns := make([]*ColumnVector, len(group.Types))
	locks := make([]*ColumnLock, len(group.Types))
	for i, t := range group.Types {
		desc, err := reg.Lookup(t)
		if err != nil {
			return nil, err
		}
		columns[i] = NewColumnVector(desc, initialCap)
		locks[i] = &ColumnLock{}
	}
	return &ArchetypeStorage{Group: group, columns: columns, locks: locks}, nil
}

// RowCount returns the number of entities currently stored.
func (a *ArchetypeStorage) RowCount() int { return len(a.entities) }

// RowOf returns entity's row index, if present. Linear scan: rows are
// rarely addressed individually outside of iteration.
func (a *ArchetypeStorage) RowOf(entity Entity) (int, bool) {
	for i, e := range a.entities {
		if e == entity {
			return i, true
		}
	}
	return -1, false
}

func (a *ArchetypeStorage) columnIndex(t ComponentTypeID) int {
	for i, ct := range a.Group.Types {
		if ct == t {
			return i
		}
	}
	return -1
}

// InsertRow appends entity as a new row, filling every column from
// inserts. It fails with DuplicateEntityError if entity already has a row,
// or SchemaMismatchError if inserts does not cover every column. If inserts
// names the same type more than once, the earlier value is dropped before
// the later one supersedes it.
func (a *ArchetypeStorage) InsertRow(entity Entity, inserts []ComponentInsert) error {
	if _, ok := a.RowOf(entity); ok {
		return DuplicateEntityError{Entity: entity}
	}

	byType := make(map[ComponentTypeID]unsafe.Pointer, len(inserts))
	for _, ins := range inserts {
		if prev, ok := byType[ins.Type]; ok {
			if idx := a.columnIndex(ins.Type); idx >= 0 {
				a.columns[idx].dropValue(prev)
			}
		}
		byType[ins.Type] = ins.Ptr
	}

	var missing []ComponentTypeID
	for _, t := range a.Group.Types {
		if _, ok := byType[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return SchemaMismatchError{Entity: entity, Missing: missing}
	}

	a.entities = append(a.entities, entity)
	for i, t := range a.Group.Types {
		a.columns[i].PushCopy(byType[t])
	}
	return nil
}

// RemoveRow locates entity, drops every column's value for its row, and
// pops it from the entity vector.
func (a *ArchetypeStorage) RemoveRow(entity Entity) error {
	row, ok := a.RowOf(entity)
	if !ok {
		return BadEntityError{Entity: entity}
	}
	for _, c := range a.columns {
		c.SwapRemove(row)
	}
	swapRemoveEntity(&a.entities, row)
	return nil
}

// CopyRowTo moves entity's retained columns (those dst also has) into dst
// without dropping them, fills dst's remaining columns from extras, and
// removes entity's row from a. An extra naming a column that is already
// filled (a retained column, or an earlier extra of the same type) is
// ignored. It fails if entity is missing from a, or if
// the union of a's retained columns and extras does not cover every column
// of dst.
func (a *ArchetypeStorage) CopyRowTo(dst *ArchetypeStorage, entity Entity, extras []ComponentInsert) error {
	row, ok := a.RowOf(entity)
	if !ok {
		return BadEntityError{Entity: entity}
	}

	filled := make(map[ComponentTypeID]bool, len(dst.Group.Types))
	for i, t := range a.Group.Types {
		if dst.columnIndex(t) < 0 {
			continue // dropped by this transform, not carried to dst
		}
		dst.pushColumnValue(t, a.columns[i].Get(row))
		filled[t] = true
	}
	for _, ins := range extras {
		if dst.columnIndex(ins.Type) < 0 || filled[ins.Type] {
			continue
		}
		dst.pushColumnValue(ins.Type, ins.Ptr)
		filled[ins.Type] = true
	}

	var missing []ComponentTypeID
	for _, t := range dst.Group.Types {
		if !filled[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return SchemaMismatchError{Entity: entity, Missing: missing}
	}

	dst.entities = append(dst.entities, entity)
	for _, c := range a.columns {
		c.TakeSwapRemove(row)
	}
	swapRemoveEntity(&a.entities, row)
	return nil
}

func (a *ArchetypeStorage) pushColumnValue(t ComponentTypeID, src unsafe.Pointer) {
	idx := a.columnIndex(t)
	a.columns[idx].PushCopy(src)
}

func swapRemoveEntity(entities *[]Entity, row int) {
	last := len(*entities) - 1
	(*entities)[row] = (*entities)[last]
	*entities = (*entities)[:last]
}

// AcquireColumn acquires mode on t's ColumnLock and returns its
// ColumnVector. The caller must later call ReleaseColumn with the same
// mode; mismatched acquire/release pairs corrupt the lock.
func (a *ArchetypeStorage) AcquireColumn(t ComponentTypeID, mode LockMode) (*ColumnVector, bool) {
	idx := a.columnIndex(t)
	if idx < 0 {
		return nil, false
	}
	a.locks[idx].Acquire(mode)
	return a.columns[idx], true
}

// ReleaseColumn releases mode on t's ColumnLock.
func (a *ArchetypeStorage) ReleaseColumn(t ComponentTypeID, mode LockMode) {
	idx := a.columnIndex(t)
	if idx < 0 {
		return
	}
	a.locks[idx].Release(mode)
}

// EntityAt returns the entity stored at row i.
func (a *ArchetypeStorage) EntityAt(i int) Entity { return a.entities[i] }
