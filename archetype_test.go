package ecs

import (
	"testing"
	"unsafe"
)

type testPosition struct{ X, Y float64 }
type testVelocity struct{ X, Y float64 }
type testName struct{ Value string }

// testDroppable counts Drop calls through a shared pointer, so a test can
// verify a value was released rather than silently abandoned.
type testDroppable struct{ closed *int }

func (d testDroppable) Drop() { *d.closed++ }

func insertOf[T any](reg *TypeRegistry, t ComponentTypeID, v T) ComponentInsert {
	return ComponentInsert{Type: t, Ptr: unsafe.Pointer(&v)}
}

func TestArchetypeStorageInsertRowRequiresEveryColumn(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	vel := RegisterComponent[testVelocity](reg)
	group := ComponentGroup{Types: sortedUnique([]ComponentTypeID{pos, vel})}
	storage, err := NewArchetypeStorage(group, reg, 4)
	if err != nil {
		t.Fatalf("NewArchetypeStorage: %v", err)
	}

	e := Entity{Index: 1, Generation: 1}
	err = storage.InsertRow(e, []ComponentInsert{insertOf(reg, pos, testPosition{X: 1, Y: 2})})
	if _, ok := err.(SchemaMismatchError); !ok {
		t.Fatalf("InsertRow with a missing column returned %v, want SchemaMismatchError", err)
	}
}

func TestArchetypeStorageInsertAndReadBack(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	vel := RegisterComponent[testVelocity](reg)
	group := ComponentGroup{Types: sortedUnique([]ComponentTypeID{pos, vel})}
	storage, err := NewArchetypeStorage(group, reg, 4)
	if err != nil {
		t.Fatalf("NewArchetypeStorage: %v", err)
	}

	e := Entity{Index: 1, Generation: 1}
	err = storage.InsertRow(e, []ComponentInsert{
		insertOf(reg, pos, testPosition{X: 1, Y: 2}),
		insertOf(reg, vel, testVelocity{X: 3, Y: 4}),
	})
	if err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	if err := storage.InsertRow(e, nil); err == nil {
		t.Error("inserting the same entity twice should fail")
	}

	row, ok := storage.RowOf(e)
	if !ok {
		t.Fatal("RowOf: entity not found after insert")
	}
	posCol, _ := storage.AcquireColumn(pos, LockShared)
	got := *ColumnValue[testPosition](posCol, row)
	storage.ReleaseColumn(pos, LockShared)
	if got != (testPosition{X: 1, Y: 2}) {
		t.Errorf("read back position %+v, want {1 2}", got)
	}
}

func TestArchetypeStorageRemoveRowSwapsLastEntity(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	group := ComponentGroup{Types: []ComponentTypeID{pos}}
	storage, _ := NewArchetypeStorage(group, reg, 4)

	e1 := Entity{Index: 1, Generation: 1}
	e2 := Entity{Index: 2, Generation: 1}
	e3 := Entity{Index: 3, Generation: 1}
	for _, e := range []Entity{e1, e2, e3} {
		storage.InsertRow(e, []ComponentInsert{insertOf(reg, pos, testPosition{})})
	}

	if err := storage.RemoveRow(e1); err != nil {
		t.Fatalf("RemoveRow: %v", err)
	}
	if storage.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", storage.RowCount())
	}
	if _, ok := storage.RowOf(e1); ok {
		t.Error("removed entity still has a row")
	}
	if _, ok := storage.RowOf(e3); !ok {
		t.Error("e3 (swapped into e1's slot) should still be findable")
	}
}

// TestArchetypeStorageCopyRowToMigratesData verifies that migrating an
// entity to a larger archetype preserves every retained component's bytes
// exactly and fills the new column from extras.
func TestArchetypeStorageCopyRowToMigratesData(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	name := RegisterComponent[testName](reg)

	src, _ := NewArchetypeStorage(ComponentGroup{Types: []ComponentTypeID{pos}}, reg, 4)
	dst, _ := NewArchetypeStorage(ComponentGroup{Types: sortedUnique([]ComponentTypeID{pos, name})}, reg, 4)

	e := Entity{Index: 1, Generation: 1}
	want := testPosition{X: 42, Y: 7}
	if err := src.InsertRow(e, []ComponentInsert{insertOf(reg, pos, want)}); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	nameVal := testName{Value: "x"}
	if err := src.CopyRowTo(dst, e, []ComponentInsert{insertOf(reg, name, nameVal)}); err != nil {
		t.Fatalf("CopyRowTo: %v", err)
	}

	if _, ok := src.RowOf(e); ok {
		t.Error("entity should no longer have a row in the source storage")
	}
	row, ok := dst.RowOf(e)
	if !ok {
		t.Fatal("entity should have a row in the destination storage")
	}

	posCol, _ := dst.AcquireColumn(pos, LockShared)
	gotPos := *ColumnValue[testPosition](posCol, row)
	dst.ReleaseColumn(pos, LockShared)
	if gotPos != want {
		t.Errorf("migrated position = %+v, want %+v", gotPos, want)
	}

	nameCol, _ := dst.AcquireColumn(name, LockShared)
	gotName := *ColumnValue[testName](nameCol, row)
	dst.ReleaseColumn(name, LockShared)
	if gotName != nameVal {
		t.Errorf("migrated name = %+v, want %+v", gotName, nameVal)
	}
}

func TestArchetypeStorageCopyRowToFailsOnUncoveredColumn(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	vel := RegisterComponent[testVelocity](reg)

	src, _ := NewArchetypeStorage(ComponentGroup{Types: []ComponentTypeID{pos}}, reg, 4)
	dst, _ := NewArchetypeStorage(ComponentGroup{Types: sortedUnique([]ComponentTypeID{pos, vel})}, reg, 4)

	e := Entity{Index: 1, Generation: 1}
	src.InsertRow(e, []ComponentInsert{insertOf(reg, pos, testPosition{})})

	err := src.CopyRowTo(dst, e, nil)
	if _, ok := err.(SchemaMismatchError); !ok {
		t.Fatalf("CopyRowTo without filling vel returned %v, want SchemaMismatchError", err)
	}
}

// TestArchetypeStorageInsertRowDropsSupersededDuplicateInsert verifies that
// when inserts names the same component type twice, InsertRow drops the
// earlier value instead of silently abandoning it.
func TestArchetypeStorageInsertRowDropsSupersededDuplicateInsert(t *testing.T) {
	reg := newTypeRegistry()
	res := RegisterComponent[testDroppable](reg)
	group := ComponentGroup{Types: []ComponentTypeID{res}}
	storage, _ := NewArchetypeStorage(group, reg, 4)

	var closed int
	first := testDroppable{closed: &closed}
	second := testDroppable{closed: &closed}

	e := Entity{Index: 1, Generation: 1}
	err := storage.InsertRow(e, []ComponentInsert{
		insertOf(reg, res, first),
		insertOf(reg, res, second),
	})
	if err != nil {
		t.Fatalf("InsertRow: %v", err)
	}

	if closed != 1 {
		t.Errorf("closed = %d, want 1 (the superseded first insert should have been dropped)", closed)
	}

	row, _ := storage.RowOf(e)
	col, _ := storage.AcquireColumn(res, LockShared)
	got := *ColumnValue[testDroppable](col, row)
	storage.ReleaseColumn(res, LockShared)
	if got != second {
		t.Errorf("stored value = %+v, want the later insert %+v", got, second)
	}
}

func TestArchetypeStorageOverwriteRowReplacesValue(t *testing.T) {
	reg := newTypeRegistry()
	pos := RegisterComponent[testPosition](reg)
	group := ComponentGroup{Types: []ComponentTypeID{pos}}
	storage, _ := NewArchetypeStorage(group, reg, 4)

	e := Entity{Index: 1, Generation: 1}
	storage.InsertRow(e, []ComponentInsert{insertOf(reg, pos, testPosition{X: 1, Y: 1})})

	if err := storage.OverwriteRow(e, []ComponentInsert{insertOf(reg, pos, testPosition{X: 9, Y: 9})}); err != nil {
		t.Fatalf("OverwriteRow: %v", err)
	}

	row, _ := storage.RowOf(e)
	posCol, _ := storage.AcquireColumn(pos, LockShared)
	got := *ColumnValue[testPosition](posCol, row)
	storage.ReleaseColumn(pos, LockShared)
	if got != (testPosition{X: 9, Y: 9}) {
		t.Errorf("OverwriteRow result = %+v, want {9 9}", got)
	}
}
