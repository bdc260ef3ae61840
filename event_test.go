package ecs

import (
	"testing"
	"unsafe"
)

type testDamageEvent struct{ Amount int }

func eventOf[T any](t ComponentTypeID, v T) EventRecord {
	return EventRecord{Type: t, Ptr: unsafe.Pointer(&v)}
}

func TestEventStoreLenAndAt(t *testing.T) {
	reg := newTypeRegistry()
	dmg := RegisterComponent[testDamageEvent](reg)
	store := newEventStore(reg, 2)

	if err := store.flush([]EventRecord{
		eventOf(dmg, testDamageEvent{Amount: 5}),
		eventOf(dmg, testDamageEvent{Amount: 9}),
	}); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if got := store.Len(dmg); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	first, ok := EventAt[testDamageEvent](store, dmg, 0)
	if !ok || first.Amount != 5 {
		t.Errorf("EventAt(0) = (%+v, %v), want ({5}, true)", first, ok)
	}
	second, ok := EventAt[testDamageEvent](store, dmg, 1)
	if !ok || second.Amount != 9 {
		t.Errorf("EventAt(1) = (%+v, %v), want ({9}, true)", second, ok)
	}
	if _, ok := EventAt[testDamageEvent](store, dmg, 2); ok {
		t.Error("EventAt(2) should report false: out of range")
	}
}

// TestEventStoreFlushClearsPriorTickEvents verifies that an event staged
// in one tick is visible only through the flush that follows it, never in
// a later one that did not re-stage it.
func TestEventStoreFlushClearsPriorTickEvents(t *testing.T) {
	reg := newTypeRegistry()
	dmg := RegisterComponent[testDamageEvent](reg)
	store := newEventStore(reg, 2)

	store.flush([]EventRecord{eventOf(dmg, testDamageEvent{Amount: 1})})
	if got := store.Len(dmg); got != 1 {
		t.Fatalf("Len() after first flush = %d, want 1", got)
	}

	store.flush(nil)
	if got := store.Len(dmg); got != 0 {
		t.Errorf("Len() after an empty flush = %d, want 0 (prior tick's events must not survive)", got)
	}
}

func TestEventStoreLenOfUnknownTypeIsZero(t *testing.T) {
	reg := newTypeRegistry()
	store := newEventStore(reg, 2)
	if got := store.Len(ComponentTypeID(99)); got != 0 {
		t.Errorf("Len() of a never-seen type = %d, want 0", got)
	}
}
