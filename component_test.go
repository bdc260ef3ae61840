package ecs

import "testing"

func TestMustRegisterIsIdempotent(t *testing.T) {
	w := NewWorld()
	a := MustRegister[testPosition](w)
	b := MustRegister[testPosition](w)
	if a != b {
		t.Errorf("MustRegister called twice for the same type returned %d and %d", a, b)
	}
}

func TestTypeOfFindsAnAlreadyRegisteredType(t *testing.T) {
	w := NewWorld()
	id := MustRegister[testPosition](w)

	got, ok := TypeOf[testPosition](w)
	if !ok || got != id {
		t.Errorf("TypeOf() = (%d, %v), want (%d, true)", got, ok, id)
	}
}

func TestTypeOfReportsFalseForAnUnregisteredType(t *testing.T) {
	w := NewWorld()
	if _, ok := TypeOf[testVelocity](w); ok {
		t.Error("TypeOf() on a type that was never registered should report false")
	}
}

func TestEventTypeOfFindsAnAlreadyRegisteredEventType(t *testing.T) {
	w := NewWorld()
	id := MustRegisterEvent[testDamageEvent](w)

	got, ok := EventTypeOf[testDamageEvent](w)
	if !ok || got != id {
		t.Errorf("EventTypeOf() = (%d, %v), want (%d, true)", got, ok, id)
	}
}

func TestTypeOfAndEventTypeOfUseSeparateNamespaces(t *testing.T) {
	w := NewWorld()
	MustRegisterEvent[testPosition](w)

	if _, ok := TypeOf[testPosition](w); ok {
		t.Error("registering testPosition as an event type should not make it a known component type")
	}
}
