package ecs

// MustRegister registers T as a component type against w and returns its
// ComponentTypeID. Safe to call more than once for the same T — later
// calls are no-ops that return the original id.
func MustRegister[T any](w *World) ComponentTypeID {
	return RegisterComponent[T](w.types)
}

// MustRegisterEvent registers T as an event type against w and returns its
// ComponentTypeID, from the event namespace rather than the component one.
func MustRegisterEvent[T any](w *World) ComponentTypeID {
	return RegisterComponent[T](w.eventTypes)
}

// TypeOf returns T's ComponentTypeID if it has already been registered
// against w via MustRegister, without registering it.
func TypeOf[T any](w *World) (ComponentTypeID, bool) {
	return TypeIDOf[T](w.types)
}

// EventTypeOf returns T's event ComponentTypeID if it has already been
// registered against w via MustRegisterEvent, without registering it.
func EventTypeOf[T any](w *World) (ComponentTypeID, bool) {
	return TypeIDOf[T](w.eventTypes)
}
