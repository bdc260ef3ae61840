package ecs

import (
	"reflect"
	"unsafe"
)

// DupKind names how the engine is permitted to duplicate a component's
// bytes, per its descriptor's duplication policy.
type DupKind uint8

const (
	// DupNone means the engine must never duplicate this component's bytes
	// (e.g. it owns a resource that cannot have two live owners).
	DupNone DupKind = iota
	// DupCopy permits a bytewise (shadow-read) duplicate.
	DupCopy
	// DupClone requires CloneFn to produce a semantically independent copy.
	DupClone
)

// ComponentDescriptor is the immutable, once-registered shape of a
// component type: its size, name, destructor, and duplication policy.
type ComponentDescriptor struct {
	ID   ComponentTypeID
	Name string
	Type reflect.Type
	// Size is the element stride in bytes. Zero-size types still get one
	// byte of backing storage per ColumnVector's contract.
	Size uintptr
	// Drop is invoked once per ownership relinquishment (swap_remove,
	// clear, or a superseded Modify insert). It receives a pointer to the
	// element about to be discarded. RegisterComponent sets it only for
	// types implementing Dropper, and leaves it nil for every other type.
	Drop func(unsafe.Pointer)
	// Dup is this type's duplication policy.
	Dup DupKind
	// CloneFn performs a DupClone duplication from src into the
	// (zero-valued) memory at dst. Only used when Dup == DupClone.
	CloneFn func(src, dst unsafe.Pointer)
}

// Dropper lets a component type run custom logic (e.g. releasing an
// external handle) each time the engine relinquishes one of its values.
// The slot's bytes are not zeroed afterwards.
type Dropper interface {
	Drop()
}

// Cloner lets a component type opt into DupClone instead of the default
// DupCopy duplication policy, for types whose bytewise copy would alias
// mutable state (slices, maps) that must not be shared.
type Cloner[T any] interface {
	CloneInto(dst *T)
}

// TypeRegistry maps stable component type ids to their descriptors. It is
// append-only: once assigned, an id's descriptor never changes.
type TypeRegistry struct {
	guard      rwGuard
	byType     map[reflect.Type]ComponentTypeID
	descriptor []ComponentDescriptor
}

func newTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		byType: make(map[reflect.Type]ComponentTypeID),
	}
}

// RegisterComponent registers T if it has not been seen before and returns
// its ComponentTypeID. Calling it again for the same T is a no-op that
// returns the existing id. It may be called
// from any goroutine.
func RegisterComponent[T any](reg *TypeRegistry) ComponentTypeID {
	rt := reflect.TypeOf((*T)(nil)).Elem()

	reg.guard.RLock()
	if id, ok := reg.byType[rt]; ok {
		reg.guard.RUnlock()
		return id
	}
	reg.guard.RUnlock()

	reg.guard.Lock()
	defer reg.guard.Unlock()
	if id, ok := reg.byType[rt]; ok {
		return id
	}

	id := ComponentTypeID(len(reg.descriptor))
	desc := ComponentDescriptor{
		ID:   id,
		Name: rt.String(),
		Type: rt,
		Size: rt.Size(),
		Dup:  DupCopy,
	}

	var zero T
	if _, ok := any(zero).(Dropper); ok {
		desc.Drop = func(p unsafe.Pointer) {
			v := reflect.NewAt(rt, p).Interface().(*T)
			any(*v).(Dropper).Drop()
		}
	}
	if _, ok := any(zero).(Cloner[T]); ok {
		desc.Dup = DupClone
		desc.CloneFn = func(src, dst unsafe.Pointer) {
			s := reflect.NewAt(rt, src).Interface().(*T)
			d := reflect.NewAt(rt, dst).Interface().(*T)
			any(*s).(Cloner[T]).CloneInto(d)
		}
	}

	reg.byType[rt] = id
	reg.descriptor = append(reg.descriptor, desc)
	return id
}

// Lookup returns the descriptor for id, or UnknownTypeError.
func (reg *TypeRegistry) Lookup(id ComponentTypeID) (ComponentDescriptor, error) {
	reg.guard.RLock()
	defer reg.guard.RUnlock()
	if int(id) >= len(reg.descriptor) {
		return ComponentDescriptor{}, UnknownTypeError{ID: id}
	}
	return reg.descriptor[id], nil
}

// TypeIDOf returns the id for T if it was already registered.
func TypeIDOf[T any](reg *TypeRegistry) (ComponentTypeID, bool) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	reg.guard.RLock()
	defer reg.guard.RUnlock()
	id, ok := reg.byType[rt]
	return id, ok
}
