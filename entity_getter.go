package ecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// EntityGetter is a chainable builder over one staged entity mutation: a
// Create (from World.InsertEntity) or a Modify (from World.ModifyEntity).
// Every call mutates the same TransformRecord already sitting in the
// calling goroutine's staged buffer, so nothing further needs to be done
// once the chain ends — the mutation takes effect at the next World.Tick.
//
// Generalized from an apply-immediately-unless-locked/else-queue dual path
// to always stage, never apply immediately: this module's staged-mutation
// model has no "unlocked, apply now" case to fall back to.
type EntityGetter struct {
	world  *World
	record *TransformRecord
}

// Entity returns the handle this builder is staging a mutation for. For a
// freshly created entity (from InsertEntity) this handle is already live in
// EntityRegistry even though its components are not yet visible to any
// query — visibility begins at the next Tick.
func (g *EntityGetter) Entity() Entity { return g.record.Entity }

// Insert stages value as component t's content for this entity. value's
// dynamic type must match t's registered type exactly; a mismatch is a
// programmer error and panics, in keeping with this module's other
// descriptor-contract violations. For a zero-size component type, value is
// not inspected and no type check is made.
func (g *EntityGetter) Insert(t ComponentTypeID, value any) *EntityGetter {
	g.record.Inserts = append(g.record.Inserts, g.world.copyInsert(t, value))
	return g
}

// Remove stages component t's removal from this entity. Only meaningful on
// a builder from ModifyEntity; a Remove staged alongside a Create is simply
// ignored at apply time, since a freshly created entity cannot yet carry
// the component being removed.
func (g *EntityGetter) Remove(t ComponentTypeID) *EntityGetter {
	g.record.Removes = append(g.record.Removes, t)
	return g
}

// copyInsert builds a ComponentInsert by heap-copying value into a buffer
// matching t's registered descriptor.
func (w *World) copyInsert(t ComponentTypeID, value any) ComponentInsert {
	desc, err := w.types.Lookup(t)
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return ComponentInsert{Type: t, Ptr: w.copyInsertFrom(desc, value)}
}

// copyInsertFrom heap-copies value into a buffer matching desc, panicking on
// a dynamic type mismatch. Shared by copyInsert (components) and
// World.InsertEvent (events), which look up their descriptor from different
// TypeRegistry namespaces.
func (w *World) copyInsertFrom(desc ComponentDescriptor, value any) unsafe.Pointer {
	ptr := reflect.New(desc.Type)
	if desc.Size > 0 {
		rv := reflect.ValueOf(value)
		if rv.Type() != desc.Type {
			panic(bark.AddTrace(fmt.Errorf(
				"ecs: value type %s does not match registered type %s for component %d",
				rv.Type(), desc.Type, desc.ID,
			)))
		}
		ptr.Elem().Set(rv)
	}
	return ptr.UnsafePointer()
}
