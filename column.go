package ecs

import (
	"reflect"
	"unsafe"
)

// ColumnVector is a type-erased, contiguous, growable column: one element
// per row, each element desc.Size bytes wide, destructed via desc.Drop.
//
// Grounded on delaneyj-arche's ecs.Storage (reflect.New(reflect.ArrayOf(...))
// backing, double-then-reflect.Copy growth, byte-slice swap-remove) and on
// original_source's data/dvec.rs (the push_copy/swap_remove/get/len
// contract this mirrors). Zero-size types get one byte of sentinel backing
// storage instead of a real buffer.
type ColumnVector struct {
	desc     ComponentDescriptor
	buffer   reflect.Value // addressable [cap]desc.Type array, absent for zero-size types
	base     unsafe.Pointer
	length   int
	capacity int
	growTo   int
	sentinel [1]byte
}

// NewColumnVector allocates a column for desc with room for initialCap
// elements (ignored for zero-size types).
func NewColumnVector(desc ComponentDescriptor, initialCap int) *ColumnVector {
	if initialCap < 1 {
		initialCap = 1
	}
	c := &ColumnVector{desc: desc, growTo: initialCap}
	if desc.Size == 0 {
		return c
	}
	c.buffer = reflect.New(reflect.ArrayOf(initialCap, desc.Type)).Elem()
	c.base = c.buffer.Addr().UnsafePointer()
	c.capacity = initialCap
	return c
}

// Len returns the number of live elements.
func (c *ColumnVector) Len() int { return c.length }

// Get returns a pointer to element i, valid until the column's next
// mutation. For zero-size component types every index returns the same
// one-byte sentinel pointer.
func (c *ColumnVector) Get(i int) unsafe.Pointer {
	if c.desc.Size == 0 {
		return unsafe.Pointer(&c.sentinel[0])
	}
	return unsafe.Add(c.base, uintptr(i)*c.desc.Size)
}

func (c *ColumnVector) extend() {
	if c.desc.Size == 0 {
		c.length++
		return
	}
	if c.length < c.capacity {
		c.length++
		return
	}
	newCap := c.capacity * 2
	if newCap == 0 {
		newCap = c.growTo
	}
	old := c.buffer
	c.buffer = reflect.New(reflect.ArrayOf(newCap, c.desc.Type)).Elem()
	c.base = c.buffer.Addr().UnsafePointer()
	reflect.Copy(c.buffer, old)
	c.capacity = newCap
	c.length++
}

// PushCopy appends one element, copying desc.Size bytes from src. Caller
// remains responsible for the semantics of that copy (move vs. duplicate);
// PushCopy itself is a raw bytewise append.
func (c *ColumnVector) PushCopy(src unsafe.Pointer) int {
	c.extend()
	idx := c.length - 1
	if c.desc.Size == 0 {
		return idx
	}
	dst := c.Get(idx)
	copyBytes(dst, src, c.desc.Size)
	return idx
}

// PushZero appends one zero-valued element without reading from any
// source, for when a column must grow before its value is known.
func (c *ColumnVector) PushZero() int {
	c.extend()
	idx := c.length - 1
	if c.desc.Size != 0 {
		dst := c.Get(idx)
		zeroBytes(dst, c.desc.Size)
	}
	return idx
}

// drop invokes desc.Drop (if any) on element i.
func (c *ColumnVector) drop(i int) {
	if c.desc.Drop != nil {
		c.desc.Drop(c.Get(i))
	}
}

// dropValue invokes desc.Drop (if any) on a value that was never pushed
// into the column, e.g. a ComponentInsert superseded before InsertRow ran.
func (c *ColumnVector) dropValue(ptr unsafe.Pointer) {
	if c.desc.Drop != nil {
		c.desc.Drop(ptr)
	}
}

// SwapRemove drops element i, then overwrites it with the last element's
// bytes and pops. O(1).
func (c *ColumnVector) SwapRemove(i int) {
	c.drop(i)
	c.takeSwapRemoveNoDrop(i)
}

// TakeSwapRemove is SwapRemove without invoking Drop: used when the
// element's ownership has already been transferred elsewhere (e.g. moved
// into a destination archetype's column during a Modify transform).
func (c *ColumnVector) TakeSwapRemove(i int) {
	c.takeSwapRemoveNoDrop(i)
}

func (c *ColumnVector) takeSwapRemoveNoDrop(i int) {
	last := c.length - 1
	if c.desc.Size != 0 && i != last {
		copyBytes(c.Get(i), c.Get(last), c.desc.Size)
	}
	c.length--
}

// Clear drops every element and truncates the column to empty.
func (c *ColumnVector) Clear() {
	for i := 0; i < c.length; i++ {
		c.drop(i)
	}
	c.length = 0
}

func copyBytes(dst, src unsafe.Pointer, n uintptr) {
	dstSlice := unsafe.Slice((*byte)(dst), n)
	srcSlice := unsafe.Slice((*byte)(src), n)
	copy(dstSlice, srcSlice)
}

func zeroBytes(dst unsafe.Pointer, n uintptr) {
	dstSlice := unsafe.Slice((*byte)(dst), n)
	clear(dstSlice)
}

// ColumnValue reads element i of c as a *T. The caller must know (from the
// owning ArchetypeStorage's schema) that c actually stores T.
func ColumnValue[T any](c *ColumnVector, i int) *T {
	return (*T)(c.Get(i))
}

// PushValue appends a copy of v to c via its address, for callers that
// already hold a typed T rather than a raw pointer.
func PushValue[T any](c *ColumnVector, v T) int {
	return c.PushCopy(unsafe.Pointer(&v))
}
