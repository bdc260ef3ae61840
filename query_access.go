package ecs

import (
	"fmt"
	"sort"
)

// QueryAccessEntry pairs a component type with the access mode a query
// wants against it.
type QueryAccessEntry struct {
	Type ComponentTypeID
	Mode AccessMode
}

// QueryFilterEntry pairs a component type with a presence/absence
// requirement that grants no column access on its own.
type QueryFilterEntry struct {
	Type ComponentTypeID
	Kind PredicateKind
}

// QueryTerm is one clause of a query, produced by the Read/Write/
// OptionalRead/OptionalWrite/With/Without constructors and passed to
// World.Query. Exactly one of its two fields is set.
//
// Grounded on original_source's archetype/access.rs filter(), whose six
// cases (&C, &mut C, Option<&C>, Option<&mut C>, With<C>, Without<C>) this
// type enumerates directly.
type QueryTerm struct {
	access *QueryAccessEntry
	filter *QueryFilterEntry
}

// Read requests shared access to t; the query excludes archetypes lacking it.
func Read(t ComponentTypeID) QueryTerm {
	return QueryTerm{access: &QueryAccessEntry{Type: t, Mode: AccessRead}}
}

// Write requests exclusive access to t; the query excludes archetypes
// lacking it.
func Write(t ComponentTypeID) QueryTerm {
	return QueryTerm{access: &QueryAccessEntry{Type: t, Mode: AccessWrite}}
}

// OptionalRead requests shared access to t when present, without excluding
// archetypes that lack it.
func OptionalRead(t ComponentTypeID) QueryTerm {
	return QueryTerm{access: &QueryAccessEntry{Type: t, Mode: AccessOptionalRead}}
}

// OptionalWrite requests exclusive access to t when present, without
// excluding archetypes that lack it.
func OptionalWrite(t ComponentTypeID) QueryTerm {
	return QueryTerm{access: &QueryAccessEntry{Type: t, Mode: AccessOptionalWrite}}
}

// With excludes archetypes that do not carry t, without granting access to it.
func With(t ComponentTypeID) QueryTerm {
	return QueryTerm{filter: &QueryFilterEntry{Type: t, Kind: FilterWith}}
}

// Without excludes archetypes that do carry t.
func Without(t ComponentTypeID) QueryTerm {
	return QueryTerm{filter: &QueryFilterEntry{Type: t, Kind: FilterWithout}}
}

// QuerySignature is the order-independent shape of a set of QueryTerms: the
// interning key QueryPlanner caches plans under.
type QuerySignature struct {
	Accesses []QueryAccessEntry
	Filters  []QueryFilterEntry
}

func newQuerySignature(terms []QueryTerm) QuerySignature {
	var sig QuerySignature
	for _, t := range terms {
		if t.access != nil {
			sig.Accesses = append(sig.Accesses, *t.access)
		}
		if t.filter != nil {
			sig.Filters = append(sig.Filters, *t.filter)
		}
	}
	sort.Slice(sig.Accesses, func(i, j int) bool { return sig.Accesses[i].Type < sig.Accesses[j].Type })
	sort.Slice(sig.Filters, func(i, j int) bool { return sig.Filters[i].Type < sig.Filters[j].Type })
	return sig
}

// key renders sig as a string suitable for map interning. Queries are built
// once per call site and re-planned only when the group count changes, so
// this need not be allocation-free the way groupKey is.
func (sig QuerySignature) key() string {
	return fmt.Sprintf("%v|%v", sig.Accesses, sig.Filters)
}
