package ecs

import "unsafe"

// EventRecord is one staged event instance, enqueued by World.InsertEvent
// and drained by TickOrchestrator.
type EventRecord struct {
	Type ComponentTypeID
	Ptr  unsafe.Pointer
}

// EventStore holds, per registered event type, exactly the events staged
// during the most recently completed Tick. A type's column is cleared
// before that tick's events are pushed, so an event is visible for exactly
// one Tick after it was inserted, never longer.
//
// Grounded on original_source's event.rs EventManager.flush (clear every
// storage, then push every staged insert) — EventStore reuses ColumnVector
// for each event type's backing storage rather than EventStorage's own
// DVec, since the two have an identical push/get/clear contract.
type EventStore struct {
	guard      rwGuard
	types      *TypeRegistry
	initialCap int
	columns    map[ComponentTypeID]*ColumnVector
}

func newEventStore(types *TypeRegistry, initialCap int) *EventStore {
	return &EventStore{
		types:      types,
		initialCap: initialCap,
		columns:    make(map[ComponentTypeID]*ColumnVector),
	}
}

func (s *EventStore) column(t ComponentTypeID) (*ColumnVector, error) {
	s.guard.RLock()
	c, ok := s.columns[t]
	s.guard.RUnlock()
	if ok {
		return c, nil
	}

	s.guard.Lock()
	defer s.guard.Unlock()
	if c, ok := s.columns[t]; ok {
		return c, nil
	}
	desc, err := s.types.Lookup(t)
	if err != nil {
		return nil, err
	}
	c = NewColumnVector(desc, s.initialCap)
	s.columns[t] = c
	return c, nil
}

// flush clears every event type's column, then pushes every record in
// records, in order, onto its type's column.
func (s *EventStore) flush(records []EventRecord) error {
	s.guard.RLock()
	cols := make([]*ColumnVector, 0, len(s.columns))
	for _, c := range s.columns {
		cols = append(cols, c)
	}
	s.guard.RUnlock()
	for _, c := range cols {
		c.Clear()
	}

	for _, r := range records {
		c, err := s.column(r.Type)
		if err != nil {
			return err
		}
		c.PushCopy(r.Ptr)
	}
	return nil
}

// Len returns how many events of type t are visible this tick.
func (s *EventStore) Len(t ComponentTypeID) int {
	s.guard.RLock()
	defer s.guard.RUnlock()
	c, ok := s.columns[t]
	if !ok {
		return 0
	}
	return c.Len()
}

// At returns a pointer to the i'th event of type t visible this tick.
func (s *EventStore) At(t ComponentTypeID, i int) (unsafe.Pointer, bool) {
	s.guard.RLock()
	defer s.guard.RUnlock()
	c, ok := s.columns[t]
	if !ok || i < 0 || i >= c.Len() {
		return nil, false
	}
	return c.Get(i), true
}

// EventAt reads the i'th event of type t visible this tick as a T.
func EventAt[T any](store *EventStore, t ComponentTypeID, i int) (T, bool) {
	p, ok := store.At(t, i)
	if !ok {
		var zero T
		return zero, false
	}
	return *(*T)(p), true
}
