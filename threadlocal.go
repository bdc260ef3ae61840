package ecs

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// goroutineID extracts the calling goroutine's numeric id by parsing the
// first line of its own stack trace ("goroutine 123 [running]:"). This is
// the standard escape hatch for goroutine-local state in Go, which exposes
// no public identity for the scheduler's own goroutine handle.
//
// Grounded on original_source's data/lock/central.rs CentralLock, whose
// staged-mutation buffers are keyed by std::thread::current().id() — the
// closest Go has to that is this stack-trace parse, not a third-party
// goroutine-id package (none appears anywhere in the retrieved examples;
// see the accompanying design notes).
func goroutineID() uint64 {
	buf := make([]byte, 64)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, len(buf)*2)
	}
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// goroutineBuffer is one goroutine's staged mutations and events, accumulated
// between Tick calls.
type goroutineBuffer struct {
	transforms []*TransformRecord
	events     []EventRecord
}

// ThreadLocalBuffer is the per-goroutine staging area the deferred mutation
// model relies on: every EntityGetter chain and InsertEvent call appends
// here, and TickOrchestrator is the sole reader, draining every goroutine's
// buffer in one single-threaded pass.
type ThreadLocalBuffer struct {
	mu       sync.Mutex
	byThread map[uint64]*goroutineBuffer
}

func newThreadLocalBuffer() *ThreadLocalBuffer {
	return &ThreadLocalBuffer{byThread: make(map[uint64]*goroutineBuffer)}
}

func (t *ThreadLocalBuffer) local() *goroutineBuffer {
	id := goroutineID()
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.byThread[id]
	if !ok {
		b = &goroutineBuffer{}
		t.byThread[id] = b
	}
	return b
}

func (t *ThreadLocalBuffer) enqueueTransform(r *TransformRecord) {
	t.local().transforms = append(t.local().transforms, r)
}

func (t *ThreadLocalBuffer) enqueueEvent(e EventRecord) {
	t.local().events = append(t.local().events, e)
}

// drain removes and returns every staged transform and event across every
// goroutine that has touched this buffer, in per-goroutine enqueue order.
// Only TickOrchestrator calls this, and only while holding the world's
// exclusive tick discipline.
func (t *ThreadLocalBuffer) drain() ([]*TransformRecord, []EventRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var transforms []*TransformRecord
	var events []EventRecord
	for _, b := range t.byThread {
		transforms = append(transforms, b.transforms...)
		events = append(events, b.events...)
	}
	t.byThread = make(map[uint64]*goroutineBuffer)
	return transforms, events
}
