package ecs

// UpdateHook is invoked once per Tick, after every staged transform and
// event has been applied, with the World already unlocked for the next
// round of staging. It is the extension point for systems that want to
// run every tick without their own scheduler (e.g. a fixed-timestep
// simulation layer built on top of this package).
type UpdateHook func(w *World)

// TickOrchestrator drains every goroutine's staged mutations and events
// and applies them in one single-threaded pass. It is the only place
// ArchetypeStorage rows are created, migrated, or destroyed.
//
// Grounded on original_source's galaxy/src/galaxy.rs tick loop (drain
// staged transforms and events, apply, flush) — generalized from "stop at
// the first error, leave the rest queued" to "apply every transform, log
// and drop any that fail," since a TransformRecord referencing an entity
// destroyed earlier in the very same batch is an expected, not exceptional,
// outcome of staged concurrent mutation.
type TickOrchestrator struct {
	buffer   *ThreadLocalBuffer
	pipeline *TransformPipeline
	events   *EventStore
	logger   *zapLogger
	hook     UpdateHook
}

func newTickOrchestrator(buffer *ThreadLocalBuffer, pipeline *TransformPipeline, events *EventStore, logger *zapLogger) *TickOrchestrator {
	return &TickOrchestrator{buffer: buffer, pipeline: pipeline, events: events, logger: logger}
}

// Run drains the staged buffer, applies every transform, flushes the
// staged events into EventStore, and finally invokes the UpdateHook if one
// is set. It returns QueryHeldAcrossTickError if a QueryIterator or
// ComponentGuard was still holding a column lock when Run was called.
func (o *TickOrchestrator) Run(w *World) error {
	if w.archetypes.AnyLocksHeld() {
		return QueryHeldAcrossTickError{Group: NullGroup}
	}

	transforms, events := o.buffer.drain()

	applied, dropped := 0, 0
	for _, r := range transforms {
		if err := o.pipeline.Apply(*r); err != nil {
			dropped++
			if o.logger != nil {
				o.logger.dropTransform(*r, err.Error())
			}
			continue
		}
		applied++
	}

	if err := o.events.flush(events); err != nil {
		return err
	}

	if o.logger != nil {
		o.logger.tickComplete(applied, dropped)
	}

	if o.hook != nil {
		o.hook(w)
	}
	return nil
}
