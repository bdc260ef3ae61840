package ecs

import "go.uber.org/zap"

// World is the entry point for every operation this package exposes: it
// owns the type/group registries, the archetype table, entity allocation,
// the per-goroutine staging buffer, and the tick orchestrator that applies
// staged work. A World is safe for concurrent use by multiple goroutines,
// except that no goroutine may call Tick while another holds an open Query.
type World struct {
	config Config

	types      *TypeRegistry
	eventTypes *TypeRegistry
	groups     *GroupRegistry
	archetypes *ArchetypeTable
	entities   *EntityRegistry
	locations  *EntityLocations

	threadLocal  *ThreadLocalBuffer
	events       *EventStore
	planner      *QueryPlanner
	pipeline     *TransformPipeline
	orchestrator *TickOrchestrator

	logger *zapLogger
}

// NewWorld builds a World with defaultConfig, overridden by opts.
func NewWorld(opts ...Option) *World {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.applyDefaults()

	types := newTypeRegistry()
	eventTypes := newTypeRegistry()
	groups := newGroupRegistry()
	archetypes := newArchetypeTable(types, groups, cfg.InitialColumnCapacity)
	entities := newEntityRegistry(cfg.EntityGrowthChunk)
	locations := newEntityLocations()
	threadLocal := newThreadLocalBuffer()
	events := newEventStore(eventTypes, cfg.EventCapacity)
	planner := newQueryPlanner(groups)
	logger := newZapLogger(cfg.Logger)
	pipeline := newTransformPipeline(types, groups, archetypes, entities, locations, logger)
	orchestrator := newTickOrchestrator(threadLocal, pipeline, events, logger)

	return &World{
		config:       cfg,
		types:        types,
		eventTypes:   eventTypes,
		groups:       groups,
		archetypes:   archetypes,
		entities:     entities,
		locations:    locations,
		threadLocal:  threadLocal,
		events:       events,
		planner:      planner,
		pipeline:     pipeline,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// WithUpdateHook installs hook to run once per Tick, after every staged
// transform and event has been applied.
func (w *World) WithUpdateHook(hook UpdateHook) *World {
	w.orchestrator.hook = hook
	return w
}

// Alive reports whether e names a currently live entity.
func (w *World) Alive(e Entity) bool {
	return w.entities.Alive(e)
}

// InsertEntity stages the creation of a new entity and returns a builder for
// attaching its initial components. The entity's handle is already valid
// (World.Alive reports true for it) even though no query sees it until the
// next Tick.
func (w *World) InsertEntity() *EntityGetter {
	e := w.entities.Allocate()
	record := &TransformRecord{Kind: TransformCreate, Entity: e}
	w.threadLocal.enqueueTransform(record)
	return &EntityGetter{world: w, record: record}
}

// ModifyEntity stages a component insert/remove batch against an already
// live entity, returning a builder to describe it. e must be live at the
// time ModifyEntity is called; Insert/Remove calls on the returned builder do
// not themselves check liveness, since the Tick that applies them is what
// resolves any race against a concurrent Destroy.
func (w *World) ModifyEntity(e Entity) (*EntityGetter, error) {
	if !w.entities.Alive(e) {
		return nil, BadEntityError{Entity: e}
	}
	record := &TransformRecord{Kind: TransformModify, Entity: e}
	w.threadLocal.enqueueTransform(record)
	return &EntityGetter{world: w, record: record}, nil
}

// DestroyEntity stages e's removal. e's index is not available for reuse
// by EntityRegistry until the staged Destroy is applied at the next Tick.
func (w *World) DestroyEntity(e Entity) error {
	if !w.entities.Alive(e) {
		return BadEntityError{Entity: e}
	}
	w.threadLocal.enqueueTransform(&TransformRecord{Kind: TransformDestroy, Entity: e})
	return nil
}

// InsertEvent stages one event instance of type t, visible to EventAt/Len
// readers starting with the next Tick and cleared at the Tick after that.
func (w *World) InsertEvent(t ComponentTypeID, value any) error {
	desc, err := w.eventTypes.Lookup(t)
	if err != nil {
		return err
	}
	ins := w.copyInsertFrom(desc, value)
	w.threadLocal.enqueueEvent(EventRecord{Type: t, Ptr: ins})
	return nil
}

// Events returns the EventStore holding every event type's current-tick
// contents, for use with EventAt/EventStore.Len.
func (w *World) Events() *EventStore {
	return w.events
}

// Query compiles terms into a QueryPlan (reusing a cached one when its
// signature has already been seen and no new archetype group has appeared
// since) and binds it to this World's archetype table.
func (w *World) Query(terms ...QueryTerm) Query {
	plan := w.planner.Plan(terms)
	return Query{plan: plan, archetypes: w.archetypes}
}

// Tick applies every goroutine's staged transforms and events in one
// single-threaded pass. It returns QueryHeldAcrossTickError if a Query's
// iterator or a ComponentGuard was still holding column locks when Tick
// was called.
func (w *World) Tick() error {
	return w.orchestrator.Run(w)
}

// Logger returns the *zap.Logger backing this World's diagnostics, for
// callers that want to emit their own structured log lines alongside it.
func (w *World) Logger() *zap.Logger {
	if w.logger == nil {
		return zap.NewNop()
	}
	return w.logger.z
}
