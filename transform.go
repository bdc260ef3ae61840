package ecs

// TransformKind names the three shapes a staged entity mutation can take,
// mirroring original_source's component/transform.rs EntityModify enum.
type TransformKind uint8

const (
	TransformCreate TransformKind = iota
	TransformModify
	TransformDestroy
)

// TransformRecord is one staged mutation, built by EntityGetter and drained
// by TickOrchestrator. Inserts/Removes are only meaningful for
// TransformCreate/TransformModify.
type TransformRecord struct {
	Kind    TransformKind
	Entity  Entity
	Inserts []ComponentInsert
	Removes []ComponentTypeID
}

// EntityLocations tracks which archetype group currently holds each live
// entity, so single-entity reads and TransformPipeline migrations can find
// an entity's row without scanning every archetype.
type EntityLocations struct {
	guard rwGuard
	group map[Entity]ComponentGroupID
}

func newEntityLocations() *EntityLocations {
	return &EntityLocations{group: make(map[Entity]ComponentGroupID)}
}

func (l *EntityLocations) Get(e Entity) (ComponentGroupID, bool) {
	l.guard.RLock()
	defer l.guard.RUnlock()
	g, ok := l.group[e]
	return g, ok
}

func (l *EntityLocations) set(e Entity, g ComponentGroupID) {
	l.guard.Lock()
	defer l.guard.Unlock()
	l.group[e] = g
}

func (l *EntityLocations) clear(e Entity) {
	l.guard.Lock()
	defer l.guard.Unlock()
	delete(l.group, e)
}

// TransformPipeline applies staged TransformRecords against the archetype
// table, migrating rows between storages when a Modify adds or removes
// components, and keeping EntityLocations in sync.
//
// Grounded on original_source's component/transform.rs (the
// Create/Modify/Destroy EntityTransform shape) and on storage.rs's
// copy_entity (the "retain shared columns, fill the rest, drop the old
// row" migration this pipeline's Apply performs via ArchetypeStorage's
// CopyRowTo). Apply handles one record at a time, against the
// group/archetype model rather than a table.Table; TickOrchestrator feeds
// it records in enqueue order and logs and drops any that fail.
type TransformPipeline struct {
	types      *TypeRegistry
	groups     *GroupRegistry
	archetypes *ArchetypeTable
	entities   *EntityRegistry
	locations  *EntityLocations
	logger     *zapLogger
}

func newTransformPipeline(types *TypeRegistry, groups *GroupRegistry, archetypes *ArchetypeTable, entities *EntityRegistry, locations *EntityLocations, logger *zapLogger) *TransformPipeline {
	return &TransformPipeline{
		types:      types,
		groups:     groups,
		archetypes: archetypes,
		entities:   entities,
		locations:  locations,
		logger:     logger,
	}
}

// Apply performs one staged mutation. A Modify or Destroy naming an entity
// that a same-tick Destroy already removed is a detectable no-op: it is
// logged and does not return an error, matching the tick loop's "earlier
// wins" ordering (decided as an Open Question in the accompanying design
// notes).
func (p *TransformPipeline) Apply(r TransformRecord) error {
	switch r.Kind {
	case TransformCreate:
		return p.applyCreate(r)
	case TransformModify:
		return p.applyModify(r)
	case TransformDestroy:
		return p.applyDestroy(r)
	default:
		return nil
	}
}

func (p *TransformPipeline) applyCreate(r TransformRecord) error {
	types := make([]ComponentTypeID, len(r.Inserts))
	for i, ins := range r.Inserts {
		types[i] = ins.Type
	}
	groupID := p.groups.Intern(types)
	storage, err := p.archetypes.GetOrCreate(groupID)
	if err != nil {
		return err
	}
	if err := storage.InsertRow(r.Entity, r.Inserts); err != nil {
		return err
	}
	p.locations.set(r.Entity, groupID)
	return nil
}

func (p *TransformPipeline) applyDestroy(r TransformRecord) error {
	groupID, ok := p.locations.Get(r.Entity)
	if !ok {
		p.logDroppedTransform(r, "destroy of entity with no recorded location (already destroyed this tick)")
		return nil
	}
	storage, ok := p.archetypes.Get(groupID)
	if !ok {
		return UnknownGroupError{ID: groupID}
	}
	if err := storage.RemoveRow(r.Entity); err != nil {
		return err
	}
	p.locations.clear(r.Entity)
	return p.entities.Free(r.Entity)
}

func (p *TransformPipeline) applyModify(r TransformRecord) error {
	groupID, ok := p.locations.Get(r.Entity)
	if !ok {
		p.logDroppedTransform(r, "modify of entity destroyed earlier this tick")
		return nil
	}
	src, ok := p.archetypes.Get(groupID)
	if !ok {
		return UnknownGroupError{ID: groupID}
	}

	newTypes := nextSchema(src.Group.Types, r.Inserts, r.Removes)
	newGroupID := p.groups.Intern(newTypes)

	if newGroupID == groupID {
		return src.OverwriteRow(r.Entity, r.Inserts)
	}

	dst, err := p.archetypes.GetOrCreate(newGroupID)
	if err != nil {
		return err
	}
	if err := src.CopyRowTo(dst, r.Entity, r.Inserts); err != nil {
		return err
	}
	p.locations.set(r.Entity, newGroupID)
	return nil
}

func (p *TransformPipeline) logDroppedTransform(r TransformRecord, reason string) {
	if p.logger == nil {
		return
	}
	p.logger.dropTransform(r, reason)
}

// nextSchema computes the sorted type set current (minus removes, plus
// insert types) would produce, without mutating current.
func nextSchema(current []ComponentTypeID, inserts []ComponentInsert, removes []ComponentTypeID) []ComponentTypeID {
	removed := make(map[ComponentTypeID]bool, len(removes))
	for _, t := range removes {
		removed[t] = true
	}
	out := make([]ComponentTypeID, 0, len(current)+len(inserts))
	for _, t := range current {
		if !removed[t] {
			out = append(out, t)
		}
	}
	for _, ins := range inserts {
		out = append(out, ins.Type)
	}
	return sortedUnique(out)
}

// OverwriteRow replaces the value held at each named column for entity's
// existing row, dropping the value it supersedes first. Used when a Modify
// does not change the entity's archetype (every inserted type was already
// present).
func (a *ArchetypeStorage) OverwriteRow(entity Entity, inserts []ComponentInsert) error {
	row, ok := a.RowOf(entity)
	if !ok {
		return BadEntityError{Entity: entity}
	}
	for _, ins := range inserts {
		idx := a.columnIndex(ins.Type)
		if idx < 0 {
			return MissingComponentError{Entity: entity, Type: ins.Type}
		}
		c := a.columns[idx]
		c.drop(row)
		if c.desc.Size != 0 {
			copyBytes(c.Get(row), ins.Ptr, c.desc.Size)
		}
	}
	return nil
}
