package ecs

// QueryPlan is a QuerySignature resolved against the groups known at the
// time it was built: the list of matching archetype groups, each paired
// with the per-column lock mode the query needs against it.
type QueryPlan struct {
	signature    QuerySignature
	groupCountAt int
	matches      []queryMatch
}

type queryMatch struct {
	group ComponentGroupID
	locks *SparseSet[LockMode]
}

// QueryPlanner caches one QueryPlan per distinct QuerySignature, rebuilding
// it only when new archetype groups have been interned since it was last
// built.
//
// Grounded on original_source's archetype/access.rs ArchetypeAccessKeyManager
// (register once, then re-run filter() against every group on update) —
// simplified here to a lazy rebuild-on-stale-count instead of an explicit
// update() hook, since GroupRegistry has no subscriber mechanism and none
// is needed: a QueryPlanner only has to notice growth before its next use.
// The cache itself is SimpleCache[T] (api.go/cache.go/factory.go), keyed
// here by QuerySignature.key().
type QueryPlanner struct {
	guard  rwGuard
	groups *GroupRegistry
	cache  *SimpleCache[QueryPlan]
}

func newQueryPlanner(groups *GroupRegistry) *QueryPlanner {
	return &QueryPlanner{groups: groups, cache: newSimpleCache[QueryPlan](0)}
}

// Plan returns the up-to-date QueryPlan for terms, building or rebuilding
// it in place as needed.
func (p *QueryPlanner) Plan(terms []QueryTerm) *QueryPlan {
	sig := newQuerySignature(terms)
	key := sig.key()
	current := p.groups.Count()

	p.guard.RLock()
	if idx, ok := p.cache.GetIndex(key); ok {
		if plan := p.cache.GetItem(idx); plan.groupCountAt == current {
			p.guard.RUnlock()
			return plan
		}
	}
	p.guard.RUnlock()

	p.guard.Lock()
	defer p.guard.Unlock()
	current = p.groups.Count()
	if idx, ok := p.cache.GetIndex(key); ok {
		plan := p.cache.GetItem(idx)
		if plan.groupCountAt != current {
			*plan = buildPlan(sig, p.groups)
		}
		return plan
	}

	built := buildPlan(sig, p.groups)
	idx, err := p.cache.Register(key, built)
	if err != nil {
		// Cache at capacity: hand back a one-off, unregistered plan rather
		// than fail the query.
		return &built
	}
	return p.cache.GetItem(idx)
}

func buildPlan(sig QuerySignature, groups *GroupRegistry) QueryPlan {
	all := groups.All()
	plan := QueryPlan{signature: sig, groupCountAt: len(all)}
	for id, group := range all {
		locks, ok := filterGroup(sig, group)
		if !ok {
			continue
		}
		plan.matches = append(plan.matches, queryMatch{group: ComponentGroupID(id), locks: locks})
	}
	return plan
}

// filterGroup implements access.rs's filter(): every FilterWith must be
// present, every FilterWithout must be absent, every non-optional access
// must be present (else the group does not match at all), and every
// present access (mandatory or optional) contributes its lock mode.
func filterGroup(sig QuerySignature, group ComponentGroup) (*SparseSet[LockMode], bool) {
	for _, f := range sig.Filters {
		switch f.Kind {
		case FilterWith:
			if !group.Has(f.Type) {
				return nil, false
			}
		case FilterWithout:
			if group.Has(f.Type) {
				return nil, false
			}
		}
	}

	locks := NewSparseSet[LockMode]()
	for _, a := range sig.Accesses {
		if !group.Has(a.Type) {
			if a.Mode.optional() {
				continue
			}
			return nil, false
		}
		locks.Insert(uint32(a.Type), a.Mode.lockMode())
	}
	return locks, true
}
