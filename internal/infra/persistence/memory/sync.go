package memory

import "estatecore/pkg/domain"

// parentSet reads and writes the back-reference set a relation maintains on
// its parent record. Writes to a missing parent are dropped.
type parentSet struct {
	get func(state *memoryState, parentID string) ([]string, bool)
	set func(state *memoryState, parentID string, ids []string)
}

var parentSets = map[string]parentSet{
	"property_zone": {
		get: func(s *memoryState, id string) ([]string, bool) {
			z, ok := s.zones.get(id)
			return z.PropertyIDs, ok
		},
		set: func(s *memoryState, id string, ids []string) {
			if z, ok := s.zones.get(id); ok {
				z.PropertyIDs = ids
				s.zones.put(id, z)
			}
		},
	},
	"property_project": {
		get: func(s *memoryState, id string) ([]string, bool) {
			p, ok := s.projects.get(id)
			return p.PropertyIDs, ok
		},
		set: func(s *memoryState, id string, ids []string) {
			if p, ok := s.projects.get(id); ok {
				p.PropertyIDs = ids
				s.projects.put(id, p)
			}
		},
	},
	"project_zone": {
		get: func(s *memoryState, id string) ([]string, bool) {
			z, ok := s.zones.get(id)
			return z.ProjectIDs, ok
		},
		set: func(s *memoryState, id string, ids []string) {
			if z, ok := s.zones.get(id); ok {
				z.ProjectIDs = ids
				s.zones.put(id, z)
			}
		},
	},
	"project_developer": {
		get: func(s *memoryState, id string) ([]string, bool) {
			d, ok := s.developers.get(id)
			return d.ProjectIDs, ok
		},
		set: func(s *memoryState, id string, ids []string) {
			if d, ok := s.developers.get(id); ok {
				d.ProjectIDs = ids
				s.developers.put(id, d)
			}
		},
	},
}

func (p parentSet) link(state *memoryState, parentID, childID string) {
	ids, ok := p.get(state, parentID)
	if !ok || containsString(ids, childID) {
		return
	}
	p.set(state, parentID, append(cloneStrings(ids), childID))
}

func (p parentSet) unlink(state *memoryState, parentID, childID string) {
	ids, ok := p.get(state, parentID)
	if !ok || !containsString(ids, childID) {
		return
	}
	out := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != childID {
			out = append(out, id)
		}
	}
	p.set(state, parentID, out)
}

// syncChild moves childID between parent sets after a child was created
// (before == nil), updated, or deleted (after == nil). The old parent is
// unlinked before the new one is linked so a reassignment never leaves the
// id in both sets.
func syncChild(state *memoryState, kind domain.EntityType, childID string, before, after any) {
	for _, rel := range domain.RelationsFrom(kind) {
		binding, ok := parentSets[rel.Name]
		if !ok {
			continue
		}
		var oldKey, newKey string
		if before != nil {
			oldKey = rel.ForeignKey(before)
		}
		if after != nil {
			newKey = rel.ForeignKey(after)
		}
		if oldKey != "" && oldKey != newKey {
			binding.unlink(state, oldKey, childID)
		}
		if newKey != "" {
			binding.link(state, newKey, childID)
		}
	}
}

// childIDs lists, in insertion order, the children whose key for rel points at parentID.
func childIDs(state *memoryState, rel domain.Relation, parentID string) []string {
	out := []string{}
	if parentID == "" {
		return out
	}
	switch rel.Child {
	case domain.EntityProperty:
		for _, p := range state.properties.values() {
			if rel.ForeignKey(p) == parentID {
				out = append(out, p.ID)
			}
		}
	case domain.EntityProject:
		for _, p := range state.projects.values() {
			if rel.ForeignKey(p) == parentID {
				out = append(out, p.ID)
			}
		}
	}
	return out
}

// adoptChildren fills every back-reference set owned by a parent from the
// children already pointing at it. It runs on parent create and on import so
// children holding a dangling key re-attach once the parent exists.
func adoptChildren(state *memoryState, kind domain.EntityType, parentID string) map[string][]string {
	sets := make(map[string][]string)
	for _, rel := range domain.RelationsInto(kind) {
		sets[rel.ParentField] = childIDs(state, rel, parentID)
	}
	return sets
}

// deriveDeveloper recomputes a property's developer from its project; the
// caller's value is never kept. before is nil on create. A project that does
// not resolve counts as absent when it was just assigned, while a key left
// dangling by a project delete keeps the developer stored with it.
func deriveDeveloper(state *memoryState, before, p *Property) {
	if project, ok := state.projects.get(p.ProjectID); ok && p.ProjectID != "" {
		p.DeveloperID = project.DeveloperID
		return
	}
	if p.ProjectID == "" || before == nil || before.ProjectID != p.ProjectID {
		p.DeveloperID = ""
		return
	}
	p.DeveloperID = before.DeveloperID
}

// propagateDeveloper pushes a project's developer onto its properties and
// returns the updated properties as before/after pairs.
func propagateDeveloper(state *memoryState, project Project) [][2]Property {
	var changed [][2]Property
	for _, p := range state.properties.values() {
		if p.ProjectID != project.ID || p.DeveloperID == project.DeveloperID {
			continue
		}
		updated := cloneProperty(p)
		updated.DeveloperID = project.DeveloperID
		state.properties.put(p.ID, updated)
		changed = append(changed, [2]Property{cloneProperty(p), cloneProperty(updated)})
	}
	return changed
}

// reconcile rebuilds every back-reference set and derived developer from the
// foreign keys held by children.
func reconcile(state *memoryState) {
	for _, p := range state.properties.values() {
		stored := p
		deriveDeveloper(state, &stored, &p)
		state.properties.put(p.ID, p)
	}
	for _, z := range state.zones.values() {
		sets := adoptChildren(state, domain.EntityZone, z.ID)
		z.PropertyIDs = sets["property_ids"]
		z.ProjectIDs = sets["project_ids"]
		state.zones.put(z.ID, z)
	}
	for _, p := range state.projects.values() {
		p.PropertyIDs = adoptChildren(state, domain.EntityProject, p.ID)["property_ids"]
		state.projects.put(p.ID, p)
	}
	for _, d := range state.developers.values() {
		d.ProjectIDs = adoptChildren(state, domain.EntityDeveloper, d.ID)["project_ids"]
		state.developers.put(d.ID, d)
	}
}
