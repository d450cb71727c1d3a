package memory

import (
	"time"

	"estatecore/pkg/domain"
)

// transaction represents a mutation set applied to a cloned store state.
type transaction struct {
	stateReader
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return stateReader{state: &tx.state}
}

type record[E any] interface {
	*E
	Meta() *domain.Base
}

// entityOps binds one collection to the generic CRUD helpers.
type entityOps[E any] struct {
	kind  domain.EntityType
	table func(*memoryState) *table[E]
	clone func(E) E
	view  func(E) E
	// prepare normalises a record before it is written; before is nil on create.
	prepare func(state *memoryState, before, rec *E)
	// settle runs after the write; after is nil on delete.
	settle func(tx *transaction, before, after *E)
}

func deref[E any](p *E) any {
	if p == nil {
		return nil
	}
	return *p
}

func createEntity[E any, P record[E]](tx *transaction, ops entityOps[E], rec E) (E, error) {
	var zero E
	meta := P(&rec).Meta()
	if meta.ID == "" {
		meta.ID = tx.store.idFn()
	}
	t := ops.table(&tx.state)
	if t.has(meta.ID) {
		return zero, alreadyExists(ops.kind, meta.ID)
	}
	meta.CreatedAt = tx.now
	meta.UpdatedAt = tx.now
	if ops.prepare != nil {
		ops.prepare(&tx.state, nil, &rec)
	}
	id := meta.ID
	t.put(id, ops.clone(rec))
	if ops.settle != nil {
		ops.settle(tx, nil, &rec)
	}
	stored, _ := t.get(id)
	tx.recordChange(Change{Entity: ops.kind, Action: domain.ActionCreate, After: ops.view(stored)})
	return ops.view(stored), nil
}

func updateEntity[E any, P record[E]](tx *transaction, ops entityOps[E], id string, mutator func(*E) error) (E, error) {
	var zero E
	t := ops.table(&tx.state)
	current, ok := t.get(id)
	if !ok {
		return zero, domain.ErrNotFound{Entity: ops.kind, ID: id}
	}
	before := ops.clone(current)
	beforeView := ops.view(current)
	working := ops.clone(current)
	if err := mutator(&working); err != nil {
		return zero, err
	}
	meta := P(&working).Meta()
	meta.ID = id
	meta.CreatedAt = P(&before).Meta().CreatedAt
	meta.UpdatedAt = tx.now
	if ops.prepare != nil {
		ops.prepare(&tx.state, &before, &working)
	}
	t.put(id, ops.clone(working))
	if ops.settle != nil {
		ops.settle(tx, &before, &working)
	}
	stored, _ := t.get(id)
	tx.recordChange(Change{Entity: ops.kind, Action: domain.ActionUpdate, Before: beforeView, After: ops.view(stored)})
	return ops.view(stored), nil
}

func deleteEntity[E any](tx *transaction, ops entityOps[E], id string) error {
	t := ops.table(&tx.state)
	current, ok := t.get(id)
	if !ok {
		return domain.ErrNotFound{Entity: ops.kind, ID: id}
	}
	beforeView := ops.view(current)
	t.remove(id)
	if ops.settle != nil {
		ops.settle(tx, &current, nil)
	}
	tx.recordChange(Change{Entity: ops.kind, Action: domain.ActionDelete, Before: beforeView})
	return nil
}

var propertyOps = entityOps[Property]{
	kind:  domain.EntityProperty,
	table: func(s *memoryState) *table[Property] { return &s.properties },
	clone: cloneProperty,
	view:  cloneProperty,
	prepare: func(state *memoryState, before, rec *Property) {
		rec.Amenities = dedupeStrings(rec.Amenities)
		if before == nil && rec.Status == "" {
			rec.Status = domain.PropertyAvailable
		}
		deriveDeveloper(state, before, rec)
	},
	settle: func(tx *transaction, before, after *Property) {
		id := before
		if id == nil {
			id = after
		}
		syncChild(&tx.state, domain.EntityProperty, id.ID, deref(before), deref(after))
	},
}

var zoneOps = entityOps[Zone]{
	kind:  domain.EntityZone,
	table: func(s *memoryState) *table[Zone] { return &s.zones },
	clone: cloneZone,
	view:  decorateZone,
	prepare: func(state *memoryState, before, rec *Zone) {
		rec.Properties, rec.Projects = 0, 0
		if before != nil {
			rec.PropertyIDs = cloneStrings(before.PropertyIDs)
			rec.ProjectIDs = cloneStrings(before.ProjectIDs)
			return
		}
		sets := adoptChildren(state, domain.EntityZone, rec.ID)
		rec.PropertyIDs = sets["property_ids"]
		rec.ProjectIDs = sets["project_ids"]
	},
}

var projectOps = entityOps[Project]{
	kind:  domain.EntityProject,
	table: func(s *memoryState) *table[Project] { return &s.projects },
	clone: cloneProject,
	view:  decorateProject,
	prepare: func(state *memoryState, before, rec *Project) {
		rec.Properties = 0
		if before != nil {
			rec.PropertyIDs = cloneStrings(before.PropertyIDs)
			return
		}
		rec.PropertyIDs = adoptChildren(state, domain.EntityProject, rec.ID)["property_ids"]
	},
	settle: func(tx *transaction, before, after *Project) {
		id := before
		if id == nil {
			id = after
		}
		syncChild(&tx.state, domain.EntityProject, id.ID, deref(before), deref(after))
		if after == nil || (before != nil && before.DeveloperID == after.DeveloperID) {
			return
		}
		for _, pair := range propagateDeveloper(&tx.state, *after) {
			tx.recordChange(Change{Entity: domain.EntityProperty, Action: domain.ActionUpdate, Before: pair[0], After: pair[1]})
		}
	},
}

var developerOps = entityOps[Developer]{
	kind:  domain.EntityDeveloper,
	table: func(s *memoryState) *table[Developer] { return &s.developers },
	clone: cloneDeveloper,
	view:  decorateDeveloper,
	prepare: func(state *memoryState, before, rec *Developer) {
		rec.Projects = 0
		if before != nil {
			rec.ProjectIDs = cloneStrings(before.ProjectIDs)
			return
		}
		rec.ProjectIDs = adoptChildren(state, domain.EntityDeveloper, rec.ID)["project_ids"]
	},
}

var leadOps = entityOps[Lead]{
	kind:  domain.EntityLead,
	table: func(s *memoryState) *table[Lead] { return &s.leads },
	clone: cloneLead,
	view:  cloneLead,
	prepare: func(_ *memoryState, before, rec *Lead) {
		if before == nil && rec.Status == "" {
			rec.Status = domain.LeadFreshLead
		}
	},
}

var meetingOps = entityOps[Meeting]{
	kind:  domain.EntityMeeting,
	table: func(s *memoryState) *table[Meeting] { return &s.meetings },
	clone: cloneMeeting,
	view:  cloneMeeting,
	prepare: func(_ *memoryState, before, rec *Meeting) {
		if before == nil && rec.Status == "" {
			rec.Status = domain.MeetingScheduled
		}
	},
}

var contractOps = entityOps[Contract]{
	kind:  domain.EntityContract,
	table: func(s *memoryState) *table[Contract] { return &s.contracts },
	clone: cloneContract,
	view:  cloneContract,
	prepare: func(_ *memoryState, before, rec *Contract) {
		if before == nil && rec.Status == "" {
			rec.Status = domain.ContractPending
		}
	},
}

var userOps = entityOps[User]{
	kind:  domain.EntityUser,
	table: func(s *memoryState) *table[User] { return &s.users },
	clone: cloneUser,
	view:  cloneUser,
}

// CreateProperty stores a new property and links it into its zone and project.
func (tx *transaction) CreateProperty(p Property) (Property, error) {
	return createEntity(tx, propertyOps, p)
}

// UpdateProperty mutates a property and moves it between parent sets when its keys change.
func (tx *transaction) UpdateProperty(id string, mutator func(*Property) error) (Property, error) {
	return updateEntity(tx, propertyOps, id, mutator)
}

// DeleteProperty removes a property from every parent set.
func (tx *transaction) DeleteProperty(id string) error {
	return deleteEntity(tx, propertyOps, id)
}

// CreateZone stores a new zone, adopting any children already pointing at its id.
func (tx *transaction) CreateZone(z Zone) (Zone, error) {
	return createEntity(tx, zoneOps, z)
}

// UpdateZone mutates a zone. Back-reference sets are not writable.
func (tx *transaction) UpdateZone(id string, mutator func(*Zone) error) (Zone, error) {
	return updateEntity(tx, zoneOps, id, mutator)
}

// DeleteZone removes a zone; children keep the dangling key.
func (tx *transaction) DeleteZone(id string) error {
	return deleteEntity(tx, zoneOps, id)
}

// CreateProject stores a new project.
func (tx *transaction) CreateProject(p Project) (Project, error) {
	return createEntity(tx, projectOps, p)
}

// UpdateProject mutates a project and propagates developer changes to its properties.
func (tx *transaction) UpdateProject(id string, mutator func(*Project) error) (Project, error) {
	return updateEntity(tx, projectOps, id, mutator)
}

// DeleteProject removes a project from its zone and developer.
func (tx *transaction) DeleteProject(id string) error {
	return deleteEntity(tx, projectOps, id)
}

// CreateDeveloper stores a new developer.
func (tx *transaction) CreateDeveloper(d Developer) (Developer, error) {
	return createEntity(tx, developerOps, d)
}

// UpdateDeveloper mutates a developer.
func (tx *transaction) UpdateDeveloper(id string, mutator func(*Developer) error) (Developer, error) {
	return updateEntity(tx, developerOps, id, mutator)
}

// DeleteDeveloper removes a developer.
func (tx *transaction) DeleteDeveloper(id string) error {
	return deleteEntity(tx, developerOps, id)
}

// CreateLead stores a new lead.
func (tx *transaction) CreateLead(l Lead) (Lead, error) {
	return createEntity(tx, leadOps, l)
}

// UpdateLead mutates a lead.
func (tx *transaction) UpdateLead(id string, mutator func(*Lead) error) (Lead, error) {
	return updateEntity(tx, leadOps, id, mutator)
}

// DeleteLead removes a lead.
func (tx *transaction) DeleteLead(id string) error {
	return deleteEntity(tx, leadOps, id)
}

// CreateMeeting stores a new meeting.
func (tx *transaction) CreateMeeting(m Meeting) (Meeting, error) {
	return createEntity(tx, meetingOps, m)
}

// UpdateMeeting mutates a meeting.
func (tx *transaction) UpdateMeeting(id string, mutator func(*Meeting) error) (Meeting, error) {
	return updateEntity(tx, meetingOps, id, mutator)
}

// DeleteMeeting removes a meeting.
func (tx *transaction) DeleteMeeting(id string) error {
	return deleteEntity(tx, meetingOps, id)
}

// CreateContract stores a new contract.
func (tx *transaction) CreateContract(c Contract) (Contract, error) {
	return createEntity(tx, contractOps, c)
}

// UpdateContract mutates a contract.
func (tx *transaction) UpdateContract(id string, mutator func(*Contract) error) (Contract, error) {
	return updateEntity(tx, contractOps, id, mutator)
}

// DeleteContract removes a contract.
func (tx *transaction) DeleteContract(id string) error {
	return deleteEntity(tx, contractOps, id)
}

// CreateUser adds a directory user.
func (tx *transaction) CreateUser(u User) (User, error) {
	return createEntity(tx, userOps, u)
}

// UpdateUser mutates a directory user.
func (tx *transaction) UpdateUser(id string, mutator func(*User) error) (User, error) {
	return updateEntity(tx, userOps, id, mutator)
}

// DeleteUser removes a directory user.
func (tx *transaction) DeleteUser(id string) error {
	return deleteEntity(tx, userOps, id)
}
