package memory

import "estatecore/pkg/domain"

type memoryState struct {
	properties table[Property]
	zones      table[Zone]
	projects   table[Project]
	developers table[Developer]
	leads      table[Lead]
	meetings   table[Meeting]
	contracts  table[Contract]
	users      table[User]
}

func newMemoryState() memoryState {
	return memoryState{
		properties: newTable[Property](),
		zones:      newTable[Zone](),
		projects:   newTable[Project](),
		developers: newTable[Developer](),
		leads:      newTable[Lead](),
		meetings:   newTable[Meeting](),
		contracts:  newTable[Contract](),
		users:      newTable[User](),
	}
}

func (s memoryState) clone() memoryState {
	return memoryState{
		properties: s.properties.clone(cloneProperty),
		zones:      s.zones.clone(cloneZone),
		projects:   s.projects.clone(cloneProject),
		developers: s.developers.clone(cloneDeveloper),
		leads:      s.leads.clone(cloneLead),
		meetings:   s.meetings.clone(cloneMeeting),
		contracts:  s.contracts.clone(cloneContract),
		users:      s.users.clone(cloneUser),
	}
}

func cloneStrings(values []string) []string {
	return append([]string{}, values...)
}

func cloneProperty(p Property) Property {
	cp := p
	cp.Amenities = cloneStrings(p.Amenities)
	if p.PaymentPlanIndex != nil {
		idx := *p.PaymentPlanIndex
		cp.PaymentPlanIndex = &idx
	}
	return cp
}

func cloneZone(z Zone) Zone {
	cp := z
	cp.PropertyIDs = cloneStrings(z.PropertyIDs)
	cp.ProjectIDs = cloneStrings(z.ProjectIDs)
	return cp
}

func cloneProject(p Project) Project {
	cp := p
	cp.PaymentPlans = append([]domain.PaymentPlan{}, p.PaymentPlans...)
	cp.PropertyIDs = cloneStrings(p.PropertyIDs)
	return cp
}

func cloneDeveloper(d Developer) Developer {
	cp := d
	cp.ProjectIDs = cloneStrings(d.ProjectIDs)
	return cp
}

func cloneLead(l Lead) Lead {
	cp := l
	cp.Calls = append([]domain.CallLog{}, l.Calls...)
	cp.Visits = append([]domain.VisitLog{}, l.Visits...)
	cp.Notes = append([]domain.Note{}, l.Notes...)
	return cp
}

func cloneMeeting(m Meeting) Meeting    { return m }
func cloneContract(c Contract) Contract { return c }
func cloneUser(u User) User             { return u }

func containsString(values []string, id string) bool {
	for _, existing := range values {
		if existing == id {
			return true
		}
	}
	return false
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Derived counts are never stored; they are computed from the back-reference
// sets every time a record leaves the store.

func decorateZone(z Zone) Zone {
	cp := cloneZone(z)
	cp.Properties = len(cp.PropertyIDs)
	cp.Projects = len(cp.ProjectIDs)
	return cp
}

func decorateProject(p Project) Project {
	cp := cloneProject(p)
	cp.Properties = len(cp.PropertyIDs)
	return cp
}

func decorateDeveloper(d Developer) Developer {
	cp := cloneDeveloper(d)
	cp.Projects = len(cp.ProjectIDs)
	return cp
}

func listTable[E any](t *table[E], view func(E) E) []E {
	rows := t.values()
	out := make([]E, 0, len(rows))
	for _, row := range rows {
		out = append(out, view(row))
	}
	return out
}

func findTable[E any](t *table[E], id string, view func(E) E) (E, bool) {
	row, ok := t.get(id)
	if !ok {
		var zero E
		return zero, false
	}
	return view(row), true
}

// stateReader answers read queries against a state value.
type stateReader struct {
	state *memoryState
}

func (r stateReader) ListProperties() []Property  { return listTable(&r.state.properties, cloneProperty) }
func (r stateReader) ListZones() []Zone           { return listTable(&r.state.zones, decorateZone) }
func (r stateReader) ListProjects() []Project     { return listTable(&r.state.projects, decorateProject) }
func (r stateReader) ListDevelopers() []Developer { return listTable(&r.state.developers, decorateDeveloper) }
func (r stateReader) ListLeads() []Lead           { return listTable(&r.state.leads, cloneLead) }
func (r stateReader) ListMeetings() []Meeting     { return listTable(&r.state.meetings, cloneMeeting) }
func (r stateReader) ListContracts() []Contract   { return listTable(&r.state.contracts, cloneContract) }
func (r stateReader) ListUsers() []User           { return listTable(&r.state.users, cloneUser) }

func (r stateReader) FindProperty(id string) (Property, bool) {
	return findTable(&r.state.properties, id, cloneProperty)
}

func (r stateReader) FindZone(id string) (Zone, bool) {
	return findTable(&r.state.zones, id, decorateZone)
}

func (r stateReader) FindProject(id string) (Project, bool) {
	return findTable(&r.state.projects, id, decorateProject)
}

func (r stateReader) FindDeveloper(id string) (Developer, bool) {
	return findTable(&r.state.developers, id, decorateDeveloper)
}

func (r stateReader) FindLead(id string) (Lead, bool) {
	return findTable(&r.state.leads, id, cloneLead)
}

func (r stateReader) FindMeeting(id string) (Meeting, bool) {
	return findTable(&r.state.meetings, id, cloneMeeting)
}

func (r stateReader) FindContract(id string) (Contract, bool) {
	return findTable(&r.state.contracts, id, cloneContract)
}

func (r stateReader) FindUser(id string) (User, bool) {
	return findTable(&r.state.users, id, cloneUser)
}
