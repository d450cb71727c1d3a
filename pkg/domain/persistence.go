package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Reads observe the writes already made
// by the transaction.
type Transaction interface {
	RuleView
	Snapshot() TransactionView
	CreateProperty(Property) (Property, error)
	UpdateProperty(id string, mutator func(*Property) error) (Property, error)
	DeleteProperty(id string) error
	CreateZone(Zone) (Zone, error)
	UpdateZone(id string, mutator func(*Zone) error) (Zone, error)
	DeleteZone(id string) error
	CreateProject(Project) (Project, error)
	UpdateProject(id string, mutator func(*Project) error) (Project, error)
	DeleteProject(id string) error
	CreateDeveloper(Developer) (Developer, error)
	UpdateDeveloper(id string, mutator func(*Developer) error) (Developer, error)
	DeleteDeveloper(id string) error
	CreateLead(Lead) (Lead, error)
	UpdateLead(id string, mutator func(*Lead) error) (Lead, error)
	DeleteLead(id string) error
	CreateMeeting(Meeting) (Meeting, error)
	UpdateMeeting(id string, mutator func(*Meeting) error) (Meeting, error)
	DeleteMeeting(id string) error
	CreateContract(Contract) (Contract, error)
	UpdateContract(id string, mutator func(*Contract) error) (Contract, error)
	DeleteContract(id string) error
	CreateUser(User) (User, error)
	UpdateUser(id string, mutator func(*User) error) (User, error)
	DeleteUser(id string) error
}

// TransactionView provides read-only access to snapshot data for rules.
type TransactionView interface {
	RuleView
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ExportState() Snapshot
	ImportState(ctx context.Context, snapshot Snapshot) error
	GetProperty(id string) (Property, bool)
	ListProperties() []Property
	GetZone(id string) (Zone, bool)
	ListZones() []Zone
	GetProject(id string) (Project, bool)
	ListProjects() []Project
	GetDeveloper(id string) (Developer, bool)
	ListDevelopers() []Developer
	GetLead(id string) (Lead, bool)
	ListLeads() []Lead
	ListMeetings() []Meeting
	ListContracts() []Contract
	ListUsers() []User
	Close() error
}

// Snapshot is the whole entity state as handed to a storage driver. Each
// collection keeps insertion order.
type Snapshot struct {
	Properties []Property  `json:"properties"`
	Zones      []Zone      `json:"zones"`
	Projects   []Project   `json:"projects"`
	Developers []Developer `json:"developers"`
	Leads      []Lead      `json:"leads"`
	Meetings   []Meeting   `json:"meetings"`
	Contracts  []Contract  `json:"contracts"`
	Users      []User      `json:"users"`
}

// Empty reports whether the snapshot holds no records at all.
func (s Snapshot) Empty() bool {
	return len(s.Properties) == 0 && len(s.Zones) == 0 && len(s.Projects) == 0 &&
		len(s.Developers) == 0 && len(s.Leads) == 0 && len(s.Meetings) == 0 &&
		len(s.Contracts) == 0 && len(s.Users) == 0
}
