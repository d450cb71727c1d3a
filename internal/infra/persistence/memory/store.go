// Package memory provides the in-memory transactional entity store. Every
// persistence driver embeds it and only adds durability around commits.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"estatecore/pkg/domain"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Property aliases domain.Property for in-memory persistence operations.
	Property = domain.Property
	// Zone aliases domain.Zone.
	Zone = domain.Zone
	// Project aliases domain.Project.
	Project = domain.Project
	// Developer aliases domain.Developer.
	Developer = domain.Developer
	// Lead aliases domain.Lead.
	Lead = domain.Lead
	// Meeting aliases domain.Meeting.
	Meeting = domain.Meeting
	// Contract aliases domain.Contract.
	Contract = domain.Contract
	// User aliases domain.User.
	User = domain.User
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// Snapshot aliases domain.Snapshot exchanged with storage drivers.
	Snapshot = domain.Snapshot
)

// Option customises a Store.
type Option func(*Store)

// WithNowFunc overrides the clock used to stamp records.
func WithNowFunc(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.nowFn = fn
		}
	}
}

// WithIDGenerator overrides the generator used for records created without an id.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.idFn = fn
		}
	}
}

// Store provides an in-memory transactional store for the CRM entities.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
	idFn   func() string
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine, opts ...Option) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	s := &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
		idFn:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromState(&s.state)
}

// ImportState replaces the store state with the provided snapshot. Duplicate
// ids collapse onto the first position and back-references are rebuilt from
// foreign keys.
func (s *Store) ImportState(_ context.Context, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromSnapshot(snapshot)
	return nil
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// Close releases nothing; it satisfies domain.PersistentStore.
func (s *Store) Close() error { return nil }

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy replaces the committed state only when fn succeeds and no rule
// reports a blocking violation.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}
	tx.stateReader = stateReader{state: &tx.state}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := stateReader{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(stateReader{state: &snapshot})
}

// Read helpers ---------------------------------------------------------------

func (s *Store) read() stateReader {
	return stateReader{state: &s.state}
}

// GetProperty retrieves a property by ID from committed state.
func (s *Store) GetProperty(id string) (Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindProperty(id)
}

// ListProperties returns all properties in insertion order.
func (s *Store) ListProperties() []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListProperties()
}

// GetZone retrieves a zone with derived counts.
func (s *Store) GetZone(id string) (Zone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindZone(id)
}

// ListZones returns all zones in insertion order.
func (s *Store) ListZones() []Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListZones()
}

// GetProject retrieves a project with derived counts.
func (s *Store) GetProject(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindProject(id)
}

// ListProjects returns all projects in insertion order.
func (s *Store) ListProjects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListProjects()
}

// GetDeveloper retrieves a developer with derived counts.
func (s *Store) GetDeveloper(id string) (Developer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindDeveloper(id)
}

// ListDevelopers returns all developers in insertion order.
func (s *Store) ListDevelopers() []Developer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListDevelopers()
}

// GetLead retrieves a lead by ID.
func (s *Store) GetLead(id string) (Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().FindLead(id)
}

// ListLeads returns all leads in insertion order.
func (s *Store) ListLeads() []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListLeads()
}

// ListMeetings returns all meetings in insertion order.
func (s *Store) ListMeetings() []Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListMeetings()
}

// ListContracts returns all contracts in insertion order.
func (s *Store) ListContracts() []Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListContracts()
}

// ListUsers returns the user directory in insertion order.
func (s *Store) ListUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListUsers()
}

func alreadyExists(kind domain.EntityType, id string) error {
	return fmt.Errorf("%s %q already exists", kind, id)
}
