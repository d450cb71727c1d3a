// Package core hosts the CRM service: transactional CRUD over the entity
// store, lead activity logging, payment schedules, dashboard statistics and
// the built-in rule set.
package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"estatecore/internal/blob"
	"estatecore/internal/infra/persistence/memory"
	"estatecore/pkg/domain"
)

// Service exposes transactional operations over a persistent store and
// reports each one to the configured logger, audit, metrics and tracer.
type Service struct {
	store   PersistentStore
	clock   Clock
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	blobs   blob.Store
}

// WithBlobStore sets the blob store used for snapshot exports.
func WithBlobStore(store blob.Store) ServiceOption {
	return func(o *serviceOptions) { o.blobs = store }
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		store:   store,
		clock:   o.clock,
		logger:  o.logger,
		audit:   o.audit,
		metrics: o.metrics,
		tracer:  o.tracer,
		blobs:   o.blobs,
	}
}

// NewInMemoryService creates a service over a fresh in-memory store whose
// record timestamps follow the service clock.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	store := memory.NewStore(engine, memory.WithNowFunc(o.clock.Now))
	return NewService(store, opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := fn(ctx)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	return err
}

// run executes fn in a store transaction. fn returns the id of the record it touched.
func (s *Service) run(ctx context.Context, op string, entity EntityType, fn func(Transaction) (string, error)) (Result, error) {
	started := s.clock.Now()
	var (
		id  string
		res Result
	)
	err := s.observe(ctx, op, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var fnErr error
			id, fnErr = fn(tx)
			return fnErr
		})
		return err
	})
	for _, v := range res.Violations {
		args := []any{"operation", op, "rule", v.Rule, "entity", v.Entity, "entity_id", v.EntityID, "message", v.Message}
		switch v.Severity {
		case SeverityBlock:
			s.logger.Error("rule blocked transaction", args...)
		case SeverityWarn:
			s.logger.Warn("rule warning", args...)
		default:
			s.logger.Debug("rule notice", args...)
		}
	}
	entry := AuditEntry{
		Operation:  op,
		Entity:     entity,
		EntityID:   id,
		Status:     AuditStatusSuccess,
		Violations: len(res.Violations),
		StartedAt:  started,
		Duration:   s.clock.Now().Sub(started),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.logger.Error("operation failed", "operation", op, "entity", entity, "entity_id", id, "error", err)
	} else {
		s.logger.Info("operation committed", "operation", op, "entity", entity, "entity_id", id)
	}
	s.audit.Record(ctx, entry)
	return res, err
}

func mutate[E any](ctx context.Context, s *Service, op string, entity EntityType, fn func(Transaction) (E, error)) (E, Result, error) {
	var out E
	res, err := s.run(ctx, op, entity, func(tx Transaction) (string, error) {
		var err error
		out, err = fn(tx)
		if err != nil {
			return "", err
		}
		if rec, ok := any(&out).(interface{ Meta() *domain.Base }); ok {
			return rec.Meta().ID, nil
		}
		return "", nil
	})
	return out, res, err
}

func (s *Service) remove(ctx context.Context, op string, entity EntityType, id string, fn func(Transaction) error) (Result, error) {
	return s.run(ctx, op, entity, func(tx Transaction) (string, error) {
		return id, fn(tx)
	})
}

// CreateProperty persists a new property and links it into its zone and project.
func (s *Service) CreateProperty(ctx context.Context, property Property) (Property, Result, error) {
	return mutate(ctx, s, "create_property", EntityProperty, func(tx Transaction) (Property, error) { return tx.CreateProperty(property) })
}

// UpdateProperty mutates a property using the provided mutator.
func (s *Service) UpdateProperty(ctx context.Context, id string, mutator func(*Property) error) (Property, Result, error) {
	return mutate(ctx, s, "update_property", EntityProperty, func(tx Transaction) (Property, error) { return tx.UpdateProperty(id, mutator) })
}

// DeleteProperty removes a property and its back-references.
func (s *Service) DeleteProperty(ctx context.Context, id string) (Result, error) {
	return s.remove(ctx, "delete_property", EntityProperty, id, func(tx Transaction) error { return tx.DeleteProperty(id) })
}

// CreateZone persists a new zone.
func (s *Service) CreateZone(ctx context.Context, zone Zone) (Zone, Result, error) {
	return mutate(ctx, s, "create_zone", EntityZone, func(tx Transaction) (Zone, error) { return tx.CreateZone(zone) })
}

// UpdateZone mutates a zone.
func (s *Service) UpdateZone(ctx context.Context, id string, mutator func(*Zone) error) (Zone, Result, error) {
	return mutate(ctx, s, "update_zone", EntityZone, func(tx Transaction) (Zone, error) { return tx.UpdateZone(id, mutator) })
}

// DeleteZone removes a zone. Properties and projects keep the dangling zone id.
func (s *Service) DeleteZone(ctx context.Context, id string) (Result, error) {
	return s.remove(ctx, "delete_zone", EntityZone, id, func(tx Transaction) error { return tx.DeleteZone(id) })
}

// CreateProject persists a new project.
func (s *Service) CreateProject(ctx context.Context, project Project) (Project, Result, error) {
	return mutate(ctx, s, "create_project", EntityProject, func(tx Transaction) (Project, error) { return tx.CreateProject(project) })
}

// UpdateProject mutates a project. A developer change propagates to its properties.
func (s *Service) UpdateProject(ctx context.Context, id string, mutator func(*Project) error) (Project, Result, error) {
	return mutate(ctx, s, "update_project", EntityProject, func(tx Transaction) (Project, error) { return tx.UpdateProject(id, mutator) })
}

// DeleteProject removes a project.
func (s *Service) DeleteProject(ctx context.Context, id string) (Result, error) {
	return s.remove(ctx, "delete_project", EntityProject, id, func(tx Transaction) error { return tx.DeleteProject(id) })
}

// CreateDeveloper persists a new developer.
func (s *Service) CreateDeveloper(ctx context.Context, developer Developer) (Developer, Result, error) {
	return mutate(ctx, s, "create_developer", EntityDeveloper, func(tx Transaction) (Developer, error) { return tx.CreateDeveloper(developer) })
}

// UpdateDeveloper mutates a developer.
func (s *Service) UpdateDeveloper(ctx context.Context, id string, mutator func(*Developer) error) (Developer, Result, error) {
	return mutate(ctx, s, "update_developer", EntityDeveloper, func(tx Transaction) (Developer, error) { return tx.UpdateDeveloper(id, mutator) })
}

// DeleteDeveloper removes a developer.
func (s *Service) DeleteDeveloper(ctx context.Context, id string) (Result, error) {
	return s.remove(ctx, "delete_developer", EntityDeveloper, id, func(tx Transaction) error { return tx.DeleteDeveloper(id) })
}

// CreateLead persists a new lead.
func (s *Service) CreateLead(ctx context.Context, lead Lead) (Lead, Result, error) {
	return mutate(ctx, s, "create_lead", EntityLead, func(tx Transaction) (Lead, error) { return tx.CreateLead(lead) })
}

// UpdateLead mutates a lead.
func (s *Service) UpdateLead(ctx context.Context, id string, mutator func(*Lead) error) (Lead, Result, error) {
	return mutate(ctx, s, "update_lead", EntityLead, func(tx Transaction) (Lead, error) { return tx.UpdateLead(id, mutator) })
}

// DeleteLead removes a lead.
func (s *Service) DeleteLead(ctx context.Context, id string) (Result, error) {
	return s.remove(ctx, "delete_lead", EntityLead, id, func(tx Transaction) error { return tx.DeleteLead(id) })
}

// CreateMeeting persists a new meeting.
func (s *Service) CreateMeeting(ctx context.Context, meeting Meeting) (Meeting, Result, error) {
	return mutate(ctx, s, "create_meeting", EntityMeeting, func(tx Transaction) (Meeting, error) { return tx.CreateMeeting(meeting) })
}

// UpdateMeeting mutates a meeting.
func (s *Service) UpdateMeeting(ctx context.Context, id string, mutator func(*Meeting) error) (Meeting, Result, error) {
	return mutate(ctx, s, "update_meeting", EntityMeeting, func(tx Transaction) (Meeting, error) { return tx.UpdateMeeting(id, mutator) })
}

// DeleteMeeting removes a meeting.
func (s *Service) DeleteMeeting(ctx context.Context, id string) (Result, error) {
	return s.remove(ctx, "delete_meeting", EntityMeeting, id, func(tx Transaction) error { return tx.DeleteMeeting(id) })
}

// CreateContract persists a new contract.
func (s *Service) CreateContract(ctx context.Context, contract Contract) (Contract, Result, error) {
	return mutate(ctx, s, "create_contract", EntityContract, func(tx Transaction) (Contract, error) { return tx.CreateContract(contract) })
}

// UpdateContract mutates a contract.
func (s *Service) UpdateContract(ctx context.Context, id string, mutator func(*Contract) error) (Contract, Result, error) {
	return mutate(ctx, s, "update_contract", EntityContract, func(tx Transaction) (Contract, error) { return tx.UpdateContract(id, mutator) })
}

// DeleteContract removes a contract.
func (s *Service) DeleteContract(ctx context.Context, id string) (Result, error) {
	return s.remove(ctx, "delete_contract", EntityContract, id, func(tx Transaction) error { return tx.DeleteContract(id) })
}

// CreateUser adds a directory user.
func (s *Service) CreateUser(ctx context.Context, user User) (User, Result, error) {
	return mutate(ctx, s, "create_user", EntityUser, func(tx Transaction) (User, error) { return tx.CreateUser(user) })
}

// UpdateUser mutates a directory user.
func (s *Service) UpdateUser(ctx context.Context, id string, mutator func(*User) error) (User, Result, error) {
	return mutate(ctx, s, "update_user", EntityUser, func(tx Transaction) (User, error) { return tx.UpdateUser(id, mutator) })
}

// DeleteUser removes a directory user.
func (s *Service) DeleteUser(ctx context.Context, id string) (Result, error) {
	return s.remove(ctx, "delete_user", EntityUser, id, func(tx Transaction) error { return tx.DeleteUser(id) })
}

// ImportSnapshot replaces the whole state, rebuilding back-references from foreign keys.
func (s *Service) ImportSnapshot(ctx context.Context, snapshot Snapshot) error {
	started := s.clock.Now()
	err := s.observe(ctx, "import_snapshot", func(ctx context.Context) error {
		return s.store.ImportState(ctx, snapshot)
	})
	entry := AuditEntry{Operation: "import_snapshot", Status: AuditStatusSuccess, StartedAt: started, Duration: s.clock.Now().Sub(started)}
	if err != nil {
		entry.Status, entry.Error = AuditStatusError, err.Error()
		s.logger.Error("import failed", "error", err)
	}
	s.audit.Record(ctx, entry)
	return err
}

// ExportSnapshot writes the current state to the blob store under
// exports/snapshot-<timestamp>.json and returns its info with a download URL
// when the backend can sign one.
func (s *Service) ExportSnapshot(ctx context.Context) (blob.Info, error) {
	if s.blobs == nil {
		return blob.Info{}, fmt.Errorf("export snapshot: no blob store configured")
	}
	var info blob.Info
	err := s.observe(ctx, "export_snapshot", func(ctx context.Context) error {
		payload, err := memory.EncodeSnapshot(s.store.ExportState())
		if err != nil {
			return err
		}
		key := fmt.Sprintf("exports/snapshot-%s.json", s.clock.Now().UTC().Format("20060102T150405.000Z"))
		info, err = s.blobs.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
			ContentType: "application/json",
			Metadata:    map[string]string{"kind": "export"},
		})
		if err != nil {
			return fmt.Errorf("export snapshot: %w", err)
		}
		url, err := s.blobs.PresignURL(ctx, key, blob.SignedURLOptions{})
		switch {
		case err == nil:
			info.URL = url
		case !errors.Is(err, blob.ErrUnsupported):
			return fmt.Errorf("presign %s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("export failed", "error", err)
		return blob.Info{}, err
	}
	s.logger.Info("snapshot exported", "key", info.Key, "bytes", info.Size)
	return info, nil
}

func newActivityID() string { return uuid.NewString() }
