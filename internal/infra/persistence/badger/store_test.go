package badger

import (
	"context"
	"testing"

	"estatecore/pkg/domain"
)

func TestBadgerStorePersistAndReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Dir() != dir {
		t.Fatalf("unexpected dir %s", store.Dir())
	}
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateDeveloper(domain.Developer{Base: domain.Base{ID: "d1"}, Name: "Palm Hills"}); err != nil {
			return err
		}
		_, err := tx.CreateProject(domain.Project{Base: domain.Base{ID: "pr1"}, Name: "Badya", DeveloperID: "d1"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(dir, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	dev, ok := reloaded.GetDeveloper("d1")
	if !ok || dev.Projects != 1 || len(dev.ProjectIDs) != 1 || dev.ProjectIDs[0] != "pr1" {
		t.Fatalf("expected developer back-reference restored, got %+v", dev)
	}
}

func TestBadgerStoreInMemoryAndImport(t *testing.T) {
	store, err := NewStore("", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	snapshot := domain.Snapshot{
		Zones:      []domain.Zone{{Base: domain.Base{ID: "z1"}, Name: "Sheikh Zayed"}},
		Properties: []domain.Property{{Base: domain.Base{ID: "p1"}, Title: "Loft", ZoneID: "z1"}},
	}
	if err := store.ImportState(context.Background(), snapshot); err != nil {
		t.Fatalf("import: %v", err)
	}
	zone, ok := store.GetZone("z1")
	if !ok || zone.Properties != 1 {
		t.Fatalf("expected imported zone with one property, got %+v", zone)
	}
}

func TestBadgerStoreFailedTransactionKeepsState(t *testing.T) {
	store, err := NewStore("", domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.DeleteLead("missing")
	}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(store.ListLeads()) != 0 {
		t.Fatalf("expected no leads")
	}
}
