package memory

import (
	"context"
	"strings"
	"testing"

	"estatecore/pkg/domain"
)

func TestEncodeDecodeRoundTripKeepsOrder(t *testing.T) {
	store := newTestStore(t)
	seedRelations(t, store)
	mustTx(t, store, func(tx domain.Transaction) error {
		_, err := tx.CreateProperty(domain.Property{Base: domain.Base{ID: "p1"}, ZoneID: "z2", ProjectID: "pr1"})
		return err
	})
	payload, err := EncodeSnapshot(store.ExportState())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(payload), `"version":1`) {
		t.Fatalf("expected version tag in %s", payload)
	}
	decoded, err := DecodeSnapshot(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Zones) != 2 || decoded.Zones[0].ID != "z1" || decoded.Zones[1].ID != "z2" {
		t.Fatalf("expected zone order preserved, got %+v", decoded.Zones)
	}
	restored := NewStore(nil)
	if err := restored.ImportState(context.Background(), decoded); err != nil {
		t.Fatalf("import: %v", err)
	}
	z2, _ := restored.GetZone("z2")
	if z2.Properties != 1 {
		t.Fatalf("expected restored counts, got %+v", z2)
	}
	assertSymmetric(t, restored)
}

func TestDecodeSnapshotErrors(t *testing.T) {
	if _, err := DecodeSnapshot([]byte("{")); err == nil {
		t.Fatalf("expected malformed json error")
	}
	if _, err := DecodeSnapshot([]byte(`{"version":99}`)); err == nil {
		t.Fatalf("expected unsupported version error")
	}
	snap, err := DecodeSnapshot([]byte(`{"zones":[{"id":"z"}]}`))
	if err != nil || len(snap.Zones) != 1 {
		t.Fatalf("expected unversioned document to decode, got %+v %v", snap, err)
	}
}

func TestImportReconcilesBackReferences(t *testing.T) {
	snapshot := domain.Snapshot{
		Zones: []domain.Zone{
			{Base: domain.Base{ID: "z1"}, PropertyIDs: []string{"stale", "p1", "p1"}, Properties: 42},
		},
		Projects: []domain.Project{
			{Base: domain.Base{ID: "pr1"}, ZoneID: "z1", DeveloperID: "d1"},
		},
		Developers: []domain.Developer{{Base: domain.Base{ID: "d1"}}},
		Properties: []domain.Property{
			{Base: domain.Base{ID: "p1"}, ZoneID: "z1", ProjectID: "pr1"},
			{Base: domain.Base{ID: "p2"}, ZoneID: "z1"},
			{Base: domain.Base{ID: "p1"}, ZoneID: "z1", ProjectID: "pr1", Title: "dup"},
		},
	}
	store := NewStore(nil)
	if err := store.ImportState(context.Background(), snapshot); err != nil {
		t.Fatalf("import: %v", err)
	}
	props := store.ListProperties()
	if len(props) != 2 || props[0].ID != "p1" || props[0].Title != "dup" {
		t.Fatalf("expected duplicate collapsed onto first position, got %+v", props)
	}
	if props[0].DeveloperID != "d1" {
		t.Fatalf("expected developer derived on import, got %q", props[0].DeveloperID)
	}
	z1, _ := store.GetZone("z1")
	if z1.Properties != 2 || z1.Projects != 1 || containsString(z1.PropertyIDs, "stale") {
		t.Fatalf("expected rebuilt zone sets, got %+v", z1)
	}
	d1, _ := store.GetDeveloper("d1")
	if d1.Projects != 1 {
		t.Fatalf("expected developer project set rebuilt")
	}
	assertSymmetric(t, store)
}
