package domain

import "testing"

func TestRelationsTable(t *testing.T) {
	if len(Relations) != 4 {
		t.Fatalf("expected 4 relations, got %d", len(Relations))
	}
	if got := RelationsFrom(EntityProperty); len(got) != 2 {
		t.Fatalf("expected property to hold 2 keys, got %+v", got)
	}
	if got := RelationsFrom(EntityProject); len(got) != 2 {
		t.Fatalf("expected project to hold 2 keys, got %+v", got)
	}
	if got := RelationsInto(EntityZone); len(got) != 2 {
		t.Fatalf("expected zone to own 2 sets, got %+v", got)
	}
	if got := RelationsInto(EntityLead); len(got) != 0 {
		t.Fatalf("leads are not part of the relation table")
	}
}

func TestRelationAccessors(t *testing.T) {
	property := Property{ZoneID: "z1", ProjectID: "p1"}
	project := Project{ZoneID: "z2", DeveloperID: "d1", PropertyIDs: []string{"a"}}
	zone := Zone{PropertyIDs: []string{"a", "b"}, ProjectIDs: []string{"p1"}}
	developer := Developer{ProjectIDs: []string{"p1"}}

	cases := map[string]struct {
		key  string
		refs []string
	}{
		"property_zone":     {key: "z1", refs: zone.PropertyIDs},
		"property_project":  {key: "p1", refs: project.PropertyIDs},
		"project_zone":      {key: "z2", refs: zone.ProjectIDs},
		"project_developer": {key: "d1", refs: developer.ProjectIDs},
	}
	for _, rel := range Relations {
		want, ok := cases[rel.Name]
		if !ok {
			t.Fatalf("unexpected relation %s", rel.Name)
		}
		var child, parent any
		switch rel.Child {
		case EntityProperty:
			child = property
		case EntityProject:
			child = project
		}
		switch rel.Parent {
		case EntityZone:
			parent = zone
		case EntityProject:
			parent = project
		case EntityDeveloper:
			parent = developer
		}
		if got := rel.ForeignKey(child); got != want.key {
			t.Fatalf("%s: expected key %q, got %q", rel.Name, want.key, got)
		}
		if got := rel.BackReferences(parent); len(got) != len(want.refs) {
			t.Fatalf("%s: expected refs %v, got %v", rel.Name, want.refs, got)
		}
	}
	if Relations[0].ForeignKey(Lead{}) != "" {
		t.Fatalf("unknown child must yield empty key")
	}
}

func TestPaymentPlanHelpers(t *testing.T) {
	plan := PaymentPlan{DownPayment: 60, Delivery: 50}
	if plan.InstallmentPercent() != 0 {
		t.Fatalf("expected clamped installment percent")
	}
	plan = PaymentPlan{DownPayment: 10, Delivery: 10}
	if plan.InstallmentPercent() != 80 {
		t.Fatalf("expected 80, got %v", plan.InstallmentPercent())
	}
	project := Project{PaymentPlans: []PaymentPlan{plan}}
	if _, ok := project.Plan(1); ok {
		t.Fatalf("out of range index must not resolve")
	}
	if _, ok := project.Plan(-1); ok {
		t.Fatalf("negative index must not resolve")
	}
	if got, ok := project.Plan(0); !ok || got.DownPayment != 10 {
		t.Fatalf("expected first plan, got %+v", got)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	if !(Snapshot{}).Empty() {
		t.Fatalf("zero snapshot must be empty")
	}
	if (Snapshot{Users: []User{{Name: "a"}}}).Empty() {
		t.Fatalf("snapshot with a user is not empty")
	}
}
