package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestResultMergeAndBlocking(t *testing.T) {
	var result Result
	result.Merge(Result{Violations: []Violation{{Rule: "plan_allocation", Severity: SeverityWarn}}})
	if result.HasBlocking() {
		t.Fatalf("expected no blocking violations")
	}
	result.Merge(Result{Violations: []Violation{{Rule: "back_reference_symmetry", Severity: SeverityBlock}}})
	if !result.HasBlocking() {
		t.Fatalf("expected blocking violation")
	}
	if got := result.Filter(SeverityWarn); len(got) != 1 || got[0].Rule != "plan_allocation" {
		t.Fatalf("unexpected warn filter: %+v", got)
	}
	err := RuleViolationError{Result: result}
	if err.Error() == "" {
		t.Fatalf("expected error string")
	}
}

func TestResultMergeEmptyInput(t *testing.T) {
	original := Result{Violations: []Violation{{Rule: "existing", Severity: SeverityWarn}}}
	original.Merge(Result{})
	if len(original.Violations) != 1 || original.Violations[0].Rule != "existing" {
		t.Fatalf("expected original violations to remain, got %+v", original.Violations)
	}
}

func TestRulesEngineEvaluate(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(staticRule{"warn"})
	res, err := engine.Evaluate(context.Background(), emptyView{}, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 1 {
		t.Fatalf("expected violation")
	}
	if names := engine.Rules(); len(names) != 1 || names[0] != "warn" {
		t.Fatalf("unexpected rule names %v", names)
	}
}

func TestRulesEngineEvaluateError(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(errorRule{})
	if _, err := engine.Evaluate(context.Background(), emptyView{}, nil); err == nil {
		t.Fatalf("expected evaluation error")
	}
}

func TestErrNotFound(t *testing.T) {
	err := fmt.Errorf("update: %w", ErrNotFound{Entity: EntityZone, ID: "z-9"})
	if !IsNotFound(err) {
		t.Fatalf("expected wrapped not found to be detected")
	}
	var nf ErrNotFound
	if !errors.As(err, &nf) || nf.ID != "z-9" || nf.Entity != EntityZone {
		t.Fatalf("unexpected unwrapped value %+v", nf)
	}
	if IsNotFound(errors.New("other")) {
		t.Fatalf("plain error must not be not found")
	}
}

type staticRule struct{ name string }

func (r staticRule) Name() string { return r.name }

func (r staticRule) Evaluate(context.Context, RuleView, []Change) (Result, error) {
	return Result{Violations: []Violation{{Rule: r.name, Severity: SeverityWarn}}}, nil
}

type errorRule struct{}

func (errorRule) Name() string { return "error" }

func (errorRule) Evaluate(context.Context, RuleView, []Change) (Result, error) {
	return Result{}, fmt.Errorf("boom")
}

type emptyView struct{}

func (emptyView) ListProperties() []Property             { return nil }
func (emptyView) ListZones() []Zone                      { return nil }
func (emptyView) ListProjects() []Project                { return nil }
func (emptyView) ListDevelopers() []Developer            { return nil }
func (emptyView) ListLeads() []Lead                      { return nil }
func (emptyView) ListMeetings() []Meeting                { return nil }
func (emptyView) ListContracts() []Contract              { return nil }
func (emptyView) ListUsers() []User                      { return nil }
func (emptyView) FindProperty(string) (Property, bool)   { return Property{}, false }
func (emptyView) FindZone(string) (Zone, bool)           { return Zone{}, false }
func (emptyView) FindProject(string) (Project, bool)     { return Project{}, false }
func (emptyView) FindDeveloper(string) (Developer, bool) { return Developer{}, false }
func (emptyView) FindLead(string) (Lead, bool)           { return Lead{}, false }
func (emptyView) FindMeeting(string) (Meeting, bool)     { return Meeting{}, false }
func (emptyView) FindContract(string) (Contract, bool)   { return Contract{}, false }
func (emptyView) FindUser(string) (User, bool)           { return User{}, false }
