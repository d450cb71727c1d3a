package core

import (
	"context"
	"fmt"

	"estatecore/pkg/domain"
)

// NewBackReferenceSymmetryRule blocks any commit in which a parent's
// back-reference set disagrees with its children's foreign keys.
func NewBackReferenceSymmetryRule() domain.Rule {
	return backReferenceSymmetryRule{}
}

type backReferenceSymmetryRule struct{}

func (backReferenceSymmetryRule) Name() string { return "back_reference_symmetry" }

func (r backReferenceSymmetryRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, rel := range domain.Relations {
		children := childRecords(view, rel.Child)
		expected := make(map[string]map[string]struct{})
		for id, child := range children {
			key := rel.ForeignKey(child)
			if key == "" {
				continue
			}
			if expected[key] == nil {
				expected[key] = make(map[string]struct{})
			}
			expected[key][id] = struct{}{}
		}
		for parentID, parent := range parentRecords(view, rel.Parent) {
			listed := make(map[string]struct{})
			for _, childID := range rel.BackReferences(parent) {
				listed[childID] = struct{}{}
				if _, ok := expected[parentID][childID]; !ok {
					res.Violations = append(res.Violations, r.violation(rel, parentID,
						fmt.Sprintf("%s %s lists %s %s which does not reference it", rel.Parent, parentID, rel.Child, childID)))
				}
			}
			for childID := range expected[parentID] {
				if _, ok := listed[childID]; !ok {
					res.Violations = append(res.Violations, r.violation(rel, parentID,
						fmt.Sprintf("%s %s is missing %s %s in %s", rel.Parent, parentID, rel.Child, childID, rel.ParentField)))
				}
			}
		}
	}
	return res, nil
}

func (r backReferenceSymmetryRule) violation(rel domain.Relation, parentID, msg string) domain.Violation {
	return domain.Violation{
		Rule:     r.Name(),
		Severity: domain.SeverityBlock,
		Message:  msg,
		Entity:   rel.Parent,
		EntityID: parentID,
	}
}

func childRecords(view domain.RuleView, kind domain.EntityType) map[string]any {
	out := make(map[string]any)
	switch kind {
	case domain.EntityProperty:
		for _, p := range view.ListProperties() {
			out[p.ID] = p
		}
	case domain.EntityProject:
		for _, p := range view.ListProjects() {
			out[p.ID] = p
		}
	}
	return out
}

func parentRecords(view domain.RuleView, kind domain.EntityType) map[string]any {
	out := make(map[string]any)
	switch kind {
	case domain.EntityZone:
		for _, z := range view.ListZones() {
			out[z.ID] = z
		}
	case domain.EntityProject:
		for _, p := range view.ListProjects() {
			out[p.ID] = p
		}
	case domain.EntityDeveloper:
		for _, d := range view.ListDevelopers() {
			out[d.ID] = d
		}
	}
	return out
}
