package core

import (
	"context"
	"fmt"

	"estatecore/pkg/domain"
)

// NewForeignKeyResolutionRule logs keys written in this transaction that point
// at records which do not exist. The keys are kept as written.
func NewForeignKeyResolutionRule() domain.Rule {
	return foreignKeyResolutionRule{}
}

type foreignKeyResolutionRule struct{}

func (foreignKeyResolutionRule) Name() string { return "foreign_key_resolution" }

type reference struct {
	field  string
	target domain.EntityType
	id     string
}

func (r foreignKeyResolutionRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.After == nil {
			continue
		}
		id, refs := references(change.After)
		for _, ref := range refs {
			if ref.id == "" || resolves(view, ref.target, ref.id) {
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityLog,
				Message:  fmt.Sprintf("%s %s: %s %q does not resolve", change.Entity, id, ref.field, ref.id),
				Entity:   change.Entity,
				EntityID: id,
			})
		}
	}
	return res, nil
}

func references(record any) (string, []reference) {
	switch v := record.(type) {
	case domain.Property:
		return v.ID, []reference{
			{field: "zone_id", target: domain.EntityZone, id: v.ZoneID},
			{field: "project_id", target: domain.EntityProject, id: v.ProjectID},
		}
	case domain.Project:
		return v.ID, []reference{
			{field: "zone_id", target: domain.EntityZone, id: v.ZoneID},
			{field: "developer_id", target: domain.EntityDeveloper, id: v.DeveloperID},
		}
	case domain.Meeting:
		return v.ID, []reference{{field: "lead_id", target: domain.EntityLead, id: v.LeadID}}
	case domain.Contract:
		return v.ID, []reference{
			{field: "lead_id", target: domain.EntityLead, id: v.LeadID},
			{field: "property_id", target: domain.EntityProperty, id: v.PropertyID},
		}
	}
	return "", nil
}

func resolves(view domain.RuleView, kind domain.EntityType, id string) bool {
	var ok bool
	switch kind {
	case domain.EntityZone:
		_, ok = view.FindZone(id)
	case domain.EntityProject:
		_, ok = view.FindProject(id)
	case domain.EntityDeveloper:
		_, ok = view.FindDeveloper(id)
	case domain.EntityLead:
		_, ok = view.FindLead(id)
	case domain.EntityProperty:
		_, ok = view.FindProperty(id)
	}
	return ok
}
