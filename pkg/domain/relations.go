package domain

// Relation declares a foreign key held by a child record and the
// back-reference set the parent keeps for it.
type Relation struct {
	Name        string
	Child       EntityType
	ChildField  string
	Parent      EntityType
	ParentField string
}

// Relations is the full set of synchronized references. Parent deletion does
// not cascade; children keep the dangling key.
var Relations = []Relation{
	{Name: "property_zone", Child: EntityProperty, ChildField: "zone_id", Parent: EntityZone, ParentField: "property_ids"},
	{Name: "property_project", Child: EntityProperty, ChildField: "project_id", Parent: EntityProject, ParentField: "property_ids"},
	{Name: "project_zone", Child: EntityProject, ChildField: "zone_id", Parent: EntityZone, ParentField: "project_ids"},
	{Name: "project_developer", Child: EntityProject, ChildField: "developer_id", Parent: EntityDeveloper, ParentField: "project_ids"},
}

// RelationsFrom returns the relations in which the given kind is the child.
func RelationsFrom(child EntityType) []Relation {
	var out []Relation
	for _, rel := range Relations {
		if rel.Child == child {
			out = append(out, rel)
		}
	}
	return out
}

// RelationsInto returns the relations in which the given kind is the parent.
func RelationsInto(parent EntityType) []Relation {
	var out []Relation
	for _, rel := range Relations {
		if rel.Parent == parent {
			out = append(out, rel)
		}
	}
	return out
}

// ForeignKey returns the value of the relation's key field on a child record.
// Unknown combinations return "".
func (r Relation) ForeignKey(child any) string {
	switch v := child.(type) {
	case Property:
		switch r.ChildField {
		case "zone_id":
			return v.ZoneID
		case "project_id":
			return v.ProjectID
		}
	case Project:
		switch r.ChildField {
		case "zone_id":
			return v.ZoneID
		case "developer_id":
			return v.DeveloperID
		}
	}
	return ""
}

// BackReferences returns the relation's id set on a parent record.
func (r Relation) BackReferences(parent any) []string {
	switch v := parent.(type) {
	case Zone:
		switch r.ParentField {
		case "property_ids":
			return v.PropertyIDs
		case "project_ids":
			return v.ProjectIDs
		}
	case Project:
		if r.ParentField == "property_ids" {
			return v.PropertyIDs
		}
	case Developer:
		if r.ParentField == "project_ids" {
			return v.ProjectIDs
		}
	}
	return nil
}
