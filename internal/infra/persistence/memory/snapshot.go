package memory

import (
	"encoding/json"
	"fmt"
)

// snapshotVersion tags encoded documents so future layouts can be migrated on load.
const snapshotVersion = 1

type snapshotDocument struct {
	Version int `json:"version"`
	Snapshot
}

// EncodeSnapshot renders the whole state as one JSON document.
func EncodeSnapshot(snapshot Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snapshotDocument{Version: snapshotVersion, Snapshot: snapshot})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return payload, nil
}

// DecodeSnapshot parses a document produced by EncodeSnapshot. Documents
// without a version field are read as the current layout.
func DecodeSnapshot(payload []byte) (Snapshot, error) {
	var doc snapshotDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Version > snapshotVersion {
		return Snapshot{}, fmt.Errorf("decode snapshot: unsupported version %d", doc.Version)
	}
	return doc.Snapshot, nil
}

func snapshotFromState(state *memoryState) Snapshot {
	r := stateReader{state: state}
	return Snapshot{
		Properties: r.ListProperties(),
		Zones:      r.ListZones(),
		Projects:   r.ListProjects(),
		Developers: r.ListDevelopers(),
		Leads:      r.ListLeads(),
		Meetings:   r.ListMeetings(),
		Contracts:  r.ListContracts(),
		Users:      r.ListUsers(),
	}
}

func stateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for _, v := range s.Properties {
		v.Amenities = dedupeStrings(v.Amenities)
		state.properties.put(v.ID, cloneProperty(v))
	}
	for _, v := range s.Zones {
		v.Properties, v.Projects = 0, 0
		state.zones.put(v.ID, cloneZone(v))
	}
	for _, v := range s.Projects {
		v.Properties = 0
		state.projects.put(v.ID, cloneProject(v))
	}
	for _, v := range s.Developers {
		v.Projects = 0
		state.developers.put(v.ID, cloneDeveloper(v))
	}
	for _, v := range s.Leads {
		state.leads.put(v.ID, cloneLead(v))
	}
	for _, v := range s.Meetings {
		state.meetings.put(v.ID, cloneMeeting(v))
	}
	for _, v := range s.Contracts {
		state.contracts.put(v.ID, cloneContract(v))
	}
	for _, v := range s.Users {
		state.users.put(v.ID, cloneUser(v))
	}
	reconcile(&state)
	return state
}
