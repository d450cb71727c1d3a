package core

import (
	"context"
	"strings"

	"estatecore/pkg/domain"
)

// LogCall appends a call to a lead's history. Missing ids and dates are filled in.
func (s *Service) LogCall(ctx context.Context, leadID string, call domain.CallLog) (Lead, Result, error) {
	if call.ID == "" {
		call.ID = newActivityID()
	}
	if call.Date == "" {
		call.Date = s.clock.Now().Format(domain.DateLayout)
	}
	return mutate(ctx, s, "log_call", EntityLead, func(tx Transaction) (Lead, error) {
		return tx.UpdateLead(leadID, func(l *Lead) error {
			l.Calls = append(l.Calls, call)
			return nil
		})
	})
}

// LogVisit appends a property visit to a lead's history.
func (s *Service) LogVisit(ctx context.Context, leadID string, visit domain.VisitLog) (Lead, Result, error) {
	if visit.ID == "" {
		visit.ID = newActivityID()
	}
	if visit.Date == "" {
		visit.Date = s.clock.Now().Format(domain.DateLayout)
	}
	return mutate(ctx, s, "log_visit", EntityLead, func(tx Transaction) (Lead, error) {
		return tx.UpdateLead(leadID, func(l *Lead) error {
			l.Visits = append(l.Visits, visit)
			return nil
		})
	})
}

// AddLeadNote attaches a note authored by author to a lead.
func (s *Service) AddLeadNote(ctx context.Context, leadID, text, author string) (Lead, Result, error) {
	note := domain.Note{
		ID:        newActivityID(),
		Text:      strings.TrimSpace(text),
		Author:    author,
		CreatedAt: s.clock.Now(),
	}
	return mutate(ctx, s, "add_lead_note", EntityLead, func(tx Transaction) (Lead, error) {
		return tx.UpdateLead(leadID, func(l *Lead) error {
			l.Notes = append(l.Notes, note)
			return nil
		})
	})
}

// ZoneName resolves a zone id for display. Unknown or empty ids render as "".
func (s *Service) ZoneName(id string) string {
	if z, ok := s.store.GetZone(id); ok {
		return z.Name
	}
	return ""
}

// ProjectName resolves a project id for display.
func (s *Service) ProjectName(id string) string {
	if p, ok := s.store.GetProject(id); ok {
		return p.Name
	}
	return ""
}

// DeveloperName resolves a developer id for display.
func (s *Service) DeveloperName(id string) string {
	if d, ok := s.store.GetDeveloper(id); ok {
		return d.Name
	}
	return ""
}

// LeadName resolves a lead id for display.
func (s *Service) LeadName(id string) string {
	if l, ok := s.store.GetLead(id); ok {
		return l.Name
	}
	return ""
}

// PropertyTitle resolves a property id for display.
func (s *Service) PropertyTitle(id string) string {
	if p, ok := s.store.GetProperty(id); ok {
		return p.Title
	}
	return ""
}
