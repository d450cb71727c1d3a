package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"estatecore/pkg/domain"
)

// CompletedCallOutcomes lists the call outcomes counted as completed.
var CompletedCallOutcomes = []string{"Interested", "Meeting Scheduled", "Follow Up Required"}

var activeLeadStatuses = map[domain.LeadStatus]struct{}{
	domain.LeadFreshLead:      {},
	domain.LeadFollowUp:       {},
	domain.LeadScheduledVisit: {},
	domain.LeadOpenDeal:       {},
	domain.LeadVIP:            {},
}

// StatisticsInput carries the raw collections and the viewer. A nil
// ActingUser sees every record.
type StatisticsInput struct {
	Leads      []domain.Lead
	Meetings   []domain.Meeting
	Contracts  []domain.Contract
	Users      []domain.User
	ActingUser *domain.User
	Now        time.Time
}

// ConversionRates are integer percentages in [0, 100].
type ConversionRates struct {
	LeadsToFollowUp    int `json:"leads_to_follow_up"`
	CallsToMeetings    int `json:"calls_to_meetings"`
	MeetingsToDeals    int `json:"meetings_to_deals"`
	CallCompletionRate int `json:"call_completion_rate"`
}

// StatisticsSnapshot is the dashboard view derived from the scoped collections.
type StatisticsSnapshot struct {
	TotalProspects int                       `json:"total_prospects"`
	ActiveLeads    int                       `json:"active_leads"`
	FollowUps      int                       `json:"follow_ups"`
	TodayMeetings  int                       `json:"today_meetings"`
	MonthlyRevenue decimal.Decimal           `json:"monthly_revenue"`
	TotalCalls     int                       `json:"total_calls"`
	CompletedCalls int                       `json:"completed_calls"`
	TotalMeetings  int                       `json:"total_meetings"`
	ClosedDeals    int                       `json:"closed_deals"`
	LeadsByStatus  map[domain.LeadStatus]int `json:"leads_by_status"`
	Rates          ConversionRates           `json:"rates"`
	ComputedAt     time.Time                 `json:"computed_at"`
}

// ComputeStatistics scopes the collections to the acting user and derives
// counts, monthly revenue and conversion rates. Degenerate ratios yield 0.
func ComputeStatistics(in StatisticsInput) StatisticsSnapshot {
	visible := scopeNames(in.ActingUser, in.Users)
	sees := func(names ...string) bool {
		if visible == nil {
			return true
		}
		for _, name := range names {
			if _, ok := visible[name]; ok && name != "" {
				return true
			}
		}
		return false
	}

	out := StatisticsSnapshot{
		MonthlyRevenue: decimal.Zero,
		LeadsByStatus:  make(map[domain.LeadStatus]int, len(domain.LeadStatuses)),
		ComputedAt:     in.Now,
	}
	completed := make(map[string]struct{}, len(CompletedCallOutcomes))
	for _, outcome := range CompletedCallOutcomes {
		completed[outcome] = struct{}{}
	}

	for _, lead := range in.Leads {
		if !sees(lead.AssignedTo, lead.CreatedBy) {
			continue
		}
		out.TotalProspects++
		out.LeadsByStatus[lead.Status]++
		if _, ok := activeLeadStatuses[lead.Status]; ok {
			out.ActiveLeads++
		}
		switch lead.Status {
		case domain.LeadFollowUp:
			out.FollowUps++
		case domain.LeadClosedDeal:
			out.ClosedDeals++
		}
		for _, call := range lead.Calls {
			out.TotalCalls++
			if _, ok := completed[call.Outcome]; ok {
				out.CompletedCalls++
			}
		}
	}

	today := in.Now.Format(domain.DateLayout)
	for _, meeting := range in.Meetings {
		if !sees(meeting.Assignee, meeting.CreatedBy) {
			continue
		}
		out.TotalMeetings++
		if meeting.Date == today {
			out.TodayMeetings++
		}
	}

	month := in.Now.Format("2006-01")
	for _, contract := range in.Contracts {
		if !sees(contract.CreatedBy) || contract.Status != domain.ContractSigned {
			continue
		}
		if !strings.HasPrefix(contract.ContractDate, month) {
			continue
		}
		out.MonthlyRevenue = out.MonthlyRevenue.Add(ParseDealValue(contract.DealValue))
	}

	out.Rates = ConversionRates{
		LeadsToFollowUp:    Percent(out.FollowUps, out.TotalProspects),
		CallsToMeetings:    Percent(out.TotalMeetings, out.TotalCalls),
		MeetingsToDeals:    Percent(out.ClosedDeals, out.TotalMeetings),
		CallCompletionRate: Percent(out.CompletedCalls, out.TotalCalls),
	}
	return out
}

// scopeNames returns the assignee names visible to user, or nil for unscoped access.
func scopeNames(user *domain.User, users []domain.User) map[string]struct{} {
	if user == nil {
		return nil
	}
	switch user.Role {
	case domain.RoleAdmin, domain.RoleSalesAdmin:
		return nil
	}
	names := map[string]struct{}{user.Name: {}}
	if user.Role == domain.RoleTeamLeader {
		for _, member := range users {
			if member.Role == domain.RoleSalesRep && member.TeamID == user.Name {
				names[member.Name] = struct{}{}
			}
		}
	}
	return names
}

// Percent returns part/whole as an integer percentage rounded half up and
// clamped to [0, 100]. A zero whole yields 0.
func Percent(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole))).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// ParseDealValue reads a free-form currency string such as "EGP 1,250,000.50".
// Currency symbols and thousands separators are dropped; anything that still
// fails to parse counts as zero.
func ParseDealValue(value string) decimal.Decimal {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
