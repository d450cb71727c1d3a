package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatecore/pkg/domain"
)

var statsNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.Local)

func TestComputeStatisticsFollowUpRate(t *testing.T) {
	leads := make([]domain.Lead, 10)
	for i := range leads {
		leads[i] = domain.Lead{Base: domain.Base{ID: fmt.Sprintf("l%d", i)}, Status: domain.LeadFreshLead}
	}
	for i := 0; i < 3; i++ {
		leads[i].Status = domain.LeadFollowUp
	}
	out := ComputeStatistics(StatisticsInput{Leads: leads, Now: statsNow})
	assert.Equal(t, 10, out.TotalProspects)
	assert.Equal(t, 3, out.FollowUps)
	assert.Equal(t, 10, out.ActiveLeads)
	assert.Equal(t, 30, out.Rates.LeadsToFollowUp)
	assert.Equal(t, 3, out.LeadsByStatus[domain.LeadFollowUp])
	assert.Equal(t, 7, out.LeadsByStatus[domain.LeadFreshLead])
}

func TestComputeStatisticsEmptyInput(t *testing.T) {
	out := ComputeStatistics(StatisticsInput{Now: statsNow})
	assert.Equal(t, 0, out.TotalProspects)
	assert.Equal(t, ConversionRates{}, out.Rates)
	assert.True(t, out.MonthlyRevenue.IsZero())
	assert.Equal(t, statsNow, out.ComputedAt)
}

func TestComputeStatisticsCountsAndRates(t *testing.T) {
	leads := []domain.Lead{
		{Status: domain.LeadClosedDeal, Calls: []domain.CallLog{{Outcome: "Interested"}, {Outcome: "No Answer"}, {Outcome: "Meeting Scheduled"}}},
		{Status: domain.LeadCancellation, Calls: []domain.CallLog{{Outcome: "Follow Up Required"}}},
		{Status: domain.LeadVIP},
		{Status: domain.LeadNoAnswer},
	}
	meetings := []domain.Meeting{
		{Date: "2025-03-15"},
		{Date: "2025-03-15"},
		{Date: "2025-03-14"},
	}
	contracts := []domain.Contract{
		{Status: domain.ContractSigned, ContractDate: "2025-03-02", DealValue: "EGP 1,250,000"},
		{Status: domain.ContractSigned, ContractDate: "2025-03-20", DealValue: "$2,500.50"},
		{Status: domain.ContractSigned, ContractDate: "2025-02-28", DealValue: "900"},
		{Status: domain.ContractPending, ContractDate: "2025-03-05", DealValue: "5,000"},
		{Status: domain.ContractSigned, ContractDate: "2025-03-06", DealValue: "call me"},
	}
	out := ComputeStatistics(StatisticsInput{Leads: leads, Meetings: meetings, Contracts: contracts, Now: statsNow})

	assert.Equal(t, 4, out.TotalProspects)
	assert.Equal(t, 1, out.ActiveLeads)
	assert.Equal(t, 2, out.TodayMeetings)
	assert.Equal(t, 4, out.TotalCalls)
	assert.Equal(t, 3, out.CompletedCalls)
	assert.Equal(t, 1, out.ClosedDeals)
	assert.True(t, decimal.RequireFromString("1252500.50").Equal(out.MonthlyRevenue), out.MonthlyRevenue.String())

	assert.Equal(t, 75, out.Rates.CallsToMeetings)
	assert.Equal(t, 33, out.Rates.MeetingsToDeals)
	assert.Equal(t, 75, out.Rates.CallCompletionRate)
	assert.Equal(t, 0, out.Rates.LeadsToFollowUp)
}

func TestComputeStatisticsScoping(t *testing.T) {
	users := []domain.User{
		{Name: "Admin", Role: domain.RoleAdmin},
		{Name: "Karim", Role: domain.RoleTeamLeader},
		{Name: "Salma", Role: domain.RoleSalesRep, TeamID: "Karim"},
		{Name: "Omar", Role: domain.RoleSalesRep, TeamID: "Karim"},
		{Name: "Dina", Role: domain.RoleSalesRep, TeamID: "Hany"},
	}
	leads := []domain.Lead{
		{AssignedTo: "Salma"},
		{AssignedTo: "Omar"},
		{AssignedTo: "Dina"},
		{AssignedTo: "Karim"},
		{CreatedBy: "Salma"},
		{},
	}
	meetings := []domain.Meeting{{Assignee: "Salma"}, {Assignee: "Dina"}, {CreatedBy: "Karim"}}
	contracts := []domain.Contract{
		{CreatedBy: "Salma", Status: domain.ContractSigned, ContractDate: "2025-03-01", DealValue: "100"},
		{CreatedBy: "Dina", Status: domain.ContractSigned, ContractDate: "2025-03-01", DealValue: "1000"},
	}
	run := func(user *domain.User) StatisticsSnapshot {
		return ComputeStatistics(StatisticsInput{Leads: leads, Meetings: meetings, Contracts: contracts, Users: users, ActingUser: user, Now: statsNow})
	}

	rep := run(&users[2])
	assert.Equal(t, 2, rep.TotalProspects)
	assert.Equal(t, 1, rep.TotalMeetings)
	assert.True(t, rep.MonthlyRevenue.Equal(decimal.NewFromInt(100)))

	leader := run(&users[1])
	assert.Equal(t, 4, leader.TotalProspects)
	assert.Equal(t, 2, leader.TotalMeetings)

	for _, unscoped := range []*domain.User{nil, &users[0], {Name: "Root", Role: domain.RoleSalesAdmin}} {
		all := run(unscoped)
		assert.Equal(t, len(leads), all.TotalProspects)
		assert.Equal(t, len(meetings), all.TotalMeetings)
		assert.True(t, all.MonthlyRevenue.Equal(decimal.NewFromInt(1100)))
	}

	stranger := run(&domain.User{Name: "Dina", Role: "intern"})
	assert.Equal(t, 1, stranger.TotalProspects)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 0, Percent(0, 7))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 1, Percent(1, 200))
	assert.Equal(t, 100, Percent(9, 4))
}

func TestParseDealValue(t *testing.T) {
	cases := map[string]string{
		"EGP 1,250,000": "1250000",
		"$ 2,500.75":    "2500.75",
		"750000":        "750000",
		"":              "0",
		"n/a":           "0",
		"1.2.3":         "0",
	}
	for in, want := range cases {
		got := ParseDealValue(in)
		require.True(t, decimal.RequireFromString(want).Equal(got), "%q -> %s", in, got)
	}
}
