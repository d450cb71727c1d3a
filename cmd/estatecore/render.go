package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/number"

	"estatecore/internal/core"
	"estatecore/pkg/domain"
)

var listKinds = []string{"zones", "projects", "developers", "properties", "leads", "meetings", "contracts", "users"}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (a *app) renderList(w io.Writer, svc *core.Service, kind string) error {
	store := svc.Store()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch kind {
	case "zones":
		fmt.Fprintln(tw, "ID\tNAME\tPROPERTIES\tPROJECTS")
		for _, z := range store.ListZones() {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", z.ID, z.Name, z.Properties, z.Projects)
		}
	case "projects":
		fmt.Fprintln(tw, "ID\tNAME\tDEVELOPER\tZONE\tPLANS\tPROPERTIES")
		for _, p := range store.ListProjects() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", p.ID, p.Name, orDash(svc.DeveloperName(p.DeveloperID)), orDash(svc.ZoneName(p.ZoneID)), len(p.PaymentPlans), p.Properties)
		}
	case "developers":
		fmt.Fprintln(tw, "ID\tNAME\tPROJECTS")
		for _, d := range store.ListDevelopers() {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", d.ID, d.Name, d.Projects)
		}
	case "properties":
		fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tSTATUS\tZONE\tPROJECT")
		for _, p := range store.ListProperties() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, a.printer.Sprint(number.Decimal(p.Price)), p.Status, orDash(svc.ZoneName(p.ZoneID)), orDash(svc.ProjectName(p.ProjectID)))
		}
	case "leads":
		fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tASSIGNED\tCALLS\tVISITS")
		for _, l := range store.ListLeads() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", l.ID, l.Name, l.Status, orDash(l.AssignedTo), len(l.Calls), len(l.Visits))
		}
	case "meetings":
		fmt.Fprintln(tw, "ID\tTITLE\tLEAD\tDATE\tTIME\tSTATUS")
		for _, m := range store.ListMeetings() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", m.ID, m.Title, orDash(svc.LeadName(m.LeadID)), m.Date, m.Time, m.Status)
		}
	case "contracts":
		fmt.Fprintln(tw, "ID\tLEAD\tPROPERTY\tVALUE\tDATE\tSTATUS")
		for _, c := range store.ListContracts() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, orDash(svc.LeadName(c.LeadID)), orDash(svc.PropertyTitle(c.PropertyID)), c.DealValue, c.ContractDate, c.Status)
		}
	case "users":
		fmt.Fprintln(tw, "ID\tNAME\tROLE\tTEAM")
		for _, u := range store.ListUsers() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Role, orDash(u.TeamID))
		}
	default:
		return fmt.Errorf("unknown kind %q (want one of %s)", kind, strings.Join(listKinds, ", "))
	}
	return tw.Flush()
}

func (a *app) renderStatistics(w io.Writer, s core.StatisticsSnapshot) error {
	p := a.printer
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		value string
	}{
		{"Total prospects", p.Sprint(number.Decimal(s.TotalProspects))},
		{"Active leads", p.Sprint(number.Decimal(s.ActiveLeads))},
		{"Follow-ups", p.Sprint(number.Decimal(s.FollowUps))},
		{"Meetings today", p.Sprint(number.Decimal(s.TodayMeetings))},
		{"Monthly revenue", p.Sprint(number.Decimal(s.MonthlyRevenue.InexactFloat64(), number.MaxFractionDigits(2)))},
		{"Calls", p.Sprintf("%d (%d completed)", s.TotalCalls, s.CompletedCalls)},
		{"Meetings", p.Sprint(number.Decimal(s.TotalMeetings))},
		{"Closed deals", p.Sprint(number.Decimal(s.ClosedDeals))},
		{"Leads to follow-up", p.Sprintf("%d%%", s.Rates.LeadsToFollowUp)},
		{"Calls to meetings", p.Sprintf("%d%%", s.Rates.CallsToMeetings)},
		{"Meetings to deals", p.Sprintf("%d%%", s.Rates.MeetingsToDeals)},
		{"Call completion", p.Sprintf("%d%%", s.Rates.CallCompletionRate)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.label, row.value)
	}
	fmt.Fprintln(tw, "\t")
	for _, status := range domain.LeadStatuses {
		if n := s.LeadsByStatus[status]; n > 0 {
			fmt.Fprintf(tw, "%s\t%d\n", status, n)
		}
	}
	return tw.Flush()
}

func (a *app) renderSchedule(w io.Writer, rows []core.ScheduleRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no payment plan")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PAYMENT\tDUE\tAMOUNT\t")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", row.Label, orDash(row.DueDate), a.printer.Sprint(number.Decimal(row.Amount)))
	}
	fmt.Fprintf(tw, "Total\t\t%s\t\n", a.printer.Sprint(number.Decimal(core.ScheduleTotal(rows))))
	return tw.Flush()
}
