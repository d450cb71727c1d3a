package core

import (
	"context"
	"time"

	"estatecore/pkg/domain"
)

// SeedSnapshot returns the demo dataset imported into an empty store. Dates
// are relative to now so the dashboard has meetings today and revenue this month.
// Back-reference sets are left empty; import rebuilds them from foreign keys.
func SeedSnapshot(now time.Time) Snapshot {
	base := func(id string) domain.Base {
		return domain.Base{ID: id, CreatedAt: now, UpdatedAt: now}
	}
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format(domain.DateLayout) }
	firstPlan, secondPlan := 0, 1

	return Snapshot{
		Zones: []Zone{
			{Base: base("zone-new-cairo"), Name: "New Cairo", Description: "Fifth Settlement and surroundings", Latitude: 30.0074, Longitude: 31.4913},
			{Base: base("zone-sheikh-zayed"), Name: "Sheikh Zayed", Description: "West Cairo residential belt", Latitude: 30.0444, Longitude: 30.9761},
			{Base: base("zone-north-coast"), Name: "North Coast", Description: "Seasonal coastal compounds", Latitude: 30.8761, Longitude: 28.9421},
		},
		Developers: []Developer{
			{Base: base("dev-palm-hills"), Name: "Palm Hills Developments", Email: "sales@palmhills.example", Website: "https://palmhills.example"},
			{Base: base("dev-sodic"), Name: "SODIC", Email: "info@sodic.example", Phone: "+20 2 1234 5678"},
		},
		Projects: []Project{
			{
				Base:          base("proj-palm-hills-nc"),
				Name:          "Palm Hills New Cairo",
				DeveloperName: "Palm Hills Developments",
				DeveloperID:   "dev-palm-hills",
				ZoneID:        "zone-new-cairo",
				PaymentPlans: []PaymentPlan{
					{Name: "10% over 8 years", DownPayment: 10, Delivery: 0, InstallmentPeriod: domain.PeriodQuarterly, PayYears: 8, FirstInstallmentDate: day(30), DeliveryDate: now.AddDate(4, 0, 0).Format(domain.DateLayout)},
					{Name: "Cash discount", DownPayment: 50, Delivery: 50, InstallmentPeriod: domain.PeriodMonthly, PayYears: 0, FirstInstallmentDate: day(7), DeliveryDate: now.AddDate(3, 0, 0).Format(domain.DateLayout)},
				},
			},
			{
				Base:          base("proj-sodic-west"),
				Name:          "SODIC West",
				DeveloperName: "SODIC",
				DeveloperID:   "dev-sodic",
				ZoneID:        "zone-sheikh-zayed",
				PaymentPlans: []PaymentPlan{
					{Name: "5/5 semi-annual", DownPayment: 5, Delivery: 5, InstallmentPeriod: domain.PeriodSemiAnnual, PayYears: 7, FirstInstallmentDate: day(90), DeliveryDate: now.AddDate(5, 0, 0).Format(domain.DateLayout)},
				},
			},
		},
		Properties: []Property{
			{Base: base("prop-villa-nc"), Title: "Standalone Villa", Type: "Villa", Price: 18_500_000, Location: "Palm Hills New Cairo", Area: 410, Bedrooms: 5, Bathrooms: 5, Parking: 2, Amenities: []string{"Garden", "Pool"}, Status: domain.PropertyAvailable, ZoneID: "zone-new-cairo", ProjectID: "proj-palm-hills-nc", PaymentPlanIndex: &firstPlan},
			{Base: base("prop-apt-nc"), Title: "Garden Apartment", Type: "Apartment", Price: 6_200_000, Location: "Palm Hills New Cairo", Area: 165, Bedrooms: 3, Bathrooms: 2, Parking: 1, Amenities: []string{"Garden"}, Status: domain.PropertyAvailable, ZoneID: "zone-new-cairo", ProjectID: "proj-palm-hills-nc", PaymentPlanIndex: &secondPlan},
			{Base: base("prop-twin-sz"), Title: "Twin House", Type: "Townhouse", Price: 12_750_000, Location: "SODIC West", Area: 290, Bedrooms: 4, Bathrooms: 3, Parking: 2, Amenities: []string{"Clubhouse", "Gym"}, Status: domain.PropertySold, ZoneID: "zone-sheikh-zayed", ProjectID: "proj-sodic-west", PaymentPlanIndex: &firstPlan},
			{Base: base("prop-chalet-nc"), Title: "Sea View Chalet", Type: "Chalet", Price: 4_900_000, Location: "Sidi Abdel Rahman", Area: 120, Bedrooms: 2, Bathrooms: 2, Amenities: []string{"Beach Access"}, Status: domain.PropertyRented, ZoneID: "zone-north-coast"},
		},
		Users: []User{
			{Base: base("user-admin"), Name: "Admin", Email: "admin@estate.example", Role: domain.RoleAdmin},
			{Base: base("user-leader"), Name: "Karim", Email: "karim@estate.example", Role: domain.RoleTeamLeader},
			{Base: base("user-rep-1"), Name: "Salma", Email: "salma@estate.example", Role: domain.RoleSalesRep, TeamID: "Karim"},
			{Base: base("user-rep-2"), Name: "Omar", Email: "omar@estate.example", Role: domain.RoleSalesRep, TeamID: "Karim"},
		},
		Leads: []Lead{
			{
				Base: base("lead-1"), Name: "Hassan Fathy", Phone: "+20 100 000 0001", Source: "Facebook", Budget: 7_000_000,
				AssignedTo: "Salma", CreatedBy: "Karim", Status: domain.LeadFollowUp,
				Calls: []domain.CallLog{
					{ID: "call-1", Date: day(-3), Outcome: "Interested", Duration: 6},
					{ID: "call-2", Date: day(-1), Outcome: "No Answer", Duration: 0},
				},
			},
			{
				Base: base("lead-2"), Name: "Nour Adel", Phone: "+20 100 000 0002", Source: "Referral", Budget: 13_000_000,
				AssignedTo: "Omar", CreatedBy: "Omar", Status: domain.LeadClosedDeal,
				Calls:  []domain.CallLog{{ID: "call-3", Date: day(-10), Outcome: "Meeting Scheduled", Duration: 12}},
				Visits: []domain.VisitLog{{ID: "visit-1", Date: day(-7), PropertyID: "prop-twin-sz", Outcome: "Liked the layout"}},
			},
			{
				Base: base("lead-3"), Name: "Youssef Samir", Source: "Website", Budget: 5_000_000,
				AssignedTo: "Salma", CreatedBy: "Salma", Status: domain.LeadFreshLead,
			},
			{
				Base: base("lead-4"), Name: "Mariam Tarek", Source: "Walk-in", Budget: 20_000_000,
				AssignedTo: "Karim", CreatedBy: "Karim", Status: domain.LeadVIP,
				Calls: []domain.CallLog{{ID: "call-4", Date: day(-2), Outcome: "Follow Up Required", Duration: 9}},
			},
		},
		Meetings: []Meeting{
			{Base: base("meet-1"), Title: "Site visit", Client: "Hassan Fathy", LeadID: "lead-1", Date: day(0), Time: "11:00", Duration: 60, Type: "Site Visit", Status: domain.MeetingScheduled, Assignee: "Salma", CreatedBy: "Salma"},
			{Base: base("meet-2"), Title: "Contract review", Client: "Nour Adel", LeadID: "lead-2", Date: day(-5), Time: "15:30", Duration: 45, Type: "Office", Status: domain.MeetingCompleted, Assignee: "Omar", CreatedBy: "Omar"},
		},
		Contracts: []Contract{
			{Base: base("contract-1"), LeadID: "lead-2", PropertyID: "prop-twin-sz", DealValue: "EGP 12,750,000", ContractDate: day(0), Status: domain.ContractSigned, CreatedBy: "Omar"},
		},
	}
}

// SeedIfEmpty imports SeedSnapshot when the store holds no records. It reports whether it seeded.
func (s *Service) SeedIfEmpty(ctx context.Context) (bool, error) {
	if !s.store.ExportState().Empty() {
		return false, nil
	}
	if err := s.ImportSnapshot(ctx, SeedSnapshot(s.clock.Now().Local())); err != nil {
		return false, err
	}
	s.logger.Info("seeded empty store")
	return true, nil
}
