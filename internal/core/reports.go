package core

import (
	"context"
	"fmt"

	"estatecore/pkg/domain"
)

// PropertySchedule builds the payment schedule for a property from the plan
// its payment_plan_index selects in its project. A property without a
// resolvable plan yields an empty schedule.
func (s *Service) PropertySchedule(ctx context.Context, propertyID string) ([]ScheduleRow, error) {
	var rows []ScheduleRow
	err := s.observe(ctx, "property_schedule", func(context.Context) error {
		property, ok := s.store.GetProperty(propertyID)
		if !ok {
			return domain.ErrNotFound{Entity: EntityProperty, ID: propertyID}
		}
		rows = []ScheduleRow{}
		if property.PaymentPlanIndex == nil {
			return nil
		}
		project, ok := s.store.GetProject(property.ProjectID)
		if !ok {
			return nil
		}
		plan, ok := project.Plan(*property.PaymentPlanIndex)
		if !ok {
			s.logger.Warn("payment plan index does not resolve", "property_id", propertyID, "index", *property.PaymentPlanIndex)
			return nil
		}
		rows = GenerateSchedule(property.Price, &plan)
		return nil
	})
	return rows, err
}

// ProjectSchedule builds the schedule for an arbitrary price on one of a project's plans.
func (s *Service) ProjectSchedule(ctx context.Context, projectID string, planIndex int, price int64) ([]ScheduleRow, error) {
	var rows []ScheduleRow
	err := s.observe(ctx, "project_schedule", func(context.Context) error {
		project, ok := s.store.GetProject(projectID)
		if !ok {
			return domain.ErrNotFound{Entity: EntityProject, ID: projectID}
		}
		plan, ok := project.Plan(planIndex)
		if !ok {
			return fmt.Errorf("project %s has no payment plan %d", projectID, planIndex)
		}
		rows = GenerateSchedule(price, &plan)
		return nil
	})
	return rows, err
}

// Statistics computes the dashboard snapshot as seen by the named user. An
// empty name sees everything; a name missing from the directory sees only
// records assigned to or created by that name.
func (s *Service) Statistics(ctx context.Context, actingUserName string) (StatisticsSnapshot, error) {
	var out StatisticsSnapshot
	err := s.observe(ctx, "statistics", func(ctx context.Context) error {
		return s.store.View(ctx, func(view TransactionView) error {
			in := StatisticsInput{
				Leads:     view.ListLeads(),
				Meetings:  view.ListMeetings(),
				Contracts: view.ListContracts(),
				Users:     view.ListUsers(),
				Now:       s.clock.Now().Local(),
			}
			if actingUserName != "" {
				in.ActingUser = &domain.User{Name: actingUserName}
				for _, u := range in.Users {
					if u.Name == actingUserName {
						u := u
						in.ActingUser = &u
						break
					}
				}
			}
			out = ComputeStatistics(in)
			return nil
		})
	})
	return out, err
}
