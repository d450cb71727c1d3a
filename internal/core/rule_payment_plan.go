package core

import (
	"context"
	"fmt"

	"estatecore/pkg/domain"
)

// NewPaymentPlanAllocationRule warns when a project plan allocates more than
// 100% to down payment and delivery, or uses a negative share.
func NewPaymentPlanAllocationRule() domain.Rule {
	return paymentPlanAllocationRule{}
}

type paymentPlanAllocationRule struct{}

func (paymentPlanAllocationRule) Name() string { return "payment_plan_allocation" }

func (r paymentPlanAllocationRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		project, ok := change.After.(domain.Project)
		if !ok {
			continue
		}
		for i, plan := range project.PaymentPlans {
			var msg string
			switch {
			case plan.DownPayment < 0 || plan.Delivery < 0:
				msg = fmt.Sprintf("project %s plan %d has a negative share", project.Name, i)
			case plan.DownPayment+plan.Delivery > 100:
				msg = fmt.Sprintf("project %s plan %d allocates %.2f%% to down payment and delivery", project.Name, i, plan.DownPayment+plan.Delivery)
			default:
				continue
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityWarn,
				Message:  msg,
				Entity:   domain.EntityProject,
				EntityID: project.ID,
			})
		}
	}
	return res, nil
}

// NewPaymentPlanIndexRule warns when a property's payment_plan_index does not
// select one of its project's plans. Such an index resolves to no plan.
func NewPaymentPlanIndexRule() domain.Rule {
	return paymentPlanIndexRule{}
}

type paymentPlanIndexRule struct{}

func (paymentPlanIndexRule) Name() string { return "payment_plan_index" }

func (r paymentPlanIndexRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		property, ok := change.After.(domain.Property)
		if !ok || property.PaymentPlanIndex == nil {
			continue
		}
		idx := *property.PaymentPlanIndex
		project, found := view.FindProject(property.ProjectID)
		if found {
			if _, ok := project.Plan(idx); ok {
				continue
			}
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("property %s payment plan index %d does not resolve", property.Title, idx),
			Entity:   domain.EntityProperty,
			EntityID: property.ID,
		})
	}
	return res, nil
}
