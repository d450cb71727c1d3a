package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatecore/pkg/domain"
)

func TestGenerateScheduleQuarterlyPlan(t *testing.T) {
	plan := &domain.PaymentPlan{
		DownPayment:          10,
		Delivery:             10,
		PayYears:             2,
		InstallmentPeriod:    domain.PeriodQuarterly,
		FirstInstallmentDate: "2025-01-01",
		DeliveryDate:         "2027-01-01",
	}
	rows := GenerateSchedule(1_000_000, plan)
	require.Len(t, rows, 10)

	assert.Equal(t, RowDownPayment, rows[0].Kind)
	assert.Equal(t, int64(100_000), rows[0].Amount)
	assert.Equal(t, "2025-01-01", rows[0].DueDate)

	var installments int64
	wantDates := []string{"2025-01-01", "2025-04-01", "2025-07-01", "2025-10-01", "2026-01-01", "2026-04-01", "2026-07-01", "2026-10-01"}
	for i, row := range rows[1:9] {
		assert.Equal(t, RowInstallment, row.Kind)
		assert.Equal(t, i+1, row.Sequence)
		assert.Equal(t, wantDates[i], row.DueDate)
		assert.Equal(t, int64(100_000), row.Amount)
		installments += row.Amount
	}
	assert.Equal(t, int64(800_000), installments)

	last := rows[9]
	assert.Equal(t, RowDelivery, last.Kind)
	assert.Equal(t, "Delivery", last.Label)
	assert.Equal(t, int64(100_000), last.Amount)
	assert.Equal(t, int64(1_000_000), ScheduleTotal(rows))
}

func TestGenerateScheduleSumsToPrice(t *testing.T) {
	plans := []domain.PaymentPlan{
		{DownPayment: 7.5, Delivery: 12.5, PayYears: 3, InstallmentPeriod: domain.PeriodMonthly, FirstInstallmentDate: "2025-02-15"},
		{DownPayment: 0, Delivery: 0, PayYears: 1, InstallmentPeriod: domain.PeriodSemiAnnual, FirstInstallmentDate: "2025-01-31"},
		{DownPayment: 33.3, Delivery: 33.3, PayYears: 5, InstallmentPeriod: domain.PeriodCustom, CustomMonths: 7, FirstInstallmentDate: "2025-03-01"},
		{DownPayment: 15, Delivery: 5, PayYears: 0, InstallmentPeriod: domain.PeriodQuarterly},
		{DownPayment: 60, Delivery: 40, PayYears: 4, InstallmentPeriod: domain.PeriodMonthly},
	}
	for _, price := range []int64{1, 999, 1_000_001, 7_654_321} {
		for i := range plans {
			rows := GenerateSchedule(price, &plans[i])
			assert.Equal(t, price, ScheduleTotal(rows), "price %d plan %d", price, i)
			for _, row := range rows {
				assert.GreaterOrEqual(t, row.Amount, int64(0))
			}
		}
	}
}

func TestGenerateScheduleDegenerateInputs(t *testing.T) {
	plan := &domain.PaymentPlan{DownPayment: 10, PayYears: 1, FirstInstallmentDate: "2025-01-01"}
	assert.Empty(t, GenerateSchedule(0, plan))
	assert.Empty(t, GenerateSchedule(-5, plan))
	assert.Empty(t, GenerateSchedule(1000, nil))

	over := &domain.PaymentPlan{DownPayment: 70, Delivery: 50, PayYears: 2, FirstInstallmentDate: "2025-01-01", DeliveryDate: "2026-01-01"}
	rows := GenerateSchedule(1000, over)
	require.Len(t, rows, 2)
	assert.Equal(t, RowDownPayment, rows[0].Kind)
	assert.Equal(t, int64(700), rows[0].Amount)
	assert.Equal(t, RowDelivery, rows[1].Kind)
	assert.Equal(t, int64(500), rows[1].Amount)
}

func TestGenerateScheduleSingleInstallmentWhenNoTerm(t *testing.T) {
	rows := GenerateSchedule(1000, &domain.PaymentPlan{DownPayment: 20, InstallmentPeriod: domain.PeriodMonthly, FirstInstallmentDate: "2025-05-10"})
	require.Len(t, rows, 2)
	assert.Equal(t, int64(800), rows[1].Amount)
	assert.Equal(t, "Installment 1", rows[1].Label)
}

func TestGenerateScheduleClampsToMonthEnd(t *testing.T) {
	rows := GenerateSchedule(1200, &domain.PaymentPlan{PayYears: 1, InstallmentPeriod: domain.PeriodMonthly, FirstInstallmentDate: "2024-01-31"})
	require.Len(t, rows, 12)
	assert.Equal(t, "2024-01-31", rows[0].DueDate)
	assert.Equal(t, "2024-02-29", rows[1].DueDate)
	assert.Equal(t, "2024-03-31", rows[2].DueDate)
	assert.Equal(t, "2024-04-30", rows[3].DueDate)
}

func TestGenerateScheduleOrdersByDueDateKeepingLabels(t *testing.T) {
	plan := &domain.PaymentPlan{
		DownPayment:          10,
		Delivery:             10,
		PayYears:             1,
		InstallmentPeriod:    domain.PeriodQuarterly,
		DownPaymentDate:      "2024-12-01",
		FirstInstallmentDate: "2025-01-01",
		DeliveryDate:         "2025-05-15",
	}
	rows := GenerateSchedule(1000, plan)
	require.Len(t, rows, 6)
	kinds := make([]ScheduleRowKind, len(rows))
	for i, row := range rows {
		kinds[i] = row.Kind
	}
	assert.Equal(t, []ScheduleRowKind{RowDownPayment, RowInstallment, RowInstallment, RowDelivery, RowInstallment, RowInstallment}, kinds)
	assert.Equal(t, "2024-12-01", rows[0].DueDate)
	assert.Equal(t, "Delivery", rows[3].Label)
	assert.Equal(t, "Installment 3", rows[4].Label)
}

func TestGenerateScheduleMissingDatesSortLast(t *testing.T) {
	rows := GenerateSchedule(1000, &domain.PaymentPlan{DownPayment: 10, Delivery: 10, PayYears: 1, InstallmentPeriod: domain.PeriodSemiAnnual, DeliveryDate: "2030-01-01"})
	require.Len(t, rows, 4)
	kinds := []ScheduleRowKind{rows[0].Kind, rows[1].Kind, rows[2].Kind, rows[3].Kind}
	assert.Equal(t, []ScheduleRowKind{RowDownPayment, RowDelivery, RowInstallment, RowInstallment}, kinds)
	assert.Equal(t, "", rows[0].DueDate)
	assert.Equal(t, "2030-01-01", rows[1].DueDate)
	assert.Equal(t, 1, rows[2].Sequence)
	assert.Equal(t, 2, rows[3].Sequence)
}

func TestGenerateScheduleUndatedDownPaymentStaysFirst(t *testing.T) {
	rows := GenerateSchedule(1000, &domain.PaymentPlan{DownPayment: 20, Delivery: 10, PayYears: 1, InstallmentPeriod: domain.PeriodSemiAnnual, FirstInstallmentDate: "2025-06-01", DeliveryDate: "2026-01-01", DownPaymentDate: "not a date"})
	require.Len(t, rows, 4)
	assert.Equal(t, RowDownPayment, rows[0].Kind)
	assert.Equal(t, "", rows[0].DueDate)
	assert.Equal(t, "2025-06-01", rows[1].DueDate)
	assert.Equal(t, "2025-12-01", rows[2].DueDate)
	assert.Equal(t, RowDelivery, rows[3].Kind)
}

func TestPeriodMonths(t *testing.T) {
	assert.Equal(t, 1, PeriodMonths(domain.PaymentPlan{InstallmentPeriod: domain.PeriodMonthly}))
	assert.Equal(t, 3, PeriodMonths(domain.PaymentPlan{InstallmentPeriod: domain.PeriodQuarterly}))
	assert.Equal(t, 6, PeriodMonths(domain.PaymentPlan{InstallmentPeriod: domain.PeriodSemiAnnual}))
	assert.Equal(t, 4, PeriodMonths(domain.PaymentPlan{InstallmentPeriod: domain.PeriodCustom, CustomMonths: 4}))
	assert.Equal(t, 1, PeriodMonths(domain.PaymentPlan{InstallmentPeriod: domain.PeriodCustom}))
	assert.Equal(t, 1, PeriodMonths(domain.PaymentPlan{InstallmentPeriod: "weekly"}))
}

func TestGenerateScheduleFullAllocationKeepsExactSum(t *testing.T) {
	rows := GenerateSchedule(1001, &domain.PaymentPlan{DownPayment: 50, Delivery: 50, FirstInstallmentDate: "2025-01-01", DeliveryDate: "2026-01-01"})
	require.Len(t, rows, 2)
	assert.Equal(t, int64(501), rows[0].Amount)
	assert.Equal(t, int64(500), rows[1].Amount)
	assert.Equal(t, int64(1001), ScheduleTotal(rows))
}
