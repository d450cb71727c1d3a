package core

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"estatecore/pkg/domain"
)

// ScheduleRowKind tags the semantic meaning of a schedule row.
type ScheduleRowKind string

const (
	RowDownPayment ScheduleRowKind = "down_payment"
	RowInstallment ScheduleRowKind = "installment"
	RowDelivery    ScheduleRowKind = "delivery"
)

// ScheduleRow is one dated payment. Sequence numbers installments from 1 and is
// zero for the down payment and delivery rows. DueDate is YYYY-MM-DD or empty.
type ScheduleRow struct {
	Kind     ScheduleRowKind `json:"kind"`
	Sequence int             `json:"sequence"`
	Label    string          `json:"label"`
	DueDate  string          `json:"due_date"`
	Amount   int64           `json:"amount"`
}

var hundred = decimal.NewFromInt(100)

// PeriodMonths returns the months between installments for a plan. Custom
// periods below one month fall back to monthly, as do unknown periods.
func PeriodMonths(plan domain.PaymentPlan) int {
	switch plan.InstallmentPeriod {
	case domain.PeriodQuarterly:
		return 3
	case domain.PeriodSemiAnnual:
		return 6
	case domain.PeriodCustom:
		if plan.CustomMonths > 0 {
			return plan.CustomMonths
		}
		return 1
	default:
		return 1
	}
}

// GenerateSchedule expands a payment plan into dated rows whose amounts sum to
// price whenever down payment and delivery together stay within 100%.
func GenerateSchedule(price int64, plan *domain.PaymentPlan) []ScheduleRow {
	if price <= 0 || plan == nil {
		return []ScheduleRow{}
	}
	total := decimal.NewFromInt(price)
	share := func(percent float64) int64 {
		if percent <= 0 {
			return 0
		}
		return total.Mul(decimal.NewFromFloat(percent)).Div(hundred).Round(0).IntPart()
	}

	var rows []ScheduleRow
	down := share(plan.DownPayment)
	if down > 0 {
		due := plan.DownPaymentDate
		if due == "" {
			due = plan.FirstInstallmentDate
		}
		rows = append(rows, ScheduleRow{Kind: RowDownPayment, Label: "Down Payment", DueDate: normalizeDate(due), Amount: down})
	}
	delivery := share(plan.Delivery)
	if delivery > 0 && decimal.NewFromFloat(plan.DownPayment).Add(decimal.NewFromFloat(plan.Delivery)).Equal(hundred) {
		// A plan without installments hands the rounding remainder to delivery.
		delivery = price - down
	}

	var remaining int64
	if plan.InstallmentPercent() > 0 {
		remaining = price - down - delivery
	}
	if remaining > 0 {
		months := PeriodMonths(*plan)
		count := plan.PayYears * 12 / months
		if count <= 0 {
			count = 1
		}
		each := decimal.NewFromInt(remaining).Div(decimal.NewFromInt(int64(count))).Floor().IntPart()
		first, firstOK := parseDate(plan.FirstInstallmentDate)
		for i := 0; i < count; i++ {
			amount := each
			if i == count-1 {
				amount = remaining - each*int64(count-1)
			}
			due := ""
			if firstOK {
				due = addMonthsClamped(first, i*months).Format(domain.DateLayout)
			}
			rows = append(rows, ScheduleRow{
				Kind:     RowInstallment,
				Sequence: i + 1,
				Label:    "Installment " + strconv.Itoa(i+1),
				DueDate:  due,
				Amount:   amount,
			})
		}
	}
	if delivery > 0 {
		rows = append(rows, ScheduleRow{Kind: RowDelivery, Label: "Delivery", DueDate: normalizeDate(plan.DeliveryDate), Amount: delivery})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, di := dueRank(rows[i])
		rj, dj := dueRank(rows[j])
		if ri != rj {
			return ri < rj
		}
		return di < dj
	})
	return rows
}

// dueRank orders rows by due date. An undated down payment stays first;
// other undated rows go last.
func dueRank(row ScheduleRow) (int, string) {
	switch {
	case row.DueDate != "":
		return 1, row.DueDate
	case row.Kind == RowDownPayment:
		return 0, ""
	default:
		return 2, ""
	}
}

// ScheduleTotal sums the row amounts.
func ScheduleTotal(rows []ScheduleRow) int64 {
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(decimal.NewFromInt(row.Amount))
	}
	return sum.IntPart()
}

func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func normalizeDate(value string) string {
	t, ok := parseDate(value)
	if !ok {
		return ""
	}
	return t.Format(domain.DateLayout)
}

// addMonthsClamped moves t forward by months, keeping the day of month but
// clamping it to the last day of the target month.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := target.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, time.UTC)
}
