package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"estatecore/pkg/domain"
)

// PrometheusRecorder implements MetricsRecorder with Prometheus collectors and
// publishes dashboard gauges from statistics snapshots.
type PrometheusRecorder struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	counts     *prometheus.GaugeVec
	rates      *prometheus.GaugeVec
	leads      *prometheus.GaugeVec
	revenue    prometheus.Gauge
}

// NewPrometheusRecorder creates the collectors and registers them with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "estatecore",
			Name:      "operations_total",
			Help:      "Service operations by name and outcome.",
		}, []string{"operation", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "estatecore",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
		counts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "estatecore",
			Subsystem: "dashboard",
			Name:      "count",
			Help:      "Dashboard counters from the latest statistics snapshot.",
		}, []string{"metric"}),
		rates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "estatecore",
			Subsystem: "dashboard",
			Name:      "conversion_rate_percent",
			Help:      "Conversion rates from the latest statistics snapshot.",
		}, []string{"rate"}),
		leads: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "estatecore",
			Subsystem: "dashboard",
			Name:      "leads",
			Help:      "Leads by funnel status.",
		}, []string{"status"}),
		revenue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "estatecore",
			Subsystem: "dashboard",
			Name:      "monthly_revenue",
			Help:      "Signed contract value in the current month.",
		}),
	}
	for _, c := range []prometheus.Collector{r.operations, r.latency, r.counts, r.rates, r.leads, r.revenue} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	r.operations.WithLabelValues(operation, status).Inc()
	r.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

// PublishStatistics sets the dashboard gauges from snapshot.
func (r *PrometheusRecorder) PublishStatistics(snapshot StatisticsSnapshot) {
	counts := map[string]int{
		"total_prospects": snapshot.TotalProspects,
		"active_leads":    snapshot.ActiveLeads,
		"follow_ups":      snapshot.FollowUps,
		"today_meetings":  snapshot.TodayMeetings,
		"total_calls":     snapshot.TotalCalls,
		"completed_calls": snapshot.CompletedCalls,
		"total_meetings":  snapshot.TotalMeetings,
		"closed_deals":    snapshot.ClosedDeals,
	}
	for metric, v := range counts {
		r.counts.WithLabelValues(metric).Set(float64(v))
	}
	r.rates.WithLabelValues("leads_to_follow_up").Set(float64(snapshot.Rates.LeadsToFollowUp))
	r.rates.WithLabelValues("calls_to_meetings").Set(float64(snapshot.Rates.CallsToMeetings))
	r.rates.WithLabelValues("meetings_to_deals").Set(float64(snapshot.Rates.MeetingsToDeals))
	r.rates.WithLabelValues("call_completion").Set(float64(snapshot.Rates.CallCompletionRate))
	for _, status := range domain.LeadStatuses {
		r.leads.WithLabelValues(string(status)).Set(float64(snapshot.LeadsByStatus[status]))
	}
	r.revenue.Set(snapshot.MonthlyRevenue.InexactFloat64())
}
