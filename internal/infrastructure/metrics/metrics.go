package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// AffiliateMetrics holds the engine counters. A nil *AffiliateMetrics is valid
// and records nothing.
type AffiliateMetrics struct {
	// Leads
	LeadsSubmittedTotal  prometheus.Counter
	LeadTransitionsTotal *prometheus.CounterVec
	LeadsConvertedTotal  prometheus.Counter

	// Commissions
	CommissionsCreatedTotal       *prometheus.CounterVec
	CommissionsCreatedAmountTotal *prometheus.CounterVec
	CommissionStatusChangesTotal  *prometheus.CounterVec

	// Payouts
	PayoutRequestsTotal        *prometheus.CounterVec
	PayoutAllocatedAmountTotal *prometheus.CounterVec
	PayoutShortfallAmountTotal prometheus.Counter

	// Rate settings
	RateSettingsChangesTotal prometheus.Counter
	RateCacheLookupsTotal    *prometheus.CounterVec

	// Operations
	OperationErrorsTotal *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
}

// NewAffiliateMetrics registers every collector on reg.
func NewAffiliateMetrics(reg prometheus.Registerer) *AffiliateMetrics {
	f := promauto.With(reg)

	return &AffiliateMetrics{
		LeadsSubmittedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "affiliate_leads_submitted_total",
			Help: "Number of submitted leads",
		}),
		LeadTransitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_lead_transitions_total",
				Help: "Lead status changes by source and target status",
			},
			[]string{"from", "to"},
		),
		LeadsConvertedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "affiliate_leads_converted_total",
			Help: "Number of leads moved to sold",
		}),

		CommissionsCreatedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_commissions_created_total",
				Help: "Number of created commissions by type",
			},
			[]string{"type"},
		),
		CommissionsCreatedAmountTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_commissions_created_amount_total",
				Help: "Sum of created commission amounts by type",
			},
			[]string{"type"},
		),
		CommissionStatusChangesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_commission_status_changes_total",
				Help: "Commission status changes by target status",
			},
			[]string{"status"},
		),

		PayoutRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_payout_requests_total",
				Help: "Number of payout requests by method and allocation outcome",
			},
			[]string{"method", "partial"},
		),
		PayoutAllocatedAmountTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_payout_allocated_amount_total",
				Help: "Sum of commission amounts claimed by payout requests",
			},
			[]string{"method"},
		),
		PayoutShortfallAmountTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "affiliate_payout_shortfall_amount_total",
			Help: "Sum of requested payout amounts that could not be allocated",
		}),

		RateSettingsChangesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "affiliate_rate_settings_changes_total",
			Help: "Number of new rate settings versions",
		}),
		RateCacheLookupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_rate_cache_lookups_total",
				Help: "Active rate settings cache lookups by result",
			},
			[]string{"result"},
		),

		OperationErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affiliate_operation_errors_total",
				Help: "Failed operations by name",
			},
			[]string{"operation"},
		),
		OperationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "affiliate_operation_duration_seconds",
				Help:    "Operation latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"operation"},
		),
	}
}

func (m *AffiliateMetrics) RecordLeadSubmitted() {
	if m == nil {
		return
	}
	m.LeadsSubmittedTotal.Inc()
}

func (m *AffiliateMetrics) RecordLeadTransition(from, to string) {
	if m == nil {
		return
	}
	m.LeadTransitionsTotal.WithLabelValues(from, to).Inc()
	if to == "sold" {
		m.LeadsConvertedTotal.Inc()
	}
}

func (m *AffiliateMetrics) RecordCommissionCreated(commissionType string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.CommissionsCreatedTotal.WithLabelValues(commissionType).Inc()
	m.CommissionsCreatedAmountTotal.WithLabelValues(commissionType).Add(amount.InexactFloat64())
}

func (m *AffiliateMetrics) RecordCommissionStatus(status string) {
	if m == nil {
		return
	}
	m.CommissionStatusChangesTotal.WithLabelValues(status).Inc()
}

func (m *AffiliateMetrics) RecordPayoutRequested(method string, allocated, shortfall decimal.Decimal, partial bool) {
	if m == nil {
		return
	}
	p := "false"
	if partial {
		p = "true"
	}
	m.PayoutRequestsTotal.WithLabelValues(method, p).Inc()
	m.PayoutAllocatedAmountTotal.WithLabelValues(method).Add(allocated.InexactFloat64())
	if shortfall.IsPositive() {
		m.PayoutShortfallAmountTotal.Add(shortfall.InexactFloat64())
	}
}

func (m *AffiliateMetrics) RecordRateSettingsChanged() {
	if m == nil {
		return
	}
	m.RateSettingsChangesTotal.Inc()
}

// RecordRateCacheLookup takes one of hit, miss or error.
func (m *AffiliateMetrics) RecordRateCacheLookup(result string) {
	if m == nil {
		return
	}
	m.RateCacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveOperation records latency for operation and counts it as failed when
// err is not nil. Meant to be deferred with a pointer to the named result.
func (m *AffiliateMetrics) ObserveOperation(operation string, started time.Time, err *error) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if err != nil && *err != nil {
		m.OperationErrorsTotal.WithLabelValues(operation).Inc()
	}
}
