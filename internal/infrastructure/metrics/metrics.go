package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	PostingsRecorded *prometheus.CounterVec
	PostingErrors    *prometheus.CounterVec
	PostingDuration  prometheus.Histogram
	PostingAmount    prometheus.Histogram

	// Ledger metrics
	EntriesPosted   prometheus.Counter
	EntriesReversed prometheus.Counter
	BalanceReads    prometheus.Counter

	// Payment metrics
	PaymentsRecorded *prometheus.CounterVec

	// Inventory metrics
	InboundMovements  prometheus.Counter
	OutboundMovements prometheus.Counter
	StockRejections   prometheus.Counter
	ProductionRuns    prometheus.Counter

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Database metrics
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisErrors *prometheus.CounterVec

	// Outbox metrics
	OutboxPending   prometheus.Gauge
	OutboxPublished prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Posting metrics
		PostingsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmledger_postings_total",
				Help: "Total postings recorded by kind and payment method",
			},
			[]string{"kind", "method"},
		),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmledger_posting_errors_total",
				Help: "Total posting failures by error type",
			},
			[]string{"error_type"},
		),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "farmledger_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		PostingAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "farmledger_posting_amount",
			Help:    "Posting totals in the primary currency",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),

		// Ledger metrics
		EntriesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_entries_posted_total",
			Help: "Total ledger entries appended",
		}),
		EntriesReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_entries_reversed_total",
			Help: "Total ledger entries reversed",
		}),
		BalanceReads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_balance_reads_total",
			Help: "Total balance reads",
		}),

		// Payment metrics
		PaymentsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmledger_payments_total",
				Help: "Total payments recorded by kind",
			},
			[]string{"kind"},
		),

		// Inventory metrics
		InboundMovements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_inventory_inbound_total",
			Help: "Total inbound stock movements",
		}),
		OutboundMovements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_inventory_outbound_total",
			Help: "Total outbound stock movements",
		}),
		StockRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_stock_rejections_total",
			Help: "Total outbound requests rejected for insufficient stock",
		}),
		ProductionRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_production_runs_total",
			Help: "Total production runs recorded",
		}),

		// Cache metrics
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_cache_hits_total",
			Help: "Total cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_cache_misses_total",
			Help: "Total cache misses",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "farmledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "farmledger_http_in_flight",
			Help: "HTTP requests currently being handled",
		}),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "farmledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Outbox metrics
		OutboxPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "farmledger_outbox_pending",
			Help: "Unpublished outbox events",
		}),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "farmledger_outbox_published_total",
			Help: "Total outbox events published",
		}),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
