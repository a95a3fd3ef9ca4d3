package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"subscription-api/internal/domain/model"
)

func init() {
	register(
		subscriptionsExpiredTotal,
		subscriptionsTotal,
		lifecycleOpsTotal,
	)
}

var (
	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Total number of subscriptions processed by the expiry worker.",
		},
	)

	subscriptionsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "subscriptions_total",
			Help: "Current number of subscriptions by status.",
		},
		[]string{"status"}, // 'active', 'expired', 'cancelled'
	)

	lifecycleOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_lifecycle_ops_total",
			Help: "Lifecycle operations by operation and outcome.",
		},
		[]string{"op", "outcome"}, // op='subscribe'|'renew'|'cancel'|'switch', outcome='ok'|'conflict'|'not_found'|'error'
	)
)

func IncSubscriptionsExpired(count int) {
	subscriptionsExpiredTotal.Add(float64(count))
}

func IncLifecycleOp(op, outcome string) {
	lifecycleOpsTotal.WithLabelValues(norm(op), norm(outcome)).Inc()
}

func SetSubscriptionsTotal(counts map[model.SubscriptionStatus]int) {
	statuses := []model.SubscriptionStatus{
		model.SubscriptionStatusActive,
		model.SubscriptionStatusExpired,
		model.SubscriptionStatusCancelled,
	}
	// Statuses with zero rows are absent from counts; write 0 explicitly so
	// a gauge that drops to zero does not keep its last value.
	for _, status := range statuses {
		subscriptionsTotal.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}
