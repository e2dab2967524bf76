package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		claimsTotal,
		claimRewardPoints,
		streakLength,
	)
}

var (
	claimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_total",
			Help: "Daily claim attempts by outcome (granted/duplicate).",
		},
		[]string{"outcome"},
	)

	claimRewardPoints = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "claim_reward_points_total",
			Help: "Sum of points credited through daily claims.",
		},
	)

	streakLength = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "claim_streak_length",
			Help:    "Streak length observed at claim time.",
			Buckets: []float64{1, 2, 3, 5, 7, 14, 30, 60, 120},
		},
	)
)

func IncClaimGranted(reward, streak int) {
	claimsTotal.WithLabelValues("granted").Inc()
	claimRewardPoints.Add(float64(reward))
	streakLength.Observe(float64(streak))
}

func IncClaimDuplicate() {
	claimsTotal.WithLabelValues("duplicate").Inc()
}
