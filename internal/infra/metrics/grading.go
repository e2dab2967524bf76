package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		submissionsGraded,
		assistantCalls,
	)
}

var (
	submissionsGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_graded_total",
			Help: "Graded submissions by path (auto/manual) and decision.",
		},
		[]string{"path", "decision"},
	)

	assistantCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_calls_total",
			Help: "Assistant invocations by outcome (ok/fallback).",
		},
		[]string{"outcome"},
	)
)

func IncSubmissionGraded(path, decision string) {
	submissionsGraded.WithLabelValues(path, decision).Inc()
}

func IncAssistantCall(outcome string) {
	assistantCalls.WithLabelValues(outcome).Inc()
}
