package interaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_likes_total",
			Help: "Likes recorded, by kind",
		},
		[]string{"kind"},
	)

	passesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interaction_passes_total",
			Help: "Passes recorded",
		},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interaction_matches_total",
			Help: "Matches created from mutual likes",
		},
	)

	unmatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interaction_unmatches_total",
			Help: "Matches dissolved by unmatch",
		},
	)
)

func recordLike(isSuper bool) {
	kind := "like"
	if isSuper {
		kind = "super_like"
	}
	likesTotal.WithLabelValues(kind).Inc()
}

func recordPass() {
	passesTotal.Inc()
}

func recordMatch() {
	matchesTotal.Inc()
}

func recordUnmatch() {
	unmatchesTotal.Inc()
}
