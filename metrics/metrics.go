// Package metrics holds the prometheus collectors of the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TweetsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirper_tweets_created_total",
		Help: "Number of tweets created.",
	})

	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirper_like_toggles_total",
		Help: "Number of like toggles, by resulting action.",
	}, []string{"action"})

	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirper_feed_requests_total",
		Help: "Number of feed page requests, by filter.",
	}, []string{"filter"})

	FeedQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chirper_feed_query_duration_seconds",
		Help:    "Latency of feed page queries.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
