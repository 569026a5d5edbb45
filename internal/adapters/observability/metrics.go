package observability

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flavor", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flavor", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	JudgeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flavor", Name: "judge_requests_total", Help: "Judgment service calls."},
		[]string{"provider", "status"},
	)
	JudgeLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flavor", Name: "judge_request_duration_seconds",
			Help:    "Judgment service call duration seconds.",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 40, 90},
		},
		[]string{"provider"},
	)
	ReviewsExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "flavor", Name: "reviews_extracted_total", Help: "Review records emitted by the extractor."},
	)
	GroupOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flavor", Name: "analysis_groups_total", Help: "Flavor groups analyzed."},
		[]string{"outcome"}, // ok|failed|empty
	)
	SyncOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flavor", Name: "sync_flavors_total", Help: "Flavors synchronized to the store."},
		[]string{"outcome"}, // synced|skipped|failed
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "flavor", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func init() {
	prometheus.MustRegister(JudgeRequests, JudgeLatency, ReviewsExtracted, GroupOutcomes, SyncOutcomes)
}

// Serve exposes the default registry on METRICS_ADDR for the batch stages.
func Serve(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// InitRegistry builds the API's registry.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveJudge(provider string, status int, dur time.Duration) {
	JudgeRequests.WithLabelValues(provider, strconv.Itoa(status)).Inc()
	JudgeLatency.WithLabelValues(provider).Observe(dur.Seconds())
}

func ObserveExtracted(n int) { ReviewsExtracted.Add(float64(n)) }

func ObserveGroup(outcome string) { GroupOutcomes.WithLabelValues(outcome).Inc() }

func ObserveSync(outcome string) { SyncOutcomes.WithLabelValues(outcome).Inc() }

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
