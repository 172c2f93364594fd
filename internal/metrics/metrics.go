package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cuse_rank"

// Результат прогона подсчета для метки outcome
const (
	OutcomeScored  = "scored"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
)

// Recorder хранит метрики приложения, зарегистрированные в одном реестре
type Recorder struct {
	scoringRuns     *prometheus.CounterVec
	scoringDuration prometheus.Histogram
	postersScored   prometheus.Counter
	postersSkipped  *prometheus.CounterVec
	scoresCache     *prometheus.CounterVec
	evaluations     prometheus.Counter
	wsConnections   prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// NewRecorder регистрирует метрики в reg. Для тестов передается отдельный prometheus.NewRegistry().
func NewRecorder(reg prometheus.Registerer) *Recorder {
	auto := promauto.With(reg)
	return &Recorder{
		scoringRuns: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "runs_total",
			Help:      "Number of scoring runs by outcome",
		}, []string{"outcome"}),
		scoringDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "run_duration_seconds",
			Help:      "Duration of scoring runs",
			Buckets:   prometheus.DefBuckets,
		}),
		postersScored: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "posters_scored_total",
			Help:      "Posters that received a rank",
		}),
		postersSkipped: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "posters_skipped_total",
			Help:      "Posters excluded from ranking by reason",
		}, []string{"reason"}),
		scoresCache: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "cache_lookups_total",
			Help:      "Score cache lookups by result",
		}, []string{"result"}),
		evaluations: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "judging",
			Name:      "evaluations_submitted_total",
			Help:      "Evaluations accepted from judges",
		}),
		wsConnections: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connections",
			Help:      "Active ranking subscriptions",
		}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status_code"}),
		httpLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// ObserveScoringRun учитывает один прогон подсчета
func (r *Recorder) ObserveScoringRun(outcome string, duration time.Duration, scored int, skippedByReason map[string]int) {
	if r == nil {
		return
	}
	r.scoringRuns.WithLabelValues(outcome).Inc()
	r.scoringDuration.Observe(duration.Seconds())
	r.postersScored.Add(float64(scored))
	for reason, n := range skippedByReason {
		r.postersSkipped.WithLabelValues(reason).Add(float64(n))
	}
}

// CacheHit и CacheMiss учитывают обращения к кешу рейтинга
func (r *Recorder) CacheHit() {
	if r != nil {
		r.scoresCache.WithLabelValues("hit").Inc()
	}
}

func (r *Recorder) CacheMiss() {
	if r != nil {
		r.scoresCache.WithLabelValues("miss").Inc()
	}
}

// EvaluationSubmitted учитывает принятую оценку
func (r *Recorder) EvaluationSubmitted() {
	if r != nil {
		r.evaluations.Inc()
	}
}

// WSConnected и WSDisconnected отслеживают число подписчиков на рейтинг
func (r *Recorder) WSConnected() {
	if r != nil {
		r.wsConnections.Inc()
	}
}

func (r *Recorder) WSDisconnected() {
	if r != nil {
		r.wsConnections.Dec()
	}
}

// GinMiddleware считает запросы и их длительность по шаблону маршрута
func (r *Recorder) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
