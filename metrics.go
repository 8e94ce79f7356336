package main

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ttpr0/go-tour/resultcache"
)

//**********************************************************
// metrics
//**********************************************************

type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.HistogramVec
	cache_events  *prometheus.CounterVec
	graph_loads   *prometheus.CounterVec
	graph_load_dt prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tour_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		cache_events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tour_result_cache_events_total",
			Help: "Result cache lookups by outcome.",
		}, []string{"event"}),
		graph_loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tour_graph_loads_total",
			Help: "Network graph loads by result.",
		}, []string{"result"}),
		graph_load_dt: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tour_graph_load_duration_seconds",
			Help:    "Duration of network graph loads.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.cache_events,
		m.graph_loads,
		m.graph_load_dt,
		collectors.NewGoCollector(),
	)
	return m
}

func (self *Metrics) ObserveCache(key string, event resultcache.Event) {
	self.cache_events.WithLabelValues(event.String()).Inc()
}

func (self *Metrics) ObserveGraphLoad(took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	self.graph_loads.WithLabelValues(result).Inc()
	self.graph_load_dt.Observe(took.Seconds())
}

func (self *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(self.registry, promhttp.HandlerOpts{}))
}

// Middleware records request durations by route.
func (self *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		self.requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Observe(time.Since(start).Seconds())
	}
}
