package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registerOnce       sync.Once
	ratingRequests     *prometheus.CounterVec
	commentRequests    *prometheus.CounterVec
	pageReads          *prometheus.CounterVec
	storeQueryDuration *prometheus.HistogramVec
	rateLimited        *prometheus.CounterVec
)

const namespaceMetrics = "community"

// 结果标签。
const (
	ResultOK          = "ok"
	ResultEmpty       = "empty"
	ResultRejected    = "rejected"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)

// MustRegister 注册业务指标与 Go 运行时采集器，启动时调用一次。
func MustRegister() {
	registerOnce.Do(func() {
		ratingRequests = registerCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespaceMetrics,
				Subsystem: "content",
				Name:      "ratings_total",
				Help:      "评分写入次数，按内容类型与结果统计。",
			},
			[]string{"kind", "result"},
		))
		commentRequests = registerCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespaceMetrics,
				Subsystem: "content",
				Name:      "comments_total",
				Help:      "评论写入次数，按内容类型与结果统计。",
			},
			[]string{"kind", "result"},
		))
		pageReads = registerCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespaceMetrics,
				Subsystem: "content",
				Name:      "page_reads_total",
				Help:      "分页读取次数，status 区分 ok/empty/unavailable。",
			},
			[]string{"kind", "status"},
		))
		storeQueryDuration = registerHistogramVec(prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespaceMetrics,
				Subsystem: "store",
				Name:      "query_duration_seconds",
				Help:      "存储层操作耗时。",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		))
		rateLimited = registerCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespaceMetrics,
				Subsystem: "http",
				Name:      "rate_limited_total",
				Help:      "被限流拒绝的请求数，按策略统计。",
			},
			[]string{"policy"},
		))

		registerRuntimeCollectors()
	})
}

// RecordRating 记录一次评分写入。
func RecordRating(kind, result string) {
	if ratingRequests == nil {
		return
	}
	ratingRequests.WithLabelValues(normalizeLabel(kind, "unknown"), normalizeLabel(result, "unknown")).Inc()
}

// RecordComment 记录一次评论写入。
func RecordComment(kind, result string) {
	if commentRequests == nil {
		return
	}
	commentRequests.WithLabelValues(normalizeLabel(kind, "unknown"), normalizeLabel(result, "unknown")).Inc()
}

// RecordPageRead 记录一次分页读取。
func RecordPageRead(kind, status string) {
	if pageReads == nil {
		return
	}
	pageReads.WithLabelValues(normalizeLabel(kind, "unknown"), normalizeLabel(status, "unknown")).Inc()
}

// ObserveStore 记录存储操作耗时，常与 defer 搭配：defer metrics.ObserveStore("page", time.Now())。
func ObserveStore(operation string, started time.Time) {
	if storeQueryDuration == nil {
		return
	}
	storeQueryDuration.WithLabelValues(normalizeLabel(operation, "unspecified")).Observe(time.Since(started).Seconds())
}

// RecordRateLimited 记录一次限流拒绝。
func RecordRateLimited(policy string) {
	if rateLimited == nil {
		return
	}
	rateLimited.WithLabelValues(normalizeLabel(policy, "default")).Inc()
}

func normalizeLabel(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func registerCounterVec(vec *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return vec
}

func registerHistogramVec(vec *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := prometheus.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return vec
}

func registerRuntimeCollectors() {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}
