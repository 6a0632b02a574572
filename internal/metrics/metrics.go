// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層やミドルウェアから利用する。
type MetricsCollector interface {
	RecordLogin(kind string)
	RecordCommentCreated()
	RecordNotificationCreated()
	RecordNotificationFailure()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	logins              *prometheus.CounterVec
	commentsCreated     prometheus.Counter
	notificationsOK     prometheus.Counter
	notificationsFailed prometheus.Counter
	httpStatus          *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillplus_login_total",
			Help: "認証成功の合計数（kind: local, federated, register）",
		}, []string{"kind"}),
		commentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillplus_comments_created_total",
			Help: "作成されたコメントの合計数",
		}),
		notificationsOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillplus_notifications_created_total",
			Help: "作成された通知の合計数",
		}),
		notificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillplus_notification_failures_total",
			Help: "作成に失敗した通知の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillplus_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.logins,
		c.commentsCreated,
		c.notificationsOK,
		c.notificationsFailed,
		c.httpStatus,
	)

	return c
}

// RecordLogin は認証成功を種別ごとに記録する。
func (c *Collector) RecordLogin(kind string) {
	c.logins.WithLabelValues(kind).Inc()
}

// RecordCommentCreated はコメント作成を記録する。
func (c *Collector) RecordCommentCreated() {
	c.commentsCreated.Inc()
}

// RecordNotificationCreated は通知作成の成功を記録する。
func (c *Collector) RecordNotificationCreated() {
	c.notificationsOK.Inc()
}

// RecordNotificationFailure は通知作成の失敗を記録する。
func (c *Collector) RecordNotificationFailure() {
	c.notificationsFailed.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
