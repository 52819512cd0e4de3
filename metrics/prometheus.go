package metrics

import "github.com/prometheus/client_golang/prometheus"

var HttpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests received",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"endpoint", "method"},
)

var HttpErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "Total number of failed HTTP requests (4xx/5xx)",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRateLimitRejectionsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "http_rate_limit_rejections_total",
		Help: "Total number of HTTP requests rejected due to rate limiting",
	},
)

var ActivationRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "domain_activation_runs_total",
		Help: "Total number of domain activation runs by final status",
	},
	[]string{"status"},
)

var ActivationStepsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "domain_activation_steps_total",
		Help: "Total number of activation step outcomes",
	},
	[]string{"step", "status"},
)

var ActivationRunDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "domain_activation_run_duration_seconds",
		Help:    "Duration of a full domain activation run",
		Buckets: prometheus.DefBuckets,
	},
)

var NotificationsAttemptedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_attempted_total",
		Help: "Total number of notifications attempted",
	},
	[]string{"channel", "status", "provider"},
)

var NotificationSendDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "notification_send_duration_seconds",
		Help:    "Time taken to send notifications via external providers",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider", "channel"},
)

var NotificationRetriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_retries_total",
		Help: "Total number of notification retries",
	},
	[]string{"reason", "channel"},
)

var KafkaPublishSuccessTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_publish_success_total",
		Help: "Total number of successful Kafka publishes",
	},
	[]string{"topic"},
)

var KafkaPublishFailureTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_publish_failure_total",
		Help: "Total number of failed Kafka publishes",
	},
	[]string{"topic"},
)

var KafkaSubscriberFailureTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_subscriber_failure_total",
		Help: "Total number of failed Kafka subscribes",
	},
	[]string{"topic"},
)

var KafkaConsumerLag = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "kafka_consumer_lag",
		Help: "Lag of Kafka consumer group per topic",
	},
	[]string{"group", "topic"},
)

var KafkaRebalancesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_rebalances_total",
		Help: "Number of Kafka consumer group rebalances",
	},
	[]string{"group"},
)

var ExternalAPISuccessTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "external_api_success_total",
		Help: "Total number of successful external API calls",
	},
	[]string{"provider", "service"},
)

var ExternalAPIFailureTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "external_api_failure_total",
		Help: "Total number of failed external API calls",
	},
	[]string{"provider", "service"},
)

var ExternalAPIDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "external_api_duration_seconds",
		Help:    "Duration of external API calls in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider", "service"},
)

func InitAPIMetrics() {
	prometheus.MustRegister(HttpRequestsTotal)
	prometheus.MustRegister(HttpRequestDuration)
	prometheus.MustRegister(HttpErrorsTotal)
	prometheus.MustRegister(HttpRateLimitRejectionsTotal)
	prometheus.MustRegister(ActivationRunsTotal)
	prometheus.MustRegister(ActivationStepsTotal)
	prometheus.MustRegister(ActivationRunDuration)
	prometheus.MustRegister(ExternalAPISuccessTotal)
	prometheus.MustRegister(ExternalAPIFailureTotal)
	prometheus.MustRegister(ExternalAPIDuration)
}

func InitWorkerMetrics() {
	prometheus.MustRegister(NotificationsAttemptedTotal)
	prometheus.MustRegister(NotificationSendDuration)
	prometheus.MustRegister(NotificationRetriesTotal)
	prometheus.MustRegister(ExternalAPISuccessTotal)
	prometheus.MustRegister(ExternalAPIFailureTotal)
	prometheus.MustRegister(ExternalAPIDuration)
}

func InitKafkaMetrics() {
	prometheus.MustRegister(KafkaPublishSuccessTotal)
	prometheus.MustRegister(KafkaPublishFailureTotal)
	prometheus.MustRegister(KafkaSubscriberFailureTotal)
	prometheus.MustRegister(KafkaConsumerLag)
	prometheus.MustRegister(KafkaRebalancesTotal)
}
