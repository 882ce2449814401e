package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec

	registrationsTotal   *prometheus.CounterVec
	taskCompletionsTotal prometheus.Counter
	streakResetsTotal    prometheus.Counter
	attendanceMarked     *prometheus.CounterVec
	chatMessagesSent     prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors exposed by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classroom_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		registrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_registrations_total",
			Help: "Accounts registered, partitioned by role.",
		}, []string{"role"})

		taskCompletionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classroom_task_completions_total",
			Help: "Task completions recorded by students.",
		})

		streakResetsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classroom_streak_resets_total",
			Help: "Student streaks reset by the inactivity job.",
		})

		attendanceMarked = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classroom_attendance_marked_total",
			Help: "Attendance marks, partitioned by method.",
		}, []string{"method"})

		chatMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "classroom_chat_messages_sent_total",
			Help: "Direct chat messages persisted.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			registrationsTotal,
			taskCompletionsTotal,
			streakResetsTotal,
			attendanceMarked,
			chatMessagesSent,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Registrations exposes the registration counter.
func Registrations() *prometheus.CounterVec {
	RegisterMetrics()
	return registrationsTotal
}

// TaskCompletions exposes the task completion counter.
func TaskCompletions() prometheus.Counter {
	RegisterMetrics()
	return taskCompletionsTotal
}

// StreakResets exposes the streak reset counter.
func StreakResets() prometheus.Counter {
	RegisterMetrics()
	return streakResetsTotal
}

// AttendanceMarked exposes the attendance counter.
func AttendanceMarked() *prometheus.CounterVec {
	RegisterMetrics()
	return attendanceMarked
}

// ChatMessagesSent exposes the chat message counter.
func ChatMessagesSent() prometheus.Counter {
	RegisterMetrics()
	return chatMessagesSent
}

// MetricsHandler serves the default registry for Prometheus scrapes, negotiating OpenMetrics when asked.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}
