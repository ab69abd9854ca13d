package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	LLMRequestsTotal           metric.Int64Counter
	LLMRequestDurationSeconds  metric.Float64Histogram
	ParseDegradationsTotal     metric.Int64Counter
	ActivitiesSkippedTotal     metric.Int64Counter
	TripItemsMaterializedTotal metric.Int64Counter
	DbQueryErrorsTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider. Safe to call
// more than once; only the first call has an effect.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripPlanner")
		var err error
		m := &AppMetrics{}

		m.LLMRequestsTotal, err = meter.Int64Counter(
			"llm_requests_total",
			metric.WithDescription("Total number of completion requests sent to the LLM provider"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_requests_total: %v", err)
		}

		m.LLMRequestDurationSeconds, err = meter.Float64Histogram(
			"llm_request_duration_seconds",
			metric.WithDescription("Duration of LLM completion requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_request_duration_seconds: %v", err)
		}

		m.ParseDegradationsTotal, err = meter.Int64Counter(
			"itinerary_parse_degradations_total",
			metric.WithDescription("Generated itineraries that fell back to raw text"),
			metric.WithUnit("{itinerary}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_parse_degradations_total: %v", err)
		}

		m.ActivitiesSkippedTotal, err = meter.Int64Counter(
			"activities_skipped_total",
			metric.WithDescription("Itinerary activities skipped because of a malformed date or time"),
			metric.WithUnit("{activity}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create activities_skipped_total: %v", err)
		}

		m.TripItemsMaterializedTotal, err = meter.Int64Counter(
			"trip_items_materialized_total",
			metric.WithDescription("Trip items inserted from generated itineraries"),
			metric.WithUnit("{item}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_items_materialized_total: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, initialising them against the current global
// MeterProvider on first use. Before a provider is installed the otel no-op
// meter backs them, which keeps packages usable in tests.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
