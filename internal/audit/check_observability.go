package audit

import "context"

const (
	structuredLoggingPattern = `(winston|pino|bunyan|log4js|zap\.|zerolog|logrus|slog\.|structlog|loguru|import logging|getLogger|log4j|logback|monolog)`
	adHocLoggingPattern      = `(console\.(log|error|warn|info)|print\(|fmt\.Print|puts[[:space:]]|System\.out\.print|error_log\()`
	errorTrackingPattern     = `(sentry|bugsnag|rollbar|honeybadger|airbrake|raygun|newrelic|datadog)`
	metricsPattern           = `(prometheus|prom-client|opentelemetry|statsd|metrics|histogram)`
	healthEndpointPattern    = `/(health|healthz|healthcheck|ready|readyz|livez|ping)`
)

func checkObservability(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategoryObservability)

	switch {
	case len(searchSource(executionContext, inspector, structuredLoggingPattern)) > 0:
		evaluation.pass(2, "Structured logging library in use")
	case len(searchSource(executionContext, inspector, adHocLoggingPattern)) > 0:
		evaluation.partial(0.5, "Only ad-hoc console logging").
			improve("Replace console output with a structured logger")
	default:
		evaluation.fail("No logging detected").
			critical("No logging detected")
	}

	if len(searchEverywhere(executionContext, inspector, errorTrackingPattern)) > 0 {
		evaluation.pass(1, "Error tracking configured")
	} else {
		evaluation.fail("No error tracking").
			publicLaunch("No error tracking; production failures go unnoticed")
	}

	if len(searchEverywhere(executionContext, inspector, metricsPattern)) > 0 {
		evaluation.pass(1, "Metrics instrumentation detected")
	} else {
		evaluation.warn("No metrics instrumentation").
			improve("Export request rate and latency metrics")
	}

	if len(searchSource(executionContext, inspector, healthEndpointPattern)) > 0 {
		evaluation.pass(1, "Health check endpoint present")
	} else {
		evaluation.fail("No health check endpoint").
			publicLaunch("No health check endpoint for load balancers and uptime monitors")
	}

	return evaluation.result()
}
