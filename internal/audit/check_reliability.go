package audit

import (
	"context"
	"fmt"
)

const (
	errorHandlingPattern       = `(try[[:space:]]*\{|try:|catch[[:space:]]*\(|\.catch\(|except[[:space:]:]|rescue|if err != nil)`
	timeoutPattern             = `(timeout|deadline|WithTimeout|AbortSignal)`
	retryPattern               = `(retry|retries|backoff)`
	resiliencePattern          = `(circuit[-_ ]?breaker|opossum|gobreaker|hystrix|resilience4j|pybreaker|fallback)`
	strongErrorHandlingMinimum = 10
	strongTimeoutUsageMinimum  = 5
)

func checkReliability(executionContext context.Context, inspector RepositoryInspector, profile RiskProfile) CheckResult {
	evaluation := newCategoryEvaluation(CategoryReliability)

	errorHandlingHits := len(searchSource(executionContext, inspector, errorHandlingPattern))
	switch {
	case errorHandlingHits > strongErrorHandlingMinimum:
		evaluation.pass(1, fmt.Sprintf("Error handling present (%d occurrences)", errorHandlingHits))
	case errorHandlingHits > 0:
		evaluation.partial(0.5, fmt.Sprintf("Limited error handling (%d occurrences)", errorHandlingHits)).
			improve("Handle errors on every I/O path")
	default:
		evaluation.fail("No error handling detected").
			critical("No error handling; any failure crashes the request or process")
	}

	timeoutHits := len(searchSource(executionContext, inspector, timeoutPattern))
	if timeoutHits > strongTimeoutUsageMinimum {
		evaluation.pass(1, fmt.Sprintf("Timeouts configured (%d occurrences)", timeoutHits))
	} else {
		evaluation.warn(fmt.Sprintf("Few timeouts configured (%d occurrences)", timeoutHits)).
			improve("Set timeouts on outbound network and database calls")
	}

	if len(searchSource(executionContext, inspector, retryPattern)) > 0 {
		evaluation.pass(1, "Retry logic detected")
	} else {
		evaluation.warn("No retry logic").
			improve("Retry transient failures with backoff")
	}

	if len(searchSource(executionContext, inspector, resiliencePattern)) > 0 {
		evaluation.pass(2, "Advanced resilience patterns detected (circuit breaker or fallback)")
	} else {
		evaluation.fail("No circuit breaker or fallback").
			publicLaunch("No circuit breaker or fallback; one failing dependency takes the service down")
	}

	return evaluation.result()
}
