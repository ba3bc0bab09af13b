package service

import (
	"errors"

	"dashboard_client/internal/app/port"
	"dashboard_client/internal/app/resilience"
	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/infrastructure/metrics"
)

// retryOptions builds the Execute options for one named operation. Every
// scheduled retry is logged and counted.
func retryOptions(policy resilience.Policy, operation string, l port.Logger) resilience.Options {
	return resilience.Options{
		Policy: policy,
		OnRetry: func(a resilience.RetryAttempt) {
			metrics.RetriesTotal.WithLabelValues(operation).Inc()
			l.Warn("Retrying backend request after transient failure",
				"operation", operation,
				"attempt", a.AttemptIndex,
				"delay", a.Delay,
				"error", a.Err)
		},
	}
}

// countMalformed records envelope shape mismatches.
func countMalformed(err error) {
	var me *entity.MalformedEnvelopeError
	if errors.As(err, &me) {
		metrics.NormalizationFailures.WithLabelValues(me.Resource).Inc()
	}
}
