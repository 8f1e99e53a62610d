package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/resilience"
)

// publishOperation names the executor operation, and so the breaker and metric label,
// after the subject classify requests go to.
func publishOperation(subject string) string {
	return "nats.publish." + subject
}

// classifyNATSError decides how a failed classify publish is retried. Broker
// unavailability is retried and trips the breaker. A request the server can never accept
// (oversized envelope, bad subject) fails at once and does not count against broker health.
func classifyNATSError(err error) resilience.ErrorClassification {
	switch {
	case err == nil:
		return resilience.ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.ErrorClassification{}
	case errors.Is(err, nats.ErrMaxPayload), errors.Is(err, nats.ErrBadSubject):
		return resilience.ErrorClassification{}
	case resilience.IsCircuitOpen(err),
		errors.Is(err, nats.ErrNoServers),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrConnectionClosed),
		errors.Is(err, nats.ErrConnectionReconnecting),
		errors.Is(err, nats.ErrDisconnected):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		return resilience.ErrorClassification{RecordFailure: true}
	}
}

// publishError maps a publish failure to the error kind callers see: broker outages become
// ErrTemporary (HTTP 503 on upload), everything else is returned as is.
func publishError(documentID string, err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyNATSError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, "publish classify request for "+documentID, err)
	}
	return err
}
