package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/resilience"
)

func TestDecodeClassifyRequest(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	payload, err := encodeClassifyRequest(ClassifyRequest{DocumentID: "doc-1", RequestedAt: at})
	if err != nil {
		t.Fatalf("encodeClassifyRequest() error = %v", err)
	}

	req, err := decodeClassifyRequest(payload)
	if err != nil {
		t.Fatalf("decodeClassifyRequest() error = %v", err)
	}
	if req.DocumentID != "doc-1" || !req.RequestedAt.Equal(at) {
		t.Fatalf("unexpected request: %+v", req)
	}

	bare, err := decodeClassifyRequest([]byte(" doc-2 \n"))
	if err != nil || bare.DocumentID != "doc-2" {
		t.Fatalf("bare id decode = %+v, %v", bare, err)
	}
}

func TestDecodeClassifyRequestRejectsEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", `{"document_id":"  "}`, `{not json`} {
		if _, err := decodeClassifyRequest([]byte(raw)); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("decode(%q) expected ErrInvalidInput, got %v", raw, err)
		}
	}
	if _, err := encodeClassifyRequest(ClassifyRequest{}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("encode empty expected ErrInvalidInput, got %v", err)
	}
}

func TestNewQueueDefaults(t *testing.T) {
	q := newQueue(nil, Options{})
	if q.subject != DefaultSubject || q.queueGroup != DefaultQueueGroup {
		t.Fatalf("unexpected defaults: subject=%q group=%q", q.subject, q.queueGroup)
	}
	q = newQueue(nil, Options{Subject: "docs.custom", QueueGroup: "g"})
	if q.subject != "docs.custom" || q.queueGroup != "g" {
		t.Fatalf("unexpected overrides: subject=%q group=%q", q.subject, q.queueGroup)
	}
}

func TestClassifyNATSError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{name: "canceled", err: context.Canceled, retryable: false, record: false},
		{name: "no servers", err: fmt.Errorf("nats publish: %w", nats.ErrNoServers), retryable: true, record: true},
		{name: "timeout", err: nats.ErrTimeout, retryable: true, record: true},
		{name: "open breaker", err: gobreaker.ErrOpenState, retryable: true, record: true},
		{name: "reconnecting", err: nats.ErrConnectionReconnecting, retryable: true, record: true},
		{name: "bad subject", err: nats.ErrBadSubject, retryable: false, record: false},
		{name: "max payload", err: fmt.Errorf("nats publish: %w", nats.ErrMaxPayload), retryable: false, record: false},
		{name: "unknown", err: errors.New("boom"), retryable: false, record: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyNATSError(tc.err)
			if got.Retryable != tc.retryable || got.RecordFailure != tc.record {
				t.Fatalf("classifyNATSError(%v) = %+v", tc.err, got)
			}
		})
	}
}

func TestPublishErrorMarksOutagesTemporary(t *testing.T) {
	if err := publishError("doc-1", nats.ErrConnectionClosed); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
	if err := publishError("doc-1", nats.ErrMaxPayload); domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("max payload should not be temporary: %v", err)
	}
	if err := publishError("doc-1", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

type retryRecorder struct {
	operations []string
}

func (r *retryRecorder) RetryAttempt(operation string) { r.operations = append(r.operations, operation) }

func (r *retryRecorder) BreakerStateChanged(string, string) {}

func newPublishQueue(publish func(string, []byte) error) (*Queue, *retryRecorder) {
	recorder := &retryRecorder{}
	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
	}).WithObserver(recorder)
	q := newQueue(nil, Options{ResilienceExecutor: executor})
	q.publish = publish
	return q, recorder
}

func TestPublishRetriesOutageUnderSubjectOperation(t *testing.T) {
	calls := 0
	q, recorder := newPublishQueue(func(subject string, data []byte) error {
		calls++
		if subject != DefaultSubject {
			t.Fatalf("unexpected subject %q", subject)
		}
		if calls < 3 {
			return nats.ErrNoServers
		}
		return nil
	})

	if err := q.PublishClassifyRequested(context.Background(), "doc-1"); err != nil {
		t.Fatalf("PublishClassifyRequested() error = %v", err)
	}
	if calls != 3 || len(recorder.operations) != 2 {
		t.Fatalf("expected 3 calls and 2 retries, got calls=%d retries=%v", calls, recorder.operations)
	}
	if recorder.operations[0] != "nats.publish.documents.classify" {
		t.Fatalf("unexpected operation name %q", recorder.operations[0])
	}
}

func TestPublishDoesNotRetryOversizedPayload(t *testing.T) {
	calls := 0
	q, recorder := newPublishQueue(func(string, []byte) error {
		calls++
		return nats.ErrMaxPayload
	})

	err := q.PublishClassifyRequested(context.Background(), "doc-1")
	if !errors.Is(err, nats.ErrMaxPayload) || domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected permanent max payload error, got %v", err)
	}
	if calls != 1 || len(recorder.operations) != 0 {
		t.Fatalf("expected a single attempt, got calls=%d retries=%v", calls, recorder.operations)
	}
}

func TestDispatchRunsHandlerAfterShutdown(t *testing.T) {
	q := newQueue(nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payload, err := encodeClassifyRequest(ClassifyRequest{DocumentID: "doc-1", RequestedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("encodeClassifyRequest() error = %v", err)
	}

	var got ClassifyRequest
	var handlerErr error
	q.dispatch(ctx, &nats.Msg{Subject: DefaultSubject, Data: payload}, func(handlerCtx context.Context, req ClassifyRequest) error {
		got = req
		handlerErr = handlerCtx.Err()
		return nil
	})

	if got.DocumentID != "doc-1" || got.RequestedAt.IsZero() {
		t.Fatalf("handler not called with the decoded request: %+v", got)
	}
	if handlerErr != nil {
		t.Fatalf("handler context should survive shutdown, got %v", handlerErr)
	}
}

func TestDispatchSkipsMalformedMessage(t *testing.T) {
	q := newQueue(nil, Options{})
	called := false
	q.dispatch(context.Background(), &nats.Msg{Subject: DefaultSubject, Data: []byte(`{bad`)}, func(context.Context, ClassifyRequest) error {
		called = true
		return nil
	})
	if called {
		t.Fatalf("handler should not run for a malformed message")
	}
}
