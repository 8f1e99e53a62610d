package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/resilience"
)

const (
	DefaultSubject    = "documents.classify"
	DefaultQueueGroup = "classifiers"
)

const defaultDrainTimeout = 30 * time.Second

// ClassifyRequest is the message body published on the classify subject.
type ClassifyRequest = ports.ClassifyRequest

type Queue struct {
	conn         *nats.Conn
	publish      func(subject string, data []byte) error
	subject      string
	publishOp    string
	queueGroup   string
	drainTimeout time.Duration
	executor     *resilience.Executor
	now          func() time.Time
}

type Options struct {
	Subject              string
	QueueGroup           string
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
	// DrainTimeout bounds how long shutdown waits for delivered requests to finish.
	DrainTimeout time.Duration
}

func New(url string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("doc-classifier"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return newQueue(conn, options), nil
}

func newQueue(conn *nats.Conn, options Options) *Queue {
	subject := strings.TrimSpace(options.Subject)
	if subject == "" {
		subject = DefaultSubject
	}
	group := strings.TrimSpace(options.QueueGroup)
	if group == "" {
		group = DefaultQueueGroup
	}
	drainTimeout := options.DrainTimeout
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}
	q := &Queue{
		conn:         conn,
		subject:      subject,
		publishOp:    publishOperation(subject),
		queueGroup:   group,
		drainTimeout: drainTimeout,
		executor:     options.ResilienceExecutor,
		now:          time.Now,
	}
	if conn != nil {
		q.publish = conn.Publish
	}
	return q
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishClassifyRequested(ctx context.Context, documentID string) error {
	payload, err := encodeClassifyRequest(ClassifyRequest{DocumentID: documentID, RequestedAt: q.now().UTC()})
	if err != nil {
		return err
	}

	call := func(_ context.Context) error {
		if err := q.publish(q.subject, payload); err != nil {
			return fmt.Errorf("nats publish %s: %w", q.subject, err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, q.publishOp, call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	return publishError(documentID, err)
}

// SubscribeClassifyRequested blocks until ctx is cancelled, then drains the subscription:
// requests already delivered are still handled before it returns.
func (q *Queue) SubscribeClassifyRequested(ctx context.Context, handler func(context.Context, ClassifyRequest) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, q.queueGroup, func(msg *nats.Msg) {
		q.dispatch(ctx, msg, handler)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	q.awaitDrain(sub)
	return nil
}

// dispatch decodes one message and runs the handler. The handler context is detached from
// shutdown so a request delivered before cancellation is classified rather than dropped;
// callers bound it with their own timeout.
func (q *Queue) dispatch(ctx context.Context, msg *nats.Msg, handler func(context.Context, ClassifyRequest) error) {
	req, err := decodeClassifyRequest(msg.Data)
	if err != nil {
		slog.Warn("classify_request_rejected", "subject", msg.Subject, "error", err)
		return
	}
	if ctx.Err() != nil {
		slog.Info("classify_request_draining", "document_id", req.DocumentID)
	}
	if err := handler(context.WithoutCancel(ctx), req); err != nil {
		slog.Error("classify_request_failed", "document_id", req.DocumentID, "error", err)
	}
}

func (q *Queue) awaitDrain(sub *nats.Subscription) {
	deadline := time.Now().Add(q.drainTimeout)
	for sub.IsValid() {
		if time.Now().After(deadline) {
			pending, _, _ := sub.Pending()
			slog.Error("classify_drain_timeout", "subject", q.subject, "dropped", pending)
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func encodeClassifyRequest(req ClassifyRequest) ([]byte, error) {
	if strings.TrimSpace(req.DocumentID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "encode classify request", errors.New("document id is required"))
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode classify request: %w", err)
	}
	return payload, nil
}

// decodeClassifyRequest accepts the JSON envelope or a bare document id.
func decodeClassifyRequest(data []byte) (ClassifyRequest, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return ClassifyRequest{}, domain.WrapError(domain.ErrInvalidInput, "decode classify request", errors.New("empty message"))
	}
	if !strings.HasPrefix(raw, "{") {
		return ClassifyRequest{DocumentID: raw}, nil
	}
	var req ClassifyRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return ClassifyRequest{}, domain.WrapError(domain.ErrInvalidInput, "decode classify request", err)
	}
	req.DocumentID = strings.TrimSpace(req.DocumentID)
	if req.DocumentID == "" {
		return ClassifyRequest{}, domain.WrapError(domain.ErrInvalidInput, "decode classify request", errors.New("document id is required"))
	}
	return req, nil
}
