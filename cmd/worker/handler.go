package main

import (
	"context"
	"time"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
	"github.com/kirillkom/doc-classifier/internal/observability/metrics"
)

// newClassifyHandler classifies one queued request under its own timeout and records
// queue lag from the time the request was published.
func newClassifyHandler(
	classifier ports.DocumentClassificationService,
	workerMetrics *metrics.WorkerMetrics,
	timeout time.Duration,
) func(context.Context, ports.ClassifyRequest) error {
	return func(ctx context.Context, req ports.ClassifyRequest) error {
		classifyCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		// Bare-id messages carry no request time.
		if !req.RequestedAt.IsZero() {
			workerMetrics.ObserveQueueLag(serviceName, start.Sub(req.RequestedAt))
		}
		workerMetrics.StartRequest()
		_, err := classifier.Classify(classifyCtx, req.DocumentID)
		status := "success"
		if err != nil {
			status = domain.ErrorCode(err)
		}
		workerMetrics.FinishRequest(serviceName, status, time.Since(start))
		return err
	}
}
