// Package neo4j projects classification results into a graph of
// (:Document)-[:CLASSIFIED_AS]->(:Category) edges for exploration alongside
// the relational store.
package neo4j

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/infrastructure/resilience"
)

const projectCypher = `
MERGE (d:Document {id: $document_id})
SET d.filename = $filename, d.file_type = $file_type
MERGE (c:Category {id: $category_id})
SET c.name = $category_name, c.color = $category_color
MERGE (d)-[r:CLASSIFIED_AS {result_id: $result_id}]->(c)
SET r.confidence_level = $confidence_level,
	r.confidence_score = $confidence_score,
	r.matched_criteria = $matched_criteria,
	r.classified_at = $classified_at
`

type Config struct {
	URI      string
	Username string
	Password string
	Database string
	Timeout  time.Duration
}

type queryRunner func(ctx context.Context, cypher string, params map[string]any) error

// Projector implements ports.ClassificationSink on top of Neo4j.
type Projector struct {
	run      queryRunner
	executor *resilience.Executor
	timeout  time.Duration
	closeFn  func(context.Context) error
}

func NewProjector(ctx context.Context, cfg Config, executor *resilience.Executor) (*Projector, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}
	run := func(ctx context.Context, cypher string, params map[string]any) error {
		_, err := neo4j.ExecuteQuery(ctx, driver, cypher, params,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(database),
		)
		return err
	}
	p := newProjector(run, executor, cfg.Timeout)
	p.closeFn = driver.Close
	return p, nil
}

func newProjector(run queryRunner, executor *resilience.Executor, timeout time.Duration) *Projector {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Projector{run: run, executor: executor, timeout: timeout}
}

func (p *Projector) Project(ctx context.Context, outcome *domain.ClassificationOutcome) error {
	if outcome == nil || outcome.Document == nil {
		return domain.WrapError(domain.ErrInvalidInput, "neo4j project", errors.New("outcome without document"))
	}
	params := projectionParams(outcome)

	call := func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		if err := p.run(callCtx, projectCypher, params); err != nil {
			return fmt.Errorf("neo4j execute: %w", err)
		}
		return nil
	}
	if p.executor != nil {
		return p.executor.Execute(ctx, "neo4j.project", call, classifyNeo4jError)
	}
	return call(ctx)
}

func (p *Projector) Close(ctx context.Context) error {
	if p.closeFn == nil {
		return nil
	}
	return p.closeFn(ctx)
}

func projectionParams(outcome *domain.ClassificationOutcome) map[string]any {
	matched := make([]string, 0, len(outcome.Result.MatchedCriteria))
	matched = append(matched, outcome.Result.MatchedCriteria...)
	return map[string]any{
		"document_id":      outcome.Document.ID,
		"filename":         outcome.Document.Filename,
		"file_type":        string(outcome.Document.FileType),
		"category_id":      outcome.Category.ID,
		"category_name":    outcome.Category.Name,
		"category_color":   outcome.Category.Color,
		"result_id":        outcome.Result.ID,
		"confidence_level": string(outcome.Result.ConfidenceLevel),
		"confidence_score": outcome.Result.ConfidenceScore,
		"matched_criteria": matched,
		"classified_at":    outcome.Result.ClassifiedAt.UTC().Format(time.RFC3339Nano),
	}
}

func classifyNeo4jError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if neo4j.IsRetryable(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
