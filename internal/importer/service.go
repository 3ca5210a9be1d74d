package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edstack/quiz-import/internal/lms"
	"github.com/edstack/quiz-import/internal/metrics"
	"github.com/edstack/quiz-import/internal/qsm"
	"github.com/edstack/quiz-import/internal/question"
	"github.com/edstack/quiz-import/internal/resolve"
	"github.com/edstack/quiz-import/internal/task"
)

// Source supplies the normalized sheet rows.
type Source interface {
	FetchRows(ctx context.Context) ([]question.InputRow, error)
}

// GradingAPI is the remote grading backend (implemented by lms.Client).
type GradingAPI interface {
	TasksMeta(ctx context.Context) (lms.Meta, error)
	ValidateTask(ctx context.Context, req lms.ValidateRequest) (lms.ValidateResult, error)
	BulkUpsertTasks(ctx context.Context, items []lms.TaskUpsertItem) ([]lms.UpsertResult, error)
}

// LegacyTarget is the legacy quiz store (implemented by qsm.Importer).
type LegacyTarget interface {
	ImportBatch(ctx context.Context, rows []question.InputRow) (qsm.BatchResult, error)
}

// Options tune one import run.
type Options struct {
	Limit        int
	Workers      int
	DryRun       bool
	LegacyImport bool
}

// Summary is the outcome of one run, reported per row.
type Summary struct {
	BatchID  string
	Total    int
	Mapped   int
	Valid    int
	Created  int
	Updated  int
	Failures []*RowError
}

// Service runs the full import: fetch rows, map, validate, upsert, and
// optionally mirror into the legacy store.
type Service struct {
	source   Source
	api      GradingAPI
	legacy   LegacyTarget
	policy   task.Policy
	defaults resolve.Defaults
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewService(source Source, api GradingAPI, legacy LegacyTarget, policy task.Policy, defaults resolve.Defaults, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		source:   source,
		api:      api,
		legacy:   legacy,
		policy:   policy,
		defaults: defaults,
		metrics:  m,
		logger:   logger,
	}
}

// Run executes one import. Row failures land in the summary, never abort
// the batch; only infrastructure failures (source, API, store) return an
// error.
func (s *Service) Run(ctx context.Context, opts Options) (Summary, error) {
	summary := Summary{BatchID: uuid.NewString()}
	logger := s.logger.With().Str("batch_id", summary.BatchID).Logger()
	logger.Info().Msg("starting import run")

	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch rows: %w", err)
	}
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	summary.Total = len(rows)
	if len(rows) == 0 {
		logger.Warn().Msg("sheet has no rows, nothing to import")
		return summary, nil
	}
	logger.Info().Int("rows", len(rows)).Msg("rows fetched")

	meta, err := s.api.TasksMeta(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch grading meta: %w", err)
	}
	logger.Debug().
		Int("difficulties", len(meta.Difficulties)).
		Int("courses", len(meta.Courses)).
		Str("version", meta.Version).
		Msg("grading meta loaded")

	resolver := resolve.New(meta.DifficultyTable(), meta.CourseTable(), s.defaults, logger)
	mapper := NewMapper(resolver, s.policy, logger)
	results := mapper.MapBatch(ctx, rows, opts.Workers)

	var validItems []lms.TaskUpsertItem
	var validRows []question.InputRow
	for _, result := range results {
		for _, adv := range result.Advisories {
			s.metrics.Advisories.WithLabelValues(string(adv.Kind)).Inc()
			logger.Warn().
				Str("question_code", result.Row.QuestionCode).
				Str("kind", string(adv.Kind)).
				Msg(adv.Message)
		}
		if result.Err != nil {
			s.metrics.RowsMapped.WithLabelValues(metrics.StatusFailed).Inc()
			summary.Failures = append(summary.Failures, result.Err)
			logger.Warn().Err(result.Err).Str("question_code", result.Err.QuestionCode).Msg("row mapping failed")
			continue
		}
		s.metrics.RowsMapped.WithLabelValues(metrics.StatusMapped).Inc()
		summary.Mapped++

		verdict, err := s.api.ValidateTask(ctx, s.validatePayload(result, meta))
		if err != nil {
			return summary, fmt.Errorf("validate task %q: %w", result.Row.QuestionCode, err)
		}
		if !verdict.IsValid {
			s.metrics.RowsMapped.WithLabelValues(metrics.StatusInvalid).Inc()
			rowErr := &RowError{
				QuestionCode: result.Row.QuestionCode,
				Err:          fmt.Errorf("rejected by grading API: %v", verdict.Errors),
			}
			summary.Failures = append(summary.Failures, rowErr)
			logger.Warn().Err(rowErr).Msg("task failed remote validation")
			continue
		}

		summary.Valid++
		validItems = append(validItems, result.Record.Item)
		validRows = append(validRows, result.Row)
	}

	logger.Info().
		Int("total", summary.Total).
		Int("valid", summary.Valid).
		Int("failed", len(summary.Failures)).
		Msg("validation finished")

	if opts.DryRun {
		logger.Info().Msg("dry run: skipping bulk upsert and legacy import")
		return summary, nil
	}
	if len(validItems) == 0 {
		logger.Warn().Msg("no valid tasks, bulk upsert skipped")
		return summary, nil
	}

	upserts, err := s.api.BulkUpsertTasks(ctx, validItems)
	if err != nil {
		return summary, fmt.Errorf("bulk upsert: %w", err)
	}
	for _, r := range upserts {
		s.metrics.Upserts.WithLabelValues(r.Action).Inc()
		switch r.Action {
		case "created":
			summary.Created++
		case "updated":
			summary.Updated++
		}
	}
	logger.Info().
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Msg("bulk upsert finished")

	if opts.LegacyImport && s.legacy != nil {
		legacyResult, err := s.legacy.ImportBatch(ctx, validRows)
		if err != nil {
			return summary, fmt.Errorf("legacy import: %w", err)
		}
		for _, f := range legacyResult.Failures {
			summary.Failures = append(summary.Failures, &RowError{QuestionCode: f.QuestionCode, Err: f.Err})
		}
		logger.Info().
			Int("inserted", legacyResult.Inserted).
			Int("failed", len(legacyResult.Failures)).
			Msg("legacy import finished")
	}

	return summary, nil
}

// validatePayload assembles the validate request from the already mapped
// item so no mapping logic is duplicated here. difficulty_code is looked
// up from meta by the resolved id; both optional codes stay explicit
// nulls when unknown.
func (s *Service) validatePayload(result RowResult, meta lms.Meta) lms.ValidateRequest {
	req := lms.ValidateRequest{
		TaskContent:   result.Record.Item.TaskContent,
		SolutionRules: result.Record.Item.SolutionRules,
		ExternalUID:   result.Record.Item.ExternalUID,
	}
	for _, d := range meta.Difficulties {
		if d.ID == result.Record.Item.DifficultyID && d.Code != "" {
			code := d.Code
			req.DifficultyCode = &code
			break
		}
	}
	if result.Row.CourseCode != "" {
		code := result.Row.CourseCode
		req.CourseCode = &code
	}
	return req
}
