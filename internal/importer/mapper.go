package importer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edstack/quiz-import/internal/lms"
	"github.com/edstack/quiz-import/internal/qsm"
	"github.com/edstack/quiz-import/internal/question"
	"github.com/edstack/quiz-import/internal/resolve"
	"github.com/edstack/quiz-import/internal/task"
)

// Mapper converts rows into Records against one batch's lookup tables.
// It holds no mutable state, so one Mapper serves concurrent rows.
type Mapper struct {
	resolver *resolve.Resolver
	policy   task.Policy
	logger   zerolog.Logger
}

func NewMapper(resolver *resolve.Resolver, policy task.Policy, logger zerolog.Logger) *Mapper {
	return &Mapper{resolver: resolver, policy: policy, logger: logger}
}

// MapRow maps one row. Any failure aborts just this row and carries its
// question code; advisories accumulate across every mapping step.
func (m *Mapper) MapRow(row question.InputRow) (Record, []question.Advisory, error) {
	fail := func(err error) (Record, []question.Advisory, error) {
		return Record{}, nil, &RowError{QuestionCode: row.QuestionCode, Err: err}
	}

	qtype, err := m.policy.Types.Resolve(row.TypeCode)
	if err != nil {
		return fail(err)
	}

	var advisories []question.Advisory

	courseID, courseAdv, err := m.resolver.Course(row.CourseCode)
	if err != nil {
		return fail(err)
	}
	advisories = append(advisories, courseAdv...)

	difficultyID, diffAdv := m.resolver.Difficulty(row.DifficultyLabel)
	advisories = append(advisories, diffAdv...)

	content, err := task.BuildContent(row, qtype, m.policy)
	if err != nil {
		return fail(err)
	}

	solution, solutionAdv, err := task.BuildSolution(row, qtype, m.policy)
	if err != nil {
		return fail(err)
	}
	advisories = append(advisories, solutionAdv...)

	answerArray, err := qsm.BuildAnswerArray(qtype, row.VariantsBlock, row.CorrectAnswerCell, m.policy.DefaultShortAnswerPoints)
	if err != nil {
		return fail(err)
	}
	settings, err := qsm.BuildQuestionSettings(qtype, qsm.StatementTitle(row, m.policy), row.Hint)
	if err != nil {
		return fail(err)
	}

	record := Record{
		Item: lms.TaskUpsertItem{
			ExternalUID:   row.QuestionCode,
			CourseID:      courseID,
			DifficultyID:  difficultyID,
			TaskContent:   content,
			SolutionRules: solution,
			MaxScore:      solution.MaxScore,
		},
		LegacyAnswerArray: answerArray,
		LegacySettings:    settings,
	}

	m.logger.Debug().
		Str("question_code", row.QuestionCode).
		Str("type", qtype.String()).
		Int64("course_id", courseID).
		Int64("difficulty_id", difficultyID).
		Float64("max_score", solution.MaxScore).
		Msg("row mapped")

	return record, advisories, nil
}

// MapBatch maps every row, fanning out over up to workers goroutines.
// Rows are independent and the lookup tables read-only, so the only
// coordination is slotting results back by index. Result order matches
// input order, and a row failure never stops the batch.
func (m *Mapper) MapBatch(ctx context.Context, rows []question.InputRow, workers int) []RowResult {
	results := make([]RowResult, len(rows))
	if workers < 1 {
		workers = 1
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = m.mapOne(rows[i])
			}
		}()
	}

feed:
	for i := range rows {
		select {
		case <-ctx.Done():
			for j := i; j < len(rows); j++ {
				results[j] = RowResult{
					Row: rows[j],
					Err: &RowError{QuestionCode: rows[j].QuestionCode, Err: ctx.Err()},
				}
			}
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (m *Mapper) mapOne(row question.InputRow) RowResult {
	result := RowResult{Row: row}
	record, advisories, err := m.MapRow(row)
	result.Advisories = advisories
	if err != nil {
		rowErr, ok := err.(*RowError)
		if !ok {
			rowErr = &RowError{QuestionCode: row.QuestionCode, Err: err}
		}
		result.Err = rowErr
		return result
	}
	result.Record = &record
	return result
}
