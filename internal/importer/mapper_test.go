package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edstack/quiz-import/internal/question"
	"github.com/edstack/quiz-import/internal/resolve"
	"github.com/edstack/quiz-import/internal/task"
)

func testResolver() *resolve.Resolver {
	return resolve.New(
		[]resolve.DifficultyEntry{
			{ID: 2, NameLocalized: "Базовая", Code: "easy"},
			{ID: 4, NameLocalized: "Сложная", Code: "hard"},
		},
		[]resolve.CourseEntry{
			{ID: 10, ExternalCode: "GO-101", Title: "Go Basics"},
			{ID: 11, ExternalCode: "GO-201", Title: "Go Advanced"},
		},
		resolve.Defaults{DifficultyCode: "easy", DifficultyID: 2},
		zerolog.Nop(),
	)
}

func testMapper() *Mapper {
	return NewMapper(testResolver(), task.DefaultPolicy(), zerolog.Nop())
}

func scRow() question.InputRow {
	return question.InputRow{
		QuestionCode:      "Q-001",
		CourseCode:        "GO-101",
		Text:              "Capital of France?",
		VariantsBlock:     "Paris||2\nLondon||\nBerlin||",
		CorrectAnswerCell: "Paris",
		TypeCode:          "SC",
		QuizTitle:         "Geography",
		DifficultyLabel:   "Базовая",
	}
}

func TestMapRowSingleChoice(t *testing.T) {
	record, advisories, err := testMapper().MapRow(scRow())
	require.NoError(t, err)
	assert.Empty(t, advisories)

	item := record.Item
	assert.Equal(t, "Q-001", item.ExternalUID)
	assert.Equal(t, int64(10), item.CourseID)
	assert.Equal(t, int64(2), item.DifficultyID)
	assert.Equal(t, 2.0, item.MaxScore)
	assert.Equal(t, item.SolutionRules.MaxScore, item.MaxScore)
	require.Len(t, item.TaskContent.Options, 3)
	require.Len(t, item.SolutionRules.Options, 3)

	// Both legacy blobs are present and well-formed.
	assert.True(t, strings.HasPrefix(record.LegacyAnswerArray, "a:3:{"))
	assert.Contains(t, record.LegacySettings, `s:14:"question_title";`)
}

func TestMapRowUnknownType(t *testing.T) {
	row := scRow()
	row.TypeCode = "ESSAY"

	_, _, err := testMapper().MapRow(row)
	var rowErr *RowError
	require.Error(t, err)
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, "Q-001", rowErr.QuestionCode)
	var unknown *question.UnknownTypeError
	assert.True(t, errors.As(err, &unknown))
}

func TestMapRowUnresolvedCourse(t *testing.T) {
	row := scRow()
	row.CourseCode = "MISSING"

	_, _, err := testMapper().MapRow(row)
	var unresolved *resolve.UnresolvedCourseError
	require.Error(t, err)
	assert.True(t, errors.As(err, &unresolved))
	assert.Contains(t, err.Error(), "Q-001")
	assert.Contains(t, err.Error(), "MISSING")
}

func TestMapRowMalformedVariants(t *testing.T) {
	row := scRow()
	row.VariantsBlock = "Paris"

	_, _, err := testMapper().MapRow(row)
	var malformed *question.MalformedLineError
	require.Error(t, err)
	assert.True(t, errors.As(err, &malformed))
}

func TestMapRowAggregatesAdvisories(t *testing.T) {
	row := question.InputRow{
		QuestionCode:      "Q-002",
		CourseCode:        "GO-101",
		Text:              "Enter a number",
		CorrectAnswerCell: "re:(unclosed; 42",
		TypeCode:          "SA",
		DifficultyLabel:   "Marathon",
	}

	record, advisories, err := testMapper().MapRow(row)
	require.NoError(t, err)
	require.Len(t, advisories, 2)
	assert.Equal(t, question.AdvisoryDifficultyFallback, advisories[0].Kind)
	assert.Equal(t, question.AdvisoryInvalidRegex, advisories[1].Kind)

	// Fallback still resolved to the default-code entry.
	assert.Equal(t, int64(2), record.Item.DifficultyID)
	require.Len(t, record.Item.SolutionRules.AcceptedAnswers, 1)
}

func TestMapBatchPreservesOrderAndIsolatesFailures(t *testing.T) {
	rows := make([]question.InputRow, 0, 20)
	for i := 0; i < 20; i++ {
		row := scRow()
		row.QuestionCode = fmt.Sprintf("Q-%03d", i)
		if i%5 == 0 {
			row.TypeCode = "BOGUS"
		}
		rows = append(rows, row)
	}

	results := testMapper().MapBatch(context.Background(), rows, 4)
	require.Len(t, results, 20)
	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("Q-%03d", i), result.Row.QuestionCode)
		if i%5 == 0 {
			require.NotNil(t, result.Err, "row %d", i)
			assert.Nil(t, result.Record)
		} else {
			require.Nil(t, result.Err, "row %d", i)
			require.NotNil(t, result.Record)
		}
	}
}

func TestMapBatchCanceledContextFailsRemainingRows(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []question.InputRow{scRow(), scRow()}
	results := testMapper().MapBatch(ctx, rows, 2)
	require.Len(t, results, 2)
	for _, result := range results {
		if result.Err != nil {
			assert.ErrorIs(t, result.Err, context.Canceled)
		}
	}
}
