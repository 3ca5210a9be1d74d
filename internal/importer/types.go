// Package importer maps sheet rows into grading-API records and legacy
// store blobs, one row at a time, and orchestrates a full import run.
package importer

import (
	"fmt"

	"github.com/edstack/quiz-import/internal/lms"
	"github.com/edstack/quiz-import/internal/question"
)

// Record is the mapped output for one row: the grading-API item plus the
// two independently serialized legacy column values.
type Record struct {
	Item              lms.TaskUpsertItem
	LegacyAnswerArray string
	LegacySettings    string
}

// RowError wraps any failure of a single row's mapping with the row's
// natural identifier. Rows fail independently; the batch never does.
type RowError struct {
	QuestionCode string
	Err          error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("question %q: %v", e.QuestionCode, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// RowResult is the per-row outcome of a batch mapping: either a record or
// an error, plus any non-fatal advisories gathered along the way.
type RowResult struct {
	Row        question.InputRow
	Record     *Record
	Advisories []question.Advisory
	Err        *RowError
}
