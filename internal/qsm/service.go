package qsm

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/edstack/quiz-import/internal/question"
	"github.com/edstack/quiz-import/internal/task"
)

// difficultyRoot is the parent term every imported question is tagged with
// in addition to its level term.
const difficultyRoot = "Difficulty"

// store is the slice of Repository the import service uses.
type store interface {
	GetOrCreateQuiz(ctx context.Context, name string) (int64, error)
	EnsureCombinedSystem(ctx context.Context, quizID int64) error
	EnsureQuizPost(ctx context.Context, quizID int64, quizName string, opts PostOptions) (int64, error)
	UpsertPostMeta(ctx context.Context, postID int64, key, value string) error
	EnsureTerms(ctx context.Context, names []string) (map[string]int64, error)
	InsertQuestion(ctx context.Context, q Question) (int64, error)
	AttachTerm(ctx context.Context, questionID, quizID, termID int64) error
	UpdateQuizPages(ctx context.Context, quizID int64, questionIDs []int64) error
}

// ImportConfig drives the legacy-store target. The label→term table has
// drifted between sheet revisions, so it stays configuration.
type ImportConfig struct {
	Policy      task.Policy
	TermByLabel map[string]string
	DefaultTerm string
	Post        PostOptions
}

// DefaultImportConfig maps the localized difficulty labels onto the
// store's English term names. Quiz posts are created private so an
// imported quiz never goes public by accident.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		Policy: task.DefaultPolicy(),
		TermByLabel: map[string]string{
			"Теория":     "Theory",
			"Базовая":    "Easy",
			"Нормальная": "Normal",
			"Сложная":    "Hard",
			"Проектная":  "Project",
		},
		DefaultTerm: "Easy",
		Post:        PostOptions{AuthorID: 1, Status: "private"},
	}
}

// RowFailure records one row the legacy import rejected.
type RowFailure struct {
	QuestionCode string
	Err          error
}

// BatchResult summarizes one legacy-store import.
type BatchResult struct {
	Inserted int
	Failures []RowFailure
}

// Importer writes mapped rows into the legacy store.
type Importer struct {
	store  store
	cfg    ImportConfig
	logger zerolog.Logger
}

func NewImporter(store store, cfg ImportConfig, logger zerolog.Logger) *Importer {
	return &Importer{store: store, cfg: cfg, logger: logger}
}

// ImportBatch imports rows quiz by quiz: find-or-create the quiz and its
// publishing post, insert each question with its serialized columns, tag
// difficulty terms, then rebuild the single-page layout per quiz.
// Row-level failures are collected, infrastructure failures abort.
func (im *Importer) ImportBatch(ctx context.Context, rows []question.InputRow) (BatchResult, error) {
	var result BatchResult

	termNames := []string{difficultyRoot}
	seen := map[string]struct{}{}
	for _, name := range im.cfg.TermByLabel {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			termNames = append(termNames, name)
		}
	}
	if _, ok := seen[im.cfg.DefaultTerm]; !ok {
		termNames = append(termNames, im.cfg.DefaultTerm)
	}
	terms, err := im.store.EnsureTerms(ctx, termNames)
	if err != nil {
		return result, err
	}

	byQuiz := make(map[int64][]int64)
	var quizOrder []int64

	for _, row := range rows {
		qtype, rowErr := im.cfg.Policy.Types.Resolve(row.TypeCode)
		if rowErr != nil {
			result.Failures = append(result.Failures, RowFailure{QuestionCode: row.QuestionCode, Err: rowErr})
			continue
		}

		quizID, err := im.store.GetOrCreateQuiz(ctx, row.QuizTitle)
		if err != nil {
			return result, err
		}
		if err := im.store.EnsureCombinedSystem(ctx, quizID); err != nil {
			return result, err
		}
		postID, err := im.store.EnsureQuizPost(ctx, quizID, row.QuizTitle, im.cfg.Post)
		if err != nil {
			return result, err
		}
		if err := im.store.UpsertPostMeta(ctx, postID, "quiz_id", strconv.FormatInt(quizID, 10)); err != nil {
			return result, err
		}

		title := StatementTitle(row, im.cfg.Policy)
		settings, rowErr := BuildQuestionSettings(qtype, title, row.Hint)
		if rowErr != nil {
			result.Failures = append(result.Failures, RowFailure{QuestionCode: row.QuestionCode, Err: rowErr})
			continue
		}
		answers, rowErr := BuildAnswerArray(qtype, row.VariantsBlock, row.CorrectAnswerCell, im.cfg.Policy.DefaultShortAnswerPoints)
		if rowErr != nil {
			result.Failures = append(result.Failures, RowFailure{QuestionCode: row.QuestionCode, Err: rowErr})
			continue
		}

		questionID, err := im.store.InsertQuestion(ctx, Question{
			QuizID:       quizID,
			QuestionName: title,
			TypeLegacy:   LegacyTypeNumber(qtype),
			TypeCode:     LegacyTypeCode(qtype),
			Settings:     settings,
			AnswerArray:  answers,
			AnswerInfo:   row.VideoURL,
			Comments:     CommentsFlag(qtype),
		})
		if err != nil {
			return result, err
		}

		levelTerm := im.cfg.DefaultTerm
		if name, ok := im.cfg.TermByLabel[row.DifficultyLabel]; ok {
			levelTerm = name
		} else {
			im.logger.Warn().
				Str("question_code", row.QuestionCode).
				Str("label", row.DifficultyLabel).
				Str("term", levelTerm).
				Msg("difficulty label not in term table, using default term")
		}
		if err := im.store.AttachTerm(ctx, questionID, quizID, terms[difficultyRoot]); err != nil {
			return result, err
		}
		if err := im.store.AttachTerm(ctx, questionID, quizID, terms[levelTerm]); err != nil {
			return result, err
		}

		if _, ok := byQuiz[quizID]; !ok {
			quizOrder = append(quizOrder, quizID)
		}
		byQuiz[quizID] = append(byQuiz[quizID], questionID)
		result.Inserted++

		im.logger.Debug().
			Str("question_code", row.QuestionCode).
			Int64("quiz_id", quizID).
			Int64("question_id", questionID).
			Str("type", qtype.String()).
			Msg("legacy question inserted")
	}

	for _, quizID := range quizOrder {
		if err := im.store.UpdateQuizPages(ctx, quizID, byQuiz[quizID]); err != nil {
			return result, err
		}
	}
	return result, nil
}
