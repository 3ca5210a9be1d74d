// Package task builds the content and solution structures consumed by the
// grading backend. Both builders are pure functions of one input row plus
// the batch policy; correctness and points live only in SolutionRules,
// never in TaskContent.
package task

import "github.com/edstack/quiz-import/internal/question"

// Schema versions stamped on the emitted structures.
const (
	ContentSchemaVersion  = 1
	SolutionSchemaVersion = 1
)

// Coarse content categories. The fine variant code travels in Subtype.
const (
	CategoryChoice      = "choice"
	CategoryShortAnswer = "short_answer"
	CategoryText        = "text"
)

// Scoring modes understood by the grading backend.
const (
	ScoringAllOrNothing = "all_or_nothing"
	ScoringPartial      = "partial"
	ScoringManual       = "manual"
)

// Answer format kinds.
const (
	FormatChoice = "choice"
	FormatLine   = "line"
	FormatText   = "text"
)

// Policy carries the batch-level knobs the builders depend on. Everything
// here has visibly changed between sheet revisions, so none of it is a
// package constant.
type Policy struct {
	Types                    question.TypeTable
	PrependInputLink         bool
	InputLinkLabel           string
	DefaultShortAnswerPoints float64
	TextAreaMaxScore         float64
	TextAreaMaxLength        int
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		Types:                    question.DefaultTypeTable(),
		PrependInputLink:         true,
		InputLinkLabel:           "Input data",
		DefaultShortAnswerPoints: 10,
		TextAreaMaxScore:         5,
		TextAreaMaxLength:        4000,
	}
}

// TaskContent is the presentation half of a task. Absent optional fields
// marshal as explicit nulls: the backend schema distinguishes null from
// omission.
type TaskContent struct {
	Version      int             `json:"version"`
	Type         string          `json:"type"`
	Subtype      string          `json:"subtype"`
	Statement    string          `json:"statement"`
	Hint         *string         `json:"hint"`
	Attachments  []Attachment    `json:"attachments"`
	Options      []ContentOption `json:"options"`
	AnswerFormat *AnswerFormat   `json:"answer_format"`
}

// Attachment is one supplementary resource, currently only video reviews.
type Attachment struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// ContentOption is a selectable option as shown to the student: id, text
// and display order, no scoring data.
type ContentOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// AnswerFormat describes the input control for the task. Fields that do
// not apply to the kind stay null.
type AnswerFormat struct {
	Kind            string `json:"kind"`
	MultiSelect     *bool  `json:"multi_select"`
	CommentRequired *bool  `json:"comment_required"`
	MaxLength       *int   `json:"max_length"`
}

// SolutionRules is the scoring half of a task. Exactly one of Options,
// AcceptedAnswers or Rubric is populated, depending on the variant.
type SolutionRules struct {
	Version         int                  `json:"version"`
	MaxScore        float64              `json:"max_score"`
	Scoring         Scoring              `json:"scoring"`
	Options         []ScoredOption       `json:"options"`
	AcceptedAnswers []AcceptedAnswerRule `json:"accepted_answers"`
	Rubric          []RubricCriterion    `json:"rubric"`
}

// Scoring is the mode plus review flags applied when grading.
type Scoring struct {
	Mode         string `json:"mode"`
	AutoCheck    bool   `json:"auto_check"`
	ManualReview bool   `json:"manual_review_required"`
}

// ScoredOption carries the correctness and weight of one choice option.
type ScoredOption struct {
	ID      string  `json:"id"`
	Text    string  `json:"text"`
	Correct bool    `json:"correct"`
	Points  float64 `json:"points"`
}

// AcceptedAnswerRule scores one short-answer pattern. Exact patterns are
// compared case-insensitively with whitespace normalization by the backend.
type AcceptedAnswerRule struct {
	Pattern   string  `json:"pattern"`
	MatchType string  `json:"match_type"`
	Points    float64 `json:"points"`
}

// RubricCriterion is one manually graded criterion for free-text answers.
type RubricCriterion struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	MaxScore float64 `json:"max_score"`
}
