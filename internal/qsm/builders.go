// Package qsm targets the legacy quiz store: it builds the serialized
// answer-array and question-settings column values and persists questions
// into the store's MySQL schema.
package qsm

import (
	"github.com/edstack/quiz-import/internal/phpserial"
	"github.com/edstack/quiz-import/internal/question"
	"github.com/edstack/quiz-import/internal/task"
)

// Legacy numeric question type codes used by the store.
const (
	legacyTypeChoice      = "0"
	legacyTypeShortAnswer = "3"
	legacyTypeTextArea    = "5"
)

// Comment column values: 0 disables the comment box, 2 makes it required.
const (
	commentsOff      = 0
	commentsRequired = 2
)

// LegacyTypeCode maps a variant to the store's numeric type code.
func LegacyTypeCode(qtype question.Type) string {
	switch {
	case qtype.IsChoice():
		return legacyTypeChoice
	case qtype.IsShortAnswer():
		return legacyTypeShortAnswer
	default:
		return legacyTypeTextArea
	}
}

// LegacyTypeNumber maps a variant to the old numeric question_type
// column, which the schema keeps NOT NULL alongside the newer text code.
func LegacyTypeNumber(qtype question.Type) int {
	switch {
	case qtype.IsChoice():
		return 0
	case qtype.IsShortAnswer():
		return 3
	default:
		return 5
	}
}

// CommentsFlag returns the store's comment column value for a variant.
func CommentsFlag(qtype question.Type) int {
	if qtype == question.TypeShortAnswerWithComment {
		return commentsRequired
	}
	return commentsOff
}

// BuildAnswerArray serializes the store's answer-array column: a list of
// [text, points, correct] triples. Choice rows keep their raw point
// weights and raw text; short-answer rows take the batch default points;
// textarea rows store an empty array.
func BuildAnswerArray(qtype question.Type, variantsBlock, correctCell string, defaultPoints float64) (string, error) {
	switch {
	case qtype.IsChoice():
		variants, err := question.ParseVariantsBlock(variantsBlock)
		if err != nil {
			return "", err
		}
		correct := make(map[string]struct{})
		for _, token := range question.ParseCorrectList(correctCell) {
			correct[question.Normalize(token)] = struct{}{}
		}
		triples := make([]phpserial.Value, 0, len(variants))
		for _, v := range variants {
			_, isCorrect := correct[question.Normalize(v.Text)]
			triples = append(triples, answerTriple(v.Text, v.Points, isCorrect))
		}
		return phpserial.Encode(phpserial.List(triples...))

	case qtype.IsShortAnswer():
		accepted := question.ParseCorrectList(correctCell)
		triples := make([]phpserial.Value, 0, len(accepted))
		for _, text := range accepted {
			triples = append(triples, answerTriple(text, defaultPoints, defaultPoints > 0))
		}
		return phpserial.Encode(phpserial.List(triples...))

	default:
		return phpserial.Encode(phpserial.List())
	}
}

func answerTriple(text string, points float64, correct bool) phpserial.Value {
	flag := int64(0)
	if correct {
		flag = 1
	}
	return phpserial.List(
		phpserial.String(text),
		phpserial.Float(points),
		phpserial.Int(flag),
	)
}

// BuildQuestionSettings serializes the store's question-settings column.
// Key order matters to the consumer, so the map is built as an ordered
// array rather than a Go map.
func BuildQuestionSettings(qtype question.Type, title, placeholder string) (string, error) {
	limitMultiple := int64(0)
	if qtype == question.TypeMultiChoice {
		limitMultiple = 1
	}
	settings := phpserial.Array(
		entry("required", phpserial.Int(1)),
		entry("answerEditor", phpserial.String("text")),
		entry("question_title", phpserial.String(title)),
		entry("matchAnswer", phpserial.String("random")),
		entry("limit_multiple_response", phpserial.Int(limitMultiple)),
		entry("case_sensitive", phpserial.Int(0)),
		entry("placeholder_text", phpserial.String(placeholder)),
		entry("min_text_length", phpserial.Int(0)),
		entry("file_upload_limit", phpserial.Int(4)),
		entry("file_upload_type", phpserial.String("image,application/pdf")),
	)
	return phpserial.Encode(settings)
}

// BuildQPages serializes the quiz's qpages column: one page holding every
// question id in insertion order.
func BuildQPages(questionIDs []int64) (string, error) {
	page := phpserial.Array(
		entry("page", phpserial.Int(1)),
		entry("title", phpserial.String("")),
		entry("description", phpserial.String("")),
		entry("questions", idList(questionIDs)),
	)
	return phpserial.Encode(phpserial.List(page))
}

// BuildPages serializes the quiz's pages column, the slimmer companion of
// qpages.
func BuildPages(questionIDs []int64) (string, error) {
	page := phpserial.Array(
		entry("page", phpserial.Int(1)),
		entry("questions", idList(questionIDs)),
	)
	return phpserial.Encode(phpserial.List(page))
}

// StatementTitle mirrors the grading-target statement for the legacy
// question title: the raw text, optionally prefixed with the input link.
func StatementTitle(row question.InputRow, policy task.Policy) string {
	if !policy.PrependInputLink || row.InputLink == "" {
		return row.Text
	}
	return "[" + policy.InputLinkLabel + ": " + row.InputLink + "]\n\n" + row.Text
}

func entry(key string, v phpserial.Value) phpserial.Entry {
	return phpserial.Entry{Key: phpserial.StringKey(key), Value: v}
}

func idList(ids []int64) phpserial.Value {
	values := make([]phpserial.Value, 0, len(ids))
	for _, id := range ids {
		values = append(values, phpserial.Int(id))
	}
	return phpserial.List(values...)
}
