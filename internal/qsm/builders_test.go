package qsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edstack/quiz-import/internal/phpserial"
	"github.com/edstack/quiz-import/internal/question"
	"github.com/edstack/quiz-import/internal/task"
)

func TestBuildAnswerArrayChoice(t *testing.T) {
	got, err := BuildAnswerArray(question.TypeSingleChoice, "Paris||2\nLondon||", "paris", 10)
	require.NoError(t, err)
	assert.Equal(t,
		`a:2:{i:0;a:3:{i:0;s:5:"Paris";i:1;d:2;i:2;i:1;}i:1;a:3:{i:0;s:6:"London";i:1;d:0;i:2;i:0;}}`,
		got)
}

func TestBuildAnswerArrayChoiceKeepsRawPoints(t *testing.T) {
	// The legacy column keeps the sheet's raw weights; the 0→1 substitution
	// belongs to the grading target only.
	got, err := BuildAnswerArray(question.TypeMultiChoice, "A||\nB||", "A;B", 10)
	require.NoError(t, err)

	v, err := phpserial.Decode(got)
	require.NoError(t, err)
	first := v.Entries()[0].Value.Entries()
	assert.Equal(t, 0.0, first[1].Value.FloatVal())
	assert.Equal(t, int64(1), first[2].Value.IntVal())
}

func TestBuildAnswerArrayChoiceMalformedBlock(t *testing.T) {
	_, err := BuildAnswerArray(question.TypeSingleChoice, "Paris", "Paris", 10)
	assert.Error(t, err)
}

func TestBuildAnswerArrayShortAnswer(t *testing.T) {
	got, err := BuildAnswerArray(question.TypeShortAnswer, "", "42; forty two", 10)
	require.NoError(t, err)
	assert.Equal(t,
		`a:2:{i:0;a:3:{i:0;s:2:"42";i:1;d:10;i:2;i:1;}i:1;a:3:{i:0;s:9:"forty two";i:1;d:10;i:2;i:1;}}`,
		got)
}

func TestBuildAnswerArrayTextAreaIsEmpty(t *testing.T) {
	got, err := BuildAnswerArray(question.TypeTextArea, "", "", 10)
	require.NoError(t, err)
	assert.Equal(t, `a:0:{}`, got)
}

func TestBuildAnswerArrayCyrillicLengthsAreBytes(t *testing.T) {
	got, err := BuildAnswerArray(question.TypeShortAnswer, "", "тест", 10)
	require.NoError(t, err)
	assert.Contains(t, got, `s:8:"тест";`)
}

func TestBuildQuestionSettings(t *testing.T) {
	got, err := BuildQuestionSettings(question.TypeSingleChoice, "Capital?", "hint")
	require.NoError(t, err)

	v, err := phpserial.Decode(got)
	require.NoError(t, err)
	entries := v.Entries()
	require.Len(t, entries, 10)
	// Insertion order is load-bearing for the consumer.
	assert.Equal(t, "required", entries[0].Key.Str())
	assert.Equal(t, "question_title", entries[2].Key.Str())
	assert.Equal(t, "Capital?", entries[2].Value.StringVal())
	assert.Equal(t, "limit_multiple_response", entries[4].Key.Str())
	assert.Equal(t, int64(0), entries[4].Value.IntVal())
	assert.Equal(t, "placeholder_text", entries[6].Key.Str())
	assert.Equal(t, "hint", entries[6].Value.StringVal())
}

func TestBuildQuestionSettingsMultiChoiceAllowsMultipleResponses(t *testing.T) {
	got, err := BuildQuestionSettings(question.TypeMultiChoice, "Pick two", "")
	require.NoError(t, err)

	v, err := phpserial.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Entries()[4].Value.IntVal())
}

func TestBuildQPagesAndPages(t *testing.T) {
	qpages, err := BuildQPages([]int64{11, 12, 13})
	require.NoError(t, err)
	assert.Equal(t,
		`a:1:{i:0;a:4:{s:4:"page";i:1;s:5:"title";s:0:"";s:11:"description";s:0:"";s:9:"questions";a:3:{i:0;i:11;i:1;i:12;i:2;i:13;}}}`,
		qpages)

	pages, err := BuildPages([]int64{11})
	require.NoError(t, err)
	assert.Equal(t,
		`a:1:{i:0;a:2:{s:4:"page";i:1;s:9:"questions";a:1:{i:0;i:11;}}}`,
		pages)
}

func TestLegacyTypeCodeAndCommentsFlag(t *testing.T) {
	assert.Equal(t, "0", LegacyTypeCode(question.TypeSingleChoice))
	assert.Equal(t, "0", LegacyTypeCode(question.TypeMultiChoice))
	assert.Equal(t, "3", LegacyTypeCode(question.TypeShortAnswer))
	assert.Equal(t, "3", LegacyTypeCode(question.TypeShortAnswerWithComment))
	assert.Equal(t, "5", LegacyTypeCode(question.TypeTextArea))

	assert.Equal(t, 2, CommentsFlag(question.TypeShortAnswerWithComment))
	assert.Equal(t, 0, CommentsFlag(question.TypeShortAnswer))
	assert.Equal(t, 0, CommentsFlag(question.TypeTextArea))
}

func TestStatementTitle(t *testing.T) {
	policy := task.DefaultPolicy()
	policy.InputLinkLabel = "Input data"

	row := question.InputRow{Text: "Sort the file", InputLink: "https://example.com/x"}
	assert.Equal(t, "[Input data: https://example.com/x]\n\nSort the file", StatementTitle(row, policy))

	row.InputLink = ""
	assert.Equal(t, "Sort the file", StatementTitle(row, policy))
}
