package task

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edstack/quiz-import/internal/question"
)

func choiceRow() question.InputRow {
	return question.InputRow{
		QuestionCode:      "Q-001",
		Text:              "Capital of France?",
		VariantsBlock:     "Paris||2\nLondon||\nBerlin||",
		CorrectAnswerCell: "Paris",
		TypeCode:          "SC",
	}
}

func TestBuildContentChoiceOptionsCarryNoScoring(t *testing.T) {
	content, err := BuildContent(choiceRow(), question.TypeSingleChoice, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, CategoryChoice, content.Type)
	assert.Equal(t, "SC", content.Subtype)
	require.Len(t, content.Options, 3)
	assert.Equal(t, ContentOption{ID: "A", Text: "paris", Order: 0}, content.Options[0])
	assert.Equal(t, ContentOption{ID: "B", Text: "london", Order: 1}, content.Options[1])
	assert.Equal(t, ContentOption{ID: "C", Text: "berlin", Order: 2}, content.Options[2])

	require.NotNil(t, content.AnswerFormat)
	assert.Equal(t, FormatChoice, content.AnswerFormat.Kind)
	require.NotNil(t, content.AnswerFormat.MultiSelect)
	assert.False(t, *content.AnswerFormat.MultiSelect)
}

func TestBuildContentMultiChoiceAllowsMultiSelect(t *testing.T) {
	content, err := BuildContent(choiceRow(), question.TypeMultiChoice, DefaultPolicy())
	require.NoError(t, err)
	require.NotNil(t, content.AnswerFormat.MultiSelect)
	assert.True(t, *content.AnswerFormat.MultiSelect)
}

func TestBuildContentChoiceMalformedVariants(t *testing.T) {
	row := choiceRow()
	row.VariantsBlock = "Paris||2\nLondon"

	_, err := BuildContent(row, question.TypeSingleChoice, DefaultPolicy())
	var malformed *question.MalformedLineError
	require.Error(t, err)
	assert.True(t, errors.As(err, &malformed))
}

func TestBuildContentInputLinkPrefix(t *testing.T) {
	policy := DefaultPolicy()
	policy.InputLinkLabel = "Input data"

	row := choiceRow()
	row.Text = "Sort the file"
	row.InputLink = "https://example.com/data.txt"

	content, err := BuildContent(row, question.TypeSingleChoice, policy)
	require.NoError(t, err)
	assert.Equal(t, "[Input data: https://example.com/data.txt]\n\nsort the file", content.Statement)

	policy.PrependInputLink = false
	content, err = BuildContent(row, question.TypeSingleChoice, policy)
	require.NoError(t, err)
	assert.Equal(t, "sort the file", content.Statement)
}

func TestBuildContentShortAnswerFormats(t *testing.T) {
	row := question.InputRow{Text: "2+2?", CorrectAnswerCell: "4"}

	content, err := BuildContent(row, question.TypeShortAnswer, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, CategoryShortAnswer, content.Type)
	assert.Nil(t, content.Options)
	require.NotNil(t, content.AnswerFormat.CommentRequired)
	assert.False(t, *content.AnswerFormat.CommentRequired)

	content, err = BuildContent(row, question.TypeShortAnswerWithComment, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "SA_COM", content.Subtype)
	assert.True(t, *content.AnswerFormat.CommentRequired)
}

func TestBuildContentTextArea(t *testing.T) {
	policy := DefaultPolicy()
	policy.TextAreaMaxLength = 2000

	content, err := BuildContent(question.InputRow{Text: "Explain"}, question.TypeTextArea, policy)
	require.NoError(t, err)
	assert.Equal(t, CategoryText, content.Type)
	require.NotNil(t, content.AnswerFormat.MaxLength)
	assert.Equal(t, 2000, *content.AnswerFormat.MaxLength)
}

func TestBuildContentVideoAttachmentAndHint(t *testing.T) {
	row := choiceRow()
	row.VideoURL = "https://video.example.com/42"
	row.Hint = "think geography"

	content, err := BuildContent(row, question.TypeSingleChoice, DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, content.Attachments, 1)
	assert.Equal(t, Attachment{Kind: "video", URL: "https://video.example.com/42"}, content.Attachments[0])
	require.NotNil(t, content.Hint)
	assert.Equal(t, "think geography", *content.Hint)
}

func TestBuildContentAbsentOptionalsMarshalAsNull(t *testing.T) {
	content, err := BuildContent(question.InputRow{Text: "Explain"}, question.TypeTextArea, DefaultPolicy())
	require.NoError(t, err)

	data, err := json.Marshal(content)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	// The backend schema wants explicit nulls, not omitted fields.
	assert.Equal(t, "null", string(raw["hint"]))
	assert.Equal(t, "null", string(raw["attachments"]))
	assert.Equal(t, "null", string(raw["options"]))
}
