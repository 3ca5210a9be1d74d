package task

import (
	"fmt"

	"github.com/edstack/quiz-import/internal/question"
)

// BuildContent produces the TaskContent for one row. It fails only when
// the variants block of a choice question cannot be parsed.
func BuildContent(row question.InputRow, qtype question.Type, policy Policy) (TaskContent, error) {
	content := TaskContent{
		Version:   ContentSchemaVersion,
		Subtype:   qtype.String(),
		Statement: buildStatement(row, policy),
		Hint:      optionalString(row.Hint),
	}

	if row.VideoURL != "" {
		content.Attachments = []Attachment{{Kind: "video", URL: row.VideoURL}}
	}

	switch qtype {
	case question.TypeSingleChoice, question.TypeMultiChoice:
		variants, err := question.ParseVariantsBlock(row.VariantsBlock)
		if err != nil {
			return TaskContent{}, err
		}
		content.Type = CategoryChoice
		content.Options = make([]ContentOption, 0, len(variants))
		for i, v := range variants {
			content.Options = append(content.Options, ContentOption{
				ID:    question.OptionID(i),
				Text:  question.Normalize(v.Text),
				Order: i,
			})
		}
		content.AnswerFormat = &AnswerFormat{
			Kind:        FormatChoice,
			MultiSelect: boolPtr(qtype == question.TypeMultiChoice),
		}
	case question.TypeShortAnswer, question.TypeShortAnswerWithComment:
		content.Type = CategoryShortAnswer
		content.AnswerFormat = &AnswerFormat{
			Kind:            FormatLine,
			CommentRequired: boolPtr(qtype == question.TypeShortAnswerWithComment),
		}
	case question.TypeTextArea:
		content.Type = CategoryText
		content.AnswerFormat = &AnswerFormat{
			Kind:      FormatText,
			MaxLength: intPtr(policy.TextAreaMaxLength),
		}
	default:
		return TaskContent{}, fmt.Errorf("build content: %w", &question.UnknownTypeError{Code: qtype.String()})
	}

	return content, nil
}

// buildStatement normalizes the question text and, when enabled and a link
// is present, prefixes a labeled input-data block separated by a blank line.
func buildStatement(row question.InputRow, policy Policy) string {
	base := question.Normalize(row.Text)
	if !policy.PrependInputLink || row.InputLink == "" {
		return base
	}
	return fmt.Sprintf("[%s: %s]\n\n%s", policy.InputLinkLabel, row.InputLink, base)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
