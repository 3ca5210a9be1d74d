package question

import (
	"fmt"
	"strings"
)

// Type is the closed set of question variants. Both builders switch over
// it exhaustively; an unrecognized sheet code never becomes a Type.
type Type int

const (
	TypeUnknown Type = iota
	TypeSingleChoice
	TypeMultiChoice
	TypeShortAnswer
	TypeShortAnswerWithComment
	TypeTextArea
)

func (t Type) String() string {
	switch t {
	case TypeSingleChoice:
		return "SC"
	case TypeMultiChoice:
		return "MC"
	case TypeShortAnswer:
		return "SA"
	case TypeShortAnswerWithComment:
		return "SA_COM"
	case TypeTextArea:
		return "TA"
	default:
		return "unknown"
	}
}

// IsChoice reports whether the variant selects among fixed options.
func (t Type) IsChoice() bool {
	return t == TypeSingleChoice || t == TypeMultiChoice
}

// IsShortAnswer reports whether the variant is scored against accepted answers.
func (t Type) IsShortAnswer() bool {
	return t == TypeShortAnswer || t == TypeShortAnswerWithComment
}

// TypeTable maps sheet type codes to variants. The code set has changed
// across sheet revisions, so it is configuration rather than a constant.
type TypeTable map[string]Type

// DefaultTypeTable covers the current codes plus the historical SA+COM
// spelling still present in older sheets.
func DefaultTypeTable() TypeTable {
	return TypeTable{
		"SC":     TypeSingleChoice,
		"MC":     TypeMultiChoice,
		"SA":     TypeShortAnswer,
		"SA_COM": TypeShortAnswerWithComment,
		"SA+COM": TypeShortAnswerWithComment,
		"TA":     TypeTextArea,
	}
}

// UnknownTypeError reports a sheet type code outside the configured table.
// It is fatal for the row that carries it.
type UnknownTypeError struct {
	Code string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown question type code %q", e.Code)
}

// Resolve maps a raw sheet code to its variant, tolerating case and
// surrounding whitespace.
func (tt TypeTable) Resolve(code string) (Type, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if t, ok := tt[normalized]; ok {
		return t, nil
	}
	return TypeUnknown, &UnknownTypeError{Code: code}
}

// InputRow is one normalized question record from the sheet. Every field
// is pre-trimmed by the source; empty strings are legal, missing fields
// are not. A row is mapped once and discarded.
type InputRow struct {
	QuestionCode      string
	CourseCode        string
	Text              string
	VariantsBlock     string
	CorrectAnswerCell string
	InputLink         string
	TypeCode          string
	QuizTitle         string
	DifficultyLabel   string
	Hint              string
	VideoURL          string
}

// ChoiceOption is one selectable answer with its raw point weight.
type ChoiceOption struct {
	ID        string
	Text      string
	IsCorrect bool
	Points    float64
}

// MatchType distinguishes how an accepted answer is compared.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchRegex MatchType = "regex"
)

// AcceptedAnswer is one pattern that scores a short-answer response.
type AcceptedAnswer struct {
	Pattern   string
	MatchType MatchType
	Points    float64
}

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// OptionID assigns the id for the option at zero-based position idx:
// letters in parse order, then a numeric scheme once letters run out.
func OptionID(idx int) string {
	if idx < len(letters) {
		return string(letters[idx])
	}
	return fmt.Sprintf("opt_%d", idx+1)
}
