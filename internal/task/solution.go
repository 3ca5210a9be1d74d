package task

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/edstack/quiz-import/internal/question"
)

const regexPrefix = "re:"

// BuildSolution produces the SolutionRules for one row. Non-fatal findings
// (a dropped invalid regex, an unknown-variant placeholder) come back as
// advisories; a malformed variants block on a choice row is the only error.
func BuildSolution(row question.InputRow, qtype question.Type, policy Policy) (SolutionRules, []question.Advisory, error) {
	switch qtype {
	case question.TypeSingleChoice, question.TypeMultiChoice:
		rules, err := buildChoiceSolution(row, qtype)
		return rules, nil, err
	case question.TypeShortAnswer, question.TypeShortAnswerWithComment:
		rules, advisories := buildShortAnswerSolution(row, qtype, policy)
		return rules, advisories, nil
	case question.TypeTextArea:
		return buildTextAreaSolution(policy), nil, nil
	default:
		// Not reachable when the content builder validated the type first;
		// still answered with an explicit manual placeholder rather than a
		// silent success.
		return SolutionRules{
				Version: SolutionSchemaVersion,
				Scoring: Scoring{Mode: ScoringManual, AutoCheck: false, ManualReview: true},
			}, []question.Advisory{{
				Kind:    question.AdvisoryUnknownVariant,
				Message: fmt.Sprintf("no scoring rules for variant %q, emitted zero-score manual placeholder", qtype),
			}}, nil
	}
}

// MatchOptions marks the options listed in the correct-answer cell as
// correct, matching by normalized text so the answer cell is insensitive
// to case, surrounding whitespace and option order.
func MatchOptions(variantsBlock, correctCell string) ([]question.ChoiceOption, error) {
	variants, err := question.ParseVariantsBlock(variantsBlock)
	if err != nil {
		return nil, err
	}

	correct := make(map[string]struct{})
	for _, token := range question.ParseCorrectList(correctCell) {
		correct[question.Normalize(token)] = struct{}{}
	}

	options := make([]question.ChoiceOption, 0, len(variants))
	for i, v := range variants {
		text := question.Normalize(v.Text)
		_, isCorrect := correct[text]
		options = append(options, question.ChoiceOption{
			ID:        question.OptionID(i),
			Text:      text,
			IsCorrect: isCorrect,
			Points:    v.Points,
		})
	}
	return options, nil
}

func buildChoiceSolution(row question.InputRow, qtype question.Type) (SolutionRules, error) {
	options, err := MatchOptions(row.VariantsBlock, row.CorrectAnswerCell)
	if err != nil {
		return SolutionRules{}, err
	}

	var maxScore float64
	scored := make([]ScoredOption, 0, len(options))
	for _, opt := range options {
		points := opt.Points
		if opt.IsCorrect && points == 0 {
			// An un-pointed answer cell must still be scoreable.
			points = 1
		}
		if opt.IsCorrect {
			maxScore += points
		}
		scored = append(scored, ScoredOption{
			ID:      opt.ID,
			Text:    opt.Text,
			Correct: opt.IsCorrect,
			Points:  points,
		})
	}

	mode := ScoringAllOrNothing
	if qtype == question.TypeMultiChoice {
		mode = ScoringPartial
	}

	return SolutionRules{
		Version:  SolutionSchemaVersion,
		MaxScore: maxScore,
		Scoring:  Scoring{Mode: mode, AutoCheck: true, ManualReview: false},
		Options:  scored,
	}, nil
}

// ParseAcceptedAnswers turns the correct-answer cell into accepted-answer
// rules. A "re:"-prefixed candidate becomes a regex rule; an invalid regex
// is dropped with an advisory instead of failing the row.
func ParseAcceptedAnswers(cell string, points float64) ([]question.AcceptedAnswer, []question.Advisory) {
	var accepted []question.AcceptedAnswer
	var advisories []question.Advisory

	for _, candidate := range question.ParseCorrectList(cell) {
		if strings.HasPrefix(candidate, regexPrefix) {
			pattern := strings.TrimSpace(strings.TrimPrefix(candidate, regexPrefix))
			if _, err := regexp.Compile(pattern); err != nil {
				advisories = append(advisories, question.Advisory{
					Kind:    question.AdvisoryInvalidRegex,
					Message: fmt.Sprintf("dropped invalid regex answer %q: %v", pattern, err),
				})
				continue
			}
			accepted = append(accepted, question.AcceptedAnswer{
				Pattern:   pattern,
				MatchType: question.MatchRegex,
				Points:    points,
			})
			continue
		}
		accepted = append(accepted, question.AcceptedAnswer{
			Pattern:   candidate,
			MatchType: question.MatchExact,
			Points:    points,
		})
	}
	return accepted, advisories
}

func buildShortAnswerSolution(row question.InputRow, qtype question.Type, policy Policy) (SolutionRules, []question.Advisory) {
	accepted, advisories := ParseAcceptedAnswers(row.CorrectAnswerCell, policy.DefaultShortAnswerPoints)

	rules := make([]AcceptedAnswerRule, 0, len(accepted))
	for _, a := range accepted {
		rules = append(rules, AcceptedAnswerRule{
			Pattern:   a.Pattern,
			MatchType: string(a.MatchType),
			Points:    a.Points,
		})
	}

	scoring := Scoring{
		Mode:         ScoringAllOrNothing,
		AutoCheck:    len(rules) > 0,
		ManualReview: len(rules) == 0,
	}
	if qtype == question.TypeShortAnswerWithComment {
		// The automatic score stands, but the comment needs a human.
		scoring.ManualReview = true
	}

	return SolutionRules{
		Version:         SolutionSchemaVersion,
		MaxScore:        policy.DefaultShortAnswerPoints,
		Scoring:         scoring,
		AcceptedAnswers: rules,
	}, advisories
}

func buildTextAreaSolution(policy Policy) SolutionRules {
	return SolutionRules{
		Version:  SolutionSchemaVersion,
		MaxScore: policy.TextAreaMaxScore,
		Scoring:  Scoring{Mode: ScoringManual, AutoCheck: false, ManualReview: true},
		Rubric: []RubricCriterion{{
			ID:       "content",
			Title:    "Answer content",
			MaxScore: policy.TextAreaMaxScore,
		}},
	}
}
