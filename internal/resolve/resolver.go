// Package resolve maps human-readable difficulty labels and course codes
// onto the identifier tables owned by the grading backend. Tables are
// loaded once per batch and read-only during mapping.
package resolve

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edstack/quiz-import/internal/question"
)

// DifficultyEntry is one row of the backend's difficulty table.
type DifficultyEntry struct {
	ID            int64
	NameLocalized string
	Code          string
}

// CourseEntry is one row of the backend's course table.
type CourseEntry struct {
	ID           int64
	ExternalCode string
	Title        string
}

// Defaults drive the difficulty fallback chain. The backend's label set
// has changed over time, so none of this is hard-coded at call sites.
type Defaults struct {
	DifficultyCode string
	DifficultyID   int64
}

// UnresolvedCourseError reports a course code that matches nothing while
// the table offers more than one candidate. Ambiguity must fail; the
// candidate list is included for operator diagnosis.
type UnresolvedCourseError struct {
	Code       string
	Candidates []CourseEntry
}

func (e *UnresolvedCourseError) Error() string {
	parts := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		parts = append(parts, fmt.Sprintf("%d:%s", c.ID, c.Title))
	}
	return fmt.Sprintf("course code %q matches none of [%s]", e.Code, strings.Join(parts, ", "))
}

// Resolver answers difficulty and course lookups for one batch.
type Resolver struct {
	difficulties []DifficultyEntry
	courses      []CourseEntry
	defaults     Defaults
	logger       zerolog.Logger
}

func New(difficulties []DifficultyEntry, courses []CourseEntry, defaults Defaults, logger zerolog.Logger) *Resolver {
	return &Resolver{
		difficulties: difficulties,
		courses:      courses,
		defaults:     defaults,
		logger:       logger,
	}
}

// Difficulty resolves a localized label to a difficulty id. It never
// fails: a miss falls back to the entry carrying the default code, then
// to the default id. Every fallback is logged and returned as an advisory.
func (r *Resolver) Difficulty(label string) (int64, []question.Advisory) {
	want := question.Normalize(label)
	for _, d := range r.difficulties {
		if question.Normalize(d.NameLocalized) == want {
			return d.ID, nil
		}
	}

	for _, d := range r.difficulties {
		if strings.EqualFold(strings.TrimSpace(d.Code), r.defaults.DifficultyCode) {
			r.logger.Warn().
				Str("label", label).
				Str("fallback_code", d.Code).
				Int64("difficulty_id", d.ID).
				Msg("difficulty label not found, using default-code entry")
			return d.ID, []question.Advisory{{
				Kind:    question.AdvisoryDifficultyFallback,
				Message: fmt.Sprintf("difficulty %q not found, fell back to code %q (id %d)", label, d.Code, d.ID),
			}}
		}
	}

	r.logger.Warn().
		Str("label", label).
		Int64("difficulty_id", r.defaults.DifficultyID).
		Msg("difficulty label not found and no default-code entry, using default id")
	return r.defaults.DifficultyID, []question.Advisory{{
		Kind:    question.AdvisoryDifficultyFallback,
		Message: fmt.Sprintf("difficulty %q not found, fell back to default id %d", label, r.defaults.DifficultyID),
	}}
}

// Course resolves a course external code to a course id. A miss against a
// multi-course table is a hard failure; a miss against a single-course
// table returns that course, since no real choice exists.
func (r *Resolver) Course(code string) (int64, []question.Advisory, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed != "" {
		for _, c := range r.courses {
			if strings.TrimSpace(c.ExternalCode) == trimmed {
				return c.ID, nil, nil
			}
		}
	}

	if len(r.courses) == 1 {
		only := r.courses[0]
		r.logger.Warn().
			Str("course_code", code).
			Int64("course_id", only.ID).
			Msg("course code not matched, using the only course in the table")
		return only.ID, []question.Advisory{{
			Kind:    question.AdvisoryCourseSingleton,
			Message: fmt.Sprintf("course code %q not matched, used the only course %d (%s)", code, only.ID, only.Title),
		}}, nil
	}

	return 0, nil, &UnresolvedCourseError{Code: code, Candidates: r.courses}
}
