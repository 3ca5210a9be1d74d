package resolve

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edstack/quiz-import/internal/question"
)

var testDefaults = Defaults{DifficultyCode: "easy", DifficultyID: 2}

func newResolver(difficulties []DifficultyEntry, courses []CourseEntry) *Resolver {
	return New(difficulties, courses, testDefaults, zerolog.Nop())
}

func difficultyTable() []DifficultyEntry {
	return []DifficultyEntry{
		{ID: 1, NameLocalized: "Теория", Code: "theory"},
		{ID: 2, NameLocalized: "Базовая", Code: "easy"},
		{ID: 3, NameLocalized: "Нормальная", Code: "normal"},
		{ID: 4, NameLocalized: "Сложная", Code: "hard"},
	}
}

func TestDifficultyExactMatch(t *testing.T) {
	r := newResolver(difficultyTable(), nil)

	id, advisories := r.Difficulty("Сложная")
	assert.Equal(t, int64(4), id)
	assert.Empty(t, advisories)
}

func TestDifficultyMatchIsCaseAndSpaceInsensitive(t *testing.T) {
	r := newResolver(difficultyTable(), nil)

	id, advisories := r.Difficulty("  нормальная ")
	assert.Equal(t, int64(3), id)
	assert.Empty(t, advisories)
}

func TestDifficultyFallsBackToDefaultCodeEntry(t *testing.T) {
	r := newResolver(difficultyTable(), nil)

	id, advisories := r.Difficulty("Marathon")
	assert.Equal(t, int64(2), id)
	require.Len(t, advisories, 1)
	assert.Equal(t, question.AdvisoryDifficultyFallback, advisories[0].Kind)
}

func TestDifficultyFallsBackToDefaultID(t *testing.T) {
	table := []DifficultyEntry{{ID: 9, NameLocalized: "Expert", Code: "expert"}}
	r := newResolver(table, nil)

	id, advisories := r.Difficulty("Marathon")
	assert.Equal(t, testDefaults.DifficultyID, id)
	require.Len(t, advisories, 1)
	assert.Equal(t, question.AdvisoryDifficultyFallback, advisories[0].Kind)
}

func TestCourseExactMatch(t *testing.T) {
	r := newResolver(nil, []CourseEntry{
		{ID: 10, ExternalCode: "GO-101", Title: "Go Basics"},
		{ID: 11, ExternalCode: "GO-201", Title: "Go Advanced"},
	})

	id, advisories, err := r.Course("GO-201")
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Empty(t, advisories)
}

func TestCourseSingletonTableWinsOnMismatch(t *testing.T) {
	r := newResolver(nil, []CourseEntry{{ID: 10, ExternalCode: "GO-101", Title: "Go Basics"}})

	id, advisories, err := r.Course("UNKNOWN")
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)
	require.Len(t, advisories, 1)
	assert.Equal(t, question.AdvisoryCourseSingleton, advisories[0].Kind)
}

func TestCourseMismatchAgainstMultipleCoursesFails(t *testing.T) {
	r := newResolver(nil, []CourseEntry{
		{ID: 10, ExternalCode: "GO-101", Title: "Go Basics"},
		{ID: 11, ExternalCode: "GO-201", Title: "Go Advanced"},
	})

	_, _, err := r.Course("UNKNOWN")
	var unresolved *UnresolvedCourseError
	require.Error(t, err)
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "UNKNOWN", unresolved.Code)
	assert.Len(t, unresolved.Candidates, 2)
	assert.Contains(t, err.Error(), "UNKNOWN")
	assert.Contains(t, err.Error(), "Go Advanced")
}

func TestCourseEmptyCodeUsesSingletonOrFails(t *testing.T) {
	single := newResolver(nil, []CourseEntry{{ID: 10, ExternalCode: "GO-101", Title: "Go Basics"}})
	id, _, err := single.Course("")
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)

	multi := newResolver(nil, []CourseEntry{
		{ID: 10, ExternalCode: "GO-101", Title: "Go Basics"},
		{ID: 11, ExternalCode: "GO-201", Title: "Go Advanced"},
	})
	_, _, err = multi.Course("")
	assert.Error(t, err)
}
