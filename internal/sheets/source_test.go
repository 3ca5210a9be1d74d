package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewSource(srv.URL, "sheet-1", "Tasks", srv.Client(), zerolog.Nop())
}

func TestFetchRows(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/spreadsheets/sheet-1/values/Tasks", r.URL.Path)
		_, _ = w.Write([]byte(`{"values": [
			["Code", "Course", "Text", "Variants", "Correct", "Link", "Type", "Quiz", "Difficulty", "Hint", "Video"],
			[" Q-001 ", "GO-101", "Capital?", "Paris||2\nLondon||", "Paris", "", "SC", "Geography", "Базовая", "", ""],
			["", "", "", "", "", "", "", "", "", "", ""],
			["Q-002", "GO-101", "2+2?", "", "4", "", "SA"]
		]}`))
	})

	rows, err := src.FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Q-001", rows[0].QuestionCode)
	assert.Equal(t, "Paris||2\nLondon||", rows[0].VariantsBlock)
	assert.Equal(t, "Базовая", rows[0].DifficultyLabel)

	// Short rows are padded: every field present, empty string allowed.
	assert.Equal(t, "Q-002", rows[1].QuestionCode)
	assert.Equal(t, "SA", rows[1].TypeCode)
	assert.Equal(t, "", rows[1].QuizTitle)
	assert.Equal(t, "", rows[1].VideoURL)
}

func TestFetchRowsEmptyWorksheet(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	rows, err := src.FetchRows(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestFetchRowsAPIError(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := src.FetchRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
