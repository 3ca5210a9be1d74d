package lms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edstack/quiz-import/internal/task"
)

func TestTasksMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/tasks/meta", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		// GET requests carry no body and no content type.
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Zero(t, r.ContentLength)
		_, _ = w.Write([]byte(`{
			"version": "3",
			"difficulties": [{"id": 2, "name_ru": "Базовая", "code": "easy"}],
			"courses": [{"id": 10, "course_uid": "GO-101", "title": "Go Basics"}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", srv.Client())
	meta, err := client.TasksMeta(context.Background())
	require.NoError(t, err)

	diffs := meta.DifficultyTable()
	require.Len(t, diffs, 1)
	assert.Equal(t, int64(2), diffs[0].ID)
	assert.Equal(t, "Базовая", diffs[0].NameLocalized)
	assert.Equal(t, "easy", diffs[0].Code)

	courses := meta.CourseTable()
	require.Len(t, courses, 1)
	assert.Equal(t, "GO-101", courses[0].ExternalCode)
}

func TestValidateTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tasks/validate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// Optional fields ride along as explicit nulls.
		assert.Equal(t, "null", string(req["course_code"]))

		_, _ = w.Write([]byte(`{"is_valid": false, "errors": ["statement too short"]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", srv.Client())
	result, err := client.ValidateTask(context.Background(), ValidateRequest{
		TaskContent: task.TaskContent{Version: 1, Type: task.CategoryText},
		ExternalUID: "Q-001",
	})
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"statement too short"}, result.Errors)
}

func TestBulkUpsertTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tasks/bulk-upsert", r.URL.Path)

		var req struct {
			Items []TaskUpsertItem `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 1)
		assert.Equal(t, "Q-001", req.Items[0].ExternalUID)

		_, _ = w.Write([]byte(`{"results": [{"external_uid": "Q-001", "action": "created"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", srv.Client())
	results, err := client.BulkUpsertTasks(context.Background(), []TaskUpsertItem{{ExternalUID: "Q-001"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "created", results[0].Action)
}

func TestNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", srv.Client())
	_, err := client.TasksMeta(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
