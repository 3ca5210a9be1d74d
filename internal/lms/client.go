// Package lms talks to the remote grading API: lookup tables, task
// validation and bulk upsert.
package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edstack/quiz-import/internal/resolve"
	"github.com/edstack/quiz-import/internal/task"
)

// Client is a thin HTTP client for the grading API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, httpClient: httpClient}
}

// Meta is the per-batch lookup payload: the difficulty and course tables
// owned by the grading backend.
type Meta struct {
	Version      string            `json:"version"`
	Difficulties []DifficultyEntry `json:"difficulties"`
	Courses      []CourseEntry     `json:"courses"`
}

type DifficultyEntry struct {
	ID     int64  `json:"id"`
	NameRU string `json:"name_ru"`
	Code   string `json:"code"`
}

type CourseEntry struct {
	ID        int64  `json:"id"`
	CourseUID string `json:"course_uid"`
	Title     string `json:"title"`
}

// DifficultyTable converts the wire payload into resolver entries.
func (m Meta) DifficultyTable() []resolve.DifficultyEntry {
	out := make([]resolve.DifficultyEntry, 0, len(m.Difficulties))
	for _, d := range m.Difficulties {
		out = append(out, resolve.DifficultyEntry{ID: d.ID, NameLocalized: d.NameRU, Code: d.Code})
	}
	return out
}

// CourseTable converts the wire payload into resolver entries.
func (m Meta) CourseTable() []resolve.CourseEntry {
	out := make([]resolve.CourseEntry, 0, len(m.Courses))
	for _, c := range m.Courses {
		out = append(out, resolve.CourseEntry{ID: c.ID, ExternalCode: c.CourseUID, Title: c.Title})
	}
	return out
}

// TaskUpsertItem is one task in the bulk-upsert payload.
type TaskUpsertItem struct {
	ExternalUID   string             `json:"external_uid"`
	CourseID      int64              `json:"course_id"`
	DifficultyID  int64              `json:"difficulty_id"`
	TaskContent   task.TaskContent   `json:"task_content"`
	SolutionRules task.SolutionRules `json:"solution_rules"`
	MaxScore      float64            `json:"max_score"`
}

// ValidateRequest asks the backend to check one task before upserting.
type ValidateRequest struct {
	TaskContent    task.TaskContent   `json:"task_content"`
	SolutionRules  task.SolutionRules `json:"solution_rules"`
	ExternalUID    string             `json:"external_uid"`
	DifficultyCode *string            `json:"difficulty_code"`
	CourseCode     *string            `json:"course_code"`
}

type ValidateResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

type UpsertResult struct {
	ExternalUID string `json:"external_uid"`
	Action      string `json:"action"`
}

type bulkUpsertRequest struct {
	Items []TaskUpsertItem `json:"items"`
}

type bulkUpsertResponse struct {
	Results []UpsertResult `json:"results"`
}

// TasksMeta fetches the lookup tables for the batch.
func (c *Client) TasksMeta(ctx context.Context) (Meta, error) {
	var meta Meta
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/meta", nil, &meta); err != nil {
		return Meta{}, err
	}
	return meta, nil
}

// ValidateTask submits one mapped task for schema validation.
func (c *Client) ValidateTask(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	var result ValidateResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks/validate", req, &result); err != nil {
		return ValidateResult{}, err
	}
	return result, nil
}

// BulkUpsertTasks submits the validated batch.
func (c *Client) BulkUpsertTasks(ctx context.Context, items []TaskUpsertItem) ([]UpsertResult, error) {
	var resp bulkUpsertResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks/bulk-upsert", bulkUpsertRequest{Items: items}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("lms: marshal %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("lms: %s %s returned %d", method, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lms: decode %s response: %w", path, err)
	}
	return nil
}
