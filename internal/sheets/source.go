// Package sheets reads question rows from a Google Sheets worksheet via
// the REST values endpoint, authorized with a service account.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"

	"github.com/edstack/quiz-import/internal/question"
)

const (
	defaultBaseURL = "https://sheets.googleapis.com"
	readonlyScope  = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

// columnCount is the fixed worksheet layout: question code, course code,
// text, variants block, correct answer, input link, type code, quiz
// title, difficulty, hint, video URL.
const columnCount = 11

// NewServiceAccountClient builds an authorized HTTP client from a
// service-account credentials file.
func NewServiceAccountClient(ctx context.Context, credentialsFile string) (*http.Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(data, readonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	return cfg.Client(ctx), nil
}

// Source fetches one worksheet and maps its rows.
type Source struct {
	baseURL       string
	spreadsheetID string
	worksheet     string
	httpClient    *http.Client
	logger        zerolog.Logger
}

func NewSource(baseURL, spreadsheetID, worksheet string, httpClient *http.Client, logger zerolog.Logger) *Source {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Source{
		baseURL:       baseURL,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		httpClient:    httpClient,
		logger:        logger,
	}
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

// FetchRows returns the worksheet's data rows as InputRows. The first row
// is the header; blank rows are skipped; short rows are padded so every
// field is present (possibly empty), never missing.
func (s *Source) FetchRows(ctx context.Context) ([]question.InputRow, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		s.baseURL, url.PathEscape(s.spreadsheetID), url.PathEscape(s.worksheet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch worksheet %q: %w", s.worksheet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sheets API returned %d for worksheet %q", resp.StatusCode, s.worksheet)
	}

	var payload valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode sheets response: %w", err)
	}
	if len(payload.Values) == 0 {
		return nil, nil
	}

	rows := make([]question.InputRow, 0, len(payload.Values)-1)
	for _, raw := range payload.Values[1:] {
		row, blank := mapRow(raw)
		if blank {
			continue
		}
		rows = append(rows, row)
	}
	s.logger.Debug().Int("rows", len(rows)).Str("worksheet", s.worksheet).Msg("worksheet fetched")
	return rows, nil
}

func mapRow(raw []string) (question.InputRow, bool) {
	cells := make([]string, columnCount)
	blank := true
	for i := 0; i < columnCount && i < len(raw); i++ {
		cells[i] = strings.TrimSpace(raw[i])
		if cells[i] != "" {
			blank = false
		}
	}
	if blank {
		return question.InputRow{}, true
	}
	return question.InputRow{
		QuestionCode:      cells[0],
		CourseCode:        cells[1],
		Text:              cells[2],
		VariantsBlock:     cells[3],
		CorrectAnswerCell: cells[4],
		InputLink:         cells[5],
		TypeCode:          cells[6],
		QuizTitle:         cells[7],
		DifficultyLabel:   cells[8],
		Hint:              cells[9],
		VideoURL:          cells[10],
	}, false
}
