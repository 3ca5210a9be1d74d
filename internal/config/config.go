package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"

	"github.com/edstack/quiz-import/internal/qsm"
	"github.com/edstack/quiz-import/internal/question"
	"github.com/edstack/quiz-import/internal/resolve"
	"github.com/edstack/quiz-import/internal/task"
)

// App holds the runtime configuration for one importer process.
type App struct {
	Name string `env:"APP_NAME" envDefault:"quiz-import"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	Sheets  Sheets
	LMS     LMS
	Legacy  Legacy
	Import  Import
	Metrics Metrics
}

// Sheets locates the source worksheet.
type Sheets struct {
	BaseURL         string `env:"GSHEETS_BASE_URL"`
	SpreadsheetID   string `env:"GSHEETS_SPREADSHEET_ID,notEmpty"`
	Worksheet       string `env:"GSHEETS_WORKSHEET" envDefault:"Tasks"`
	CredentialsFile string `env:"GSHEETS_CREDENTIALS_FILE,notEmpty"`
}

// LMS configures the grading API client.
type LMS struct {
	BaseURL string `env:"LMS_BASE_URL,notEmpty"`
	Token   string `env:"LMS_API_TOKEN"`
}

// Legacy configures the optional legacy quiz store target.
type Legacy struct {
	Enabled bool   `env:"LEGACY_IMPORT_ENABLED" envDefault:"false"`
	DSN     string `env:"LEGACY_MYSQL_DSN"`

	// Quiz publishing post settings.
	PostAuthorID int64  `env:"LEGACY_WP_AUTHOR_ID" envDefault:"1"`
	PostStatus   string `env:"LEGACY_WP_POST_STATUS" envDefault:"private"`
	SiteURL      string `env:"LEGACY_WP_SITE_URL"`
}

// Import groups the mapping policy. The sheet's code and label sets have
// changed between revisions, so everything here is overridable.
type Import struct {
	DryRun            bool    `env:"IMPORT_DRY_RUN" envDefault:"false"`
	Limit             int     `env:"IMPORT_ROW_LIMIT" envDefault:"0"`
	Workers           int     `env:"IMPORT_WORKERS" envDefault:"4"`
	PrependInputLink  bool    `env:"IMPORT_PREPEND_INPUT_LINK" envDefault:"true"`
	InputLinkLabel    string  `env:"IMPORT_INPUT_LINK_LABEL" envDefault:"Input data"`
	ShortAnswerPoints float64 `env:"IMPORT_SHORT_ANSWER_POINTS" envDefault:"10"`
	TextAreaMaxScore  float64 `env:"IMPORT_TEXTAREA_MAX_SCORE" envDefault:"5"`
	TextAreaMaxLength int     `env:"IMPORT_TEXTAREA_MAX_LENGTH" envDefault:"4000"`

	// Extra type-code spellings mapped onto the canonical codes,
	// e.g. "SA+COM:SA_COM,ESSAY:TA".
	TypeAliases map[string]string `env:"IMPORT_TYPE_ALIASES" envSeparator:","`

	DefaultDifficultyCode string `env:"IMPORT_DEFAULT_DIFFICULTY_CODE" envDefault:"easy"`
	DefaultDifficultyID   int64  `env:"IMPORT_DEFAULT_DIFFICULTY_ID" envDefault:"2"`

	// Difficulty label → legacy term name, e.g. "Базовая:Easy".
	LegacyTerms       map[string]string `env:"IMPORT_LEGACY_TERMS" envSeparator:","`
	DefaultLegacyTerm string            `env:"IMPORT_DEFAULT_LEGACY_TERM" envDefault:"Easy"`
}

// Metrics configures the optional progress listener.
type Metrics struct {
	Addr string `env:"METRICS_ADDR"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Legacy.Enabled && cfg.Legacy.DSN == "" {
		return nil, fmt.Errorf("LEGACY_MYSQL_DSN must be set when LEGACY_IMPORT_ENABLED is true")
	}
	return cfg, nil
}

// Policy assembles the mapping policy from the import settings.
func (c *App) Policy() task.Policy {
	types := question.DefaultTypeTable()
	canonical := question.DefaultTypeTable()
	for alias, code := range c.Import.TypeAliases {
		if t, ok := canonical[strings.ToUpper(strings.TrimSpace(code))]; ok {
			types[strings.ToUpper(strings.TrimSpace(alias))] = t
		}
	}
	return task.Policy{
		Types:                    types,
		PrependInputLink:         c.Import.PrependInputLink,
		InputLinkLabel:           c.Import.InputLinkLabel,
		DefaultShortAnswerPoints: c.Import.ShortAnswerPoints,
		TextAreaMaxScore:         c.Import.TextAreaMaxScore,
		TextAreaMaxLength:        c.Import.TextAreaMaxLength,
	}
}

// ResolveDefaults returns the difficulty fallback configuration.
func (c *App) ResolveDefaults() resolve.Defaults {
	return resolve.Defaults{
		DifficultyCode: c.Import.DefaultDifficultyCode,
		DifficultyID:   c.Import.DefaultDifficultyID,
	}
}

// LegacyConfig returns the legacy-store import configuration.
func (c *App) LegacyConfig() qsm.ImportConfig {
	cfg := qsm.DefaultImportConfig()
	cfg.Policy = c.Policy()
	if len(c.Import.LegacyTerms) > 0 {
		cfg.TermByLabel = c.Import.LegacyTerms
	}
	cfg.DefaultTerm = c.Import.DefaultLegacyTerm
	cfg.Post = qsm.PostOptions{
		AuthorID: c.Legacy.PostAuthorID,
		Status:   c.Legacy.PostStatus,
		SiteURL:  c.Legacy.SiteURL,
	}
	return cfg
}
