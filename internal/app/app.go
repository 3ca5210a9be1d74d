package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edstack/quiz-import/internal/config"
	"github.com/edstack/quiz-import/internal/importer"
	"github.com/edstack/quiz-import/internal/lms"
	"github.com/edstack/quiz-import/internal/logging"
	"github.com/edstack/quiz-import/internal/metrics"
	"github.com/edstack/quiz-import/internal/qsm"
	"github.com/edstack/quiz-import/internal/server"
	"github.com/edstack/quiz-import/internal/sheets"
)

// Application aggregates the import pipeline's collaborators: sheet
// source, grading API client, optional legacy store, metrics listener.
type Application struct {
	cfg     *config.App
	logger  zerolog.Logger
	service *importer.Service
	metrics *http.Server
}

// New bootstraps config, logger, the sheet source, the grading API client
// and, when enabled, the legacy MySQL store.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting importer bootstrap")

	sheetsClient, err := sheets.NewServiceAccountClient(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		return nil, err
	}
	source := sheets.NewSource(cfg.Sheets.BaseURL, cfg.Sheets.SpreadsheetID, cfg.Sheets.Worksheet, sheetsClient, logger)

	api := lms.NewClient(cfg.LMS.BaseURL, cfg.LMS.Token, nil)

	var legacy importer.LegacyTarget
	if cfg.Legacy.Enabled {
		db, err := gorm.Open(mysql.Open(cfg.Legacy.DSN), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("connect legacy store: %w", err)
		}
		repo := qsm.NewRepository(db, logger)
		legacy = qsm.NewImporter(repo, cfg.LegacyConfig(), logger)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	appInstance := &Application{
		cfg:    cfg,
		logger: logger,
		service: importer.NewService(
			source,
			api,
			legacy,
			cfg.Policy(),
			cfg.ResolveDefaults(),
			m,
			logger,
		),
	}
	if cfg.Metrics.Addr != "" {
		appInstance.metrics = server.NewMetricsServer(cfg.Metrics.Addr, registry)
	}
	return appInstance, nil
}

// Run executes one import and reports the per-row outcome. A run with row
// failures still exits successfully; the summary names every failed row.
func (a *Application) Run(ctx context.Context) error {
	if a.metrics != nil {
		go func() {
			a.logger.Info().Str("addr", a.metrics.Addr).Msg("metrics listener started")
			if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error().Err(err).Msg("metrics listener failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.metrics.Shutdown(shutdownCtx)
		}()
	}

	summary, err := a.service.Run(ctx, importer.Options{
		Limit:        a.cfg.Import.Limit,
		Workers:      a.cfg.Import.Workers,
		DryRun:       a.cfg.Import.DryRun,
		LegacyImport: a.cfg.Legacy.Enabled,
	})
	if err != nil {
		return err
	}

	for _, failure := range summary.Failures {
		a.logger.Warn().
			Str("question_code", failure.QuestionCode).
			Str("reason", failure.Err.Error()).
			Msg("row not imported")
	}
	a.logger.Info().
		Str("batch_id", summary.BatchID).
		Int("total", summary.Total).
		Int("valid", summary.Valid).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("failed", len(summary.Failures)).
		Msg("import run finished")
	return nil
}
