// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/open-edge-platform/comment-highlighter/internal/config"
	"github.com/open-edge-platform/comment-highlighter/internal/database"
	"github.com/open-edge-platform/comment-highlighter/internal/database/models"
	"github.com/open-edge-platform/comment-highlighter/internal/diagnostics"
	"github.com/open-edge-platform/comment-highlighter/internal/syntax"
)

// takenTimeoutFactor multiplied by the polling rate gives the time after which a taken document
// is handed back to the pending pool.
const takenTimeoutFactor = 10

// Analyzer processes stored documents asynchronously. Pending documents are taken in batches,
// scanned with the rules of their language, and their summary is written back to the database.
type Analyzer struct {
	ownerUUID uuid.UUID
	cfg       config.AnalyzerConfig
	languages *syntax.Registry
	documents database.DocumentAnalyzerManager
	logger    *slog.Logger
	quit      chan struct{}
}

// NewAnalyzer creates a new Analyzer identified by ownerUUID, which takes documents through the given manager.
func NewAnalyzer(
	ownerUUID uuid.UUID, cfg config.AnalyzerConfig, languages *syntax.Registry, documents database.DocumentAnalyzerManager, loglevel string,
) *Analyzer {
	opts := setLogLvl(loglevel)
	return &Analyzer{
		ownerUUID: ownerUUID,
		cfg:       cfg,
		languages: languages,
		documents: documents,
		logger:    slog.New(slog.NewTextHandler(os.Stdout, &opts)),
		quit:      make(chan struct{}),
	}
}

// Start processes documents periodically by means of a ticker, until Stop is called or ctx is done.
func (a *Analyzer) Start(ctx context.Context) {
	go func() {
		i := 0

		processTicker := time.NewTicker(a.cfg.PollingRate)
		defer processTicker.Stop()

		for {
			select {
			case <-a.quit:
				a.logger.Info("Received signal: stopping analyzer")
				return
			case <-ctx.Done():
				a.logger.Info("Context done: stopping analyzer")
				return
			case <-processTicker.C:
				a.processDocuments(ctx)

				if i%30 == 0 {
					a.resetTakenDocuments(ctx)
				}
				if i == 5 {
					a.purgeAnalyzedDocuments(ctx)
				}

				i = (i + 1) % 1000
			}
		}
	}()
}

// Stop stops processing documents.
func (a *Analyzer) Stop() {
	close(a.quit)
}

// Summarize computes the summary stored for a document: the number of regions and comments of src, and the
// number of warnings and errors reported for it.
func Summarize(src string, lang *syntax.Language) models.DocumentSummary {
	var summary models.DocumentSummary
	for r := range lang.Scan(src) {
		summary.Regions++
		if r.Kind.IsComment() {
			summary.Comments++
		}
	}

	diags := diagnostics.Check(src, lang)
	summary.Warnings = int64(diags.Count(diagnostics.SeverityWarning))
	summary.Errors = int64(diags.Count(diagnostics.SeverityError))
	return summary
}

func (a *Analyzer) processDocuments(ctx context.Context) {
	docs, err := a.documents.GetPendingDocuments(ctx, a.ownerUUID, a.cfg.BatchSize)
	if err != nil {
		a.logger.Error("failed to get pending documents", slog.Any("error", err))
		return
	}

	for _, doc := range docs {
		if err := a.analyzeDocument(ctx, &doc); err != nil {
			a.logger.Error(fmt.Sprintf("failed to analyze document %q", doc.UUID), slog.Any("error", err))
		}
	}
}

func (a *Analyzer) analyzeDocument(ctx context.Context, doc *models.Document) error {
	lang, err := a.languages.Resolve(doc.Language, doc.Name)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("cannot analyze document %q", doc.UUID), slog.Any("error", err))
		return a.documents.SetDocumentFailed(ctx, doc.UUID)
	}

	summary := Summarize(doc.Content, lang)
	a.logger.Debug("analyzed document",
		slog.String("uuid", doc.UUID.String()),
		slog.String("language", lang.Name),
		slog.Int64("regions", summary.Regions),
		slog.Int64("errors", summary.Errors),
	)
	return a.documents.SetDocumentAnalyzed(ctx, doc.UUID, summary)
}

func (a *Analyzer) resetTakenDocuments(ctx context.Context) {
	timeout := takenTimeoutFactor * a.cfg.PollingRate
	if err := a.documents.ResetTakenDocumentsExceedingDuration(ctx, timeout); err != nil {
		a.logger.Error("failed to reset documents exceeding taken timeout", slog.Any("error", err))
	}
}

func (a *Analyzer) purgeAnalyzedDocuments(ctx context.Context) {
	if a.cfg.RetentionTime == 0 {
		return
	}
	if err := a.documents.DeleteAnalyzedDocumentsExceedingDuration(ctx, a.cfg.RetentionTime); err != nil {
		a.logger.Error("failed to clean up analyzed documents", slog.Any("error", err))
	}
}

func setLogLvl(logLvl string) slog.HandlerOptions {
	switch logLvl {
	case "debug":
		return slog.HandlerOptions{Level: slog.LevelDebug}
	case "warn":
		return slog.HandlerOptions{Level: slog.LevelWarn}
	case "error":
		return slog.HandlerOptions{Level: slog.LevelError}
	default:
		return slog.HandlerOptions{Level: slog.LevelInfo}
	}
}
