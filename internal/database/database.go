// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/open-edge-platform/comment-highlighter/internal/config"
	"github.com/open-edge-platform/comment-highlighter/internal/database/models"
)

// DocumentHandlerManager is used by the API to store, list, get and delete documents.
type DocumentHandlerManager interface {
	// CreateDocument stores a new document in Pending state. The UUID and creation date of the given document are set.
	CreateDocument(ctx context.Context, doc *models.Document) error

	// GetDocument gets a document, including its content, given its UUID.
	GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error)

	// ListDocuments gets every document ordered by creation. The content of the documents is not loaded.
	ListDocuments(ctx context.Context) ([]*models.Document, error)

	// DeleteDocument deletes a document given its UUID.
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error
}

// DocumentAnalyzerManager is used by the analyzer to take pending documents and record the outcome of their analysis.
type DocumentAnalyzerManager interface {
	// GetPendingDocuments takes an owner UUID and a count. It returns at most count documents in Pending state,
	// oldest first, and sets them to Taken state on behalf of the owner.
	GetPendingDocuments(ctx context.Context, ownerUUID uuid.UUID, count int) ([]models.Document, error)

	// SetDocumentAnalyzed stores the summary of a taken document and sets it to Analyzed state.
	SetDocumentAnalyzed(ctx context.Context, id uuid.UUID, summary models.DocumentSummary) error

	// SetDocumentFailed sets a taken document to Failed state.
	SetDocumentFailed(ctx context.Context, id uuid.UUID) error

	// ResetTakenDocumentsExceedingDuration sets documents in Taken state for longer than the given duration
	// back to Pending state, so that another analyzer can take them.
	ResetTakenDocumentsExceedingDuration(ctx context.Context, dur time.Duration) error

	// DeleteAnalyzedDocumentsExceedingDuration deletes Analyzed and Failed documents whose analysis date
	// is older than the given duration.
	DeleteAnalyzedDocumentsExceedingDuration(ctx context.Context, dur time.Duration) error
}

func ConnectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=prefer",
				os.Getenv("PGHOST"), os.Getenv("PGUSER"), os.Getenv("PGPASSWORD"), os.Getenv("PGDATABASE"), os.Getenv("PGPORT"))
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables backing the models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Document{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
