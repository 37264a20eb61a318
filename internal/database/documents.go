// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/open-edge-platform/comment-highlighter/internal/clock"
	"github.com/open-edge-platform/comment-highlighter/internal/database/models"
)

// CreateDocument stores a new document in Pending state.
func (d *DBService) CreateDocument(ctx context.Context, doc *models.Document) error {
	doc.UUID = uuid.New()
	doc.State = models.DocumentPending
	doc.CreationDate = clock.Now()

	if err := d.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document %q: %w", doc.Name, err)
	}
	return nil
}

// GetDocument gets a document given its UUID.
func (d *DBService) GetDocument(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := d.DB.WithContext(ctx).
		Where("uuid = ?", id).
		Take(&doc).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve document %q: %w", id, err)
	}
	return &doc, nil
}

// ListDocuments gets every document ordered by creation, without their content.
func (d *DBService) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	var docs []*models.Document
	if err := d.DB.WithContext(ctx).
		Omit("content").
		Order("id").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument deletes a document given its UUID. It returns gorm.ErrRecordNotFound when no
// document has that UUID.
func (d *DBService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	res := d.DB.WithContext(ctx).
		Where("uuid = ?", id).
		Delete(&models.Document{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete document %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete document %q: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetPendingDocuments returns at most count documents in Pending state, oldest first. The state, start_date and
// owner_uuid columns of the returned documents are updated within the same transaction.
func (d *DBService) GetPendingDocuments(ctx context.Context, ownerUUID uuid.UUID, count int) ([]models.Document, error) {
	tx := d.DB.WithContext(ctx).Begin()
	defer tx.Rollback()

	var docs []models.Document
	if err := tx.
		Where("state = ?", models.DocumentPending).
		Order("id").
		Limit(count).
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to get pending documents: %w", err)
	}

	now := clock.Now()
	for i := range docs {
		err := tx.Model(&docs[i]).
			Where("state = ?", models.DocumentPending).
			Updates(map[string]interface{}{
				"state":      models.DocumentTaken,
				"start_date": now,
				"owner_uuid": ownerUUID,
			}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to take document %q: %w", docs[i].UUID, err)
		}
		docs[i].State = models.DocumentTaken
		docs[i].StartDate = now
		docs[i].OwnerUUID = &ownerUUID
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// SetDocumentAnalyzed stores the summary of a taken document and sets it to Analyzed state.
func (d *DBService) SetDocumentAnalyzed(ctx context.Context, id uuid.UUID, summary models.DocumentSummary) error {
	return d.completeDocument(ctx, id, map[string]interface{}{
		"state":         models.DocumentAnalyzed,
		"analysis_date": clock.Now(),
		"regions":       summary.Regions,
		"comments":      summary.Comments,
		"warnings":      summary.Warnings,
		"errors":        summary.Errors,
	})
}

// SetDocumentFailed sets a taken document to Failed state.
func (d *DBService) SetDocumentFailed(ctx context.Context, id uuid.UUID) error {
	return d.completeDocument(ctx, id, map[string]interface{}{
		"state":         models.DocumentFailed,
		"analysis_date": clock.Now(),
	})
}

// completeDocument applies the given values to a document in Taken state. It returns gorm.ErrRecordNotFound
// when the document does not exist or is not taken anymore, e.g. because it was deleted meanwhile.
func (d *DBService) completeDocument(ctx context.Context, id uuid.UUID, values map[string]interface{}) error {
	res := d.DB.WithContext(ctx).
		Model(&models.Document{}).
		Where("uuid = ?", id).
		Where("state = ?", models.DocumentTaken).
		Updates(values)
	if res.Error != nil {
		return fmt.Errorf("failed to update document %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update document %q: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// ResetTakenDocumentsExceedingDuration sets documents taken for longer than dur back to Pending state.
func (d *DBService) ResetTakenDocumentsExceedingDuration(ctx context.Context, dur time.Duration) error {
	timeDelta := clock.Now().Add(-dur)
	if err := d.DB.WithContext(ctx).
		Model(&models.Document{}).
		Where("state = ?", models.DocumentTaken).
		Where("start_date < ?", timeDelta).
		Updates(map[string]interface{}{
			"state":      models.DocumentPending,
			"owner_uuid": nil,
		}).Error; err != nil {
		return fmt.Errorf("failed to reset taken documents: %w", err)
	}
	return nil
}

// DeleteAnalyzedDocumentsExceedingDuration deletes Analyzed and Failed documents for which the time elapsed
// since their analysis date exceeds dur.
func (d *DBService) DeleteAnalyzedDocumentsExceedingDuration(ctx context.Context, dur time.Duration) error {
	timeDelta := clock.Now().Add(-dur)
	if err := d.DB.WithContext(ctx).
		Where("state IN (?,?)", models.DocumentAnalyzed, models.DocumentFailed).
		Where("analysis_date < ?", timeDelta).
		Delete(&models.Document{}).Error; err != nil {
		return fmt.Errorf("failed to delete analyzed documents: %w", err)
	}
	return nil
}
