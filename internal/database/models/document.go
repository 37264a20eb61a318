// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentState string

const (
	DocumentPending  DocumentState = "Pending"
	DocumentTaken    DocumentState = "Taken"
	DocumentAnalyzed DocumentState = "Analyzed"
	DocumentFailed   DocumentState = "Failed"
)

func (ds DocumentState) Validate() error {
	switch ds {
	case DocumentPending:
	case DocumentTaken:
	case DocumentAnalyzed:
	case DocumentFailed:
	default:
		return fmt.Errorf("unknown document state: %q", ds)
	}
	return nil
}

// DocumentSummary holds the outcome of analyzing a document.
type DocumentSummary struct {
	Regions  int64
	Comments int64
	Warnings int64
	Errors   int64
}

// Document is a stored source file. Its summary columns are filled in once the analyzer has
// processed it.
type Document struct {
	ID           int64         `gorm:"primaryKey;autoIncrement"`
	UUID         uuid.UUID     `gorm:"type:uuid;uniqueIndex"`
	Name         string        `gorm:"not null"`
	Language     string        `gorm:"not null"`
	Content      string        `gorm:"type:text"`
	State        DocumentState `gorm:"not null;default:Pending"`
	OwnerUUID    *uuid.UUID    `gorm:"type:uuid"`
	CreationDate time.Time
	StartDate    time.Time
	AnalysisDate time.Time

	DocumentSummary `gorm:"embedded"`
}

func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.Name == "" {
		return errors.New("document name is empty")
	}
	if d.Language == "" {
		return errors.New("document language is empty")
	}
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	if d.State == "" {
		d.State = DocumentPending
	}
	return d.State.Validate()
}
