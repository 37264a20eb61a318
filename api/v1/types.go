// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package api provides the types and the routing of the comment highlighter HTTP API.
package api

import (
	"time"

	"github.com/google/uuid"
)

// Defines values for DocumentState.
const (
	DocumentStatePending  DocumentState = "Pending"
	DocumentStateTaken    DocumentState = "Taken"
	DocumentStateAnalyzed DocumentState = "Analyzed"
	DocumentStateFailed   DocumentState = "Failed"
)

// Defines values for ServiceStatusState.
const (
	Ready  ServiceStatusState = "ready"
	Failed ServiceStatusState = "failed"
)

// DocumentId defines model for DocumentId.
type DocumentId = uuid.UUID

// HttpError defines model for HttpError.
type HttpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServiceStatus defines model for ServiceStatus.
type ServiceStatus struct {
	State ServiceStatusState `json:"state"`
}

// ServiceStatusState defines model for ServiceStatus.State.
type ServiceStatusState string

// SourceRequest is the body of the scan, highlight and diagnostics requests. When Language is not set, the
// language is picked from the extension of Filename.
type SourceRequest struct {
	Source   string  `json:"source"`
	Language *string `json:"language,omitempty"`
	Filename *string `json:"filename,omitempty"`
}

// Language defines model for Language.
type Language struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Default    bool     `json:"default"`
}

// LanguageList defines model for LanguageList.
type LanguageList struct {
	Languages []Language `json:"languages"`
}

// Region defines model for Region.
type Region struct {
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// RegionList defines model for RegionList.
type RegionList struct {
	Language string   `json:"language"`
	Regions  []Region `json:"regions"`
}

// Span defines model for Span.
type Span struct {
	Class string `json:"class"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// SpanList defines model for SpanList.
type SpanList struct {
	Language string `json:"language"`
	Spans    []Span `json:"spans"`
}

// Position defines model for Position.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Diagnostic defines model for Diagnostic.
type Diagnostic struct {
	Severity string   `json:"severity"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
}

// DiagnosticList defines model for DiagnosticList.
type DiagnosticList struct {
	Language    string       `json:"language"`
	HasErrors   bool         `json:"hasErrors"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// DocumentRequest is the body of a document creation request.
type DocumentRequest struct {
	Name     string  `json:"name"`
	Language *string `json:"language,omitempty"`
	Source   string  `json:"source"`
}

// DocumentState defines model for Document.State.
type DocumentState string

// DocumentSummary defines model for DocumentSummary.
type DocumentSummary struct {
	Regions  int64 `json:"regions"`
	Comments int64 `json:"comments"`
	Warnings int64 `json:"warnings"`
	Errors   int64 `json:"errors"`
}

// Document defines model for Document.
type Document struct {
	Id           DocumentId       `json:"id"`
	Name         string           `json:"name"`
	Language     string           `json:"language"`
	State        DocumentState    `json:"state"`
	CreationDate time.Time        `json:"creationDate"`
	AnalysisDate *time.Time       `json:"analysisDate,omitempty"`
	Summary      *DocumentSummary `json:"summary,omitempty"`
}

// DocumentList defines model for DocumentList.
type DocumentList struct {
	Documents []Document `json:"documents"`
}
