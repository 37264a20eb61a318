// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/open-edge-platform/comment-highlighter/api/v1"
	"github.com/open-edge-platform/comment-highlighter/internal/config"
	db "github.com/open-edge-platform/comment-highlighter/internal/database"
	"github.com/open-edge-platform/comment-highlighter/internal/database/models"
	"github.com/open-edge-platform/comment-highlighter/internal/diagnostics"
	"github.com/open-edge-platform/comment-highlighter/internal/highlight"
	"github.com/open-edge-platform/comment-highlighter/internal/syntax"
)

const statusTimeout = 2 * time.Second

type ServerInterfaceHandler struct {
	documents db.DocumentHandlerManager
	languages *syntax.Registry

	configuration config.Config
}

const (
	errHTTPBadRequest             = "bad request"
	errHTTPSourceTooLarge         = "source exceeds the maximum size"
	errHTTPUnknownLanguage        = "unknown language"
	errHTTPDocumentNotFound       = "document not found"
	errHTTPFailedToGetDocuments   = "failed to get documents"
	errHTTPFailedToGetDocument    = "failed to get document"
	errHTTPFailedToCreateDocument = "failed to create document"
	errHTTPFailedToDeleteDocument = "failed to delete document"
)

func NewServerInterfaceHandler(configuration config.Config, dbConn *gorm.DB, languages *syntax.Registry) *ServerInterfaceHandler {
	return &ServerInterfaceHandler{
		configuration: configuration,
		documents: &db.DBService{
			DB: dbConn,
		},
		languages: languages,
	}
}

func (w *ServerInterfaceHandler) GetStatus(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), statusTimeout)
	defer cancel()

	if err := w.documents.Ping(reqCtx); err != nil {
		logError(ctx, "Failed to reach database", err)
		return ctx.JSON(http.StatusOK, api.ServiceStatus{State: api.Failed})
	}
	return ctx.JSON(http.StatusOK, api.ServiceStatus{State: api.Ready})
}

func (w *ServerInterfaceHandler) GetLanguages(ctx echo.Context) error {
	def := w.languages.Default()

	list := api.LanguageList{Languages: make([]api.Language, 0)}
	for _, lang := range w.languages.Languages() {
		list.Languages = append(list.Languages, api.Language{
			Name:       lang.Name,
			Extensions: lang.Extensions,
			Default:    lang == def,
		})
	}
	return ctx.JSON(http.StatusOK, list)
}

func (w *ServerInterfaceHandler) PostScan(ctx echo.Context) error {
	req, lang, httpErr := w.parseSourceRequest(ctx, "filename")
	if httpErr != nil {
		return ctx.JSON(httpErr.Code, httpErr)
	}
	return ctx.JSON(http.StatusOK, api.RegionList{
		Language: lang.Name,
		Regions:  toAPIRegions(lang, req.source),
	})
}

func (w *ServerInterfaceHandler) PostHighlight(ctx echo.Context) error {
	req, lang, httpErr := w.parseSourceRequest(ctx, "filename")
	if httpErr != nil {
		return ctx.JSON(httpErr.Code, httpErr)
	}

	list := api.SpanList{Language: lang.Name, Spans: make([]api.Span, 0)}
	for s := range highlight.Spans(req.source, lang) {
		list.Spans = append(list.Spans, api.Span{Class: string(s.Class), Start: s.Start, End: s.End, Text: s.Text})
	}
	return ctx.JSON(http.StatusOK, list)
}

func (w *ServerInterfaceHandler) PostDiagnostics(ctx echo.Context) error {
	req, lang, httpErr := w.parseSourceRequest(ctx, "filename")
	if httpErr != nil {
		return ctx.JSON(httpErr.Code, httpErr)
	}

	ds := diagnostics.Check(req.source, lang)
	list := api.DiagnosticList{
		Language:    lang.Name,
		HasErrors:   ds.HasErrors(),
		Diagnostics: make([]api.Diagnostic, 0, len(ds)),
	}
	for _, d := range ds {
		list.Diagnostics = append(list.Diagnostics, toAPIDiagnostic(d))
	}
	return ctx.JSON(http.StatusOK, list)
}

func (w *ServerInterfaceHandler) GetDocuments(ctx echo.Context) error {
	docs, err := w.documents.ListDocuments(ctx.Request().Context())
	if err != nil {
		logError(ctx, "Failed to list documents", err)
		return ctx.JSON(http.StatusInternalServerError, api.HttpError{
			Code:    http.StatusInternalServerError,
			Message: errHTTPFailedToGetDocuments,
		})
	}

	list := api.DocumentList{Documents: make([]api.Document, 0, len(docs))}
	for _, doc := range docs {
		list.Documents = append(list.Documents, toAPIDocument(doc))
	}
	return ctx.JSON(http.StatusOK, list)
}

func (w *ServerInterfaceHandler) PostDocument(ctx echo.Context) error {
	req, lang, httpErr := w.parseSourceRequest(ctx, "name")
	if httpErr != nil {
		return ctx.JSON(httpErr.Code, httpErr)
	}
	if req.name == "" {
		logWarn(ctx, "Document without a name")
		return ctx.JSON(http.StatusBadRequest, api.HttpError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("%s: name is required", errHTTPBadRequest),
		})
	}

	doc := &models.Document{
		Name:     req.name,
		Language: lang.Name,
		Content:  req.source,
	}
	if err := w.documents.CreateDocument(ctx.Request().Context(), doc); err != nil {
		logError(ctx, fmt.Sprintf("Failed to create document %q", req.name), err)
		return ctx.JSON(http.StatusInternalServerError, api.HttpError{
			Code:    http.StatusInternalServerError,
			Message: errHTTPFailedToCreateDocument,
		})
	}
	return ctx.JSON(http.StatusCreated, toAPIDocument(doc))
}

func (w *ServerInterfaceHandler) GetDocument(ctx echo.Context, id api.DocumentId) error {
	doc, httpErr := w.getDocument(ctx, id)
	if httpErr != nil {
		return ctx.JSON(httpErr.Code, httpErr)
	}
	return ctx.JSON(http.StatusOK, toAPIDocument(doc))
}

func (w *ServerInterfaceHandler) DeleteDocument(ctx echo.Context, id api.DocumentId) error {
	err := w.documents.DeleteDocument(ctx.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logError(ctx, fmt.Sprintf("Document not found: %q", id), err)
		return ctx.JSON(http.StatusNotFound, api.HttpError{
			Code:    http.StatusNotFound,
			Message: errHTTPDocumentNotFound,
		})
	} else if err != nil {
		logError(ctx, fmt.Sprintf("Failed to delete document: %q", id), err)
		return ctx.JSON(http.StatusInternalServerError, api.HttpError{
			Code:    http.StatusInternalServerError,
			Message: errHTTPFailedToDeleteDocument,
		})
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (w *ServerInterfaceHandler) GetDocumentRegions(ctx echo.Context, id api.DocumentId) error {
	doc, httpErr := w.getDocument(ctx, id)
	if httpErr != nil {
		return ctx.JSON(httpErr.Code, httpErr)
	}

	lang, err := w.languages.Resolve(doc.Language, doc.Name)
	if err != nil {
		logError(ctx, fmt.Sprintf("Cannot scan document %q", id), err)
		return ctx.JSON(http.StatusBadRequest, api.HttpError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("%s: %q", errHTTPUnknownLanguage, doc.Language),
		})
	}
	return ctx.JSON(http.StatusOK, api.RegionList{
		Language: lang.Name,
		Regions:  toAPIRegions(lang, doc.Content),
	})
}

func (w *ServerInterfaceHandler) getDocument(ctx echo.Context, id api.DocumentId) (*models.Document, *api.HttpError) {
	doc, err := w.documents.GetDocument(ctx.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logError(ctx, fmt.Sprintf("Document not found: %q", id), err)
		return nil, &api.HttpError{
			Code:    http.StatusNotFound,
			Message: errHTTPDocumentNotFound,
		}
	} else if err != nil {
		logError(ctx, fmt.Sprintf("Failed to retrieve document: %q", id), err)
		return nil, &api.HttpError{
			Code:    http.StatusInternalServerError,
			Message: errHTTPFailedToGetDocument,
		}
	}
	return doc, nil
}
