// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// BasePath is the prefix of every route of the API.
const BasePath = "/api/v1"

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Get the status of the service
	// (GET /api/v1/status)
	GetStatus(ctx echo.Context) error
	// List the supported languages
	// (GET /api/v1/languages)
	GetLanguages(ctx echo.Context) error
	// Partition a source text into regions
	// (POST /api/v1/scan)
	PostScan(ctx echo.Context) error
	// Split a source text into highlight spans
	// (POST /api/v1/highlight)
	PostHighlight(ctx echo.Context) error
	// Report the diagnostics of a source text
	// (POST /api/v1/diagnostics)
	PostDiagnostics(ctx echo.Context) error
	// List the stored documents
	// (GET /api/v1/documents)
	GetDocuments(ctx echo.Context) error
	// Store a document for asynchronous analysis
	// (POST /api/v1/documents)
	PostDocument(ctx echo.Context) error
	// Get a stored document
	// (GET /api/v1/documents/{id})
	GetDocument(ctx echo.Context, id DocumentId) error
	// Delete a stored document
	// (DELETE /api/v1/documents/{id})
	DeleteDocument(ctx echo.Context, id DocumentId) error
	// Partition a stored document into regions
	// (GET /api/v1/documents/{id}/regions)
	GetDocumentRegions(ctx echo.Context, id DocumentId) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetStatus converts echo context to params.
func (w *ServerInterfaceWrapper) GetStatus(ctx echo.Context) error {
	return w.Handler.GetStatus(ctx)
}

// GetLanguages converts echo context to params.
func (w *ServerInterfaceWrapper) GetLanguages(ctx echo.Context) error {
	return w.Handler.GetLanguages(ctx)
}

// PostScan converts echo context to params.
func (w *ServerInterfaceWrapper) PostScan(ctx echo.Context) error {
	return w.Handler.PostScan(ctx)
}

// PostHighlight converts echo context to params.
func (w *ServerInterfaceWrapper) PostHighlight(ctx echo.Context) error {
	return w.Handler.PostHighlight(ctx)
}

// PostDiagnostics converts echo context to params.
func (w *ServerInterfaceWrapper) PostDiagnostics(ctx echo.Context) error {
	return w.Handler.PostDiagnostics(ctx)
}

// GetDocuments converts echo context to params.
func (w *ServerInterfaceWrapper) GetDocuments(ctx echo.Context) error {
	return w.Handler.GetDocuments(ctx)
}

// PostDocument converts echo context to params.
func (w *ServerInterfaceWrapper) PostDocument(ctx echo.Context) error {
	return w.Handler.PostDocument(ctx)
}

// GetDocument converts echo context to params.
func (w *ServerInterfaceWrapper) GetDocument(ctx echo.Context) error {
	id, err := bindDocumentID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetDocument(ctx, id)
}

// DeleteDocument converts echo context to params.
func (w *ServerInterfaceWrapper) DeleteDocument(ctx echo.Context) error {
	id, err := bindDocumentID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DeleteDocument(ctx, id)
}

// GetDocumentRegions converts echo context to params.
func (w *ServerInterfaceWrapper) GetDocumentRegions(ctx echo.Context) error {
	id, err := bindDocumentID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetDocumentRegions(ctx, id)
}

func bindDocumentID(ctx echo.Context) (DocumentId, error) {
	var id DocumentId
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is an interface that wraps the methods of echo.Echo and echo.Group used to register routes.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends baseURL to the paths, so that the paths
// can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+BasePath+"/status", wrapper.GetStatus)
	router.GET(baseURL+BasePath+"/languages", wrapper.GetLanguages)
	router.POST(baseURL+BasePath+"/scan", wrapper.PostScan)
	router.POST(baseURL+BasePath+"/highlight", wrapper.PostHighlight)
	router.POST(baseURL+BasePath+"/diagnostics", wrapper.PostDiagnostics)
	router.GET(baseURL+BasePath+"/documents", wrapper.GetDocuments)
	router.POST(baseURL+BasePath+"/documents", wrapper.PostDocument)
	router.GET(baseURL+BasePath+"/documents/:id", wrapper.GetDocument)
	router.DELETE(baseURL+BasePath+"/documents/:id", wrapper.DeleteDocument)
	router.GET(baseURL+BasePath+"/documents/:id/regions", wrapper.GetDocumentRegions)
}
