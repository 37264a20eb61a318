// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/labstack/echo/v4"

	"github.com/open-edge-platform/comment-highlighter/api/v1"
	"github.com/open-edge-platform/comment-highlighter/internal/database/models"
	"github.com/open-edge-platform/comment-highlighter/internal/diagnostics"
	"github.com/open-edge-platform/comment-highlighter/internal/syntax"
)

const (
	statusEndpoint = api.BasePath + "/status"

	// JSON escaping may grow a source up to six times, e.g. "\u0001".
	maxEscapeFactor = 6
	maxEnvelope     = 4096
)

type sourceRequest struct {
	name     string
	language string
	source   string
}

// parseSourceRequest reads the source, the language and the file name held under nameKey from the request
// body, and resolves the language to scan the source with.
func (w *ServerInterfaceHandler) parseSourceRequest(ctx echo.Context, nameKey string) (sourceRequest, *syntax.Language, *api.HttpError) {
	var req sourceRequest
	maxSource := w.configuration.Server.MaxSourceBytes

	body, err := io.ReadAll(http.MaxBytesReader(ctx.Response(), ctx.Request().Body, maxEscapeFactor*maxSource+maxEnvelope))
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		logWarn(ctx, fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit))
		return req, nil, tooLarge(maxSource)
	} else if err != nil {
		logError(ctx, "Failed to read request body", err)
		return req, nil, badRequest("failed to read body")
	}

	if !json.Valid(body) {
		logWarn(ctx, "Malformed request body")
		return req, nil, badRequest("malformed body")
	}

	req.source, err = jsonparser.GetString(body, "source")
	if err != nil {
		logError(ctx, "Failed to get source from request body", err)
		return req, nil, badRequest("source is required")
	}
	if int64(len(req.source)) > maxSource {
		logWarn(ctx, fmt.Sprintf("Source of %d bytes exceeds %d bytes", len(req.source), maxSource))
		return req, nil, tooLarge(maxSource)
	}

	if req.language, err = optionalString(body, "language"); err != nil {
		logError(ctx, "Failed to get language from request body", err)
		return req, nil, badRequest("language must be a string")
	}
	if req.name, err = optionalString(body, nameKey); err != nil {
		logError(ctx, fmt.Sprintf("Failed to get %s from request body", nameKey), err)
		return req, nil, badRequest(fmt.Sprintf("%s must be a string", nameKey))
	}

	lang, err := w.languages.Resolve(req.language, req.name)
	if err != nil {
		logError(ctx, "Failed to resolve language", err)
		return req, nil, &api.HttpError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("%s: %q", errHTTPUnknownLanguage, req.language),
		}
	}
	return req, lang, nil
}

// optionalString returns the string held under key, or an empty string when the key is missing or null.
func optionalString(body []byte, key string) (string, error) {
	value, dataType, _, err := jsonparser.Get(body, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || dataType == jsonparser.Null {
		return "", nil
	} else if err != nil {
		return "", err
	}
	if dataType != jsonparser.String {
		return "", fmt.Errorf("value of %q is a %s", key, dataType)
	}
	return jsonparser.ParseString(value)
}

func badRequest(reason string) *api.HttpError {
	return &api.HttpError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("%s: %s", errHTTPBadRequest, reason),
	}
}

func tooLarge(maxSource int64) *api.HttpError {
	return &api.HttpError{
		Code:    http.StatusRequestEntityTooLarge,
		Message: fmt.Sprintf("%s of %d bytes", errHTTPSourceTooLarge, maxSource),
	}
}

func toAPIRegions(lang *syntax.Language, src string) []api.Region {
	regions := make([]api.Region, 0)
	for r := range lang.Scan(src) {
		regions = append(regions, api.Region{
			Kind:  r.Kind.String(),
			Start: r.Start,
			End:   r.End,
			Text:  r.Text,
		})
	}
	return regions
}

func toAPIPosition(p diagnostics.Position) api.Position {
	return api.Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func toAPIDiagnostic(d diagnostics.Diagnostic) api.Diagnostic {
	return api.Diagnostic{
		Severity: d.Severity.String(),
		Kind:     string(d.Kind),
		Message:  d.Message,
		Start:    toAPIPosition(d.Start),
		End:      toAPIPosition(d.End),
	}
}

func toAPIDocument(doc *models.Document) api.Document {
	out := api.Document{
		Id:           doc.UUID,
		Name:         doc.Name,
		Language:     doc.Language,
		State:        api.DocumentState(doc.State),
		CreationDate: doc.CreationDate,
	}
	if doc.State == models.DocumentAnalyzed || doc.State == models.DocumentFailed {
		analysisDate := doc.AnalysisDate
		out.AnalysisDate = &analysisDate
	}
	if doc.State == models.DocumentAnalyzed {
		out.Summary = &api.DocumentSummary{
			Regions:  doc.Regions,
			Comments: doc.Comments,
			Warnings: doc.Warnings,
			Errors:   doc.Errors,
		}
	}
	return out
}

func skipLog(c echo.Context) bool {
	userAgent := c.Request().Header.Get("User-Agent")
	path := c.Request().URL.Path
	method := c.Request().Method

	if (strings.HasPrefix(userAgent, "curl") || strings.HasPrefix(userAgent, "kube-probe")) &&
		path == statusEndpoint &&
		method == http.MethodGet {
		return true
	}
	return false
}

func logError(ctx echo.Context, msg string, err error) {
	ctx.Logger().Errorf("(%s): %s: %v", ctx.Path(), msg, err)
}

func logWarn(ctx echo.Context, msg string) {
	ctx.Logger().Warnf("(%s): %s", ctx.Path(), msg)
}
