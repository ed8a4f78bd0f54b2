// Package httputil holds the JSON request and response helpers used by the
// HTTP handlers of every module.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ieee-sb/thesandbox/pkg/apperrors"
)

// maxJSONBody caps decoded request bodies.
const maxJSONBody = 1 << 20

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and JSON body. Internal errors are logged
// and hidden from the client.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := apperrors.HTTPStatus(err)

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindDependency {
		if logger != nil {
			logger.ErrorContext(r.Context(), "Request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
		}
		WriteJSON(w, status, map[string]any{
			"error": "internal server error",
			"code":  string(apperrors.CodeUnknown),
		})
		return
	}

	body := map[string]any{
		"error": appErr.Message,
		"code":  string(appErr.Code),
	}
	if len(appErr.Metadata) > 0 {
		body["details"] = appErr.Metadata
	}
	WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, apperrors.CodeInvalidInput, fmt.Sprintf("invalid request body: %v", err), err)
	}
	return nil
}
