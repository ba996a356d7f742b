// Package httputil centralizes JSON response writing so every handler emits
// the same error envelope: {"error": <code>, "error_description": <message>}.
// Internal failures deliberately omit the description so store and driver
// details never reach a client.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "certvault/pkg/domain-errors"
)

var statusByCode = map[dErrors.Code]int{
	dErrors.CodeValidation:         http.StatusUnprocessableEntity,
	dErrors.CodeInvalidInput:       http.StatusBadRequest,
	dErrors.CodeBadRequest:         http.StatusBadRequest,
	dErrors.CodeUnauthorized:       http.StatusUnauthorized,
	dErrors.CodeForbidden:          http.StatusForbidden,
	dErrors.CodeNotFound:           http.StatusNotFound,
	dErrors.CodeConflict:           http.StatusConflict,
	dErrors.CodeInvariantViolation: http.StatusConflict,
	dErrors.CodeTimeout:            http.StatusGatewayTimeout,
	dErrors.CodeInternal:           http.StatusInternalServerError,
}

var wireByCode = map[dErrors.Code]string{
	dErrors.CodeValidation:         "validation_failed",
	dErrors.CodeInvalidInput:       "invalid_input",
	dErrors.CodeBadRequest:         "bad_request",
	dErrors.CodeUnauthorized:       "unauthorized",
	dErrors.CodeForbidden:          "forbidden",
	dErrors.CodeNotFound:           "not_found",
	dErrors.CodeConflict:           "conflict",
	dErrors.CodeInvariantViolation: "conflict",
	dErrors.CodeTimeout:            "timeout",
	dErrors.CodeInternal:           "internal_error",
}

// WriteError translates a domain error into the shared JSON error envelope.
// Uncoded errors are treated as internal.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
		code = dErrors.CodeInternal
	}

	body := map[string]string{"error": wireByCode[code]}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
