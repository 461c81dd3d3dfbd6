package common

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "snapgram-backend/pkg/errors"
)

// APIResponse is the envelope for JSON action endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondAppError maps an application error onto the wire. Client-facing
// types keep their message; server-side failures are masked behind a
// generic message so store/provider internals never leak.
func RespondAppError(w http.ResponseWriter, err error) {
	var appErr *pkgerrors.AppError
	if !errors.As(err, &appErr) {
		RespondError(w, http.StatusInternalServerError, string(pkgerrors.ErrorTypeInternal), "internal server error")
		return
	}

	message := appErr.Message
	switch appErr.Type {
	case pkgerrors.ErrorTypeInternal, pkgerrors.ErrorTypeDatabase, pkgerrors.ErrorTypeExternal:
		message = "internal server error"
	}
	RespondError(w, pkgerrors.HTTPStatusOf(appErr), string(appErr.Type), message)
}
