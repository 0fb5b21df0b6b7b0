package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

const (
	msgNoToken        = "Unauthorized - No Token Provided"
	msgInvalidToken   = "Unauthorized - Invalid Token"
	msgUserNotFound   = "User Not Found"
	msgInternal       = "Internal server error"
	msgInvalidBody    = "Invalid request body"
	msgBodyTooLarge   = "Request body too large"
	msgInvalidCreds   = "Invalid credentials"
	msgEmailTaken     = "Email already exists."
	msgLoggedOut      = "Logged out successfully"
	msgInvalidRequest = "Invalid request"
)

type apiError struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{Message: message})
}

// mapError turns a service error into a status and a client-safe message.
func mapError(err error) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, msgInvalidRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, msgEmailTaken
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusBadRequest, msgInvalidCreds
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgNoToken
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, msgUserNotFound
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// fail writes the mapped error; server-side failures are logged with their cause.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, message := mapError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(r.Context(), "request failed",
			"operation", operation,
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
	}
	writeError(w, status, message)
}

// decodeJSON reads a size-limited JSON body into dst.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.NewValidationError(msgBodyTooLarge)
		}
		return common.NewValidationError(msgInvalidBody)
	}
	return nil
}
