package utils

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nijaru/yt-proxy/errors"
	"github.com/nijaru/yt-proxy/logger"
	"github.com/sirupsen/logrus"
)

type contextKey string

const internalMessageKey contextKey = "internal_message"

const defaultInternalMessage = "Internal server error"

// WithInternalMessage sets the client message sent for failures that carry
// no message of their own.
func WithInternalMessage(ctx context.Context, message string) context.Context {
	return context.WithValue(ctx, internalMessageKey, message)
}

func internalMessage(ctx context.Context) string {
	if message, ok := ctx.Value(internalMessageKey).(string); ok && message != "" {
		return message
	}
	return defaultInternalMessage
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	writeError(w, statusCode, message)
}

// RespondWithError renders err as the JSON error envelope. Only the client
// message of an *errors.AppError is sent; anything else becomes a 500 carrying
// the request's internal message.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal("utils.RespondWithError", err, internalMessage(r.Context()))
	}

	entry := logger.FromContext(r.Context()).WithFields(logrus.Fields{
		"status_code": appErr.Code,
		"op":          appErr.Op,
		"error":       appErr.Error(),
	})
	if appErr.Code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	writeError(w, appErr.Code, appErr.Message)
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	// Method rejections carry no success flag.
	if statusCode == http.StatusMethodNotAllowed {
		RespondWithJSON(w, statusCode, map[string]string{"error": message})
		return
	}
	RespondWithJSON(w, statusCode, errorEnvelope{Success: false, Error: message})
}
