package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/pkg/logger"
	"github.com/go-chi/chi"
)

// Envelope is the response body shape shared by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a raw JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *BaseHandler) WriteData(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteList adds the item count next to the data.
func (h *BaseHandler) WriteList(w http.ResponseWriter, data interface{}, count int) {
	h.WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, Envelope{Success: true, Message: message})
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, Envelope{Success: false, Message: message})
}

// HandleServiceError maps AppErrors to their status; anything else is a 500
// with a generic message.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.StatusCode >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		h.WriteJSON(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "Internal server error",
			Code:    "INTERNAL_ERROR",
		})
		return
	}

	logger.From(r.Context()).Warn("request rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"status", appErr.StatusCode,
		"code", appErr.Code,
		"error", appErr.Error())

	h.WriteJSON(w, appErr.StatusCode, Envelope{
		Success: false,
		Message: appErr.GetDetailedMessage(),
		Code:    string(appErr.Code),
		Details: appErr.Details,
	})
}

// DecodeJSON reads the request body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.NewValidationError("request body is required", internal.ErrCodeInvalidBody)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeInvalidBody).WithCause(err)
	}
	return nil
}

// PathID parses a positive integer URL parameter.
func (h *BaseHandler) PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationError("invalid "+name, internal.ErrCodeInvalidID)
	}
	return id, nil
}

// QueryID parses an optional positive integer query parameter.
func (h *BaseHandler) QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, internal.NewValidationError("invalid "+name, internal.ErrCodeInvalidID)
	}
	return &id, nil
}

// QueryTime parses an optional RFC 3339 timestamp or YYYY-MM-DD date.
func (h *BaseHandler) QueryTime(r *http.Request, name string) (*time.Time, error) {
	t, _, err := h.parseQueryTime(r, name)
	return t, err
}

// QueryTimeEnd is QueryTime for inclusive upper bounds: a bare date
// resolves to the last instant of that day.
func (h *BaseHandler) QueryTimeEnd(r *http.Request, name string) (*time.Time, error) {
	t, dateOnly, err := h.parseQueryTime(r, name)
	if err != nil || t == nil || !dateOnly {
		return t, err
	}
	end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end, nil
}

func (h *BaseHandler) parseQueryTime(r *http.Request, name string) (*time.Time, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, false, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, false, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, true, nil
	}
	return nil, false, internal.NewValidationError("invalid "+name+" date", internal.ErrCodeInvalidDate)
}

// CurrentUser returns the caller placed in the context by the auth middleware.
func (h *BaseHandler) CurrentUser(r *http.Request) (*internal.User, error) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		return nil, internal.ErrInvalidToken
	}
	return user, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}
	return authHeader[7:]
}
