package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/frahmantamala/gearguard/internal/user"
	"github.com/frahmantamala/gearguard/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*Session, error)
	SendOTP(ctx context.Context, dto SendOTPDTO) (*OTPChallenge, error)
	VerifyOTP(ctx context.Context, dto VerifyOTPDTO) (*Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*internal.User, error)
	Me(ctx context.Context, id int64) (*user.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Cookie  CookieConfig
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, cookie CookieConfig) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		Cookie:      cookie,
	}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	session, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.Cookie.set(w, session.Token, session.ExpiresAt)
	h.WriteJSON(w, http.StatusOK, transport.Envelope{Success: true, Data: session, Message: "Login successful"})
}

// SendOTP handles POST /auth/send-otp
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var dto SendOTPDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	challenge, err := h.Service.SendOTP(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.Envelope{Success: true, Data: challenge, Message: "OTP sent to your email"})
}

// VerifyOTP handles POST /auth/verify-otp
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var dto VerifyOTPDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	session, err := h.Service.VerifyOTP(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.Cookie.set(w, session.Token, session.ExpiresAt)
	h.WriteJSON(w, http.StatusCreated, transport.Envelope{Success: true, Data: session, Message: "Account created successfully"})
}

// Logout handles POST /auth/logout. The cookie is cleared even when the
// token was already invalid.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), h.Cookie.tokenFromRequest(r)); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.Cookie.clear(w)
	h.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := h.CurrentUser(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	profile, err := h.Service.Me(r.Context(), caller.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, profile)
}

var errAuthRequired = internal.NewUnauthorizedError("Authentication required", internal.ErrCodeInvalidToken)

// AuthMiddleware rejects requests without a valid, unrevoked session for an
// active account and stores the caller in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.Cookie.tokenFromRequest(r)
		if token == "" {
			h.HandleServiceError(w, r, errAuthRequired)
			return
		}

		caller, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := internal.ContextWithUser(r.Context(), caller)
		ctx = logger.With(ctx, "user_id", caller.ID, "role", caller.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
