package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/gearguard/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*User, error)
	UpgradeRole(ctx context.Context, id int64, dto UpgradeRoleDTO) (*User, error)
	Disable(ctx context.Context, id int64) (*User, error)
	Enable(ctx context.Context, id int64) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// List handles GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteList(w, users, len(users))
}

// UpgradeRole handles PUT /users/{id}/upgrade-role
func (h *Handler) UpgradeRole(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpgradeRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := h.Service.UpgradeRole(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.Envelope{Success: true, Data: u, Message: "User role updated to " + u.Role})
}

// Disable handles PUT /users/{id}/disable
func (h *Handler) Disable(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.Disable, "User disabled successfully")
}

// Enable handles PUT /users/{id}/enable
func (h *Handler) Enable(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.Enable, "User enabled successfully")
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, apply func(context.Context, int64) (*User, error), message string) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	u, err := apply(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.Envelope{Success: true, Data: u, Message: message})
}
