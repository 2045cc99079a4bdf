package team

import (
	"context"
	"net/http"

	"github.com/frahmantamala/gearguard/internal/core/common/refs"
	"github.com/frahmantamala/gearguard/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Team, error)
	GetByID(ctx context.Context, id int64) (*Team, error)
	Create(ctx context.Context, dto CreateTeamDTO) (*Team, error)
	Update(ctx context.Context, id int64, dto UpdateTeamDTO) (*Team, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, teamID int64, dto AddMemberDTO) (*Team, error)
	RemoveMember(ctx context.Context, teamID, userID int64) (*Team, error)
	UnassignedUsers(ctx context.Context) ([]*refs.Person, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteList(w, teams, len(teams))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	t, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, t)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateTeamDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	t, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusCreated, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateTeamDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	t, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Team deleted successfully")
}

// AddMember handles POST /teams/{id}/members
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto AddMemberDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	t, err := h.Service.AddMember(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, t)
}

// RemoveMember handles DELETE /teams/{id}/members/{userId}
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	userID, err := h.PathID(r, "userId")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	t, err := h.Service.RemoveMember(r.Context(), id, userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, t)
}

// UnassignedUsers handles GET /teams/unassigned-users
func (h *Handler) UnassignedUsers(w http.ResponseWriter, r *http.Request) {
	people, err := h.Service.UnassignedUsers(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteList(w, people, len(people))
}
