package maintenance

import (
	"context"
	"net/http"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, filter Filter) ([]*Request, error)
	ListByStage(ctx context.Context, stage string) ([]*Request, error)
	ListMine(ctx context.Context, userID int64) ([]*Request, error)
	GetByID(ctx context.Context, id int64) (*Request, error)
	Create(ctx context.Context, creator *internal.User, dto CreateRequestDTO) (*Request, error)
	Update(ctx context.Context, id int64, dto UpdateRequestDTO) (*Request, error)
	UpdateStage(ctx context.Context, id int64, dto UpdateStageDTO) (*Request, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*Stats, error)
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

// List handles GET /requests?stage=&team=&type=&equipment=&technician=&from=&to=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	requests, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteList(w, requests, len(requests))
}

// ListByStage handles GET /requests/stage/{stage}
func (h *Handler) ListByStage(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.ListByStage(r.Context(), chi.URLParam(r, "stage"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteList(w, requests, len(requests))
}

// ListMine handles GET /requests/my
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, err := h.CurrentUser(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	requests, err := h.Service.ListMine(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteList(w, requests, len(requests))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	req, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, req)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := h.CurrentUser(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto CreateRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	req, err := h.Service.Create(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusCreated, req)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	req, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, req)
}

// UpdateStage handles PATCH /requests/{id}/stage
func (h *Handler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateStageDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	req, err := h.Service.UpdateStage(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, req)
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
	h.WriteMessage(w, http.StatusOK, "Maintenance request deleted successfully")
}

// Stats handles GET /requests/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		Stage:       q.Get("stage"),
		RequestType: q.Get("type"),
	}
	if filter.RequestType == "" {
		filter.RequestType = q.Get("requestType")
	}

	var err error
	if filter.TeamID, err = h.QueryID(r, "team"); err != nil {
		return filter, err
	}
	if filter.EquipmentID, err = h.QueryID(r, "equipment"); err != nil {
		return filter, err
	}
	if filter.TechnicianID, err = h.QueryID(r, "technician"); err != nil {
		return filter, err
	}
	if filter.From, err = h.QueryTime(r, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = h.QueryTimeEnd(r, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}
