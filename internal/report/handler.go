package report

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/gearguard/internal/transport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ServiceAPI interface {
	Summary(ctx context.Context) (*Summary, error)
	ByTeam(ctx context.Context) ([]TeamStat, error)
	Monthly(ctx context.Context) ([]MonthlyStat, error)
	AdminStats(ctx context.Context) (*AdminStats, error)
	Export(ctx context.Context) (*bytes.Buffer, error)
	ExportFilename() string
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

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, summary)
}

func (h *Handler) ByTeam(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.ByTeam(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Monthly(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, stats)
}

// AdminStats handles GET /admin/stats
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.AdminStats(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteData(w, http.StatusOK, stats)
}

// Export streams the xlsx workbook as an attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	buf, err := h.Service.Export(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.Service.ExportFilename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("failed to write report workbook", "error", err)
	}
}
