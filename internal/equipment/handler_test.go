package equipment_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/equipment"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

var _ = Describe("Equipment Handler Integration", func() {
	var (
		f      *fixture
		router chi.Router
	)

	BeforeEach(func() {
		f = newFixture()
		base := transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
		equipmentHandler := equipment.NewHandler(base, f.service)
		requestHandler := maintenance.NewHandler(base, f.requests)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), f.requester)))
			})
		})
		router.Get("/equipment", equipmentHandler.List)
		router.Post("/equipment", equipmentHandler.Create)
		router.Get("/equipment/{id}", equipmentHandler.Get)
		router.Put("/equipment/{id}", equipmentHandler.Update)
		router.Delete("/equipment/{id}", equipmentHandler.Delete)
		router.Post("/requests", requestHandler.Create)
		router.Put("/requests/{id}", requestHandler.Update)
	})

	do := func(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return w, env
	}

	It("should show scrapped equipment after its request is scrapped", func() {
		// Given
		w, env := do(http.MethodPost, "/equipment", map[string]interface{}{
			"name":              "Pump-1",
			"serialNumber":      "P-0001",
			"category":          f.category.ID,
			"team":              f.team.ID,
			"defaultTechnician": f.tech.ID,
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var pump equipment.Equipment
		Expect(json.Unmarshal(env.Data, &pump)).To(Succeed())

		w, env = do(http.MethodPost, "/requests", map[string]interface{}{
			"subject":       "Cracked housing",
			"equipment":     pump.ID,
			"requestType":   "corrective",
			"scheduledDate": time.Now().UTC().Format(time.RFC3339),
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var req maintenance.Request
		Expect(json.Unmarshal(env.Data, &req)).To(Succeed())

		// When
		w, _ = do(http.MethodPut, "/requests/"+strconv.FormatInt(req.ID, 10), map[string]string{"stage": "scrap"})
		Expect(w.Code).To(Equal(http.StatusOK))

		// Then
		w, env = do(http.MethodGet, "/equipment/"+strconv.FormatInt(pump.ID, 10), nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var got equipment.Equipment
		Expect(json.Unmarshal(env.Data, &got)).To(Succeed())
		Expect(got.Status).To(Equal(equipment.StatusScrapped))
		Expect(got.MaintenanceRequests).To(HaveLen(1))
		Expect(got.MaintenanceRequests[0].Stage).To(Equal(maintenance.StageScrap))
	})

	It("should list with filters and count", func() {
		f.pump("Pump-1", "P-0001")
		f.pump("Compressor", "C-0001")

		w, env := do(http.MethodGet, "/equipment?search=pump&team="+strconv.FormatInt(f.team.ID, 10), nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(*env.Count).To(Equal(1))

		w, env = do(http.MethodGet, "/equipment?category=abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal(string(internal.ErrCodeInvalidID)))
	})

	It("should return the missing reference in the envelope", func() {
		w, env := do(http.MethodPost, "/equipment", map[string]interface{}{
			"name":     "Pump-1",
			"category": 999,
			"team":     f.team.ID,
		})
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal(string(internal.ErrCodeCategoryNotFound)))
	})

	It("should delete equipment", func() {
		e := f.pump("Pump-1", "P-0001")
		w, env := do(http.MethodDelete, "/equipment/"+strconv.FormatInt(e.ID, 10), nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Equipment deleted successfully"))

		w, _ = do(http.MethodGet, "/equipment/"+strconv.FormatInt(e.ID, 10), nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
