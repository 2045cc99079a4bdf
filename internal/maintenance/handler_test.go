package maintenance_test

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
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
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

var _ = Describe("Maintenance Handler Integration", func() {
	var (
		f        *fixture
		router   chi.Router
		loggedIn bool
	)

	BeforeEach(func() {
		f = newFixture()
		loggedIn = true
		handler := maintenance.NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), f.service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if loggedIn {
					r = r.WithContext(internal.ContextWithUser(r.Context(), f.caller()))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/requests", handler.List)
		router.Post("/requests", handler.Create)
		router.Get("/requests/my", handler.ListMine)
		router.Get("/requests/stats", handler.Stats)
		router.Get("/requests/stage/{stage}", handler.ListByStage)
		router.Get("/requests/{id}", handler.Get)
		router.Put("/requests/{id}", handler.Update)
		router.Delete("/requests/{id}", handler.Delete)
		router.Patch("/requests/{id}/stage", handler.UpdateStage)
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

	createPump1Request := func() maintenance.Request {
		w, env := do(http.MethodPost, "/requests", map[string]interface{}{
			"subject":       "Leaking seal",
			"equipment":     f.pump.ID,
			"requestType":   "corrective",
			"scheduledDate": f.now.Add(24 * time.Hour).Format(time.RFC3339),
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created maintenance.Request
		Expect(json.Unmarshal(env.Data, &created)).To(Succeed())
		return created
	}

	It("should create a request with camelCase refs", func() {
		created := createPump1Request()
		Expect(created.Team.Name).To(Equal("Mechanics"))
		Expect(created.Category.Name).To(Equal("Pumps"))
		Expect(created.AssignedTechnician.Name).To(Equal("tom"))
		Expect(created.IsOverdue).To(BeFalse())
	})

	It("should scrap the equipment through the kanban route", func() {
		created := createPump1Request()

		w, env := do(http.MethodPatch, "/requests/"+strconv.FormatInt(created.ID, 10)+"/stage", map[string]string{"stage": "scrap"})
		Expect(w.Code).To(Equal(http.StatusOK))

		var updated maintenance.Request
		Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
		Expect(updated.Stage).To(Equal(maintenance.StageScrap))
		Expect(updated.CompletedDate).NotTo(BeNil())
		Expect(updated.Equipment.Status).To(Equal(equipmentDatamodel.StatusScrapped))
	})

	It("should filter the list and report the count", func() {
		createPump1Request()
		createPump1Request()

		w, env := do(http.MethodGet, "/requests?stage=new&equipment="+strconv.FormatInt(f.pump.ID, 10), nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(*env.Count).To(Equal(2))

		w, env = do(http.MethodGet, "/requests?stage=repaired", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(*env.Count).To(Equal(0))

		w, env = do(http.MethodGet, "/requests?from=yesterday", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal(string(internal.ErrCodeInvalidDate)))
	})

	It("should include the whole last day of a date-only calendar window", func() {
		w, _ := do(http.MethodPost, "/requests", map[string]interface{}{
			"subject":       "Month-end inspection",
			"equipment":     f.pump.ID,
			"requestType":   "preventive",
			"scheduledDate": "2026-10-31T14:00:00Z",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		w, env := do(http.MethodGet, "/requests?from=2026-10-01&to=2026-10-31", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(*env.Count).To(Equal(1))

		w, env = do(http.MethodGet, "/requests?from=2026-10-01&to=2026-10-30", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(*env.Count).To(Equal(0))

		w, env = do(http.MethodGet, "/requests?to=2026-10-31T13:00:00Z", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(*env.Count).To(Equal(0))
	})

	It("should reject an unknown kanban column", func() {
		w, env := do(http.MethodGet, "/requests/stage/archived", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
	})

	It("should return stats", func() {
		createPump1Request()
		w, env := do(http.MethodGet, "/requests/stats", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var stats maintenance.Stats
		Expect(json.Unmarshal(env.Data, &stats)).To(Succeed())
		Expect(stats.ByStage[maintenance.StageNew]).To(Equal(int64(1)))
	})

	It("should return 404 envelopes for missing requests", func() {
		w, env := do(http.MethodGet, "/requests/999", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal(string(internal.ErrCodeRequestNotFound)))
	})

	It("should require a caller for my requests", func() {
		loggedIn = false
		w, _ := do(http.MethodGet, "/requests/my", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
