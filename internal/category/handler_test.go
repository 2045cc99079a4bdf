package category_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/gearguard/internal/category"
	categoryPostgres "github.com/frahmantamala/gearguard/internal/category/postgres"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/sqlitetest"
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

var _ = Describe("Category Handler Integration", func() {
	var router chi.Router

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		service := category.NewService(categoryPostgres.NewCategoryRepository(db), slogger)
		handler := category.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/categories", handler.List)
		router.Post("/categories", handler.Create)
		router.Get("/categories/{id}", handler.Get)
		router.Put("/categories/{id}", handler.Update)
		router.Delete("/categories/{id}", handler.Delete)
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

	It("should create and list categories", func() {
		w, env := do(http.MethodPost, "/categories", map[string]string{"name": "Pumps", "description": "Hydraulic"})
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(env.Success).To(BeTrue())

		w, env = do(http.MethodGet, "/categories", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(*env.Count).To(Equal(1))

		var list []category.Category
		Expect(json.Unmarshal(env.Data, &list)).To(Succeed())
		Expect(list[0].Name).To(Equal("Pumps"))
	})

	It("should return the envelope error for duplicates", func() {
		do(http.MethodPost, "/categories", map[string]string{"name": "Pumps"})
		w, env := do(http.MethodPost, "/categories", map[string]string{"name": "Pumps"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(ContainSubstring("already exists"))
	})

	It("should return 404 for a missing category", func() {
		w, env := do(http.MethodGet, "/categories/77", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal("CATEGORY_NOT_FOUND"))
	})

	It("should reject a malformed id", func() {
		w, env := do(http.MethodDelete, "/categories/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal("INVALID_ID"))
	})

	It("should update and delete", func() {
		_, env := do(http.MethodPost, "/categories", map[string]string{"name": "Pumps"})
		var created category.Category
		Expect(json.Unmarshal(env.Data, &created)).To(Succeed())

		w, env := do(http.MethodPut, "/categories/1", map[string]string{"description": "Updated"})
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated category.Category
		Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
		Expect(updated.Description).To(Equal("Updated"))
		Expect(updated.ID).To(Equal(created.ID))

		w, _ = do(http.MethodDelete, "/categories/1", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
