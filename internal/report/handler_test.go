package report_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/gearguard/internal/report"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

var _ = Describe("Report Handler Integration", func() {
	var (
		f      *fixture
		router chi.Router
	)

	BeforeEach(func() {
		f = newFixture()
		f.seed()
		h := report.NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), f.service)

		router = chi.NewRouter()
		router.Get("/reports/summary", h.Summary)
		router.Get("/reports/by-team", h.ByTeam)
		router.Get("/reports/monthly", h.Monthly)
		router.Get("/reports/export", h.Export)
		router.Get("/admin/stats", h.AdminStats)
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	It("should return the summary with camelCase keys", func() {
		w := get("/reports/summary")
		Expect(w.Code).To(Equal(http.StatusOK))

		var env envelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(env.Success).To(BeTrue())

		var data map[string]interface{}
		Expect(json.Unmarshal(env.Data, &data)).To(Succeed())
		Expect(data).To(HaveKeyWithValue("totalRequests", BeNumerically("==", 4)))
		Expect(data).To(HaveKeyWithValue("completionRate", BeNumerically("==", 25)))
		Expect(data).To(HaveKey("avgCompletionHours"))
	})

	It("should return team and monthly breakdowns", func() {
		var teams []report.TeamStat
		var env envelope
		w := get("/reports/by-team")
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(json.Unmarshal(env.Data, &teams)).To(Succeed())
		Expect(teams).To(HaveLen(3))

		var months []report.MonthlyStat
		w = get("/reports/monthly")
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(json.Unmarshal(env.Data, &months)).To(Succeed())
		Expect(months).To(HaveLen(3))
	})

	It("should return admin stats", func() {
		var env envelope
		w := get("/admin/stats")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())

		var stats report.AdminStats
		Expect(json.Unmarshal(env.Data, &stats)).To(Succeed())
		Expect(stats.OpenRequests).To(BeEquivalentTo(2))
	})

	It("should download the workbook as an attachment", func() {
		w := get("/reports/export")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
		Expect(w.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="gearguard-report-2026-03-10.xlsx"`))
		Expect(w.Body.Len()).To(BeNumerically(">", 0))
	})
})
