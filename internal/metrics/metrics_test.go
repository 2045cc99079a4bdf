package metrics_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/gearguard/internal/core/events"
	"github.com/frahmantamala/gearguard/internal/metrics"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMetrics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Metrics Suite")
}

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.New("/metrics")
	})

	scrape := func() string {
		w := httptest.NewRecorder()
		m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		body, err := io.ReadAll(w.Body)
		Expect(err).NotTo(HaveOccurred())
		return string(body)
	}

	It("should label requests with the matched route pattern", func() {
		router := chi.NewRouter()
		router.Use(m.InstrumentHandler)
		router.Get("/api/equipment/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		for _, id := range []string{"1", "2", "3"} {
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/equipment/"+id, nil))
		}

		Expect(scrape()).To(ContainSubstring(`gearguard_http_requests_total{method="GET",path="/api/equipment/{id}",status="404"} 3`))
	})

	It("should fall back to numeric id folding outside the router", func() {
		h := m.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/requests/42/", nil))

		Expect(scrape()).To(ContainSubstring(`path="/api/requests/{id}",status="200"`))
	})

	It("should count domain events and stage transitions", func() {
		bus := events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
		m.Subscribe(bus)
		ctx := context.Background()

		Expect(bus.Publish(ctx, events.NewRequestCreatedEvent(1, 7, "corrective", "high"))).To(Succeed())
		Expect(bus.Publish(ctx, events.NewRequestStageChangedEvent(1, 7, "new", "scrap"))).To(Succeed())
		Expect(bus.Publish(ctx, events.NewEquipmentScrappedEvent(7, 1))).To(Succeed())
		bus.Wait()

		out := scrape()
		Expect(out).To(ContainSubstring(`gearguard_events_published_total{type="equipment.scrapped"} 1`))
		Expect(out).To(ContainSubstring(`gearguard_events_published_total{type="maintenance.request.created"} 1`))
		Expect(out).To(ContainSubstring(`gearguard_maintenance_stage_transitions_total{from="new",to="scrap"} 1`))
	})
})
