package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/frahmantamala/gearguard/internal/transport/middleware"
	"github.com/frahmantamala/gearguard/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("Middleware", func() {
	Describe("LoggingMiddleware", func() {
		It("should mask credentials in headers and bodies", func() {
			logs := &bytes.Buffer{}
			lg := slog.New(slog.NewJSONHandler(logs, nil))
			withLogger := func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(logger.NewContext(r.Context(), lg)))
				})
			}

			var seen map[string]string
			h := withLogger(middleware.LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(json.NewDecoder(r.Body).Decode(&seen)).To(Succeed())
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"success":true,"data":{"token":"eyJhbGciOi"}}`))
			})))

			req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp",
				strings.NewReader(`{"email":"uma@gearguard.io","password":"hunter22","otp":"482913"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Cookie", "gg_token=secret")
			h.ServeHTTP(httptest.NewRecorder(), req)

			Expect(seen["password"]).To(Equal("hunter22"))
			out := logs.String()
			Expect(out).To(ContainSubstring("uma@gearguard.io"))
			Expect(out).NotTo(ContainSubstring("hunter22"))
			Expect(out).NotTo(ContainSubstring("482913"))
			Expect(out).NotTo(ContainSubstring("gg_token=secret"))
			Expect(out).NotTo(ContainSubstring("eyJhbGciOi"))
		})
	})

	Describe("RecoveryMiddleware", func() {
		It("should answer a panic with the error envelope", func() {
			base := transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
			h := middleware.RecoveryMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			}))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/equipment", nil))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			var env transport.Envelope
			Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
			Expect(env.Success).To(BeFalse())
			Expect(env.Message).To(Equal("Internal server error"))
			Expect(env.Code).To(Equal("INTERNAL_ERROR"))
		})
	})

	Describe("TraceID", func() {
		It("should echo the caller's trace id or mint one", func() {
			h := middleware.TraceID(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			req.Header.Set(middleware.TraceHeader, "trace-1")
			h.ServeHTTP(w, req)
			Expect(w.Header().Get(middleware.TraceHeader)).To(Equal("trace-1"))

			w = httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
			Expect(w.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
		})

		It("should bind the trace id to the request logger", func() {
			var buf bytes.Buffer
			base := slog.New(slog.NewTextHandler(&buf, nil))
			h := middleware.TraceID(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.From(r.Context()).Info("handled")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			req.Header.Set(middleware.TraceHeader, "trace-2")
			h.ServeHTTP(httptest.NewRecorder(), req)
			Expect(buf.String()).To(ContainSubstring("trace_id=trace-2"))
		})
	})

	Describe("CORS", func() {
		var h http.Handler

		BeforeEach(func() {
			h = middleware.CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}))
		})

		It("should answer preflights for allowed origins", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/requests", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
			Expect(w.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
		})

		It("should not grant unknown origins", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/requests", nil)
			req.Header.Set("Origin", "http://evil.example")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusTeapot))
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		})
	})
})
