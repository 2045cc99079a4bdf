package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/frahmantamala/gearguard/internal/user"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		f      *authFixture
		router chi.Router
	)

	ginkgo.BeforeEach(func() {
		f = newAuthFixture()
		f.createUser("admin@gearguard.io", "secret1", user.RoleAdmin, user.StatusActive)
		f.createUser("tech@gearguard.io", "secret1", user.RoleTechnician, user.StatusActive)

		h := NewHandler(
			transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))),
			f.service,
			CookieConfig{Name: "gg_token"},
		)

		router = chi.NewRouter()
		router.Post("/auth/login", h.Login)
		router.Post("/auth/logout", h.Logout)
		router.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Get("/auth/me", h.Me)
			r.With(h.RequireRoles(user.RoleAdmin)).Get("/admin-only", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	login := func(email string) *http.Cookie {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"`+email+`","password":"secret1"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

		for _, c := range w.Result().Cookies() {
			if c.Name == "gg_token" {
				return c
			}
		}
		ginkgo.Fail("session cookie not set")
		return nil
	}

	get := func(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	ginkgo.It("should set an httpOnly lax cookie on login", func() {
		cookie := login("tech@gearguard.io")
		gomega.Expect(cookie.HttpOnly).To(gomega.BeTrue())
		gomega.Expect(cookie.SameSite).To(gomega.Equal(http.SameSiteLaxMode))
		gomega.Expect(cookie.Value).ToNot(gomega.BeEmpty())
	})

	ginkgo.It("should return the profile for a cookie session", func() {
		w := get("/auth/me", login("tech@gearguard.io"))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"email":"tech@gearguard.io"`))
	})

	ginkgo.It("should accept a bearer token", func() {
		cookie := login("tech@gearguard.io")
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+cookie.Value)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("should answer 401 without a session", func() {
		w := get("/auth/me", nil)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"success":false`))
	})

	ginkgo.It("should answer 403 for a role outside the allow-list", func() {
		gomega.Expect(get("/admin-only", login("tech@gearguard.io")).Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(get("/admin-only", login("admin@gearguard.io")).Code).To(gomega.Equal(http.StatusNoContent))
	})

	ginkgo.It("should revoke the session on logout", func() {
		cookie := login("tech@gearguard.io")

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

		w = get("/auth/me", cookie)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("TOKEN_REVOKED"))
	})
})
