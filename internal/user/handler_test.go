package user_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"

	"github.com/frahmantamala/gearguard/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/frahmantamala/gearguard/internal/user"
	userPostgres "github.com/frahmantamala/gearguard/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User Handler", func() {
	var (
		router chi.Router
		member *userDatamodel.User
		admin  *userDatamodel.User
	)

	BeforeEach(func() {
		db, err := sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())
		repo := userPostgres.NewUserRepository(db)

		member = &userDatamodel.User{Name: "Member", Email: "m@gearguard.io", PasswordHash: "x", Role: user.RoleUser, Status: user.StatusActive}
		admin = &userDatamodel.User{Name: "Admin", Email: "a@gearguard.io", PasswordHash: "x", Role: user.RoleAdmin, Status: user.StatusActive}
		Expect(repo.Create(context.Background(), member)).To(Succeed())
		Expect(repo.Create(context.Background(), admin)).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler := user.NewHandler(transport.NewBaseHandler(slogger), user.NewService(repo, slogger))

		router = chi.NewRouter()
		router.Get("/users", handler.List)
		router.Put("/users/{id}/upgrade-role", handler.UpgradeRole)
		router.Put("/users/{id}/disable", handler.Disable)
		router.Put("/users/{id}/enable", handler.Enable)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should list users without exposing password hashes", func() {
		w := serve(http.MethodGet, "/users", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("passwordHash"))
		Expect(w.Body.String()).To(ContainSubstring(`"count":2`))
	})

	It("should upgrade a role", func() {
		w := serve(http.MethodPut, "/users/"+strconv.FormatInt(member.ID, 10)+"/upgrade-role", `{"role":"technician"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var env struct {
			Data user.User `json:"data"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Data.Role).To(Equal(user.RoleTechnician))
	})

	It("should answer 403 when disabling an admin", func() {
		w := serve(http.MethodPut, "/users/"+strconv.FormatInt(admin.ID, 10)+"/disable", "")
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).To(ContainSubstring("ADMIN_PROTECTED"))
	})

	It("should reject an unknown role", func() {
		w := serve(http.MethodPut, "/users/"+strconv.FormatInt(member.ID, 10)+"/upgrade-role", `{"role":"overlord"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
