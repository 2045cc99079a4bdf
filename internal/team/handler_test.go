package team_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/frahmantamala/gearguard/internal/core/common/refs"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/team"
	teamPostgres "github.com/frahmantamala/gearguard/internal/team/postgres"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/frahmantamala/gearguard/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

var _ = Describe("Team Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		var err error
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		service := team.NewService(teamPostgres.NewTeamRepository(db), slogger)
		handler := team.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/teams", handler.List)
		router.Post("/teams", handler.Create)
		router.Get("/teams/unassigned-users", handler.UnassignedUsers)
		router.Get("/teams/{id}", handler.Get)
		router.Put("/teams/{id}", handler.Update)
		router.Delete("/teams/{id}", handler.Delete)
		router.Post("/teams/{id}/members", handler.AddMember)
		router.Delete("/teams/{id}/members/{userId}", handler.RemoveMember)
	})

	newUser := func(name, role string) *userDatamodel.User {
		u := &userDatamodel.User{
			Name:         name,
			Email:        name + "@gearguard.io",
			PasswordHash: "x",
			Role:         role,
			Status:       user.StatusActive,
		}
		Expect(db.Create(u).Error).To(Succeed())
		return u
	}

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

	membersPath := func(teamID int64, userID ...int64) string {
		path := "/teams/" + strconv.FormatInt(teamID, 10) + "/members"
		for _, id := range userID {
			path += "/" + strconv.FormatInt(id, 10)
		}
		return path
	}

	createMechanics := func(members ...int64) team.Team {
		w, env := do(http.MethodPost, "/teams", map[string]interface{}{"name": "Mechanics", "members": members})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created team.Team
		Expect(json.Unmarshal(env.Data, &created)).To(Succeed())
		return created
	}

	It("should create and list teams with member counts", func() {
		tom := newUser("tom", user.RoleTechnician)
		created := createMechanics(tom.ID)
		Expect(created.Color).To(Equal(team.DefaultColor))
		Expect(created.Members).To(HaveLen(1))
		Expect(created.Members[0].Name).To(Equal("tom"))

		w, env := do(http.MethodGet, "/teams", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(*env.Count).To(Equal(1))

		var list []team.Team
		Expect(json.Unmarshal(env.Data, &list)).To(Succeed())
		Expect(list[0].MemberCount).To(Equal(int64(1)))
	})

	It("should require a technician on create", func() {
		mia := newUser("mia", user.RoleManager)
		w, env := do(http.MethodPost, "/teams", map[string]interface{}{"name": "Office", "members": []int64{mia.ID}})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
		Expect(env.Code).To(Equal("TECHNICIAN_REQUIRED"))
	})

	It("should reject non-positive member ids on create", func() {
		tom := newUser("tom", user.RoleTechnician)
		w, env := do(http.MethodPost, "/teams", map[string]interface{}{"name": "Mechanics", "members": []int64{-1, tom.ID}})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal("VALIDATION_FAILED"))
		Expect(env.Message).To(ContainSubstring("members"))
	})

	Describe("members", func() {
		var (
			mechanics team.Team
			tom, tim  *userDatamodel.User
		)

		BeforeEach(func() {
			tom = newUser("tom", user.RoleTechnician)
			tim = newUser("tim", user.RoleTechnician)
			mechanics = createMechanics(tom.ID)
		})

		It("should add a member and return the updated team", func() {
			w, env := do(http.MethodPost, membersPath(mechanics.ID), map[string]int64{"userId": tim.ID})
			Expect(w.Code).To(Equal(http.StatusOK))

			var updated team.Team
			Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
			Expect(updated.MemberCount).To(Equal(int64(2)))
		})

		It("should reject a user who already belongs to a team", func() {
			w, env := do(http.MethodPost, membersPath(mechanics.ID), map[string]int64{"userId": tom.ID})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Success).To(BeFalse())
			Expect(env.Code).To(Equal("ALREADY_IN_TEAM"))
		})

		It("should require a userId in the body", func() {
			w, env := do(http.MethodPost, membersPath(mechanics.ID), map[string]int64{})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Code).To(Equal("VALIDATION_FAILED"))
		})

		It("should return 404 for an unknown user or team", func() {
			w, env := do(http.MethodPost, membersPath(mechanics.ID), map[string]int64{"userId": 404})
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(env.Code).To(Equal("USER_NOT_FOUND"))

			w, env = do(http.MethodPost, membersPath(404), map[string]int64{"userId": tim.ID})
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(env.Code).To(Equal("TEAM_NOT_FOUND"))
		})

		It("should refuse to remove the last technician", func() {
			w, env := do(http.MethodDelete, membersPath(mechanics.ID, tom.ID), nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Code).To(Equal("LAST_TECHNICIAN"))
		})

		It("should reject removing someone outside the team", func() {
			w, env := do(http.MethodDelete, membersPath(mechanics.ID, tim.ID), nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Code).To(Equal("NOT_TEAM_MEMBER"))
		})

		It("should remove a technician when another remains", func() {
			w, _ := do(http.MethodPost, membersPath(mechanics.ID), map[string]int64{"userId": tim.ID})
			Expect(w.Code).To(Equal(http.StatusOK))

			w, env := do(http.MethodDelete, membersPath(mechanics.ID, tom.ID), nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var updated team.Team
			Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
			Expect(updated.Members).To(HaveLen(1))
			Expect(updated.Members[0].ID).To(Equal(tim.ID))
		})

		It("should reject a malformed userId", func() {
			w, env := do(http.MethodDelete, "/teams/"+strconv.FormatInt(mechanics.ID, 10)+"/members/abc", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Code).To(Equal("INVALID_ID"))

			w, env = do(http.MethodDelete, membersPath(mechanics.ID, 0), nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Code).To(Equal("INVALID_ID"))
		})

		It("should list users still without a team", func() {
			w, env := do(http.MethodGet, "/teams/unassigned-users", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var people []refs.Person
			Expect(json.Unmarshal(env.Data, &people)).To(Succeed())
			Expect(people).To(HaveLen(1))
			Expect(people[0].ID).To(Equal(tim.ID))
		})
	})

	It("should return 404 for a missing team and 400 for a malformed id", func() {
		w, env := do(http.MethodGet, "/teams/77", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal("TEAM_NOT_FOUND"))

		w, env = do(http.MethodGet, "/teams/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal("INVALID_ID"))
	})
})
