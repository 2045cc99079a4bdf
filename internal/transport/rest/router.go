package rest

import (
	"net/http"

	"github.com/frahmantamala/gearguard/api"
	"github.com/frahmantamala/gearguard/internal/auth"
	"github.com/frahmantamala/gearguard/internal/category"
	"github.com/frahmantamala/gearguard/internal/equipment"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/metrics"
	"github.com/frahmantamala/gearguard/internal/report"
	"github.com/frahmantamala/gearguard/internal/team"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/frahmantamala/gearguard/internal/transport/middleware"
	"github.com/frahmantamala/gearguard/internal/transport/swagger"
	"github.com/frahmantamala/gearguard/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything RegisterAllRoutes mounts. Metrics is optional.
type Handlers struct {
	Base        *transport.BaseHandler
	Health      *HealthHandler
	Auth        *auth.Handler
	Users       *user.Handler
	Teams       *team.Handler
	Categories  *category.Handler
	Equipment   *equipment.Handler
	Requests    *maintenance.Handler
	Reports     *report.Handler
	Metrics     *metrics.Metrics
	MetricsPath string
	Origins     []string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers) {
	router.Use(middleware.CORS(h.Origins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID(h.Base.Logger))
	if h.Metrics != nil {
		router.Use(h.Metrics.InstrumentHandler)
	}
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware(h.Base))

	if h.Metrics != nil {
		router.Handle(h.MetricsPath, h.Metrics.Handler())
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/send-otp", h.Auth.SendOTP)
			ar.Post("/verify-otp", h.Auth.VerifyOTP)
			ar.Post("/logout", h.Auth.Logout)
			ar.With(h.Auth.AuthMiddleware).Get("/me", h.Auth.Me)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			adminOnly := h.Auth.RequireRoles(user.RoleAdmin)
			managers := h.Auth.RequireRoles(user.RoleAdmin, user.RoleManager)
			staff := h.Auth.RequireRoles(user.RoleAdmin, user.RoleManager, user.RoleTechnician)

			pr.Route("/categories", func(cr chi.Router) {
				cr.Get("/", h.Categories.List)
				cr.Get("/{id}", h.Categories.Get)
				cr.With(adminOnly).Post("/", h.Categories.Create)
				cr.With(adminOnly).Put("/{id}", h.Categories.Update)
				cr.With(adminOnly).Delete("/{id}", h.Categories.Delete)
			})

			pr.Route("/equipment", func(er chi.Router) {
				er.Get("/", h.Equipment.List)
				er.Get("/{id}", h.Equipment.Get)
				er.With(adminOnly).Post("/", h.Equipment.Create)
				er.With(adminOnly).Put("/{id}", h.Equipment.Update)
				er.With(adminOnly).Delete("/{id}", h.Equipment.Delete)
			})

			pr.Route("/teams", func(tr chi.Router) {
				tr.Get("/", h.Teams.List)
				tr.With(managers).Get("/unassigned-users", h.Teams.UnassignedUsers)
				tr.Get("/{id}", h.Teams.Get)
				tr.Group(func(mr chi.Router) {
					mr.Use(managers)
					mr.Post("/", h.Teams.Create)
					mr.Put("/{id}", h.Teams.Update)
					mr.Delete("/{id}", h.Teams.Delete)
					mr.Post("/{id}/members", h.Teams.AddMember)
					mr.Delete("/{id}/members/{userId}", h.Teams.RemoveMember)
				})
			})

			pr.Route("/requests", func(rr chi.Router) {
				rr.Post("/", h.Requests.Create)
				rr.Get("/my", h.Requests.ListMine)
				rr.Group(func(sr chi.Router) {
					sr.Use(staff)
					sr.Get("/", h.Requests.List)
					sr.Get("/stats", h.Requests.Stats)
					sr.Get("/stage/{stage}", h.Requests.ListByStage)
					sr.Get("/{id}", h.Requests.Get)
					sr.Put("/{id}", h.Requests.Update)
					sr.Patch("/{id}/stage", h.Requests.UpdateStage)
				})
				rr.With(managers).Delete("/{id}", h.Requests.Delete)
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.Use(managers)
				rr.Get("/summary", h.Reports.Summary)
				rr.Get("/by-team", h.Reports.ByTeam)
				rr.Get("/monthly", h.Reports.Monthly)
				rr.Get("/export", h.Reports.Export)
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(adminOnly)
				ar.Get("/users", h.Users.List)
				ar.Put("/users/{id}/upgrade-role", h.Users.UpgradeRole)
				ar.Put("/users/{id}/disable", h.Users.Disable)
				ar.Put("/users/{id}/enable", h.Users.Enable)
				ar.Get("/admin/stats", h.Reports.AdminStats)
			})
		})
	})
}
