package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/sqlitetest"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/user"
	userPostgres "github.com/frahmantamala/gearguard/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		repo    user.RepositoryAPI
		service *user.Service
		admin   *userDatamodel.User
		tech    *userDatamodel.User
	)

	newUser := func(name, email, role string) *userDatamodel.User {
		u := &userDatamodel.User{
			Name:         name,
			Email:        email,
			PasswordHash: "hash",
			Role:         role,
			Status:       user.StatusActive,
			IsVerified:   true,
		}
		Expect(repo.Create(ctx, u)).To(Succeed())
		return u
	}

	BeforeEach(func() {
		ctx = context.Background()
		db, err := sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())

		repo = userPostgres.NewUserRepository(db)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, logger)

		admin = newUser("Admin", "admin@gearguard.io", user.RoleAdmin)
		tech = newUser("Tina", "tina@gearguard.io", user.RoleUser)
	})

	Describe("List", func() {
		It("should return every user without password hashes in JSON", func() {
			users, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			Expect(users[0].ID).To(Equal(tech.ID))
		})
	})

	Describe("UpgradeRole", func() {
		It("should change a regular user's role", func() {
			updated, err := service.UpgradeRole(ctx, tech.ID, user.UpgradeRoleDTO{Role: user.RoleTechnician})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(user.RoleTechnician))

			stored, err := repo.GetByID(ctx, tech.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Role).To(Equal(user.RoleTechnician))
		})

		It("should refuse to grant admin", func() {
			_, err := service.UpgradeRole(ctx, tech.ID, user.UpgradeRoleDTO{Role: user.RoleAdmin})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("should never change an admin's role", func() {
			_, err := service.UpgradeRole(ctx, admin.ID, user.UpgradeRoleDTO{Role: user.RoleUser})
			Expect(errors.Is(err, internal.ErrAdminProtected)).To(BeTrue())

			stored, _ := repo.GetByID(ctx, admin.ID)
			Expect(stored.Role).To(Equal(user.RoleAdmin))
		})

		It("should return not found for an unknown user", func() {
			_, err := service.UpgradeRole(ctx, 999, user.UpgradeRoleDTO{Role: user.RoleManager})
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})

	Describe("Disable and Enable", func() {
		It("should toggle a user's status", func() {
			disabled, err := service.Disable(ctx, tech.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(disabled.Status).To(Equal(user.StatusDisabled))

			enabled, err := service.Enable(ctx, tech.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(enabled.IsActive()).To(BeTrue())
		})

		It("should never disable an admin", func() {
			_, err := service.Disable(ctx, admin.ID)
			Expect(errors.Is(err, internal.ErrAdminProtected)).To(BeTrue())
		})
	})
})
