package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/gearguard/internal/auth"
	categoryDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/category"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	maintenanceDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/maintenance"
	otpDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/otp"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, teams, categories, equipment and requests for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		hash, err := auth.HashPassword(seedPassword, cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if clearData {
				if err := clearSeedData(tx); err != nil {
					return err
				}
				fmt.Println("Cleared existing data")
			}
			return seed(tx, hash)
		})
		if err != nil {
			log.Fatalf("seeding failed: %v", err)
		}

		fmt.Printf("Seed complete. Every seeded account uses password %q\n", seedPassword)
	},
}

// clearSeedData deletes rows child tables first so foreign keys hold.
func clearSeedData(tx *gorm.DB) error {
	models := []interface{}{
		&maintenanceDatamodel.Request{},
		&equipmentDatamodel.Equipment{},
		&categoryDatamodel.EquipmentCategory{},
		&otpDatamodel.Code{},
		&userDatamodel.User{},
		&teamDatamodel.Team{},
	}
	for _, m := range models {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", m, err)
		}
	}
	return nil
}

func seed(tx *gorm.DB, passwordHash string) error {
	teams := map[string]*teamDatamodel.Team{}
	for _, t := range []teamDatamodel.Team{
		{Name: "Mechanics", Color: "#3B82F6", IsActive: true},
		{Name: "Electricians", Color: "#F59E0B", IsActive: true},
		{Name: "IT Support", Color: "#10B981", IsActive: true},
	} {
		t := t
		if err := tx.Where(teamDatamodel.Team{Name: t.Name}).FirstOrCreate(&t).Error; err != nil {
			return fmt.Errorf("failed to seed team %s: %w", t.Name, err)
		}
		teams[t.Name] = &t
		fmt.Println("Seeded team:", t.Name)
	}

	users := map[string]*userDatamodel.User{}
	for _, u := range []struct {
		Name  string
		Email string
		Role  string
		Team  string
	}{
		{"Admin", "admin@gearguard.local", user.RoleAdmin, ""},
		{"Maria Manager", "manager@gearguard.local", user.RoleManager, ""},
		{"Tom Technician", "tom@gearguard.local", user.RoleTechnician, "Mechanics"},
		{"Eva Electric", "eva@gearguard.local", user.RoleTechnician, "Electricians"},
		{"Ian Support", "ian@gearguard.local", user.RoleTechnician, "IT Support"},
		{"Uma User", "uma@gearguard.local", user.RoleUser, ""},
	} {
		m := userDatamodel.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: passwordHash,
			Role:         u.Role,
			Status:       user.StatusActive,
			IsVerified:   true,
		}
		if t, ok := teams[u.Team]; ok {
			m.TeamID = &t.ID
		}
		if err := tx.Where(userDatamodel.User{Email: m.Email}).FirstOrCreate(&m).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		users[u.Email] = &m
		fmt.Printf("Seeded user: %s (%s)\n", m.Email, m.Role)
	}

	categories := map[string]*categoryDatamodel.EquipmentCategory{}
	for _, c := range []categoryDatamodel.EquipmentCategory{
		{Name: "Machinery", Description: "Production line machines"},
		{Name: "Electrical", Description: "Panels, generators and wiring"},
		{Name: "Computers", Description: "Workstations and servers"},
	} {
		c := c
		if err := tx.Where(categoryDatamodel.EquipmentCategory{Name: c.Name}).FirstOrCreate(&c).Error; err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
		categories[c.Name] = &c
		fmt.Println("Seeded category:", c.Name)
	}

	now := time.Now().UTC()
	purchased := now.AddDate(-2, 0, 0)
	warrantyEnd := now.AddDate(1, 0, 0)

	equipment := map[string]*equipmentDatamodel.Equipment{}
	for _, e := range []struct {
		Name       string
		Serial     string
		Category   string
		Team       string
		Technician string
		Location   string
	}{
		{"CNC Milling Machine", "CNC-0001", "Machinery", "Mechanics", "tom@gearguard.local", "Hall A"},
		{"Hydraulic Press", "HP-0002", "Machinery", "Mechanics", "tom@gearguard.local", "Hall B"},
		{"Backup Generator", "GEN-0003", "Electrical", "Electricians", "eva@gearguard.local", "Yard"},
		{"File Server", "SRV-0004", "Computers", "IT Support", "ian@gearguard.local", "Server Room"},
	} {
		serial := e.Serial
		m := equipmentDatamodel.Equipment{
			Name:                e.Name,
			SerialNumber:        &serial,
			CategoryID:          categories[e.Category].ID,
			TeamID:              teams[e.Team].ID,
			DefaultTechnicianID: &users[e.Technician].ID,
			Department:          "Production",
			PurchaseDate:        &purchased,
			WarrantyStartDate:   &purchased,
			WarrantyEndDate:     &warrantyEnd,
			Location:            e.Location,
			IsActive:            true,
			Status:              equipmentDatamodel.StatusOperational,
		}
		if err := tx.Where(equipmentDatamodel.Equipment{SerialNumber: &serial}).FirstOrCreate(&m).Error; err != nil {
			return fmt.Errorf("failed to seed equipment %s: %w", e.Name, err)
		}
		equipment[e.Serial] = &m
		fmt.Println("Seeded equipment:", m.Name)
	}

	var existing int64
	if err := tx.Model(&maintenanceDatamodel.Request{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to count requests: %w", err)
	}
	if existing > 0 {
		fmt.Println("Maintenance requests already present; skipping")
		return nil
	}

	completed := now.AddDate(0, 0, -3)
	creator := users["uma@gearguard.local"].ID
	for _, r := range []struct {
		Subject   string
		Serial    string
		Type      string
		Stage     string
		Priority  string
		Scheduled time.Time
		Completed *time.Time
	}{
		{"Spindle vibration", "CNC-0001", maintenance.TypeCorrective, maintenance.StageNew, maintenance.PriorityHigh, now.AddDate(0, 0, 2), nil},
		{"Quarterly oil change", "HP-0002", maintenance.TypePreventive, maintenance.StageInProgress, maintenance.PriorityNormal, now.AddDate(0, 0, -1), nil},
		{"Load test", "GEN-0003", maintenance.TypePreventive, maintenance.StageRepaired, maintenance.PriorityLow, now.AddDate(0, 0, -5), &completed},
		{"Disk failure", "SRV-0004", maintenance.TypeCorrective, maintenance.StageNew, maintenance.PriorityVeryHigh, now.AddDate(0, 0, 1), nil},
	} {
		eq := equipment[r.Serial]
		teamID := eq.TeamID
		categoryID := eq.CategoryID
		m := maintenanceDatamodel.Request{
			Subject:              r.Subject,
			EquipmentID:          eq.ID,
			CategoryID:           &categoryID,
			TeamID:               &teamID,
			RequestType:          r.Type,
			Stage:                r.Stage,
			Priority:             r.Priority,
			ScheduledDate:        r.Scheduled,
			DurationHours:        2,
			AssignedTechnicianID: eq.DefaultTechnicianID,
			CreatedByID:          &creator,
			CompletedDate:        r.Completed,
			IsActive:             true,
		}
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("failed to seed request %s: %w", r.Subject, err)
		}
		fmt.Println("Seeded request:", m.Subject)
	}

	return nil
}
