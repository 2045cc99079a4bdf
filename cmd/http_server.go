package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/gearguard/api"
	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/auth"
	authPostgres "github.com/frahmantamala/gearguard/internal/auth/postgres"
	"github.com/frahmantamala/gearguard/internal/category"
	categoryPostgres "github.com/frahmantamala/gearguard/internal/category/postgres"
	"github.com/frahmantamala/gearguard/internal/core/events"
	"github.com/frahmantamala/gearguard/internal/equipment"
	equipmentPostgres "github.com/frahmantamala/gearguard/internal/equipment/postgres"
	"github.com/frahmantamala/gearguard/internal/mailer"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	maintenancePostgres "github.com/frahmantamala/gearguard/internal/maintenance/postgres"
	"github.com/frahmantamala/gearguard/internal/metrics"
	"github.com/frahmantamala/gearguard/internal/report"
	reportPostgres "github.com/frahmantamala/gearguard/internal/report/postgres"
	"github.com/frahmantamala/gearguard/internal/team"
	teamPostgres "github.com/frahmantamala/gearguard/internal/team/postgres"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/frahmantamala/gearguard/internal/transport/rest"
	"github.com/frahmantamala/gearguard/internal/user"
	userPostgres "github.com/frahmantamala/gearguard/internal/user/postgres"
	"github.com/frahmantamala/gearguard/pkg/logger"
	"github.com/frahmantamala/gearguard/pkg/redis"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	DB      *sqlx.DB
	Gorm    *gorm.DB
	Redis   *redis.Client
	Bus     *events.EventBus
	Mailer  *mailer.Client
	Metrics *metrics.Metrics
	Router  *chi.Mux
	Logger  *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

// close drains background work before releasing connections.
func (d *Dependencies) close() {
	d.Bus.Wait()
	d.Mailer.Shutdown()
	if err := d.Redis.Close(); err != nil {
		d.Logger.Error("Redis close error", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)

	userRepo := userPostgres.NewUserRepository(deps.Gorm)

	authService := auth.NewService(auth.Dependencies{
		Users:    userRepo,
		OTPs:     authPostgres.NewOTPRepository(deps.Gorm),
		Tokens:   auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenDuration),
		Limiter:  deps.Redis,
		Revoker:  deps.Redis,
		Sender:   deps.Mailer,
		Security: cfg.Security,
		OTP:      cfg.OTP,
		Logger:   lg,
	})

	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(deps.Gorm), lg)
	teamService := team.NewService(teamPostgres.NewTeamRepository(deps.Gorm), lg)
	requestService := maintenance.NewService(maintenancePostgres.NewRequestRepository(deps.Gorm), deps.Bus, lg)
	equipmentService := equipment.NewService(
		equipmentPostgres.NewEquipmentRepository(deps.Gorm),
		categoryService,
		teamService,
		requestService,
		lg,
	)
	reportService := report.NewService(reportPostgres.NewReportRepository(deps.DB), lg)

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Base: base,
		Health: rest.NewHealthHandler(map[string]rest.Check{
			"postgres": deps.DB.PingContext,
			"redis":    deps.Redis.Ping,
		}),
		Auth: auth.NewHandler(base, authService, auth.CookieConfig{
			Name:   cfg.Security.CookieName,
			Secure: cfg.Security.CookieSecure,
		}),
		Users:       user.NewHandler(base, user.NewService(userRepo, lg)),
		Teams:       team.NewHandler(base, teamService),
		Categories:  category.NewHandler(base, categoryService),
		Equipment:   equipment.NewHandler(base, equipmentService),
		Requests:    maintenance.NewHandler(base, requestService),
		Reports:     report.NewHandler(base, reportService),
		Metrics:     deps.Metrics,
		MetricsPath: cfg.Observability.Metrics.Path,
		Origins:     cfg.Server.Origins(),
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	if _, err := api.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}

	db, gdb, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := redis.NewClient(config.Redis, lg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	bus := events.NewEventBus(lg)
	subscribeAuditLog(bus, lg)

	var m *metrics.Metrics
	if config.Observability.Metrics.Enabled {
		m = metrics.New(config.Observability.Metrics.Path)
		m.Subscribe(bus)
	}

	return &Dependencies{
		Config:  config,
		DB:      db,
		Gorm:    gdb,
		Redis:   rdb,
		Bus:     bus,
		Mailer:  mailer.NewClient(config.Mail, lg),
		Metrics: m,
		Router:  chi.NewRouter(),
		Logger:  lg,
	}, nil
}

// subscribeAuditLog writes every domain event to the process log.
func subscribeAuditLog(bus *events.EventBus, lg *slog.Logger) {
	bus.SubscribeAll(func(ctx context.Context, e events.Event) error {
		lg.Info("domain event",
			"event_type", e.EventType(),
			"event_id", e.EventID(),
			"occurred_at", e.OccurredAt(),
			"payload", e.Payload())
		return nil
	})
}

// initDB opens one pgx pool shared by sqlx (reports, health) and gorm
// (repositories).
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: dbConn.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	return dbConn, gdb, nil
}
