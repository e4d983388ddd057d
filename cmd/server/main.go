// Package main is the entry point for the activities hub API server.
//
// Wiring follows the layering of the rest of the repository:
// - Domain: activities, teachers, announcements (no external dependencies)
// - Application: registration engine, session validator, announcement manager
// - Infrastructure: postgres / redis / in-memory store adapters
// - Interface: HTTP API surface
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mergington-hub/activities-hub/config"
	"github.com/mergington-hub/activities-hub/internal/application/announcements"
	"github.com/mergington-hub/activities-hub/internal/application/auth"
	"github.com/mergington-hub/activities-hub/internal/application/registration"
	"github.com/mergington-hub/activities-hub/internal/domain/activity"
	"github.com/mergington-hub/activities-hub/internal/domain/announcement"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
	"github.com/mergington-hub/activities-hub/internal/infrastructure/persistence/memory"
	"github.com/mergington-hub/activities-hub/internal/infrastructure/persistence/postgres"
	redisstore "github.com/mergington-hub/activities-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/mergington-hub/activities-hub/internal/interface/http"
	"github.com/mergington-hub/activities-hub/internal/seed"
	"github.com/mergington-hub/activities-hub/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatal("failed to load config", logger.Err(err))
	}

	log := logger.New(logger.Options{Level: logger.ParseLevel(cfg.Log.Level)}).
		With(logger.String("app", cfg.App.Name))

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", logger.Err(err))
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Store adapters ──────────────────────────────────────────────────

	var (
		activityRepo     activity.Repository
		teacherRepo      teacher.Repository
		announcementRepo announcement.Repository
		sessionStore     teacher.SessionStore
		storePinger      httpserver.Pinger
	)

	if cfg.Database.URL != "" {
		conn, err := postgres.NewConnection(ctx, postgres.Config{
			URL:             cfg.Database.URL,
			MaxConns:        int32(cfg.Database.MaxConns),
			MinConns:        int32(cfg.Database.MinConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
			QueryTimeout:    cfg.Database.QueryTimeout,
		})
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return err
		}

		activityRepo = postgres.NewActivityRepository(conn)
		teacherRepo = postgres.NewTeacherRepository(conn)
		announcementRepo = postgres.NewAnnouncementRepository(conn)
		storePinger = conn
		log.Info("using postgres store")
	} else {
		activityRepo = memory.NewActivityStore()
		teacherRepo = memory.NewTeacherStore()
		announcementRepo = memory.NewAnnouncementStore()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	if !cfg.Redis.Disabled {
		client, err := redisstore.NewClient(ctx, redisstore.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			if cfg.IsProduction() {
				return err
			}
			log.Warn("redis unavailable, using in-memory sessions", logger.Err(err))
			sessionStore = memory.NewSessionStore()
		} else {
			defer client.Close()
			sessionStore = redisstore.NewSessionStore(client)
			log.Info("using redis session store")
		}
	} else {
		sessionStore = memory.NewSessionStore()
		log.Info("redis disabled, using in-memory sessions")
	}

	// ── Seed data ───────────────────────────────────────────────────────

	if !cfg.Seed.Skip {
		data := seed.Defaults()
		if cfg.Seed.File != "" {
			loaded, err := seed.LoadFile(cfg.Seed.File)
			if err != nil {
				return err
			}
			data = loaded
		}
		if err := seed.Apply(ctx, data, activityRepo, teacherRepo, log); err != nil {
			return err
		}
	}

	// ── Application services ────────────────────────────────────────────

	authService := auth.NewService(teacherRepo, sessionStore, auth.Config{
		SessionTTL: cfg.Session.TTL,
	}, log)
	registrationService := registration.NewService(activityRepo, authService, log)
	announcementService := announcements.NewService(announcementRepo, authService, log)

	// ── HTTP server ─────────────────────────────────────────────────────

	server := httpserver.NewServer(httpserver.Config{
		Address:      cfg.HTTP.Address(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, httpserver.Dependencies{
		Registration:  registrationService,
		Auth:          authService,
		Announcements: announcementService,
		Logger:        log,
		Store:         storePinger,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("shutdown complete")
	return nil
}
