package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gearboxapp/gearbox-backend/api/routes"
	"github.com/gearboxapp/gearbox-backend/internal/builds"
	"github.com/gearboxapp/gearbox-backend/internal/catalog"
	"github.com/gearboxapp/gearbox-backend/internal/comments"
	"github.com/gearboxapp/gearbox-backend/internal/follows"
	"github.com/gearboxapp/gearbox-backend/internal/identity"
	"github.com/gearboxapp/gearbox-backend/internal/likes"
	"github.com/gearboxapp/gearbox-backend/internal/partlink"
	"github.com/gearboxapp/gearbox-backend/internal/parts"
	"github.com/gearboxapp/gearbox-backend/internal/posts"
	"github.com/gearboxapp/gearbox-backend/internal/users"
	"github.com/gearboxapp/gearbox-backend/internal/vehicles"
	"github.com/gearboxapp/gearbox-backend/pkg/config"
	"github.com/gearboxapp/gearbox-backend/pkg/db"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
	"github.com/gearboxapp/gearbox-backend/pkg/migrate"
	"github.com/gearboxapp/gearbox-backend/pkg/redis"
	"github.com/gearboxapp/gearbox-backend/pkg/seed"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	if cfg.FeatureFlags.SeedOnBoot {
		if err := seed.Run(context.Background(), cfg.Seed, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to seed reference data", err)
			os.Exit(1)
		}
	}

	// an unreadable admin list must not boot a server with no admins
	adminEmails, err := seed.AdminEmails(cfg.Seed.AdminEmailsFile)
	if err != nil {
		logg.Error(context.Background(), "failed to load admin emails", err)
		os.Exit(1)
	}

	provider, err := identity.NewProvider(cfg.Session, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity provider", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	postRepo := posts.NewRepository(conn)
	partRepo := parts.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)
	vehicleRepo := vehicles.NewRepository(conn)

	userSvc, err := users.NewService(users.ServiceParams{
		Repo:        userRepo,
		Identity:    provider,
		AdminEmails: adminEmails,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	postSvc, err := posts.NewService(posts.ServiceParams{Repo: postRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create post service", err)
		os.Exit(1)
	}
	commentSvc, err := comments.NewService(comments.ServiceParams{
		Repo:     comments.NewRepository(conn),
		PostRepo: postRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create comment service", err)
		os.Exit(1)
	}
	likeSvc, err := likes.NewService(likes.ServiceParams{
		Repo:     likes.NewRepository(conn),
		PostRepo: postRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create like service", err)
		os.Exit(1)
	}
	followSvc, err := follows.NewService(follows.ServiceParams{
		Repo:     follows.NewRepository(conn),
		UserRepo: userRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create follow service", err)
		os.Exit(1)
	}
	buildSvc, err := builds.NewService(builds.ServiceParams{
		Repo:        builds.NewRepository(conn),
		VehicleRepo: vehicleRepo,
		PartRepo:    partRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create build service", err)
		os.Exit(1)
	}
	partSvc, err := parts.NewService(parts.ServiceParams{
		Repo:        partRepo,
		CatalogRepo: catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create part service", err)
		os.Exit(1)
	}
	extractor, err := partlink.NewAnthropicExtractor(cfg.Anthropic)
	if err != nil {
		logg.Error(context.Background(), "failed to create extractor", err)
		os.Exit(1)
	}
	partLinkSvc, err := partlink.NewService(partlink.ServiceParams{
		Fetcher:     partlink.NewFetcher(cfg.PartLink),
		Extractor:   extractor,
		CatalogRepo: catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create part link service", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{Repo: catalogRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	vehicleSvc, err := vehicles.NewService(vehicles.ServiceParams{Repo: vehicleRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create vehicle service", err)
		os.Exit(1)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, promReg, routes.Services{
			Identity: provider,
			Users:    userSvc,
			Posts:    postSvc,
			Comments: commentSvc,
			Likes:    likeSvc,
			Follows:  followSvc,
			Builds:   buildSvc,
			Parts:    partSvc,
			PartLink: partLinkSvc,
			Catalog:  catalogSvc,
			Vehicles: vehicleSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
