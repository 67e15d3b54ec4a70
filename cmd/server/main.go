package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/LailaElmallass/projectElite-sub000/auth"
	"github.com/LailaElmallass/projectElite-sub000/internal/config"
	"github.com/LailaElmallass/projectElite-sub000/internal/db"
	"github.com/LailaElmallass/projectElite-sub000/internal/events"
	"github.com/LailaElmallass/projectElite-sub000/internal/feedback"
	"github.com/LailaElmallass/projectElite-sub000/internal/handlers"
	"github.com/LailaElmallass/projectElite-sub000/internal/policy"
	"github.com/LailaElmallass/projectElite-sub000/internal/server"
	"github.com/LailaElmallass/projectElite-sub000/internal/services"
	"github.com/LailaElmallass/projectElite-sub000/internal/storage"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Seed the admin account and exit")
	migrationsDir   = flag.String("migrations", "migrations", "Directory holding the SQL migrations")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn, cfg, *migrationsDir); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
		return
	}

	if *seedOnlyFlag {
		if err := db.SeedAdmin(dbConn, cfg.Admin); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Seeding completed successfully")
		return
	}

	if err := db.Migrate(dbConn, cfg, *migrationsDir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if cfg.App.Seed {
		if err := db.SeedAdmin(dbConn, cfg.Admin); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	revoker, closeRevoker := newRevoker(cfg.Redis)
	defer closeRevoker()

	publisher := newPublisher(cfg.Kafka)
	defer publisher.Close()

	store, files, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Storage setup failed: %v", err)
	}

	cache := auth.NewPrincipalCache(services.UserLookup(dbConn), cfg.Auth.PrincipalTTL)
	authn := auth.NewAuthenticator(auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL), revoker, cache)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newHandler(cfg, dbConn, authn, cache, store, files, publisher, reg),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (dev=%v)", cfg.Server.Port, cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}

func newHandler(cfg *config.Config, d *gorm.DB, authn *auth.Authenticator, cache *auth.PrincipalCache,
	store storage.Store, files http.Handler, pub events.Publisher, reg *prometheus.Registry) http.Handler {
	g := policy.NewAuthGate()
	access := services.NewAccess(d)
	notifier := services.NewNotifier(pub)

	var gen feedback.TextGenerator
	if cfg.Gemini.APIKey != "" {
		gen = feedback.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, cfg.Gemini.Timeout).
			WithMaxTokens(cfg.Gemini.MaxTokens)
	} else {
		log.Println("[feedback] GEMINI_API_KEY not set, quiz feedback falls back to a static report")
	}

	h := server.Handlers{
		Auth:          handlers.NewAuthHandler(services.NewAuthService(d, authn)),
		Users:         handlers.NewUserHandler(services.NewUserService(d, g, cache)),
		Profile:       handlers.NewProfileHandler(services.NewProfileService(d, g, store, authn, cache)),
		JobOffers:     handlers.NewJobOfferHandler(services.NewJobOfferService(d, g, access, store, notifier)),
		Formations:    handlers.NewFormationHandler(services.NewFormationService(d, g, access, store)),
		Capsules:      handlers.NewCapsuleHandler(services.NewCapsuleService(d, g, store)),
		Interviews:    handlers.NewInterviewHandler(services.NewInterviewService(d, g, access, notifier)),
		Workshops:     handlers.NewWorkshopHandler(services.NewWorkshopService(d, g)),
		Notifications: handlers.NewNotificationHandler(services.NewNotificationService(d, g, notifier)),
		Quizzes:       handlers.NewQuizHandler(services.NewQuizService(d, g, feedback.NewGenerator(gen))),
	}
	opts := server.Options{
		DB:             d,
		Authn:          authn,
		Gate:           g,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Registry:       reg,
	}
	if local, ok := store.(*storage.LocalStore); ok {
		opts.Files = files
		opts.FilesPrefix = local.Prefix()
	}
	return server.New(opts, h)
}

// newRevoker uses Redis when configured so revoked tokens survive restarts.
func newRevoker(rc config.RedisConfig) (auth.Revoker, func()) {
	if !rc.Enabled() {
		log.Println("[auth] REDIS_ADDR not set, revoked tokens are kept in memory")
		return auth.NewMemoryRevoker(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis unreachable at %s: %v", rc.Addr, err)
	}
	return auth.NewRedisRevoker(client), func() { _ = client.Close() }
}

func newPublisher(kc config.KafkaConfig) events.Publisher {
	if !kc.Enabled() {
		return events.Nop{}
	}
	log.Printf("[events] publishing to kafka topic %s", kc.Topic)
	return events.NewKafkaPublisher(kc.Brokers, kc.Topic)
}

func newStore(cfg *config.Config) (storage.Store, http.Handler, error) {
	if cfg.Storage.Driver == "cloudinary" {
		s, err := storage.NewCloudinaryStore(cfg.Storage.CloudinaryURL, cfg.Storage.Folder)
		return s, nil, err
	}
	s := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicPrefix, cfg.App.BaseURL)
	return s, s.Handler(), nil
}
