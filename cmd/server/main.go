package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/AnshRaj112/studio-backend/internal/config"
	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/handlers"
	"github.com/AnshRaj112/studio-backend/internal/middleware"
	"github.com/AnshRaj112/studio-backend/internal/routes"
	"github.com/AnshRaj112/studio-backend/internal/services"
)

// maskURI hides the password part of a connection string for logging.
func maskURI(uri string) string {
	scheme := ""
	if i := strings.Index(uri, "://"); i >= 0 {
		scheme, uri = uri[:i+3], uri[i+3:]
	}
	at := strings.LastIndex(uri, "@")
	if at == -1 {
		return scheme + uri
	}
	user, _, hasPassword := strings.Cut(uri[:at], ":")
	if !hasPassword {
		return scheme + uri
	}
	return scheme + user + ":***" + uri[at:]
}

// connectStores opens PostgreSQL, Redis and MongoDB and returns a func that
// closes them in reverse order.
func connectStores(cfg *config.Config) (func(), error) {
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		return nil, err
	}
	if err := database.InitPostgresTables(); err != nil {
		database.DisconnectPostgres()
		return nil, err
	}

	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		database.DisconnectPostgres()
		return nil, err
	}

	log.Printf("Connecting to MongoDB: %s", maskURI(cfg.MongoURI))
	if err := database.Connect(cfg.MongoURI); err != nil {
		database.DisconnectRedis()
		database.DisconnectPostgres()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := services.EnsureTrainerIndexes(ctx); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure trainer indexes: %v", err)
	}
	if err := services.EnsureActivityIndexes(ctx); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure activity indexes: %v", err)
	}

	return func() {
		database.Disconnect()
		database.DisconnectRedis()
		database.DisconnectPostgres()
	}, nil
}

func initIntegrations(cfg *config.Config) {
	switch {
	case cfg.CloudinaryName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "":
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	default:
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Cloudinary unavailable, file uploads disabled: %v", err)
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	}

	handlers.InitMailer(cfg)
	handlers.InitGitHub(cfg)
}

func newRouter(cfg *config.Config, tokens *services.ClientTokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Logger, chimw.Recoverer)

	// CORS runs before the limiters so preflights are never throttled
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.IsProduction() {
		r.Use(middleware.ProductionSecurity()...)
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	routes.SetupRoutes(r, tokens)
	return r
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	closeStores, err := connectStores(cfg)
	if err != nil {
		log.Fatal("Failed to connect to data stores: ", err)
	}
	defer closeStores()

	initIntegrations(cfg)
	tokens := handlers.InitAuth(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis pub/sub -> connected admin feeds
	services.StartRequestEventSubscriber(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, tokens),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 Studio backend running on :%s", cfg.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server stopped: %v", err)
		}
		return
	case <-ctx.Done():
	}
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
