package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/mindscribe/mindscribe-backend/internal/config"
	"github.com/mindscribe/mindscribe-backend/internal/database"
	"github.com/mindscribe/mindscribe-backend/internal/middleware"
	"github.com/mindscribe/mindscribe-backend/internal/routes"
	"github.com/mindscribe/mindscribe-backend/internal/services"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// The signing secret is required; refusing to start beats minting
	// tokens nobody can verify later.
	if cfg.JWTSecret == "" {
		log.Fatal("Missing required environment variable: JWT_SECRET")
	}
	services.Tokens = services.NewTokenService(cfg.JWTSecret)

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (optional: rate limiting and insights caching)
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Printf("⚠️  WARNING: Failed to connect to Redis: %v", err)
			log.Println("   Rate limiting and insights caching are disabled")
		} else {
			defer database.DisconnectRedis()
		}
	} else {
		log.Println("REDIS_URI not set. Rate limiting and insights caching are disabled")
	}

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimitMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r)

	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/register")
	log.Println("  POST   /api/login")
	log.Println("  POST   /api/journals")
	log.Println("  GET    /api/journals")
	log.Println("  GET    /api/journals/recent")
	log.Println("  GET    /api/journals/milestones")
	log.Println("  GET    /api/journals/mood-trends")
	log.Println("  GET    /api/journals/{id}")
	log.Println("  PUT    /api/journals/{id}")
	log.Println("  DELETE /api/journals/{id}")

	log.Printf("🚀 Mindscribe backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
