package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/sportmania/sportmania-backend/internal/config"
	"github.com/sportmania/sportmania-backend/internal/database"
	"github.com/sportmania/sportmania-backend/internal/handlers"
	"github.com/sportmania/sportmania-backend/internal/middleware"
	"github.com/sportmania/sportmania-backend/internal/routes"
	"github.com/sportmania/sportmania-backend/internal/services"
	"github.com/sportmania/sportmania-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	db, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer db.Disconnect()

	// Ensure indexes (email uniqueness and reset token lookups live here)
	if err := db.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("Failed to ensure MongoDB indexes:", err)
	}
	log.Println("✅ MongoDB indexes ensured")

	// Connect to Redis (rate limiting)
	log.Printf("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Initialize Cloudinary
	var uploader services.Uploader
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Profile photo uploads will not be available")
		} else {
			uploader = cld
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Profile photo uploads will not be available")
	}

	// Outbound email (password reset)
	if cfg.EmailHost == "" || cfg.EmailUser == "" {
		log.Println("⚠️  WARNING: EMAIL_HOST/EMAIL_USER not set. Password reset emails will fail to send.")
	}
	mailer := services.NewEmailService(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass)

	// Stores and services
	userStore := store.NewUserStore(db.DB)
	tokenStore := store.NewResetTokenStore(db.DB)
	authService := services.NewAuthService(userStore, []byte(cfg.JWTSecret))
	profileService := services.NewProfileService(userStore, tokenStore, uploader, mailer, cfg.FrontendURL)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(rdb))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r,
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(profileService),
		middleware.Protect([]byte(cfg.JWTSecret)),
	)

	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/auth/register")
	log.Println("  POST   /api/auth/login")
	log.Println("  GET    /api/auth/logout")
	log.Println("  GET    /api/auth/loggedin")
	log.Println("  GET    /api/users/getuser")
	log.Println("  PATCH  /api/users/updateuser")
	log.Println("  PATCH  /api/users/changepassword")
	log.Println("  POST   /api/users/forgotpassword")
	log.Println("  PUT    /api/users/resetpassword/{resetToken}")

	log.Printf("🚀 Sport Mania backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
