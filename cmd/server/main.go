package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/sagehill-community/activities-backend/internal/config"
	"github.com/sagehill-community/activities-backend/internal/database"
	"github.com/sagehill-community/activities-backend/internal/handlers"
	"github.com/sagehill-community/activities-backend/internal/middleware"
	"github.com/sagehill-community/activities-backend/internal/routes"
	"github.com/sagehill-community/activities-backend/internal/services"
	"github.com/sagehill-community/activities-backend/internal/storage"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL (user accounts)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, carts, rate limiting)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (activity documents)
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Ensure activity indexes, including the TTL index that removes
	// activities a day after they occur.
	activityStore := storage.NewMongoActivityStore(database.DB)
	if err := activityStore.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB activity indexes: %v", err)
	} else {
		log.Println("✅ MongoDB activity indexes ensured")
	}

	// Wire services
	mailer := services.NewMailer(cfg)
	if cfg.EmailFrom == "" {
		log.Println("⚠️  WARNING: EMAIL_FROM not set; notification email will not be delivered")
	}

	userSvc := services.NewUserService(database.PostgresDB)
	activitySvc := services.NewActivityService(activityStore, userSvc, mailer, cfg.AdminEmails)
	rsvpSvc := services.NewRSVPService(activityStore, mailer)

	handlers.Init(cfg, activitySvc, rsvpSvc, userSvc, mailer)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit)
	r.Use(middleware.SessionAuth(func(ctx context.Context, id string) (*middleware.ActorDetails, error) {
		user, err := userSvc.UserByID(ctx, id)
		if err != nil || user == nil {
			return nil, err
		}
		return &middleware.ActorDetails{IsAdmin: user.IsAdmin, Email: user.Email}, nil
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	log.Printf("🚀 Activities backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
