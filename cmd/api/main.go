// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/socialrhythm/rhythm-backend/internal/chat"
	"github.com/socialrhythm/rhythm-backend/internal/common/database"
	"github.com/socialrhythm/rhythm-backend/internal/config"
	"github.com/socialrhythm/rhythm-backend/internal/crowd"
	"github.com/socialrhythm/rhythm-backend/internal/matching"
	"github.com/socialrhythm/rhythm-backend/internal/notify"
	"github.com/socialrhythm/rhythm-backend/internal/place"
	"github.com/socialrhythm/rhythm-backend/internal/recommend"
	"github.com/socialrhythm/rhythm-backend/internal/report"
	"github.com/socialrhythm/rhythm-backend/internal/user"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Social Rhythm Companion API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 3. Connect to PostgreSQL
	log.Println("🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional, suggestion caching degrades without it)
	log.Println("📮 Step 4: Connecting to Redis...")
	redisClient, err := database.NewRedisClientFromURL(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️  Redis unavailable (%v), continuing without suggestion cache", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("✅ Connected to Redis successfully")
	}

	// 5. Run database migrations
	log.Println("🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// Background jobs share this context and stop on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. Users
	log.Println("👤 Step 6: Initializing Users module...")
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)
	log.Println("✅ Users module initialized")

	// 7. Places
	log.Println("📍 Step 7: Initializing Places module...")
	placeRepo := place.NewPostgresRepository(db)
	placeService := place.NewService(placeRepo)
	placeHandler := place.NewHandler(placeService)

	refresher := place.NewRefresher(placeRepo, cfg.StatusRefreshInterval)
	refresher.Start(ctx)
	log.Printf("✅ Places module initialized (status refresh every %s)", cfg.StatusRefreshInterval)

	// 8. Crowd reports
	log.Println("📝 Step 8: Initializing Reports module...")
	reportRepo := report.NewPostgresRepository(db)

	uploadService := report.NewUploadService(report.UploadConfig{
		UseS3:          cfg.UseS3,
		S3Bucket:       cfg.S3BucketName,
		AWSRegion:      cfg.AWSRegion,
		LocalUploadDir: cfg.LocalUploadDir,
		BaseURL:        cfg.BaseURL,
	})
	if cfg.UseS3 {
		log.Println("   ✅ Using S3 for report photos")
	} else {
		log.Println("   ✅ Using local storage for report photos")
	}

	reportService := report.NewService(reportRepo, placeService, uploadService)
	reportHandler := report.NewHandler(reportService)
	log.Println("✅ Reports module initialized")

	// 9. Crowd prediction
	log.Println("📊 Step 9: Initializing Crowd prediction...")
	crowdEngine := crowd.NewEngine(nil, nil)
	crowdService := crowd.NewService(crowdEngine, placeService, reportService)
	crowdHandler := crowd.NewHandler(crowdService)
	log.Println("✅ Crowd prediction initialized")

	// 10. Notifications
	log.Println("🔔 Step 10: Initializing Notifications...")
	var emailProvider notify.EmailProvider
	switch cfg.EmailProvider {
	case "sendgrid":
		emailProvider = notify.NewSendGridEmailProvider(cfg.SendGridAPIKey, cfg.EmailFrom)
		log.Println("   ✅ Using SendGrid for emails")
	default:
		emailProvider = notify.NewMockEmailProvider()
		log.Println("   ⚠️  Using mock email provider (development mode)")
	}
	if !cfg.EnableEmailNotifications {
		emailProvider = nil
		log.Println("   ⚠️  Email notifications disabled")
	}

	var smsProvider notify.SMSProvider
	switch cfg.SMSProvider {
	case "twilio":
		smsProvider = notify.NewTwilioSMSProvider(
			cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioFromNumber,
		)
		log.Println("   ✅ Using Twilio for SMS")
	default:
		smsProvider = notify.NewMockSMSProvider()
		log.Println("   ⚠️  Using mock SMS provider (development mode)")
	}
	if !cfg.EnableSMSNotifications {
		smsProvider = nil
		log.Println("   ⚠️  SMS notifications disabled")
	}

	notifyService := notify.NewService(userService, emailProvider, smsProvider)
	log.Println("✅ Notifications initialized")

	// 11. Companion matching
	log.Println("🤝 Step 11: Initializing Matching module...")
	matchRepo := matching.NewPostgresRepository(db)
	matchService := matching.NewService(matchRepo, matching.NewEngine(), notifyService)
	matchHandler := matching.NewHandler(matchService)
	log.Println("✅ Matching module initialized")

	// 12. Visit suggestions
	log.Println("💡 Step 12: Initializing Suggestions module...")
	recommendEngine := recommend.NewEngine(crowdEngine, nil, nil)
	recommendService := recommend.NewService(recommendEngine, placeService, userService, reportService, redisClient)
	recommendHandler := recommend.NewHandler(recommendService)

	if err := recommendService.RefreshPlaces(ctx); err != nil {
		log.Printf("⚠️  Initial place list load failed: %v", err)
	}
	log.Println("✅ Suggestions module initialized")

	// 13. Chat
	log.Println("💬 Step 13: Initializing Chat module...")
	chatRepo := chat.NewPostgresRepository(db)
	chatService := chat.NewService(chatRepo, matchRepo)
	chatHub := chat.NewHub(chatService)
	go chatHub.Run()
	chatHandler := chat.NewHandler(chatService, chatHub)
	log.Println("✅ Chat module initialized")

	// 14. Routes
	log.Println("🛣️  Step 14: Setting up routes...")
	router := mux.NewRouter()

	// Static files for uploads
	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/",
				http.FileServer(http.Dir(cfg.LocalUploadDir))))
		log.Println("   ✅ Static file server configured")
	}

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	user.RegisterRoutes(router, userHandler)
	place.RegisterRoutes(router, placeHandler)
	report.RegisterRoutes(router, reportHandler)
	crowd.RegisterRoutes(router, crowdHandler)
	matching.RegisterRoutes(router, matchHandler)
	recommend.RegisterRoutes(router, recommendHandler)
	chat.RegisterRoutes(router, chatHandler)
	log.Println("   ✅ All routes registered")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 15. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️  Shutdown signal received...")

	cancel()
	chatHub.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

var startTime = time.Now()

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":%q,"uptime":%q}`,
		time.Now().Format(time.RFC3339), time.Since(startTime).String())
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username VARCHAR(100) UNIQUE NOT NULL,
            display_name VARCHAR(100) NOT NULL,
            email VARCHAR(255) UNIQUE,
            phone VARCHAR(30),
            gender VARCHAR(20),
            birth_date DATE,
            location_lat DOUBLE PRECISION,
            location_lng DOUBLE PRECISION,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS user_preferences (
            user_id INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            preferred_crowd_level VARCHAR(20) DEFAULT 'medium',
            max_wait_minutes INTEGER DEFAULT 30,
            needs_wheelchair BOOLEAN DEFAULT FALSE,
            noise_tolerance INTEGER DEFAULT 3,
            preferred_time_slots TEXT[] DEFAULT '{}',
            max_distance_meters DOUBLE PRECISION DEFAULT 5000,
            pref_min_age INTEGER,
            pref_max_age INTEGER,
            preferred_gender VARCHAR(20),
            group_size VARCHAR(20),
            interests TEXT[] DEFAULT '{}',
            safety_level INTEGER,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS places (
            id UUID PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            category VARCHAR(50) NOT NULL,
            location_lat DOUBLE PRECISION NOT NULL,
            location_lng DOUBLE PRECISION NOT NULL,
            is_open BOOLEAN DEFAULT TRUE,
            queue_length INTEGER DEFAULT 0,
            estimated_wait_minutes INTEGER DEFAULT 0,
            density DOUBLE PRECISION DEFAULT 0,
            status_updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            attributes JSONB DEFAULT '{}',
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS reports (
            id UUID PRIMARY KEY,
            place_id UUID NOT NULL REFERENCES places(id) ON DELETE CASCADE,
            user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            crowd_level VARCHAR(20) NOT NULL,
            wait_minutes INTEGER,
            noise_level INTEGER,
            is_open BOOLEAN DEFAULT TRUE,
            notes TEXT,
            photo_url TEXT,
            confidence DOUBLE PRECISION NOT NULL,
            verified BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS companion_matches (
            id SERIAL PRIMARY KEY,
            user1_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            user2_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            compatibility_score DOUBLE PRECISION NOT NULL,
            quality VARCHAR(20) NOT NULL,
            is_active BOOLEAN DEFAULT TRUE,
            unmatched_by INTEGER,
            unmatched_at TIMESTAMP,
            matched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            CONSTRAINT unique_companion_pair UNIQUE(user1_id, user2_id),
            CONSTRAINT ordered_companion_pair CHECK (user1_id < user2_id)
        )`,

		`CREATE TABLE IF NOT EXISTS chat_messages (
            id SERIAL PRIMARY KEY,
            match_id INTEGER NOT NULL REFERENCES companion_matches(id) ON DELETE CASCADE,
            sender_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            read_at TIMESTAMP,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_places_category ON places(category)`,
		`CREATE INDEX IF NOT EXISTS idx_places_location ON places(location_lat, location_lng)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_place_created ON reports(place_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_user_created ON reports(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user1 ON companion_matches(user1_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON companion_matches(user2_id)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_match ON chat_messages(match_id, created_at DESC)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
