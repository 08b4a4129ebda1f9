// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/bigredmatch/bigredmatch-backend/internal/common/database"
	"github.com/bigredmatch/bigredmatch-backend/internal/common/utils"
	"github.com/bigredmatch/bigredmatch-backend/internal/config"
	"github.com/bigredmatch/bigredmatch-backend/internal/matching"
	"github.com/bigredmatch/bigredmatch-backend/internal/notification"
	"github.com/bigredmatch/bigredmatch-backend/internal/nudge"
	"github.com/bigredmatch/bigredmatch-backend/internal/profile"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Big Red Match API")
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
		log.Fatal("❌ Configuration validation failed: ", err)
	}
	loc := cfg.Location()
	log.Printf("✅ Configuration loaded (driver=%s, timezone=%s)", cfg.StoreDriver, cfg.MatchTimezone)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Redis (optional)
	log.Println("📮 Step 3: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without cache", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 4. Initialize storage
	log.Println("🗄️  Step 4: Initializing storage...")
	var (
		profileRepo   profile.Repository
		matchRepo     matching.Repository
		nudgeRepo     nudge.Repository
		notifyService notification.Service
	)

	switch cfg.StoreDriver {
	case "firestore":
		app, err := database.NewFirebaseApp(ctx, &database.FirebaseConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsPath: cfg.FirebaseCredentialsPath,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		})
		if err != nil {
			log.Fatal("❌ Failed to initialize Firebase: ", err)
		}
		fsClient, err := database.NewFirestoreClient(ctx, app)
		if err != nil {
			log.Fatal("❌ Failed to connect to Firestore: ", err)
		}
		defer fsClient.Close()
		log.Println("✅ Connected to Firestore successfully")

		profileRepo = profile.NewFirestoreRepository(fsClient)
		matchRepo = matching.NewFirestoreRepository(fsClient, redisClient, cfg.MatchCacheTTL)
		nudgeRepo = nudge.NewFirestoreRepository(fsClient)

		if cfg.PushEnabled {
			fcm, err := notification.NewFCMService(ctx, app, fsClient)
			if err != nil {
				log.Fatal("❌ Failed to initialize FCM: ", err)
			}
			notifyService = fcm
			log.Println("✅ Push notifications enabled (FCM)")
		} else {
			notifyService = notification.NewNoopService()
			log.Println("⚠️  Push notifications disabled")
		}

	case "memory":
		profileRepo = profile.NewMemoryRepository()
		matchRepo = matching.NewMemoryRepository()
		nudgeRepo = nudge.NewMemoryRepository()
		notifyService = notification.NewNoopService()
		log.Println("✅ Using in-memory storage (local development mode)")
	}

	// 5. Wire services
	log.Println("🔧 Step 5: Wiring services...")
	matchStore := matching.NewStore(matchRepo, cfg.MatchCapacity)
	poolBuilder := matching.NewPoolBuilder(profileRepo, matchRepo, cfg.ProfileBatchSize, cfg.LookbackPrompts, loc)
	engine := matching.NewEngine(poolBuilder, matchStore, matchRepo, cfg.MatchCapacity, loc)
	validator := matching.NewValidator(matchRepo)
	matchService := matching.NewService(engine, matchStore, validator, loc)
	nudgeService := nudge.NewService(nudgeRepo, matchStore, notifyService)
	log.Println("✅ Services wired")

	// 6. Register routes
	log.Println("🌐 Step 6: Registering routes...")
	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	matching.RegisterRoutes(router, matching.NewHandler(matchService), netidMiddleware)
	nudge.RegisterRoutes(router, nudge.NewHandler(nudgeService), netidMiddleware)
	log.Println("✅ Routes registered")

	// 7. Start the weekly scheduler
	if cfg.SchedulerEnabled {
		log.Println("⏰ Step 7: Starting weekly match scheduler...")
		scheduler := matching.NewScheduler(matchService, cfg.SchedulerWeekday, cfg.SchedulerHour, loc)
		scheduler.Start(ctx)
		log.Printf("✅ Scheduler running (%s %02d:00 %s)", cfg.SchedulerWeekday, cfg.SchedulerHour, cfg.MatchTimezone)
	} else {
		log.Println("⏰ Step 7: Scheduler disabled, matches generated via admin endpoint")
	}

	// 8. Start the HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server failed: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server shutdown error: %v", err)
	}
	log.Println("✅ Server stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// netidMiddleware trusts the authenticating gateway to set X-User-Netid and
// places it in the request context for handlers.
func netidMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		netid := r.Header.Get("X-User-Netid")
		if netid == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing caller identity")
			return
		}
		ctx := context.WithValue(r.Context(), "netid", netid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
