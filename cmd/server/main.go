package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bizmodelai/bizmodelai/internal/api"
	"github.com/bizmodelai/bizmodelai/internal/db"
	"github.com/bizmodelai/bizmodelai/internal/jobs"
	"github.com/bizmodelai/bizmodelai/internal/middleware"
	"github.com/bizmodelai/bizmodelai/internal/services"
	"github.com/bizmodelai/bizmodelai/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	addr := utils.SafeEnv("BIZMODEL_ADDR", ":8080")
	commit := os.Getenv("BIZMODEL_COMMIT")
	buildTime := os.Getenv("BIZMODEL_BUILD_TIME")

	store, closeDB, err := openStore()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeDB()

	cfg := api.RouterConfig{
		AdminKey: os.Getenv("BIZMODEL_ADMIN_KEY"),
		Insights: insightProvider(),
	}

	var manager *jobs.Manager
	if redisURL := os.Getenv("BIZMODEL_REDIS_URL"); redisURL != "" {
		manager = jobs.NewManager(redisURL)
		manager.RegisterHandlers(jobs.LogSender{})
		go func() {
			if err := manager.Start(); err != nil {
				log.Printf("job worker stopped: %v", err)
			}
		}()
		cfg.Notifier = manager
		defer manager.Stop()
	}

	mux := http.NewServeMux()
	router := api.NewRouter(store, cfg)
	router.Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "BizModelAI API",
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	handler := middleware.SecureHeaders(middleware.CORS(middleware.NoStore(middleware.WithAuth(mux))))

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("BizModelAI server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStore returns the sqlite-backed store when BIZMODEL_DB_PATH is set, and
// the in-memory store otherwise (dev and test runs).
func openStore() (api.Store, func(), error) {
	dbPath := os.Getenv("BIZMODEL_DB_PATH")
	if dbPath == "" {
		log.Printf("BIZMODEL_DB_PATH not set, using in-memory store")
		return api.NewMemoryStore(), func() {}, nil
	}
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(conn, os.Getenv("BIZMODEL_MIGRATIONS_DIR")); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	store, err := db.NewStore(conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return store, func() { _ = conn.Close() }, nil
}

func insightProvider() services.InsightProvider {
	apiKey := os.Getenv("BIZMODEL_OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil
	}
	client := &http.Client{Timeout: utils.SafeEnvDuration("BIZMODEL_OPENAI_TIMEOUT", 30*time.Second)}
	return services.NewOpenAIInsightProvider(
		client,
		apiKey,
		os.Getenv("BIZMODEL_OPENAI_BASE_URL"),
		os.Getenv("BIZMODEL_OPENAI_MODEL"),
	)
}
