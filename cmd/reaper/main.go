package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bizmodelai/bizmodelai/internal/api"
	"github.com/bizmodelai/bizmodelai/internal/db"
	"github.com/bizmodelai/bizmodelai/internal/services"
	"github.com/bizmodelai/bizmodelai/internal/utils"
)

// One retention sweep over expired unpaid users. Scheduling belongs to cron or
// the platform's job runner; this binary only does the work and exits.
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	batch := flag.Int("batch", utils.SafeEnvInt("BIZMODEL_REAP_BATCH", services.DefaultReapBatch), "users deleted per store round trip")
	flag.Parse()

	dbPath := os.Getenv("BIZMODEL_DB_PATH")
	if dbPath == "" {
		log.Fatalf("BIZMODEL_DB_PATH required")
	}
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() { _ = conn.Close() }()
	if err := db.RunMigrations(conn, os.Getenv("BIZMODEL_MIGRATIONS_DIR")); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	store, err := db.NewStore(conn)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	users := api.NewRouter(store, api.RouterConfig{}).Users()
	users.SetReapBatch(*batch)
	n, err := users.ReapExpired()
	if err != nil {
		log.Fatalf("reap (deleted %d before failure): %v", n, err)
	}
	log.Printf("reaped %d expired users", n)
}
