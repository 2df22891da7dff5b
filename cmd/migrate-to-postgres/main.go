// migrate-to-postgres copies the dungeon archive from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/dungeons.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user dungeon \
//	    -pg-password dungeon \
//	    -pg-database dungeons
package main

import (
	"flag"
	"log"

	"github.com/lawnchairsociety/dungeonbuilder/internal/store"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/dungeons.db", "Path to SQLite archive")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "dungeon", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "dungeon", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "dungeons", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("Dungeon archive migration")
	log.Println("=========================")

	log.Printf("Opening SQLite archive: %s", *sqlitePath)
	src, err := store.OpenSQLite(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite archive: %v", err)
	}
	defer src.Close()

	pg := store.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL archive: %s@%s:%d/%s", pg.User, pg.Host, pg.Port, pg.Database)
	dst, err := store.Open(store.Config{Driver: string(store.DialectPostgres), Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL archive: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	result, err := store.CopyLayouts(dst, src, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed after %d layouts: %v", result.Copied, err)
	}

	log.Println("=========================")
	log.Printf("Migration complete! Copied %d layouts, skipped %d already present", result.Copied, result.Skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}
