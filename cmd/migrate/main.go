// Command migrate applies the SQL files under migrations/ in filename order.
// Applied files are tracked in schema_migrations so reruns are safe.
package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"github.com/filmcut/filmcut-backend/config"
)

func main() {
	dir := flag.String("dir", "migrations", "directory containing .sql migration files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("db ping: %v", err)
	}

	if _, err := db.Exec(`
create table if not exists schema_migrations (
  filename text primary key,
  applied_at timestamptz not null default now()
);`); err != nil {
		log.Fatalf("ensure schema_migrations: %v", err)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("read migrations dir: %v", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	applied := 0
	for _, name := range files {
		var exists bool
		if err := db.QueryRow(`select exists(select 1 from schema_migrations where filename = $1)`, name).Scan(&exists); err != nil {
			log.Fatalf("check %s: %v", name, err)
		}
		if exists {
			continue
		}

		body, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			log.Fatalf("read %s: %v", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("begin %s: %v", name, err)
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			log.Fatalf("apply %s: %v", name, err)
		}
		if _, err := tx.Exec(`insert into schema_migrations (filename) values ($1)`, name); err != nil {
			_ = tx.Rollback()
			log.Fatalf("record %s: %v", name, err)
		}
		if err := tx.Commit(); err != nil {
			log.Fatalf("commit %s: %v", name, err)
		}

		log.Printf("applied %s", name)
		applied++
	}

	log.Printf("done: %d migration(s) applied, %d total", applied, len(files))
}
