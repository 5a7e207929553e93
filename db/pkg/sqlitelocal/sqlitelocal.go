package sqlitelocal

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/dietlog/server/db/pkg/sqlc"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

const MemoryPath = ":memory:"

var ErrDBPathNotFound = fmt.Errorf("db path not found")

// LocalDB wraps the connection pool opened for the server.
type LocalDB struct {
	DB    *sql.DB
	Close func()
}

func pragmas() url.Values {
	v := url.Values{}
	// Writers take the database lock at BEGIN so two transactions never both
	// read a list and then race to rewrite it.
	v.Set("_txlock", "immediate")
	v.Add("_pragma", "busy_timeout(5000)")
	v.Add("_pragma", "foreign_keys(1)")
	return v
}

// DSN builds the connection string for a database file, or a private shared
// cache in memory when path is MemoryPath.
func DSN(path string) string {
	v := pragmas()
	if path == MemoryPath {
		v.Set("mode", "memory")
		v.Set("cache", "shared")
		return fmt.Sprintf("file:dietlog_%s?%s", ulid.Make().String(), v.Encode())
	}
	v.Add("_pragma", "journal_mode(WAL)")
	return fmt.Sprintf("file:%s?%s", path, v.Encode())
}

// Open opens (and on first use creates) the database at path.
func Open(ctx context.Context, path string) (LocalDB, error) {
	var result LocalDB
	if path == "" {
		return result, ErrDBPathNotFound
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return result, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return result, fmt.Errorf("failed to open database: %w", err)
	}
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return result, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := sqlc.CreateLocalTables(ctx, db); err != nil {
		db.Close()
		return result, fmt.Errorf("failed to create tables: %w", err)
	}

	result = LocalDB{
		DB:    db,
		Close: func() { _ = db.Close() },
	}
	return result, nil
}
