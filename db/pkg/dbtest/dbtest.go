package dbtest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dietlog/server/db/pkg/sqlc"
	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// GetTestDB returns an isolated in-memory database with every table created.
// The pool holds a single connection, so a test must not use db while one of
// its transactions is still open.
func GetTestDB(ctx context.Context) (*sql.DB, error) {
	// Generate unique database name for this test to ensure isolation
	uniqueName := ulid.Make().String()
	connStr := fmt.Sprintf("file:testdb_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uniqueName)

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = sqlc.CreateLocalTables(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// GetTestQueries is GetTestDB wrapped in the generated queries.
func GetTestQueries(ctx context.Context) (*sql.DB, *gen.Queries, error) {
	db, err := GetTestDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	return db, gen.New(db), nil
}
