package datastore

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewDB opens a connection pool for dbtype and verifies it with a ping
func NewDB(dbtype string, connstr string) (*sqlx.DB, error) {
	db, openError := sqlx.Open(dbtype, connstr)
	if openError != nil {
		return nil, fmt.Errorf("error opening connection -> %w", openError)
	}

	if pingError := db.Ping(); pingError != nil {
		db.Close()
		return nil, fmt.Errorf("could not establish connection with database -> %w", pingError)
	}

	return db, nil
}

// BuildDBConnStr builds a PostgreSQL connection string
func BuildDBConnStr(password, user, host, dbname, sslmode string) string {
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s", user, password, host, dbname, sslmode)
}
