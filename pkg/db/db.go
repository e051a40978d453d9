package db

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// DB holds the database connection pool. Query functions in pkg/db/queries
// go through this shared handle.
var DB *sqlx.DB

// InitDB initializes the database connection pool against the hosted
// PostgreSQL instance.
func InitDB(dbURL string) error {
	var err error
	DB, err = sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Errorf("Failed to connect to database: %v", err)
		return err
	}

	if err = DB.Ping(); err != nil {
		log.Errorf("Failed to ping database: %v", err)
		DB.Close()
		return err
	}

	// Conservative pool sizing for a managed Postgres plan.
	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(10)

	log.Info("Database connection pool initialized successfully.")
	return nil
}

// CloseDB closes the database connection pool. Deferred in main.
func CloseDB() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		} else {
			log.Info("Database connection pool closed.")
		}
	}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (error code 23505). The month find-or-create path relies on this
// to treat a concurrent insert of the same (month, year) pair as "already
// exists" instead of a failure.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505"
}
