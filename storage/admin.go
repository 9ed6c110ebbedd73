package storage

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Admin performs database-level setup and reset operations against the
// default postgres database.
type Admin struct {
	db *sql.DB
}

// NewAdmin opens an administrative connection using the given DSN,
// which must point at the default postgres database.
func NewAdmin(adminDSN string) (*Admin, error) {
	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return nil, fmt.Errorf("postgres admin: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres admin: ping: %w", err)
	}
	return &Admin{db: db}, nil
}

// DatabaseExists reports whether the named database exists.
func (a *Admin) DatabaseExists(name string) (bool, error) {
	var one int
	err := a.db.QueryRow(`SELECT 1 FROM pg_database WHERE datname = $1`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres admin: check database: %w", err)
	}
	return true, nil
}

// CreateDatabase creates the named database if it does not exist.
func (a *Admin) CreateDatabase(name string) error {
	exists, err := a.DatabaseExists(name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	// Identifiers cannot be bound as parameters.
	_, err = a.db.Exec(fmt.Sprintf(`CREATE DATABASE %s`, pq.QuoteIdentifier(name)))
	if err != nil {
		return fmt.Errorf("postgres admin: create database: %w", err)
	}
	return nil
}

// DropDatabase terminates active sessions on the named database and
// drops it.
func (a *Admin) DropDatabase(name string) error {
	_, err := a.db.Exec(`
		SELECT pg_terminate_backend(pg_stat_activity.pid)
		FROM pg_stat_activity
		WHERE pg_stat_activity.datname = $1
		AND pid <> pg_backend_pid()
	`, name)
	if err != nil {
		return fmt.Errorf("postgres admin: terminate sessions: %w", err)
	}

	_, err = a.db.Exec(fmt.Sprintf(`DROP DATABASE IF EXISTS %s`, pq.QuoteIdentifier(name)))
	if err != nil {
		return fmt.Errorf("postgres admin: drop database: %w", err)
	}
	return nil
}

// Close closes the administrative connection.
func (a *Admin) Close() error {
	return a.db.Close()
}
