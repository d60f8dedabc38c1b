package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Open connects to the SQLite database at url, turns foreign keys on and
// brings the schema up to date.
func Open(url string) (*sql.DB, error) {
	// the pragma goes in the DSN so every pooled connection gets it
	if !strings.Contains(url, "_foreign_keys") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", url)
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
