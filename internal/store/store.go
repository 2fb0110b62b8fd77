// Package store persists dataset records to SQLite so they can be queried
// with ordinary SQL tools.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/KaramelBytes/bmireport/internal/dataset"
	"github.com/KaramelBytes/bmireport/internal/utils"
)

// Table is the name of the table holding exported records.
const Table = "bmi_records"

// DB is a SQLite file holding one exported dataset.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := utils.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &DB{db: db, path: path}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *DB) Path() string { return s.path }

func (s *DB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bmi_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country TEXT NOT NULL,
		year INTEGER NOT NULL,
		sex TEXT NOT NULL,
		age_group TEXT NOT NULL,
		region TEXT NOT NULL,
		mean_body_mass_index REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bmi_records_year ON bmi_records(year);
	CREATE INDEX IF NOT EXISTS idx_bmi_records_country ON bmi_records(country);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Replace deletes any previous rows and inserts recs in one transaction.
func (s *DB) Replace(ctx context.Context, recs []dataset.Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+Table); err != nil {
		return fmt.Errorf("clear %s: %w", Table, err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bmi_records (country, year, sex, age_group, region, mean_body_mass_index)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range recs {
		if _, err = stmt.ExecContext(ctx, r.Country, r.Year, r.Sex, r.AgeGroup, r.Region, r.MeanBMI); err != nil {
			return fmt.Errorf("insert record %d: %w", i+1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Records returns every stored record in insertion order.
func (s *DB) Records(ctx context.Context) ([]dataset.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT country, year, sex, age_group, region, mean_body_mass_index
		FROM bmi_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", Table, err)
	}
	defer rows.Close()

	var out []dataset.Record
	for rows.Next() {
		var r dataset.Record
		if err := rows.Scan(&r.Country, &r.Year, &r.Sex, &r.AgeGroup, &r.Region, &r.MeanBMI); err != nil {
			return nil, fmt.Errorf("scan %s: %w", Table, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ExportSQLite writes the records of ds to a bmi_records table in the SQLite
// file at path, replacing rows from any earlier export. It returns the number
// of rows written.
func ExportSQLite(ctx context.Context, path string, ds *dataset.Dataset) (int, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	if err := db.Replace(ctx, ds.Records()); err != nil {
		return 0, err
	}
	return ds.Len(), nil
}
