package records

import (
	"context"
	"database/sql"
	"log"

	"rallytimesbot/pkg/model"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

func buildCreateRecordsTable() string {
	return `CREATE TABLE IF NOT EXISTS stage_records (
		position INTEGER NOT NULL,
		driver TEXT NOT NULL,
		car TEXT NOT NULL,
		elapsed REAL NOT NULL,
		stage TEXT NOT NULL);`
}

func buildSelectRecordsCommand() (string, func(*sql.Rows) ([]model.StageRecord, error)) {
	return `SELECT driver, car, elapsed, stage FROM stage_records ORDER BY position`, processSelectRecordsRows
}

func processSelectRecordsRows(rows *sql.Rows) ([]model.StageRecord, error) {
	defer rows.Close()

	records := make([]model.StageRecord, 0)
	for rows.Next() {
		var r model.StageRecord
		err := rows.Scan(&r.Driver, &r.Car, &r.ElapsedSeconds, &r.Stage)
		if err != nil {
			return records, errors.Wrapf(ErrCorruptState, "scanning stage_records: %s", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func buildInsertRecordCommand() string {
	return `INSERT INTO stage_records (position, driver, car, elapsed, stage) VALUES (?, ?, ?, ?, ?)`
}

func buildDeleteRecordsCommand() string {
	return `DELETE FROM stage_records`
}

// SQLiteBackend keeps the records in a SQLite table. Save replaces the whole
// table inside one transaction. After Reset the table is empty, which is the
// absent state for this backend.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Printf("error opening database: %s\n", err)
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(buildCreateRecordsTable())
	if err != nil {
		log.Printf("error init database: %s\n", err)
		db.Close()
		return nil, errors.Wrap(err, "creating stage_records")
	}

	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

func (s *SQLiteBackend) Load(ctx context.Context) ([]model.StageRecord, error) {
	query, read := buildSelectRecordsCommand()
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "querying stage_records")
	}
	return read(rows)
}

func (s *SQLiteBackend) Save(ctx context.Context, records []model.StageRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, buildDeleteRecordsCommand()); err != nil {
		return errors.Wrap(err, "clearing stage_records")
	}
	stmt, err := tx.PrepareContext(ctx, buildInsertRecordCommand())
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Driver, r.Car, r.ElapsedSeconds, r.Stage); err != nil {
			return errors.Wrapf(err, "inserting %s", r)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (s *SQLiteBackend) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, buildDeleteRecordsCommand())
	return errors.Wrap(err, "clearing stage_records")
}
