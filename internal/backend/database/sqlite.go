package database

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// every connection to ":memory:" opens its own database
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		image_url TEXT NOT NULL,
		object_key TEXT NOT NULL DEFAULT '',
		scheduled_time TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist(ctx context.Context) bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	return s.db.PingContext(ctx) == nil
}

func (s *SQLiteDatabase) CreateRecord(ctx context.Context, record *Record) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO schedules (id, image_url, object_key, scheduled_time) VALUES (?, ?, ?, ?)",
		record.ID, record.ImageURL, record.ObjectKey, record.ScheduledTime)
	return err
}

func (s *SQLiteDatabase) GetRecordByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, image_url, object_key, scheduled_time FROM schedules WHERE id = ?", id)

	var record Record
	if err := row.Scan(&record.ID, &record.ImageURL, &record.ObjectKey, &record.ScheduledTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (s *SQLiteDatabase) GetAllRecords(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, image_url, object_key, scheduled_time FROM schedules ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var records []*Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.ID, &record.ImageURL, &record.ObjectKey, &record.ScheduledTime); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}
