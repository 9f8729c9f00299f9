package database

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T, connectionString string) DatabaseService {
	t.Helper()

	ds, err := NewSQLiteDatabase(connectionString)
	if err != nil {
		t.Fatalf("NewSQLiteDatabase error: %v", err)
	}
	if err := ds.CreateDatabase(context.Background()); err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	return ds
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "schedules.db")

	ds := newTestDB(t, path)
	record, err := NewRecord("file:///tmp/a.png", "a.png", "2024-01-01T00:00:00.000000Z")
	if err != nil {
		t.Fatalf("NewRecord error: %v", err)
	}
	if err := ds.CreateRecord(ctx, record); err != nil {
		t.Fatalf("CreateRecord error: %v", err)
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// CreateDatabase must be idempotent on an existing file
	reopened := newTestDB(t, path)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.GetRecordByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetRecordByID error: %v", err)
	}
	if got == nil || *got != *record {
		t.Fatalf("expected %+v after reopen, got %+v", record, got)
	}
}

func TestSQLite_DuplicateIDRejected(t *testing.T) {
	ctx := context.Background()
	ds := newTestDB(t, ":memory:")
	t.Cleanup(func() { _ = ds.Close() })

	record := &Record{ID: "same", ImageURL: "u", ObjectKey: "k", ScheduledTime: "t"}
	if err := ds.CreateRecord(ctx, record); err != nil {
		t.Fatalf("CreateRecord error: %v", err)
	}
	if err := ds.CreateRecord(ctx, record); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestSQLite_DoesDatabaseExistAfterClose(t *testing.T) {
	ds := newTestDB(t, ":memory:")
	if !ds.DoesDatabaseExist(context.Background()) {
		t.Fatal("expected DoesDatabaseExist to return true")
	}
	_ = ds.Close()
	if ds.DoesDatabaseExist(context.Background()) {
		t.Fatal("expected DoesDatabaseExist to return false after Close")
	}
}
