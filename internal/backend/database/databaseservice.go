package database

import "context"

// DatabaseService stores schedule records. GetRecordByID returns (nil, nil)
// when no record with the given id exists.
type DatabaseService interface {
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist(ctx context.Context) bool
	Close() error

	CreateRecord(ctx context.Context, record *Record) error
	GetRecordByID(ctx context.Context, id string) (*Record, error)
	// GetAllRecords returns every stored record. There is no index on
	// scheduled_time so implementations perform a full scan.
	GetAllRecords(ctx context.Context) ([]*Record, error)
}
