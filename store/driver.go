package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Recognition model related methods.
	CreateRecognitions(ctx context.Context, create []*Recognition) ([]*Recognition, error)
	ListRecognitions(ctx context.Context, find *FindRecognition) ([]*Recognition, error)
	CountRecognitions(ctx context.Context, find *FindRecognition) ([]*RecognitionCount, error)
	DeleteRecognitions(ctx context.Context, delete *DeleteRecognition) (int64, error)

	// SystemSetting model related methods.
	UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error)
	ListSystemSettings(ctx context.Context, find *FindSystemSetting) ([]*SystemSetting, error)
}
