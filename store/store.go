package store

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/recognizers/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
	now     func() time.Time
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		now:     time.Now,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.GetDB().PingContext(ctx)
}

// CreateRecognitions stores the given rows in one transaction. Rows without a
// UID or creation time get one assigned.
func (s *Store) CreateRecognitions(ctx context.Context, create []*Recognition) ([]*Recognition, error) {
	if len(create) == 0 {
		return create, nil
	}
	ts := s.now().Unix()
	for _, r := range create {
		if r.UID == "" {
			r.UID = shortuuid.New()
		}
		if r.CreatedTs == 0 {
			r.CreatedTs = ts
		}
	}
	list, err := s.driver.CreateRecognitions(ctx, create)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create recognitions")
	}
	return list, nil
}

func (s *Store) ListRecognitions(ctx context.Context, find *FindRecognition) ([]*Recognition, error) {
	return s.driver.ListRecognitions(ctx, find)
}

func (s *Store) GetRecognition(ctx context.Context, find *FindRecognition) (*Recognition, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.driver.ListRecognitions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// CountRecognitions groups the rows matching find by culture and category.
// Limit and Offset are ignored.
func (s *Store) CountRecognitions(ctx context.Context, find *FindRecognition) ([]*RecognitionCount, error) {
	return s.driver.CountRecognitions(ctx, find)
}

// PruneRecognitions removes rows older than retention and reports how many were removed.
func (s *Store) PruneRecognitions(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, errors.Errorf("retention must be positive, got %s", retention)
	}
	return s.driver.DeleteRecognitions(ctx, &DeleteRecognition{
		CreatedTsBefore: s.now().Add(-retention).Unix(),
	})
}
