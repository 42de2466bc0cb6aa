package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/hrygo/recognizers/internal/profile"
	"github.com/hrygo/recognizers/plugin/recognizer"
	"github.com/hrygo/recognizers/server/timezone"
	"github.com/hrygo/recognizers/store"
	"github.com/hrygo/recognizers/store/db"
)

// loadProfile reads and validates the profile from flags, environment and
// the config file.
func loadProfile(v *viper.Viper) (*profile.Profile, error) {
	p := profile.Load(v, version)
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid profile")
	}
	return p, nil
}

func newRecognizer(p *profile.Profile) (*recognizer.Service, error) {
	loc, err := timezone.ParseTimezone(p.Timezone)
	if err != nil {
		return nil, err
	}
	return recognizer.NewService(recognizer.Options{
		Cultures:       p.Cultures,
		DefaultCulture: p.DefaultCulture,
		Location:       loc,
		CacheSize:      p.CacheSize,
		CacheTTL:       p.CacheTTL,
		Concurrency:    p.Concurrency,
		MaxTextBytes:   p.MaxTextBytes,
	})
}

// openStore opens and migrates the history database.
func openStore(ctx context.Context, p *profile.Profile) (*store.Store, error) {
	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, err
	}
	st := store.New(driver, p)
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, errors.Wrap(err, "failed to migrate")
	}
	return st, nil
}
