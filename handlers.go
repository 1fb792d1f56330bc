package main

import (
	"fmt"
	"time"

	"github.com/spencer-p/coastdash/pkg/coastal"
	"github.com/spencer-p/coastdash/pkg/data"
	"github.com/spencer-p/coastdash/pkg/handlers"
	"github.com/spencer-p/coastdash/pkg/location"
	"github.com/spencer-p/coastdash/pkg/log"
)

// newServer builds the dashboard handlers from the environment.
func newServer(env Config) (*handlers.Server, error) {
	tz, err := time.LoadLocation(env.Timezone)
	if err != nil {
		return nil, fmt.Errorf("bad timezone %q: %w", env.Timezone, err)
	}

	opts := handlers.Options{
		Now:      func() time.Time { return time.Now().In(tz) },
		Sessions: handlers.NewCookieStore(env.SessionKey, env.EncryptionKey),
		CacheTTL: env.CacheTTL,
	}

	if env.TideSchedule != "" {
		opts.Schedule, err = coastal.ParseSchedule(env.TideSchedule)
		if err != nil {
			return nil, err
		}
		log.Infof("Using tide schedule %s", opts.Schedule)
	}

	if env.DefaultLat != "" || env.DefaultLng != "" {
		fallback, err := location.Parse(env.DefaultLat, env.DefaultLng)
		if err != nil {
			return nil, fmt.Errorf("bad default location: %w", err)
		}
		opts.Fallback = &fallback
	}

	if env.PGHost != "" {
		store, err := data.OpenPostgres(data.PostgresConfig{
			Host:     env.PGHost,
			Port:     env.PGPort,
			Password: env.PGPassword,
		})
		if err != nil {
			return nil, err
		}
		opts.Users = store
	} else {
		log.Infof("PGHOST not set, preferences will not be saved")
	}

	return handlers.New(opts), nil
}
