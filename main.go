package main

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/spencer-p/coastdash/pkg/log"
	"github.com/spencer-p/coastdash/pkg/metrics"
)

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`
	Debug  bool

	// TideSchedule overrides the day's tides, e.g.
	// "02:15 L 1.2, 08:30 H 5.8, 14:45 L 0.9, 20:20 H 6.1".
	TideSchedule string `split_words:"true"`
	Timezone     string `default:"America/Los_Angeles"`
	DefaultLat   string `split_words:"true"`
	DefaultLng   string `split_words:"true"`

	SessionKey    string `split_words:"true"`
	EncryptionKey string `split_words:"true"`

	RefreshSpec string        `split_words:"true" default:"@every 1m"`
	CacheTTL    time.Duration `split_words:"true" default:"1m"`

	PGHost     string `envconfig:"PGHOST"`
	PGPort     string `envconfig:"PGPORT" default:"5432"`
	PGPassword string `envconfig:"PGPASSWORD"`
}

func main() {
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatalf("%v", err)
	}
	if err := log.Init(env.Debug); err != nil {
		log.Fatalf("%v", err)
	}
	defer log.Sync()

	server, err := newServer(env)
	if err != nil {
		log.Fatalf("%v", err)
	}

	r := mux.NewRouter().StrictSlash(true)
	r.Use(metrics.LatencyHandler)
	r.Handle("/metrics", promhttp.Handler())
	s := r.PathPrefix(env.Prefix).Subrouter()
	server.Register(s, env.Prefix)

	// Keep the default dashboard fresh, as the page refreshes once a minute.
	// Expired dashboards for other locations are dropped on the same beat.
	c := cron.New()
	if _, err := c.AddFunc(env.RefreshSpec, func() {
		server.Sweep()
		server.Warm()
	}); err != nil {
		log.Fatalf("bad refresh spec %q: %v", env.RefreshSpec, err)
	}
	server.Warm()
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Handler:      r,
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Infof("Listening and serving on %s/%s", srv.Addr, env.Prefix[1:])
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("%v", err)
	}
}
