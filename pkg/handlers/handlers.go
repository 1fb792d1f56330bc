package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/spencer-p/coastdash/pkg/beaches"
	"github.com/spencer-p/coastdash/pkg/cache"
	"github.com/spencer-p/coastdash/pkg/coastal"
	"github.com/spencer-p/coastdash/pkg/dashboard"
	"github.com/spencer-p/coastdash/pkg/data"
	"github.com/spencer-p/coastdash/pkg/location"
	"github.com/spencer-p/coastdash/pkg/log"
	"github.com/spencer-p/coastdash/pkg/metrics"
	"github.com/spencer-p/coastdash/pkg/sunset"
	"github.com/spencer-p/coastdash/pkg/timetricks"
	"github.com/spencer-p/coastdash/pkg/visualize"
)

const (
	day             = 24 * time.Hour
	defaultCacheTTL = time.Minute

	requestIDHeader = "X-Request-Id"

	sourceQuery   = "query"
	sourceUser    = "user"
	sourceDefault = "default"
)

var errGeoDenied = errors.New("geolocation denied")

// UserStore loads and saves user preferences. *data.Store implements it.
type UserStore interface {
	Find(id uint) (*data.User, error)
	Save(u *data.User) error
}

// Options configure a Server. Zero values are replaced with the dashboard's
// literal defaults.
type Options struct {
	// Now reports the current time in the zone the dashboard is shown in.
	Now        func() time.Time
	Schedule   coastal.Schedule
	Candidates []coastal.SwimWindow
	Beaches    []beaches.Beach
	// Fallback is shown when the request has no usable location.
	Fallback *location.Coordinate
	// Users is optional. Without it /config cannot save anything.
	Users    UserStore
	Sessions sessions.Store
	CacheTTL time.Duration
}

// Server serves the coastal dashboard and its API.
type Server struct {
	now        func() time.Time
	schedule   coastal.Schedule
	candidates []coastal.SwimWindow
	beaches    []beaches.Beach
	fallback   location.Coordinate
	users      UserStore
	sessions   sessions.Store
	cache      *cache.Timed
}

func New(opts Options) *Server {
	s := &Server{
		now:        opts.Now,
		schedule:   opts.Schedule,
		candidates: opts.Candidates,
		beaches:    opts.Beaches,
		fallback:   location.Default,
		users:      opts.Users,
		sessions:   opts.Sessions,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.schedule == nil {
		s.schedule = coastal.DefaultSchedule()
	}
	if s.candidates == nil {
		s.candidates = coastal.DefaultSwimWindows()
	}
	if s.beaches == nil {
		s.beaches = beaches.Default()
	}
	if opts.Fallback != nil {
		s.fallback = *opts.Fallback
	}
	if s.sessions == nil {
		s.sessions = NewCookieStore("", "")
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	s.cache = cache.NewTimed(ttl)
	return s
}

// Register mounts the dashboard routes on r. Prefix is used to build redirects.
func (s *Server) Register(r *mux.Router, prefix string) {
	r.Use(withRequestID)

	r.Handle("/", s.makeIndexHandler()).Methods("GET")
	r.Handle("/api/v1/tide", s.makeTideHandler()).Methods("GET")
	r.Handle("/api/v1/swimtimes", s.makeSwimTimesHandler()).Methods("GET")
	r.Handle("/api/v1/beaches", s.makeBeachesHandler()).Methods("GET")
	r.Handle("/api/v1/localtime", s.makeLocalTimeHandler()).Methods("GET")
	r.Handle("/api/v1/tide.svg", s.makeTideImageHandler()).Methods("GET")
	r.Handle("/config", s.makeConfigHandler(prefix)).Methods("GET", "POST")
}

type ctxKey struct{}

// withRequestID tags every request with an id for the logs and the client.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := log.With("request", id)
		logger.Infof("%s %s", r.Method, r.URL)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, logger)))
	})
}

// logFor returns the request's logger.
func logFor(r *http.Request) *zap.SugaredLogger {
	if logger, ok := r.Context().Value(ctxKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return log.With()
}

// request is everything resolved from an incoming request.
type request struct {
	now      time.Time
	loc      location.Coordinate
	warning  string
	source   string
	override bool
}

// resolve reads the reference time and location of a request. Location comes
// from the query, then the user's saved home, then the fallback.
func (s *Server) resolve(r *http.Request) (request, error) {
	req := request{now: s.now()}

	if at := r.FormValue("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			logFor(r).Infof("Failed to read time %q: %v", at, err)
		} else {
			req.now = parsed.In(req.now.Location())
			req.override = true
		}
	}

	lat, lng := r.FormValue("lat"), r.FormValue("lng")
	if lat != "" || lng != "" {
		c, err := location.Parse(lat, lng)
		if err != nil {
			return req, err
		}
		req.loc, req.source = c, sourceQuery
		return req, nil
	}

	if user := s.userFromRequest(r); user != nil {
		if home, ok := user.Home(); ok {
			req.loc, req.source = home, sourceUser
			return req, nil
		}
	}

	var providerErr error
	if r.FormValue("geo") == "denied" {
		providerErr = errGeoDenied
	}
	_, req.warning = location.Resolve(nil, providerErr)
	req.loc, req.source = s.fallback, sourceDefault
	return req, nil
}

func (s *Server) inputs(req request) dashboard.Inputs {
	return dashboard.Inputs{
		Now:        req.now,
		Location:   req.loc,
		Warning:    req.warning,
		Schedule:   s.schedule,
		Candidates: s.candidates,
		Beaches:    s.beaches,
	}
}

func cacheKey(method, format string, req request) string {
	return fmt.Sprintf("%s %s %s %s %q", method, format, req.source, req.loc.Key(), req.warning)
}

func (s *Server) makeIndexHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := s.resolveOrFail(w, r)
		if !ok {
			return
		}
		s.rememberPage(w, r)
		format := r.FormValue("o")
		key := cacheKey(r.Method, format, req)

		// serve cache version from memory if possible
		if !req.override {
			if cached, ok := s.cache.Get(key); ok {
				writeBody(w, contentType(format), cached)
				return
			}
		}

		body, err := s.render(req, format)
		if err != nil {
			failf(w, r, http.StatusInternalServerError, "Failed to compose dashboard: %v", err)
			return
		}
		if !req.override {
			s.cache.Set(key, body)
		}
		writeBody(w, contentType(format), body)
	})
}

// render composes and encodes a dashboard.
func (s *Server) render(req request, format string) ([]byte, error) {
	view, err := dashboard.Compose(s.inputs(req))
	if err != nil {
		return nil, err
	}
	metrics.ObserveDashboard(req.source)
	if top, ok := view.Swim.Top(); ok {
		metrics.ObserveTopChoice(top.Label().String())
	}

	var b bytes.Buffer
	if format == "json" {
		err = json.NewEncoder(&b).Encode(view)
	} else {
		err = dashboard.WriteText(&b, view)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode dashboard: %w", err)
	}
	return b.Bytes(), nil
}

// Warm renders the fallback dashboard into the cache so the next visitor
// without a location is served from memory.
func (s *Server) Warm() {
	req := request{now: s.now(), loc: s.fallback, source: sourceDefault}
	_, req.warning = location.Resolve(nil, nil)
	for _, format := range []string{"", "json"} {
		body, err := s.render(req, format)
		if err != nil {
			log.Errorf("Failed to warm dashboard: %v", err)
			return
		}
		s.cache.Set(cacheKey("GET", format, req), body)
	}
	log.Debugf("Warmed dashboard for %s", req.loc.Key())
}

// Sweep drops expired dashboards from the cache.
func (s *Server) Sweep() {
	if removed := s.cache.Sweep(); removed > 0 {
		log.Debugf("Swept %d expired dashboards", removed)
	}
}

func (s *Server) makeTideHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := s.resolveOrFail(w, r)
		if !ok {
			return
		}
		snap, err := coastal.ComputeTideSnapshot(req.now, s.schedule)
		if err != nil {
			failf(w, r, http.StatusInternalServerError, "Failed to compute tide: %v", err)
			return
		}
		if r.FormValue("o") == "text" {
			var b bytes.Buffer
			if err := dashboard.WriteTideText(&b, snap); err != nil {
				failf(w, r, http.StatusInternalServerError, "Failed to write tide: %v", err)
				return
			}
			writeBody(w, contentType(""), b.Bytes())
			return
		}
		writeJSON(w, r, snap)
	})
}

func (s *Server) makeSwimTimesHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		plan := coastal.RankSwimWindows(s.candidates)
		if top, ok := plan.Top(); ok {
			metrics.ObserveTopChoice(top.Label().String())
		}
		if r.FormValue("o") == "text" {
			var b bytes.Buffer
			if err := dashboard.WriteSwimText(&b, plan); err != nil {
				failf(w, r, http.StatusInternalServerError, "Failed to write swim times: %v", err)
				return
			}
			writeBody(w, contentType(""), b.Bytes())
			return
		}
		writeJSON(w, r, plan)
	})
}

func (s *Server) makeBeachesHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, beaches.Nearby(s.beaches))
	})
}

func (s *Server) makeLocalTimeHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := s.resolveOrFail(w, r)
		if !ok {
			return
		}
		writeJSON(w, r, dashboard.ComposeLocalTime(req.now, req.loc))
	})
}

func (s *Server) makeTideImageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := s.resolveOrFail(w, r)
		if !ok {
			return
		}
		if err := s.schedule.Validate(); err != nil {
			failf(w, r, http.StatusInternalServerError, "Failed to draw tides: %v", err)
			return
		}

		place := sunset.Place{Lat: req.loc.Lat, Long: req.loc.Lng, Location: req.now.Location()}
		// Pad the sun events by a day on either side to shade the whole image.
		start := timetricks.TrimClock(req.now).Add(-day)
		img := visualize.NewTidal(s.schedule, coastal.DefaultApproximation,
			sunset.GetSunEvents(start, 3*day, place))
		img.SetDate(req.now)
		img.SetNow(req.now)

		var b bytes.Buffer
		if _, err := img.Encode(&b); err != nil {
			failf(w, r, http.StatusInternalServerError, "Failed to draw tides: %v", err)
			return
		}
		writeBody(w, "image/svg+xml", b.Bytes())
	})
}

// resolveOrFail writes a 400 for unusable coordinates.
func (s *Server) resolveOrFail(w http.ResponseWriter, r *http.Request) (request, bool) {
	req, err := s.resolve(r)
	if err != nil {
		failf(w, r, http.StatusBadRequest, "Bad location: %v", err)
		return req, false
	}
	return req, true
}

func contentType(format string) string {
	if format == "json" {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// writeJSON encodes v before committing to a status so that encoding failures
// are reported as errors.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(v); err != nil {
		failf(w, r, http.StatusInternalServerError, "Failed to encode JSON result: %v", err)
		return
	}
	writeBody(w, contentType("json"), b.Bytes())
}

func failf(w http.ResponseWriter, r *http.Request, code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if code >= http.StatusInternalServerError {
		logFor(r).Errorf("%s", msg)
	} else {
		logFor(r).Infof("%s", msg)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	io.WriteString(w, msg)
}
