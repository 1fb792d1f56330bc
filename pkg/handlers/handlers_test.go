package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spencer-p/coastdash/pkg/beaches"
	"github.com/spencer-p/coastdash/pkg/coastal"
	"github.com/spencer-p/coastdash/pkg/dashboard"
	"github.com/spencer-p/coastdash/pkg/data"
	"github.com/spencer-p/coastdash/pkg/location"
	"github.com/spencer-p/coastdash/pkg/log"
)

var evening = time.Date(2025, time.July, 4, 21, 0, 0, 0, time.UTC)

// fakeStore keeps users in memory. Like data.Store, Find records the visit
// but returns the user as it was before.
type fakeStore struct {
	mu    sync.Mutex
	users map[uint]data.User
	next  uint
}

func (f *fakeStore) Find(id uint) (*data.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", data.ErrNotFound, id)
	}
	touched := u
	touched.LastSeen = time.Now()
	f.users[id] = touched
	return &u, nil
}

func (f *fakeStore) Save(u *data.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.users == nil {
		f.users = make(map[uint]data.User)
	}
	if u.ID == 0 {
		f.next++
		u.ID = f.next
	}
	u.UpdatedAt = time.Now()
	f.users[u.ID] = *u
	return nil
}

func newTestServer(t *testing.T, opts Options) (*Server, http.Handler) {
	t.Helper()
	log.SetLogger(zap.NewNop())
	if opts.Now == nil {
		opts.Now = func() time.Time { return evening }
	}
	s := New(opts)
	r := mux.NewRouter().StrictSlash(true)
	s.Register(r, "/")
	return s, r
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestTide(t *testing.T) {
	_, h := newTestServer(t, Options{})

	for _, tc := range []struct {
		target     string
		wantHeight float64
		wantTrend  coastal.Trend
		wantNext   string
	}{{
		target:     "/api/v1/tide",
		wantHeight: 6.0,
		wantTrend:  coastal.Rising,
		wantNext:   "Low at 02:15, 1.2 ft",
	}, {
		target:     "/api/v1/tide?at=2025-07-04T04:00:00Z",
		wantHeight: 1.3,
		wantTrend:  coastal.Falling,
		wantNext:   "High at 08:30, 5.8 ft",
	}, {
		target:     "/api/v1/tide?at=yesterday",
		wantHeight: 6.0,
		wantTrend:  coastal.Rising,
		wantNext:   "Low at 02:15, 1.2 ft",
	}} {
		t.Run(tc.target, func(t *testing.T) {
			w := get(t, h, tc.target)
			if w.Code != http.StatusOK {
				t.Fatalf("got status %d: %s", w.Code, w.Body.String())
			}
			snap := decode[coastal.TideSnapshot](t, w)
			if snap.CurrentHeight != tc.wantHeight || snap.Trend != tc.wantTrend {
				t.Errorf("got %v %s, wanted %v %s", snap.CurrentHeight, snap.Trend, tc.wantHeight, tc.wantTrend)
			}
			if got := snap.NextTide.String(); got != tc.wantNext {
				t.Errorf("got next tide %q, wanted %q", got, tc.wantNext)
			}
			if diff := cmp.Diff(coastal.DefaultSchedule(), snap.DayTides); diff != "" {
				t.Errorf("wrong day tides (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestTideText(t *testing.T) {
	_, h := newTestServer(t, Options{})
	w := get(t, h, "/api/v1/tide?o=text")
	if !strings.Contains(w.Body.String(), "Current height: 6.0 ft, Rising") {
		t.Errorf("got %q", w.Body.String())
	}
}

func TestSwimTimes(t *testing.T) {
	_, h := newTestServer(t, Options{})

	plan := decode[coastal.RankedSwimPlan](t, get(t, h, "/api/v1/swimtimes"))
	var got []string
	for _, sw := range plan.Windows {
		got = append(got, sw.Time)
	}
	want := []string{"11:30 AM", "3:00 PM", "8:00 AM", "6:30 PM"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong order (-want,+got):\n%s", diff)
	}
	if plan.TopChoice == nil || plan.TopChoice.Time != "11:30 AM" {
		t.Errorf("got top choice %v", plan.TopChoice)
	}

	text := get(t, h, "/api/v1/swimtimes?o=text").Body.String()
	if !strings.Contains(text, "Top choice: 11:30 AM (Late Morning)") {
		t.Errorf("got %q", text)
	}
}

func TestSwimTimesEmpty(t *testing.T) {
	_, h := newTestServer(t, Options{Candidates: []coastal.SwimWindow{}})
	w := get(t, h, "/api/v1/swimtimes")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"windows":[]}` {
		t.Errorf("got %s", got)
	}
}

func TestBeaches(t *testing.T) {
	_, h := newTestServer(t, Options{})
	bs := decode[[]beaches.Beach](t, get(t, h, "/api/v1/beaches"))
	if len(bs) != 5 {
		t.Fatalf("got %d beaches", len(bs))
	}
	for i := 1; i < len(bs); i++ {
		if bs[i].Distance < bs[i-1].Distance {
			t.Errorf("%s is listed after %s", bs[i].Name, bs[i-1].Name)
		}
	}
}

func TestLocalTime(t *testing.T) {
	_, h := newTestServer(t, Options{})
	lt := decode[dashboard.LocalTime](t, get(t, h, "/api/v1/localtime"))
	if lt.Clock != "09:00:00 PM" || lt.Date != "Friday, July 4, 2025" || lt.Daytime {
		t.Errorf("got %+v", lt)
	}
}

func TestIndexLocation(t *testing.T) {
	_, h := newTestServer(t, Options{})

	for _, tc := range []struct {
		target      string
		wantLoc     location.Coordinate
		wantWarning string
	}{{
		target:      "/?o=json",
		wantLoc:     location.Default,
		wantWarning: location.UnsupportedWarning,
	}, {
		target:      "/?o=json&geo=denied",
		wantLoc:     location.Default,
		wantWarning: location.DeniedWarning,
	}, {
		target:  "/?o=json&lat=41.1415&lng=-73.2637",
		wantLoc: location.Coordinate{Lat: 41.1415, Lng: -73.2637},
	}} {
		t.Run(tc.target, func(t *testing.T) {
			w := get(t, h, tc.target)
			if w.Code != http.StatusOK {
				t.Fatalf("got status %d: %s", w.Code, w.Body.String())
			}
			if w.Header().Get(requestIDHeader) == "" {
				t.Errorf("no request id")
			}
			v := decode[dashboard.View](t, w)
			if v.Location != tc.wantLoc {
				t.Errorf("got location %v, wanted %v", v.Location, tc.wantLoc)
			}
			if v.Warning != tc.wantWarning {
				t.Errorf("got warning %q, wanted %q", v.Warning, tc.wantWarning)
			}
		})
	}
}

func TestIndexText(t *testing.T) {
	_, h := newTestServer(t, Options{})
	w := get(t, h, "/")
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("got content type %q", ct)
	}
	for _, want := range []string{
		"Current height: 6.0 ft, Rising",
		"Top choice: 11:30 AM (Late Morning)",
		location.UnsupportedWarning,
	} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("missing %q in:\n%s", want, w.Body.String())
		}
	}
}

func TestFallbackOverride(t *testing.T) {
	fairfield := location.Coordinate{Lat: 41.1415, Lng: -73.2637}
	_, h := newTestServer(t, Options{Fallback: &fairfield})
	v := decode[dashboard.View](t, get(t, h, "/?o=json"))
	if v.Location != fairfield {
		t.Errorf("got %v, wanted %v", v.Location, fairfield)
	}
}

func TestBadLocation(t *testing.T) {
	_, h := newTestServer(t, Options{})
	for _, target := range []string{
		"/?lat=100&lng=0",
		"/?lat=34",
		"/api/v1/tide?lat=north&lng=west",
		"/api/v1/localtime?lat=0&lng=200",
		"/?lat=NaN&lng=0&o=json",
		"/api/v1/tide?lat=NaN&lng=0",
		"/api/v1/localtime?lat=NaN&lng=NaN",
		"/api/v1/tide.svg?lat=0&lng=Inf",
	} {
		if w := get(t, h, target); w.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, wanted 400", target, w.Code)
		}
	}
}

func TestInvalidSchedule(t *testing.T) {
	_, h := newTestServer(t, Options{Schedule: coastal.Schedule{{}, {}}})
	for _, target := range []string{"/", "/api/v1/tide", "/api/v1/tide.svg"} {
		if w := get(t, h, target); w.Code != http.StatusInternalServerError {
			t.Errorf("%s: got status %d, wanted 500", target, w.Code)
		}
	}
}

func TestIndexIsCached(t *testing.T) {
	now := evening
	s, h := newTestServer(t, Options{Now: func() time.Time { return now }})

	first := get(t, h, "/").Body.String()
	now = now.Add(3 * time.Hour)
	if second := get(t, h, "/").Body.String(); second != first {
		t.Errorf("second request was not served from cache")
	}
	if s.cache.Len() != 1 {
		t.Errorf("got %d cached dashboards, wanted 1", s.cache.Len())
	}

	// Pinned times are never cached.
	pinned := get(t, h, "/?at=2025-07-04T05:00:00Z").Body.String()
	if pinned == first {
		t.Errorf("pinned time served a cached dashboard")
	}
	if s.cache.Len() != 1 {
		t.Errorf("got %d cached dashboards, wanted 1", s.cache.Len())
	}
}

func TestWarm(t *testing.T) {
	s, h := newTestServer(t, Options{})
	s.Warm()
	if s.cache.Len() != 2 {
		t.Fatalf("got %d cached dashboards, wanted 2", s.cache.Len())
	}
	get(t, h, "/")
	get(t, h, "/?o=json")
	if s.cache.Len() != 2 {
		t.Errorf("requests missed the warmed cache, %d entries", s.cache.Len())
	}
}

func TestTideImage(t *testing.T) {
	_, h := newTestServer(t, Options{})
	w := get(t, h, "/api/v1/tide.svg")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("got content type %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "<svg") {
		t.Errorf("not an svg: %.40q", w.Body.String())
	}
}

func TestConfigWithoutStore(t *testing.T) {
	_, h := newTestServer(t, Options{})

	prefs := decode[preferences](t, get(t, h, "/config"))
	if prefs.Saving || prefs.Fallback != location.Default {
		t.Errorf("got %+v", prefs)
	}

	req := httptest.NewRequest("POST", "/config", strings.NewReader("lat=1&lng=2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("got status %d, wanted 503", w.Code)
	}
}

func postConfig(t *testing.T, h http.Handler, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/config", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestConfigSavesHome(t *testing.T) {
	store := &fakeStore{}
	_, h := newTestServer(t, Options{Users: store})

	// Visit a page first so the redirect has somewhere to go.
	visit := get(t, h, "/?o=json")
	cookies := visit.Result().Cookies()

	w := postConfig(t, h, url.Values{
		"name": {"Jo"},
		"lat":  {"41.1415"},
		"lng":  {"-73.2637"},
	}, cookies...)
	if w.Code != http.StatusFound {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != "/?o=json" {
		t.Errorf("redirected to %q", got)
	}
	cookies = w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no session cookie")
	}

	fairfield := location.Coordinate{Lat: 41.1415, Lng: -73.2637}
	v := decode[dashboard.View](t, get(t, h, "/?o=json", cookies...))
	if v.Location != fairfield || v.Warning != "" {
		t.Errorf("got %v with warning %q", v.Location, v.Warning)
	}

	prefs := decode[preferences](t, get(t, h, "/config", cookies...))
	if prefs.Name != "Jo" || prefs.Home == nil || *prefs.Home != fairfield || !prefs.Saving {
		t.Errorf("got %+v", prefs)
	}

	// A query location still wins over the saved one.
	v = decode[dashboard.View](t, get(t, h, "/?o=json&lat=1&lng=2", cookies...))
	if v.Location != (location.Coordinate{Lat: 1, Lng: 2}) {
		t.Errorf("got %v", v.Location)
	}

	// Clearing the home falls back to the default again.
	w = postConfig(t, h, url.Values{"name": {"Jo"}}, cookies...)
	if w.Code != http.StatusFound {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	v = decode[dashboard.View](t, get(t, h, "/?o=json", cookies...))
	if v.Location != location.Default {
		t.Errorf("got %v after clearing home", v.Location)
	}
	if len(store.users) != 1 {
		t.Errorf("got %d users, wanted 1", len(store.users))
	}
}

func TestConfigBadLocation(t *testing.T) {
	_, h := newTestServer(t, Options{Users: &fakeStore{}})
	for _, form := range []url.Values{
		{"lat": {"91"}, "lng": {"0"}},
		{"lat": {"NaN"}, "lng": {"0"}},
		{"lat": {"0"}, "lng": {"-Inf"}},
	} {
		if w := postConfig(t, h, form); w.Code != http.StatusBadRequest {
			t.Errorf("%v: got status %d, wanted 400", form, w.Code)
		}
	}
}

func TestWriteJSONFailure(t *testing.T) {
	log.SetLogger(zap.NewNop())
	w := httptest.NewRecorder()
	writeJSON(w, httptest.NewRequest("GET", "/", nil), map[string]float64{"height": math.NaN()})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, wanted 500", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("got content type %q", ct)
	}
}

func TestCacheIsSwept(t *testing.T) {
	s, h := newTestServer(t, Options{CacheTTL: time.Nanosecond})
	for i := 0; i < 50; i++ {
		get(t, h, fmt.Sprintf("/?lat=%d&lng=0", i))
	}
	time.Sleep(time.Millisecond)
	s.Sweep()
	if s.cache.Len() != 0 {
		t.Errorf("got %d cached dashboards after sweeping, wanted 0", s.cache.Len())
	}
}

func TestLastSeenIsPreviousVisit(t *testing.T) {
	store := &fakeStore{}
	_, h := newTestServer(t, Options{Users: store})
	w := postConfig(t, h, url.Values{"name": {"Jo"}, "lat": {"1"}, "lng": {"2"}})
	cookies := w.Result().Cookies()

	store.mu.Lock()
	u := store.users[1]
	u.LastSeen = time.Now().Add(-48 * time.Hour)
	store.users[1] = u
	store.mu.Unlock()

	core, logs := observer.New(zap.InfoLevel)
	log.SetLogger(zap.New(core))
	get(t, h, "/config", cookies...)

	entries := logs.FilterMessageSnippet("was last seen").All()
	if len(entries) != 1 {
		t.Fatalf("got %d last seen entries, wanted 1", len(entries))
	}
	if msg := entries[0].Message; !strings.Contains(msg, "last seen 48h0m") {
		t.Errorf("got %q, wanted the visit two days ago", msg)
	}
}
