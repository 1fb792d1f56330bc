package handlers

import (
	"crypto/sha1"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/pbkdf2"

	"github.com/spencer-p/coastdash/pkg/data"
	"github.com/spencer-p/coastdash/pkg/location"
	"github.com/spencer-p/coastdash/pkg/metrics"
)

const (
	sessionName       = "coastdash"
	sessionLastViewed = "last-viewed-referrer"
	userID            = "userid"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.

	defaultSecret = "deadbeef"
)

// NewCookieStore builds the session store. An empty key or password falls
// back to a compile-time default.
func NewCookieStore(sessionKey, encryptionPassword string) *sessions.CookieStore {
	if sessionKey == "" {
		sessionKey = defaultSecret
	}
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			[]byte(sessionKey),
			encryptionKey(encryptionPassword),
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   true,
			HttpOnly: true,
		},
	}
	store.MaxAge(defaultMaxAge)
	return store
}

func encryptionKey(password string) []byte {
	if password == "" {
		password = defaultSecret
	}
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}

// session returns the request's session. A cookie that fails to decode yields
// a fresh session.
func (s *Server) session(r *http.Request) *sessions.Session {
	session, err := s.sessions.Get(r, sessionName)
	if err != nil {
		logFor(r).Infof("Discarding unreadable session: %v", err)
	}
	if session == nil {
		session = sessions.NewSession(s.sessions, sessionName)
		session.Options = &sessions.Options{Path: "/", MaxAge: defaultMaxAge}
	}
	return session
}

// userFromRequest loads the user named by the session, if any. Lookup
// failures are logged and treated as an anonymous visitor.
func (s *Server) userFromRequest(r *http.Request) *data.User {
	session := s.session(r)
	id, ok := session.Values[userID].(uint)
	metrics.ObserveUserRequest(session.Values[userID])
	if !ok || s.users == nil {
		return nil
	}

	user, err := s.users.Find(id)
	if err != nil {
		logFor(r).Infof("Failed to find user %v: %v", id, err)
		return nil
	}
	if !user.LastSeen.IsZero() {
		logFor(r).Infof("User %d (%q) was last seen %s ago", id, user.Name, time.Since(user.LastSeen))
	}
	return user
}

// preferences is the body of GET /config.
type preferences struct {
	Name     string               `json:"name,omitempty"`
	Home     *location.Coordinate `json:"home,omitempty"`
	Fallback location.Coordinate  `json:"fallback"`
	Saving   bool                 `json:"saving"`
}

func (s *Server) makeConfigHandler(redirectPrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			prefs := preferences{Fallback: s.fallback, Saving: s.users != nil}
			if user := s.userFromRequest(r); user != nil {
				prefs.Name = user.Name
				if home, ok := user.Home(); ok {
					prefs.Home = &home
				}
			}
			writeJSON(w, r, prefs)
			return
		}
		// The remainder of this function assumes method is POST.
		if r.Method != "POST" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if s.users == nil {
			failf(w, r, http.StatusServiceUnavailable, "Preferences are not configured")
			return
		}

		// Parse the form data.
		if err := r.ParseForm(); err != nil {
			failf(w, r, http.StatusBadRequest, "Failed to parse form: %v", err)
			return
		}

		session := s.session(r)
		metrics.ObserveUserRequest(session.Values[userID])

		var user *data.User
		if id, ok := session.Values[userID].(uint); ok {
			// Read-modify-write if the user provided an ID.
			// Otherwise, one will be generated on save.
			if found, err := s.users.Find(id); err == nil {
				user = found
			} else {
				logFor(r).Infof("Failed to find user %v, creating a new one: %v", id, err)
			}
		}
		if user == nil {
			user = &data.User{}
		}

		lat, lng := r.PostForm.Get("lat"), r.PostForm.Get("lng")
		if lat == "" && lng == "" {
			user.ClearHome()
		} else {
			home, err := location.Parse(lat, lng)
			if err != nil {
				failf(w, r, http.StatusBadRequest, "Bad location: %v", err)
				return
			}
			user.SetHome(home)
		}

		// Log the time since the last update.
		if user.UpdatedAt.IsZero() {
			logFor(r).Infof("User %d (%q) has never been updated", user.ID, user.Name)
		} else {
			logFor(r).Infof("User %d (%q) was last updated %s ago", user.ID, user.Name, time.Since(user.UpdatedAt))
		}

		user.LastSeen = time.Now()
		user.Name = r.PostForm.Get("name")
		if err := s.users.Save(user); err != nil {
			failf(w, r, http.StatusInternalServerError, "Failed to save preferences: %v", err)
			return
		}
		session.Values[userID] = user.ID
		if err := session.Save(r, w); err != nil {
			logFor(r).Errorf("save session err %v", err)
		}

		// Redirect to whatever they saw last, or the index.
		referredFrom, ok := session.Values[sessionLastViewed].(string)
		if !ok || referredFrom == "" {
			referredFrom = redirectPrefix
		}
		http.Redirect(w, r, referredFrom, http.StatusFound)
	}
}

// rememberPage records the page a visitor saw so /config can send them back.
func (s *Server) rememberPage(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)
	session.Values[sessionLastViewed] = r.URL.RequestURI()
	if err := session.Save(r, w); err != nil {
		logFor(r).Errorf("save session err %v", err)
	}
}
