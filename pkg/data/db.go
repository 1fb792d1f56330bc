// Package data stores optional user preferences for the dashboard.
package data

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/spencer-p/coastdash/pkg/location"
)

// ErrNotFound is returned when no user has the requested id.
var ErrNotFound = errors.New("user not found")

// User is someone who saved a home location.
type User struct {
	gorm.Model
	Name     string
	Lat, Lng *float64
	LastSeen time.Time
}

// Home returns the user's saved coordinate, if there is one.
func (u *User) Home() (location.Coordinate, bool) {
	if u == nil || u.Lat == nil || u.Lng == nil {
		return location.Coordinate{}, false
	}
	return location.Coordinate{Lat: *u.Lat, Lng: *u.Lng}, true
}

// SetHome saves c as the user's coordinate.
func (u *User) SetHome(c location.Coordinate) {
	lat, lng := c.Lat, c.Lng
	u.Lat, u.Lng = &lat, &lng
}

// ClearHome forgets the user's coordinate.
func (u *User) ClearHome() {
	u.Lat, u.Lng = nil, nil
}

// PostgresConfig locates the preferences database.
type PostgresConfig struct {
	Host     string
	Port     string
	Password string
	Database string
}

func (c PostgresConfig) DSN() string {
	db := c.Database
	if db == "" {
		db = "coastdash"
	}
	return fmt.Sprintf("host=%s user=postgres password=%s dbname=%s port=%s sslmode=disable",
		c.Host,
		c.Password,
		db,
		c.Port)
}

// Store reads and writes users.
type Store struct {
	db *gorm.DB
}

// OpenPostgres connects to the database and migrates the schema.
func OpenPostgres(cfg PostgresConfig) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewStore(db)
}

// NewStore wraps an open connection, migrating the schema.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate users: %w", err)
	}
	return &Store{db: db}, nil
}

// Find looks up a user and marks them as seen. The returned user still holds
// the LastSeen from before this visit.
func (s *Store) Find(id uint) (*User, error) {
	var user User
	if r := s.db.First(&user, id); r.Error != nil {
		if errors.Is(r.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find user %d: %w", id, r.Error)
	}
	r := s.db.Model(&User{}).Where("id = ?", id).UpdateColumn("last_seen", time.Now())
	if r.Error != nil {
		return nil, fmt.Errorf("failed to touch user %d: %w", id, r.Error)
	}
	return &user, nil
}

// Save creates or updates u. A new user gets its ID filled in.
func (s *Store) Save(u *User) error {
	if tx := s.db.Save(u); tx.Error != nil {
		return fmt.Errorf("failed to save preferences: %w", tx.Error)
	}
	return nil
}
