package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Trip is one persisted itinerary record. Plan holds the final plan as the
// JSON the pipeline produced; the store does not interpret it.
type Trip struct {
	ID          string          `json:"id"`
	Destination string          `json:"destination"`
	Budget      string          `json:"budget"`
	Duration    string          `json:"duration"`
	Travelers   string          `json:"travelers"`
	Status      string          `json:"status"`
	GeneratedAt time.Time       `json:"generated_at"`
	Plan        json.RawMessage `json:"plan,omitempty"`
}

type Store struct {
	DB *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT,
			email TEXT UNIQUE,
			password_hash TEXT,
			role TEXT DEFAULT 'user',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY,
			destination TEXT,
			budget TEXT,
			duration TEXT,
			travelers TEXT,
			status TEXT DEFAULT 'Completed',
			generated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			plan TEXT
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) CreateUser(u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = "user"
	}
	query := `INSERT INTO users (id, name, email, password_hash, role) VALUES (?, ?, ?, ?, ?)`
	_, err := s.DB.Exec(query, u.ID, u.Name, u.Email, u.PasswordHash, u.Role)
	return err
}

func (s *Store) GetUserByEmail(email string) (*User, error) {
	query := `SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = ?`
	var u User
	err := s.DB.QueryRow(query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) SaveTrip(t *Trip) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = "Completed"
	}
	if t.GeneratedAt.IsZero() {
		t.GeneratedAt = time.Now()
	}
	query := `INSERT INTO trips (id, destination, budget, duration, travelers, status, generated_at, plan)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.DB.Exec(query, t.ID, t.Destination, t.Budget, t.Duration, t.Travelers, t.Status, t.GeneratedAt, string(t.Plan))
	return err
}

// ListTrips returns saved trips, newest first.
func (s *Store) ListTrips(limit int) ([]Trip, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, destination, budget, duration, travelers, status, generated_at, plan
		FROM trips ORDER BY generated_at DESC LIMIT ?`
	rows, err := s.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var t Trip
		var plan string
		if err := rows.Scan(&t.ID, &t.Destination, &t.Budget, &t.Duration, &t.Travelers, &t.Status, &t.GeneratedAt, &plan); err != nil {
			return nil, err
		}
		if plan != "" {
			t.Plan = json.RawMessage(plan)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (s *Store) GetTrip(id string) (*Trip, error) {
	query := `SELECT id, destination, budget, duration, travelers, status, generated_at, plan
		FROM trips WHERE id = ?`
	var t Trip
	var plan string
	err := s.DB.QueryRow(query, id).Scan(&t.ID, &t.Destination, &t.Budget, &t.Duration, &t.Travelers, &t.Status, &t.GeneratedAt, &plan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if plan != "" {
		t.Plan = json.RawMessage(plan)
	}
	return &t, nil
}
