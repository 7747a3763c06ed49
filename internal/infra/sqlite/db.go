// Package sqlite provides SQLite-based persistent storage for ReCircle.
// Uses WAL mode for concurrent reads and crash-safe writes.
//
// User progress is stored as a JSON document per user, mirroring the
// document shape of earlier deployments; the document keys (xp, level,
// activityLog, weeklyActivity, monthlyXP, totalReports, totalVisits,
// totalRecyclingTypes, loginStreak, longestStreak, lastLoginDate) are the
// stable schema for stored records.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/google/uuid"
	"github.com/recircle-app/recircle/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations. It implements
// domain.ProgressStore, domain.ReportStore, and domain.LocationStore.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/recircle.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "recircle.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// User accounts plus the progress JSON document
		`CREATE TABLE IF NOT EXISTS users (
			email         TEXT PRIMARY KEY,
			username      TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT 'customer',
			password_hash TEXT NOT NULL DEFAULT '',
			created_at    INTEGER NOT NULL,
			progress      TEXT NOT NULL DEFAULT '{}'
		)`,

		// Location reports, append-only, owner-deletable
		`CREATE TABLE IF NOT EXISTS reports (
			id            TEXT PRIMARY KEY,
			location_id   TEXT NOT NULL,
			location_name TEXT NOT NULL,
			message       TEXT NOT NULL,
			user_email    TEXT NOT NULL,
			user_name     TEXT NOT NULL,
			timestamp     INTEGER NOT NULL,
			latitude      REAL NOT NULL DEFAULT 0,
			longitude     REAL NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_user ON reports(user_email)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_ts ON reports(timestamp)`,

		// Recycling collection points
		`CREATE TABLE IF NOT EXISTS locations (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			address   TEXT NOT NULL DEFAULT '',
			materials TEXT NOT NULL DEFAULT '',
			latitude  REAL NOT NULL DEFAULT 0,
			longitude REAL NOT NULL DEFAULT 0
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Accounts ───────────────────────────────────────────────────────────────

// CreateUser inserts a new account with zero-initialized progress.
func (d *DB) CreateUser(a domain.Account, passwordHash string) error {
	blob, err := json.Marshal(domain.UserProgress{})
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	_, err = d.db.Exec(
		`INSERT INTO users (email, username, role, password_hash, created_at, progress)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.Email, a.Username, a.Role, passwordHash, a.CreatedAt, string(blob),
	)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrUserExists
	}
	return err
}

// GetAccount retrieves identity fields for one user.
func (d *DB) GetAccount(email string) (domain.Account, error) {
	var a domain.Account
	err := d.db.QueryRow(
		`SELECT email, username, role, created_at FROM users WHERE email = ?`, email,
	).Scan(&a.Email, &a.Username, &a.Role, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, domain.ErrUserNotFound
	}
	return a, err
}

// PasswordHash returns the stored bcrypt hash for one user.
func (d *DB) PasswordHash(email string) (string, error) {
	var hash string
	err := d.db.QueryRow(
		`SELECT password_hash FROM users WHERE email = ?`, email,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", domain.ErrUserNotFound
	}
	return hash, err
}

// ─── Progress Store ─────────────────────────────────────────────────────────

// GetProgress loads one user's progress document.
func (d *DB) GetProgress(email string) (domain.UserProgress, error) {
	var blob string
	err := d.db.QueryRow(
		`SELECT progress FROM users WHERE email = ?`, email,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return domain.UserProgress{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserProgress{}, err
	}

	var p domain.UserProgress
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		return domain.UserProgress{}, fmt.Errorf("decode progress for %s: %w", email, err)
	}
	return p, nil
}

// PutProgress replaces one user's progress document atomically.
func (d *DB) PutProgress(email string, p domain.UserProgress) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	result, err := d.db.Exec(
		`UPDATE users SET progress = ? WHERE email = ?`, string(blob), email,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ScanProgress returns every user's progress in stable (email) order.
func (d *DB) ScanProgress() ([]domain.ProgressEntry, error) {
	rows, err := d.db.Query(
		`SELECT email, username, progress FROM users ORDER BY email`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ProgressEntry
	for rows.Next() {
		var e domain.ProgressEntry
		var blob string
		if err := rows.Scan(&e.Email, &e.Username, &blob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(blob), &e.Progress); err != nil {
			return nil, fmt.Errorf("decode progress for %s: %w", e.Email, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ─── Report Store ───────────────────────────────────────────────────────────

// AppendReport inserts a report and returns its generated ID.
func (d *DB) AppendReport(r domain.Report) (string, error) {
	id := uuid.New().String()
	_, err := d.db.Exec(
		`INSERT INTO reports (id, location_id, location_name, message, user_email, user_name, timestamp, latitude, longitude)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.LocationID, r.LocationName, r.Message,
		r.UserEmail, r.UserName, r.Timestamp, r.Latitude, r.Longitude,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListReports returns all reports, oldest first.
func (d *DB) ListReports() ([]domain.Report, error) {
	return d.queryReports(
		`SELECT id, location_id, location_name, message, user_email, user_name, timestamp, latitude, longitude
		 FROM reports ORDER BY timestamp`,
	)
}

// ListReportsByUser returns one user's reports, oldest first.
func (d *DB) ListReportsByUser(email string) ([]domain.Report, error) {
	return d.queryReports(
		`SELECT id, location_id, location_name, message, user_email, user_name, timestamp, latitude, longitude
		 FROM reports WHERE user_email = ? ORDER BY timestamp`, email,
	)
}

// RemoveReport deletes a report record.
func (d *DB) RemoveReport(id string) error {
	result, err := d.db.Exec(`DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (d *DB) queryReports(query string, args ...any) ([]domain.Report, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var r domain.Report
		err := rows.Scan(&r.ID, &r.LocationID, &r.LocationName, &r.Message,
			&r.UserEmail, &r.UserName, &r.Timestamp, &r.Latitude, &r.Longitude)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// ─── Location Store ─────────────────────────────────────────────────────────

// AddLocation inserts a collection point, generating an ID when absent.
func (d *DB) AddLocation(l domain.Location) (string, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	_, err := d.db.Exec(
		`INSERT INTO locations (id, name, address, materials, latitude, longitude)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			address=excluded.address,
			materials=excluded.materials,
			latitude=excluded.latitude,
			longitude=excluded.longitude`,
		l.ID, l.Name, l.Address, l.Materials, l.Latitude, l.Longitude,
	)
	if err != nil {
		return "", err
	}
	return l.ID, nil
}

// ListLocations returns all collection points ordered by name.
func (d *DB) ListLocations() ([]domain.Location, error) {
	rows, err := d.db.Query(
		`SELECT id, name, address, materials, latitude, longitude FROM locations ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Materials, &l.Latitude, &l.Longitude); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// GetLocation retrieves a single collection point.
func (d *DB) GetLocation(id string) (domain.Location, error) {
	var l domain.Location
	err := d.db.QueryRow(
		`SELECT id, name, address, materials, latitude, longitude FROM locations WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.Address, &l.Materials, &l.Latitude, &l.Longitude)
	if err == sql.ErrNoRows {
		return l, domain.ErrLocationNotFound
	}
	return l, err
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// isUniqueViolation reports whether err is a primary-key conflict. The
// pure-Go driver surfaces these as string-coded errors, so match on the
// SQLite message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
