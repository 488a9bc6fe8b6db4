package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"file-vault-api/internal/app/config"
	"file-vault-api/internal/app/ports"
)

// Ensure compile-time conformance
var _ ports.UserRegistry = (*SQLiteUserRegistry)(nil)

// SQLiteUserRegistry is a SQLite backed implementation (WAL mode).
type SQLiteUserRegistry struct {
	cfg          config.RegistrySqliteConfig
	db           *sql.DB
	queryTimeout time.Duration
	writeTimeout time.Duration
}

// NewSQLiteUserRegistry opens (and initializes) the SQLite database file.
func NewSQLiteUserRegistry(cfg config.RegistrySqliteConfig, bootstrap bool) (*SQLiteUserRegistry, error) {
	if bootstrap && cfg.CreateDbDir {
		dir := filepath.Dir(cfg.DbFilePath)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("cannot create sqlite dir %s: %w", dir, err)
		}
	}
	writersWait := fmt.Sprintf("%d", cfg.WriteTimeout.Milliseconds())
	dsn := cfg.DbFilePath +
		"?_pragma=journal_mode(WAL)" + // many readers, one writer
		"&_pragma=synchronous(NORMAL)" + // good durability/perf balance
		"&_pragma=busy_timeout(" + writersWait + ")" // writers wait instead of erroring

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	repo := &SQLiteUserRegistry{
		cfg:          cfg,
		db:           db,
		queryTimeout: cfg.QueryTimeout,
		writeTimeout: cfg.WriteTimeout,
	}

	if bootstrap {
		// Create the schema if not exists.
		if err := repo.initSchema(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if err := repo.HealthCheck(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (s *SQLiteUserRegistry) initSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const q = `CREATE TABLE IF NOT EXISTS vault_user (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		root_folder   TEXT NOT NULL
	);`
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *SQLiteUserRegistry) HealthCheck() error {
	return pingWithTimeout(s.db, 1*time.Second)
}

func (s *SQLiteUserRegistry) GetInfo() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	const q = `SELECT sqlite_version(), datetime('now')`
	row := s.db.QueryRowContext(ctx, q)
	var ver, now string
	if err := row.Scan(&ver, &now); err != nil {
		return "", err
	}
	return fmt.Sprintf("Connected to SQLite (%s) version: '%s', database time: '%s'", s.cfg.DbFilePath, ver, now), nil
}

func (s *SQLiteUserRegistry) Load() (map[string]ports.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	const q = `SELECT username, password_hash, root_folder FROM vault_user ORDER BY username;`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]ports.User)
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		out[u.Username] = u
	}
	return out, rows.Err()
}

func (s *SQLiteUserRegistry) Save(users map[string]ports.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vault_user;`); err != nil {
		_ = tx.Rollback()
		return err
	}
	const ins = `INSERT INTO vault_user (username, password_hash, root_folder) VALUES (?, ?, ?);`
	for name, u := range users {
		if _, err := tx.ExecContext(ctx, ins, name, u.PasswordHash, u.RootFolder); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteUserRegistry) GetUser(username string) (ports.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	const q = `SELECT username, password_hash, root_folder FROM vault_user WHERE username = ?;`
	row := s.db.QueryRowContext(ctx, q, username)
	u, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.User{}, ports.ErrNotFound
		}
		return ports.User{}, err
	}
	return u, nil
}

func (s *SQLiteUserRegistry) AddUser(user ports.User) (ports.User, error) {
	if user.Username == "" {
		return ports.User{}, errors.New("user name is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	const q = `INSERT INTO vault_user (username, password_hash, root_folder) VALUES (?, ?, ?);`
	_, err := s.db.ExecContext(ctx, q, user.Username, user.PasswordHash, user.RootFolder)
	if err != nil {
		if isDuplicateSQLite(err) {
			return ports.User{}, ports.ErrUsernameTaken
		}
		return ports.User{}, err
	}
	return user, nil
}

// Close releases the database handle.
func (s *SQLiteUserRegistry) Close() error {
	return s.db.Close()
}
