package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"file-vault-api/internal/app/config"
	"file-vault-api/internal/app/ports"
)

// Enforce compile-time conformance to the interface
var _ ports.UserRegistry = (*MySQLUserRegistry)(nil)

// MySQLUserRegistry is a MySQL-backed implementation.
type MySQLUserRegistry struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewMySQLUserRegistry creates the service and opens a connection pool.
func NewMySQLUserRegistry(cfg config.RegistryMySqlConfig, bootstrap bool) (*MySQLUserRegistry, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.Database == "" || cfg.User == "" {
		return nil, errors.New("invalid MySQL config: host/port/database/user are required")
	}

	dsnExtra := "parseTime=true&charset=utf8mb4,utf8&collation=utf8mb4_unicode_ci"
	if !cfg.IgnoreSSL {
		name, err := registerMySQLTLSFromCA(cfg.SSLCaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to register TLS config: %w", err)
		}
		dsnExtra += "&tls=" + name
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, dsnExtra)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	// Sensible pool defaults; adjust for your workload
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	repo := &MySQLUserRegistry{
		db:           db,
		queryTimeout: cfg.QueryTimeout,
	}

	if bootstrap {
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

func (s *MySQLUserRegistry) initSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const q = `CREATE TABLE IF NOT EXISTS vault_user (
		username      VARCHAR(128)  NOT NULL,
		password_hash VARCHAR(255)  NOT NULL,
		root_folder   VARCHAR(255)  NOT NULL,
		PRIMARY KEY (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *MySQLUserRegistry) HealthCheck() error {
	return pingWithTimeout(s.db, 1*time.Second)
}

func (s *MySQLUserRegistry) GetInfo() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	const q = `SELECT VERSION(), NOW()`
	row := s.db.QueryRowContext(ctx, q)
	var ver, now string
	if err := row.Scan(&ver, &now); err != nil {
		return "", err
	}
	return fmt.Sprintf("Connected to MySQL version: '%s', database time: '%s'", ver, now), nil
}

func (s *MySQLUserRegistry) Load() (map[string]ports.User, error) {
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

func (s *MySQLUserRegistry) Save(users map[string]ports.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
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

func (s *MySQLUserRegistry) GetUser(username string) (ports.User, error) {
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

func (s *MySQLUserRegistry) AddUser(user ports.User) (ports.User, error) {
	if user.Username == "" {
		return ports.User{}, errors.New("user name is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	const q = `INSERT INTO vault_user (username, password_hash, root_folder) VALUES (?, ?, ?);`
	_, err := s.db.ExecContext(ctx, q, user.Username, user.PasswordHash, user.RootFolder)
	if err != nil {
		if isDuplicateMySQL(err) {
			return ports.User{}, ports.ErrUsernameTaken
		}
		return ports.User{}, err
	}
	return user, nil
}

// Close releases the connection pool.
func (s *MySQLUserRegistry) Close() error {
	return s.db.Close()
}
