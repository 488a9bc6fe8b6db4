package registry

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"file-vault-api/internal/app/ports"
)

// pingWithTimeout verifies the DB is reachable.
func pingWithTimeout(db *sql.DB, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return db.PingContext(ctx)
}

// scanUser maps a single row into a ports.User.
func scanUser(scan func(dest ...any) error) (ports.User, error) {
	res := ports.User{}
	if err := scan(&res.Username, &res.PasswordHash, &res.RootFolder); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.User{}, ports.ErrNotFound
		}
		return ports.User{}, err
	}
	return res, nil
}

func isDuplicateSQLite(err error) bool {
	if err == nil {
		return false
	}
	// modernc.org/sqlite returns messages like: "UNIQUE constraint failed: vault_user.username"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed")
}

func isDuplicateMySQL(err error) bool {
	if err == nil {
		return false
	}
	// go-sql-driver/mysql exposes a driver-specific error type with Number = 1062
	type causer interface{ Unwrap() error }
	for {
		switch e := err.(type) {
		case *mysql.MySQLError:
			return e.Number == 1062
		case causer:
			err = e.Unwrap()
		default:
			return false
		}
	}
}

// registerMySQLTLSFromCA registers a custom TLS config using a CA file or directory (PEM).
// Returns the registered TLS profile name to be used via `tls=<name>` in DSN.
func registerMySQLTLSFromCA(caPath string) (string, error) {
	certPool := x509.NewCertPool()

	fi, err := os.Stat(caPath)
	if err != nil {
		return "", fmt.Errorf("stat CA path: %w", err)
	}

	loadFile := func(p string) error {
		pemBytes, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read CA file %s: %w", p, err)
		}
		if ok := certPool.AppendCertsFromPEM(pemBytes); !ok {
			return fmt.Errorf("no valid certs in %s", p)
		}
		return nil
	}

	if fi.IsDir() {
		entries, err := os.ReadDir(caPath)
		if err != nil {
			return "", fmt.Errorf("read CA dir: %w", err)
		}
		found := false
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			// common PEM file extensions
			if strings.HasSuffix(name, ".pem") || strings.HasSuffix(name, ".crt") || strings.HasSuffix(name, ".cert") {
				if err := loadFile(filepath.Join(caPath, name)); err != nil {
					return "", err
				}
				found = true
			}
		}
		if !found {
			return "", fmt.Errorf("no PEM files found in %s", caPath)
		}
	} else {
		if err := loadFile(caPath); err != nil {
			return "", err
		}
	}

	cfg := &tls.Config{
		RootCAs:            certPool,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: false,
	}
	const tlsName = "file-vault-mysql-custom"
	if err := mysql.RegisterTLSConfig(tlsName, cfg); err != nil {
		return "", fmt.Errorf("register TLS config: %w", err)
	}
	return tlsName, nil
}
