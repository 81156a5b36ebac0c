package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"

	"ops-console/internal/config"
)

type Storage struct {
	db *sql.DB
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	dsn := gomysql.NewConfig()
	dsn.User = cfg.DBUser
	dsn.Passwd = cfg.DBPassword
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
	dsn.DBName = cfg.DBName
	dsn.ParseTime = cfg.ParseTime

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewFromDB wraps an already opened connection.
func NewFromDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables the console needs if they are missing.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	const op = "storage.mysql.EnsureSchema"

	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS console_sessions (
			id          VARCHAR(36)  NOT NULL PRIMARY KEY,
			token       TEXT         NOT NULL,
			username    VARCHAR(255) NOT NULL DEFAULT '',
			email       VARCHAR(255) NOT NULL DEFAULT '',
			groups_json TEXT         NOT NULL,
			token_exp   DATETIME     NULL,
			created_at  DATETIME     NOT NULL,
			expires_at  DATETIME     NOT NULL,
			INDEX idx_console_sessions_expires (expires_at)
		)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
