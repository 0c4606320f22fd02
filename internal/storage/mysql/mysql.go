package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"opsconsole/internal/config"
)

type Storage struct {
	db *sql.DB
}

// ER_DUP_ENTRY
const errDuplicateEntry = 1062

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	db, err := sql.Open("mysql", DSN(cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithDB оборачивает уже открытое соединение (тесты, миграции).
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func DSN(c config.DB) string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	mc.DBName = c.Name
	mc.ParseTime = c.ParseTime

	return mc.FormatDSN()
}

func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.mysql.Ping"

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
