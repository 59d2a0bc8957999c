package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open открывает соединение с PostgreSQL. sql.Open не проверяет доступность
// сервера — для этого вызывающий делает db.Ping().
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
