package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ConnectRoster opens the read-only membership database. The kiosk never
// writes to it; the roster snapshot is refreshed from here wholesale.
func ConnectRoster(dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("no roster data source configured")
	}

	var (
		conn *sqlx.DB
		err  error
	)
	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, err
}
