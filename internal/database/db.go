package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Options are the MySQL connection settings.
type Options struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// DSN builds the driver connection string.  parseTime maps DATETIME to
// time.Time and loc=UTC keeps timestamps consistent.
func (o Options) DSN() string {
	c := mysql.NewConfig()
	c.User = o.User
	c.Passwd = o.Pass
	c.Net = "tcp"
	c.Addr = o.Host + ":" + o.Port
	c.DBName = o.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// Open connects to MySQL and verifies the connection.  The returned pool
// is created once at startup and shared for the lifetime of the process.
func Open(o Options) (*sql.DB, error) {
	db, err := sql.Open("mysql", o.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
