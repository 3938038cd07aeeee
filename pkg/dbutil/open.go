package dbutil

import (
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Dialect sniffs the backend from the connection string. Anything that is
// neither a postgres URL nor a mysql DSN is treated as a sqlite path.
func Dialect(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Postgres
	case strings.HasPrefix(url, "mysql://"), strings.Contains(url, "@tcp("):
		return MySQL
	default:
		return SQLite
	}
}

func Dialector(url string) gorm.Dialector {
	switch Dialect(url) {
	case Postgres:
		return postgres.Open(url)
	case MySQL:
		return mysql.New(mysql.Config{
			DSN:               strings.TrimPrefix(url, "mysql://"),
			DefaultStringSize: 256,
		})
	default:
		if url == "" {
			url = "verses.db"
		}
		return sqlite.Open(url)
	}
}

func Open(url string, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(url), &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseLogLevel(logLevel)),
	})
	if err != nil {
		return nil, err
	}

	if Dialect(url) == SQLite {
		// sqlite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func parseLogLevel(s string) gormlogger.LogLevel {
	switch strings.ToLower(s) {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

// RandomOrder is the store-level random ordering expression of the dialect.
func RandomOrder(db *gorm.DB) string {
	if db.Dialector.Name() == MySQL {
		return "RAND()"
	}

	return "RANDOM()"
}
