// internal/db/sqlerr.go
package db

import (
	"errors"

	sqlite3driver "github.com/mattn/go-sqlite3"
)

// IsUniqueViolation reports whether err is a SQLite unique or primary key
// constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3driver.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3driver.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3driver.ErrConstraintPrimaryKey
}
