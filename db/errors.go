package db

import (
	"strings"

	"github.com/teranos/chartparse/errors"
)

// ErrDatabaseClosed marks work attempted after the store was closed, which
// happens when a parse finishes recording during server shutdown.
var ErrDatabaseClosed = errors.New("database is closed")

// closedMessage is what database/sql reports for a closed *sql.DB.
const closedMessage = "database is closed"

// IsDatabaseClosed reports whether err is ErrDatabaseClosed or a driver
// error for a closed handle. Driver errors are matched by message since
// database/sql does not export a sentinel for them.
func IsDatabaseClosed(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrDatabaseClosed):
		return true
	default:
		return strings.Contains(err.Error(), closedMessage)
	}
}
