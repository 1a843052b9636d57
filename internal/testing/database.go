package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/teranos/chartparse/db"
)

// CreateTestDB creates a migrated SQLite database under t.TempDir().
// Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenWithMigrations(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}
