package connection

import (
	"path/filepath"
	"strings"
	"testing"

	"taskboard/config"
)

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.MySQLConfig{Host: "db", Port: "3307", User: "app", Password: "p@ss", Database: "boards"})
	for _, want := range []string{"app:p@ss@tcp(db:3307)/boards", "clientFoundRows=true", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q does not contain %q", dsn, want)
		}
	}
}

func TestDBConnectionSQLite(t *testing.T) {
	db, err := DBConnection(config.Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "nested", "app.db")})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if !db.Migrator().HasTable("pending_grant") {
		t.Fatal("schema was not migrated")
	}
}

func TestFBConnectionDisabledWithoutCredentials(t *testing.T) {
	fb, err := FBConnection(t.Context(), config.Config{})
	if err != nil || fb != nil {
		t.Fatalf("FBConnection = %v, %v", fb, err)
	}
	if err := fb.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
}
