package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaylife/storefront-api/pkg/migrate"
)

func TestSessionSlotMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_session_slots.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no session slot migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cart_session_slots",
		"client_id  TEXT PRIMARY KEY",
		"CHECK (session_id <> '')",
		"DROP TABLE IF EXISTS cart_session_slots",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
