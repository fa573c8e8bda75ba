package migrations

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(sqlFS, "sql")
	if err != nil {
		t.Fatalf("read embedded dir: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file %s", name)
		}
	}

	if len(ups) == 0 {
		t.Fatal("expected embedded migrations")
	}
	for name := range ups {
		if !downs[name] {
			t.Fatalf("migration %s has no down file", name)
		}
	}
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	src, err := iofs.New(sqlFS, "sql")
	if err != nil {
		t.Fatalf("iofs.New: %v", err)
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		t.Fatalf("First: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected first version 1, got %d", v)
	}

	count := 1
	for {
		next, err := src.Next(v)
		if err != nil {
			break
		}
		v = next
		count++
	}
	if count != 3 {
		t.Fatalf("expected 3 migrations, got %d", count)
	}
}

func TestIsDirty(t *testing.T) {
	wrapped := fmt.Errorf("migrations: apply: %w", migrate.ErrDirty{Version: 2})
	if !IsDirty(wrapped) {
		t.Fatal("expected wrapped ErrDirty to be detected")
	}
	if IsDirty(errors.New("connection refused")) {
		t.Fatal("unexpected dirty detection")
	}
}
