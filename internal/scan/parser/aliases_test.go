package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAliasesOverridesMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := "phone:\n  - numero\n  - kontak\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write alias file: %v", err)
	}

	table, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if len(table.Phone) != 2 || table.Phone[0] != "numero" {
		t.Fatalf("phone aliases = %v", table.Phone)
	}
	// Untouched fields keep their defaults.
	if len(table.Email) == 0 {
		t.Fatal("email aliases lost defaults")
	}
}

func TestLoadAliasesMissingFile(t *testing.T) {
	table, err := LoadAliases(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	// Defaults still come back so callers can continue.
	if len(table.Name) == 0 {
		t.Fatal("expected default table on error")
	}
}
