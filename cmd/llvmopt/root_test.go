package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSchema(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "table.yaml")
	doc := `
- name: verbose
  prefixes: ["-", "--"]
  kind: flag
- name: output
  prefixes: ["-"]
  kind: separate
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTableDirectPath(t *testing.T) {
	path := writeSchema(t, t.TempDir())

	table, err := loadTable("", path)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 2 {
		t.Fatalf("got %d options, want 2", table.Len())
	}
}

func TestLoadTableViaRegistry(t *testing.T) {
	dir := t.TempDir()
	schema := writeSchema(t, dir)

	registry := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(registry,
		[]byte("[tables]\nmytool = \""+schema+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := loadTable(registry, "mytool")
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 2 {
		t.Fatalf("got %d options, want 2", table.Len())
	}
}

func TestLoadTableUnknownName(t *testing.T) {
	dir := t.TempDir()
	registry := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(registry, []byte("[tables]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadTable(registry, "no-such-table"); err == nil {
		t.Fatal("expected a lookup error")
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for an explicit missing registry")
	}
}
