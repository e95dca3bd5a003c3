package llvmopt

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadTablegenSubset(t *testing.T) {
	table, err := LoadFile(filepath.Join("testdata", "clang-subset.json"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	// Two groups plus thirteen option defs.
	if table.Len() != 15 {
		t.Fatalf("expected 15 records, got %d", table.Len())
	}

	// Groups are ingested first so options can reference them.
	if table.Option(0).Kind != KindGroup || table.Option(1).Kind != KindGroup {
		t.Error("expected groups at the head of the table")
	}

	id := table.Find("sectalign")
	if id == NoOption {
		t.Fatal("expected sectalign in table")
	}
	if o := table.Option(id); o.Kind != KindMultiArg || o.NumArgs != 3 {
		t.Errorf("expected multi_arg(3), got %v(%d)", o.Kind, o.NumArgs)
	}

	// The legacy -target spelling aliases --target=.
	legacy := table.Find("target")
	target, _ := table.ResolveAlias(legacy)
	if table.Option(target).Name != "target=" {
		t.Errorf("expected alias to resolve to target=, got %q", table.Option(target).Name)
	}

	// Group flags reach members: Xarch_ sits in the hidden internal group.
	xarch := table.Find("Xarch_")
	if !table.EffectiveFlags(xarch).Has(FlagHelpHidden) {
		t.Error("expected Xarch_ to inherit help_hidden")
	}
}

func TestLoadedTableParsesDriverInvocation(t *testing.T) {
	table, err := LoadFile(filepath.Join("testdata", "clang-subset.json"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	p := NewParser(table)

	res, err := p.Parse([]string{
		"-v", "-target", "x86_64-linux-gnu", "-Iinc", "-DNDEBUG",
		"-o", "a.out", "main.c", "-Wl,--as-needed,-s", "--flto",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if diff := cmp.Diff([]string{"x86_64-linux-gnu"}, res.Values(table.Find("target="))); diff != "" {
		t.Errorf("-target should bind through its alias (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"main.c"}, res.Inputs()); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"--as-needed", "-s"}, res.Values(table.Find("Wl,"))); diff != "" {
		t.Errorf("-Wl values mismatch (-want +got):\n%s", diff)
	}
	if len(res.Unmatched) != 2 {
		t.Fatalf("expected main.c and --flto unmatched, got %+v", res.Unmatched)
	}
	if res.Unmatched[1].Kind != UnmatchedUnknownOption || res.Unmatched[1].Text != "--flto" {
		t.Errorf("expected --flto unknown, got %+v", res.Unmatched[1])
	}
}

func TestLoadYAMLTable(t *testing.T) {
	table, err := LoadFile(filepath.Join("testdata", "warnings.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	p := NewParser(table)

	res, err := p.Parse([]string{"-Wall", "--warnunused", "/NoLogo", "-fprofile-sample"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// --warn is an alias of -W, so --warnunused binds W with "unused".
	if diff := cmp.Diff([]string{"unused"}, res.Values(table.Find("W"))); diff != "" {
		t.Errorf("alias values mismatch (-want +got):\n%s", diff)
	}
	// /NoLogo matches case-insensitively.
	if !res.Has(table.Find("nologo")) {
		t.Error("expected case-insensitive /NoLogo match")
	}
	// Group-level help_hidden reaches -Wall.
	if !table.EffectiveFlags(table.Find("Wall")).Has(FlagHelpHidden) {
		t.Error("expected Wall to inherit help_hidden")
	}
	// fprofile-sample is explicitly unsupported.
	if len(res.Unmatched) != 1 || res.Unmatched[0].Kind != UnmatchedUnsupported {
		t.Errorf("expected unsupported record, got %+v", res.Unmatched)
	}
}

func TestLoadFileUnknownExtension(t *testing.T) {
	if _, err := LoadFile("schema.toml"); err == nil {
		t.Fatal("expected unrecognized format error")
	}
}

func TestParseTablegenJSONDecodeError(t *testing.T) {
	_, err := ParseTablegenJSON(strings.NewReader("{not json"))
	if err == nil {
		t.Fatal("expected decode error")
	}
	var serr *SchemaError
	if !errors.As(err, &serr) || serr.Type != ErrorTypeDecode {
		t.Errorf("expected decode SchemaError, got %v", err)
	}
}

func TestParseTablegenJSONDanglingAlias(t *testing.T) {
	doc := `{
		"!instanceof": {"Option": ["a"]},
		"a": {
			"Name": "a",
			"Prefixes": ["-"],
			"Kind": {"def": "KIND_FLAG"},
			"Alias": {"def": "ghost"},
			"NumArgs": 0
		}
	}`
	_, err := ParseTablegenJSON(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected dangling alias error")
	}
	var serr *SchemaError
	if !errors.As(err, &serr) || serr.Type != ErrorTypeDanglingReference {
		t.Errorf("expected dangling_reference, got %v", err)
	}
}

func TestParseTablegenJSONSuperclassFallback(t *testing.T) {
	// No !instanceof: defs are discovered by superclass scan, sorted by
	// def name.
	doc := `{
		"zeta": {
			"!superclasses": ["Option"],
			"Name": "zeta",
			"Prefixes": ["-"],
			"Kind": {"def": "KIND_FLAG"},
			"NumArgs": 0
		},
		"alpha": {
			"!superclasses": ["Option"],
			"Name": "alpha",
			"Prefixes": ["-"],
			"Kind": {"def": "KIND_FLAG"},
			"NumArgs": 0
		}
	}`
	table, err := ParseTablegenJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseTablegenJSON failed: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 options, got %d", table.Len())
	}
	if table.Option(0).Name != "alpha" {
		t.Errorf("expected name-sorted fallback order, got %q first", table.Option(0).Name)
	}
}

func TestParseYAMLUnknownKind(t *testing.T) {
	doc := "- name: x\n  prefixes: [\"-\"]\n  kind: sideways\n"
	_, err := ParseYAML(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected unknown kind error")
	}
	if !strings.Contains(err.Error(), "sideways") {
		t.Errorf("error should name the bad kind: %v", err)
	}
}
