package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/notesmith/autoflow/internal/vault"
)

func TestVaultPath(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"plain", "flows/digest.md", "flows/digest.md"},
		{"dot slash", "./flows/digest.md", "flows/digest.md"},
		{"redundant segments", "flows//./digest.md", "flows/digest.md"},
		{"bare file", "digest.md", "digest.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vaultPath(tt.arg); got != tt.want {
				t.Errorf("vaultPath(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not shorten, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a very long description", 10); got != "a very ..." {
		t.Errorf("truncate = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1.5m"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestDiscoverFlows(t *testing.T) {
	root := t.TempDir()
	write := func(path, content string) {
		t.Helper()
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("flows/digest.md", "autoflow\nname: digest\ndescription: Daily digest\nautorun: true\nsteps:\n- type: write\n  targetFile: out.md\n")
	write("flows/broken.md", "autoflow\ndescription: no name here\nsteps:\n- type: write\n  targetFile: out.md\n")
	write("notes/plain.md", "just a note, not a flow\n")

	store, err := vault.NewDir(root)
	if err != nil {
		t.Fatal(err)
	}

	listings, err := discoverFlows(&app{store: store}, "")
	if err != nil {
		t.Fatal(err)
	}

	if len(listings) != 2 {
		t.Fatalf("expected 2 flow files, got %d: %+v", len(listings), listings)
	}

	byPath := map[string]flowListing{}
	for _, l := range listings {
		byPath[l.Path] = l
	}

	digest, ok := byPath["flows/digest.md"]
	if !ok {
		t.Fatal("digest flow not discovered")
	}
	if digest.Name != "digest" || digest.Steps != 1 || !digest.Autorun {
		t.Errorf("unexpected digest listing: %+v", digest)
	}

	broken, ok := byPath["flows/broken.md"]
	if !ok {
		t.Fatal("broken flow not discovered")
	}
	if broken.Error == "" {
		t.Error("broken flow should carry its parse error")
	}
	if broken.Name != "" {
		t.Errorf("broken flow should have no name, got %q", broken.Name)
	}

	scoped, err := discoverFlows(&app{store: store}, "notes")
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 0 {
		t.Errorf("notes folder holds no flows, got %+v", scoped)
	}
}
