package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smkpu/yuran-asrama/internal/roster"
)

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	dataDir := t.TempDir()
	c, err := NewConfig(dataDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Settings.Currency != "RM" {
		t.Fatalf("expected default currency RM, got %q", c.Settings.Currency)
	}
	if c.Settings.ReceiptPrefix != "DN" {
		t.Fatalf("expected default prefix DN, got %q", c.Settings.ReceiptPrefix)
	}
	if c.Settings.Label(roster.Mengaji) != "Yuran Mengaji" {
		t.Fatalf("wrong mengaji label: %q", c.Settings.Label(roster.Mengaji))
	}
}

func TestLoadSettingsFillsAbsentKeys(t *testing.T) {
	dataDir := t.TempDir()
	settingsYAML := strings.TrimSpace(`
branding_text: SEKOLAH CONTOH
currency: MYR
ui_labels:
  silat: Yuran Seni Silat
`)
	if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(settingsYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(dataDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Settings.BrandingText != "SEKOLAH CONTOH" {
		t.Fatalf("explicit key not honored: %q", c.Settings.BrandingText)
	}
	if c.Settings.Currency != "MYR" {
		t.Fatalf("explicit currency not honored: %q", c.Settings.Currency)
	}
	if c.Settings.Label(roster.Silat) != "Yuran Seni Silat" {
		t.Fatalf("explicit label not honored: %q", c.Settings.Label(roster.Silat))
	}
	// Everything absent falls back to the named defaults.
	if c.Settings.Label(roster.Mengaji) != "Yuran Mengaji" {
		t.Fatalf("absent mengaji label should default, got %q", c.Settings.Label(roster.Mengaji))
	}
	if c.Settings.ReceiptPrefix != "DN" {
		t.Fatalf("absent prefix should default, got %q", c.Settings.ReceiptPrefix)
	}
}

func TestSaveSettingsWritesBothLabels(t *testing.T) {
	dataDir := t.TempDir()
	c, err := NewConfig(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	edited := c.Settings
	edited.Labels.Silat = ""
	edited.BrandingText = "  SMK PONDOK UPEH  "
	if err := c.SaveSettings(edited); err != nil {
		t.Fatalf("SaveSettings returned error: %v", err)
	}
	data, err := os.ReadFile(c.SettingsPath())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "mengaji:") || !strings.Contains(text, "silat:") {
		t.Fatalf("saved document must carry both label keys:\n%s", text)
	}
	if c.Settings.Labels.Silat != "Yuran Silat" {
		t.Fatalf("empty label should default on save, got %q", c.Settings.Labels.Silat)
	}
	if c.Settings.BrandingText != "SMK PONDOK UPEH" {
		t.Fatalf("branding text should be trimmed, got %q", c.Settings.BrandingText)
	}

	reloaded, err := NewConfig(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Settings != c.Settings {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", reloaded.Settings, c.Settings)
	}
}

func TestInitDataDir(t *testing.T) {
	dataDir := t.TempDir()
	if err := InitDataDir(dataDir); err != nil {
		t.Fatalf("InitDataDir returned error: %v", err)
	}
	for _, dir := range []string{"receipts", "logs"} {
		info, err := os.Stat(filepath.Join(dataDir, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory: %v", dir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dataDir, "config.yaml")); err != nil {
		t.Fatalf("expected default config.yaml: %v", err)
	}

	c, err := NewConfig(dataDir)
	if err != nil {
		t.Fatalf("default config.yaml must parse: %v", err)
	}
	if c.Settings.BrandingText != "SMK PONDOK UPEH" {
		t.Fatalf("default document out of sync with defaults: %q", c.Settings.BrandingText)
	}
}
