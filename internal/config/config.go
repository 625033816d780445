// Package config handles the settings document and the data directory
// layout. Every data directory gets a config.yaml, a roster CSV, a
// receipts/ folder for generated PDFs and a logs/ folder.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smkpu/yuran-asrama/internal/roster"
)

const (
	settingsFile = "config.yaml"
	rosterFile   = "students.csv"
	receiptsDir  = "receipts"
	logsDir      = "logs"
)

const defaultSettingsYAML = `# yuran asrama configuration
app_title: Sistem Yuran Asrama (Mengaji & Silat)
branding_text: SMK PONDOK UPEH
currency: RM
receipt_footer: Resit ini dijana secara digital dan tidak memerlukan tandatangan.
receipt_prefix: DN

ui_labels:
  mengaji: Yuran Mengaji
  silat: Yuran Silat
`

// Labels holds the display text for the two fee categories. Both keys are
// always present once the document is saved.
type Labels struct {
	Mengaji string `yaml:"mengaji"`
	Silat   string `yaml:"silat"`
}

// Settings models config.yaml. Absent keys fall back to the defaults below.
type Settings struct {
	AppTitle      string `yaml:"app_title"`
	BrandingText  string `yaml:"branding_text"`
	Currency      string `yaml:"currency"`
	ReceiptFooter string `yaml:"receipt_footer"`
	ReceiptPrefix string `yaml:"receipt_prefix"`
	Labels        Labels `yaml:"ui_labels"`
}

// DefaultSettings returns the named defaults used when keys are absent.
func DefaultSettings() Settings {
	return Settings{
		AppTitle:      "Sistem Yuran Asrama (Mengaji & Silat)",
		BrandingText:  "SMK PONDOK UPEH",
		Currency:      "RM",
		ReceiptFooter: "Resit ini dijana secara digital dan tidak memerlukan tandatangan.",
		ReceiptPrefix: "DN",
		Labels: Labels{
			Mengaji: "Yuran Mengaji",
			Silat:   "Yuran Silat",
		},
	}
}

// Label returns the configured display text for a fee category.
func (s Settings) Label(c roster.Category) string {
	if c == roster.Silat {
		return s.Labels.Silat
	}
	return s.Labels.Mengaji
}

// Config holds the runtime configuration: the data directory plus the
// parsed settings document.
type Config struct {
	// DataDir is the directory holding the roster, settings and output.
	DataDir string

	Settings Settings
}

// InitDataDir creates the data directory structure and a default settings
// file if none exists. Called once at startup.
func InitDataDir(dataDir string) error {
	dirs := []string{
		filepath.Join(dataDir, receiptsDir),
		filepath.Join(dataDir, logsDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureSettingsFile(filepath.Join(dataDir, settingsFile))
}

// NewConfig loads the settings document for the given data directory.
// A missing settings file yields the defaults.
func NewConfig(dataDir string) (*Config, error) {
	cfg := &Config{
		DataDir:  dataDir,
		Settings: DefaultSettings(),
	}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RosterPath returns the path to the roster CSV.
func (c *Config) RosterPath() string {
	return filepath.Join(c.DataDir, rosterFile)
}

// SettingsPath returns the on-disk location of the settings document.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.DataDir, settingsFile)
}

// ReceiptsDir returns the directory generated receipts are written to.
func (c *Config) ReceiptsDir() string {
	return filepath.Join(c.DataDir, receiptsDir)
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, logsDir)
}

// SaveSettings validates the settings and persists them back to
// config.yaml. Both label keys are written even if one was absent before.
func (c *Config) SaveSettings(s Settings) error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	s.applyDefaults()
	s.normalize()
	if err := s.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure data dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: encode settings: %w", err)
	}
	if err := os.WriteFile(c.SettingsPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write settings: %w", err)
	}
	c.Settings = s
	return nil
}

func (c *Config) loadSettings() error {
	path := c.SettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Settings = parsed
	return nil
}

func (s *Settings) applyDefaults() {
	def := DefaultSettings()
	if strings.TrimSpace(s.AppTitle) == "" {
		s.AppTitle = def.AppTitle
	}
	if strings.TrimSpace(s.BrandingText) == "" {
		s.BrandingText = def.BrandingText
	}
	if strings.TrimSpace(s.Currency) == "" {
		s.Currency = def.Currency
	}
	if strings.TrimSpace(s.ReceiptFooter) == "" {
		s.ReceiptFooter = def.ReceiptFooter
	}
	if strings.TrimSpace(s.ReceiptPrefix) == "" {
		s.ReceiptPrefix = def.ReceiptPrefix
	}
	if strings.TrimSpace(s.Labels.Mengaji) == "" {
		s.Labels.Mengaji = def.Labels.Mengaji
	}
	if strings.TrimSpace(s.Labels.Silat) == "" {
		s.Labels.Silat = def.Labels.Silat
	}
}

func (s *Settings) normalize() {
	s.AppTitle = strings.TrimSpace(s.AppTitle)
	s.BrandingText = strings.TrimSpace(s.BrandingText)
	s.Currency = strings.TrimSpace(s.Currency)
	s.ReceiptFooter = strings.TrimSpace(s.ReceiptFooter)
	s.ReceiptPrefix = strings.TrimSpace(s.ReceiptPrefix)
	s.Labels.Mengaji = strings.TrimSpace(s.Labels.Mengaji)
	s.Labels.Silat = strings.TrimSpace(s.Labels.Silat)
}

func (s Settings) validate() error {
	if s.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if s.ReceiptPrefix == "" {
		return fmt.Errorf("receipt_prefix is required")
	}
	if s.Labels.Mengaji == "" || s.Labels.Silat == "" {
		return fmt.Errorf("both ui_labels entries are required")
	}
	return nil
}

func ensureSettingsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultSettingsYAML), 0o644)
}
