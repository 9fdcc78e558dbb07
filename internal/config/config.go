package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
)

// Config is the root configuration for tts, stored in $XDG_CONFIG_HOME/tts/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Report  ReportConfig  `json:"report"`
	Suggest SuggestConfig `json:"suggest"`
	Outlook OutlookConfig `json:"outlook"`
	Server  ServerConfig  `json:"server"`
}

// StorageConfig selects where roster and entries are persisted.
type StorageConfig struct {
	// Backend is "json" (one file per snapshot) or "sqlite".
	Backend string `json:"backend"`
	// Path overrides the data location. Empty = $TTS_HOME or $XDG_DATA_HOME/tts.
	Path string `json:"path"`
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	// Language of report labels: "de" or "en".
	Language string `json:"language"`
}

// SuggestConfig holds settings for AI project suggestions.
type SuggestConfig struct {
	Endpoint       string `json:"endpoint"`
	Model          string `json:"model"`
	TimeoutMS      int    `json:"timeout_ms"`
	MaxSuggestions int    `json:"max_suggestions"`
	// APIKey is never read from the file; it comes from $ANTHROPIC_API_KEY.
	APIKey string `json:"-"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// DefaultProject is the project name assigned to imported days.
	DefaultProject string `json:"default_project"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = local time.
	Timezone string `json:"timezone"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

const (
	DefaultBackend  = "json"
	DefaultLanguage = "de"

	DefaultSuggestEndpoint = "https://api.anthropic.com/v1/messages"
	DefaultSuggestModel    = "claude-3-5-sonnet-20240620"
	DefaultSuggestTimeout  = 15000
	DefaultMaxSuggestions  = 5

	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration. Replace with your own registered app ID for
	// organisational or production deployments.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultProject is the project name used for imported calendar days.
	DefaultProject = "Meetings"

	DefaultServerAddr = "127.0.0.1:8080"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills zero-value fields with built-in defaults so callers
// always get a usable Config even if the user only partially fills in the file.
func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Report.Language == "" {
		c.Report.Language = DefaultLanguage
	}
	if c.Suggest.Endpoint == "" {
		c.Suggest.Endpoint = DefaultSuggestEndpoint
	}
	if c.Suggest.Model == "" {
		c.Suggest.Model = DefaultSuggestModel
	}
	if c.Suggest.TimeoutMS <= 0 {
		c.Suggest.TimeoutMS = DefaultSuggestTimeout
	}
	if c.Suggest.MaxSuggestions <= 0 {
		c.Suggest.MaxSuggestions = DefaultMaxSuggestions
	}
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = DefaultTenantID
	}
	if c.Outlook.ClientID == "" {
		c.Outlook.ClientID = DefaultClientID
	}
	if c.Outlook.DefaultProject == "" {
		c.Outlook.DefaultProject = DefaultProject
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// applyEnv lets the environment override file settings.
func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("TTS_STORAGE")); v != "" {
		c.Storage.Backend = v
	}
	c.Suggest.APIKey = os.Getenv("ANTHROPIC_API_KEY")
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// tts configuration
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Edit this file to customise tts behaviour.
{
  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "json"   – employees.json and entries.json in the data directory (default)
    // "sqlite" – a single tts.db database file
    // Can be overridden with the TTS_STORAGE environment variable.
    "backend": "json",

    // Data location. Empty means $TTS_HOME, or $XDG_DATA_HOME/tts if unset.
    "path": ""
  },

  // ── Reports ──────────────────────────────────────────────────────────────
  "report": {
    // Label language for reports: "de" (default) or "en".
    "language": "de"
  },

  // ── Project suggestions ──────────────────────────────────────────────────
  // The API key is read from the ANTHROPIC_API_KEY environment variable.
  "suggest": {
    "endpoint": "https://api.anthropic.com/v1/messages",
    "model": "claude-3-5-sonnet-20240620",
    "timeout_ms": 15000,
    "max_suggestions": 5
  },

  // ── Microsoft Graph / Outlook calendar import ────────────────────────────
  "outlook": {
    // Azure AD tenant ID.
    // • "common"  – personal Microsoft accounts and any organisation (default)
    // • Your organisation's tenant GUID, e.g. "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // Project name assigned to days imported from the calendar.
    // Can be overridden with: tts outlook import --project <name>
    "default_project": "Meetings",

    // IANA timezone for interpreting calendar event times, e.g. "Europe/Berlin".
    // Leave empty to use local time. Can be overridden with --timezone.
    "timezone": ""
  },

  // ── HTTP API (tts serve) ─────────────────────────────────────────────────
  "server": {
    "addr": "127.0.0.1:8080"
  }
}
`

// FilePath returns the path to the config file: $TTS_CONFIG if set,
// otherwise $XDG_CONFIG_HOME/tts/config.json.
func FilePath() (string, error) {
	if p := os.Getenv("TTS_CONFIG"); p != "" {
		return p, nil
	}
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("cannot determine config directory")
	}
	return filepath.Join(xdg.ConfigHome, "tts", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config file at FilePath.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		cfg := Default()
		cfg.applyEnv()
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path, creating it with annotated defaults
// on first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func LoadFrom(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			logrus.WithError(writeErr).WithField("path", path).Warn("could not create config file")
		}
	case err != nil:
		cfg = Default()
		cfg.applyEnv()
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
			cfg = Default()
			cfg.applyEnv()
			return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
