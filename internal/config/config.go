package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration: the desired state of
// every reconciled setting plus the ambient concerns (logging, run
// ledger). It is built once at startup and handed to the run; nothing
// reads configuration through globals.
type Config struct {
	Log      LogConfig       `yaml:"log"`
	Ledger   LedgerConfig    `yaml:"ledger"`
	Browser  BrowserConfig   `yaml:"browser"`
	Explorer ExplorerConfig  `yaml:"explorer"`
	Locales  LocalesConfig   `yaml:"locales"`
	DevTools []DevToolConfig `yaml:"dev_tools"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  bool   `yaml:"colors"`
	UseJSON bool   `yaml:"json"`
}

// GetLevel returns the configured level with default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "info"
	}
	return c.Level
}

// LedgerConfig contains the optional run-history ledger settings.
// The ledger is a write-only audit sink: reconciliation never reads it,
// so every run still starts from zero prior state.
type LedgerConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// BrowserConfig declares the desired browser identity and the
// default-application bindings expected to point at it.
type BrowserConfig struct {
	// ProgIDPrefix is compared by prefix against observed ProgIDs,
	// which carry a version/hash suffix after the vendor name.
	ProgIDPrefix string `yaml:"progid_prefix"`
	// DisplayNamePrefix filters the uninstall subtree when checking
	// that the browser is installed at all.
	DisplayNamePrefix string `yaml:"display_name_prefix"`
	// PackageID installs the browser when it is missing.
	PackageID string   `yaml:"package_id"`
	Protocols []string `yaml:"protocols"`
	FileExts  []string `yaml:"file_extensions"`
}

// ExplorerConfig declares the desired shell appearance and visibility
// flags. Each field maps to a single registry DWORD.
type ExplorerConfig struct {
	TaskbarLeft        bool `yaml:"taskbar_left"`
	DarkMode           bool `yaml:"dark_mode"`
	ClipboardHistory   bool `yaml:"clipboard_history"`
	ShowHiddenFiles    bool `yaml:"show_hidden_files"`
	ShowFileExtensions bool `yaml:"show_file_extensions"`
}

// LocalesConfig declares the desired user language list contents.
type LocalesConfig struct {
	Tags         []string            `yaml:"tags"`
	InputMethods []InputMethodConfig `yaml:"input_methods"`
}

// InputMethodConfig attaches one input-method tip to one locale.
type InputMethodConfig struct {
	Locale string `yaml:"locale"`
	Tip    string `yaml:"tip"`
}

// DevToolConfig declares one optional tool, excluded from the run
// entirely unless its flag is passed on the command line.
type DevToolConfig struct {
	Name      string `yaml:"name"`
	Flag      string `yaml:"flag"`
	PackageID string `yaml:"package_id"`
	UserScope bool   `yaml:"user_scope"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = "./deskmend.sqlite"
	}
	if cfg.Ledger.RetentionDays == 0 {
		cfg.Ledger.RetentionDays = 90
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the catalog cannot turn into a
// well-formed descriptor list.
func (c *Config) validate() error {
	seen := make(map[string]struct{})
	for _, tool := range c.DevTools {
		if tool.Flag == "" || tool.PackageID == "" {
			return fmt.Errorf("config: dev tool %q needs both flag and package_id", tool.Name)
		}
		if _, dup := seen[tool.Flag]; dup {
			return fmt.Errorf("config: duplicate dev tool flag %q", tool.Flag)
		}
		seen[tool.Flag] = struct{}{}
	}
	for _, im := range c.Locales.InputMethods {
		if im.Locale == "" || im.Tip == "" {
			return fmt.Errorf("config: input method entries need both locale and tip")
		}
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
