package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/kpidash/schema"
)

// Default values for configuration.
const (
	DefaultWindowSize = 3
	MaxWindowSize     = 12
	DefaultPrecision  = 1
	MaxPrecision      = 4
	DefaultTimeout    = 30 * time.Second
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for rendering.
// This struct remains the "final, validated" config.
type Config struct {
	Source     string // Directory or base URL holding the category documents; empty means fallback data only
	Remote     bool   // Source is an HTTP(S) URL
	JiraURL    string // Issue tracker base URL for links; empty disables links
	Partition  string // Requested period for the selected category
	Scope      string // Requested lead time scope
	WindowSize int    // Rolling average window in months
	Precision  int    // Decimal precision for raw numeric columns
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	Timeout    time.Duration

	UseColors bool // Enable colored cells in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Source     string `mapstructure:"source"`
	JiraURL    string `mapstructure:"jira-url"`
	Partition  string `mapstructure:"partition"`
	Scope      string `mapstructure:"scope"`
	Window     int    `mapstructure:"window"`
	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Timeout    string `mapstructure:"timeout"`
	Color      string `mapstructure:"color"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := processJiraURL(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-location fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Partition = strings.TrimSpace(input.Partition)
	cfg.Scope = strings.TrimSpace(input.Scope)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Window Validation ---
	if input.Window < 1 || input.Window > MaxWindowSize {
		return fmt.Errorf("window must be between 1 and %d months (received %d)", MaxWindowSize, input.Window)
	}
	cfg.WindowSize = input.Window

	// --- 2. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Width Validation ---
	if cfg.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", cfg.Width)
	}

	// --- 4. Timeout Processing ---
	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", input.Timeout)
		}
		cfg.Timeout = timeout
	}
	return nil
}

// processSource decides whether the source is a directory or a base URL.
func processSource(cfg *Config, input *ConfigRawInput) error {
	src := strings.TrimSpace(input.Source)
	cfg.Source = src
	cfg.Remote = false
	if src == "" {
		return nil
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if _, err := parseBaseURL(src); err != nil {
			return fmt.Errorf("invalid --source: %w", err)
		}
		cfg.Source = strings.TrimRight(src, "/")
		cfg.Remote = true
	}
	return nil
}

// processJiraURL validates the issue tracker base URL.
func processJiraURL(cfg *Config, input *ConfigRawInput) error {
	raw := strings.TrimSpace(input.JiraURL)
	if raw == "" {
		cfg.JiraURL = ""
		return nil
	}
	if _, err := parseBaseURL(raw); err != nil {
		return fmt.Errorf("invalid --jira-url: %w", err)
	}
	cfg.JiraURL = strings.TrimRight(raw, "/")
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%q has no host", raw)
	}
	return u, nil
}

// ProcessProfilingConfig sets up profiling configuration from the prefix.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profile.Prefix = strings.TrimSpace(profilePrefix)
	profile.Enabled = profile.Prefix != ""
	return nil
}
