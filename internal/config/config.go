package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults applied before the config file is read.
const (
	DefaultPath             = "./config.toml"
	DefaultDBPath           = "./fangen.db"
	DefaultDictPath         = "./dictionary.json"
	DefaultCookiePath       = "./cookies.json"
	DefaultUploadHost       = "cosplay2.ru"
	DefaultMaxCellLength    = 65
	DefaultFilenameTemplate = "{code} {n} {title}/{value_title}"
	DefaultMaxTitleLength   = 80
	DefaultHTTPTimeout      = "60s"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Config is the operator's settings for one run.
type Config struct {
	Email     string `toml:"email" yaml:"email"`
	Password  string `toml:"password" yaml:"password"`
	EventName string `toml:"event_name" yaml:"event_name"`

	DBPath     string `toml:"db_path" yaml:"db_path"`
	DictPath   string `toml:"dict_path" yaml:"dict_path"`
	CookiePath string `toml:"cookie_path" yaml:"cookie_path"`

	APIBaseURL  string `toml:"api_base_url" yaml:"api_base_url"`
	UploadHost  string `toml:"upload_host" yaml:"upload_host"`
	HTTPTimeout string `toml:"http_timeout" yaml:"http_timeout"`

	MaxCellLength int  `toml:"max_cell_length" yaml:"max_cell_length"`
	FileLabels    bool `toml:"file_labels" yaml:"file_labels"`

	SkipFields       []string `toml:"skip_fields" yaml:"skip_fields"`
	DryRun           bool     `toml:"dry_run" yaml:"dry_run"`
	FilesFolder      string   `toml:"files_folder" yaml:"files_folder"`
	MoveFolder       string   `toml:"move_folder" yaml:"move_folder"`
	StageMode        bool     `toml:"stage_mode" yaml:"stage_mode"`
	AllowedExts      []string `toml:"allowed_exts" yaml:"allowed_exts"`
	FilenameTemplate string   `toml:"filename_template" yaml:"filename_template"`
	MaxTitleLength   int      `toml:"max_title_length" yaml:"max_title_length"`

	// YTDLPPath is the yt-dlp binary for external links; empty uses PATH.
	YTDLPPath string `toml:"ytdlp_path" yaml:"ytdlp_path"`

	Log LogConfig `toml:"log" yaml:"log"`
}

// LogConfig selects the log level, format, and optional rotating file.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"`
}

// Default returns a Config holding every default value.
func Default() Config {
	return Config{
		DBPath:           DefaultDBPath,
		DictPath:         DefaultDictPath,
		CookiePath:       DefaultCookiePath,
		UploadHost:       DefaultUploadHost,
		HTTPTimeout:      DefaultHTTPTimeout,
		MaxCellLength:    DefaultMaxCellLength,
		FilenameTemplate: DefaultFilenameTemplate,
		MaxTitleLength:   DefaultMaxTitleLength,
		Log:              LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// BaseURL returns the API root: api_base_url when set, otherwise the event
// subdomain of the upload host.
func (c Config) BaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return fmt.Sprintf("https://%s.%s/api/", c.EventName, c.UploadHost)
}

// Timeout returns the parsed http_timeout, or the default for bad input.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultHTTPTimeout)
	}
	return d
}

// Skipped reports whether values titled title are excluded from media work.
func (c Config) Skipped(title string) bool {
	for _, s := range c.SkipFields {
		if s == title {
			return true
		}
	}
	return false
}

// Validate reports every problem at once, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.EventName) == "" {
		problems = append(problems, "event_name is required")
	}
	if d, err := time.ParseDuration(c.HTTPTimeout); err != nil || d <= 0 {
		problems = append(problems, fmt.Sprintf("http_timeout %q is not a positive duration", c.HTTPTimeout))
	}
	if c.MaxCellLength <= 0 {
		problems = append(problems, "max_cell_length must be positive")
	}
	if c.MaxTitleLength <= 0 {
		problems = append(problems, "max_title_length must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// RequireCredentials checks the login settings used by commands that sign in.
func (c Config) RequireCredentials() error {
	var missing []string
	if c.Email == "" {
		missing = append(missing, "email")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, " and "))
	}
	return nil
}

// errUnknownFormat is returned for config files that are neither TOML nor YAML.
var errUnknownFormat = errors.New("config file must end in .toml, .yaml or .yml")
