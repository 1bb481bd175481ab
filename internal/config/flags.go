package config

import "github.com/spf13/pflag"

// Command-line flags that override the loaded config.
const (
	FlagDB       = "db"
	FlagLogLevel = "log-level"
	FlagDryRun   = "dry-run"
)

// Overrides holds flag values applied after the file and environment.
// Only flags set on the command line take effect.
type Overrides struct {
	DBPath   string
	LogLevel string
	DryRun   bool

	flags *pflag.FlagSet
}

// Register adds the override flags to fs.
func (o *Overrides) Register(fs *pflag.FlagSet) {
	o.flags = fs
	fs.StringVar(&o.DBPath, FlagDB, "", "SQLite database path (overrides db_path)")
	fs.StringVar(&o.LogLevel, FlagLogLevel, "", "Log level: debug, info, warn or error")
	fs.BoolVar(&o.DryRun, FlagDryRun, false, "Report media work without writing files")
}

// Apply copies every changed flag into cfg and validates the result.
func (o *Overrides) Apply(cfg *Config) error {
	if o == nil || o.flags == nil {
		return nil
	}
	if o.flags.Changed(FlagDB) {
		cfg.DBPath = o.DBPath
	}
	if o.flags.Changed(FlagLogLevel) {
		cfg.Log.Level = o.LogLevel
	}
	if o.flags.Changed(FlagDryRun) {
		cfg.DryRun = o.DryRun
	}
	return cfg.Validate()
}
