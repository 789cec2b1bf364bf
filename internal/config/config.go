package config

import (
	"fmt"
	"regexp"

	"github.com/tlesnik44-code/origocode/internal/domain"
)

// DefaultRootFolder is the fixed top-level folder name all project
// trees live under when none is configured.
const DefaultRootFolder = "origocode"

// rootFolderPattern keeps the root folder name safe for use as a
// literal in remote query filters, same constraint as project names.
var rootFolderPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Config is the complete process configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Drive   DriveConfig   `mapstructure:"drive"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	// Listen is the address the HTTP server binds, e.g. ":8080"
	Listen string `mapstructure:"listen"`

	// ShutdownTimeoutSec bounds graceful shutdown
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec"`

	// PIDFile overrides the default PID file location
	PIDFile string `mapstructure:"pid_file"`
}

// DriveConfig configures the remote store session.
type DriveConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`

	// TokenPath overrides the default token file location
	TokenPath string `mapstructure:"token_path"`

	// RootFolder is the fixed top-level folder name
	RootFolder string `mapstructure:"root_folder"`
}

// HistoryConfig configures the operation history store.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// DataDir is where the sqlite database lives
	DataDir string `mapstructure:"data_dir"`

	// RetentionDays is how long operation records are kept before the
	// daily prune removes them
	RetentionDays int `mapstructure:"retention_days"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig configures rotating file output.
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// Validate checks the configuration is complete and consistent.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("%w: server.listen cannot be empty", domain.ErrConfigInvalid)
	}
	if c.Drive.ClientID == "" {
		return fmt.Errorf("%w: drive.client_id is required", domain.ErrConfigInvalid)
	}
	if c.Drive.ClientSecret == "" {
		return fmt.Errorf("%w: drive.client_secret is required", domain.ErrConfigInvalid)
	}
	if !rootFolderPattern.MatchString(c.Drive.RootFolder) {
		return fmt.Errorf("%w: drive.root_folder %q must be 1-64 characters of [A-Za-z0-9_-]",
			domain.ErrConfigInvalid, c.Drive.RootFolder)
	}
	if c.History.Enabled && c.History.DataDir == "" {
		return fmt.Errorf("%w: history.data_dir is required when history is enabled", domain.ErrConfigInvalid)
	}
	if c.History.Enabled && c.History.RetentionDays <= 0 {
		return fmt.Errorf("%w: history.retention_days must be positive", domain.ErrConfigInvalid)
	}
	if c.Log.File.Enabled && c.Log.File.Path == "" {
		return fmt.Errorf("%w: log.file.path is required when file logging is enabled", domain.ErrConfigInvalid)
	}
	return nil
}
