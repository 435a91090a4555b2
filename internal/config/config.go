// Package config loads radreport settings from defaults, a YAML file,
// RADREPORT_* environment variables and command flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/mrsinham/radreport/internal/catalog"
	"github.com/mrsinham/radreport/internal/export"
	"github.com/mrsinham/radreport/internal/report"
)

// EnvPrefix is prepended to environment variable names, e.g. RADREPORT_LOG_LEVEL.
const EnvPrefix = "RADREPORT"

// Keys read from viper
const (
	KeyCatalogSource     = "catalog.source"
	KeyCatalogTimeout    = "catalog.timeout"
	KeyCatalogMaxRetries = "catalog.max_retries"
	KeyReportFormat      = "report.format"
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
	KeyLogFile           = "log.file"
	KeyServerAddr        = "server.addr"
	KeyInstitution       = "export.institution"
	KeyAuthor            = "export.author"
	KeyPriority          = "export.priority"
)

// Config holds every setting the commands read.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Report  ReportConfig  `mapstructure:"report"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Export  ExportConfig  `mapstructure:"export"`
}

// CatalogConfig locates the pathology catalog.
type CatalogConfig struct {
	Source     string        `mapstructure:"source"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// ReportConfig selects the compiled line format.
type ReportConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ExportConfig holds values stamped on exported documents.
type ExportConfig struct {
	Institution string `mapstructure:"institution"`
	Author      string `mapstructure:"author"`
	Priority    string `mapstructure:"priority"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyCatalogSource, filepath.Join("data", "pathologies.csv"))
	v.SetDefault(KeyCatalogTimeout, 10*time.Second)
	v.SetDefault(KeyCatalogMaxRetries, 3)
	v.SetDefault(KeyReportFormat, report.PlainFormat.Name)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyInstitution, "")
	v.SetDefault(KeyAuthor, "")
	v.SetDefault(KeyPriority, "ROUTINE")
}

// Setup prepares v to read radreport.yaml and RADREPORT_* variables.
// An explicit cfgFile replaces the search path.
func Setup(v *viper.Viper, cfgFile string) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("radreport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "radreport"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile reads the config file if there is one. A missing file is not an
// error when none was named explicitly.
func ReadFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if config is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Source) == "" {
		return fmt.Errorf("%s must not be empty", KeyCatalogSource)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyCatalogTimeout, c.Catalog.Timeout)
	}
	if c.Catalog.MaxRetries < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyCatalogMaxRetries, c.Catalog.MaxRetries)
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("%s: %w", KeyReportFormat, err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%s must be text or json, got %q", KeyLogFormat, c.Log.Format)
	}
	if _, err := export.ParsePriority(c.Export.Priority); err != nil {
		return fmt.Errorf("%s: %w", KeyPriority, err)
	}
	return nil
}

// CatalogSource returns where and how to read the catalog.
func (c *Config) CatalogSource() catalog.Source {
	return catalog.Source{
		Location:   c.Catalog.Source,
		Timeout:    c.Catalog.Timeout,
		MaxRetries: c.Catalog.MaxRetries,
	}
}

// ExportMeta returns the values stamped on every export.
func (c *Config) ExportMeta() export.Meta {
	priority, _ := export.ParsePriority(c.Export.Priority)
	return export.Meta{
		Institution: c.Export.Institution,
		Author:      c.Export.Author,
		Priority:    priority,
	}
}
