package config

import (
	"os"

	dserrors "github.com/systmms/spsite/internal/errors"
	"github.com/systmms/spsite/internal/logging"
	"github.com/systmms/spsite/internal/naming"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings file read when --config is not given.
const DefaultPath = "appsettings.json"

// Environment variables that override the settings file.
const (
	EnvEnvironment = "SPSITE_ENVIRONMENT"
	EnvSite        = "SPSITE_SITE"
	EnvName        = "SPSITE_NAME"
)

// Config holds the runtime configuration
type Config struct {
	Path        string
	Logger      *logging.Logger
	MetricsFile string
	Settings    *Settings
}

// Settings is the content of the settings file. JSON files are read as YAML.
type Settings struct {
	// Environment is the tenant subdomain, e.g. "contoso".
	Environment string `yaml:"environment" json:"environment"`
	// Site is the server-relative site path, e.g. "/sites/hr".
	Site string `yaml:"site" json:"site"`
	// Name is the service identity suffix.
	Name string `yaml:"name" json:"name"`
}

// Names derives the identifiers for these settings.
func (s Settings) Names() naming.Names {
	return naming.Derive(s.Environment, s.Site, s.Name)
}

// Load reads the settings file, if present, and applies environment
// overrides. A missing file is not an error. Values are not validated.
func (c *Config) Load() error {
	var settings Settings

	path := c.Path
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return dserrors.ConfigError{
				Field:      "path",
				Value:      path,
				Message:    "invalid settings file syntax",
				Suggestion: "The file must be a JSON or YAML object with environment, site and name keys",
			}
		}
	case os.IsNotExist(err):
		if c.Logger != nil {
			c.Logger.Debug("Settings file %s not found, using environment only", path)
		}
	default:
		return dserrors.UserError{
			Message:    "Failed to read settings file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	applyEnv(&settings)
	c.Settings = &settings
	return nil
}

func applyEnv(s *Settings) {
	if v := os.Getenv(EnvEnvironment); v != "" {
		s.Environment = v
	}
	if v := os.Getenv(EnvSite); v != "" {
		s.Site = v
	}
	if v := os.Getenv(EnvName); v != "" {
		s.Name = v
	}
}

// GetSettings returns the loaded settings.
func (c *Config) GetSettings() (Settings, error) {
	if c.Settings == nil {
		return Settings{}, dserrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}
	return *c.Settings, nil
}
