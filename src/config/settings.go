// Package config loads the settings file and the .env file and resolves which connection string the server uses
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"gopkg.in/yaml.v2"

	"github.com/coltonspears/McpServer/src/args"
	"github.com/coltonspears/McpServer/src/connection"
)

var (
	ErrReadSettings  = errors.New("failed to read settings file")
	ErrParseSettings = errors.New("failed to parse settings file")
)

// Settings mirrors the layout of appsettings.yaml
type Settings struct {
	ConnectionStrings ConnectionStrings `yaml:"ConnectionStrings"`
}

// ConnectionStrings holds the named connection strings of the settings file
type ConnectionStrings struct {
	DefaultConnection string `yaml:"DefaultConnection"`
}

// LoadSettings reads the YAML settings file at path.
// A missing file is not an error and yields empty Settings.
func LoadSettings(path string) (Settings, error) {
	var settings Settings
	if path == "" {
		return settings, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("Settings file %s not found, skipping", path)
		return settings, nil
	} else if err != nil {
		return settings, fmt.Errorf("%w: %s", ErrReadSettings, err)
	}

	if err := yaml.Unmarshal(b, &settings); err != nil {
		return settings, fmt.Errorf("%w: %s", ErrParseSettings, err)
	}
	return settings, nil
}

// LoadDotenv exports the variables of the .env file at path into the environment.
// Variables that are already set keep their value. A missing file is ignored.
func LoadDotenv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// ResolveConnectionString picks the connection string in order of precedence:
// the default_connection argument, the settings file, then a URL built from the discrete arguments.
func ResolveConnectionString(al *args.ArgumentList) (string, error) {
	if al.DefaultConnection != "" {
		log.Debug("Using connection string from arguments")
		return al.DefaultConnection, nil
	}

	settings, err := LoadSettings(al.ConfigFile)
	if err != nil {
		return "", err
	}
	if settings.ConnectionStrings.DefaultConnection != "" {
		log.Debug("Using connection string from %s", al.ConfigFile)
		return settings.ConnectionStrings.DefaultConnection, nil
	}

	log.Debug("Building connection string from connection arguments")
	return connection.CreateConnectionURL(al), nil
}
