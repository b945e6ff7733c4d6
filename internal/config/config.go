package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Storage driver names accepted in the config file
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Credentials is the static shared login. The portal's authentication
// is deliberately a single shared credential pair plus a separate admin
// password; there are no per-user accounts.
type Credentials struct {
	Username      string `yaml:"username" validate:"required"`
	Password      string `yaml:"password" validate:"required"`
	AdminPassword string `yaml:"adminPassword" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	// DataDir is where the input tables are searched for by basename
	DataDir string `yaml:"dataDir" validate:"required"`

	// Table basenames, resolved against DataDir with extension search
	FacultyTable  string `yaml:"facultyTable" validate:"required"`
	InPersonTable string `yaml:"inPersonTable" validate:"required"`
	RemoteTable   string `yaml:"remoteTable" validate:"required"`

	// Storage selects the willingness ledger backend
	Storage string `yaml:"storage" validate:"required,oneof=file postgres"`

	// WillingnessFile is the ledger path for the file backend
	WillingnessFile string `yaml:"willingnessFile" validate:"required_if=Storage file"`

	// PostgresURL is the connection string for the postgres backend
	PostgresURL string `yaml:"postgresURL" validate:"required_if=Storage postgres"`

	Credentials Credentials `yaml:"credentials"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// configFileName is searched in the current directory first, then the
// user's home directory
const configFileName = "duty_portal_config.yaml"

// Load loads and validates the configuration from duty_portal_config.yaml
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for the config file in the current directory
// and the home directory
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
