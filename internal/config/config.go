package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// ServicePattern describes one recurring occurrence the schedule is built
// from: when it happens (rrule + time of day) and which roles it requires.
type ServicePattern struct {
	RRule     string   `yaml:"rrule" validate:"required"`
	Label     string   `yaml:"label" validate:"required"`
	Category  string   `yaml:"category" validate:"required,oneof=service arena event"`
	TimeOfDay string   `yaml:"timeOfDay" validate:"required"`
	Roles     []string `yaml:"roles" validate:"required,min=1,dive,required"`
}

// SMSChannel configures the SMS provider used for dispatch delivery
type SMSChannel struct {
	BaseURL      string `yaml:"baseURL" validate:"required,url"`
	TokenURL     string `yaml:"tokenURL" validate:"required,url"`
	ClientID     string `yaml:"clientID" validate:"required"`
	ClientSecret string `yaml:"clientSecret" validate:"required"`
}

// GmailChannel configures the email channel used for dispatch delivery
type GmailChannel struct {
	UserID string `yaml:"userID" validate:"required,email"`
	Sender string `yaml:"sender,omitempty" validate:"omitempty,email"`
}

// Channels lists the configured delivery channels. Either may be absent;
// dispatch submission requires at least one.
type Channels struct {
	Gmail *GmailChannel `yaml:"gmail,omitempty" validate:"omitempty"`
	SMS   *SMSChannel   `yaml:"sms,omitempty" validate:"omitempty"`

	// RatePerSec caps outbound sends per second across all channels
	RatePerSec int `yaml:"ratePerSec,omitempty" validate:"omitempty,min=1"`
}

// Count returns the number of configured delivery channels
func (c Channels) Count() int {
	count := 0
	if c.Gmail != nil {
		count++
	}
	if c.SMS != nil {
		count++
	}
	return count
}

// Config represents the application configuration
type Config struct {
	LinkID           string           `yaml:"linkID" validate:"required"`
	OrganizationName string           `yaml:"organizationName" validate:"required"`
	DatabaseURL      string           `yaml:"databaseURL" validate:"required"`
	ServicePatterns  []ServicePattern `yaml:"servicePatterns" validate:"required,min=1,dive"`
	Channels         Channels         `yaml:"channels"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from rota_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix.
// For example, env="test" will look for "rota_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
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

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Validate rrule syntax for each service pattern
	for i, pattern := range cfg.ServicePatterns {
		if _, err := rrule.StrToRRule(pattern.RRule); err != nil {
			return fmt.Errorf("invalid rrule in servicePatterns[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches for rota_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "rota_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "rota_config.yaml"
	if env != "" {
		configFileName = "rota_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
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
