package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a value is not configured
const (
	DefaultEpicStartField    = "customfield_10015" // "Start date" on Jira Cloud
	DefaultEpicEndField      = "duedate"
	DefaultOutputDir         = "."
	DefaultRequestsPerSecond = 10
	DefaultTimeoutSeconds    = 30
)

// Config represents the application configuration
type Config struct {
	JiraURL           string  `json:"jira_url" yaml:"jira_url"`                       // e.g., https://jira.company.com or https://yoursite.atlassian.net
	JiraUsername      string  `json:"jira_username" yaml:"jira_username"`             // Email for cloud, username for DC
	JiraToken         string  `json:"jira_token" yaml:"jira_token"`                   // API token for cloud, password for DC
	JiraProject       string  `json:"jira_project" yaml:"jira_project"`               // Default project key
	IsJiraCloud       bool    `json:"is_jira_cloud" yaml:"is_jira_cloud"`             // true for Cloud, false for DC
	EpicStartField    string  `json:"epic_start_field" yaml:"epic_start_field"`       // Issue field holding an epic's start date
	EpicEndField      string  `json:"epic_end_field" yaml:"epic_end_field"`           // Issue field holding an epic's end date
	OutputDir         string  `json:"output_dir" yaml:"output_dir"`                   // Where chart files are written
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"` // Jira API pacing
	TimeoutSeconds    int     `json:"timeout_seconds" yaml:"timeout_seconds"`         // Per-request HTTP timeout
}

// ValidationError reports a missing or invalid configuration value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// LoadConfig loads configuration from file or environment variables
func LoadConfig(filename string) (Config, error) {
	// Try loading from file first
	if _, err := os.Stat(filename); err == nil {
		data, err := os.ReadFile(filename)
		if err != nil {
			return Config{}, err
		}
		var config Config
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &config)
		default:
			err = json.Unmarshal(data, &config)
		}
		if err != nil {
			return Config{}, err
		}
		config.ApplyDefaults()
		return config, nil
	}

	// Fall back to environment variables, picking up a local .env if present
	_ = godotenv.Load()

	config := Config{
		JiraURL:        strings.TrimRight(os.Getenv("JIRA_URL"), "/"),
		JiraUsername:   os.Getenv("JIRA_USERNAME"),
		JiraToken:      os.Getenv("JIRA_TOKEN"),
		JiraProject:    os.Getenv("JIRA_PROJECT"),
		IsJiraCloud:    os.Getenv("JIRA_IS_CLOUD") == "true",
		EpicStartField: os.Getenv("JIRA_EPIC_START_FIELD"),
		EpicEndField:   os.Getenv("JIRA_EPIC_END_FIELD"),
		OutputDir:      os.Getenv("GANTT_OUTPUT_DIR"),
	}

	if rps := os.Getenv("JIRA_REQUESTS_PER_SECOND"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			config.RequestsPerSecond = r
		}
	}
	if timeout := os.Getenv("JIRA_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.TimeoutSeconds = t
		}
	}

	config.ApplyDefaults()
	return config, nil
}

// ApplyDefaults fills unset optional values
func (c *Config) ApplyDefaults() {
	c.JiraURL = strings.TrimRight(c.JiraURL, "/")
	if c.EpicStartField == "" {
		c.EpicStartField = DefaultEpicStartField
	}
	if c.EpicEndField == "" {
		c.EpicEndField = DefaultEpicEndField
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
}

// Validate checks the values needed to reach Jira
func (c Config) Validate() error {
	if c.JiraURL == "" {
		return &ValidationError{Field: "jira_url", Message: "required"}
	}
	if c.JiraUsername == "" {
		return &ValidationError{Field: "jira_username", Message: "required"}
	}
	if c.JiraToken == "" {
		return &ValidationError{Field: "jira_token", Message: "required"}
	}
	return nil
}

// CreateSampleConfig creates a sample configuration file
func CreateSampleConfig(filename string) error {
	config := Config{
		JiraURL:           "https://jira.company.com",
		JiraUsername:      "your-username",
		JiraToken:         "your-jira-token",
		JiraProject:       "PROJ",
		IsJiraCloud:       false,
		EpicStartField:    DefaultEpicStartField,
		EpicEndField:      DefaultEpicEndField,
		OutputDir:         DefaultOutputDir,
		RequestsPerSecond: DefaultRequestsPerSecond,
		TimeoutSeconds:    DefaultTimeoutSeconds,
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}
