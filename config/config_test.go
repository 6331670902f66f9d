package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"jira_url": "https://jira.example.com/", "jira_username": "bob", "jira_token": "secret", "jira_project": "ABC"}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.JiraURL != "https://jira.example.com" {
		t.Errorf("JiraURL = %q, want trailing slash trimmed", cfg.JiraURL)
	}
	if cfg.JiraProject != "ABC" {
		t.Errorf("JiraProject = %q, want ABC", cfg.JiraProject)
	}
	if cfg.EpicEndField != DefaultEpicEndField {
		t.Errorf("EpicEndField = %q, want default %q", cfg.EpicEndField, DefaultEpicEndField)
	}
	if cfg.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want %d", cfg.TimeoutSeconds, DefaultTimeoutSeconds)
	}
}

func TestLoadConfigFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "jira_url: https://jira.example.com\njira_username: bob\njira_token: secret\nis_jira_cloud: true\nepic_start_field: customfield_20000\nrequests_per_second: 2.5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.IsJiraCloud {
		t.Error("IsJiraCloud = false, want true")
	}
	if cfg.EpicStartField != "customfield_20000" {
		t.Errorf("EpicStartField = %q", cfg.EpicStartField)
	}
	if cfg.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v, want 2.5", cfg.RequestsPerSecond)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JIRA_URL", "https://env.example.com/")
	t.Setenv("JIRA_USERNAME", "alice")
	t.Setenv("JIRA_TOKEN", "token")
	t.Setenv("JIRA_PROJECT", "ENV")
	t.Setenv("JIRA_IS_CLOUD", "true")
	t.Setenv("JIRA_TIMEOUT_SECONDS", "5")
	t.Setenv("JIRA_REQUESTS_PER_SECOND", "not-a-number")
	t.Setenv("GANTT_OUTPUT_DIR", "charts")

	cfg, err := LoadConfig("missing.json")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.JiraURL != "https://env.example.com" {
		t.Errorf("JiraURL = %q", cfg.JiraURL)
	}
	if cfg.JiraProject != "ENV" || !cfg.IsJiraCloud {
		t.Errorf("unexpected project/cloud: %+v", cfg)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %d, want 5", cfg.TimeoutSeconds)
	}
	if cfg.RequestsPerSecond != DefaultRequestsPerSecond {
		t.Errorf("RequestsPerSecond = %v, want default", cfg.RequestsPerSecond)
	}
	if cfg.OutputDir != "charts" {
		t.Errorf("OutputDir = %q, want charts", cfg.OutputDir)
	}
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() error = nil, want parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"complete", Config{JiraURL: "u", JiraUsername: "n", JiraToken: "t"}, ""},
		{"missing url", Config{JiraUsername: "n", JiraToken: "t"}, "jira_url"},
		{"missing username", Config{JiraURL: "u", JiraToken: "t"}, "jira_username"},
		{"missing token", Config{JiraURL: "u", JiraUsername: "n"}, "jira_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestCreateSampleConfigRoundTrips(t *testing.T) {
	for _, name := range []string{"config.sample.json", "config.sample.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := CreateSampleConfig(path); err != nil {
				t.Fatalf("CreateSampleConfig() error = %v", err)
			}
			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("sample config does not validate: %v", err)
			}
			if cfg.JiraProject != "PROJ" {
				t.Errorf("JiraProject = %q, want PROJ", cfg.JiraProject)
			}
		})
	}
}
