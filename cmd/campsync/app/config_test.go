package app

import (
	"os"
	"testing"
	"time"

	"github.com/zeltlager-spelle/campsync/pkg/constants"
)

// TestLoadConfig verifies basic config loading and defaults.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	if config.BaseURL == "" {
		t.Error("BaseURL not set to default")
	}
	if config.Worksheet == "" {
		t.Error("Worksheet not set to default")
	}
	if config.Reserved != constants.DefaultReserved {
		t.Errorf("Reserved = %d, want %d", config.Reserved, constants.DefaultReserved)
	}
	if config.PollInterval != constants.DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", config.PollInterval, constants.DefaultPollInterval)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("EVENT_ID", "lst_testEvent")
	t.Setenv("SPREADSHEET_ID", "sheet-123")
	t.Setenv("API_TOKEN", "tok-abc")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.EventID != "lst_testEvent" {
		t.Errorf("EventID = %s, want lst_testEvent", config.EventID)
	}
	if config.SpreadsheetID != "sheet-123" {
		t.Errorf("SpreadsheetID = %s, want sheet-123", config.SpreadsheetID)
	}
	if config.APIToken != "tok-abc" {
		t.Errorf("APIToken = %s, want tok-abc", config.APIToken)
	}
}

// TestConfig_PollInterval verifies time duration parsing.
func TestConfig_PollInterval(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "2s")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", config.PollInterval)
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence over env values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "error")

	if !config.Verbose {
		t.Error("Verbose not updated from flags")
	}
	if !config.NoColor {
		t.Error("NoColor not updated from flags")
	}
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error", config.LogLevel)
	}

	// An empty log-level flag must not clobber the env value.
	config.UpdateFromFlags(false, true, false, "")
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error after empty flag", config.LogLevel)
	}
}

// TestGetEnvOrDefault verifies the fallback helper.
func TestGetEnvOrDefault(t *testing.T) {
	key := "CAMPSYNC_TEST_ENV_KEY"
	os.Unsetenv(key)

	if got := getEnvOrDefault(key, "fallback"); got != "fallback" {
		t.Errorf("getEnvOrDefault() = %s, want fallback", got)
	}

	t.Setenv(key, "set")
	if got := getEnvOrDefault(key, "fallback"); got != "set" {
		t.Errorf("getEnvOrDefault() = %s, want set", got)
	}
}
