package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zeltlager-spelle/campsync/pkg/constants"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Campflow configuration
	BaseURL  string
	EventID  string
	APIToken string

	// Sheets configuration
	SpreadsheetID string
	Worksheet     string
	SheetsToken   string
	Reserved      int

	// Sync loop configuration
	PollInterval  time.Duration
	SnapshotPath  string
	SnapshotEvery time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.campsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindSecrets()

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".campsync")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		// Config file
		ConfigFile: viper.ConfigFileUsed(),

		// Campflow configuration
		BaseURL:  viper.GetString("base_url"),
		EventID:  viper.GetString("event_id"),
		APIToken: viper.GetString("api_token"),

		// Sheets configuration
		SpreadsheetID: viper.GetString("spreadsheet_id"),
		Worksheet:     viper.GetString("worksheet"),
		SheetsToken:   viper.GetString("sheets_token"),
		Reserved:      viper.GetInt("reserved"),

		// Sync loop configuration
		PollInterval:  viper.GetDuration("poll_interval"),
		SnapshotPath:  viper.GetString("snapshot_path"),
		SnapshotEvery: viper.GetDuration("snapshot_every"),

		// Logging configuration
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	// Set defaults
	if config.BaseURL == "" {
		config.BaseURL = constants.DefaultBaseURL
	}
	if config.EventID == "" {
		config.EventID = constants.DefaultEventID
	}
	if config.Worksheet == "" {
		config.Worksheet = constants.DefaultWorksheet
	}
	if config.Reserved == 0 {
		config.Reserved = constants.DefaultReserved
	}
	if config.PollInterval == 0 {
		config.PollInterval = constants.DefaultPollInterval
	}
	if config.SnapshotEvery == 0 {
		config.SnapshotEvery = constants.DefaultSnapshotEvery
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindSecrets explicitly binds the credential environment variables to
// Viper so values from .env files are visible through viper.Get.
func bindSecrets() {
	secrets := []string{
		"API_TOKEN",
		"SHEETS_TOKEN",
		"EVENT_ID",
		"SPREADSHEET_ID",
	}

	for _, key := range secrets {
		_ = viper.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
