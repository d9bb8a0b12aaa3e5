package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pmehta/expenso/internal/identity"
	"github.com/pmehta/expenso/internal/parser"
	"github.com/pmehta/expenso/internal/sheets"
)

// LoadSheetsConfig loads spreadsheet configuration. Precedence:
// 1. Viper configuration (from config file or EXPENSO_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig() (sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.name"); v != "" {
		config.SheetName = v
	}
	if v := viper.GetString("sheets.worksheet"); v != "" {
		config.WorksheetTitle = v
	}
	if v := viper.GetInt("sheets.retry_attempts"); v > 0 {
		config.RetryAttempts = v
	}
	if v := viper.GetDuration("sheets.retry_delay"); v > 0 {
		config.RetryDelay = v
	}

	if config.SheetName == sheets.DefaultConfig().SheetName {
		if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" {
			config.SheetName = v
		}
	}

	if err := config.Validate(); err != nil {
		return sheets.Config{}, err
	}
	return config, nil
}

// LoadParserConfig loads the remote classifier configuration. The API key
// comes from Viper or the OPENAI_API_KEY environment variable; an empty
// key is valid and means "fallback parser only".
func LoadParserConfig() parser.Config {
	config := parser.Config{
		APIKey:      viper.GetString("openai.api_key"),
		Model:       viper.GetString("openai.model"),
		BaseURL:     viper.GetString("openai.base_url"),
		Temperature: viper.GetFloat64("openai.temperature"),
		MaxTokens:   viper.GetInt("openai.max_tokens"),
	}

	if config.APIKey == "" {
		config.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return config
}

// LoadIdentityConfig loads Google OAuth client configuration. Precedence
// mirrors LoadSheetsConfig: Viper first, then GOOGLE_CLIENT_* environment
// variables.
func LoadIdentityConfig() identity.Config {
	config := identity.Config{
		ClientID:     viper.GetString("google.client_id"),
		ClientSecret: viper.GetString("google.client_secret"),
		CallbackPort: viper.GetInt("google.callback_port"),
		Timeout:      viper.GetDuration("google.auth_timeout"),
	}

	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Minute
	}

	return config
}

// DatabasePath returns the path to the profile database, creating a
// sensible default under the user config directory when unset.
func DatabasePath() string {
	if v := viper.GetString("database.path"); v != "" {
		return ExpandPath(v)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "expenso.db"
	}
	return filepath.Join(configDir, "expenso", "expenso.db")
}
