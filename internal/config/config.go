package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pable/go-fab-history/internal/parser"
)

// Config holds process settings. Command-line flags override these values.
type Config struct {
	DBPath          string
	LogLevel        string
	Addr            string
	ColumnsPath     string
	AnthropicAPIKey string
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	// A missing .env is fine; the environment and defaults still apply.
	_ = godotenv.Load()

	return &Config{
		DBPath:          getEnv("FABHISTORY_DB", defaultDBPath()),
		LogLevel:        getEnv("FABHISTORY_LOG_LEVEL", "info"),
		Addr:            getEnv("FABHISTORY_ADDR", ":8050"),
		ColumnsPath:     getEnv("FABHISTORY_COLUMNS", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
	}
}

// LoadColumns reads a YAML column mapping. An empty path yields the defaults.
func LoadColumns(path string) (parser.ColumnMap, error) {
	if path == "" {
		return parser.DefaultColumns, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return parser.ColumnMap{}, fmt.Errorf("read column mapping: %w", err)
	}
	var cols parser.ColumnMap
	if err := yaml.Unmarshal(b, &cols); err != nil {
		return parser.ColumnMap{}, fmt.Errorf("parse column mapping %s: %w", path, err)
	}
	return cols.WithDefaults(), nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".fabhistory", "history.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
