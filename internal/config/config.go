package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/bhall66/DacTone/internal/register"
)

type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	APIKey      string
	CORSOrigins []string
	LogLevel    string
	Channels    []register.Channel
	JournalSize int
	MaxCommands int
}

// Load reads the configuration from the environment. Every invalid
// variable is reported, not just the first.
func Load() (*Config, error) {
	channels, chErr := parseChannels(getEnv("DACTONE_CHANNELS", "1,2"))
	journal, jErr := getEnvInt("DACTONE_JOURNAL_SIZE", register.DefaultJournalSize)
	maxCommands, mErr := getEnvInt("DACTONE_MAX_COMMANDS", 64)
	if err := multierr.Combine(chErr, jErr, mErr); err != nil {
		return nil, err
	}

	return &Config{
		HTTPAddr:    getEnv("DACTONE_HTTP_ADDR", ":8080"),
		GRPCAddr:    getEnv("DACTONE_GRPC_ADDR", ":9090"),
		APIKey:      getEnv("DACTONE_API_KEY", ""),
		CORSOrigins: splitList(getEnv("DACTONE_CORS_ORIGINS", "*")),
		LogLevel:    getEnv("DACTONE_LOG_LEVEL", "info"),
		Channels:    channels,
		JournalSize: journal,
		MaxCommands: maxCommands,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: expected a positive integer, got %q", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseChannels(s string) ([]register.Channel, error) {
	var out []register.Channel
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(part)
		if err != nil || !register.Channel(n).Valid() {
			return nil, fmt.Errorf("DACTONE_CHANNELS: invalid channel %q", part)
		}
		out = append(out, register.Channel(n))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("DACTONE_CHANNELS: no channels")
	}
	return out, nil
}
