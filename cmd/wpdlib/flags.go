package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	Manifests []string
	LogLevel  string
	LogFormat string
}

func defaultGlobalOptions() *globalOptions {
	return &globalOptions{
		Manifests: getEnvList("WPDLIB_MANIFEST"),
		LogLevel:  getEnv("WPDLIB_LOG_LEVEL", "warn"),
		LogFormat: getEnv("WPDLIB_LOG_FORMAT", "text"),
	}
}

func (o *globalOptions) validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, o.LogLevel) {
		return fmt.Errorf("invalid log level: %s", o.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !slices.Contains(validFormats, o.LogFormat) {
		return fmt.Errorf("invalid log format: %s", o.LogFormat)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
