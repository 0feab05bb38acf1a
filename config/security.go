package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	maxManifestSize = 10 << 20
	maxJSONDepth    = 100
	maxEnvVarLen    = 10000
	maxPathLen      = 4096
)

// validateManifestPath checks the path length and extension
func validateManifestPath(path string) error {
	if path == "" {
		return errors.New("empty manifest path")
	}

	if len(path) > maxPathLen {
		return fmt.Errorf("path too long: %d > %d", len(path), maxPathLen)
	}

	if _, err := FormatFromPath(path); err != nil {
		return err
	}

	return nil
}

// safeReadFile reads a manifest file after checking its path, size and
// file mode
func safeReadFile(path string) ([]byte, error) {
	if err := validateManifestPath(path); err != nil {
		return nil, fmt.Errorf("invalid manifest path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat manifest: %w", err)
	}

	if info.Size() > maxManifestSize {
		return nil, fmt.Errorf("manifest too large: %d bytes > %d", info.Size(), maxManifestSize)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest: %w", err)
	}

	return data, nil
}

// validateEnvVar does basic environment variable validation
func validateEnvVar(key, value string) error {
	if value == "" {
		return nil // Empty is OK
	}

	// Basic length check
	if len(value) > maxEnvVarLen {
		return fmt.Errorf("environment variable %s too long: %d > %d", key, len(value), maxEnvVarLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("null byte in environment variable %s", key)
	}

	return nil
}

// validateJSONDepth rejects JSON nested deeper than maxJSONDepth
func validateJSONDepth(data []byte) error {
	depth := 0
	maxDepthReached := 0
	inString := false
	escaped := false

	for i := 0; i < len(data); i++ {
		b := data[i]

		// Handle string state
		if escaped {
			escaped = false
			continue
		}

		if b == '\\' && inString {
			escaped = true
			continue
		}

		if b == '"' && !escaped {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		// Track depth
		switch b {
		case '{', '[':
			depth++
			if depth > maxDepthReached {
				maxDepthReached = depth
			}
			if depth > maxJSONDepth {
				return fmt.Errorf("JSON nesting too deep: %d > %d", depth, maxJSONDepth)
			}
		case '}', ']':
			depth--
			if depth < 0 {
				return errors.New("malformed JSON: unbalanced brackets")
			}
		}
	}

	if depth != 0 {
		return fmt.Errorf("malformed JSON: unclosed brackets (depth=%d)", depth)
	}

	return nil
}
