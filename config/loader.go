package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixarntz/wpdlib/errors"
)

// EnvPrefix prefixes the environment variables that override manifests
const EnvPrefix = "WPDLIB"

// Format is a manifest document encoding.
type Format string

// Supported manifest formats
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath returns the format for a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: only YAML and JSON manifests are supported: %s", errors.ErrInvalidConfig, path)
}

// Loader loads manifests from layered files. Later layers add to and
// override earlier ones.
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
	logger     *slog.Logger
}

// NewLoader creates a loader with validation enabled
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		layers:     []string{},
		validation: true,
		envPrefix:  EnvPrefix,
		logger:     logger,
	}
}

// AddLayer adds a manifest file layer
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables schema and structure validation
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads a manifest from a single file
func (l *Loader) LoadFile(path string) (*Manifest, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load loads and merges all layers, then applies environment overrides
func (l *Loader) Load() (*Manifest, error) {
	if len(l.layers) == 0 {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Loader", "Load", "find manifest layers")
	}

	m := &Manifest{}
	for _, path := range l.layers {
		layer, err := l.loadLayer(path)
		if err != nil {
			return nil, err
		}
		m.Merge(layer)
		l.logger.Debug("manifest layer loaded",
			"path", path,
			"scope", layer.Scope,
			"components", len(layer.Components))
	}

	if err := l.applyEnvOverrides(m); err != nil {
		return nil, err
	}

	if l.validation {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (l *Loader) loadLayer(path string) (*Manifest, error) {
	data, err := safeReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapInvalid(fmt.Errorf("%w: %s", errors.ErrConfigNotFound, path),
				"Loader", "Load", "read layer")
		}
		return nil, errors.WrapInvalid(err, "Loader", "Load", "read layer")
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Loader", "Load", "detect format")
	}

	if l.validation {
		if err := CheckDocument(data, format); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	m, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// CheckDocument validates raw manifest data against the schema
func CheckDocument(data []byte, format Format) error {
	switch format {
	case FormatJSON:
		if err := validateJSONDepth(data); err != nil {
			return errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrParsingFailed, err),
				"config", "CheckDocument", "scan document")
		}
		return ValidateJSON(data)
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrParsingFailed, err),
				"config", "CheckDocument", "parse document")
		}
		return ValidateDocument(doc)
	}
	return errors.WrapInvalid(fmt.Errorf("%w: unknown format %q", errors.ErrInvalidConfig, format),
		"config", "CheckDocument", "detect format")
}

// Decode decodes a manifest without validating it
func Decode(data []byte, format Format) (*Manifest, error) {
	m := &Manifest{}
	var err error
	switch format {
	case FormatJSON:
		if err = validateJSONDepth(data); err == nil {
			err = json.Unmarshal(data, m)
		}
	case FormatYAML:
		err = yaml.Unmarshal(data, m)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, errors.WrapInvalid(fmt.Errorf("%w: %v", errors.ErrParsingFailed, err),
			"config", "Decode", "decode manifest")
	}
	return m, nil
}

// applyEnvOverrides applies the <prefix>_SCOPE, _LOCALE and _TIMEZONE
// environment variables
func (l *Loader) applyEnvOverrides(m *Manifest) error {
	overrides := []struct {
		suffix string
		target *string
	}{
		{"_SCOPE", &m.Scope},
		{"_LOCALE", &m.Locale.Tag},
		{"_TIMEZONE", &m.Locale.Timezone},
	}
	for _, o := range overrides {
		key := l.envPrefix + o.suffix
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		if err := validateEnvVar(key, val); err != nil {
			return errors.WrapInvalid(err, "Loader", "Load", "apply environment overrides")
		}
		*o.target = val
		l.logger.Debug("manifest override from environment", "variable", key)
	}
	return nil
}
