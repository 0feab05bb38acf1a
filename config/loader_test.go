package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixarntz/wpdlib/errors"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"admin.yaml", FormatYAML, false},
		{"admin.YML", FormatYAML, false},
		{"dir/admin.json", FormatJSON, false},
		{"admin.toml", "", true},
		{"admin", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeManifest(t, "admin.yaml", sampleYAML)

	m, err := NewLoader(nil).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "my-plugin", m.Scope)
	require.Len(t, m.Components, 1)
	assert.Equal(t, "my-plugin", m.Components[0].Scope)
}

func TestLoader_Layers(t *testing.T) {
	l := NewLoader(nil)
	l.AddLayer(writeManifest(t, "base.yaml", sampleYAML))
	l.AddLayer(writeManifest(t, "extra.json", sampleJSON))

	m, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "other-plugin", m.Scope)
	require.Len(t, m.Components, 2)
	assert.Equal(t, "my-plugin", m.Components[0].Scope)
	assert.Equal(t, "other-plugin", m.Components[1].Scope)
	assert.Equal(t, "de-DE", m.Locale.Tag)
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("WPDLIB_SCOPE", "env-plugin")
	t.Setenv("WPDLIB_LOCALE", "fr-FR")
	t.Setenv("WPDLIB_TIMEZONE", "UTC")

	m, err := NewLoader(nil).LoadFile(writeManifest(t, "admin.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "env-plugin", m.Scope)
	assert.Equal(t, "fr-FR", m.Locale.Tag)
	assert.Equal(t, "UTC", m.Locale.Timezone)
	assert.Equal(t, "my-plugin", m.Components[0].Scope, "declared scopes are kept")
}

func TestLoader_EnvOverridesAreValidated(t *testing.T) {
	t.Setenv("WPDLIB_LOCALE", "not a tag!")

	_, err := NewLoader(nil).LoadFile(writeManifest(t, "admin.yaml", sampleYAML))
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(dir, "missing.yaml") },
			wantErr: errors.ErrConfigNotFound,
		},
		{
			name:    "schema mismatch",
			path:    func(t *testing.T) string { return writeManifest(t, "bad.yaml", "components: []\n") },
			wantErr: errors.ErrSchemaMismatch,
		},
		{
			name: "struct validation",
			path: func(t *testing.T) string {
				return writeManifest(t, "bad.yaml", strings.Replace(sampleYAML, "version: 1.2.0", "version: soon", 1))
			},
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name:    "broken json",
			path:    func(t *testing.T) string { return writeManifest(t, "bad.json", `{"hierarchy": {`) },
			wantErr: errors.ErrParsingFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil).LoadFile(tt.path(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.IsInvalid(err))
		})
	}

	_, err := NewLoader(nil).Load()
	assert.ErrorIs(t, err, errors.ErrMissingConfig)

	_, err = NewLoader(nil).LoadFile(writeManifest(t, "admin.txt", sampleYAML))
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestLoader_ValidationDisabled(t *testing.T) {
	l := NewLoader(nil)
	l.EnableValidation(false)

	m, err := l.LoadFile(writeManifest(t, "partial.yaml", "scope: loose\n"))
	require.NoError(t, err)
	assert.Equal(t, "loose", m.Scope)
	assert.Empty(t, m.Hierarchy)
}

func TestSafeReadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := safeReadFile(dir + string(os.PathSeparator) + "sub.yaml")
	assert.Error(t, err)

	sub := filepath.Join(dir, "sub.yaml")
	require.NoError(t, os.Mkdir(sub, 0o755))
	_, err = safeReadFile(sub)
	assert.ErrorContains(t, err, "not a regular file")

	_, err = safeReadFile("")
	assert.ErrorContains(t, err, "empty manifest path")

	_, err = safeReadFile(strings.Repeat("a", maxPathLen) + ".yaml")
	assert.ErrorContains(t, err, "path too long")

	data, err := safeReadFile(writeManifest(t, "ok.yml", "scope: x\n"))
	require.NoError(t, err)
	assert.Equal(t, "scope: x\n", string(data))
}

func TestValidateJSONDepth(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"flat", `{"a": 1}`, ""},
		{"brackets in strings", `{"a": "{[{[", "b": "\"}"}`, ""},
		{"too deep", strings.Repeat("[", maxJSONDepth+1) + strings.Repeat("]", maxJSONDepth+1), "too deep"},
		{"unbalanced", `{"a": 1}}`, "unbalanced"},
		{"unclosed", `{"a": [1`, "unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJSONDepth([]byte(tt.data))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateEnvVar(t *testing.T) {
	assert.NoError(t, validateEnvVar("WPDLIB_SCOPE", ""))
	assert.NoError(t, validateEnvVar("WPDLIB_SCOPE", "my-plugin"))
	assert.ErrorContains(t, validateEnvVar("WPDLIB_SCOPE", "a\x00b"), "null byte")
	assert.ErrorContains(t, validateEnvVar("WPDLIB_SCOPE", strings.Repeat("a", maxEnvVarLen+1)), "too long")
}
