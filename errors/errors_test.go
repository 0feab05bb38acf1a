package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			assert.Equal(t, test.expected, test.class.String())
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"missing config", ErrMissingConfig, true},
		{"config not found", ErrConfigNotFound, true},
		{"file missing in message", fmt.Errorf("open x.yaml: no such file or directory"), true},
		{"invalid config", ErrInvalidConfig, false},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, true},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsFatal(test.err))
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"invalid config", ErrInvalidConfig, true},
		{"parsing failed", ErrParsingFailed, true},
		{"schema mismatch", fmt.Errorf("wrapped: %w", ErrSchemaMismatch), true},
		{"domain error", New(CodeInvalidColor, "", "bad color"), true},
		{"plain error", errors.New("boom"), false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsInvalid(test.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ErrorInvalid, Classify(ErrDuplicateSlug))
	assert.Equal(t, ErrorInvalid, Classify(WrapInvalid(errors.New("x"), "Loader", "Load", "decode")))
	assert.Equal(t, ErrorFatal, Classify(WrapFatal(errors.New("x"), "Loader", "Load", "read")))
	assert.Equal(t, ErrorFatal, Classify(errors.New("something unexpected")))
}

func TestWrap(t *testing.T) {
	base := errors.New("boom")

	assert.Nil(t, Wrap(nil, "Loader", "LoadFile", "read manifest"))

	err := Wrap(base, "Loader", "LoadFile", "read manifest")
	assert.Equal(t, "Loader.LoadFile: read manifest failed: boom", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestWrapClassified(t *testing.T) {
	base := errors.New("boom")

	err := WrapInvalid(base, "Registry", "Register", "register counter")
	var ce *ClassifiedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrorInvalid, ce.Class)
	assert.Equal(t, "Registry", ce.Component)
	assert.Equal(t, "Register", ce.Operation)
	assert.ErrorIs(t, err, base)

	err = WrapFatal(base, "Registry", "Register", "register counter")
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrorFatal, ce.Class)

	assert.Nil(t, WrapInvalid(nil, "a", "b", "c"))
	assert.Nil(t, WrapFatal(nil, "a", "b", "c"))
}

func TestDomainError(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := New(CodeDuplicateSlug, "my-plugin", "slug taken")
		assert.ErrorIs(t, err, ErrDuplicateSlug)
		assert.NotErrorIs(t, err, ErrEmptySlug)
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", Newf(CodeTooLate, "", "after %s", "init"))
		assert.ErrorIs(t, err, ErrTooLate)
		assert.Equal(t, CodeTooLate, CodeOf(err))
	})

	t.Run("message includes scope", func(t *testing.T) {
		err := New(CodeNotTopLevel, "my-plugin", "not a toplevel component")
		assert.Equal(t, "no_toplevel_component [my-plugin]: not a toplevel component", err.Error())
		assert.Equal(t, "component_no_slug", ErrEmptySlug.Error())
	})

	t.Run("with data copies", func(t *testing.T) {
		err := New(CodeInvalidOption, "", "bad").WithData("radio")
		assert.Equal(t, "radio", err.Data)
		assert.Equal(t, CodeInvalidOption, err.Code)
	})

	t.Run("code of non-domain error", func(t *testing.T) {
		assert.Equal(t, Code(""), CodeOf(errors.New("x")))
		assert.Equal(t, Code(""), CodeOf(nil))
	})
}
