package errors

import (
	"errors"
	"fmt"
)

// Code is the machine-readable identifier of a domain error.
type Code string

// Domain error codes
const (
	CodeTooLate            Code = "too_late_component"
	CodeNotAComponent      Code = "no_component"
	CodeInvalidChild       Code = "no_valid_child_component"
	CodeDuplicateSlug      Code = "component_duplicate_slug"
	CodeEmptySlug          Code = "component_no_slug"
	CodeMultiParent        Code = "no_multiparent_component"
	CodeNotTopLevel        Code = "no_toplevel_component"
	CodeForeignComponent   Code = "component_foreign_registry"
	CodeUnknownFieldType   Code = "unknown_field_type"
	CodeOptionsUnresolved  Code = "options_unresolved"
	CodeInvalidOption      Code = "invalid_option"
	CodeInvalidStep        Code = "invalid_number_step"
	CodeTooSmall           Code = "invalid_number_too_small"
	CodeTooBig             Code = "invalid_number_too_big"
	CodeTooEarly           Code = "invalid_date_too_early"
	CodeDateTooLate        Code = "invalid_date_too_late"
	CodeInvalidDate        Code = "invalid_date_format"
	CodeInvalidColor       Code = "invalid_color_hex"
	CodeInvalidEmail       Code = "invalid_email"
	CodeInvalidPostType    Code = "invalid_media_post_type"
	CodeInvalidMimeType    Code = "invalid_media_mime_type"
	CodeInvalidCoords      Code = "invalid_map_coords_format"
	CodeLatitudeOutOfRange Code = "invalid_map_coords_latitude"
	CodeLongitudeRange     Code = "invalid_map_coords_longitude"
)

// Sentinels for errors.Is comparisons. Matching is by code only.
var (
	ErrTooLate                 = &Error{Code: CodeTooLate}
	ErrNotAComponent           = &Error{Code: CodeNotAComponent}
	ErrInvalidChild            = &Error{Code: CodeInvalidChild}
	ErrDuplicateSlug           = &Error{Code: CodeDuplicateSlug}
	ErrEmptySlug               = &Error{Code: CodeEmptySlug}
	ErrMultiParentNotSupported = &Error{Code: CodeMultiParent}
	ErrNotTopLevel             = &Error{Code: CodeNotTopLevel}
	ErrForeignComponent        = &Error{Code: CodeForeignComponent}
	ErrUnknownFieldType        = &Error{Code: CodeUnknownFieldType}
	ErrOptionsUnresolved       = &Error{Code: CodeOptionsUnresolved}
	ErrInvalidOption           = &Error{Code: CodeInvalidOption}
	ErrInvalidStep             = &Error{Code: CodeInvalidStep}
	ErrTooSmall                = &Error{Code: CodeTooSmall}
	ErrTooBig                  = &Error{Code: CodeTooBig}
	ErrTooEarly                = &Error{Code: CodeTooEarly}
	ErrDateTooLate             = &Error{Code: CodeDateTooLate}
	ErrInvalidDate             = &Error{Code: CodeInvalidDate}
	ErrInvalidColor            = &Error{Code: CodeInvalidColor}
	ErrInvalidEmail            = &Error{Code: CodeInvalidEmail}
	ErrInvalidPostType         = &Error{Code: CodeInvalidPostType}
	ErrInvalidMimeType         = &Error{Code: CodeInvalidMimeType}
	ErrInvalidCoordsFormat     = &Error{Code: CodeInvalidCoords}
	ErrLatitudeOutOfRange      = &Error{Code: CodeLatitudeOutOfRange}
	ErrLongitudeOutOfRange     = &Error{Code: CodeLongitudeRange}
)

// Error is a domain error. It is a value: callers inspect Code rather than
// parsing Message.
type Error struct {
	Code    Code
	Message string
	Data    any
	Scope   string
}

// New creates a domain error.
func New(code Code, scope, message string) *Error {
	return &Error{Code: code, Message: message, Scope: scope}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, scope, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Scope: scope}
}

// WithData returns a copy of e carrying data.
func (e *Error) WithData(data any) *Error {
	cp := *e
	cp.Data = data
	return &cp
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	if e.Scope != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Code, e.Scope, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is a domain error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the code of the first domain error in err's chain, or the
// empty code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
