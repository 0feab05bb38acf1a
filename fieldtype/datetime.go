package fieldtype

import (
	"fmt"
	"strings"

	"github.com/felixarntz/wpdlib/errors"
)

// Datetime backs datetime, date and time fields. Values are stored in the
// lexically ordered canonical layouts DatetimeLayout, DateLayout and
// TimeLayout.
type Datetime struct {
	Base

	// canonical min and max, empty when unset
	min, max string
}

// newDatetime rejects min and max bounds that do not parse as dates of typ.
func newDatetime(m *Manager, typ string, args Args) (*Datetime, error) {
	d := &Datetime{Base: newBase(m, typ, args)}
	for _, b := range []struct {
		key    string
		target *string
	}{{"min", &d.min}, {"max", &d.max}} {
		raw := strings.TrimSpace(args.String(b.key, ""))
		if raw == "" {
			continue
		}
		v, ok := d.canonical(raw)
		if !ok {
			return nil, errors.WrapInvalid(fmt.Errorf("%s bound %q is not a valid %s", b.key, raw, typ),
				"Datetime", "newDatetime", "parse bound")
		}
		*b.target = v
	}
	return d, nil
}

// Display implements Field
func (d *Datetime) Display(value any) string {
	attrs := d.attrs()
	attrs["value"] = toString(d.Parse(value, Formatted))
	return `<input type="text"` + MakeHTMLAttributes(attrs, false) + ` />`
}

// canonical parses s after mapping localized names back to English. Time
// values carry no names.
func (d *Datetime) canonical(s string) (string, bool) {
	if d.typ != TypeTime {
		s = d.m.locale.Untranslate(s)
	}
	t, ok := d.m.parseTime(s)
	if !ok {
		return "", false
	}
	return d.m.FormatString(t, d.typ, ModeInput, nil), true
}

// Validate implements Field. Bounds are compared on the canonical string
// form, which orders the same as the dates it encodes.
func (d *Datetime) Validate(value any) (any, error) {
	if value == nil {
		return d.valid(d.m.FormatString(d.m.now(), d.typ, ModeInput, nil))
	}

	raw := strings.TrimSpace(toString(value))
	v, ok := d.canonical(raw)
	if !ok {
		return d.invalid(errors.Newf(errors.CodeInvalidDate, "",
			"%s is not a valid date.", d.m.FormatString(raw, KindString, ModeOutput, nil)).WithData(raw))
	}

	if d.min != "" && v < d.min {
		return d.invalid(errors.Newf(errors.CodeTooEarly, "",
			"The date %s is invalid. It must not occur earlier than %s.",
			d.m.FormatString(v, d.typ, ModeOutput, nil),
			d.m.FormatString(d.min, d.typ, ModeOutput, nil)).WithData(v))
	}
	if d.max != "" && v > d.max {
		return d.invalid(errors.Newf(errors.CodeDateTooLate, "",
			"The date %s is invalid. It must not occur later than %s.",
			d.m.FormatString(v, d.typ, ModeOutput, nil),
			d.m.FormatString(d.max, d.typ, ModeOutput, nil)).WithData(v))
	}
	return d.valid(v)
}

// Parse implements Field. The "format" option overrides the output pattern.
func (d *Datetime) Parse(value any, f Formatting) any {
	return d.m.FormatString(value, d.typ, f.mode(), f.Options)
}

// Assets implements Field
func (d *Datetime) Assets() Assets {
	l := d.m.locale
	return Assets{
		Dependencies: []string{"datetimepicker"},
		ScriptVars: map[string]any{
			"language":      l.Language(),
			"date_format":   l.DateFormat,
			"time_format":   l.TimeFormat,
			"start_of_week": l.StartOfWeek,
		},
	}
}
