package fieldtype

import (
	"math"

	"github.com/felixarntz/wpdlib/errors"
)

const stepTolerance = 1e-9

// Number backs number and range fields. The type of the step argument
// decides whether values are integers or floats; step defaults to 1.
type Number struct {
	Base
	integer bool
}

func newNumber(m *Manager, typ string, args Args) *Number {
	if !args.IsSet("step") {
		args["step"] = 1
	}
	return &Number{
		Base:    newBase(m, typ, args),
		integer: isIntegral(args["step"]),
	}
}

// Integer reports whether the field stores integers
func (n *Number) Integer() bool { return n.integer }

func (n *Number) kind() string {
	if n.integer {
		return KindInt
	}
	return KindFloat
}

func (n *Number) number(v any) float64 {
	f, _ := toFloat(n.m.Format(v, n.kind(), ModeInput, nil))
	return f
}

func (n *Number) result(f float64) any {
	if n.integer {
		return int64(f)
	}
	return f
}

func (n *Number) output(v any) string {
	return n.m.FormatString(v, n.kind(), ModeOutput, nil)
}

// Display implements Field
func (n *Number) Display(value any) string {
	attrs := n.attrs()
	attrs["value"] = toString(value)
	input := `<input type="` + n.typ + `"` + MakeHTMLAttributes(attrs, false) + ` />`
	if n.typ != TypeRange {
		return input
	}
	viewer := map[string]any{
		"id":    n.id() + "-" + n.typ + "-viewer",
		"class": "wpdlib-input-" + n.typ + "-viewer",
		"value": toString(value),
	}
	return `<input type="text"` + MakeHTMLAttributes(viewer, false) + ` />` + input
}

// Validate implements Field. Checks run in the order step, min, max; bounds
// are inclusive.
func (n *Number) Validate(value any) (any, error) {
	if value == nil {
		if n.args.IsSet("min") {
			if min := n.number(n.args["min"]); min > 0 {
				return n.valid(n.result(min))
			}
		}
		return n.valid(n.result(0))
	}

	v := n.number(value)
	if step := n.number(n.args["step"]); step != 0 && !divisible(v, step) {
		return n.invalid(errors.Newf(errors.CodeInvalidStep, "",
			"The number %s is invalid since it is not divisible by %s.",
			n.output(v), n.output(step)).WithData(v))
	}
	if n.args.IsSet("min") {
		if min := n.number(n.args["min"]); v < min {
			return n.invalid(errors.Newf(errors.CodeTooSmall, "",
				"The number %s is invalid. It must be greater than or equal to %s.",
				n.output(v), n.output(min)).WithData(v))
		}
	}
	if n.args.IsSet("max") {
		if max := n.number(n.args["max"]); v > max {
			return n.invalid(errors.Newf(errors.CodeTooBig, "",
				"The number %s is invalid. It must be lower than or equal to %s.",
				n.output(v), n.output(max)).WithData(v))
		}
	}
	return n.valid(n.result(v))
}

func divisible(v, step float64) bool {
	r := math.Abs(math.Mod(v, step))
	step = math.Abs(step)
	return r < stepTolerance || step-r < stepTolerance
}

// Parse implements Field
func (n *Number) Parse(value any, f Formatting) any {
	if f.Enabled {
		return n.m.FormatString(value, n.kind(), ModeOutput, f.Options)
	}
	return n.result(n.number(value))
}

// IsEmpty implements Field
func (n *Number) IsEmpty(value any) bool {
	return isEmptyValue(value)
}
