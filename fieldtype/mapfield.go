package fieldtype

import (
	"encoding/json"
	"maps"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/felixarntz/wpdlib/errors"
)

// Map storage modes
const (
	StoreAddress = "address"
	StoreCoords  = "coords"
)

const coordsDecimals = 10

// coordPattern accepts plain decimals once the locale separator is swapped
// for a dot
var coordPattern = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)$`)

// Map stores either a free-text address or coordinates as "lat|lng".
type Map struct {
	Base
}

func newMap(m *Manager, typ string, args Args) *Map {
	if args.String("store", "") != StoreCoords {
		args["store"] = StoreAddress
	} else if !args.Has("placeholder") {
		args["placeholder"] = "0.0|0.0"
	}
	return &Map{Base: newBase(m, typ, args)}
}

// Store returns the storage mode
func (mp *Map) Store() string {
	return mp.args.String("store", StoreAddress)
}

func splitCoords(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Display implements Field
func (mp *Map) Display(value any) string {
	attrs := mp.attrs()
	attrs["value"] = toString(value)
	if mp.Store() == StoreCoords {
		attrs["value"] = toString(mp.Parse(value, Formatted))
	}

	settings := map[string]any{}
	if raw := mp.args.String("data-settings", ""); raw != "" {
		_ = json.Unmarshal([]byte(raw), &settings)
	}
	maps.Copy(settings, map[string]any{
		"store":             mp.Store(),
		"decimal_separator": mp.m.locale.DecimalPoint(),
	})
	if encoded, err := json.Marshal(settings); err == nil {
		attrs["data-settings"] = string(encoded)
	}
	return `<input type="text"` + MakeHTMLAttributes(attrs, false) + ` />`
}

// Validate implements Field. Coordinates accept the locale decimal
// separator, must lie within [-90, 90] and [-180, 180] and are stored in
// their shortest decimal form.
func (mp *Map) Validate(value any) (any, error) {
	if isEmptyValue(value) {
		return mp.valid("")
	}
	raw := toString(value)
	if mp.Store() != StoreCoords {
		return mp.valid(mp.m.FormatString(raw, KindString, ModeInput, nil))
	}

	parts := splitCoords(raw)
	if len(parts) != 2 {
		return mp.invalid(mp.formatError(raw))
	}
	sep := mp.m.locale.DecimalPoint()
	var coords [2]float64
	for i, p := range parts {
		if sep != "." {
			p = strings.ReplaceAll(p, sep, ".")
		}
		if !coordPattern.MatchString(p) {
			return mp.invalid(mp.formatError(raw))
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return mp.invalid(mp.formatError(raw))
		}
		coords[i] = f
	}

	lat, lng := coords[0], coords[1]
	if lat < -90 || lat > 90 {
		return mp.invalid(errors.Newf(errors.CodeLatitudeOutOfRange, "",
			"The latitude %s is invalid. It must be between %s and %s.",
			mp.m.locale.FormatNumber(lat, coordsDecimals),
			mp.m.locale.FormatNumber(-90, 2), mp.m.locale.FormatNumber(90, 2)).WithData(lat))
	}
	if lng < -180 || lng > 180 {
		return mp.invalid(errors.Newf(errors.CodeLongitudeRange, "",
			"The longitude %s is invalid. It must be between %s and %s.",
			mp.m.locale.FormatNumber(lng, coordsDecimals),
			mp.m.locale.FormatNumber(-180, 2), mp.m.locale.FormatNumber(180, 2)).WithData(lng))
	}
	return mp.valid(strconv.FormatFloat(lat, 'f', -1, 64) + "|" + strconv.FormatFloat(lng, 'f', -1, 64))
}

func (mp *Map) formatError(raw string) error {
	return errors.Newf(errors.CodeInvalidCoords, "",
		`The string %s is not in valid geo coordinates format. It must be specified in the format "latitude|longitude".`,
		mp.m.FormatString(raw, KindString, ModeOutput, nil)).WithData(raw)
}

// IsEmpty implements Field
func (mp *Map) IsEmpty(value any) bool {
	if mp.Store() == StoreCoords {
		return len(splitCoords(toString(value))) != 2
	}
	return isEmptyValue(value)
}

// Parse implements Field
func (mp *Map) Parse(value any, f Formatting) any {
	if mp.Store() != StoreCoords {
		return mp.m.FormatString(value, KindString, f.mode(), f.Options)
	}
	parts := strings.Split(toString(value), "|")
	if len(parts) != 2 {
		return ""
	}
	opts := Args{"decimals": coordsDecimals}
	return mp.m.FormatString(parts[0], KindFloat, f.mode(), opts) + "|" +
		mp.m.FormatString(parts[1], KindFloat, f.mode(), opts)
}

// Assets implements Field
func (mp *Map) Assets() Assets {
	return Assets{Dependencies: []string{"wp-map-picker"}}
}
