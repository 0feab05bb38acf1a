package fieldtype

import (
	"html"
	"math"
	"mime"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/ncruces/go-strftime"
)

// Format kinds
const (
	KindString   = "string"
	KindHTML     = "html"
	KindURL      = "url"
	KindBool     = "boolean"
	KindInt      = "integer"
	KindFloat    = "float"
	KindDate     = "date"
	KindTime     = "time"
	KindDatetime = "datetime"
	KindByte     = "byte"
)

// Format modes
const (
	ModeInput  = "input"
	ModeOutput = "output"
)

// Canonical storage layouts for date values
const (
	DateLayout     = "20060102"
	TimeLayout     = "150405"
	DatetimeLayout = "20060102150405"
)

var kindAliases = map[string]string{
	"bool":   KindBool,
	"int":    KindInt,
	"double": KindFloat,
}

var byteUnits = []string{"B", "kB", "MB", "GB", "TB"}

var allowedSchemes = []string{
	"http", "https", "ftp", "ftps", "mailto", "news", "irc", "gopher", "nntp",
	"feed", "telnet", "mms", "rtsp", "svn", "tel", "fax", "xmpp", "webcal", "urn",
}

// Format converts value to the representation of kind. ModeInput produces
// the canonical storage form, ModeOutput the human readable form; any other
// mode is treated as input. Recognised opts are positive_only (integer,
// float), decimals (float, byte), base_unit (byte) and format (date kinds,
// a strftime pattern). Unknown kinds return value unchanged.
func (m *Manager) Format(value any, kind, mode string, opts Args) any {
	if alias, ok := kindAliases[kind]; ok {
		kind = alias
	}
	output := mode == ModeOutput

	switch kind {
	case KindString:
		return m.strict.Sanitize(toString(value))
	case KindHTML:
		s := m.ugc.Sanitize(toString(value))
		if output {
			s = autop(s)
		}
		return s
	case KindURL:
		s := sanitizeURL(html.UnescapeString(toString(value)))
		if output {
			s = html.EscapeString(s)
		}
		return s
	case KindBool:
		b := toBool(value)
		if output {
			return strconv.FormatBool(b)
		}
		return b
	case KindInt:
		return m.formatInt(value, output, opts)
	case KindFloat:
		return m.formatFloat(value, output, opts)
	case KindDate, KindTime, KindDatetime:
		return m.formatDate(value, kind, output, opts)
	case KindByte:
		return m.formatBytes(value, output, opts)
	}
	return value
}

// FormatString is Format for string results
func (m *Manager) FormatString(value any, kind, mode string, opts Args) string {
	return toString(m.Format(value, kind, mode, opts))
}

func (m *Manager) formatInt(value any, output bool, opts Args) any {
	f, _ := toFloat(value)
	i := int64(f)
	if opts.Bool("positive_only", false) && i < 0 {
		i = -i
	}
	if output {
		return m.locale.FormatNumber(float64(i), 0)
	}
	return i
}

func (m *Manager) formatFloat(value any, output bool, opts Args) any {
	f, _ := toFloat(value)
	if opts.Bool("positive_only", false) {
		f = math.Abs(f)
	}
	if output {
		return m.locale.FormatNumber(f, opts.Int("decimals", 2))
	}
	if opts.Has("decimals") {
		return strconv.FormatFloat(f, 'f', absInt(opts.Int("decimals", 0)), 64)
	}
	return f
}

func (m *Manager) formatBytes(value any, output bool, opts Args) any {
	f, _ := toFloat(value)
	if !output {
		if opts.Has("decimals") {
			return strconv.FormatFloat(f, 'f', absInt(opts.Int("decimals", 0)), 64)
		}
		return f
	}

	decimals := absInt(opts.Int("decimals", 2))
	if base := opts.String("base_unit", "B"); base != "B" {
		for i, unit := range byteUnits {
			if unit == base {
				f *= math.Pow(1024, float64(i))
				break
			}
		}
	}
	for i := len(byteUnits) - 1; i > 0; i-- {
		if scale := math.Pow(1024, float64(i)); f >= scale {
			return m.locale.FormatNumber(f/scale, decimals) + " " + byteUnits[i]
		}
	}
	return m.locale.FormatNumber(f, decimals) + " B"
}

func (m *Manager) formatDate(value any, kind string, output bool, opts Args) any {
	t, ok := m.toTime(value)
	if !ok {
		return ""
	}
	t = t.In(m.locale.Location)

	pattern := opts.String("format", "")
	if pattern == "" && !output {
		return t.Format(canonicalLayout(kind))
	}
	if pattern == "" {
		switch kind {
		case KindDate:
			pattern = m.locale.DateFormat
		case KindTime:
			pattern = m.locale.TimeFormat
		default:
			pattern = m.locale.DateFormat + " " + m.locale.TimeFormat
		}
	}

	s := strftime.Format(pattern, t)
	if output {
		s = m.locale.Translate(s)
	}
	return s
}

func canonicalLayout(kind string) string {
	switch kind {
	case KindDate:
		return DateLayout
	case KindTime:
		return TimeLayout
	}
	return DatetimeLayout
}

// toTime interprets numbers as unix timestamps and strings as canonical
// storage forms or free-form dates in the locale's zone.
func (m *Manager) toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		return m.parseTime(v)
	}
	if f, ok := toFloat(value); ok {
		return time.Unix(int64(f), 0), true
	}
	return time.Time{}, false
}

func (m *Manager) parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if isDigits(s) {
		for _, layout := range []string{DatetimeLayout, DateLayout, TimeLayout} {
			if len(s) != len(layout) {
				continue
			}
			if t, err := time.ParseInLocation(layout, s, m.locale.Location); err == nil {
				return t, true
			}
		}
	}
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, s, m.locale.Location); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseIn(s, m.locale.Location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// clockLayouts are time-of-day inputs the free-form parser does not cover
var clockLayouts = []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func toBool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false":
			return false
		}
		return true
	}
	if isIntegral(value) {
		f, _ := toFloat(value)
		return f > 0
	}
	return !isEmptyValue(value)
}

func absInt(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// sanitizeURL normalises a URL the permissive way: unknown schemes are
// dropped, bare hosts get http:// and the result is re-encoded.
func sanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == ' ' {
			return -1
		}
		return r
	}, raw)

	if !strings.Contains(raw, ":") && !strings.HasPrefix(raw, "/") &&
		!strings.HasPrefix(raw, "#") && !strings.HasPrefix(raw, "?") &&
		!strings.HasPrefix(raw, ".") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "" && !isAllowedScheme(strings.ToLower(u.Scheme)) {
		return ""
	}
	return u.String()
}

func isAllowedScheme(scheme string) bool {
	for _, s := range allowedSchemes {
		if s == scheme {
			return true
		}
	}
	return false
}

var (
	blockStart  = regexp.MustCompile(`^<(p|div|ul|ol|li|table|h[1-6]|blockquote|pre|figure|section|hr)[\s>/]`)
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
)

// autop wraps blank-line separated blocks in paragraphs and turns single
// newlines into line breaks. Blocks that already start with a block level
// element are left alone.
func autop(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var sb strings.Builder
	for _, block := range paragraphRe.Split(s, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if blockStart.MatchString(block) {
			sb.WriteString(block)
			sb.WriteString("\n")
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(strings.ReplaceAll(block, "\n", "<br />\n"))
		sb.WriteString("</p>\n")
	}
	return sb.String()
}

// mimeByExtension returns the registered mime type for a file extension
// without leading dot, stripped of parameters.
func mimeByExtension(ext string) string {
	if ext == "" {
		return ""
	}
	t := mime.TypeByExtension("." + ext)
	if i := strings.Index(t, ";"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
