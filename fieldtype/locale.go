package fieldtype

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Default output patterns, in strftime syntax
const (
	DefaultDateFormat = "%B %d, %Y"
	DefaultTimeFormat = "%H:%M"
)

var (
	englishMonths = [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	englishMonthsAbbrev = [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	}
	englishWeekdays = [7]string{
		"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
	}
	englishWeekdaysAbbrev = [7]string{
		"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat",
	}
	englishWeekdaysInitial = [7]string{
		"S", "M", "T", "W", "T", "F", "S",
	}
)

var wordPattern = regexp.MustCompile(`\p{L}+`)

// Locale carries the number, date and name conventions fields format with.
// Month and weekday tables are indexed January-first and Sunday-first.
type Locale struct {
	Tag      language.Tag
	Location *time.Location

	// DateFormat and TimeFormat are strftime patterns
	DateFormat string
	TimeFormat string
	// StartOfWeek is the weekday index calendars start on
	StartOfWeek int

	Months          [12]string
	MonthsAbbrev    [12]string
	Weekdays        [7]string
	WeekdaysAbbrev  [7]string
	WeekdaysInitial [7]string
}

// DefaultLocale returns English conventions in UTC
func DefaultLocale() *Locale {
	return &Locale{
		Tag:             language.English,
		Location:        time.UTC,
		DateFormat:      DefaultDateFormat,
		TimeFormat:      DefaultTimeFormat,
		Months:          englishMonths,
		MonthsAbbrev:    englishMonthsAbbrev,
		Weekdays:        englishWeekdays,
		WeekdaysAbbrev:  englishWeekdaysAbbrev,
		WeekdaysInitial: englishWeekdaysInitial,
	}
}

// NewLocale creates a locale for tag and loc with English names. Callers
// replace the name tables with their translations.
func NewLocale(tag language.Tag, loc *time.Location) *Locale {
	l := DefaultLocale()
	l.Tag = tag
	if loc != nil {
		l.Location = loc
	}
	return l
}

// ParseLocale builds a locale from a BCP 47 tag such as "de-DE" and an IANA
// zone name. Either may be empty.
func ParseLocale(tag, zone string) (*Locale, error) {
	t := language.English
	if tag != "" {
		parsed, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
		if err != nil {
			return nil, err
		}
		t = parsed
	}
	loc := time.UTC
	if zone != "" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return nil, err
		}
		loc = l
	}
	return NewLocale(t, loc), nil
}

// Language returns the two-letter base language
func (l *Locale) Language() string {
	base, _ := l.Tag.Base()
	return base.String()
}

func (l *Locale) printer() *message.Printer {
	return message.NewPrinter(l.Tag)
}

// FormatNumber renders f with the locale's grouping and decimal separators
// and exactly decimals fraction digits.
func (l *Locale) FormatNumber(f float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return l.printer().Sprint(number.Decimal(f, number.Scale(decimals)))
}

// DecimalPoint returns the locale's decimal separator
func (l *Locale) DecimalPoint() string {
	sample := l.printer().Sprint(number.Decimal(1.5, number.Scale(1)))
	sep := strings.Trim(sample, "0123456789")
	if sep == "" {
		return "."
	}
	return sep
}

// isEnglish reports whether the name tables are the canonical ones
func (l *Locale) isEnglish() bool {
	return l.Months == englishMonths &&
		l.MonthsAbbrev == englishMonthsAbbrev &&
		l.Weekdays == englishWeekdays &&
		l.WeekdaysAbbrev == englishWeekdaysAbbrev &&
		l.WeekdaysInitial == englishWeekdaysInitial
}

// Translate replaces English month and weekday names in s with the locale's.
func (l *Locale) Translate(s string) string {
	if l.isEnglish() {
		return s
	}
	return wordPattern.ReplaceAllStringFunc(s, func(term string) string {
		if i := indexOf(englishMonths[:], term); i >= 0 {
			return l.Months[i]
		}
		if i := indexOf(englishWeekdays[:], term); i >= 0 {
			return l.Weekdays[i]
		}
		if i := indexOf(englishMonthsAbbrev[:], term); i >= 0 {
			return l.MonthsAbbrev[i]
		}
		if i := indexOf(englishWeekdaysAbbrev[:], term); i >= 0 {
			return l.WeekdaysAbbrev[i]
		}
		return term
	})
}

// Untranslate replaces localized month and weekday names in s with the
// English names a date parser understands. Whole words are matched case
// sensitively; initials and abbreviations map to the full English name.
func (l *Locale) Untranslate(s string) string {
	if l.isEnglish() {
		return s
	}
	return wordPattern.ReplaceAllStringFunc(s, func(term string) string {
		if i := indexOf(l.WeekdaysInitial[:], term); i >= 0 {
			return englishWeekdays[i]
		}
		if i := indexOf(l.WeekdaysAbbrev[:], term); i >= 0 {
			return englishWeekdays[i]
		}
		if i := indexOf(l.Weekdays[:], term); i >= 0 {
			return englishWeekdays[i]
		}
		if i := indexOf(l.MonthsAbbrev[:], term); i >= 0 {
			return englishMonths[i]
		}
		if i := indexOf(l.Months[:], term); i >= 0 {
			return englishMonths[i]
		}
		return term
	})
}

func indexOf(list []string, term string) int {
	for i, s := range list {
		if s != "" && s == term {
			return i
		}
	}
	return -1
}
