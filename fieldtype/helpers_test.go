package fieldtype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var fixedNow = time.Date(2025, time.March, 5, 14, 30, 0, 0, time.UTC)

func newTestManager(opts ...ManagerOption) *Manager {
	return NewManager(append([]ManagerOption{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func mustField(t *testing.T, m *Manager, args Args) Field {
	t.Helper()
	f, ok := m.GetInstance(args, false)
	require.True(t, ok, "field of type %v was not created", args["type"])
	return f
}

// germanLocale keeps the default patterns so formatted dates stay parseable
// once the names are mapped back.
func germanLocale() *Locale {
	l := NewLocale(language.German, time.UTC)
	l.StartOfWeek = 1
	l.Months = [12]string{
		"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember",
	}
	l.MonthsAbbrev = [12]string{
		"Jan", "Feb", "Mär", "Apr", "Mai", "Jun",
		"Jul", "Aug", "Sep", "Okt", "Nov", "Dez",
	}
	l.Weekdays = [7]string{
		"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag",
	}
	l.WeekdaysAbbrev = [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"}
	l.WeekdaysInitial = [7]string{"S", "M", "D", "M", "D", "F", "S"}
	return l
}
