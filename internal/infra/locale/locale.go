// Package locale formats dates the way the pages show them.
package locale

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt_BR"
)

var translators = map[string]func() locales.Translator{
	"pt_BR": pt_BR.New,
	"en":    en.New,
}

// Supported returns the supported locale names.
func Supported() []string {
	names := make([]string, 0, len(translators))
	for name := range translators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Formatter formats dates for one locale and time zone.
type Formatter struct {
	tr  locales.Translator
	loc *time.Location
}

// New creates a formatter. A nil location means UTC.
func New(name string, loc *time.Location) (*Formatter, error) {
	factory, ok := translators[name]
	if !ok {
		return nil, errors.Newf("unsupported locale: %s", name)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{tr: factory(), loc: loc}, nil
}

// Locale returns the locale name.
func (f *Formatter) Locale() string {
	return f.tr.Locale()
}

// PublishedAt formats t as "d MMM yy", e.g. "22 jan 21".
// The zero time formats as an empty string.
func (f *Formatter) PublishedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(f.loc)
	return strconv.Itoa(t.Day()) + " " + trimDot(f.tr.MonthAbbreviated(t.Month())) + " " + t.Format("06")
}

// Today formats t as "<short weekday>, d <month>", e.g. "sex, 22 janeiro".
func (f *Formatter) Today(t time.Time) string {
	t = t.In(f.loc)
	return trimDot(f.tr.WeekdayAbbreviated(t.Weekday())) + ", " + strconv.Itoa(t.Day()) + " " + f.tr.MonthWide(t.Month())
}

func trimDot(s string) string {
	return strings.TrimSuffix(s, ".")
}
