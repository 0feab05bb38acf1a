package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/felixarntz/wpdlib/component"
	"github.com/felixarntz/wpdlib/errors"
	"github.com/felixarntz/wpdlib/fieldtype"
)

// Slug policy names used in kind declarations
const (
	SlugsUnique = "unique"
	SlugsShared = "shared"
	SlugsWithin = "within"
)

// Manifest declares a component tree, the kinds it uses and the data its
// fields draw on.
type Manifest struct {
	Version    string                  `json:"version,omitempty" yaml:"version,omitempty" validate:"omitempty,semver"`
	Scope      string                  `json:"scope,omitempty" yaml:"scope,omitempty"`
	Locale     LocaleConfig            `json:"locale,omitempty" yaml:"locale,omitempty"`
	Kinds      map[string]KindConfig   `json:"kinds,omitempty" yaml:"kinds,omitempty" validate:"omitempty,dive"`
	Hierarchy  component.Hierarchy     `json:"hierarchy" yaml:"hierarchy" validate:"required,min=1"`
	Components []ComponentConfig       `json:"components,omitempty" yaml:"components,omitempty" validate:"omitempty,dive"`
	Sources    *fieldtype.StaticSource `json:"sources,omitempty" yaml:"sources,omitempty"`
	Media      []fieldtype.Attachment  `json:"media,omitempty" yaml:"media,omitempty" validate:"omitempty,dive"`
}

// LocaleConfig selects the locale fields format with. Name tables replace
// the English defaults when given.
type LocaleConfig struct {
	Tag             string   `json:"tag,omitempty" yaml:"tag,omitempty" validate:"omitempty,bcp47_language_tag"`
	Timezone        string   `json:"timezone,omitempty" yaml:"timezone,omitempty" validate:"omitempty,timezone"`
	DateFormat      string   `json:"date_format,omitempty" yaml:"date_format,omitempty"`
	TimeFormat      string   `json:"time_format,omitempty" yaml:"time_format,omitempty"`
	StartOfWeek     int      `json:"start_of_week,omitempty" yaml:"start_of_week,omitempty" validate:"min=0,max=6"`
	Months          []string `json:"months,omitempty" yaml:"months,omitempty" validate:"omitempty,len=12"`
	MonthsAbbrev    []string `json:"months_abbrev,omitempty" yaml:"months_abbrev,omitempty" validate:"omitempty,len=12"`
	Weekdays        []string `json:"weekdays,omitempty" yaml:"weekdays,omitempty" validate:"omitempty,len=7"`
	WeekdaysAbbrev  []string `json:"weekdays_abbrev,omitempty" yaml:"weekdays_abbrev,omitempty" validate:"omitempty,len=7"`
	WeekdaysInitial []string `json:"weekdays_initial,omitempty" yaml:"weekdays_initial,omitempty" validate:"omitempty,len=7"`
}

// KindConfig declares a component kind.
type KindConfig struct {
	Slugs       string         `json:"slugs,omitempty" yaml:"slugs,omitempty" validate:"omitempty,oneof=unique shared within"`
	Within      string         `json:"within,omitempty" yaml:"within,omitempty" validate:"required_if=Slugs within"`
	MultiParent bool           `json:"multi_parent,omitempty" yaml:"multi_parent,omitempty"`
	Defaults    map[string]any `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// ComponentConfig declares one component and its subtree. A component with
// a Field gets a field instance built from those arguments.
type ComponentConfig struct {
	Kind     string            `json:"kind" yaml:"kind" validate:"required"`
	Slug     string            `json:"slug" yaml:"slug" validate:"required"`
	Scope    string            `json:"scope,omitempty" yaml:"scope,omitempty"`
	Props    map[string]any    `json:"props,omitempty" yaml:"props,omitempty"`
	Field    fieldtype.Args    `json:"field,omitempty" yaml:"field,omitempty"`
	Children []ComponentConfig `json:"children,omitempty" yaml:"children,omitempty" validate:"omitempty,dive"`
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the manifest structure. The menu kind is built in and
// cannot be redeclared.
func (m *Manifest) Validate() error {
	if err := structValidator.Struct(m); err != nil {
		return errors.WrapInvalid(fmt.Errorf("%w: %s", errors.ErrInvalidConfig, describeValidation(err)),
			"Manifest", "Validate", "check structure")
	}
	if _, ok := m.Kinds[component.MenuKindName]; ok {
		return errors.WrapInvalid(fmt.Errorf("%w: kind %q is built in", errors.ErrInvalidConfig, component.MenuKindName),
			"Manifest", "Validate", "check kinds")
	}
	return nil
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Manifest.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// Kind returns the component kind named name as configured
func (k KindConfig) Kind(name string) component.Kind {
	spec := &component.KindSpec{
		KindName:    name,
		Props:       k.Defaults,
		MultiParent: k.MultiParent,
	}
	switch k.Slugs {
	case SlugsShared:
		spec.Slugs = component.SlugShared()
	case SlugsWithin:
		spec.Slugs = component.SlugUniqueWithin(k.Within)
	default:
		spec.Slugs = component.SlugUnique()
	}
	return spec
}

// ComponentKinds returns every kind named in the hierarchy. Kinds without a
// declaration get unique slugs and no defaults.
func (m *Manifest) ComponentKinds() map[string]component.Kind {
	kinds := map[string]component.Kind{component.MenuKindName: component.Menu}
	var walk func(h component.Hierarchy)
	walk = func(h component.Hierarchy) {
		for name, children := range h {
			if _, seen := kinds[name]; !seen {
				kinds[name] = m.Kinds[name].Kind(name)
			}
			walk(children)
		}
	}
	walk(m.Hierarchy)
	for name, kc := range m.Kinds {
		if _, seen := kinds[name]; !seen {
			kinds[name] = kc.Kind(name)
		}
	}
	return kinds
}

// BuildLocale returns the fieldtype locale the manifest selects
func (l LocaleConfig) BuildLocale() (*fieldtype.Locale, error) {
	loc, err := fieldtype.ParseLocale(l.Tag, l.Timezone)
	if err != nil {
		return nil, errors.WrapInvalid(err, "LocaleConfig", "BuildLocale", "parse locale")
	}
	if l.DateFormat != "" {
		loc.DateFormat = l.DateFormat
	}
	if l.TimeFormat != "" {
		loc.TimeFormat = l.TimeFormat
	}
	loc.StartOfWeek = l.StartOfWeek
	copyNames(loc.Months[:], l.Months)
	copyNames(loc.MonthsAbbrev[:], l.MonthsAbbrev)
	copyNames(loc.Weekdays[:], l.Weekdays)
	copyNames(loc.WeekdaysAbbrev[:], l.WeekdaysAbbrev)
	copyNames(loc.WeekdaysInitial[:], l.WeekdaysInitial)
	return loc, nil
}

func copyNames(dst, src []string) {
	if len(src) == len(dst) {
		copy(dst, src)
	}
}

// Merge folds override into m. Scalars are replaced when set, kinds and
// hierarchy are unioned, and components and media are appended. Appended
// components keep the scope of the manifest they came from.
func (m *Manifest) Merge(override *Manifest) {
	if override == nil {
		return
	}
	if override.Version != "" {
		m.Version = override.Version
	}
	for i := range m.Components {
		if m.Components[i].Scope == "" {
			m.Components[i].Scope = m.Scope
		}
	}
	if override.Scope != "" {
		m.Scope = override.Scope
	}
	mergeLocale(&m.Locale, override.Locale)

	if len(override.Kinds) > 0 && m.Kinds == nil {
		m.Kinds = make(map[string]KindConfig, len(override.Kinds))
	}
	for name, kc := range override.Kinds {
		m.Kinds[name] = kc
	}

	if m.Hierarchy == nil {
		m.Hierarchy = component.Hierarchy{}
	}
	mergeHierarchy(m.Hierarchy, override.Hierarchy)

	for _, cc := range override.Components {
		if cc.Scope == "" {
			cc.Scope = override.Scope
		}
		m.Components = append(m.Components, cc)
	}

	if override.Sources != nil {
		if m.Sources == nil {
			m.Sources = &fieldtype.StaticSource{}
		}
		m.Sources.Posts = mergeTables(m.Sources.Posts, override.Sources.Posts)
		m.Sources.Terms = mergeTables(m.Sources.Terms, override.Sources.Terms)
		m.Sources.Users = mergeTables(m.Sources.Users, override.Sources.Users)
	}
	m.Media = append(m.Media, override.Media...)
}

func mergeLocale(dst *LocaleConfig, src LocaleConfig) {
	if src.Tag != "" {
		dst.Tag = src.Tag
	}
	if src.Timezone != "" {
		dst.Timezone = src.Timezone
	}
	if src.DateFormat != "" {
		dst.DateFormat = src.DateFormat
	}
	if src.TimeFormat != "" {
		dst.TimeFormat = src.TimeFormat
	}
	if src.StartOfWeek != 0 {
		dst.StartOfWeek = src.StartOfWeek
	}
	if src.Months != nil {
		dst.Months = src.Months
	}
	if src.MonthsAbbrev != nil {
		dst.MonthsAbbrev = src.MonthsAbbrev
	}
	if src.Weekdays != nil {
		dst.Weekdays = src.Weekdays
	}
	if src.WeekdaysAbbrev != nil {
		dst.WeekdaysAbbrev = src.WeekdaysAbbrev
	}
	if src.WeekdaysInitial != nil {
		dst.WeekdaysInitial = src.WeekdaysInitial
	}
}

func mergeHierarchy(dst, src component.Hierarchy) {
	for name, children := range src {
		existing, ok := dst[name]
		if !ok || existing == nil {
			if children == nil {
				dst[name] = nil
				continue
			}
			existing = component.Hierarchy{}
			dst[name] = existing
		}
		mergeHierarchy(existing, children)
	}
}

func mergeTables(dst, src map[string]fieldtype.Options) map[string]fieldtype.Options {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]fieldtype.Options, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
