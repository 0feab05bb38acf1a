package fieldtype

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/felixarntz/wpdlib/metric"
)

// Supported field types
const (
	TypeCheckbox    = "checkbox"
	TypeRadio       = "radio"
	TypeMultibox    = "multibox"
	TypeSelect      = "select"
	TypeMultiselect = "multiselect"
	TypeMedia       = "media"
	TypeMap         = "map"
	TypeTextarea    = "textarea"
	TypeWysiwyg     = "wysiwyg"
	TypeDatetime    = "datetime"
	TypeDate        = "date"
	TypeTime        = "time"
	TypeColor       = "color"
	TypeRange       = "range"
	TypeNumber      = "number"
	TypeURL         = "url"
	TypeEmail       = "email"
	TypeTel         = "tel"
	TypeText        = "text"
	TypeRepeatable  = "repeatable"
)

var supportedTypes = []string{
	TypeCheckbox,
	TypeRadio,
	TypeMultibox,
	TypeSelect,
	TypeMultiselect,
	TypeMedia,
	TypeMap,
	TypeTextarea,
	TypeWysiwyg,
	TypeDatetime,
	TypeDate,
	TypeTime,
	TypeColor,
	TypeRange,
	TypeNumber,
	TypeURL,
	TypeEmail,
	TypeTel,
	TypeText,
	TypeRepeatable,
}

// allowedArgs are the construction keys fields accept besides data-*
var allowedArgs = []string{
	"id",
	"name",
	"class",
	"placeholder",
	"required",
	"readonly",
	"disabled",
	"options",
	"min",
	"max",
	"step",
	"mime_types",
	"repeatable",
	"store",
	"rows",
}

var (
	nonRepeatableTypes = []string{TypeWysiwyg, TypeRepeatable}
	repeatableReplace  = map[string]string{
		TypeRadio:    TypeSelect,
		TypeMultibox: TypeMultiselect,
		TypeTextarea: TypeText,
	}
)

// Manager creates field instances and owns the formatting pipeline they
// share. It is safe for concurrent use.
type Manager struct {
	locale  *Locale
	logger  *slog.Logger
	metrics *metric.Metrics
	media   MediaStore
	now     func() time.Time

	ugc       *bluemonday.Policy
	strict    *bluemonday.Policy
	validator *validator.Validate
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithLocale sets the locale used for formatting
func WithLocale(l *Locale) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.locale = l
		}
	}
}

// WithLogger sets the manager logger
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics records field creation and validation outcomes on mt
func WithMetrics(mt *metric.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithMediaStore sets the attachment lookup media fields validate against
func WithMediaStore(store MediaStore) ManagerOption {
	return func(m *Manager) {
		m.media = store
	}
}

// WithClock overrides the time source used for absent date values
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a field manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		locale:    DefaultLocale(),
		logger:    slog.Default(),
		now:       time.Now,
		ugc:       bluemonday.UGCPolicy(),
		strict:    bluemonday.StrictPolicy(),
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Locale returns the formatting locale
func (m *Manager) Locale() *Locale {
	return m.locale
}

// Types returns the supported field types
func (m *Manager) Types() []string {
	return slices.Clone(supportedTypes)
}

// IsSupported reports whether typ names a supported field type
func (m *Manager) IsSupported(typ string) bool {
	return slices.Contains(supportedTypes, typ)
}

// GetInstance creates the field described by args. Inside a repeatable,
// radio, multibox and textarea are replaced by select, multiselect and text,
// while wysiwyg and repeatable are rejected. Only recognised keys and data-*
// keys reach the field. It returns false for unknown or rejected types.
func (m *Manager) GetInstance(args Args, forRepeatable bool) (Field, bool) {
	typ := args.String("type", "")
	if !m.IsSupported(typ) {
		m.logger.Debug("unsupported field type", "type", typ)
		return nil, false
	}

	if forRepeatable {
		if slices.Contains(nonRepeatableTypes, typ) {
			m.logger.Debug("field type not allowed in repeatable", "type", typ)
			return nil, false
		}
		if replacement, ok := repeatableReplace[typ]; ok {
			typ = replacement
		}
	}

	f, err := m.newField(typ, filterArgs(args))
	if err != nil {
		m.logger.Warn("field construction failed",
			"type", typ,
			"id", args.String("id", ""),
			"error", err)
		return nil, false
	}
	m.metrics.RecordFieldCreated(typ)
	return f, true
}

func filterArgs(args Args) Args {
	out := make(Args, len(args))
	for k, v := range args {
		if slices.Contains(allowedArgs, k) || strings.HasPrefix(k, "data-") {
			out[k] = v
		}
	}
	return out
}

func (m *Manager) newField(typ string, args Args) (Field, error) {
	switch typ {
	case TypeCheckbox:
		return newCheckbox(m, typ, args), nil
	case TypeRadio, TypeMultibox, TypeSelect, TypeMultiselect:
		return newChoice(m, typ, args)
	case TypeNumber, TypeRange:
		return newNumber(m, typ, args), nil
	case TypeDatetime, TypeDate, TypeTime:
		return newDatetime(m, typ, args)
	case TypeColor:
		return newColor(m, typ, args), nil
	case TypeEmail:
		return newEmail(m, typ, args), nil
	case TypeURL:
		return newURL(m, typ, args), nil
	case TypeMedia:
		return newMedia(m, typ, args), nil
	case TypeMap:
		return newMap(m, typ, args), nil
	case TypeTextarea, TypeWysiwyg:
		return newTextarea(m, typ, args), nil
	case TypeRepeatable:
		return newRepeatable(m, typ, args)
	}
	b := newBase(m, typ, args)
	return &b, nil
}

// CollectAssets merges the asset reports of fields on top of the base
// field script dependencies.
func (m *Manager) CollectAssets(fields ...Field) Assets {
	list := make([]Assets, 0, len(fields)+1)
	list = append(list, Assets{Dependencies: []string{"jquery"}})
	for _, f := range fields {
		list = append(list, f.Assets())
	}
	return MergeAssets(list...)
}

func (m *Manager) recordValidation(typ string, err error) {
	m.metrics.RecordValidation(typ, err == nil)
}
