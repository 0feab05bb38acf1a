package fieldtype

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Option is one choice of a radio, multibox, select or multiselect field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Options is an ordered option list.
//
// In YAML and JSON it is written either as a mapping from value to label
// (or to a {label, image, color} object), which keeps document order, or as
// a list of values or option objects.
type Options []Option

// Lookup returns the option with the given value
func (o Options) Lookup(value string) (Option, bool) {
	for _, opt := range o {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// Values returns the option values in order
func (o Options) Values() []string {
	out := make([]string, len(o))
	for i, opt := range o {
		out[i] = opt.Value
	}
	return out
}

// match finds the option for an input value: first by value, then by
// label.
func (o Options) match(value string) (Option, bool) {
	if opt, ok := o.Lookup(value); ok {
		return opt, true
	}
	for _, opt := range o {
		if opt.Label != "" && opt.Label == value {
			return opt, true
		}
	}
	return Option{}, false
}

// UnmarshalYAML implements yaml.Unmarshaler
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	opts, err := optionsFromYAML(node)
	if err != nil {
		return err
	}
	*o = opts
	return nil
}

// UnmarshalJSON implements json.Unmarshaler
func (o *Options) UnmarshalJSON(data []byte) error {
	opts, err := optionsFromJSON(gjson.ParseBytes(data))
	if err != nil {
		return err
	}
	*o = opts
	return nil
}

// Option source kinds
const (
	SourcePosts = "posts"
	SourceTerms = "terms"
	SourceUsers = "users"
)

// OptionsSource describes options that are looked up from a DataSource
// instead of being listed, e.g. {posts: page} or {users: [editor, author]}.
type OptionsSource struct {
	Kind   string
	Filter []string
}

// String returns a stable key such as "posts:page,post"
func (s OptionsSource) String() string {
	return s.Kind + ":" + strings.Join(s.Filter, ",")
}

func isSourceKind(k string) bool {
	return k == SourcePosts || k == SourceTerms || k == SourceUsers
}

// OptionsArg is the decoded "options" argument: either literal options or
// a source descriptor.
type OptionsArg struct {
	Options Options
	Source  *OptionsSource
}

// UnmarshalYAML implements yaml.Unmarshaler
func (a *OptionsArg) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode && len(node.Content) == 2 && isSourceKind(node.Content[0].Value) {
		filter, err := yamlStrings(node.Content[1])
		if err != nil {
			return fmt.Errorf("options source %s: %w", node.Content[0].Value, err)
		}
		a.Source = &OptionsSource{Kind: node.Content[0].Value, Filter: filter}
		return nil
	}
	return a.Options.UnmarshalYAML(node)
}

// UnmarshalJSON implements json.Unmarshaler
func (a *OptionsArg) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if src, ok := sourceFromJSON(res); ok {
		a.Source = src
		return nil
	}
	opts, err := optionsFromJSON(res)
	if err != nil {
		return err
	}
	a.Options = opts
	return nil
}

func optionsFromYAML(node *yaml.Node) (Options, error) {
	switch node.Kind {
	case yaml.MappingNode:
		opts := make(Options, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			opt := Option{Value: key.Value}
			switch val.Kind {
			case yaml.ScalarNode:
				opt.Label = val.Value
			case yaml.MappingNode:
				var detail struct {
					Label string `yaml:"label"`
					Image string `yaml:"image"`
					Color string `yaml:"color"`
				}
				if err := val.Decode(&detail); err != nil {
					return nil, fmt.Errorf("option %s: %w", key.Value, err)
				}
				opt.Label, opt.Image, opt.Color = detail.Label, detail.Image, detail.Color
			default:
				return nil, fmt.Errorf("option %s: unsupported value at line %d", key.Value, val.Line)
			}
			opts = append(opts, opt)
		}
		return opts, nil
	case yaml.SequenceNode:
		opts := make(Options, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode {
				opts = append(opts, Option{Value: item.Value, Label: item.Value})
				continue
			}
			var opt Option
			if err := item.Decode(&opt); err != nil {
				return nil, fmt.Errorf("option at line %d: %w", item.Line, err)
			}
			opts = append(opts, opt)
		}
		return opts, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return Options{}, nil
		}
	}
	return nil, fmt.Errorf("options at line %d must be a mapping or a list", node.Line)
}

func yamlStrings(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		var out []string
		if err := node.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("filter at line %d must be a string or a list", node.Line)
}

func optionsFromJSON(res gjson.Result) (Options, error) {
	switch {
	case res.IsObject():
		var opts Options
		var err error
		res.ForEach(func(key, value gjson.Result) bool {
			opt := Option{Value: key.String()}
			switch {
			case value.IsObject():
				opt.Label = value.Get("label").String()
				opt.Image = value.Get("image").String()
				opt.Color = value.Get("color").String()
			case value.IsArray():
				err = fmt.Errorf("option %s: unsupported value", key.String())
				return false
			default:
				opt.Label = value.String()
			}
			opts = append(opts, opt)
			return true
		})
		return opts, err
	case res.IsArray():
		var opts Options
		res.ForEach(func(_, value gjson.Result) bool {
			if value.IsObject() {
				opts = append(opts, Option{
					Value: value.Get("value").String(),
					Label: value.Get("label").String(),
					Image: value.Get("image").String(),
					Color: value.Get("color").String(),
				})
				return true
			}
			opts = append(opts, Option{Value: value.String(), Label: value.String()})
			return true
		})
		return opts, nil
	case res.Type == gjson.Null:
		return Options{}, nil
	}
	return nil, fmt.Errorf("options must be an object or an array")
}

func sourceFromJSON(res gjson.Result) (*OptionsSource, bool) {
	if !res.IsObject() {
		return nil, false
	}
	var keys []string
	res.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return len(keys) < 2
	})
	if len(keys) != 1 || !isSourceKind(keys[0]) {
		return nil, false
	}
	filter := res.Get(keys[0])
	src := &OptionsSource{Kind: keys[0]}
	if filter.IsArray() {
		for _, v := range filter.Array() {
			src.Filter = append(src.Filter, v.String())
		}
	} else if s := filter.String(); s != "" {
		src.Filter = []string{s}
	}
	return src, true
}

// parseOptionsArg interprets the "options" construction argument. Plain Go
// maps have no order, so their options are sorted by value.
func parseOptionsArg(v any) (Options, *OptionsSource, error) {
	switch o := v.(type) {
	case nil:
		return Options{}, nil, nil
	case Options:
		return o, nil, nil
	case []Option:
		return Options(o), nil, nil
	case OptionsArg:
		return o.Options, o.Source, nil
	case *OptionsArg:
		if o == nil {
			return Options{}, nil, nil
		}
		return o.Options, o.Source, nil
	case OptionsSource:
		return nil, &o, nil
	case *OptionsSource:
		return nil, o, nil
	case map[string]string:
		m := make(map[string]any, len(o))
		for k, v := range o {
			m[k] = v
		}
		return optionsFromMap(m)
	case map[string]any:
		return optionsFromMap(o)
	case Args:
		return optionsFromMap(o)
	case []string:
		opts := make(Options, len(o))
		for i, s := range o {
			opts[i] = Option{Value: s, Label: s}
		}
		return opts, nil, nil
	case []any:
		opts := make(Options, 0, len(o))
		for _, item := range o {
			if m, ok := item.(map[string]any); ok {
				a := Args(m)
				opts = append(opts, Option{
					Value: a.String("value", ""),
					Label: a.String("label", ""),
					Image: a.String("image", ""),
					Color: a.String("color", ""),
				})
				continue
			}
			s := toString(item)
			opts = append(opts, Option{Value: s, Label: s})
		}
		return opts, nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported options value of type %T", v)
}

func optionsFromMap(m map[string]any) (Options, *OptionsSource, error) {
	if len(m) == 1 {
		for k, v := range m {
			if isSourceKind(k) {
				return nil, &OptionsSource{Kind: k, Filter: Args(m).StringSlice(k, filterString(v))}, nil
			}
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make(Options, 0, len(m))
	for _, k := range keys {
		opt := Option{Value: k}
		switch v := m[k].(type) {
		case map[string]any:
			a := Args(v)
			opt.Label = a.String("label", "")
			opt.Image = a.String("image", "")
			opt.Color = a.String("color", "")
		case Option:
			opt = v
			opt.Value = k
		default:
			opt.Label = toString(v)
		}
		opts = append(opts, opt)
	}
	return opts, nil, nil
}

func filterString(v any) []string {
	if s := toString(v); s != "" {
		return []string{s}
	}
	return nil
}
