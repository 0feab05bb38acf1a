package fieldtype

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements yaml.Unmarshaler. The options and repeatable
// keys are decoded into OptionsArg and RepeatableSpec so their document
// order survives.
func (a *Args) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("field arguments at line %d must be a mapping", node.Line)
	}
	out := make(Args, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "options":
			var opts OptionsArg
			if err := val.Decode(&opts); err != nil {
				return fmt.Errorf("options: %w", err)
			}
			out[key] = opts
		case "repeatable":
			var spec RepeatableSpec
			if err := val.Decode(&spec); err != nil {
				return fmt.Errorf("repeatable: %w", err)
			}
			out[key] = spec
		default:
			var v any
			if err := val.Decode(&v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out[key] = v
		}
	}
	*a = out
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are kept as
// json.Number so an integral step stays integral.
func (a *Args) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("field arguments must be an object")
	}
	out := Args{}
	var err error
	res.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		switch key {
		case "options":
			var opts OptionsArg
			if err = opts.UnmarshalJSON([]byte(v.Raw)); err != nil {
				err = fmt.Errorf("options: %w", err)
				return false
			}
			out[key] = opts
		case "repeatable":
			var spec RepeatableSpec
			if err = spec.UnmarshalJSON([]byte(v.Raw)); err != nil {
				err = fmt.Errorf("repeatable: %w", err)
				return false
			}
			out[key] = spec
		default:
			var val any
			if err = decodeJSONNumber([]byte(v.Raw), &val); err != nil {
				err = fmt.Errorf("%s: %w", key, err)
				return false
			}
			out[key] = val
		}
		return true
	})
	if err != nil {
		return err
	}
	*a = out
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Fields keep document order.
func (s *RepeatableSpec) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("repeatable must be an object")
	}
	s.Limit = int(res.Get("limit").Int())

	fields := res.Get("fields")
	if fields.Exists() && !fields.IsObject() {
		return fmt.Errorf("repeatable fields must be an object")
	}
	var err error
	fields.ForEach(func(slug, raw gjson.Result) bool {
		var args Args
		if err = args.UnmarshalJSON([]byte(raw.Raw)); err != nil {
			err = fmt.Errorf("repeatable field %s: %w", slug.String(), err)
			return false
		}
		s.Fields = append(s.Fields, NestedField{Slug: slug.String(), Title: args.String("title", ""), Args: args})
		return true
	})
	return err
}

func decodeJSONNumber(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
