package texgraph

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

// coerceParam converts v to the Go type of p's default value. The result
// never aliases v, so stored values are not affected by later changes to the
// caller's copy. A nil v stays nil; it stands for "no override".
func coerceParam(p Param, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if p.Default == nil {
		c, err := copystructure.Copy(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParam, p.ID, err)
		}
		return c, nil
	}
	target := reflect.New(reflect.TypeOf(p.Default))
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target.Interface(),
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParam, p.ID, err)
	}
	return target.Elem().Interface(), nil
}

// findParam returns the value-carrying parameter id of ps, searching group
// members.
func findParam(ps []Param, id string) (Param, bool) {
	for _, p := range flattenParams(ps) {
		if p.ID == id {
			return p, true
		}
	}
	return Param{}, false
}

// toFloat converts a numeric parameter value to float64.
func toFloat(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}
