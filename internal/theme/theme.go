// Package theme deserializes the design-token theme supplied to a transform
// and answers path lookups from the static evaluator. The theme is built once
// per transform, is read-only afterwards, and is dropped when the transform
// returns.
package theme

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ColorSchemesKey is the reserved top-level group holding per-scheme,
// per-mode token overrides.
const ColorSchemesKey = "colorSchemes"

// ValueKind discriminates leaf values.
type ValueKind int

const (
	String ValueKind = iota
	Number
)

// Value is a theme leaf: a string or a number.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

// StringValue wraps a string leaf.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// NumberValue wraps a numeric leaf.
func NumberValue(n float64) Value { return Value{Kind: Number, Num: n} }

// Text renders the leaf as CSS-ready text. Numbers use the minimal decimal
// representation: integers render without a decimal point.
func (v Value) Text() string {
	if v.Kind == String {
		return v.Str
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

// Theme is the deserialized, indexed token tree.
type Theme struct {
	root map[string]any
}

// Parse decodes and structurally validates a theme JSON document. Token
// groups map token names to string or number leaves; the reserved
// colorSchemes group maps scheme → {light, dark} → group → token → leaf.
func Parse(data []byte) (*Theme, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("theme is not a JSON object: %w", err)
	}
	for group, v := range root {
		if group == ColorSchemesKey {
			if err := validateColorSchemes(v); err != nil {
				return nil, err
			}
			continue
		}
		tokens, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("theme group %q must be an object of tokens", group)
		}
		for token, leaf := range tokens {
			if !isScalar(leaf) {
				return nil, fmt.Errorf("theme token %s.%s must be a string or number", group, token)
			}
		}
	}
	return &Theme{root: root}, nil
}

func validateColorSchemes(v any) error {
	schemes, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("theme group %q must be an object of schemes", ColorSchemesKey)
	}
	for scheme, sv := range schemes {
		modes, ok := sv.(map[string]any)
		if !ok {
			return fmt.Errorf("color scheme %q must be an object with light/dark modes", scheme)
		}
		for mode, mv := range modes {
			if mode != "light" && mode != "dark" {
				return fmt.Errorf("color scheme %q has unknown mode %q", scheme, mode)
			}
			groups, ok := mv.(map[string]any)
			if !ok {
				return fmt.Errorf("color scheme %s.%s must be an object of token groups", scheme, mode)
			}
			for group, gv := range groups {
				tokens, ok := gv.(map[string]any)
				if !ok {
					return fmt.Errorf("color scheme %s.%s.%s must be an object of tokens", scheme, mode, group)
				}
				for token, leaf := range tokens {
					if !isScalar(leaf) {
						return fmt.Errorf("color scheme token %s.%s.%s.%s must be a string or number", scheme, mode, group, token)
					}
				}
			}
		}
	}
	return nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, float64:
		return true
	}
	return false
}

// Lookup walks a dotted path through the token tree. It returns false when
// the path misses or stops at a non-leaf node.
func (t *Theme) Lookup(path ...string) (Value, bool) {
	if t == nil || len(path) == 0 {
		return Value{}, false
	}
	var cur any = t.root
	for _, part := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return Value{}, false
		}
		cur, ok = node[part]
		if !ok {
			return Value{}, false
		}
	}
	switch leaf := cur.(type) {
	case string:
		return StringValue(leaf), true
	case float64:
		return NumberValue(leaf), true
	}
	return Value{}, false
}
