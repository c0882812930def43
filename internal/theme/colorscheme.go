package theme

import (
	"sort"
	"strings"
)

// ColorSchemeCSS renders the per-scheme CSS variable blocks derived from the
// reserved colorSchemes group. For each scheme S and mode M the output holds
// one rule:
//
//	[data-color-scheme="S"][data-mode="M"] { --<group>-<token>: <value>; }
//
// Schemes, groups, and tokens are sorted so the output is deterministic. The
// result is empty when the theme declares no color schemes. This emission
// happens once at host startup; it is independent of per-file transforms.
func (t *Theme) ColorSchemeCSS() string {
	if t == nil {
		return ""
	}
	schemes, ok := t.root[ColorSchemesKey].(map[string]any)
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, scheme := range sortedKeys(schemes) {
		modes, ok := schemes[scheme].(map[string]any)
		if !ok {
			continue
		}
		for _, mode := range []string{"light", "dark"} {
			groups, ok := modes[mode].(map[string]any)
			if !ok {
				continue
			}
			sb.WriteString(`[data-color-scheme="`)
			sb.WriteString(scheme)
			sb.WriteString(`"][data-mode="`)
			sb.WriteString(mode)
			sb.WriteString("\"] {\n")
			for _, group := range sortedKeys(groups) {
				tokens, ok := groups[group].(map[string]any)
				if !ok {
					continue
				}
				for _, token := range sortedKeys(tokens) {
					var val Value
					switch leaf := tokens[token].(type) {
					case string:
						val = StringValue(leaf)
					case float64:
						val = NumberValue(leaf)
					default:
						continue
					}
					sb.WriteString("  --")
					sb.WriteString(group)
					sb.WriteString("-")
					sb.WriteString(token)
					sb.WriteString(": ")
					sb.WriteString(val.Text())
					sb.WriteString(";\n")
				}
			}
			sb.WriteString("}\n")
		}
	}
	return sb.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
