package cssproc

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// logicalProps maps inline-axis logical properties to their physical
// equivalents in ltr and rtl writing order. Block-axis logical properties
// are already universal across the target browsers and pass through.
var logicalProps = map[string][2]string{
	"margin-inline-start":        {"margin-left", "margin-right"},
	"margin-inline-end":          {"margin-right", "margin-left"},
	"padding-inline-start":       {"padding-left", "padding-right"},
	"padding-inline-end":         {"padding-right", "padding-left"},
	"inset-inline-start":         {"left", "right"},
	"inset-inline-end":           {"right", "left"},
	"border-inline-start":        {"border-left", "border-right"},
	"border-inline-end":          {"border-right", "border-left"},
	"border-inline-start-width":  {"border-left-width", "border-right-width"},
	"border-inline-end-width":    {"border-right-width", "border-left-width"},
	"border-inline-start-style":  {"border-left-style", "border-right-style"},
	"border-inline-end-style":    {"border-right-style", "border-left-style"},
	"border-inline-start-color":  {"border-left-color", "border-right-color"},
	"border-inline-end-color":    {"border-right-color", "border-left-color"},
	"border-start-start-radius":  {"border-top-left-radius", "border-top-right-radius"},
	"border-start-end-radius":    {"border-top-right-radius", "border-top-left-radius"},
	"border-end-start-radius":    {"border-bottom-left-radius", "border-bottom-right-radius"},
	"border-end-end-radius":      {"border-bottom-right-radius", "border-bottom-left-radius"},
	"scroll-margin-inline-start": {"scroll-margin-left", "scroll-margin-right"},
	"scroll-margin-inline-end":   {"scroll-margin-right", "scroll-margin-left"},
}

// webkitPrefixed lists properties that still need a -webkit- duplicate for
// Safari 16 under the fixed targets. The prefixed copy is emitted first so
// the standard declaration wins where both are understood.
var webkitPrefixed = map[string]struct{}{
	"backdrop-filter":      {},
	"user-select":          {},
	"text-size-adjust":     {},
	"box-decoration-break": {},
	"mask":                 {},
	"mask-image":           {},
}

// lowerStylesheet applies target-driven lowering in place: logical property
// resolution by direction, text-align start/end resolution, and vendor
// prefixing.
func lowerStylesheet(s *stylesheet, dir Direction) {
	for _, r := range s.rules {
		lowerRule(r, dir)
	}
}

func lowerRule(r any, dir Direction) {
	switch r := r.(type) {
	case *ruleset:
		r.decls = lowerDecls(r.decls, dir)
	case *atRule:
		r.decls = lowerDecls(r.decls, dir)
		for _, child := range r.rules {
			lowerRule(child, dir)
		}
	}
}

func lowerDecls(decls []declaration, dir Direction) []declaration {
	out := make([]declaration, 0, len(decls))
	idx := 0
	if dir == DirectionRTL {
		idx = 1
	}
	for _, d := range decls {
		if d.custom {
			out = append(out, d)
			continue
		}
		prop := strings.ToLower(d.prop)

		if phys, ok := logicalProps[prop]; ok {
			d.prop = phys[idx]
			out = append(out, d)
			continue
		}

		if prop == "text-align" {
			d.value = lowerTextAlign(d.value, dir)
			out = append(out, d)
			continue
		}

		if _, ok := webkitPrefixed[prop]; ok {
			prefixed := d
			prefixed.prop = "-webkit-" + prop
			prefixed.value = copyTokens(d.value)
			out = append(out, prefixed)
		}
		out = append(out, d)
	}
	return out
}

func lowerTextAlign(vals []css.Token, dir Direction) []css.Token {
	for i, tok := range vals {
		if tok.TokenType != css.IdentToken {
			continue
		}
		var repl string
		switch strings.ToLower(string(tok.Data)) {
		case "start":
			repl = "left"
			if dir == DirectionRTL {
				repl = "right"
			}
		case "end":
			repl = "right"
			if dir == DirectionRTL {
				repl = "left"
			}
		default:
			continue
		}
		vals[i] = css.Token{TokenType: css.IdentToken, Data: []byte(repl)}
	}
	return vals
}
