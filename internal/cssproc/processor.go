// Package cssproc is the CSS processing pipeline behind the extractor: it
// validates raw CSS produced by the lowering stages, applies browser-target
// lowering (vendor prefixes, logical-property direction resolution), minifies,
// and optionally emits a V3 CSS source map.
//
// Parsing is delegated to tdewolff's standards-compliant CSS grammar parser;
// this package rebuilds a small rule tree from its grammar events and prints
// it back in minified form.
package cssproc

import (
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Direction selects how logical properties are resolved to physical ones.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// Targets is the fixed browser matrix the processor lowers for. The
// vendor-prefix table in lower.go is a fixed list chosen for these versions;
// Process does not read this value.
type Targets struct {
	Chrome  int
	Safari  int
	Firefox int
}

// DefaultTargets matches the minimum browser set with native container-query
// support.
var DefaultTargets = Targets{Chrome: 105, Safari: 16, Firefox: 110}

// Options configures a single Process call.
type Options struct {
	// Filename names the originating source file; it appears in the CSS
	// source map and in validation error text.
	Filename string
	// Direction resolves logical properties. Empty means ltr.
	Direction Direction
	// SourceMap requests a V3 source map for the minified output.
	SourceMap bool
}

// Result is the processed stylesheet.
type Result struct {
	CSS string
	// Map holds V3 source-map JSON when requested, otherwise it is empty.
	Map string
}

// declaration is one property: value pair. Custom properties keep their
// value text verbatim.
type declaration struct {
	prop   string
	value  []css.Token
	raw    string // set for custom properties
	custom bool
	pos    int // byte offset into the raw input
}

// ruleset is a selector with declarations.
type ruleset struct {
	selector string
	decls    []declaration
	pos      int
}

// atRule is an at-rule, with or without a block. Block at-rules nest rules
// (@media, @supports, @container, @keyframes) or declarations (@font-face).
type atRule struct {
	name     string
	prelude  string
	rules    []any // *ruleset or *atRule
	decls    []declaration
	hasBlock bool
	pos      int
}

// stylesheet is the parsed document: a list of *ruleset / *atRule.
type stylesheet struct {
	rules []any
}

// Process validates, lowers, and minifies raw CSS. A grammar error fails the
// whole call; the caller attaches the originating source position.
func Process(raw string, opts Options) (Result, error) {
	if opts.Direction == "" {
		opts.Direction = DirectionLTR
	}

	sheet, err := parseStylesheet(raw, opts.Filename)
	if err != nil {
		return Result{}, err
	}

	lowerStylesheet(sheet, opts.Direction)

	pr := newPrinter(raw, opts)
	pr.printStylesheet(sheet)

	res := Result{CSS: pr.String()}
	if opts.SourceMap {
		res.Map = pr.MapJSON()
	}
	return res, nil
}

// parseStylesheet rebuilds the rule tree from tdewolff grammar events.
func parseStylesheet(raw, filename string) (*stylesheet, error) {
	input := parse.NewInputString(raw)
	p := css.NewParser(input, false)

	sheet := &stylesheet{}
	// stack of open at-rule blocks; an empty stack means the document itself
	var stack []*atRule
	var openRuleset *ruleset
	var pendingSelector string
	lastOffset := 0

	appendRule := func(r any) {
		if n := len(stack); n > 0 {
			stack[n-1].rules = append(stack[n-1].rules, r)
			return
		}
		sheet.rules = append(sheet.rules, r)
	}

	for {
		gt, _, data := p.Next()
		pos := lastOffset
		lastOffset = input.Offset()

		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != io.EOF {
				return nil, fmt.Errorf("%s: css syntax error: %v", filename, err)
			}
			if len(stack) > 0 || openRuleset != nil {
				return nil, fmt.Errorf("%s: css syntax error: unclosed block", filename)
			}
			return sheet, nil

		case css.CommentGrammar:
			// dropped

		case css.QualifiedRuleGrammar:
			// one selector of a comma-separated list; the last arrives with
			// BeginRulesetGrammar
			pendingSelector += minifySelector(p.Values()) + ","

		case css.BeginRulesetGrammar:
			openRuleset = &ruleset{
				selector: pendingSelector + minifySelector(p.Values()),
				pos:      pos,
			}
			pendingSelector = ""
			appendRule(openRuleset)

		case css.EndRulesetGrammar:
			openRuleset = nil

		case css.BeginAtRuleGrammar:
			at := &atRule{
				name:     string(data),
				prelude:  minifyPrelude(p.Values()),
				hasBlock: true,
				pos:      pos,
			}
			appendRule(at)
			stack = append(stack, at)

		case css.EndAtRuleGrammar:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%s: css syntax error: unbalanced at-rule", filename)
			}
			stack = stack[:len(stack)-1]

		case css.AtRuleGrammar:
			appendRule(&atRule{
				name:    string(data),
				prelude: minifyPrelude(p.Values()),
				pos:     pos,
			})

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			d := declaration{
				prop:   string(data),
				custom: gt == css.CustomPropertyGrammar,
				pos:    pos,
			}
			if d.custom {
				d.raw = valuesText(p.Values())
			} else {
				d.value = copyTokens(p.Values())
			}
			switch {
			case openRuleset != nil:
				openRuleset.decls = append(openRuleset.decls, d)
			case len(stack) > 0:
				at := stack[len(stack)-1]
				at.decls = append(at.decls, d)
			default:
				return nil, fmt.Errorf("%s: css syntax error: declaration outside a block", filename)
			}

		case css.TokenGrammar:
			return nil, fmt.Errorf("%s: css syntax error: unexpected token %q", filename, string(data))
		}
	}
}

func copyTokens(vals []css.Token) []css.Token {
	out := make([]css.Token, len(vals))
	for i, v := range vals {
		data := make([]byte, len(v.Data))
		copy(data, v.Data)
		out[i] = css.Token{TokenType: v.TokenType, Data: data}
	}
	return out
}

func valuesText(vals []css.Token) string {
	var out []byte
	for _, v := range vals {
		out = append(out, v.Data...)
	}
	return string(out)
}
