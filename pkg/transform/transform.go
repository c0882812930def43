package transform

import (
	"fmt"
	"hash/fnv"

	"github.com/taikocss/taikocss/internal/evaluator"
	"github.com/taikocss/taikocss/internal/jsparse"
	"github.com/taikocss/taikocss/internal/theme"
)

// placeholder is substituted for the final class or animation name after
// processing. Hashes are computed over the placeholder form so that the
// digest does not depend on itself and equal styles collide across files.
const placeholder = "__taiko_placeholder__"

// Transform extracts every recognized authoring call from source and rewrites
// the call sites. filename selects the grammar and appears in diagnostics and
// source maps.
//
// A source that fails to parse is not an error: the result carries the input
// unchanged with empty rule lists. A malformed theme is an error; an
// unresolvable expression is an error carrying the offending source position.
func Transform(filename, source string, opts Options) (*Result, error) {
	file, err := jsparse.Parse(filename, []byte(source))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	defer file.Close()

	if file.HasSyntaxError() {
		return &Result{Code: source}, nil
	}

	var th *theme.Theme
	if opts.ThemeJSON != "" {
		th, err = theme.Parse([]byte(opts.ThemeJSON))
		if err != nil {
			return nil, fmt.Errorf("invalid theme: %w", err)
		}
	}

	scope := evaluator.NewScope()
	declareKeyframes(file, file.Root(), scope)

	w := &walker{
		file:  file,
		eval:  evaluator.New(file, th, scope),
		scope: scope,
		opts:  opts,
	}
	if err := w.walk(file.Root()); err != nil {
		return nil, err
	}

	res := &Result{
		Code:      source,
		CSSRules:  w.cssRules,
		GlobalCSS: w.globalRules,
		Keyframes: w.keyframes,
	}
	if len(w.repls) > 0 {
		res.Code, res.Map = applyReplacements(filename, source, w.repls, opts.SourceMaps)
	}
	return res, nil
}

// hashCSS digests processed CSS text with 32-bit FNV-1a, rendered as 8
// zero-padded lowercase hex characters.
func hashCSS(css string) string {
	h := fnv.New32a()
	h.Write([]byte(css))
	return fmt.Sprintf("%08x", h.Sum32())
}
