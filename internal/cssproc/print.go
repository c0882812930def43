package cssproc

import (
	"sort"
	"strings"

	"github.com/taikocss/taikocss/internal/sourcemap"
)

// printer serializes the lowered rule tree in minified form and, when asked,
// records one source mapping per rule and declaration.
type printer struct {
	sb         strings.Builder
	opts       Options
	smb        *sourcemap.Builder
	lineStarts []int
}

func newPrinter(raw string, opts Options) *printer {
	p := &printer{opts: opts}
	if opts.SourceMap {
		p.smb = sourcemap.NewBuilder("", opts.Filename, raw)
		p.lineStarts = buildLineStarts(raw)
	}
	return p
}

func (p *printer) String() string { return p.sb.String() }

func (p *printer) MapJSON() string {
	if p.smb == nil {
		return ""
	}
	return p.smb.JSON()
}

// mark maps the current output position to the raw-input byte offset pos.
func (p *printer) mark(pos int) {
	if p.smb == nil {
		return
	}
	srcLine, srcCol := p.lookupPos(pos)
	// minified output never contains newlines; everything lands on line 0
	p.smb.Add(0, p.sb.Len(), srcLine, srcCol)
}

func (p *printer) lookupPos(pos int) (line, col int) {
	i := sort.Search(len(p.lineStarts), func(i int) bool { return p.lineStarts[i] > pos }) - 1
	if i < 0 {
		i = 0
	}
	return i, pos - p.lineStarts[i]
}

func buildLineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (p *printer) printStylesheet(s *stylesheet) {
	for _, r := range s.rules {
		p.printRule(r)
	}
}

func (p *printer) printRule(r any) {
	switch r := r.(type) {
	case *ruleset:
		if len(r.decls) == 0 {
			return
		}
		p.mark(r.pos)
		p.sb.WriteString(r.selector)
		p.sb.WriteByte('{')
		p.printDecls(r.decls)
		p.sb.WriteByte('}')
	case *atRule:
		p.printAtRule(r)
	}
}

func (p *printer) printAtRule(r *atRule) {
	if r.hasBlock && len(r.rules) == 0 && len(r.decls) == 0 {
		return
	}
	p.mark(r.pos)
	p.sb.WriteString(r.name)
	if r.prelude != "" {
		p.sb.WriteByte(' ')
		p.sb.WriteString(r.prelude)
	}
	if !r.hasBlock {
		p.sb.WriteByte(';')
		return
	}
	p.sb.WriteByte('{')
	p.printDecls(r.decls)
	for _, child := range r.rules {
		p.printRule(child)
	}
	p.sb.WriteByte('}')
}

func (p *printer) printDecls(decls []declaration) {
	for i, d := range decls {
		if i > 0 {
			p.sb.WriteByte(';')
		}
		p.mark(d.pos)
		if d.custom {
			p.sb.WriteString(d.prop)
			p.sb.WriteByte(':')
			p.sb.WriteString(strings.TrimSpace(d.raw))
			continue
		}
		p.sb.WriteString(strings.ToLower(d.prop))
		p.sb.WriteByte(':')
		p.sb.WriteString(minifyValue(d.value))
	}
}
