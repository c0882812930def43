package transform

import (
	"sort"
	"strings"

	"github.com/taikocss/taikocss/internal/sourcemap"
)

// replacement is one byte-range edit: source[start:end) becomes text.
type replacement struct {
	start uint
	end   uint
	text  string
}

// applyReplacements splices the edits into source, preserving every
// untouched byte, and builds the V3 JS source map when requested. Unchanged
// spans map line by line to their original positions; each replacement maps
// to the start of the call it erased.
func applyReplacements(filename, source string, repls []replacement, wantMap bool) (string, string) {
	sorted := make([]replacement, len(repls))
	copy(sorted, repls)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	var out strings.Builder
	out.Grow(len(source))

	var smb *sourcemap.Builder
	if wantMap {
		smb = sourcemap.NewBuilder("", filename, source)
	}

	genLine, genCol := 0, 0
	origLine, origCol := 0, 0

	emit := func(s string) {
		for i := 0; i < len(s); i++ {
			if s[i] == '\n' {
				genLine++
				genCol = 0
				continue
			}
			genCol++
		}
		out.WriteString(s)
	}
	skipOriginal := func(s string) {
		for i := 0; i < len(s); i++ {
			if s[i] == '\n' {
				origLine++
				origCol = 0
				continue
			}
			origCol++
		}
	}
	copySegment := func(s string) {
		if s == "" {
			return
		}
		if smb != nil {
			smb.Add(genLine, genCol, origLine, origCol)
		}
		for i := 0; i < len(s); i++ {
			if s[i] == '\n' {
				genLine++
				genCol = 0
				origLine++
				origCol = 0
				if smb != nil && i+1 < len(s) {
					smb.Add(genLine, genCol, origLine, origCol)
				}
				out.WriteByte('\n')
				continue
			}
			genCol++
			origCol++
			out.WriteByte(s[i])
		}
	}

	last := uint(0)
	for _, r := range sorted {
		copySegment(source[last:r.start])
		if smb != nil {
			smb.Add(genLine, genCol, origLine, origCol)
		}
		emit(r.text)
		skipOriginal(source[r.start:r.end])
		last = r.end
	}
	copySegment(source[last:])

	mapJSON := ""
	if smb != nil {
		mapJSON = smb.JSON()
	}
	return out.String(), mapJSON
}
