// Package sourcemap builds V3 source maps. Both the CSS processor and the JS
// rewriter emit maps through the same builder: mappings may be added in any
// order, are sorted into generated order, and are encoded as base64 VLQ
// deltas.
package sourcemap

import (
	"encoding/json"
	"sort"
	"strings"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Mapping relates a generated position to an original position. All fields
// are 0-based; SourceLine/SourceCol of -1 mark an unmapped segment.
type Mapping struct {
	GenLine    int
	GenCol     int
	SourceLine int
	SourceCol  int
}

// Builder accumulates mappings for a single generated file with a single
// original source.
type Builder struct {
	file     string
	source   string
	content  string
	mappings []Mapping
}

// NewBuilder creates a Builder. file names the generated artifact, source
// names the original input, content is the original text embedded as
// sourcesContent.
func NewBuilder(file, source, content string) *Builder {
	return &Builder{file: file, source: source, content: content}
}

// Add records a mapping from a generated position to an original position.
func (b *Builder) Add(genLine, genCol, srcLine, srcCol int) {
	b.mappings = append(b.mappings, Mapping{GenLine: genLine, GenCol: genCol, SourceLine: srcLine, SourceCol: srcCol})
}

// Len reports the number of recorded mappings.
func (b *Builder) Len() int {
	return len(b.mappings)
}

type mapJSON struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// JSON serializes the map as V3 JSON text.
func (b *Builder) JSON() string {
	m := mapJSON{
		Version:        3,
		File:           b.file,
		Sources:        []string{b.source},
		SourcesContent: []string{b.content},
		Names:          []string{},
		Mappings:       b.encodeMappings(),
	}
	data, err := json.Marshal(m)
	if err != nil {
		// The struct contains only strings; Marshal cannot fail.
		return ""
	}
	return string(data)
}

func (b *Builder) encodeMappings() string {
	mappings := make([]Mapping, len(b.mappings))
	copy(mappings, b.mappings)
	sort.SliceStable(mappings, func(i, j int) bool {
		if mappings[i].GenLine != mappings[j].GenLine {
			return mappings[i].GenLine < mappings[j].GenLine
		}
		return mappings[i].GenCol < mappings[j].GenCol
	})

	var sb strings.Builder
	prevGenLine := 0
	prevGenCol := 0
	prevSrcLine := 0
	prevSrcCol := 0
	firstOnLine := true

	for _, m := range mappings {
		for prevGenLine < m.GenLine {
			sb.WriteByte(';')
			prevGenLine++
			prevGenCol = 0
			firstOnLine = true
		}
		if !firstOnLine {
			sb.WriteByte(',')
		}
		firstOnLine = false

		sb.WriteString(encodeVLQ(m.GenCol - prevGenCol))
		prevGenCol = m.GenCol

		if m.SourceLine >= 0 {
			sb.WriteString(encodeVLQ(0)) // single source index
			sb.WriteString(encodeVLQ(m.SourceLine - prevSrcLine))
			prevSrcLine = m.SourceLine
			sb.WriteString(encodeVLQ(m.SourceCol - prevSrcCol))
			prevSrcCol = m.SourceCol
		}
	}
	return sb.String()
}

// encodeVLQ encodes a signed integer as base64 VLQ.
func encodeVLQ(value int) string {
	var enc []byte
	v := value
	if v < 0 {
		v = (-v << 1) | 1
	} else {
		v <<= 1
	}
	for {
		digit := v & 0x1f
		v >>= 5
		if v > 0 {
			digit |= 0x20
		}
		enc = append(enc, base64Chars[digit])
		if v == 0 {
			break
		}
	}
	return string(enc)
}
