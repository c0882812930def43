package cssproc

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// minifyValue prints declaration value tokens in minimal form: whitespace
// runs collapse to a single space, spaces next to commas and parentheses are
// dropped, numbers lose redundant zeros, zero lengths lose their unit, and
// hex colors shorten where symmetric.
func minifyValue(vals []css.Token) string {
	var sb strings.Builder
	pendingSpace := false
	for _, tok := range vals {
		if tok.TokenType == css.WhitespaceToken {
			if sb.Len() > 0 {
				pendingSpace = true
			}
			continue
		}
		text := valueTokenText(tok)
		if text == "" {
			continue
		}
		if pendingSpace && !dropSpaceBefore(text[0]) && !dropSpaceAfter(lastByte(&sb)) {
			sb.WriteByte(' ')
		}
		pendingSpace = false
		sb.WriteString(text)
	}
	return sb.String()
}

func valueTokenText(tok css.Token) string {
	switch tok.TokenType {
	case css.CommentToken:
		return ""
	case css.NumberToken:
		return minifyNumber(string(tok.Data))
	case css.PercentageToken:
		s := string(tok.Data)
		return minifyNumber(strings.TrimSuffix(s, "%")) + "%"
	case css.DimensionToken:
		return minifyDimension(string(tok.Data))
	case css.HashToken:
		return minifyHexColor(string(tok.Data))
	default:
		return string(tok.Data)
	}
}

// minifySelector prints selector tokens with whitespace collapsed and spaces
// around combinators and commas removed. Descendant combinators keep their
// single space; pseudo-class colons are left exactly where they were.
func minifySelector(vals []css.Token) string {
	var sb strings.Builder
	pendingSpace := false
	for _, tok := range vals {
		if tok.TokenType == css.WhitespaceToken {
			if sb.Len() > 0 {
				pendingSpace = true
			}
			continue
		}
		if tok.TokenType == css.CommentToken {
			continue
		}
		text := string(tok.Data)
		if text == "" {
			continue
		}
		if pendingSpace && !isCombinator(text[0]) && !isCombinator(lastByte(&sb)) && lastByte(&sb) != '[' && text[0] != ']' {
			sb.WriteByte(' ')
		}
		pendingSpace = false
		sb.WriteString(text)
	}
	return strings.TrimSpace(sb.String())
}

// minifyPrelude prints at-rule prelude tokens: whitespace collapses, spaces
// after feature colons and inside parentheses are dropped.
func minifyPrelude(vals []css.Token) string {
	var sb strings.Builder
	pendingSpace := false
	for _, tok := range vals {
		if tok.TokenType == css.WhitespaceToken {
			if sb.Len() > 0 {
				pendingSpace = true
			}
			continue
		}
		text := valueTokenText(tok)
		if text == "" {
			continue
		}
		last := lastByte(&sb)
		if pendingSpace && last != '(' && last != ':' && text[0] != ')' && text[0] != ':' && text[0] != ',' {
			sb.WriteByte(' ')
		}
		pendingSpace = false
		sb.WriteString(text)
	}
	return strings.TrimSpace(sb.String())
}

func isCombinator(b byte) bool {
	return b == '>' || b == '+' || b == '~' || b == ','
}

func dropSpaceBefore(b byte) bool {
	return b == ',' || b == ')' || b == '!'
}

func dropSpaceAfter(b byte) bool {
	return b == ',' || b == '(' || b == 0
}

func lastByte(sb *strings.Builder) byte {
	s := sb.String()
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

// minifyNumber strips redundant zeros: "0.500" → ".5", "1.0" → "1", "+2" →
// "2". Scientific notation passes through untouched.
func minifyNumber(s string) string {
	if strings.ContainsAny(s, "eE") {
		return s
	}
	neg := false
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	}
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
		s = strings.TrimPrefix(s, "0")
	}
	if s == "" {
		s = "0"
	}
	if neg && s != "0" {
		return "-" + s
	}
	return s
}

// lengthUnits are the units a zero value may drop entirely. Time, angle, and
// percentage units stay: 0s and 0% are not interchangeable with 0.
var lengthUnits = map[string]struct{}{
	"px": {}, "em": {}, "rem": {}, "ex": {}, "ch": {}, "vw": {}, "vh": {},
	"vmin": {}, "vmax": {}, "cm": {}, "mm": {}, "q": {}, "in": {}, "pt": {}, "pc": {},
}

func minifyDimension(s string) string {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		i--
	}
	num, unit := s[:i], strings.ToLower(s[i:])
	m := minifyNumber(num)
	if m == "0" {
		if _, ok := lengthUnits[unit]; ok {
			return "0"
		}
	}
	return m + unit
}

// minifyHexColor lowercases hash tokens and folds symmetric 6- and 8-digit
// hex colors to their short forms. Non-color hashes pass through.
func minifyHexColor(s string) string {
	body := strings.TrimPrefix(s, "#")
	if !isHex(body) {
		return s
	}
	body = strings.ToLower(body)
	switch len(body) {
	case 6, 8:
		short := make([]byte, 0, 4)
		for i := 0; i < len(body); i += 2 {
			if body[i] != body[i+1] {
				return "#" + body
			}
			short = append(short, body[i])
		}
		return "#" + string(short)
	default:
		return "#" + body
	}
}

func isHex(s string) bool {
	if len(s) != 3 && len(s) != 4 && len(s) != 6 && len(s) != 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
