package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/taikocss/taikocss/internal/jsparse"
	"github.com/taikocss/taikocss/internal/theme"
	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

const hintStaticValue = "extract the value to a constant or use a CSS variable."

// Scope carries the per-transform name bindings visible to the evaluator:
// the keyframe name table in declaration order, plus the full set of
// keyframes identifiers declared anywhere in the file. A reference that is
// in Declared but not yet in Keyframes is a forward reference.
type Scope struct {
	Keyframes map[string]string
	Declared  map[string]struct{}
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{
		Keyframes: make(map[string]string),
		Declared:  make(map[string]struct{}),
	}
}

// Evaluator resolves expressions of the closed static grammar against a
// parsed file, an optional theme, and the current scope.
type Evaluator struct {
	File  *jsparse.File
	Theme *theme.Theme
	Scope *Scope
}

// New constructs an Evaluator. th may be nil when no theme was supplied.
func New(f *jsparse.File, th *theme.Theme, scope *Scope) *Evaluator {
	return &Evaluator{File: f, Theme: th, Scope: scope}
}

func (e *Evaluator) errAt(kind taikoerrors.Kind, sub taikoerrors.Subsystem, node *tree_sitter.Node, reason, hint string) error {
	line, col := e.File.Position(uint(node.StartByte()))
	return taikoerrors.NewExtractError(kind, sub, e.File.Filename, line, col, reason, hint)
}

// Eval resolves an expression node to a static value. sub names the
// authoring primitive for diagnostics.
func (e *Evaluator) Eval(node *tree_sitter.Node, sub taikoerrors.Subsystem) (Value, error) {
	switch node.Kind() {
	case "parenthesized_expression":
		inner := node.NamedChild(0)
		if inner == nil {
			return Value{}, e.errAt(taikoerrors.KindDynamicValue, sub, node, "empty parenthesized expression", hintStaticValue)
		}
		return e.Eval(inner, sub)

	case "string":
		return stringValue(e.cookString(node)), nil

	case "number":
		n, ok := parseJSNumber(e.File.Text(node))
		if !ok {
			return Value{}, e.errAt(taikoerrors.KindDynamicValue, sub, node, fmt.Sprintf("numeric literal %q is not statically representable", e.File.Text(node)), hintStaticValue)
		}
		return numberValue(n), nil

	case "null", "undefined":
		return Value{Kind: Nil}, nil

	case "identifier":
		return e.evalIdentifier(node, sub)

	case "member_expression":
		return e.evalMember(node, sub)

	case "subscript_expression":
		return Value{}, e.errAt(taikoerrors.KindUnsupportedExpression, sub, node,
			"computed member access (e.g. theme.colors[key]) is not supported; use a static property name", hintStaticValue)

	case "ternary_expression":
		return Value{}, e.errAt(taikoerrors.KindUnsupportedExpression, sub, node,
			"conditional expressions are not supported", "compute the value ahead of time or use two class names.")

	case "binary_expression":
		return e.evalBinary(node, sub)

	case "template_string":
		s, err := e.CollectTemplate(node, sub)
		if err != nil {
			return Value{}, err
		}
		return stringValue(s), nil
	}

	return Value{}, e.errAt(taikoerrors.KindDynamicValue, sub, node,
		fmt.Sprintf("only static values are supported (%s is a dynamic expression)", node.Kind()), hintStaticValue)
}

func (e *Evaluator) evalIdentifier(node *tree_sitter.Node, sub taikoerrors.Subsystem) (Value, error) {
	name := e.File.Text(node)
	if name == "undefined" {
		return Value{Kind: Nil}, nil
	}
	if kf, ok := e.Scope.Keyframes[name]; ok {
		return stringValue(kf), nil
	}
	if _, ok := e.Scope.Declared[name]; ok {
		return Value{}, e.errAt(taikoerrors.KindForwardKeyframesReference, sub, node,
			fmt.Sprintf("keyframes %q is referenced before its declaration", name),
			"move the keyframes declaration above its first use.")
	}
	return Value{}, e.errAt(taikoerrors.KindDynamicValue, sub, node,
		fmt.Sprintf("only static values are supported (identifier %q is a runtime variable)", name), hintStaticValue)
}

func (e *Evaluator) evalMember(node *tree_sitter.Node, sub taikoerrors.Subsystem) (Value, error) {
	chain, ok := e.memberChain(node)
	if !ok {
		return Value{}, e.errAt(taikoerrors.KindUnsupportedExpression, sub, node,
			"computed member access (e.g. theme.colors[key]) is not supported; use a static property name", hintStaticValue)
	}
	if chain[0] != "theme" {
		return Value{}, e.errAt(taikoerrors.KindDynamicValue, sub, node,
			fmt.Sprintf("only static values are supported (identifier %q is a runtime variable)", chain[0]), hintStaticValue)
	}
	if e.Theme == nil {
		return Value{}, e.errAt(taikoerrors.KindDynamicValue, sub, node,
			"'theme' is referenced but no theme was supplied to the transform",
			"add a theme to the build configuration.")
	}
	v, found := e.Theme.Lookup(chain[1:]...)
	if !found {
		return Value{}, e.errAt(taikoerrors.KindUnknownThemePath, sub, node,
			fmt.Sprintf("theme.%s does not exist in the theme", strings.Join(chain[1:], ".")),
			"check the theme definition.")
	}
	if v.Kind == theme.Number {
		return numberValue(v.Num), nil
	}
	return stringValue(v.Str), nil
}

// memberChain flattens theme.colors.primary into its identifier segments.
// It fails on computed access and on non-identifier links.
func (e *Evaluator) memberChain(node *tree_sitter.Node) ([]string, bool) {
	switch node.Kind() {
	case "identifier":
		return []string{e.File.Text(node)}, true
	case "member_expression":
		obj := node.ChildByFieldName("object")
		prop := node.ChildByFieldName("property")
		if obj == nil || prop == nil || prop.Kind() != "property_identifier" {
			return nil, false
		}
		chain, ok := e.memberChain(obj)
		if !ok {
			return nil, false
		}
		return append(chain, e.File.Text(prop)), true
	}
	return nil, false
}

func (e *Evaluator) evalBinary(node *tree_sitter.Node, sub taikoerrors.Subsystem) (Value, error) {
	leftNode := node.ChildByFieldName("left")
	rightNode := node.ChildByFieldName("right")
	opNode := node.ChildByFieldName("operator")
	if leftNode == nil || rightNode == nil || opNode == nil {
		return Value{}, e.errAt(taikoerrors.KindUnsupportedExpression, sub, node, "malformed binary expression", hintStaticValue)
	}
	op := e.File.Text(opNode)
	switch op {
	case "+", "-", "*", "/":
	default:
		return Value{}, e.errAt(taikoerrors.KindUnsupportedExpression, sub, opNode,
			fmt.Sprintf("binary operator %q is not supported", op), "only +, -, * and / are supported.")
	}

	left, err := e.Eval(leftNode, sub)
	if err != nil {
		return Value{}, err
	}
	right, err := e.Eval(rightNode, sub)
	if err != nil {
		return Value{}, err
	}
	if left.Kind == Nil || right.Kind == Nil {
		return Value{}, e.errAt(taikoerrors.KindDynamicValue, sub, node,
			"null/undefined cannot take part in arithmetic or concatenation", hintStaticValue)
	}

	if op == "+" {
		if left.Kind == Num && right.Kind == Num {
			return numberValue(left.Num + right.Num), nil
		}
		return stringValue(left.Text() + right.Text()), nil
	}

	if left.Kind != Num || right.Kind != Num {
		return Value{}, e.errAt(taikoerrors.KindUnsupportedExpression, sub, node,
			fmt.Sprintf("operator %q is only supported between numbers", op), hintStaticValue)
	}
	switch op {
	case "-":
		return numberValue(left.Num - right.Num), nil
	case "*":
		return numberValue(left.Num * right.Num), nil
	default:
		if right.Num == 0 {
			return Value{}, e.errAt(taikoerrors.KindDynamicValue, sub, node,
				"division by zero", "adjust the arithmetic so the divisor is non-zero.")
		}
		return numberValue(left.Num / right.Num), nil
	}
}

// CollectTemplate concatenates a template_string's raw fragments with its
// statically evaluated interpolations.
func (e *Evaluator) CollectTemplate(node *tree_sitter.Node, sub taikoerrors.Subsystem) (string, error) {
	var sb strings.Builder
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "string_fragment", "escape_sequence":
			sb.WriteString(e.File.Text(child))
		case "template_substitution":
			inner := child.NamedChild(0)
			if inner == nil {
				continue
			}
			v, err := e.Eval(inner, sub)
			if err != nil {
				return "", err
			}
			if v.Kind == Nil {
				return "", e.errAt(taikoerrors.KindDynamicValue, sub, inner,
					"interpolations must be static string or number values", hintStaticValue)
			}
			sb.WriteString(v.Text())
		}
	}
	return sb.String(), nil
}

// cookString resolves a string literal's value, applying escape sequences.
func (e *Evaluator) cookString(node *tree_sitter.Node) string {
	var sb strings.Builder
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "string_fragment":
			sb.WriteString(e.File.Text(child))
		case "escape_sequence":
			sb.WriteString(unescape(e.File.Text(child)))
		}
	}
	return sb.String()
}

// unescape decodes one JS escape sequence (input includes the backslash).
func unescape(s string) string {
	if len(s) < 2 || s[0] != '\\' {
		return s
	}
	switch s[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		if len(s) == 2 {
			return "\x00"
		}
	case 'x':
		if v, err := strconv.ParseUint(s[2:], 16, 32); err == nil {
			return string(rune(v))
		}
	case 'u':
		body := s[2:]
		body = strings.TrimPrefix(strings.TrimSuffix(body, "}"), "{")
		if v, err := strconv.ParseUint(body, 16, 32); err == nil {
			return string(rune(v))
		}
	}
	return s[1:]
}

// parseJSNumber parses decimal, hex, octal, and binary numeric literals.
func parseJSNumber(text string) (float64, bool) {
	t := strings.ReplaceAll(text, "_", "")
	if len(t) > 2 && t[0] == '0' {
		switch t[1] {
		case 'x', 'X':
			v, err := strconv.ParseUint(t[2:], 16, 64)
			return float64(v), err == nil
		case 'o', 'O':
			v, err := strconv.ParseUint(t[2:], 8, 64)
			return float64(v), err == nil
		case 'b', 'B':
			v, err := strconv.ParseUint(t[2:], 2, 64)
			return float64(v), err == nil
		}
	}
	v, err := strconv.ParseFloat(t, 64)
	return v, err == nil
}
