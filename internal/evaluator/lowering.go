package evaluator

import (
	"errors"
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/taikocss/taikocss/internal/jsparse"
	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

// cssBlock is one flat output rule: a selector, the at-rules wrapping it
// outermost first, and its declarations in source order.
type cssBlock struct {
	selector string
	atRules  []string
	decls    []string
}

// LowerObject lowers a style object literal to raw CSS text under the given
// outer selector. The output is a flat list of top-level rule blocks; nested
// selectors compose via & substitution and at-rules wrap their parent
// selector.
func (e *Evaluator) LowerObject(obj *tree_sitter.Node, selector string) (string, error) {
	var blocks []*cssBlock
	if err := e.lowerInto(obj, selector, nil, &blocks); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, b := range blocks {
		if len(b.decls) == 0 {
			continue
		}
		text := b.selector + "{" + strings.Join(b.decls, ";") + "}"
		for i := len(b.atRules) - 1; i >= 0; i-- {
			text = b.atRules[i] + "{" + text + "}"
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func (e *Evaluator) lowerInto(obj *tree_sitter.Node, selector string, atRules []string, out *[]*cssBlock) error {
	block := &cssBlock{selector: selector, atRules: append([]string(nil), atRules...)}
	*out = append(*out, block)

	for i := uint(0); i < obj.NamedChildCount(); i++ {
		prop := obj.NamedChild(i)
		switch prop.Kind() {
		case "comment":
			continue

		case "pair":
			if err := e.lowerPair(prop, selector, atRules, block, out); err != nil {
				return err
			}

		case "spread_element":
			arg := prop.NamedChild(0)
			if arg != nil && arg.Kind() == "call_expression" {
				if CalleeName(e.File, arg) == "container" {
					decls, err := e.ExpandContainer(arg)
					if err != nil {
						return err
					}
					block.decls = append(block.decls, decls...)
					continue
				}
				return e.errAt(taikoerrors.KindUnsupportedExpression, taikoerrors.SubsystemCSS, prop,
					"only container() may be spread into a style object",
					"inline the spread object's properties directly into this css() call.")
			}
			return e.errAt(taikoerrors.KindBadSpread, taikoerrors.SubsystemCSS, prop,
				"spread properties are not supported",
				"inline the spread object's properties directly into this css() call.")

		default:
			return e.errAt(taikoerrors.KindUnsupportedExpression, taikoerrors.SubsystemCSS, prop,
				fmt.Sprintf("unsupported property form (%s)", prop.Kind()), hintStaticValue)
		}
	}
	return nil
}

func (e *Evaluator) lowerPair(pair *tree_sitter.Node, selector string, atRules []string, block *cssBlock, out *[]*cssBlock) error {
	keyNode := pair.ChildByFieldName("key")
	valueNode := pair.ChildByFieldName("value")
	if keyNode == nil || valueNode == nil {
		return e.errAt(taikoerrors.KindUnsupportedExpression, taikoerrors.SubsystemCSS, pair, "malformed property", hintStaticValue)
	}

	var key string
	switch keyNode.Kind() {
	case "property_identifier":
		key = e.File.Text(keyNode)
	case "string":
		key = e.cookString(keyNode)
	default:
		return e.errAt(taikoerrors.KindUnsupportedExpression, taikoerrors.SubsystemCSS, keyNode,
			"computed or private property keys are not supported",
			"use a plain string or identifier as the property name.")
	}

	inner := valueNode
	for inner.Kind() == "parenthesized_expression" && inner.NamedChild(0) != nil {
		inner = inner.NamedChild(0)
	}

	// An object value makes the key a nested rule; a primitive value makes
	// it a declaration.
	if inner.Kind() == "object" {
		if strings.HasPrefix(key, "@") {
			return e.lowerInto(inner, selector, append(append([]string(nil), atRules...), key), out)
		}
		return e.lowerInto(inner, composeSelector(selector, key), atRules, out)
	}

	prop := camelToKebab(key)
	val, err := e.Eval(inner, taikoerrors.SubsystemCSS)
	if err != nil {
		var ee *taikoerrors.ExtractError
		if errors.As(err, &ee) {
			ee.Reason = fmt.Sprintf("property %q: %s", key, ee.Reason)
		}
		return err
	}
	if val.Kind == Nil {
		return nil
	}
	block.decls = append(block.decls, prop+":"+val.cssText(prop))
	return nil
}

// composeSelector resolves a nested selector key against the outer selector:
// every & is replaced; without an &, outer and key join with a descendant
// combinator.
func composeSelector(outer, key string) string {
	if strings.Contains(key, "&") {
		return strings.ReplaceAll(key, "&", outer)
	}
	if outer == "" {
		return key
	}
	return outer + " " + key
}

// CalleeName returns the identifier a call expression invokes, or "".
func CalleeName(f *jsparse.File, call *tree_sitter.Node) string {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" {
		return ""
	}
	return f.Text(fn)
}
