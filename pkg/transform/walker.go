package transform

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/taikocss/taikocss/internal/cssproc"
	"github.com/taikocss/taikocss/internal/evaluator"
	"github.com/taikocss/taikocss/internal/jsparse"
	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

// walker traverses the CST collecting rules and call-site replacements in
// source order. Recognized calls are consumed whole: the walk does not
// descend into them.
type walker struct {
	file  *jsparse.File
	eval  *evaluator.Evaluator
	scope *evaluator.Scope
	opts  Options

	repls       []replacement
	cssRules    []Rule
	globalRules []Rule
	keyframes   []KeyframesRule
}

func (w *walker) walk(node *tree_sitter.Node) error {
	if node.Kind() == "call_expression" {
		handled, err := w.visitCall(node)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if err := w.walk(node.Child(i)); err != nil {
			return err
		}
	}
	return nil
}

// visitCall handles css(), globalCss`...`, keyframes`...`, and stray
// container() calls. It reports whether the node was consumed.
func (w *walker) visitCall(call *tree_sitter.Node) (bool, error) {
	name := evaluator.CalleeName(w.file, call)
	argsNode := call.ChildByFieldName("arguments")
	if name == "" || argsNode == nil {
		return false, nil
	}

	// Tagged templates parse as a call whose arguments node is the template
	// itself.
	if argsNode.Kind() == "template_string" {
		switch name {
		case "globalCss":
			return true, w.processGlobal(call, argsNode)
		case "keyframes":
			return true, w.processKeyframes(call, argsNode)
		}
		return false, nil
	}

	switch name {
	case "css":
		obj := w.cssArgumentObject(argsNode)
		if obj == nil {
			return false, nil
		}
		return true, w.processCSS(call, obj)
	case "container":
		line, col := w.file.Position(uint(call.StartByte()))
		return false, taikoerrors.NewExtractError(taikoerrors.KindBadContainerCall, taikoerrors.SubsystemContainer,
			w.file.Filename, line, col,
			"container() may only appear as a spread inside a css() style object",
			"move the call into a css({...container(...)}) spread.")
	}
	return false, nil
}

// cssArgumentObject digs the style object out of css({...}) or
// css(({theme}) => ({...})).
func (w *walker) cssArgumentObject(argsNode *tree_sitter.Node) *tree_sitter.Node {
	var first *tree_sitter.Node
	for i := uint(0); i < argsNode.NamedChildCount(); i++ {
		child := argsNode.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		first = child
		break
	}
	if first == nil {
		return nil
	}
	switch first.Kind() {
	case "object":
		return first
	case "arrow_function":
		return arrowBodyObject(first)
	}
	return nil
}

// arrowBodyObject extracts the object literal an arrow function evaluates
// to, accepting both the concise `=> ({...})` and the block
// `=> { return {...} }` forms.
func arrowBodyObject(arrow *tree_sitter.Node) *tree_sitter.Node {
	body := arrow.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	if obj := unwrapObject(body); obj != nil {
		return obj
	}
	if body.Kind() == "statement_block" {
		for i := uint(0); i < body.NamedChildCount(); i++ {
			stmt := body.NamedChild(i)
			if stmt.Kind() != "return_statement" {
				continue
			}
			if arg := stmt.NamedChild(0); arg != nil {
				return unwrapObject(arg)
			}
		}
	}
	return nil
}

func unwrapObject(node *tree_sitter.Node) *tree_sitter.Node {
	for node != nil && node.Kind() == "parenthesized_expression" {
		node = node.NamedChild(0)
	}
	if node != nil && node.Kind() == "object" {
		return node
	}
	return nil
}

func (w *walker) processCSS(call, obj *tree_sitter.Node) error {
	raw, err := w.eval.LowerObject(obj, "."+placeholder)
	if err != nil {
		return err
	}
	res, err := w.processRaw(call, raw, taikoerrors.SubsystemCSS)
	if err != nil {
		return err
	}

	hash := hashCSS(res.CSS)
	final := strings.ReplaceAll(res.CSS, placeholder, "cls_"+hash)

	w.replace(call, `"cls_`+hash+`"`)
	w.cssRules = append(w.cssRules, Rule{Hash: hash, CSS: final, Map: res.Map})
	return nil
}

func (w *walker) processGlobal(call, tpl *tree_sitter.Node) error {
	body, err := w.eval.CollectTemplate(tpl, taikoerrors.SubsystemGlobalCSS)
	if err != nil {
		return err
	}
	res, err := w.processRaw(call, body, taikoerrors.SubsystemGlobalCSS)
	if err != nil {
		return err
	}

	w.replace(call, "undefined")
	w.globalRules = append(w.globalRules, Rule{Hash: hashCSS(res.CSS), CSS: res.CSS, Map: res.Map})
	return nil
}

func (w *walker) processKeyframes(call, tpl *tree_sitter.Node) error {
	body, err := w.eval.CollectTemplate(tpl, taikoerrors.SubsystemKeyframes)
	if err != nil {
		return err
	}
	raw := "@keyframes " + placeholder + "{" + strings.TrimSpace(body) + "}"
	res, err := w.processRaw(call, raw, taikoerrors.SubsystemKeyframes)
	if err != nil {
		return err
	}

	// The digest covers the placeholder form: substitution is the final step
	// and cannot perturb the hash.
	hash := hashCSS(res.CSS)
	name := "kf_" + hash
	final := strings.ReplaceAll(res.CSS, placeholder, name)

	if binding := bindingNameText(w.file, call); binding != "" {
		w.scope.Keyframes[binding] = name
	}
	w.replace(call, `"`+name+`"`)
	w.keyframes = append(w.keyframes, KeyframesRule{Hash: hash, Name: name, CSS: final, Map: res.Map})
	return nil
}

// processRaw runs the CSS processor, converting its validation failures into
// positioned diagnostics at the originating call expression.
func (w *walker) processRaw(call *tree_sitter.Node, raw string, sub taikoerrors.Subsystem) (cssproc.Result, error) {
	res, err := cssproc.Process(raw, cssproc.Options{
		Filename:  w.file.Filename,
		Direction: cssproc.Direction(w.opts.Direction),
		SourceMap: w.opts.SourceMaps,
	})
	if err != nil {
		line, col := w.file.Position(uint(call.StartByte()))
		return cssproc.Result{}, taikoerrors.NewExtractError(taikoerrors.KindInvalidCSS, sub,
			w.file.Filename, line, col,
			"generated CSS failed validation: "+err.Error(),
			"check the style values for malformed CSS fragments.")
	}
	return res, nil
}

func (w *walker) replace(node *tree_sitter.Node, text string) {
	w.repls = append(w.repls, replacement{start: uint(node.StartByte()), end: uint(node.EndByte()), text: text})
}

// bindingNameText climbs from a call to the enclosing variable declarator
// and returns the bound identifier, or "" when the call is not directly
// bound to a name.
func bindingNameText(file *jsparse.File, call *tree_sitter.Node) string {
	node := call.Parent()
	for node != nil {
		kind := node.Kind()
		if kind == "variable_declarator" {
			name := node.ChildByFieldName("name")
			if name != nil && name.Kind() == "identifier" {
				return file.Text(name)
			}
			return ""
		}
		if kind == "lexical_declaration" || kind == "variable_declaration" ||
			kind == "expression_statement" || kind == "statement_block" || kind == "program" {
			return ""
		}
		node = node.Parent()
	}
	return ""
}

// declareKeyframes pre-scans the file for keyframes tagged templates so a
// use-before-definition can be told apart from a reference to an unknown
// identifier.
func declareKeyframes(file *jsparse.File, node *tree_sitter.Node, scope *evaluator.Scope) {
	if node.Kind() == "call_expression" {
		argsNode := node.ChildByFieldName("arguments")
		if argsNode != nil && argsNode.Kind() == "template_string" &&
			evaluator.CalleeName(file, node) == "keyframes" {
			if name := bindingNameText(file, node); name != "" {
				scope.Declared[name] = struct{}{}
			}
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		declareKeyframes(file, node.Child(i), scope)
	}
}
