package evaluator

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

// containerTypes is the allowed container-type value set.
var containerTypes = map[string]struct{}{
	"size":        {},
	"inline-size": {},
	"block-size":  {},
	"normal":      {},
}

// ExpandContainer expands container(type) or container(name, type) into the
// declarations merged at the spread position: container-type first, then
// container-name.
func (e *Evaluator) ExpandContainer(call *tree_sitter.Node) ([]string, error) {
	args := callArguments(call)
	badArity := func() error {
		return e.errAt(taikoerrors.KindBadContainerCall, taikoerrors.SubsystemContainer, call,
			fmt.Sprintf("expected 1 or 2 arguments, got %d", len(args)),
			"use container(type) or container(name, type).")
	}

	switch len(args) {
	case 1:
		typ, err := e.containerString(args[0], "container type")
		if err != nil {
			return nil, err
		}
		if err := e.checkContainerType(args[0], typ); err != nil {
			return nil, err
		}
		return []string{"container-type:" + typ}, nil
	case 2:
		name, err := e.containerString(args[0], "container name")
		if err != nil {
			return nil, err
		}
		typ, err := e.containerString(args[1], "container type")
		if err != nil {
			return nil, err
		}
		if err := e.checkContainerType(args[1], typ); err != nil {
			return nil, err
		}
		return []string{"container-type:" + typ, "container-name:" + name}, nil
	default:
		return nil, badArity()
	}
}

func (e *Evaluator) containerString(node *tree_sitter.Node, what string) (string, error) {
	if node.Kind() != "string" {
		return "", e.errAt(taikoerrors.KindBadContainerCall, taikoerrors.SubsystemContainer, node,
			fmt.Sprintf("%s must be a static string literal", what),
			"pass the value as a quoted string.")
	}
	return e.cookString(node), nil
}

func (e *Evaluator) checkContainerType(node *tree_sitter.Node, typ string) error {
	if _, ok := containerTypes[typ]; !ok {
		return e.errAt(taikoerrors.KindBadContainerCall, taikoerrors.SubsystemContainer, node,
			fmt.Sprintf("container type %q is not valid", typ),
			"type must be one of size, inline-size, block-size, normal.")
	}
	return nil
}

// callArguments lists the expression arguments of a call, skipping comments.
func callArguments(call *tree_sitter.Node) []*tree_sitter.Node {
	argsNode := call.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	var args []*tree_sitter.Node
	for i := uint(0); i < argsNode.NamedChildCount(); i++ {
		child := argsNode.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		args = append(args, child)
	}
	return args
}
