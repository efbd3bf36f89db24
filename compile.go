package msgtemplate

import (
	"regexp"
	"strings"
)

var (
	// {name}
	reg_variable = regexp.MustCompile(`\{[^{}]+\}`)
)

// Compile walks the tree left to right and returns the message for the
// given bindings. Exactly one branch of every conditional group is
// rendered: Then when the substituted condition is non-empty, Else
// otherwise. Compile never mutates the tree.
func Compile(t *Tree, ps Params) string {
	return compileNodes(t, []int{t.root}, ps)
}

// compileNodes renders the sibling sequence ids with an explicit stack.
func compileNodes(t *Tree, ids []int, ps Params) string {
	var (
		message strings.Builder
		stack   = make([]int, 0, len(ids))
	)
	for i := len(ids) - 1; i >= 0; i-- {
		stack = append(stack, ids[i])
	}

	pop := func() (*Node, bool) {
		if len(stack) == 0 {
			return nil, false
		}
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		return n, n != nil
	}

	for len(stack) > 0 {
		node, ok := pop()
		if !ok {
			continue
		}

		if node.Type == TypeIf {
			cond := condition(t, node, ps)
			thenNode, hasThen := pop()
			elseNode, hasElse := pop()
			if cond != "" {
				if hasThen {
					stack = append(stack, thenNode.ID)
				}
			} else if hasElse {
				stack = append(stack, elseNode.ID)
			}
			continue
		}

		if !node.IsLeaf() {
			for i := len(node.children) - 1; i >= 0; i-- {
				stack = append(stack, node.children[i])
			}
			continue
		}

		message.WriteString(parseText(t, ps, node.text.Value))
	}

	return message.String()
}

// condition returns the substituted condition text of an If node. A
// subdivided If node uses the compiled text of its own children.
func condition(t *Tree, n *Node, ps Params) string {
	if n.IsLeaf() {
		return parseText(t, ps, n.text.Value)
	}

	return compileNodes(t, n.children, ps)
}

// parseText replaces every {name} token whose name is a template variable
// with its bound value. Other tokens are left as they are.
func parseText(t *Tree, ps Params, text string) string {
	return reg_variable.ReplaceAllStringFunc(text, func(token string) string {
		name := token[1 : len(token)-1]
		if !t.HasVar(name) {
			return token
		}

		return ps.get(name)
	})
}
