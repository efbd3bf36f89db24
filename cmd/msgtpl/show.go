package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fbnoi.com/msgtemplate"
)

var (
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	caretStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// printTree writes one line per node, indented by depth, with the caret
// shown as | inside leaf text.
func printTree(w io.Writer, t *msgtemplate.Tree) {
	depth := map[int]int{}
	t.Walk(func(n msgtemplate.Node) bool {
		d := 0
		if n.HasParent() {
			d = depth[n.Parent] + 1
		}
		depth[n.ID] = d

		var b strings.Builder
		b.WriteString(strings.Repeat("  ", d))
		b.WriteString(idStyle.Render("#" + strconv.Itoa(n.ID)))
		b.WriteString(" ")
		label := n.Label
		if label == "" {
			label = string(n.Type)
		}
		b.WriteString(labelStyle.Render(label))
		if n.IsLeaf() {
			b.WriteString(" ")
			b.WriteString(renderText(n.Text()))
		}
		fmt.Fprintln(w, b.String())

		return true
	})
}

func renderText(text msgtemplate.Text) string {
	runes := []rune(text.Value)
	caret := text.CaretPosition
	if caret > len(runes) {
		caret = len(runes)
	}
	if caret < 0 {
		caret = 0
	}
	before := strconv.Quote(string(runes[:caret]))
	after := strconv.Quote(string(runes[caret:]))

	return textStyle.Render(before[:len(before)-1]) +
		caretStyle.Render("|") +
		textStyle.Render(after[1:])
}
