package msgtemplate

import "unicode/utf8"

// NoParent is the parent id of the root node.
const NoParent = -1

// NodeType tags a node's role inside a conditional group.
type NodeType string

const (
	TypeText NodeType = "TEXT"
	TypeIf   NodeType = "IF"
	TypeThen NodeType = "THEN"
	TypeElse NodeType = "ELSE"
)

func (t NodeType) valid() bool {
	switch t {
	case TypeText, TypeIf, TypeThen, TypeElse:
		return true
	}

	return false
}

// Text is the editable payload of a leaf node.
type Text struct {
	Value string
	// CaretPosition is a rune offset into Value.
	CaretPosition int
}

// Node is a single element of the template tree. A node is either a leaf
// holding Text, or an internal node holding the ids of its children.
type Node struct {
	ID     int
	Type   NodeType
	Parent int // NoParent for the root
	Label  string

	text     Text
	children []int // nil for a leaf
}

func newNode(id int, typ NodeType, parent int, label, value string) *Node {
	return &Node{
		ID:     id,
		Type:   typ,
		Parent: parent,
		Label:  label,
		text:   Text{Value: value},
	}
}

// IsLeaf reports whether the node holds text instead of children.
func (n Node) IsLeaf() bool {
	return len(n.children) == 0
}

// HasParent reports whether the node is attached below another node.
func (n Node) HasParent() bool {
	return n.Parent != NoParent
}

// Text returns the leaf payload. It is stale while the node has children.
func (n Node) Text() Text {
	return n.text
}

// Children returns a copy of the ordered child ids.
func (n Node) Children() []int {
	if n.children == nil {
		return nil
	}
	ids := make([]int, len(n.children))
	copy(ids, n.children)

	return ids
}

func (n Node) clone() Node {
	n.children = n.Children()

	return n
}

// setLeaf turns n into a leaf holding value.
func (n *Node) setLeaf(value string, caret int) {
	n.children = nil
	n.text = Text{Value: value, CaretPosition: clampCaret(value, caret)}
}

// setChildren turns n into an internal node.
func (n *Node) setChildren(ids []int) {
	n.children = ids
}

// splitAtCaret returns the text before and after the caret.
func (n *Node) splitAtCaret() (string, string) {
	runes := []rune(n.text.Value)
	caret := clampCaret(n.text.Value, n.text.CaretPosition)

	return string(runes[:caret]), string(runes[caret:])
}

func clampCaret(value string, caret int) int {
	if caret < 0 {
		return 0
	}
	if l := utf8.RuneCountInString(value); caret > l {
		return l
	}

	return caret
}
