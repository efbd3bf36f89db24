package msgtemplate

// groupShape is the repeating part of a children sequence after its
// leading Text node.
var groupShape = [...]NodeType{TypeIf, TypeThen, TypeElse, TypeText}

// Validate checks the structural invariants of the tree: the root is a
// parentless Text node, every children sequence reads
// Text, (If, Then, Else, Text)*, parent references agree with ownership,
// Text nodes below the root are leaves and no id exceeds NodeCount.
func (t *Tree) Validate() error {
	root, ok := t.nodes[t.root]
	if !ok {
		return newMalformed(t.root, "root is missing")
	}
	if root.Type != TypeText {
		return newMalformed(root.ID, "root has type %s", root.Type)
	}
	if root.HasParent() {
		return newMalformed(root.ID, "root has parent %d", root.Parent)
	}

	seen := make(map[int]bool, len(t.nodes))
	if err := t.validateNode(root, seen); err != nil {
		return err
	}
	for id := range t.nodes {
		if !seen[id] {
			return newMalformed(id, "node is not reachable from the root")
		}
	}

	return nil
}

func (t *Tree) validateNode(n *Node, seen map[int]bool) error {
	if seen[n.ID] {
		return newMalformed(n.ID, "node is reachable twice")
	}
	seen[n.ID] = true

	if n.ID < 0 || n.ID > t.nodeCount {
		return newMalformed(n.ID, "id is outside [0, %d]", t.nodeCount)
	}
	if !n.Type.valid() {
		return newMalformed(n.ID, "unknown type %q", n.Type)
	}
	if n.IsLeaf() {
		return nil
	}
	if n.Type == TypeText && n.HasParent() {
		return newMalformed(n.ID, "text node below the root has children")
	}

	if err := t.validateChildren(n); err != nil {
		return err
	}
	for _, id := range n.children {
		if err := t.validateNode(t.nodes[id], seen); err != nil {
			return err
		}
	}

	return nil
}

func (t *Tree) validateChildren(n *Node) error {
	if (len(n.children)-1)%len(groupShape) != 0 {
		return newMalformed(n.ID, "%d children can't form conditional groups", len(n.children))
	}
	for i, id := range n.children {
		child, ok := t.nodes[id]
		if !ok {
			return newMalformed(n.ID, "child %d is missing", id)
		}
		if child.Parent != n.ID {
			return newMalformed(child.ID, "parent is %d, owned by %d", child.Parent, n.ID)
		}
		want := TypeText
		if i > 0 {
			want = groupShape[(i-1)%len(groupShape)]
		}
		if child.Type != want {
			return newMalformed(child.ID, "expected %s at position %d, got %s", want, i, child.Type)
		}
	}

	return nil
}
