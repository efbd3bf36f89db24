package msgtemplate

const rootID = 0

// Tree owns the node arena of one message template and the id counter used
// to allocate new nodes. A Tree is not safe for concurrent use.
type Tree struct {
	nodes     map[int]*Node
	root      int
	nodeCount int
	varNames  []string
}

// New creates an empty template: a single root Text leaf with id 0.
func New(varNames []string) *Tree {
	t := &Tree{
		nodes:    make(map[int]*Node),
		root:     rootID,
		varNames: copyNames(varNames),
	}
	t.nodes[rootID] = newNode(rootID, TypeText, NoParent, "", "")

	return t
}

func copyNames(names []string) []string {
	ns := make([]string, len(names))
	copy(ns, names)

	return ns
}

// Root returns a copy of the root node.
func (t *Tree) Root() Node {
	return t.nodes[t.root].clone()
}

// NodeCount returns the highest id issued so far.
func (t *Tree) NodeCount() int {
	return t.nodeCount
}

// VarNames returns the ordered variable names available to the template.
func (t *Tree) VarNames() []string {
	return copyNames(t.varNames)
}

// HasVar reports whether name is a substitutable variable.
func (t *Tree) HasVar(name string) bool {
	for _, n := range t.varNames {
		if n == name {
			return true
		}
	}

	return false
}

// FindNode returns a copy of the node with the given id.
func (t *Tree) FindNode(id int) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}

	return n.clone(), true
}

// Walk visits every node in pre-order, children left to right, until fn
// returns false.
func (t *Tree) Walk(fn func(Node) bool) {
	stack := []int{t.root}
	for len(stack) > 0 {
		n := t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !fn(n.clone()) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

func (t *Tree) nextID() int {
	t.nodeCount++

	return t.nodeCount
}

// DivideNode splits the node into a [Text, If, Then, Else, Text] group at
// its caret. A Text node with a parent is replaced by the group inside the
// parent; the root and condition nodes receive the group as their children.
// An internal node is split through its last Text child. Unknown ids are
// ignored.
func (t *Tree) DivideNode(id int) {
	node, ok := t.nodes[id]
	if !ok {
		return
	}
	if !node.IsLeaf() {
		t.DivideNode(node.children[len(node.children)-1])
		return
	}

	before, after := node.splitAtCaret()
	block := []*Node{
		newNode(t.nextID(), TypeText, node.Parent, node.Label, before),
		newNode(t.nextID(), TypeIf, node.Parent, string(TypeIf), ""),
		newNode(t.nextID(), TypeThen, node.Parent, string(TypeThen), ""),
		newNode(t.nextID(), TypeElse, node.Parent, string(TypeElse), ""),
		newNode(t.nextID(), TypeText, node.Parent, node.Label, after),
	}
	ids := make([]int, len(block))
	for i, b := range block {
		ids[i] = b.ID
		t.nodes[b.ID] = b
	}

	if node.Type == TypeText && node.HasParent() {
		parent := t.nodes[node.Parent]
		i := indexOf(parent.children, node.ID)
		children := make([]int, 0, len(parent.children)+4)
		children = append(children, parent.children[:i]...)
		children = append(children, ids...)
		children = append(children, parent.children[i+1:]...)
		parent.setChildren(children)
		delete(t.nodes, node.ID)

		return
	}

	for _, b := range block {
		b.Parent = node.ID
	}
	node.setChildren(ids)
}

// DeleteConditionBlock removes the conditional group started by the If node
// id and merges the surrounding Text nodes. It returns the id that should
// receive focus next: the parent when the group was its last one, the
// merged Text node otherwise. ok is false when nothing was removed.
func (t *Tree) DeleteConditionBlock(id int) (focus int, ok bool) {
	block, found := t.nodes[id]
	if !found || !block.HasParent() {
		return 0, false
	}
	parent, found := t.nodes[block.Parent]
	if !found {
		return 0, false
	}
	children := parent.children
	i := indexOf(children, id)
	if block.Type != TypeIf || i < 1 || i+3 >= len(children) {
		return 0, false
	}

	prev, next := t.nodes[children[i-1]], t.nodes[children[i+3]]
	prev.text.Value += next.text.Value
	for _, removed := range children[i : i+4] {
		t.drop(removed)
	}

	rest := make([]int, 0, len(children)-4)
	rest = append(rest, children[:i]...)
	rest = append(rest, children[i+4:]...)
	parent.setChildren(rest)

	if len(rest) == 1 {
		delete(t.nodes, prev.ID)
		parent.setLeaf(prev.text.Value, prev.text.CaretPosition)

		return parent.ID, true
	}

	return prev.ID, true
}

// drop removes the node and its whole subtree from the arena.
func (t *Tree) drop(id int) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, c := range n.children {
		t.drop(c)
	}
	delete(t.nodes, id)
}

// UpdateText replaces the value and caret of a leaf node.
func (t *Tree) UpdateText(id int, value string, caret int) error {
	n, err := t.leaf(id)
	if err != nil {
		return err
	}
	n.setLeaf(value, caret)

	return nil
}

// SetCaret moves the caret of a leaf node without touching its value.
func (t *Tree) SetCaret(id int, caret int) error {
	n, err := t.leaf(id)
	if err != nil {
		return err
	}
	n.text.CaretPosition = clampCaret(n.text.Value, caret)

	return nil
}

// InsertVariable inserts a {name} token at the caret of a leaf node and
// moves the caret past it.
func (t *Tree) InsertVariable(id int, name string) error {
	if !t.HasVar(name) {
		return &UnknownVariable{Name: name}
	}
	n, err := t.leaf(id)
	if err != nil {
		return err
	}
	before, after := n.splitAtCaret()
	token := "{" + name + "}"
	n.setLeaf(before+token+after, len([]rune(before+token)))

	return nil
}

func (t *Tree) leaf(id int) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, &NodeNotFound{ID: id}
	}
	if !n.IsLeaf() {
		return nil, &NotALeaf{ID: id}
	}

	return n, nil
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}

	return -1
}
