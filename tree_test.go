package msgtemplate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree() *Tree {
	return New([]string{"firstname", "lastname", "company", "position"})
}

func childTypes(t *Tree, id int) []NodeType {
	n, _ := t.FindNode(id)
	var types []NodeType
	for _, c := range n.Children() {
		child, _ := t.FindNode(c)
		types = append(types, child.Type)
	}

	return types
}

func textOf(t *Tree, id int) string {
	n, _ := t.FindNode(id)

	return n.Text().Value
}

func TestNewTree(t *testing.T) {
	tree := newTestTree()
	root := tree.Root()
	assert.Equal(t, 0, root.ID)
	assert.Equal(t, TypeText, root.Type)
	assert.False(t, root.HasParent())
	assert.True(t, root.IsLeaf())
	assert.Equal(t, "", root.Text().Value)
	assert.Equal(t, 0, tree.NodeCount())
	assert.Equal(t, []string{"firstname", "lastname", "company", "position"}, tree.VarNames())
	assert.NoError(t, tree.Validate())
}

func TestDivideRoot(t *testing.T) {
	tree := newTestTree()
	require.NoError(t, tree.UpdateText(0, "Hello world", 6))
	tree.DivideNode(0)

	root := tree.Root()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, root.Children())
	assert.Equal(t, []NodeType{TypeText, TypeIf, TypeThen, TypeElse, TypeText}, childTypes(tree, 0))
	assert.Equal(t, 5, tree.NodeCount())
	assert.Equal(t, "Hello ", textOf(tree, 1))
	assert.Equal(t, "world", textOf(tree, 5))

	for id, label := range map[int]string{2: "IF", 3: "THEN", 4: "ELSE"} {
		n, ok := tree.FindNode(id)
		require.True(t, ok)
		assert.Equal(t, label, n.Label)
		assert.Equal(t, "", n.Text().Value)
	}
	for _, id := range root.Children() {
		n, _ := tree.FindNode(id)
		assert.Equal(t, 0, n.Parent)
		assert.True(t, n.IsLeaf())
	}
	assert.NoError(t, tree.Validate())
}

func TestDivideTextSplicesIntoParent(t *testing.T) {
	tree := newTestTree()
	tree.DivideNode(0)
	require.NoError(t, tree.UpdateText(5, "ab", 1))
	tree.DivideNode(5)

	assert.Equal(t, []int{1, 2, 3, 4, 6, 7, 8, 9, 10}, tree.Root().Children())
	assert.Equal(t, "a", textOf(tree, 6))
	assert.Equal(t, "b", textOf(tree, 10))
	for id := 6; id <= 10; id++ {
		n, ok := tree.FindNode(id)
		require.True(t, ok)
		assert.Equal(t, 0, n.Parent)
	}
	_, ok := tree.FindNode(5)
	assert.False(t, ok)
	assert.NoError(t, tree.Validate())
}

func TestDivideConditionNode(t *testing.T) {
	tree := newTestTree()
	tree.DivideNode(0)
	require.NoError(t, tree.UpdateText(3, "yes!", 3))
	tree.DivideNode(3)

	then, _ := tree.FindNode(3)
	assert.False(t, then.IsLeaf())
	assert.Equal(t, []int{6, 7, 8, 9, 10}, then.Children())
	assert.Equal(t, []NodeType{TypeText, TypeIf, TypeThen, TypeElse, TypeText}, childTypes(tree, 3))
	for id := 6; id <= 10; id++ {
		n, _ := tree.FindNode(id)
		assert.Equal(t, 3, n.Parent)
	}
	assert.Equal(t, "yes", textOf(tree, 6))
	assert.Equal(t, "!", textOf(tree, 10))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, tree.Root().Children())
	assert.NoError(t, tree.Validate())
}

func TestDivideInternalNodeSplitsLastText(t *testing.T) {
	tree := newTestTree()
	require.NoError(t, tree.UpdateText(0, "Hello world", 6))
	tree.DivideNode(0)
	tree.DivideNode(0)

	assert.Equal(t, []int{1, 2, 3, 4, 6, 7, 8, 9, 10}, tree.Root().Children())
	assert.Equal(t, "Hello ", textOf(tree, 1))
	assert.Equal(t, "", textOf(tree, 6))
	assert.Equal(t, "world", textOf(tree, 10))
	assert.NoError(t, tree.Validate())
}

func TestDivideUnknownNode(t *testing.T) {
	tree := newTestTree()
	tree.DivideNode(42)
	assert.Equal(t, 0, tree.NodeCount())
	assert.True(t, tree.Root().IsLeaf())
}

func TestDivideUnicodeCaret(t *testing.T) {
	tree := newTestTree()
	require.NoError(t, tree.UpdateText(0, "héllo", 2))
	tree.DivideNode(0)
	assert.Equal(t, "hé", textOf(tree, 1))
	assert.Equal(t, "llo", textOf(tree, 5))
}

func TestDeleteConditionBlock(t *testing.T) {
	t.Run("restores root leaf", func(t *testing.T) {
		tree := newTestTree()
		require.NoError(t, tree.UpdateText(0, "Hello world", 6))
		tree.DivideNode(0)

		focus, ok := tree.DeleteConditionBlock(2)
		assert.True(t, ok)
		assert.Equal(t, 0, focus)
		root := tree.Root()
		assert.True(t, root.IsLeaf())
		assert.Equal(t, "Hello world", root.Text().Value)
		for id := 1; id <= 5; id++ {
			_, found := tree.FindNode(id)
			assert.False(t, found, "node %d should be gone", id)
		}
		assert.Equal(t, 5, tree.NodeCount())
		assert.NoError(t, tree.Validate())
	})

	t.Run("merges siblings", func(t *testing.T) {
		tree := newTestTree()
		tree.DivideNode(0)
		require.NoError(t, tree.UpdateText(5, "ab", 1))
		tree.DivideNode(5)

		focus, ok := tree.DeleteConditionBlock(7)
		assert.True(t, ok)
		assert.Equal(t, 6, focus)
		assert.Equal(t, []int{1, 2, 3, 4, 6}, tree.Root().Children())
		assert.Equal(t, "ab", textOf(tree, 6))
		assert.NoError(t, tree.Validate())
	})

	t.Run("collapses nested branch", func(t *testing.T) {
		tree := newTestTree()
		tree.DivideNode(0)
		require.NoError(t, tree.UpdateText(3, "yes!", 3))
		tree.DivideNode(3)
		require.NoError(t, tree.UpdateText(8, "nested", 6))

		focus, ok := tree.DeleteConditionBlock(7)
		assert.True(t, ok)
		assert.Equal(t, 3, focus)
		then, _ := tree.FindNode(3)
		assert.True(t, then.IsLeaf())
		assert.Equal(t, "yes!", then.Text().Value)
		_, found := tree.FindNode(8)
		assert.False(t, found)
		assert.NoError(t, tree.Validate())
	})

	t.Run("removes subdivided branches", func(t *testing.T) {
		tree := newTestTree()
		tree.DivideNode(0)
		tree.DivideNode(4)

		_, ok := tree.DeleteConditionBlock(2)
		assert.True(t, ok)
		for id := 6; id <= 10; id++ {
			_, found := tree.FindNode(id)
			assert.False(t, found)
		}
		assert.NoError(t, tree.Validate())
	})

	t.Run("ignores other nodes", func(t *testing.T) {
		tree := newTestTree()
		tree.DivideNode(0)
		for _, id := range []int{0, 1, 3, 4, 5, 42} {
			_, ok := tree.DeleteConditionBlock(id)
			assert.False(t, ok, "node %d", id)
		}
		assert.Equal(t, []int{1, 2, 3, 4, 5}, tree.Root().Children())
	})
}

func TestUpdateText(t *testing.T) {
	tree := newTestTree()
	require.NoError(t, tree.UpdateText(0, "abc", 10))
	assert.Equal(t, 3, tree.Root().Text().CaretPosition)
	require.NoError(t, tree.UpdateText(0, "abc", -1))
	assert.Equal(t, 0, tree.Root().Text().CaretPosition)

	var notFound *NodeNotFound
	assert.ErrorAs(t, tree.UpdateText(7, "x", 0), &notFound)
	assert.Equal(t, 7, notFound.ID)

	tree.DivideNode(0)
	var notLeaf *NotALeaf
	assert.ErrorAs(t, tree.UpdateText(0, "x", 0), &notLeaf)
	assert.ErrorAs(t, tree.SetCaret(0, 1), &notLeaf)
}

func TestInsertVariable(t *testing.T) {
	tree := newTestTree()
	require.NoError(t, tree.UpdateText(0, "Hello !", 6))
	require.NoError(t, tree.InsertVariable(0, "firstname"))
	root := tree.Root()
	assert.Equal(t, "Hello {firstname}!", root.Text().Value)
	assert.Equal(t, 17, root.Text().CaretPosition)

	var unknown *UnknownVariable
	assert.ErrorAs(t, tree.InsertVariable(0, "city"), &unknown)
	assert.EqualError(t, unknown, `unknown variable "city"`)
	assert.Equal(t, "Hello {firstname}!", tree.Root().Text().Value)
}

func TestFindNodeReturnsCopy(t *testing.T) {
	tree := newTestTree()
	tree.DivideNode(0)
	root, ok := tree.FindNode(0)
	require.True(t, ok)
	children := root.Children()
	children[0] = 99
	assert.Equal(t, []int{1, 2, 3, 4, 5}, tree.Root().Children())
}

func TestWalkPreOrder(t *testing.T) {
	tree := newTestTree()
	tree.DivideNode(0)
	tree.DivideNode(3)

	var order []int
	tree.Walk(func(n Node) bool {
		order = append(order, n.ID)
		return true
	})
	assert.Equal(t, []int{0, 1, 2, 3, 6, 7, 8, 9, 10, 4, 5}, order)

	order = order[:0]
	tree.Walk(func(n Node) bool {
		order = append(order, n.ID)
		return n.ID != 3
	})
	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestRandomEditsKeepInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	tree := newTestTree()
	seen := map[int]bool{0: true}

	for step := 0; step < 500; step++ {
		var ids []int
		tree.Walk(func(n Node) bool {
			ids = append(ids, n.ID)
			return true
		})
		id := ids[rnd.Intn(len(ids))]
		n, _ := tree.FindNode(id)

		if n.Type == TypeIf && rnd.Intn(2) == 0 {
			tree.DeleteConditionBlock(id)
		} else {
			before := tree.NodeCount()
			if n.IsLeaf() {
				require.NoError(t, tree.UpdateText(id, "some text", rnd.Intn(10)))
			}
			tree.DivideNode(id)
			require.Equal(t, before+5, tree.NodeCount())
			for newID := before + 1; newID <= before+5; newID++ {
				require.False(t, seen[newID], "id %d reused", newID)
				seen[newID] = true
			}
		}
		require.NoError(t, tree.Validate(), "step %d", step)
	}
}

func TestSplitCollapseInverse(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		tree := newTestTree()
		tree.DivideNode(0)
		tree.DivideNode(3)
		leaves := []int{1, 5, 6, 10}
		target := leaves[rnd.Intn(len(leaves))]
		value := "the quick brown fox"
		require.NoError(t, tree.UpdateText(target, value, rnd.Intn(len(value)+1)))

		leaf, _ := tree.FindNode(target)
		parent, _ := tree.FindNode(leaf.Parent)
		position := indexOf(parent.Children(), target)

		tree.DivideNode(target)
		ifID := tree.NodeCount() - 3
		focus, ok := tree.DeleteConditionBlock(ifID)
		require.True(t, ok)

		parent, _ = tree.FindNode(leaf.Parent)
		assert.Equal(t, focus, parent.Children()[position])
		assert.Equal(t, value, textOf(tree, focus))
		assert.NoError(t, tree.Validate())
	}
}
