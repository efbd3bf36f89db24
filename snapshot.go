package msgtemplate

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	v2 "gopkg.in/yaml.v2"
)

// Snapshot is the plain-data form of a template, as persisted.
type Snapshot struct {
	Tree      *SnapshotNode `json:"tree" yaml:"tree"`
	NodeCount int           `json:"nodeCount" yaml:"nodeCount"`
}

type SnapshotNode struct {
	ID       int             `json:"id" yaml:"id"`
	ParentID *int            `json:"parentId" yaml:"parentId"`
	Type     NodeType        `json:"type" yaml:"type"`
	Label    string          `json:"label,omitempty" yaml:"label,omitempty"`
	Text     SnapshotText    `json:"text" yaml:"text"`
	Children []*SnapshotNode `json:"children" yaml:"children"`
}

type SnapshotText struct {
	Value         string `json:"value" yaml:"value"`
	CaretPosition int    `json:"caretPosition" yaml:"caretPosition"`
}

// Snapshot captures the current tree as nested plain data.
func (t *Tree) Snapshot() *Snapshot {
	return &Snapshot{
		Tree:      t.snapshotNode(t.nodes[t.root]),
		NodeCount: t.nodeCount,
	}
}

func (t *Tree) snapshotNode(n *Node) *SnapshotNode {
	sn := &SnapshotNode{
		ID:    n.ID,
		Type:  n.Type,
		Label: n.Label,
		Text: SnapshotText{
			Value:         n.text.Value,
			CaretPosition: n.text.CaretPosition,
		},
	}
	if n.HasParent() {
		parent := n.Parent
		sn.ParentID = &parent
	}
	for _, id := range n.children {
		sn.Children = append(sn.Children, t.snapshotNode(t.nodes[id]))
	}

	return sn
}

// Restore rebuilds a tree from a snapshot. A nil snapshot, or one without a
// tree, yields a fresh empty template.
func Restore(s *Snapshot, varNames []string) (*Tree, error) {
	if s == nil || s.Tree == nil {
		return New(varNames), nil
	}

	t := &Tree{
		nodes:     make(map[int]*Node),
		root:      s.Tree.ID,
		nodeCount: s.NodeCount,
		varNames:  copyNames(varNames),
	}
	if err := t.restoreNode(s.Tree); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Tree) restoreNode(sn *SnapshotNode) error {
	if sn == nil {
		return errors.New("snapshot contains a null node")
	}
	if _, ok := t.nodes[sn.ID]; ok {
		return newMalformed(sn.ID, "duplicate id")
	}

	parent := NoParent
	if sn.ParentID != nil {
		parent = *sn.ParentID
	}
	n := newNode(sn.ID, sn.Type, parent, sn.Label, sn.Text.Value)
	n.text.CaretPosition = sn.Text.CaretPosition
	t.nodes[n.ID] = n

	if len(sn.Children) == 0 {
		return nil
	}
	ids := make([]int, 0, len(sn.Children))
	for _, c := range sn.Children {
		if err := t.restoreNode(c); err != nil {
			return err
		}
		ids = append(ids, c.ID)
	}
	n.setChildren(ids)

	return nil
}

// Marshal encodes the snapshot as JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "can't encode snapshot")
	}

	return data, nil
}

// EncodeYAML encodes the snapshot as a YAML document.
func (s *Snapshot) EncodeYAML() ([]byte, error) {
	data, err := v2.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "can't encode snapshot")
	}

	return data, nil
}

// ParseSnapshot decodes a JSON snapshot. The literal null decodes to a nil
// snapshot.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s *Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "can't decode snapshot")
	}

	return s, nil
}

// ParseSnapshotYAML decodes a YAML snapshot.
func ParseSnapshotYAML(data []byte) (*Snapshot, error) {
	s := new(Snapshot)
	if err := v2.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "can't decode snapshot")
	}

	return s, nil
}

// Identity is a digest of the snapshot's JSON form. Equal trees have equal
// identities.
func (s *Snapshot) Identity() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}

	return abstract(data)
}

func abstract(content []byte) string {
	encryptor := sha1.New()
	encryptor.Write(content)

	return hex.EncodeToString(encryptor.Sum(nil))
}
