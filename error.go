package msgtemplate

import "fmt"

type NodeNotFound struct {
	ID int
}

func (e *NodeNotFound) Error() string {
	return fmt.Sprintf("node %d not found", e.ID)
}

type NotALeaf struct {
	ID int
}

func (e *NotALeaf) Error() string {
	return fmt.Sprintf("node %d has children, its text can't be edited", e.ID)
}

type UnknownVariable struct {
	Name string
}

func (e *UnknownVariable) Error() string {
	return fmt.Sprintf("unknown variable \"%s\"", e.Name)
}

// MalformedTree reports a structural problem found while validating a tree.
type MalformedTree struct {
	ID     int
	Reason string
}

func (e *MalformedTree) Error() string {
	return fmt.Sprintf("malformed tree at node %d: %s", e.ID, e.Reason)
}

func newMalformed(id int, format string, args ...any) error {
	return &MalformedTree{ID: id, Reason: fmt.Sprintf(format, args...)}
}
