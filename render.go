package msgtemplate

import "io"

// Render compiles the tree and writes the message to writer.
func Render(writer io.Writer, t *Tree, ps Params) (err error) {
	_, err = io.WriteString(writer, Compile(t, ps))

	return
}

// RenderSnapshot restores a persisted template and renders it.
func RenderSnapshot(writer io.Writer, s *Snapshot, varNames []string, ps Params) error {
	t, err := Restore(s, varNames)
	if err != nil {
		return err
	}

	return Render(writer, t, ps)
}
