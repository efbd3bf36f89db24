package main

import (
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"fbnoi.com/msgtemplate"
)

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Errorf("can't use %q as node id", arg)
	}

	return id, nil
}

func mustExist(t *msgtemplate.Tree, id int) error {
	if _, ok := t.FindNode(id); !ok {
		return &msgtemplate.NodeNotFound{ID: id}
	}

	return nil
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the template tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), t)

			return nil
		},
	}
}

func newDivideCommand(a *app) *cobra.Command {
	var caret int
	cmd := &cobra.Command{
		Use:   "divide <id>",
		Short: "Insert an IF-THEN-ELSE block at the caret of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.edit(cmd.Context(), func(t *msgtemplate.Tree) error {
				if err := mustExist(t, id); err != nil {
					return err
				}
				if cmd.Flags().Changed("caret") {
					if err := t.SetCaret(id, caret); err != nil {
						return err
					}
				}
				t.DivideNode(id)

				return nil
			})
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), t)

			return nil
		},
	}
	cmd.Flags().IntVar(&caret, "caret", 0, "split position in runes")

	return cmd
}

func newCollapseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "collapse <if-id>",
		Short: "Remove an IF-THEN-ELSE block and merge the text around it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var focus int
			t, err := a.edit(cmd.Context(), func(t *msgtemplate.Tree) error {
				var ok bool
				if focus, ok = t.DeleteConditionBlock(id); !ok {
					return errors.Errorf("node %d doesn't start a condition block", id)
				}

				return nil
			})
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), t)
			fmt.Fprintf(cmd.OutOrStdout(), "focus: %d\n", focus)

			return nil
		},
	}
}

func newSetCommand(a *app) *cobra.Command {
	var caret int
	cmd := &cobra.Command{
		Use:   "set <id> <text>",
		Short: "Replace the text of a leaf node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			value := args[1]
			if !cmd.Flags().Changed("caret") {
				caret = utf8.RuneCountInString(value)
			}
			_, err = a.edit(cmd.Context(), func(t *msgtemplate.Tree) error {
				return t.UpdateText(id, value, caret)
			})

			return err
		},
	}
	cmd.Flags().IntVar(&caret, "caret", 0, "caret position in runes (default: end of text)")

	return cmd
}

func newInsertVarCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insert-var <id> <name>",
		Short: "Insert a {variable} token at the caret of a leaf node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, err = a.edit(cmd.Context(), func(t *msgtemplate.Tree) error {
				return t.InsertVariable(id, args[1])
			})

			return err
		},
	}
}

func newCompileCommand(a *app) *cobra.Command {
	var values map[string]string
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the template into a message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			if err = msgtemplate.Render(cmd.OutOrStdout(), t, values); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())

			return nil
		},
	}
	cmd.Flags().StringToStringVar(&values, "var", nil, "variable binding name=value (repeatable)")

	return cmd
}

func newVarsCommand(a *app) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "vars [names...]",
		Short: "List or replace the variable names",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch {
			case reset:
				if err := a.store.SaveVarNames(ctx, a.config.VarNames); err != nil {
					return err
				}
			case len(args) > 0:
				if err := a.store.SaveVarNames(ctx, args); err != nil {
					return err
				}
			}
			names, err := a.store.VarNames(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "{%s}\n", name)
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "restore the configured variable names")

	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the template snapshot as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			var data []byte
			switch format {
			case "json":
				data, err = t.Snapshot().Marshal()
			case "yaml":
				data, err = t.Snapshot().EncodeYAML()
			default:
				err = errors.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}

			return errors.Wrapf(os.WriteFile(output, data, 0644), "can't write %s", output)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the template with a JSON or YAML snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "can't read %s", args[0])
			}
			var snapshot *msgtemplate.Snapshot
			switch format {
			case "json":
				snapshot, err = msgtemplate.ParseSnapshot(data)
			case "yaml":
				snapshot, err = msgtemplate.ParseSnapshotYAML(data)
			default:
				err = errors.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			varNames, err := a.store.VarNames(ctx)
			if err != nil {
				return err
			}
			t, err := msgtemplate.Restore(snapshot, varNames)
			if err != nil {
				return err
			}
			if err = a.save(ctx, t); err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), t)

			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")

	return cmd
}

func newResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the template with an empty one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			varNames, err := a.store.VarNames(ctx)
			if err != nil {
				return err
			}

			return a.save(ctx, msgtemplate.New(varNames))
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := a.store.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return nil
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the stored template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.store.DeleteTemplate(cmd.Context(), a.config.Template)
		},
	}
}
