package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zeusync/behavior/internal/core/behavior"
	"github.com/zeusync/behavior/internal/core/runner"
	"github.com/zeusync/behavior/internal/demo/door"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot>",
	Short: "Print the tree and environment stored in a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := newDoor(cmd, runner.Config{})
		if err != nil {
			return err
		}
		s, err := door.LoadSnapshot(args[0], d.TreeOptions()...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "environment: distance=%.2f opened=%t done=%t\n",
			s.Env.DistanceToDoor, s.Env.DoorOpened, s.Env.Done)
		fmt.Fprintf(out, "nodes: %d\n", s.Tree.Len())
		printNode(out, s.Tree, s.Tree.RootHandle(), 0)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func printNode(out io.Writer, t *behavior.Tree[door.Environment], h behavior.Handle[door.Environment], depth int) {
	indent := strings.Repeat("  ", depth)
	n, ok := t.Node(h)
	if !ok {
		fmt.Fprintf(out, "%s%s <missing>\n", indent, h)
		return
	}
	switch n := n.(type) {
	case *behavior.Root[door.Environment]:
		fmt.Fprintf(out, "%s%s Root\n", indent, h)
		if n.Child.IsSome() {
			printNode(out, t, n.Child, depth+1)
		}
	case *behavior.Composite[door.Environment]:
		fmt.Fprintf(out, "%s%s %s\n", indent, h, n.Type)
		for _, ch := range n.Children {
			printNode(out, t, ch, depth+1)
		}
	case *behavior.Leaf[door.Environment]:
		fmt.Fprintf(out, "%s%s Leaf %s %+v\n", indent, h, n.Behavior.Kind(), n.Behavior)
	default:
		fmt.Fprintf(out, "%s%s %s\n", indent, h, n.Kind())
	}
}
