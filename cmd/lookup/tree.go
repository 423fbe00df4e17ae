package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"line-lookup/internal/tree"
)

var (
	treeDepth  int
	treeWidth  int
	treeTarget string
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Search a generated tree with DFS and BFS",
	Long: `Builds a complete tree of the given depth and width with nodes labelled
root_0, root_1, ... in level order, then searches it for --target with
both algorithms and reports the number of nodes each visited.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if treeDepth < 1 || treeWidth < 1 {
			return fmt.Errorf("depth and width must be at least 1")
		}
		runTree(cmd.OutOrStdout(), tree.Build(treeDepth, treeWidth, "root"), treeTarget)
		return nil
	},
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 10, "Number of levels")
	treeCmd.Flags().IntVar(&treeWidth, "width", 3, "Children per node")
	treeCmd.Flags().StringVar(&treeTarget, "target", "root_3", "Value to search for")
}

func runTree(w io.Writer, root *tree.Node[string], target string) {
	fmt.Fprintf(w, "nodes: %d\n", tree.Size(root))

	searches := []struct {
		name   string
		search func(*tree.Node[string], string, func(*tree.Node[string])) *tree.Node[string]
	}{
		{"dfs", tree.DFSVisit[string]},
		{"bfs", tree.BFSVisit[string]},
	}
	for _, s := range searches {
		visited := 0
		start := time.Now()
		found := s.search(root, target, func(*tree.Node[string]) { visited++ })
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%s: found=%t visited=%d elapsed=%s\n", s.name, found != nil, visited, elapsed)
	}
}
