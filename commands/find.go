package commands

import (
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/AkihiroSuda/nscache/pathtree"
)

var (
	findCmdConfig struct {
		limit int
	}

	FindCmd = &cobra.Command{
		Use:   "find <pattern>",
		Short: "Fuzzy-search the cached paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(false)
			if err != nil {
				return err
			}
			for _, p := range findPaths(tree, args[0], findCmdConfig.limit) {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
)

func init() {
	FindCmd.Flags().IntVar(&findCmdConfig.limit, "limit", 20, "maximum number of results (0 for all)")
}

// findPaths returns the paths of tree matching pattern, best match first.
func findPaths(tree *pathtree.Tree, pattern string, limit int) []string {
	var paths []string
	tree.Walk(func(n *pathtree.Node) error {
		if n != tree.Root() {
			paths = append(paths, n.Path())
		}
		return nil
	})
	matches := fuzzy.Find(pattern, paths)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	res := make([]string, 0, len(matches))
	for _, m := range matches {
		res = append(res, m.Str)
	}
	return res
}
