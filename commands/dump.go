package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/AkihiroSuda/nscache/pathtree"
)

var DumpCmd = &cobra.Command{
	Use:   "dump [path]",
	Short: "List the cached tree below a path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := pathtree.Delimiter
		if len(args) == 1 {
			var err error
			if p, err = pathArg(args[0]); err != nil {
				return err
			}
		}
		tree, err := loadTree(false)
		if err != nil {
			return err
		}
		n, ok := tree.Get(p)
		if !ok {
			return errors.Errorf("%s: not found", p)
		}
		return dumpTree(cmd.OutOrStdout(), n)
	},
}

type dumpLine struct {
	path   string
	value  string
	digest string
	set    bool
}

// dumpTree writes one line per node below n: path, quoted value and short
// digest, with the path column aligned on display width.
func dumpTree(w io.Writer, n *pathtree.Node) error {
	var (
		lines []dumpLine
		width int
		total int
	)
	pathtree.WalkFrom(n, func(n *pathtree.Node) error {
		l := dumpLine{path: n.Path()}
		if v, ok := n.Value(); ok {
			l.set = true
			l.value = strconv.Quote(string(v))
			l.digest = digest.FromBytes(v).Encoded()[:12]
			total += len(v)
		}
		if pw := runewidth.StringWidth(l.path); pw > width {
			width = pw
		}
		lines = append(lines, l)
		return nil
	})

	pathColor := color.New(color.FgCyan).SprintFunc()
	noValueColor := color.New(color.FgHiBlack).SprintFunc()
	for _, l := range lines {
		padded := pathColor(runewidth.FillRight(l.path, width))
		var err error
		if l.set {
			_, err = fmt.Fprintf(w, "%s  %s  %s\n", padded, l.digest, l.value)
		} else {
			_, err = fmt.Fprintf(w, "%s  %s\n", padded, noValueColor("(no value)"))
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d nodes, %s of values\n", len(lines), units.HumanSize(float64(total)))
	return err
}
