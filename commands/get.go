package commands

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AkihiroSuda/nscache/mirror"
	"github.com/AkihiroSuda/nscache/pathtree"
)

var GetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print the value stored at a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pathArg(args[0])
		if err != nil {
			return err
		}
		s, err := readSnapshot(false)
		if err != nil {
			return err
		}
		src, err := mirror.NewSnapshotSource(s)
		if err != nil {
			return err
		}
		m := mirror.New(pathtree.New(), src)
		n, ok, err := m.Get(p)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Errorf("%s: no value", p)
		}
		logrus.Debugf("Fetched %s from %s", units.HumanSize(float64(m.FetchedBytes())), cfg.Snapshot)
		v, _ := n.StringValue()
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}
