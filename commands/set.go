package commands

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AkihiroSuda/nscache/pathtree"
)

var SetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Store a value at a path, creating missing parents",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pathArg(args[0])
		if err != nil {
			return err
		}
		tree, err := loadTree(true)
		if err != nil {
			return err
		}
		tree.SetString(p, args[1])
		logrus.Debugf("Set %s", p)
		return saveTree(tree)
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete a path and everything below it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pathArg(args[0])
		if err != nil {
			return err
		}
		if p == pathtree.Delimiter {
			return errors.New("cannot delete the root")
		}
		tree, err := loadTree(false)
		if err != nil {
			return err
		}
		if !tree.Delete(p) {
			logrus.Infof("%s does not exist", p)
			return nil
		}
		return saveTree(tree)
	},
}
