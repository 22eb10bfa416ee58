package commands

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/AkihiroSuda/nscache/pathtree"
	"github.com/AkihiroSuda/nscache/snapshot"
)

// readSnapshot reads the configured snapshot. A missing file is an empty
// snapshot when allowMissing is set.
func readSnapshot(allowMissing bool) (*snapshot.Snapshot, error) {
	s, err := snapshot.ReadFile(cfg.Snapshot)
	if err != nil {
		if allowMissing && os.IsNotExist(errors.Cause(err)) {
			logrus.Infof("Snapshot %s does not exist yet", cfg.Snapshot)
			return &snapshot.Snapshot{}, nil
		}
		return nil, err
	}
	return s, nil
}

func loadTree(allowMissing bool) (*pathtree.Tree, error) {
	s, err := readSnapshot(allowMissing)
	if err != nil {
		return nil, err
	}
	tree := pathtree.New()
	if err := s.Apply(tree, snapshot.Options{Progress: cfg.Progress}); err != nil {
		return nil, errors.Wrapf(err, "loading %s", cfg.Snapshot)
	}
	return tree, nil
}

func saveTree(tree *pathtree.Tree) error {
	s := snapshot.FromTree(tree)
	if err := s.WriteFile(cfg.Snapshot); err != nil {
		return errors.Wrapf(err, "writing %s", cfg.Snapshot)
	}
	logrus.Debugf("Wrote %d entries to %s", len(s.Entries), cfg.Snapshot)
	return nil
}

func pathArg(arg string) (string, error) {
	return pathtree.NormalizePath(arg)
}
