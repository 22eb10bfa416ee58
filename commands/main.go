package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AkihiroSuda/nscache/config"
)

var (
	mainCmdConfig struct {
		configPath string
		snapshot   string
		debug      bool
		color      string
		progress   bool
	}

	// cfg is the effective configuration: the config file overridden by flags.
	cfg = config.Default()

	MainCmd = &cobra.Command{
		Use:               "nscache <command>",
		Short:             "nscache: local mirror of a hierarchical namespace",
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() {
	addGlobalFlags(MainCmd.PersistentFlags())

	MainCmd.AddCommand(GetCmd)
	MainCmd.AddCommand(SetCmd)
	MainCmd.AddCommand(DeleteCmd)
	MainCmd.AddCommand(DumpCmd)
	MainCmd.AddCommand(FindCmd)
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&mainCmdConfig.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/nscache/config.toml)")
	flags.StringVar(&mainCmdConfig.snapshot, "snapshot", "", "namespace snapshot file")
	flags.BoolVar(&mainCmdConfig.debug, "debug", false, "debug logging")
	flags.StringVar(&mainCmdConfig.color, "color", config.ColorAuto, "colorize output (auto, always, never)")
	flags.BoolVar(&mainCmdConfig.progress, "progress", false, "show progress while loading snapshots")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path := mainCmdConfig.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("snapshot") {
		c.Snapshot = mainCmdConfig.snapshot
	}
	if flags.Changed("color") {
		c.Color = mainCmdConfig.color
	}
	if flags.Changed("progress") {
		c.Progress = mainCmdConfig.progress
	}
	if mainCmdConfig.debug {
		c.LogLevel = logrus.DebugLevel.String()
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Snapshot == "" {
		return errors.New("no snapshot file: set --snapshot or \"snapshot\" in the config file")
	}
	level, _ := logrus.ParseLevel(c.LogLevel)
	logrus.SetLevel(level)
	setColor(c.Color)
	cfg = c
	return nil
}

func setColor(mode string) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	default:
		color.NoColor = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}
