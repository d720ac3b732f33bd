package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("oxj")

// app carries state resolved before any subcommand runs.
type app struct {
	configPath string
	verbose    int
	cfg        Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "oxj",
		Short:        "Read and dump JVM class files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+defaultConfigPath()+")")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newDumpCmd(a))
	rootCmd.AddCommand(newPoolCmd(a))
	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	path, explicit := a.configPath, true
	if path == "" {
		path, explicit = defaultConfigPath(), false
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	verbosity := a.verbose
	if !cmd.Flags().Changed("verbose") && cfg.Verbosity != nil {
		verbosity = *cfg.Verbosity
	}
	var logPath *string
	if cfg.LogFile != "" {
		logPath = &cfg.LogFile
	}
	commonlog.Configure(verbosity, logPath)
	log.Debugf("config %s loaded (verbosity %d)", path, verbosity)
	return nil
}

// formatFor resolves the output format: the flag when set, else the
// config file, else the flag's default.
func (a *app) formatFor(cmd *cobra.Command, flagValue string) string {
	if !cmd.Flags().Changed("format") && a.cfg.Format != "" {
		return a.cfg.Format
	}
	return flagValue
}
