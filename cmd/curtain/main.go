// Command curtain replays scenario scripts against the in-memory host and
// prints what happened, one lifecycle event per line.
package main

import (
	"fmt"
	"os"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/spf13/cobra"
)

// Version is set via -ldflags.
var Version = "dev"

func newRootCommand() *cobra.Command {
	var (
		cfg     = curtain.DefaultConfig()
		cfgFile string
		lang    string
		debug   bool
	)

	root := &cobra.Command{
		Use:   "curtain",
		Short: "Replay screen lifecycle scenarios",
		Long: `curtain drives the queue and stack controllers against an in-memory host.

A scenario is a TOML file listing the screens that exist and the steps to
perform. Every open, change and close the host performs is printed in order,
followed by the final state of each handle the scenario created.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := curtain.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
			if lang != "" {
				cfg.Language = lang
			}
			if debug {
				cfg.Debug = true
			}
			curtain.Init(cfg.Options())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			curtain.Close()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $CURTAIN_CONFIG)")
	root.PersistentFlags().StringVar(&lang, "lang", "", "language for error messages, e.g. en or ja")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log controller activity to stderr")

	root.AddCommand(newRunCommand(&cfg))
	root.AddCommand(newLanguagesCommand())
	return root
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages error messages are available in",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, tag := range curtain.Languages() {
				fmt.Fprintln(cmd.OutOrStdout(), tag.String())
			}
		},
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
