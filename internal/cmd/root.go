// Package cmd is the CLI surface: argument parsing and sub-command
// dispatch around the interactive picker, built on
// github.com/spf13/cobra.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/alisonjenkins/tmux-sessionizer/internal/app"
)

var (
	configFile       string
	copyPath         bool
	postCreateScript string
	verbose          bool
)

var rootCmd = &cobra.Command{
	Use:     "tmux-sessionizer",
	Short:   "tmux-sessionizer - fuzzy-pick a project and materialize a tmux session rooted there",
	Version: "v0.1.0",
	Long: `tmux-sessionizer discovers project directories across your filesystem
(git/jujutsu repositories, bookmarks, and remote-hosted repositories),
presents them in a fuzzy-matchable picker, and switches to (or creates)
a tmux session rooted at the one you pick.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureDiagnostics()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(context.Background(), app.Options{
			ConfigPath:       configFile,
			CopyPath:         copyPath,
			PostCreateScript: postCreateScript,
		})
	},
}

// Execute runs the root command, printing any fatal error to stderr
// and exiting with code 1. "No selection" (Cancel) returns nil from
// app.Run and exits 0.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configureDiagnostics routes the stdlib logger's diagnostic traces to
// stderr when the single verbosity toggle (-v or TMS_VERBOSE) is on,
// and discards them otherwise.
func configureDiagnostics() {
	if verbose || os.Getenv("TMS_VERBOSE") != "" {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to the configuration document (overrides TMS_CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic traces on standard error (also TMS_VERBOSE)")
	rootCmd.Flags().BoolVar(&copyPath, "copy-path", false, "copy the materialized session's path to the clipboard")
	rootCmd.Flags().StringVar(&postCreateScript, "post-create-script", "", "shell script to run (path, session-name) right after a new session is created")
}
