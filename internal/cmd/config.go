package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alisonjenkins/tmux-sessionizer/internal/app"
	"github.com/alisonjenkins/tmux-sessionizer/internal/config"
	"github.com/alisonjenkins/tmux-sessionizer/internal/state"
)

// configCmd groups the small read-only diagnostic sub-commands: they
// only report, never mutate.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "inspect the configuration document this run would use",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "load and validate the configuration document, reporting any error",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		roots := cfg.ResolveSearchRoots()
		bookmarks := cfg.ResolveBookmarks()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d search root(s), %d bookmark(s), %d remote profile(s))\n",
			path, len(roots), len(bookmarks), len(cfg.RemoteProfiles))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "print the resolved configuration, state, and local cache file paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		dirs, err := state.ResolveDirs(app.AppName)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config: %s\n", path)
		fmt.Fprintf(out, "state:  %s\n", dirs.StateFile())
		fmt.Fprintf(out, "cache:  %s\n", dirs.LocalCacheFile())
		return nil
	},
}

func resolveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.FilePath(app.AppName, "TMS_CONFIG_FILE")
}

func init() {
	configCmd.AddCommand(configValidateCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
