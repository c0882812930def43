package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taikocss/taikocss/internal/config"
	"github.com/taikocss/taikocss/internal/theme"
)

func newTokensCmd() *cobra.Command {
	var configPath, themePath, outPath string

	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Emit the color-scheme CSS variable blocks derived from the theme",
		Long: `Tokens renders one rule per color scheme and mode:

  [data-color-scheme="S"][data-mode="M"] { --<group>-<token>: <value>; }

This runs once per build setup, independent of source transforms.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("theme") {
				cfg.Theme = themePath
			}
			if cfg.Theme == "" {
				return fmt.Errorf("no theme configured: pass --theme or set theme in %s", config.DefaultFilename)
			}

			data, err := os.ReadFile(cfg.Theme)
			if err != nil {
				return fmt.Errorf("reading theme: %w", err)
			}
			th, err := theme.Parse(data)
			if err != nil {
				return fmt.Errorf("invalid theme: %w", err)
			}

			css := th.ColorSchemeCSS()
			if outPath != "" {
				return os.WriteFile(outPath, []byte(css), 0o644)
			}
			fmt.Fprint(cmd.OutOrStdout(), css)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to taikocss.yaml")
	cmd.Flags().StringVar(&themePath, "theme", "", "Path to the theme JSON file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the CSS to a file instead of stdout")

	return cmd
}
