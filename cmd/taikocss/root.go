package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "taikocss",
		Short:         "Taikocss extracts css()/globalCss/keyframes calls into static CSS at build time",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newBuildCmd(flags))
	cmd.AddCommand(newTokensCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}
