package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand returns the command tree and a cleanup that releases
// whatever the commands opened.
func newRootCommand() (*cobra.Command, func()) {
	var envFile string
	var verbose bool
	var jsonOut bool

	ctx := newCommandContext(&envFile, &verbose, &jsonOut)

	rootCmd := &cobra.Command{
		Use:           "rankingsctl",
		Short:         "Operate the streaming top-10 rankings service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(newPairsCommand(ctx))
	rootCmd.AddCommand(newFetchCommand(ctx))
	rootCmd.AddCommand(newMatchCommand(ctx))
	rootCmd.AddCommand(newAggregateCommand(ctx))
	rootCmd.AddCommand(newInvalidateCommand(ctx))

	return rootCmd, ctx.close
}
