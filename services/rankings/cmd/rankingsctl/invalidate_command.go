package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/cache"
)

func newInvalidateCommand(ctx *commandContext) *cobra.Command {
	var publish bool
	cmd := &cobra.Command{
		Use:   "invalidate [key|ALL]",
		Short: "Drop cached lists, locally or by announcing on NATS",
		Long: "Without an argument every key under the configured region is removed. " +
			"With --publish the request is sent to NATS_INVALIDATE_SUBJECT so every running server drops it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.connectNATS = publish
			target := cache.AllKeys
			if len(args) == 1 {
				target = args[0]
			}
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			if publish {
				if a.NATS == nil {
					return errors.New("--publish needs NATS_URL")
				}
				if err := a.NATS.Publish(a.Config.NATSInvalidateSubject, []byte(target)); err != nil {
					return err
				}
				if err := a.NATS.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "published %q on %s\n", target, a.Config.NATSInvalidateSubject)
				return nil
			}
			n, err := a.Service.Invalidate(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d key(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "Announce on NATS instead of deleting locally")
	return cmd
}
