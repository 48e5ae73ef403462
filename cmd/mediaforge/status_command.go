package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon health and job counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			health, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Daemon:  %s\n", health.Status)
			fmt.Fprintf(out, "Jobs:    %d total\n", health.Total)
			fmt.Fprintf(out, "  pending: %d\n", health.Pending)
			fmt.Fprintf(out, "  started: %d\n", health.Started)
			fmt.Fprintf(out, "  success: %d\n", health.Success)
			fmt.Fprintf(out, "  failure: %d\n", health.Failure)
			return nil
		},
	}
}
