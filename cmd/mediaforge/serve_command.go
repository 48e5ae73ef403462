package main

import (
	"strings"

	"github.com/spf13/cobra"

	"mediaforge/internal/daemonrun"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			return daemonrun.Run(cmd.Context(), path)
		},
	}
}
