package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPresignCommand(ctx *commandContext) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "presign <filename>",
		Short: "Request a direct-to-storage upload URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Presign(cmd.Context(), args[0], contentType)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key: %s\n", resp.Key)
			fmt.Fprintf(out, "URL: %s\n", resp.URL)
			if len(resp.Headers) > 0 {
				fmt.Fprintln(out, "Suggested headers:")
				for name, value := range resp.Headers {
					fmt.Fprintf(out, "  %s: %s\n", name, value)
				}
			}
			fmt.Fprintf(out, "\nUpload with: curl -X PUT --upload-file <file> '%s'\n", resp.URL)
			fmt.Fprintf(out, "Then trigger: mediaforge jobs create %s\n", resp.Key)
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "Suggested Content-Type header (not part of the signature)")
	return cmd
}
