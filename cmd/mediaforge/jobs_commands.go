package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediaforge/internal/api"
	"mediaforge/internal/media"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Create and inspect processing jobs",
	}

	jobsCmd.AddCommand(newJobsCreateCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsListCommand(ctx))

	return jobsCmd
}

func newJobsCreateCommand(ctx *commandContext) *cobra.Command {
	var pipeline []string

	cmd := &cobra.Command{
		Use:   "create <key>",
		Short: "Trigger processing for an uploaded object or media-root path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.CreateJob(cmd.Context(), args[0], pipeline)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s accepted\n", resp.JobID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&pipeline, "step", nil,
		"Pipeline step to run, repeatable ("+strings.Join(media.AllowedSteps(), ", ")+"); omit for the default pipeline")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job with output URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			job, err := client.GetJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %s\n", job.ID)
			fmt.Fprintf(out, "Input:     %s\n", job.InputRef)
			if job.InputURL != "" {
				fmt.Fprintf(out, "Input URL: %s\n", job.InputURL)
			}
			fmt.Fprintf(out, "Status:    %s\n", job.Status)
			fmt.Fprintf(out, "Progress:  %d%%\n", job.Progress)
			fmt.Fprintf(out, "Pipeline:  %s\n", strings.Join(job.Pipeline, " -> "))
			if job.Error != "" {
				fmt.Fprintf(out, "Error:     %s\n", job.Error)
			}
			if len(job.Outputs) > 0 {
				fmt.Fprintln(out, "Outputs:")
				for _, output := range job.Outputs {
					fmt.Fprintf(out, "  %-14s %s\n", output.Type, output.Key)
					if output.URL != "" {
						fmt.Fprintf(out, "  %-14s %s\n", "", output.URL)
					}
				}
			}
			return nil
		},
	}
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			list, err := client.ListJobs(cmd.Context(), statuses)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No jobs found.")
				return nil
			}
			fmt.Fprintln(out, renderJobList(list))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (pending, started, success, failure)")
	return cmd
}

func renderJobList(list []api.JobView) string {
	rows := make([][]string, 0, len(list))
	for _, job := range list {
		detail := strings.Join(job.Pipeline, ",")
		if job.Error != "" {
			detail = firstLine(job.Error)
		}
		rows = append(rows, []string{
			job.ID,
			job.InputRef,
			job.Status,
			strconv.Itoa(job.Progress) + "%",
			strconv.Itoa(len(job.Outputs)),
			detail,
		})
	}
	return renderRows(
		[]string{"ID", "Input", "Status", "Progress", "Outputs", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	const max = 60
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
