package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"flacdl/internal/core/downloader"
	"flacdl/internal/shared"
)

// NewParamsCommand shows the chunk plan the downloader would use.
func NewParamsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params [bytes]",
		Short: "Show chunk size, concurrency and range count for a file size.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || size <= 0 {
				return fmt.Errorf("invalid size %q: must be a positive byte count", args[0])
			}
			params := downloader.ComputeParams(size)
			plan := downloader.BuildPlan(size, params.ChunkSize)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Size:        %s (%d bytes)\n", shared.FormatFileSize(size), size)
			fmt.Fprintf(out, "Chunk size:  %s\n", shared.FormatFileSize(params.ChunkSize))
			fmt.Fprintf(out, "Concurrency: %d\n", params.Concurrency)
			fmt.Fprintf(out, "Ranges:      %d\n", len(plan))
			if verbose, _ := cmd.Flags().GetBool("ranges"); verbose {
				for _, r := range plan {
					fmt.Fprintf(out, "  #%-4d %s\n", r.Index, r.Header())
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("ranges", false, "List every Range header")
	return cmd
}
