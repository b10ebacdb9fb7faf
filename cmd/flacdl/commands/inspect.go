package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"flacdl/internal/core/flacmeta"
	"flacdl/internal/services"
	"flacdl/internal/shared"
)

// NewInspectCommand prints the metadata of a FLAC file.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show tags, stream info and cover of a FLAC file.",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspectCommand,
	}
	cmd.Flags().Bool("cross-check", false, "Also read the file with an independent tag reader and verify the block chain")
	cmd.Flags().Bool("lyrics", false, "Print the embedded lyrics")
	return cmd
}

func runInspectCommand(cmd *cobra.Command, args []string) error {
	path := args[0]
	ms := services.NewMetadataService(false)
	md, err := ms.ReadFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-12s %s\n", "File:", path)
	fmt.Fprintf(out, "%-12s %s\n", "Size:", shared.FormatFileSize(int64(md.FileSize)))
	fmt.Fprint(out, md.Summary())

	if showLyrics, _ := cmd.Flags().GetBool("lyrics"); showLyrics && md.Lyrics != "" {
		fmt.Fprintf(out, "\n%s\n", md.Lyrics)
	}

	crossCheck, _ := cmd.Flags().GetBool("cross-check")
	if !crossCheck {
		return nil
	}

	fields, err := ms.CrossCheck(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nIndependent reader:")
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if fields[k] != "" {
			fmt.Fprintf(out, "  %-10s %s\n", k+":", fields[k])
		}
	}

	data, err := readFile(path)
	if err != nil {
		return err
	}
	if err := flacmeta.Verify(data); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	fmt.Fprintln(out, "  verify:    ok")
	return nil
}
