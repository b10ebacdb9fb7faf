package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flacdl/internal/core/flacmeta"
	"flacdl/internal/services"
)

// NewTagCommand rewrites the tags of a FLAC file in place.
func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag [file]",
		Short: "Write title, artist, album, date, lyrics and cover into a FLAC file.",
		Args:  cobra.ExactArgs(1),
		RunE:  runTagCommand,
	}
	cmd.Flags().String("title", "", "Title")
	cmd.Flags().String("artist", "", "Artist")
	cmd.Flags().String("album", "", "Album")
	cmd.Flags().String("date", "", "Release date or year")
	cmd.Flags().String("lyrics", "", "LRC file with the lyrics")
	cmd.Flags().String("tlyrics", "", "LRC file with translated lyrics, merged line by line")
	cmd.Flags().String("cover", "", "Cover image file")
	cmd.Flags().Bool("keep", false, "Keep existing values for fields not given on the command line")
	cmd.Flags().Bool("no-verify", false, "Skip the go-flac cross-check before saving")
	return cmd
}

func runTagCommand(cmd *cobra.Command, args []string) error {
	path := args[0]
	flags := cmd.Flags()
	noVerify, _ := flags.GetBool("no-verify")
	ms := services.NewMetadataService(!noVerify)

	var tags flacmeta.Tags
	if keep, _ := flags.GetBool("keep"); keep {
		md, err := ms.ReadFile(path)
		if err != nil {
			return err
		}
		tags = md.Tags
	}

	setString := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	setString("title", &tags.Title)
	setString("artist", &tags.Artist)
	setString("album", &tags.Album)
	setString("date", &tags.Date)

	lyricsFile, _ := flags.GetString("lyrics")
	tlyricsFile, _ := flags.GetString("tlyrics")
	if lyricsFile != "" {
		lyrics, err := readOptionalFile(lyricsFile)
		if err != nil {
			return err
		}
		translated, err := readOptionalFile(tlyricsFile)
		if err != nil {
			return err
		}
		tags.Lyrics = services.MergeLyrics(lyrics, translated)
	}
	if coverFile, _ := flags.GetString("cover"); coverFile != "" {
		cover, err := readFile(coverFile)
		if err != nil {
			return err
		}
		tags.Cover = cover
	}

	err := ms.TagFile(path, tags)
	var coverErr *flacmeta.CoverError
	switch {
	case errors.As(err, &coverErr):
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: tags written without cover: %v\n", coverErr)
	case err != nil:
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s\n", path)
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
