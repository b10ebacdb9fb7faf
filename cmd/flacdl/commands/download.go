package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"flacdl/internal/services"
	"flacdl/internal/shared"
)

// NewDownloadCommand creates the download command
func NewDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [url]",
		Short: "Download a track and embed its metadata.",
		Long: `Download a single track by URL, or a batch of tracks described by the
song API's JSON response (--tracks).`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDownloadCommand,
	}

	cmd.Flags().String("name", "", "Track title")
	cmd.Flags().String("artist", "", "Track artist")
	cmd.Flags().String("album", "", "Album name")
	cmd.Flags().String("date", "", "Release date or year")
	cmd.Flags().String("ext", "", "File extension reported by the API (flac, mp3, mp4)")
	cmd.Flags().String("cover-url", "", "Cover image URL")
	cmd.Flags().String("lyric-file", "", "LRC file with the original lyrics")
	cmd.Flags().String("tlyric-file", "", "LRC file with the translated lyrics")
	cmd.Flags().String("tracks", "", "JSON file with one track object or an array of them")
	cmd.Flags().String("out", "", "Output directory (defaults to the download location)")
	cmd.Flags().Bool("zip", false, "Package audio, cover and lyrics into a ZIP archive")
	cmd.Flags().Bool("no-metadata", false, "Save the file exactly as downloaded")

	return cmd
}

func runDownloadCommand(cmd *cobra.Command, args []string) error {
	cfg, container, err := initConfigAndServices(cmd)
	if err != nil {
		return err
	}
	if zip, _ := cmd.Flags().GetBool("zip"); zip {
		cfg.EnableZipPackage = true
	}
	if noMeta, _ := cmd.Flags().GetBool("no-metadata"); noMeta {
		cfg.EnableMetadata = false
	}

	tracks, err := tracksFromFlags(cmd, args)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = cfg.DownloadLocation
	}
	if err := container.FileSystem.ValidateDownloadLocation(outDir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	container.DownloadService.SetProgressFactory(progressFactory())
	stats, err := container.DownloadService.DownloadTracks(ctx, tracks, outDir)
	if errors.Is(err, shared.ErrDownloadCancelled) {
		container.Logger.Warning("Download cancelled by user.")
	}

	if container.WarningCollector.HasWarnings() {
		container.WarningCollector.PrintSummary()
	}
	printSummary(stats, outDir)

	if err != nil {
		return err
	}
	if stats.FailedCount > 0 {
		return fmt.Errorf("%d of %d downloads failed", stats.FailedCount, len(tracks))
	}
	return nil
}

func tracksFromFlags(cmd *cobra.Command, args []string) ([]shared.Track, error) {
	flags := cmd.Flags()
	if path, _ := flags.GetString("tracks"); path != "" {
		return loadTracks(path)
	}
	if len(args) == 0 {
		return nil, errors.New("a URL or --tracks is required")
	}

	track := shared.Track{URL: args[0]}
	track.Name, _ = flags.GetString("name")
	track.Artist, _ = flags.GetString("artist")
	track.Album, _ = flags.GetString("album")
	track.Date, _ = flags.GetString("date")
	track.Ext, _ = flags.GetString("ext")
	track.CoverURL, _ = flags.GetString("cover-url")
	if track.Name == "" {
		track.Name = nameFromURL(track.URL)
	}
	if track.Ext == "" {
		track.Ext = extFromURL(track.URL)
	}

	lyricFile, _ := flags.GetString("lyric-file")
	tlyricFile, _ := flags.GetString("tlyric-file")
	var err error
	if track.Lyric, err = readOptionalFile(lyricFile); err != nil {
		return nil, err
	}
	if track.TLyric, err = readOptionalFile(tlyricFile); err != nil {
		return nil, err
	}
	return []shared.Track{track}, nil
}

// loadTracks accepts either a single track object or an array.
func loadTracks(path string) ([]shared.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracks file: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var track shared.Track
		if err := json.Unmarshal(data, &track); err != nil {
			return nil, fmt.Errorf("failed to parse tracks file: %w", err)
		}
		return []shared.Track{track}, nil
	}
	var tracks []shared.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("failed to parse tracks file: %w", err)
	}
	if len(tracks) == 0 {
		return nil, errors.New("tracks file is empty")
	}
	return tracks, nil
}

func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func urlPath(rawURL string) string {
	path := rawURL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

func nameFromURL(rawURL string) string {
	base := urlPath(rawURL)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		return "download"
	}
	return base
}

func extFromURL(rawURL string) string {
	base := urlPath(rawURL)
	if i := strings.LastIndex(base, "."); i > 0 {
		return services.NormalizeExt(base[i+1:])
	}
	return ""
}

func printSummary(stats *shared.DownloadStats, outDir string) {
	if stats == nil || stats.SuccessCount+stats.FailedCount+stats.SkippedCount == 0 {
		return
	}
	fmt.Printf("\n")
	shared.ColorInfo.Printf("📊 Download Summary:\n")
	if stats.SuccessCount > 0 {
		shared.ColorSuccess.Printf("✅ Successfully downloaded: %d tracks\n", stats.SuccessCount)
	}
	if stats.SkippedCount > 0 {
		shared.ColorWarning.Printf("⏭️  Skipped (already exists): %d tracks\n", stats.SkippedCount)
	}
	if stats.FailedCount > 0 {
		shared.ColorError.Printf("❌ Failed downloads: %d tracks\n", stats.FailedCount)
		for _, item := range stats.FailedItems {
			shared.ColorError.Printf("   %s\n", item)
		}
	}
	shared.ColorSuccess.Printf("📁 Saved to: %s\n", outDir)
}
