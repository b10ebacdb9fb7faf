package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"flacdl/internal/config"
	"flacdl/internal/core/downloader"
	"flacdl/internal/core/flacmeta"
	"flacdl/internal/interfaces"
	"flacdl/internal/shared"
)

// ErrAlreadyExists is returned when the destination file is already on disk.
var ErrAlreadyExists = errors.New("file already exists")

// DownloadService runs the download, tag and save workflow for a track.
type DownloadService struct {
	config      *config.Config
	fetcher     interfaces.Fetcher
	taggers     []interfaces.TagWriter
	fileSystem  interfaces.FileSystemService
	logger      interfaces.LoggerService
	warnings    interfaces.WarningCollectorService
	packager    *Packager
	newProgress interfaces.ProgressFactory
}

func NewDownloadService(
	cfg *config.Config,
	fetcher interfaces.Fetcher,
	taggers []interfaces.TagWriter,
	fileSystem interfaces.FileSystemService,
	logger interfaces.LoggerService,
	warnings interfaces.WarningCollectorService,
) *DownloadService {
	return &DownloadService{
		config:     cfg,
		fetcher:    fetcher,
		taggers:    taggers,
		fileSystem: fileSystem,
		logger:     logger,
		warnings:   warnings,
		packager:   NewPackager(),
	}
}

// SetProgressFactory installs per-track progress reporting; nil disables it.
func (s *DownloadService) SetProgressFactory(factory interfaces.ProgressFactory) {
	s.newProgress = factory
}

// DownloadTrack downloads a track and saves it, tagged when metadata is
// enabled, under outDir. It returns the saved path. A track whose file
// already exists is not fetched again and ErrAlreadyExists is returned with
// the existing path.
func (s *DownloadService) DownloadTrack(ctx context.Context, track shared.Track, outDir string) (string, error) {
	jobID := uuid.NewString()[:8]
	label := FormatFilename(track.Name, track.Artist, s.config.FilenameFormat)
	if track.URL == "" {
		return "", fmt.Errorf("track %q has no download URL", label)
	}

	path := s.fileSystem.GetDownloadPath(outDir, track)
	if s.fileSystem.FileExists(path) {
		s.warnings.AddTrackSkippedWarning(path)
		return path, ErrAlreadyExists
	}

	s.logger.Debug("[%s] Downloading %s from %s", jobID, label, track.URL)
	audio, err := s.fetch(ctx, track.URL, label)
	if err != nil {
		if isCancelled(ctx, err) {
			return "", shared.ErrDownloadCancelled
		}
		return "", fmt.Errorf("failed to download %s: %w", label, err)
	}
	s.logger.Debug("[%s] Received %s (chunked=%t, type=%q)", jobID, shared.FormatFileSize(int64(len(audio.Data))), audio.Chunked, audio.ContentType)

	ext := NormalizeExt(track.Ext)
	lyrics := MergeLyrics(track.Lyric, track.TLyric)

	var cover []byte
	if track.CoverURL != "" {
		res, err := s.fetcher.Download(ctx, track.CoverURL, nil, nil)
		switch {
		case err == nil:
			cover = res.Data
		case isCancelled(ctx, err):
			return "", shared.ErrDownloadCancelled
		default:
			s.warn(func() { s.warnings.AddCoverFetchWarning(label, err.Error()) }, "[%s] Could not fetch cover for %s: %v", jobID, label, err)
		}
	}

	data := audio.Data
	if s.config.EnableMetadata {
		data = s.tag(jobID, label, ext, data, flacmeta.Tags{
			Title:  track.Name,
			Artist: track.Artist,
			Album:  track.Album,
			Date:   track.Date,
			Lyrics: lyrics,
			Cover:  cover,
		})
	}

	if s.config.EnableZipPackage {
		base := s.fileSystem.SanitizeFileName(label)
		entries := s.packager.Entries(base, ext, data, cover, flacmeta.DetectImageMIME(cover), lyrics)
		if data, err = s.packager.Package(entries); err != nil {
			return "", err
		}
	}

	if err := s.fileSystem.WriteFile(path, data); err != nil {
		return "", err
	}
	s.logger.Success("Saved %s", path)
	return path, nil
}

// DownloadTracks downloads tracks one after another. It stops early only
// when the context is cancelled.
func (s *DownloadService) DownloadTracks(ctx context.Context, tracks []shared.Track, outDir string) (*shared.DownloadStats, error) {
	stats := &shared.DownloadStats{}
	for _, track := range tracks {
		_, err := s.DownloadTrack(ctx, track, outDir)
		switch {
		case err == nil:
			stats.SuccessCount++
		case errors.Is(err, ErrAlreadyExists):
			stats.SkippedCount++
		case errors.Is(err, shared.ErrDownloadCancelled):
			return stats, err
		default:
			stats.FailedCount++
			stats.FailedItems = append(stats.FailedItems, fmt.Sprintf("%s: %v", track.Name, err))
			s.logger.Error("%v", err)
		}
	}
	return stats, nil
}

func (s *DownloadService) fetch(ctx context.Context, url, label string) (*downloader.Result, error) {
	if s.newProgress == nil {
		return s.fetcher.Download(ctx, url, nil, nil)
	}
	reporter := s.newProgress(label)
	defer reporter.Finish()
	return s.fetcher.Download(ctx, url, reporter.Progress, reporter.Speed)
}

// tag returns data with tags embedded. Tagging never fails a download:
// on error the untagged bytes are kept and a warning is recorded.
func (s *DownloadService) tag(jobID, label, ext string, data []byte, tags flacmeta.Tags) []byte {
	var writer interfaces.TagWriter
	for _, t := range s.taggers {
		if t.Supports(ext) {
			writer = t
			break
		}
	}
	if writer == nil {
		s.logger.Debug("[%s] No tag writer for .%s, saving as downloaded", jobID, ext)
		return data
	}

	out, err := writer.WriteTags(data, tags)
	var coverErr *flacmeta.CoverError
	switch {
	case err == nil:
		return out
	case errors.As(err, &coverErr):
		s.warn(func() { s.warnings.AddCoverEmbedWarning(label, coverErr.Error()) }, "[%s] Cover not embedded for %s: %v", jobID, label, coverErr)
		return out
	case errors.Is(err, ErrVerifyFailed):
		s.warn(func() { s.warnings.AddVerifyWarning(label, err.Error()) }, "[%s] Saving %s untagged: %v", jobID, label, err)
	default:
		s.warn(func() { s.warnings.AddTaggingWarning(label, err.Error()) }, "[%s] Saving %s untagged: %v", jobID, label, err)
	}
	return data
}

// warn records a warning and also prints it when warnings are immediate.
func (s *DownloadService) warn(record func(), format string, args ...interface{}) {
	record()
	if s.config.WarningBehavior == config.WarningImmediate {
		s.logger.Warning(format, args...)
	} else {
		s.logger.Debug(format, args...)
	}
}

func isCancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
