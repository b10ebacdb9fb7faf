package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dhowden/tag"

	"flacdl/internal/core/flacmeta"
)

// MetadataService reads and edits tags of FLAC files on disk.
type MetadataService struct {
	tagger *FLACTagger
}

func NewMetadataService(verify bool) *MetadataService {
	return &MetadataService{tagger: NewFLACTagger(verify)}
}

func (ms *MetadataService) ReadFile(path string) (*flacmeta.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	md, err := flacmeta.ReadTags(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return md, nil
}

// TagFile rewrites path through a temporary file in the same directory so
// a failed write never leaves a truncated original. A cover failure still
// saves the text tags and returns the *flacmeta.CoverError.
func (ms *MetadataService) TagFile(path string, tags flacmeta.Tags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	out, tagErr := ms.tagger.WriteTags(data, tags)
	if out == nil {
		return tagErr
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".flacdl-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return tagErr
}

// CrossCheck reads the file with dhowden/tag, independently of the
// built-in parser.
func (ms *MetadataService) CrossCheck(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("tag reader rejected %s: %w", filepath.Base(path), err)
	}
	fields := map[string]string{
		"format":   string(m.Format()),
		"filetype": string(m.FileType()),
		"title":    m.Title(),
		"artist":   m.Artist(),
		"album":    m.Album(),
	}
	if m.Year() != 0 {
		fields["year"] = strconv.Itoa(m.Year())
	}
	if pic := m.Picture(); pic != nil {
		fields["picture"] = fmt.Sprintf("%s, %d bytes", pic.MIMEType, len(pic.Data))
	}
	return fields, nil
}
