package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// Packager bundles a track with its cover and lyrics into a single
// uncompressed ZIP archive.
type Packager struct {
	now func() time.Time
}

func NewPackager() *Packager {
	return &Packager{now: time.Now}
}

// PackageEntry is one file inside the archive.
type PackageEntry struct {
	Name string
	Data []byte
}

// Entries lists the archive members for a track: the audio, the cover if
// present and the lyrics if they are not blank.
func (p *Packager) Entries(base, ext string, audio, cover []byte, coverMIME, lyrics string) []PackageEntry {
	entries := []PackageEntry{{Name: base + "." + ext, Data: audio}}
	if len(cover) > 0 {
		entries = append(entries, PackageEntry{Name: base + "." + imageExt(coverMIME), Data: cover})
	}
	if strings.TrimSpace(lyrics) != "" {
		entries = append(entries, PackageEntry{Name: base + ".lrc", Data: []byte(lyrics)})
	}
	return entries
}

// Package writes entries with the Store method; audio and JPEG data do not
// compress further.
func (p *Packager) Package(entries []PackageEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := p.now()
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Store,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return buf.Bytes(), nil
}

func imageExt(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	}
	return "jpg"
}
