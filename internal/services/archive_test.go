package services

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

func TestPackagerEntries(t *testing.T) {
	p := NewPackager()
	tests := []struct {
		name      string
		cover     []byte
		coverMIME string
		lyrics    string
		want      []string
	}{
		{"audio only", nil, "", "  \n", []string{"Song - Artist.flac"}},
		{"jpeg cover and lyrics", []byte{0xFF, 0xD8}, "image/jpeg", "[00:01.00]x", []string{"Song - Artist.flac", "Song - Artist.jpg", "Song - Artist.lrc"}},
		{"png cover", []byte{0x89, 'P', 'N', 'G'}, "image/png", "", []string{"Song - Artist.flac", "Song - Artist.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := p.Entries("Song - Artist", "flac", []byte("audio"), tt.cover, tt.coverMIME, tt.lyrics)
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, e := range entries {
				if e.Name != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, e.Name, tt.want[i])
				}
			}
		})
	}
}

func TestPackagerStoresEntries(t *testing.T) {
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &Packager{now: func() time.Time { return modified }}
	entries := p.Entries("Track", "mp3", fakeFrames, []byte{0xFF, 0xD8, 0xFF}, "image/jpeg", "[00:01.00]hi")

	data, err := p.Package(entries)
	if err != nil {
		t.Fatalf("Package failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader failed: %v", err)
	}
	if len(zr.File) != 3 {
		t.Fatalf("archive has %d files, want 3", len(zr.File))
	}
	for i, f := range zr.File {
		if f.Name != entries[i].Name {
			t.Errorf("file %d = %q, want %q", i, f.Name, entries[i].Name)
		}
		if f.Method != zip.Store {
			t.Errorf("%s method = %d, want Store", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		if !bytes.Equal(got, entries[i].Data) {
			t.Errorf("%s content mismatch", f.Name)
		}
	}
}
