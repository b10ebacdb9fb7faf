package flacmeta

import (
	"bytes"
	"errors"
	"testing"
)

func TestVorbisCommentLittleEndian(t *testing.T) {
	vc := &VorbisComment{Vendor: "ab", Comments: []string{"K=v"}}
	want := []byte{2, 0, 0, 0, 'a', 'b', 1, 0, 0, 0, 3, 0, 0, 0, 'K', '=', 'v'}
	if got := vc.Marshal(); !bytes.Equal(got, want) {
		t.Errorf("Marshal() = %v, want %v", got, want)
	}
}

func TestPictureBigEndian(t *testing.T) {
	p := &Picture{Type: PictureTypeFrontCover, MIME: "image/png", Width: 300, Height: 2, Data: []byte{9}}
	got := p.Marshal()
	want := []byte{
		0, 0, 0, 3,
		0, 0, 0, 9, 'i', 'm', 'a', 'g', 'e', '/', 'p', 'n', 'g',
		0, 0, 0, 0,
		0, 0, 1, 44,
		0, 0, 0, 2,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 1, 9,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = %v, want %v", got, want)
	}

	back, err := ParsePicture(got)
	if err != nil {
		t.Fatalf("ParsePicture failed: %v", err)
	}
	if back.Width != 300 || back.MIME != "image/png" || !bytes.Equal(back.Data, []byte{9}) {
		t.Errorf("ParsePicture = %+v", back)
	}
}

func TestParseVorbisCommentTruncated(t *testing.T) {
	full := (&VorbisComment{Vendor: "vendor", Comments: []string{"TITLE=x", "ARTIST=y"}}).Marshal()
	for _, n := range []int{0, 3, 8, 12, len(full) - 1} {
		if _, err := ParseVorbisComment(full[:n]); !errors.Is(err, ErrTruncated) {
			t.Errorf("ParseVorbisComment(%d bytes): expected ErrTruncated, got %v", n, err)
		}
	}

	// declared count far beyond the payload
	lying := []byte{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0x7F}
	if _, err := ParseVorbisComment(lying); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated for oversized count, got %v", err)
	}
}

func TestParsePictureTruncated(t *testing.T) {
	full := NewFrontCover([]byte{1, 2, 3, 4}, "image/jpeg").Marshal()
	for _, n := range []int{2, 10, 30, len(full) - 1} {
		if _, err := ParsePicture(full[:n]); !errors.Is(err, ErrTruncated) {
			t.Errorf("ParsePicture(%d bytes): expected ErrTruncated, got %v", n, err)
		}
	}
}

func TestVorbisCommentGet(t *testing.T) {
	vc := &VorbisComment{Comments: []string{"title=a=b", "broken", "DATE=2020"}}
	if vc.Get("TITLE") != "a=b" {
		t.Errorf("Get(TITLE) = %q", vc.Get("TITLE"))
	}
	if vc.Get("Date") != "2020" || vc.Get("ALBUM") != "" {
		t.Error("unexpected Get results")
	}
}

func TestByteReaderBounds(t *testing.T) {
	r := newByteReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	if v, _ := r.u24be(); v != 0x010203 {
		t.Errorf("u24be = %#x", v)
	}
	if _, err := r.u32le(); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
	if r.remaining() != 2 {
		t.Errorf("failed read consumed bytes: %d remaining", r.remaining())
	}

	var w byteWriter
	w.u32le(0x01020304)
	w.u32be(0x01020304)
	w.u24be(0x0A0B0C)
	want := []byte{4, 3, 2, 1, 1, 2, 3, 4, 0x0A, 0x0B, 0x0C}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("writer = %v", w.Bytes())
	}
}
