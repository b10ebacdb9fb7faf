package services

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bogem/id3v2/v2"

	"flacdl/internal/core/flacmeta"
)

// ErrVerifyFailed is returned when a rewritten FLAC is rejected by the
// go-flac cross-check.
var ErrVerifyFailed = errors.New("tagged FLAC failed verification")

// FLACTagger writes Vorbis comments and a front cover with the built-in
// container editor.
type FLACTagger struct {
	verify bool
}

func NewFLACTagger(verify bool) *FLACTagger {
	return &FLACTagger{verify: verify}
}

func (t *FLACTagger) Supports(ext string) bool {
	return ext == "flac"
}

// WriteTags passes a *flacmeta.CoverError through together with the
// text-only bytes so the caller can save them and report the cover problem.
func (t *FLACTagger) WriteTags(data []byte, tags flacmeta.Tags) ([]byte, error) {
	out, err := flacmeta.WriteTags(data, tags)
	var coverErr *flacmeta.CoverError
	if err != nil && !errors.As(err, &coverErr) {
		return nil, err
	}
	if t.verify {
		if verr := flacmeta.Verify(out); verr != nil {
			return nil, fmt.Errorf("%w: %v", ErrVerifyFailed, verr)
		}
	}
	return out, err
}

// ID3Tagger replaces the ID3v2 header of an MP3 with a fresh v2.4 tag.
type ID3Tagger struct{}

func NewID3Tagger() *ID3Tagger {
	return &ID3Tagger{}
}

func (t *ID3Tagger) Supports(ext string) bool {
	return ext == "mp3"
}

func (t *ID3Tagger) WriteTags(data []byte, tags flacmeta.Tags) ([]byte, error) {
	tag := id3v2.NewEmptyTag()
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if tags.Title != "" {
		tag.SetTitle(tags.Title)
	}
	if tags.Artist != "" {
		tag.SetArtist(tags.Artist)
	}
	if tags.Album != "" {
		tag.SetAlbum(tags.Album)
	}
	if tags.Date != "" {
		tag.SetYear(tags.Date)
	}
	if tags.Lyrics != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "",
			Lyrics:            tags.Lyrics,
		})
	}
	if len(tags.Cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    flacmeta.DetectImageMIME(tags.Cover),
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     tags.Cover,
		})
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode ID3 tag: %w", err)
	}
	buf.Write(stripID3v2(data))
	return buf.Bytes(), nil
}

// stripID3v2 returns data without any leading ID3v2 tags.
func stripID3v2(data []byte) []byte {
	for len(data) >= 10 && bytes.Equal(data[:3], []byte("ID3")) {
		size := int(data[6]&0x7f)<<21 | int(data[7]&0x7f)<<14 | int(data[8]&0x7f)<<7 | int(data[9]&0x7f)
		end := 10 + size
		if data[5]&0x10 != 0 {
			end += 10
		}
		if end > len(data) {
			return data[len(data):]
		}
		data = data[end:]
	}
	return data
}
