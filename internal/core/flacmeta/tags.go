package flacmeta

import (
	"fmt"
	"strings"
)

// Tags are the fields WriteTags knows how to embed.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Date   string
	Lyrics string
	Cover  []byte
}

// Metadata is what ReadTags extracts from a stream.
type Metadata struct {
	Tags
	CoverMIME       string
	SampleRate      int
	Channels        int
	BitDepth        int
	DurationSeconds float64
	FileSize        int
}

// tagOrder is the order in which WriteTags emits Vorbis fields.
var tagOrder = []string{"TITLE", "ARTIST", "ALBUM", "DATE", "LYRICS"}

func (t Tags) field(key string) string {
	switch key {
	case "TITLE":
		return t.Title
	case "ARTIST":
		return t.Artist
	case "ALBUM":
		return t.Album
	case "DATE":
		return t.Date
	case "LYRICS":
		return t.Lyrics
	}
	return ""
}

func (t Tags) vorbisComment() *VorbisComment {
	vc := &VorbisComment{Vendor: Vendor}
	for _, key := range tagOrder {
		vc.Add(key, t.field(key))
	}
	return vc
}

// ReadTags walks the chain and decodes the first VORBIS_COMMENT, the first
// PICTURE and STREAMINFO. Other block types are skipped.
func ReadTags(data []byte) (*Metadata, error) {
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	md := &Metadata{FileSize: len(data)}
	var seenComment, seenPicture bool
	for i, b := range c.Blocks {
		switch b.Type {
		case StreamInfoBlock:
			si, err := ParseStreamInfo(b.Payload)
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			md.SampleRate, md.Channels, md.BitDepth = si.SampleRate, si.Channels, si.BitDepth
			md.DurationSeconds = si.Duration()

		case VorbisCommentBlock:
			if seenComment {
				continue
			}
			seenComment = true
			vc, err := ParseVorbisComment(b.Payload)
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			md.Title = vc.Get("TITLE")
			md.Artist = vc.Get("ARTIST")
			md.Album = vc.Get("ALBUM")
			md.Date = vc.Get("DATE")
			md.Lyrics = vc.Get("LYRICS")

		case PictureBlock:
			if seenPicture {
				continue
			}
			seenPicture = true
			pic, err := ParsePicture(b.Payload)
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			md.Cover = pic.Data
			md.CoverMIME = pic.MIME
		}
	}
	return md, nil
}

// WriteTags returns a copy of data with a fresh VORBIS_COMMENT built from
// the non-empty text fields and, if tags.Cover is set, a front-cover PICTURE.
// An existing block of the same kind is replaced in place; otherwise the new
// block goes right after STREAMINFO.
//
// If only the picture step fails the returned error is a *CoverError and the
// returned bytes already carry the text tags.
func WriteTags(data []byte, tags Tags) ([]byte, error) {
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	comment := c.Find(VorbisCommentBlock, nil)
	if err := c.upsert(comment, VorbisCommentBlock, tags.vorbisComment().Marshal()); err != nil {
		return nil, err
	}
	if len(tags.Cover) == 0 {
		return c.Bytes(), nil
	}

	textOnly := c.Bytes()
	if err := embedCover(c, tags.Cover); err != nil {
		return textOnly, &CoverError{Err: err}
	}
	return c.Bytes(), nil
}

func embedCover(c *Container, cover []byte) error {
	img, mime, err := PrepareCover(cover)
	if err != nil {
		return err
	}
	existing := c.Find(PictureBlock, isFrontCover)
	return c.upsert(existing, PictureBlock, NewFrontCover(img, mime).Marshal())
}

func isFrontCover(b Block) bool {
	pic, err := ParsePicture(b.Payload)
	return err == nil && pic.Type == PictureTypeFrontCover
}

// Summary renders the metadata as aligned "Key: value" lines.
func (md *Metadata) Summary() string {
	var sb strings.Builder
	line := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&sb, "%-12s %s\n", k+":", v)
		}
	}
	line("Title", md.Title)
	line("Artist", md.Artist)
	line("Album", md.Album)
	line("Date", md.Date)
	if md.SampleRate > 0 {
		line("Format", fmt.Sprintf("%d Hz, %d-bit, %d ch", md.SampleRate, md.BitDepth, md.Channels))
		line("Duration", fmt.Sprintf("%.1fs", md.DurationSeconds))
	}
	if len(md.Cover) > 0 {
		line("Cover", fmt.Sprintf("%s, %d bytes", md.CoverMIME, len(md.Cover)))
	}
	if md.Lyrics != "" {
		line("Lyrics", fmt.Sprintf("%d lines", strings.Count(md.Lyrics, "\n")+1))
	}
	return sb.String()
}
