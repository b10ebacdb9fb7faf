package flacmeta

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Picture types used by this package.
const (
	PictureTypeOther      uint32 = 0
	PictureTypeFrontCover uint32 = 3
)

const coverDescription = "Cover"

// Picture is a decoded PICTURE payload. All integers are big-endian.
type Picture struct {
	Type        uint32
	MIME        string
	Description string
	Width       uint32
	Height      uint32
	Depth       uint32
	Colors      uint32
	Data        []byte
}

// NewFrontCover builds a front-cover picture, filling dimensions when the
// image header can be decoded.
func NewFrontCover(data []byte, mime string) *Picture {
	p := &Picture{
		Type:        PictureTypeFrontCover,
		MIME:        mime,
		Description: coverDescription,
		Depth:       24,
		Data:        data,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		p.Width = uint32(cfg.Width)
		p.Height = uint32(cfg.Height)
	}
	return p
}

func ParsePicture(payload []byte) (*Picture, error) {
	r := newByteReader(payload)
	p := &Picture{}
	var err error

	if p.Type, err = r.u32be(); err != nil {
		return nil, fmt.Errorf("picture type: %w", err)
	}
	mime, err := r.lenPrefixed(r.u32be)
	if err != nil {
		return nil, fmt.Errorf("picture MIME: %w", err)
	}
	desc, err := r.lenPrefixed(r.u32be)
	if err != nil {
		return nil, fmt.Errorf("picture description: %w", err)
	}
	p.MIME, p.Description = string(mime), string(desc)

	for _, field := range []*uint32{&p.Width, &p.Height, &p.Depth, &p.Colors} {
		if *field, err = r.u32be(); err != nil {
			return nil, fmt.Errorf("picture dimensions: %w", err)
		}
	}
	if p.Data, err = r.lenPrefixed(r.u32be); err != nil {
		return nil, fmt.Errorf("picture data: %w", err)
	}
	return p, nil
}

func (p *Picture) Marshal() []byte {
	var w byteWriter
	w.u32be(p.Type)
	w.u32be(uint32(len(p.MIME)))
	w.write([]byte(p.MIME))
	w.u32be(uint32(len(p.Description)))
	w.write([]byte(p.Description))
	w.u32be(p.Width)
	w.u32be(p.Height)
	w.u32be(p.Depth)
	w.u32be(p.Colors)
	w.u32be(uint32(len(p.Data)))
	w.write(p.Data)
	return w.Bytes()
}

// DetectImageMIME sniffs the image format from its signature, defaulting to JPEG.
func DetectImageMIME(data []byte) string {
	switch {
	case len(data) >= 4 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return "image/png"
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return "image/jpeg"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	case len(data) >= 4 && string(data[0:4]) == "GIF8":
		return "image/gif"
	}
	return "image/jpeg"
}
