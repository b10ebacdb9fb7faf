package flacmeta

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

const maxCoverEdge = 1024

// maxCoverBytes keeps a PICTURE payload, with its fixed fields, inside the
// 24-bit block length.
var maxCoverBytes = maxBlockLength - 1024

var jpegQualities = []int{90, 80, 70, 60, 50}

// PrepareCover returns img unchanged when it fits in a PICTURE block.
// Larger images are scaled so the longest edge is at most 1024 px and
// re-encoded as JPEG at falling quality until one fits.
func PrepareCover(img []byte) ([]byte, string, error) {
	if len(img) == 0 {
		return nil, "", ErrEmptyCover
	}
	if len(img) <= maxCoverBytes {
		return img, DetectImageMIME(img), nil
	}

	src, format, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %d byte cover: %w", len(img), err)
	}
	scaled := scaleToFit(src, maxCoverEdge)

	var buf bytes.Buffer
	for _, q := range jpegQualities {
		buf.Reset()
		if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: q}); err != nil {
			return nil, "", fmt.Errorf("failed to encode %s cover as JPEG: %w", format, err)
		}
		if buf.Len() <= maxCoverBytes {
			return bytes.Clone(buf.Bytes()), "image/jpeg", nil
		}
	}
	return nil, "", fmt.Errorf("%w: %d bytes at quality %d", ErrCoverTooLarge, buf.Len(), jpegQualities[len(jpegQualities)-1])
}

func scaleToFit(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}
	if w >= h {
		h = max(1, h*maxEdge/w)
		w = maxEdge
	} else {
		w = max(1, w*maxEdge/h)
		h = maxEdge
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
