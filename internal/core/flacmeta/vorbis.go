package flacmeta

import (
	"fmt"
	"strings"
)

// Vendor is written into every VORBIS_COMMENT block this package produces.
const Vendor = "flacdl metadata editor"

// VorbisComment is a decoded VORBIS_COMMENT payload. Comments keep their
// original KEY=VALUE form.
type VorbisComment struct {
	Vendor   string
	Comments []string
}

// Get returns the first value for key, compared case-insensitively.
func (vc *VorbisComment) Get(key string) string {
	for _, c := range vc.Comments {
		k, v, ok := strings.Cut(c, "=")
		if ok && strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// Add appends KEY=value with the key upper-cased. Empty values are skipped.
func (vc *VorbisComment) Add(key, value string) {
	if value == "" {
		return
	}
	vc.Comments = append(vc.Comments, strings.ToUpper(key)+"="+value)
}

// ParseVorbisComment decodes a VORBIS_COMMENT payload. All lengths are
// little-endian.
func ParseVorbisComment(payload []byte) (*VorbisComment, error) {
	r := newByteReader(payload)
	vendor, err := r.lenPrefixed(r.u32le)
	if err != nil {
		return nil, fmt.Errorf("vendor string: %w", err)
	}
	count, err := r.u32le()
	if err != nil {
		return nil, fmt.Errorf("comment count: %w", err)
	}
	// each entry needs at least its 4-byte length
	if uint64(count)*4 > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: %d comments declared in %d bytes", ErrTruncated, count, r.remaining())
	}

	vc := &VorbisComment{Vendor: string(vendor), Comments: make([]string, 0, count)}
	for i := uint32(0); i < count; i++ {
		entry, err := r.lenPrefixed(r.u32le)
		if err != nil {
			return nil, fmt.Errorf("comment %d: %w", i, err)
		}
		vc.Comments = append(vc.Comments, string(entry))
	}
	return vc, nil
}

// Marshal encodes the comment as a block payload.
func (vc *VorbisComment) Marshal() []byte {
	var w byteWriter
	w.u32le(uint32(len(vc.Vendor)))
	w.write([]byte(vc.Vendor))
	w.u32le(uint32(len(vc.Comments)))
	for _, c := range vc.Comments {
		w.u32le(uint32(len(c)))
		w.write([]byte(c))
	}
	return w.Bytes()
}
