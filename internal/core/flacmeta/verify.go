package flacmeta

import (
	"bytes"
	"fmt"

	flac "github.com/go-flac/go-flac"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
)

// Verify re-reads data with the go-flac parsers and fails if any of them
// rejects the metadata chain.
func Verify(data []byte) error {
	f, err := flac.ParseBytes(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("go-flac rejected stream: %w", err)
	}
	if len(f.Meta) == 0 || f.Meta[0].Type != flac.StreamInfo {
		return fmt.Errorf("go-flac: first block is not STREAMINFO")
	}

	for i, meta := range f.Meta {
		switch meta.Type {
		case flac.VorbisComment:
			if _, err := flacvorbis.ParseFromMetaDataBlock(*meta); err != nil {
				return fmt.Errorf("flacvorbis rejected block %d: %w", i, err)
			}
		case flac.Picture:
			if _, err := flacpicture.ParseFromMetaDataBlock(*meta); err != nil {
				return fmt.Errorf("flacpicture rejected block %d: %w", i, err)
			}
		}
	}
	return nil
}
