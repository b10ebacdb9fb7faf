package flacmeta

import "errors"

var (
	ErrInvalidMagic  = errors.New("not a FLAC stream: missing fLaC marker")
	ErrTruncated     = errors.New("truncated FLAC metadata")
	ErrTooManyBlocks = errors.New("too many metadata blocks")
	ErrBlockTooLarge = errors.New("metadata block exceeds 24-bit length")
	ErrCoverTooLarge = errors.New("cover image cannot be compressed under the size limit")
	ErrEmptyCover    = errors.New("cover image is empty")
)

// CoverError reports a failed picture step. WriteTags returns it together
// with output that already carries the text tags.
type CoverError struct {
	Err error
}

func (e *CoverError) Error() string {
	return "failed to embed cover: " + e.Err.Error()
}

func (e *CoverError) Unwrap() error {
	return e.Err
}
