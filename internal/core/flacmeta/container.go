// Package flacmeta reads and rewrites the metadata block chain of a FLAC
// stream in memory. Audio frames are never decoded and are copied verbatim.
package flacmeta

import "fmt"

const (
	magic = "fLaC"

	blockHeaderSize = 4
	maxBlockLength  = 1<<24 - 1
	maxBlocks       = 64

	lastBlockFlag = 0x80
	blockTypeMask = 0x7F
)

// BlockType is the 7-bit metadata block type.
type BlockType uint8

const (
	StreamInfoBlock    BlockType = 0
	PaddingBlock       BlockType = 1
	ApplicationBlock   BlockType = 2
	SeekTableBlock     BlockType = 3
	VorbisCommentBlock BlockType = 4
	CueSheetBlock      BlockType = 5
	PictureBlock       BlockType = 6
)

func (t BlockType) String() string {
	switch t {
	case StreamInfoBlock:
		return "STREAMINFO"
	case PaddingBlock:
		return "PADDING"
	case ApplicationBlock:
		return "APPLICATION"
	case SeekTableBlock:
		return "SEEKTABLE"
	case VorbisCommentBlock:
		return "VORBIS_COMMENT"
	case CueSheetBlock:
		return "CUESHEET"
	case PictureBlock:
		return "PICTURE"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

// Block is one metadata block. Offset is the position of its header in the
// parsed buffer, or -1 for blocks created by an edit.
type Block struct {
	Type    BlockType
	IsLast  bool
	Length  int
	Offset  int
	Payload []byte
}

// Container is the parsed metadata chain plus the position where audio
// frames begin.
type Container struct {
	Blocks      []Block
	AudioOffset int
	audio       []byte
}

// IsValidContainer reports whether data starts with the FLAC stream marker.
func IsValidContainer(data []byte) bool {
	return len(data) >= len(magic) && string(data[:len(magic)]) == magic
}

// Parse scans the block chain once, stopping after the block flagged last
// or at the end of the buffer. Payloads alias data. When the buffer ends
// before any flagged block, the final block is treated as last.
func Parse(data []byte) (*Container, error) {
	if !IsValidContainer(data) {
		return nil, ErrInvalidMagic
	}

	c := &Container{}
	pos := len(magic)
	for pos < len(data) {
		if len(c.Blocks) == maxBlocks {
			return nil, fmt.Errorf("%w: more than %d blocks", ErrTooManyBlocks, maxBlocks)
		}

		r := newByteReader(data[pos:])
		head, err := r.u8()
		if err != nil {
			return nil, fmt.Errorf("block %d at offset %d: %w", len(c.Blocks), pos, err)
		}
		length, err := r.u24be()
		if err != nil {
			return nil, fmt.Errorf("block %d header at offset %d: %w", len(c.Blocks), pos, err)
		}
		payload, err := r.bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("block %d (%s) at offset %d: %w", len(c.Blocks), BlockType(head&blockTypeMask), pos, err)
		}

		block := Block{
			Type:    BlockType(head & blockTypeMask),
			IsLast:  head&lastBlockFlag != 0,
			Length:  int(length),
			Offset:  pos,
			Payload: payload,
		}
		c.Blocks = append(c.Blocks, block)
		pos += blockHeaderSize + int(length)
		if block.IsLast {
			break
		}
	}

	// A chain that runs to the end of the buffer without a flag gets one on
	// its final block, so a rewrite always has exactly one last block.
	if n := len(c.Blocks); n > 0 && !c.Blocks[n-1].IsLast {
		c.Blocks[n-1].IsLast = true
	}

	c.AudioOffset = pos
	c.audio = data[pos:]
	return c, nil
}

// Find returns the index of the first block of type t accepted by match, or -1.
func (c *Container) Find(t BlockType, match func(Block) bool) int {
	for i, b := range c.Blocks {
		if b.Type == t && (match == nil || match(b)) {
			return i
		}
	}
	return -1
}

// upsert replaces block i in place, or inserts payload right after the first
// block when i is negative. The last-block flag stays where it was unless the
// insertion lands behind the flagged block, in which case the flag moves to
// the new final block.
func (c *Container) upsert(i int, t BlockType, payload []byte) error {
	if len(payload) > maxBlockLength {
		return fmt.Errorf("%w: %s payload of %d bytes", ErrBlockTooLarge, t, len(payload))
	}
	nb := Block{Type: t, Length: len(payload), Offset: -1, Payload: payload}

	if i >= 0 {
		nb.IsLast = c.Blocks[i].IsLast
		c.Blocks[i] = nb
		return nil
	}

	at := min(1, len(c.Blocks))
	if at == 0 {
		nb.IsLast = true
	} else if c.Blocks[at-1].IsLast {
		c.Blocks[at-1].IsLast = false
		nb.IsLast = true
	}
	c.Blocks = append(c.Blocks, Block{})
	copy(c.Blocks[at+1:], c.Blocks[at:])
	c.Blocks[at] = nb
	return nil
}

// Bytes serializes the chain followed by the original audio frames.
func (c *Container) Bytes() []byte {
	var w byteWriter
	w.write([]byte(magic))
	for _, b := range c.Blocks {
		head := uint8(b.Type) & blockTypeMask
		if b.IsLast {
			head |= lastBlockFlag
		}
		w.u8(head)
		w.u24be(uint32(len(b.Payload)))
		w.write(b.Payload)
	}
	w.write(c.audio)
	return w.Bytes()
}
