package flacmeta

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"
)

type fixtureBlock struct {
	typ     BlockType
	payload []byte
}

var fakeFrames = bytes.Repeat([]byte{0xFF, 0xF8, 0x69, 0x08, 0x00, 0x13, 0x37, 0x42}, 64)

func streamInfoPayload(sampleRate, channels, bitDepth int, totalSamples uint64) []byte {
	p := make([]byte, streamInfoSize)
	binary.BigEndian.PutUint16(p[0:], 4096)
	binary.BigEndian.PutUint16(p[2:], 4096)
	p[10] = byte(sampleRate >> 12)
	p[11] = byte(sampleRate >> 4)
	p[12] = byte(sampleRate&0x0F)<<4 | byte(channels-1)<<1 | byte(bitDepth-1)>>4
	p[13] = (byte(bitDepth-1)&0x0F)<<4 | byte(totalSamples>>32)&0x0F
	binary.BigEndian.PutUint32(p[14:], uint32(totalSamples))
	return p
}

// buildFLAC flags the final block as last.
func buildFLAC(blocks []fixtureBlock, frames []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	for i, b := range blocks {
		head := byte(b.typ)
		if i == len(blocks)-1 {
			head |= lastBlockFlag
		}
		n := len(b.payload)
		buf.Write([]byte{head, byte(n >> 16), byte(n >> 8), byte(n)})
		buf.Write(b.payload)
	}
	buf.Write(frames)
	return buf.Bytes()
}

func cdQualityInfo() fixtureBlock {
	return fixtureBlock{StreamInfoBlock, streamInfoPayload(44100, 2, 16, 441000)}
}

func padding(n int) fixtureBlock {
	return fixtureBlock{PaddingBlock, make([]byte, n)}
}

func basicFLAC() []byte {
	return buildFLAC([]fixtureBlock{cdQualityInfo(), padding(16)}, fakeFrames)
}

func testPNG(t *testing.T, w, h int, noisy bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rng := rand.New(rand.NewSource(1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xFF}
			if noisy {
				c = color.NRGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 0xFF}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func lastFlags(t *testing.T, data []byte) (count, index int) {
	t.Helper()
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	index = -1
	for i, b := range c.Blocks {
		if b.IsLast {
			count++
			index = i
		}
	}
	return count, index
}

func blockTypes(t *testing.T, data []byte) []BlockType {
	t.Helper()
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	types := make([]BlockType, len(c.Blocks))
	for i, b := range c.Blocks {
		types[i] = b.Type
	}
	return types
}

func assertTypes(t *testing.T, got []BlockType, want ...BlockType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("block types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("block types = %v, want %v", got, want)
		}
	}
}
