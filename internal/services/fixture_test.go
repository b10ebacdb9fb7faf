package services

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
)

var fakeFrames = bytes.Repeat([]byte{0xFF, 0xF8, 0x69, 0x08, 0x00, 0x13, 0x37, 0x42}, 128)

// testFLAC is STREAMINFO (44.1 kHz, stereo, 16-bit) followed by a padding
// block flagged last and some frame bytes.
func testFLAC() []byte {
	si := make([]byte, 34)
	binary.BigEndian.PutUint16(si[0:], 4096)
	binary.BigEndian.PutUint16(si[2:], 4096)
	const rate, channels, depth, samples = 44100, 2, 16, 441000
	si[10] = byte((rate >> 12) & 0xFF)
	si[11] = byte((rate >> 4) & 0xFF)
	si[12] = byte(rate&0x0F)<<4 | byte(channels-1)<<1 | byte(depth-1)>>4
	si[13] = (byte(depth-1) & 0x0F) << 4
	binary.BigEndian.PutUint32(si[14:], samples)

	var buf bytes.Buffer
	buf.WriteString("fLaC")
	buf.Write([]byte{0x00, 0, 0, 34})
	buf.Write(si)
	buf.Write([]byte{0x80 | 0x01, 0, 0, 16})
	buf.Write(make([]byte, 16))
	buf.Write(fakeFrames)
	return buf.Bytes()
}

// testMP3 carries an old ID3v2.3 tag in front of fake frames.
func testMP3() []byte {
	var buf bytes.Buffer
	frame := append([]byte("TIT2"), 0, 0, 0, 4, 0, 0, 0)
	frame = append(frame, []byte("Old")...)
	buf.Write([]byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0, byte(len(frame))})
	buf.Write(frame)
	buf.Write(fakeFrames)
	return buf.Bytes()
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x40, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (l *recordingLogger) Info(string, ...interface{})    {}
func (l *recordingLogger) Debug(string, ...interface{})   {}
func (l *recordingLogger) Success(string, ...interface{}) {}
func (l *recordingLogger) SetDebugMode(bool)              {}

func (l *recordingLogger) Warning(message string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(message, args...))
}

func (l *recordingLogger) Error(message string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(message, args...))
}
