package flacmeta

import "fmt"

const streamInfoSize = 34

// StreamInfo holds the STREAMINFO fields needed for display.
type StreamInfo struct {
	SampleRate   int
	Channels     int
	BitDepth     int
	TotalSamples uint64
}

// Duration returns the stream length in seconds, or 0 when unknown.
func (si StreamInfo) Duration() float64 {
	if si.SampleRate == 0 {
		return 0
	}
	return float64(si.TotalSamples) / float64(si.SampleRate)
}

// ParseStreamInfo decodes the packed fields at bytes 10..17:
// sample rate (20 bits), channels-1 (3), bits per sample-1 (5), total samples (36).
func ParseStreamInfo(payload []byte) (StreamInfo, error) {
	if len(payload) < streamInfoSize {
		return StreamInfo{}, fmt.Errorf("%w: STREAMINFO is %d bytes, want %d", ErrTruncated, len(payload), streamInfoSize)
	}
	b := payload[10:18]
	return StreamInfo{
		SampleRate:   int(b[0])<<12 | int(b[1])<<4 | int(b[2])>>4,
		Channels:     int((b[2]>>1)&0x07) + 1,
		BitDepth:     (int(b[2]&0x01)<<4 | int(b[3]>>4)) + 1,
		TotalSamples: uint64(b[3]&0x0F)<<32 | uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7]),
	}, nil
}
