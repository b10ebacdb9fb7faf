package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const streamBufferSize = 32 * KiB

// downloadStream is the single-request fallback. Any failure here is final.
func (d *Downloader) downloadStream(ctx context.Context, url string, info resourceInfo, gate *progressGate, onSpeed SpeedFunc) (*Result, error) {
	result, err := d.stream(ctx, url, info, gate, onSpeed)
	if err != nil {
		return nil, &Error{Stage: StageStream, URL: url, Err: err}
	}
	return result, nil
}

func (d *Downloader) stream(parent context.Context, url string, info resourceInfo, gate *progressGate, onSpeed SpeedFunc) (*Result, error) {
	ctx, cancel := context.WithTimeout(parent, d.opts.FallbackTimeout)
	defer cancel()

	req, err := d.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	resp, err := d.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	total := resp.ContentLength
	if total <= 0 {
		total = info.length
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = info.contentType
	}
	if total <= 0 {
		gate.indeterminate()
	}

	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	tracker := &progressTracker{total: total, gate: gate}
	meter := newSpeedMeter(total, d.speedInterval, d.now(), onSpeed)
	chunk := make([]byte, streamBufferSize)

	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			tracker.add(int64(n))
			meter.sample(d.now(), tracker.received)
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			if parent.Err() != nil {
				return nil, parent.Err()
			}
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}
	}

	if total > 0 && int64(buf.Len()) != total {
		return nil, fmt.Errorf("%w: received %d bytes, expected %d", ErrIncomplete, buf.Len(), total)
	}
	if total > 0 {
		gate.report(100)
	}
	return &Result{Data: buf.Bytes(), ContentType: contentType}, nil
}
