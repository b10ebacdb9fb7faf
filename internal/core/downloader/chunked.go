package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
)

type chunkResult struct {
	rng  Range
	data []byte
	err  error
}

// downloadChunked runs the bounded range fetch. The loop below is the only
// goroutine that touches pending, failures and completed.
func (d *Downloader) downloadChunked(ctx context.Context, url string, info resourceInfo, gate *progressGate, onSpeed SpeedFunc) (*Result, error) {
	params := ComputeParams(info.length)
	plan := BuildPlan(info.length, params.ChunkSize)
	d.log.Debug("Chunked download of %s: %d bytes, %d ranges of %d bytes, concurrency %d",
		url, info.length, len(plan), params.ChunkSize, params.Concurrency)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending := make([]Range, len(plan))
	copy(pending, plan)
	failures := make(map[int]int)
	completed := make(map[int][]byte, len(plan))

	sem := semaphore.NewWeighted(int64(params.Concurrency))
	settled := make(chan chunkResult, params.Concurrency)

	tracker := &progressTracker{total: info.length, gate: gate}
	meter := newSpeedMeter(info.length, d.speedInterval, d.now(), onSpeed)
	ticker := time.NewTicker(d.speedInterval)
	defer ticker.Stop()

	for len(completed) < len(plan) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for len(pending) > 0 && sem.TryAcquire(1) {
			r := pending[0]
			pending = pending[1:]
			go func(r Range, retry int) {
				data, err := d.fetchRange(ctx, url, r, retry)
				sem.Release(1)
				select {
				case settled <- chunkResult{rng: r, data: data, err: err}:
				case <-ctx.Done():
				}
			}(r, failures[r.Index])
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-ticker.C:
			meter.sample(d.now(), tracker.received)

		case res := <-settled:
			if res.err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				if isRangeUnsupported(res.err) || isPermanentHTTPError(res.err) {
					return nil, fmt.Errorf("range %d: %w", res.rng.Index, res.err)
				}
				failures[res.rng.Index]++
				if d.opts.Retry.Exhausted(failures[res.rng.Index]) {
					return nil, fmt.Errorf("range %d (%s): %w after %d attempts: %v",
						res.rng.Index, res.rng.Header(), ErrRetriesExhausted, failures[res.rng.Index], res.err)
				}
				d.log.Debug("Range %d failed (attempt %d), requeued: %v", res.rng.Index, failures[res.rng.Index], res.err)
				pending = append(pending, res.rng)
				continue
			}
			completed[res.rng.Index] = res.data
			tracker.add(int64(len(res.data)))
			meter.sample(d.now(), tracker.received)
		}
	}

	data, err := assemble(plan, completed, info.length)
	if err != nil {
		return nil, &Error{Stage: StageAssemble, URL: url, Err: err}
	}
	gate.report(100)
	return &Result{Data: data, ContentType: info.contentType, Chunked: true}, nil
}

// fetchRange downloads one range. retry is the number of earlier failures of
// this range; a non-zero value backs off first.
func (d *Downloader) fetchRange(ctx context.Context, url string, r Range, retry int) ([]byte, error) {
	if retry > 0 {
		if err := sleepContext(ctx, d.opts.Retry.Backoff(retry)); err != nil {
			return nil, err
		}
	}

	req, err := d.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Range", r.Header())

	resp, err := d.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("%w: status %d for %s", ErrRangeNotSupported, resp.StatusCode, r.Header())
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.Len()+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read range body: %w", err)
	}
	if int64(len(data)) != r.Len() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrShortRange, len(data), r.Len())
	}
	return data, nil
}

// assemble concatenates completed chunks in ascending index order.
func assemble(plan Plan, completed map[int][]byte, total int64) ([]byte, error) {
	out := make([]byte, 0, total)
	for _, r := range plan {
		chunk, ok := completed[r.Index]
		if !ok {
			return nil, fmt.Errorf("range %d missing from completed set", r.Index)
		}
		out = append(out, chunk...)
	}
	if int64(len(out)) != total {
		return nil, fmt.Errorf("assembled %d bytes, expected %d", len(out), total)
	}
	return out, nil
}
