// Package downloader fetches a remote resource as concurrently retrieved
// byte ranges and falls back to a single GET when ranges cannot be used.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultFallbackTimeout bounds the single-stream fallback request.
const DefaultFallbackTimeout = 60 * time.Second

// Logger is the subset of the console logger the downloader needs.
type Logger interface {
	Debug(format string, args ...interface{})
	Warning(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})   {}
func (nopLogger) Warning(string, ...interface{}) {}

// Options configures a Downloader. The zero value is usable.
type Options struct {
	HTTPClient        *http.Client
	UserAgent         string
	Referer           string
	Cookie            string
	Retry             RetryPolicy
	FallbackTimeout   time.Duration
	RequestsPerSecond float64
	// ProbeWithRange issues a one-byte range request when HEAD does not
	// report a length, and uses the Content-Range total if present.
	ProbeWithRange bool
	Logger         Logger
}

// Result is a fully assembled resource.
type Result struct {
	Data        []byte
	ContentType string
	Chunked     bool
}

// Downloader is safe for concurrent use by multiple goroutines; each
// Download call owns its own queue.
type Downloader struct {
	client  *http.Client
	opts    Options
	limiter *rate.Limiter
	log     Logger

	now           func() time.Time
	speedInterval time.Duration
}

// New creates a Downloader from opts.
func New(opts Options) *Downloader {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if opts.FallbackTimeout <= 0 {
		opts.FallbackTimeout = DefaultFallbackTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := int(math.Ceil(opts.RequestsPerSecond))
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Downloader{
		client:        client,
		opts:          opts,
		limiter:       limiter,
		log:           logger,
		now:           time.Now,
		speedInterval: defaultSpeedInterval,
	}
}

// Download fetches url. Progress and speed callbacks are invoked from the
// calling goroutine only; either may be nil.
func (d *Downloader) Download(ctx context.Context, url string, onProgress ProgressFunc, onSpeed SpeedFunc) (*Result, error) {
	gate := newProgressGate(onProgress)

	info, err := d.probe(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &Error{Stage: StageProbe, URL: url, Err: ctx.Err()}
		}
		d.log.Warning("Probe failed for %s, using single stream: %v", url, err)
		return d.downloadStream(ctx, url, resourceInfo{}, gate, onSpeed)
	}
	if info.length <= 0 || !info.acceptRanges {
		d.log.Debug("No usable length for %s (length=%d, ranges=%t), using single stream", url, info.length, info.acceptRanges)
		return d.downloadStream(ctx, url, info, gate, onSpeed)
	}

	result, err := d.downloadChunked(ctx, url, info, gate, onSpeed)
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return nil, &Error{Stage: StageChunk, URL: url, Err: ctx.Err()}
	}
	d.log.Warning("Chunked download of %s failed, using single stream: %v", url, err)
	return d.downloadStream(ctx, url, info, gate, onSpeed)
}

type resourceInfo struct {
	length       int64
	contentType  string
	acceptRanges bool
}

func (d *Downloader) probe(ctx context.Context, url string) (resourceInfo, error) {
	req, err := d.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return resourceInfo{}, err
	}
	resp, err := d.do(req)
	if err != nil {
		if d.opts.ProbeWithRange && ctx.Err() == nil {
			if total, ok := d.probeRange(ctx, url); ok {
				d.log.Debug("HEAD failed for %s (%v), range probe reports %d bytes", url, err, total)
				return resourceInfo{length: total, acceptRanges: true}, nil
			}
		}
		return resourceInfo{}, err
	}
	resp.Body.Close()

	info := resourceInfo{
		length:       resp.ContentLength,
		contentType:  resp.Header.Get("Content-Type"),
		acceptRanges: !strings.EqualFold(resp.Header.Get("Accept-Ranges"), "none"),
	}
	if info.length <= 0 && d.opts.ProbeWithRange {
		if total, ok := d.probeRange(ctx, url); ok {
			info.length = total
		}
	}
	return info, nil
}

// probeRange asks for the first byte and reads the total from Content-Range.
func (d *Downloader) probeRange(ctx context.Context, url string) (int64, bool) {
	req, err := d.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return 0, false
	}
	req.Header.Set("Range", "bytes=0-0")
	resp, err := d.do(req)
	if err != nil {
		d.log.Debug("Range probe failed for %s: %v", url, err)
		return 0, false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1))

	if resp.StatusCode != http.StatusPartialContent {
		return 0, false
	}
	return parseContentRangeTotal(resp.Header.Get("Content-Range"))
}

func parseContentRangeTotal(value string) (int64, bool) {
	slash := strings.LastIndexByte(value, '/')
	if slash < 0 || slash == len(value)-1 {
		return 0, false
	}
	var total int64
	if _, err := fmt.Sscanf(value[slash+1:], "%d", &total); err != nil || total <= 0 {
		return 0, false
	}
	return total, true
}

func (d *Downloader) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if d.opts.UserAgent != "" {
		req.Header.Set("User-Agent", d.opts.UserAgent)
	}
	if d.opts.Referer != "" {
		req.Header.Set("Referer", d.opts.Referer)
	}
	if d.opts.Cookie != "" {
		req.Header.Set("Cookie", d.opts.Cookie)
	}
	return req, nil
}

// do paces the request and turns non-2xx responses into *HTTPError.
func (d *Downloader) do(req *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}

// isPermanentHTTPError reports a client error that retrying the same range
// will not fix, such as 403 or 404.
func isPermanentHTTPError(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 && !IsRetryableHTTPError(err)
}

func isRangeUnsupported(err error) bool {
	if errors.Is(err, ErrRangeNotSupported) {
		return true
	}
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusRequestedRangeNotSatisfiable
}
