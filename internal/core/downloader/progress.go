package downloader

import (
	"fmt"
	"math"
	"time"
)

// ProgressIndeterminate is reported once when the total size is unknown.
const ProgressIndeterminate = -1

// ProgressFunc receives an integer percentage in [0, 100], or
// ProgressIndeterminate.
type ProgressFunc func(percent int)

// SpeedFunc receives a formatted transfer rate and estimated time remaining.
// remaining is empty when it cannot be estimated.
type SpeedFunc func(speed, remaining string)

const defaultSpeedInterval = time.Second

// progressGate forwards only increasing percentages, so a chunked attempt
// that falls back to a single stream never moves the caller's bar backwards.
type progressGate struct {
	fn   ProgressFunc
	last int
}

func newProgressGate(fn ProgressFunc) *progressGate {
	return &progressGate{fn: fn, last: -1}
}

func (g *progressGate) report(percent int) {
	if g.fn == nil {
		return
	}
	percent = max(0, min(percent, 100))
	if percent <= g.last {
		return
	}
	g.last = percent
	g.fn(percent)
}

func (g *progressGate) indeterminate() {
	if g.fn == nil || g.last >= 0 {
		return
	}
	g.fn(ProgressIndeterminate)
}

type progressTracker struct {
	total    int64
	received int64
	gate     *progressGate
}

func (t *progressTracker) add(n int64) {
	t.received += n
	if t.total > 0 {
		t.gate.report(int(t.received * 100 / t.total))
	}
}

// speedMeter turns byte counts into rate and ETA strings, at most once per
// interval, from the delta since its previous sample.
type speedMeter struct {
	total     int64
	interval  time.Duration
	lastAt    time.Time
	lastBytes int64
	fn        SpeedFunc
}

func newSpeedMeter(total int64, interval time.Duration, start time.Time, fn SpeedFunc) *speedMeter {
	return &speedMeter{total: total, interval: interval, lastAt: start, fn: fn}
}

func (m *speedMeter) sample(now time.Time, received int64) bool {
	if m.fn == nil {
		return false
	}
	elapsed := now.Sub(m.lastAt)
	if elapsed <= 0 || elapsed < m.interval {
		return false
	}
	rate := float64(received-m.lastBytes) / elapsed.Seconds()
	m.lastAt, m.lastBytes = now, received

	remaining := ""
	if m.total > 0 {
		remaining = FormatRemaining(m.total-received, rate)
	}
	m.fn(FormatSpeed(rate), remaining)
	return true
}

// FormatSpeed renders bytes per second as MB/s, KB/s or B/s.
func FormatSpeed(bytesPerSecond float64) string {
	switch {
	case bytesPerSecond >= MiB:
		return fmt.Sprintf("%.2f MB/s", bytesPerSecond/MiB)
	case bytesPerSecond >= KiB:
		return fmt.Sprintf("%.2f KB/s", bytesPerSecond/KiB)
	default:
		return fmt.Sprintf("%d B/s", int64(math.Round(math.Max(bytesPerSecond, 0))))
	}
}

// FormatRemaining estimates the time left as "42s" or "3m7s". It returns ""
// when the rate is zero.
func FormatRemaining(remainingBytes int64, bytesPerSecond float64) string {
	if bytesPerSecond <= 0 || remainingBytes < 0 {
		return ""
	}
	seconds := int64(math.Ceil(float64(remainingBytes) / bytesPerSecond))
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm%ds", seconds/60, seconds%60)
}
