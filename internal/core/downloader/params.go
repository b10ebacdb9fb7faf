package downloader

import "fmt"

const (
	KiB = 1024
	MiB = 1024 * KiB
)

// Params controls how a resource of a given size is split.
type Params struct {
	ChunkSize   int64
	Concurrency int
}

// Size bands, inclusive upper bound. Larger chunks amortise request overhead
// while keeping a single failed range cheap to retry.
var paramBands = []struct {
	upTo   int64
	params Params
}{
	{5 * MiB, Params{ChunkSize: 512 * KiB, Concurrency: 3}},
	{20 * MiB, Params{ChunkSize: 1 * MiB, Concurrency: 5}},
	{100 * MiB, Params{ChunkSize: 2 * MiB, Concurrency: 8}},
	{500 * MiB, Params{ChunkSize: 4 * MiB, Concurrency: 20}},
}

var largestParams = Params{ChunkSize: 8 * MiB, Concurrency: 12}

// ComputeParams picks chunk size and concurrency for totalBytes.
func ComputeParams(totalBytes int64) Params {
	for _, band := range paramBands {
		if totalBytes <= band.upTo {
			return band.params
		}
	}
	return largestParams
}

// Range is an inclusive byte range of the remote resource.
type Range struct {
	Index int
	Start int64
	End   int64
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int64 {
	return r.End - r.Start + 1
}

// Header returns the value for the HTTP Range request header.
func (r Range) Header() string {
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}

// Plan is the ordered list of ranges covering a resource.
type Plan []Range

// BuildPlan splits totalBytes into consecutive ranges of chunkSize bytes;
// the last range may be shorter.
func BuildPlan(totalBytes, chunkSize int64) Plan {
	if totalBytes <= 0 || chunkSize <= 0 {
		return nil
	}
	count := (totalBytes + chunkSize - 1) / chunkSize
	plan := make(Plan, 0, count)
	for i := int64(0); i < count; i++ {
		start := i * chunkSize
		end := min(start+chunkSize-1, totalBytes-1)
		plan = append(plan, Range{Index: int(i), Start: start, End: end})
	}
	return plan
}
