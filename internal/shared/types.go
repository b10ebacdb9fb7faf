package shared

import "errors"

// Track is the part of the remote song API response the download workflow
// consumes. Lyric and TLyric hold LRC text (original and translation).
type Track struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"ar_name"`
	Album    string `json:"al_name"`
	URL      string `json:"url"`
	CoverURL string `json:"pic"`
	Lyric    string `json:"lyric"`
	TLyric   string `json:"tlyric"`
	Ext      string `json:"ext"`
	Date     string `json:"date,omitempty"`
}

// DownloadStats summarises a batch run.
type DownloadStats struct {
	SuccessCount int
	SkippedCount int
	FailedCount  int
	FailedItems  []string
}

// TrackError holds information about a failed track download
type TrackError struct {
	Title string
	Err   error
}

// ErrDownloadCancelled is returned when the caller cancels a download operation.
var ErrDownloadCancelled = errors.New("download cancelled by user")
