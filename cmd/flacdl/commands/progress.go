package commands

import (
	"github.com/cheggaaa/pb/v3"

	"flacdl/internal/core/downloader"
	"flacdl/internal/interfaces"
	"flacdl/internal/shared"
)

const barTemplate = `{{ string . "prefix" }} {{ bar . }} {{ percent . }} | {{ string . "speed" }} | ETA {{ string . "eta" }}`

// barProgress drives a pb bar from percentage and speed callbacks.
type barProgress struct {
	bar *pb.ProgressBar
}

func newBarProgress(label string) interfaces.ProgressReporter {
	bar := pb.New(100)
	bar.SetTemplateString(barTemplate)
	bar.Set("prefix", shared.TruncateString(label, 40))
	bar.Set("speed", "-")
	bar.Set("eta", "-")
	bar.Start()
	return &barProgress{bar: bar}
}

func (p *barProgress) Progress(percent int) {
	if percent == downloader.ProgressIndeterminate {
		p.bar.Set("eta", "unknown size")
		return
	}
	p.bar.SetCurrent(int64(percent))
}

func (p *barProgress) Speed(speed, remaining string) {
	p.bar.Set("speed", speed)
	if remaining != "" {
		p.bar.Set("eta", remaining)
	}
}

func (p *barProgress) Finish() {
	p.bar.Finish()
}

// progressFactory returns nil when stdout is not a terminal so piped output
// stays free of bar redraws.
func progressFactory() interfaces.ProgressFactory {
	if !shared.IsTTY() {
		return nil
	}
	return newBarProgress
}
