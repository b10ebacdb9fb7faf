package shared

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// WarningType represents different types of warnings
type WarningType int

const (
	CoverFetchWarning WarningType = iota
	CoverEmbedWarning
	TaggingWarning
	VerifyWarning
	TrackSkippedWarning
)

// Warning represents a single warning with context
type Warning struct {
	Type    WarningType
	Message string
	Context string // Track context
	Details string // Additional details like error message
}

// WarningCollector collects non-fatal problems during a run so they can be
// printed once at the end instead of interleaving with progress output.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []Warning
	enabled  bool
}

// NewWarningCollector creates a new warning collector
func NewWarningCollector(enabled bool) *WarningCollector {
	return &WarningCollector{
		warnings: make([]Warning, 0),
		enabled:  enabled,
	}
}

// AddWarning adds a warning to the collector
func (wc *WarningCollector) AddWarning(warningType WarningType, context, message, details string) {
	if !wc.enabled {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.warnings = append(wc.warnings, Warning{
		Type:    warningType,
		Message: message,
		Context: context,
		Details: details,
	})
}

// AddCoverFetchWarning records a cover image that could not be downloaded.
func (wc *WarningCollector) AddCoverFetchWarning(track, details string) {
	wc.AddWarning(CoverFetchWarning, track, "Could not download cover art", details)
}

// AddCoverEmbedWarning records a cover image that could not be embedded.
func (wc *WarningCollector) AddCoverEmbedWarning(track, details string) {
	wc.AddWarning(CoverEmbedWarning, track, "Failed to embed cover art", details)
}

// AddTaggingWarning records a file that was saved without tags.
func (wc *WarningCollector) AddTaggingWarning(track, details string) {
	wc.AddWarning(TaggingWarning, track, "Saved without metadata", details)
}

// AddVerifyWarning records a rewritten FLAC that failed the cross-check.
func (wc *WarningCollector) AddVerifyWarning(track, details string) {
	wc.AddWarning(VerifyWarning, track, "FLAC cross-check failed", details)
}

// AddTrackSkippedWarning adds a track skipped warning
func (wc *WarningCollector) AddTrackSkippedWarning(trackPath string) {
	wc.AddWarning(TrackSkippedWarning, trackPath, "Track already exists", "")
}

// HasWarnings returns true if there are any warnings
func (wc *WarningCollector) HasWarnings() bool {
	return wc.GetWarningCount() > 0
}

// GetWarningCount returns the total number of warnings
func (wc *WarningCollector) GetWarningCount() int {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.warnings)
}

// GetWarningsByType returns warnings grouped by type
func (wc *WarningCollector) GetWarningsByType() map[WarningType][]Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	grouped := make(map[WarningType][]Warning)
	for _, warning := range wc.warnings {
		grouped[warning.Type] = append(grouped[warning.Type], warning)
	}
	return grouped
}

// PrintSummary prints a formatted summary of all warnings
func (wc *WarningCollector) PrintSummary() {
	count := wc.GetWarningCount()
	if count == 0 {
		return
	}

	ColorWarning.Printf("\n⚠️  Warning Summary (%d warnings):\n", count)
	ColorWarning.Println(strings.Repeat("─", 50))

	grouped := wc.GetWarningsByType()
	var types []WarningType
	for warningType := range grouped {
		types = append(types, warningType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, warningType := range types {
		wc.printWarningTypeSection(warningType, grouped[warningType])
	}
}

func (wc *WarningCollector) printWarningTypeSection(warningType WarningType, warnings []Warning) {
	if len(warnings) == 0 {
		return
	}
	ColorWarning.Printf("\n%s (%d):\n", getWarningTypeTitle(warningType), len(warnings))

	contextCounts := make(map[string]int)
	details := make(map[string]string)
	for _, warning := range warnings {
		contextCounts[warning.Context]++
		if warning.Details != "" {
			details[warning.Context] = warning.Details
		}
	}

	var contexts []string
	for context := range contextCounts {
		contexts = append(contexts, context)
	}
	sort.Strings(contexts)

	for _, context := range contexts {
		line := context
		if count := contextCounts[context]; count > 1 {
			line = fmt.Sprintf("%s (×%d)", context, count)
		}
		if d := details[context]; d != "" {
			line = fmt.Sprintf("%s: %s", line, d)
		}
		ColorWarning.Printf("  • %s\n", line)
	}
}

func getWarningTypeTitle(warningType WarningType) string {
	switch warningType {
	case CoverFetchWarning:
		return "Cover Art Download Failures"
	case CoverEmbedWarning:
		return "Cover Art Metadata Failures"
	case TaggingWarning:
		return "Tracks Saved Without Metadata"
	case VerifyWarning:
		return "FLAC Cross-Check Failures"
	case TrackSkippedWarning:
		return "Tracks Skipped (Already Exist)"
	default:
		return "Other Warnings"
	}
}
