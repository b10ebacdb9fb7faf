package shared

import (
	"fmt"
	"os"
	"strings"
)

// SanitizeFileName cleans a string to make it safe for use as a file name
func SanitizeFileName(name string) string {
	invalidChars := []string{"<", ">", ":", `"`, `/`, `\`, `|`, `?`, `*`, "\x00"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.Trim(result, " .")
	if len(result) > 255 {
		result = result[:255]
	}
	if result == "" {
		result = "unknown"
	}
	return result
}

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CreateDirIfNotExists creates a directory if it doesn't exist
func CreateDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// TruncateString truncates a string to the specified length, adding ellipsis if truncated.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// FormatFileSize renders a byte count with a binary unit, e.g. "12.5 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.2f %s", value, units[unit])
}

// FormatDuration renders whole seconds as mm:ss.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
