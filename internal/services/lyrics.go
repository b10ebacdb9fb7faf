package services

import (
	"regexp"
	"strings"
)

var lrcTimestamp = regexp.MustCompile(`\[(\d{2}:\d{2}\.\d{2,3})\](.*)`)

// MergeLyrics interleaves a translated LRC with the original: each timed
// original line is followed by the translation carrying the same timestamp.
// Untimed lines (credits and the like) are kept as they are.
func MergeLyrics(original, translated string) string {
	if original == "" {
		return ""
	}
	if translated == "" {
		return original
	}

	translations := make(map[string]string)
	for _, line := range strings.Split(translated, "\n") {
		m := lrcTimestamp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(strings.Trim(strings.TrimSpace(m[2]), "/"))
		if text != "" {
			translations[m[1]] = text
		}
	}

	var merged []string
	for _, line := range strings.Split(original, "\n") {
		m := lrcTimestamp.FindStringSubmatch(line)
		if m == nil {
			if strings.TrimSpace(line) != "" {
				merged = append(merged, line)
			}
			continue
		}
		stamp := m[1]
		if text := strings.TrimSpace(m[2]); text != "" {
			merged = append(merged, "["+stamp+"]"+text)
		}
		if tr, ok := translations[stamp]; ok {
			merged = append(merged, "["+stamp+"]"+tr)
		}
	}
	return strings.Join(merged, "\n")
}
