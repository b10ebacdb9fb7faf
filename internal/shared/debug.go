package shared

import (
	"os"
	"strings"
)

// IsDebugMode checks if debug mode is enabled via environment variable
func IsDebugMode() bool {
	v := strings.ToLower(os.Getenv("FLACDL_DEBUG"))
	if v == "" {
		v = strings.ToLower(os.Getenv("DEBUG"))
	}
	return v == "1" || v == "true"
}
