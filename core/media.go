package core

import "strings"

// MediaURL resolves a stored media reference against the configured media
// base; absolute references pass through untouched.
func MediaURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base := strings.TrimRight(Conf.MediaBaseURL, "/")
	if base == "" {
		return ref
	}
	return base + "/" + strings.TrimLeft(ref, "/")
}
