package common

import (
	"strconv"
	"strings"
)

// FormatCount abbreviates counters the way the action rail shows them:
// 999, 1.2K, 12K, 3.4M.
func FormatCount(n int) string {
	switch {
	case n < 0:
		return "0"
	case n < 1000:
		return strconv.Itoa(n)
	case n < 10_000:
		return trimZero(strconv.FormatFloat(float64(n)/1000, 'f', 1, 64)) + "K"
	case n < 1_000_000:
		return strconv.Itoa(n/1000) + "K"
	case n < 10_000_000:
		return trimZero(strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64)) + "M"
	default:
		return strconv.Itoa(n/1_000_000) + "M"
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// JoinTags renders tags as space-separated hashtags.
func JoinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
		if t == "" {
			continue
		}
		out = append(out, "#"+t)
	}
	return strings.Join(out, " ")
}
