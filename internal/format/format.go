// Package format contains pure display helpers shared by the feed core.
package format

import (
	"fmt"
	"strings"
	"time"

	"fanfeed/internal/models"
)

// DefaultAvatarURL is used when the backend returns no avatar for a user.
const DefaultAvatarURL = "https://cdn.fanfeed.app/static/avatar-placeholder.png"

// TimeAgo renders t relative to now: "just now", minutes, hours, days, and
// past a week the plain date.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// CompactCount compacts a non-negative count for display: 950 -> "950",
// 1200 -> "1.2K", 3400000 -> "3.4M". Trailing ".0" is dropped.
func CompactCount(n int) string {
	if n < 0 {
		n = 0
	}
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 1000000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1000)) + "K"
	default:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1000000)) + "M"
	}
}

// CommentCountDisplay shows the raw count up to the cap, "999+" past it.
func CommentCountDisplay(n int) string {
	if n >= models.CommentCountCap {
		return fmt.Sprintf("%d+", models.CommentCountCap)
	}
	return fmt.Sprintf("%d", n)
}

// NormalizeAvatarURL maps whatever the backend returned to a usable URL:
// empty values fall back to the placeholder, protocol-relative URLs get
// https.
func NormalizeAvatarURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultAvatarURL
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
