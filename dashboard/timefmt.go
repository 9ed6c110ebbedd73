package dashboard

import (
	"fmt"
	"time"
)

// The three relative-time styles used across the panels share one
// threshold-table engine: each style is an ordered list of duration
// brackets with the formatter applied inside that bracket, plus an
// absolute-date fallback. Negative deltas (clock skew, future
// timestamps) are clamped to the smallest bracket.

type threshold struct {
	below  time.Duration
	render func(elapsed time.Duration) string
}

type timeStyle struct {
	thresholds []threshold
	fallback   string // time layout for the absolute fallback
}

func (s timeStyle) format(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}
	for _, th := range s.thresholds {
		if elapsed < th.below {
			return th.render(elapsed)
		}
	}
	return t.Format(s.fallback)
}

func justNow(time.Duration) string { return "Just now" }

// activityStyle drives the recent-scans rows and header.
var activityStyle = timeStyle{
	thresholds: []threshold{
		{time.Minute, justNow},
		{time.Hour, func(e time.Duration) string { return fmt.Sprintf("%dm ago", int(e.Minutes())) }},
		{24 * time.Hour, func(e time.Duration) string { return fmt.Sprintf("%dh ago", int(e.Hours())) }},
		{7 * 24 * time.Hour, func(e time.Duration) string { return fmt.Sprintf("%dd ago", int(e.Hours()/24)) }},
	},
	fallback: "Jan 2, 3:04 PM",
}

// agoStyle drives the latest-image caption.
var agoStyle = timeStyle{
	thresholds: []threshold{
		{time.Minute, justNow},
		{time.Hour, func(e time.Duration) string { return fmt.Sprintf("%d min ago", int(e.Minutes())) }},
		{24 * time.Hour, func(e time.Duration) string { return fmt.Sprintf("%d hours ago", int(e.Hours())) }},
	},
	fallback: "Jan 2, 2006",
}

// daysStyle drives the inventory last-seen labels.
var daysStyle = timeStyle{
	thresholds: []threshold{
		{time.Hour, justNow},
		{24 * time.Hour, func(e time.Duration) string { return fmt.Sprintf("%dh ago", int(e.Hours())) }},
		{2 * 24 * time.Hour, func(time.Duration) string { return "Yesterday" }},
		{7 * 24 * time.Hour, func(e time.Duration) string { return fmt.Sprintf("%d days ago", int(e.Hours()/24)) }},
	},
	fallback: "Jan 2, 2006",
}

// FormatDateTime renders t relative to now in the activity style:
// "Just now", "Nm ago", "Nh ago", "Nd ago", then an absolute
// date+time.
func FormatDateTime(t, now time.Time) string {
	return activityStyle.format(t, now)
}

// FormatTimeAgo renders t relative to now in the ago style:
// "Just now", "N min ago", "N hours ago", then an absolute date.
func FormatTimeAgo(t, now time.Time) string {
	return agoStyle.format(t, now)
}

// FormatDaysAgo renders t relative to now in the days style:
// "Just now", "Nh ago", "Yesterday", "N days ago", then an absolute
// date.
func FormatDaysAgo(t, now time.Time) string {
	return daysStyle.format(t, now)
}
