package dashboard

import (
	"testing"
	"time"
)

var now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestFormatDateTime(t *testing.T) {
	cases := []struct {
		delta time.Duration
		want  string
	}{
		{30 * time.Second, "Just now"},
		{5 * time.Minute, "5m ago"},
		{2 * time.Hour, "2h ago"},
		{3 * 24 * time.Hour, "3d ago"},
		{10 * 24 * time.Hour, "Mar 5, 12:00 PM"},
	}
	for _, c := range cases {
		got := FormatDateTime(now.Add(-c.delta), now)
		if got != c.want {
			t.Errorf("FormatDateTime(-%v): got %q, want %q", c.delta, got, c.want)
		}
	}
}

func TestFormatTimeAgo(t *testing.T) {
	cases := []struct {
		delta time.Duration
		want  string
	}{
		{30 * time.Second, "Just now"},
		{5 * time.Minute, "5 min ago"},
		{2 * time.Hour, "2 hours ago"},
		{3 * 24 * time.Hour, "Mar 12, 2026"},
	}
	for _, c := range cases {
		got := FormatTimeAgo(now.Add(-c.delta), now)
		if got != c.want {
			t.Errorf("FormatTimeAgo(-%v): got %q, want %q", c.delta, got, c.want)
		}
	}
}

func TestFormatDaysAgo(t *testing.T) {
	cases := []struct {
		delta time.Duration
		want  string
	}{
		{30 * time.Minute, "Just now"},
		{5 * time.Hour, "5h ago"},
		{25 * time.Hour, "Yesterday"},
		{3 * 24 * time.Hour, "3 days ago"},
		{10 * 24 * time.Hour, "Mar 5, 2026"},
	}
	for _, c := range cases {
		got := FormatDaysAgo(now.Add(-c.delta), now)
		if got != c.want {
			t.Errorf("FormatDaysAgo(-%v): got %q, want %q", c.delta, got, c.want)
		}
	}
}

func TestFutureTimestampsClampToJustNow(t *testing.T) {
	future := now.Add(5 * time.Minute)

	for name, got := range map[string]string{
		"FormatDateTime": FormatDateTime(future, now),
		"FormatTimeAgo":  FormatTimeAgo(future, now),
		"FormatDaysAgo":  FormatDaysAgo(future, now),
	} {
		if got != "Just now" {
			t.Errorf("%s(future): got %q, want \"Just now\"", name, got)
		}
	}
}
