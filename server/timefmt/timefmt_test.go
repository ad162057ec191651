package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRelativeBoundaries(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		ago   time.Duration
		want  string
	}{
		{"zero", 0, "0 minutes ago"},
		{"under a minute", 30 * time.Second, "0 minutes ago"},
		{"59 minutes", 59 * time.Minute, "59 minutes ago"},
		{"exactly 60 minutes flips to hours", 60 * time.Minute, "1 hours ago"},
		{"90 minutes", 90 * time.Minute, "1 hours ago"},
		{"23 hours", 23 * time.Hour, "23 hours ago"},
		{"exactly 24 hours flips to days", 24 * time.Hour, "1 days ago"},
		{"6 days", 6 * 24 * time.Hour, "6 days ago"},
		{"six days and change", 6*24*time.Hour + 23*time.Hour, "6 days ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Relative(now, now.Add(-tt.ago)))
		})
	}
}

func TestRelativeFallsBackToDate(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	// Exactly 7 days drops the relative form entirely.
	got := Relative(now, now.Add(-7*24*time.Hour))
	require.Equal(t, "Mar 8, 2026", got)

	got = Relative(now, now.Add(-30*24*time.Hour))
	require.Equal(t, "Feb 13, 2026", got)
}
