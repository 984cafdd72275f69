package nav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCaptureResume_AllowListedPathsOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		location string
		want     string
	}{
		{"scan route", "/scan", "/scan"},
		{"history with query", "/history?page=2&sortBy=confidence", "/history?page=2&sortBy=confidence"},
		{"settings", "/settings", "/settings"},
		{"dashboard", "/dashboard", "/dashboard"},
		{"landing route is skipped", "/", ""},
		{"empty location", "", ""},
		{"unlisted internal path", "/admin", ""},
		{"external path", "https://evil.example/phish", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := New(func() string { return tc.location }, func(string) {})
			n.CaptureResume()
			require.Equal(t, tc.want, n.Resume())
		})
	}
}

func TestResume_ConsumesSlot(t *testing.T) {
	t.Parallel()

	n := New(func() string { return "/history" }, func(string) {})
	n.CaptureResume()
	require.Equal(t, "/history", n.Resume())
	require.Equal(t, "", n.Resume())
}

func TestScheduleLogin_RedirectsAfterDisplayWindow(t *testing.T) {
	t.Parallel()

	var gotDelay time.Duration
	var gotRoute string

	n := New(func() string { return "/scan" }, func(route string) { gotRoute = route })
	n.after = func(d time.Duration, f func()) *time.Timer {
		gotDelay = d
		f() // run immediately in tests
		return nil
	}

	n.ScheduleLogin(1500 * time.Millisecond)
	require.Equal(t, 1500*time.Millisecond, gotDelay)
	require.Equal(t, LoginRoute, gotRoute)
}
