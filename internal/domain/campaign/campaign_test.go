package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewValidatesWindow(t *testing.T) {
	now := time.Now()

	_, err := New("", "", now, now)
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = New("Backwards", "", now, now.AddDate(0, 0, -1))
	require.ErrorIs(t, err, ErrInvalidWindow)

	// A single-day campaign is valid.
	c, err := New("One Day", "", now, now)
	require.NoError(t, err)
	require.True(t, c.Active)
	require.Equal(t, c.StartDate, c.EndDate)
}

func TestIsRunningWindowIsInclusive(t *testing.T) {
	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	c, err := New("Spring Check-in", "", start, end)
	require.NoError(t, err)

	require.True(t, c.IsRunning(start), "start day is inside the window")
	require.True(t, c.IsRunning(end), "end day is inside the window")
	require.True(t, c.IsRunning(start.AddDate(0, 0, 5)))

	// Late in the evening of the last day still counts.
	require.True(t, c.IsRunning(end.Add(23*time.Hour+59*time.Minute)))

	require.False(t, c.IsRunning(start.AddDate(0, 0, -1)))
	require.False(t, c.IsRunning(end.AddDate(0, 0, 1)))

	c.Active = false
	require.False(t, c.IsRunning(start.AddDate(0, 0, 5)), "deactivated campaigns never run")
}

func TestDayTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	ts := time.Date(2025, time.March, 10, 2, 30, 0, 0, loc) // 2025-03-09T21:30Z

	got := Day(ts)
	require.Equal(t, time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), got)
}
