package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2024-03-10", " 2024-03-10 ", "2024-03-10T23:30:00", "2024-03-10 08:00"} {
		got, err := DayKey(raw, paris)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	// instant UTC 23:30 = 00:30 besoknya di Paris
	got, err := DayKey("2024-03-10T23:30:00Z", paris)
	require.NoError(t, err)
	assert.Equal(t, want.AddDate(0, 0, 1), got)

	_, err = DayKey("", paris)
	assert.Error(t, err)
	_, err = DayKey("10/03/2024", paris)
	assert.Error(t, err)
}

func TestDayRange(t *testing.T) {
	f, to, err := DayRange("2024-03-01", "2024-03-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", FormatDay(*f))
	assert.Equal(t, "2024-03-31", FormatDay(*to))

	f, to, err = DayRange("", "", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Nil(t, to)

	_, _, err = DayRange("2024-04-01", "2024-03-01", time.UTC)
	assert.Error(t, err)
}

func TestLoadLocationFallback(t *testing.T) {
	assert.Equal(t, "Europe/Paris", LoadLocation("Not/AZone", "Europe/Paris").String())
	assert.Equal(t, time.UTC, LoadLocation("", ""))
}

func TestTod(t *testing.T) {
	a, err := ParseTod("08:30")
	require.NoError(t, err)
	b, err := ParseTod("10:00:00")
	require.NoError(t, err)
	assert.True(t, a.Before(b))
	assert.Equal(t, "08:30", a.String())

	v, err := a.Value()
	require.NoError(t, err)
	assert.Equal(t, "08:30:00", v)

	var s Tod
	require.NoError(t, s.Scan([]byte("14:05:00")))
	assert.Equal(t, "14:05", s.String())

	_, err = ParseTod("25:00")
	assert.Error(t, err)
}
