package tcdd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIDateRoundTrip(t *testing.T) {
	apiDate, err := APIDate("2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, "05-03-2025 00:00:00", apiDate)

	back, err := ParseAPIDate(apiDate)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-05", back)
}

func TestAPIDateInvalid(t *testing.T) {
	_, err := APIDate("05-03-2025")
	assert.Error(t, err)

	_, err = ParseAPIDate("2025-03-05")
	assert.Error(t, err)
}

func TestParseAPIDateWithoutTimeSuffix(t *testing.T) {
	back, err := ParseAPIDate("05-03-2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-05", back)
}

func TestClockTime(t *testing.T) {
	departure := time.Date(2025, 3, 5, 9, 15, 0, 0, istanbul)
	assert.Equal(t, "09:15", ClockTime(departure.UnixMilli()))

	midnight := time.Date(2025, 3, 5, 0, 0, 0, 0, istanbul)
	assert.Equal(t, "00:00", ClockTime(midnight.UnixMilli()))
}
