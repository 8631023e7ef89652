package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 10, ParseInt("abc", 10))
	assert.Equal(t, 10, ParseInt("0", 10))
	assert.Equal(t, 10, ParseInt("-3", 10))
}

func TestParseBoolPtr(t *testing.T) {
	assert.Nil(t, ParseBoolPtr(""))
	assert.Nil(t, ParseBoolPtr("maybe"))

	v := ParseBoolPtr("true")
	require.NotNil(t, v)
	assert.True(t, *v)

	v = ParseBoolPtr("false")
	require.NotNil(t, v)
	assert.False(t, *v)
}

func TestParseFloatPtr(t *testing.T) {
	assert.Nil(t, ParseFloatPtr(""))
	assert.Nil(t, ParseFloatPtr("x"))
	v := ParseFloatPtr("12.5")
	require.NotNil(t, v)
	assert.Equal(t, 12.5, *v)
}

func TestParseTimePtr(t *testing.T) {
	got, err := ParseTimePtr("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseTimePtr("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseTimePtr("2024-03-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = ParseTimePtr("yesterday")
	assert.Error(t, err)
}

func TestParseEndTimePtr(t *testing.T) {
	got, err := ParseEndTimePtr("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseEndTimePtr("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999999999, time.UTC), *got)
	assert.True(t, time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC).Before(*got))

	got, err = ParseEndTimePtr("2024-03-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), *got)

	_, err = ParseEndTimePtr("tomorrow")
	assert.Error(t, err)
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 10.99, RoundMoney(10.989))
	assert.Equal(t, 0.3, RoundMoney(0.1+0.2))
	assert.Equal(t, 5.0, RoundMoney(4.999))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 0, CalculateTotalPages(5, 0))
	assert.Equal(t, 20, CalculateOffset(3, 10))
	assert.Equal(t, 0, CalculateOffset(0, 10))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitCSV(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitCSV(""))
}
