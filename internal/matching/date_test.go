package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	// ISO — первый приоритет
	d, err := ParseFlexibleDate("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), d)

	// "01/05/2024" — это день/месяц/год, не американский формат
	d, err = ParseFlexibleDate("01/05/2024")
	require.NoError(t, err)
	assert.Equal(t, time.May, d.Month())
	assert.Equal(t, 1, d.Day())

	d, err = ParseFlexibleDate("15.06.2024")
	require.NoError(t, err)
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = ParseFlexibleDate("завтра")
	assert.Error(t, err)
	_, err = ParseFlexibleDate("")
	assert.Error(t, err)
}

func TestIsPermanentMode(t *testing.T) {
	assert.True(t, IsPermanentMode("постоянно"))
	assert.True(t, IsPermanentMode("ПОСТОЯННО"))
	assert.True(t, IsPermanentMode("always"))
	assert.True(t, IsPermanentMode(" Permanent "))
	assert.True(t, IsPermanentMode("მუდმივად"))
	assert.False(t, IsPermanentMode(""))
	assert.False(t, IsPermanentMode("разово"))
}

func TestDateWindowContains(t *testing.T) {
	// Границы окна включительно
	ok, err := DateWindowContains("2024-06-10", "01/06/2024", "20/06/2024")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DateWindowContains("2024-06-01", "2024-06-01", "2024-06-20")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DateWindowContains("2024-06-20", "2024-06-01", "2024-06-20")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DateWindowContains("2024-06-21", "2024-06-01", "2024-06-20")
	require.NoError(t, err)
	assert.False(t, ok)

	// Нечитаемая дата — ошибка, а не тихий пропуск
	_, err = DateWindowContains("не дата", "2024-06-01", "2024-06-20")
	assert.Error(t, err)
	_, err = DateWindowContains("2024-06-10", "", "2024-06-20")
	assert.Error(t, err)
}
