package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{"hh:mm", "08:30", "08:30", false},
		{"postgres time", "20:00:00", "20:00", false},
		{"midnight", "00:00", "00:00", false},
		{"invalid hour", "25:00", "", true},
		{"garbage", "abc", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := mustTimeString("20:15").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 20*60+15, m)

	_, err = TimeString("bad").Minutes()
	assert.Error(t, err)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, mustTimeString("08:00").IsBefore("20:00"))
	assert.False(t, mustTimeString("20:00").IsBefore("08:00"))
	assert.True(t, mustTimeString("20:00").IsAfter("08:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("21:45:00"))
	assert.Equal(t, TimeString("21:45"), ts)

	require.NoError(t, ts.Scan([]byte("07:05")))
	assert.Equal(t, TimeString("07:05"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 6, 7, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("06:07"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func mustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}
