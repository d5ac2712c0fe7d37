// FILE: ultralog/utility_test.go
package ultralog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarning, false},
		{"Warning", LevelWarning, false},
		{"error", LevelError, false},
		{"critical", LevelCritical, false},
		{"35", 35, false},
		{"-5", -5, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, level)
			}
		})
	}
}

func TestLevelByName(t *testing.T) {
	level, ok := LevelByName("CRITICAL")
	assert.True(t, ok)
	assert.Equal(t, LevelCritical, level)

	// Numbers are not names
	_, ok = LevelByName("20")
	assert.False(t, ok)
}

func TestLevelOrInfo(t *testing.T) {
	assert.Equal(t, LevelError, LevelOrInfo("error"))
	assert.Equal(t, int64(45), LevelOrInfo("45"))
	assert.Equal(t, LevelInfo, LevelOrInfo("shouting"))
	assert.Equal(t, LevelInfo, LevelOrInfo(""))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelName(LevelDebug))
	assert.Equal(t, "INFO", LevelName(LevelInfo))
	assert.Equal(t, "WARNING", LevelName(LevelWarning))
	assert.Equal(t, "ERROR", LevelName(LevelError))
	assert.Equal(t, "CRITICAL", LevelName(LevelCritical))
	assert.Equal(t, "LEVEL15", LevelName(15))
	assert.Equal(t, "LEVEL0", LevelName(0))
}

func TestParseKeyValue(t *testing.T) {
	key, value, err := parseKeyValue(" path = /var/log/a=b.log ")
	require.NoError(t, err)
	assert.Equal(t, "path", key)
	assert.Equal(t, "/var/log/a=b.log", value)

	_, _, err = parseKeyValue("novalue")
	assert.Error(t, err)

	_, _, err = parseKeyValue("=value")
	assert.ErrorContains(t, err, "key cannot be empty")
}

func TestErrorHelpers(t *testing.T) {
	err := fmtErrorf("disk %s", "full")
	assert.Equal(t, "ultralog: disk full", err.Error())

	// Prefix is not doubled
	err = fmtErrorf("ultralog: already prefixed")
	assert.Equal(t, "ultralog: already prefixed", err.Error())

	a, b := errors.New("a"), errors.New("b")
	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, a, combineErrors(a, nil))
	assert.Equal(t, b, combineErrors(nil, b))
	joined := combineErrors(a, b)
	assert.ErrorIs(t, joined, a)
	assert.ErrorIs(t, joined, b)
}
