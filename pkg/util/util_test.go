package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClockTime(t *testing.T) {
	base := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)

	parsed, ok := ParseClockTime("23:50", base)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 50, 0, 0, time.UTC), parsed)

	_, ok = ParseClockTime("On time", base)
	assert.False(t, ok)

	_, ok = ParseClockTime("", base)
	assert.False(t, ok)
}

func TestRollForward(t *testing.T) {
	reference := time.Date(2024, 3, 10, 23, 50, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 10, 0, 0, time.UTC), RollForward(time.Date(2024, 3, 10, 0, 10, 0, 0, time.UTC), reference))
	assert.Equal(t, reference, RollForward(reference, reference))
}

func TestRemoveDuplicateStrings(t *testing.T) {
	assert.Equal(t, []string{"WGW", "MCV"}, RemoveDuplicateStrings([]string{"WGW", "", "MCV", "WGW", "MAN"}, []string{"MAN"}))
}

func TestEnvironmentFlagEnabled(t *testing.T) {
	assert.True(t, EnvironmentFlagEnabled("", true))
	assert.False(t, EnvironmentFlagEnabled("", false))
	assert.True(t, EnvironmentFlagEnabled("yes", false))
	assert.False(t, EnvironmentFlagEnabled("NO", true))
}
