package util

import (
	"sync"
	"time"
)

func AddTimeToDate(date time.Time, sourceTime time.Time) time.Time {
	newDateTime := time.Date(date.Year(), date.Month(), date.Day(), sourceTime.Hour(), sourceTime.Minute(), sourceTime.Second(), sourceTime.Nanosecond(), date.Location())

	return newDateTime
}

// ParseClockTime places an HH:mm clock string on the date of base
func ParseClockTime(clock string, base time.Time) (time.Time, bool) {
	sourceTime, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}

	return AddTimeToDate(base, sourceTime), true
}

// RollForward moves t a day later when it falls before reference
func RollForward(t time.Time, reference time.Time) time.Time {
	if t.Before(reference) {
		return t.Add(24 * time.Hour)
	}

	return t
}

var londonTimezone = sync.OnceValue(func() *time.Location {
	location, err := time.LoadLocation("Europe/London")
	if err != nil {
		return time.UTC
	}

	return location
})

// LondonTimezone is the timezone every UK rail clock time is published in
func LondonTimezone() *time.Location {
	return londonTimezone()
}
