package models

import (
	"strings"
	"time"
)

// DayHours is a weekday's opening window in wall-clock "HH:MM".
// Start == End means the studio is closed that day.
type DayHours struct {
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// AvailabilityConfig is the process-wide business-hours record. It is always
// replaced as a whole, never patched per day.
type AvailabilityConfig struct {
	SlotDurationMin int                 `json:"slotDurationMin" bson:"slotDurationMin"`
	OpeningHours    map[string]DayHours `json:"openingHours" bson:"openingHours"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// WeekdayNames are the required keys of AvailabilityConfig.OpeningHours.
var WeekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// WeekdayName maps a time.Weekday to its OpeningHours key.
func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// HoursFor returns the opening window of the given weekday.
func (c AvailabilityConfig) HoursFor(d time.Weekday) (DayHours, bool) {
	h, ok := c.OpeningHours[WeekdayName(d)]
	return h, ok
}

// TimeSlot is a derived, never-persisted view of one bookable window.
type TimeSlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Available bool      `json:"available"`
}

// AvailabilityResult is returned to clients browsing the calendar.
type AvailabilityResult struct {
	Date          string     `json:"date"`
	DurationHours int        `json:"durationHours"`
	Timezone      string     `json:"timezone"`
	Slots         []TimeSlot `json:"slots"`
}
