package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"podstudio/models"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Back-to-back ranges (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

// ParseClock converts "HH:MM" into minutes from midnight. "24:00" is accepted
// as the end of the day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("clock %q is not in HH:MM format", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("clock %q has invalid hour: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("clock %q has invalid minute: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock %q is out of range", s)
	}
	return h*60 + m, nil
}

// ValidateConfig checks a whole configuration record: a positive slot
// granularity and a well-formed window for each of the seven weekdays.
func ValidateConfig(cfg models.AvailabilityConfig) error {
	if cfg.SlotDurationMin <= 0 {
		return models.NewConfigurationError("slotDurationMin must be positive, got %d", cfg.SlotDurationMin)
	}
	for _, day := range models.WeekdayNames {
		h, ok := cfg.OpeningHours[day]
		if !ok {
			return models.NewConfigurationError("opening hours missing for %s", day)
		}
		if _, _, err := dayBounds(h); err != nil {
			return models.NewConfigurationError("opening hours for %s: %v", day, err)
		}
	}
	for day := range cfg.OpeningHours {
		if !isWeekdayName(day) {
			return models.NewConfigurationError("unknown weekday %q in opening hours", day)
		}
	}
	return nil
}

func isWeekdayName(s string) bool {
	for _, d := range models.WeekdayNames {
		if d == s {
			return true
		}
	}
	return false
}

func dayBounds(h models.DayHours) (int, int, error) {
	open, err := ParseClock(h.Start)
	if err != nil {
		return 0, 0, err
	}
	closing, err := ParseClock(h.End)
	if err != nil {
		return 0, 0, err
	}
	if closing < open {
		return 0, 0, fmt.Errorf("closing time %s is before opening time %s", h.End, h.Start)
	}
	return open, closing, nil
}

// OpeningWindow resolves the opening and closing instants of date's weekday.
// Wall-clock times are built with time.Date so DST days keep their local hours.
func OpeningWindow(date time.Time, cfg models.AvailabilityConfig) (time.Time, time.Time, error) {
	h, ok := cfg.HoursFor(date.Weekday())
	if !ok {
		return time.Time{}, time.Time{}, models.NewConfigurationError(
			"opening hours missing for %s", models.WeekdayName(date.Weekday()))
	}
	open, closing, err := dayBounds(h)
	if err != nil {
		return time.Time{}, time.Time{}, models.NewConfigurationError(
			"opening hours for %s: %v", models.WeekdayName(date.Weekday()), err)
	}
	y, m, d := date.Date()
	loc := date.Location()
	return time.Date(y, m, d, 0, open, 0, 0, loc), time.Date(y, m, d, 0, closing, 0, 0, loc), nil
}

// ComputeSlots lists every candidate window of durationMinutes on date and
// flags the ones that collide with a confirmed booking.
//
// date must be a calendar day (midnight in the studio location) and
// durationMinutes a positive whole number of hours. Reservations that are not
// confirmed are ignored.
func ComputeSlots(date time.Time, durationMinutes int, cfg models.AvailabilityConfig, bookings []models.Reservation) ([]models.TimeSlot, error) {
	if h, m, s := date.Clock(); h != 0 || m != 0 || s != 0 || date.Nanosecond() != 0 {
		return nil, models.NewValidationError("date must not carry a time of day, got %s", date.Format(time.RFC3339))
	}
	if durationMinutes <= 0 || durationMinutes%60 != 0 {
		return nil, models.NewValidationError("duration must be a positive whole number of hours, got %d minutes", durationMinutes)
	}
	if cfg.SlotDurationMin <= 0 {
		return nil, models.NewConfigurationError("slotDurationMin must be positive, got %d", cfg.SlotDurationMin)
	}

	open, closing, err := OpeningWindow(date, cfg)
	if err != nil {
		return nil, err
	}

	// Compared before any conversion so huge durations cannot wrap around.
	if durationMinutes > int(closing.Sub(open)/time.Minute) {
		return []models.TimeSlot{}, nil
	}

	busy := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.Status.BlocksSlot() {
			continue
		}
		busy = append(busy, Interval{Start: b.StartAt, End: b.EndAt})
	}

	return BuildSlots(open, closing,
		time.Duration(durationMinutes)*time.Minute,
		time.Duration(cfg.SlotDurationMin)*time.Minute,
		busy), nil
}

// BuildSlots generates windows of length duration every step from open, stopping
// as soon as a window would run past closing. It accepts any positive
// duration; whole-hour enforcement lives in ComputeSlots.
func BuildSlots(open, closing time.Time, duration, step time.Duration, busy []Interval) []models.TimeSlot {
	slots := []models.TimeSlot{}
	if duration <= 0 || step <= 0 || closing.Before(open) {
		return slots
	}
	for start := open; !start.Add(duration).After(closing); start = start.Add(step) {
		end := start.Add(duration)
		slots = append(slots, models.TimeSlot{
			StartTime: start,
			EndTime:   end,
			Available: !overlapsAny(start, end, busy),
		})
	}
	return slots
}
