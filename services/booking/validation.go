package booking

import (
	"net/mail"
	"strings"
	"time"

	"podstudio/models"
)

// ComputeEndAt returns start + durationHours. Hours are added as absolute
// durations so a booking across a DST change still lasts exactly that long.
func ComputeEndAt(start time.Time, durationHours int) time.Time {
	return start.Add(time.Duration(durationHours) * time.Hour)
}

// OnHourBoundary reports whether t falls exactly on the hour in its location.
func OnHourBoundary(t time.Time) bool {
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// ValidateSchedule checks the whole-hour invariants of a booking window and
// returns the normalized start (in loc) and end.
func ValidateSchedule(start time.Time, durationHours int, loc *time.Location) (time.Time, time.Time, error) {
	if start.IsZero() {
		return time.Time{}, time.Time{}, models.NewValidationError("startAt is required")
	}
	if durationHours < 1 {
		return time.Time{}, time.Time{}, models.NewValidationError("durationHours must be a positive whole number, got %d", durationHours)
	}
	if durationHours > models.MaxDurationHours {
		return time.Time{}, time.Time{}, models.NewValidationError("durationHours must be at most %d, got %d", models.MaxDurationHours, durationHours)
	}
	local := start.In(loc)
	if !OnHourBoundary(local) {
		return time.Time{}, time.Time{}, models.NewValidationError("startAt %s is not on an exact hour", local.Format(time.RFC3339Nano))
	}
	end := ComputeEndAt(local, durationHours)
	if !OnHourBoundary(end) {
		return time.Time{}, time.Time{}, models.NewValidationError("endAt %s is not on an exact hour", end.Format(time.RFC3339))
	}
	return local, end, nil
}

// themeSelection enforces that exactly one of themeId and customTheme is given.
func themeSelection(themeID, customTheme *string) (*string, *string, error) {
	id := trimmed(themeID)
	custom := trimmed(customTheme)
	switch {
	case id != nil && custom != nil:
		return nil, nil, models.NewValidationError("themeId and customTheme are mutually exclusive")
	case id == nil && custom == nil:
		return nil, nil, models.NewValidationError("either themeId or customTheme is required")
	default:
		return id, custom, nil
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// uniqueIDs drops blanks and duplicates while keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateCustomer(in models.ReservationInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return models.NewValidationError("customerName is required")
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return models.NewValidationError("customerEmail is required")
	}
	if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
		return models.NewValidationError("customerEmail %q is not a valid address", in.CustomerEmail)
	}
	if strings.TrimSpace(in.DecorID) == "" {
		return models.NewValidationError("decorId is required")
	}
	if strings.TrimSpace(in.PackOfferID) == "" {
		return models.NewValidationError("packOfferId is required")
	}
	return nil
}

// studioDays lists the studio dates touched by [start, end).
func studioDays(start, end time.Time, loc *time.Location) []string {
	if !end.After(start) {
		return []string{start.In(loc).Format(dateLayout)}
	}
	first := start.In(loc)
	last := end.Add(-time.Nanosecond).In(loc)
	var days []string
	for d := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc); !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dateLayout))
	}
	return days
}
