package matching

import (
	"fmt"
	"time"
)

// Prompt IDs are ISO-week tokens such as "2026-W36", derived in the
// deployment's canonical timezone so a Sunday-night answer lands in the same
// week everywhere.

// CurrentPromptID returns the prompt ID for the instant now in loc.
func CurrentPromptID(now time.Time, loc *time.Location) string {
	year, week := now.In(loc).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ParsePromptID converts a prompt ID back to a date inside that ISO week
// (its Monday). Jan 4 always falls in ISO week 1 of its year.
func ParsePromptID(promptID string, loc *time.Location) (time.Time, error) {
	var year, week int
	if _, err := fmt.Sscanf(promptID, "%d-W%d", &year, &week); err != nil {
		return time.Time{}, fmt.Errorf("invalid prompt ID %q: %w", promptID, err)
	}
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("invalid prompt ID %q: week out of range", promptID)
	}

	jan4 := time.Date(year, time.January, 4, 12, 0, 0, 0, loc)
	// Back up to the Monday of week 1, then step forward.
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := jan4.AddDate(0, 0, 1-weekday)
	return monday.AddDate(0, 0, (week-1)*7), nil
}

// PreviousPromptIDs returns the n prompt IDs immediately preceding promptID,
// most recent first. Unparseable IDs yield an empty list.
func PreviousPromptIDs(promptID string, n int, loc *time.Location) []string {
	anchor, err := ParsePromptID(promptID, loc)
	if err != nil {
		return nil
	}

	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, CurrentPromptID(anchor.AddDate(0, 0, -7*i), loc))
	}
	return ids
}

// MatchExpiry returns the Friday ending the current match week: the first
// Friday 23:59:59 in loc strictly after now. Always within (now, now+7d].
func MatchExpiry(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	for days := 0; days <= 7; days++ {
		candidate := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 0, loc).AddDate(0, 0, days)
		if candidate.Weekday() == time.Friday && candidate.After(now) {
			return candidate
		}
	}
	// Unreachable: a Friday always occurs within any 7-day span.
	return local.AddDate(0, 0, 7)
}
