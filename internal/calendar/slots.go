package calendar

import "time"

// Working hours used when scanning a day for open meeting slots.
const (
	WorkingDayStart = 9  // 09:00 local time
	WorkingDayEnd   = 18 // 18:00 local time
)

// Candidate slot starts advance in half-hour steps.
const slotStep = 30 * time.Minute

// DayWindow returns the working-hours window for the day, in the day's location.
func DayWindow(day time.Time) (time.Time, time.Time) {
	loc := day.Location()
	start := time.Date(day.Year(), day.Month(), day.Day(), WorkingDayStart, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), WorkingDayEnd, 0, 0, 0, loc)
	return start, end
}

// FindOpenSlots returns the slots of the given duration that fit inside
// [windowStart, windowEnd] without overlapping any busy range. A slot that
// merely touches a busy range at its boundary still counts as open.
func FindOpenSlots(busy []TimeRange, windowStart, windowEnd time.Time, duration time.Duration) []AvailableSlot {
	var slots []AvailableSlot

	for current := windowStart; !current.Add(duration).After(windowEnd); current = current.Add(slotStep) {
		slotEnd := current.Add(duration)

		free := true
		for _, b := range busy {
			if slotEnd.After(b.Start) && current.Before(b.End) {
				free = false
				break
			}
		}

		if free {
			slots = append(slots, AvailableSlot{
				Start:    current,
				End:      slotEnd,
				Duration: duration,
			})
		}
	}

	return slots
}
