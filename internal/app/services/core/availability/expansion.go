package availability

import (
	"fmt"
	"time"

	"healthfirst-service/internal/app/models"
	"healthfirst-service/internal/pkg/constvars"
)

func parseClock(s string) (clock, error) {
	t, err := time.Parse(constvars.TimeLayoutHHMM, s)
	if err != nil {
		return clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return clock{H: t.Hour(), M: t.Minute()}, nil
}

// atClock pins a wall-clock time onto a calendar day in the given timezone.
func atClock(day time.Time, c clock, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.H, c.M, 0, 0, loc)
}

// occurrenceDays lists every calendar day the record occurs on, as local
// midnights. Non-recurring records yield exactly their base date. Recurring
// records repeat until the earlier of their recurrence end date and the
// provided horizon, inclusive. A monthly pattern anchored on a day-of-month
// that a month does not have skips that month entirely.
func occurrenceDays(av *models.Availability, loc *time.Location, horizonEnd time.Time) ([]time.Time, error) {
	base, err := time.ParseInLocation(constvars.DateLayoutYYYYMMDD, av.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", av.Date, err)
	}

	if !av.IsRecurring {
		return []time.Time{base}, nil
	}

	last := horizonEnd
	if av.RecurrenceEndDate != "" {
		end, err := time.ParseInLocation(constvars.DateLayoutYYYYMMDD, av.RecurrenceEndDate, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid recurrence end date %q: %w", av.RecurrenceEndDate, err)
		}
		if end.Before(last) {
			last = end
		}
	}

	var days []time.Time
	switch av.RecurrencePattern {
	case models.RecurrenceDaily:
		for d := base; !d.After(last); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
	case models.RecurrenceWeekly:
		for d := base; !d.After(last); d = d.AddDate(0, 0, 7) {
			days = append(days, d)
		}
	case models.RecurrenceMonthly:
		dayOfMonth := base.Day()
		for offset := 0; ; offset++ {
			candidate := time.Date(base.Year(), base.Month()+time.Month(offset), dayOfMonth, 0, 0, 0, 0, loc)
			if candidate.After(last) {
				break
			}
			// time.Date normalizes e.g. Feb 31 into March; such months
			// have no occurrence
			if candidate.Day() != dayOfMonth {
				continue
			}
			days = append(days, candidate)
		}
	default:
		return nil, fmt.Errorf("unknown recurrence pattern: %q", av.RecurrencePattern)
	}
	return days, nil
}

// occurrenceWindows maps occurrence days to concrete [start, end) intervals.
func occurrenceWindows(av *models.Availability, loc *time.Location, horizonEnd time.Time) ([]interval, error) {
	start, err := parseClock(av.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(av.EndTime)
	if err != nil {
		return nil, err
	}

	days, err := occurrenceDays(av, loc, horizonEnd)
	if err != nil {
		return nil, err
	}

	windows := make([]interval, 0, len(days))
	for _, day := range days {
		windows = append(windows, interval{
			Start: atClock(day, start, loc),
			End:   atClock(day, end, loc),
		})
	}
	return windows, nil
}

// generateSlotsBetween partitions [start, end) into fixed-length slots
// separated by breakMinutes of dead time. A slot whose end would exceed the
// window is dropped, never truncated.
func generateSlotsBetween(start, end time.Time, slotMinutes, breakMinutes int) []interval {
	if slotMinutes <= 0 {
		return nil
	}
	step := time.Duration(slotMinutes+breakMinutes) * time.Minute
	lenSlot := time.Duration(slotMinutes) * time.Minute
	var out []interval
	for t := start; ; t = t.Add(step) {
		if t.Add(lenSlot).After(end) {
			break
		}
		out = append(out, interval{Start: t, End: t.Add(lenSlot)})
	}
	return out
}

// expandSlots materializes every bookable slot a record implies across its
// occurrence days.
func expandSlots(av *models.Availability, loc *time.Location, horizonEnd, now time.Time) ([]models.Slot, error) {
	start, err := parseClock(av.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(av.EndTime)
	if err != nil {
		return nil, err
	}

	days, err := occurrenceDays(av, loc, horizonEnd)
	if err != nil {
		return nil, err
	}

	availabilityID := av.ID.Hex()
	var slots []models.Slot
	for _, day := range days {
		intervals := generateSlotsBetween(atClock(day, start, loc), atClock(day, end, loc), av.SlotDurationMinutes, av.BreakDurationMinutes)
		for _, iv := range intervals {
			slots = append(slots, models.Slot{
				AvailabilityID:  availabilityID,
				ProviderID:      av.ProviderID,
				Date:            day.Format(constvars.DateLayoutYYYYMMDD),
				StartTime:       iv.Start,
				EndTime:         iv.End,
				Status:          models.SlotStatusAvailable,
				AppointmentType: av.AppointmentType,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}
	}
	return slots, nil
}

// findConflictWindows returns the windows of the candidate record that
// intersect any occurrence window of an existing record. Touching edges
// (one window ending exactly when another starts) are not conflicts.
func findConflictWindows(candidate *models.Availability, existing []models.Availability, loc *time.Location, horizonEnd time.Time) ([]interval, error) {
	candidateWindows, err := occurrenceWindows(candidate, loc, horizonEnd)
	if err != nil {
		return nil, err
	}

	var conflicts []interval
	for i := range existing {
		other := &existing[i]
		if !candidate.ID.IsZero() && other.ID == candidate.ID {
			continue
		}
		if other.Status == models.AvailabilityStatusCancelled {
			continue
		}
		otherLoc, err := other.TimezoneLocation()
		if err != nil {
			return nil, err
		}
		otherWindows, err := occurrenceWindows(other, otherLoc, horizonEnd)
		if err != nil {
			return nil, err
		}
		for _, cw := range candidateWindows {
			for _, ow := range otherWindows {
				if cw.overlaps(ow) {
					conflicts = append(conflicts, cw)
					break
				}
			}
		}
	}
	return conflicts, nil
}
