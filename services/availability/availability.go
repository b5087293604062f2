// Package availability decides whether a requested slot can be booked.
// Every function here is pure; callers pass in the artist's slot lists.
package availability

import (
	"fmt"
	"strings"
	"time"

	"artisthub/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var dateInputLayouts = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var timeInputLayouts = []string{
	timeLayout,
	"15:04:05",
}

// NormalizeDate returns raw as "YYYY-MM-DD". Timestamps keep the calendar date as written,
// with no time-zone shifting.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateInputLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return raw[:len(dateLayout)], nil
		}
	}
	return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
}

// NormalizeTime returns raw as "HH:MM".
func NormalizeTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeInputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(timeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q: expected HH:MM", raw)
}

// NormalizeSlot canonicalizes every field and requires the slot to end after it starts.
func NormalizeSlot(s models.Slot) (models.Slot, error) {
	date, err := NormalizeDate(s.Date)
	if err != nil {
		return models.Slot{}, err
	}
	start, err := NormalizeTime(s.StartTime)
	if err != nil {
		return models.Slot{}, err
	}
	end, err := NormalizeTime(s.EndTime)
	if err != nil {
		return models.Slot{}, err
	}
	// "HH:MM" strings order the same way as the times they name.
	if end <= start {
		return models.Slot{}, fmt.Errorf("slot on %s must end after it starts (%s-%s)", date, start, end)
	}
	return models.Slot{Date: date, StartTime: start, EndTime: end}, nil
}

// SameSlot reports whether a and b name the same slot. Unparsable slots never match.
func SameSlot(a, b models.Slot) bool {
	na, err := NormalizeSlot(a)
	if err != nil {
		return false
	}
	nb, err := NormalizeSlot(b)
	if err != nil {
		return false
	}
	return na == nb
}

func contains(slots []models.Slot, s models.Slot) bool {
	for _, candidate := range slots {
		if SameSlot(candidate, s) {
			return true
		}
	}
	return false
}

// IsOffered reports whether requested exactly matches one of the offered slots.
func IsOffered(requested models.Slot, offered []models.Slot) bool {
	return contains(offered, requested)
}

// IsBooked reports whether requested exactly matches one of the booked slots.
func IsBooked(requested models.Slot, booked []models.Slot) bool {
	return contains(booked, requested)
}

// IsRequestSatisfiable reports whether requested is offered and not yet booked.
// Matching is exact: a slot that only overlaps an offered one is not satisfiable.
func IsRequestSatisfiable(requested models.Slot, offered, booked []models.Slot) bool {
	return IsOffered(requested, offered) && !IsBooked(requested, booked)
}

// Dedupe normalizes slots and drops repeats, keeping first occurrences in order.
func Dedupe(slots []models.Slot) ([]models.Slot, error) {
	seen := make(map[string]struct{}, len(slots))
	out := make([]models.Slot, 0, len(slots))
	for _, s := range slots {
		n, err := NormalizeSlot(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[n.Key()]; dup {
			continue
		}
		seen[n.Key()] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}
