package domain

import (
	"sort"
	"time"
)

// Tick is the smallest step between two stored timestamps.
const Tick = time.Microsecond

// EarliestInstant stands in for a missing onDate.
var EarliestInstant = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// OrderingWindow gates customer ordering and scopes provisioning reports.
type OrderingWindow struct {
	ID        int64      `json:"id"`
	IsEnabled bool       `json:"isEnabled"`
	OnDate    *time.Time `json:"onDate"`
	OffDate   *time.Time `json:"offDate"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IsActive is true when the window is enabled and now falls inside the set bounds.
func (w OrderingWindow) IsActive(now time.Time) bool {
	if !w.IsEnabled {
		return false
	}
	if w.OnDate != nil && now.Before(*w.OnDate) {
		return false
	}
	if w.OffDate != nil && now.After(*w.OffDate) {
		return false
	}
	return true
}

// Interval is a closed range [From, To].
type Interval struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.From) && !t.After(i.To)
}

// Interval derives the reporting range: from the start of the onDate day through the
// last tick of the offDate day, or of today when offDate is unset.
func (w OrderingWindow) Interval(now time.Time) Interval {
	from := EarliestInstant
	if w.OnDate != nil {
		from = StartOfDay(*w.OnDate)
	}
	end := now
	if w.OffDate != nil {
		end = *w.OffDate
	}
	return Interval{From: from, To: EndOfDay(end)}
}

// InclusiveInterval applies the same end-of-day rule to an ad-hoc from/to pair.
func InclusiveInterval(from, to time.Time) Interval {
	return Interval{From: StartOfDay(from), To: EndOfDay(to)}
}

func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-Tick)
}

// ResolveWindow picks the window reports should use. An explicit id must match.
// Otherwise the enabled window with the latest onDate wins, falling back to the
// latest window by onDate with a missing onDate sorting first.
func ResolveWindow(windows []OrderingWindow, explicitID *int64) (OrderingWindow, error) {
	if explicitID != nil {
		for _, w := range windows {
			if w.ID == *explicitID {
				return w, nil
			}
		}
		return OrderingWindow{}, ErrWindowNotFound
	}
	if len(windows) == 0 {
		return OrderingWindow{}, ErrNoWindowConfigured
	}

	sorted := make([]OrderingWindow, len(windows))
	copy(sorted, windows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := onDateOrEarliest(sorted[i]), onDateOrEarliest(sorted[j])
		if a.Equal(b) {
			return sorted[i].ID > sorted[j].ID
		}
		return a.After(b)
	})

	for _, w := range sorted {
		if w.IsEnabled && w.OnDate != nil {
			return w, nil
		}
	}
	return sorted[0], nil
}

func onDateOrEarliest(w OrderingWindow) time.Time {
	if w.OnDate == nil {
		return EarliestInstant
	}
	return *w.OnDate
}
