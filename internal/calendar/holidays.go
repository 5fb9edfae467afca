package calendar

import (
	"sort"
	"sync"
	"time"
)

// HolidayChecker reports public holidays of one locale
type HolidayChecker interface {
	IsHoliday(date time.Time) bool
}

// Holidays is a concurrency-safe set of non-working dates for one locale.
// Static dates and feed-loaded years are tracked separately so a year can be
// reloaded without dropping configured dates.
type Holidays struct {
	mu     sync.RWMutex
	static map[time.Time]struct{}
	years  map[int]map[time.Time]struct{}
}

// NewHolidays creates a set seeded with static dates
func NewHolidays(dates ...time.Time) *Holidays {
	h := &Holidays{
		static: make(map[time.Time]struct{}),
		years:  make(map[int]map[time.Time]struct{}),
	}
	h.Add(dates...)
	return h
}

// Add inserts static dates
func (h *Holidays) Add(dates ...time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, d := range dates {
		h.static[Civil(d)] = struct{}{}
	}
}

// Replace swaps the loaded dates of one year
func (h *Holidays) Replace(year int, dates []time.Time) {
	set := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		d = Civil(d)
		if d.Year() == year {
			set[d] = struct{}{}
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.years[year] = set
}

// IsHoliday implements HolidayChecker
func (h *Holidays) IsHoliday(date time.Time) bool {
	if h == nil {
		return false
	}
	d := Civil(date)
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.static[d]; ok {
		return true
	}
	_, ok := h.years[d.Year()][d]
	return ok
}

// Years lists the years loaded from a feed, ascending
func (h *Holidays) Years() []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]int, 0, len(h.years))
	for y := range h.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Len counts distinct holiday dates
func (h *Holidays) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := len(h.static)
	for _, set := range h.years {
		for d := range set {
			if _, dup := h.static[d]; !dup {
				n++
			}
		}
	}
	return n
}
