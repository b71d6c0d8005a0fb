package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/mamadbah2/ricemill/internal/domain/models"
)

// Window selects the reporting period relative to now.
type Window string

const (
	WindowLast30    Window = "last30"
	WindowThisMonth Window = "thisMonth"
	WindowThisWeek  Window = "thisWeek"
)

// ParseWindow validates a window selector at the API boundary. The filtering
// code below assumes a valid selector.
func ParseWindow(raw string) (Window, error) {
	switch Window(raw) {
	case WindowLast30, WindowThisMonth, WindowThisWeek:
		return Window(raw), nil
	}
	return "", fmt.Errorf("unknown window selector %q", raw)
}

// From computes the inclusive lower bound of the window. last30 and thisWeek
// keep the time of day; thisWeek lands on the most recent Sunday on or before
// now, thisMonth on midnight of the first.
func (w Window) From(now time.Time) time.Time {
	switch w {
	case WindowThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case WindowThisWeek:
		return now.AddDate(0, 0, -int(now.Weekday()))
	default:
		return now.AddDate(0, 0, -30)
	}
}

// FilterByWindow keeps records created on or after the window's lower bound.
// There is no upper bound; records newer than now pass.
func FilterByWindow(records []models.StoredRecord, w Window, now time.Time) []models.StoredRecord {
	from := w.From(now)

	out := make([]models.StoredRecord, 0, len(records))
	for _, r := range records {
		if !r.CreatedAt.Before(from) {
			out = append(out, r)
		}
	}
	return out
}

// SortChronological orders records oldest first, the ordering charts plot
// left to right.
func SortChronological(records []models.StoredRecord) []models.StoredRecord {
	out := make([]models.StoredRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ReverseForTable orders records newest first for the tabular report view.
// It is the exact reverse of SortChronological over the same set.
func ReverseForTable(records []models.StoredRecord) []models.StoredRecord {
	asc := SortChronological(records)
	out := make([]models.StoredRecord, len(asc))
	for i, r := range asc {
		out[len(asc)-1-i] = r
	}
	return out
}

// Paginate slices one 1-indexed page out of records. Pages beyond the range
// come back empty; clamping is the caller's job since the UI disables
// navigation at the boundary.
func Paginate(records []models.StoredRecord, page, pageSize int) ([]models.StoredRecord, int) {
	totalPages := (len(records) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start < 0 || start >= len(records) {
		return nil, totalPages
	}

	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], totalPages
}

// Label formats a creation date as the short label used for chart axes and
// table rows.
func Label(t time.Time) string {
	return t.Format("Jan 2")
}
