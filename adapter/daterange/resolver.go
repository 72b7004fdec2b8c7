// Package daterange turns the classifier's raw date tokens into a concrete
// inclusive calendar interval.
package daterange

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

// Range is an inclusive calendar-date interval. Start and End are truncated
// to midnight UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether an ISO-8601 date falls inside the range,
// inclusive on both ends. Unparseable dates are excluded.
func (r *Range) Contains(isoDate string) bool {
	if r == nil {
		return true
	}
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(isoDate))
	if err != nil {
		return false
	}
	return !d.Before(r.Start) && !d.After(r.End)
}

// Hint converts the range back to the raw form passed to finance sources
// for server-side narrowing.
func (r *Range) Hint() *contractx.DateRange {
	if r == nil {
		return nil
	}
	return &contractx.DateRange{
		Start: r.Start.Format(time.DateOnly),
		End:   r.End.Format(time.DateOnly),
	}
}

// Resolve validates the classifier's date tokens against ISO-8601 and
// applies the defaulting rules: both empty means no filtering (nil range),
// a missing end date defaults to today. Malformed tokens and inverted
// ranges are validation errors, never a silent pass-through.
func Resolve(startDate, endDate string, today time.Time) (*Range, error) {
	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)

	if startDate == "" && endDate == "" {
		return nil, nil
	}
	if startDate == "" {
		return nil, fmt.Errorf("%w: end date %q without a start date", contractx.ErrValidation, endDate)
	}

	start, err := time.Parse(time.DateOnly, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed start date %q", contractx.ErrValidation, startDate)
	}

	var end time.Time
	if endDate == "" {
		end = today.UTC().Truncate(24 * time.Hour)
	} else {
		end, err = time.Parse(time.DateOnly, endDate)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed end date %q", contractx.ErrValidation, endDate)
		}
	}

	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s before start date %s",
			contractx.ErrValidation, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	return &Range{Start: start, End: end}, nil
}
