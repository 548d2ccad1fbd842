package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Money is an amount in cents.
type Money int64

// String formats cents as "2.50".
func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}

	return fmt.Sprintf("%s%d.%02d", sign, m/100, m%100)
}

// ParseMoney parses "2.50", "2.5" or "2" into cents.
func ParseMoney(amount string) (Money, error) {
	amount = strings.TrimSpace(amount)
	units, fraction, hasFraction := strings.Cut(amount, ".")

	if units == "" || strings.HasPrefix(units, "-") || strings.HasPrefix(units, "+") {
		return 0, fmt.Errorf("%w: money amount %q", ErrInvalidInput, amount)
	}

	whole, err := strconv.ParseInt(units, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: money amount %q", ErrInvalidInput, amount)
	}

	cents := int64(0)
	if hasFraction {
		if len(fraction) == 0 || len(fraction) > 2 {
			return 0, fmt.Errorf("%w: money amount %q", ErrInvalidInput, amount)
		}

		if len(fraction) == 1 {
			fraction += "0"
		}

		if cents, err = strconv.ParseInt(fraction, 10, 64); err != nil || cents < 0 {
			return 0, fmt.Errorf("%w: money amount %q", ErrInvalidInput, amount)
		}
	}

	return Money(whole*100 + cents), nil
}

// DueDate is the issue date plus the loan duration of the policy.
func DueDate(issuedAt time.Time, policy LibraryPolicy) time.Time {
	return issuedAt.AddDate(0, 0, policy.LoanDurationDays)
}

// IsOverdue is true once now is past the due date.
func IsOverdue(dueAt, now time.Time) bool {
	return now.After(dueAt)
}

// DaysOverdue counts whole days between due date and now, never negative.
// Days are counted on the wall clock of the due date's location, so a day
// shortened or stretched by a DST change still counts as one.
func DaysOverdue(dueAt, now time.Time) int {
	if !now.After(dueAt) {
		return 0
	}

	return max(0, int(wallClock(now.In(dueAt.Location())).Sub(wallClock(dueAt))/day))
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// FineAmount is max(0, wholeDaysBetween(due, now)) * finePerDay.
func FineAmount(dueAt, now time.Time, finePerDay Money) Money {
	return Money(DaysOverdue(dueAt, now)) * finePerDay
}
