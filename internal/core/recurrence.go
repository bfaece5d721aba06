package core

import "time"

const (
	Once    Frequency = "once"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Frequency governs how a reminder's due date advances after payment.
type Frequency string

func (f Frequency) Validate() error {
	switch f {
	case Once, Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

// Recurring reports whether payment advances the due date instead of
// deactivating the reminder.
func (f Frequency) Recurring() bool {
	switch f {
	case Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// NextDueDate computes the next occurrence of a recurring due date.
//
// weekly adds seven days. monthly adds one calendar month, clamping to the
// last day of the target month when the source day does not exist there
// (Jan 31 -> Feb 28, or Feb 29 in a leap year). yearly adds one year,
// clamping Feb 29 to Feb 28 in non-leap years. once (or any unrecognized
// frequency) returns the input unchanged, signalling no further occurrence.
func NextDueDate(current Date, frequency Frequency) Date {
	switch frequency {
	case Weekly:
		return Date{Time: current.AddDate(0, 0, 7)}
	case Monthly:
		return addMonthClamped(current, 1, 0)
	case Yearly:
		return addMonthClamped(current, 0, 1)
	default:
		return current
	}
}

// addMonthClamped advances by whole months/years without the day overflow of
// time.AddDate: a target day past the end of the target month lands on the
// month's last day instead of spilling into the next month.
func addMonthClamped(d Date, months, years int) Date {
	year, month, day := d.Date()
	target := time.Date(year+years, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := lastDayOfMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return NewDate(target.Year(), int(target.Month()), day)
}

func lastDayOfMonth(year int, month time.Month) int {
	// day 0 of the following month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
