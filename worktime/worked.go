/*
worked.go - Worked-seconds resolver

PURPOSE:
  Turns a day's raw input into net worked seconds.

ALGORITHM:
  Manual value present:
    negative          -> WorkedSecondsError
    work/manual type  -> ApplyTolerance(value)
    other types       -> value unchanged

  Segments:
    presence = sum(max(0, end - start))
    non-work types -> presence

    work type:
      explicit  = sum(max(0, break))
      net       = max(0, presence - explicit)
      corrected = ApplyTolerance(net)
      required  = RequiredBreak(corrected)
      result    = max(0, corrected - max(0, required - explicit))

TOLERANCE BAND:
  Crossing a break threshold by at most 15 minutes collapses the day back
  onto the threshold:

    (6h, 6h15m] -> 6h
    (9h, 9h15m] -> 9h

  Both bounds are fixed points, so the correction is idempotent.

EXAMPLES:
  manual 6h10m               -> 6h00m
  manual 6h15m               -> 6h00m
  manual 6h20m               -> 6h20m
  7h00m presence, 10m break  -> 6h30m (20m missing break deducted)
  10h00m presence, 30m break -> 9h15m (15m missing break deducted)
*/
package worktime

import "time"

const (
	sixHours   = int64(6 * time.Hour / time.Second)
	nineHours  = int64(9 * time.Hour / time.Second)
	toleranceS = int64(15 * time.Minute / time.Second)

	breakAfterSix  = int64(30 * time.Minute / time.Second)
	breakAfterNine = int64(45 * time.Minute / time.Second)
)

// breakThresholds is the legal minimum break table, highest first.
var breakThresholds = []struct {
	above    int64
	required int64
}{
	{above: nineHours, required: breakAfterNine},
	{above: sixHours, required: breakAfterSix},
}

// WorkedSeconds resolves net worked seconds for a day.
func WorkedSeconds(day DayEntry) (int64, error) {
	if day.ManualWorkedSeconds != nil {
		v := *day.ManualWorkedSeconds
		if v < 0 {
			return 0, &WorkedSecondsError{
				Messages: []string{"Manual worked time cannot be negative."},
				cause:    ErrNegativeManualValue,
			}
		}
		if day.Type == DayWork || day.Type == DayManual {
			return ApplyTolerance(v), nil
		}
		return v, nil
	}

	if errs := ValidateSegments(day.Segments, day.Type); len(errs) > 0 {
		return 0, newValidationFailure(errs)
	}

	presence := PresenceSeconds(day.Segments)
	if day.Type != DayWork {
		return presence, nil
	}

	var explicit int64
	for _, seg := range day.Segments {
		explicit += max(0, seg.BreakSeconds)
	}
	net := max(0, presence-explicit)
	corrected := ApplyTolerance(net)
	missing := max(0, RequiredBreak(corrected)-explicit)
	return max(0, corrected-missing), nil
}

// PresenceSeconds sums segment durations, ignoring inverted segments.
func PresenceSeconds(segments []TimeSegment) int64 {
	var total int64
	for _, seg := range segments {
		total += max(0, seg.DurationSeconds())
	}
	return total
}

// RequiredBreak returns the legal minimum break for the given worked time.
func RequiredBreak(worked int64) int64 {
	for _, t := range breakThresholds {
		if worked > t.above {
			return t.required
		}
	}
	return 0
}

// ApplyTolerance collapses values just above a break threshold onto it.
func ApplyTolerance(seconds int64) int64 {
	corrected := seconds
	for _, threshold := range []int64{sixHours, nineHours} {
		if seconds > threshold && seconds <= threshold+toleranceS {
			corrected -= seconds - threshold
		}
	}
	return max(0, corrected)
}
