package worktime

const (
	msgEndBeforeStart = "End time must be after start time."
	msgNegativeBreak  = "Break cannot be negative."
	msgBreakTooLong   = "Break exceeds segment duration."
)

// ValidateSegments checks one day's segments for temporal sanity. Break
// checks only apply to work days; other types have no pauses.
func ValidateSegments(segments []TimeSegment, dayType DayType) []ValidationError {
	var errs []ValidationError
	for i, seg := range segments {
		if !seg.End.After(seg.Start) {
			errs = append(errs, ValidationError{Segment: i, Message: msgEndBeforeStart})
		}
		if dayType != DayWork {
			continue
		}
		if seg.BreakSeconds < 0 {
			errs = append(errs, ValidationError{Segment: i, Message: msgNegativeBreak})
		}
		if seg.BreakSeconds > seg.DurationSeconds() {
			errs = append(errs, ValidationError{Segment: i, Message: msgBreakTooLong})
		}
	}
	return errs
}
