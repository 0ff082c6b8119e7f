package types

// DurationUnit is the configured unit of a level's discount window duration.
type DurationUnit string

const (
	DurationUnitMinute DurationUnit = "minute"
	DurationUnitHour   DurationUnit = "hour"
	DurationUnitDay    DurationUnit = "day"
)

const (
	MinuteInSeconds int64 = 60
	HourInSeconds   int64 = 3600
	DayInSeconds    int64 = 86400
)

// Seconds returns the multiplier for the unit. Unrecognized or empty units
// fall back to minutes rather than failing.
func (u DurationUnit) Seconds() int64 {
	switch u {
	case DurationUnitMinute:
		return MinuteInSeconds
	case DurationUnitHour:
		return HourInSeconds
	case DurationUnitDay:
		return DayInSeconds
	default:
		return MinuteInSeconds
	}
}

// Normalize maps any unrecognized unit to the minute default.
func (u DurationUnit) Normalize() DurationUnit {
	switch u {
	case DurationUnitMinute, DurationUnitHour, DurationUnitDay:
		return u
	default:
		return DurationUnitMinute
	}
}
