package models

// WaitMode selects the strategy used to compute a suspend interval.
type WaitMode string

const (
	WaitModeDuration    WaitMode = "duration"
	WaitModeDateTime    WaitMode = "datetime"
	WaitModeOfficeHours WaitMode = "office_hours"
	WaitModeTimestamp   WaitMode = "timestamp"
)

// WaitUnit is the unit of a duration-mode wait.
type WaitUnit string

const (
	WaitUnitMinutes WaitUnit = "minutes"
	WaitUnitHours   WaitUnit = "hours"
	WaitUnitDays    WaitUnit = "days"
)

// OutOfWindowAction controls what an office-hours wait does when the
// current time falls outside the configured window.
type OutOfWindowAction string

const (
	OutOfWindowWait    OutOfWindowAction = "wait"
	OutOfWindowProceed OutOfWindowAction = "proceed"
)

// WaitSpec configures a wait step. Only the fields of the selected mode
// are consulted; the rest are ignored.
type WaitSpec struct {
	Mode WaitMode `json:"mode"`

	// duration mode
	Value float64  `json:"value,omitempty"`
	Unit  WaitUnit `json:"unit,omitempty"`

	// datetime mode: an ISO datetime string.
	DateTime string `json:"datetime,omitempty"`

	// timestamp mode: an arbitrary timestamp string, possibly containing a
	// {{var}} placeholder resolved against the data context before parsing.
	Timestamp string `json:"timestamp,omitempty"`

	// office_hours mode: weekday indices (Sunday=0..Saturday=6), a daily
	// window as HH:mm strings, and the out-of-window action.
	OfficeDays []int             `json:"office_days,omitempty"`
	StartTime  string            `json:"start_time,omitempty"`
	EndTime    string            `json:"end_time,omitempty"`
	Action     OutOfWindowAction `json:"action,omitempty"`
}
