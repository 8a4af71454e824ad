// Package schedule computes suspend durations for wait steps and next-run
// times for cron-scheduled triggers.
package schedule

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/flowlinehq/flowline/pkg/template"
)

// officeHoursScanDays bounds the forward scan for the next office day. A
// week plus one day covers every weekday configuration and guarantees
// termination on an empty or malformed day set.
const officeHoursScanDays = 8

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ComputeWait returns the non-negative duration a wait step should suspend
// for, given the wait spec, the data context (used to resolve placeholders
// in timestamp mode), and the current time. Unparseable configuration
// yields zero with a warning: a broken wait proceeds immediately, it never
// aborts the run.
func ComputeWait(spec models.WaitSpec, data map[string]any, now time.Time, logger *slog.Logger) time.Duration {
	var wait time.Duration

	switch spec.Mode {
	case models.WaitModeDuration:
		wait = durationWait(spec)
	case models.WaitModeDateTime:
		wait = untilInstant(spec.DateTime, now, logger)
	case models.WaitModeTimestamp:
		resolved := template.Substitute(spec.Timestamp, data)
		wait = untilInstant(resolved, now, logger)
	case models.WaitModeOfficeHours:
		wait = officeHoursWait(spec, now)
	default:
		logger.Warn("Unknown wait mode, proceeding immediately", "mode", spec.Mode)
	}

	if wait < 0 {
		return 0
	}

	return wait
}

func durationWait(spec models.WaitSpec) time.Duration {
	unit := spec.Unit
	if unit == "" {
		unit = models.WaitUnitMinutes
	}

	var per time.Duration

	switch unit {
	case models.WaitUnitMinutes:
		per = time.Minute
	case models.WaitUnitHours:
		per = time.Hour
	case models.WaitUnitDays:
		per = 24 * time.Hour
	default:
		per = time.Minute
	}

	return time.Duration(spec.Value * float64(per))
}

func untilInstant(value string, now time.Time, logger *slog.Logger) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	target, err := parseInstant(value, now.Location())
	if err != nil {
		logger.Warn("Unparseable wait target, proceeding immediately", "value", value, "error", err)

		return 0
	}

	return target.Sub(now)
}

func parseInstant(value string, loc *time.Location) (time.Time, error) {
	// Numeric values are unix epoch seconds or milliseconds.
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n), nil
		}

		return time.Unix(n, 0), nil
	}

	var lastErr error

	for _, layout := range datetimeLayouts {
		target, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return target, nil
		}

		lastErr = err
	}

	return time.Time{}, lastErr
}

// officeHoursWait computes the time until the next weekly availability
// window. Window start is inclusive, end exclusive.
func officeHoursWait(spec models.WaitSpec, now time.Time) time.Duration {
	if len(spec.OfficeDays) == 0 || spec.StartTime == "" || spec.EndTime == "" || spec.Action != models.OutOfWindowWait {
		return 0
	}

	startHour, startMinute, ok := parseTimeOfDay(spec.StartTime)
	if !ok {
		return 0
	}

	endHour, endMinute, ok := parseTimeOfDay(spec.EndTime)
	if !ok {
		return 0
	}

	officeDays := make(map[time.Weekday]bool, len(spec.OfficeDays))
	for _, day := range spec.OfficeDays {
		officeDays[time.Weekday(day%7)] = true
	}

	todayStart := atTimeOfDay(now, startHour, startMinute)
	todayEnd := atTimeOfDay(now, endHour, endMinute)

	if officeDays[now.Weekday()] {
		if !now.Before(todayStart) && now.Before(todayEnd) {
			return 0
		}

		if now.Before(todayStart) {
			return todayStart.Sub(now)
		}
	}

	for offset := 1; offset <= officeHoursScanDays; offset++ {
		day := now.AddDate(0, 0, offset)
		if officeDays[day.Weekday()] {
			return atTimeOfDay(day, startHour, startMinute).Sub(now)
		}
	}

	return 0
}

func parseTimeOfDay(value string) (hour, minute int, ok bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}

	return hour, minute, true
}

func atTimeOfDay(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
