package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCron checks a standard 5-field cron expression.
func ValidateCron(expression string) error {
	if _, err := cronParser.Parse(expression); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expression, err)
	}

	return nil
}

// NextRun returns the next time a cron expression fires after the given
// reference time.
func NextRun(expression string, after time.Time) (time.Time, error) {
	parsed, err := cronParser.Parse(expression)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron expression %q: %w", expression, err)
	}

	return parsed.Next(after), nil
}
