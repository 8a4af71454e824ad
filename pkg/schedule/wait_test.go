package schedule

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/flowlinehq/flowline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestComputeWait_Duration(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		spec     models.WaitSpec
		expected time.Duration
	}{
		{
			name:     "two hours",
			spec:     models.WaitSpec{Mode: models.WaitModeDuration, Value: 2, Unit: models.WaitUnitHours},
			expected: 2 * time.Hour,
		},
		{
			name:     "thirty minutes",
			spec:     models.WaitSpec{Mode: models.WaitModeDuration, Value: 30, Unit: models.WaitUnitMinutes},
			expected: 30 * time.Minute,
		},
		{
			name:     "three days",
			spec:     models.WaitSpec{Mode: models.WaitModeDuration, Value: 3, Unit: models.WaitUnitDays},
			expected: 72 * time.Hour,
		},
		{
			name:     "missing unit defaults to minutes",
			spec:     models.WaitSpec{Mode: models.WaitModeDuration, Value: 5},
			expected: 5 * time.Minute,
		},
		{
			name:     "missing value is zero",
			spec:     models.WaitSpec{Mode: models.WaitModeDuration, Unit: models.WaitUnitHours},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeWait(tt.spec, nil, now, discardLogger()))
		})
	}
}

func TestComputeWait_DateTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("future instant", func(t *testing.T) {
		spec := models.WaitSpec{Mode: models.WaitModeDateTime, DateTime: "2025-03-10T12:30:00Z"}
		assert.Equal(t, 2*time.Hour+30*time.Minute, ComputeWait(spec, nil, now, discardLogger()))
	})

	t.Run("past instant clamps to zero", func(t *testing.T) {
		spec := models.WaitSpec{Mode: models.WaitModeDateTime, DateTime: "2025-03-09T12:00:00Z"}
		assert.Equal(t, time.Duration(0), ComputeWait(spec, nil, now, discardLogger()))
	})

	t.Run("unparseable proceeds immediately", func(t *testing.T) {
		spec := models.WaitSpec{Mode: models.WaitModeDateTime, DateTime: "not-a-date"}
		assert.Equal(t, time.Duration(0), ComputeWait(spec, nil, now, discardLogger()))
	})

	t.Run("empty proceeds immediately", func(t *testing.T) {
		spec := models.WaitSpec{Mode: models.WaitModeDateTime}
		assert.Equal(t, time.Duration(0), ComputeWait(spec, nil, now, discardLogger()))
	})
}

func TestComputeWait_Timestamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("placeholder resolved before parsing", func(t *testing.T) {
		data := map[string]any{
			"trigger": map[string]any{"remind_at": "2025-03-10T11:00:00Z"},
		}
		spec := models.WaitSpec{Mode: models.WaitModeTimestamp, Timestamp: "{{trigger.remind_at}}"}

		assert.Equal(t, time.Hour, ComputeWait(spec, data, now, discardLogger()))
	})

	t.Run("unix seconds", func(t *testing.T) {
		target := now.Add(90 * time.Minute)
		spec := models.WaitSpec{Mode: models.WaitModeTimestamp, Timestamp: "1741606200"}

		assert.Equal(t, target.Sub(now), ComputeWait(spec, nil, now, discardLogger()))
	})

	t.Run("unresolved placeholder proceeds immediately", func(t *testing.T) {
		spec := models.WaitSpec{Mode: models.WaitModeTimestamp, Timestamp: "{{trigger.remind_at}}"}
		assert.Equal(t, time.Duration(0), ComputeWait(spec, map[string]any{}, now, discardLogger()))
	})
}

func TestComputeWait_OfficeHours(t *testing.T) {
	// Monday March 10 2025.
	monday10 := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	weekdays := []int{1, 2, 3, 4, 5}

	spec := func(action models.OutOfWindowAction) models.WaitSpec {
		return models.WaitSpec{
			Mode:       models.WaitModeOfficeHours,
			OfficeDays: weekdays,
			StartTime:  "09:00",
			EndTime:    "17:00",
			Action:     action,
		}
	}

	t.Run("inside window waits zero", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), ComputeWait(spec(models.OutOfWindowWait), nil, monday10, discardLogger()))
	})

	t.Run("window start is inclusive", func(t *testing.T) {
		at9 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Duration(0), ComputeWait(spec(models.OutOfWindowWait), nil, at9, discardLogger()))
	})

	t.Run("window end is exclusive", func(t *testing.T) {
		at17 := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
		// Waits until Tuesday 09:00.
		assert.Equal(t, 16*time.Hour, ComputeWait(spec(models.OutOfWindowWait), nil, at17, discardLogger()))
	})

	t.Run("before start waits until start", func(t *testing.T) {
		at7 := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
		assert.Equal(t, 90*time.Minute, ComputeWait(spec(models.OutOfWindowWait), nil, at7, discardLogger()))
	})

	t.Run("saturday waits until monday start", func(t *testing.T) {
		saturday10 := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
		wait := ComputeWait(spec(models.OutOfWindowWait), nil, saturday10, discardLogger())

		resumed := saturday10.Add(wait)
		assert.Equal(t, time.Monday, resumed.Weekday())
		assert.Equal(t, 9, resumed.Hour())
		assert.Equal(t, 47*time.Hour, wait)
	})

	t.Run("proceed action never blocks", func(t *testing.T) {
		saturday10 := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Duration(0), ComputeWait(spec(models.OutOfWindowProceed), nil, saturday10, discardLogger()))
	})

	t.Run("unconfigured window never blocks", func(t *testing.T) {
		saturday10 := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
		incomplete := models.WaitSpec{Mode: models.WaitModeOfficeHours, OfficeDays: weekdays, Action: models.OutOfWindowWait}

		assert.Equal(t, time.Duration(0), ComputeWait(incomplete, nil, saturday10, discardLogger()))
	})
}

func TestComputeWait_UnknownMode(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	spec := models.WaitSpec{Mode: "someday"}

	assert.Equal(t, time.Duration(0), ComputeWait(spec, nil, now, discardLogger()))
}

func TestValidateCron(t *testing.T) {
	assert.NoError(t, ValidateCron("*/5 * * * *"))
	assert.Error(t, ValidateCron("not a cron"))
}

func TestNextRun(t *testing.T) {
	after := time.Date(2025, 3, 10, 10, 2, 0, 0, time.UTC)

	next, err := NextRun("0 * * * *", after)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC), next)
}
