package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		date, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, 2024, date.Year())
		assert.Equal(t, 1, int(date.Month()))
		assert.Equal(t, 15, date.Day())
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "expected yyyy-mm-dd")
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, err := ParseDate("2024-13-15")
		assert.Error(t, err)
	})
}

func TestInclusiveDays(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int32
	}{
		{"Same day counts as one", "2024-01-15", "2024-01-15", 1},
		{"Adjacent days count as two", "2024-01-15", "2024-01-16", 2},
		{"Exactly one week", "2024-01-01", "2024-01-07", 7},
		{"Across a month boundary", "2024-01-30", "2024-02-02", 4},
		{"Across a leap day", "2024-02-28", "2024-03-01", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := ParseDate(tt.start)
			assert.NoError(t, err)
			end, err := ParseDate(tt.end)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, InclusiveDays(start, end))
		})
	}
}

func TestCalculateRentalCost(t *testing.T) {
	tests := []struct {
		name        string
		dailyPrice  int64
		weeklyPrice int64
		start       string
		end         string
		expected    int64
	}{
		{"Single day, no weekly rate", 1000, 0, "2024-03-01", "2024-03-01", 1000},
		{"Full week, no weekly rate", 1000, 0, "2024-03-01", "2024-03-07", 7000},
		{"Full week with weekly rate", 1000, 6000, "2024-03-01", "2024-03-07", 6000},
		{"One week plus three days", 1000, 6000, "2024-03-01", "2024-03-10", 6000 + 3*1000},
		{"Two full weeks", 1000, 6000, "2024-03-01", "2024-03-14", 12000},
		{"Six days never hits the weekly tier", 1000, 6000, "2024-03-01", "2024-03-06", 6000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := CalculateRentalCost(tt.dailyPrice, tt.weeklyPrice, tt.start, tt.end)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, total)
		})
	}

	t.Run("Rejects reversed range", func(t *testing.T) {
		_, err := CalculateRentalCost(1000, 0, "2024-03-10", "2024-03-01")
		assert.Error(t, err)
	})

	t.Run("Deterministic across repeated calls", func(t *testing.T) {
		first, err := CalculateRentalCost(45000, 250000, "2024-03-01", "2024-03-10")
		assert.NoError(t, err)
		second, err := CalculateRentalCost(45000, 250000, "2024-03-01", "2024-03-10")
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestCalculateRentalCostWithBreakdown(t *testing.T) {
	t.Run("Ten day rental splits into one week and three days", func(t *testing.T) {
		breakdown, err := CalculateRentalCostWithBreakdown(45000, 250000, "2024-03-01", "2024-03-10")
		assert.NoError(t, err)
		assert.Equal(t, int32(10), breakdown.Days)
		assert.Equal(t, int32(1), breakdown.FullWeeks)
		assert.Equal(t, int32(3), breakdown.ExtraDays)
		assert.Equal(t, int64(250000), breakdown.WeeksCost)
		assert.Equal(t, int64(135000), breakdown.DaysCost)
		assert.Equal(t, int64(385000), breakdown.TotalCost)
	})

	t.Run("Short rental is all daily", func(t *testing.T) {
		breakdown, err := CalculateRentalCostWithBreakdown(1000, 6000, "2024-03-01", "2024-03-03")
		assert.NoError(t, err)
		assert.Equal(t, int32(0), breakdown.FullWeeks)
		assert.Equal(t, int64(3000), breakdown.TotalCost)
	})
}
