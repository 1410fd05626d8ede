package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// RentalCostBreakdown provides the per-tier detail behind a total.
type RentalCostBreakdown struct {
	Days      int32
	FullWeeks int32
	ExtraDays int32
	WeeksCost int64
	DaysCost  int64
	TotalCost int64
}

// ParseDate converts a yyyy-mm-dd formatted string into a time.Time at UTC
// midnight.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd: %w", dateStr, err)
	}
	return t, nil
}

// FormatDate renders a time as a yyyy-mm-dd calendar date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// InclusiveDays returns the rental duration in whole days with both the start
// and the end date counted, minimum 1. It assumes end >= start; callers
// validate the range before pricing.
func InclusiveDays(start, end time.Time) int32 {
	days := int32(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}

// CalculateRentalCost computes the total rental cost for an inclusive date
// range. When the equipment carries a weekly rate and the rental spans at
// least a full week, full weeks are charged at the weekly rate and the
// remainder at the daily rate; otherwise every day is charged at the daily
// rate. The function is pure: identical inputs always produce identical
// totals.
func CalculateRentalCost(dailyPrice, weeklyPrice int64, startDate, endDate string) (int64, error) {
	breakdown, err := CalculateRentalCostWithBreakdown(dailyPrice, weeklyPrice, startDate, endDate)
	if err != nil {
		return 0, err
	}
	return breakdown.TotalCost, nil
}

// CalculateRentalCostWithBreakdown is CalculateRentalCost with the per-tier
// detail exposed, used by the workflow's price display and the contract body.
func CalculateRentalCostWithBreakdown(dailyPrice, weeklyPrice int64, startDate, endDate string) (RentalCostBreakdown, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return RentalCostBreakdown{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return RentalCostBreakdown{}, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return RentalCostBreakdown{}, fmt.Errorf("end date must be >= start date")
	}

	const daysPerWeek = 7
	days := InclusiveDays(start, end)

	if weeklyPrice > 0 && days >= daysPerWeek {
		fullWeeks := days / daysPerWeek
		extraDays := days % daysPerWeek
		weeksCost := int64(fullWeeks) * weeklyPrice
		daysCost := int64(extraDays) * dailyPrice
		return RentalCostBreakdown{
			Days:      days,
			FullWeeks: fullWeeks,
			ExtraDays: extraDays,
			WeeksCost: weeksCost,
			DaysCost:  daysCost,
			TotalCost: weeksCost + daysCost,
		}, nil
	}

	daysCost := int64(days) * dailyPrice
	return RentalCostBreakdown{
		Days:      days,
		ExtraDays: days,
		DaysCost:  daysCost,
		TotalCost: daysCost,
	}, nil
}
