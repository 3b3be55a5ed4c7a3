/*
pay.go - Pay converter

PURPOSE:
  Maps worked seconds to integer cents. All intermediate math is exact
  decimal arithmetic; the only rounding is the final step to whole cents
  (half away from zero).

FORMULAS:
  hourly:  cents = seconds * hourlyRate / 3600
  monthly: effectiveHourly = salary / (weeklyTarget * 52 / 12 / 3600)
           cents = seconds * salary * 12 / (weeklyTarget * 52)

  Missing rate, salary or weekly target yields 0.

EXAMPLES:
  8h at 20.00/h                       -> 16000 cents
  8h at 3000.00/month, 40h/week      -> 13846 cents
*/
package worktime

import "github.com/shopspring/decimal"

var (
	secondsPerHour = decimal.NewFromInt(3600)
	weeksPerYear   = decimal.NewFromInt(52)
	monthsPerYear  = decimal.NewFromInt(12)
	hundred        = decimal.NewFromInt(100)
)

// PayCents converts worked seconds to cents for the configured pay mode.
func PayCents(seconds int64, settings Settings) int64 {
	if seconds <= 0 {
		return 0
	}
	secs := decimal.NewFromInt(seconds)

	switch settings.PayMode {
	case PayMonthly:
		if settings.MonthlySalaryCents <= 0 || settings.WeeklyTargetSeconds <= 0 {
			return 0
		}
		numerator := secs.Mul(decimal.NewFromInt(settings.MonthlySalaryCents)).Mul(monthsPerYear)
		denominator := decimal.NewFromInt(settings.WeeklyTargetSeconds).Mul(weeksPerYear)
		return numerator.Div(denominator).Round(0).IntPart()
	default:
		if settings.HourlyRateCents <= 0 {
			return 0
		}
		return secs.Mul(decimal.NewFromInt(settings.HourlyRateCents)).Div(secondsPerHour).Round(0).IntPart()
	}
}

// EffectiveHourlyRateCents returns the hourly rate implied by the settings,
// unrounded. Monthly mode derives it from salary and weekly target.
func EffectiveHourlyRateCents(settings Settings) decimal.Decimal {
	switch settings.PayMode {
	case PayMonthly:
		if settings.MonthlySalaryCents <= 0 || settings.WeeklyTargetSeconds <= 0 {
			return decimal.Zero
		}
		monthlyHours := decimal.NewFromInt(settings.WeeklyTargetSeconds).
			Mul(weeksPerYear).Div(monthsPerYear).Div(secondsPerHour)
		return decimal.NewFromInt(settings.MonthlySalaryCents).Div(monthlyHours)
	default:
		if settings.HourlyRateCents <= 0 {
			return decimal.Zero
		}
		return decimal.NewFromInt(settings.HourlyRateCents)
	}
}

// MonthlyNet estimates monthly net income from gross figures in currency
// units. Percent inputs below zero are treated as zero.
//
//	grossMonthly = max(0, gross + bonuses)
//	taxableBase  = max(0, grossMonthly - max(0, allowance))
//	net          = grossMonthly - taxableBase*tax - grossMonthly*pension
func MonthlyNet(gross, bonuses, wageTaxPercent, pensionPercent, allowance decimal.Decimal) decimal.Decimal {
	grossMonthly := decimal.Max(decimal.Zero, gross.Add(bonuses))
	taxableBase := decimal.Max(decimal.Zero, grossMonthly.Sub(decimal.Max(decimal.Zero, allowance)))
	taxRate := decimal.Max(decimal.Zero, wageTaxPercent).Div(hundred)
	pensionRate := decimal.Max(decimal.Zero, pensionPercent).Div(hundred)
	return grossMonthly.Sub(taxableBase.Mul(taxRate)).Sub(grossMonthly.Mul(pensionRate))
}

// CentsToDecimal converts integer cents to currency units.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// SecondsToHours converts seconds to fractional hours.
func SecondsToHours(seconds int64) decimal.Decimal {
	return decimal.NewFromInt(seconds).Div(secondsPerHour)
}
