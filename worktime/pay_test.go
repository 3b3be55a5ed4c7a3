package worktime_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/worktime-engine/worktime"
)

func hourly(rateCents int64) worktime.Settings {
	s := worktime.DefaultSettings()
	s.HourlyRateCents = rateCents
	return s
}

func monthly(salaryCents, weeklyTarget int64) worktime.Settings {
	s := worktime.DefaultSettings()
	s.PayMode = worktime.PayMonthly
	s.MonthlySalaryCents = salaryCents
	s.WeeklyTargetSeconds = weeklyTarget
	return s
}

func TestPayCents_Hourly(t *testing.T) {
	tests := []struct {
		name    string
		seconds int64
		rate    int64
		want    int64
	}{
		{"8h at 20.00", hm(8, 0), 2000, 16000},
		{"half a cent rounds away from zero", 1, 1800, 1},
		{"lookback average 2215s at 20.00", 2215, 2000, 1231},
		{"6h30m at 15.50", hm(6, 30), 1550, 10075},
		{"no rate configured", hm(8, 0), 0, 0},
		{"zero seconds", 0, 2000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, worktime.PayCents(tt.seconds, hourly(tt.rate)))
		})
	}
}

func TestPayCents_Monthly(t *testing.T) {
	// 3000.00 per month at 40h/week -> 173.33h/month -> 17.3077/h
	assert.Equal(t, int64(13846), worktime.PayCents(hm(8, 0), monthly(300000, hm(40, 0))))

	// 38.5h/week, 2800.00/month, 7h42m -> 2800 * 12 / 52 / 5 = 129.2307...
	assert.Equal(t, int64(12923), worktime.PayCents(hm(7, 42), monthly(280000, hm(38, 30))))

	assert.Equal(t, int64(0), worktime.PayCents(hm(8, 0), monthly(0, hm(40, 0))), "missing salary")
	assert.Equal(t, int64(0), worktime.PayCents(hm(8, 0), monthly(300000, 0)), "missing target")
}

func TestEffectiveHourlyRateCents(t *testing.T) {
	rate := worktime.EffectiveHourlyRateCents(monthly(300000, hm(40, 0)))
	assert.Equal(t, "1730.77", rate.StringFixed(2))

	assert.True(t, worktime.EffectiveHourlyRateCents(hourly(2500)).Equal(decimal.NewFromInt(2500)))
	assert.True(t, worktime.EffectiveHourlyRateCents(monthly(0, 0)).IsZero())
}

func TestMonthlyNet(t *testing.T) {
	d := decimal.NewFromInt

	tests := []struct {
		name                                    string
		gross, bonuses, tax, pension, allowance decimal.Decimal
		want                                    string
	}{
		{"standard", d(3000), d(200), d(20), d(10), d(1000), "2440"},
		{"allowance above gross", d(500), d(0), d(20), d(0), d(1000), "500"},
		{"negative tax rate ignored", d(3000), d(0), d(-5), d(10), d(0), "2700"},
		{"negative allowance ignored", d(1000), d(0), d(10), d(0), d(-500), "900"},
		{"negative gross floors at zero", d(-100), d(50), d(20), d(10), d(0), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := worktime.MonthlyNet(tt.gross, tt.bonuses, tt.tax, tt.pension, tt.allowance)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCentsAndHoursConversion(t *testing.T) {
	assert.Equal(t, "160.00", worktime.CentsToDecimal(16000).StringFixed(2))
	assert.Equal(t, "6.50", worktime.SecondsToHours(hm(6, 30)).StringFixed(2))
}
