package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bijou/internal/repositories"
)

type fakeDashboardRepo struct {
	monthFrom, monthTo time.Time
	weekFrom, weekTo   time.Time

	daily      []repositories.DailySales
	categories []repositories.CategorySales
}

func (f *fakeDashboardRepo) CountOrders(from, to time.Time) (int, error) {
	f.monthFrom, f.monthTo = from, to
	return 12, nil
}

func (f *fakeDashboardRepo) CountOrdersByStatuses(from, to time.Time, statuses []string) (int, error) {
	return len(statuses), nil
}

func (f *fakeDashboardRepo) SumSales(from, to time.Time) (decimal.Decimal, error) {
	return decimal.RequireFromString("350000"), nil
}

func (f *fakeDashboardRepo) DailySalesSeries(from, to time.Time) ([]repositories.DailySales, error) {
	f.weekFrom, f.weekTo = from, to
	return f.daily, nil
}

func (f *fakeDashboardRepo) CategoryDistribution(from, to time.Time) ([]repositories.CategorySales, error) {
	return f.categories, nil
}

func TestDashboardBuild(t *testing.T) {
	// среда 18 июня, середина месяца
	now := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	repo := &fakeDashboardRepo{
		daily: []repositories.DailySales{
			{Date: day(13), Total: decimal.RequireFromString("50000")},
			{Date: day(16), Total: decimal.RequireFromString("120000")},
		},
		categories: []repositories.CategorySales{
			{Label: "귀걸이", Value: decimal.RequireFromString("90000")},
			{Label: "", Value: decimal.RequireFromString("80000")},
		},
	}
	svc := NewDashboardService(repo, &fakeAccounts{activeSessions: 7})
	svc.Now = func() time.Time { return now }

	payload, err := svc.Build()
	require.NoError(t, err)

	// месячное окно: [1 июня, 1 июля)
	require.Equal(t, day(1), repo.monthFrom)
	require.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), repo.monthTo)
	// недельное окно: последние 7 дней, включая сегодня
	require.Equal(t, day(12), repo.weekFrom)
	require.Equal(t, day(19), repo.weekTo)

	require.Equal(t, 7, payload.Cards.ActiveUsers)
	require.Equal(t, 12, payload.Cards.MonthlyOrders)
	require.Equal(t, float64(350000), payload.Cards.MonthlySales)

	// ровно 7 точек, дни без продаж заполнены нулями
	require.Len(t, payload.WeeklySales, 7)
	require.Equal(t, "2025-06-12", payload.WeeklySales[0].Date)
	require.Equal(t, "06/12", payload.WeeklySales[0].Label)
	require.Equal(t, "2025-06-18", payload.WeeklySales[6].Date)

	byDate := map[string]float64{}
	for _, p := range payload.WeeklySales {
		byDate[p.Date] = p.Total
	}
	require.Equal(t, float64(50000), byDate["2025-06-13"])
	require.Equal(t, float64(120000), byDate["2025-06-16"])
	require.Equal(t, float64(0), byDate["2025-06-14"])

	// категория без метки попадает в "기타"
	require.Len(t, payload.CategoryDistribution, 2)
	require.Equal(t, "귀걸이", payload.CategoryDistribution[0].Label)
	require.Equal(t, "기타", payload.CategoryDistribution[1].Label)
}
