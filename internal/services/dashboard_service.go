package services

import (
	"time"

	"github.com/shopspring/decimal"

	"bijou/internal/models"
	"bijou/internal/repositories"
)

// DashboardCards — карточки со сводкой за текущий месяц.
type DashboardCards struct {
	ActiveUsers      int     `json:"active_users"`
	MonthlyOrders    int     `json:"monthly_orders"`
	MonthlyCanceled  int     `json:"monthly_canceled"`
	MonthlyConfirmed int     `json:"monthly_confirmed"`
	MonthlySales     float64 `json:"monthly_sales"`
}

type WeeklySalesPoint struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type CategoryPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type DashboardPayload struct {
	GeneratedAt          time.Time          `json:"generated_at"`
	Cards                DashboardCards     `json:"cards"`
	WeeklySales          []WeeklySalesPoint `json:"weekly_sales"`
	CategoryDistribution []CategoryPoint    `json:"weekly_category_distribution"`
}

type DashboardService struct {
	Repo     repositories.DashboardRepository
	Accounts repositories.AccountRepository

	Now func() time.Time
}

func NewDashboardService(repo repositories.DashboardRepository, accounts repositories.AccountRepository) *DashboardService {
	return &DashboardService{Repo: repo, Accounts: accounts, Now: time.Now}
}

// Build собирает сводку: месячные карточки, недельный график продаж по дням
// (с нулями для дней без заказов) и распределение выручки по категориям.
func (s *DashboardService) Build() (*DashboardPayload, error) {
	now := s.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startNextMonth := startOfMonth.AddDate(0, 1, 0)
	// окно недели: последние 7 дней, включая сегодня
	startOfWeek := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
	endOfWeek := startOfWeek.AddDate(0, 0, 7)

	activeUsers, err := s.Accounts.CountActiveSessions(now)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.Repo.CountOrders(startOfMonth, startNextMonth)
	if err != nil {
		return nil, err
	}
	canceled, err := s.Repo.CountOrdersByStatuses(startOfMonth, startNextMonth,
		[]string{models.OrderCanceled, models.OrderRefunded})
	if err != nil {
		return nil, err
	}
	confirmed, err := s.Repo.CountOrdersByStatuses(startOfMonth, startNextMonth,
		[]string{models.OrderDelivered})
	if err != nil {
		return nil, err
	}
	monthlySales, err := s.Repo.SumSales(startOfMonth, startNextMonth)
	if err != nil {
		return nil, err
	}

	daily, err := s.Repo.DailySalesSeries(startOfWeek, endOfWeek)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]decimal.Decimal, len(daily))
	for _, d := range daily {
		byDay[d.Date.Format("2006-01-02")] = d.Total
	}
	weekly := make([]WeeklySalesPoint, 0, 7)
	for offset := 0; offset < 7; offset++ {
		day := startOfWeek.AddDate(0, 0, offset)
		key := day.Format("2006-01-02")
		total, _ := byDay[key].Float64()
		weekly = append(weekly, WeeklySalesPoint{
			Date:  key,
			Label: day.Format("01/02"),
			Total: total,
		})
	}

	categories, err := s.Repo.CategoryDistribution(startOfWeek, endOfWeek)
	if err != nil {
		return nil, err
	}
	dist := make([]CategoryPoint, 0, len(categories))
	for _, c := range categories {
		v, _ := c.Value.Float64()
		label := c.Label
		if label == "" {
			label = "기타"
		}
		dist = append(dist, CategoryPoint{Label: label, Value: v})
	}

	sales, _ := monthlySales.Float64()
	return &DashboardPayload{
		GeneratedAt: now,
		Cards: DashboardCards{
			ActiveUsers:      activeUsers,
			MonthlyOrders:    totalOrders,
			MonthlyCanceled:  canceled,
			MonthlyConfirmed: confirmed,
			MonthlySales:     sales,
		},
		WeeklySales:          weekly,
		CategoryDistribution: dist,
	}, nil
}
