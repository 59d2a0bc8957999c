package repositories

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Статусы, входящие в выручку: оплачен и дальше по конвейеру.
var salesStatuses = []string{"PAID", "PREPARING", "SHIPPED", "DELIVERED"}

type DailySales struct {
	Date  time.Time       `json:"-"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

type CategorySales struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

type DashboardRepository interface {
	CountOrders(from, to time.Time) (int, error)
	CountOrdersByStatuses(from, to time.Time, statuses []string) (int, error)
	SumSales(from, to time.Time) (decimal.Decimal, error)
	DailySalesSeries(from, to time.Time) ([]DailySales, error)
	CategoryDistribution(from, to time.Time) ([]CategorySales, error)
}

type dashboardRepository struct {
	DB *sql.DB
}

func NewDashboardRepository(db *sql.DB) DashboardRepository {
	return &dashboardRepository{DB: db}
}

func (r *dashboardRepository) CountOrders(from, to time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM orders WHERE placed_at >= $1 AND placed_at < $2`
	var n int
	err := r.DB.QueryRow(q, from, to).Scan(&n)
	return n, err
}

func (r *dashboardRepository) CountOrdersByStatuses(from, to time.Time, statuses []string) (int, error) {
	const q = `
		SELECT COUNT(*) FROM orders
		WHERE placed_at >= $1 AND placed_at < $2 AND status = ANY($3)
	`
	var n int
	err := r.DB.QueryRow(q, from, to, pq.Array(statuses)).Scan(&n)
	return n, err
}

func (r *dashboardRepository) SumSales(from, to time.Time) (decimal.Decimal, error) {
	const q = `
		SELECT COALESCE(SUM(payment_amount), 0) FROM orders
		WHERE placed_at >= $1 AND placed_at < $2 AND status = ANY($3)
	`
	var total decimal.Decimal
	err := r.DB.QueryRow(q, from, to, pq.Array(salesStatuses)).Scan(&total)
	return total, err
}

// DailySalesSeries — суммы по дням за окно [from, to); дни без продаж не
// возвращаются, нулевое заполнение делает сервис.
func (r *dashboardRepository) DailySalesSeries(from, to time.Time) ([]DailySales, error) {
	const q = `
		SELECT DATE(placed_at) AS day, SUM(payment_amount) AS total
		FROM orders
		WHERE placed_at >= $1 AND placed_at < $2 AND status = ANY($3)
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.DB.Query(q, from, to, pq.Array(salesStatuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailySales
	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, err
		}
		d.Label = d.Date.Format("01/02")
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *dashboardRepository) CategoryDistribution(from, to time.Time) ([]CategorySales, error) {
	const q = `
		SELECT c.name, SUM(i.total_price) AS total
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		JOIN products p ON p.id = i.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE o.placed_at >= $1 AND o.placed_at < $2 AND o.status = ANY($3)
		GROUP BY c.name
		ORDER BY total DESC
	`
	rows, err := r.DB.Query(q, from, to, pq.Array(salesStatuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategorySales
	for rows.Next() {
		var cs CategorySales
		if err := rows.Scan(&cs.Label, &cs.Value); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}
