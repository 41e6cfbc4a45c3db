package models

type DashboardOverview struct {
	TotalProducts       int `json:"total_products"`
	ActiveProducts      int `json:"active_products"`
	TotalUsers          int `json:"total_users"`
	ActiveUsers         int `json:"active_users"`
	RecentLogs          int `json:"recent_logs"`
	ErrorLogs           int `json:"error_logs"`
	TotalSNSContent     int `json:"total_sns_content"`
	PublishedSNSContent int `json:"published_sns_content"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Activity struct {
	ID        int    `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type DashboardStats struct {
	Overview         DashboardOverview `json:"overview"`
	ProductTrends    []TrendPoint      `json:"product_trends"`
	RecentActivities []Activity        `json:"recent_activities"`
}

type RecentActivity struct {
	Activities []Activity `json:"activities"`
}

type SalesPoint struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

type SalesSummary struct {
	SalesData         []SalesPoint `json:"sales_data"`
	TotalSales        float64      `json:"total_sales"`
	AverageDailySales float64      `json:"average_daily_sales"`
}
