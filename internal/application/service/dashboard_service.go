package service

import (
	"context"
	"sort"
	"time"

	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/payroll"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/money"
	"github.com/sangkips/salonpro-api/pkg/pagination"
)

const (
	dashboardDays     = 7
	dashboardTopLimit = 5
)

// DashboardService provides dashboard statistics. Everything is derived
// from current rows on each call.
type DashboardService struct {
	workerRepo    repository.WorkerRepository
	serviceRepo   repository.ServiceRepository
	saleRepo      repository.SaleRepository
	itemRepo      repository.InventoryItemRepository
	alertRepo     repository.AlertRepository
	customerRepo  repository.CustomerRepository
	analyticsRepo repository.AnalyticsRepository
	loc           *time.Location
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	workerRepo repository.WorkerRepository,
	serviceRepo repository.ServiceRepository,
	saleRepo repository.SaleRepository,
	itemRepo repository.InventoryItemRepository,
	alertRepo repository.AlertRepository,
	customerRepo repository.CustomerRepository,
	analyticsRepo repository.AnalyticsRepository,
	loc *time.Location,
) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		workerRepo:    workerRepo,
		serviceRepo:   serviceRepo,
		saleRepo:      saleRepo,
		itemRepo:      itemRepo,
		alertRepo:     alertRepo,
		customerRepo:  customerRepo,
		analyticsRepo: analyticsRepo,
		loc:           loc,
		now:           time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	ServiceRevenue        float64             `json:"service_revenue"`
	MonthlyServiceRevenue float64             `json:"monthly_service_revenue"`
	ProductRevenue        float64             `json:"product_revenue"`
	MonthlyProductRevenue float64             `json:"monthly_product_revenue"`
	MonthlyPayroll        float64             `json:"monthly_payroll"`
	MonthlyNet            float64             `json:"monthly_net"`
	ServicesThisMonth     int                 `json:"services_this_month"`
	TotalCustomers        int64               `json:"total_customers"`
	LowStockCount         int64               `json:"low_stock_count"`
	ActiveAlerts          int64               `json:"active_alerts"`
	TopWorkers            []TopWorker         `json:"top_workers"`
	TopProducts           []TopProductPoint   `json:"top_products"`
	TopCustomers          []TopCustomerPoint  `json:"top_customers"`
	DailyRevenue          []DailyRevenuePoint `json:"daily_revenue"`
}

// TopWorker is a worker ranked by this month's earnings
type TopWorker struct {
	WorkerID             string  `json:"worker_id"`
	Name                 string  `json:"name"`
	CurrentMonthEarnings float64 `json:"current_month_earnings"`
	ServicesPerformed    int     `json:"services_performed"`
}

// TopProductPoint is a retail product ranked by units sold
type TopProductPoint struct {
	ItemID       string  `json:"item_id"`
	Name         string  `json:"name"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// TopCustomerPoint is a customer ranked by spend on services
type TopCustomerPoint struct {
	CustomerID string  `json:"customer_id"`
	Name       string  `json:"name"`
	TotalSpent float64 `json:"total_spent"`
	VisitCount int     `json:"visit_count"`
}

// DailyRevenuePoint is one day of combined takings
type DailyRevenuePoint struct {
	Date     string  `json:"date"`
	Services float64 `json:"services"`
	Products float64 `json:"products"`
	Total    float64 `json:"total"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	monthEnd := monthStart.AddDate(0, 1, 0)
	thisMonth := func(at time.Time) bool { return !at.Before(monthStart) && at.Before(monthEnd) }
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	firstDay := today.AddDate(0, 0, -(dashboardDays - 1))

	stats := &DashboardStats{}

	services, err := s.serviceRepo.ListCompleted(ctx, nil)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load services")
	}
	workers, err := s.workerRepo.ListRoster(ctx, false)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load workers")
	}
	since := monthStart
	if firstDay.Before(since) {
		since = firstDay
	}
	recentSales, err := s.saleRepo.ListSince(ctx, since)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load sales")
	}
	productRevenue, err := s.saleRepo.TotalRevenue(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load sales")
	}

	// [services, products] in cents per day
	daily := make(map[string]*[2]int64, dashboardDays)
	for i := 0; i < dashboardDays; i++ {
		daily[firstDay.AddDate(0, 0, i).Format("2006-01-02")] = &[2]int64{}
	}

	var serviceTotal, serviceMonth int64
	for i := range services {
		price := services[i].Price
		at := services[i].PerformedAt().In(s.loc)
		serviceTotal += price
		if thisMonth(at) {
			serviceMonth += price
			stats.ServicesThisMonth++
		}
		if d, ok := daily[at.Format("2006-01-02")]; ok {
			d[0] += price
		}
	}

	var productMonth int64
	for _, sale := range recentSales {
		at := sale.CreatedAt.In(s.loc)
		if thisMonth(at) {
			productMonth += sale.Total
		}
		if d, ok := daily[at.Format("2006-01-02")]; ok {
			d[1] += sale.Total
		}
	}
	points := make([]DailyRevenuePoint, dashboardDays)
	for i := range points {
		date := firstDay.AddDate(0, 0, i).Format("2006-01-02")
		d := daily[date]
		points[i] = DailyRevenuePoint{
			Date:     date,
			Services: money.ToDecimal(d[0]),
			Products: money.ToDecimal(d[1]),
			Total:    money.ToDecimal(d[0] + d[1]),
		}
	}

	roster := payroll.ComputeRoster(workers, services, now)
	payrollCost := payroll.MonthlyPayroll(roster)

	stats.ServiceRevenue = money.ToDecimal(serviceTotal)
	stats.MonthlyServiceRevenue = money.ToDecimal(serviceMonth)
	stats.ProductRevenue = money.ToDecimal(productRevenue)
	stats.MonthlyProductRevenue = money.ToDecimal(productMonth)
	stats.MonthlyPayroll = money.ToDecimal(payrollCost)
	stats.MonthlyNet = money.ToDecimal(serviceMonth + productMonth - payrollCost)
	stats.DailyRevenue = points
	stats.TopWorkers = topWorkers(workers, roster)

	paginationParams := pagination.DefaultPagination()
	paginationParams.PerPage = 1
	_, stats.TotalCustomers, err = s.customerRepo.List(ctx, paginationParams, "")
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to count customers")
	}
	if stats.LowStockCount, err = s.itemRepo.CountLowStock(ctx); err != nil {
		return nil, apperror.Wrap(err, "Failed to count low stock items")
	}
	if stats.ActiveAlerts, err = s.alertRepo.CountActive(ctx); err != nil {
		return nil, apperror.Wrap(err, "Failed to count alerts")
	}

	products, err := s.analyticsRepo.GetTopProducts(ctx, dashboardTopLimit)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load top products")
	}
	stats.TopProducts = make([]TopProductPoint, len(products))
	for i, p := range products {
		stats.TopProducts[i] = TopProductPoint{
			ItemID:       p.ItemID.String(),
			Name:         p.Name,
			QuantitySold: p.QuantitySold,
			Revenue:      money.ToDecimal(p.Revenue),
		}
	}

	customers, err := s.analyticsRepo.GetTopCustomers(ctx, dashboardTopLimit)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load top customers")
	}
	stats.TopCustomers = make([]TopCustomerPoint, len(customers))
	for i, c := range customers {
		stats.TopCustomers[i] = TopCustomerPoint{
			CustomerID: c.CustomerID.String(),
			Name:       c.CustomerName,
			TotalSpent: money.ToDecimal(c.TotalSpent),
			VisitCount: c.VisitCount,
		}
	}

	return stats, nil
}

func topWorkers(workers []entity.Worker, roster []payroll.Earnings) []TopWorker {
	out := make([]TopWorker, len(roster))
	for i, e := range roster {
		out[i] = TopWorker{
			WorkerID:             workers[i].ID.String(),
			Name:                 workers[i].Name,
			CurrentMonthEarnings: money.ToDecimal(e.CurrentMonthEarnings),
			ServicesPerformed:    e.ServicesPerformed,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CurrentMonthEarnings > out[j].CurrentMonthEarnings
	})
	if len(out) > dashboardTopLimit {
		out = out[:dashboardTopLimit]
	}
	return out
}
