package service

import (
	"context"
	"time"

	"github.com/pahanaedu/pos-api/internal/domain/entity"
	"github.com/pahanaedu/pos-api/internal/domain/repository"
)

// LowStockThreshold is the stock level at or below which a book is
// flagged on the dashboard.
const LowStockThreshold = 5

// DashboardService aggregates the figures shown on the landing screen
type DashboardService struct {
	billRepo     repository.BillRepository
	bookRepo     repository.BookRepository
	customerRepo repository.CustomerRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	billRepo repository.BillRepository,
	bookRepo repository.BookRepository,
	customerRepo repository.CustomerRepository,
) *DashboardService {
	return &DashboardService{
		billRepo:     billRepo,
		bookRepo:     bookRepo,
		customerRepo: customerRepo,
	}
}

// DashboardStats holds the aggregate dashboard figures. Money values
// are in cents; the DTO layer converts them for display.
type DashboardStats struct {
	TodaySales    int64                `json:"today_sales"`
	TodayBills    int64                `json:"today_bills"`
	TotalBooks    int64                `json:"total_books"`
	TotalCustomers int64               `json:"total_customers"`
	LowStockCount int64                `json:"low_stock_count"`
	TopBooks      []repository.TopBook `json:"top_books"`
	RecentBills   []entity.Bill        `json:"recent_bills"`
}

// GetStats computes the dashboard figures for today.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	todaySales, todayBills, err := s.billRepo.SalesSummary(ctx, startOfDay, endOfDay)
	if err != nil {
		return nil, err
	}

	totalBooks, err := s.bookRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalCustomers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	lowStockCount, err := s.bookRepo.CountLowStock(ctx, LowStockThreshold)
	if err != nil {
		return nil, err
	}

	topBooks, err := s.billRepo.TopBooks(ctx, 5)
	if err != nil {
		return nil, err
	}

	recentBills, err := s.billRepo.ListRecent(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TodaySales:     todaySales,
		TodayBills:     todayBills,
		TotalBooks:     totalBooks,
		TotalCustomers: totalCustomers,
		LowStockCount:  lowStockCount,
		TopBooks:       topBooks,
		RecentBills:    recentBills,
	}, nil
}

// GetLowStockBooks returns the books currently at or below the
// dashboard threshold.
func (s *DashboardService) GetLowStockBooks(ctx context.Context) ([]entity.Book, error) {
	return s.bookRepo.GetLowStock(ctx, LowStockThreshold)
}
