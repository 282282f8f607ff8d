package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/entity"
	"github.com/pahanaedu/pos-api/pkg/pagination"
)

// BillRepository defines the interface for persisted bill data operations
type BillRepository interface {
	// Create persists a bill together with its items in one transaction.
	Create(ctx context.Context, bill *entity.Bill, items []entity.BillItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error)
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	ListRecent(ctx context.Context, limit int) ([]entity.Bill, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]entity.Bill, error)
	// SalesSummary returns total sales in cents and bill count for a period.
	SalesSummary(ctx context.Context, start, end time.Time) (total int64, count int64, err error)
	TopBooks(ctx context.Context, limit int) ([]TopBook, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	CustomerID    *uuid.UUID
	UserID        *uuid.UUID
	PaymentMethod string
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
}

// TopBook is an aggregated sales row for dashboard reporting
type TopBook struct {
	BookID   uuid.UUID `json:"book_id"`
	Title    string    `json:"title"`
	Quantity int64     `json:"quantity"`
	Revenue  int64     `json:"revenue"` // cents
}
