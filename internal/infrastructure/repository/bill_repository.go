package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/entity"
	domainRepo "github.com/pahanaedu/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// Create persists a bill and its items in one transaction.
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill, items []entity.BillItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bill).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].BillID = bill.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Customer").Preload("User").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Customer").Preload("User").
		First(&bill, "bill_no = ?", billNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{})

	if params.Search != "" {
		query = query.Where("bill_no ILIKE ?", "%"+params.Search+"%")
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.PaymentMethod != "" {
		query = query.Where("payment_method = ?", params.PaymentMethod)
	}
	if params.StartDate != nil {
		query = query.Where("bill_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("bill_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	order := "created_at DESC"
	if params.SortBy != "" {
		direction := "DESC"
		if params.SortOrder == "asc" {
			direction = "ASC"
		}
		switch params.SortBy {
		case "bill_date", "total", "created_at":
			order = params.SortBy + " " + direction
		}
	}

	err := query.Preload("Customer").
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Order(order).
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) ListRecent(ctx context.Context, limit int) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC").
		Limit(limit).
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) ListBetween(ctx context.Context, start, end time.Time) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Customer").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) SalesSummary(ctx context.Context, start, end time.Time) (int64, int64, error) {
	var result struct {
		Total int64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&result).Error
	return result.Total, result.Count, err
}

func (r *billRepository) TopBooks(ctx context.Context, limit int) ([]domainRepo.TopBook, error) {
	var rows []domainRepo.TopBook
	err := r.db.WithContext(ctx).Model(&entity.BillItem{}).
		Select("book_id, MAX(title) AS title, SUM(quantity) AS quantity, SUM(total) AS revenue").
		Group("book_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
