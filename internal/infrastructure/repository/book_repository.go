package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/entity"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
	domainRepo "github.com/pahanaedu/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) domainRepo.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var book entity.Book
	err := r.db.WithContext(ctx).Preload("Category").First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &book, err
}

func (r *bookRepository) GetByReferenceNo(ctx context.Context, referenceNo string) (*entity.Book, error) {
	var book entity.Book
	err := r.db.WithContext(ctx).Preload("Category").First(&book, "reference_no = ?", referenceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &book, err
}

func (r *bookRepository) GetByReferenceNos(ctx context.Context, referenceNos []string) ([]entity.Book, error) {
	if len(referenceNos) == 0 {
		return nil, nil
	}
	var books []entity.Book
	err := r.db.WithContext(ctx).Where("reference_no IN ?", referenceNos).Find(&books).Error
	return books, err
}

func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Book{}, "id = ?", id).Error
}

func (r *bookRepository) List(ctx context.Context, params *domainRepo.BookFilterParams) ([]entity.Book, int64, error) {
	var books []entity.Book
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Book{})

	if params.Search != "" {
		query = query.Where("title ILIKE ? OR author ILIKE ? OR reference_no ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.LowStock {
		query = query.Where("stock <= ?", 5)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	order := "title ASC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}
		switch params.SortBy {
		case "title", "author", "stock", "price", "created_at":
			order = params.SortBy + " " + direction
		}
	}

	err := query.Preload("Category").
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Order(order).
		Find(&books).Error

	return books, total, err
}

func (r *bookRepository) ListSellable(ctx context.Context) ([]entity.Book, error) {
	var books []entity.Book
	err := r.db.WithContext(ctx).
		Where("status <> ?", enum.BookStatusInactive).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

func (r *bookRepository) GetLowStock(ctx context.Context, threshold int) ([]entity.Book, error) {
	var books []entity.Book
	err := r.db.WithContext(ctx).
		Where("stock <= ? AND status <> ?", threshold, enum.BookStatusInactive).
		Order("stock ASC").
		Find(&books).Error
	return books, err
}

func (r *bookRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Book{}).
		Where("stock <= ? AND status <> ?", threshold, enum.BookStatusInactive).
		Count(&count).Error
	return count, err
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Book{}).Count(&count).Error
	return count, err
}

// AtomicDecrementBatch atomically decrements stock for multiple books in a single transaction.
// If any book has insufficient stock, the entire transaction is rolled back.
func (r *bookRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, amount := range decrements {
			result := tx.Model(&entity.Book{}).
				Where("id = ? AND stock >= ?", id, amount).
				Update("stock", gorm.Expr("stock - ?", amount))

			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}

		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}
		return nil
	})

	// Rolled back due to insufficient stock: report the failures without a transaction error
	if err == gorm.ErrInvalidTransaction && len(failedIDs) > 0 {
		return failedIDs, nil
	}
	return failedIDs, err
}

// AtomicIncrementBatch atomically increments stock for multiple books (checkout rollback).
func (r *bookRepository) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	if len(increments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, amount := range increments {
			if err := tx.Model(&entity.Book{}).
				Where("id = ?", id).
				Update("stock", gorm.Expr("stock + ?", amount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
