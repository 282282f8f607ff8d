package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/entity"
	"github.com/pahanaedu/pos-api/pkg/pagination"
)

// BookRepository defines the interface for book catalog data operations
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	GetByReferenceNo(ctx context.Context, referenceNo string) (*entity.Book, error)
	// GetByReferenceNos retrieves multiple books by reference number in a single query (prevents N+1)
	GetByReferenceNos(ctx context.Context, referenceNos []string) ([]entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *BookFilterParams) ([]entity.Book, int64, error)
	// ListSellable returns every book a billing session may sell,
	// used to build the in-memory catalog snapshot.
	ListSellable(ctx context.Context) ([]entity.Book, error)
	GetLowStock(ctx context.Context, threshold int) ([]entity.Book, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	Count(ctx context.Context) (int64, error)
	// AtomicDecrementBatch atomically decrements stock for multiple books.
	// Returns the IDs that failed on insufficient stock; if any fail the
	// whole transaction is rolled back.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) (failedIDs []uuid.UUID, err error)
	// AtomicIncrementBatch atomically increments stock for multiple books (checkout rollback).
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error
}

// BookFilterParams contains filtering parameters for book queries
type BookFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	Status     string
	LowStock   bool
	SortBy     string
	SortOrder  string
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Category, error)
}
