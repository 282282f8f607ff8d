package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/entity"
	"github.com/pahanaedu/pos-api/internal/domain/repository"
	"github.com/pahanaedu/pos-api/pkg/apperror"
	"github.com/pahanaedu/pos-api/pkg/pagination"
)

// BookService handles book catalog operations
type BookService struct {
	bookRepo     repository.BookRepository
	categoryRepo repository.CategoryRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo repository.BookRepository, categoryRepo repository.CategoryRepository) *BookService {
	return &BookService{
		bookRepo:     bookRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateBookInput represents the create book input
type CreateBookInput struct {
	CategoryID  *uuid.UUID
	Title       string
	Author      string
	ReferenceNo string
	Price       float64
	OfferPrice  float64
	Stock       int
	Description *string
}

// CreateBook creates a new book
func (s *BookService) CreateBook(ctx context.Context, input *CreateBookInput) (*entity.Book, error) {
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	if input.ReferenceNo != "" {
		existing, err := s.bookRepo.GetByReferenceNo(ctx, input.ReferenceNo)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Reference number already exists")
		}
	}

	book := &entity.Book{
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Author:      input.Author,
		ReferenceNo: input.ReferenceNo,
		Stock:       input.Stock,
		Description: input.Description,
	}
	book.SetPriceFromDecimal(input.Price)
	book.SetOfferPriceFromDecimal(input.OfferPrice)
	book.SyncStatus()

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, book.ID)
}

// GetBook retrieves a book by ID
func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}
	return book, nil
}

// GetBookByReferenceNo retrieves a book by reference number. This is the
// lookup behind QR label scans.
func (s *BookService) GetBookByReferenceNo(ctx context.Context, referenceNo string) (*entity.Book, error) {
	book, err := s.bookRepo.GetByReferenceNo(ctx, referenceNo)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}
	return book, nil
}

// ListBooks lists books with filtering
func (s *BookService) ListBooks(ctx context.Context, params *repository.BookFilterParams) (*pagination.PaginatedResult[entity.Book], error) {
	books, total, err := s.bookRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(books, pag), nil
}

// UpdateBookInput represents the update book input
type UpdateBookInput struct {
	CategoryID  *uuid.UUID
	Title       *string
	Author      *string
	Price       *float64
	OfferPrice  *float64
	Stock       *int
	Description *string
	Status      *string
}

// UpdateBook updates a book
func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, input *UpdateBookInput) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
		book.CategoryID = input.CategoryID
	}
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Price != nil {
		book.SetPriceFromDecimal(*input.Price)
	}
	if input.OfferPrice != nil {
		book.SetOfferPriceFromDecimal(*input.OfferPrice)
	}
	if input.Stock != nil {
		book.Stock = *input.Stock
	}
	if input.Description != nil {
		book.Description = input.Description
	}
	book.SyncStatus()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, book.ID)
}

// DeleteBook deletes a book
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return apperror.NewNotFoundError("Book")
	}
	return s.bookRepo.Delete(ctx, id)
}

// GetLowStock returns books with stock at or below the threshold
func (s *BookService) GetLowStock(ctx context.Context, threshold int) ([]entity.Book, error) {
	return s.bookRepo.GetLowStock(ctx, threshold)
}

// CreateCategory creates a new category
func (s *BookService) CreateCategory(ctx context.Context, name string, description *string) (*entity.Category, error) {
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category already exists")
	}

	category := &entity.Category{Name: name, Description: description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lists all categories
func (s *BookService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx)
}

// DeleteCategory deletes a category
func (s *BookService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	return s.categoryRepo.Delete(ctx, id)
}
