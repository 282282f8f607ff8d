package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/application/service"
	"github.com/pahanaedu/pos-api/internal/domain/repository"
	"github.com/pahanaedu/pos-api/internal/presentation/http/dto/request"
	"github.com/pahanaedu/pos-api/internal/presentation/http/dto/response"
	"github.com/pahanaedu/pos-api/pkg/pagination"
)

// BookHandler handles book catalog HTTP requests
type BookHandler struct {
	bookService *service.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *service.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Create creates a new book
// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Param request body request.CreateBookRequest true "Book data"
// @Success 201 {object} response.APIResponse
// @Router /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req request.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), &service.CreateBookInput{
		CategoryID:  categoryID,
		Title:       req.Title,
		Author:      req.Author,
		ReferenceNo: req.ReferenceNo,
		Price:       req.Price,
		OfferPrice:  req.OfferPrice,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Book created", book)
}

// Get retrieves a book by ID
// @Summary Get book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} response.APIResponse
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	book, err := h.bookService.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book retrieved", book)
}

// GetByReferenceNo retrieves a book by reference number, the lookup a
// QR scan performs.
// @Summary Get book by reference number
// @Tags books
// @Produce json
// @Param ref path string true "Reference number"
// @Success 200 {object} response.APIResponse
// @Router /books/ref/{ref} [get]
func (h *BookHandler) GetByReferenceNo(c *gin.Context) {
	book, err := h.bookService.GetBookByReferenceNo(c.Request.Context(), c.Param("ref"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book retrieved", book)
}

// List lists books with filtering
// @Summary List books
// @Tags books
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Param search query string false "Search"
// @Success 200 {object} response.APIResponse
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	params := &repository.BookFilterParams{
		Pagination: pagination.DefaultPagination(),
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Pagination.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil {
		params.Pagination.PerPage = perPage
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			response.BadRequest(c, "Invalid category ID")
			return
		}
		params.CategoryID = &id
	}
	params.LowStock = c.Query("low_stock") == "true"

	result, err := h.bookService.ListBooks(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Books retrieved", result)
}

// Update updates a book
// @Summary Update book
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param request body request.UpdateBookRequest true "Book data"
// @Success 200 {object} response.APIResponse
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	var req request.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), id, &service.UpdateBookInput{
		CategoryID:  categoryID,
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		OfferPrice:  req.OfferPrice,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book updated", book)
}

// Delete deletes a book
// @Summary Delete book
// @Tags books
// @Param id path string true "Book ID"
// @Success 204
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CreateCategory creates a category
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body request.CreateCategoryRequest true "Category data"
// @Success 201 {object} response.APIResponse
// @Router /categories [post]
func (h *BookHandler) CreateCategory(c *gin.Context) {
	var req request.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.bookService.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created", category)
}

// ListCategories lists all categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /categories [get]
func (h *BookHandler) ListCategories(c *gin.Context) {
	categories, err := h.bookService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved", categories)
}

// DeleteCategory deletes a category
// @Summary Delete category
// @Tags categories
// @Param id path string true "Category ID"
// @Success 204
// @Router /categories/{id} [delete]
func (h *BookHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.bookService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
