package request

// CreateBookRequest represents a book creation request. Prices are
// decimal rupees; the service converts them to cents.
type CreateBookRequest struct {
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Author      string  `json:"author" binding:"max=255"`
	ReferenceNo string  `json:"reference_no" binding:"max=100"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	OfferPrice  float64 `json:"offer_price" binding:"gte=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Description *string `json:"description"`
}

// UpdateBookRequest represents a book update request
type UpdateBookRequest struct {
	CategoryID  *string  `json:"category_id" binding:"omitempty,uuid"`
	Title       *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Author      *string  `json:"author" binding:"omitempty,max=255"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	OfferPrice  *float64 `json:"offer_price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Description *string  `json:"description"`
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description"`
}
