package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" binding:"required,min=1,max=255"`
	LastName  string  `json:"last_name" binding:"required,min=1,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Address   *string `json:"address"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Address   *string `json:"address"`
}
