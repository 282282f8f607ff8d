package request

// StartSessionRequest opens a billing session for one of the counter
// workflows: admin, direct or scan.
type StartSessionRequest struct {
	Flow string `json:"flow" binding:"required,oneof=admin direct scan"`
}

// AddProductRequest puts a book on the bill by reference number
type AddProductRequest struct {
	ReferenceNo string `json:"reference_no" binding:"required"`
}

// SetLineProductRequest binds a book to an existing line
type SetLineProductRequest struct {
	ReferenceNo string `json:"reference_no" binding:"required"`
}

// SetQuantityRequest sets a line's quantity. The value arrives as the
// raw text of the quantity input; the handler parses it strictly and
// rejects anything that is not a positive integer.
type SetQuantityRequest struct {
	Quantity string `json:"quantity" binding:"required"`
}

// IncrementLineRequest adjusts a line's quantity by delta
type IncrementLineRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// SetCustomerRequest attaches a customer to the bill; a null ID clears
// it back to a walk-in sale.
type SetCustomerRequest struct {
	CustomerID *string `json:"customer_id" binding:"omitempty,uuid"`
}

// SetPaymentMethodRequest sets the bill's payment method
type SetPaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=CASH CARD"`
}

// SetBillDateRequest sets the bill's date as YYYY-MM-DD
type SetBillDateRequest struct {
	BillDate string `json:"bill_date" binding:"required"`
}
