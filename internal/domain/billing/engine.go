package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
)

// TaxRate is the flat tax applied to every bill.
const TaxRate = 0.10

// Line is one row of an open bill. Title and UnitPrice are copies taken
// from the catalog when the product was chosen; a later catalog refresh
// does not touch them. LineTotal is always UnitPrice * Quantity.
type Line struct {
	ID         uuid.UUID `json:"line_id"`
	ProductRef string    `json:"product_ref,omitempty"`
	Title      string    `json:"title,omitempty"`
	UnitPrice  int64     `json:"unit_price"`
	Quantity   int       `json:"quantity"`
	Stock      int       `json:"stock"`
	LineTotal  int64     `json:"line_total"`
}

// Totals is the aggregate view of a bill, in cents.
type Totals struct {
	SubTotal int64 `json:"sub_total"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Options configures an Engine for a particular billing flow.
type Options struct {
	// RequireCustomer makes ValidateForCheckout fail unless a customer
	// is set. The admin billing flow requires one; the direct and scan
	// flows treat an unset customer as a walk-in sale.
	RequireCustomer bool
}

// Engine maintains one active bill and keeps its derived totals
// consistent through every mutation. It is not safe for concurrent
// use: callers serialize access, one bill per UI session.
//
// The bill has two macro-states. While Open every mutation below is
// legal. After Close (successful checkout) the items are frozen and
// all mutations fail with ErrBillClosed; a new engine is constructed
// for the next bill.
type Engine struct {
	catalog         Catalog
	requireCustomer bool

	items         []Line
	customerRef   *uuid.UUID
	billDate      time.Time
	paymentMethod enum.PaymentMethod
	closed        bool
}

// NewEngine creates an engine with an empty open bill.
func NewEngine(catalog Catalog, opts Options) *Engine {
	return &Engine{
		catalog:         catalog,
		requireCustomer: opts.RequireCustomer,
		billDate:        time.Now(),
		paymentMethod:   enum.PaymentMethodCash,
	}
}

// AddItem appends a new line and returns its ID. With an empty ref the
// line starts blank, to be filled by SetLineProduct (the admin form
// flow, which adds a row before a book is picked). With a ref the
// product is resolved immediately (the scan flow).
func (e *Engine) AddItem(ref string) (uuid.UUID, error) {
	if e.closed {
		return uuid.Nil, ErrBillClosed
	}

	line := Line{ID: uuid.New()}
	if ref != "" {
		product, err := e.catalog.Resolve(ref)
		if err != nil {
			return uuid.Nil, err
		}
		line.ProductRef = product.Ref
		line.Title = product.Title
		line.UnitPrice = product.EffectivePrice()
		line.Stock = product.Stock
		line.Quantity = 1
		line.LineTotal = line.UnitPrice
	}

	e.items = append(e.items, line)
	return line.ID, nil
}

// SetLineProduct resolves ref and binds the product to the line,
// overwriting any prior selection. Quantity resets to 1 when the line
// had none; an existing quantity is kept.
func (e *Engine) SetLineProduct(lineID uuid.UUID, ref string) error {
	if e.closed {
		return ErrBillClosed
	}

	product, err := e.catalog.Resolve(ref)
	if err != nil {
		return err
	}

	line := e.findLine(lineID)
	if line == nil {
		return ErrLineNotFound
	}

	line.ProductRef = product.Ref
	line.Title = product.Title
	line.UnitPrice = product.EffectivePrice()
	line.Stock = product.Stock
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	line.LineTotal = line.UnitPrice * int64(line.Quantity)
	return nil
}

// SetLineQuantity updates a line's quantity. The quantity must be
// positive and within the stock known for the line's product; on
// failure the prior quantity is left intact.
func (e *Engine) SetLineQuantity(lineID uuid.UUID, quantity int) error {
	if e.closed {
		return ErrBillClosed
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	line := e.findLine(lineID)
	if line == nil {
		return ErrLineNotFound
	}
	if line.ProductRef != "" && quantity > line.Stock {
		return &InsufficientStockError{Ref: line.ProductRef, Stock: line.Stock, Requested: quantity}
	}

	line.Quantity = quantity
	line.LineTotal = line.UnitPrice * int64(quantity)
	return nil
}

// RemoveLine removes a line from the bill.
func (e *Engine) RemoveLine(lineID uuid.UUID) error {
	if e.closed {
		return ErrBillClosed
	}

	for i := range e.items {
		if e.items[i].ID == lineID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// IncrementLine adjusts a line's quantity by delta. This backs the
// +/- controls of the scan flow: a delta that would take the quantity
// to zero or below removes the line instead of failing.
func (e *Engine) IncrementLine(lineID uuid.UUID, delta int) error {
	if e.closed {
		return ErrBillClosed
	}

	line := e.findLine(lineID)
	if line == nil {
		return ErrLineNotFound
	}

	quantity := line.Quantity + delta
	if quantity <= 0 {
		return e.RemoveLine(lineID)
	}
	if line.ProductRef != "" && quantity > line.Stock {
		return &InsufficientStockError{Ref: line.ProductRef, Stock: line.Stock, Requested: quantity}
	}

	line.Quantity = quantity
	line.LineTotal = line.UnitPrice * int64(quantity)
	return nil
}

// AddOrMergeProduct adds ref to the bill the way the scan flow does:
// when a line for the same product already exists its quantity grows
// by one, bounded by stock; otherwise a new line is created with
// quantity 1. The admin form flow does not merge; it uses
// AddItem/SetLineProduct and may carry duplicate lines.
func (e *Engine) AddOrMergeProduct(ref string) (uuid.UUID, error) {
	if e.closed {
		return uuid.Nil, ErrBillClosed
	}

	product, err := e.catalog.Resolve(ref)
	if err != nil {
		return uuid.Nil, err
	}

	for i := range e.items {
		if e.items[i].ProductRef == product.Ref {
			line := &e.items[i]
			if line.Quantity+1 > line.Stock {
				return uuid.Nil, &InsufficientStockError{Ref: line.ProductRef, Stock: line.Stock, Requested: line.Quantity + 1}
			}
			line.Quantity++
			line.LineTotal = line.UnitPrice * int64(line.Quantity)
			return line.ID, nil
		}
	}

	if product.Stock < 1 {
		return uuid.Nil, &InsufficientStockError{Ref: product.Ref, Stock: product.Stock, Requested: 1}
	}

	line := Line{
		ID:         uuid.New(),
		ProductRef: product.Ref,
		Title:      product.Title,
		UnitPrice:  product.EffectivePrice(),
		Quantity:   1,
		Stock:      product.Stock,
	}
	line.LineTotal = line.UnitPrice
	e.items = append(e.items, line)
	return line.ID, nil
}

// SetCustomer sets or clears the bill's customer. Nil means walk-in.
func (e *Engine) SetCustomer(customerRef *uuid.UUID) error {
	if e.closed {
		return ErrBillClosed
	}
	e.customerRef = customerRef
	return nil
}

// SetPaymentMethod sets the bill's payment method.
func (e *Engine) SetPaymentMethod(method enum.PaymentMethod) error {
	if e.closed {
		return ErrBillClosed
	}
	e.paymentMethod = method
	return nil
}

// SetBillDate sets the bill's date.
func (e *Engine) SetBillDate(date time.Time) error {
	if e.closed {
		return ErrBillClosed
	}
	e.billDate = date
	return nil
}

// Customer returns the bill's customer, nil for walk-in.
func (e *Engine) Customer() *uuid.UUID {
	return e.customerRef
}

// PaymentMethod returns the bill's payment method.
func (e *Engine) PaymentMethod() enum.PaymentMethod {
	return e.paymentMethod
}

// BillDate returns the bill's date.
func (e *Engine) BillDate() time.Time {
	return e.billDate
}

// Items returns a copy of the bill's lines in insertion order.
func (e *Engine) Items() []Line {
	items := make([]Line, len(e.items))
	copy(items, e.items)
	return items
}

// Totals returns the aggregate totals. They are a pure function of the
// current lines, so they are consistent after every mutation.
func (e *Engine) Totals() Totals {
	var subTotal int64
	for i := range e.items {
		subTotal += e.items[i].LineTotal
	}
	tax := int64(float64(subTotal) * TaxRate)
	return Totals{
		SubTotal: subTotal,
		Tax:      tax,
		Total:    subTotal + tax,
	}
}

// ValidateForCheckout checks the bill is submittable: a customer when
// the flow requires one, at least one resolved line, and no line left
// half-filled. It never mutates the bill.
func (e *Engine) ValidateForCheckout() error {
	if e.closed {
		return ErrBillClosed
	}
	if e.requireCustomer && e.customerRef == nil {
		return ErrMissingCustomer
	}

	resolved := 0
	for i := range e.items {
		if e.items[i].ProductRef != "" {
			resolved++
		}
	}
	if len(e.items) == 0 || resolved == 0 {
		return ErrEmptyBill
	}
	for i := range e.items {
		if e.items[i].ProductRef == "" || e.items[i].Quantity <= 0 {
			return ErrIncompleteLine
		}
	}
	return nil
}

// Close freezes the bill after a successful checkout. There is no way
// back to Open.
func (e *Engine) Close() {
	e.closed = true
}

// Closed reports whether the bill has been frozen.
func (e *Engine) Closed() bool {
	return e.closed
}

// Reset discards the current bill and starts a fresh empty one with a
// new default bill date. The previous bill's lines are gone for good;
// drafts are the way to keep work across resets.
func (e *Engine) Reset() {
	e.items = nil
	e.customerRef = nil
	e.billDate = time.Now()
	e.paymentMethod = enum.PaymentMethodCash
	e.closed = false
}

func (e *Engine) findLine(lineID uuid.UUID) *Line {
	for i := range e.items {
		if e.items[i].ID == lineID {
			return &e.items[i]
		}
	}
	return nil
}
