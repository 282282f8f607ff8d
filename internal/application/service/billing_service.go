package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/billing"
	"github.com/pahanaedu/pos-api/internal/domain/entity"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
	"github.com/pahanaedu/pos-api/internal/domain/repository"
	"github.com/pahanaedu/pos-api/pkg/apperror"
	"github.com/pahanaedu/pos-api/pkg/pagination"
	"github.com/pahanaedu/pos-api/pkg/utils"
)

// BillingFlow selects the counter workflow a session follows.
type BillingFlow string

const (
	// FlowAdmin is the back-office form: a customer account is
	// mandatory and duplicate lines for the same book are allowed.
	FlowAdmin BillingFlow = "admin"
	// FlowDirect is the counter sale: walk-in customers are fine and
	// repeated picks of the same book merge into one line.
	FlowDirect BillingFlow = "direct"
	// FlowScan is the QR scanner feed; it behaves like FlowDirect.
	FlowScan BillingFlow = "scan"
)

// Valid checks if the flow is one of the known workflows
func (f BillingFlow) Valid() bool {
	switch f {
	case FlowAdmin, FlowDirect, FlowScan:
		return true
	}
	return false
}

// merges reports whether repeated picks of a product merge into one line.
func (f BillingFlow) merges() bool {
	return f != FlowAdmin
}

type billSession struct {
	mu     sync.Mutex
	engine *billing.Engine
	flow   BillingFlow
}

// BillView is the session state returned to the UI after every
// mutation, so the client never derives totals itself.
type BillView struct {
	SessionID     uuid.UUID          `json:"session_id"`
	Flow          BillingFlow        `json:"flow"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	BillDate      time.Time          `json:"bill_date"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Items         []billing.Line     `json:"items"`
	Totals        billing.Totals     `json:"totals"`
	Closed        bool               `json:"closed"`
}

// BillingService drives counter billing sessions: one in-memory engine
// per session, a shared catalog snapshot, drafts in the draft store and
// checkout into the bills table.
type BillingService struct {
	bookRepo     repository.BookRepository
	customerRepo repository.CustomerRepository
	billRepo     repository.BillRepository
	draftStore   repository.DraftStore

	catalog *billing.Snapshot

	sessionsMu sync.RWMutex
	sessions   map[uuid.UUID]*billSession
}

// NewBillingService creates a new billing service with an empty catalog
// snapshot. Call RefreshCatalog before starting sessions.
func NewBillingService(
	bookRepo repository.BookRepository,
	customerRepo repository.CustomerRepository,
	billRepo repository.BillRepository,
	draftStore repository.DraftStore,
) *BillingService {
	return &BillingService{
		bookRepo:     bookRepo,
		customerRepo: customerRepo,
		billRepo:     billRepo,
		draftStore:   draftStore,
		catalog:      billing.NewSnapshot(nil),
		sessions:     make(map[uuid.UUID]*billSession),
	}
}

// RefreshCatalog reloads the sellable catalog into the shared snapshot.
// Sessions already holding lines keep their captured prices and stock
// bounds; only future resolutions see the new data.
func (s *BillingService) RefreshCatalog(ctx context.Context) error {
	books, err := s.bookRepo.ListSellable(ctx)
	if err != nil {
		return err
	}

	products := make([]billing.Product, 0, len(books))
	for i := range books {
		products = append(products, billing.Product{
			Ref:        books[i].ReferenceNo,
			Title:      books[i].Title,
			Price:      books[i].Price,
			OfferPrice: books[i].OfferPrice,
			Stock:      books[i].Stock,
		})
	}
	s.catalog.Replace(products)
	return nil
}

// StartSession opens a new billing session for the given flow and
// returns its ID together with the initial empty bill.
func (s *BillingService) StartSession(flow BillingFlow) (*BillView, error) {
	if !flow.Valid() {
		return nil, apperror.NewBadRequestError("Unknown billing flow")
	}

	session := &billSession{
		engine: billing.NewEngine(s.catalog, billing.Options{RequireCustomer: flow == FlowAdmin}),
		flow:   flow,
	}
	id := uuid.New()

	s.sessionsMu.Lock()
	s.sessions[id] = session
	s.sessionsMu.Unlock()

	return s.view(id, session), nil
}

// EndSession discards a session and whatever bill it holds.
func (s *BillingService) EndSession(sessionID uuid.UUID) error {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return apperror.NewNotFoundError("Billing session")
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *BillingService) getSession(sessionID uuid.UUID) (*billSession, error) {
	s.sessionsMu.RLock()
	session, ok := s.sessions[sessionID]
	s.sessionsMu.RUnlock()
	if !ok {
		return nil, apperror.NewNotFoundError("Billing session")
	}
	return session, nil
}

func (s *BillingService) view(sessionID uuid.UUID, session *billSession) *BillView {
	return &BillView{
		SessionID:     sessionID,
		Flow:          session.flow,
		CustomerID:    session.engine.Customer(),
		BillDate:      session.engine.BillDate(),
		PaymentMethod: session.engine.PaymentMethod(),
		Items:         session.engine.Items(),
		Totals:        session.engine.Totals(),
		Closed:        session.engine.Closed(),
	}
}

// GetSession returns the current state of a session.
func (s *BillingService) GetSession(sessionID uuid.UUID) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return s.view(sessionID, session), nil
}

// AddLine appends an empty line to an admin-flow bill, to be filled in
// with SetLineProduct once the cashier picks a book.
func (s *BillingService) AddLine(sessionID uuid.UUID) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if _, err := session.engine.AddItem(""); err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// AddProduct puts a book on the bill by reference number. Merge flows
// grow an existing line by one; the admin flow always appends.
func (s *BillingService) AddProduct(sessionID uuid.UUID, referenceNo string) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.flow.merges() {
		_, err = session.engine.AddOrMergeProduct(referenceNo)
	} else {
		_, err = session.engine.AddItem(referenceNo)
	}
	if err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// SetLineProduct binds a book to an existing line.
func (s *BillingService) SetLineProduct(sessionID, lineID uuid.UUID, referenceNo string) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.engine.SetLineProduct(lineID, referenceNo); err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// SetLineQuantity sets a line's quantity outright.
func (s *BillingService) SetLineQuantity(sessionID, lineID uuid.UUID, quantity int) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.engine.SetLineQuantity(lineID, quantity); err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// IncrementLine adjusts a line's quantity by delta; reaching zero or
// below removes the line.
func (s *BillingService) IncrementLine(sessionID, lineID uuid.UUID, delta int) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.engine.IncrementLine(lineID, delta); err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// RemoveLine removes a line from the bill.
func (s *BillingService) RemoveLine(sessionID, lineID uuid.UUID) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.engine.RemoveLine(lineID); err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// SetCustomer attaches a customer account to the bill; nil clears it
// back to a walk-in sale.
func (s *BillingService) SetCustomer(ctx context.Context, sessionID uuid.UUID, customerID *uuid.UUID) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if customerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.engine.SetCustomer(customerID); err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// SetPaymentMethod sets the bill's payment method.
func (s *BillingService) SetPaymentMethod(sessionID uuid.UUID, method enum.PaymentMethod) (*BillView, error) {
	if !method.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.engine.SetPaymentMethod(method); err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// SetBillDate sets the bill's date.
func (s *BillingService) SetBillDate(sessionID uuid.UUID, date time.Time) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.engine.SetBillDate(date); err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// ResetSession discards the session's bill and starts a fresh one.
func (s *BillingService) ResetSession(sessionID uuid.UUID) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.engine.Reset()
	return s.view(sessionID, session), nil
}

// PrintableBill returns a print-ready snapshot of the session's bill.
func (s *BillingService) PrintableBill(sessionID uuid.UUID) (*billing.PrintableBill, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	printable := session.engine.ToPrintable()
	return &printable, nil
}

// SaveDraft snapshots the session's bill into the draft store. The
// session keeps its bill; saving is not a reset.
func (s *BillingService) SaveDraft(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	draft := session.engine.ToDraft()
	session.mu.Unlock()

	return s.draftStore.Save(ctx, draft)
}

// ListDrafts returns all saved drafts in insertion order.
func (s *BillingService) ListDrafts(ctx context.Context) ([]billing.Draft, error) {
	return s.draftStore.List(ctx)
}

// LoadDraft restores a saved draft into the session, replacing whatever
// bill it currently holds. The draft stays in the store.
func (s *BillingService) LoadDraft(ctx context.Context, sessionID uuid.UUID, index int) (*BillView, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	draft, err := s.draftStore.Get(ctx, index)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, apperror.NewNotFoundError("Draft")
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.engine.FromDraft(*draft); err != nil {
		return nil, mapBillingError(err)
	}
	return s.view(sessionID, session), nil
}

// DeleteDraft removes a draft by index.
func (s *BillingService) DeleteDraft(ctx context.Context, index int) error {
	return s.draftStore.Delete(ctx, index)
}

// Checkout validates the session's bill, atomically decrements stock
// for every line, persists the bill and freezes the session. A stock
// failure or a persistence failure leaves stock and bill untouched.
func (s *BillingService) Checkout(ctx context.Context, sessionID, userID uuid.UUID) (*entity.Bill, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	engine := session.engine
	if err := engine.ValidateForCheckout(); err != nil {
		return nil, mapBillingError(err)
	}

	lines := engine.Items()

	// Duplicate admin-flow lines for the same book decrement as one.
	quantities := make(map[string]int)
	refs := make([]string, 0, len(lines))
	for i := range lines {
		if _, seen := quantities[lines[i].ProductRef]; !seen {
			refs = append(refs, lines[i].ProductRef)
		}
		quantities[lines[i].ProductRef] += lines[i].Quantity
	}

	books, err := s.bookRepo.GetByReferenceNos(ctx, refs)
	if err != nil {
		return nil, err
	}
	booksByRef := make(map[string]*entity.Book, len(books))
	for i := range books {
		booksByRef[books[i].ReferenceNo] = &books[i]
	}
	for _, ref := range refs {
		if _, ok := booksByRef[ref]; !ok {
			return nil, apperror.NewUnprocessableError(fmt.Sprintf("Book %s is no longer available", ref))
		}
	}

	decrements := make(map[uuid.UUID]int, len(refs))
	for ref, qty := range quantities {
		decrements[booksByRef[ref].ID] = qty
	}

	failedIDs, err := s.bookRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		failed := make([]string, 0, len(failedIDs))
		for _, id := range failedIDs {
			for ref, book := range booksByRef {
				if book.ID == id {
					failed = append(failed, ref)
				}
			}
		}
		return nil, apperror.NewUnprocessableError("Insufficient stock for: " + strings.Join(failed, ", "))
	}

	totals := engine.Totals()
	itemCount := 0
	for i := range lines {
		itemCount += lines[i].Quantity
	}

	bill := &entity.Bill{
		BillNo:        utils.GenerateBillNo(),
		CustomerID:    engine.Customer(),
		UserID:        userID,
		BillDate:      engine.BillDate(),
		PaymentMethod: engine.PaymentMethod(),
		ItemCount:     itemCount,
		SubTotal:      totals.SubTotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
	}

	items := make([]entity.BillItem, 0, len(lines))
	for i := range lines {
		line := &lines[i]
		items = append(items, entity.BillItem{
			BookID:      booksByRef[line.ProductRef].ID,
			Title:       line.Title,
			ReferenceNo: line.ProductRef,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Total:       line.LineTotal,
		})
	}

	if err := s.billRepo.Create(ctx, bill, items); err != nil {
		// Stock was already taken; give it back before failing.
		_ = s.bookRepo.AtomicIncrementBatch(ctx, decrements)
		return nil, err
	}

	engine.Close()
	s.syncBookStatuses(ctx, decrements)
	_ = s.RefreshCatalog(ctx)

	return s.billRepo.GetByID(ctx, bill.ID)
}

// syncBookStatuses flips status for books whose stock just ran out.
// Best effort: a failure here never fails the checkout.
func (s *BillingService) syncBookStatuses(ctx context.Context, decrements map[uuid.UUID]int) {
	for id := range decrements {
		book, err := s.bookRepo.GetByID(ctx, id)
		if err != nil || book == nil {
			continue
		}
		before := book.Status
		book.SyncStatus()
		if book.Status != before {
			_ = s.bookRepo.Update(ctx, book)
		}
	}
}

// GetBill retrieves a persisted bill by bill number.
func (s *BillingService) GetBill(ctx context.Context, billNo string) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByBillNo(ctx, billNo)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists persisted bills with filtering.
func (s *BillingService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// mapBillingError translates engine errors into transport errors.
func mapBillingError(err error) error {
	switch {
	case err == nil:
		return nil
	case billing.IsInsufficientStock(err):
		return apperror.NewUnprocessableError(err.Error())
	}

	switch err {
	case billing.ErrProductNotFound:
		return apperror.NewNotFoundError("Book")
	case billing.ErrLineNotFound:
		return apperror.NewNotFoundError("Bill line")
	case billing.ErrInvalidQuantity:
		return apperror.NewBadRequestError("Quantity must be a positive integer")
	case billing.ErrBillClosed:
		return apperror.NewConflictError("Bill is already closed")
	case billing.ErrMissingCustomer:
		return apperror.NewUnprocessableError("A customer must be selected for this bill")
	case billing.ErrEmptyBill:
		return apperror.NewUnprocessableError("Bill has no items")
	case billing.ErrIncompleteLine:
		return apperror.NewUnprocessableError("Bill has an incomplete line")
	}
	return err
}
