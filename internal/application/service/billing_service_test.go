package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/billing"
	"github.com/pahanaedu/pos-api/internal/domain/entity"
	"github.com/pahanaedu/pos-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookRepo is an in-memory BookRepository good enough for driving
// billing sessions through checkout.
type fakeBookRepo struct {
	books map[uuid.UUID]*entity.Book
}

func newFakeBookRepo(books ...*entity.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: make(map[uuid.UUID]*entity.Book)}
	for _, b := range books {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookRepo) Create(ctx context.Context, book *entity.Book) error {
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	return r.books[id], nil
}

func (r *fakeBookRepo) GetByReferenceNo(ctx context.Context, referenceNo string) (*entity.Book, error) {
	for _, b := range r.books {
		if b.ReferenceNo == referenceNo {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookRepo) GetByReferenceNos(ctx context.Context, referenceNos []string) ([]entity.Book, error) {
	var out []entity.Book
	for _, ref := range referenceNos {
		for _, b := range r.books {
			if b.ReferenceNo == ref {
				out = append(out, *b)
			}
		}
	}
	return out, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, book *entity.Book) error {
	r.books[book.ID] = book
	return nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, params *repository.BookFilterParams) ([]entity.Book, int64, error) {
	var out []entity.Book
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookRepo) ListSellable(ctx context.Context) ([]entity.Book, error) {
	var out []entity.Book
	for _, b := range r.books {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBookRepo) GetLowStock(ctx context.Context, threshold int) ([]entity.Book, error) {
	var out []entity.Book
	for _, b := range r.books {
		if b.Stock <= threshold {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	books, _ := r.GetLowStock(ctx, threshold)
	return int64(len(books)), nil
}

func (r *fakeBookRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.books)), nil
}

func (r *fakeBookRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for id, qty := range decrements {
		b, ok := r.books[id]
		if !ok || b.Stock < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range decrements {
		r.books[id].Stock -= qty
	}
	return nil, nil
}

func (r *fakeBookRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	for id, qty := range increments {
		if b, ok := r.books[id]; ok {
			b.Stock += qty
		}
	}
	return nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) GetByAccountNo(ctx context.Context, accountNo string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.AccountNo == accountNo {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.customers)), nil
}

type fakeBillRepo struct {
	bills   []*entity.Bill
	items   map[uuid.UUID][]entity.BillItem
	failing bool
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{items: make(map[uuid.UUID][]entity.BillItem)}
}

func (r *fakeBillRepo) Create(ctx context.Context, bill *entity.Bill, items []entity.BillItem) error {
	if r.failing {
		return errors.New("database unavailable")
	}
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	r.bills = append(r.bills, bill)
	r.items[bill.ID] = items
	return nil
}

func (r *fakeBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	for _, b := range r.bills {
		if b.ID == id {
			out := *b
			out.Items = r.items[b.ID]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error) {
	for _, b := range r.bills {
		if b.BillNo == billNo {
			out := *b
			out.Items = r.items[b.ID]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) List(ctx context.Context, params *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	var out []entity.Bill
	for _, b := range r.bills {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBillRepo) ListRecent(ctx context.Context, limit int) ([]entity.Bill, error) {
	var out []entity.Bill
	for _, b := range r.bills {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBillRepo) ListBetween(ctx context.Context, start, end time.Time) ([]entity.Bill, error) {
	var out []entity.Bill
	for _, b := range r.bills {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBillRepo) SalesSummary(ctx context.Context, start, end time.Time) (int64, int64, error) {
	var total int64
	for _, b := range r.bills {
		total += b.Total
	}
	return total, int64(len(r.bills)), nil
}

func (r *fakeBillRepo) TopBooks(ctx context.Context, limit int) ([]repository.TopBook, error) {
	return nil, nil
}

type fakeDraftStore struct {
	drafts []billing.Draft
}

func (s *fakeDraftStore) Save(ctx context.Context, draft billing.Draft) error {
	s.drafts = append(s.drafts, draft)
	return nil
}

func (s *fakeDraftStore) List(ctx context.Context) ([]billing.Draft, error) {
	return s.drafts, nil
}

func (s *fakeDraftStore) Get(ctx context.Context, index int) (*billing.Draft, error) {
	if index < 0 || index >= len(s.drafts) {
		return nil, nil
	}
	d := s.drafts[index]
	return &d, nil
}

func (s *fakeDraftStore) Delete(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.drafts) {
		return nil
	}
	s.drafts = append(s.drafts[:index], s.drafts[index+1:]...)
	return nil
}

func newTestBillingService(t *testing.T, books ...*entity.Book) (*BillingService, *fakeBookRepo, *fakeBillRepo) {
	t.Helper()
	bookRepo := newFakeBookRepo(books...)
	billRepo := newFakeBillRepo()
	svc := NewBillingService(bookRepo, newFakeCustomerRepo(), billRepo, &fakeDraftStore{})
	require.NoError(t, svc.RefreshCatalog(context.Background()))
	return svc, bookRepo, billRepo
}

func testBook(ref string, price int64, stock int) *entity.Book {
	return &entity.Book{
		ID:          uuid.New(),
		Title:       "Book " + ref,
		ReferenceNo: ref,
		Price:       price,
		Stock:       stock,
	}
}

func TestBillingService_DirectFlowMergesRepeatedScans(t *testing.T) {
	svc, _, _ := newTestBillingService(t, testBook("BK-1001", 50000, 10))

	view, err := svc.StartSession(FlowDirect)
	require.NoError(t, err)

	view, err = svc.AddProduct(view.SessionID, "BK-1001")
	require.NoError(t, err)
	view, err = svc.AddProduct(view.SessionID, "BK-1001")
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, int64(100000), view.Totals.SubTotal)
	assert.Equal(t, int64(10000), view.Totals.Tax)
	assert.Equal(t, int64(110000), view.Totals.Total)
}

func TestBillingService_AdminFlowKeepsDuplicateLines(t *testing.T) {
	svc, _, _ := newTestBillingService(t, testBook("BK-1001", 50000, 10))

	view, err := svc.StartSession(FlowAdmin)
	require.NoError(t, err)

	view, err = svc.AddProduct(view.SessionID, "BK-1001")
	require.NoError(t, err)
	view, err = svc.AddProduct(view.SessionID, "BK-1001")
	require.NoError(t, err)

	assert.Len(t, view.Items, 2)
}

func TestBillingService_CheckoutPersistsAndDecrementsStock(t *testing.T) {
	book := testBook("BK-1001", 50000, 10)
	svc, bookRepo, billRepo := newTestBillingService(t, book)
	ctx := context.Background()

	view, err := svc.StartSession(FlowDirect)
	require.NoError(t, err)
	_, err = svc.AddProduct(view.SessionID, "BK-1001")
	require.NoError(t, err)
	_, err = svc.SetLineQuantity(view.SessionID, mustOnlyLine(t, svc, view.SessionID), 3)
	require.NoError(t, err)

	bill, err := svc.Checkout(ctx, view.SessionID, uuid.New())
	require.NoError(t, err)

	assert.NotEmpty(t, bill.BillNo)
	assert.Equal(t, 3, bill.ItemCount)
	assert.Equal(t, int64(150000), bill.SubTotal)
	assert.Equal(t, int64(15000), bill.Tax)
	assert.Equal(t, int64(165000), bill.Total)
	assert.Equal(t, 7, bookRepo.books[book.ID].Stock)
	assert.Len(t, billRepo.bills, 1)

	// The session is frozen after checkout.
	_, err = svc.AddProduct(view.SessionID, "BK-1001")
	assert.Error(t, err)
}

func TestBillingService_CheckoutFailsOnConcurrentStockLoss(t *testing.T) {
	book := testBook("BK-1001", 50000, 5)
	svc, bookRepo, billRepo := newTestBillingService(t, book)
	ctx := context.Background()

	view, err := svc.StartSession(FlowDirect)
	require.NoError(t, err)
	_, err = svc.AddProduct(view.SessionID, "BK-1001")
	require.NoError(t, err)
	_, err = svc.SetLineQuantity(view.SessionID, mustOnlyLine(t, svc, view.SessionID), 5)
	require.NoError(t, err)

	// Another counter sells the same book before this checkout lands.
	bookRepo.books[book.ID].Stock = 2

	_, err = svc.Checkout(ctx, view.SessionID, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient stock")
	assert.Equal(t, 2, bookRepo.books[book.ID].Stock)
	assert.Empty(t, billRepo.bills)

	// The bill stays open, so the cashier can adjust and retry.
	v, err := svc.GetSession(view.SessionID)
	require.NoError(t, err)
	assert.False(t, v.Closed)
}

func TestBillingService_CheckoutRestoresStockWhenPersistFails(t *testing.T) {
	book := testBook("BK-1001", 50000, 10)
	svc, bookRepo, billRepo := newTestBillingService(t, book)
	billRepo.failing = true
	ctx := context.Background()

	view, err := svc.StartSession(FlowDirect)
	require.NoError(t, err)
	_, err = svc.AddProduct(view.SessionID, "BK-1001")
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, view.SessionID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 10, bookRepo.books[book.ID].Stock)
}

func TestBillingService_AdminCheckoutRequiresCustomer(t *testing.T) {
	svc, _, _ := newTestBillingService(t, testBook("BK-1001", 50000, 10))
	ctx := context.Background()

	view, err := svc.StartSession(FlowAdmin)
	require.NoError(t, err)
	_, err = svc.AddProduct(view.SessionID, "BK-1001")
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, view.SessionID, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer")
}

func TestBillingService_DraftRoundTrip(t *testing.T) {
	svc, _, _ := newTestBillingService(t, testBook("BK-1001", 50000, 10))
	ctx := context.Background()

	view, err := svc.StartSession(FlowDirect)
	require.NoError(t, err)
	_, err = svc.AddProduct(view.SessionID, "BK-1001")
	require.NoError(t, err)

	require.NoError(t, svc.SaveDraft(ctx, view.SessionID))

	// Start over, then restore.
	_, err = svc.ResetSession(view.SessionID)
	require.NoError(t, err)

	restored, err := svc.LoadDraft(ctx, view.SessionID, 0)
	require.NoError(t, err)
	require.Len(t, restored.Items, 1)
	assert.Equal(t, "BK-1001", restored.Items[0].ProductRef)

	drafts, err := svc.ListDrafts(ctx)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	require.NoError(t, svc.DeleteDraft(ctx, 0))
	drafts, err = svc.ListDrafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestBillingService_UnknownSession(t *testing.T) {
	svc, _, _ := newTestBillingService(t)

	_, err := svc.AddProduct(uuid.New(), "BK-1001")
	assert.Error(t, err)
}

func mustOnlyLine(t *testing.T, svc *BillingService, sessionID uuid.UUID) uuid.UUID {
	t.Helper()
	view, err := svc.GetSession(sessionID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	return view.Items[0].ID
}
