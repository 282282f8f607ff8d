package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Snapshot {
	return NewSnapshot([]Product{
		{Ref: "BK001", Title: "Advanced Mathematics", Price: 50000, OfferPrice: 40000, Stock: 10},
		{Ref: "BK002", Title: "Physics Workbook", Price: 30000, Stock: 1},
		{Ref: "BK003", Title: "English Grammar", Price: 15000, OfferPrice: 20000, Stock: 5},
		{Ref: "BK004", Title: "History Atlas", Price: 25000, Stock: 0},
	})
}

// checkInvariants asserts the derived-value invariants that must hold
// after every engine operation.
func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()

	var subTotal int64
	for _, line := range e.Items() {
		assert.Equal(t, line.UnitPrice*int64(line.Quantity), line.LineTotal,
			"line total must equal unit price times quantity")
		subTotal += line.LineTotal
	}

	totals := e.Totals()
	assert.Equal(t, subTotal, totals.SubTotal, "subtotal must equal the sum of line totals")
	assert.Equal(t, int64(float64(subTotal)*TaxRate), totals.Tax, "tax must be derived from subtotal")
	assert.Equal(t, totals.SubTotal+totals.Tax, totals.Total, "total must equal subtotal plus tax")
}

func TestAddItemEmptyLine(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})

	lineID, err := e.AddItem("")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, lineID)

	items := e.Items()
	require.Len(t, items, 1)
	assert.Empty(t, items[0].ProductRef)
	assert.Zero(t, items[0].Quantity)
	checkInvariants(t, e)
}

func TestAddItemWithRef(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})

	lineID, err := e.AddItem("BK001")
	require.NoError(t, err)

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, lineID, items[0].ID)
	assert.Equal(t, "Advanced Mathematics", items[0].Title)
	assert.Equal(t, int64(40000), items[0].UnitPrice, "offer price below list price must win")
	assert.Equal(t, 1, items[0].Quantity)
	checkInvariants(t, e)
}

func TestAddItemUnknownRef(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})

	_, err := e.AddItem("NOPE")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, e.Items())
}

func TestSetLineProduct(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	lineID, err := e.AddItem("")
	require.NoError(t, err)

	require.NoError(t, e.SetLineProduct(lineID, "BK002"))

	items := e.Items()
	assert.Equal(t, "Physics Workbook", items[0].Title)
	assert.Equal(t, int64(30000), items[0].UnitPrice)
	assert.Equal(t, 1, items[0].Quantity, "quantity resets to 1 when previously unset")
	checkInvariants(t, e)
}

func TestSetLineProductIgnoresHigherOffer(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	lineID, _ := e.AddItem("")

	require.NoError(t, e.SetLineProduct(lineID, "BK003"))

	// BK003's offer price is above list price, so it must not apply.
	assert.Equal(t, int64(15000), e.Items()[0].UnitPrice)
}

func TestSetLineProductOverwritesSelection(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	lineID, _ := e.AddItem("BK001")
	require.NoError(t, e.SetLineQuantity(lineID, 3))

	require.NoError(t, e.SetLineProduct(lineID, "BK002"))

	items := e.Items()
	assert.Equal(t, "BK002", items[0].ProductRef)
	assert.Equal(t, 3, items[0].Quantity, "existing quantity is kept on reselect")
	assert.Equal(t, int64(90000), items[0].LineTotal)
	checkInvariants(t, e)
}

func TestSetLineProductUnknownLine(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	assert.ErrorIs(t, e.SetLineProduct(uuid.New(), "BK001"), ErrLineNotFound)
}

func TestSetLineQuantityValidation(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	lineID, _ := e.AddItem("BK001")

	assert.ErrorIs(t, e.SetLineQuantity(lineID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, e.SetLineQuantity(lineID, -2), ErrInvalidQuantity)
	assert.Equal(t, 1, e.Items()[0].Quantity, "failed mutation must leave quantity intact")
}

func TestSetLineQuantityStockBound(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	lineID, _ := e.AddItem("BK001")
	require.NoError(t, e.SetLineQuantity(lineID, 10))

	err := e.SetLineQuantity(lineID, 11)
	require.Error(t, err)
	assert.True(t, IsInsufficientStock(err))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Stock)
	assert.Equal(t, 11, stockErr.Requested)

	assert.Equal(t, 10, e.Items()[0].Quantity, "quantity unchanged after stock failure")
	checkInvariants(t, e)
}

func TestRemoveLine(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	first, _ := e.AddItem("BK001")
	second, _ := e.AddItem("BK002")

	require.NoError(t, e.RemoveLine(first))

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, second, items[0].ID)

	// Totals no longer reference the removed line.
	assert.Equal(t, int64(30000), e.Totals().SubTotal)
	assert.ErrorIs(t, e.RemoveLine(first), ErrLineNotFound)
	checkInvariants(t, e)
}

func TestIncrementLineRemovesAtZero(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	lineID, _ := e.AddItem("BK001")
	require.NoError(t, e.SetLineQuantity(lineID, 2))

	require.NoError(t, e.IncrementLine(lineID, -2))

	assert.Empty(t, e.Items())
	totals := e.Totals()
	assert.Zero(t, totals.SubTotal)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Total)
}

func TestIncrementLineStockBound(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	lineID, _ := e.AddItem("BK002") // stock 1

	err := e.IncrementLine(lineID, 1)
	assert.True(t, IsInsufficientStock(err))
	assert.Equal(t, 1, e.Items()[0].Quantity)
}

func TestAddOrMergeProduct(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})

	first, err := e.AddOrMergeProduct("BK001")
	require.NoError(t, err)

	second, err := e.AddOrMergeProduct("BK001")
	require.NoError(t, err)
	assert.Equal(t, first, second, "scan of the same product merges into the existing line")

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	checkInvariants(t, e)
}

func TestAddOrMergeProductStockExhausted(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})

	_, err := e.AddOrMergeProduct("BK002") // stock 1
	require.NoError(t, err)

	_, err = e.AddOrMergeProduct("BK002")
	assert.True(t, IsInsufficientStock(err))
	assert.Equal(t, 1, e.Items()[0].Quantity, "quantity remains at prior valid value")
}

func TestAddOrMergeProductOutOfStock(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})

	_, err := e.AddOrMergeProduct("BK004") // stock 0
	assert.True(t, IsInsufficientStock(err))
	assert.Empty(t, e.Items())
}

func TestManualAddAllowsDuplicateLines(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})

	first, _ := e.AddItem("BK001")
	second, _ := e.AddItem("BK001")
	assert.NotEqual(t, first, second)
	assert.Len(t, e.Items(), 2, "the form flow never merges duplicate products")
}

func TestTotalsScenario(t *testing.T) {
	// BK001: price 500.00, offer 400.00, stock 10.
	e := NewEngine(testCatalog(), Options{})
	lineID, err := e.AddItem("")
	require.NoError(t, err)
	require.NoError(t, e.SetLineProduct(lineID, "BK001"))
	require.NoError(t, e.SetLineQuantity(lineID, 3))

	totals := e.Totals()
	assert.Equal(t, int64(120000), totals.SubTotal)
	assert.Equal(t, int64(12000), totals.Tax)
	assert.Equal(t, int64(132000), totals.Total)
}

func TestInvariantsAcrossOperationSequence(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})

	a, _ := e.AddItem("BK001")
	checkInvariants(t, e)
	require.NoError(t, e.SetLineQuantity(a, 4))
	checkInvariants(t, e)
	b, _ := e.AddItem("")
	checkInvariants(t, e)
	require.NoError(t, e.SetLineProduct(b, "BK003"))
	checkInvariants(t, e)
	require.NoError(t, e.IncrementLine(b, 2))
	checkInvariants(t, e)
	require.NoError(t, e.RemoveLine(a))
	checkInvariants(t, e)
	_, _ = e.AddOrMergeProduct("BK002")
	checkInvariants(t, e)
}

func TestValidateForCheckout(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})

	assert.ErrorIs(t, e.ValidateForCheckout(), ErrEmptyBill)

	// A bill of only unresolved lines is still empty.
	blank, err := e.AddItem("")
	require.NoError(t, err)
	assert.ErrorIs(t, e.ValidateForCheckout(), ErrEmptyBill)

	_, err = e.AddItem("BK001")
	require.NoError(t, err)
	assert.ErrorIs(t, e.ValidateForCheckout(), ErrIncompleteLine, "a leftover blank row blocks checkout")

	require.NoError(t, e.RemoveLine(blank))
	assert.NoError(t, e.ValidateForCheckout())
}

func TestValidateForCheckoutRequiresCustomer(t *testing.T) {
	e := NewEngine(testCatalog(), Options{RequireCustomer: true})
	_, err := e.AddItem("BK001")
	require.NoError(t, err)

	assert.ErrorIs(t, e.ValidateForCheckout(), ErrMissingCustomer)

	customer := uuid.New()
	require.NoError(t, e.SetCustomer(&customer))
	assert.NoError(t, e.ValidateForCheckout())
}

func TestWalkInFlowNeedsNoCustomer(t *testing.T) {
	e := NewEngine(testCatalog(), Options{RequireCustomer: false})
	_, err := e.AddItem("BK001")
	require.NoError(t, err)
	assert.NoError(t, e.ValidateForCheckout())
}

func TestClosedBillRejectsMutation(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	lineID, _ := e.AddItem("BK001")
	e.Close()

	_, err := e.AddItem("BK002")
	assert.ErrorIs(t, err, ErrBillClosed)
	assert.ErrorIs(t, e.SetLineProduct(lineID, "BK002"), ErrBillClosed)
	assert.ErrorIs(t, e.SetLineQuantity(lineID, 2), ErrBillClosed)
	assert.ErrorIs(t, e.RemoveLine(lineID), ErrBillClosed)
	assert.ErrorIs(t, e.IncrementLine(lineID, 1), ErrBillClosed)
	_, err = e.AddOrMergeProduct("BK002")
	assert.ErrorIs(t, err, ErrBillClosed)
	assert.ErrorIs(t, e.ValidateForCheckout(), ErrBillClosed)

	// Items stay frozen and readable.
	assert.Len(t, e.Items(), 1)
}

func TestReset(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	_, err := e.AddItem("BK001")
	require.NoError(t, err)
	customer := uuid.New()
	require.NoError(t, e.SetCustomer(&customer))
	require.NoError(t, e.SetPaymentMethod(enum.PaymentMethodCard))
	before := e.BillDate()

	e.Reset()

	assert.Empty(t, e.Items())
	assert.Nil(t, e.Customer())
	assert.Equal(t, enum.PaymentMethodCash, e.PaymentMethod())
	assert.False(t, e.BillDate().Before(before))
	assert.Zero(t, e.Totals().Total)
}

func TestCatalogRefreshDoesNotTouchLines(t *testing.T) {
	catalog := testCatalog()
	e := NewEngine(catalog, Options{})
	lineID, _ := e.AddItem("BK001")
	require.NoError(t, e.SetLineQuantity(lineID, 2))

	// Product deleted and price changed server-side; snapshot replaced wholesale.
	catalog.Replace([]Product{
		{Ref: "BK002", Title: "Physics Workbook", Price: 35000, Stock: 4},
	})

	items := e.Items()
	assert.Equal(t, int64(40000), items[0].UnitPrice, "denormalized price survives refresh")
	assert.Equal(t, "Advanced Mathematics", items[0].Title)
	checkInvariants(t, e)

	_, err := e.AddOrMergeProduct("BK001")
	assert.ErrorIs(t, err, ErrProductNotFound, "new resolutions see the fresh snapshot")
}

func TestToPrintableIsASnapshot(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	lineID, _ := e.AddItem("BK001")
	require.NoError(t, e.SetLineQuantity(lineID, 2))
	blank, _ := e.AddItem("")

	printable := e.ToPrintable()
	require.Len(t, printable.Lines, 1, "unresolved lines are not printed")
	assert.Equal(t, int64(80000), printable.SubTotal)

	// Mutating the snapshot must not reach the engine.
	printable.Lines[0].Quantity = 99
	assert.Equal(t, 2, e.Items()[0].Quantity)

	require.NoError(t, e.RemoveLine(blank))
}
