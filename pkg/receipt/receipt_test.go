package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("Pahana Edu", "Educational Materials & Books", "Thank you for your purchase!")

	bill := &Bill{
		BillNo:        "BILL-1a2b3c4d",
		Date:          time.Date(2025, 6, 14, 15, 30, 0, 0, time.UTC),
		PaymentMethod: "CASH",
		CashierName:   "Nimal Perera",
		Lines: []Line{
			{Title: "Advanced Mathematics", ReferenceNo: "BK-0a1b2c3d", UnitPrice: 40000, Quantity: 3, LineTotal: 120000},
			{Title: "Physics Workbook", ReferenceNo: "BK-9f8e7d6c", UnitPrice: 30000, Quantity: 1, LineTotal: 30000},
		},
		SubTotal: 150000,
		Tax:      15000,
		Total:    165000,
	}

	data, err := r.Render(bill)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderReprintAndWalkIn(t *testing.T) {
	r := NewRenderer("Pahana Edu", "Educational Materials & Books", "Thank you for your purchase!")

	bill := &Bill{
		BillNo:        "BILL-deadbeef",
		Date:          time.Now(),
		PaymentMethod: "CARD",
		Reprint:       true,
		Lines: []Line{
			{Title: "English Grammar", ReferenceNo: "BK-11223344", UnitPrice: 15000, Quantity: 2, LineTotal: 30000},
		},
		SubTotal: 30000,
		Tax:      3000,
		Total:    33000,
	}

	data, err := r.Render(bill)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
