package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
)

// PrintableLine is one row of a printable bill view.
type PrintableLine struct {
	Title       string `json:"title"`
	ReferenceNo string `json:"reference_no"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
}

// PrintableBill is a self-contained snapshot of a bill for renderers
// (PDF receipt, print view). Renderers must treat it as read-only; it
// shares no state with the engine.
type PrintableBill struct {
	BillNo        string             `json:"bill_no,omitempty"`
	CustomerRef   *uuid.UUID         `json:"customer_ref,omitempty"`
	BillDate      time.Time          `json:"bill_date"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Lines         []PrintableLine    `json:"lines"`
	SubTotal      int64              `json:"sub_total"`
	Tax           int64              `json:"tax"`
	Total         int64              `json:"total"`
}

// ToPrintable snapshots the bill for rendering. Lines without a
// resolved product are skipped; they have nothing to print.
func (e *Engine) ToPrintable() PrintableBill {
	totals := e.Totals()
	bill := PrintableBill{
		BillDate:      e.billDate,
		PaymentMethod: e.paymentMethod,
		SubTotal:      totals.SubTotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
	}
	if e.customerRef != nil {
		ref := *e.customerRef
		bill.CustomerRef = &ref
	}
	for i := range e.items {
		line := &e.items[i]
		if line.ProductRef == "" {
			continue
		}
		bill.Lines = append(bill.Lines, PrintableLine{
			Title:       line.Title,
			ReferenceNo: line.ProductRef,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
		})
	}
	return bill
}
