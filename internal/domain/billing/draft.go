package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
)

// DraftStatus is the status stamped onto every saved draft.
const DraftStatus = "draft"

// Draft is a persistable snapshot of an in-progress bill. Line IDs are
// preserved so operations keep working by ID after a restore. A draft
// is never reconciled with later catalog changes: prices and stock
// bounds are whatever they were when it was saved.
type Draft struct {
	Status        string             `json:"status"`
	SavedAt       time.Time          `json:"saved_at"`
	CustomerRef   *uuid.UUID         `json:"customer_ref,omitempty"`
	BillDate      time.Time          `json:"bill_date"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Items         []Line             `json:"items"`
	SubTotal      int64              `json:"sub_total"`
	Tax           int64              `json:"tax"`
	Total         int64              `json:"total"`
}

// ToDraft snapshots the current bill. The returned draft shares no
// state with the engine: mutating the live bill afterwards does not
// leak into it.
func (e *Engine) ToDraft() Draft {
	totals := e.Totals()
	draft := Draft{
		Status:        DraftStatus,
		SavedAt:       time.Now(),
		BillDate:      e.billDate,
		PaymentMethod: e.paymentMethod,
		Items:         make([]Line, len(e.items)),
		SubTotal:      totals.SubTotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
	}
	copy(draft.Items, e.items)
	if e.customerRef != nil {
		ref := *e.customerRef
		draft.CustomerRef = &ref
	}
	return draft
}

// FromDraft replaces the engine's state with the draft's. The current
// bill, if any, is discarded. Restored lines keep their original IDs.
func (e *Engine) FromDraft(draft Draft) error {
	if e.closed {
		return ErrBillClosed
	}

	e.items = make([]Line, len(draft.Items))
	copy(e.items, draft.Items)
	e.billDate = draft.BillDate
	e.paymentMethod = draft.PaymentMethod
	e.customerRef = nil
	if draft.CustomerRef != nil {
		ref := *draft.CustomerRef
		e.customerRef = &ref
	}
	return nil
}
