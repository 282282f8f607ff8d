package billing

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftRoundTrip(t *testing.T) {
	catalog := testCatalog()
	e := NewEngine(catalog, Options{})
	first, _ := e.AddItem("BK001")
	require.NoError(t, e.SetLineQuantity(first, 3))
	second, _ := e.AddItem("BK002")
	customer := uuid.New()
	require.NoError(t, e.SetCustomer(&customer))
	require.NoError(t, e.SetPaymentMethod(enum.PaymentMethodCard))
	wantTotals := e.Totals()

	draft := e.ToDraft()
	assert.Equal(t, DraftStatus, draft.Status)
	assert.False(t, draft.SavedAt.IsZero())

	restored := NewEngine(catalog, Options{})
	require.NoError(t, restored.FromDraft(draft))

	items := restored.Items()
	require.Len(t, items, 2)
	assert.Equal(t, first, items[0].ID, "line IDs survive the round trip")
	assert.Equal(t, second, items[1].ID)
	assert.Equal(t, wantTotals, restored.Totals())
	require.NotNil(t, restored.Customer())
	assert.Equal(t, customer, *restored.Customer())
	assert.Equal(t, enum.PaymentMethodCard, restored.PaymentMethod())

	// Operations by line ID keep working after a restore.
	require.NoError(t, restored.SetLineQuantity(first, 5))
	checkInvariants(t, restored)
}

func TestDraftIsASnapshotNotALiveReference(t *testing.T) {
	catalog := testCatalog()
	e := NewEngine(catalog, Options{})
	lineID, _ := e.AddItem("BK001")
	require.NoError(t, e.SetLineQuantity(lineID, 2))

	draft := e.ToDraft()

	// Mutate the live bill after saving.
	require.NoError(t, e.SetLineQuantity(lineID, 7))
	_, err := e.AddItem("BK002")
	require.NoError(t, err)

	restored := NewEngine(catalog, Options{})
	require.NoError(t, restored.FromDraft(draft))

	items := restored.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity, "post-save mutations must not appear in the draft")
}

func TestDraftSurvivesJSONSerialization(t *testing.T) {
	// The draft store persists drafts as JSON; the round trip through
	// bytes must preserve identity just like the in-memory one.
	catalog := testCatalog()
	e := NewEngine(catalog, Options{})
	lineID, _ := e.AddItem("BK001")
	require.NoError(t, e.SetLineQuantity(lineID, 3))

	raw, err := json.Marshal(e.ToDraft())
	require.NoError(t, err)

	var decoded Draft
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored := NewEngine(catalog, Options{})
	require.NoError(t, restored.FromDraft(decoded))
	assert.Equal(t, lineID, restored.Items()[0].ID)
	assert.Equal(t, e.Totals(), restored.Totals())
}

func TestFromDraftDiscardsCurrentBill(t *testing.T) {
	catalog := testCatalog()
	e := NewEngine(catalog, Options{})
	_, err := e.AddItem("BK001")
	require.NoError(t, err)
	draft := e.ToDraft()

	_, err = e.AddItem("BK002")
	require.NoError(t, err)
	_, err = e.AddItem("BK003")
	require.NoError(t, err)

	require.NoError(t, e.FromDraft(draft))
	assert.Len(t, e.Items(), 1)
}

func TestFromDraftOnClosedBill(t *testing.T) {
	e := NewEngine(testCatalog(), Options{})
	draft := e.ToDraft()
	e.Close()
	assert.ErrorIs(t, e.FromDraft(draft), ErrBillClosed)
}
