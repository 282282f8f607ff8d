package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/application/service"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
	"github.com/pahanaedu/pos-api/internal/presentation/http/dto/request"
	"github.com/pahanaedu/pos-api/internal/presentation/http/dto/response"
)

// BillingHandler drives live billing sessions over HTTP. Every mutation
// responds with the full recomputed bill so the client never derives
// totals itself.
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("sessionID"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

func lineID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("lineID"))
	if err != nil {
		response.BadRequest(c, "Invalid line ID")
		return uuid.Nil, false
	}
	return id, true
}

// StartSession opens a billing session
// @Summary Start billing session
// @Tags billing
// @Accept json
// @Produce json
// @Param request body request.StartSessionRequest true "Flow"
// @Success 201 {object} response.APIResponse
// @Router /billing/sessions [post]
func (h *BillingHandler) StartSession(c *gin.Context) {
	var req request.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.billingService.StartSession(service.BillingFlow(req.Flow))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session started", view)
}

// GetSession returns the session's current bill
// @Summary Get session
// @Tags billing
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID} [get]
func (h *BillingHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.billingService.GetSession(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved", view)
}

// EndSession discards the session
// @Summary End session
// @Tags billing
// @Param sessionID path string true "Session ID"
// @Success 204
// @Router /billing/sessions/{sessionID} [delete]
func (h *BillingHandler) EndSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.billingService.EndSession(id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddLine appends an empty line for the admin form flow
// @Summary Add empty line
// @Tags billing
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/lines [post]
func (h *BillingHandler) AddLine(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.billingService.AddLine(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line added", view)
}

// AddProduct puts a book on the bill by reference number
// @Summary Add product
// @Tags billing
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body request.AddProductRequest true "Reference number"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/products [post]
func (h *BillingHandler) AddProduct(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req request.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.billingService.AddProduct(id, req.ReferenceNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product added", view)
}

// SetLineProduct binds a book to an existing line
// @Summary Set line product
// @Tags billing
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param lineID path string true "Line ID"
// @Param request body request.SetLineProductRequest true "Reference number"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/lines/{lineID}/product [put]
func (h *BillingHandler) SetLineProduct(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	lid, ok := lineID(c)
	if !ok {
		return
	}

	var req request.SetLineProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.billingService.SetLineProduct(sid, lid, req.ReferenceNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line updated", view)
}

// SetQuantity sets a line's quantity. The raw input text is parsed
// strictly: anything that is not a whole number is rejected rather than
// silently treated as zero.
// @Summary Set line quantity
// @Tags billing
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param lineID path string true "Line ID"
// @Param request body request.SetQuantityRequest true "Quantity"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/lines/{lineID}/quantity [put]
func (h *BillingHandler) SetQuantity(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	lid, ok := lineID(c)
	if !ok {
		return
	}

	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(req.Quantity))
	if err != nil {
		response.BadRequest(c, "Quantity must be a whole number")
		return
	}

	view, err := h.billingService.SetLineQuantity(sid, lid, quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated", view)
}

// IncrementLine adjusts a line's quantity by delta
// @Summary Increment line quantity
// @Tags billing
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param lineID path string true "Line ID"
// @Param request body request.IncrementLineRequest true "Delta"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/lines/{lineID}/increment [post]
func (h *BillingHandler) IncrementLine(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	lid, ok := lineID(c)
	if !ok {
		return
	}

	var req request.IncrementLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.billingService.IncrementLine(sid, lid, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated", view)
}

// RemoveLine removes a line
// @Summary Remove line
// @Tags billing
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param lineID path string true "Line ID"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/lines/{lineID} [delete]
func (h *BillingHandler) RemoveLine(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	lid, ok := lineID(c)
	if !ok {
		return
	}

	view, err := h.billingService.RemoveLine(sid, lid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line removed", view)
}

// SetCustomer attaches or clears the bill's customer
// @Summary Set customer
// @Tags billing
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body request.SetCustomerRequest true "Customer"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/customer [put]
func (h *BillingHandler) SetCustomer(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customerID, err := parseOptionalUUID(req.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	view, err := h.billingService.SetCustomer(c.Request.Context(), sid, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated", view)
}

// SetPaymentMethod sets the bill's payment method
// @Summary Set payment method
// @Tags billing
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body request.SetPaymentMethodRequest true "Payment method"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/payment-method [put]
func (h *BillingHandler) SetPaymentMethod(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req request.SetPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.billingService.SetPaymentMethod(sid, enum.PaymentMethod(req.PaymentMethod))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method updated", view)
}

// SetBillDate sets the bill's date
// @Summary Set bill date
// @Tags billing
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body request.SetBillDateRequest true "Bill date"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/bill-date [put]
func (h *BillingHandler) SetBillDate(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req request.SetBillDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.BillDate)
	if err != nil {
		response.BadRequest(c, "Bill date must be YYYY-MM-DD")
		return
	}

	view, err := h.billingService.SetBillDate(sid, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill date updated", view)
}

// ResetSession discards the bill and starts a fresh one
// @Summary Reset session
// @Tags billing
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/reset [post]
func (h *BillingHandler) ResetSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.billingService.ResetSession(sid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session reset", view)
}

// Printable returns a print-ready snapshot of the session's bill
// @Summary Printable bill
// @Tags billing
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/printable [get]
func (h *BillingHandler) Printable(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	printable, err := h.billingService.PrintableBill(sid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Printable bill", printable)
}

// Checkout finalizes the bill: stock is decremented atomically and the
// bill is persisted. Protected by the idempotency middleware so a
// retried submission replays the original response.
// @Summary Checkout
// @Tags billing
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 201 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/checkout [post]
func (h *BillingHandler) Checkout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	bill, err := h.billingService.Checkout(c.Request.Context(), sid, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created", bill)
}

// SaveDraft snapshots the session's bill into the draft list
// @Summary Save draft
// @Tags billing
// @Param sessionID path string true "Session ID"
// @Success 201 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/drafts [post]
func (h *BillingHandler) SaveDraft(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.billingService.SaveDraft(c.Request.Context(), sid); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Draft saved", nil)
}

// ListDrafts returns all saved drafts
// @Summary List drafts
// @Tags billing
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /billing/drafts [get]
func (h *BillingHandler) ListDrafts(c *gin.Context) {
	drafts, err := h.billingService.ListDrafts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Drafts retrieved", drafts)
}

// LoadDraft restores a draft into the session
// @Summary Load draft
// @Tags billing
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param index path int true "Draft index"
// @Success 200 {object} response.APIResponse
// @Router /billing/sessions/{sessionID}/drafts/{index}/load [post]
func (h *BillingHandler) LoadDraft(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.BadRequest(c, "Invalid draft index")
		return
	}

	view, err := h.billingService.LoadDraft(c.Request.Context(), sid, index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft loaded", view)
}

// DeleteDraft removes a draft
// @Summary Delete draft
// @Tags billing
// @Param index path int true "Draft index"
// @Success 204
// @Router /billing/drafts/{index} [delete]
func (h *BillingHandler) DeleteDraft(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.BadRequest(c, "Invalid draft index")
		return
	}

	if err := h.billingService.DeleteDraft(c.Request.Context(), index); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// RefreshCatalog reloads the sellable catalog into the shared snapshot
// @Summary Refresh catalog snapshot
// @Tags billing
// @Success 200 {object} response.APIResponse
// @Router /billing/catalog/refresh [post]
func (h *BillingHandler) RefreshCatalog(c *gin.Context) {
	if err := h.billingService.RefreshCatalog(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Catalog refreshed", nil)
}
