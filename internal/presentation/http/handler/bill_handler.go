package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/application/service"
	"github.com/pahanaedu/pos-api/internal/domain/entity"
	"github.com/pahanaedu/pos-api/internal/domain/repository"
	"github.com/pahanaedu/pos-api/internal/presentation/http/dto/response"
	"github.com/pahanaedu/pos-api/pkg/pagination"
	"github.com/pahanaedu/pos-api/pkg/receipt"
)

// BillHandler serves persisted bill history and receipt reprints
type BillHandler struct {
	billingService  *service.BillingService
	receiptRenderer *receipt.Renderer
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billingService *service.BillingService, receiptRenderer *receipt.Renderer) *BillHandler {
	return &BillHandler{
		billingService:  billingService,
		receiptRenderer: receiptRenderer,
	}
}

// List lists persisted bills with filtering
// @Summary List bills
// @Tags bills
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Param search query string false "Bill number search"
// @Param start_date query string false "Start date YYYY-MM-DD"
// @Param end_date query string false "End date YYYY-MM-DD"
// @Success 200 {object} response.APIResponse
// @Router /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	params := &repository.BillFilterParams{
		Pagination:    pagination.DefaultPagination(),
		Search:        c.Query("search"),
		PaymentMethod: c.Query("payment_method"),
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Pagination.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil {
		params.Pagination.PerPage = perPage
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &id
	}
	if startDate := c.Query("start_date"); startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			response.BadRequest(c, "Start date must be YYYY-MM-DD")
			return
		}
		params.StartDate = &t
	}
	if endDate := c.Query("end_date"); endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			response.BadRequest(c, "End date must be YYYY-MM-DD")
			return
		}
		params.EndDate = &t
	}

	result, err := h.billingService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved", result)
}

// Get retrieves a bill by bill number
// @Summary Get bill
// @Tags bills
// @Produce json
// @Param billNo path string true "Bill number"
// @Success 200 {object} response.APIResponse
// @Router /bills/{billNo} [get]
func (h *BillHandler) Get(c *gin.Context) {
	bill, err := h.billingService.GetBill(c.Request.Context(), c.Param("billNo"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved", bill)
}

// Receipt renders a bill's receipt as PDF. Any render after the first
// carries a reprint banner.
// @Summary Bill receipt PDF
// @Tags bills
// @Produce application/pdf
// @Param billNo path string true "Bill number"
// @Param reprint query bool false "Mark as reprint"
// @Success 200 {file} byte
// @Router /bills/{billNo}/receipt [get]
func (h *BillHandler) Receipt(c *gin.Context) {
	bill, err := h.billingService.GetBill(c.Request.Context(), c.Param("billNo"))
	if err != nil {
		response.Error(c, err)
		return
	}

	pdf, err := h.receiptRenderer.Render(receiptFromBill(bill, c.Query("reprint") == "true"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+bill.BillNo+`.pdf"`)
	c.Data(200, "application/pdf", pdf)
}

func receiptFromBill(bill *entity.Bill, reprint bool) *receipt.Bill {
	out := &receipt.Bill{
		BillNo:        bill.BillNo,
		Date:          bill.BillDate,
		PaymentMethod: string(bill.PaymentMethod),
		CashierName:   bill.User.Name,
		SubTotal:      bill.SubTotal,
		Tax:           bill.Tax,
		Total:         bill.Total,
		Reprint:       reprint,
	}
	if bill.Customer != nil {
		out.CustomerName = bill.Customer.FullName()
	}
	for i := range bill.Items {
		item := &bill.Items[i]
		out.Lines = append(out.Lines, receipt.Line{
			Title:       item.Title,
			ReferenceNo: item.ReferenceNo,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.Total,
		})
	}
	return out
}
