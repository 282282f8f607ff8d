package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pahanaedu/pos-api/internal/application/service"
	"github.com/pahanaedu/pos-api/internal/presentation/http/dto/response"
)

// ExportHandler serves sales and catalog downloads
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// parsePeriod reads start_date/end_date query params, defaulting to the
// last 30 days. The end date is inclusive.
func parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			response.BadRequest(c, "Start date must be YYYY-MM-DD")
			return start, end, false
		}
		start = t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			response.BadRequest(c, "End date must be YYYY-MM-DD")
			return start, end, false
		}
		end = t.Add(24 * time.Hour)
	}
	return start, end, true
}

// BillsCSV downloads the period's bills as CSV
// @Summary Export bills CSV
// @Tags exports
// @Produce text/csv
// @Param start_date query string false "Start date YYYY-MM-DD"
// @Param end_date query string false "End date YYYY-MM-DD"
// @Success 200 {file} byte
// @Router /exports/bills.csv [get]
func (h *ExportHandler) BillsCSV(c *gin.Context) {
	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportBillsCSV(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename("bills", "csv")+`"`)
	c.Data(200, "text/csv", data)
}

// BillsXLSX downloads the period's bills as an Excel workbook
// @Summary Export bills XLSX
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string false "Start date YYYY-MM-DD"
// @Param end_date query string false "End date YYYY-MM-DD"
// @Success 200 {file} byte
// @Router /exports/bills.xlsx [get]
func (h *ExportHandler) BillsXLSX(c *gin.Context) {
	start, end, ok := parsePeriod(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportBillsXLSX(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename("bills", "xlsx")+`"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// BooksCSV downloads the catalog as CSV
// @Summary Export books CSV
// @Tags exports
// @Produce text/csv
// @Success 200 {file} byte
// @Router /exports/books.csv [get]
func (h *ExportHandler) BooksCSV(c *gin.Context) {
	data, err := h.exportService.ExportBooksCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename("books", "csv")+`"`)
	c.Data(200, "text/csv", data)
}
