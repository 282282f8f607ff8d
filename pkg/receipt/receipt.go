package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
)

// Line is one item row on a receipt. Amounts are in cents.
type Line struct {
	Title       string
	ReferenceNo string
	UnitPrice   int64
	Quantity    int
	LineTotal   int64
}

// Bill is the renderer's input: a finished or in-progress bill view.
// Amounts are in cents. The renderer never mutates it.
type Bill struct {
	BillNo        string
	Date          time.Time
	PaymentMethod string
	CustomerName  string
	CashierName   string
	Lines         []Line
	SubTotal      int64
	Tax           int64
	Total         int64
	Reprint       bool
}

// Renderer produces PDF receipts.
type Renderer struct {
	shopName string
	tagline  string
	footer   string
}

// NewRenderer creates a receipt renderer with the shop branding.
func NewRenderer(shopName, tagline, footer string) *Renderer {
	return &Renderer{
		shopName: shopName,
		tagline:  tagline,
		footer:   footer,
	}
}

// Render produces the receipt PDF as bytes.
func (r *Renderer) Render(bill *Bill) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(180, 10, r.shopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(180, 6, r.tagline, "", 1, "C", false, 0, "")
	pdf.SetDrawColor(51, 51, 51)
	pdf.Line(15, pdf.GetY()+2, 195, pdf.GetY()+2)
	pdf.Ln(6)

	if bill.Reprint {
		pdf.SetFillColor(255, 243, 205)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(180, 8, "REPRINT COPY", "1", 1, "C", true, 0, "")
		pdf.Ln(3)
	}

	if bill.BillNo != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(180, 8, fmt.Sprintf("BILL REFERENCE: %s", bill.BillNo), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	// Bill info box
	pdf.SetFillColor(249, 249, 249)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(90, 7, fmt.Sprintf("Date: %s", bill.Date.Format("02 Jan 2006")), "1", 0, "L", true, 0, "")
	pdf.CellFormat(90, 7, fmt.Sprintf("Time: %s", bill.Date.Format("03:04 PM")), "1", 1, "L", true, 0, "")
	pdf.CellFormat(90, 7, fmt.Sprintf("Payment: %s", bill.PaymentMethod), "1", 0, "L", true, 0, "")
	pdf.CellFormat(90, 7, fmt.Sprintf("Items: %d", len(bill.Lines)), "1", 1, "L", true, 0, "")
	if bill.CustomerName != "" {
		pdf.CellFormat(90, 7, fmt.Sprintf("Customer: %s", bill.CustomerName), "1", 0, "L", true, 0, "")
	} else {
		pdf.CellFormat(90, 7, "Customer: Walk-in", "1", 0, "L", true, 0, "")
	}
	pdf.CellFormat(90, 7, fmt.Sprintf("Cashier: %s", orNA(bill.CashierName)), "1", 1, "L", true, 0, "")
	pdf.Ln(5)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(45, 55, 72)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(70, 7, "Title", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Reference", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, line := range bill.Lines {
		title := line.Title
		if len(title) > 38 {
			title = title[:35] + "..."
		}
		pdf.CellFormat(70, 6, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, line.ReferenceNo, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, money(line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, money(line.LineTotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(150, 7, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, money(bill.SubTotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 7, "Tax (10%):", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, money(bill.Tax), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(150, 9, "Total:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(30, 9, money(bill.Total), "T", 1, "R", false, 0, "")
	pdf.Ln(8)

	// Footer
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(180, 6, r.footer, "", 1, "C", false, 0, "")
	pdf.CellFormat(180, 6, "Pahana Educational Services", "", 1, "C", false, 0, "")
	if bill.Reprint {
		pdf.CellFormat(180, 6, fmt.Sprintf("Reprinted: %s", time.Now().Format("02 Jan 2006 03:04 PM")), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func money(cents int64) string {
	return fmt.Sprintf("Rs. %.2f", float64(cents)/100)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
