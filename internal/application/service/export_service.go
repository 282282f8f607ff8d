package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/pahanaedu/pos-api/internal/domain/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService produces downloadable sales and catalog exports
type ExportService struct {
	billRepo repository.BillRepository
	bookRepo repository.BookRepository
}

// NewExportService creates a new export service
func NewExportService(billRepo repository.BillRepository, bookRepo repository.BookRepository) *ExportService {
	return &ExportService{
		billRepo: billRepo,
		bookRepo: bookRepo,
	}
}

func cents(v int64) string {
	return strconv.FormatFloat(float64(v)/100, 'f', 2, 64)
}

// ExportBillsCSV writes every bill in the period as CSV.
func (s *ExportService) ExportBillsCSV(ctx context.Context, start, end time.Time) ([]byte, error) {
	bills, err := s.billRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Bill No", "Date", "Customer", "Payment Method", "Items", "Sub Total", "Tax", "Total"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range bills {
		bill := &bills[i]
		customer := "Walk-in"
		if bill.Customer != nil {
			customer = bill.Customer.FullName()
		}
		record := []string{
			bill.BillNo,
			bill.BillDate.Format("2006-01-02"),
			customer,
			string(bill.PaymentMethod),
			strconv.Itoa(bill.ItemCount),
			cents(bill.SubTotal),
			cents(bill.Tax),
			cents(bill.Total),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportBillsXLSX writes every bill in the period as an Excel workbook,
// one row per bill with an item detail sheet.
func (s *ExportService) ExportBillsXLSX(ctx context.Context, start, end time.Time) ([]byte, error) {
	bills, err := s.billRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const billsSheet = "Bills"
	const itemsSheet = "Items"

	f.SetSheetName("Sheet1", billsSheet)
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}

	billHeaders := []string{"Bill No", "Date", "Payment Method", "Items", "Sub Total", "Tax", "Total"}
	for col, h := range billHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(billsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	itemHeaders := []string{"Bill No", "Reference No", "Title", "Unit Price", "Quantity", "Total"}
	for col, h := range itemHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(itemsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	itemRow := 2
	for i := range bills {
		bill := &bills[i]
		values := []interface{}{
			bill.BillNo,
			bill.BillDate.Format("2006-01-02"),
			string(bill.PaymentMethod),
			bill.ItemCount,
			float64(bill.SubTotal) / 100,
			float64(bill.Tax) / 100,
			float64(bill.Total) / 100,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(billsSheet, cell, v); err != nil {
				return nil, err
			}
		}

		for j := range bill.Items {
			item := &bill.Items[j]
			itemValues := []interface{}{
				bill.BillNo,
				item.ReferenceNo,
				item.Title,
				float64(item.UnitPrice) / 100,
				item.Quantity,
				float64(item.Total) / 100,
			}
			for col, v := range itemValues {
				cell, _ := excelize.CoordinatesToCellName(col+1, itemRow)
				if err := f.SetCellValue(itemsSheet, cell, v); err != nil {
					return nil, err
				}
			}
			itemRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportBooksCSV writes the full catalog as CSV.
func (s *ExportService) ExportBooksCSV(ctx context.Context) ([]byte, error) {
	books, err := s.bookRepo.ListSellable(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Reference No", "Title", "Author", "Price", "Offer Price", "Stock", "Status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range books {
		book := &books[i]
		record := []string{
			book.ReferenceNo,
			book.Title,
			book.Author,
			cents(book.Price),
			cents(book.OfferPrice),
			strconv.Itoa(book.Stock),
			string(book.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename builds a timestamped download name like
// bills-2006-01-02.csv.
func ExportFilename(prefix, ext string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, time.Now().Format("2006-01-02"), ext)
}
