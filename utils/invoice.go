package utils

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Govind-619/Storefront/models"
	"github.com/jung-kurt/gofpdf"
)

// StoreName is printed on invoices and workbooks
const StoreName = "Storefront"

// FormatMoney groups thousands with dots and appends the currency, e.g. "180.000 VND"
func FormatMoney(amount int64, currency string) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i])
	}
	s := string(out)
	if neg {
		s = "-" + s
	}
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// RenderInvoice draws a one-page A4 invoice for the order
func RenderInvoice(order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, StoreName)
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(60, 8, "Order: "+order.OrderCode)
	pdf.Cell(60, 8, "Date: "+order.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(8)
	pdf.Cell(60, 8, "Payment: "+order.PaymentMethod+" ("+order.PaymentStatus+")")
	pdf.Cell(60, 8, "Status: "+order.Status)
	pdf.Ln(10)

	cust := order.Customer
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Ship To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, tr(cust.FullName))
	pdf.Ln(6)
	pdf.Cell(100, 8, "Phone: "+cust.Phone)
	pdf.Ln(6)
	if cust.Email != "" {
		pdf.Cell(100, 8, cust.Email)
		pdf.Ln(6)
	}
	pdf.Cell(100, 8, tr(cust.Address+", "+cust.District+", "+cust.Province))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(80, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		pdf.CellFormat(80, 8, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, FormatMoney(item.Price, ""), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, FormatMoney(item.LineTotal(), ""), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	summary := []struct {
		label string
		value int64
	}{
		{"Subtotal:", order.Subtotal},
		{"Discount:", order.Discount},
		{"Total:", order.Total},
	}
	for i, row := range summary {
		style := ""
		if i == len(summary)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(140, 8, row.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", style, 12)
		pdf.CellFormat(40, 8, FormatMoney(row.value, order.Currency), "", 1, "R", false, 0, "")
	}
	if order.CouponCode != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 8, fmt.Sprintf("Coupon %s applied", order.CouponCode))
		pdf.Ln(6)
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for shopping with "+StoreName+"!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", order.OrderCode, err)
	}
	return buf.Bytes(), nil
}
