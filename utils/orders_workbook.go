package utils

import (
	"fmt"
	"io"
	"time"

	"github.com/Govind-619/Storefront/models"
	"github.com/tealeg/xlsx"
)

func boldStyle() *xlsx.Style {
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	return style
}

// RenderOrdersWorkbook writes an xlsx sheet of orders followed by a summary block
func RenderOrdersWorkbook(w io.Writer, orders []models.Order, from, to time.Time) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	title := sheet.AddRow()
	title.AddCell().SetString(StoreName + " - Orders")
	title.Cells[0].SetStyle(boldStyle())
	sheet.AddRow().AddCell().SetString("Period: " + from.Format("2006-01-02") + " to " + to.Format("2006-01-02"))
	sheet.AddRow()

	headers := []string{"Order Code", "Date", "Customer", "Phone", "Province", "Items", "Subtotal", "Discount", "Total", "Coupon", "Payment Method", "Payment Status", "Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(boldStyle())
	}

	var revenue, discounts int64
	var units int
	cancelled := 0
	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(order.OrderCode)
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(order.Customer.FullName)
		row.AddCell().SetString(order.Customer.Phone)
		row.AddCell().SetString(order.Customer.Province)
		qty := 0
		for _, it := range order.Items {
			qty += it.Quantity
		}
		row.AddCell().SetInt(qty)
		row.AddCell().SetInt64(order.Subtotal)
		row.AddCell().SetInt64(order.Discount)
		row.AddCell().SetInt64(order.Total)
		row.AddCell().SetString(order.CouponCode)
		row.AddCell().SetString(order.PaymentMethod)
		row.AddCell().SetString(order.PaymentStatus)
		row.AddCell().SetString(order.Status)

		if order.Status == models.OrderStatusCancelled {
			cancelled++
			continue
		}
		revenue += order.Total
		discounts += order.Discount
		units += qty
	}

	sheet.AddRow()
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	summaryRow.Cells[0].SetStyle(boldStyle())

	summaryData := [][]string{
		{"Orders", fmt.Sprintf("%d", len(orders))},
		{"Cancelled", fmt.Sprintf("%d", cancelled)},
		{"Units Sold", fmt.Sprintf("%d", units)},
		{"Revenue", FormatMoney(revenue, "")},
		{"Discounts", FormatMoney(discounts, "")},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
